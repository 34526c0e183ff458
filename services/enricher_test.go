package services

import (
	"context"
	"strings"
	"testing"
)

func TestEnricherAugmentsPage(t *testing.T) {
	chat := &fakeChat{response: `{"topic": "invoices"}`}
	enricher := NewEnricher(chat, "gemini-2.0-flash")

	result, err := enricher.Augment(context.Background(), "Invoice #42 for services rendered", PageMeta{
		UniqueID:   "doc-1",
		SourcePath: "invoices/q1.pdf",
		PageLabel:  "page_1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Degraded {
		t.Fatal("successful enrichment should not be degraded")
	}
	if result.Summary != `{"topic": "invoices"}` {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
	for _, want := range []string{"doc-1", "invoices/q1.pdf", "Invoice #42"} {
		if !strings.Contains(chat.lastPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, chat.lastPrompt)
		}
	}
}

func TestEnricherDegradesOnModelFailure(t *testing.T) {
	chat := &fakeChat{err: errBackendDown}
	enricher := NewEnricher(chat, "gemini-2.0-flash")

	result, err := enricher.Augment(context.Background(), "some page text", PageMeta{PageLabel: "page_1"})
	if err != nil {
		t.Fatalf("model failure should degrade, not error: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if result.Summary != EnrichmentFailedSummary {
		t.Fatalf("unexpected placeholder: %q", result.Summary)
	}
}

func TestEnricherRefusesFlaggedText(t *testing.T) {
	chat := &fakeChat{response: "should never be returned"}
	enricher := NewEnricher(chat, "gemini-2.0-flash")

	_, err := enricher.Augment(context.Background(), "John Smith, SSN 000-00-0000", PageMeta{
		PageLabel:  "page_2",
		PIIWarning: "page_2: Potential PII detected",
	})
	if err == nil {
		t.Fatal("expected an error for flagged text")
	}
	if chat.calls != 0 {
		t.Fatalf("flagged text must not reach the model, got %d calls", chat.calls)
	}
}
