package services

import (
	"context"
	"strings"
	"testing"

	"pdf-rag-platform/internal/ai"
)

func TestScannerAllowsNonSensitiveEntities(t *testing.T) {
	tagger := &fakeTagger{entities: []ai.TaggedEntity{
		{Word: "Acme Corp", EntityGroup: "ORG", Score: 0.99},
	}}
	scanner := NewScanner(tagger)

	safe, detected, err := scanner.IsSafe(context.Background(), "Acme Corp quarterly report", DefaultPIIThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !safe {
		t.Fatalf("expected safe, got detections: %v", detected)
	}
}

func TestScannerBlocksHighConfidenceEmail(t *testing.T) {
	tagger := &fakeTagger{entities: []ai.TaggedEntity{
		{Word: "jane@example.com", EntityGroup: "EMAIL_ADDRESS", Score: 0.97},
	}}
	scanner := NewScanner(tagger)

	safe, message, detected, err := scanner.Explain(context.Background(), "contact jane@example.com", DefaultPIIThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if safe {
		t.Fatal("expected unsafe")
	}
	if len(detected) != 1 || detected[0].Kind != "EMAIL_ADDRESS" {
		t.Fatalf("unexpected detections: %v", detected)
	}
	if !strings.Contains(message, "Potential PII detected") {
		t.Fatalf("unexpected message: %q", message)
	}
	if !strings.Contains(message, "jane@example.com") {
		t.Fatalf("message should name the entity: %q", message)
	}
}

func TestScannerThresholdGovernsDetection(t *testing.T) {
	tagger := &fakeTagger{entities: []ai.TaggedEntity{
		{Word: "555-0100", EntityGroup: "PHONE_NUMBER", Score: 0.55},
	}}
	scanner := NewScanner(tagger)

	safe, _, err := scanner.IsSafe(context.Background(), "call 555-0100", 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !safe {
		t.Fatal("entity below threshold should not trip the gate")
	}

	safe, _, err = scanner.IsSafe(context.Background(), "call 555-0100", 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if safe {
		t.Fatal("entity at or above threshold should trip the gate")
	}
}

func TestScannerEmptyTextSkipsInference(t *testing.T) {
	tagger := &fakeTagger{err: errBackendDown}
	scanner := NewScanner(tagger)

	safe, _, err := scanner.IsSafe(context.Background(), "   \n\t ", DefaultPIIThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !safe {
		t.Fatal("blank text should be safe")
	}
	if tagger.calls != 0 {
		t.Fatalf("tagger should not run on blank text, got %d calls", tagger.calls)
	}
}

func TestScannerFailsClosedOnTaggerError(t *testing.T) {
	tagger := &fakeTagger{err: errBackendDown}
	scanner := NewScanner(tagger)

	safe, _, err := scanner.IsSafe(context.Background(), "anything at all", DefaultPIIThreshold)
	if err == nil {
		t.Fatal("expected an error when inference is unavailable")
	}
	if safe {
		t.Fatal("inference failure must never report safe")
	}
}
