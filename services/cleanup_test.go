package services

import (
	"context"
	"testing"
)

func TestDeleteDocumentReturnsCount(t *testing.T) {
	index := &fakeIndex{deletedBySource: 7}
	cs := NewCleanupService(index, "doc_pages")

	if got := cs.DeleteDocument(context.Background(), "reports/annual.pdf"); got != 7 {
		t.Fatalf("expected 7 pages removed, got %d", got)
	}
}

func TestDeleteDocumentSwallowsBackendFailure(t *testing.T) {
	index := &fakeIndex{deleteErr: errBackendDown}
	cs := NewCleanupService(index, "doc_pages")

	if got := cs.DeleteDocument(context.Background(), "reports/annual.pdf"); got != 0 {
		t.Fatalf("failed deletion should report zero, got %d", got)
	}
	if got := cs.DeleteScope(context.Background(), "doc-1"); got != 0 {
		t.Fatalf("failed scope deletion should report zero, got %d", got)
	}
}
