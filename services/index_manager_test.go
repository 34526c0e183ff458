package services

import (
	"context"
	"testing"

	"pdf-rag-platform/models"
)

func TestEnsureIndexIsIdempotent(t *testing.T) {
	index := &fakeIndex{exists: true, variant: models.VariantKNN}
	im := NewIndexManager(index, &fakeEmbedder{dim: 4}, "doc_pages", nil)

	if err := im.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.createFallback {
		t.Fatal("existing index must not be recreated")
	}
}

func TestEnsureIndexRecordsPrimaryVariant(t *testing.T) {
	index := &fakeIndex{}
	im := NewIndexManager(index, &fakeEmbedder{dim: 4}, "doc_pages", nil)

	if err := im.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.variant != models.VariantKNN {
		t.Fatalf("expected %q variant, got %q", models.VariantKNN, index.variant)
	}
}

func TestEnsureIndexFallsBackToScoredVariant(t *testing.T) {
	index := &fakeIndex{createPrimaryErr: errBackendDown}
	im := NewIndexManager(index, &fakeEmbedder{dim: 4}, "doc_pages", nil)

	if err := im.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !index.createFallback {
		t.Fatal("fallback schema should be created when the primary fails")
	}
	if index.variant != models.VariantScored {
		t.Fatalf("expected %q variant, got %q", models.VariantScored, index.variant)
	}
}

func TestEnsureIndexErrorsWhenBothSchemasFail(t *testing.T) {
	index := &fakeIndex{createPrimaryErr: errBackendDown, fallbackErr: errBackendDown}
	im := NewIndexManager(index, &fakeEmbedder{dim: 4}, "doc_pages", nil)

	if err := im.EnsureIndex(context.Background()); err == nil {
		t.Fatal("expected an error when no schema can be created")
	}
}

func TestInsertUsesZeroVectorWhenEmbeddingFails(t *testing.T) {
	index := &fakeIndex{}
	im := NewIndexManager(index, &fakeEmbedder{dim: 3, err: errBackendDown}, "doc_pages", nil)

	record := models.PageRecord{UniqueID: "doc-1", PageLabel: "page_1", EnrichedSummary: "a summary"}
	result, err := im.Insert(context.Background(), &record)
	if err != nil {
		t.Fatalf("embedding failure should not fail the insert: %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded insert")
	}
	if len(record.Embedding) != 3 {
		t.Fatalf("zero vector must match the schema dimension, got %d", len(record.Embedding))
	}
	for i, v := range record.Embedding {
		if v != 0 {
			t.Fatalf("expected zero vector, found %f at %d", v, i)
		}
	}
	if len(index.inserted) != 1 {
		t.Fatalf("record should still be indexed, got %d inserts", len(index.inserted))
	}
}

func TestInsertSubstitutesPlaceholderForEmptySummary(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{dim: 3, vec: []float32{0.1, 0.2, 0.3}}
	im := NewIndexManager(index, embedder, "doc_pages", nil)

	record := models.PageRecord{UniqueID: "doc-1", PageLabel: "page_1"}
	result, err := im.Insert(context.Background(), &record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Degraded {
		t.Fatal("placeholder content still embeds normally")
	}
	if record.EnrichedSummary != PlaceholderSummary {
		t.Fatalf("unexpected summary: %q", record.EnrichedSummary)
	}
	if len(index.inserted) != 1 || index.inserted[0].EnrichedSummary != PlaceholderSummary {
		t.Fatal("placeholder should be persisted with the record")
	}
}
