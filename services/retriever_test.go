package services

import (
	"context"
	"testing"

	"pdf-rag-platform/models"
)

func TestSearchPrefersNativeKNN(t *testing.T) {
	hits := []models.ScoredPage{{Record: models.PageRecord{UniqueID: "doc-1"}, Score: 1.9}}
	index := &fakeIndex{variant: models.VariantKNN, knnHits: hits}
	r := NewRetriever(index, &fakeEmbedder{dim: 3, vec: []float32{1, 0, 0}}, "doc_pages", nil)

	got, err := r.Search(context.Background(), "what is in doc-1?", 5, []string{"doc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Record.UniqueID != "doc-1" {
		t.Fatalf("unexpected hits: %v", got)
	}
	if index.scanCalls != 0 {
		t.Fatal("score scan should not run when the native query succeeds")
	}
}

func TestSearchFallsBackToScoreScan(t *testing.T) {
	hits := []models.ScoredPage{{Record: models.PageRecord{UniqueID: "doc-2"}, Score: 1.4}}
	index := &fakeIndex{variant: models.VariantKNN, knnErr: errBackendDown, scanHits: hits}
	r := NewRetriever(index, &fakeEmbedder{dim: 3, vec: []float32{1, 0, 0}}, "doc_pages", nil)

	got, err := r.Search(context.Background(), "anything", 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Record.UniqueID != "doc-2" {
		t.Fatalf("unexpected hits: %v", got)
	}
	if index.knnCalls != 1 || index.scanCalls != 1 {
		t.Fatalf("expected one call per path, got knn=%d scan=%d", index.knnCalls, index.scanCalls)
	}
}

func TestSearchScoredVariantSkipsKNN(t *testing.T) {
	index := &fakeIndex{variant: models.VariantScored}
	r := NewRetriever(index, &fakeEmbedder{dim: 3, vec: []float32{1, 0, 0}}, "doc_pages", nil)

	if _, err := r.Search(context.Background(), "anything", 5, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.knnCalls != 0 {
		t.Fatal("scored variant must not issue native queries")
	}
	if index.scanCalls != 1 {
		t.Fatalf("expected one scan call, got %d", index.scanCalls)
	}
}

func TestSearchReturnsEmptyWhenBothPathsFail(t *testing.T) {
	index := &fakeIndex{variant: models.VariantKNN, knnErr: errBackendDown, scanErr: errBackendDown}
	r := NewRetriever(index, &fakeEmbedder{dim: 3, vec: []float32{1, 0, 0}}, "doc_pages", nil)

	got, err := r.Search(context.Background(), "anything", 5, nil)
	if err != nil {
		t.Fatalf("search failure must not surface as an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no hits, got %v", got)
	}
}

func TestSearchErrorsWhenQueryEmbeddingFails(t *testing.T) {
	index := &fakeIndex{variant: models.VariantKNN}
	r := NewRetriever(index, &fakeEmbedder{dim: 3, err: errBackendDown}, "doc_pages", nil)

	if _, err := r.Search(context.Background(), "anything", 5, nil); err == nil {
		t.Fatal("expected an error when the query cannot be embedded")
	}
	if index.knnCalls != 0 || index.scanCalls != 0 {
		t.Fatal("no search should run without a query vector")
	}
}
