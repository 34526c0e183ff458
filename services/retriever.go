package services

import (
	"context"
	"fmt"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/internal/telemetry"
	"pdf-rag-platform/models"
)

// SimilaritySearcher is the retrieval surface the query orchestrator
// depends on.
type SimilaritySearcher interface {
	Search(ctx context.Context, queryText string, k int, scopeIDs []string) ([]models.ScoredPage, error)
}

// Retriever embeds a query and runs a similarity search against the
// index, preferring the native k-NN path and falling back to the
// client-side scoring scan. Backend failure on both paths yields an
// empty result, not an error; results and their order come straight
// from the store, descending by score.
type Retriever struct {
	index    VectorIndex
	embedder Embedder
	name     string
	metrics  *telemetry.Metrics
}

func NewRetriever(index VectorIndex, embedder Embedder, name string, metrics *telemetry.Metrics) *Retriever {
	return &Retriever{index: index, embedder: embedder, name: name, metrics: metrics}
}

// Search returns up to k pages relevant to queryText within the given
// scopes. Only an embedding failure is an error, since without a
// query vector there is nothing to search with.
func (r *Retriever) Search(ctx context.Context, queryText string, k int, scopeIDs []string) ([]models.ScoredPage, error) {
	if k <= 0 {
		k = 10
	}

	vector, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	variant, err := r.index.ActiveVariant(ctx, r.name)
	if err != nil {
		logger.Warn("could not determine index schema variant, assuming native", "index", r.name, "error", err)
		variant = models.VariantKNN
	}

	if variant != models.VariantScored {
		hits, err := r.index.KNNQuery(ctx, r.name, vector, k, scopeIDs)
		if err == nil {
			return hits, nil
		}
		logger.Warn("k-NN query failed, falling back to score scan", "index", r.name, "error", err)
		if r.metrics != nil {
			r.metrics.RecordSearchFallback(r.name)
		}
	}

	hits, err := r.index.ScoreScan(ctx, r.name, vector, k, scopeIDs)
	if err != nil {
		// Callers treat "no results" and "search error" identically;
		// the failure is observable in logs and metrics only.
		logger.Error("similarity search failed on both paths", "index", r.name, "error", err)
		return []models.ScoredPage{}, nil
	}
	return hits, nil
}
