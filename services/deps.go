package services

import (
	"context"

	"pdf-rag-platform/internal/ai"
	"pdf-rag-platform/models"
)

// Capability interfaces the pipeline components depend on. Concrete
// providers (Gemini clients, the Mongo index, the HTTP tagger) are
// constructed once at process start and injected; tests substitute
// in-package fakes.

// ChatModel invokes a chat-capable language model. An empty modelID
// selects the provider's default.
type ChatModel interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
}

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// EntityTagger runs token-classification inference over text.
type EntityTagger interface {
	Tag(ctx context.Context, text string) ([]ai.TaggedEntity, error)
}

// TextScanner is the PII gate applied to page text and user questions.
type TextScanner interface {
	IsSafe(ctx context.Context, text string, threshold float64) (bool, []models.DetectedEntity, error)
	Explain(ctx context.Context, text string, threshold float64) (bool, string, []models.DetectedEntity, error)
}

// VectorIndex is the logical contract any document store with k-NN or
// score-based search can satisfy.
type VectorIndex interface {
	Exists(ctx context.Context, name string) (bool, error)
	CreatePrimary(ctx context.Context, name string, schema models.IndexSchema) error
	CreateFallback(ctx context.Context, name string, schema models.IndexSchema) error
	ActiveVariant(ctx context.Context, name string) (string, error)
	SetVariant(ctx context.Context, name, variant string) error
	Insert(ctx context.Context, name string, record models.PageRecord) (string, error)
	KNNQuery(ctx context.Context, name string, vector []float32, k int, scopeIDs []string) ([]models.ScoredPage, error)
	ScoreScan(ctx context.Context, name string, vector []float32, k int, scopeIDs []string) ([]models.ScoredPage, error)
	DeleteBySource(ctx context.Context, name, sourcePath string) (int64, error)
	DeleteByScope(ctx context.Context, name, uniqueID string) (int64, error)
	DistinctSources(ctx context.Context, name string, scopeIDs []string) ([]string, error)
	Count(ctx context.Context, name string) (int64, error)
}
