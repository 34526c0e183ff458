package services

import (
	"context"
	"fmt"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/internal/telemetry"
	"pdf-rag-platform/models"
)

// PlaceholderSummary is embedded in place of an empty enriched summary
// so no record is ever indexed with a null embedding source.
const PlaceholderSummary = "placeholder content for document with no text"

// InsertResult reports the stored document id and whether the record
// carries the zero-vector embedding fallback.
type InsertResult struct {
	ID       string
	Degraded bool
}

// RecordIndexer is the index-lifecycle surface the ingestion
// orchestrator depends on.
type RecordIndexer interface {
	EnsureIndex(ctx context.Context) error
	Insert(ctx context.Context, record *models.PageRecord) (InsertResult, error)
}

/// IndexManager owns the vector index lifecycle: idempotent creation
// with schema fallback, and insertion with embedding-failure fallback.
type IndexManager struct {
	index    VectorIndex
	embedder Embedder
	name     string
	schema   models.IndexSchema
	metrics  *telemetry.Metrics
}

func NewIndexManager(index VectorIndex, embedder Embedder, name string, metrics *telemetry.Metrics) *IndexManager {
	return &IndexManager{
		index:    index,
		embedder: embedder,
		name:     name,
		schema:   models.DefaultSchema(embedder.Dimension()),
		metrics:  metrics,
	}
}

// Name returns the managed index name.
func (im *IndexManager) Name() string { return im.name }

// EnsureIndex creates the index if it does not exist, trying the
// primary schema first and falling back to the scored variant. Calling
// it on an existing index is a no-op.
func (im *IndexManager) EnsureIndex(ctx context.Context) error {
	exists, err := im.index.Exists(ctx, im.name)
	if err != nil {
		return fmt.Errorf("index existence check failed: %w", err)
	}
	if exists {
		return nil
	}

	if err := im.index.CreatePrimary(ctx, im.name, im.schema); err == nil {
		logger.Info("index created with native vector search", "index", im.name, "dimension", im.schema.Dimension)
		return im.index.SetVariant(ctx, im.name, models.VariantKNN)
	} else {
		logger.Warn("failed to create index with native vector search, falling back",
			"index", im.name, "error", err)
	}

	if err := im.index.CreateFallback(ctx, im.name, im.schema); err != nil {
		return fmt.Errorf("index creation failed on both schema variants: %w", err)
	}
	logger.Info("index created with client-side scoring fallback", "index", im.name)
	return im.index.SetVariant(ctx, im.name, models.VariantScored)
}

// Insert embeds the record's enriched summary and stores it. An
// embedding failure substitutes a zero-vector of the schema dimension
// and marks the result degraded; the record is still stored and
// reachable by its scalar fields.
func (im *IndexManager) Insert(ctx context.Context, record *models.PageRecord) (InsertResult, error) {
	content := record.EnrichedSummary
	if content == "" {
		logger.Warn("no content to embed, using placeholder text",
			"source", record.SourcePath, "page", record.PageLabel)
		content = PlaceholderSummary
		record.EnrichedSummary = content
	}

	degraded := false
	vector, err := im.embedder.Embed(ctx, content)
	if err != nil || len(vector) == 0 {
		logger.Warn("embedding generation failed, using zero vector",
			"source", record.SourcePath, "page", record.PageLabel,
			"dimension", im.schema.Dimension, "error", err)
		vector = make([]float32, im.schema.Dimension)
		degraded = true
		if im.metrics != nil {
			im.metrics.RecordEmbeddingFailure()
		}
	}
	record.Embedding = vector

	id, err := im.index.Insert(ctx, im.name, *record)
	if err != nil {
		return InsertResult{}, err
	}

	logger.Debug("page record indexed", "index", im.name, "id", id, "degraded", degraded)
	return InsertResult{ID: id, Degraded: degraded}, nil
}
