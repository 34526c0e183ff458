package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageRecord is one indexed unit: a single PDF page with its enrichment
// and embedding. Field names mirror the index mapping so a record can be
// round-tripped through the store without translation.
type PageRecord struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UniqueID        string             `bson:"unique_id" json:"unique_id"`
	SourcePath      string             `bson:"file_path" json:"file_path"`
	PageLabel       string             `bson:"page_number" json:"page_number"`
	ExtractedText   string             `bson:"extracted_text,omitempty" json:"-"`
	CompressedText  []byte             `bson:"compressed_text,omitempty" json:"-"`
	Compression     string             `bson:"compression,omitempty" json:"-"`
	EnrichedSummary string             `bson:"llm_generated" json:"llm_generated"`
	ContainsPII     bool               `bson:"contains_pii" json:"contains_pii"`
	Embedding       []float32          `bson:"text_embedding,omitempty" json:"-"`
	IndexedAt       time.Time          `bson:"indexed_at" json:"indexed_at"`
}

// PageLabelFor formats the 1-based page ordinal the way it is stored
// and displayed, e.g. "page_3".
func PageLabelFor(pageNum int) string {
	return fmt.Sprintf("page_%d", pageNum)
}

// ScoredPage is a retrieval hit with its relevance score.
type ScoredPage struct {
	Record PageRecord `json:"record"`
	Score  float64    `json:"score"`
}

// DetectedEntity is a single span flagged by the PII scanner.
type DetectedEntity struct {
	Text       string  `json:"text"`
	Kind       string  `json:"kind"`
	Confidence float64 `json:"confidence"`
}

// PiiStats aggregates PII findings across one ingestion run. It is
// returned to the caller and never persisted beyond the run record.
type PiiStats struct {
	TotalPages   int      `bson:"total_pages" json:"total_pages"`
	PagesWithPii int      `bson:"pages_with_pii" json:"pages_with_pii"`
	Warnings     []string `bson:"warnings,omitempty" json:"warnings,omitempty"`
}

// Index schema variants. The variant chosen at creation time decides
// which query shape the retriever issues.
const (
	VariantKNN    = "knn"    // native vector search index
	VariantScored = "scored" // scalar indexes, client-side cosine scoring
)

// IndexSchema describes the vector index: the embedded field, its
// dimension and similarity metric. Established once at creation time.
type IndexSchema struct {
	VectorField string
	Dimension   int
	Metric      string
}

// DefaultSchema returns the index schema at the given dimension with
// cosine similarity over the text_embedding field.
func DefaultSchema(dimension int) IndexSchema {
	return IndexSchema{
		VectorField: "text_embedding",
		Dimension:   dimension,
		Metric:      "cosine",
	}
}

// Ingestion run status constants.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// IngestionRun is the persisted audit record of one document ingestion.
type IngestionRun struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UniqueID       string             `bson:"unique_id" json:"unique_id"`
	SourcePath     string             `bson:"file_path" json:"file_path"`
	StorageKind    string             `bson:"storage_kind" json:"storage_kind"`
	PagesProcessed int                `bson:"pages_processed" json:"pages_processed"`
	Stats          PiiStats           `bson:"pii_stats" json:"pii_stats"`
	Status         string             `bson:"status" json:"status"`
	Error          string             `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt      time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt     time.Time          `bson:"finished_at" json:"finished_at"`
}
