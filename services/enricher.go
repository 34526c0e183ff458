package services

import (
	"context"
	"fmt"
	"time"

	"pdf-rag-platform/internal/logger"
)

// EnrichmentFailedSummary is stored when the chat model could not be
// reached; the page is still indexed with this degraded summary.
const EnrichmentFailedSummary = "Error: enrichment failed"

// PageMeta is the metadata a page carries into enrichment.
type PageMeta struct {
	UniqueID   string
	SourcePath string
	PageLabel  string
	PIIWarning string
}

// EnrichmentResult distinguishes a full success from the degraded
// placeholder path so callers and tests can tell them apart.
type EnrichmentResult struct {
	Summary  string
	Degraded bool
	Elapsed  time.Duration
}

// PageEnricher synthesizes descriptive metadata for one page's text.
type PageEnricher interface {
	Augment(ctx context.Context, pageText string, meta PageMeta) (EnrichmentResult, error)
}

// Enricher calls the chat model once per page with a fixed prompt and
// keeps the response as an opaque text blob.
type Enricher struct {
	chat    ChatModel
	modelID string
}

func NewEnricher(chat ChatModel, modelID string) *Enricher {
	return &Enricher{chat: chat, modelID: modelID}
}

// Augment generates a descriptive summary for the page. A model
// failure is not an error: the degraded placeholder is returned and
// ingestion continues. Text already flagged for PII must never reach
// the model; that precondition violation is an error.
func (e *Enricher) Augment(ctx context.Context, pageText string, meta PageMeta) (EnrichmentResult, error) {
	if meta.PIIWarning != "" {
		return EnrichmentResult{}, fmt.Errorf("refusing to enrich content flagged for PII: %s", meta.PIIWarning)
	}

	start := time.Now()
	prompt := buildEnrichmentPrompt(pageText, meta)

	response, err := e.chat.Generate(ctx, e.modelID, prompt)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("page enrichment failed",
			"source", meta.SourcePath,
			"page", meta.PageLabel,
			"elapsed", elapsed.String(),
			"error", err)
		return EnrichmentResult{Summary: EnrichmentFailedSummary, Degraded: true, Elapsed: elapsed}, nil
	}

	logger.Debug("page enrichment completed",
		"source", meta.SourcePath,
		"page", meta.PageLabel,
		"elapsed", elapsed.String())

	return EnrichmentResult{Summary: response, Elapsed: elapsed}, nil
}

func buildEnrichmentPrompt(pageText string, meta PageMeta) string {
	return fmt.Sprintf("Add to the metadata of a PDF file based on this page content of the file. "+
		"The metadata you generate will be indexed into a search index. "+
		"Put all descriptive data into the values section of the metadata. "+
		"The existing metadata is {unique_id: %s, file_path: %s}. "+
		"The content of the page is: \n\n%s\n\n"+
		"Only return a JSON object with the additional keys and values.",
		meta.UniqueID, meta.SourcePath, pageText)
}
