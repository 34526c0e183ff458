package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/internal/telemetry"
	"pdf-rag-platform/models"
)

// SummaryQuestion is the fixed question used for document summaries.
const SummaryQuestion = "Describe each of these pages from the document. What is happening on each page?"

// QueryService answers questions over indexed pages: screen the
// question for PII, retrieve the most relevant pages for the given
// scopes, and ask the chat model to answer from that context alone.
type QueryService struct {
	scanner   TextScanner
	retriever SimilaritySearcher
	chat      ChatModel
	cache     *AnswerCache
	index     VectorIndex
	indexName string
	threshold float64
	searchK   int
	metrics   *telemetry.Metrics
}

func NewQueryService(
	scanner TextScanner,
	retriever SimilaritySearcher,
	chat ChatModel,
	cache *AnswerCache,
	index VectorIndex,
	indexName string,
	threshold float64,
	searchK int,
	metrics *telemetry.Metrics,
) *QueryService {
	if threshold <= 0 {
		threshold = DefaultPIIThreshold
	}
	if searchK <= 0 {
		searchK = 100
	}
	return &QueryService{
		scanner:   scanner,
		retriever: retriever,
		chat:      chat,
		cache:     cache,
		index:     index,
		indexName: indexName,
		threshold: threshold,
		searchK:   searchK,
		metrics:   metrics,
	}
}

// Answer handles one chat request. A question that fails the PII
// screen is rejected before any retrieval happens; retrieval that
// finds nothing still goes to the model, which answers from an empty
// context.
func (qs *QueryService) Answer(ctx context.Context, req models.ChatRequest) (string, error) {
	tracer := otel.Tracer("query-service")
	ctx, span := tracer.Start(ctx, "query.answer")
	span.SetAttributes(attribute.Int("query.scopes", len(req.ScopeIDs)))
	defer span.End()

	safe, message, entities, err := qs.scanner.Explain(ctx, req.Question, qs.threshold)
	if err != nil {
		return "", fmt.Errorf("question screening failed: %w", err)
	}
	if !safe {
		return "", &PolicyRejectionError{Message: message, Entities: entities}
	}

	if answer, ok := qs.cache.Get(ctx, req.ScopeIDs, req.Question); ok {
		logger.Debug("answer served from cache", "scopes", len(req.ScopeIDs))
		return answer, nil
	}

	hits, err := qs.retriever.Search(ctx, req.Question, qs.searchK, req.ScopeIDs)
	if err != nil {
		return "", err
	}

	start := time.Now()
	answer, err := qs.chat.Generate(ctx, req.ModelID, buildAnswerPrompt(req.Question, hits))
	if qs.metrics != nil {
		qs.metrics.RecordChatLatency(time.Since(start).Seconds(), req.ModelID)
	}
	if err != nil {
		logger.Error("chat model invocation failed", "model", req.ModelID, "error", err)
		return "", fmt.Errorf("failed to generate an answer")
	}

	qs.cache.Set(ctx, req.ScopeIDs, req.Question, answer)
	return answer, nil
}

// Summarize describes everything indexed under the given scopes using
// a fixed question through the normal answer path.
func (qs *QueryService) Summarize(ctx context.Context, scopeIDs []string) (string, error) {
	return qs.Answer(ctx, models.ChatRequest{
		ScopeIDs: scopeIDs,
		Question: SummaryQuestion,
	})
}

// ListDocuments returns the distinct source paths indexed under the
// given scopes.
func (qs *QueryService) ListDocuments(ctx context.Context, scopeIDs []string) ([]string, error) {
	return qs.index.DistinctSources(ctx, qs.indexName, scopeIDs)
}

func buildAnswerPrompt(question string, hits []models.ScoredPage) string {
	var contextBlock strings.Builder
	for i, hit := range hits {
		fmt.Fprintf(&contextBlock, "\nDocument %d:\n", i+1)
		fmt.Fprintf(&contextBlock, "Source: %s\n", hit.Record.SourcePath)
		fmt.Fprintf(&contextBlock, "Page: %s\n", hit.Record.PageLabel)
		fmt.Fprintf(&contextBlock, "Content: %s\n", hit.Record.EnrichedSummary)
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions based on the provided documents.

CONTEXT:
%s

QUESTION:
%s

Please provide a comprehensive answer based only on the information in the provided documents.
If the answer cannot be determined from the context, politely say so.`, contextBlock.String(), question)
}
