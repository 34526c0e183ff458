package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	PagesIndexed      metric.Int64Counter
	PiiPagesBlocked   metric.Int64Counter
	EmbeddingFailures metric.Int64Counter
	SearchFallbacks   metric.Int64Counter
	IngestionTime     metric.Float64Histogram
	ChatLatency       metric.Float64Histogram
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("pdf-rag-platform")

	pagesIndexed, err := meter.Int64Counter(
		"ingestion.pages.indexed",
		metric.WithDescription("Pages that passed the PII gate and were indexed"),
	)
	if err != nil {
		return nil, err
	}

	piiPagesBlocked, err := meter.Int64Counter(
		"ingestion.pages.pii_blocked",
		metric.WithDescription("Pages rejected by the PII gate"),
	)
	if err != nil {
		return nil, err
	}

	embeddingFailures, err := meter.Int64Counter(
		"embedding.failures",
		metric.WithDescription("Embedding calls replaced by the zero-vector fallback"),
	)
	if err != nil {
		return nil, err
	}

	searchFallbacks, err := meter.Int64Counter(
		"search.fallbacks",
		metric.WithDescription("Similarity searches that used the score-scan fallback"),
	)
	if err != nil {
		return nil, err
	}

	ingestionTime, err := meter.Float64Histogram(
		"ingestion.duration",
		metric.WithDescription("Document ingestion duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chatLatency, err := meter.Float64Histogram(
		"chat.latency",
		metric.WithDescription("Chat model invocation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PagesIndexed:      pagesIndexed,
		PiiPagesBlocked:   piiPagesBlocked,
		EmbeddingFailures: embeddingFailures,
		SearchFallbacks:   searchFallbacks,
		IngestionTime:     ingestionTime,
		ChatLatency:       chatLatency,
	}, nil
}

// RecordPageIndexed records one indexed page for an index
func (m *Metrics) RecordPageIndexed(indexName string) {
	m.PagesIndexed.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("index.name", indexName),
	))
}

// RecordPiiBlocked records one page rejected by the PII gate
func (m *Metrics) RecordPiiBlocked(indexName string) {
	m.PiiPagesBlocked.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("index.name", indexName),
	))
}

// RecordEmbeddingFailure records one zero-vector fallback
func (m *Metrics) RecordEmbeddingFailure() {
	m.EmbeddingFailures.Add(context.Background(), 1)
}

// RecordSearchFallback records one score-scan fallback query
func (m *Metrics) RecordSearchFallback(indexName string) {
	m.SearchFallbacks.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("index.name", indexName),
	))
}

// RecordIngestion records ingestion duration and outcome
func (m *Metrics) RecordIngestion(duration float64, status string) {
	m.IngestionTime.Record(context.Background(), duration, metric.WithAttributes(
		attribute.String("ingestion.status", status),
	))
}

// RecordChatLatency records one chat model invocation
func (m *Metrics) RecordChatLatency(duration float64, model string) {
	m.ChatLatency.Record(context.Background(), duration, metric.WithAttributes(
		attribute.String("chat.model", model),
	))
}
