package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/internal/storage"
	"pdf-rag-platform/internal/telemetry"
	"pdf-rag-platform/models"
	"pdf-rag-platform/utils"
)

// RunRecorder persists the audit record of one ingestion run.
type RunRecorder interface {
	Save(ctx context.Context, run *models.IngestionRun) error
}

// IngestionService drives the per-document pipeline: fetch the PDF,
// extract page text, screen each page for PII, enrich and index what
// passes. A page that fails the PII screen is skipped and counted; a
// scanner inference failure aborts the whole document so no page is
// ever indexed on an unverified screen.
type IngestionService struct {
	resolver  *storage.Resolver
	extractor PageExtractor
	scanner   TextScanner
	enricher  PageEnricher
	indexer   RecordIndexer
	runs      RunRecorder
	threshold float64
	metrics   *telemetry.Metrics
	indexName string
}

func NewIngestionService(
	resolver *storage.Resolver,
	extractor PageExtractor,
	scanner TextScanner,
	enricher PageEnricher,
	indexer RecordIndexer,
	runs RunRecorder,
	threshold float64,
	metrics *telemetry.Metrics,
	indexName string,
) *IngestionService {
	if threshold <= 0 {
		threshold = DefaultPIIThreshold
	}
	return &IngestionService{
		resolver:  resolver,
		extractor: extractor,
		scanner:   scanner,
		enricher:  enricher,
		indexer:   indexer,
		runs:      runs,
		threshold: threshold,
		metrics:   metrics,
		indexName: indexName,
	}
}

// Ingest processes one PDF end to end and returns per-run statistics.
// Document-level failures (missing file, unreadable PDF, scanner
// outage) are returned as errors with a failed run recorded; per-page
// PII findings only shrink the indexed set.
func (s *IngestionService) Ingest(ctx context.Context, req models.IngestRequest) (*models.IngestResponse, error) {
	tracer := otel.Tracer("ingestion-service")
	ctx, span := tracer.Start(ctx, "ingestion.run")
	span.SetAttributes(
		attribute.String("document.unique_id", req.UniqueID),
		attribute.String("document.file_path", req.SourceLocator),
	)
	defer span.End()

	startedAt := time.Now()
	run := models.IngestionRun{
		UniqueID:    req.UniqueID,
		SourcePath:  req.SourceLocator,
		StorageKind: req.StorageKind,
		StartedAt:   startedAt,
	}

	stats := models.PiiStats{}
	processed := 0

	fail := func(err error) (*models.IngestResponse, error) {
		run.Status = models.RunFailed
		run.Error = err.Error()
		run.PagesProcessed = processed
		run.Stats = stats
		run.FinishedAt = time.Now()
		s.recordRun(ctx, &run)
		if s.metrics != nil {
			s.metrics.RecordIngestion(time.Since(startedAt).Seconds(), models.RunFailed)
		}
		return nil, err
	}

	store, err := s.resolver.For(req.StorageKind)
	if err != nil {
		return fail(&FatalInputError{SourcePath: req.SourceLocator, Err: err})
	}

	content, err := store.Fetch(ctx, req.SourceLocator)
	if err != nil {
		return fail(&FatalInputError{SourcePath: req.SourceLocator, Err: err})
	}

	pages, err := s.extractor.ExtractPages(content)
	if err != nil {
		return fail(&FatalInputError{SourcePath: req.SourceLocator, Err: fmt.Errorf("pdf extraction failed: %w", err)})
	}

	if err := s.indexer.EnsureIndex(ctx); err != nil {
		return fail(err)
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("ingestion canceled at %s: %w", models.PageLabelFor(page.Number), err))
		}

		stats.TotalPages++
		label := models.PageLabelFor(page.Number)

		safe, message, entities, err := s.scanner.Explain(ctx, page.Text, s.threshold)
		if err != nil {
			// Inference failure means the page cannot be verified
			// clean. Abort rather than index on a guess.
			return fail(fmt.Errorf("pii scan failed on %s: %w", label, err))
		}
		if !safe {
			stats.PagesWithPii++
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("%s: %s", label, message))
			logger.Warn("page skipped, potential PII detected",
				"unique_id", req.UniqueID, "source", req.SourceLocator,
				"page", label, "entities", len(entities))
			if s.metrics != nil {
				s.metrics.RecordPiiBlocked(s.indexName)
			}
			continue
		}

		enrichment, err := s.enricher.Augment(ctx, page.Text, PageMeta{
			UniqueID:   req.UniqueID,
			SourcePath: req.SourceLocator,
			PageLabel:  label,
		})
		if err != nil {
			return fail(fmt.Errorf("enrichment refused %s: %w", label, err))
		}

		compressed, algorithm, err := utils.CompressText(page.Text)
		if err != nil {
			logger.Warn("page text compression failed, storing uncompressed",
				"page", label, "error", err)
			compressed = []byte(page.Text)
			algorithm = utils.CompressionNone
		}

		record := models.PageRecord{
			UniqueID:        req.UniqueID,
			SourcePath:      req.SourceLocator,
			PageLabel:       label,
			CompressedText:  compressed,
			Compression:     algorithm,
			EnrichedSummary: enrichment.Summary,
			ContainsPII:     false,
			IndexedAt:       time.Now(),
		}

		result, err := s.indexer.Insert(ctx, &record)
		if err != nil {
			return fail(fmt.Errorf("failed to index %s: %w", label, err))
		}
		processed++
		if s.metrics != nil {
			s.metrics.RecordPageIndexed(s.indexName)
		}
		logger.Debug("page indexed",
			"unique_id", req.UniqueID, "page", label,
			"id", result.ID, "degraded", result.Degraded || enrichment.Degraded)
	}

	run.Status = models.RunCompleted
	run.PagesProcessed = processed
	run.Stats = stats
	run.FinishedAt = time.Now()
	s.recordRun(ctx, &run)

	if s.metrics != nil {
		s.metrics.RecordIngestion(time.Since(startedAt).Seconds(), models.RunCompleted)
	}
	logger.Info("document ingestion complete",
		"unique_id", req.UniqueID, "source", req.SourceLocator,
		"pages_processed", processed,
		"pages_with_pii", stats.PagesWithPii,
		"elapsed", time.Since(startedAt).String())

	return &models.IngestResponse{PagesProcessed: processed, Stats: stats}, nil
}

func (s *IngestionService) recordRun(ctx context.Context, run *models.IngestionRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(ctx, run); err != nil {
		logger.Error("failed to record ingestion run",
			"unique_id", run.UniqueID, "error", err)
	}
}
