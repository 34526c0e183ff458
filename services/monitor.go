package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/models"
)

// IndexMonitor periodically reports index size and the rolling ratio
// of PII-blocked pages, warning when the ratio crosses the alert
// threshold.
type IndexMonitor struct {
	scheduler  *gocron.Scheduler
	index      VectorIndex
	runs       RunLister
	indexName  string
	interval   time.Duration
	alertRatio float64
}

func NewIndexMonitor(index VectorIndex, runs RunLister, indexName string, interval time.Duration, alertRatio float64) *IndexMonitor {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &IndexMonitor{
		scheduler:  s,
		index:      index,
		runs:       runs,
		indexName:  indexName,
		interval:   interval,
		alertRatio: alertRatio,
	}
}

// Start schedules the check and runs the scheduler in the background.
func (m *IndexMonitor) Start() error {
	if _, err := m.scheduler.Every(m.interval).Tag("index-health").Do(m.check); err != nil {
		return err
	}
	m.scheduler.StartAsync()
	return nil
}

func (m *IndexMonitor) Stop() {
	m.scheduler.Stop()
}

func (m *IndexMonitor) check() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := m.index.Count(ctx, m.indexName)
	if err != nil {
		logger.Warn("index health check failed", "index", m.indexName, "error", err)
		return err
	}

	// Rolling window of twice the check interval, floor one hour, so
	// a single noisy run does not flap the alert.
	window := 2 * m.interval
	if window < time.Hour {
		window = time.Hour
	}

	runs, err := m.runs.Since(ctx, time.Now().Add(-window))
	if err != nil {
		logger.Warn("could not load recent ingestion runs", "error", err)
		return err
	}

	totalPages := 0
	piiPages := 0
	failed := 0
	for _, run := range runs {
		totalPages += run.Stats.TotalPages
		piiPages += run.Stats.PagesWithPii
		if run.Status == models.RunFailed {
			failed++
		}
	}

	ratio := 0.0
	if totalPages > 0 {
		ratio = float64(piiPages) / float64(totalPages)
	}

	if m.alertRatio > 0 && ratio >= m.alertRatio {
		logger.Warn("PII block ratio above alert threshold",
			"index", m.indexName, "ratio", ratio, "threshold", m.alertRatio,
			"pages_seen", totalPages, "pages_blocked", piiPages)
	} else {
		logger.Info("index health",
			"index", m.indexName, "documents", count,
			"recent_runs", len(runs), "recent_failed", failed,
			"pii_ratio", ratio)
	}
	return nil
}
