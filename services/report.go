package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/models"
)

// RunLister reads back persisted ingestion runs.
type RunLister interface {
	Recent(ctx context.Context, limit int64) ([]models.IngestionRun, error)
	Since(ctx context.Context, cutoff time.Time) ([]models.IngestionRun, error)
}

// ReportService renders the ingestion audit trail as an Excel
// workbook for operators.
type ReportService struct {
	runs RunLister
}

func NewReportService(runs RunLister) *ReportService {
	return &ReportService{runs: runs}
}

// ReportResult carries the rendered workbook and its row count.
type ReportResult struct {
	Content     []byte
	RecordCount int
}

// GenerateReport renders the newest runs, one row per run, with a
// summary sheet of aggregate PII counts.
func (rs *ReportService) GenerateReport(ctx context.Context, limit int64) (*ReportResult, error) {
	if limit <= 0 {
		limit = 1000
	}

	runs, err := rs.runs.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ingestion runs: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close report workbook", "error", err)
		}
	}()

	sheetName := "Ingestion Runs"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Unique ID", "File Path", "Storage", "Pages Processed",
		"Total Pages", "Pages With PII", "Status", "Error",
		"Started At", "Duration",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	totalDocs := 0
	totalPages := 0
	totalPiiPages := 0
	failedRuns := 0

	for rowIdx, run := range runs {
		row := rowIdx + 2

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), run.UniqueID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), run.SourcePath)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), run.StorageKind)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), run.PagesProcessed)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), run.Stats.TotalPages)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), run.Stats.PagesWithPii)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), run.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), run.Error)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), run.StartedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), run.FinishedAt.Sub(run.StartedAt).String())

		totalDocs++
		totalPages += run.Stats.TotalPages
		totalPiiPages += run.Stats.PagesWithPii
		if run.Status == models.RunFailed {
			failedRuns++
		}
	}

	for i := 0; i < len(headers); i++ {
		col := fmt.Sprintf("%c:%c", 'A'+i, 'A'+i)
		f.SetColWidth(sheetName, col, col, 18)
	}

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	piiRatio := 0.0
	if totalPages > 0 {
		piiRatio = float64(totalPiiPages) / float64(totalPages)
	}

	summaryData := [][]interface{}{
		{"Report Generated", time.Now().Format("2006-01-02 15:04:05")},
		{"Documents Ingested", totalDocs},
		{"Failed Runs", failedRuns},
		{"Total Pages Seen", totalPages},
		{"Pages Blocked For PII", totalPiiPages},
		{"PII Page Ratio", fmt.Sprintf("%.4f", piiRatio)},
	}
	for i, row := range summaryData {
		for j, cell := range row {
			cellRef := fmt.Sprintf("%c%d", 'A'+j, i+1)
			f.SetCellValue(summarySheet, cellRef, cell)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report workbook: %w", err)
	}

	return &ReportResult{Content: buf.Bytes(), RecordCount: totalDocs}, nil
}
