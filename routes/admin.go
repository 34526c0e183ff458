package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/models"
	"pdf-rag-platform/services"
	"pdf-rag-platform/utils"
)

// HandleHealth reports service liveness and database reachability.
func HandleHealth(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		if err := db.Client().Ping(c.Request.Context(), nil); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HandleListRuns returns the newest ingestion runs as JSON.
func HandleListRuns(runs services.RunLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := int64(100)
		if l, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64); err == nil && l > 0 && l <= 1000 {
			limit = l
		}

		recent, err := runs.Recent(c.Request.Context(), limit)
		if err != nil {
			logger.Error("failed to list ingestion runs", "error", err)
			utils.RespondWithInternalError(c, "Failed to retrieve ingestion runs", nil)
			return
		}
		if recent == nil {
			recent = []models.IngestionRun{}
		}

		c.JSON(http.StatusOK, gin.H{"runs": recent, "count": len(recent)})
	}
}

// HandleIngestionReport streams the ingestion audit trail as an Excel
// workbook.
func HandleIngestionReport(report *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := int64(1000)
		if l, err := strconv.ParseInt(c.DefaultQuery("limit", "1000"), 10, 64); err == nil && l > 0 {
			limit = l
		}

		result, err := report.GenerateReport(c.Request.Context(), limit)
		if err != nil {
			logger.Error("failed to generate ingestion report", "error", err)
			utils.RespondWithInternalError(c, "Failed to generate report", nil)
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=ingestion_report.xlsx")
		c.Header("Content-Length", strconv.Itoa(len(result.Content)))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
	}
}
