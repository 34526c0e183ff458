package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/internal/queue"
	"pdf-rag-platform/models"
	"pdf-rag-platform/services"
	"pdf-rag-platform/utils"
)

// HandleIngestPDF ingests one PDF synchronously and returns its
// per-run PII statistics.
func HandleIngestPDF(ingestion *services.IngestionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.IngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid ingestion request", err.Error())
			return
		}

		resp, err := ingestion.Ingest(c.Request.Context(), req)
		if err != nil {
			var fatal *services.FatalInputError
			if errors.As(err, &fatal) {
				utils.RespondWithBadRequest(c, "Document could not be processed", err.Error())
				return
			}
			logger.Error("ingestion failed", "unique_id", req.UniqueID, "error", err)
			utils.RespondWithInternalError(c, "Ingestion failed", nil)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// HandleDeletePDF removes every indexed page of one source document.
func HandleDeletePDF(cleanup *services.CleanupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid delete request", err.Error())
			return
		}

		deleted := cleanup.DeleteDocument(c.Request.Context(), req.SourceLocator)
		c.JSON(http.StatusOK, gin.H{
			"file_path":     req.SourceLocator,
			"pages_removed": deleted,
		})
	}
}

// HandleListDocs returns the distinct source files indexed under the
// requested scopes.
func HandleListDocs(query *services.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ListDocsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid list request", err.Error())
			return
		}

		docs, err := query.ListDocuments(c.Request.Context(), req.ScopeIDs)
		if err != nil {
			logger.Error("document listing failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}
		if docs == nil {
			docs = []string{}
		}

		c.JSON(http.StatusOK, gin.H{"documents": docs})
	}
}

// HandleBulkIngest enqueues one ingestion task per file and returns
// immediately.
func HandleBulkIngest(queueClient *queue.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid bulk request", err.Error())
			return
		}

		enqueued := 0
		for _, filePath := range req.FilePaths {
			if err := queueClient.EnqueueIngest(req.UniqueID, filePath, req.StorageKind); err != nil {
				logger.Error("failed to enqueue bulk ingestion",
					"unique_id", req.UniqueID, "file_path", filePath, "error", err)
				continue
			}
			enqueued++
		}

		c.JSON(http.StatusAccepted, models.BulkResponse{
			Message:        "Processing files in the background",
			FilesToProcess: enqueued,
		})
	}
}

// HandleBulkDelete enqueues one deletion task per file.
func HandleBulkDelete(queueClient *queue.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid bulk request", err.Error())
			return
		}

		for _, filePath := range req.FilePaths {
			if err := queueClient.EnqueueDelete(filePath); err != nil {
				logger.Error("failed to enqueue bulk deletion",
					"file_path", filePath, "error", err)
			}
		}

		c.JSON(http.StatusAccepted, gin.H{"message": "Processing in the background"})
	}
}

// manifestFiles reads an uploaded JSON manifest, a list of
// {"name": "path.pdf"} entries, and returns the file names.
func manifestFiles(c *gin.Context) (string, []string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithBadRequest(c, "No manifest file provided", nil)
		return "", nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.RespondWithBadRequest(c, "Cannot open manifest file", nil)
		return "", nil, false
	}
	defer f.Close()

	var entries []models.ManifestEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		utils.RespondWithBadRequest(c, "Manifest is not valid JSON", err.Error())
		return "", nil, false
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name != "" {
			files = append(files, entry.Name)
		}
	}
	return fileHeader.Filename, files, true
}

// HandleManifestIngest enqueues ingestion for every file named in an
// uploaded manifest. The manifest filename becomes the scope ID.
func HandleManifestIngest(queueClient *queue.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		uniqueID, files, ok := manifestFiles(c)
		if !ok {
			return
		}

		for _, filePath := range files {
			if err := queueClient.EnqueueIngest(uniqueID, filePath, models.StorageLocal); err != nil {
				logger.Error("failed to enqueue manifest ingestion",
					"unique_id", uniqueID, "file_path", filePath, "error", err)
			}
		}

		c.JSON(http.StatusAccepted, gin.H{"unique_id": uniqueID, "files_to_process": len(files)})
	}
}

// HandleManifestDelete enqueues deletion for every file named in an
// uploaded manifest.
func HandleManifestDelete(queueClient *queue.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		uniqueID, files, ok := manifestFiles(c)
		if !ok {
			return
		}

		for _, filePath := range files {
			if err := queueClient.EnqueueDelete(filePath); err != nil {
				logger.Error("failed to enqueue manifest deletion",
					"file_path", filePath, "error", err)
			}
		}

		c.JSON(http.StatusAccepted, gin.H{"unique_id": uniqueID})
	}
}
