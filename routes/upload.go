package routes

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pdf-rag-platform/internal/config"
	"pdf-rag-platform/internal/queue"
	"pdf-rag-platform/internal/storage"
	"pdf-rag-platform/models"
	"pdf-rag-platform/utils"
)

// HandlePDFUpload accepts a multipart PDF upload, stores it in the
// object store, and enqueues its ingestion. The caller may supply a
// unique_id form field; otherwise one is generated.
func HandlePDFUpload(cfg *config.Config, remote *storage.GridFSStore, queueClient *queue.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if remote == nil {
			utils.RespondWithError(c, http.StatusServiceUnavailable,
				"storage_unavailable", "Remote storage is not configured", nil)
			return
		}

		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			utils.RespondWithBadRequest(c, "File size exceeds maximum limit", nil)
			return
		}

		file, header, err := c.Request.FormFile("pdf")
		if err != nil {
			utils.RespondWithBadRequest(c, "No PDF file provided", nil)
			return
		}
		defer file.Close()

		ct := header.Header.Get("Content-Type")
		if !strings.Contains(ct, "pdf") && !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			utils.RespondWithBadRequest(c, "Only PDF files are allowed", nil)
			return
		}
		if header.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c, "File size exceeds maximum limit", nil)
			return
		}

		// Check the magic bytes before accepting the upload
		headerBuf := make([]byte, 5)
		if _, err := io.ReadFull(file, headerBuf); err != nil {
			utils.RespondWithBadRequest(c, "Cannot read file header", nil)
			return
		}
		if string(headerBuf[:4]) != "%PDF" {
			utils.RespondWithBadRequest(c, "File does not appear to be a valid PDF", nil)
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			utils.RespondWithInternalError(c, "Failed to reset file for saving", nil)
			return
		}

		uniqueID := c.PostForm("unique_id")
		if uniqueID == "" {
			uniqueID = uuid.NewString()
		}

		locator := fmt.Sprintf("%s/%s", uniqueID, header.Filename)
		if err := remote.Store(locator, io.LimitReader(file, cfg.MaxFileSize)); err != nil {
			utils.RespondWithInternalError(c, "Failed to store file", nil)
			return
		}

		if err := queueClient.EnqueueIngest(uniqueID, locator, models.StorageRemote); err != nil {
			utils.RespondWithInternalError(c, "Failed to enqueue processing task", nil)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"message":   "PDF upload accepted for processing",
			"unique_id": uniqueID,
			"file_path": locator,
			"size":      header.Size,
		})
	}
}
