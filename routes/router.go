package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"pdf-rag-platform/internal/config"
	"pdf-rag-platform/internal/queue"
	"pdf-rag-platform/internal/storage"
	"pdf-rag-platform/services"
)

// Deps carries the constructed services the handlers close over.
type Deps struct {
	Config    *config.Config
	DB        *mongo.Database
	Ingestion *services.IngestionService
	Query     *services.QueryService
	Cleanup   *services.CleanupService
	Report    *services.ReportService
	Runs      services.RunLister
	Queue     *queue.Client
	Remote    *storage.GridFSStore
}

// SetupRoutes registers every endpoint on the router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", HandleHealth(deps.DB))

	router.POST("/chat", HandleChat(deps.Query))
	router.GET("/summary", HandleSummary(deps.Query))

	router.PUT("/pdf_file", HandleIngestPDF(deps.Ingestion))
	router.DELETE("/pdf_file", HandleDeletePDF(deps.Cleanup))
	router.POST("/pdf_file", HandleListDocs(deps.Query))
	router.POST("/pdf_file/upload", HandlePDFUpload(deps.Config, deps.Remote, deps.Queue))

	router.PUT("/bulk", HandleBulkIngest(deps.Queue))
	router.DELETE("/bulk", HandleBulkDelete(deps.Queue))

	router.PUT("/manifest", HandleManifestIngest(deps.Queue))
	router.DELETE("/manifest", HandleManifestDelete(deps.Queue))

	admin := router.Group("/admin")
	{
		admin.GET("/runs", HandleListRuns(deps.Runs))
		admin.GET("/runs/report", HandleIngestionReport(deps.Report))
	}
}
