package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pdf-rag-platform/internal/ai"
	"pdf-rag-platform/internal/config"
	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/internal/queue"
	"pdf-rag-platform/internal/storage"
	"pdf-rag-platform/internal/store"
	"pdf-rag-platform/internal/telemetry"
	"pdf-rag-platform/middleware"
	"pdf-rag-platform/routes"
	"pdf-rag-platform/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer("pdf-rag-platform", cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
	}

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// AI providers
	chatModel, err := ai.NewGeminiChat(cfg.GeminiAPIKey, cfg.ChatModel, cfg.GeminiTier, cfg.LLMTimeout)
	if err != nil {
		log.Fatal("Failed to initialize chat model:", err)
	}
	defer chatModel.Close()

	embedder, err := ai.NewGeminiEmbedder(cfg.GeminiAPIKey, cfg.EmbeddingsModel, cfg.VectorDim, cfg.LLMTimeout)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}
	defer embedder.Close()

	tagger := ai.NewHTTPTagger(cfg.PIIEndpoint, cfg.PIIModelName, cfg.PIITimeout)

	// Storage
	local := storage.NewLocalStore(cfg.FileStorageDir, cfg.MaxFileSize)
	remote, err := storage.NewGridFSStore(db, cfg.GridFSBucket)
	if err != nil {
		log.Fatal("Failed to open GridFS bucket:", err)
	}
	resolver := storage.NewResolver(local, remote)

	// Pipeline services
	index := store.NewMongoIndex(db, cfg.CandidateLimit)
	runStore := store.NewRunStore(db)
	scanner := services.NewScanner(tagger)
	extractor := services.NewPDFExtractor()
	enricher := services.NewEnricher(chatModel, cfg.ChatModel)
	indexManager := services.NewIndexManager(index, embedder, cfg.IndexName, metrics)
	retriever := services.NewRetriever(index, embedder, cfg.IndexName, metrics)
	answerCache := services.NewAnswerCache(redisClient, cfg.AnswerCacheTTL)

	ingestion := services.NewIngestionService(resolver, extractor, scanner, enricher,
		indexManager, runStore, cfg.PIIThreshold, metrics, cfg.IndexName)
	querySvc := services.NewQueryService(scanner, retriever, chatModel, answerCache,
		index, cfg.IndexName, cfg.PIIThreshold, cfg.SearchK, metrics)
	cleanup := services.NewCleanupService(index, cfg.IndexName)
	report := services.NewReportService(runStore)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := indexManager.EnsureIndex(startCtx); err != nil {
		startCancel()
		log.Fatal("Failed to set up vector index:", err)
	}
	startCancel()

	queueClient := queue.NewClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer queueClient.Close()

	monitor := services.NewIndexMonitor(index, runStore, cfg.IndexName, cfg.MonitorInterval, cfg.PiiAlertRatio)
	if err := monitor.Start(); err != nil {
		logger.Warn("index monitor disabled", "error", err)
	} else {
		defer monitor.Stop()
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("pdf-rag-platform"))
	router.Use(middleware.RequestID())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Deps{
		Config:    cfg,
		DB:        db,
		Ingestion: ingestion,
		Query:     querySvc,
		Cleanup:   cleanup,
		Report:    report,
		Runs:      runStore,
		Queue:     queueClient,
		Remote:    remote,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "index", cfg.IndexName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server exited")
}
