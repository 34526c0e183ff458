package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"pdf-rag-platform/internal/ai"
	"pdf-rag-platform/internal/config"
	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/internal/queue"
	"pdf-rag-platform/internal/storage"
	"pdf-rag-platform/internal/store"
	"pdf-rag-platform/internal/telemetry"
	"pdf-rag-platform/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
	}

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.DBName)

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

	local := storage.NewLocalStore(cfg.FileStorageDir, cfg.MaxFileSize)
	remote, err := storage.NewGridFSStore(db, cfg.GridFSBucket)
	if err != nil {
		log.Fatal("Failed to open GridFS bucket:", err)
	}
	resolver := storage.NewResolver(local, remote)

	index := store.NewMongoIndex(db, cfg.CandidateLimit)
	runStore := store.NewRunStore(db)
	scanner := services.NewScanner(tagger)
	extractor := services.NewPDFExtractor()
	enricher := services.NewEnricher(chatModel, cfg.ChatModel)
	indexManager := services.NewIndexManager(index, embedder, cfg.IndexName, metrics)

	ingestion := services.NewIngestionService(resolver, extractor, scanner, enricher,
		indexManager, runStore, cfg.PIIThreshold, metrics, cfg.IndexName)
	cleanup := services.NewCleanupService(index, cfg.IndexName)

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(ingestion, cleanup)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskIngestPDF, processor.ProcessIngest)
	mux.HandleFunc(queue.TaskDeletePDF, processor.ProcessDelete)

	logger.Info("worker starting", "redis", cfg.RedisURL, "concurrency", 10)

	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
