package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"pdf-rag-platform/internal/logger"
	"pdf-rag-platform/models"
	"pdf-rag-platform/services"
)

const (
	TaskIngestPDF = "pdf:ingest"
	TaskDeletePDF = "pdf:delete"
)

type IngestPayload struct {
	UniqueID    string `json:"unique_id"`
	FilePath    string `json:"file_path"`
	StorageKind string `json:"storage_kind"`
}

type DeletePayload struct {
	FilePath string `json:"file_path"`
}

// Task creators
func NewIngestTask(uniqueID, filePath, storageKind string) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestPayload{
		UniqueID:    uniqueID,
		FilePath:    filePath,
		StorageKind: storageKind,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestPDF,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(15*time.Minute),
		asynq.Queue("critical"),
	), nil
}

func NewDeleteTask(filePath string) (*asynq.Task, error) {
	payload, err := json.Marshal(DeletePayload{FilePath: filePath})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDeletePDF,
		payload,
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
		asynq.Queue("default"),
	), nil
}

// Task handlers
type TaskProcessor struct {
	ingestion *services.IngestionService
	cleanup   *services.CleanupService
}

func NewTaskProcessor(ingestion *services.IngestionService, cleanup *services.CleanupService) *TaskProcessor {
	return &TaskProcessor{ingestion: ingestion, cleanup: cleanup}
}

func (p *TaskProcessor) ProcessIngest(ctx context.Context, t *asynq.Task) error {
	var payload IngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("processing ingestion task",
		"unique_id", payload.UniqueID, "file_path", payload.FilePath)

	resp, err := p.ingestion.Ingest(ctx, models.IngestRequest{
		UniqueID:      payload.UniqueID,
		SourceLocator: payload.FilePath,
		StorageKind:   payload.StorageKind,
	})
	if err != nil {
		// A broken or missing PDF will not fix itself on retry.
		var fatal *services.FatalInputError
		if errors.As(err, &fatal) {
			logger.Error("ingestion task failed permanently",
				"unique_id", payload.UniqueID, "file_path", payload.FilePath, "error", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	logger.Info("ingestion task complete",
		"unique_id", payload.UniqueID,
		"pages_processed", resp.PagesProcessed,
		"pages_with_pii", resp.Stats.PagesWithPii)
	return nil
}

func (p *TaskProcessor) ProcessDelete(ctx context.Context, t *asynq.Task) error {
	var payload DeletePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	deleted := p.cleanup.DeleteDocument(ctx, payload.FilePath)
	logger.Info("delete task complete", "file_path", payload.FilePath, "pages_removed", deleted)
	return nil
}

// Client enqueues pipeline tasks for the worker.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, redisPassword string, redisDB int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

func (c *Client) EnqueueIngest(uniqueID, filePath, storageKind string) error {
	task, err := NewIngestTask(uniqueID, filePath, storageKind)
	if err != nil {
		return err
	}
	info, err := c.client.Enqueue(task)
	if err != nil {
		return fmt.Errorf("failed to enqueue ingestion: %w", err)
	}
	logger.Debug("ingestion task enqueued", "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) EnqueueDelete(filePath string) error {
	task, err := NewDeleteTask(filePath)
	if err != nil {
		return err
	}
	if _, err := c.client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue deletion: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
