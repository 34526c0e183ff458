package services

import (
	"context"

	"pdf-rag-platform/internal/logger"
)

// CleanupService removes indexed pages. Deletion is best effort: a
// backend failure is logged and reported as zero pages removed, never
// surfaced as an error to the caller.
type CleanupService struct {
	index VectorIndex
	name  string
}

func NewCleanupService(index VectorIndex, name string) *CleanupService {
	return &CleanupService{index: index, name: name}
}

// DeleteDocument removes every page indexed from one source file.
func (cs *CleanupService) DeleteDocument(ctx context.Context, sourcePath string) int64 {
	deleted, err := cs.index.DeleteBySource(ctx, cs.name, sourcePath)
	if err != nil {
		logger.Error("document deletion failed", "source", sourcePath, "error", err)
		return 0
	}
	logger.Info("document deleted", "source", sourcePath, "pages_removed", deleted)
	return deleted
}

// DeleteScope removes every page indexed under one scope ID.
func (cs *CleanupService) DeleteScope(ctx context.Context, uniqueID string) int64 {
	deleted, err := cs.index.DeleteByScope(ctx, cs.name, uniqueID)
	if err != nil {
		logger.Error("scope deletion failed", "unique_id", uniqueID, "error", err)
		return 0
	}
	logger.Info("scope deleted", "unique_id", uniqueID, "pages_removed", deleted)
	return deleted
}
