package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pdf-rag-platform/models"
)

const runsCollection = "ingestion_runs"

// RunStore persists the audit trail of ingestion runs.
type RunStore struct {
	db *mongo.Database
}

func NewRunStore(db *mongo.Database) *RunStore {
	return &RunStore{db: db}
}

// Save writes one finished run. Audit persistence is best effort at
// call sites, so the error is returned for logging rather than to
// fail an otherwise successful ingestion.
func (rs *RunStore) Save(ctx context.Context, run *models.IngestionRun) error {
	if _, err := rs.db.Collection(runsCollection).InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to save ingestion run: %w", err)
	}
	return nil
}

// Recent returns the newest runs, most recent first.
func (rs *RunStore) Recent(ctx context.Context, limit int64) ([]models.IngestionRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := rs.db.Collection(runsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []models.IngestionRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode ingestion runs: %w", err)
	}
	return runs, nil
}

// Since returns every run started at or after the given time.
func (rs *RunStore) Since(ctx context.Context, cutoff time.Time) ([]models.IngestionRun, error) {
	filter := bson.M{"started_at": bson.M{"$gte": cutoff}}
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})

	cursor, err := rs.db.Collection(runsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []models.IngestionRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode ingestion runs: %w", err)
	}
	return runs, nil
}
