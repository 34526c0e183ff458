package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create scalar indexes used for scoping, deletion and reporting
	err = createIndexes(client, cfg.DBName, cfg.IndexName)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName, indexName string) error {
	db := client.Database(dbName)

	// Page records: scope filters and delete-by-source queries
	pagesCollection := db.Collection(indexName)
	pageIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "unique_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "file_path", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "unique_id", Value: 1}, {Key: "page_number", Value: 1}},
		},
	}
	_, err := pagesCollection.Indexes().CreateMany(context.Background(), pageIndexes)
	if err != nil {
		return err
	}

	// Ingestion run audit records, newest first for reports
	runsCollection := db.Collection("ingestion_runs")
	runIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "unique_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "started_at", Value: -1}},
		},
	}
	_, err = runsCollection.Indexes().CreateMany(context.Background(), runIndexes)
	if err != nil {
		return err
	}

	// Index metadata: one document per index name
	metaCollection := db.Collection("index_meta")
	metaIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "index_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err = metaCollection.Indexes().CreateMany(context.Background(), metaIndexes)
	if err != nil {
		return err
	}

	return nil
}
