package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pdf-rag-platform/models"
)

const vectorIndexName = "vector_index"

// MongoIndex is the MongoDB-backed vector index. The primary schema is
// an Atlas vector search index over the embedding field; the fallback
// schema keeps scalar indexes only and serves similarity queries by
// scoring candidates client-side.
type MongoIndex struct {
	db             *mongo.Database
	candidateLimit int
}

func NewMongoIndex(db *mongo.Database, candidateLimit int) *MongoIndex {
	if candidateLimit <= 0 {
		candidateLimit = 1000
	}
	return &MongoIndex{db: db, candidateLimit: candidateLimit}
}

// Exists reports whether the named index has been created.
func (m *MongoIndex) Exists(ctx context.Context, name string) (bool, error) {
	names, err := m.db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	return len(names) > 0, nil
}

// CreatePrimary creates the collection with a native vector search
// index at the schema's dimension and metric.
func (m *MongoIndex) CreatePrimary(ctx context.Context, name string, schema models.IndexSchema) error {
	if err := m.db.CreateCollection(ctx, name); err != nil {
		if !isNamespaceExists(err) {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	definition := bson.M{
		"fields": []bson.M{
			{
				"type":          "vector",
				"path":          schema.VectorField,
				"numDimensions": schema.Dimension,
				"similarity":    schema.Metric,
			},
			{"type": "filter", "path": "unique_id"},
			{"type": "filter", "path": "file_path"},
		},
	}

	model := mongo.SearchIndexModel{
		Definition: definition,
		Options:    options.SearchIndexes().SetName(vectorIndexName).SetType("vectorSearch"),
	}

	_, err := m.db.Collection(name).SearchIndexes().CreateOne(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to create vector search index on %s: %w", name, err)
	}
	return nil
}

// CreateFallback creates the collection with scalar indexes only.
// Similarity queries against this variant are served by ScoreScan.
func (m *MongoIndex) CreateFallback(ctx context.Context, name string, schema models.IndexSchema) error {
	if err := m.db.CreateCollection(ctx, name); err != nil {
		if !isNamespaceExists(err) {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "unique_id", Value: 1}}},
		{Keys: bson.D{{Key: "file_path", Value: 1}}},
	}
	_, err := m.db.Collection(name).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create fallback indexes on %s: %w", name, err)
	}
	return nil
}

// ActiveVariant returns the schema variant recorded for the index, or
// an empty string when none has been recorded.
func (m *MongoIndex) ActiveVariant(ctx context.Context, name string) (string, error) {
	var meta struct {
		Variant string `bson:"variant"`
	}
	err := m.db.Collection("index_meta").FindOne(ctx, bson.M{"index_name": name}).Decode(&meta)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return meta.Variant, nil
}

// SetVariant records which schema variant succeeded at creation time.
func (m *MongoIndex) SetVariant(ctx context.Context, name, variant string) error {
	_, err := m.db.Collection("index_meta").UpdateOne(ctx,
		bson.M{"index_name": name},
		bson.M{"$set": bson.M{"variant": variant, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Insert stores one page record and returns its generated identifier.
func (m *MongoIndex) Insert(ctx context.Context, name string, record models.PageRecord) (string, error) {
	res, err := m.db.Collection(name).InsertOne(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to index document: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// KNNQuery issues the native vector search pipeline. It only works on
// the primary schema variant.
func (m *MongoIndex) KNNQuery(ctx context.Context, name string, vector []float32, k int, scopeIDs []string) ([]models.ScoredPage, error) {
	search := bson.M{
		"index":         vectorIndexName,
		"path":          "text_embedding",
		"queryVector":   vector,
		"numCandidates": k * 10,
		"limit":         k,
	}
	if len(scopeIDs) > 0 {
		search["filter"] = bson.M{"unique_id": bson.M{"$in": scopeIDs}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: search}},
		{{Key: "$addFields", Value: bson.M{"score": bson.M{"$meta": "vectorSearchScore"}}}},
	}

	cursor, err := m.db.Collection(name).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeScored(ctx, cursor)
}

// ScoreScan serves a similarity query without a vector index: it pulls
// candidates matching the scope filter and computes cosine similarity
// client-side. Results keep document order for equal scores.
func (m *MongoIndex) ScoreScan(ctx context.Context, name string, vector []float32, k int, scopeIDs []string) ([]models.ScoredPage, error) {
	filter := bson.M{}
	if len(scopeIDs) > 0 {
		filter["unique_id"] = bson.M{"$in": scopeIDs}
	}

	opts := options.Find().
		SetLimit(int64(m.candidateLimit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := m.db.Collection(name).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("candidate scan failed: %w", err)
	}
	defer cursor.Close(ctx)

	var hits []models.ScoredPage
	for cursor.Next(ctx) {
		var rec models.PageRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		// Shifted by 1.0 so scores stay nonnegative, matching the
		// scoring used by the primary path's backends.
		score := cosineSimilarity(vector, rec.Embedding) + 1.0
		hits = append(hits, models.ScoredPage{Record: rec, Score: score})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteBySource removes every page record of the given source file.
func (m *MongoIndex) DeleteBySource(ctx context.Context, name, sourcePath string) (int64, error) {
	res, err := m.db.Collection(name).DeleteMany(ctx, bson.M{"file_path": sourcePath})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByScope removes every page record under the given scope id.
func (m *MongoIndex) DeleteByScope(ctx context.Context, name, uniqueID string) (int64, error) {
	res, err := m.db.Collection(name).DeleteMany(ctx, bson.M{"unique_id": uniqueID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DistinctSources lists the source files indexed under the scopes.
func (m *MongoIndex) DistinctSources(ctx context.Context, name string, scopeIDs []string) ([]string, error) {
	filter := bson.M{}
	if len(scopeIDs) > 0 {
		filter["unique_id"] = bson.M{"$in": scopeIDs}
	}
	values, err := m.db.Collection(name).Distinct(ctx, "file_path", filter)
	if err != nil {
		return nil, err
	}
	sources := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			sources = append(sources, s)
		}
	}
	return sources, nil
}

// Count returns the number of records in the index.
func (m *MongoIndex) Count(ctx context.Context, name string) (int64, error) {
	return m.db.Collection(name).CountDocuments(ctx, bson.M{})
}

func decodeScored(ctx context.Context, cursor *mongo.Cursor) ([]models.ScoredPage, error) {
	var hits []models.ScoredPage
	for cursor.Next(ctx) {
		var doc struct {
			Score             float64 `bson:"score"`
			models.PageRecord `bson:",inline"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		hits = append(hits, models.ScoredPage{Record: doc.PageRecord, Score: doc.Score})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 48 // NamespaceExists
	}
	return false
}
