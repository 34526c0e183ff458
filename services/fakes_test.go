package services

import (
	"context"
	"errors"

	"pdf-rag-platform/internal/ai"
	"pdf-rag-platform/models"
)

var errBackendDown = errors.New("backend unavailable")

type fakeTagger struct {
	entities []ai.TaggedEntity
	byText   map[string][]ai.TaggedEntity
	err      error
	calls    int
}

func (f *fakeTagger) Tag(ctx context.Context, text string) ([]ai.TaggedEntity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.byText != nil {
		return f.byText[text], nil
	}
	return f.entities, nil
}

type fakeChat struct {
	response   string
	err        error
	calls      int
	lastModel  string
	lastPrompt string
}

func (f *fakeChat) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	f.calls++
	f.lastModel = modelID
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeEmbedder struct {
	vec   []float32
	dim   int
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

type fakeIndex struct {
	exists           bool
	existsErr        error
	createPrimaryErr error
	createFallback   bool
	fallbackErr      error
	variant          string
	variantErr       error

	inserted  []models.PageRecord
	insertErr error

	knnHits  []models.ScoredPage
	knnErr   error
	knnCalls int

	scanHits  []models.ScoredPage
	scanErr   error
	scanCalls int

	deletedBySource int64
	deleteErr       error
	sources         []string
	count           int64
}

func (f *fakeIndex) Exists(ctx context.Context, name string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeIndex) CreatePrimary(ctx context.Context, name string, schema models.IndexSchema) error {
	return f.createPrimaryErr
}

func (f *fakeIndex) CreateFallback(ctx context.Context, name string, schema models.IndexSchema) error {
	f.createFallback = true
	return f.fallbackErr
}

func (f *fakeIndex) ActiveVariant(ctx context.Context, name string) (string, error) {
	return f.variant, f.variantErr
}

func (f *fakeIndex) SetVariant(ctx context.Context, name, variant string) error {
	f.variant = variant
	return nil
}

func (f *fakeIndex) Insert(ctx context.Context, name string, record models.PageRecord) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, record)
	return "id-1", nil
}

func (f *fakeIndex) KNNQuery(ctx context.Context, name string, vector []float32, k int, scopeIDs []string) ([]models.ScoredPage, error) {
	f.knnCalls++
	if f.knnErr != nil {
		return nil, f.knnErr
	}
	return f.knnHits, nil
}

func (f *fakeIndex) ScoreScan(ctx context.Context, name string, vector []float32, k int, scopeIDs []string) ([]models.ScoredPage, error) {
	f.scanCalls++
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.scanHits, nil
}

func (f *fakeIndex) DeleteBySource(ctx context.Context, name, sourcePath string) (int64, error) {
	return f.deletedBySource, f.deleteErr
}

func (f *fakeIndex) DeleteByScope(ctx context.Context, name, uniqueID string) (int64, error) {
	return f.deletedBySource, f.deleteErr
}

func (f *fakeIndex) DistinctSources(ctx context.Context, name string, scopeIDs []string) ([]string, error) {
	return f.sources, nil
}

func (f *fakeIndex) Count(ctx context.Context, name string) (int64, error) {
	return f.count, nil
}

type fakeExtractor struct {
	pages []PageText
	err   error
}

func (f *fakeExtractor) ExtractPages(content []byte) ([]PageText, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type fakeRuns struct {
	saved []models.IngestionRun
	err   error
}

func (f *fakeRuns) Save(ctx context.Context, run *models.IngestionRun) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, *run)
	return nil
}

type fakeSearcher struct {
	hits  []models.ScoredPage
	err   error
	calls int
}

func (f *fakeSearcher) Search(ctx context.Context, queryText string, k int, scopeIDs []string) ([]models.ScoredPage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}
