package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder produces embedding vectors via Google Generative AI
// (text-embedding-004 by default). The client is created once; the
// declared dimension must match the vector index schema.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
	timeout   time.Duration
}

func NewGeminiEmbedder(apiKey, model string, dimension int, timeout time.Duration) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiEmbedder{
		client:    client,
		model:     model,
		dimension: dimension,
		timeout:   timeout,
	}, nil
}

// Dimension returns the dimensionality of produced vectors.
func (e *GeminiEmbedder) Dimension() int { return e.dimension }

// Embed returns an embedding vector for the given text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	model := e.client.EmbeddingModel(e.model)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return resp.Embedding.Values, nil
}

// Close the client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
