package ai

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestGeminiEmbedderLive(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	embedder, err := NewGeminiEmbedder(key, "text-embedding-004", 768, 30*time.Second)
	if err != nil {
		t.Fatalf("embedder init: %v", err)
	}
	defer embedder.Close()

	vec, err := embedder.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("embedding error: %v", err)
	}
	if len(vec) == 0 {
		t.Fatalf("empty embedding")
	}
}

func TestNewGeminiEmbedderRequiresKey(t *testing.T) {
	if _, err := NewGeminiEmbedder("", "text-embedding-004", 768, time.Second); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
