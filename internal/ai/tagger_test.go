package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPTaggerParsesEntities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs string `json:"inputs"`
			Model  string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Inputs == "" {
			t.Error("inputs not forwarded")
		}

		json.NewEncoder(w).Encode([]TaggedEntity{
			{Word: "John", EntityGroup: "PERSON", Score: 0.91},
		})
	}))
	defer server.Close()

	tagger := NewHTTPTagger(server.URL, "test-model", time.Second)
	entities, err := tagger.Tag(context.Background(), "John went home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entities) != 1 || entities[0].EntityGroup != "PERSON" || entities[0].Score != 0.91 {
		t.Fatalf("unexpected entities: %v", entities)
	}
}

func TestHTTPTaggerErrorsOnServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tagger := NewHTTPTagger(server.URL, "test-model", time.Second)
	if _, err := tagger.Tag(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error on a non-2xx response")
	}
}

func TestHTTPTaggerErrorsOnInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	tagger := NewHTTPTagger(server.URL, "test-model", time.Second)
	if _, err := tagger.Tag(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error for a malformed response")
	}
}
