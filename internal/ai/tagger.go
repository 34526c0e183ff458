package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TaggedEntity is one span returned by the token-classification model,
// in the aggregated NER response shape.
type TaggedEntity struct {
	Word        string  `json:"word"`
	EntityGroup string  `json:"entity_group"`
	Score       float64 `json:"score"`
}

// HTTPTagger calls a token-classification inference endpoint. Any
// transport or model failure is returned as an error; the caller must
// never treat a failed call as "no entities found".
type HTTPTagger struct {
	endpoint string
	model    string
	client   *http.Client
}

func NewHTTPTagger(endpoint, model string, timeout time.Duration) *HTTPTagger {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPTagger{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type tagRequest struct {
	Inputs string `json:"inputs"`
	Model  string `json:"model,omitempty"`
}

// Tag runs entity recognition over the given text.
func (t *HTTPTagger) Tag(ctx context.Context, text string) ([]TaggedEntity, error) {
	body, err := json.Marshal(tagRequest{Inputs: text, Model: t.model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entity tagging request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("entity tagging failed: %s: %s", resp.Status, string(payload))
	}

	var entities []TaggedEntity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("invalid tagging response: %w", err)
	}

	return entities, nil
}
