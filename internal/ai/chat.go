package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// GeminiChat is a chat-model client with a circuit breaker and rate
// limiting. The underlying genai client is created once and shared;
// construct it at process start and inject it where needed.
type GeminiChat struct {
	client       *genai.Client
	breaker      *gobreaker.CircuitBreaker
	rateLimiter  *rate.Limiter
	defaultModel string
	timeout      time.Duration
}

type RateLimits struct {
	RPM int // Requests per minute
	TPM int // Tokens per minute
	RPD int // Requests per day
}

func NewGeminiChat(apiKey, defaultModel, tier string, timeout time.Duration) (*GeminiChat, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	limits := getRateLimits(tier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	// RPM limit with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10)

	return &GeminiChat{
		client:       client,
		breaker:      breaker,
		rateLimiter:  rateLimiter,
		defaultModel: defaultModel,
		timeout:      timeout,
	}, nil
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "free":
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	case "tier1":
		return RateLimits{RPM: 1000, TPM: 1000000, RPD: 10000}
	case "tier2":
		return RateLimits{RPM: 2000, TPM: 4000000, RPD: 50000}
	default:
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	}
}

// Generate invokes the chat model with the given prompt and returns the
// response text. An empty modelID selects the configured default model.
func (gc *GeminiChat) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-chat")
	ctx, span := tracer.Start(ctx, "gemini.generate_content",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if modelID == "" {
		modelID = gc.defaultModel
	}
	span.SetAttributes(
		attribute.String("gemini.model", modelID),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, gc.timeout)
	defer cancel()

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(modelID)
		model.SetTemperature(0.7)
		model.SetMaxOutputTokens(2048)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			span.SetAttributes(
				attribute.Bool("gemini.error", true),
				attribute.String("gemini.error_message", err.Error()),
			)
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return "", fmt.Errorf("chat model unavailable: %w", err)
		}
		return "", err
	}

	resp := result.(*genai.GenerateContentResponse)
	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("no text returned by model %s", modelID)
	}

	if resp.UsageMetadata != nil {
		span.SetAttributes(attribute.Int("gemini.total_tokens", int(resp.UsageMetadata.TotalTokenCount)))
	}

	return text, nil
}

// extractText concatenates all text parts of a Gemini response
func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					sb.WriteString(string(text))
				}
			}
		}
	}
	return sb.String()
}

// Close the client
func (gc *GeminiChat) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
