package services

import (
	"context"
	"fmt"
	"strings"

	"pdf-rag-platform/models"
)

// DefaultPIIThreshold is the confidence below which a detected entity
// is not considered a gate violation.
const DefaultPIIThreshold = 0.8

// sensitiveKinds are the entity categories treated as PII. Kinds
// outside this set never trip the gate regardless of confidence.
var sensitiveKinds = map[string]bool{
	"EMAIL_ADDRESS": true,
	"CREDIT_CARD":   true,
	"PHONE_NUMBER":  true,
	"SSN":           true,
	"PERSON":        true,
	"LOCATION":      true,
	"DATE_TIME":     true,
	"IP_ADDRESS":    true,
	"USER":          true,
	"SOCIALNUM":     true,
	"B-SOCIALNUM":   true,
	"I-SOCIALNUM":   true,
}

// Scanner screens text for personally identifiable information by
// running a token-classification model and applying the kind and
// confidence policy. A tagger failure is returned as an error; the
// gate never fails open.
type Scanner struct {
	tagger EntityTagger
}

func NewScanner(tagger EntityTagger) *Scanner {
	return &Scanner{tagger: tagger}
}

// Scan returns every entity the model found, regardless of kind or
// confidence.
func (s *Scanner) Scan(ctx context.Context, text string) ([]models.DetectedEntity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tagged, err := s.tagger.Tag(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("pii scan failed: %w", err)
	}

	entities := make([]models.DetectedEntity, 0, len(tagged))
	for _, t := range tagged {
		entities = append(entities, models.DetectedEntity{
			Text:       t.Word,
			Kind:       t.EntityGroup,
			Confidence: t.Score,
		})
	}
	return entities, nil
}

// IsSafe reports whether the text is free of sensitive entities at or
// above the given confidence threshold, returning the offenders.
func (s *Scanner) IsSafe(ctx context.Context, text string, threshold float64) (bool, []models.DetectedEntity, error) {
	entities, err := s.Scan(ctx, text)
	if err != nil {
		return false, nil, err
	}

	var detected []models.DetectedEntity
	for _, e := range entities {
		if sensitiveKinds[e.Kind] && e.Confidence >= threshold {
			detected = append(detected, e)
		}
	}

	return len(detected) == 0, detected, nil
}

// Explain applies the gate and builds a human-readable rejection
// message enumerating each offending entity.
func (s *Scanner) Explain(ctx context.Context, text string, threshold float64) (bool, string, []models.DetectedEntity, error) {
	safe, detected, err := s.IsSafe(ctx, text, threshold)
	if err != nil {
		return false, "", nil, err
	}

	if !safe {
		descriptions := make([]string, 0, len(detected))
		for _, e := range detected {
			descriptions = append(descriptions, fmt.Sprintf("%s (%s, %.2f)", e.Text, e.Kind, e.Confidence))
		}
		message := "Potential PII detected in your message. Please remove personal information such as: " +
			strings.Join(descriptions, ", ")
		return false, message, detected, nil
	}

	return true, "No PII detected", nil, nil
}
