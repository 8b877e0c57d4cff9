// Package scorer defines the sentiment scoring capability consumed by the
// classification pipeline, and its concrete implementations. A scorer is
// loaded once at startup and is stateless afterwards.
package scorer

import (
	"context"
	"fmt"
	"time"

	"vnsentiment/internal/config"
)

// Raw class labels produced by scorers, in the PhoBERT sentiment
// convention. The pipeline maps them to the canonical full names.
const (
	RawPositive = "POS"
	RawNegative = "NEG"
	RawNeutral  = "NEU"
)

// ClassScore is one class of the scorer's output distribution. The JSON
// tags match the model server's response shape.
type ClassScore struct {
	Label       string  `json:"label"`
	Probability float64 `json:"score"`
}

// Scorer maps tokenized text to a distribution over the three sentiment
// classes. Probabilities are comparable for argmax; they need not sum
// exactly to 1.
type Scorer interface {
	Score(ctx context.Context, tokenizedText string) ([]ClassScore, error)
}

// New selects a scorer implementation from config. The config is assumed
// validated (provider set, credentials present).
func New(cfg config.Config) (Scorer, error) {
	switch cfg.ScorerProvider {
	case "model_server":
		timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		return NewModelServerScorer(cfg.ModelServerURL, timeout), nil
	case "anthropic":
		return NewAnthropicScorer(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("unknown scorer_provider %q", cfg.ScorerProvider)
	}
}
