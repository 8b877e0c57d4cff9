package scorer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ModelServerScorer calls a sentiment inference sidecar (a PhoBERT-based
// model behind a small HTTP API) over JSON. The sidecar owns the model;
// this client only speaks the score contract.
type ModelServerScorer struct {
	client *resty.Client
}

func NewModelServerScorer(baseURL string, timeout time.Duration) *ModelServerScorer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &ModelServerScorer{client: client}
}

type scoreRequest struct {
	Text string `json:"text"`
}

func (s *ModelServerScorer) Score(ctx context.Context, tokenizedText string) ([]ClassScore, error) {
	var scores []ClassScore
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(scoreRequest{Text: tokenizedText}).
		SetResult(&scores).
		Post("/score")
	if err != nil {
		return nil, fmt.Errorf("model server request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("model server returned %s: %s", resp.Status(), resp.String())
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("model server returned no class scores")
	}
	return scores, nil
}
