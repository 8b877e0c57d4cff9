package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

const scoreSystemPrompt = `You rate the sentiment of a single Vietnamese sentence.
The sentence is pre-tokenized: multi-syllable words are joined with underscores.
Respond with ONLY a JSON object of class probabilities, no prose, no code fences:
{"NEG": <prob>, "NEU": <prob>, "POS": <prob>}
Each probability is a number between 0 and 1.`

// AnthropicScorer scores sentiment by asking an Anthropic model for a
// strict-JSON probability distribution over the three classes.
type AnthropicScorer struct {
	client anthropic.Client
	model  string
}

func NewAnthropicScorer(apiKey, model string) *AnthropicScorer {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicScorer{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (s *AnthropicScorer) Score(ctx context.Context, tokenizedText string) ([]ClassScore, error) {
	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: scoreSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(tokenizedText)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return parseScoreResponse(block.Text)
		}
	}
	return nil, fmt.Errorf("no text content in Anthropic response")
}

func parseScoreResponse(responseText string) ([]ClassScore, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var parsed struct {
		NEG *float64 `json:"NEG"`
		NEU *float64 `json:"NEU"`
		POS *float64 `json:"POS"`
	}
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		return nil, fmt.Errorf("parsing score response: %w (response: %s)", err, responseText)
	}

	fields := []struct {
		label string
		prob  *float64
	}{
		{RawNegative, parsed.NEG},
		{RawNeutral, parsed.NEU},
		{RawPositive, parsed.POS},
	}
	scores := make([]ClassScore, 0, len(fields))
	for _, f := range fields {
		if f.prob == nil {
			return nil, fmt.Errorf("score response missing class %s: %s", f.label, responseText)
		}
		if *f.prob < 0 || *f.prob > 1 {
			return nil, fmt.Errorf("probability for %s out of range: %f", f.label, *f.prob)
		}
		scores = append(scores, ClassScore{Label: f.label, Probability: *f.prob})
	}
	return scores, nil
}
