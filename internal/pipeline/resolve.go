package pipeline

import (
	"fmt"

	"vnsentiment/internal/scorer"
)

// Canonical sentiment labels, as persisted and shown to callers.
const (
	Positive = "POSITIVE"
	Negative = "NEGATIVE"
	Neutral  = "NEUTRAL"
)

// confidenceFloor is the minimum top-class probability below which the
// resolved label is forced to NEUTRAL.
const confidenceFloor = 0.5

// ResolveLabel picks the argmax class from the scorer output (first-seen
// order wins ties), applies the confidence floor, and maps the raw class
// to its canonical label. The returned confidence is always the original
// top-class probability, including when the floor overrides the label.
func ResolveLabel(scores []scorer.ClassScore) (string, float64, error) {
	if len(scores) == 0 {
		return "", 0, fmt.Errorf("scorer returned no classes")
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if s.Probability > top.Probability {
			top = s
		}
	}

	raw := top.Label
	if top.Probability < confidenceFloor {
		raw = scorer.RawNeutral
	}

	label, err := canonicalLabel(raw)
	if err != nil {
		return "", 0, err
	}
	return label, top.Probability, nil
}

func canonicalLabel(raw string) (string, error) {
	switch raw {
	case scorer.RawPositive:
		return Positive, nil
	case scorer.RawNegative:
		return Negative, nil
	case scorer.RawNeutral:
		return Neutral, nil
	default:
		return "", fmt.Errorf("unknown sentiment class %q", raw)
	}
}
