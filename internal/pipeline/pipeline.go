// Package pipeline orchestrates the text-to-label classification flow:
// normalize, correct slang, tokenize, score, resolve the label, validate
// length, persist. It is the single point that converts stage failures
// into the typed error taxonomy.
package pipeline

import (
	"context"
	"database/sql"
	"unicode/utf8"

	"vnsentiment/internal/scorer"
	sqlitestore "vnsentiment/internal/storage/sqlite"
	"vnsentiment/internal/textproc"
)

// Accepted character range for the tokenized, space-joined sentence.
const (
	MinSentenceLength = 5
	MaxSentenceLength = 50
)

// Pipeline holds the process-scoped collaborators, all loaded once at
// startup and read-only afterwards.
type Pipeline struct {
	Slang     textproc.SlangDict
	Segmenter textproc.Segmenter
	Scorer    scorer.Scorer
	DB        *sql.DB
}

// Result is a successful classification. Text is the tokenized sentence
// as persisted; RawText and CorrectedText carry the intermediate steps
// for display.
type Result struct {
	RawText       string
	CorrectedText string
	Text          string
	Sentiment     string
	Confidence    float64
	RecordID      int64
}

// Classify runs the full pipeline on rawText. On success the record is
// persisted and returned; on failure nothing is persisted and the error
// is one of InvalidLengthError, StorageError, PipelineError, or
// ErrScorerNotReady. Length validation always runs before persistence.
func (p *Pipeline) Classify(ctx context.Context, rawText string) (*Result, error) {
	if p.Scorer == nil {
		return nil, ErrScorerNotReady
	}

	normalized := textproc.Normalize(rawText)
	corrected := p.Slang.Correct(normalized)
	tokenized := textproc.TokenizeText(p.Segmenter, corrected)

	scores, err := p.Scorer.Score(ctx, tokenized)
	if err != nil {
		return nil, &PipelineError{Stage: "score", Err: err}
	}

	label, confidence, err := ResolveLabel(scores)
	if err != nil {
		return nil, &PipelineError{Stage: "resolve", Err: err}
	}

	if n := utf8.RuneCountInString(tokenized); n < MinSentenceLength || n > MaxSentenceLength {
		return nil, &InvalidLengthError{Length: n}
	}

	id, err := sqlitestore.InsertSentiment(p.DB, tokenized, label)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	return &Result{
		RawText:       rawText,
		CorrectedText: corrected,
		Text:          tokenized,
		Sentiment:     label,
		Confidence:    confidence,
		RecordID:      id,
	}, nil
}
