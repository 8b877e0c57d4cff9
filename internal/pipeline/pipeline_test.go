package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"vnsentiment/internal/scorer"
	sqlitestore "vnsentiment/internal/storage/sqlite"
	"vnsentiment/internal/textproc"
)

type fakeScorer struct {
	scores []scorer.ClassScore
	err    error
}

func (f *fakeScorer) Score(ctx context.Context, tokenizedText string) ([]scorer.ClassScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func positiveScores() []scorer.ClassScore {
	return []scorer.ClassScore{
		{Label: "NEG", Probability: 0.03},
		{Label: "NEU", Probability: 0.05},
		{Label: "POS", Probability: 0.92},
	}
}

func newTestPipeline(t *testing.T, sc scorer.Scorer) (*Pipeline, *sql.DB) {
	t.Helper()
	db, err := sqlitestore.InitDB(filepath.Join(t.TempDir(), "pipeline-test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	seg, err := textproc.NewLexiconSegmenter("")
	if err != nil {
		t.Fatalf("NewLexiconSegmenter failed: %v", err)
	}

	return &Pipeline{
		Slang:     textproc.DefaultSlangDict(),
		Segmenter: seg,
		Scorer:    sc,
		DB:        db,
	}, db
}

func TestResolveLabel(t *testing.T) {
	cases := []struct {
		name           string
		scores         []scorer.ClassScore
		wantLabel      string
		wantConfidence float64
	}{
		{
			name:           "clear positive",
			scores:         positiveScores(),
			wantLabel:      Positive,
			wantConfidence: 0.92,
		},
		{
			name: "clear negative",
			scores: []scorer.ClassScore{
				{Label: "NEG", Probability: 0.81},
				{Label: "NEU", Probability: 0.11},
				{Label: "POS", Probability: 0.08},
			},
			wantLabel:      Negative,
			wantConfidence: 0.81,
		},
		{
			name: "low confidence forces neutral",
			scores: []scorer.ClassScore{
				{Label: "POS", Probability: 0.4},
				{Label: "NEG", Probability: 0.3},
				{Label: "NEU", Probability: 0.3},
			},
			wantLabel:      Neutral,
			wantConfidence: 0.4,
		},
		{
			name: "tie keeps first-seen class",
			scores: []scorer.ClassScore{
				{Label: "NEG", Probability: 0.5},
				{Label: "POS", Probability: 0.5},
			},
			wantLabel:      Negative,
			wantConfidence: 0.5,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			label, confidence, err := ResolveLabel(c.scores)
			if err != nil {
				t.Fatalf("ResolveLabel failed: %v", err)
			}
			if label != c.wantLabel {
				t.Errorf("label = %q, want %q", label, c.wantLabel)
			}
			if confidence != c.wantConfidence {
				t.Errorf("confidence = %f, want %f", confidence, c.wantConfidence)
			}
		})
	}
}

func TestResolveLabelErrors(t *testing.T) {
	if _, _, err := ResolveLabel(nil); err == nil {
		t.Error("expected error for empty scorer output")
	}
	if _, _, err := ResolveLabel([]scorer.ClassScore{{Label: "WAT", Probability: 0.9}}); err == nil {
		t.Error("expected error for unknown class label")
	}
}

func TestClassifySuccess(t *testing.T) {
	p, db := newTestPipeline(t, &fakeScorer{scores: positiveScores()})

	result, err := p.Classify(context.Background(), "  Hom nay toi rat vui ")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Text != "hôm_nay tôi rất vui" {
		t.Errorf("unexpected tokenized text: %q", result.Text)
	}
	if result.CorrectedText != "hôm nay tôi rất vui" {
		t.Errorf("unexpected corrected text: %q", result.CorrectedText)
	}
	if result.Sentiment != Positive {
		t.Errorf("unexpected sentiment: %q", result.Sentiment)
	}
	if result.Confidence != 0.92 {
		t.Errorf("unexpected confidence: %f", result.Confidence)
	}
	if result.RecordID <= 0 {
		t.Errorf("expected assigned record id, got %d", result.RecordID)
	}

	records, err := sqlitestore.PageRecords(db, 0, 10)
	if err != nil {
		t.Fatalf("PageRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(records))
	}
	if records[0].Text != "hôm_nay tôi rất vui" || records[0].Sentiment != Positive {
		t.Errorf("unexpected persisted record: %+v", records[0])
	}
}

func TestClassifyLowConfidencePersistsNeutral(t *testing.T) {
	p, db := newTestPipeline(t, &fakeScorer{scores: []scorer.ClassScore{
		{Label: "NEG", Probability: 0.30},
		{Label: "NEU", Probability: 0.25},
		{Label: "POS", Probability: 0.45},
	}})

	result, err := p.Classify(context.Background(), "hom nay binh thuong")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Sentiment != Neutral {
		t.Errorf("expected NEUTRAL for low confidence, got %q", result.Sentiment)
	}
	if result.Confidence != 0.45 {
		t.Errorf("expected original top probability 0.45, got %f", result.Confidence)
	}

	records, err := sqlitestore.PageRecords(db, 0, 10)
	if err != nil {
		t.Fatalf("PageRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].Sentiment != Neutral {
		t.Fatalf("expected one NEUTRAL record, got %+v", records)
	}
}

func TestClassifyInvalidLength(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"too short", "vui"},
		{"too long", strings.TrimSpace(strings.Repeat("buồn ", 12))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, db := newTestPipeline(t, &fakeScorer{scores: positiveScores()})

			_, err := p.Classify(context.Background(), c.text)
			var lengthErr *InvalidLengthError
			if !errors.As(err, &lengthErr) {
				t.Fatalf("expected InvalidLengthError, got %v", err)
			}

			count, err := sqlitestore.CountRecords(db)
			if err != nil {
				t.Fatalf("CountRecords failed: %v", err)
			}
			if count != 0 {
				t.Fatalf("invalid-length input must not be persisted, found %d records", count)
			}
		})
	}
}

func TestClassifyScorerNotReady(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	p.Scorer = nil

	_, err := p.Classify(context.Background(), "hom nay toi rat vui")
	if !errors.Is(err, ErrScorerNotReady) {
		t.Fatalf("expected ErrScorerNotReady, got %v", err)
	}
}

func TestClassifyScorerFailure(t *testing.T) {
	p, db := newTestPipeline(t, &fakeScorer{err: fmt.Errorf("inference backend down")})

	_, err := p.Classify(context.Background(), "hom nay toi rat vui")
	var pipeErr *PipelineError
	if !errors.As(err, &pipeErr) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pipeErr.Stage != "score" {
		t.Errorf("unexpected stage: %q", pipeErr.Stage)
	}

	count, err := sqlitestore.CountRecords(db)
	if err != nil {
		t.Fatalf("CountRecords failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed classification must not be persisted, found %d records", count)
	}
}

func TestClassifyStorageFailure(t *testing.T) {
	p, db := newTestPipeline(t, &fakeScorer{scores: positiveScores()})
	_ = db.Close()

	_, err := p.Classify(context.Background(), "hom nay toi rat vui")
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}
