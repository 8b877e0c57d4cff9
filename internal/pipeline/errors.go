package pipeline

import (
	"errors"
	"fmt"
)

// ErrScorerNotReady reports the fatal precondition that the scorer
// capability was never loaded. It is not a recoverable per-call error.
var ErrScorerNotReady = errors.New("sentiment scorer is not initialized")

// InvalidLengthError reports a tokenized sentence whose length falls
// outside the accepted range. Recoverable: the caller re-prompts, no
// state was changed.
type InvalidLengthError struct {
	Length int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("tokenized text length %d outside allowed range [%d, %d]",
		e.Length, MinSentenceLength, MaxSentenceLength)
}

// StorageError reports a persistence failure. The classification itself
// may have succeeded, but the call as a whole fails: a record the caller
// saw must also be in the history.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("saving classification record: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PipelineError wraps any other failure from a pipeline stage. Nothing
// escapes Classify unwrapped.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
