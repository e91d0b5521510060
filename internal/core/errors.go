package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText rejects blank input before any processing.
	ErrEmptyText = errors.New("text is empty")
	// ErrEmptySession rejects session operations without an id.
	ErrEmptySession = errors.New("session id is empty")
)

// Stage names the part of a build that failed.
type Stage string

const (
	StageNLP     Stage = "nlp"
	StagePersist Stage = "persist"
)

// StageError reports which stage aborted a build. The whole build fails; nothing is persisted
// unless the failing stage is persistence itself, whose atomicity the sink guarantees.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
