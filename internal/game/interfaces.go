package game

import (
	"context"
	"time"
)

// Challenge is the collaborator data for one question. The engine only reads
// the correct predicate and edits entered quantities.
type Challenge interface {
	IsCorrect() bool
	// Reveal sets the entered quantities to the answer.
	Reveal()
	ResetEntered()
	SetEntered(symbol string, quantity int) error
}

// ChallengeSupplier hands out the challenges of each level. Challenge returns
// an error wrapping ErrSupplierExhausted when index is past the end.
type ChallengeSupplier interface {
	Challenge(level, index int) (Challenge, error)
	ChallengeCount(level int) int
}

// FeedbackSink plays audio/visual cues. Calls happen inside state hooks, so
// the cue always precedes the matching change notification.
type FeedbackSink interface {
	OnCorrect()
	OnIncorrect()
	OnRewardEligible()
}

// Timer is an optional wall-clock stopwatch for a level.
type Timer interface {
	Reset()
	Start()
	Stop() time.Duration
}

// Records receives finished levels and reports whether the time is a new best.
type Records interface {
	RecordLevelResult(ctx context.Context, result LevelResult) (newBestTime bool, err error)
}

type Logger interface {
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type nopSink struct{}

func (nopSink) OnCorrect()        {}
func (nopSink) OnIncorrect()      {}
func (nopSink) OnRewardEligible() {}

type nopLogger struct{}

func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
