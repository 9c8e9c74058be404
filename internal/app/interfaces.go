package app

import (
	"context"

	"reactants/internal/state"
)

// Store is the part of the session ledger the app writes to.
type Store interface {
	StartLevelRun(ctx context.Context, run state.LevelRun) (int64, error)
	AbandonLevelRun(ctx context.Context, runID int64) error
	RecordCheckAttempt(ctx context.Context, runID int64, attempt state.CheckAttempt) error
	RecordLevelResult(ctx context.Context, result state.LevelResult) (newBestTime bool, err error)
	GetLevelProgressMap(ctx context.Context) (map[string]state.LevelProgress, error)
	GetSummary(ctx context.Context) (state.Summary, error)
	GetLastRun(ctx context.Context) (*state.LastRun, error)
	Close() error
}

var _ Store = (*state.SQLiteStore)(nil)
