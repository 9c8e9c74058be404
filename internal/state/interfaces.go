package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	StartLevelRun(ctx context.Context, run LevelRun) (int64, error)
	AbandonLevelRun(ctx context.Context, runID int64) error
	RecordCheckAttempt(ctx context.Context, runID int64, attempt CheckAttempt) error
	RecordLevelResult(ctx context.Context, result LevelResult) (newBestTime bool, err error)
	GetLevelProgressMap(ctx context.Context) (map[string]LevelProgress, error)
	GetSummary(ctx context.Context) (Summary, error)
	GetLastRun(ctx context.Context) (*LastRun, error)
	Close() error
}

type LevelRun struct {
	SessionID  string
	PackID     string
	LevelID    string
	Visibility string
	StartTS    time.Time
}

type CheckAttempt struct {
	ChallengeIndex int
	PlayState      string
	Passed         bool
}

type LevelResult struct {
	RunID        int64
	PackID       string
	LevelID      string
	Score        int
	PerfectScore int
	DurationMS   int64
	FinishedTS   time.Time
}

type Summary struct {
	LevelRuns int
	Finished  int
	Abandoned int
	Attempts  int
	Passes    int
}

type LastRun struct {
	PackID     string
	LevelID    string
	Visibility string
	StartTS    time.Time
	Score      int
	Attempts   int
	Finished   bool
	Abandoned  bool
}

// LevelProgress is keyed by "<pack_id>/<level_id>" in GetLevelProgressMap.
type LevelProgress struct {
	PackID        string
	LevelID       string
	FinishedCount int
	PerfectCount  int
	BestScore     int
	BestTimeMS    int64
	LastPlayedTS  time.Time
}

func ProgressKey(packID, levelID string) string { return packID + "/" + levelID }
