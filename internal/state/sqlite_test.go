package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestLevelRunAttemptsAndSummary(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "state.db"))
	ctx := context.Background()

	runID, err := store.StartLevelRun(ctx, LevelRun{SessionID: "s1", PackID: "builtin-core", LevelID: "level-2-water", Visibility: "molecules"})
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	for _, passed := range []bool{false, true, true} {
		if err := store.RecordCheckAttempt(ctx, runID, CheckAttempt{ChallengeIndex: 0, PlayState: "first_check", Passed: passed}); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}
	if _, err := store.RecordLevelResult(ctx, LevelResult{RunID: runID, PackID: "builtin-core", LevelID: "level-2-water", Score: 5, PerfectScore: 10}); err != nil {
		t.Fatalf("record result: %v", err)
	}
	abandoned, err := store.StartLevelRun(ctx, LevelRun{SessionID: "s1", PackID: "builtin-core", LevelID: "level-3-mixed"})
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if err := store.AbandonLevelRun(ctx, abandoned); err != nil {
		t.Fatalf("abandon: %v", err)
	}

	sum, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.LevelRuns != 2 || sum.Finished != 1 || sum.Abandoned != 1 || sum.Attempts != 3 || sum.Passes != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	last, err := store.GetLastRun(ctx)
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if last == nil || last.LevelID != "level-3-mixed" || !last.Abandoned || last.Finished {
		t.Fatalf("unexpected last run %+v", last)
	}
}

func TestRecordLevelResultTracksBests(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "state.db"))
	ctx := context.Background()
	at := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	record := func(score int, ms int64) bool {
		t.Helper()
		best, err := store.RecordLevelResult(ctx, LevelResult{PackID: "p", LevelID: "level-one", Score: score, PerfectScore: 10, DurationMS: ms, FinishedTS: at})
		if err != nil {
			t.Fatalf("record result: %v", err)
		}
		return best
	}

	if !record(6, 40_000) {
		t.Fatalf("first timed result should be a new best")
	}
	if record(10, 50_000) {
		t.Fatalf("slower result must not be a new best time")
	}
	if !record(4, 30_000) {
		t.Fatalf("faster result should be a new best")
	}
	if record(4, 0) {
		t.Fatalf("untimed result must not be a new best")
	}

	progress, err := store.GetLevelProgressMap(ctx)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	p, ok := progress[ProgressKey("p", "level-one")]
	if !ok {
		t.Fatalf("missing progress row: %+v", progress)
	}
	if p.FinishedCount != 4 || p.PerfectCount != 1 || p.BestScore != 10 || p.BestTimeMS != 30_000 {
		t.Fatalf("unexpected progress %+v", p)
	}
	if !p.LastPlayedTS.Equal(at) {
		t.Fatalf("unexpected last played %v", p.LastPlayedTS)
	}
}

func TestInMemoryStoreStartsEmpty(t *testing.T) {
	store := openStore(t, "")
	ctx := context.Background()
	last, err := store.GetLastRun(ctx)
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if last != nil {
		t.Fatalf("expected no runs, got %+v", last)
	}
	if _, err := store.StartLevelRun(ctx, LevelRun{SessionID: "s", PackID: "p", LevelID: "level-one"}); err != nil {
		t.Fatalf("start run: %v", err)
	}
	sum, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.LevelRuns != 1 {
		t.Fatalf("expected one run, got %+v", sum)
	}
}

func TestRecordLevelResultRequiresLevel(t *testing.T) {
	store := openStore(t, "")
	if _, err := store.RecordLevelResult(context.Background(), LevelResult{PackID: "p"}); err == nil {
		t.Fatalf("expected error for missing level id")
	}
}
