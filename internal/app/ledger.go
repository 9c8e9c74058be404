package app

import (
	"context"
	"fmt"
	"time"

	"reactants/internal/game"
	"reactants/internal/state"
)

// ledger adapts the session store to game.Records. The engine calls it from
// inside a flow hook, so it runs under the app lock already held by the
// intent.
type ledger struct {
	a *App
}

func (l ledger) RecordLevelResult(ctx context.Context, res game.LevelResult) (bool, error) {
	spec, ok := l.a.catalog.Level(res.Level)
	if !ok {
		return false, fmt.Errorf("record level %d: %w", res.Level, game.ErrInvalidLevel)
	}
	newBest, err := l.a.store.RecordLevelResult(ctx, state.LevelResult{
		RunID:        l.a.runID,
		PackID:       l.a.catalog.Pack().PackID,
		LevelID:      spec.LevelID,
		Score:        res.Score,
		PerfectScore: res.PerfectScore,
		DurationMS:   res.Elapsed.Milliseconds(),
		FinishedTS:   time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	l.a.runID = 0
	return newBest, nil
}

func (a *App) startRun() {
	level := a.engine.Level().Get()
	spec, _ := a.catalog.Level(level)
	runID, err := a.store.StartLevelRun(context.Background(), state.LevelRun{
		SessionID:  a.sessionID,
		PackID:     a.catalog.Pack().PackID,
		LevelID:    spec.LevelID,
		Visibility: a.engine.Visibility().Get().String(),
		StartTS:    time.Now().UTC(),
	})
	if err != nil {
		a.logger.Error("state.start_run_failed", map[string]any{"level": spec.LevelID, "error": err.Error()})
		return
	}
	a.runID = runID
}

func (a *App) abandonRun() {
	if a.runID == 0 {
		return
	}
	if err := a.store.AbandonLevelRun(context.Background(), a.runID); err != nil {
		a.logger.Error("state.abandon_run_failed", map[string]any{"run_id": a.runID, "error": err.Error()})
	}
	a.runID = 0
}

// onPlayState records one check attempt for every check-result transition.
func (a *App) onPlayState(next, prev game.PlayState) {
	if prev != game.PlayFirstCheck && prev != game.PlaySecondCheck {
		return
	}
	switch next {
	case game.PlayTryAgain, game.PlayShowAnswer, game.PlayNext:
	default:
		return
	}
	if a.runID == 0 {
		return
	}
	attempt := state.CheckAttempt{
		ChallengeIndex: a.engine.ChallengeIndex().Get(),
		PlayState:      prev.String(),
		Passed:         next == game.PlayNext,
	}
	if err := a.store.RecordCheckAttempt(context.Background(), a.runID, attempt); err != nil {
		a.logger.Error("state.check_attempt_failed", map[string]any{"run_id": a.runID, "error": err.Error()})
	}
}
