package devtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reactants/internal/game"
)

// maxFinishSteps bounds the finish intent against a driver that never ends.
const maxFinishSteps = 1000

// StepReport is the state observed after one script step.
type StepReport struct {
	Index  int
	Intent string
	Phase  game.GamePhase
	Play   game.PlayState
	Score  int
	Err    error
}

func (r StepReport) String() string {
	out := fmt.Sprintf("%02d %-12s %s/%s score=%d", r.Index, r.Intent, r.Phase, r.Play, r.Score)
	if r.Err != nil {
		out += " err=" + r.Err.Error()
	}
	return out
}

// Run replays script against d. Intent errors are recorded in the report and
// only stop the run when an expectation fails.
func Run(ctx context.Context, d Driver, script Script) ([]StepReport, error) {
	reports := make([]StepReport, 0, len(script.Steps))
	for i, st := range script.Steps {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		err := apply(d, st)
		r := StepReport{
			Index:  i,
			Intent: st.Intent,
			Phase:  d.Phase().Get(),
			Play:   d.PlayState().Get(),
			Score:  d.Score().Get(),
			Err:    err,
		}
		reports = append(reports, r)
		if st.Expect != nil {
			if err := st.Expect.verify(r); err != nil {
				return reports, fmt.Errorf("steps[%d] %s: %w", i, st.Intent, err)
			}
		}
	}
	return reports, nil
}

func apply(d Driver, st Step) error {
	switch strings.TrimSpace(st.Intent) {
	case IntentStart:
		vis, err := game.ParseVisibility(st.Visibility)
		if err != nil {
			return err
		}
		return d.StartLevel(st.Level, vis)
	case IntentSet:
		return d.SetQuantity(st.Symbol, st.Value)
	case IntentCheck:
		return d.Check()
	case IntentTryAgain:
		return d.TryAgain()
	case IntentShowAnswer:
		return d.ShowAnswer()
	case IntentNext:
		return d.Next()
	case IntentNewGame:
		return d.NewGame()
	case IntentBack:
		return d.BackToSettings()
	case IntentSolve:
		return enterAnswer(d, false)
	case IntentWrong:
		return enterAnswer(d, true)
	case IntentFinish:
		return finish(d)
	}
	return fmt.Errorf("unknown intent %q", st.Intent)
}

func enterAnswer(d Driver, wrong bool) error {
	a, ok := d.Challenge().Get().(answerer)
	if !ok {
		return errors.New("current challenge does not expose an answer")
	}
	for i, sym := range a.Symbols() {
		q := a.Answer(sym)
		if wrong && i == 0 {
			if q == 0 {
				q = 1
			} else {
				q--
			}
		}
		if err := d.SetQuantity(sym, q); err != nil {
			return err
		}
	}
	return nil
}

func finish(d Driver) error {
	for i := 0; i < maxFinishSteps; i++ {
		if d.Phase().Get() != game.PhasePlay {
			return nil
		}
		var err error
		switch d.PlayState().Get() {
		case game.PlayFirstCheck, game.PlaySecondCheck:
			if err = enterAnswer(d, false); err == nil {
				err = d.Check()
			}
		case game.PlayTryAgain:
			err = d.TryAgain()
		case game.PlayShowAnswer:
			err = d.ShowAnswer()
		case game.PlayNext:
			err = d.Next()
		}
		if err != nil {
			return err
		}
	}
	return fmt.Errorf("level did not finish after %d steps", maxFinishSteps)
}

func (e Expect) verify(r StepReport) error {
	if e.Error != (r.Err != nil) {
		if r.Err != nil {
			return fmt.Errorf("unexpected error: %w", r.Err)
		}
		return errors.New("expected an error")
	}
	if e.Phase != "" && e.Phase != r.Phase.String() {
		return fmt.Errorf("phase %s, want %s", r.Phase, e.Phase)
	}
	if e.Play != "" && e.Play != r.Play.String() {
		return fmt.Errorf("play state %s, want %s", r.Play, e.Play)
	}
	if e.Score != nil && *e.Score != r.Score {
		return fmt.Errorf("score %d, want %d", r.Score, *e.Score)
	}
	return nil
}
