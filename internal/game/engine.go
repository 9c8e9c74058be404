// Package game holds the game-flow state machine: level selection, the
// check / try again / show answer / next cycle of each challenge, scoring and
// results. Views drive it with intents and observe it through property values.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reactants/internal/property"
)

// Options configures an Engine. Nil collaborators are replaced by no-ops; a
// nil Timer disables level timing.
type Options struct {
	Sink    FeedbackSink
	Timer   Timer
	Records Records
	Logger  Logger

	// AutoPlayAll pre-solves every challenge. Debug only.
	AutoPlayAll bool
	// ForceReward makes every finished level reward eligible. Debug only.
	ForceReward bool
}

// LevelResult is the snapshot taken when a level reaches the results phase.
type LevelResult struct {
	Level          int
	Score          int
	PerfectScore   int
	Points         []int
	Elapsed        time.Duration
	RewardEligible bool
	NewBestTime    bool
}

// pending carries the intent being committed into the flow hook.
type pending struct {
	intent     Intent
	step       playStep
	level      int
	visibility ChallengeVisibility
	count      int
}

type Engine struct {
	supplier ChallengeSupplier
	opts     Options
	sink     FeedbackSink
	logger   Logger

	flow       *property.Hooked[Flow]
	phase      *property.Derived[Flow, GamePhase]
	play       *property.Derived[Flow, PlayState]
	visibility *property.Hooked[ChallengeVisibility]
	score      *property.Hooked[int]
	challenge  *property.Hooked[Challenge]
	level      *property.Hooked[int]
	index      *property.Hooked[int]

	count   int
	points  []int
	pending pending
	results LevelResult
	done    bool
}

func New(supplier ChallengeSupplier, opts Options) *Engine {
	e := &Engine{
		supplier: supplier,
		opts:     opts,
		sink:     opts.Sink,
		logger:   opts.Logger,
	}
	if e.sink == nil {
		e.sink = nopSink{}
	}
	if e.logger == nil {
		e.logger = nopLogger{}
	}
	e.flow = property.New(Flow{Phase: PhaseSettings, Play: PlayNone},
		property.WithName[Flow]("flow"),
		property.WithHook(e.onFlow),
	)
	e.phase = property.Map(property.Observable[Flow](e.flow), func(f Flow) GamePhase { return f.Phase }, property.Equal[GamePhase])
	e.play = property.Map(property.Observable[Flow](e.flow), func(f Flow) PlayState { return f.Play }, property.Equal[PlayState])
	e.visibility = property.New(VisibilityBoth, property.WithName[ChallengeVisibility]("visibility"))
	e.score = property.New(0, property.WithName[int]("score"))
	e.challenge = property.New[Challenge](nil, property.WithName[Challenge]("challenge"))
	e.level = property.New(-1, property.WithName[int]("level"))
	e.index = property.New(0, property.WithName[int]("challenge_index"))
	// First flow listener: level values are cleared once SETTINGS is stored,
	// ahead of every outside listener.
	e.flow.Subscribe(e.afterFlow)
	return e
}

func (e *Engine) Flow() property.Observable[Flow]                      { return e.flow }
func (e *Engine) Phase() property.Observable[GamePhase]                { return e.phase }
func (e *Engine) PlayState() property.Observable[PlayState]            { return e.play }
func (e *Engine) Visibility() property.Observable[ChallengeVisibility] { return e.visibility }
func (e *Engine) Score() property.Observable[int]                      { return e.score }
func (e *Engine) Challenge() property.Observable[Challenge]            { return e.challenge }

// Level is the active level index, or -1 when none is selected.
func (e *Engine) Level() property.Observable[int]          { return e.level }
func (e *Engine) ChallengeIndex() property.Observable[int] { return e.index }

// ChallengeCount is the number of challenges in the active level.
func (e *Engine) ChallengeCount() int { return e.count }

// Points lists the points earned per resolved challenge of the active level.
func (e *Engine) Points() []int { return append([]int(nil), e.points...) }

// Results returns the last finished level, if any.
func (e *Engine) Results() (LevelResult, bool) {
	r := e.results
	r.Points = append([]int(nil), r.Points...)
	return r, e.done
}

// StartLevel moves from settings to play on challenge 0 of level.
func (e *Engine) StartLevel(level int, visibility ChallengeVisibility) error {
	if e.flow.Get().Phase != PhaseSettings {
		return e.reject(IntentStartLevel)
	}
	if !visibility.Valid() {
		return fmt.Errorf("start level: %w %d", ErrInvalidVisibility, int(visibility))
	}
	n := 0
	if level >= 0 {
		n = e.supplier.ChallengeCount(level)
	}
	if n <= 0 {
		return fmt.Errorf("start level %d: %w", level, ErrInvalidLevel)
	}
	e.pending = pending{intent: IntentStartLevel, level: level, visibility: visibility, count: n}
	return e.commit(Flow{Phase: PhasePlay, Play: PlayFirstCheck})
}

func (e *Engine) Check() error      { return e.playIntent(IntentCheck) }
func (e *Engine) TryAgain() error   { return e.playIntent(IntentTryAgain) }
func (e *Engine) ShowAnswer() error { return e.playIntent(IntentShowAnswer) }

// Next loads the following challenge, or finishes the level when none remains.
func (e *Engine) Next() error {
	cur := e.flow.Get()
	if cur.Phase != PhasePlay {
		return e.reject(IntentNext)
	}
	step, ok := playTransition(cur.Play, IntentNext, false)
	if !ok {
		return e.reject(IntentNext)
	}
	nextIdx := e.index.Get() + 1
	if nextIdx >= e.count {
		return e.finish(e.count)
	}
	e.pending = pending{intent: IntentNext, step: step}
	err := e.commit(Flow{Phase: PhasePlay, Play: step.next})
	if errors.Is(err, ErrSupplierExhausted) {
		e.logger.Warn("game.supplier_exhausted", map[string]any{"level": e.level.Get(), "index": nextIdx})
		return e.finish(nextIdx)
	}
	return err
}

func (e *Engine) NewGame() error {
	if e.flow.Get().Phase != PhaseResults {
		return e.reject(IntentNewGame)
	}
	e.pending = pending{intent: IntentNewGame}
	return e.commit(Flow{Phase: PhaseSettings, Play: PlayNone})
}

// BackToSettings abandons the level in progress. Its score is discarded.
func (e *Engine) BackToSettings() error {
	if e.flow.Get().Phase != PhasePlay {
		return e.reject(IntentBackToSettings)
	}
	e.pending = pending{intent: IntentBackToSettings}
	return e.commit(Flow{Phase: PhaseSettings, Play: PlayNone})
}

// SetQuantity edits an entered quantity of the current challenge. It is only
// legal while a check is pending.
func (e *Engine) SetQuantity(symbol string, quantity int) error {
	cur := e.flow.Get()
	c := e.challenge.Get()
	if cur.Phase != PhasePlay || !cur.Play.InputsEnabled() || c == nil {
		return e.reject(IntentSetQuantity)
	}
	if err := c.SetEntered(symbol, quantity); err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}
	// Same challenge value; republishing tells views the entered quantities moved.
	return e.challenge.Set(c)
}

func (e *Engine) playIntent(intent Intent) error {
	cur := e.flow.Get()
	c := e.challenge.Get()
	if cur.Phase != PhasePlay || c == nil {
		return e.reject(intent)
	}
	correct := false
	if intent == IntentCheck {
		correct = c.IsCorrect()
	}
	step, ok := playTransition(cur.Play, intent, correct)
	if !ok {
		return e.reject(intent)
	}
	e.pending = pending{intent: intent, step: step}
	return e.commit(Flow{Phase: PhasePlay, Play: step.next})
}

func (e *Engine) finish(count int) error {
	e.pending = pending{intent: IntentNext, count: count}
	return e.commit(Flow{Phase: PhaseResults, Play: PlayNone})
}

func (e *Engine) commit(next Flow) error {
	cur := e.flow.Get()
	intent := e.pending.intent
	defer func() { e.pending = pending{} }()
	if cur.Phase != next.Phase && !CanTransition(cur.Phase, next.Phase) {
		return e.reject(intent)
	}
	if err := e.flow.Set(next); err != nil {
		if errors.Is(err, property.ErrHookFailed) {
			// Running out of challenges is reported by the caller.
			if !errors.Is(err, ErrSupplierExhausted) {
				e.logger.Error("game.hook_failed", map[string]any{"from": cur.String(), "to": next.String(), "intent": string(intent), "error": err.Error()})
			}
			return fmt.Errorf("%w: %w", ErrHookFailure, err)
		}
		return err
	}
	e.logger.Info("game.flow", map[string]any{"from": cur.String(), "to": next.String(), "intent": string(intent)})
	return nil
}

func (e *Engine) reject(intent Intent) error {
	err := &TransitionError{Flow: e.flow.Get(), Intent: intent}
	e.logger.Warn("game.invalid_transition", map[string]any{"flow": err.Flow.String(), "intent": string(intent)})
	return err
}

// onFlow runs before any flow listener is notified. Fallible work comes first
// so a failure leaves every value untouched.
func (e *Engine) onFlow(next Flow) error {
	cur := e.flow.Get()
	p := e.pending
	switch {
	case cur.Phase == PhaseSettings && next.Phase == PhasePlay:
		return e.enterPlay(p)
	case cur.Phase == PhasePlay && next.Phase == PhasePlay:
		return e.applyStep(p)
	case cur.Phase == PhasePlay && next.Phase == PhaseResults:
		return e.enterResults(p)
	case cur.Phase == PhasePlay && next.Phase == PhaseSettings:
		e.abandonLevel()
	}
	return nil
}

func (e *Engine) afterFlow(next, prev Flow) {
	if next.Phase != PhaseSettings || prev.Phase == PhaseSettings {
		return
	}
	if err := e.clearLevel(); err != nil {
		e.logger.Error("game.clear_failed", map[string]any{"flow": next.String(), "error": err.Error()})
	}
}

func (e *Engine) enterPlay(p pending) error {
	c, err := e.loadChallenge(p.level, 0)
	if err != nil {
		return err
	}
	e.count = p.count
	e.points = nil
	e.done = false
	if err := setAll(
		func() error { return e.visibility.Set(p.visibility) },
		func() error { return e.level.Set(p.level) },
		func() error { return e.index.Set(0) },
		func() error { return e.score.Set(0) },
		func() error { return e.challenge.Set(c) },
	); err != nil {
		return err
	}
	if t := e.opts.Timer; t != nil {
		t.Reset()
		t.Start()
	}
	e.logger.Info("game.level_start", map[string]any{
		"level":      p.level,
		"challenges": p.count,
		"visibility": p.visibility.String(),
		"autoplay":   e.opts.AutoPlayAll,
	})
	return nil
}

func (e *Engine) applyStep(p pending) error {
	switch p.step.effect {
	case effectCorrect:
		if err := e.award(p.step.points); err != nil {
			return err
		}
		e.sink.OnCorrect()
	case effectIncorrect:
		e.sink.OnIncorrect()
	case effectReveal:
		c := e.challenge.Get()
		c.Reveal()
		if err := e.challenge.Set(c); err != nil {
			return err
		}
		return e.award(p.step.points)
	case effectAdvance:
		idx := e.index.Get() + 1
		c, err := e.loadChallenge(e.level.Get(), idx)
		if err != nil {
			return err
		}
		return setAll(
			func() error { return e.index.Set(idx) },
			func() error { return e.challenge.Set(c) },
		)
	}
	return nil
}

func (e *Engine) enterResults(p pending) error {
	var elapsed time.Duration
	if t := e.opts.Timer; t != nil {
		elapsed = t.Stop()
	}
	if p.count > 0 && p.count < e.count {
		e.count = p.count
	}
	score := sumPoints(e.points)
	perfect := PerfectScore(e.count)
	res := LevelResult{
		Level:          e.level.Get(),
		Score:          score,
		PerfectScore:   perfect,
		Points:         append([]int(nil), e.points...),
		Elapsed:        elapsed,
		RewardEligible: e.opts.ForceReward || (perfect > 0 && score >= perfect),
	}
	if e.opts.Records != nil {
		best, err := e.opts.Records.RecordLevelResult(context.Background(), res)
		if err != nil {
			e.logger.Error("game.records_failed", map[string]any{"level": res.Level, "error": err.Error()})
		} else {
			res.NewBestTime = best
		}
	}
	if err := e.score.Set(score); err != nil {
		return err
	}
	e.results = res
	e.done = true
	if res.RewardEligible {
		e.sink.OnRewardEligible()
	}
	e.logger.Info("game.level_complete", map[string]any{
		"level":      res.Level,
		"score":      res.Score,
		"perfect":    res.PerfectScore,
		"elapsed_ms": res.Elapsed.Milliseconds(),
		"reward":     res.RewardEligible,
		"best_time":  res.NewBestTime,
	})
	return nil
}

func (e *Engine) abandonLevel() {
	if t := e.opts.Timer; t != nil {
		t.Stop()
	}
	e.logger.Info("game.level_abandoned", map[string]any{"level": e.level.Get(), "discarded_score": e.score.Get()})
	e.points = nil
}

func (e *Engine) clearLevel() error {
	e.count = 0
	return setAll(
		func() error { return e.score.Set(0) },
		func() error { return e.challenge.Set(nil) },
		func() error { return e.index.Set(0) },
		func() error { return e.level.Set(-1) },
	)
}

func (e *Engine) award(points int) error {
	if points < 0 {
		points = 0
	}
	e.points = append(e.points, points)
	return e.score.Set(e.score.Get() + points)
}

func (e *Engine) loadChallenge(level, index int) (Challenge, error) {
	c, err := e.supplier.Challenge(level, index)
	if err != nil {
		return nil, fmt.Errorf("load challenge %d/%d: %w", level, index, err)
	}
	if c == nil {
		return nil, fmt.Errorf("load challenge %d/%d: %w", level, index, ErrSupplierExhausted)
	}
	c.ResetEntered()
	if e.opts.AutoPlayAll {
		c.Reveal()
	}
	return c, nil
}

func setAll(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// PerfectScore is the score needed for a perfect run of the active level.
func (e *Engine) PerfectScore() int { return PerfectScore(e.count) }

// RewardEligible reports whether the last finished level earned the reward.
func (e *Engine) RewardEligible() bool { return e.done && e.results.RewardEligible }
