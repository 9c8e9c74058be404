package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"reactants/internal/devtools"
	"reactants/internal/game"
	"reactants/internal/levels"
	"reactants/internal/reaction"
	"reactants/internal/state"
	"reactants/internal/telemetry"
	"reactants/internal/ui"
)

type App struct {
	cfg Config

	logger  *telemetry.JSONLogger
	store   Store
	catalog *levels.Catalog
	engine  *game.Engine
	view    ui.View
	demo    *devtools.Manager
	timer   *Stopwatch

	sessionID string

	// mu serializes every engine call; controller callbacks arrive on their
	// own goroutines.
	mu         sync.Mutex
	runID      int64
	feedback   string
	committing bool
	unsubs     []func()

	devMu     sync.Mutex
	devServer *http.Server
	demoMu    sync.Mutex
	devState  struct {
		State     string
		Demo      string
		RenderSeq int
		Rendered  bool
		Pending   bool
		Error     string
	}
}

func New(cfg Config) (*App, error) {
	logger, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(cfg.StateDB)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	pack, err := loadPack(context.Background(), levels.NewLoader(), cfg)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.DebugLayout,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
	})
	a, err := assemble(cfg, logger, store, pack, view)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}
	return a, nil
}

// assemble wires the engine, ledger and view around an already loaded pack.
func assemble(cfg Config, logger *telemetry.JSONLogger, store Store, pack levels.Pack, view ui.View) (*App, error) {
	catalog, err := levels.NewCatalog(pack)
	if err != nil {
		return nil, err
	}
	if catalog.LevelCount() == 0 {
		return nil, fmt.Errorf("pack %q has no levels", pack.PackID)
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		catalog:   catalog,
		view:      view,
		demo:      devtools.NewManager(),
		sessionID: uuid.NewString(),
	}
	opts := game.Options{
		Sink:        feedbackSink{a: a},
		Records:     ledger{a: a},
		Logger:      logger,
		AutoPlayAll: cfg.Gameplay.AutoPlayAll,
		ForceReward: cfg.Gameplay.ForceReward,
	}
	if cfg.Gameplay.Timer {
		a.timer = NewStopwatch()
		opts.Timer = a.timer
	}
	a.engine = game.New(catalog, opts)

	view.SetController(a)
	a.unsubs = append(a.unsubs,
		a.engine.Flow().Subscribe(a.onFlow),
		a.engine.PlayState().Subscribe(a.onPlayState),
		a.engine.Challenge().Subscribe(a.onChallenge),
	)
	return a, nil
}

func loadPack(ctx context.Context, loader levels.Loader, cfg Config) (levels.Pack, error) {
	packs, err := loader.LoadPacks(ctx, cfg.PacksDir)
	if err != nil {
		return levels.Pack{}, err
	}
	builtin, err := loader.Builtin()
	if err != nil {
		return levels.Pack{}, err
	}
	if cfg.PackID != "" {
		return loader.FindPack(append(packs, builtin), cfg.PackID)
	}
	if len(packs) > 0 {
		return packs[0], nil
	}
	return builtin, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"session": a.sessionID,
		"pack":    a.catalog.Pack().PackID,
		"levels":  a.catalog.LevelCount(),
		"timer":   a.timer != nil,
	})

	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
	}
	if a.cfg.DemoScenario != "" {
		if _, err := a.runDemoScenario(ctx, a.cfg.DemoScenario); errors.Is(err, devtools.ErrUnknownScenario) {
			return err
		} else if err != nil {
			a.logger.Error("dev.demo.initial_failed", map[string]any{"demo": a.cfg.DemoScenario, "error": err.Error()})
		}
	}
	return a.view.Run()
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	a.mu.Lock()
	if a.engine.Phase().Get() == game.PhasePlay {
		_ = a.engine.BackToSettings()
	}
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
	a.mu.Unlock()
	if sum, err := a.store.GetSummary(ctx); err == nil {
		a.logger.Info("app.stop", map[string]any{
			"session":    a.sessionID,
			"level_runs": sum.LevelRuns,
			"finished":   sum.Finished,
			"abandoned":  sum.Abandoned,
			"attempts":   sum.Attempts,
			"passes":     sum.Passes,
		})
	}
	_ = a.store.Close()
	_ = a.logger.Close()
}

// Engine exposes the game engine for scripted runs.
func (a *App) Engine() *game.Engine { return a.engine }

// RunScript replays script against the engine under the app lock, so the
// view follows every step.
func (a *App) RunScript(ctx context.Context, script devtools.Script) ([]devtools.StepReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.committing = true
	defer func() { a.committing = false }()
	return devtools.Run(ctx, a.engine, script)
}

func (a *App) OnStartLevel(level int, visibility string) {
	if a.cfg.Gameplay.Visibility != "" {
		visibility = a.cfg.Gameplay.Visibility
	}
	vis, err := game.ParseVisibility(visibility)
	if err != nil {
		a.view.FlashStatus(err.Error())
		return
	}
	err = a.intent(game.IntentStartLevel, func() error { return a.engine.StartLevel(level, vis) })
	if err != nil && !errors.Is(err, game.ErrInvalidTransition) {
		a.view.SetSetupError("Could not start level", err.Error())
	}
}

func (a *App) OnCheck() { _ = a.intent(game.IntentCheck, a.engine.Check) }

func (a *App) OnTryAgain() { _ = a.intent(game.IntentTryAgain, a.engine.TryAgain) }

func (a *App) OnShowAnswer() { _ = a.intent(game.IntentShowAnswer, a.engine.ShowAnswer) }

func (a *App) OnNext() { _ = a.intent(game.IntentNext, a.engine.Next) }

func (a *App) OnNewGame() { _ = a.intent(game.IntentNewGame, a.engine.NewGame) }

func (a *App) OnBackToSettings() {
	_ = a.intent(game.IntentBackToSettings, a.engine.BackToSettings)
}

func (a *App) OnAdjustQuantity(symbol string, delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rc, ok := a.engine.Challenge().Get().(*reaction.Challenge)
	if !ok {
		return
	}
	next := rc.Entered[symbol] + delta
	if err := a.engine.SetQuantity(symbol, next); err != nil {
		a.logger.Warn("app.set_quantity_rejected", map[string]any{"symbol": symbol, "quantity": next, "error": err.Error()})
		a.view.FlashStatus(err.Error())
	}
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", map[string]any{"session": a.sessionID})
	a.view.Stop()
}

// intent runs one engine intent under the app lock. Illegal intents are
// already logged by the engine and are not shown to the player.
func (a *App) intent(name game.Intent, fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.committing = true
	err := fn()
	a.committing = false
	switch {
	case err == nil:
	case errors.Is(err, game.ErrInvalidTransition):
	default:
		a.logger.Error("app.intent_failed", map[string]any{"intent": string(name), "error": err.Error()})
		a.view.FlashStatus(err.Error())
	}
	return err
}

func (a *App) onFlow(next, prev game.Flow) {
	switch next.Phase {
	case game.PhaseSettings:
		if prev.Phase == game.PhasePlay {
			a.abandonRun()
		}
		a.view.SetLevels(a.levelSummaries())
		a.view.SetScreen(ui.ScreenSettings)
	case game.PhasePlay:
		entering := prev.Phase != game.PhasePlay
		if entering {
			a.startRun()
		}
		switch {
		case next.Play.InputsEnabled():
			a.feedback = ""
		case next.Play == game.PlayNext && prev.Play == game.PlayShowAnswer:
			a.feedback = "Here is the answer."
		}
		a.view.SetPlayingState(a.playingState())
		if entering {
			a.view.SetScreen(ui.ScreenPlaying)
		}
	case game.PhaseResults:
		a.view.SetResult(a.resultState())
		a.view.SetScreen(ui.ScreenResults)
	}
}

// onChallenge refreshes the play screen for edits made outside a flow change.
func (a *App) onChallenge(next, _ game.Challenge) {
	if a.committing || next == nil || a.engine.Phase().Get() != game.PhasePlay {
		return
	}
	a.view.SetPlayingState(a.playingState())
}

func (a *App) playingState() ui.PlayingState {
	level := a.engine.Level().Get()
	spec, _ := a.catalog.Level(level)
	s := ui.PlayingState{
		LevelTitle:     spec.Title,
		Level:          level,
		ChallengeIndex: a.engine.ChallengeIndex().Get(),
		ChallengeCount: a.engine.ChallengeCount(),
		Score:          a.engine.Score().Get(),
		PerfectScore:   a.engine.PerfectScore(),
		Points:         a.engine.Points(),
		Play:           a.engine.PlayState().Get(),
		Visibility:     a.engine.Visibility().Get(),
		TimerEnabled:   a.timer != nil,
		Feedback:       a.feedback,
	}
	if a.timer != nil {
		s.StartedAt = a.timer.StartedAt()
	}
	rc, ok := a.engine.Challenge().Get().(*reaction.Challenge)
	if !ok {
		return s
	}
	s.Equation = rc.Reaction.Equation()
	for _, t := range rc.Reaction.Reactants {
		s.Before = append(s.Before, ui.QuantityRow{Symbol: t.Symbol, Quantity: rc.Before[t.Symbol], Max: rc.MaxQuantity})
	}
	graded := s.Play == game.PlayShowAnswer || s.Play == game.PlayNext
	grade := rc.Grade()
	for i, sym := range rc.Symbols() {
		row := ui.QuantityRow{
			Symbol:   sym,
			Quantity: rc.Entered[sym],
			Product:  rc.IsProduct(sym),
			Max:      rc.MaxQuantity,
		}
		if graded && i < len(grade.Checks) {
			row.Status = "fail"
			if grade.Checks[i].Passed {
				row.Status = "pass"
			}
		}
		s.After = append(s.After, row)
	}
	if s.Play == game.PlayTryAgain && grade.Mismatches > 0 {
		s.Feedback = fmt.Sprintf("%s %d of %d quantities are off.", firstNonEmpty(a.feedback, "Not quite."), grade.Mismatches, len(grade.Checks))
	}
	return s
}

func (a *App) resultState() ui.ResultState {
	res, _ := a.engine.Results()
	spec, _ := a.catalog.Level(res.Level)
	return ui.ResultState{
		LevelTitle:     spec.Title,
		Score:          res.Score,
		PerfectScore:   res.PerfectScore,
		Points:         res.Points,
		Elapsed:        res.Elapsed,
		TimerEnabled:   a.timer != nil,
		RewardEligible: a.engine.RewardEligible(),
		NewBestTime:    res.NewBestTime,
	}
}

func (a *App) levelSummaries() []ui.LevelSummary {
	progress, err := a.store.GetLevelProgressMap(context.Background())
	if err != nil {
		a.logger.Error("state.progress_failed", map[string]any{"error": err.Error()})
	}
	last, err := a.store.GetLastRun(context.Background())
	if err != nil {
		a.logger.Error("state.last_run_failed", map[string]any{"error": err.Error()})
	}
	pack := a.catalog.Pack()
	out := make([]ui.LevelSummary, 0, a.catalog.LevelCount())
	for i := 0; i < a.catalog.LevelCount(); i++ {
		spec, _ := a.catalog.Level(i)
		vis := spec.DefaultVisibility().String()
		if a.cfg.Gameplay.Visibility != "" {
			vis = a.cfg.Gameplay.Visibility
		}
		p := progress[state.ProgressKey(pack.PackID, spec.LevelID)]
		out = append(out, ui.LevelSummary{
			Title:             spec.Title,
			SummaryMD:         spec.SummaryMD,
			DescriptionMD:     spec.DescriptionMD,
			Challenges:        a.catalog.ChallengeCount(i),
			DefaultVisibility: vis,
			BestScore:         p.BestScore,
			PerfectScore:      ifThen(p.FinishedCount > 0, game.PerfectScore(a.catalog.ChallengeCount(i)), 0),
			BestTimeMS:        p.BestTimeMS,
			LastRun:           lastRunLabel(last, pack.PackID, spec.LevelID),
		})
	}
	return out
}

func lastRunLabel(last *state.LastRun, packID, levelID string) string {
	if last == nil || last.PackID != packID || last.LevelID != levelID {
		return ""
	}
	outcome := "in progress"
	switch {
	case last.Finished:
		outcome = fmt.Sprintf("finished with %d", last.Score)
	case last.Abandoned:
		outcome = "abandoned"
	}
	return fmt.Sprintf("%s, %d checks, %s", outcome, last.Attempts, last.StartTS.Local().Format("Jan 2 15:04"))
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
