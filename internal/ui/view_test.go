package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"reactants/internal/game"
)

type adjustCall struct {
	symbol string
	delta  int
}

type mockController struct {
	mu      sync.Mutex
	calls   []string
	starts  []string
	adjusts []adjustCall
}

func (m *mockController) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockController) OnStartLevel(level int, visibility string) {
	m.mu.Lock()
	m.starts = append(m.starts, visibility)
	m.mu.Unlock()
	m.record("start")
}
func (m *mockController) OnCheck()          { m.record("check") }
func (m *mockController) OnTryAgain()       { m.record("try_again") }
func (m *mockController) OnShowAnswer()     { m.record("show_answer") }
func (m *mockController) OnNext()           { m.record("next") }
func (m *mockController) OnNewGame()        { m.record("new_game") }
func (m *mockController) OnBackToSettings() { m.record("back") }
func (m *mockController) OnQuit()           { m.record("quit") }
func (m *mockController) OnAdjustQuantity(symbol string, delta int) {
	m.mu.Lock()
	m.adjusts = append(m.adjusts, adjustCall{symbol: symbol, delta: delta})
	m.mu.Unlock()
	m.record("adjust")
}

func (m *mockController) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockController) waitFor(t *testing.T, name string) {
	t.Helper()
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		for _, c := range m.snapshot() {
			if c == name {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %s call, got %v", name, m.snapshot())
}

func press(v *Root, code rune, mod tea.KeyMod, text string) {
	_, _ = v.Update(tea.KeyPressMsg{Code: code, Mod: mod, Text: text})
}

func playing(play game.PlayState) PlayingState {
	return PlayingState{
		LevelTitle:     "Water",
		ChallengeCount: 5,
		Play:           play,
		Visibility:     game.VisibilityBoth,
		Equation:       "2H2 + O2 -> 2H2O",
		Before:         []QuantityRow{{Symbol: "H2", Quantity: 4, Max: 10}, {Symbol: "O2", Quantity: 3, Max: 10}},
		After: []QuantityRow{
			{Symbol: "H2O", Quantity: 2, Product: true, Max: 10},
			{Symbol: "H2", Max: 10},
			{Symbol: "O2", Max: 10},
		},
	}
}

func newPlayingRoot(play game.PlayState) (*Root, *mockController) {
	v := New(Options{ASCIIOnly: true})
	ctrl := &mockController{}
	v.SetController(ctrl)
	v.SetScreen(ScreenPlaying)
	v.SetPlayingState(playing(play))
	return v, ctrl
}

func TestViewImplementsInterfaceCompileTime(t *testing.T) {
	var _ View = New(Options{})
}

func TestSettingsEnterStartsSelectedLevel(t *testing.T) {
	v := New(Options{ASCIIOnly: true})
	ctrl := &mockController{}
	v.SetController(ctrl)
	v.SetLevels([]LevelSummary{
		{Title: "One", DefaultVisibility: "both"},
		{Title: "Two", DefaultVisibility: "numbers"},
	})

	press(v, tea.KeyDown, 0, "")
	if v.visibility != game.VisibilityNumbers {
		t.Fatalf("expected level default visibility, got %s", v.visibility)
	}
	press(v, tea.KeyRight, 0, "")
	press(v, tea.KeyEnter, 0, "")

	ctrl.waitFor(t, "start")
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if got := ctrl.starts[0]; got != game.VisibilityBoth.String() {
		t.Fatalf("expected cycled visibility both, got %q", got)
	}
}

func TestSettingsWithoutLevelsFlashes(t *testing.T) {
	v := New(Options{})
	ctrl := &mockController{}
	v.SetController(ctrl)
	press(v, tea.KeyEnter, 0, "")
	if v.statusFlash == "" {
		t.Fatalf("expected status flash")
	}
	time.Sleep(20 * time.Millisecond)
	if calls := ctrl.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no controller calls, got %v", calls)
	}
}

func TestEnterRunsPrimaryActionForPlayState(t *testing.T) {
	cases := map[game.PlayState]string{
		game.PlayFirstCheck:  "check",
		game.PlaySecondCheck: "check",
		game.PlayTryAgain:    "try_again",
		game.PlayShowAnswer:  "show_answer",
		game.PlayNext:        "next",
	}
	for play, want := range cases {
		t.Run(play.String(), func(t *testing.T) {
			v, ctrl := newPlayingRoot(play)
			press(v, tea.KeyEnter, 0, "")
			ctrl.waitFor(t, want)
		})
	}
}

func TestAdjustTargetsSelectedField(t *testing.T) {
	v, ctrl := newPlayingRoot(game.PlayFirstCheck)

	press(v, tea.KeyDown, 0, "")
	press(v, tea.KeyRight, 0, "")
	ctrl.waitFor(t, "adjust")

	press(v, tea.KeyUp, 0, "")
	press(v, '5', 0, "5")
	deadline := time.Now().Add(300 * time.Millisecond)
	for len(ctrl.snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if len(ctrl.adjusts) != 2 {
		t.Fatalf("expected 2 adjustments, got %#v", ctrl.adjusts)
	}
	got := map[string]int{}
	for _, a := range ctrl.adjusts {
		got[a.symbol] = a.delta
	}
	if got["H2"] != 1 || got["H2O"] != 3 {
		t.Fatalf("unexpected adjustments %#v", ctrl.adjusts)
	}
}

func TestAdjustIgnoredWhenInputsDisabled(t *testing.T) {
	v, ctrl := newPlayingRoot(game.PlayTryAgain)
	press(v, tea.KeyRight, 0, "")
	press(v, tea.KeyF5, 0, "")
	time.Sleep(30 * time.Millisecond)
	if calls := ctrl.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no calls while inputs disabled, got %v", calls)
	}
}

func TestAdjustBelowZeroFlashes(t *testing.T) {
	v, ctrl := newPlayingRoot(game.PlayFirstCheck)
	press(v, tea.KeyDown, 0, "")
	press(v, tea.KeyLeft, 0, "")
	if !strings.Contains(v.statusFlash, "between 0 and 10") {
		t.Fatalf("expected range flash, got %q", v.statusFlash)
	}
	time.Sleep(20 * time.Millisecond)
	if calls := ctrl.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no calls, got %v", calls)
	}
}

func TestEscFromPlayGoesBackToSettings(t *testing.T) {
	v, ctrl := newPlayingRoot(game.PlayFirstCheck)
	press(v, tea.KeyEsc, 0, "")
	ctrl.waitFor(t, "back")
}

func TestResultsEnterStartsNewGame(t *testing.T) {
	v := New(Options{ASCIIOnly: true, MotionLevel: "off"})
	ctrl := &mockController{}
	v.SetController(ctrl)
	v.SetScreen(ScreenResults)
	v.SetResult(ResultState{LevelTitle: "Water", Score: 10, PerfectScore: 10, Points: []int{2, 2, 2, 2, 2}, RewardEligible: true})

	out := v.render()
	if !strings.Contains(out, "Score: 10 / 10") || !strings.Contains(out, "Reward unlocked") {
		t.Fatalf("unexpected results view:\n%s", out)
	}
	press(v, tea.KeyEnter, 0, "")
	ctrl.waitFor(t, "new_game")
}

func TestCtrlQQuitsFromAnyScreen(t *testing.T) {
	for _, screen := range []Screen{ScreenSettings, ScreenPlaying, ScreenResults} {
		v := New(Options{})
		ctrl := &mockController{}
		v.SetController(ctrl)
		v.SetScreen(screen)
		press(v, 'q', tea.ModCtrl, "")
		ctrl.waitFor(t, "quit")
	}
}

func TestTryAgainHidesBeforeQuantities(t *testing.T) {
	v, _ := newPlayingRoot(game.PlayTryAgain)
	out := v.render()
	if strings.Contains(out, "oooo") {
		t.Fatalf("expected before molecules hidden:\n%s", out)
	}
	if !strings.Contains(out, "hidden until you try again") {
		t.Fatalf("expected hidden notice:\n%s", out)
	}

	v.SetPlayingState(playing(game.PlayFirstCheck))
	out = v.render()
	if !strings.Contains(out, "oooo") {
		t.Fatalf("expected before molecules visible:\n%s", out)
	}
}

func TestTooSmallTerminalShowsNotice(t *testing.T) {
	v, _ := newPlayingRoot(game.PlayFirstCheck)
	_, _ = v.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if out := v.render(); !strings.Contains(out, "Terminal too small") {
		t.Fatalf("expected too-small notice, got:\n%s", out)
	}
}

func TestPadCellHandlesStyledText(t *testing.T) {
	styled := DefaultTheme().Pass.Render("ok")
	if got := padCell(styled, 5); len([]rune(stripForTest(got))) != 5 {
		t.Fatalf("expected padded width 5, got %q", got)
	}
	if got := trimForWidth("abcdefgh", 5); got != "ab..." {
		t.Fatalf("unexpected trim %q", got)
	}
	if got := formatElapsed(83 * time.Second); got != "01:23" {
		t.Fatalf("unexpected elapsed %q", got)
	}
}

func stripForTest(s string) string { return ansi.Strip(s) }

func TestSettingsShowsLastRunOfSelectedLevel(t *testing.T) {
	v := New(Options{ASCIIOnly: true})
	v.SetLevels([]LevelSummary{
		{Title: "One", DefaultVisibility: "both"},
		{Title: "Two", DefaultVisibility: "both", LastRun: "abandoned"},
	})
	if out := stripForTest(v.render()); strings.Contains(out, "Last run") {
		t.Fatalf("expected no last run on level one:\n%s", out)
	}
	press(v, tea.KeyDown, 0, "")
	if out := stripForTest(v.render()); !strings.Contains(out, "Last run: abandoned") {
		t.Fatalf("expected last run on level two:\n%s", out)
	}
}

func TestPlayingShowsPointsSoFar(t *testing.T) {
	v, _ := newPlayingRoot(game.PlayFirstCheck)
	if out := stripForTest(v.render()); strings.Contains(out, "2H2O   ") {
		t.Fatalf("expected no points before the first check:\n%s", out)
	}
	s := playing(game.PlayNext)
	s.Points = []int{2, 1, 0}
	v.SetPlayingState(s)
	if out := stripForTest(v.render()); !strings.Contains(out, "2H2 + O2 -> 2H2O   * + .") {
		t.Fatalf("expected points trail:\n%s", out)
	}
}
