package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"

	"reactants/internal/game"
)

type applyMsg struct {
	fn func(*Root)
}

type clockMsg time.Time
type animateMsg time.Time

type keys struct {
	Up         key.Binding
	Down       key.Binding
	Less       key.Binding
	More       key.Binding
	Action     key.Binding
	Check      key.Binding
	Visibility key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// helpKeys adapts a screen's bindings to help.KeyMap.
type helpKeys []key.Binding

func (k helpKeys) ShortHelp() []key.Binding  { return k }
func (k helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k} }

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	levels            []LevelSummary
	levelIndex        int
	visibility        game.ChallengeVisibility
	visibilityTouched bool

	state      PlayingState
	fieldIndex int
	result     ResultState

	setupMsg     string
	setupDetails string
	statusFlash  string

	help       help.Model
	keys       keys
	scoreBar   progress.Model
	markdown   *glamour.TermRenderer
	logger     *clog.Logger
	shownScore float64
	scoreVel   float64
	spring     harmonica.Spring

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "reactants-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(56),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.9)
	switch motionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 1.0)
	case "off":
		spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	scoreBar := progress.New(
		progress.WithWidth(24),
		progress.WithColors(lipgloss.Color("#FF6F91"), lipgloss.Color("#FFC857"), lipgloss.Color("#67F0A8")),
		progress.WithScaled(true),
	)

	r := &Root{
		theme:        ThemeForVariant(styleVariant),
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		screen:       ScreenSettings,
		layout:       LayoutWide,
		cols:         100,
		rows:         30,
		help:         h,
		scoreBar:     scoreBar,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
	}
	r.keys = keys{
		Up:         key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/↓", "Select")),
		Down:       key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓", "Down")),
		Less:       key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/→", "Adjust")),
		More:       key.NewBinding(key.WithKeys("right", "+", "="), key.WithHelp("→", "More")),
		Action:     key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Go")),
		Check:      key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "Check")),
		Visibility: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "Visibility")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("Ctrl+Q", "Quit")),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return clockTickCmd()
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case clockMsg:
		return r, clockTickCmd()
	case animateMsg:
		target := float64(r.result.Score)
		r.shownScore, r.scoreVel = r.spring.Update(r.shownScore, r.scoreVel, target)
		if r.shouldAnimate() {
			return r, animateTickCmd()
		}
		r.shownScore = target
		r.scoreVel = 0
		return r, nil
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 100
	}
	if r.rows < 1 {
		r.rows = 30
	}

	v := tea.NewView(r.render())
	v.AltScreen = true
	return v
}

func (r *Root) render() string {
	switch r.screen {
	case ScreenPlaying:
		return r.renderPlaying()
	case ScreenResults:
		return r.renderResults()
	default:
		return r.renderSettings()
	}
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		m.screen = screen
		m.statusFlash = ""
		if screen == ScreenPlaying {
			m.fieldIndex = 0
		}
	})
}

func (r *Root) SetLevels(levels []LevelSummary) {
	r.apply(func(m *Root) {
		m.levels = append([]LevelSummary(nil), levels...)
		m.levelIndex = wrapIndex(m.levelIndex, len(m.levels))
		m.syncVisibility()
	})
}

func (r *Root) SetPlayingState(s PlayingState) {
	r.apply(func(m *Root) {
		if s.TimerEnabled && s.StartedAt.IsZero() {
			s.StartedAt = time.Now()
		}
		if s.ChallengeIndex != m.state.ChallengeIndex || s.Level != m.state.Level {
			m.fieldIndex = 0
		}
		m.state = s
		if m.fieldIndex >= len(s.After) {
			m.fieldIndex = max(0, len(s.After)-1)
		}
	})
}

func (r *Root) SetResult(state ResultState) {
	r.apply(func(m *Root) {
		m.result = state
		m.scoreVel = 0
		if m.motionLevel == "off" {
			m.shownScore = float64(state.Score)
		} else {
			m.shownScore = 0
		}
	})
}

func (r *Root) SetSetupError(msg, details string) {
	r.apply(func(m *Root) {
		m.setupMsg = msg
		m.setupDetails = details
		m.screen = ScreenSettings
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

// dispatchController calls back into the controller off the update loop;
// the controller pushes state back through apply.
func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keys.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	switch r.screen {
	case ScreenPlaying:
		return r.handlePlayingKey(msg)
	case ScreenResults:
		return r.handleResultsKey(msg)
	default:
		return r.handleSettingsKey(msg)
	}
}

func (r *Root) handleSettingsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Up):
		r.levelIndex = wrapIndex(r.levelIndex-1, len(r.levels))
		r.syncVisibility()
	case key.Matches(msg, r.keys.Down):
		r.levelIndex = wrapIndex(r.levelIndex+1, len(r.levels))
		r.syncVisibility()
	case key.Matches(msg, r.keys.Less):
		r.visibility = cycleVisibility(r.visibility, -1)
		r.visibilityTouched = true
	case key.Matches(msg, r.keys.More, r.keys.Visibility):
		r.visibility = cycleVisibility(r.visibility, 1)
		r.visibilityTouched = true
	case key.Matches(msg, r.keys.Action):
		if len(r.levels) == 0 {
			r.statusFlash = "No levels loaded."
			return r, nil
		}
		level, vis := r.levelIndex, r.visibility.String()
		r.dispatchController(func(c Controller) { c.OnStartLevel(level, vis) })
	case key.Matches(msg, r.keys.Back):
		r.dispatchController(func(c Controller) { c.OnQuit() })
	}
	return r, nil
}

func (r *Root) handlePlayingKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	inputs := r.state.Play.InputsEnabled()
	switch {
	case key.Matches(msg, r.keys.Back):
		r.dispatchController(func(c Controller) { c.OnBackToSettings() })
		return r, nil
	case key.Matches(msg, r.keys.Action):
		if action := r.primaryAction(); action != nil {
			r.dispatchController(action)
		}
		return r, nil
	case key.Matches(msg, r.keys.Check):
		if inputs {
			r.dispatchController(func(c Controller) { c.OnCheck() })
		}
		return r, nil
	case key.Matches(msg, r.keys.Up):
		r.fieldIndex = wrapIndex(r.fieldIndex-1, len(r.state.After))
		return r, nil
	case key.Matches(msg, r.keys.Down):
		r.fieldIndex = wrapIndex(r.fieldIndex+1, len(r.state.After))
		return r, nil
	}

	row, ok := r.selectedField()
	if !inputs || !ok {
		return r, nil
	}
	delta := 0
	switch {
	case key.Matches(msg, r.keys.Less):
		delta = -1
	case key.Matches(msg, r.keys.More):
		delta = 1
	case len(msg.Text) == 1 && msg.Text[0] >= '0' && msg.Text[0] <= '9':
		delta = int(msg.Text[0]-'0') - row.Quantity
	}
	if delta == 0 {
		return r, nil
	}
	if next := row.Quantity + delta; next < 0 || (row.Max > 0 && next > row.Max) {
		r.statusFlash = fmt.Sprintf("%s must stay between 0 and %d", row.Symbol, row.Max)
		return r, nil
	}
	symbol := row.Symbol
	r.dispatchController(func(c Controller) { c.OnAdjustQuantity(symbol, delta) })
	return r, nil
}

func (r *Root) handleResultsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, r.keys.Action, r.keys.Back) {
		r.dispatchController(func(c Controller) { c.OnNewGame() })
	}
	return r, nil
}

// primaryAction is the one button the current play state allows.
func (r *Root) primaryAction() func(Controller) {
	switch r.state.Play {
	case game.PlayFirstCheck, game.PlaySecondCheck:
		return func(c Controller) { c.OnCheck() }
	case game.PlayTryAgain:
		return func(c Controller) { c.OnTryAgain() }
	case game.PlayShowAnswer:
		return func(c Controller) { c.OnShowAnswer() }
	case game.PlayNext:
		return func(c Controller) { c.OnNext() }
	}
	return nil
}

func (r *Root) primaryLabel() string {
	switch r.state.Play {
	case game.PlayFirstCheck, game.PlaySecondCheck:
		return "Check"
	case game.PlayTryAgain:
		return "Try Again"
	case game.PlayShowAnswer:
		return "Show Answer"
	case game.PlayNext:
		if r.state.ChallengeIndex+1 >= r.state.ChallengeCount {
			return "Finish"
		}
		return "Next"
	}
	return ""
}

func (r *Root) selectedField() (QuantityRow, bool) {
	if r.fieldIndex < 0 || r.fieldIndex >= len(r.state.After) {
		return QuantityRow{}, false
	}
	return r.state.After[r.fieldIndex], true
}

func (r *Root) syncVisibility() {
	if r.visibilityTouched || len(r.levels) == 0 {
		return
	}
	v, err := game.ParseVisibility(r.levels[r.levelIndex].DefaultVisibility)
	if err != nil {
		v = game.VisibilityBoth
	}
	r.visibility = v
}

func (r *Root) helpView() string {
	action := r.keys.Action
	var bindings helpKeys
	switch r.screen {
	case ScreenPlaying:
		action.SetHelp("Enter", firstNonEmptyStr(r.primaryLabel(), "Go"))
		bindings = helpKeys{action, r.keys.Up, r.keys.Less, r.keys.Back, r.keys.Quit}
	case ScreenResults:
		action.SetHelp("Enter", "New Game")
		bindings = helpKeys{action, r.keys.Quit}
	default:
		action.SetHelp("Enter", "Start")
		bindings = helpKeys{action, r.keys.Up, r.keys.Visibility, r.keys.Quit}
	}
	return r.help.View(bindings)
}

func (r *Root) animateIfNeeded() tea.Cmd {
	if r.screen == ScreenResults && r.shouldAnimate() {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate() bool {
	if r.motionLevel == "off" {
		return false
	}
	target := float64(r.result.Score)
	return abs(r.shownScore-target) > 0.01 || abs(r.scoreVel) > 0.01
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func cycleVisibility(v game.ChallengeVisibility, step int) game.ChallengeVisibility {
	order := []game.ChallengeVisibility{game.VisibilityBoth, game.VisibilityMolecules, game.VisibilityNumbers}
	for i, o := range order {
		if o == v {
			return order[wrapIndex(i+step, len(order))]
		}
	}
	return game.VisibilityBoth
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "cozy_clean", "retro_terminal", "modern_arcade":
		return strings.TrimSpace(v)
	default:
		return "modern_arcade"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"message_type", msgType,
		"screen", r.screen,
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
