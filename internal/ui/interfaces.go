package ui

import (
	"time"

	"reactants/internal/game"
)

type Controller interface {
	OnStartLevel(level int, visibility string)
	OnCheck()
	OnTryAgain()
	OnShowAnswer()
	OnNext()
	OnNewGame()
	OnBackToSettings()
	OnAdjustQuantity(symbol string, delta int)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetLevels(levels []LevelSummary)
	SetPlayingState(PlayingState)
	SetResult(state ResultState)
	SetSetupError(msg, details string)
	FlashStatus(msg string)
}

type Screen int

const (
	ScreenSettings Screen = iota
	ScreenPlaying
	ScreenResults
)

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

type LevelSummary struct {
	Title             string
	SummaryMD         string
	DescriptionMD     string
	Challenges        int
	DefaultVisibility string
	BestScore         int
	PerfectScore      int
	BestTimeMS        int64
	// LastRun describes the most recent run when it was on this level.
	LastRun string
}

// PlayingState is everything the play screen shows for the current challenge.
type PlayingState struct {
	LevelTitle     string
	Level          int
	ChallengeIndex int
	ChallengeCount int
	Score          int
	PerfectScore   int
	Points         []int
	Play           game.PlayState
	Visibility     game.ChallengeVisibility
	Equation       string
	Before         []QuantityRow
	After          []QuantityRow
	TimerEnabled   bool
	StartedAt      time.Time
	// ElapsedLabel overrides live timer rendering when set (used by deterministic demos).
	ElapsedLabel string
	Feedback     string
}

type QuantityRow struct {
	Symbol   string
	Quantity int
	// Product marks product rows in the after box; the rest are leftovers.
	Product bool
	// Status is "pass", "fail" or "" once the answer has been checked.
	Status string
	Max    int
}

type ResultState struct {
	LevelTitle     string
	Score          int
	PerfectScore   int
	Points         []int
	Elapsed        time.Duration
	TimerEnabled   bool
	RewardEligible bool
	NewBestTime    bool
}
