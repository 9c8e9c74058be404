package devtools

import (
	"reactants/internal/game"
	"reactants/internal/property"
)

// Driver is the intent and observation surface a script runs against.
// *game.Engine satisfies it.
type Driver interface {
	StartLevel(level int, visibility game.ChallengeVisibility) error
	Check() error
	TryAgain() error
	ShowAnswer() error
	Next() error
	NewGame() error
	BackToSettings() error
	SetQuantity(symbol string, quantity int) error

	Phase() property.Observable[game.GamePhase]
	PlayState() property.Observable[game.PlayState]
	Score() property.Observable[int]
	Challenge() property.Observable[game.Challenge]
}

// answerer is implemented by challenges that can tell the runner the answer.
type answerer interface {
	Symbols() []string
	Answer(symbol string) int
}

var _ Driver = (*game.Engine)(nil)
