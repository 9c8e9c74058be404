package game

import (
	"fmt"
	"strings"
)

// GamePhase is the top-level phase of a play session.
type GamePhase int

const (
	PhaseSettings GamePhase = iota
	PhasePlay
	PhaseResults
)

func (p GamePhase) String() string {
	switch p {
	case PhaseSettings:
		return "settings"
	case PhasePlay:
		return "play"
	case PhaseResults:
		return "results"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PlayState says which action is valid for the current challenge.
// It is PlayNone whenever the phase is not PhasePlay.
type PlayState int

const (
	PlayNone PlayState = iota
	PlayFirstCheck
	PlayTryAgain
	PlaySecondCheck
	PlayShowAnswer
	PlayNext
)

func (s PlayState) String() string {
	switch s {
	case PlayNone:
		return "none"
	case PlayFirstCheck:
		return "first_check"
	case PlayTryAgain:
		return "try_again"
	case PlaySecondCheck:
		return "second_check"
	case PlayShowAnswer:
		return "show_answer"
	case PlayNext:
		return "next"
	default:
		return fmt.Sprintf("play_state(%d)", int(s))
	}
}

// InputsEnabled reports whether the player may edit quantities.
func (s PlayState) InputsEnabled() bool {
	return s == PlayFirstCheck || s == PlaySecondCheck
}

// ChallengeVisibility is what the challenge UI reveals for a whole level.
type ChallengeVisibility int

const (
	VisibilityBoth ChallengeVisibility = iota
	VisibilityMolecules
	VisibilityNumbers
)

func (v ChallengeVisibility) String() string {
	switch v {
	case VisibilityMolecules:
		return "molecules"
	case VisibilityNumbers:
		return "numbers"
	case VisibilityBoth:
		return "both"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

func (v ChallengeVisibility) Valid() bool {
	return v == VisibilityBoth || v == VisibilityMolecules || v == VisibilityNumbers
}

// ParseVisibility accepts the names printed by String. Empty means both.
func ParseVisibility(raw string) (ChallengeVisibility, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "both":
		return VisibilityBoth, nil
	case "molecules":
		return VisibilityMolecules, nil
	case "numbers":
		return VisibilityNumbers, nil
	default:
		return VisibilityBoth, fmt.Errorf("%w %q", ErrInvalidVisibility, raw)
	}
}

// Intent is a player action issued by the view.
type Intent string

const (
	IntentStartLevel     Intent = "start_level"
	IntentCheck          Intent = "check"
	IntentTryAgain       Intent = "try_again"
	IntentShowAnswer     Intent = "show_answer"
	IntentNext           Intent = "next"
	IntentNewGame        Intent = "new_game"
	IntentBackToSettings Intent = "back_to_settings"
	IntentSetQuantity    Intent = "set_quantity"
)

// Flow is the (phase, play state) pair. Both halves live in one value so no
// listener can see one half changed without the other.
type Flow struct {
	Phase GamePhase
	Play  PlayState
}

func (f Flow) String() string { return f.Phase.String() + "/" + f.Play.String() }

// Valid reports whether the pair respects PlayState != none iff phase is play.
func (f Flow) Valid() bool {
	return (f.Play != PlayNone) == (f.Phase == PhasePlay)
}
