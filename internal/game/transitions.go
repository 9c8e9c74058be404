package game

// effect is the side effect attached to a play-state transition.
type effect int

const (
	effectNone effect = iota
	effectCorrect
	effectIncorrect
	effectEnableInputs
	effectReveal
	effectAdvance
)

// playStep is one row of the challenge transition table.
type playStep struct {
	next   PlayState
	points int
	effect effect
}

// playTransition is the pure transition table for a challenge attempt.
// correct is only consulted for IntentCheck. For PlayNext + IntentNext the
// returned step targets the next challenge; the engine turns it into the
// results phase when no challenge remains.
func playTransition(cur PlayState, intent Intent, correct bool) (playStep, bool) {
	switch {
	case cur == PlayFirstCheck && intent == IntentCheck && correct:
		return playStep{next: PlayNext, points: PointsFirstTry, effect: effectCorrect}, true
	case cur == PlayFirstCheck && intent == IntentCheck:
		return playStep{next: PlayTryAgain, effect: effectIncorrect}, true
	case cur == PlayTryAgain && intent == IntentTryAgain:
		return playStep{next: PlaySecondCheck, effect: effectEnableInputs}, true
	case cur == PlaySecondCheck && intent == IntentCheck && correct:
		return playStep{next: PlayNext, points: PointsSecondTry, effect: effectCorrect}, true
	case cur == PlaySecondCheck && intent == IntentCheck:
		return playStep{next: PlayShowAnswer, effect: effectIncorrect}, true
	case cur == PlayShowAnswer && intent == IntentShowAnswer:
		return playStep{next: PlayNext, points: PointsShowAnswer, effect: effectReveal}, true
	case cur == PlayNext && intent == IntentNext:
		return playStep{next: PlayFirstCheck, effect: effectAdvance}, true
	}
	return playStep{}, false
}

var phaseTransitions = map[GamePhase][]GamePhase{
	PhaseSettings: {PhasePlay},
	PhasePlay:     {PhaseResults, PhaseSettings},
	PhaseResults:  {PhaseSettings},
}

// CanTransition reports whether the phase table allows from -> to.
func CanTransition(from, to GamePhase) bool {
	for _, p := range phaseTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
