package ui

import "reactants/internal/game"

// Mask decides what the challenge boxes reveal. Between attempts nothing is
// shown; once the answer is out everything is.
func Mask(play game.PlayState, vis game.ChallengeVisibility) (molecules, numbers bool) {
	switch play {
	case game.PlayTryAgain:
		return false, false
	case game.PlayShowAnswer, game.PlayNext:
		return true, true
	}
	switch vis {
	case game.VisibilityMolecules:
		return true, false
	case game.VisibilityNumbers:
		return false, true
	default:
		return true, true
	}
}
