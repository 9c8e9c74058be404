package app

// feedbackSink turns engine cues into status text. It runs inside engine
// hooks, before the play screen is refreshed by the flow listener.
type feedbackSink struct {
	a *App
}

func (s feedbackSink) OnCorrect() {
	s.a.feedback = "Correct!"
	s.a.logger.Debug("app.feedback", map[string]any{"cue": "correct"})
}

func (s feedbackSink) OnIncorrect() {
	s.a.feedback = "Not quite."
	s.a.logger.Debug("app.feedback", map[string]any{"cue": "incorrect"})
}

func (s feedbackSink) OnRewardEligible() {
	s.a.logger.Info("app.reward", map[string]any{"session": s.a.sessionID})
	s.a.view.FlashStatus("Perfect score! Reward unlocked.")
}
