package devtools

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"reactants/internal/game"
)

const (
	IntentStart      = "start"
	IntentSet        = "set"
	IntentCheck      = "check"
	IntentTryAgain   = "try_again"
	IntentShowAnswer = "show_answer"
	IntentNext       = "next"
	IntentNewGame    = "new_game"
	IntentBack       = "back"
	// IntentSolve enters the answer for every field.
	IntentSolve = "solve"
	// IntentWrong enters the answer with the first field off by one.
	IntentWrong = "wrong"
	// IntentFinish solves and advances until the level reaches results.
	IntentFinish = "finish"
)

var knownIntents = map[string]struct{}{
	IntentStart: {}, IntentSet: {}, IntentCheck: {}, IntentTryAgain: {}, IntentShowAnswer: {},
	IntentNext: {}, IntentNewGame: {}, IntentBack: {}, IntentSolve: {}, IntentWrong: {}, IntentFinish: {},
}

type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Intent     string  `yaml:"intent"`
	Level      int     `yaml:"level"`
	Visibility string  `yaml:"visibility"`
	Symbol     string  `yaml:"symbol"`
	Value      int     `yaml:"value"`
	Expect     *Expect `yaml:"expect"`
}

// Expect asserts the state after a step. Empty fields are not checked.
type Expect struct {
	Phase string `yaml:"phase"`
	Play  string `yaml:"play"`
	Score *int   `yaml:"score"`
	Error bool   `yaml:"error"`
}

func LoadScript(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, err := ParseScript(b)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScript(b []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one item")
	}
	for i, st := range s.Steps {
		intent := strings.TrimSpace(st.Intent)
		if _, ok := knownIntents[intent]; !ok {
			return fmt.Errorf("steps[%d]: unknown intent %q", i, st.Intent)
		}
		switch intent {
		case IntentStart:
			if st.Level < 0 {
				return fmt.Errorf("steps[%d]: level must be >= 0", i)
			}
			if _, err := game.ParseVisibility(st.Visibility); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		case IntentSet:
			if strings.TrimSpace(st.Symbol) == "" {
				return fmt.Errorf("steps[%d]: symbol is required", i)
			}
		}
	}
	return nil
}
