package devtools

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownScenario = errors.New("unknown demo scenario")

// Scenario is a named demo state reached by replaying Script from settings.
type Scenario struct {
	Name   string
	Script Script
}

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

// Names lists the scenarios Resolve knows.
func (m *Manager) Names() []string {
	return []string{"settings", "playing", "try_again", "show_answer", "results_perfect", "results"}
}

// Resolve maps a demo name to its scenario.
func (m *Manager) Resolve(name string) (Scenario, error) {
	start := Step{Intent: IntentStart, Level: 0, Visibility: "both"}
	switch name {
	case "settings", "main_menu":
		return Scenario{Name: "settings"}, nil
	case "try_again":
		return scenario(name, start, Step{Intent: IntentWrong}, Step{Intent: IntentCheck}), nil
	case "show_answer":
		return scenario(name, start,
			Step{Intent: IntentWrong}, Step{Intent: IntentCheck},
			Step{Intent: IntentTryAgain}, Step{Intent: IntentCheck},
		), nil
	case "playing":
		return scenario(name, start), nil
	case "results_perfect":
		return scenario(name, start, Step{Intent: IntentFinish}), nil
	case "results":
		return scenario(name,
			Step{Intent: IntentStart, Level: 1, Visibility: "molecules"},
			Step{Intent: IntentWrong}, Step{Intent: IntentCheck},
			Step{Intent: IntentFinish},
		), nil
	}
	return Scenario{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownScenario, name, strings.Join(m.Names(), ", "))
}

func scenario(name string, steps ...Step) Scenario {
	return Scenario{Name: name, Script: Script{Name: name, Steps: steps}}
}
