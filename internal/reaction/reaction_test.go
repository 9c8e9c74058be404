package reaction

import (
	"errors"
	"testing"
)

func water() Reaction {
	return Reaction{
		ID:        "water",
		Name:      "Make water",
		Reactants: []Term{{Symbol: "H2", Coefficient: 2}, {Symbol: "O2", Coefficient: 1}},
		Products:  []Term{{Symbol: "H2O", Coefficient: 2}},
	}
}

func TestEquation(t *testing.T) {
	if got := water().Equation(); got != "2H2 + O2 -> 2H2O" {
		t.Fatalf("unexpected equation %q", got)
	}
}

func TestRunLimitingReactant(t *testing.T) {
	runs, products, leftovers := water().Run(Quantities{"H2": 5, "O2": 4})
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}
	if products["H2O"] != 4 {
		t.Fatalf("expected 4 H2O, got %d", products["H2O"])
	}
	if leftovers["H2"] != 1 || leftovers["O2"] != 2 {
		t.Fatalf("unexpected leftovers %#v", leftovers)
	}
}

func TestValidateRejectsDuplicatesAndZeroCoefficients(t *testing.T) {
	r := water()
	r.Products = append(r.Products, Term{Symbol: "H2", Coefficient: 1})
	if err := r.Validate(); err == nil {
		t.Fatalf("expected duplicate symbol error")
	}
	r = water()
	r.Reactants[0].Coefficient = 0
	if err := r.Validate(); err == nil {
		t.Fatalf("expected coefficient error")
	}
}

func TestChallengeEnteredAndCorrectness(t *testing.T) {
	c, err := NewChallenge(water(), Quantities{"H2": 4, "O2": 3}, 0)
	if err != nil {
		t.Fatalf("new challenge: %v", err)
	}
	if got := c.Symbols(); len(got) != 3 || got[0] != "H2O" {
		t.Fatalf("unexpected symbols %v", got)
	}
	if c.IsCorrect() {
		t.Fatalf("fresh challenge should not be correct")
	}
	for sym, want := range map[string]int{"H2O": 4, "H2": 0, "O2": 1} {
		if err := c.SetEntered(sym, want); err != nil {
			t.Fatalf("set %s: %v", sym, err)
		}
	}
	if !c.IsCorrect() {
		t.Fatalf("expected correct answer, grade=%#v", c.Grade())
	}
	c.ResetEntered()
	if c.IsCorrect() {
		t.Fatalf("expected reset to clear answer")
	}
	c.Reveal()
	if !c.IsCorrect() {
		t.Fatalf("expected reveal to solve")
	}
}

func TestChallengeRejectsOutOfRange(t *testing.T) {
	c, err := NewChallenge(water(), Quantities{"H2": 2, "O2": 1}, 5)
	if err != nil {
		t.Fatalf("new challenge: %v", err)
	}
	if err := c.SetEntered("H2O", 6); !errors.Is(err, ErrQuantityRange) {
		t.Fatalf("expected range error, got %v", err)
	}
	if err := c.SetEntered("CO2", 1); !errors.Is(err, ErrUnknownSubstance) {
		t.Fatalf("expected unknown substance, got %v", err)
	}
	if _, err := NewChallenge(water(), Quantities{"H2": 11}, 10); !errors.Is(err, ErrQuantityRange) {
		t.Fatalf("expected before range error, got %v", err)
	}
	if _, err := NewChallenge(water(), Quantities{"N2": 1}, 10); !errors.Is(err, ErrUnknownSubstance) {
		t.Fatalf("expected unknown before substance, got %v", err)
	}
	hcl := Reaction{
		ID:        "hydrogen-chloride",
		Reactants: []Term{{Symbol: "H2", Coefficient: 1}, {Symbol: "Cl2", Coefficient: 1}},
		Products:  []Term{{Symbol: "HCl", Coefficient: 2}},
	}
	if _, err := NewChallenge(hcl, Quantities{"H2": 2, "Cl2": 2}, 3); !errors.Is(err, ErrQuantityRange) {
		t.Fatalf("expected answer range error, got %v", err)
	}
}
