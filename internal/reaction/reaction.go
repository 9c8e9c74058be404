// Package reaction models balanced reactions and the challenge data a player
// fills in: given reactant quantities before the reaction, how many product
// molecules form and how many reactant molecules are left over.
package reaction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownSubstance = errors.New("unknown substance")
	ErrQuantityRange    = errors.New("quantity out of range")
)

// Term is one substance in a reaction with its stoichiometric coefficient.
type Term struct {
	Symbol      string
	Coefficient int
}

type Reaction struct {
	ID        string
	Name      string
	Reactants []Term
	Products  []Term
}

// Quantities maps substance symbol to molecule count.
type Quantities map[string]int

func (q Quantities) Clone() Quantities {
	out := make(Quantities, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

func (r Reaction) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("reaction id is required")
	}
	if len(r.Reactants) == 0 || len(r.Products) == 0 {
		return fmt.Errorf("reaction %q needs reactants and products", r.ID)
	}
	seen := map[string]struct{}{}
	for _, t := range append(append([]Term(nil), r.Reactants...), r.Products...) {
		if strings.TrimSpace(t.Symbol) == "" {
			return fmt.Errorf("reaction %q has an empty symbol", r.ID)
		}
		if t.Coefficient <= 0 {
			return fmt.Errorf("reaction %q: coefficient for %s must be >0", r.ID, t.Symbol)
		}
		if _, dup := seen[t.Symbol]; dup {
			return fmt.Errorf("reaction %q lists %s more than once", r.ID, t.Symbol)
		}
		seen[t.Symbol] = struct{}{}
	}
	return nil
}

// Equation renders the reaction as "2H2 + O2 -> 2H2O".
func (r Reaction) Equation() string {
	return joinTerms(r.Reactants) + " -> " + joinTerms(r.Products)
}

func joinTerms(terms []Term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Coefficient == 1 {
			parts = append(parts, t.Symbol)
			continue
		}
		parts = append(parts, strconv.Itoa(t.Coefficient)+t.Symbol)
	}
	return strings.Join(parts, " + ")
}

// Run reacts before to completion. It returns how many times the reaction
// ran (bounded by the limiting reactant), the product counts and the leftover
// reactant counts.
func (r Reaction) Run(before Quantities) (runs int, products, leftovers Quantities) {
	runs = -1
	for _, t := range r.Reactants {
		n := before[t.Symbol] / t.Coefficient
		if runs < 0 || n < runs {
			runs = n
		}
	}
	if runs < 0 {
		runs = 0
	}
	products = make(Quantities, len(r.Products))
	for _, t := range r.Products {
		products[t.Symbol] = runs * t.Coefficient
	}
	leftovers = make(Quantities, len(r.Reactants))
	for _, t := range r.Reactants {
		leftovers[t.Symbol] = before[t.Symbol] - runs*t.Coefficient
	}
	return runs, products, leftovers
}
