package reaction

import (
	"fmt"

	"reactants/internal/grading"
)

// DefaultMaxQuantity bounds how many molecules a player may enter per substance.
const DefaultMaxQuantity = 10

// Challenge is one question: the reaction, the reactant quantities before it
// runs, the expected quantities after it and what the player has entered.
type Challenge struct {
	Reaction    Reaction
	Before      Quantities
	Expected    Quantities
	Entered     Quantities
	MaxQuantity int

	order []string
}

// NewChallenge computes the expected products and leftovers for before.
func NewChallenge(r Reaction, before Quantities, maxQuantity int) (*Challenge, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if maxQuantity <= 0 {
		maxQuantity = DefaultMaxQuantity
	}
	for _, t := range r.Reactants {
		q := before[t.Symbol]
		if q < 0 || q > maxQuantity {
			return nil, fmt.Errorf("%s before quantity %d: %w", t.Symbol, q, ErrQuantityRange)
		}
	}
	for sym := range before {
		if !hasTerm(r.Reactants, sym) {
			return nil, fmt.Errorf("before quantity for %s: %w", sym, ErrUnknownSubstance)
		}
	}
	_, products, leftovers := r.Run(before)
	expected := make(Quantities, len(products)+len(leftovers))
	order := make([]string, 0, len(products)+len(leftovers))
	for _, t := range r.Products {
		expected[t.Symbol] = products[t.Symbol]
		order = append(order, t.Symbol)
	}
	for _, t := range r.Reactants {
		expected[t.Symbol] = leftovers[t.Symbol]
		order = append(order, t.Symbol)
	}
	for _, sym := range order {
		if expected[sym] > maxQuantity {
			return nil, fmt.Errorf("%s answer %d exceeds %d: %w", sym, expected[sym], maxQuantity, ErrQuantityRange)
		}
	}
	c := &Challenge{
		Reaction:    r,
		Before:      before.Clone(),
		Expected:    expected,
		MaxQuantity: maxQuantity,
		order:       order,
	}
	c.ResetEntered()
	return c, nil
}

// Symbols lists the answer fields: products first, then leftovers.
func (c *Challenge) Symbols() []string { return append([]string(nil), c.order...) }

// IsProduct reports whether sym is a product of the reaction.
func (c *Challenge) IsProduct(sym string) bool { return hasTerm(c.Reaction.Products, sym) }

func (c *Challenge) Grade() grading.Result {
	return grading.Grade(c.Expected, c.Entered, c.order)
}

func (c *Challenge) IsCorrect() bool { return c.Grade().Passed }

// Answer is the expected quantity for symbol.
func (c *Challenge) Answer(symbol string) int { return c.Expected[symbol] }

// Reveal fills the entered quantities with the answer.
func (c *Challenge) Reveal() { c.Entered = c.Expected.Clone() }

func (c *Challenge) ResetEntered() {
	c.Entered = make(Quantities, len(c.order))
	for _, sym := range c.order {
		c.Entered[sym] = 0
	}
}

func (c *Challenge) SetEntered(symbol string, quantity int) error {
	if _, ok := c.Expected[symbol]; !ok {
		return fmt.Errorf("%s: %w", symbol, ErrUnknownSubstance)
	}
	if quantity < 0 || quantity > c.MaxQuantity {
		return fmt.Errorf("%s=%d (max %d): %w", symbol, quantity, c.MaxQuantity, ErrQuantityRange)
	}
	c.Entered[symbol] = quantity
	return nil
}

func hasTerm(terms []Term, sym string) bool {
	for _, t := range terms {
		if t.Symbol == sym {
			return true
		}
	}
	return false
}
