package levels

import (
	"fmt"
	"math/rand"

	"reactants/internal/game"
	"reactants/internal/reaction"
)

// Catalog serves the challenges of one pack to the game engine. Each call to
// Challenge builds a fresh challenge, so replaying a level starts clean.
type Catalog struct {
	pack      Pack
	reactions map[string]reaction.Reaction
	order     [][]int
}

func NewCatalog(pack Pack) (*Catalog, error) {
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	c := &Catalog{
		pack:      pack,
		reactions: make(map[string]reaction.Reaction, len(pack.Reactions)),
		order:     make([][]int, len(pack.Levels)),
	}
	for _, r := range pack.Reactions {
		c.reactions[r.ID] = r.Reaction()
	}
	for i, lv := range pack.Levels {
		idx := make([]int, len(lv.Challenges))
		for j := range idx {
			idx[j] = j
		}
		if lv.Seed != nil {
			rng := rand.New(rand.NewSource(*lv.Seed))
			rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		}
		c.order[i] = idx
	}
	return c, nil
}

func (c *Catalog) Pack() Pack { return c.pack }

func (c *Catalog) LevelCount() int { return len(c.pack.Levels) }

func (c *Catalog) Level(level int) (LevelSpec, bool) {
	if level < 0 || level >= len(c.pack.Levels) {
		return LevelSpec{}, false
	}
	return c.pack.Levels[level], true
}

func (c *Catalog) ChallengeCount(level int) int {
	if level < 0 || level >= len(c.order) {
		return 0
	}
	return len(c.order[level])
}

func (c *Catalog) Challenge(level, index int) (game.Challenge, error) {
	rc, err := c.ReactionChallenge(level, index)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// ReactionChallenge is Challenge with the concrete type.
func (c *Catalog) ReactionChallenge(level, index int) (*reaction.Challenge, error) {
	if index < 0 || index >= c.ChallengeCount(level) {
		return nil, fmt.Errorf("level %d challenge %d: %w", level, index, game.ErrSupplierExhausted)
	}
	spec := c.pack.Levels[level].Challenges[c.order[level][index]]
	rc, err := reaction.NewChallenge(c.reactions[spec.Reaction], spec.Before, c.pack.maxQuantity())
	if err != nil {
		return nil, fmt.Errorf("level %d challenge %d: %w", level, index, err)
	}
	return rc, nil
}

var _ game.ChallengeSupplier = (*Catalog)(nil)
