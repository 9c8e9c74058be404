package levels

import (
	"fmt"
	"regexp"

	"reactants/internal/game"
	"reactants/internal/reaction"
)

const (
	PackKind               = "pack"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

type Pack struct {
	Kind          string         `yaml:"kind"`
	SchemaVersion int            `yaml:"schema_version"`
	PackID        string         `yaml:"pack_id"`
	Name          string         `yaml:"name"`
	Version       string         `yaml:"version"`
	DescriptionMD string         `yaml:"description_md"`
	MaxQuantity   int            `yaml:"max_quantity"`
	Reactions     []ReactionSpec `yaml:"reactions"`
	Levels        []LevelSpec    `yaml:"levels"`

	Path string `yaml:"-"`
}

type ReactionSpec struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Reactants []TermSpec `yaml:"reactants"`
	Products  []TermSpec `yaml:"products"`
}

type TermSpec struct {
	Symbol      string `yaml:"symbol"`
	Coefficient int    `yaml:"coefficient"`
}

type LevelSpec struct {
	LevelID       string          `yaml:"level_id"`
	Title         string          `yaml:"title"`
	SummaryMD     string          `yaml:"summary_md"`
	DescriptionMD string          `yaml:"description_md"`
	Visibility    string          `yaml:"visibility"`
	Seed          *int64          `yaml:"seed"`
	Challenges    []ChallengeSpec `yaml:"challenges"`
}

type ChallengeSpec struct {
	Reaction string         `yaml:"reaction"`
	Before   map[string]int `yaml:"before"`
}

// Reaction converts the YAML entry into the reaction model.
func (r ReactionSpec) Reaction() reaction.Reaction {
	out := reaction.Reaction{ID: r.ID, Name: r.Name}
	for _, t := range r.Reactants {
		out.Reactants = append(out.Reactants, reaction.Term{Symbol: t.Symbol, Coefficient: t.Coefficient})
	}
	for _, t := range r.Products {
		out.Products = append(out.Products, reaction.Term{Symbol: t.Symbol, Coefficient: t.Coefficient})
	}
	return out
}

// DefaultVisibility is the level's suggested visibility, BOTH when unset.
func (l LevelSpec) DefaultVisibility() game.ChallengeVisibility {
	v, err := game.ParseVisibility(l.Visibility)
	if err != nil {
		return game.VisibilityBoth
	}
	return v
}

func (p Pack) Validate() error {
	if p.Kind != PackKind {
		return fmt.Errorf("kind must be %q", PackKind)
	}
	if p.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if p.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported pack schema_version %d (max supported %d)", p.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(p.PackID) {
		return fmt.Errorf("invalid pack_id %q", p.PackID)
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Version == "" {
		return fmt.Errorf("version is required")
	}
	if p.MaxQuantity < 0 {
		return fmt.Errorf("max_quantity must be >= 0")
	}
	if len(p.Reactions) == 0 {
		return fmt.Errorf("reactions must contain at least one item")
	}
	reactions := map[string]reaction.Reaction{}
	for _, r := range p.Reactions {
		if !idPattern.MatchString(r.ID) {
			return fmt.Errorf("invalid reaction id %q", r.ID)
		}
		if _, ok := reactions[r.ID]; ok {
			return fmt.Errorf("duplicate reaction id %q", r.ID)
		}
		rx := r.Reaction()
		if err := rx.Validate(); err != nil {
			return fmt.Errorf("reaction %q: %w", r.ID, err)
		}
		reactions[r.ID] = rx
	}
	if len(p.Levels) == 0 {
		return fmt.Errorf("levels must contain at least one item")
	}
	seen := map[string]struct{}{}
	for _, l := range p.Levels {
		if _, ok := seen[l.LevelID]; ok {
			return fmt.Errorf("duplicate level_id %q", l.LevelID)
		}
		seen[l.LevelID] = struct{}{}
		if err := l.validate(reactions, p.maxQuantity()); err != nil {
			return fmt.Errorf("level %q: %w", l.LevelID, err)
		}
	}
	return nil
}

func (l LevelSpec) validate(reactions map[string]reaction.Reaction, maxQuantity int) error {
	if !idPattern.MatchString(l.LevelID) {
		return fmt.Errorf("invalid level_id %q", l.LevelID)
	}
	if l.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := game.ParseVisibility(l.Visibility); err != nil {
		return err
	}
	if len(l.Challenges) == 0 {
		return fmt.Errorf("challenges must contain at least one item")
	}
	for i, c := range l.Challenges {
		rx, ok := reactions[c.Reaction]
		if !ok {
			return fmt.Errorf("challenges[%d]: unknown reaction %q", i, c.Reaction)
		}
		if _, err := reaction.NewChallenge(rx, c.Before, maxQuantity); err != nil {
			return fmt.Errorf("challenges[%d]: %w", i, err)
		}
	}
	return nil
}

func (p Pack) maxQuantity() int {
	if p.MaxQuantity <= 0 {
		return reaction.DefaultMaxQuantity
	}
	return p.MaxQuantity
}
