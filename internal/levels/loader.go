package levels

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/pack.yaml
var builtinPack []byte

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadPacks reads every <root>/<dir>/pack.yaml. An empty or missing root
// yields no packs.
func (l *FSLoader) LoadPacks(ctx context.Context, root string) ([]Pack, error) {
	if root == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	packs := make([]Pack, 0)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		packPath := filepath.Join(root, entry.Name())
		packYAML := filepath.Join(packPath, "pack.yaml")
		if _, err := os.Stat(packYAML); err != nil {
			continue
		}
		pack, err := readPack(packYAML)
		if err != nil {
			return nil, fmt.Errorf("load pack %s: %w", packPath, err)
		}
		pack.Path = packPath
		packs = append(packs, pack)
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].PackID < packs[j].PackID })
	return packs, nil
}

// Builtin returns the pack compiled into the binary.
func (l *FSLoader) Builtin() (Pack, error) {
	pack, err := ParsePack(builtinPack)
	if err != nil {
		return pack, fmt.Errorf("builtin pack: %w", err)
	}
	return pack, nil
}

func (l *FSLoader) FindPack(packs []Pack, packID string) (Pack, error) {
	for _, p := range packs {
		if p.PackID == packID {
			return p, nil
		}
	}
	return Pack{}, fmt.Errorf("pack %s not found", packID)
}

func readPack(path string) (Pack, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, err
	}
	return ParsePack(b)
}

// ParsePack decodes and validates a pack document.
func ParsePack(b []byte) (Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return pack, fmt.Errorf("parse pack: %w", err)
	}
	if err := pack.Validate(); err != nil {
		return pack, err
	}
	return pack, nil
}
