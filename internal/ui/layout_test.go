package ui

import (
	"testing"

	"charm.land/lipgloss/v2"

	"reactants/internal/game"
)

func TestDetermineLayoutMode(t *testing.T) {
	if got := DetermineLayoutMode(140, 30); got != LayoutWide {
		t.Fatalf("expected wide, got %v", got)
	}
	if got := DetermineLayoutMode(80, 30); got != LayoutCompact {
		t.Fatalf("expected compact, got %v", got)
	}
	if got := DetermineLayoutMode(50, 30); got != LayoutTooSmall {
		t.Fatalf("expected too-small, got %v", got)
	}
	if got := DetermineLayoutMode(100, 12); got != LayoutTooSmall {
		t.Fatalf("expected too-small by height, got %v", got)
	}
}

func TestMask(t *testing.T) {
	cases := []struct {
		play      game.PlayState
		vis       game.ChallengeVisibility
		molecules bool
		numbers   bool
	}{
		{game.PlayFirstCheck, game.VisibilityBoth, true, true},
		{game.PlayFirstCheck, game.VisibilityMolecules, true, false},
		{game.PlayFirstCheck, game.VisibilityNumbers, false, true},
		{game.PlaySecondCheck, game.VisibilityMolecules, true, false},
		{game.PlayTryAgain, game.VisibilityBoth, false, false},
		{game.PlayTryAgain, game.VisibilityNumbers, false, false},
		{game.PlayShowAnswer, game.VisibilityMolecules, true, true},
		{game.PlayNext, game.VisibilityNumbers, true, true},
	}
	for _, tc := range cases {
		m, n := Mask(tc.play, tc.vis)
		if m != tc.molecules || n != tc.numbers {
			t.Fatalf("Mask(%s, %s) = %v,%v want %v,%v", tc.play, tc.vis, m, n, tc.molecules, tc.numbers)
		}
	}
}

func TestThemeVariantsFallBack(t *testing.T) {
	retro := ThemeForVariant("retro_terminal")
	if retro.Overlay.GetBorderStyle() != lipgloss.DoubleBorder() {
		t.Fatalf("expected double border for retro_terminal")
	}
	unknown := ThemeForVariant("neon")
	if unknown.Overlay.GetBorderStyle() != DefaultTheme().Overlay.GetBorderStyle() {
		t.Fatalf("expected unknown variant to fall back to the default theme")
	}
}
