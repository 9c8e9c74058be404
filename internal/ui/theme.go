package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Header       lipgloss.Style
	Status       lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelBorder  lipgloss.Style
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Accent       lipgloss.Style
	Pass         lipgloss.Style
	Fail         lipgloss.Style
	Pending      lipgloss.Style
	Muted        lipgloss.Style
	Info         lipgloss.Style
	Reactant     lipgloss.Style
	Product      lipgloss.Style
}

// palette is the handful of colors a style variant is built from.
type palette struct {
	bg, bar, fg color.Color
	frame       color.Color
	title       color.Color
	accent      color.Color
	good, bad   color.Color
	warm        color.Color
	muted       color.Color
	border      lipgloss.Border
}

var palettes = map[string]palette{
	"modern_arcade": {
		bg: lipgloss.Color("#0E1420"), bar: lipgloss.Color("#1B2740"), fg: lipgloss.Color("#EAF2FF"),
		frame: lipgloss.Color("#4B5F8A"), title: lipgloss.Color("#5EEBFF"), accent: lipgloss.Color("#5EEBFF"),
		good: lipgloss.Color("#67F0A8"), bad: lipgloss.Color("#FF6F91"), warm: lipgloss.Color("#FFC857"),
		muted: lipgloss.Color("#9CAAC6"), border: lipgloss.RoundedBorder(),
	},
	"cozy_clean": {
		bg: lipgloss.Color("#1E2430"), bar: lipgloss.Color("#30394A"), fg: lipgloss.Color("#F4F6FA"),
		frame: lipgloss.Color("#30394A"), title: lipgloss.Color("#F2B872"), accent: lipgloss.Color("#86B6F6"),
		good: lipgloss.Color("#80C4A3"), bad: lipgloss.Color("#D17A86"), warm: lipgloss.Color("#F2B872"),
		muted: lipgloss.Color("#A3ACC2"), border: lipgloss.RoundedBorder(),
	},
	"retro_terminal": {
		bg: lipgloss.Color("#07150A"), bar: lipgloss.Color("#12301A"), fg: lipgloss.Color("#C5F7C4"),
		frame: lipgloss.Color("#12301A"), title: lipgloss.Color("#E5D47A"), accent: lipgloss.Color("#9CF5A2"),
		good: lipgloss.Color("#9CF5A2"), bad: lipgloss.Color("#FF6B6B"), warm: lipgloss.Color("#E5D47A"),
		muted: lipgloss.Color("#73A17A"), border: lipgloss.DoubleBorder(),
	},
}

// DefaultTheme is the modern_arcade variant.
func DefaultTheme() Theme {
	return ThemeForVariant("modern_arcade")
}

// ThemeForVariant falls back to modern_arcade for unknown names.
func ThemeForVariant(variant string) Theme {
	p, ok := palettes[variant]
	if !ok {
		p = palettes["modern_arcade"]
	}
	return p.theme()
}

func (p palette) theme() Theme {
	fg := func(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Theme{
		Header:      lipgloss.NewStyle().Background(p.bg).Foreground(p.fg).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(p.bar).Foreground(p.fg).Padding(0, 1),
		PanelTitle:  fg(p.title).Bold(true),
		PanelBorder: fg(p.frame),
		Overlay: lipgloss.NewStyle().
			BorderStyle(p.border).
			BorderForeground(p.title).
			Background(p.bg).
			Foreground(p.fg).
			Padding(1, 2),
		OverlayTitle: fg(p.title).Bold(true),
		Accent:       fg(p.accent).Bold(true),
		Pass:         fg(p.good).Bold(true),
		Fail:         fg(p.bad).Bold(true),
		Pending:      fg(p.warm),
		Muted:        fg(p.muted),
		Info:         fg(p.accent),
		Reactant:     fg(p.warm),
		Product:      fg(p.good),
	}
}
