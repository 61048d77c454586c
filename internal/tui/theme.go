package tui

import (
	"os"
	"strings"

	"doto/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds, so every color
// is a lipgloss.AdaptiveColor and "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorSurfaceFg  = ac("235", "252")
	colorControlBg  = ac("252", "235")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorAccent     = ac("27", "62")
	colorError      = ac("160", "203")
)

// categoryPalette maps the stored color names onto terminal colors (Tailwind 500/400 shades).
var categoryPalette = map[model.Color]lipgloss.AdaptiveColor{
	model.ColorGreen:  ac("#16a34a", "#4ade80"),
	model.ColorCyan:   ac("#0891b2", "#22d3ee"),
	model.ColorZinc:   ac("#52525b", "#a1a1aa"),
	model.ColorRed:    ac("#dc2626", "#f87171"),
	model.ColorOrange: ac("#ea580c", "#fb923c"),
	model.ColorAmber:  ac("#d97706", "#fbbf24"),
	model.ColorBlue:   ac("#2563eb", "#60a5fa"),
	model.ColorPurple: ac("#9333ea", "#c084fc"),
	model.ColorPink:   ac("#db2777", "#f472b6"),
}

func categoryColor(c model.Color) lipgloss.AdaptiveColor {
	if v, ok := categoryPalette[c]; ok {
		return v
	}
	return colorMuted
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleSwatch(c model.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(categoryColor(c))
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
}

func styleHeader(c model.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(categoryColor(c))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleDone() lipgloss.Style {
	return styleMuted().Strikethrough(true)
}

func styleFocusBorder(focused bool) lipgloss.Style {
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if focused {
		return border.BorderForeground(colorAccent)
	}
	return border.BorderForeground(colorMuted)
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts termenv's detection,
// upgrading to TrueColor when COLORTERM says so.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM"))) {
	case "truecolor", "24bit":
		profile = termenv.TrueColor
	}
	lipgloss.SetColorProfile(profile)
}
