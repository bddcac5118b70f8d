// Package ui provides the visual styling for the cocktail terminal client,
// with light and dark palettes.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Semantic colors are shared by both themes.
var (
	LightBackground = lipgloss.Color("#fbf7f2") // parchment
	LightForeground = lipgloss.Color("#2b1d14") // walnut
	LightPrimary    = lipgloss.Color("#8c2f39") // bitters red
	LightAccent     = lipgloss.Color("#d98e04") // amber
	LightMuted      = lipgloss.Color("#9a8c80")
	LightBorder     = lipgloss.Color("#e3d9cf")

	DarkBackground = lipgloss.Color("#1b1412")
	DarkForeground = lipgloss.Color("#f3ebe3")
	DarkPrimary    = lipgloss.Color("#f2a541") // amber (flipped)
	DarkAccent     = lipgloss.Color("#c44d58") // bitters red (flipped)
	DarkMuted      = lipgloss.Color("#7d6e64")
	DarkBorder     = lipgloss.Color("#3a2d27")

	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#7cb342")
	Info        = lipgloss.Color("#2196F3")
)

// Theme names accepted by ThemeFor.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeFor resolves a configured theme name. Unknown names behave like auto.
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case ThemeLight:
		return LightTheme()
	case ThemeDark:
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses the terminal background from COLORFGBG
// ("foreground;background"), falling back to COCKTAIL_DARK_MODE and then to
// light.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		// ANSI 0-6 and 8 are dark backgrounds.
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	if os.Getenv("COCKTAIL_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style

	Title  lipgloss.Style
	Muted  lipgloss.Style
	Prompt lipgloss.Style

	// Category chips
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style
	ChipCursor   lipgloss.Style

	Recommendation lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Spinner lipgloss.Style
	Divider lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	chip := lipgloss.NewStyle().
		Padding(0, 1).
		MarginRight(1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Foreground)

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Chip: chip,

		ChipSelected: chip.
			BorderForeground(theme.Accent).
			Foreground(theme.Accent).
			Bold(true),

		ChipCursor: chip.
			BorderForeground(theme.Primary).
			Underline(true),

		Recommendation: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// RenderDivider returns a horizontal divider of the given width.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
