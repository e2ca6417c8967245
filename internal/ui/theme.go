package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and footer bars
	SurfaceAlt string // Form and overlay panels

	SelectionBg   string // Cursor row background
	SelectionText string // Cursor row text

	Border string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Panel    lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Tab: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		TabOn: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Accent)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Accent)).
			Background(lipgloss.Color(t.SurfaceAlt)).
			Padding(1, 2),
	}
}

// StockStyle colors a stock level: out of stock, low, or plenty.
func (s Styles) StockStyle(stock int) lipgloss.Style {
	switch {
	case stock <= 0:
		return s.DangerText
	case stock < lowStockThreshold:
		return s.WarningText
	default:
		return s.MutedText
	}
}

const lowStockThreshold = 10

// Theme definitions

var themes = map[string]Theme{
	"Foxnut":   foxnutTheme(),
	"Midnight": midnightTheme(),
	"Paper":    paperTheme(),
}

var themeOrder = []string{"Foxnut", "Midnight", "Paper"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return foxnutTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

func foxnutTheme() Theme {
	// Warm roasted-seed palette.
	return Theme{
		Name: "Foxnut",

		Background: "#1C1712",
		Surface:    "#2A221A",
		SurfaceAlt: "#362B21",

		SelectionBg:   "#5A4330",
		SelectionText: "#FFF8EC",

		Border: "#5A4330",

		Text:    "#F5EBDD",
		Muted:   "#B9A58C",
		Faint:   "#7A6A57",
		Accent:  "#E8A04A", // toasted
		Success: "#9BC46A",
		Warning: "#F2C14E",
		Danger:  "#E0604C",
		Info:    "#7FB8C9",
	}
}

func midnightTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Midnight",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#1e293b", // slate-800

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50

		Border: "#334155", // slate-700

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
		Info:    "#06b6d4", // cyan-500
	}
}

func paperTheme() Theme {
	// Light theme for bright terminals.
	return Theme{
		Name: "Paper",

		Background: "#FAF7F2",
		Surface:    "#EFE8DC",
		SurfaceAlt: "#FFFFFF",

		SelectionBg:   "#D9C7A7",
		SelectionText: "#1F1A14",

		Border: "#CDBFA8",

		Text:    "#1F1A14",
		Muted:   "#5F5446",
		Faint:   "#9A8D7B",
		Accent:  "#A65E12",
		Success: "#3F7D20",
		Warning: "#9A6B00",
		Danger:  "#B3261E",
		Info:    "#1D6A85",
	}
}
