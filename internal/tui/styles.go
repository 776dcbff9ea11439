package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/clf-downloader/clf/internal/config"
)

var (
	// Colors
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#bd93f9"} // Purple
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#db2777", Dark: "#ff79c6"} // Pink
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#50fa7b"} // Green
	ColorError     = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#ff5555"} // Red
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#c2410c", Dark: "#ffb86c"} // Orange
	ColorText      = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#f8f8f2"}
	ColorSubtext   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#6272a4"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#44475a"}

	// Styles
	AppStyle = lipgloss.NewStyle().
			Padding(DefaultPaddingY, 2).
			Foreground(ColorText)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Padding(DefaultPaddingY, DefaultPaddingX).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorPrimary).
			BorderBottom(true)

	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// Stats Style in Header
	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Padding(DefaultPaddingY, DefaultPaddingX)

	PollingBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	IdleBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Bold(true)

	// Downloads container
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(DefaultPaddingY, DefaultPaddingX)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	CardStatsStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Italic(true)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Italic(true).
			Padding(1, 2)

	// Status Bar Styles
	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Padding(DefaultPaddingY, DefaultPaddingX)

	ErrorStatusStyle = StatusStyle.
				Foreground(ColorError)

	// Popups
	PopupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(PopupPaddingY, PopupPaddingX)

	LabelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(ColorSubtext)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true).
			Underline(true).
			Padding(0, 1)
)

// ApplyTheme selects the light or dark variant of every adaptive color.
// ThemeAdaptive asks the terminal for its background color.
func ApplyTheme(theme int) {
	var dark bool
	switch theme {
	case config.ThemeLight:
		dark = false
	case config.ThemeDark:
		dark = true
	default:
		dark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(dark)
}
