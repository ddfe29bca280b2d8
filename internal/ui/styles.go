package ui

import "github.com/charmbracelet/lipgloss"

// Styles used by the status bar.
type Styles struct {
	Bar     lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Help    lipgloss.Style
	Prompt  lipgloss.Style
}

// Palette: ANSI 16 colors so the bar looks the same on every profile
// that has color at all.
var (
	colorBarBG   = lipgloss.AdaptiveColor{Light: "7", Dark: "0"}
	colorError   = lipgloss.Color("9")
	colorWarning = lipgloss.Color("11")
	colorSuccess = lipgloss.Color("10")
	colorHelp    = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
)

// NewStyles builds the status bar styles for renderer r.
func NewStyles(r *lipgloss.Renderer) Styles {
	bar := r.NewStyle().Background(colorBarBG)
	return Styles{
		Bar:     bar,
		Error:   bar.Foreground(colorError).Bold(true),
		Warning: bar.Foreground(colorWarning).Bold(true),
		Success: bar.Foreground(colorSuccess).Bold(true),
		Help:    bar.Foreground(colorHelp),
		Prompt:  bar.Bold(true),
	}
}
