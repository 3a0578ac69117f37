package tui

import (
	"github.com/charmbracelet/lipgloss"
)

type AppTheme struct {
	Primary    string
	Secondary  string
	Accent     string
	Text       string
	Subtle     string
	Error      string
	Warning    string
	Success    string
	Background string
	Surface    string
}

func RaspberryTheme() AppTheme {
	return AppTheme{
		Primary:    "#e30b5c",
		Secondary:  "#6d1535",
		Accent:     "#ff94b8",
		Text:       "#e9e1e4",
		Subtle:     "#cfc4c9",
		Error:      "#ffb4ab",
		Warning:    "#eec8b8",
		Success:    "#a8d8a0",
		Background: "#181316",
		Surface:    "#241f22",
	}
}

func NewStyles(theme AppTheme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true).
			MarginLeft(1).
			MarginBottom(1),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)),

		Bold: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)).
			Bold(true),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Warning)),

		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)).
			Bold(true),

		SpinnerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)).
			Bold(true),

		SelectedOption: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)).
			Bold(true),
	}
}

type Styles struct {
	Title          lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Subtle         lipgloss.Style
	Warning        lipgloss.Style
	Error          lipgloss.Style
	Key            lipgloss.Style
	SpinnerStyle   lipgloss.Style
	Success        lipgloss.Style
	SelectedOption lipgloss.Style
}
