package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/AvengeMedia/pikiosk/internal/patch"
	"github.com/AvengeMedia/pikiosk/internal/splash"
	"github.com/AvengeMedia/pikiosk/internal/system"
)

const keepCurrentTheme = "Keep current theme"

func (m Model) viewSelectTheme() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Title.Render("Choose Boot Splash Theme")
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.isLoading {
		spinner := m.spinner.View()
		loading := m.styles.Normal.Render("Listing Plymouth themes...")
		b.WriteString(fmt.Sprintf("%s %s\n", spinner, loading))
		return b.String()
	}

	for i, theme := range m.themes {
		if i == m.selectedTheme {
			b.WriteString(m.styles.SelectedOption.Render("▶ " + theme))
		} else {
			b.WriteString(m.styles.Normal.Render("  " + theme))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := m.styles.Subtle.Render("Use ↑/↓ to navigate, Enter to select")
	b.WriteString(help)

	return b.String()
}

func (m Model) updateSelectThemeState(msg tea.Msg) (tea.Model, tea.Cmd) {
	if listed, ok := msg.(themesListedMsg); ok {
		m.isLoading = false
		m.themes = append([]string{keepCurrentTheme}, listed.themes...)
		m.selectedTheme = 0
		return m, m.listenForLogs()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.isLoading {
		switch keyMsg.String() {
		case "up":
			if m.selectedTheme > 0 {
				m.selectedTheme--
			}
		case "down":
			if m.selectedTheme < len(m.themes)-1 {
				m.selectedTheme++
			}
		case "enter":
			if m.selectedTheme > 0 {
				m.session.SplashTheme = m.themes[m.selectedTheme]
			}
			m.state = StatePasswordPrompt
			m.passwordInput.Focus()
			return m, m.listenForLogs()
		}
	}
	return m, m.listenForLogs()
}

// listThemes asks plymouth for installed themes. Before Plymouth is
// installed this yields the stock fallback set, which the splash step
// can still apply after installation.
func (m Model) listThemes() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		runner := system.NewRunner("", m.logChan)
		sp := splash.NewConfigurator(runner, patch.New(afero.NewOsFs()), m.logChan)
		return themesListedMsg{themes: sp.ListThemes(ctx)}
	}
}
