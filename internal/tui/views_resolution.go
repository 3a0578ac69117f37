package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/output"
	"github.com/AvengeMedia/pikiosk/internal/steps"
)

func (m Model) viewSelectResolution() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Title.Render("Choose Display Resolution")
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.isLoading {
		spinner := m.spinner.View()
		loading := m.styles.Normal.Render("Reading display EDID...")
		b.WriteString(fmt.Sprintf("%s %s\n", spinner, loading))
		return b.String()
	}

	b.WriteString(m.styles.Normal.Render("Output: " + m.session.OutputName))
	b.WriteString("\n\n")

	for i, mode := range m.modes {
		if i == m.selectedMode {
			b.WriteString(m.styles.SelectedOption.Render("▶ " + mode.String()))
		} else {
			b.WriteString(m.styles.Normal.Render("  " + mode.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := m.styles.Subtle.Render("Use ↑/↓ to navigate, Enter to select")
	b.WriteString(help)

	return b.String()
}

func (m Model) updateSelectResolutionState(msg tea.Msg) (tea.Model, tea.Cmd) {
	if discovered, ok := msg.(modesDiscoveredMsg); ok {
		m.isLoading = false
		m.modes = discovered.modes
		m.selectedMode = 0
		m.session.OutputName = discovered.output
		return m, m.listenForLogs()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.isLoading {
		switch keyMsg.String() {
		case "up":
			if m.selectedMode > 0 {
				m.selectedMode--
			}
		case "down":
			if m.selectedMode < len(m.modes)-1 {
				m.selectedMode++
			}
		case "enter":
			mode := m.modes[m.selectedMode]
			m.session.Mode = &mode

			if m.session.Accepted[steps.StepSplash] {
				m.state = StateSelectTheme
				m.isLoading = true
				return m, tea.Batch(m.spinner.Tick, m.listThemes(), m.listenForLogs())
			}
			m.state = StatePasswordPrompt
			m.passwordInput.Focus()
			return m, m.listenForLogs()
		}
	}
	return m, m.listenForLogs()
}

// discoverModes reads the connected output's EDID in the background.
// Parse failures fall back to a safe default list inside DiscoverModes,
// so this always yields something selectable.
func (m Model) discoverModes() tea.Cmd {
	return func() tea.Msg {
		outputs := output.EnumerateConnected()
		name := outputs[0]

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		modes := edid.DiscoverModes(ctx, name)
		return modesDiscoveredMsg{output: name, modes: modes}
	}
}
