package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/steps"
)

func (m Model) viewStepPrompts() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Title.Render("Choose Steps")
	b.WriteString(title)
	b.WriteString("\n\n")

	for i, step := range m.plan {
		switch {
		case i < m.stepIdx && m.session.Accepted[step.ID]:
			b.WriteString(m.styles.Success.Render("✓ " + step.Title))
		case i < m.stepIdx:
			b.WriteString(m.styles.Subtle.Render("✗ " + step.Title + " (skipped)"))
		case i == m.stepIdx:
			b.WriteString(m.styles.SelectedOption.Render("▶ " + step.Title))
		default:
			b.WriteString(m.styles.Normal.Render("  " + step.Title))
		}
		b.WriteString("\n")
	}

	if m.stepIdx < len(m.plan) {
		current := m.plan[m.stepIdx]
		b.WriteString("\n")
		b.WriteString(m.styles.Bold.Render(current.Title))
		b.WriteString("\n")
		b.WriteString(m.styles.Normal.Render(current.Description))
		b.WriteString("\n\n")

		prompt := m.styles.Normal.Render("Run this step? ") + m.styles.Key.Render("[y/n]")
		b.WriteString(prompt)
		b.WriteString("\n")

		if m.promptErr != "" {
			b.WriteString(m.styles.Error.Render(m.promptErr))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	note := m.styles.Subtle.Render("Package cache cleanup always runs at the end.\ny: run step, n: skip step, Esc: back, Ctrl+C: quit")
	b.WriteString(note)

	return b.String()
}

func (m Model) updateStepPromptsState(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.listenForLogs()
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.session.Accepted[m.plan[m.stepIdx].ID] = true
		m.stepIdx++
		m.promptErr = ""
	case "n", "N":
		m.session.Accepted[m.plan[m.stepIdx].ID] = false
		m.stepIdx++
		m.promptErr = ""
	case "esc":
		m.state = StateSelectCompositor
		m.stepIdx = 0
		m.promptErr = ""
		return m, m.listenForLogs()
	default:
		m.promptErr = "Please answer y or n"
		return m, m.listenForLogs()
	}

	if m.stepIdx >= len(m.plan) {
		return m.afterPrompts()
	}
	return m, m.listenForLogs()
}

// afterPrompts routes to whichever extra selections the accepted steps
// need before the password is collected.
func (m Model) afterPrompts() (tea.Model, tea.Cmd) {
	if m.session.Accepted[steps.StepResolution] {
		m.state = StateSelectResolution
		m.isLoading = true
		return m, tea.Batch(m.spinner.Tick, m.discoverModes(), m.listenForLogs())
	}
	if m.session.Accepted[steps.StepSplash] {
		m.state = StateSelectTheme
		m.isLoading = true
		return m, tea.Batch(m.spinner.Tick, m.listThemes(), m.listenForLogs())
	}
	m.state = StatePasswordPrompt
	m.passwordInput.Focus()
	return m, m.listenForLogs()
}
