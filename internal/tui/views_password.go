package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/system"
)

func (m Model) viewPasswordPrompt() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Title.Render("Sudo Authentication")
	b.WriteString(title)
	b.WriteString("\n\n")

	message := "The selected steps need sudo privileges.\nPlease enter your password to continue:"
	b.WriteString(m.styles.Normal.Render(message))
	b.WriteString("\n\n")

	b.WriteString(m.passwordInput.View())
	b.WriteString("\n")

	if m.validating {
		spinner := m.spinner.View()
		status := m.styles.Normal.Render("Validating sudo password...")
		b.WriteString(spinner + " " + status)
		b.WriteString("\n")
	} else if m.promptErr != "" {
		errorMsg := m.styles.Error.Render("✗ " + m.promptErr)
		b.WriteString(errorMsg)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := m.styles.Subtle.Render("Enter: Continue, Esc: Back, Ctrl+C: Cancel")
	b.WriteString(help)

	return b.String()
}

func (m Model) updatePasswordPromptState(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if validMsg, ok := msg.(passwordValidMsg); ok {
		m.validating = false
		if validMsg.valid {
			m.session.SudoPassword = validMsg.password
			m.passwordInput.SetValue("")
			m.promptErr = ""
			m.state = StateRunning
			m.isLoading = true
			return m, tea.Batch(m.spinner.Tick, m.startExecution(), m.listenForProgress(), m.listenForLogs())
		}

		m.promptErr = "Incorrect password. Please try again."
		m.passwordInput.SetValue("")
		m.passwordInput.Focus()
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.validating {
				return m, nil
			}

			password := m.passwordInput.Value()
			if password == "" {
				return m, nil
			}

			m.validating = true
			m.promptErr = ""
			return m, tea.Batch(m.spinner.Tick, m.validatePassword(password))
		case "esc":
			m.passwordInput.SetValue("")
			m.promptErr = ""
			m.state = StateStepPrompts
			m.stepIdx = 0
			return m, nil
		}
	}

	m.passwordInput, cmd = m.passwordInput.Update(msg)
	return m, cmd
}

func (m Model) validatePassword(password string) tea.Cmd {
	return func() tea.Msg {
		if system.ValidatePassword(password) {
			return passwordValidMsg{password: password, valid: true}
		}
		return passwordValidMsg{password: "", valid: false}
	}
}
