package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/steps"
)

func (m Model) viewWelcome() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Title.Render("Raspberry Pi kiosk setup " + m.version)
	b.WriteString(title)
	b.WriteString("\n")

	if m.osInfo != nil {
		info := fmt.Sprintf("System: %s (%s)\n", m.osInfo.PrettyName, m.osInfo.Architecture)
		b.WriteString(m.styles.Normal.Render(info))
		if m.osInfo.BoardModel != "" {
			b.WriteString(m.styles.Normal.Render("Board:  " + m.osInfo.BoardModel + "\n"))
		}
		b.WriteString("\n")

		if !m.osInfo.IsRaspberryPi() {
			warning := m.styles.Warning.Render("⚠ This does not look like a Raspberry Pi. Boot-file changes may not apply.\n")
			b.WriteString(warning)
			b.WriteString("\n")
		}

		overview := "This will turn the machine into a Chromium kiosk: Wayland compositor,\n"
		overview += "auto-login session, pinned display resolution, and a boot splash.\n"
		overview += "Every step is confirmed individually before anything runs.\n"
		b.WriteString(m.styles.Normal.Render(overview))
		b.WriteString("\n\n")

	} else if m.isLoading {
		spinner := m.spinner.View()
		loading := m.styles.Normal.Render("Detecting system...")
		b.WriteString(fmt.Sprintf("%s %s\n\n", spinner, loading))
	}

	if m.osInfo != nil {
		help := m.styles.Subtle.Render("Press Enter to choose a compositor, Ctrl+C to quit")
		b.WriteString(help)
	} else {
		help := m.styles.Subtle.Render("Press Enter to continue, Ctrl+C to quit")
		b.WriteString(help)
	}

	return b.String()
}

func (m Model) updateWelcomeState(msg tea.Msg) (tea.Model, tea.Cmd) {
	if completeMsg, ok := msg.(osInfoCompleteMsg); ok {
		m.isLoading = false
		if completeMsg.err != nil {
			m.err = completeMsg.err
			m.state = StateError
			return m, m.listenForLogs()
		}

		m.osInfo = completeMsg.info
		session, err := steps.NewSession(completeMsg.info, m.logChan)
		if err != nil {
			m.err = err
			m.state = StateError
			return m, m.listenForLogs()
		}
		m.session = session
		return m, m.listenForLogs()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.session != nil {
				m.state = StateSelectCompositor
				return m, m.listenForLogs()
			}
		}
	}
	return m, m.listenForLogs()
}
