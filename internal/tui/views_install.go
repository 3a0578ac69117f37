package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/steps"
)

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Title.Render("Running Setup")
	b.WriteString(title)
	b.WriteString("\n\n")

	if !m.progress.IsComplete {
		spinner := m.spinner.View()
		step := m.progress.StepTitle
		if step == "" {
			step = "Preparing..."
		}
		b.WriteString(fmt.Sprintf("%s %s", spinner, m.styles.Normal.Render(step)))
		b.WriteString("\n\n")

		progressBar := fmt.Sprintf("[%s%s] %.0f%%",
			strings.Repeat("█", int(m.progress.Progress*30)),
			strings.Repeat("░", 30-int(m.progress.Progress*30)),
			m.progress.Progress*100)
		b.WriteString(m.styles.Normal.Render(progressBar))
		b.WriteString("\n")

		if len(m.logs) > 0 {
			b.WriteString("\n")
			b.WriteString(m.styles.Subtle.Render("Live Output:"))
			b.WriteString("\n")

			maxLines := 8
			startIdx := 0
			if len(m.logs) > maxLines {
				startIdx = len(m.logs) - maxLines
			}
			for i := startIdx; i < len(m.logs); i++ {
				if m.logs[i] != "" {
					b.WriteString(m.styles.Subtle.Render("  " + m.logs[i]))
					b.WriteString("\n")
				}
			}
		}
	}

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Success.Render("Setup Complete!")
	b.WriteString(title)
	b.WriteString("\n\n")

	for _, r := range m.session.Results {
		switch {
		case r.Ran && r.Err == nil:
			b.WriteString(m.styles.Success.Render("✓ " + r.Title))
		case r.Ran:
			b.WriteString(m.styles.Error.Render("✗ " + r.Title + ": " + r.Err.Error()))
		default:
			b.WriteString(m.styles.Subtle.Render("- " + r.Title + " (skipped)"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	info := m.styles.Normal.Render("Reboot to start the kiosk session.\n\nPress Enter to exit.")
	b.WriteString(info)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Error.Render("Setup Failed")
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("✗ " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.logs) > 0 {
		b.WriteString(m.styles.Warning.Render("Logs (last 15 lines):"))
		b.WriteString("\n")

		maxLines := 15
		startIdx := 0
		if len(m.logs) > maxLines {
			startIdx = len(m.logs) - maxLines
		}
		for i := startIdx; i < len(m.logs); i++ {
			if m.logs[i] != "" {
				b.WriteString(m.styles.Subtle.Render("  " + m.logs[i]))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	help := m.styles.Subtle.Render("Press Enter to exit")
	b.WriteString(help)

	return b.String()
}

func (m Model) updateRunningState(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepProgressMsg:
		m.progress = steps.ProgressMsg(msg)

		if msg.LogOutput != "" {
			m.logs = append(m.logs, msg.LogOutput)
			if len(m.logs) > 50 {
				m.logs = m.logs[len(m.logs)-50:]
			}
		}

		if msg.IsComplete {
			m.isLoading = false
			if msg.Error != nil {
				m.err = msg.Error
				m.state = StateError
			} else {
				m.state = StateComplete
			}
			return m, m.listenForLogs()
		}
		return m, m.listenForProgress()

	case progressCompletedMsg:
		m.isLoading = false
		m.state = StateComplete
		return m, m.listenForLogs()
	}

	return m, m.listenForLogs()
}

func (m Model) updateCompleteState(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, tea.Quit
		}
	}
	return m, m.listenForLogs()
}

func (m Model) updateErrorState(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, tea.Quit
		}
	}
	return m, m.listenForLogs()
}

// startExecution runs the engine off the UI goroutine; all outcome
// reporting flows back through the progress channel.
func (m Model) startExecution() tea.Cmd {
	session := m.session
	progressChan := m.progressChan
	return func() tea.Msg {
		engine := steps.NewEngine(progressChan)
		_ = engine.Execute(context.Background(), session)
		return nil
	}
}
