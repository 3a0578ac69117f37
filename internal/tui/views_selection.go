package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/compositor"
)

var compositorChoices = []compositor.Kind{compositor.Wayfire, compositor.Labwc}

func (m Model) viewSelectCompositor() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	title := m.styles.Title.Render("Choose Compositor")
	b.WriteString(title)
	b.WriteString("\n\n")

	for i, kind := range compositorChoices {
		desc, err := compositor.Describe(kind)
		if err != nil {
			continue
		}

		if i == m.selectedCompositor {
			selected := m.styles.SelectedOption.Render("▶ " + desc.Name)
			b.WriteString(selected)
			b.WriteString("\n")
			b.WriteString(m.styles.Subtle.Render("  " + desc.Description))
		} else {
			normal := m.styles.Normal.Render("  " + desc.Name)
			b.WriteString(normal)
			b.WriteString("\n")
			b.WriteString(m.styles.Subtle.Render("  " + desc.Description))
		}
		b.WriteString("\n")
		if i < len(compositorChoices)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	help := m.styles.Subtle.Render("Use ↑/↓ to navigate, Enter to select")
	b.WriteString(help)

	return b.String()
}

func (m Model) updateSelectCompositorState(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up":
			if m.selectedCompositor > 0 {
				m.selectedCompositor--
			}
		case "down":
			if m.selectedCompositor < len(compositorChoices)-1 {
				m.selectedCompositor++
			}
		case "enter":
			m.session.Compositor = compositorChoices[m.selectedCompositor]
			m.state = StateStepPrompts
			m.stepIdx = 0
			m.promptErr = ""
			return m, m.listenForLogs()
		}
	}
	return m, m.listenForLogs()
}
