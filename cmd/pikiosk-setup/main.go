package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AvengeMedia/pikiosk/internal/log"
	"github.com/AvengeMedia/pikiosk/internal/tui"
)

var Version = "dev"

func main() {
	// Per-user config paths and sudo escalation both assume a normal
	// user; refuse to start as root before anything is touched.
	if os.Geteuid() == 0 {
		log.Fatal("This program should not be run as root. Exiting.")
	}

	model := tui.NewModel(Version)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
