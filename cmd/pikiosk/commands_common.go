package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AvengeMedia/pikiosk/internal/compositor"
)

func printASCII() {
	fmt.Println(`
██████╗ ██╗██╗  ██╗██╗ ██████╗ ███████╗██╗  ██╗
██╔══██╗██║██║ ██╔╝██║██╔═══██╗██╔════╝██║ ██╔╝
██████╔╝██║█████╔╝ ██║██║   ██║███████╗█████╔╝
██╔═══╝ ██║██╔═██╗ ██║██║   ██║╚════██║██╔═██╗
██║     ██║██║  ██╗██║╚██████╔╝███████║██║  ██╗
╚═╝     ╚═╝╚═╝  ╚═╝╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝`)
}

func getHelpTemplate() string {
	return `{{.Long}}

Usage:
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`
}

func fatalf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

// newPrintLogger bridges the channel-based logging the internal
// packages use onto plain stdout for CLI usage.
func newPrintLogger() chan string {
	ch := make(chan string, 100)
	go func() {
		for msg := range ch {
			fmt.Println(msg)
		}
	}()
	return ch
}

func parseCompositor(name string) (compositor.Kind, error) {
	switch strings.ToLower(name) {
	case "wayfire":
		return compositor.Wayfire, nil
	case "labwc":
		return compositor.Labwc, nil
	default:
		return 0, fmt.Errorf("unknown compositor %q (expected wayfire or labwc)", name)
	}
}
