package main

import (
	"os"

	"github.com/AvengeMedia/pikiosk/internal/log"
)

var Version = "dev"

func init() {
	// Flags
	resolutionSetCmd.Flags().String("output", "", "display output name (default: first connected)")
	resolutionSetCmd.Flags().String("compositor", "", "also pin the mode in the compositor config (wayfire or labwc)")
	resolutionListCmd.Flags().String("output", "", "display output name (default: first connected)")
	greeterInstallCmd.Flags().String("compositor", "labwc", "compositor session to launch (wayfire or labwc)")
	greeterInstallCmd.Flags().String("user", os.Getenv("USER"), "user the session runs as")
	greeterInstallCmd.Flags().Int("vt", 7, "virtual terminal for the greeter")

	// Subcommands
	resolutionCmd.AddCommand(resolutionListCmd, resolutionSetCmd)
	greeterCmd.AddCommand(greeterInstallCmd)
	splashCmd.AddCommand(splashStatusCmd, splashThemesCmd, splashSetThemeCmd, splashInstallThemeCmd, splashEnableCmd)

	rootCmd.AddCommand(versionCmd, resolutionCmd, greeterCmd, splashCmd)
	rootCmd.SetHelpTemplate(getHelpTemplate())
}

func main() {
	// Block root
	if os.Geteuid() == 0 {
		log.Fatal("This program should not be run as root. Exiting.")
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
