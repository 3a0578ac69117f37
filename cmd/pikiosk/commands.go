package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pikiosk",
	Short: "Raspberry Pi kiosk manager",
	Long:  "Raspberry Pi kiosk management CLI\n\nManage the display resolution, login manager, and boot splash of a\nkiosk provisioned with pikiosk-setup.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run:   runVersion,
}

var resolutionCmd = &cobra.Command{
	Use:   "resolution",
	Short: "Manage the display resolution",
	Long:  "Inspect the modes the connected display advertises and pin one in the boot command line.",
}

var resolutionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes advertised by the connected display",
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		if err := listResolutions(output); err != nil {
			fatalf("Error listing modes: %v", err)
		}
	},
}

var resolutionSetCmd = &cobra.Command{
	Use:   "set <WIDTHxHEIGHT@RATEHz>",
	Short: "Pin a display mode in the boot command line",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		comp, _ := cmd.Flags().GetString("compositor")
		if err := setResolution(args[0], output, comp); err != nil {
			fatalf("Error setting resolution: %v", err)
		}
	},
}

var greeterCmd = &cobra.Command{
	Use:   "greeter",
	Short: "Manage the greetd login manager",
}

var greeterInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Configure greetd to auto-start the kiosk session",
	Run: func(cmd *cobra.Command, args []string) {
		comp, _ := cmd.Flags().GetString("compositor")
		user, _ := cmd.Flags().GetString("user")
		vt, _ := cmd.Flags().GetInt("vt")
		if err := installGreeter(comp, user, vt); err != nil {
			fatalf("Error installing greeter: %v", err)
		}
	},
}

var splashCmd = &cobra.Command{
	Use:   "splash",
	Short: "Manage the Plymouth boot splash",
}

var splashStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current boot splash configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if err := splashStatus(); err != nil {
			fatalf("Error reading splash status: %v", err)
		}
	},
}

var splashThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List installed Plymouth themes",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listSplashThemes(); err != nil {
			fatalf("Error listing themes: %v", err)
		}
	},
}

var splashSetThemeCmd = &cobra.Command{
	Use:   "set-theme <name>",
	Short: "Set the active Plymouth theme and rebuild the initramfs",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setSplashTheme(args[0]); err != nil {
			fatalf("Error setting theme: %v", err)
		}
	},
}

var splashInstallThemeCmd = &cobra.Command{
	Use:   "install-theme <git-url>",
	Short: "Install a Plymouth theme from a git repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := installSplashTheme(args[0]); err != nil {
			fatalf("Error installing theme: %v", err)
		}
	},
}

var splashEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the splash screen in the boot files",
	Run: func(cmd *cobra.Command, args []string) {
		if err := enableSplash(); err != nil {
			fatalf("Error enabling splash: %v", err)
		}
	},
}

func runVersion(cmd *cobra.Command, args []string) {
	printASCII()
	fmt.Printf("Raspberry Pi kiosk manager %s\n", Version)
}
