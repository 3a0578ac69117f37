package main

import (
	"context"
	"fmt"

	"github.com/AvengeMedia/pikiosk/internal/compositor"
	"github.com/AvengeMedia/pikiosk/internal/greeter"
	"github.com/AvengeMedia/pikiosk/internal/system"
)

func installGreeter(compositorName, user string, vt int) error {
	if user == "" {
		return fmt.Errorf("no user given and $USER is empty")
	}

	kind, err := parseCompositor(compositorName)
	if err != nil {
		return err
	}
	desc, err := compositor.Describe(kind)
	if err != nil {
		return err
	}

	fmt.Println("=== Kiosk Greeter Installation ===")

	ctx := context.Background()
	logChan := newPrintLogger()
	runner := system.NewRunner("", logChan)

	if !system.CommandExists("greetd") {
		return fmt.Errorf("greetd is not installed; install it first (apt install greetd)")
	}

	installer := greeter.NewInstaller(runner, logChan)
	if err := installer.Install(ctx, greeter.Config{
		VT:      vt,
		User:    user,
		Command: desc.SessionCommand,
	}); err != nil {
		return err
	}

	fmt.Println("\n=== Installation Complete ===")
	fmt.Println("\nTo test the greeter, run:")
	fmt.Println("  sudo systemctl start greetd")
	fmt.Println("\nThe session starts automatically on the next boot.")

	return nil
}
