package pkgmanager

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// AptManager drives apt-get non-interactively. Every invocation runs
// to completion and surfaces the real exit status; nothing is
// fire-and-forget.
type AptManager struct {
	sudoPassword string
	logChan      chan<- string
}

func NewAptManager(sudoPassword string, logChan chan<- string) *AptManager {
	return &AptManager{
		sudoPassword: sudoPassword,
		logChan:      logChan,
	}
}

func (a *AptManager) log(message string) {
	if a.logChan != nil {
		a.logChan <- message
	}
}

func (a *AptManager) Update(ctx context.Context, progressFunc ProgressFunc) error {
	return a.runApt(ctx, progressFunc, "Updating package lists", "update")
}

func (a *AptManager) Upgrade(ctx context.Context, progressFunc ProgressFunc) error {
	return a.runApt(ctx, progressFunc, "Upgrading installed packages", "upgrade", "-y")
}

func (a *AptManager) InstallPackages(ctx context.Context, packages []string, progressFunc ProgressFunc) error {
	if len(packages) == 0 {
		return nil
	}

	a.log(fmt.Sprintf("Installing packages: %s", strings.Join(packages, ", ")))
	args := append([]string{"install", "-y"}, packages...)
	return a.runApt(ctx, progressFunc, "Installing packages", args...)
}

func (a *AptManager) Clean(ctx context.Context) error {
	return a.runApt(ctx, nil, "Cleaning package cache", "clean")
}

func (a *AptManager) runApt(ctx context.Context, progressFunc ProgressFunc, step string, args ...string) error {
	if progressFunc != nil {
		progressFunc(step, 0.0, false)
	}

	cmd := a.sudoCommand(ctx, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open apt-get stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start apt-get %s: %w", args[0], err)
	}

	var lastLine string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lastLine = line
		a.log(line)
		if progressFunc != nil {
			progressFunc(step, 0.5, false)
		}
	}

	if err := cmd.Wait(); err != nil {
		a.log(fmt.Sprintf("apt-get %s failed: %v", args[0], err))
		if lastLine != "" {
			return fmt.Errorf("apt-get %s failed: %w: %s", args[0], err, lastLine)
		}
		return fmt.Errorf("apt-get %s failed: %w", args[0], err)
	}

	if progressFunc != nil {
		progressFunc(step, 1.0, true)
	}
	a.log(fmt.Sprintf("apt-get %s completed", args[0]))
	return nil
}

func (a *AptManager) sudoCommand(ctx context.Context, args ...string) *exec.Cmd {
	aptArgs := strings.Join(args, " ")
	if a.sudoPassword != "" {
		return exec.CommandContext(ctx, "bash", "-c",
			fmt.Sprintf("echo '%s' | sudo -S env DEBIAN_FRONTEND=noninteractive apt-get %s", a.sudoPassword, aptArgs))
	}
	return exec.CommandContext(ctx, "bash", "-c",
		fmt.Sprintf("sudo env DEBIAN_FRONTEND=noninteractive apt-get %s", aptArgs))
}
