package steps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/AvengeMedia/pikiosk/internal/compositor"
	"github.com/AvengeMedia/pikiosk/internal/greeter"
	"github.com/AvengeMedia/pikiosk/internal/netcheck"
	"github.com/AvengeMedia/pikiosk/internal/pkgmanager"
	"github.com/AvengeMedia/pikiosk/internal/splash"
	"github.com/AvengeMedia/pikiosk/internal/system"
)

// Plan is the ordered list of gated steps. Package cache cleanup is
// not part of the plan: it always runs, even when every step here is
// declined.
func Plan() []Step {
	return []Step{
		{
			ID:          StepUpdate,
			Title:       "Update package lists",
			Description: "Refresh the apt package index.",
			Run:         runUpdate,
		},
		{
			ID:          StepUpgrade,
			Title:       "Upgrade installed packages",
			Description: "Bring all installed packages up to date.",
			Run:         runUpgrade,
		},
		{
			ID:          StepCompositor,
			Title:       "Install compositor",
			Description: "Install the chosen Wayland compositor and its helpers.",
			Run:         runCompositorInstall,
		},
		{
			ID:          StepBrowser,
			Title:       "Install Chromium",
			Description: "Install the browser and wire the kiosk autostart entry.",
			Run:         runBrowserInstall,
		},
		{
			ID:          StepResolution,
			Title:       "Configure display resolution",
			Description: "Pin the chosen mode in the boot command line and compositor config.",
			Run:         runResolution,
		},
		{
			ID:          StepGreeter,
			Title:       "Configure login manager",
			Description: "Install greetd and auto-start the kiosk session at boot.",
			Run:         runGreeter,
		},
		{
			ID:          StepSplash,
			Title:       "Install boot splash",
			Description: "Install Plymouth and replace boot text with a splash screen.",
			Run:         runSplash,
		},
	}
}

// Engine executes the accepted subset of the plan in order, streaming
// progress, and finishes with the unconditional cache cleanup.
type Engine struct {
	progressChan chan<- ProgressMsg
}

func NewEngine(progressChan chan<- ProgressMsg) *Engine {
	return &Engine{progressChan: progressChan}
}

func (e *Engine) progress(msg ProgressMsg) {
	if e.progressChan != nil {
		e.progressChan <- msg
	}
}

var checkConnectivity = netcheck.Check

func (e *Engine) Execute(ctx context.Context, s *Session) error {
	s.runner = system.NewRunner(s.SudoPassword, s.logChan)

	if s.pkg == nil {
		pkg, err := pkgmanager.NewPackageManager(s.OSInfo.Distribution, s.SudoPassword, s.logChan)
		if err != nil {
			e.progress(ProgressMsg{IsComplete: true, Error: err})
			return err
		}
		s.pkg = pkg
	}

	if status, err := checkConnectivity(); err != nil {
		s.log(fmt.Sprintf("Connectivity check unavailable: %v", err))
	} else if status != netcheck.StatusOnline {
		s.log(fmt.Sprintf("Warning: host looks %s; package steps may fail", status))
	}

	plan := Plan()
	total := float64(len(plan) + 1)

	var firstErr error
	for i, step := range plan {
		if !s.Accepted[step.ID] {
			s.log(fmt.Sprintf("Skipping: %s", step.Title))
			s.Results = append(s.Results, StepResult{ID: step.ID, Title: step.Title})
			continue
		}

		e.progress(ProgressMsg{
			StepID:    step.ID,
			StepTitle: step.Title,
			Progress:  float64(i) / total,
		})

		err := step.Run(ctx, s)
		s.Results = append(s.Results, StepResult{ID: step.ID, Title: step.Title, Ran: true, Err: err})
		if err != nil {
			s.log(fmt.Sprintf("Step failed: %s: %v", step.Title, err))
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", step.Title, err)
			}
			// Later steps still run; there is no rollback of what
			// already happened.
			continue
		}
		s.log(fmt.Sprintf("Completed: %s", step.Title))
	}

	e.progress(ProgressMsg{
		StepTitle: "Cleaning package cache",
		Progress:  float64(len(plan)) / total,
	})
	if err := s.pkg.Clean(ctx); err != nil {
		s.log(fmt.Sprintf("Cache cleanup failed: %v", err))
		if firstErr == nil {
			firstErr = err
		}
	}

	e.progress(ProgressMsg{Progress: 1.0, IsComplete: true, Error: firstErr})
	return firstErr
}

func runUpdate(ctx context.Context, s *Session) error {
	return s.pkg.Update(ctx, nil)
}

func runUpgrade(ctx context.Context, s *Session) error {
	return s.pkg.Upgrade(ctx, nil)
}

func runCompositorInstall(ctx context.Context, s *Session) error {
	desc, err := compositor.Describe(s.Compositor)
	if err != nil {
		return err
	}
	return s.pkg.InstallPackages(ctx, desc.Packages, nil)
}

func runBrowserInstall(ctx context.Context, s *Session) error {
	if err := s.pkg.InstallPackages(ctx, []string{"chromium-browser"}, nil); err != nil {
		return err
	}

	cfg, err := compositor.NewConfigurator(s.Compositor, afero.NewOsFs(), s.Home, s.logChan)
	if err != nil {
		return err
	}
	_, err = cfg.EnsureKiosk(s.KioskURL)
	return err
}

func runResolution(ctx context.Context, s *Session) error {
	if s.Mode == nil {
		return fmt.Errorf("no display mode selected")
	}

	cmdline := filepath.Join(s.OSInfo.BootDir, "cmdline.txt")
	result, err := s.rootPatcher(ctx).SetCmdlineToken(cmdline, "video", tokenValue(s))
	if err != nil {
		return err
	}
	s.log(result.Message)

	cfg, err := compositor.NewConfigurator(s.Compositor, afero.NewOsFs(), s.Home, s.logChan)
	if err != nil {
		return err
	}
	_, err = cfg.EnsureMode(s.OutputName, *s.Mode)
	return err
}

// tokenValue is the video= value without its key, e.g.
// HDMI-A-1:1920x1080M@60D.
func tokenValue(s *Session) string {
	token := s.Mode.CmdlineToken(s.OutputName)
	return token[len("video="):]
}

func runGreeter(ctx context.Context, s *Session) error {
	if !system.CommandExists("greetd") {
		if err := s.pkg.InstallPackages(ctx, []string{"greetd"}, nil); err != nil {
			return err
		}
	} else {
		s.log("greetd is already installed")
	}

	desc, err := compositor.Describe(s.Compositor)
	if err != nil {
		return err
	}

	installer := greeter.NewInstaller(s.runner, s.logChan)
	return installer.Install(ctx, greeter.Config{
		VT:      7,
		User:    s.User,
		Command: desc.SessionCommand,
	})
}

func runSplash(ctx context.Context, s *Session) error {
	if err := s.pkg.InstallPackages(ctx, splash.Packages, nil); err != nil {
		return err
	}

	sp := splash.NewConfigurator(s.runner, s.rootPatcher(ctx), s.logChan)
	if _, err := sp.ConfigureBootFiles(s.OSInfo.BootDir); err != nil {
		return err
	}

	if s.SplashTheme != "" {
		return sp.SetTheme(ctx, s.SplashTheme)
	}
	return nil
}
