package splash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v6"

	"github.com/AvengeMedia/pikiosk/internal/patch"
	"github.com/AvengeMedia/pikiosk/internal/system"
)

// Packages are what a Plymouth boot splash needs on Raspberry Pi OS.
var Packages = []string{"plymouth", "plymouth-themes"}

const themesDir = "/usr/share/plymouth/themes"

// FallbackThemes is used when the plymouth theme lister is absent.
var FallbackThemes = []string{"spinner", "bgrt", "text"}

type Configurator struct {
	runner  *system.Runner
	patcher *patch.Patcher
	logChan chan<- string
}

func NewConfigurator(runner *system.Runner, patcher *patch.Patcher, logChan chan<- string) *Configurator {
	return &Configurator{
		runner:  runner,
		patcher: patcher,
		logChan: logChan,
	}
}

func (s *Configurator) log(message string) {
	if s.logChan != nil {
		s.logChan <- message
	}
}

// ConfigureBootFiles silences the firmware rainbow splash in
// config.txt and hands boot progress to Plymouth through the kernel
// command line. All edits are idempotent.
func (s *Configurator) ConfigureBootFiles(bootDir string) ([]patch.Result, error) {
	var results []patch.Result

	result, err := s.patcher.EnsureConfigValue(filepath.Join(bootDir, "config.txt"), "disable_splash", "1")
	if err != nil {
		return results, err
	}
	s.log(result.Message)
	results = append(results, result)

	cmdline := filepath.Join(bootDir, "cmdline.txt")
	for _, flag := range []string{"quiet", "splash", "plymouth.ignore-serial-consoles"} {
		result, err := s.patcher.EnsureCmdlineFlag(cmdline, flag)
		if err != nil {
			return results, err
		}
		s.log(result.Message)
		results = append(results, result)
	}

	return results, nil
}

// ListThemes queries plymouth for installed themes, falling back to a
// static list when the lister is not available.
func (s *Configurator) ListThemes(ctx context.Context) []string {
	if !system.CommandExists("plymouth-set-default-theme") {
		return FallbackThemes
	}

	out, err := s.runner.Output(ctx, "plymouth-set-default-theme", "--list")
	if err != nil {
		return FallbackThemes
	}

	themes := parseThemeList(out)
	if len(themes) == 0 {
		return FallbackThemes
	}
	return themes
}

func parseThemeList(out string) []string {
	var themes []string
	for _, line := range strings.Split(out, "\n") {
		theme := strings.TrimSpace(line)
		if theme != "" {
			themes = append(themes, theme)
		}
	}
	return themes
}

// SetTheme makes a theme the default and rebuilds the initramfs so it
// takes effect on the next boot.
func (s *Configurator) SetTheme(ctx context.Context, theme string) error {
	if err := s.runner.Sudo(ctx, "plymouth-set-default-theme", "-R", theme); err != nil {
		return fmt.Errorf("failed to set plymouth theme %s: %w", theme, err)
	}
	s.log(fmt.Sprintf("Set plymouth theme to %s", theme))
	return nil
}

// InstallThemeFromGit clones a theme repository and copies it into the
// system theme directory under the repository's name.
func (s *Configurator) InstallThemeFromGit(ctx context.Context, url string) (string, error) {
	name := themeNameFromURL(url)
	if name == "" {
		return "", fmt.Errorf("cannot derive a theme name from %s", url)
	}

	tmpDir, err := os.MkdirTemp("", "pikiosk-theme-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	s.log(fmt.Sprintf("Cloning theme from %s", url))
	_, err = git.PlainCloneContext(ctx, tmpDir, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to clone theme repository: %w", err)
	}

	dest := filepath.Join(themesDir, name)
	if err := s.runner.Sudo(ctx, "mkdir", "-p", dest); err != nil {
		return "", fmt.Errorf("failed to create theme directory: %w", err)
	}
	if err := s.runner.Sudo(ctx, "cp", "-r", tmpDir+"/.", dest); err != nil {
		return "", fmt.Errorf("failed to copy theme files: %w", err)
	}

	s.log(fmt.Sprintf("Installed theme %s to %s", name, dest))
	return name, nil
}

func themeNameFromURL(url string) string {
	base := filepath.Base(strings.TrimSuffix(strings.TrimRight(url, "/"), ".git"))
	if base == "." || base == "/" || base == "" {
		return ""
	}
	return base
}
