package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/AvengeMedia/pikiosk/internal/osinfo"
	"github.com/AvengeMedia/pikiosk/internal/patch"
	"github.com/AvengeMedia/pikiosk/internal/splash"
	"github.com/AvengeMedia/pikiosk/internal/system"
)

func newSplashConfigurator(ctx context.Context) (*splash.Configurator, chan string) {
	logChan := newPrintLogger()
	runner := system.NewRunner("", logChan)
	patcher := patch.NewWithWriter(afero.NewOsFs(), func(path string, data []byte, perm os.FileMode) error {
		return runner.WriteFileAsRoot(ctx, path, data, perm)
	})
	return splash.NewConfigurator(runner, patcher, logChan), logChan
}

func splashStatus() error {
	info, err := osinfo.GetOSInfo()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(info.BootDir, "cmdline.txt"))
	if err != nil {
		return fmt.Errorf("failed to read cmdline.txt: %w", err)
	}
	tokens := strings.Fields(strings.SplitN(string(data), "\n", 2)[0])
	hasToken := func(want string) bool {
		for _, t := range tokens {
			if t == want {
				return true
			}
		}
		return false
	}

	fmt.Printf("Boot dir:   %s\n", info.BootDir)
	fmt.Printf("quiet:      %v\n", hasToken("quiet"))
	fmt.Printf("splash:     %v\n", hasToken("splash"))
	fmt.Printf("plymouth.ignore-serial-consoles: %v\n", hasToken("plymouth.ignore-serial-consoles"))

	config, err := os.ReadFile(filepath.Join(info.BootDir, "config.txt"))
	if err == nil {
		disabled := false
		for _, line := range strings.Split(string(config), "\n") {
			if strings.TrimSpace(line) == "disable_splash=1" {
				disabled = true
				break
			}
		}
		fmt.Printf("firmware rainbow splash disabled: %v\n", disabled)
	}

	ctx := context.Background()
	logChan := newPrintLogger()
	runner := system.NewRunner("", logChan)
	if system.CommandExists("plymouth-set-default-theme") {
		if theme, err := runner.Output(ctx, "plymouth-set-default-theme"); err == nil {
			fmt.Printf("Active theme: %s\n", strings.TrimSpace(theme))
		}
	} else {
		fmt.Println("Plymouth is not installed.")
	}
	return nil
}

func listSplashThemes() error {
	ctx := context.Background()
	sp, _ := newSplashConfigurator(ctx)

	fmt.Println("Installed Plymouth themes:")
	for _, theme := range sp.ListThemes(ctx) {
		fmt.Printf("  %s\n", theme)
	}
	return nil
}

func setSplashTheme(name string) error {
	ctx := context.Background()
	sp, _ := newSplashConfigurator(ctx)
	return sp.SetTheme(ctx, name)
}

func installSplashTheme(url string) error {
	ctx := context.Background()
	sp, _ := newSplashConfigurator(ctx)

	name, err := sp.InstallThemeFromGit(ctx, url)
	if err != nil {
		return err
	}

	fmt.Printf("Theme %q installed. Activate it with:\n", name)
	fmt.Printf("  pikiosk splash set-theme %s\n", name)
	return nil
}

func enableSplash() error {
	info, err := osinfo.GetOSInfo()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sp, _ := newSplashConfigurator(ctx)

	results, err := sp.ConfigureBootFiles(info.BootDir)
	if err != nil {
		return err
	}

	changed := 0
	for _, r := range results {
		if r.Changed {
			changed++
		}
	}
	if changed == 0 {
		fmt.Println("Boot files already configured for splash.")
	} else {
		fmt.Printf("Updated %d boot file entries. Reboot to see the splash.\n", changed)
	}
	return nil
}
