package greeter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/AvengeMedia/pikiosk/internal/system"
)

const configPath = "/etc/greetd/config.toml"

// Config describes the greetd session to install: which virtual
// terminal the greeter owns, which user the session runs as, and the
// compositor command it launches.
type Config struct {
	VT      int
	User    string
	Command string
}

// Render produces the full config.toml content. The file is
// regenerated wholesale on every run; there is no merge.
func (c Config) Render() string {
	return fmt.Sprintf(`[terminal]
# The VT to run the greeter on. Can be "next", "current" or a number
# designating the VT.
vt = %d

# The default session, also known as the greeter.
[default_session]
command = "%s"
user = "%s"
`, c.VT, c.Command, c.User)
}

type Installer struct {
	runner  *system.Runner
	logChan chan<- string
}

func NewInstaller(runner *system.Runner, logChan chan<- string) *Installer {
	return &Installer{
		runner:  runner,
		logChan: logChan,
	}
}

func (g *Installer) log(message string) {
	if g.logChan != nil {
		g.logChan <- message
	}
}

// Install writes the greetd configuration, enables the unit and makes
// graphical.target the default boot target.
func (g *Installer) Install(ctx context.Context, cfg Config) error {
	if _, err := os.Stat(configPath); err == nil {
		backupPath := fmt.Sprintf("%s.backup.%s", configPath, time.Now().Format("2006-01-02_15-04-05"))
		if err := g.runner.Sudo(ctx, "cp", configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup greetd config: %w", err)
		}
		g.log(fmt.Sprintf("Backed up existing config to %s", backupPath))
	}

	if err := g.runner.Sudo(ctx, "mkdir", "-p", "/etc/greetd"); err != nil {
		return fmt.Errorf("failed to create /etc/greetd: %w", err)
	}

	if err := g.runner.WriteFileAsRoot(ctx, configPath, []byte(cfg.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write greetd config: %w", err)
	}
	g.log("Wrote greetd configuration")

	if state, err := UnitFileState(ctx, "greetd.service"); err == nil && state == "enabled" {
		g.log("greetd already enabled")
	} else {
		if err := g.runner.Sudo(ctx, "systemctl", "enable", "greetd"); err != nil {
			return fmt.Errorf("failed to enable greetd: %w", err)
		}
		g.log("Enabled greetd service")
	}

	if target, err := DefaultTarget(ctx); err == nil && target == "graphical.target" {
		g.log("Default boot target is already graphical.target")
	} else {
		if err := g.runner.Sudo(ctx, "systemctl", "set-default", "graphical.target"); err != nil {
			return fmt.Errorf("failed to set default target: %w", err)
		}
		g.log("Set default boot target to graphical.target")
	}

	return nil
}

// UnitFileState queries systemd over the system bus for a unit file's
// enablement state. Read-only, so no privileges are needed.
func UnitFileState(ctx context.Context, unit string) (string, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return "", fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.systemd1", "/org/freedesktop/systemd1")

	var state string
	err = obj.CallWithContext(ctx, "org.freedesktop.systemd1.Manager.GetUnitFileState", 0, unit).Store(&state)
	if err != nil {
		return "", fmt.Errorf("failed to get unit file state for %s: %w", unit, err)
	}
	return state, nil
}

// DefaultTarget returns systemd's default boot target.
func DefaultTarget(ctx context.Context) (string, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return "", fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.systemd1", "/org/freedesktop/systemd1")

	var target string
	err = obj.CallWithContext(ctx, "org.freedesktop.systemd1.Manager.GetDefaultTarget", 0).Store(&target)
	if err != nil {
		return "", fmt.Errorf("failed to get default target: %w", err)
	}
	return target, nil
}
