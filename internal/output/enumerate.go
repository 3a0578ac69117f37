package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wlclient "github.com/yaslama/go-wayland/wayland/client"

	"github.com/AvengeMedia/pikiosk/internal/log"
)

// DefaultName is the first HDMI connector on every Raspberry Pi.
const DefaultName = "HDMI-A-1"

// EnumerateConnected lists connected display outputs by name. Inside a
// running Wayland session the compositor is asked directly; otherwise
// the DRM connector state in sysfs is scanned. An empty result falls
// back to the default HDMI connector so callers always get a usable
// name.
func EnumerateConnected() []string {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if names, err := waylandOutputs(); err == nil && len(names) > 0 {
			return names
		} else if err != nil {
			log.Debugf("wayland output enumeration failed: %v", err)
		}
	}

	if names := drmConnected(); len(names) > 0 {
		return names
	}

	return []string{DefaultName}
}

// waylandOutputs binds every wl_output global and collects the names
// delivered by the version 4 name event.
func waylandOutputs() ([]string, error) {
	display, err := wlclient.Connect("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to wayland display: %w", err)
	}
	defer display.Context().Close()

	ctx := display.Context()

	registry, err := display.GetRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}

	var names []string
	registry.SetGlobalHandler(func(e wlclient.RegistryGlobalEvent) {
		if e.Interface != "wl_output" {
			return
		}
		version := e.Version
		if version > 4 {
			version = 4
		}
		if version < 4 {
			// The name event only exists from version 4 on.
			return
		}

		output := wlclient.NewOutput(ctx)
		if err := registry.Bind(e.Name, e.Interface, version, output); err != nil {
			log.Debugf("failed to bind wl_output %d: %v", e.Name, err)
			return
		}
		output.SetNameHandler(func(e wlclient.OutputNameEvent) {
			names = append(names, e.Name)
		})
	})

	// First roundtrip delivers globals, second the output events.
	if err := display.Roundtrip(); err != nil {
		return nil, fmt.Errorf("first roundtrip failed: %w", err)
	}
	if err := display.Roundtrip(); err != nil {
		return nil, fmt.Errorf("second roundtrip failed: %w", err)
	}

	return names, nil
}

var drmDir = "/sys/class/drm"

// drmConnected scans DRM connector nodes for status "connected".
// Node names look like card1-HDMI-A-1; the connector name is
// everything after the first dash.
func drmConnected() []string {
	entries, err := filepath.Glob(filepath.Join(drmDir, "card*-*"))
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		status, err := os.ReadFile(filepath.Join(entry, "status"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(status)) != "connected" {
			continue
		}

		base := filepath.Base(entry)
		if _, name, found := strings.Cut(base, "-"); found {
			names = append(names, name)
		}
	}
	return names
}
