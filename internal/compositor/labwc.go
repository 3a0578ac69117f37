package compositor

import (
	"fmt"

	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/patch"
)

// labwc has no output section in its config; the autostart command
// list sets the mode with wlr-randr and launches the browser.

func ensureLabwcKiosk(p *patch.Patcher, path, url string) (patch.Result, error) {
	return p.EnsureLine(path, "chromium-browser", KioskCommand(url)+" &")
}

func ensureLabwcMode(p *patch.Patcher, path, output string, mode edid.Mode) (patch.Result, error) {
	marker := fmt.Sprintf("wlr-randr --output %s", output)
	line := fmt.Sprintf("wlr-randr --output %s --mode %s &", output, mode.WlrMode())
	return p.EnsureLine(path, marker, line)
}
