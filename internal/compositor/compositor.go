package compositor

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/patch"
)

type Kind int

const (
	Wayfire Kind = iota
	Labwc
)

func (k Kind) String() string {
	switch k {
	case Wayfire:
		return "Wayfire"
	case Labwc:
		return "labwc"
	default:
		return "Unknown"
	}
}

// Descriptor captures how one compositor is configured: which packages
// it needs, how its session is launched by the greeter, and where its
// config lives. The setup flow is parameterized by this instead of
// being duplicated per compositor.
type Descriptor struct {
	Kind           Kind
	Name           string
	Description    string
	Packages       []string
	SessionCommand string
	ConfigPath     func(home string) string
}

func Describe(kind Kind) (Descriptor, error) {
	switch kind {
	case Wayfire:
		return Descriptor{
			Kind:           Wayfire,
			Name:           "Wayfire",
			Description:    "3D Wayland compositor, the classic Pi kiosk choice.",
			Packages:       []string{"wayfire", "seatd", "xdg-user-dirs"},
			SessionCommand: "wayfire",
			ConfigPath: func(home string) string {
				return filepath.Join(home, ".config", "wayfire.ini")
			},
		}, nil
	case Labwc:
		return Descriptor{
			Kind:           Labwc,
			Name:           "labwc",
			Description:    "Lightweight wlroots compositor used by current Raspberry Pi OS.",
			Packages:       []string{"labwc", "seatd", "wlr-randr", "xdg-user-dirs"},
			SessionCommand: "labwc",
			ConfigPath: func(home string) string {
				return filepath.Join(home, ".config", "labwc", "autostart")
			},
		}, nil
	default:
		return Descriptor{}, fmt.Errorf("unsupported compositor: %d", kind)
	}
}

// KioskCommand is the single browser-launch line shared by both
// compositors.
func KioskCommand(url string) string {
	return fmt.Sprintf("chromium-browser --kiosk --noerrdialogs --disable-infobars --ozone-platform=wayland %s", url)
}

// Configurator applies kiosk and display-mode edits to one
// compositor's configuration, idempotently.
type Configurator struct {
	desc    Descriptor
	patcher *patch.Patcher
	home    string
	logChan chan<- string
}

func NewConfigurator(kind Kind, fs afero.Fs, home string, logChan chan<- string) (*Configurator, error) {
	desc, err := Describe(kind)
	if err != nil {
		return nil, err
	}
	return &Configurator{
		desc:    desc,
		patcher: patch.New(fs),
		home:    home,
		logChan: logChan,
	}, nil
}

func (c *Configurator) Descriptor() Descriptor {
	return c.desc
}

func (c *Configurator) log(message string) {
	if c.logChan != nil {
		c.logChan <- message
	}
}

// EnsureKiosk guarantees exactly one browser-launch entry in the
// compositor config, creating the file when missing.
func (c *Configurator) EnsureKiosk(url string) (patch.Result, error) {
	path := c.desc.ConfigPath(c.home)

	var result patch.Result
	var err error
	switch c.desc.Kind {
	case Wayfire:
		result, err = ensureWayfireKiosk(c.patcher, path, url)
	case Labwc:
		result, err = ensureLabwcKiosk(c.patcher, path, url)
	default:
		return patch.Result{}, fmt.Errorf("unsupported compositor: %s", c.desc.Name)
	}
	if err != nil {
		return result, err
	}
	c.log(result.Message)
	return result, nil
}

// EnsureMode pins one display mode for the named output: one
// output declaration per output name, updated in place when the
// chosen mode differs.
func (c *Configurator) EnsureMode(output string, mode edid.Mode) (patch.Result, error) {
	path := c.desc.ConfigPath(c.home)

	var result patch.Result
	var err error
	switch c.desc.Kind {
	case Wayfire:
		result, err = ensureWayfireMode(c.patcher, path, output, mode)
	case Labwc:
		result, err = ensureLabwcMode(c.patcher, path, output, mode)
	default:
		return patch.Result{}, fmt.Errorf("unsupported compositor: %s", c.desc.Name)
	}
	if err != nil {
		return result, err
	}
	c.log(result.Message)
	return result, nil
}
