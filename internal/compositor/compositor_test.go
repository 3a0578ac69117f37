package compositor

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/pikiosk/internal/edid"
)

const home = "/home/pi"

func newConfigurator(t *testing.T, kind Kind) (*Configurator, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	c, err := NewConfigurator(kind, fs, home, nil)
	require.NoError(t, err)
	return c, fs
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestDescribe(t *testing.T) {
	wayfire, err := Describe(Wayfire)
	require.NoError(t, err)
	assert.Equal(t, "wayfire", wayfire.SessionCommand)
	assert.Contains(t, wayfire.Packages, "wayfire")
	assert.Equal(t, "/home/pi/.config/wayfire.ini", wayfire.ConfigPath(home))

	labwc, err := Describe(Labwc)
	require.NoError(t, err)
	assert.Equal(t, "labwc", labwc.SessionCommand)
	assert.Contains(t, labwc.Packages, "wlr-randr")
	assert.Equal(t, "/home/pi/.config/labwc/autostart", labwc.ConfigPath(home))
}

func TestWayfireKioskCreatesConfig(t *testing.T) {
	c, fs := newConfigurator(t, Wayfire)

	result, err := c.EnsureKiosk("http://localhost")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	got := read(t, fs, "/home/pi/.config/wayfire.ini")
	assert.Contains(t, got, "[core]\nplugins = autostart")
	assert.Contains(t, got, "[autostart]\nchromium = chromium-browser --kiosk --noerrdialogs --disable-infobars --ozone-platform=wayland http://localhost")
}

func TestWayfireKioskIdempotent(t *testing.T) {
	c, fs := newConfigurator(t, Wayfire)

	_, err := c.EnsureKiosk("http://localhost")
	require.NoError(t, err)
	once := read(t, fs, "/home/pi/.config/wayfire.ini")

	result, err := c.EnsureKiosk("http://localhost")
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, once, read(t, fs, "/home/pi/.config/wayfire.ini"))
}

func TestWayfireKioskPreservesExistingPlugins(t *testing.T) {
	c, fs := newConfigurator(t, Wayfire)
	existing := "[core]\nplugins = animate wobbly\n"
	require.NoError(t, afero.WriteFile(fs, "/home/pi/.config/wayfire.ini", []byte(existing), 0644))

	_, err := c.EnsureKiosk("http://localhost")
	require.NoError(t, err)

	got := read(t, fs, "/home/pi/.config/wayfire.ini")
	assert.Contains(t, got, "plugins = animate wobbly autostart")
	assert.Contains(t, got, "[autostart]")
}

func TestWayfireKioskUpdatesURL(t *testing.T) {
	c, fs := newConfigurator(t, Wayfire)

	_, err := c.EnsureKiosk("http://old.example")
	require.NoError(t, err)

	result, err := c.EnsureKiosk("http://new.example")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	got := read(t, fs, "/home/pi/.config/wayfire.ini")
	assert.Contains(t, got, "http://new.example")
	assert.NotContains(t, got, "http://old.example")
}

func TestWayfireModeSection(t *testing.T) {
	c, fs := newConfigurator(t, Wayfire)
	mode := edid.Mode{Width: 1920, Height: 1080, Rate: "60.00"}

	result, err := c.EnsureMode("HDMI-A-1", mode)
	require.NoError(t, err)
	assert.True(t, result.Changed)

	got := read(t, fs, "/home/pi/.config/wayfire.ini")
	assert.Contains(t, got, "[output:HDMI-A-1]\nmode = 1920x1080@60.00")

	// Same mode again is a no-op.
	result, err = c.EnsureMode("HDMI-A-1", mode)
	require.NoError(t, err)
	assert.False(t, result.Changed)

	// A different mode replaces the declaration instead of stacking a
	// second one.
	result, err = c.EnsureMode("HDMI-A-1", edid.Mode{Width: 1280, Height: 720, Rate: "60"})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	got = read(t, fs, "/home/pi/.config/wayfire.ini")
	assert.Contains(t, got, "mode = 1280x720@60")
	assert.NotContains(t, got, "1920x1080")
	assert.Equal(t, 1, countOccurrences(got, "[output:HDMI-A-1]"))
}

func TestLabwcKioskAndMode(t *testing.T) {
	c, fs := newConfigurator(t, Labwc)
	mode := edid.Mode{Width: 1920, Height: 1080, Rate: "60.00"}

	_, err := c.EnsureMode("HDMI-A-1", mode)
	require.NoError(t, err)
	_, err = c.EnsureKiosk("http://localhost")
	require.NoError(t, err)

	got := read(t, fs, "/home/pi/.config/labwc/autostart")
	assert.Contains(t, got, "wlr-randr --output HDMI-A-1 --mode 1920x1080@60.00 &")
	assert.Contains(t, got, "chromium-browser --kiosk --noerrdialogs --disable-infobars --ozone-platform=wayland http://localhost &")

	// Re-running with a different mode rewrites the wlr-randr line in
	// place.
	_, err = c.EnsureMode("HDMI-A-1", edid.Mode{Width: 1280, Height: 720, Rate: "59.94"})
	require.NoError(t, err)

	got = read(t, fs, "/home/pi/.config/labwc/autostart")
	assert.Contains(t, got, "--mode 1280x720@59.94")
	assert.NotContains(t, got, "1920x1080")
	assert.Equal(t, 1, countOccurrences(got, "wlr-randr --output HDMI-A-1"))
}

func TestLabwcKioskIdempotent(t *testing.T) {
	c, fs := newConfigurator(t, Labwc)

	_, err := c.EnsureKiosk("http://localhost")
	require.NoError(t, err)
	once := read(t, fs, "/home/pi/.config/labwc/autostart")

	result, err := c.EnsureKiosk("http://localhost")
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, once, read(t, fs, "/home/pi/.config/labwc/autostart"))
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
