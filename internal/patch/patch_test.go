package patch

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cmdline = "console=serial0,115200 console=tty1 root=PARTUUID=9730496b-02 rootfstype=ext4 fsck.repair=yes rootwait\n"

func newMemPatcher(t *testing.T, files map[string]string) (*Patcher, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return New(fs), fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestSetCmdlineTokenPrepends(t *testing.T) {
	p, fs := newMemPatcher(t, map[string]string{"/boot/firmware/cmdline.txt": cmdline})

	result, err := p.SetCmdlineToken("/boot/firmware/cmdline.txt", "video", "HDMI-A-1:1920x1080M@60D")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	got := readFile(t, fs, "/boot/firmware/cmdline.txt")
	assert.Equal(t, "video=HDMI-A-1:1920x1080M@60D "+cmdline, got)
}

func TestSetCmdlineTokenIdempotent(t *testing.T) {
	p, fs := newMemPatcher(t, map[string]string{"/boot/firmware/cmdline.txt": cmdline})

	_, err := p.SetCmdlineToken("/boot/firmware/cmdline.txt", "video", "HDMI-A-1:1920x1080M@60D")
	require.NoError(t, err)
	once := readFile(t, fs, "/boot/firmware/cmdline.txt")

	result, err := p.SetCmdlineToken("/boot/firmware/cmdline.txt", "video", "HDMI-A-1:1920x1080M@60D")
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Contains(t, result.Message, "already set")

	assert.Equal(t, once, readFile(t, fs, "/boot/firmware/cmdline.txt"))
}

// A stale video= token must not block the edit: presence of the key is
// not enough, the value has to match. Otherwise a rerun with a new
// resolution would silently keep the old one.
func TestSetCmdlineTokenUpdatesStaleValue(t *testing.T) {
	p, fs := newMemPatcher(t, map[string]string{
		"/boot/firmware/cmdline.txt": "video=HDMI-A-1:1024x768M@60D " + cmdline,
	})

	result, err := p.SetCmdlineToken("/boot/firmware/cmdline.txt", "video", "HDMI-A-1:1920x1080M@60D")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	got := readFile(t, fs, "/boot/firmware/cmdline.txt")
	assert.Equal(t, "video=HDMI-A-1:1920x1080M@60D "+cmdline, got)
}

func TestSetCmdlineTokenMissingFile(t *testing.T) {
	p, _ := newMemPatcher(t, nil)

	_, err := p.SetCmdlineToken("/boot/firmware/cmdline.txt", "video", "x")
	require.Error(t, err)
}

func TestEnsureCmdlineFlag(t *testing.T) {
	p, fs := newMemPatcher(t, map[string]string{"/boot/firmware/cmdline.txt": cmdline})

	result, err := p.EnsureCmdlineFlag("/boot/firmware/cmdline.txt", "splash")
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t,
		"console=serial0,115200 console=tty1 root=PARTUUID=9730496b-02 rootfstype=ext4 fsck.repair=yes rootwait splash\n",
		readFile(t, fs, "/boot/firmware/cmdline.txt"))

	result, err = p.EnsureCmdlineFlag("/boot/firmware/cmdline.txt", "splash")
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestEnsureCmdlineFlagExactToken(t *testing.T) {
	p, fs := newMemPatcher(t, map[string]string{
		"/boot/firmware/cmdline.txt": "disable_splash=1 rootwait\n",
	})

	// "splash" must not be satisfied by "disable_splash=1".
	result, err := p.EnsureCmdlineFlag("/boot/firmware/cmdline.txt", "splash")
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "disable_splash=1 rootwait splash\n", readFile(t, fs, "/boot/firmware/cmdline.txt"))
}

func TestEnsureConfigValue(t *testing.T) {
	const configTxt = "# For more options see /boot/overlays/README\ndtparam=audio=on\n[all]\n"

	t.Run("appends missing key", func(t *testing.T) {
		p, fs := newMemPatcher(t, map[string]string{"/boot/firmware/config.txt": configTxt})

		result, err := p.EnsureConfigValue("/boot/firmware/config.txt", "disable_splash", "1")
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, configTxt+"disable_splash=1\n", readFile(t, fs, "/boot/firmware/config.txt"))
	})

	t.Run("no-op when equal", func(t *testing.T) {
		p, fs := newMemPatcher(t, map[string]string{"/boot/firmware/config.txt": configTxt + "disable_splash=1\n"})

		result, err := p.EnsureConfigValue("/boot/firmware/config.txt", "disable_splash", "1")
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.Equal(t, configTxt+"disable_splash=1\n", readFile(t, fs, "/boot/firmware/config.txt"))
	})

	t.Run("rewrites differing value", func(t *testing.T) {
		p, fs := newMemPatcher(t, map[string]string{"/boot/firmware/config.txt": "disable_splash=0\n"})

		result, err := p.EnsureConfigValue("/boot/firmware/config.txt", "disable_splash", "1")
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, "disable_splash=1\n", readFile(t, fs, "/boot/firmware/config.txt"))
	})

	t.Run("creates missing file", func(t *testing.T) {
		p, fs := newMemPatcher(t, nil)

		result, err := p.EnsureConfigValue("/boot/firmware/config.txt", "disable_splash", "1")
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "disable_splash=1\n", readFile(t, fs, "/boot/firmware/config.txt"))
	})
}

func TestEnsureLine(t *testing.T) {
	const autostart = "# labwc autostart\nswaybg -i /usr/share/wallpaper.png &\n"

	t.Run("appends new line", func(t *testing.T) {
		p, fs := newMemPatcher(t, map[string]string{"/home/pi/.config/labwc/autostart": autostart})

		result, err := p.EnsureLine("/home/pi/.config/labwc/autostart", "chromium", "chromium-browser --kiosk http://localhost &")
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, autostart+"chromium-browser --kiosk http://localhost &\n",
			readFile(t, fs, "/home/pi/.config/labwc/autostart"))
	})

	t.Run("replaces marker line", func(t *testing.T) {
		p, fs := newMemPatcher(t, map[string]string{
			"/home/pi/.config/labwc/autostart": autostart + "chromium-browser --kiosk http://old.example &\n",
		})

		result, err := p.EnsureLine("/home/pi/.config/labwc/autostart", "chromium", "chromium-browser --kiosk http://localhost &")
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, autostart+"chromium-browser --kiosk http://localhost &\n",
			readFile(t, fs, "/home/pi/.config/labwc/autostart"))
	})

	t.Run("idempotent", func(t *testing.T) {
		p, fs := newMemPatcher(t, map[string]string{"/home/pi/.config/labwc/autostart": autostart})

		_, err := p.EnsureLine("/home/pi/.config/labwc/autostart", "chromium", "chromium-browser --kiosk http://localhost &")
		require.NoError(t, err)
		once := readFile(t, fs, "/home/pi/.config/labwc/autostart")

		result, err := p.EnsureLine("/home/pi/.config/labwc/autostart", "chromium", "chromium-browser --kiosk http://localhost &")
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.Equal(t, once, readFile(t, fs, "/home/pi/.config/labwc/autostart"))
	})

	t.Run("creates missing file", func(t *testing.T) {
		p, fs := newMemPatcher(t, nil)

		result, err := p.EnsureLine("/home/pi/.config/labwc/autostart", "chromium", "chromium-browser --kiosk http://localhost &")
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "chromium-browser --kiosk http://localhost &\n",
			readFile(t, fs, "/home/pi/.config/labwc/autostart"))
	})
}

func TestWriteFile(t *testing.T) {
	p, fs := newMemPatcher(t, nil)

	result, err := p.WriteFile("/etc/greetd/config.toml", []byte("[terminal]\nvt = 7\n"), 0644)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.Created)

	result, err = p.WriteFile("/etc/greetd/config.toml", []byte("[terminal]\nvt = 7\n"), 0644)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, "[terminal]\nvt = 7\n", readFile(t, fs, "/etc/greetd/config.toml"))
}
