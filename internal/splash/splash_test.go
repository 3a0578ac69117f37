package splash

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/pikiosk/internal/patch"
)

func TestConfigureBootFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/boot/firmware/cmdline.txt",
		[]byte("console=tty1 root=PARTUUID=9730496b-02 rootwait\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/boot/firmware/config.txt",
		[]byte("dtparam=audio=on\n"), 0644))

	s := NewConfigurator(nil, patch.New(fs), nil)

	results, err := s.ConfigureBootFiles("/boot/firmware")
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.True(t, r.Changed, r.Path)
	}

	config, err := afero.ReadFile(fs, "/boot/firmware/config.txt")
	require.NoError(t, err)
	assert.Equal(t, "dtparam=audio=on\ndisable_splash=1\n", string(config))

	cmdline, err := afero.ReadFile(fs, "/boot/firmware/cmdline.txt")
	require.NoError(t, err)
	assert.Equal(t, "console=tty1 root=PARTUUID=9730496b-02 rootwait quiet splash plymouth.ignore-serial-consoles\n", string(cmdline))

	// Second pass changes nothing.
	results, err = s.ConfigureBootFiles("/boot/firmware")
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Changed, r.Path)
	}
}

func TestParseThemeList(t *testing.T) {
	out := "bgrt\nspinner\ntext\n"
	assert.Equal(t, []string{"bgrt", "spinner", "text"}, parseThemeList(out))

	assert.Nil(t, parseThemeList(""))
	assert.Nil(t, parseThemeList("\n\n"))
}

func TestThemeNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/adi1090x/plymouth-themes.git", "plymouth-themes"},
		{"https://example.com/themes/pixels", "pixels"},
		{"https://example.com/themes/pixels/", "pixels"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, themeNameFromURL(tt.url), tt.url)
	}
}
