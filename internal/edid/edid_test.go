package edid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "detailed timings",
			input: "1920x1080  60.00 Hz\n1280x720  59.94 Hz",
			want:  []string{"1920x1080@60.00Hz", "1280x720@59.94Hz"},
		},
		{
			name: "real decoder output shape",
			input: `  Established Timings I & II:
    DMT 0x04:   640x480    59.940476 Hz   4:3
    DMT 0x09:   800x600    60.316541 Hz   4:3
  Standard Timings:
    DMT 0x10:  1024x768    60.003840 Hz   4:3
  Detailed Timing Descriptors:
    DTD 1:  1920x1080   60.000000 Hz  16:9`,
			want: []string{
				"640x480@59.940476Hz",
				"800x600@60.316541Hz",
				"1024x768@60.003840Hz",
				"1920x1080@60.000000Hz",
			},
		},
		{
			name:  "duplicates across timing classes are preserved",
			input: "1920x1080  60.00 Hz\nsome noise\n1920x1080  60.00 Hz",
			want:  []string{"1920x1080@60.00Hz", "1920x1080@60.00Hz"},
		},
		{
			name:  "lines without a rate are skipped",
			input: "1920x1080 borderless\nHz alone\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modes := ParseModes(strings.NewReader(tt.input))

			var got []string
			for _, m := range modes {
				got = append(got, m.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultModes(t *testing.T) {
	modes := DefaultModes()
	require.Len(t, modes, 5)

	want := []string{
		"1920x1080@60Hz",
		"1280x720@60Hz",
		"1024x768@60Hz",
		"1600x900@60Hz",
		"1366x768@60Hz",
	}
	for i, m := range modes {
		assert.Equal(t, want[i], m.String())
	}
}

func TestParseModesEmptyFallsBackAtCaller(t *testing.T) {
	// ParseModes itself returns nil for no matches; the fallback to
	// DefaultModes happens in DiscoverModes.
	assert.Empty(t, ParseModes(strings.NewReader("")))
}

func TestCmdlineToken(t *testing.T) {
	m := Mode{Width: 1920, Height: 1080, Rate: "60.00"}
	assert.Equal(t, "video=HDMI-A-1:1920x1080M@60D", m.CmdlineToken("HDMI-A-1"))

	m = Mode{Width: 1280, Height: 720, Rate: "59.94"}
	assert.Equal(t, "video=HDMI-A-2:1280x720M@59D", m.CmdlineToken("HDMI-A-2"))
}

func TestWlrMode(t *testing.T) {
	m := Mode{Width: 1920, Height: 1080, Rate: "60.00"}
	assert.Equal(t, "1920x1080@60.00", m.WlrMode())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "1920x1080@60Hz", want: Mode{1920, 1080, "60"}},
		{input: "1920x1080@59.94", want: Mode{1920, 1080, "59.94"}},
		{input: "1280x720", want: Mode{1280, 720, "60"}},
		{input: "bogus", wantErr: true},
		{input: "0x1080@60", wantErr: true},
		{input: "1920x1080@fast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
