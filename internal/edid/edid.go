package edid

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Mode is one display mode candidate, rendered as WIDTHxHEIGHT@RATEHz.
// Rate keeps the decoder's textual form so "60.00" and "60" stay
// distinguishable.
type Mode struct {
	Width  int
	Height int
	Rate   string
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d@%sHz", m.Width, m.Height, m.Rate)
}

// CmdlineToken renders the kernel video= token for an output, e.g.
// video=HDMI-A-1:1920x1080M@60D. The rate is truncated to whole Hz,
// which is what the firmware expects.
func (m Mode) CmdlineToken(output string) string {
	return fmt.Sprintf("video=%s:%dx%dM@%dD", output, m.Width, m.Height, m.rateInt())
}

// WlrMode renders the mode argument for wlr-randr.
func (m Mode) WlrMode() string {
	return fmt.Sprintf("%dx%d@%s", m.Width, m.Height, m.Rate)
}

func (m Mode) rateInt() int {
	rate := m.Rate
	if i := strings.IndexByte(rate, '.'); i >= 0 {
		rate = rate[:i]
	}
	n, err := strconv.Atoi(rate)
	if err != nil {
		return 60
	}
	return n
}

// DefaultModes is the fallback list used when discovery yields nothing.
func DefaultModes() []Mode {
	return []Mode{
		{1920, 1080, "60"},
		{1280, 720, "60"},
		{1024, 768, "60"},
		{1600, 900, "60"},
		{1366, 768, "60"},
	}
}

// Matches timing lines of the form "1920x1080   60.00 Hz ..." anywhere
// in decoded EDID output. Established, Standard and Detailed Timings
// all produce this shape. The width must not start with 0 so hex
// timing IDs like "DMT 0x04" are not mistaken for a resolution.
var timingLine = regexp.MustCompile(`([1-9]\d*)x(\d+).*?(\d+(?:\.\d+)?)\s*Hz`)

// ParseModes scans decoded EDID text and emits one candidate per
// matching line, in input order. Duplicate modes across timing classes
// are preserved.
func ParseModes(r io.Reader) []Mode {
	var modes []Mode

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := timingLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		width, err := strconv.Atoi(m[1])
		if err != nil || width <= 0 {
			continue
		}
		height, err := strconv.Atoi(m[2])
		if err != nil || height <= 0 {
			continue
		}

		modes = append(modes, Mode{Width: width, Height: height, Rate: m[3]})
	}

	return modes
}

// ParseMode parses a WIDTHxHEIGHT@RATE[Hz] string back into a Mode.
func ParseMode(s string) (Mode, error) {
	spec := strings.TrimSuffix(s, "Hz")
	res, rate, found := strings.Cut(spec, "@")
	if !found {
		rate = "60"
	}

	w, h, found := strings.Cut(res, "x")
	if !found {
		return Mode{}, fmt.Errorf("invalid mode %q: expected WIDTHxHEIGHT[@RATE]", s)
	}

	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Mode{}, fmt.Errorf("invalid mode %q: bad width", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Mode{}, fmt.Errorf("invalid mode %q: bad height", s)
	}
	if _, err := strconv.ParseFloat(rate, 64); err != nil {
		return Mode{}, fmt.Errorf("invalid mode %q: bad refresh rate", s)
	}

	return Mode{Width: width, Height: height, Rate: rate}, nil
}

var drmGlob = "/sys/class/drm/card*-%s/edid"

// DiscoverModes reads the EDID blob for an output from sysfs, decodes
// it with edid-decode, and returns the parsed candidates. Any failure
// along the way (no decoder, no EDID, nothing parsed) falls back to
// DefaultModes rather than an error.
func DiscoverModes(ctx context.Context, output string) []Mode {
	raw, err := readEDID(output)
	if err != nil {
		return DefaultModes()
	}

	decoder, err := exec.LookPath("edid-decode")
	if err != nil {
		return DefaultModes()
	}

	cmd := exec.CommandContext(ctx, decoder)
	cmd.Stdin = bytes.NewReader(raw)
	decoded, err := cmd.Output()
	if err != nil {
		return DefaultModes()
	}

	modes := ParseModes(bytes.NewReader(decoded))
	if len(modes) == 0 {
		return DefaultModes()
	}
	return modes
}

func readEDID(output string) ([]byte, error) {
	matches, err := filepath.Glob(fmt.Sprintf(drmGlob, output))
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("no EDID node for output %s", output)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty EDID for output %s", output)
	}
	return data, nil
}
