package greeter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigRender(t *testing.T) {
	cfg := Config{
		VT:      7,
		User:    "pi",
		Command: "labwc",
	}

	rendered := cfg.Render()

	assert.Contains(t, rendered, "[terminal]")
	assert.Contains(t, rendered, "vt = 7")
	assert.Contains(t, rendered, "[default_session]")
	assert.Contains(t, rendered, `command = "labwc"`)
	assert.Contains(t, rendered, `user = "pi"`)

	// [terminal] must come before [default_session] and the session
	// keys must live in the session section.
	termIdx := strings.Index(rendered, "[terminal]")
	sessIdx := strings.Index(rendered, "[default_session]")
	cmdIdx := strings.Index(rendered, "command =")
	assert.Less(t, termIdx, sessIdx)
	assert.Less(t, sessIdx, cmdIdx)
}

func TestConfigRenderIsDeterministic(t *testing.T) {
	cfg := Config{VT: 7, User: "kiosk", Command: "wayfire"}
	assert.Equal(t, cfg.Render(), cfg.Render())
}
