package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/AvengeMedia/pikiosk/internal/compositor"
	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/osinfo"
	"github.com/AvengeMedia/pikiosk/internal/patch"
	"github.com/AvengeMedia/pikiosk/internal/pkgmanager"
	"github.com/AvengeMedia/pikiosk/internal/system"
)

type ID int

const (
	StepUpdate ID = iota
	StepUpgrade
	StepCompositor
	StepBrowser
	StepResolution
	StepGreeter
	StepSplash
)

// Step is one prompt-gated unit of work. Steps are order-dependent
// and have no rollback: whatever an earlier step wrote stays written
// when a later one is declined or fails.
type Step struct {
	ID          ID
	Title       string
	Description string
	Run         func(ctx context.Context, s *Session) error
}

type StepResult struct {
	ID    ID
	Title string
	Ran   bool
	Err   error
}

// ProgressMsg streams execution state to the UI. It carries the real
// outcome: a failed step surfaces its error instead of being reported
// as done.
type ProgressMsg struct {
	StepID     ID
	StepTitle  string
	Progress   float64
	LogOutput  string
	IsComplete bool
	Error      error
}

// Session is the explicit state threaded through every step: what the
// operator chose up front and what the steps need to share. No step
// reads ambient state from anywhere else.
type Session struct {
	OSInfo       *osinfo.OSInfo
	Compositor   compositor.Kind
	OutputName   string
	Mode         *edid.Mode
	KioskURL     string
	SplashTheme  string
	User         string
	Home         string
	SudoPassword string
	Accepted     map[ID]bool

	Results []StepResult

	runner  *system.Runner
	pkg     pkgmanager.PackageManager
	logChan chan<- string
}

func NewSession(info *osinfo.OSInfo, logChan chan<- string) (*Session, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return &Session{
		OSInfo:     info,
		OutputName: "HDMI-A-1",
		KioskURL:   "http://localhost",
		User:       os.Getenv("USER"),
		Home:       home,
		Accepted:   make(map[ID]bool),
		logChan:    logChan,
	}, nil
}

func (s *Session) log(message string) {
	if s.logChan != nil {
		s.logChan <- message
	}
}

// rootPatcher edits files under privileged paths: content is computed
// from the real filesystem and written back through sudo.
func (s *Session) rootPatcher(ctx context.Context) *patch.Patcher {
	fs := afero.NewOsFs()
	return patch.NewWithWriter(fs, func(path string, data []byte, perm os.FileMode) error {
		return s.runner.WriteFileAsRoot(ctx, path, data, perm)
	})
}
