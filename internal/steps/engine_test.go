package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvengeMedia/pikiosk/internal/netcheck"
	"github.com/AvengeMedia/pikiosk/internal/osinfo"
	"github.com/AvengeMedia/pikiosk/internal/pkgmanager"
)

// fakePackageManager records which operations ran.
type fakePackageManager struct {
	updated   bool
	upgraded  bool
	installed [][]string
	cleaned   bool
}

func (f *fakePackageManager) Update(ctx context.Context, _ pkgmanager.ProgressFunc) error {
	f.updated = true
	return nil
}

func (f *fakePackageManager) Upgrade(ctx context.Context, _ pkgmanager.ProgressFunc) error {
	f.upgraded = true
	return nil
}

func (f *fakePackageManager) InstallPackages(ctx context.Context, packages []string, _ pkgmanager.ProgressFunc) error {
	f.installed = append(f.installed, packages)
	return nil
}

func (f *fakePackageManager) Clean(ctx context.Context) error {
	f.cleaned = true
	return nil
}

func newTestSession(t *testing.T, pkg pkgmanager.PackageManager) *Session {
	t.Helper()

	logChan := make(chan string, 256)
	s, err := NewSession(&osinfo.OSInfo{
		Distribution: "raspbian",
		BootDir:      "/boot/firmware",
	}, logChan)
	require.NoError(t, err)
	s.pkg = pkg
	return s
}

func stubConnectivity(t *testing.T) {
	t.Helper()
	orig := checkConnectivity
	checkConnectivity = func() (netcheck.Status, error) { return netcheck.StatusOnline, nil }
	t.Cleanup(func() { checkConnectivity = orig })
}

func drainProgress(ch chan ProgressMsg) []ProgressMsg {
	var msgs []ProgressMsg
	for {
		select {
		case m := <-ch:
			msgs = append(msgs, m)
			if m.IsComplete {
				return msgs
			}
		default:
			return msgs
		}
	}
}

func TestExecuteAllDeclinedRunsOnlyCleanup(t *testing.T) {
	stubConnectivity(t)

	pkg := &fakePackageManager{}
	s := newTestSession(t, pkg)
	// Nothing accepted.

	progressChan := make(chan ProgressMsg, 64)
	engine := NewEngine(progressChan)

	require.NoError(t, engine.Execute(context.Background(), s))

	assert.False(t, pkg.updated)
	assert.False(t, pkg.upgraded)
	assert.Empty(t, pkg.installed)
	assert.True(t, pkg.cleaned, "cache cleanup must run even when every step is declined")

	for _, r := range s.Results {
		assert.False(t, r.Ran, r.Title)
	}

	msgs := drainProgress(progressChan)
	require.NotEmpty(t, msgs)
	final := msgs[len(msgs)-1]
	assert.True(t, final.IsComplete)
	assert.NoError(t, final.Error)
}

func TestExecuteRunsAcceptedPackageSteps(t *testing.T) {
	stubConnectivity(t)

	pkg := &fakePackageManager{}
	s := newTestSession(t, pkg)
	s.Accepted[StepUpdate] = true
	s.Accepted[StepUpgrade] = true

	progressChan := make(chan ProgressMsg, 64)
	engine := NewEngine(progressChan)

	require.NoError(t, engine.Execute(context.Background(), s))

	assert.True(t, pkg.updated)
	assert.True(t, pkg.upgraded)
	assert.True(t, pkg.cleaned)

	ran := make(map[ID]bool)
	for _, r := range s.Results {
		ran[r.ID] = r.Ran
	}
	assert.True(t, ran[StepUpdate])
	assert.True(t, ran[StepUpgrade])
	assert.False(t, ran[StepCompositor])
}

func TestExecuteResolutionWithoutModeFails(t *testing.T) {
	stubConnectivity(t)

	pkg := &fakePackageManager{}
	s := newTestSession(t, pkg)
	s.Accepted[StepResolution] = true
	s.Mode = nil

	progressChan := make(chan ProgressMsg, 64)
	engine := NewEngine(progressChan)

	err := engine.Execute(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display mode selected")

	// Failure is surfaced, and cleanup still ran afterwards.
	assert.True(t, pkg.cleaned)

	msgs := drainProgress(progressChan)
	final := msgs[len(msgs)-1]
	assert.True(t, final.IsComplete)
	assert.Error(t, final.Error)
}

func TestPlanOrder(t *testing.T) {
	plan := Plan()
	require.Len(t, plan, 7)

	want := []ID{StepUpdate, StepUpgrade, StepCompositor, StepBrowser, StepResolution, StepGreeter, StepSplash}
	for i, step := range plan {
		assert.Equal(t, want[i], step.ID)
		assert.NotEmpty(t, step.Title)
		assert.NotNil(t, step.Run)
	}
}
