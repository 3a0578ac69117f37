package tui

import (
	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/osinfo"
	"github.com/AvengeMedia/pikiosk/internal/steps"
)

type logMsg struct {
	message string
}

type osInfoCompleteMsg struct {
	info *osinfo.OSInfo
	err  error
}

type modesDiscoveredMsg struct {
	output string
	modes  []edid.Mode
}

type themesListedMsg struct {
	themes []string
}

type stepProgressMsg steps.ProgressMsg

type progressCompletedMsg struct{}

type passwordValidMsg struct {
	password string
	valid    bool
}
