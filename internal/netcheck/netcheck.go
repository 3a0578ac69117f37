package netcheck

import (
	"fmt"

	"github.com/Wifx/gonetworkmanager/v2"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOffline
	StatusOnline
)

func (s Status) String() string {
	switch s {
	case StatusOffline:
		return "offline"
	case StatusOnline:
		return "online"
	default:
		return "unknown"
	}
}

// Check asks NetworkManager whether the host has connectivity before
// any package step runs. A missing or unreachable NetworkManager is
// not an error condition: the result is StatusUnknown and the caller
// proceeds, the same way other absent collaborators degrade to
// fallbacks.
func Check() (Status, error) {
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		return StatusUnknown, fmt.Errorf("NetworkManager unavailable: %w", err)
	}

	state, err := nm.GetPropertyState()
	if err != nil {
		return StatusUnknown, fmt.Errorf("failed to query NetworkManager state: %w", err)
	}

	switch state {
	case gonetworkmanager.NmStateConnectedGlobal, gonetworkmanager.NmStateConnectedSite:
		return StatusOnline, nil
	case gonetworkmanager.NmStateConnectedLocal, gonetworkmanager.NmStateDisconnected, gonetworkmanager.NmStateDisconnecting, gonetworkmanager.NmStateAsleep:
		return StatusOffline, nil
	default:
		return StatusUnknown, nil
	}
}
