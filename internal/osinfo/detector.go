package osinfo

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/AvengeMedia/pikiosk/internal/errdefs"
)

var AllSupportedDistros = []string{
	"raspbian",
	"debian",
	"ubuntu",
}

type OSInfo struct {
	Distribution string
	Version      string
	VersionID    string
	PrettyName   string
	Architecture string
	BoardModel   string
	BootDir      string
}

// IsRaspberryPi reports whether the device-tree model names a Raspberry Pi.
func (i *OSInfo) IsRaspberryPi() bool {
	return strings.Contains(i.BoardModel, "Raspberry Pi")
}

var getOsFunc = getGoos
var bootDirCandidates = []string{"/boot/firmware", "/boot"}

func getGoos() string {
	return runtime.GOOS
}

func GetOSInfo() (*OSInfo, error) {
	if getOsFunc() != "linux" {
		return nil, errdefs.NewCustomError(errdefs.ErrTypeNotLinux, fmt.Sprintf("Only linux is supported, but I found %s", runtime.GOOS))
	}

	info := &OSInfo{
		Architecture: machineArch(),
	}

	if err := detectLinuxDistro(info); err != nil {
		return nil, err
	}

	if !slices.Contains(AllSupportedDistros, info.Distribution) {
		return nil, errdefs.NewCustomError(errdefs.ErrTypeUnsupportedDistribution, fmt.Sprintf("Unsupported distribution: %s", info.Distribution))
	}

	info.BoardModel = readBoardModel()
	info.BootDir = detectBootDir()
	if info.BootDir == "" {
		return nil, errdefs.NewCustomError(errdefs.ErrTypeNoBootPartition, "no boot partition directory found (/boot/firmware or /boot)")
	}

	return info, nil
}

func machineArch() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return runtime.GOARCH
	}
	return string(bytes.TrimRight(uts.Machine[:], "\x00"))
}

// readBoardModel reads the device-tree model string, e.g.
// "Raspberry Pi 4 Model B Rev 1.4". Empty on non-Pi hardware.
func readBoardModel() string {
	data, err := os.ReadFile("/proc/device-tree/model")
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\x00")
}

// detectBootDir resolves the boot partition mount point. Bookworm and
// later mount it at /boot/firmware, older images at /boot.
func detectBootDir() string {
	for _, dir := range bootDirCandidates {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return ""
}
