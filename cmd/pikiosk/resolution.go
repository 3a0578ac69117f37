package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/AvengeMedia/pikiosk/internal/compositor"
	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/osinfo"
	"github.com/AvengeMedia/pikiosk/internal/output"
	"github.com/AvengeMedia/pikiosk/internal/patch"
	"github.com/AvengeMedia/pikiosk/internal/system"
)

func resolveOutput(name string) string {
	if name != "" {
		return name
	}
	return output.EnumerateConnected()[0]
}

func listResolutions(outputName string) error {
	outputName = resolveOutput(outputName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	modes := edid.DiscoverModes(ctx, outputName)

	fmt.Printf("Modes advertised by %s:\n\n", outputName)
	for _, mode := range modes {
		fmt.Printf("  %s\n", mode)
	}
	return nil
}

func setResolution(modeStr, outputName, compositorName string) error {
	mode, err := edid.ParseMode(modeStr)
	if err != nil {
		return err
	}
	outputName = resolveOutput(outputName)

	info, err := osinfo.GetOSInfo()
	if err != nil {
		return err
	}

	ctx := context.Background()
	logChan := newPrintLogger()
	runner := system.NewRunner("", logChan)

	patcher := patch.NewWithWriter(afero.NewOsFs(), func(path string, data []byte, perm os.FileMode) error {
		return runner.WriteFileAsRoot(ctx, path, data, perm)
	})

	cmdline := filepath.Join(info.BootDir, "cmdline.txt")
	token := mode.CmdlineToken(outputName)
	result, err := patcher.SetCmdlineToken(cmdline, "video", token[len("video="):])
	if err != nil {
		return err
	}
	fmt.Println(result.Message)

	if compositorName == "" {
		return nil
	}

	kind, err := parseCompositor(compositorName)
	if err != nil {
		return err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	cfg, err := compositor.NewConfigurator(kind, afero.NewOsFs(), home, logChan)
	if err != nil {
		return err
	}
	compResult, err := cfg.EnsureMode(outputName, mode)
	if err != nil {
		return err
	}
	fmt.Println(compResult.Message)
	return nil
}
