package pkgmanager

import (
	"context"
	"fmt"
)

type ProgressFunc func(step string, progress float64, isComplete bool)

type PackageManager interface {
	Update(ctx context.Context, progressFunc ProgressFunc) error
	Upgrade(ctx context.Context, progressFunc ProgressFunc) error
	InstallPackages(ctx context.Context, packages []string, progressFunc ProgressFunc) error
	Clean(ctx context.Context) error
}

func NewPackageManager(distribution, sudoPassword string, logChan chan<- string) (PackageManager, error) {
	switch distribution {
	case "raspbian", "debian", "ubuntu":
		return NewAptManager(sudoPassword, logChan), nil
	default:
		return nil, fmt.Errorf("unsupported distribution: %s", distribution)
	}
}
