// Package pkgmgr installs distribution packages through the host's
// native package manager. Each supported distribution family gets one
// Manager implementation with its own installation strategy.
package pkgmgr

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/ekstrap/internal/helpers"
	"github.com/quantmind-br/ekstrap/internal/osinfo"
)

// Package pairs a distribution package with the command that proves the
// capability is already available on PATH. Command may be empty when no
// single executable marks the package as satisfied.
type Package struct {
	Name    string
	Command string
}

// Manager abstracts one distribution family's package manager.
type Manager interface {
	// Name returns the manager binary, for logs and diagnostics.
	Name() string

	// Refresh updates the package index where the family requires it.
	Refresh(ctx context.Context) error

	// Install installs the named packages. An empty list is a no-op.
	Install(ctx context.Context, names []string) error

	// EnsurePackages makes the listed capabilities available using the
	// family's strategy and reports which packages it installed.
	EnsurePackages(ctx context.Context, pkgs []Package) ([]string, error)
}

// ForFamily returns the package manager for a supported distribution
// family. The mapping is total over the osinfo.Family constants.
func ForFamily(family osinfo.Family, runner helpers.CommandRunner, log *zerolog.Logger) (Manager, error) {
	switch family {
	case osinfo.FamilyRedHat:
		return NewYumManager(runner, log), nil
	case osinfo.FamilyDebian:
		return NewAptManager(runner, log), nil
	default:
		return nil, fmt.Errorf("no package manager for distribution family %q", family)
	}
}

// DefaultPrerequisites lists the packages the artifact installers rely
// on: curl for downloads, unzip for the AWS CLI bundle, tar for the
// eksctl archive.
func DefaultPrerequisites() []Package {
	return []Package{
		{Name: "curl", Command: "curl"},
		{Name: "unzip", Command: "unzip"},
		{Name: "tar", Command: "tar"},
	}
}
