package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/ekstrap/internal/helpers"
)

// YumManager drives the Red Hat family package manager.
type YumManager struct {
	runner helpers.CommandRunner
	logger *zerolog.Logger
}

// NewYumManager creates a YumManager using the given command runner.
func NewYumManager(runner helpers.CommandRunner, log *zerolog.Logger) *YumManager {
	return &YumManager{runner: runner, logger: log}
}

// Name returns the manager binary name.
func (m *YumManager) Name() string {
	return "yum"
}

// Refresh is a no-op: yum refreshes its metadata on demand.
func (m *YumManager) Refresh(ctx context.Context) error {
	return nil
}

// Install installs the named packages in a single yum invocation.
func (m *YumManager) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	m.logger.Info().Strs("packages", names).Msg("installing packages with yum")

	args := append([]string{"yum", "install", "-y"}, names...)
	_, stderr, err := m.runner.RunCommandWithOutput(ctx, "sudo", args...)
	if err != nil {
		return fmt.Errorf("failed to install %s with yum: %w (stderr: %s)",
			strings.Join(names, ", "), err, strings.TrimSpace(stderr))
	}
	return nil
}

// EnsurePackages skips every package whose command already resolves on
// PATH, then installs the remainder in one yum invocation. The skip
// matters for curl: Amazon Linux ships curl-minimal, which provides the
// command but conflicts with the full curl package. No missing packages
// means yum is never invoked.
func (m *YumManager) EnsurePackages(ctx context.Context, pkgs []Package) ([]string, error) {
	var missing []string
	for _, pkg := range pkgs {
		if pkg.Command != "" && m.runner.CommandExists(pkg.Command) {
			m.logger.Debug().
				Str("package", pkg.Name).
				Str("command", pkg.Command).
				Msg("command already on PATH, skipping package")
			continue
		}
		missing = append(missing, pkg.Name)
	}

	if len(missing) == 0 {
		m.logger.Info().Msg("all prerequisite packages already satisfied")
		return nil, nil
	}

	if err := m.Install(ctx, missing); err != nil {
		return nil, err
	}
	return missing, nil
}
