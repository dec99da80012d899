package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/ekstrap/internal/helpers"
)

// aptEnv keeps dpkg from prompting during unattended installs.
var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// aptConfOptions resolve conffile questions without a terminal.
var aptConfOptions = []string{
	"-o", "Dpkg::Options::=--force-confdef",
	"-o", "Dpkg::Options::=--force-confold",
}

// AptManager drives the Debian family package manager.
type AptManager struct {
	runner helpers.CommandRunner
	logger *zerolog.Logger
}

// NewAptManager creates an AptManager using the given command runner.
func NewAptManager(runner helpers.CommandRunner, log *zerolog.Logger) *AptManager {
	return &AptManager{runner: runner, logger: log}
}

// Name returns the manager binary name.
func (m *AptManager) Name() string {
	return "apt-get"
}

// Refresh updates the apt package index. Debian family images routinely
// ship with an empty index, so installs without a refresh fail.
func (m *AptManager) Refresh(ctx context.Context) error {
	m.logger.Info().Msg("refreshing apt package index")

	_, stderr, err := m.runner.RunCommandEnv(ctx, aptEnv, "sudo", "apt-get", "update")
	if err != nil {
		return fmt.Errorf("failed to refresh apt index: %w (stderr: %s)",
			err, strings.TrimSpace(stderr))
	}
	return nil
}

// Install installs the named packages in a single apt-get invocation.
func (m *AptManager) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	m.logger.Info().Strs("packages", names).Msg("installing packages with apt-get")

	args := append([]string{"apt-get", "install", "-y"}, aptConfOptions...)
	args = append(args, names...)
	_, stderr, err := m.runner.RunCommandEnv(ctx, aptEnv, "sudo", args...)
	if err != nil {
		return fmt.Errorf("failed to install %s with apt-get: %w (stderr: %s)",
			strings.Join(names, ", "), err, strings.TrimSpace(stderr))
	}
	return nil
}

// EnsurePackages refreshes the index and installs the full requested
// list. apt-get treats already-installed packages as satisfied, so no
// PATH filtering happens here.
func (m *AptManager) EnsurePackages(ctx context.Context, pkgs []Package) ([]string, error) {
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		names = append(names, pkg.Name)
	}

	if err := m.Install(ctx, names); err != nil {
		return nil, err
	}
	return names, nil
}
