package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/ekstrap/internal/config"
	"github.com/quantmind-br/ekstrap/internal/fetch"
	"github.com/quantmind-br/ekstrap/internal/helpers"
)

// ArtifactFetcher is the download surface the installer needs. It is
// satisfied by *fetch.Downloader.
type ArtifactFetcher interface {
	DownloadFile(ctx context.Context, url, destPath string) error
	ResolveStable(ctx context.Context, base string) (string, error)
}

// Installer downloads release artifacts and places the managed tools on
// the system path.
type Installer struct {
	cfg        *config.Config
	logger     *zerolog.Logger
	runner     helpers.CommandRunner
	downloader ArtifactFetcher
	scratchDir string
}

// NewInstaller creates an installer that stages downloads in scratchDir.
func NewInstaller(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner, downloader ArtifactFetcher, scratchDir string) *Installer {
	return &Installer{
		cfg:        cfg,
		logger:     log,
		runner:     runner,
		downloader: downloader,
		scratchDir: scratchDir,
	}
}

// Preflight rejects hosts the release artifacts cannot run on. The
// configured endpoints publish linux/amd64 binaries only.
func Preflight() error {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		return fmt.Errorf("unsupported platform %s/%s: release artifacts are linux/amd64 only",
			runtime.GOOS, runtime.GOARCH)
	}
	return nil
}

// InstallAll installs every managed tool in order. A failing tool is
// recorded and the run moves on to the next; callers read the results to
// decide the final exit state.
func (i *Installer) InstallAll(ctx context.Context) []Result {
	results := make([]Result, 0, len(All()))
	for _, tool := range All() {
		results = append(results, i.Install(ctx, tool))
	}
	return results
}

// Install makes one tool available, skipping all work when its command
// already resolves on PATH. Failures are captured in the Result, never
// propagated.
func (i *Installer) Install(ctx context.Context, tool Tool) Result {
	if present, version := Probe(ctx, i.runner, tool); present {
		i.logger.Info().
			Str("tool", tool.Command()).
			Str("version", version).
			Msg("already on PATH, skipping install")
		return Result{Tool: tool, Outcome: OutcomeAlreadyPresent, Version: version}
	}

	i.logger.Info().Str("tool", tool.Command()).Msg("installing tool")

	var err error
	switch tool {
	case ToolAWS:
		err = i.installAWS(ctx)
	case ToolEksctl:
		err = i.installEksctl(ctx)
	case ToolKubectl:
		err = i.installKubectl(ctx)
	default:
		err = fmt.Errorf("unknown tool %q", tool)
	}
	if err != nil {
		i.logger.Error().Err(err).Str("tool", tool.Command()).Msg("installation failed")
		return Result{Tool: tool, Outcome: OutcomeFailed, Err: err}
	}

	version := i.verify(ctx, tool)
	i.logger.Info().
		Str("tool", tool.Command()).
		Str("version", version).
		Msg("tool installed")
	return Result{Tool: tool, Outcome: OutcomeInstalled, Version: version}
}

// installAWS downloads the bundled zip and runs the vendor installer,
// which lays the CLI under the application directory and links the aws
// command into the bin directory.
func (i *Installer) installAWS(ctx context.Context) error {
	archivePath := filepath.Join(i.scratchDir, "awscliv2.zip")
	if err := i.downloader.DownloadFile(ctx, i.cfg.Endpoints.AWSCLIArchive, archivePath); err != nil {
		return fmt.Errorf("failed to download AWS CLI archive: %w", err)
	}

	extractDir := filepath.Join(i.scratchDir, "awscli")
	if err := helpers.Extract(archivePath, extractDir); err != nil {
		return fmt.Errorf("failed to unpack AWS CLI archive: %w", err)
	}

	// Zip entries can arrive without the exec bit depending on the writer.
	installer := filepath.Join(extractDir, "aws", "install")
	if ok, _ := helpers.IsExecutable(installer); !ok {
		if err := helpers.MakeExecutable(installer); err != nil {
			return fmt.Errorf("vendor installer is not runnable: %w", err)
		}
	}

	_, stderr, err := i.runner.RunCommandWithOutput(ctx, "sudo", installer,
		"--install-dir", i.cfg.Paths.AWSInstallDir,
		"--bin-dir", i.cfg.Paths.BinDir)
	if err != nil {
		return fmt.Errorf("vendor installer failed: %w (stderr: %s)",
			err, strings.TrimSpace(stderr))
	}
	return nil
}

// installEksctl downloads the single-binary tar.gz and moves the binary
// into the bin directory.
func (i *Installer) installEksctl(ctx context.Context) error {
	archivePath := filepath.Join(i.scratchDir, "eksctl.tar.gz")
	if err := i.downloader.DownloadFile(ctx, i.cfg.Endpoints.EksctlArchive, archivePath); err != nil {
		return fmt.Errorf("failed to download eksctl archive: %w", err)
	}

	binPath := filepath.Join(i.scratchDir, "eksctl")
	if err := helpers.ExtractFileTarGz(archivePath, binPath, "eksctl"); err != nil {
		return fmt.Errorf("failed to unpack eksctl archive: %w", err)
	}

	return i.placeBinary(ctx, binPath, "eksctl")
}

// installKubectl resolves the latest stable release through the
// published version marker, then downloads the raw binary for it.
func (i *Installer) installKubectl(ctx context.Context) error {
	version, err := i.downloader.ResolveStable(ctx, i.cfg.Endpoints.KubectlBase)
	if err != nil {
		return err
	}

	i.logger.Info().Str("version", version).Msg("installing latest stable kubectl")

	binPath := filepath.Join(i.scratchDir, "kubectl")
	url := fetch.StableArtifactURL(i.cfg.Endpoints.KubectlBase, version, "kubectl")
	if err := i.downloader.DownloadFile(ctx, url, binPath); err != nil {
		return fmt.Errorf("failed to download kubectl %s: %w", version, err)
	}

	return i.placeBinary(ctx, binPath, "kubectl")
}

// placeBinary marks the staged binary executable and moves it into the
// bin directory. The move runs with elevated privileges since the bin
// directory is root-owned on stock hosts.
func (i *Installer) placeBinary(ctx context.Context, srcPath, name string) error {
	if err := helpers.MakeExecutable(srcPath); err != nil {
		return fmt.Errorf("failed to mark %s executable: %w", name, err)
	}

	destPath := filepath.Join(i.cfg.Paths.BinDir, name)
	_, stderr, err := i.runner.RunCommandWithOutput(ctx, "sudo", "mv", srcPath, destPath)
	if err != nil {
		return fmt.Errorf("failed to move %s into %s: %w (stderr: %s)",
			name, i.cfg.Paths.BinDir, err, strings.TrimSpace(stderr))
	}

	i.logger.Debug().Str("binary", name).Str("dest", destPath).Msg("binary placed")
	return nil
}

// verify confirms the freshly placed binary answers its version query.
// A failed query only logs a hint and leaves the version empty; the
// summary's live PATH probe decides the final reported state.
func (i *Installer) verify(ctx context.Context, tool Tool) string {
	present, version := Probe(ctx, i.runner, tool)
	if !present {
		i.logger.Warn().
			Str("tool", tool.Command()).
			Str("bin_dir", i.cfg.Paths.BinDir).
			Msg("binary not resolvable after install; check that the bin directory is on PATH")
		return ""
	}

	if version == "" {
		i.logger.Warn().
			Str("tool", tool.Command()).
			Msg("version query failed; the binary may be corrupted or built for another architecture")
	}
	return version
}
