package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/ekstrap/internal/config"
	"github.com/quantmind-br/ekstrap/internal/fetch"
	"github.com/quantmind-br/ekstrap/internal/fsops"
	"github.com/quantmind-br/ekstrap/internal/helpers"
	"github.com/quantmind-br/ekstrap/internal/osinfo"
	"github.com/quantmind-br/ekstrap/internal/pkgmgr"
	"github.com/quantmind-br/ekstrap/internal/report"
	"github.com/quantmind-br/ekstrap/internal/tools"
)

// NewInstallCmd creates the install command
func NewInstallCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		timeoutSecs int
		noProgress  bool
		keepScratch bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the EKS workstation tools",
		Long:  `Detect the host distribution, install prerequisite packages, then download and install the AWS CLI v2, eksctl, and kubectl.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Info().
				Int("timeout_secs", timeoutSecs).
				Msg("starting installation run")

			// Create context with timeout
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second)
			defer cancel()

			runner := helpers.NewOSCommandRunner()
			fs := afero.NewOsFs()

			if err := tools.Preflight(); err != nil {
				color.Red("Error: %v", err)
				return err
			}

			// Detect the distribution
			color.Cyan("→ Detecting host distribution...")
			info, err := osinfo.Detect(cfg.Paths.OSReleaseFile)
			if err != nil {
				color.Red("Error: %v", err)
				return fmt.Errorf("failed to detect distribution: %w", err)
			}
			family, err := osinfo.FamilyFor(info.ID)
			if err != nil {
				color.Red("Error: %v", err)
				return err
			}
			color.Green("✓ Detected %s (%s family)", distroLabel(info), family)

			// Install prerequisite packages
			color.Cyan("→ Ensuring prerequisite packages...")
			mgr, err := pkgmgr.ForFamily(family, runner, log)
			if err != nil {
				color.Red("Error: %v", err)
				return err
			}
			installed, err := mgr.EnsurePackages(ctx, pkgmgr.DefaultPrerequisites())
			if err != nil {
				color.Red("Error: failed to install prerequisites: %v", err)
				return fmt.Errorf("failed to install prerequisites: %w", err)
			}
			if len(installed) > 0 {
				color.Green("✓ Installed %s via %s", strings.Join(installed, ", "), mgr.Name())
			} else {
				color.Green("✓ All prerequisites already present")
			}

			// Best-effort re-check for the download tool; a missing curl
			// degrades the host but never aborts the run.
			if !pkgmgr.EnsureDownloadTool(ctx, mgr, runner, log) {
				color.Yellow("Warning: curl is unavailable; install it manually if your workflows need it")
			}

			// Install the tools
			color.Cyan("→ Installing tools...")
			scratchDir, err := fsops.CreateScratchDir(fs, cfg.Paths.ScratchDir, "ekstrap-")
			if err != nil {
				color.Red("Error: failed to create scratch directory: %v", err)
				return fmt.Errorf("failed to create scratch directory: %w", err)
			}
			if !keepScratch {
				defer func() {
					if err := fs.RemoveAll(scratchDir); err != nil {
						log.Warn().Err(err).Str("dir", scratchDir).Msg("failed to remove scratch directory")
					}
				}()
			}

			downloader := fetch.NewDownloader(log, !noProgress)
			installer := tools.NewInstaller(cfg, log, runner, downloader, scratchDir)
			results := installer.InstallAll(ctx)

			for _, res := range results {
				switch res.Outcome {
				case tools.OutcomeInstalled:
					color.Green("✓ %s installed (%s)", res.Tool.DisplayName(), res.Version)
				case tools.OutcomeAlreadyPresent:
					color.Green("✓ %s already present (%s)", res.Tool.DisplayName(), res.Version)
				case tools.OutcomeFailed:
					color.Red("✗ %s failed: %v", res.Tool.DisplayName(), res.Err)
				}
			}

			// The summary reflects what is resolvable right now, not what
			// the run believes it did.
			fmt.Println()
			statuses := report.Collect(ctx, runner)
			report.Render(os.Stdout, statuses, results)

			if !report.AllPresent(statuses) {
				return fmt.Errorf("%d of %d tools are not installed", countMissing(statuses), len(statuses))
			}

			log.Info().Msg("installation run completed")
			return nil
		},
	}

	cmd.Flags().IntVar(&timeoutSecs, "timeout", cfg.Install.Timeout, "overall run timeout in seconds")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable download progress bars")
	cmd.Flags().BoolVar(&keepScratch, "keep-scratch", false, "keep the scratch directory after the run")

	return cmd
}

// distroLabel returns the friendliest name available for console output.
func distroLabel(info *osinfo.Info) string {
	if info.PrettyName != "" {
		return info.PrettyName
	}
	return info.ID
}

func countMissing(statuses []report.ToolStatus) int {
	missing := 0
	for _, s := range statuses {
		if !s.Present {
			missing++
		}
	}
	return missing
}
