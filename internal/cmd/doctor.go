package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/ekstrap/internal/config"
	"github.com/quantmind-br/ekstrap/internal/fsops"
	"github.com/quantmind-br/ekstrap/internal/helpers"
	"github.com/quantmind-br/ekstrap/internal/osinfo"
	"github.com/quantmind-br/ekstrap/internal/pkgmgr"
	"github.com/quantmind-br/ekstrap/internal/report"
	"github.com/quantmind-br/ekstrap/internal/tools"
	"github.com/quantmind-br/ekstrap/internal/ui"
)

// minFreeBytes is the space a full run needs in the scratch directory:
// the AWS CLI bundle alone unpacks to a few hundred megabytes.
const minFreeBytes = 500 * 1024 * 1024

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the host before installing",
		Long:  `Check the host platform, distribution support, helper commands, directories, and the current state of the managed tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintHeader("System Diagnostics")
			fmt.Println()

			ctx := cmd.Context()
			runner := helpers.NewOSCommandRunner()

			var issues []string
			var warnings []string

			// 1. Check the platform
			ui.PrintSubheader("Platform")
			if err := tools.Preflight(); err != nil {
				ui.PrintError("Platform: %v", err)
				issues = append(issues, err.Error())
			} else {
				ui.PrintSuccess("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)
			}

			hostInfo, err := host.InfoWithContext(ctx)
			if err != nil {
				ui.PrintWarning("Host snapshot unavailable: %v", err)
				warnings = append(warnings, "Could not read host information")
			} else {
				ui.PrintInfo("Host: %s (%s %s, kernel %s)",
					hostInfo.Hostname, hostInfo.Platform, hostInfo.PlatformVersion, hostInfo.KernelVersion)
				if verbose {
					ui.PrintInfo("Uptime: %s", (time.Duration(hostInfo.Uptime) * time.Second).String())
					if hostInfo.VirtualizationSystem != "" {
						ui.PrintInfo("Virtualization: %s (%s)", hostInfo.VirtualizationSystem, hostInfo.VirtualizationRole)
					}
				}
			}

			fmt.Println()

			// 2. Check distribution support
			ui.PrintSubheader("Distribution")
			info, err := osinfo.Detect(cfg.Paths.OSReleaseFile)
			if err != nil {
				ui.PrintError("Distribution: %v", err)
				issues = append(issues, fmt.Sprintf("Cannot identify the distribution: %v", err))
			} else {
				ui.PrintSuccess("Distribution: %s (id %s)", distroLabel(info), info.ID)

				family, err := osinfo.FamilyFor(info.ID)
				if err != nil {
					ui.PrintError("%v", err)
					issues = append(issues, err.Error())
				} else if mgr, err := pkgmgr.ForFamily(family, runner, log); err != nil {
					ui.PrintError("%v", err)
					issues = append(issues, err.Error())
				} else if checkDependency(mgr.Name()) {
					ui.PrintSuccess("Package manager: %s", mgr.Name())
				} else {
					ui.PrintError("Package manager: %s NOT FOUND", mgr.Name())
					issues = append(issues, fmt.Sprintf("Package manager not on PATH: %s", mgr.Name()))
				}
			}

			fmt.Println()

			// 3. Check helper commands
			ui.PrintSubheader("Helper Commands")
			if checkDependency("sudo") {
				ui.PrintSuccess("sudo: found")
			} else {
				ui.PrintError("sudo: NOT FOUND")
				issues = append(issues, "Missing required command: sudo (package installs and binary placement elevate through it)")
			}

			for _, pkg := range pkgmgr.DefaultPrerequisites() {
				if pkg.Command == "" {
					continue
				}
				if checkDependency(pkg.Command) {
					ui.PrintSuccess("%s: found", pkg.Command)
				} else {
					ui.PrintWarning("%s: not found (the install step adds it)", pkg.Command)
					warnings = append(warnings, fmt.Sprintf("Prerequisite missing until install runs: %s", pkg.Name))
				}
			}

			fmt.Println()

			// 4. Check directories and disk space
			ui.PrintSubheader("Directories")
			if stat, err := os.Stat(cfg.Paths.BinDir); err == nil && stat.IsDir() {
				ui.PrintSuccess("Binary directory: %s", cfg.Paths.BinDir)
			} else {
				ui.PrintError("Binary directory: NOT FOUND (%s)", cfg.Paths.BinDir)
				issues = append(issues, fmt.Sprintf("Binary directory does not exist: %s", cfg.Paths.BinDir))
			}

			scratchBase := cfg.Paths.ScratchDir
			if scratchBase == "" {
				scratchBase = os.TempDir()
			}
			if checkDirectory(scratchBase) {
				ui.PrintSuccess("Scratch directory: %s", scratchBase)
			} else {
				ui.PrintError("Scratch directory: NOT WRITABLE (%s)", scratchBase)
				issues = append(issues, fmt.Sprintf("Scratch directory not writable: %s", scratchBase))
			}

			if cfg.Paths.LogFile != "" {
				logDir := filepath.Dir(cfg.Paths.LogFile)
				if checkDirectory(logDir) {
					ui.PrintSuccess("Log directory: %s", logDir)
				} else {
					ui.PrintWarning("Log directory: not writable (%s)", logDir)
					warnings = append(warnings, fmt.Sprintf("Log directory not writable: %s", logDir))
				}
			}

			free, err := fsops.FreeSpace(scratchBase)
			switch {
			case err != nil:
				ui.PrintWarning("Free space unknown: %v", err)
				warnings = append(warnings, "Could not determine free disk space")
			case free < minFreeBytes:
				ui.PrintWarning("Free space: %d MB (a full run needs roughly %d MB)", free/(1024*1024), minFreeBytes/(1024*1024))
				warnings = append(warnings, "Low disk space in the scratch directory")
			default:
				ui.PrintSuccess("Free space: %d MB", free/(1024*1024))
			}

			fmt.Println()

			// 5. Check environment
			ui.PrintSubheader("Environment")
			if pathContains(cfg.Paths.BinDir) {
				ui.PrintSuccess("PATH contains %s", cfg.Paths.BinDir)
			} else {
				ui.PrintError("PATH does not contain %s", cfg.Paths.BinDir)
				issues = append(issues, fmt.Sprintf("Installed binaries will not resolve: add %s to PATH", cfg.Paths.BinDir))
			}
			checkEnvironment()

			fmt.Println()

			// 6. Check the managed tools
			ui.PrintSubheader("Managed Tools")
			for _, status := range report.Collect(ctx, runner) {
				switch {
				case status.Present && status.Version != "":
					ui.PrintSuccess("%s: %s", status.Tool.Command(), status.Version)
				case status.Present:
					ui.PrintWarning("%s: present but the version query failed", status.Tool.Command())
					warnings = append(warnings, fmt.Sprintf("%s answers no version; the binary may be corrupted", status.Tool.Command()))
				default:
					ui.PrintInfo("%s: not installed (run 'ekstrap install')", status.Tool.Command())
				}
			}

			fmt.Println()

			// Summary
			ui.PrintHeader("Summary")
			fmt.Println()

			if len(issues) == 0 {
				ui.PrintSuccess("All critical checks passed!")
			} else {
				ui.PrintError("Found %d issue(s):", len(issues))
				ui.PrintList(issues)
				fmt.Println()
			}

			if len(warnings) > 0 {
				ui.PrintWarning("Found %d warning(s):", len(warnings))
				ui.PrintList(warnings)
			}

			fmt.Println()

			if len(issues) > 0 {
				return fmt.Errorf("system check failed with %d issue(s)", len(issues))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output with host details")

	return cmd
}

// checkDependency checks if a command is available on PATH
func checkDependency(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// checkDirectory checks if a directory exists and is writable
func checkDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		// Try to create if it doesn't exist
		if os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0755); err != nil {
				return false
			}
			return true
		}
		return false
	}

	if !info.IsDir() {
		return false
	}

	// Check if writable
	testFile := filepath.Join(path, ".ekstrap-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return false
	}
	os.Remove(testFile)

	return true
}

// pathContains reports whether dir is one of the PATH entries.
func pathContains(dir string) bool {
	for _, entry := range filepath.SplitList(os.Getenv("PATH")) {
		if entry != "" && filepath.Clean(entry) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// checkEnvironment reports the cluster-facing environment variables
func checkEnvironment() {
	envVars := []string{
		"AWS_PROFILE",
		"AWS_REGION",
		"KUBECONFIG",
	}

	for _, name := range envVars {
		value := os.Getenv(name)
		if value != "" {
			ui.PrintSuccess("%s: %s", name, value)
		} else {
			ui.PrintInfo("%s: not set (using defaults)", name)
		}
	}
}
