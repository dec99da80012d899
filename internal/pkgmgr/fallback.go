package pkgmgr

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/ekstrap/internal/helpers"
)

// DownloadTool is the executable all artifact downloads go through.
const DownloadTool = "curl"

// downloadToolPackages are tried in order when curl is still missing
// after the prerequisite pass. Some Red Hat family releases reject the
// full curl package as a conflict and only accept curl-minimal.
var downloadToolPackages = []string{"curl", "curl-minimal"}

// Fallback is one candidate in an ordered remediation chain.
type Fallback struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunFirstSuccess tries each candidate in order and stops at the first
// success, returning its name. ok is false when every candidate failed.
func RunFirstSuccess(ctx context.Context, log *zerolog.Logger, chain []Fallback) (string, bool) {
	for _, candidate := range chain {
		if err := candidate.Run(ctx); err != nil {
			log.Debug().
				Err(err).
				Str("candidate", candidate.Name).
				Msg("remediation candidate failed, trying next")
			continue
		}
		return candidate.Name, true
	}
	return "", false
}

// EnsureDownloadTool makes a best-effort attempt to put curl on PATH,
// walking the package fallback chain when it is missing. Failure is
// reported, never fatal: the caller decides how far the run can proceed
// without downloads.
func EnsureDownloadTool(ctx context.Context, mgr Manager, runner helpers.CommandRunner, log *zerolog.Logger) bool {
	if runner.CommandExists(DownloadTool) {
		return true
	}

	log.Warn().Str("tool", DownloadTool).Msg("download tool missing, trying package fallbacks")

	chain := make([]Fallback, 0, len(downloadToolPackages))
	for _, pkg := range downloadToolPackages {
		pkg := pkg
		chain = append(chain, Fallback{
			Name: pkg,
			Run: func(ctx context.Context) error {
				return mgr.Install(ctx, []string{pkg})
			},
		})
	}

	if winner, ok := RunFirstSuccess(ctx, log, chain); ok {
		log.Info().Str("package", winner).Msg("download tool installed")
		return true
	}

	log.Warn().
		Str("tool", DownloadTool).
		Msg("could not install a download tool; install curl manually and re-run")
	return false
}
