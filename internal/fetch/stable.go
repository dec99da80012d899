package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ResolveStable reads the version marker published at base+"/stable.txt"
// and returns the release tag it names, e.g. "v1.31.2". The marker is
// validated as a semantic version so an upstream error page never
// becomes part of a download URL.
func (d *Downloader) ResolveStable(ctx context.Context, base string) (string, error) {
	markerURL := strings.TrimSuffix(base, "/") + "/stable.txt"

	tag, err := d.FetchText(ctx, markerURL)
	if err != nil {
		return "", fmt.Errorf("resolve stable version: %w", err)
	}

	if _, err := semver.NewVersion(tag); err != nil {
		return "", fmt.Errorf("stable version marker %q is not a version: %w", tag, err)
	}

	d.logger.Debug().Str("version", tag).Str("url", markerURL).Msg("resolved stable version")
	return tag, nil
}

// StableArtifactURL builds the download URL for a released binary under
// the version-tagged linux/amd64 layout used by the kubectl mirrors.
func StableArtifactURL(base, version, name string) string {
	return fmt.Sprintf("%s/%s/bin/linux/amd64/%s", strings.TrimSuffix(base, "/"), version, name)
}
