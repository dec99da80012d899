// Package fetch downloads release artifacts over HTTP and resolves
// published version markers.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/ekstrap/internal/ui"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the number of times a failed download is retried.
	DefaultRetries = 3
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "ekstrap/1.0"

	// maxMarkerSize caps version marker responses; stable.txt is a few bytes.
	maxMarkerSize = 4096
)

// Downloader handles HTTP downloads with retry logic.
type Downloader struct {
	client       *http.Client
	userAgent    string
	retries      int
	backoffUnit  time.Duration
	showProgress bool
	logger       *zerolog.Logger
}

// NewDownloader creates a downloader. showProgress renders a byte
// progress bar on stderr while a download streams.
func NewDownloader(log *zerolog.Logger, showProgress bool) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Allow up to 10 redirects
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent:    DefaultUserAgent,
		retries:      DefaultRetries,
		backoffUnit:  time.Second,
		showProgress: showProgress,
		logger:       log,
	}
}

// DownloadFile downloads url to destPath, retrying failures with
// exponential backoff. The file appears atomically: data streams to
// destPath+".tmp" and is renamed only after a complete read, so a
// partial download never lands at destPath.
func (d *Downloader) DownloadFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := time.Duration(1<<uint(attempt-1)) * d.backoffUnit
			d.logger.Debug().
				Str("url", url).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("retrying download")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

// downloadOnce performs a single download attempt.
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var dst io.Writer = tmpFile
	var progress *ui.ProgressWriter
	if d.showProgress {
		progress = ui.NewProgressWriter(tmpFile, resp.ContentLength, filepath.Base(destPath))
		dst = progress
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}
	if progress != nil {
		progress.Close()
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// FetchText GETs a small text resource and returns its body with
// surrounding whitespace trimmed.
func (d *Downloader) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMarkerSize))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}
