package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// CreateScratchDir creates the per-run scratch directory for downloads
// and unpacked archives. An empty baseDir means the system temp dir.
func CreateScratchDir(fs afero.Fs, baseDir, prefix string) (string, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if err := fs.MkdirAll(baseDir, 0755); err != nil {
		return "", fmt.Errorf("create scratch base: %w", err)
	}
	dir, err := afero.TempDir(fs, baseDir, prefix)
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, nil
}

// CheckWritable checks if a path is writable
func CheckWritable(fs afero.Fs, path string) error {
	testFile := filepath.Join(path, ".write_test")
	f, err := fs.Create(testFile)
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	f.Close()
	fs.Remove(testFile)
	return nil
}

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FreeSpace reports the bytes available to unprivileged users on the
// filesystem containing path. Downloaded bundles unpack to several
// hundred megabytes, so callers warn when this runs low.
func FreeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
