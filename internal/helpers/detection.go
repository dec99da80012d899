package helpers

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileType represents the detected type of a downloaded artifact
type FileType string

const (
	FileTypeBinary  FileType = "binary"
	FileTypeTarGz   FileType = "tar.gz"
	FileTypeTarXz   FileType = "tar.xz"
	FileTypeTar     FileType = "tar"
	FileTypeZip     FileType = "zip"
	FileTypeUnknown FileType = "unknown"
)

// DetectFileType identifies the type of a file based on extension and magic numbers
func DetectFileType(filePath string) (FileType, error) {
	lower := strings.ToLower(filePath)

	// Check extension first for quick detection
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FileTypeZip, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FileTypeTarGz, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FileTypeTarXz, nil
	case strings.HasSuffix(lower, ".tar"):
		return FileTypeTar, nil
	}

	// Fall back to magic numbers
	f, err := os.Open(filePath)
	if err != nil {
		return FileTypeUnknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	// ELF magic: 0x7F 'E' 'L' 'F'
	if len(header) >= 4 && bytes.Equal(header[:4], []byte{0x7F, 'E', 'L', 'F'}) {
		return FileTypeBinary, nil
	}

	// Gzip magic: 0x1F 0x8B
	if len(header) >= 2 && bytes.Equal(header[:2], []byte{0x1F, 0x8B}) {
		return FileTypeTarGz, nil
	}

	// XZ magic: 0xFD '7' 'z' 'X' 'Z' 0x00
	if len(header) >= 6 && bytes.Equal(header[:6], []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}) {
		return FileTypeTarXz, nil
	}

	// ZIP magic: "PK"
	if len(header) >= 2 && bytes.Equal(header[:2], []byte{'P', 'K'}) {
		return FileTypeZip, nil
	}

	// Tar magic: "ustar" at offset 257
	if len(header) >= 262 && bytes.Equal(header[257:262], []byte("ustar")) {
		return FileTypeTar, nil
	}

	return FileTypeUnknown, nil
}

// IsExecutable checks if a file has execute permissions
func IsExecutable(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return false, err
	}

	mode := info.Mode()
	return mode&0111 != 0, nil
}

// MakeExecutable sets the executable bit on a file
func MakeExecutable(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	// Add execute permissions for owner, group, and others
	newMode := info.Mode() | 0111
	return os.Chmod(filePath, newMode)
}

// fileBase is filepath.Base with archive-entry separators normalized,
// tar entries always use forward slashes regardless of platform.
func fileBase(name string) string {
	return filepath.Base(strings.ReplaceAll(name, "\\", "/"))
}
