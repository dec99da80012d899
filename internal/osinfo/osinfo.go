// Package osinfo identifies the host Linux distribution from the
// os-release file and maps it onto the closed set of supported
// package-manager families.
package osinfo

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Family is the package-manager family of a supported distribution.
type Family string

const (
	FamilyRedHat Family = "redhat"
	FamilyDebian Family = "debian"
)

// familyByID is the total mapping over the supported distribution IDs.
// Anything outside this map is unsupported, never a silent default.
var familyByID = map[string]Family{
	"amzn":   FamilyRedHat,
	"rhel":   FamilyRedHat,
	"centos": FamilyRedHat,
	"ubuntu": FamilyDebian,
	"debian": FamilyDebian,
}

// SupportedIDs returns the supported distribution IDs in stable order.
func SupportedIDs() []string {
	return []string{"amzn", "rhel", "centos", "ubuntu", "debian"}
}

// UnsupportedDistroError reports a distribution outside the supported set.
type UnsupportedDistroError struct {
	ID string
}

func (e *UnsupportedDistroError) Error() string {
	return fmt.Sprintf("unsupported distribution %q (supported: %s)",
		e.ID, strings.Join(SupportedIDs(), ", "))
}

// Info describes the detected distribution.
type Info struct {
	ID         string
	PrettyName string
	VersionID  string
}

// Detect reads the os-release file at path and extracts the
// distribution identity. A missing or unreadable file is an error:
// without the ID no package strategy can be chosen.
func Detect(path string) (*Info, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read os-release file %s: %w", path, err)
	}

	section := f.Section("")
	id := strings.ToLower(strings.TrimSpace(section.Key("ID").String()))
	if id == "" {
		return nil, fmt.Errorf("os-release file %s has no ID field", path)
	}

	return &Info{
		ID:         id,
		PrettyName: section.Key("PRETTY_NAME").String(),
		VersionID:  section.Key("VERSION_ID").String(),
	}, nil
}

// FamilyFor maps a distribution ID onto its package-manager family.
// Unknown IDs return *UnsupportedDistroError naming the supported set.
func FamilyFor(id string) (Family, error) {
	family, ok := familyByID[strings.ToLower(id)]
	if !ok {
		return "", &UnsupportedDistroError{ID: id}
	}
	return family, nil
}
