package osinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("quoted values", func(t *testing.T) {
		t.Parallel()

		path := writeOSRelease(t, `NAME="Amazon Linux"
VERSION="2023"
ID="amzn"
VERSION_ID="2023"
PRETTY_NAME="Amazon Linux 2023"
ANSI_COLOR="0;33"
`)

		info, err := Detect(path)
		require.NoError(t, err)
		assert.Equal(t, "amzn", info.ID)
		assert.Equal(t, "Amazon Linux 2023", info.PrettyName)
		assert.Equal(t, "2023", info.VersionID)
	})

	t.Run("unquoted values", func(t *testing.T) {
		t.Parallel()

		path := writeOSRelease(t, `PRETTY_NAME="Ubuntu 24.04.1 LTS"
NAME="Ubuntu"
VERSION_ID="24.04"
ID=ubuntu
ID_LIKE=debian
`)

		info, err := Detect(path)
		require.NoError(t, err)
		assert.Equal(t, "ubuntu", info.ID)
		assert.Equal(t, "24.04", info.VersionID)
	})

	t.Run("uppercase ID normalized", func(t *testing.T) {
		t.Parallel()

		path := writeOSRelease(t, "ID=RHEL\nPRETTY_NAME=\"Red Hat Enterprise Linux 9\"\n")

		info, err := Detect(path)
		require.NoError(t, err)
		assert.Equal(t, "rhel", info.ID)
	})

	t.Run("comments ignored", func(t *testing.T) {
		t.Parallel()

		path := writeOSRelease(t, `# generated by the image builder
ID=debian
VERSION_ID="12"
`)

		info, err := Detect(path)
		require.NoError(t, err)
		assert.Equal(t, "debian", info.ID)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Detect(filepath.Join(t.TempDir(), "does-not-exist"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read os-release file")
	})

	t.Run("missing ID field", func(t *testing.T) {
		t.Parallel()

		path := writeOSRelease(t, "NAME=\"Some Linux\"\nVERSION_ID=\"1.0\"\n")

		_, err := Detect(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no ID field")
	})
}

func TestFamilyFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id     string
		family Family
	}{
		{"amzn", FamilyRedHat},
		{"rhel", FamilyRedHat},
		{"centos", FamilyRedHat},
		{"ubuntu", FamilyDebian},
		{"debian", FamilyDebian},
		{"UBUNTU", FamilyDebian},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			family, err := FamilyFor(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.family, family)
		})
	}

	t.Run("unsupported distribution", func(t *testing.T) {
		t.Parallel()

		_, err := FamilyFor("arch")
		require.Error(t, err)

		var unsupported *UnsupportedDistroError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "arch", unsupported.ID)
		assert.Contains(t, err.Error(), "amzn, rhel, centos, ubuntu, debian")
	})
}

func TestSupportedIDs(t *testing.T) {
	t.Parallel()

	ids := SupportedIDs()
	assert.Len(t, ids, len(familyByID))
	for _, id := range ids {
		_, ok := familyByID[id]
		assert.True(t, ok, "SupportedIDs entry %q missing from mapping", id)
	}
}
