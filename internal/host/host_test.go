package host_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ralt/aptsources/internal/host"
	"github.com/ralt/aptsources/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCodename(t *testing.T) {
	t.Parallel()

	path := writeOSRelease(t, `NAME="Ubuntu"
VERSION_ID="22.04"
VERSION="22.04.3 LTS (Jammy Jellyfish)"
VERSION_CODENAME=jammy
ID=ubuntu
UBUNTU_CODENAME=jammy
`)
	codename, err := host.Codename(path)
	require.NoError(t, err)
	assert.Equal(t, "jammy", codename)

	path = writeOSRelease(t, "ID=linuxmint\nUBUNTU_CODENAME=\"focal\"\n")
	codename, err = host.Codename(path)
	require.NoError(t, err)
	assert.Equal(t, "focal", codename)

	_, err = host.Codename(writeOSRelease(t, "ID=debian\n"))
	assert.Error(t, err)

	_, err = host.Codename(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestArchitecture(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	arch := host.Architecture(ctx, func(_ context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "dpkg", name)
		assert.Equal(t, []string{"--print-architecture"}, args)
		return []byte("arm64\n"), nil
	})
	assert.Equal(t, "arm64", arch)

	arch = host.Architecture(ctx, func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("not found")
	})
	assert.Equal(t, host.DebianArch(runtime.GOARCH), arch)
}

func TestDebianArch(t *testing.T) {
	assert.Equal(t, "armhf", host.DebianArch("arm"))
	assert.Equal(t, "ppc64el", host.DebianArch("ppc64le"))
	assert.Equal(t, "i386", host.DebianArch("386"))
	assert.Equal(t, "sparc64", host.DebianArch("sparc64"))
}

func TestDpkgAddArchitecture(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var got [][]string
	dpkg := host.Dpkg{Run: func(_ context.Context, name string, args ...string) ([]byte, error) {
		got = append(got, append([]string{name}, args...))
		if args[1] == "bogus" {
			return []byte("dpkg: error: architecture 'bogus' is illegal\n"), errors.New("exit status 2")
		}
		return nil, nil
	}}

	require.NoError(t, dpkg.AddArchitecture(ctx, "arm64"))
	err := dpkg.AddArchitecture(ctx, "bogus")

	var archErr *models.ArchitectureError
	require.ErrorAs(t, err, &archErr)
	assert.Equal(t, "bogus", archErr.Arch)
	assert.Contains(t, err.Error(), "is illegal")
	assert.Equal(t, [][]string{
		{"dpkg", "--add-architecture", "arm64"},
		{"dpkg", "--add-architecture", "bogus"},
	}, got)
}
