package host

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ralt/aptsources/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultOSRelease is the os-release file read for the distribution codename
const DefaultOSRelease = "/etc/os-release"

// debian architecture names for GOARCH values that differ or need listing
var goarchToDeb = map[string]string{
	"amd64":    "amd64",
	"arm64":    "arm64",
	"arm":      "armhf",
	"386":      "i386",
	"ppc64le":  "ppc64el",
	"s390x":    "s390x",
	"riscv64":  "riscv64",
	"loong64":  "loong64",
	"mips64le": "mips64el",
}

// Runner runs a command and returns its combined output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Codename reads the distribution codename from an os-release file
func Codename(osRelease string) (string, error) {
	if osRelease == "" {
		osRelease = DefaultOSRelease
	}
	values, err := godotenv.Read(osRelease)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", osRelease, err)
	}

	for _, key := range []string{"VERSION_CODENAME", "UBUNTU_CODENAME"} {
		if codename := values[key]; codename != "" {
			return codename, nil
		}
	}
	return "", fmt.Errorf("no codename in %s", osRelease)
}

// Architecture returns the dpkg architecture of the host, falling back to
// the running binary's architecture when dpkg is unavailable.
func Architecture(ctx context.Context, run Runner) string {
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, "dpkg", "--print-architecture")
	if err == nil {
		if arch := strings.TrimSpace(string(out)); arch != "" {
			return arch
		}
	}
	logrus.Debugf("dpkg architecture unavailable (%v), using %s", err, runtime.GOARCH)
	return DebianArch(runtime.GOARCH)
}

// DebianArch converts a GOARCH value into a Debian architecture name
func DebianArch(goarch string) string {
	if arch, ok := goarchToDeb[goarch]; ok {
		return arch
	}
	return goarch
}

// Dpkg registers foreign architectures with dpkg
type Dpkg struct {
	Run Runner
}

// AddArchitecture runs dpkg --add-architecture for arch
func (d Dpkg) AddArchitecture(ctx context.Context, arch string) error {
	run := d.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, "dpkg", "--add-architecture", arch)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return &models.ArchitectureError{Arch: arch, Err: err}
	}
	return nil
}
