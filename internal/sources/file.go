package sources

import (
	"path/filepath"

	"github.com/ralt/aptsources/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	// FilePrefix namespaces every sources file this tool owns
	FilePrefix = "aptsources-"

	// FileSuffix is the deb-822 sources extension understood by apt
	FileSuffix = ".sources"
)

// reserved names are written without the prefix
var reservedNames = map[string]bool{
	"default":          true,
	"default-security": true,
}

// FileName returns the sources filename for a logical source name
func FileName(name string) string {
	if !reservedNames[name] {
		name = FilePrefix + name
	}
	return name + FileSuffix
}

// syncFile writes content to dir/FileName(name) unless it already matches.
func syncFile(dir, name string, content []byte) (bool, error) {
	path := filepath.Join(dir, FileName(name))

	changed, err := utils.WriteFileIfChanged(path, content, 0644)
	if err != nil {
		return false, err
	}
	if !changed {
		logrus.Debugf("Ignoring unchanged sources: %s", path)
		return false, nil
	}

	logrus.Debugf("Installed sources: %s", path)
	return true, nil
}
