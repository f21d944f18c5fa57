package utils

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
)

// ReadIfExists returns the file content, or nil and false when there is no
// regular file at path.
func ReadIfExists(path string) ([]byte, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !info.Mode().IsRegular() {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// IsRegularFile reports whether path exists and is a regular file
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// WriteFileIfChanged writes data to path unless the file already holds exactly
// data. The parent directory must exist. Returns true if the file was written.
func WriteFileIfChanged(path string, data []byte, perm os.FileMode) (bool, error) {
	existing, ok, err := ReadIfExists(path)
	if err != nil {
		return false, err
	}
	if ok && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return false, err
	}
	return true, nil
}
