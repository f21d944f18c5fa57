package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrKeyring ErrorType = iota
	ErrPPA
	ErrCloud
	ErrArchitecture
	ErrFileOp
	ErrInvalidConfig
	ErrRemote
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrKeyring:
		return "Keyring"
	case ErrPPA:
		return "PPA"
	case ErrCloud:
		return "Cloud"
	case ErrArchitecture:
		return "Architecture"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrRemote:
		return "Remote"
	default:
		return "Unknown"
	}
}

// AptSourcesError represents an error while installing a repository
type AptSourcesError struct {
	Type       ErrorType
	Repository string
	Err        error
}

// Error implements the error interface
func (e *AptSourcesError) Error() string {
	if e.Repository != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Repository, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *AptSourcesError) Unwrap() error {
	return e.Err
}

// KeyringError is returned when a resolved keyring is not a regular file,
// or when installing it from a key file failed.
type KeyringError struct {
	Path string
	Err  error
}

func (e *KeyringError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Failed to install GPG keyring at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("Failed to find GPG keyring at %s", e.Path)
}

func (e *KeyringError) Unwrap() error {
	return e.Err
}

// PPAError is returned when a PPA cannot be parsed or looked up.
type PPAError struct {
	PPA    string
	Reason string
}

func (e *PPAError) Error() string {
	return fmt.Sprintf("Failed to install PPA '%s': %s", e.PPA, e.Reason)
}

// CloudError is returned when a cloud archive release does not exist for
// the host codename.
type CloudError struct {
	Cloud    string
	Pocket   string
	Codename string
}

func (e *CloudError) Error() string {
	return fmt.Sprintf("Failed to install UCA '%s/%s': not a valid release for '%s'", e.Cloud, e.Pocket, e.Codename)
}

// ArchitectureError wraps a failure to register a foreign architecture.
type ArchitectureError struct {
	Arch string
	Err  error
}

func (e *ArchitectureError) Error() string {
	return fmt.Sprintf("failed to add architecture %s: %v", e.Arch, e.Err)
}

func (e *ArchitectureError) Unwrap() error {
	return e.Err
}

// RemoteError is returned when a remote lookup fails for reasons other than
// the resource being absent.
type RemoteError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed: status=%d", e.URL, e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Classify maps a domain error onto its ErrorType.
func Classify(err error) ErrorType {
	switch err.(type) {
	case *KeyringError:
		return ErrKeyring
	case *PPAError:
		return ErrPPA
	case *CloudError:
		return ErrCloud
	case *ArchitectureError:
		return ErrArchitecture
	case *ValidationError:
		return ErrInvalidConfig
	case *RemoteError:
		return ErrRemote
	default:
		return ErrFileOp
	}
}
