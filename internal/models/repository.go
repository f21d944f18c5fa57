package models

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// CloudArchiveURL is the Ubuntu Cloud Archive base URL
	CloudArchiveURL = "http://ubuntu-cloud.archive.canonical.com/ubuntu"

	// CloudArchiveKeyID signs every release of the Ubuntu Cloud Archive
	CloudArchiveKeyID = "391A9AA2147192839E9DB0315EDB1B62EC4926EA"

	PocketUpdates  = "updates"
	PocketProposed = "proposed"
)

// nonWord matches runs of non-word characters, Unicode aware
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Repository is a declarative package repository. It is one of
// *AptRepository, *PPARepository or *CloudRepository.
type Repository interface {
	// Validate checks the repository fields for consistency
	Validate() error

	// String identifies the repository in logs and errors
	String() string

	accept(v Visitor) error
}

// Visitor handles each repository variant. Adding a variant adds a method
// here, so every implementation has to handle it.
type Visitor interface {
	VisitApt(repo *AptRepository) error
	VisitPPA(repo *PPARepository) error
	VisitCloud(repo *CloudRepository) error
}

// Visit dispatches repo to the matching Visitor method.
func Visit(repo Repository, v Visitor) error {
	if repo == nil {
		panic("unhandled package repository: <nil>")
	}
	return repo.accept(v)
}

// AptRepository is a plain archive URL with explicit suites or path
type AptRepository struct {
	Name          string   // Optional, derived from URL when empty
	URL           string   // Archive base URL
	KeyID         string   // Signing key fingerprint
	KeyFile       string   // Optional key file to install into the keyrings dir
	Suites        []string // e.g. jammy, jammy-updates
	Components    []string // main, contrib, etc.
	Formats       []string // deb, deb-src
	Architectures []string // Explicit architectures, registered with dpkg
	Path          string   // Exact path, mutually exclusive with suites
}

// SourceName returns the logical name used to derive the sources filename.
func (r *AptRepository) SourceName() string {
	if r.Name != "" {
		return r.Name
	}
	return nonWord.ReplaceAllString(r.URL, "_")
}

func (r *AptRepository) String() string {
	return fmt.Sprintf("apt(%s)", r.URL)
}

// Validate implements Repository
func (r *AptRepository) Validate() error {
	if r.URL == "" {
		return &ValidationError{Repository: r.String(), Reason: "url is required"}
	}
	if r.KeyID == "" {
		return &ValidationError{Repository: r.String(), Reason: "key-id is required"}
	}
	if r.Path != "" && (len(r.Suites) > 0 || len(r.Components) > 0) {
		return &ValidationError{Repository: r.String(), Reason: "path cannot be combined with suites or components"}
	}
	if len(r.Components) > 0 && len(r.Suites) == 0 {
		return &ValidationError{Repository: r.String(), Reason: "components require suites"}
	}
	for _, suite := range r.Suites {
		if strings.HasSuffix(suite, "/") && len(r.Components) > 0 {
			return &ValidationError{Repository: r.String(), Reason: fmt.Sprintf("suite %q ends with '/' and cannot have components", suite)}
		}
	}
	for _, format := range r.Formats {
		if format != "deb" && format != "deb-src" {
			return &ValidationError{Repository: r.String(), Reason: fmt.Sprintf("invalid format %q", format)}
		}
	}
	return nil
}

func (r *AptRepository) accept(v Visitor) error {
	return v.VisitApt(r)
}

// PPARepository is a Launchpad PPA in owner/name form
type PPARepository struct {
	PPA string
}

func (r *PPARepository) String() string {
	return fmt.Sprintf("ppa(%s)", r.PPA)
}

// Validate implements Repository
func (r *PPARepository) Validate() error {
	if r.PPA == "" {
		return &ValidationError{Repository: r.String(), Reason: "ppa is required"}
	}
	return nil
}

func (r *PPARepository) accept(v Visitor) error {
	return v.VisitPPA(r)
}

// CloudRepository is an Ubuntu Cloud Archive release
type CloudRepository struct {
	Cloud  string
	Pocket string
}

func (r *CloudRepository) String() string {
	return fmt.Sprintf("cloud(%s/%s)", r.Cloud, r.PocketOrDefault())
}

// PocketOrDefault returns the pocket, defaulting to updates.
func (r *CloudRepository) PocketOrDefault() string {
	if r.Pocket == "" {
		return PocketUpdates
	}
	return r.Pocket
}

// Validate implements Repository
func (r *CloudRepository) Validate() error {
	if r.Cloud == "" {
		return &ValidationError{Repository: r.String(), Reason: "cloud is required"}
	}
	switch r.PocketOrDefault() {
	case PocketUpdates, PocketProposed:
		return nil
	default:
		return &ValidationError{Repository: r.String(), Reason: fmt.Sprintf("invalid pocket %q", r.Pocket)}
	}
}

func (r *CloudRepository) accept(v Visitor) error {
	return v.VisitCloud(r)
}

// ValidationError reports an inconsistent repository definition.
type ValidationError struct {
	Repository string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid repository %s: %s", e.Repository, e.Reason)
}
