package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ralt/aptsources/internal/models"
	"gopkg.in/yaml.v3"
)

// File is the on-disk repository configuration
type File struct {
	Repositories []Entry `yaml:"repositories"`
}

// Entry is one repository as written in the configuration file. Which
// variant it describes depends on whether ppa, cloud or url is set.
type Entry struct {
	Type string `yaml:"type"`

	// PPA
	PPA string `yaml:"ppa"`

	// Cloud archive
	Cloud  string `yaml:"cloud"`
	Pocket string `yaml:"pocket"`

	// Plain archive
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url"`
	KeyID         string   `yaml:"key-id"`
	KeyFile       string   `yaml:"key-file"`
	Suites        []string `yaml:"suites"`
	Components    []string `yaml:"components"`
	Formats       []string `yaml:"formats"`
	Architectures []string `yaml:"architectures"`
	Path          string   `yaml:"path"`
}

func (e Entry) hasAptFields() bool {
	return e.URL != "" || e.KeyID != "" || e.KeyFile != "" || e.Name != "" || e.Path != "" ||
		len(e.Suites) > 0 || len(e.Components) > 0 || len(e.Formats) > 0 || len(e.Architectures) > 0
}

// Repository converts the entry into its repository variant
func (e Entry) Repository() (models.Repository, error) {
	if e.Type != "" && e.Type != "apt" {
		return nil, fmt.Errorf("unsupported repository type %q", e.Type)
	}

	switch {
	case e.PPA != "":
		if e.Cloud != "" || e.Pocket != "" || e.hasAptFields() {
			return nil, fmt.Errorf("ppa %q cannot be combined with other repository fields", e.PPA)
		}
		return &models.PPARepository{PPA: e.PPA}, nil
	case e.Cloud != "":
		if e.hasAptFields() {
			return nil, fmt.Errorf("cloud %q cannot be combined with other repository fields", e.Cloud)
		}
		return &models.CloudRepository{Cloud: e.Cloud, Pocket: e.Pocket}, nil
	case e.Pocket != "":
		return nil, errors.New("pocket requires cloud")
	default:
		return &models.AptRepository{
			Name:          e.Name,
			URL:           e.URL,
			KeyID:         e.KeyID,
			KeyFile:       e.KeyFile,
			Suites:        e.Suites,
			Components:    e.Components,
			Formats:       e.Formats,
			Architectures: e.Architectures,
			Path:          e.Path,
		}, nil
	}
}

// Load reads and validates the repository configuration at path. Relative
// key-file paths are resolved against the configuration directory.
func Load(path string) ([]models.Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening config: %w", err)
	}
	defer f.Close()

	repos, err := Decode(f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for _, repo := range repos {
		if apt, ok := repo.(*models.AptRepository); ok && apt.KeyFile != "" && !filepath.IsAbs(apt.KeyFile) {
			apt.KeyFile = filepath.Join(dir, apt.KeyFile)
		}
	}
	return repos, nil
}

// Decode reads and validates a repository configuration
func Decode(in io.Reader) ([]models.Repository, error) {
	var cfg File
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	repos := make([]models.Repository, 0, len(cfg.Repositories))
	for i, entry := range cfg.Repositories {
		repo, err := entry.Repository()
		if err != nil {
			return nil, &models.ValidationError{Repository: fmt.Sprintf("#%d", i+1), Reason: err.Error()}
		}
		if err := repo.Validate(); err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, nil
}
