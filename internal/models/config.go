package models

// InstallConfig contains configuration for installing repository sources
type InstallConfig struct {
	// Input
	ConfigPath string

	// Output
	SourcesDir  string
	KeyringsDir string

	// Host facts, detected when empty
	Codename     string
	Architecture string
	OSRelease    string

	// Remote services
	LaunchpadURL    string
	CloudArchiveURL string

	// Warn when two repositories write the same sources file
	DetectCollisions bool
}
