package sources

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ralt/aptsources/internal/models"
	"github.com/ralt/aptsources/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultSourcesDir is where apt reads deb-822 sources from
	DefaultSourcesDir = "/etc/apt/sources.list.d"

	// DefaultKeyringsDir is where repository keyrings are installed
	DefaultKeyringsDir = "/etc/apt/keyrings"
)

// KeyringResolver maps a signing key id to a keyring file path
type KeyringResolver interface {
	KeyringPath(keyID, baseDir string) string
}

// KeyInstaller installs a repository key file as a keyring
type KeyInstaller interface {
	InstallFile(keyPath, keyID, baseDir string) (bool, error)
}

// PPAResolver parses PPA shorthand and looks up its signing key
type PPAResolver interface {
	Split(ppa string) (owner, name string, err error)
	SigningKey(ctx context.Context, ppa string) (string, error)
}

// CloudChecker validates a cloud archive release against the host codename
type CloudChecker interface {
	CheckCompatible(ctx context.Context, codename, cloud, pocket string) error
}

// ArchRegistrar enables a foreign architecture on the host
type ArchRegistrar interface {
	AddArchitecture(ctx context.Context, arch string) error
}

// Host holds the host facts sources depend on
type Host struct {
	Codename     string
	Architecture string
}

// Config contains configuration for a Manager
type Config struct {
	SourcesDir  string
	KeyringsDir string
	Host        Host

	// DetectCollisions warns when two repositories of a batch write the same file
	DetectCollisions bool
}

// Resolvers groups the collaborators a Manager delegates to
type Resolvers struct {
	Keyrings KeyringResolver
	Keys     KeyInstaller // Optional, nil leaves key files alone
	PPAs     PPAResolver
	Clouds   CloudChecker
	Arches   ArchRegistrar
}

// Manager installs deb-822 sources files for package repositories
type Manager struct {
	cfg Config
	res Resolvers
}

// NewManager creates a new sources manager
func NewManager(cfg Config, res Resolvers) *Manager {
	if cfg.SourcesDir == "" {
		cfg.SourcesDir = DefaultSourcesDir
	}
	if cfg.KeyringsDir == "" {
		cfg.KeyringsDir = DefaultKeyringsDir
	}
	return &Manager{cfg: cfg, res: res}
}

// Path returns the sources file path for a source
func (m *Manager) Path(src *Source) string {
	return filepath.Join(m.cfg.SourcesDir, FileName(src.Name))
}

// InstallAll installs repos in order, stopping at the first error, which is
// returned as a *models.AptSourcesError naming the failed repository.
// Returns true if any sources file or keyring changed.
func (m *Manager) InstallAll(ctx context.Context, repos []models.Repository) (bool, error) {
	written := make(map[string]string)
	anyChanged := false

	for _, repo := range repos {
		res, err := m.resolve(ctx, repo, true)
		if err != nil {
			return anyChanged, wrap(repo, err)
		}
		anyChanged = anyChanged || res.keyChanged

		if m.cfg.DetectCollisions {
			fileName := FileName(res.source.Name)
			if prev, ok := written[fileName]; ok {
				logrus.Warnf("%s overwrites sources %s written for %s", repo, fileName, prev)
			}
			written[fileName] = repo.String()
		}

		changed, err := m.apply(ctx, res)
		if err != nil {
			return anyChanged, wrap(repo, err)
		}
		anyChanged = anyChanged || changed
	}

	return anyChanged, nil
}

func wrap(repo models.Repository, err error) error {
	return &models.AptSourcesError{Type: models.Classify(err), Repository: repo.String(), Err: err}
}

// Install installs the keyring and sources file for a single repository.
// Returns true if either changed.
func (m *Manager) Install(ctx context.Context, repo models.Repository) (bool, error) {
	res, err := m.resolve(ctx, repo, true)
	if err != nil {
		return false, err
	}
	changed, err := m.apply(ctx, res)
	return changed || res.keyChanged, err
}

// Source returns the canonical source for a repository without writing it
func (m *Manager) Source(ctx context.Context, repo models.Repository) (*Source, error) {
	res, err := m.resolve(ctx, repo, false)
	if err != nil {
		return nil, err
	}
	return res.source, nil
}

func (m *Manager) resolve(ctx context.Context, repo models.Repository, installKeys bool) (*canonicalizer, error) {
	logrus.Debugf("Processing repo: %s", repo)

	c := &canonicalizer{ctx: ctx, m: m, installKeys: installKeys}
	if err := models.Visit(repo, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Manager) apply(ctx context.Context, c *canonicalizer) (bool, error) {
	changed, err := syncFile(m.cfg.SourcesDir, c.source.Name, c.source.Deb822())
	if err != nil {
		return false, err
	}

	if changed && len(c.foreignArches) > 0 {
		if err := m.addArchitectures(ctx, c.foreignArches); err != nil {
			return false, err
		}
	}
	return changed, nil
}

func (m *Manager) addArchitectures(ctx context.Context, arches []string) error {
	for _, arch := range arches {
		logrus.Infof("Add repository architecture: %s", arch)
		if err := m.res.Arches.AddArchitecture(ctx, arch); err != nil {
			return err
		}
	}
	return nil
}

// keyringPath resolves the absolute keyring path for keyID and requires it to
// be a regular file
func (m *Manager) keyringPath(keyID string) (string, error) {
	path, err := filepath.Abs(m.res.Keyrings.KeyringPath(keyID, m.cfg.KeyringsDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve keyring path: %w", err)
	}
	if !utils.IsRegularFile(path) {
		return "", &models.KeyringError{Path: path}
	}
	return path, nil
}

// installKey installs the keyring for an archive that ships its key file
func (m *Manager) installKey(repo *models.AptRepository) (bool, error) {
	changed, err := m.res.Keys.InstallFile(repo.KeyFile, repo.KeyID, m.cfg.KeyringsDir)
	if err != nil {
		return false, &models.KeyringError{Path: m.res.Keyrings.KeyringPath(repo.KeyID, m.cfg.KeyringsDir), Err: err}
	}
	return changed, nil
}

// canonicalizer turns each repository variant into a Source
type canonicalizer struct {
	ctx         context.Context
	m           *Manager
	installKeys bool

	source        *Source
	foreignArches []string // Explicitly declared architectures to register
	keyChanged    bool
}

var _ models.Visitor = (*canonicalizer)(nil)

// VisitApt handles plain archive repositories.
//
// With no path, components or suites the repository is flat and the suite
// is "/". A path becomes the single suite, ending with "/".
func (c *canonicalizer) VisitApt(repo *models.AptRepository) error {
	var suites, components []string
	switch {
	case repo.Path == "" && len(repo.Components) == 0 && len(repo.Suites) == 0:
		suites = []string{"/"}
	case repo.Path != "":
		path := repo.Path
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		suites = []string{path}
	case len(repo.Suites) > 0:
		suites = repo.Suites
		components = repo.Components
	default:
		panic(fmt.Sprintf("no suites or path for %s", repo))
	}

	if c.installKeys && repo.KeyFile != "" && c.m.res.Keys != nil {
		changed, err := c.m.installKey(repo)
		if err != nil {
			return err
		}
		c.keyChanged = changed
	}

	keyring, err := c.m.keyringPath(repo.KeyID)
	if err != nil {
		return err
	}

	formats := repo.Formats
	if len(formats) == 0 {
		formats = []string{"deb"}
	}
	arches := repo.Architectures
	if len(arches) == 0 {
		arches = []string{c.m.cfg.Host.Architecture}
	}

	c.source = &Source{
		Name:          repo.SourceName(),
		Formats:       formats,
		URL:           repo.URL,
		Suites:        suites,
		Components:    components,
		Architectures: arches,
		SignedBy:      keyring,
	}
	c.foreignArches = repo.Architectures
	return nil
}

// VisitPPA handles Launchpad PPAs
func (c *canonicalizer) VisitPPA(repo *models.PPARepository) error {
	owner, name, err := c.m.res.PPAs.Split(repo.PPA)
	if err != nil {
		return err
	}

	keyID, err := c.m.res.PPAs.SigningKey(c.ctx, repo.PPA)
	if err != nil {
		return err
	}
	keyring, err := c.m.keyringPath(keyID)
	if err != nil {
		return err
	}

	c.source = &Source{
		Name:          fmt.Sprintf("ppa-%s_%s", owner, name),
		Formats:       []string{"deb"},
		URL:           fmt.Sprintf("http://ppa.launchpad.net/%s/%s/ubuntu", owner, name),
		Suites:        []string{c.m.cfg.Host.Codename},
		Components:    []string{"main"},
		Architectures: []string{c.m.cfg.Host.Architecture},
		SignedBy:      keyring,
	}
	return nil
}

// VisitCloud handles Ubuntu Cloud Archive releases
func (c *canonicalizer) VisitCloud(repo *models.CloudRepository) error {
	codename := c.m.cfg.Host.Codename
	pocket := repo.PocketOrDefault()

	if err := c.m.res.Clouds.CheckCompatible(c.ctx, codename, repo.Cloud, pocket); err != nil {
		return err
	}

	keyring, err := c.m.keyringPath(models.CloudArchiveKeyID)
	if err != nil {
		return err
	}

	c.source = &Source{
		Name:          "cloud-" + repo.Cloud,
		Formats:       []string{"deb"},
		URL:           models.CloudArchiveURL,
		Suites:        []string{fmt.Sprintf("%s-%s/%s", codename, pocket, repo.Cloud)},
		Components:    []string{"main"},
		Architectures: []string{c.m.cfg.Host.Architecture},
		SignedBy:      keyring,
	}
	return nil
}
