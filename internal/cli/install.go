package cli

import (
	"context"
	"fmt"

	"github.com/ralt/aptsources/internal/config"
	"github.com/ralt/aptsources/internal/host"
	"github.com/ralt/aptsources/internal/keyring"
	"github.com/ralt/aptsources/internal/models"
	"github.com/ralt/aptsources/internal/ppa"
	"github.com/ralt/aptsources/internal/sources"
	"github.com/ralt/aptsources/internal/uca"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command
func NewInstallCmd(cfg *models.InstallConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install sources files for the configured repositories",
		Long: `Installs repository keyrings from key files, writes a deb-822
sources file for every configured repository and registers foreign
architectures declared by changed repositories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := runInstall(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "changed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "unchanged")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cfg.DetectCollisions, "detect-collisions", false, "Warn when repositories write the same sources file")

	return cmd
}

func runInstall(ctx context.Context, cfg *models.InstallConfig) (bool, error) {
	logrus.Infof("Loading repositories from %s", cfg.ConfigPath)
	repos, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return false, &models.AptSourcesError{Type: models.ErrInvalidConfig, Err: err}
	}
	logrus.Infof("Found %d repositories", len(repos))

	mgr, err := newManager(ctx, cfg)
	if err != nil {
		return false, err
	}

	return mgr.InstallAll(ctx, repos)
}

func newManager(ctx context.Context, cfg *models.InstallConfig) (*sources.Manager, error) {
	codename := cfg.Codename
	if codename == "" {
		var err error
		codename, err = host.Codename(cfg.OSRelease)
		if err != nil {
			return nil, &models.AptSourcesError{Type: models.ErrInvalidConfig, Err: err}
		}
	}

	arch := cfg.Architecture
	if arch == "" {
		arch = host.Architecture(ctx, host.ExecRunner)
	}
	logrus.Debugf("Host codename %s, architecture %s", codename, arch)

	return sources.NewManager(sources.Config{
		SourcesDir:       cfg.SourcesDir,
		KeyringsDir:      cfg.KeyringsDir,
		Host:             sources.Host{Codename: codename, Architecture: arch},
		DetectCollisions: cfg.DetectCollisions,
	}, sources.Resolvers{
		Keyrings: keyring.Resolver{},
		Keys:     keyring.Resolver{},
		PPAs:     ppa.NewLaunchpad(cfg.LaunchpadURL),
		Clouds:   uca.NewChecker(cfg.CloudArchiveURL),
		Arches:   host.Dpkg{Run: host.ExecRunner},
	}), nil
}
