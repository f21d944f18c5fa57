package cli

import (
	"github.com/ralt/aptsources/internal/host"
	"github.com/ralt/aptsources/internal/models"
	"github.com/ralt/aptsources/internal/ppa"
	"github.com/ralt/aptsources/internal/sources"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var config models.InstallConfig

	rootCmd := &cobra.Command{
		Use:   "aptsources",
		Short: "Configure apt package repository sources",
		Long: `Aptsources reads a declarative list of package repositories and
writes one deb-822 sources file per repository. Files are only rewritten
when their content changes, so repeated runs are no-ops.

Supported repository forms:
  - Plain archives (url, suites, components or an exact path)
  - Launchpad PPAs (owner/name)
  - Ubuntu Cloud Archive releases (cloud, pocket)`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", "repositories.yaml", "Repository configuration file")
	rootCmd.PersistentFlags().StringVar(&config.SourcesDir, "sources-dir", sources.DefaultSourcesDir, "Directory for deb-822 sources files")
	rootCmd.PersistentFlags().StringVar(&config.KeyringsDir, "keyrings-dir", sources.DefaultKeyringsDir, "Directory for repository keyrings")

	// Host facts
	rootCmd.PersistentFlags().StringVar(&config.Codename, "codename", "", "Distribution codename (default from os-release)")
	rootCmd.PersistentFlags().StringVar(&config.Architecture, "arch", "", "Host architecture (default from dpkg)")
	rootCmd.PersistentFlags().StringVar(&config.OSRelease, "os-release", host.DefaultOSRelease, "os-release file to read the codename from")

	// Remote services
	rootCmd.PersistentFlags().StringVar(&config.LaunchpadURL, "launchpad-url", ppa.DefaultAPIURL, "Launchpad API URL for PPA signing keys")
	rootCmd.PersistentFlags().StringVar(&config.CloudArchiveURL, "cloud-archive-url", models.CloudArchiveURL, "Ubuntu Cloud Archive URL for release checks")

	// Add subcommands
	rootCmd.AddCommand(NewInstallCmd(&config))
	rootCmd.AddCommand(NewRenderCmd(&config))

	return rootCmd
}
