package cli

import (
	"fmt"

	"github.com/ralt/aptsources/internal/config"
	"github.com/ralt/aptsources/internal/models"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command
func NewRenderCmd(cfg *models.InstallConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the sources files without writing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := config.Load(cfg.ConfigPath)
			if err != nil {
				return &models.AptSourcesError{Type: models.ErrInvalidConfig, Err: err}
			}

			mgr, err := newManager(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, repo := range repos {
				src, err := mgr.Source(cmd.Context(), repo)
				if err != nil {
					return &models.AptSourcesError{Type: models.Classify(err), Repository: repo.String(), Err: err}
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "# %s\n", mgr.Path(src))
				out.Write(src.Deb822())
			}
			return nil
		},
	}
}
