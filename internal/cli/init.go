package cli

import (
	"doto/internal/model"
	"doto/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var saveConfig bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the store dir and persist the seed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, b, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			_, ok, err := b.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				if err := b.Save(cmd.Context(), model.SeedState()); err != nil {
					return writeErr(cmd, err)
				}
				app.logger.Info("seeded state", "dir", app.Dir, "backend", app.cfg.Storage.Backend)
			}

			if saveConfig {
				if err := store.SaveConfig(app.cfg); err != nil {
					return writeErr(cmd, err)
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":     app.Dir,
					"backend": app.cfg.Storage.Backend,
					"seeded":  !ok,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&saveConfig, "save-config", false, "Write the effective storage/log settings to config.toml")
	return cmd
}
