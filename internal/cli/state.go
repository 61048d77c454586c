package cli

import (
	"doto/internal/model"
	"doto/internal/store"

	"github.com/spf13/cobra"
)

func newStateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the full state (categories, todos, active category)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			return writeOut(cmd, app, map[string]any{"data": cs.Snapshot()})
		},
	}
}

func newColorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "List the category color palette",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": model.Colors})
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":    path,
					"dir":     app.Dir,
					"storage": app.cfg.Storage,
					"log":     app.cfg.Log,
				},
			})
		},
	}
}
