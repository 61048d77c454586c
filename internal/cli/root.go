package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"doto/internal/categories"
	"doto/internal/format"
	"doto/internal/store"
	"doto/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Backend    string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg    *store.Config
	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "doto",
		Short:        "doto: colored todo lists (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  doto

  # Scriptable commands
  doto categories add --name Fun --color blue
  doto categories next
  doto todos add buy milk

  # Direct todo lookup (shortcut for: doto todos show <todo-id>)
  doto 0b6c3c1e-3f0e-4b8e-9a52-4d8f3f7f2a10
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure(cmd.ErrOrStderr())
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DOTO_DIR", ""), "Path to store dir (default: nearest .doto/ upward from cwd, else ~/.doto)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (sqlite|file|redis); overrides config.toml and DOTO_BACKEND")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DOTO_FORMAT", "json"), "Output format (json|edn|yaml)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newStateCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newTodosCmd(app))
	cmd.AddCommand(newColorsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// configure resolves config, logger and store dir. Precedence: flags > env > config.toml.
func (app *App) configure(stderr io.Writer) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if app.Backend != "" {
		cfg.Storage.Backend = app.Backend
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	app.cfg = cfg

	app.logger = newLogger(stderr, cfg.Log.Level)

	if app.Dir == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return err
		}
		app.Dir = dir
	}
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	cs, s, closeFn, err := openStore(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeFn()
	return tui.Run(cs, s, app.logger)
}

// openStore opens the configured backend and rehydrates the category store from it.
func openStore(cmd *cobra.Command, app *App) (*categories.Store, store.Store, func(), error) {
	s, b, err := openBackend(app)
	if err != nil {
		return nil, s, func() {}, err
	}
	closeFn := func() { _ = b.Close() }
	cs, err := categories.Open(cmd.Context(), b, categories.WithLogger(app.logger))
	if err != nil {
		closeFn()
		return nil, s, func() {}, err
	}
	return cs, s, closeFn, nil
}

func openBackend(app *App) (store.Store, store.Backend, error) {
	s := store.Store{Dir: app.Dir}
	b, err := s.Backend(app.cfg.Storage, app.logger)
	if err != nil {
		return s, nil, err
	}
	return s, b, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
