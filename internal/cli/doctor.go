package cli

import (
	"doto/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the persisted state for dangling references and bad values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			report := store.Doctor(cs.Snapshot())
			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
				},
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
