package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"doto/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Checksummed state snapshots (zstd-compressed CBOR)",
	}
	cmd.AddCommand(newBackupCreateCmd(app))
	cmd.AddCommand(newBackupRestoreCmd(app))
	return cmd
}

func newBackupCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <file>",
		Short: "Write a snapshot of the current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			st := cs.Snapshot()

			var buf bytes.Buffer
			if err := store.WriteSnapshot(&buf, st); err != nil {
				return writeErr(cmd, err)
			}
			path := args[0]
			if dir := filepath.Dir(path); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("snapshot written", "path", path, "bytes", buf.Len())
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":       path,
				"bytes":      buf.Len(),
				"categories": len(st.Categories),
				"todos":      len(st.Todos),
			}})
		},
	}
}

func newBackupRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the state with a snapshot (verifies the checksum first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			defer f.Close()

			st, err := store.ReadSnapshot(f)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("restore %s: %w", args[0], err))
			}
			if err := replaceState(cmd, app, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}
}
