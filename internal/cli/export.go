package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"doto/internal/format"
	"doto/internal/model"
	"doto/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		out    string
		outFmt string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the raw state record (json|edn|yaml|cbor)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			st := cs.Snapshot()

			f := strings.ToLower(strings.TrimSpace(outFmt))
			if f == "" {
				f = app.Format
			}
			var buf bytes.Buffer
			if f == "cbor" {
				b, err := store.MarshalCBOR(st)
				if err != nil {
					return writeErr(cmd, err)
				}
				buf.Write(b)
			} else if err := format.Write(&buf, st, f, app.PrettyJSON); err != nil {
				return writeErr(cmd, err)
			}

			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": out, "format": f, "bytes": buf.Len()}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&outFmt, "as", "", "Export format (json|edn|yaml|cbor; default: --format)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var inFmt string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the state with an exported record (json/jsonc|yaml|cbor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			f := inFmt
			if f == "" {
				f = store.FormatFromPath(args[0])
			}
			st, err := store.DecodeState(b, f)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("import %s: %w", args[0], err))
			}
			if err := replaceState(cmd, app, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}

	cmd.Flags().StringVar(&inFmt, "as", "", "Input format (default: from file extension)")
	return cmd
}

// replaceState writes st as the whole record, bypassing the mutation operations.
func replaceState(cmd *cobra.Command, app *App, st model.State) error {
	_, b, err := openBackend(app)
	if err != nil {
		return err
	}
	defer b.Close()
	if err := b.Save(cmd.Context(), st); err != nil {
		return err
	}
	app.logger.Info("state replaced", "categories", len(st.Categories), "todos", len(st.Todos))
	return nil
}
