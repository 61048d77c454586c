package main

import (
	"os"
	"strings"

	"doto/internal/cli"

	"github.com/google/uuid"
)

// isTodoID reports whether s looks like a generated todo id (a UUID).
func isTodoID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// rewriteDirectTodoLookupArgs turns `doto <todo-id>` into `doto todos show <todo-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (`doto --dir ... <todo-id>`), so the scan looks for the
// first positional token rather than argv[1].
func rewriteDirectTodoLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unrecognized flags are skipped without consuming a value.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--backend":   true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	// rewrite splices `todos show` in before argv[from:] after keeping argv[:keep].
	// A `--` separator is dropped: cobra stops resolving subcommands at it.
	rewrite := func(keep, from int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:keep]...)
		out = append(out, "todos", "show")
		return append(out, argv[from:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isTodoID(argv[i+1]) {
				return rewrite(i, i+1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			switch {
			case strings.Contains(a, "="), boolFlags[a]:
			case valueFlags[a]:
				i++
			}
			continue
		}

		if isTodoID(a) {
			return rewrite(i, i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectTodoLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
