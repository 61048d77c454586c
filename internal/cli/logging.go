package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// newLogger returns a stderr logger; unknown levels fall back to info.
func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "doto",
		ReportTimestamp: lvl == log.DebugLevel,
	})
}
