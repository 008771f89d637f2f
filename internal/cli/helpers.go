package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/infrasim/internal/logging"
)

// createLogger configures the application logger on w (stderr in the
// binary) so stdout stays a clean event stream.
func createLogger(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return logging.NewWithWriter(logging.ParseLevel(level), w)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func outputs(opts *RunOptions) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
}
