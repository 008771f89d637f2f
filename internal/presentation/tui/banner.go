package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the infrasim ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	// A cold-to-warm gradient, from idle hosts to a burning data center
	lines := []struct {
		text  string
		color string
	}{
		{"  _        __                _", "#38bdf8"},
		{" (_)_ __  / _|_ __ __ _ ___(_)_ __ ___", "#818cf8"},
		{" | | '_ \\| |_| '__/ _` / __| | '_ ` _ \\", "#a78bfa"},
		{" | | | | |  _| | | (_| \\__ \\ | | | | | |", "#e879f9"},
		{" |_|_| |_|_| |_|  \\__,_|___/_|_| |_| |_|", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
