package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ttyNeeds decides which ends of the TUI must go through /dev/tty. Input
// does whenever stdin is not a terminal: a piped document has already been
// read to EOF. Output does when stdout is captured, for example by
// `$(marko edit)`, so the printed buffer still reaches the caller.
func ttyNeeds(stdinTerm, stdoutTerm bool) (input, output bool) {
	return !stdinTerm, !stdoutTerm
}

func isCharDevice(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// getTTY returns file handles for the TUI.
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	needIn, needOut := ttyNeeds(isCharDevice(os.Stdin), isCharDevice(os.Stdout))
	in, out = os.Stdin, os.Stdout

	var closers []func()
	if needOut {
		if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
			out = f
			closers = append(closers, func() { _ = f.Close() })
		} else {
			out = os.Stderr
		}
		// Color detection follows the terminal, not the pipe.
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))
	}
	if needIn {
		if f, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0); err == nil {
			in = f
			closers = append(closers, func() { _ = f.Close() })
		}
	}

	return in, out, func() {
		for _, c := range closers {
			c()
		}
	}
}
