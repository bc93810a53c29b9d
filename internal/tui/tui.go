package tui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is an interactive terminal. Commands fall
// back to plain output when it is not.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
