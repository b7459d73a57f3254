package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether stdin and stdout are both terminals, which
// the progress view and the unit picker need.
func IsInteractive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
