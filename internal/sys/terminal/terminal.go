// Package terminal reports the state of the standard streams.
package terminal

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/mateconpizza/llyfrau/internal/sys"
)

// https://no-color.org
const noColorEnv string = "NO_COLOR"

// MaxWidth is the widest a rendered line is allowed to be.
var MaxWidth = 120

var ErrNotTTY = errors.New("not a terminal")

// NoColorEnv reports whether the NO_COLOR environment variable is set.
func NoColorEnv() bool {
	return sys.Env(noColorEnv, "") != ""
}

// IsPiped returns true if the input is piped.
func IsPiped() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) == 0
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the stdout width, capped at MaxWidth.
func Width() (int, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, ErrNotTTY
	}

	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0, fmt.Errorf("getting console width: %w", err)
	}

	return min(w, MaxWidth), nil
}
