// Package sys wraps the operating system services used to dispatch links.
package sys

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

var (
	ErrCopyToClipboard = errors.New("copy to clipboard")
	ErrOpenInBrowser   = errors.New("open in browser")
)

// Env retrieves an environment variable.
//
// If the environment variable is not set, returns the default value.
func Env(s, def string) string {
	if v, ok := os.LookupEnv(s); ok {
		return v
	}

	return def
}

// Opener dispatches a resolved URL.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// Browser opens URLs in the default web browser.
type Browser struct{}

func (Browser) Open(s string) error {
	if err := browser.OpenURL(s); err != nil {
		return fmt.Errorf("%w: %w", ErrOpenInBrowser, err)
	}

	slog.Debug("opened in browser", "url", s)

	return nil
}

// Clipboard copies URLs into the system clipboard.
type Clipboard struct{}

func (Clipboard) Open(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyToClipboard, err)
	}

	slog.Debug("text copied to clipboard", "text", s)

	return nil
}

// ErrAndExit logs the error and exits the program.
func ErrAndExit(err error) {
	if err == nil {
		return
	}

	slog.Error("exit", "error", err)
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
