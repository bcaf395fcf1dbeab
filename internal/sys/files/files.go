// Package files provides utilities for working with files/directories.
package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrFileExists   = errors.New("file already exists")
	ErrPathEmpty    = errors.New("path is empty")
)

// Exists checks if a file exists.
func Exists(s string) bool {
	_, err := os.Stat(s)
	return !os.IsNotExist(err)
}

// mkdir creates a new directory at the specified path.
func mkdir(s string) error {
	if s == "" {
		return ErrPathEmpty
	}

	if Exists(s) {
		return nil
	}

	slog.Debug("creating path", "path", s)

	if err := os.MkdirAll(s, DirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", s, err)
	}

	return nil
}

// MkdirAll creates all the given paths.
func MkdirAll(s ...string) error {
	for _, path := range s {
		if err := mkdir(path); err != nil {
			return err
		}
	}

	return nil
}

// EnsureSuffix appends the suffix when missing.
//
//	EnsureSuffix("links", ".db") => "links.db"
func EnsureSuffix(s, suffix string) string {
	if s == "" || strings.HasSuffix(s, suffix) {
		return s
	}

	return s + suffix
}

// WriteNew writes data to a new file, refusing to replace an existing one
// unless force is set.
func WriteNew(p string, data []byte, force bool) error {
	if Exists(p) && !force {
		return fmt.Errorf("%w: %q", ErrFileExists, p)
	}

	if err := MkdirAll(filepath.Dir(p)); err != nil {
		return err
	}

	if err := os.WriteFile(p, data, FilePerm); err != nil {
		return fmt.Errorf("writing %q: %w", p, err)
	}

	slog.Debug("file written", "path", p, "bytes", len(data))

	return nil
}
