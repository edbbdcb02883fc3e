package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsafePath = errors.New("path contains a directory traversal segment")
	ErrNotAFile   = errors.New("path is not a regular file")
)

// IsSafePath reports whether path is free of ".." segments.
func IsSafePath(path string) bool {
	for _, segment := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		if segment == ".." {
			return false
		}
	}
	return true
}

// ReadBodyFile reads a markdown file used as a task body.
func ReadBodyFile(path string) (string, error) {
	if !IsSafePath(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return strings.TrimRight(string(data), "\n"), nil
}
