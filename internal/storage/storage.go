package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath = errors.New("invalid storage path")
	ErrNotFound    = errors.New("file not found in storage")
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores the stream at the given path. It returns only once every
	// byte has been durably written.
	Save(ctx context.Context, path string, r io.Reader) error

	// Delete removes a file at the given path
	Delete(ctx context.Context, path string) error

	// URL returns the URL for accessing the file
	URL(path string) string
}

// cleanName accepts a bare file name only, so callers cannot escape the storage root.
func cleanName(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidPath
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", ErrInvalidPath
	}
	return name, nil
}
