package corelib

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
)

// ErrNotFound reports that the shared library provider could not be located
var ErrNotFound = errors.New(manifest.CoreProvider + " not found")

// Resolver locates the package that supplies the shared hook library
type Resolver struct {
	fs         *fsutil.FileSystem
	configured string
	searchFrom string
}

// NewResolver creates a resolver. A configured directory wins; otherwise
// the search starts at searchFrom and walks towards the filesystem root.
func NewResolver(fs *fsutil.FileSystem, configured, searchFrom string) *Resolver {
	return &Resolver{fs: fs, configured: configured, searchFrom: searchFrom}
}

// Resolve returns the provider's root directory
func (r *Resolver) Resolve() (string, error) {
	if r.configured != "" {
		isDir, err := r.fs.IsDir(r.configured)
		if err != nil {
			return "", fmt.Errorf("failed to inspect %s; %w", r.configured, err)
		}
		if !isDir {
			return "", fmt.Errorf("%w: configured directory %s does not exist", ErrNotFound, r.configured)
		}
		return r.configured, nil
	}

	if r.searchFrom == "" {
		return "", ErrNotFound
	}

	dir := filepath.Clean(r.searchFrom)
	for {
		for _, candidate := range []string{
			filepath.Join(dir, "node_modules", manifest.CoreProvider),
			filepath.Join(filepath.Dir(dir), manifest.CoreProvider),
		} {
			if r.fs.Exists(filepath.Join(candidate, "package.json")) {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: searched upwards from %s", ErrNotFound, r.searchFrom)
}

// LibraryPath returns where a shared library file lives inside the provider
func LibraryPath(providerDir, name string) string {
	return filepath.Join(providerDir, "lib", name)
}
