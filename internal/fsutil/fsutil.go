package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrSourceRemains reports a move whose destination is complete but whose
// source could not be removed afterwards
var ErrSourceRemains = errors.New("source left in place after move")

// FileSystem provides the file primitives used by the installer on top of an afero.Fs
type FileSystem struct {
	fs afero.Fs
}

// New wraps an afero filesystem
func New(fs afero.Fs) *FileSystem {
	return &FileSystem{fs: fs}
}

// NewOS returns a FileSystem backed by the real operating system
func NewOS() *FileSystem {
	return New(afero.NewOsFs())
}

// lstat stats a path without following a trailing symlink when the backend allows it
func (f *FileSystem) lstat(path string) (os.FileInfo, error) {
	if lst, ok := f.fs.(afero.Lstater); ok {
		info, _, err := lst.LstatIfPossible(path)
		return info, err
	}
	return f.fs.Stat(path)
}

// Exists reports whether anything, including a dangling symlink, is present at path
func (f *FileSystem) Exists(path string) bool {
	_, err := f.lstat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory
func (f *FileSystem) IsDir(path string) (bool, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// EnsureDir creates a directory and any missing parents
func (f *FileSystem) EnsureDir(dir string) error {
	if err := f.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s; %w", dir, err)
	}
	return nil
}

// CopyFile copies src to dst, replacing whatever is at dst. An existing
// symlink at dst is removed rather than followed, so the link target is never
// overwritten. Python scripts are made executable.
func (f *FileSystem) CopyFile(src, dst string) error {
	if f.Exists(dst) {
		if err := f.fs.Remove(dst); err != nil {
			return fmt.Errorf("failed to replace %s; %w", dst, err)
		}
	}

	in, err := f.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s; %w", src, err)
	}
	defer in.Close()

	out, err := f.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s; %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s; %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s; %w", dst, err)
	}

	if strings.HasSuffix(dst, ".py") {
		if err := f.fs.Chmod(dst, 0755); err != nil {
			return fmt.Errorf("failed to make %s executable; %w", dst, err)
		}
	}

	return nil
}

// Remove deletes path if present. It returns false with no error when there
// was nothing to delete.
func (f *FileSystem) Remove(path string) (bool, error) {
	if !f.Exists(path) {
		return false, nil
	}
	if err := f.fs.Remove(path); err != nil {
		return false, fmt.Errorf("failed to delete %s; %w", path, err)
	}
	return true, nil
}

// Move relocates src to dst, creating dst's directory. A rename is tried
// first; across devices it falls back to copy then delete. If the copy lands
// but src cannot be deleted, the returned error wraps ErrSourceRemains.
func (f *FileSystem) Move(src, dst string) error {
	if err := f.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	if err := f.fs.Rename(src, dst); err == nil {
		return nil
	}

	if err := f.CopyFile(src, dst); err != nil {
		return err
	}

	if err := f.fs.Remove(src); err != nil {
		return fmt.Errorf("%w: %s; %v", ErrSourceRemains, src, err)
	}

	return nil
}

// ReadFile returns the contents of path
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it over path
func (f *FileSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := f.EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := afero.TempFile(f.fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file; %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = f.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file; %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file; %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file; %w", err)
	}

	if err := f.fs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file; %w", err)
	}

	if err := f.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s; %w", path, err)
	}

	success = true
	return nil
}

// CheckReadable verifies that a directory can be listed
func (f *FileSystem) CheckReadable(dir string) error {
	d, err := f.fs.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()

	if _, err := d.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// CheckWritable verifies that files can be created in dir by creating and
// removing a scratch file
func (f *FileSystem) CheckWritable(dir string) error {
	scratch, err := afero.TempFile(f.fs, dir, ".write-check-*")
	if err != nil {
		return err
	}
	name := scratch.Name()
	scratch.Close()
	return f.fs.Remove(name)
}
