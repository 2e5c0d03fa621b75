package settings

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
)

// Store loads and saves the host settings file
type Store struct {
	fs     *fsutil.FileSystem
	path   string
	logger *slog.Logger
}

// NewStore creates a settings store for the file at path
func NewStore(fs *fsutil.FileSystem, path string, logger *slog.Logger) *Store {
	return &Store{fs: fs, path: path, logger: logger}
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file is an empty document. An
// unreadable or unparseable file also degrades to an empty document; in the
// unparseable case the original is first copied aside to <path>.bak. Valid
// JSON with a malformed hooks structure is returned as is and refuses edits.
func (s *Store) Load() *Document {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read settings, starting fresh", "path", s.path, "error", err)
		}
		return New()
	}

	doc, err := Parse(data)
	if err != nil {
		backup := s.path + ".bak"
		if werr := s.fs.WriteFileAtomic(backup, data, 0644); werr != nil {
			s.logger.Error("failed to back up unparseable settings", "path", backup, "error", werr)
		}
		s.logger.Warn("ignoring unparseable settings, starting fresh",
			"path", s.path,
			"backup", backup,
			"error", err)
		return New()
	}

	return doc
}

// Save writes the document over the settings file
func (s *Store) Save(doc *Document) error {
	data, err := doc.Bytes()
	if err != nil {
		return err
	}

	if err := s.fs.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings; %w", err)
	}

	return nil
}

// Raw returns the settings file bytes, or nil when it does not exist
func (s *Store) Raw() ([]byte, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read settings; %w", err)
	}
	return data, nil
}
