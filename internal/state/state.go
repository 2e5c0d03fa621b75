package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Record is the persisted memory of what the last install registered
type Record struct {
	Installed    bool     `json:"installed"`
	HookCommands []string `json:"hook_commands"`
	InstalledAt  string   `json:"installed_at,omitempty"`
}

// Store reads and writes the installed-state record
type Store struct {
	fs     *fsutil.FileSystem
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a state store for the file at path
func NewStore(fs *fsutil.FileSystem, path string, logger *slog.Logger) *Store {
	return &Store{
		fs:     fs,
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to stamp records
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Read returns the persisted record. A missing or unparseable file yields an
// empty record so callers never remove more than they previously registered.
func (s *Store) Read() Record {
	empty := Record{Installed: false, HookCommands: []string{}}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read state file", "path", s.path, "error", err)
		}
		return empty
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("ignoring unparseable state file", "path", s.path, "error", err)
		return empty
	}

	if rec.HookCommands == nil {
		rec.HookCommands = []string{}
	}

	return rec
}

// Write stamps the record with the current time and persists it
func (s *Store) Write(rec Record) error {
	rec.InstalledAt = s.now().UTC().Format(TimestampFormat)
	if rec.HookCommands == nil {
		rec.HookCommands = []string{}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state; %w", err)
	}

	if err := s.fs.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state; %w", err)
	}

	s.logger.Debug("wrote state file", "path", s.path, "hook_commands", len(rec.HookCommands))
	return nil
}

// Delete removes the state file. Deleting an absent file is not an error.
func (s *Store) Delete() (bool, error) {
	return s.fs.Remove(s.path)
}

// Exists reports whether a state file is present
func (s *Store) Exists() bool {
	return s.fs.Exists(s.path)
}
