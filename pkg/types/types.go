package types

import "time"

// OutcomeKind classifies what a file operation acted on
type OutcomeKind string

const (
	KindHook      OutcomeKind = "hook"
	KindRule      OutcomeKind = "rule"
	KindLibrary   OutcomeKind = "lib"
	KindSettings  OutcomeKind = "settings"
	KindState     OutcomeKind = "state"
	KindMigration OutcomeKind = "migration"
	KindDirectory OutcomeKind = "dir"
)

// Outcome represents the result of a single file operation
type Outcome struct {
	Kind    OutcomeKind // What was acted on
	Name    string      // File name shown to the user
	Path    string      // Path that was written or deleted
	Success bool        // Whether the operation succeeded
	Legacy  bool        // Whether the operation touched the legacy layout
	Message string      // User-facing line
	Error   error       // Error if the operation failed
}

// Summary accumulates outcomes for one install or uninstall run
type Summary struct {
	Operation string        // "install" or "uninstall"
	Outcomes  []Outcome     // Every recorded operation in order
	Migrated  int           // Legacy files moved before install
	Duration  time.Duration // Total time for the run
}

// Add records an outcome
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Counts returns the number of succeeded and failed outcomes of a kind
func (s Summary) Counts(kind OutcomeKind) (succeeded, failed int) {
	for _, o := range s.Outcomes {
		if o.Kind != kind {
			continue
		}
		if o.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// Failed returns the number of failed outcomes of any kind
func (s Summary) Failed() int {
	n := 0
	for _, o := range s.Outcomes {
		if !o.Success {
			n++
		}
	}
	return n
}

// FileStatus reports whether one managed file is present
type FileStatus struct {
	Kind      OutcomeKind `json:"kind"`
	Category  string      `json:"category,omitempty"`
	Name      string      `json:"name"`
	Installed bool        `json:"installed"`
	Legacy    bool        `json:"legacy"`             // Present only in the legacy layout
	Matchers  []string    `json:"matchers,omitempty"` // Tool matchers the hook is registered under
}

// StatusReport is the read-only view produced by the status command
type StatusReport struct {
	Target         string       `json:"target"`
	Files          []FileStatus `json:"files"`
	SharedLibrary  bool         `json:"shared_library"`
	StateFile      bool         `json:"state_file"`
	Registrations  int          `json:"registrations"`
	FullyInstalled bool         `json:"fully_installed"`
}
