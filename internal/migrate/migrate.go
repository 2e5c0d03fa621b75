package migrate

import (
	"errors"
	"log/slog"

	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
	"github.com/leefowlercu/graphiti-claude-integration/internal/layout"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/leefowlercu/graphiti-claude-integration/pkg/types"
)

// Result reports what a migration moved
type Result struct {
	Moved    int
	Outcomes []types.Outcome
}

// Migrator relocates files left in the unscoped legacy layout
type Migrator struct {
	fs     *fsutil.FileSystem
	ictx   layout.InstallContext
	logger *slog.Logger
}

// New creates a migrator for an install context
func New(fs *fsutil.FileSystem, ictx layout.InstallContext, logger *slog.Logger) *Migrator {
	return &Migrator{fs: fs, ictx: ictx, logger: logger}
}

type candidate struct {
	kind   types.OutcomeKind
	name   string
	legacy string
	target string
}

func (m *Migrator) candidates() []candidate {
	var out []candidate

	for _, h := range manifest.Hooks() {
		out = append(out, candidate{
			kind:   types.KindHook,
			name:   h.File,
			legacy: m.ictx.LegacyHookPath(h),
			target: m.ictx.HookPath(h),
		})
	}

	for _, rule := range manifest.Rules() {
		out = append(out, candidate{
			kind:   types.KindRule,
			name:   rule,
			legacy: m.ictx.LegacyRulePath(rule),
			target: m.ictx.RulePath(rule),
		})
	}

	for _, lib := range manifest.SharedLibrary() {
		out = append(out, candidate{
			kind:   types.KindLibrary,
			name:   lib,
			legacy: m.ictx.LegacyLibPath(lib),
			target: m.ictx.LibPath(lib),
		})
	}

	return out
}

// Migrate moves every legacy file into the package-scoped layout. A file
// whose new copy landed counts as moved even if the legacy copy could not be
// deleted afterwards.
func (m *Migrator) Migrate() Result {
	var result Result

	for _, c := range m.candidates() {
		if !m.fs.Exists(c.legacy) {
			continue
		}

		outcome := types.Outcome{
			Kind:   types.KindMigration,
			Name:   c.name,
			Path:   c.target,
			Legacy: true,
		}

		err := m.fs.Move(c.legacy, c.target)
		switch {
		case err == nil:
			outcome.Success = true
			outcome.Message = "Migrated: " + c.name
			result.Moved++
		case errors.Is(err, fsutil.ErrSourceRemains):
			outcome.Success = true
			outcome.Message = "Migrated: " + c.name + " (legacy copy left behind)"
			result.Moved++
			m.logger.Warn("legacy file could not be removed after migration",
				"kind", c.kind,
				"path", c.legacy,
				"error", err)
		default:
			outcome.Error = err
			outcome.Message = "Failed to migrate " + c.name
			m.logger.Error("failed to migrate legacy file",
				"kind", c.kind,
				"from", c.legacy,
				"to", c.target,
				"error", err)
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result
}
