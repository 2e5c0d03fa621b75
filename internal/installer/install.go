package installer

import (
	"fmt"
	"time"

	"github.com/leefowlercu/graphiti-claude-integration/internal/corelib"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/leefowlercu/graphiti-claude-integration/internal/report"
	"github.com/leefowlercu/graphiti-claude-integration/internal/state"
	"github.com/leefowlercu/graphiti-claude-integration/pkg/types"
)

// Install copies hooks and rules into the target, registers the hooks in
// settings.json and records what was registered. Individual file failures
// are reported in the summary; only a failed environment check returns an
// error.
func (i *Installer) Install() (types.Summary, error) {
	start := time.Now()
	summary := types.Summary{Operation: string(OpInstall)}

	if err := i.Validate(OpInstall); err != nil {
		return summary, err
	}

	i.logger.Info("starting install",
		"target", i.ictx.ClaudeDir,
		"source", i.ictx.SourceDir)
	i.printer.Info("Installing Graphiti integration...")
	i.printer.Info("Target: %s", i.ictx.ClaudeDir)

	migration := i.migrator.Migrate()
	for _, o := range migration.Outcomes {
		i.record(&summary, o)
	}
	summary.Migrated = migration.Moved
	if migration.Moved > 0 {
		i.printer.Info("Migrated %d legacy files to new structure", migration.Moved)
	}

	i.installSharedLibrary(&summary)

	for _, cat := range manifest.Categories() {
		i.ensureDir(&summary, i.ictx.CategoryDir(cat))
	}
	i.ensureDir(&summary, i.ictx.RulesDir)

	commands := make([]string, 0, len(manifest.Hooks()))
	for _, h := range manifest.Hooks() {
		o := i.copyAsset(types.KindHook, h.File, i.ictx.SourceHookPath(h), i.ictx.HookPath(h), "Installed hook: "+h.File)
		i.record(&summary, o)
		if o.Success {
			commands = append(commands, i.ictx.HookPath(h))
		}
	}

	for _, rule := range manifest.Rules() {
		o := i.copyAsset(types.KindRule, rule, i.ictx.SourceRulePath(rule), i.ictx.RulePath(rule), "Installed rule: "+rule)
		i.record(&summary, o)
	}

	previous := i.state.Read()
	recorded := commands
	if !i.updateSettings(&summary, previous.HookCommands, commands) {
		// settings still carry the previous registrations
		recorded = mergeCommands(previous.HookCommands, commands)
	}

	if err := i.state.Write(state.Record{Installed: true, HookCommands: recorded}); err != nil {
		i.record(&summary, types.Outcome{
			Kind:    types.KindState,
			Name:    "state file",
			Path:    i.state.Path(),
			Message: "Failed to write state file",
			Error:   err,
		})
	}

	summary.Duration = time.Since(start)
	i.logger.Info("install finished",
		"hooks", len(commands),
		"migrated", summary.Migrated,
		"failed", summary.Failed(),
		"duration", summary.Duration)

	fmt.Fprintln(i.printer.Out())
	i.printer.Info("%s", report.SummaryLine(summary))

	return summary, nil
}

// installSharedLibrary copies the shared hook library from the core provider.
// A missing provider is reported but never stops the install.
func (i *Installer) installSharedLibrary(summary *types.Summary) {
	provider, err := i.core.Resolve()
	if err != nil {
		i.record(summary, types.Outcome{
			Kind:    types.KindLibrary,
			Name:    manifest.CoreProvider,
			Path:    i.ictx.LibDir(),
			Message: "Shared library not installed",
			Error:   err,
		})
		return
	}

	i.logger.Debug("resolved shared library provider", "path", provider)

	if !i.ensureDir(summary, i.ictx.LibDir()) {
		return
	}

	for _, lib := range manifest.SharedLibrary() {
		label := fmt.Sprintf("Installed lib: %s (from %s)", lib, manifest.CoreProvider)
		i.record(summary, i.copyAsset(types.KindLibrary, lib, corelib.LibraryPath(provider, lib), i.ictx.LibPath(lib), label))
	}
}

// copyAsset copies one packaged file into the target
func (i *Installer) copyAsset(kind types.OutcomeKind, name, src, dst, label string) types.Outcome {
	o := types.Outcome{Kind: kind, Name: name, Path: dst}

	if !i.fs.Exists(src) {
		o.Message = fmt.Sprintf("Source %s not found: %s", kind, name)
		o.Error = fmt.Errorf("missing %s", src)
		return o
	}

	if err := i.fs.CopyFile(src, dst); err != nil {
		o.Message = fmt.Sprintf("Failed to install %s: %s", kind, name)
		o.Error = err
		return o
	}

	o.Success = true
	o.Message = label
	return o
}

// ensureDir creates dir, recording a failure if it cannot
func (i *Installer) ensureDir(summary *types.Summary, dir string) bool {
	if err := i.fs.EnsureDir(dir); err != nil {
		i.record(summary, types.Outcome{
			Kind:    types.KindDirectory,
			Name:    dir,
			Path:    dir,
			Message: "Failed to create directory " + dir,
			Error:   err,
		})
		return false
	}
	return true
}
