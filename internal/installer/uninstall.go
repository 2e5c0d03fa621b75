package installer

import (
	"fmt"
	"time"

	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/leefowlercu/graphiti-claude-integration/internal/report"
	"github.com/leefowlercu/graphiti-claude-integration/internal/state"
	"github.com/leefowlercu/graphiti-claude-integration/pkg/types"
)

// Uninstall removes installed files from both layouts and unregisters the
// hook commands recorded by the last install
func (i *Installer) Uninstall() (types.Summary, error) {
	start := time.Now()
	summary := types.Summary{Operation: string(OpUninstall)}

	if err := i.Validate(OpUninstall); err != nil {
		return summary, err
	}

	i.logger.Info("starting uninstall", "target", i.ictx.ClaudeDir)
	i.printer.Info("Uninstalling Graphiti integration...")

	for _, h := range manifest.Hooks() {
		i.removeAsset(&summary, types.KindHook, h.File, i.ictx.HookPath(h), false)
		i.removeAsset(&summary, types.KindHook, h.File, i.ictx.LegacyHookPath(h), true)
	}

	for _, rule := range manifest.Rules() {
		i.removeAsset(&summary, types.KindRule, rule, i.ictx.RulePath(rule), false)
		i.removeAsset(&summary, types.KindRule, rule, i.ictx.LegacyRulePath(rule), true)
	}

	for _, lib := range manifest.SharedLibrary() {
		i.removeAsset(&summary, types.KindLibrary, lib, i.ictx.LibPath(lib), false)
		i.removeAsset(&summary, types.KindLibrary, lib, i.ictx.LegacyLibPath(lib), true)
	}

	previous := i.state.Read()
	if i.updateSettings(&summary, previous.HookCommands, nil) {
		i.removeState(&summary)
	} else if len(previous.HookCommands) > 0 {
		// keep the record so a later uninstall can still find the registrations
		if err := i.state.Write(state.Record{Installed: false, HookCommands: previous.HookCommands}); err != nil {
			i.record(&summary, types.Outcome{
				Kind:    types.KindState,
				Name:    "state file",
				Path:    i.state.Path(),
				Message: "Failed to write state file",
				Error:   err,
			})
		}
	}

	summary.Duration = time.Since(start)
	i.logger.Info("uninstall finished",
		"removed", len(summary.Outcomes)-summary.Failed(),
		"failed", summary.Failed(),
		"duration", summary.Duration)

	fmt.Fprintln(i.printer.Out())
	i.printer.Info("%s", report.SummaryLine(summary))

	return summary, nil
}

// removeAsset deletes one file. Absent files are skipped silently.
func (i *Installer) removeAsset(summary *types.Summary, kind types.OutcomeKind, name, path string, legacy bool) {
	removed, err := i.fs.Remove(path)
	if err != nil {
		i.record(summary, types.Outcome{
			Kind:    kind,
			Name:    name,
			Path:    path,
			Legacy:  legacy,
			Message: "Failed to remove " + name,
			Error:   err,
		})
		return
	}
	if !removed {
		return
	}

	msg := "Removed: " + name
	if legacy {
		msg = "Removed (legacy): " + name
	}
	i.record(summary, types.Outcome{
		Kind:    kind,
		Name:    name,
		Path:    path,
		Legacy:  legacy,
		Success: true,
		Message: msg,
	})
}

func (i *Installer) removeState(summary *types.Summary) {
	removed, err := i.state.Delete()
	if err != nil {
		i.record(summary, types.Outcome{
			Kind:    types.KindState,
			Name:    "state file",
			Path:    i.state.Path(),
			Message: "Failed to remove state file",
			Error:   err,
		})
		return
	}
	if removed {
		i.record(summary, types.Outcome{
			Kind:    types.KindState,
			Name:    "state file",
			Path:    i.state.Path(),
			Success: true,
			Message: "Removed state file",
		})
	}
}
