package installer

import (
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/leefowlercu/graphiti-claude-integration/internal/settings"
	"github.com/leefowlercu/graphiti-claude-integration/pkg/types"
)

// Status inspects the target without modifying it
func (i *Installer) Status() (types.StatusReport, error) {
	report := types.StatusReport{
		Target: i.ictx.ClaudeDir,
		Files:  []types.FileStatus{},
	}

	if err := i.Validate(OpStatus); err != nil {
		return report, err
	}

	raw, err := i.settings.Raw()
	if err != nil {
		i.logger.Warn("failed to read settings file", "path", i.settings.Path(), "error", err)
	}

	full := true

	for _, h := range manifest.Hooks() {
		fs := i.fileStatus(types.KindHook, h.File, i.ictx.HookPath(h), i.ictx.LegacyHookPath(h))
		fs.Category = h.Category.Dir()
		if h.Category.HasMatchers() {
			fs.Matchers = settings.MatchersFor(raw, i.ictx.HookPath(h))
		}
		report.Files = append(report.Files, fs)
		full = full && fs.Installed
	}

	for _, rule := range manifest.Rules() {
		fs := i.fileStatus(types.KindRule, rule, i.ictx.RulePath(rule), i.ictx.LegacyRulePath(rule))
		report.Files = append(report.Files, fs)
		full = full && fs.Installed
	}

	report.SharedLibrary = true
	for _, lib := range manifest.SharedLibrary() {
		if !i.fs.Exists(i.ictx.LibPath(lib)) && !i.fs.Exists(i.ictx.LegacyLibPath(lib)) {
			report.SharedLibrary = false
		}
	}

	report.StateFile = i.state.Exists()

	commands := mergeCommands(i.ictx.HookCommands(), i.state.Read().HookCommands)
	report.Registrations = settings.CountRegistrations(raw, commands)

	report.FullyInstalled = full
	return report, nil
}

func (i *Installer) fileStatus(kind types.OutcomeKind, name, path, legacyPath string) types.FileStatus {
	current := i.fs.Exists(path)
	legacy := !current && i.fs.Exists(legacyPath)
	return types.FileStatus{
		Kind:      kind,
		Name:      name,
		Installed: current || legacy,
		Legacy:    legacy,
	}
}
