package installer

import (
	"log/slog"
	"time"

	"github.com/leefowlercu/graphiti-claude-integration/internal/corelib"
	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
	"github.com/leefowlercu/graphiti-claude-integration/internal/layout"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/leefowlercu/graphiti-claude-integration/internal/migrate"
	"github.com/leefowlercu/graphiti-claude-integration/internal/report"
	"github.com/leefowlercu/graphiti-claude-integration/internal/settings"
	"github.com/leefowlercu/graphiti-claude-integration/internal/state"
	"github.com/leefowlercu/graphiti-claude-integration/pkg/types"
)

// Options configures an Installer
type Options struct {
	Context layout.InstallContext
	FS      *fsutil.FileSystem
	Core    *corelib.Resolver
	Printer *report.Printer
	Logger  *slog.Logger
	Now     func() time.Time // Clock for state timestamps, defaults to time.Now
}

// Installer orchestrates install, uninstall and status for one install context
type Installer struct {
	ictx     layout.InstallContext
	fs       *fsutil.FileSystem
	state    *state.Store
	settings *settings.Store
	engine   *settings.Engine
	migrator *migrate.Migrator
	core     *corelib.Resolver
	printer  *report.Printer
	logger   *slog.Logger
}

// New creates an installer from options
func New(opts Options) *Installer {
	core := opts.Core
	if core == nil {
		core = corelib.NewResolver(opts.FS, "", "")
	}

	stateStore := state.NewStore(opts.FS, opts.Context.StatePath, opts.Logger)
	if opts.Now != nil {
		stateStore.WithClock(opts.Now)
	}

	return &Installer{
		ictx:     opts.Context,
		fs:       opts.FS,
		state:    stateStore,
		settings: settings.NewStore(opts.FS, opts.Context.SettingsPath, opts.Logger),
		engine:   settings.NewEngine(buildPlan(opts.Context)),
		migrator: migrate.New(opts.FS, opts.Context, opts.Logger),
		core:     core,
		printer:  opts.Printer,
		logger:   opts.Logger,
	}
}

// buildPlan declares every hook command and where it is registered
func buildPlan(ictx layout.InstallContext) []settings.Registration {
	hooks := manifest.Hooks()
	plan := make([]settings.Registration, 0, len(hooks))
	for _, h := range hooks {
		plan = append(plan, settings.Registration{
			Category: h.Category,
			Command:  ictx.HookPath(h),
			Matchers: h.Matchers,
		})
	}
	return plan
}

// record adds an outcome to the summary and prints its line
func (i *Installer) record(summary *types.Summary, o types.Outcome) {
	summary.Add(o)
	if o.Success {
		i.printer.Info("%s", o.Message)
		return
	}
	i.printer.Error(o.Message, o.Error, "kind", o.Kind, "path", o.Path)
}

// updateSettings reconciles and saves the settings file, reporting whether
// the new registrations reached disk
func (i *Installer) updateSettings(summary *types.Summary, oldCommands, newCommands []string) bool {
	outcome := types.Outcome{
		Kind: types.KindSettings,
		Name: "settings.json",
		Path: i.settings.Path(),
	}

	doc := i.settings.Load()
	result, err := i.engine.Reconcile(doc, oldCommands, newCommands)
	if err != nil {
		outcome.Message = "Failed to update settings.json"
		outcome.Error = err
		i.record(summary, outcome)
		return false
	}

	if err := i.settings.Save(doc); err != nil {
		outcome.Message = "Failed to update settings.json"
		outcome.Error = err
		i.record(summary, outcome)
		return false
	}

	i.logger.Debug("reconciled settings",
		"path", i.settings.Path(),
		"removed", result.Removed,
		"added", result.Added)

	outcome.Success = true
	outcome.Message = "Updated settings.json"
	i.record(summary, outcome)
	return true
}

// mergeCommands returns a followed by the entries of b not already in a
func mergeCommands(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, c := range list {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
