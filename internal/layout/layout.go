package layout

import (
	"path/filepath"

	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
)

// InstallContext bundles every path an operation touches so that nothing
// downstream reads the working directory on its own
type InstallContext struct {
	PackageName string

	RootDir   string
	ClaudeDir string
	HooksDir  string
	RulesDir  string

	// Pre-scoping layout, kept for migration, uninstall and status
	LegacyHooksDir string
	LegacyRulesDir string

	SettingsPath string
	StatePath    string

	SourceDir      string
	SourceHooksDir string
	SourceRulesDir string
}

// New computes the install context for a root directory and a package asset directory
func New(rootDir, sourceDir string) InstallContext {
	claudeDir := filepath.Join(rootDir, ".claude")
	pkg := manifest.PackageName

	return InstallContext{
		PackageName:    pkg,
		RootDir:        rootDir,
		ClaudeDir:      claudeDir,
		HooksDir:       filepath.Join(claudeDir, "hooks", pkg),
		RulesDir:       filepath.Join(claudeDir, "rules", pkg),
		LegacyHooksDir: filepath.Join(claudeDir, "hooks"),
		LegacyRulesDir: filepath.Join(claudeDir, "rules"),
		SettingsPath:   filepath.Join(claudeDir, "settings.json"),
		StatePath:      filepath.Join(claudeDir, pkg+"-state.json"),
		SourceDir:      sourceDir,
		SourceHooksDir: filepath.Join(sourceDir, "hooks"),
		SourceRulesDir: filepath.Join(sourceDir, "rules"),
	}
}

// CategoryDir returns the installed directory for a category
func (c InstallContext) CategoryDir(cat manifest.Category) string {
	return filepath.Join(c.HooksDir, cat.Dir())
}

// HookPath returns the installed path of a hook, which is also its registered command
func (c InstallContext) HookPath(h manifest.Hook) string {
	return filepath.Join(c.HooksDir, h.Category.Dir(), h.File)
}

func (c InstallContext) LegacyHookPath(h manifest.Hook) string {
	return filepath.Join(c.LegacyHooksDir, h.Category.Dir(), h.File)
}

func (c InstallContext) SourceHookPath(h manifest.Hook) string {
	return filepath.Join(c.SourceHooksDir, h.Category.Dir(), h.File)
}

func (c InstallContext) RulePath(name string) string {
	return filepath.Join(c.RulesDir, name)
}

func (c InstallContext) LegacyRulePath(name string) string {
	return filepath.Join(c.LegacyRulesDir, name)
}

func (c InstallContext) SourceRulePath(name string) string {
	return filepath.Join(c.SourceRulesDir, name)
}

// LibDir returns the directory holding the shared library inside the package hooks tree
func (c InstallContext) LibDir() string {
	return filepath.Join(c.HooksDir, "lib")
}

func (c InstallContext) LibPath(name string) string {
	return filepath.Join(c.LibDir(), name)
}

func (c InstallContext) LegacyLibPath(name string) string {
	return filepath.Join(c.LegacyHooksDir, "lib", name)
}

// HookCommands returns the command path of every declared hook in manifest order
func (c InstallContext) HookCommands() []string {
	hooks := manifest.Hooks()
	commands := make([]string, 0, len(hooks))
	for _, h := range hooks {
		commands = append(commands, c.HookPath(h))
	}
	return commands
}
