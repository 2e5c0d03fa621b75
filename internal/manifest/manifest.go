package manifest

import "fmt"

// PackageName scopes every installed path and names the state file
const PackageName = "graphiti-claude-integration"

// CoreProvider is the package that ships the shared hook library
const CoreProvider = "claude-hooks-core"

// Category is one of the host lifecycle events hooks are registered for
type Category int

const (
	SessionStart Category = iota
	UserPromptSubmit
	PreToolUse
)

// Categories returns every category in registration order
func Categories() []Category {
	return []Category{SessionStart, UserPromptSubmit, PreToolUse}
}

// Dir returns the directory segment used for the category on disk
func (c Category) Dir() string {
	switch c {
	case SessionStart:
		return "session-start"
	case UserPromptSubmit:
		return "user-prompt-submit"
	case PreToolUse:
		return "pre-tool-use"
	default:
		return fmt.Sprintf("category-%d", int(c))
	}
}

// SettingsKey returns the key the host uses for the category under "hooks"
func (c Category) SettingsKey() string {
	switch c {
	case SessionStart:
		return "SessionStart"
	case UserPromptSubmit:
		return "UserPromptSubmit"
	case PreToolUse:
		return "PreToolUse"
	default:
		return fmt.Sprintf("Category%d", int(c))
	}
}

// HasMatchers reports whether registrations in the category are scoped by a tool matcher
func (c Category) HasMatchers() bool {
	return c == PreToolUse
}

func (c Category) String() string {
	return c.Dir()
}

// Hook describes one hook file and, for PreToolUse, the matchers it registers under
type Hook struct {
	Category Category
	File     string
	Matchers []string
}

var hooks = []Hook{
	{Category: SessionStart, File: "graphiti-context-loader.py"},
	{Category: UserPromptSubmit, File: "session-reminder.py"},
	{
		Category: PreToolUse,
		File:     "graphiti-guard.py",
		Matchers: []string{"mcp__graphiti.*", "mcp__mcp-funnel__bridge_tool_request"},
	},
	{
		Category: PreToolUse,
		File:     "graphiti-first-guard.py",
		Matchers: []string{"WebSearch|WebFetch", "mcp__mcp-funnel__bridge_tool_request"},
	},
}

var rules = []string{"graphiti.md"}

var sharedLibrary = []string{"session_state.py"}

// Hooks returns a copy of the hook table in manifest order
func Hooks() []Hook {
	out := make([]Hook, len(hooks))
	for i, h := range hooks {
		out[i] = Hook{
			Category: h.Category,
			File:     h.File,
			Matchers: append([]string(nil), h.Matchers...),
		}
	}
	return out
}

// HooksFor returns the hooks declared for a single category
func HooksFor(c Category) []Hook {
	var out []Hook
	for _, h := range Hooks() {
		if h.Category == c {
			out = append(out, h)
		}
	}
	return out
}

// Rules returns the rule documents installed alongside the hooks
func Rules() []string {
	return append([]string(nil), rules...)
}

// SharedLibrary returns the library files copied from the core provider
func SharedLibrary() []string {
	return append([]string(nil), sharedLibrary...)
}
