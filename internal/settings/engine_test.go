package settings

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leefowlercu/graphiti-claude-integration/internal/layout"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type testPlan struct {
	engine   *Engine
	commands []string
	byFile   map[string]string
}

func newTestPlan(t *testing.T) testPlan {
	t.Helper()
	ictx := layout.New(filepath.FromSlash("/project"), filepath.FromSlash("/pkg"))

	var plan []Registration
	byFile := make(map[string]string)
	for _, h := range manifest.Hooks() {
		cmd := ictx.HookPath(h)
		plan = append(plan, Registration{Category: h.Category, Command: cmd, Matchers: h.Matchers})
		byFile[h.File] = cmd
	}

	return testPlan{
		engine:   NewEngine(plan),
		commands: ictx.HookCommands(),
		byFile:   byFile,
	}
}

func reconcile(t *testing.T, e *Engine, input string, old, fresh []string) []byte {
	t.Helper()
	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	_, err = e.Reconcile(doc, old, fresh)
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	return out
}

func commandsIn(data []byte) []string {
	var out []string
	for _, cat := range manifest.Categories() {
		gjson.GetBytes(data, "hooks."+cat.SettingsKey()).ForEach(func(_, entry gjson.Result) bool {
			for _, c := range entry.Get("hooks.#.command").Array() {
				out = append(out, c.String())
			}
			return true
		})
	}
	return out
}

func TestReconcile_InstallIntoEmptyDocument(t *testing.T) {
	p := newTestPlan(t)
	out := reconcile(t, p.engine, "", nil, p.commands)

	assert.Equal(t, int64(1), gjson.GetBytes(out, "hooks.SessionStart.#").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(out, "hooks.UserPromptSubmit.#").Int())
	assert.Equal(t, int64(3), gjson.GetBytes(out, "hooks.PreToolUse.#").Int(), "one entry per distinct matcher")

	assert.Equal(t, p.byFile["graphiti-context-loader.py"], gjson.GetBytes(out, "hooks.SessionStart.0.hooks.0.command").String())
	assert.Equal(t, "command", gjson.GetBytes(out, "hooks.SessionStart.0.hooks.0.type").String())
	assert.False(t, gjson.GetBytes(out, "hooks.SessionStart.0.matcher").Exists())

	matchers := gjson.GetBytes(out, "hooks.PreToolUse.#.matcher").Array()
	require.Len(t, matchers, 3)
	assert.Equal(t, "mcp__graphiti.*", matchers[0].String())
	assert.Equal(t, "mcp__mcp-funnel__bridge_tool_request", matchers[1].String())
	assert.Equal(t, "WebSearch|WebFetch", matchers[2].String())
}

func TestReconcile_MatcherAccumulation(t *testing.T) {
	p := newTestPlan(t)
	out := reconcile(t, p.engine, "", nil, p.commands)

	shared := gjson.GetBytes(out, `hooks.PreToolUse.#(matcher=="mcp__mcp-funnel__bridge_tool_request")#`).Array()
	require.Len(t, shared, 1, "shared matcher must have exactly one entry")

	commands := shared[0].Get("hooks.#.command").Array()
	require.Len(t, commands, 2)
	assert.Equal(t, p.byFile["graphiti-guard.py"], commands[0].String())
	assert.Equal(t, p.byFile["graphiti-first-guard.py"], commands[1].String())
}

func TestReconcile_Idempotent(t *testing.T) {
	p := newTestPlan(t)

	tests := []struct {
		name        string
		secondOld   []string
		description string
	}{
		{name: "with previous state", secondOld: p.commands},
		{name: "with lost state", secondOld: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := reconcile(t, p.engine, `{"hooks":{}}`, nil, p.commands)
			twice := reconcile(t, p.engine, string(once), tt.secondOld, p.commands)

			assert.Equal(t, string(once), string(twice))
			assert.Len(t, commandsIn(twice), 6, "2 single registrations plus 4 matcher registrations")
		})
	}
}

func TestReconcile_UninstallRemovesEverything(t *testing.T) {
	p := newTestPlan(t)
	installed := reconcile(t, p.engine, "", nil, p.commands)

	out := reconcile(t, p.engine, string(installed), p.commands, nil)

	assert.Empty(t, commandsIn(out))
	for _, cat := range manifest.Categories() {
		cat := gjson.GetBytes(out, "hooks."+cat.SettingsKey())
		assert.True(t, cat.IsArray())
		assert.Empty(t, cat.Array())
	}
}

// compactJSON strips insignificant whitespace so that fragments can be
// compared byte for byte regardless of indentation
func compactJSON(t *testing.T, raw string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, []byte(raw)))
	return buf.String()
}

func TestReconcile_NonInterference(t *testing.T) {
	p := newTestPlan(t)
	guard := p.byFile["graphiti-guard.py"]

	input := `{
  "permissions": {"allow": ["Bash(ls:*)"], "deny": []},
  "hooks": {
    "SessionStart": [
      {"hooks": [{"type": "command", "command": "/other/start.sh", "timeout": 30}]}
    ],
    "PreToolUse": [
      {"matcher": "Bash", "hooks": [{"type": "command", "command": "cd x && ./a.sh <in >out"}]},
      {"matcher": "mcp__graphiti.*", "hooks": [{"command": "/other/audit.sh", "type": "command"}]}
    ],
    "Stop": [
      {"hooks": [{"type": "command", "command": "/other/stop.sh"}]}
    ]
  },
  "model": "opus"
}`

	untouched := []string{"permissions", "hooks.Stop", "hooks.SessionStart.0", "hooks.PreToolUse.0"}

	installed := reconcile(t, p.engine, input, nil, p.commands)

	for _, path := range untouched {
		assert.Equal(t,
			compactJSON(t, gjson.Get(input, path).Raw),
			compactJSON(t, gjson.GetBytes(installed, path).Raw),
			path)
	}
	assert.Contains(t, string(installed), `"command": "cd x && ./a.sh <in >out"`)

	shared := gjson.GetBytes(installed, "hooks.PreToolUse.1.hooks.#.command").Array()
	require.Len(t, shared, 2, "own command joins the existing matcher entry")
	assert.Equal(t, "/other/audit.sh", shared[0].String())
	assert.Equal(t, guard, shared[1].String())

	uninstalled := reconcile(t, p.engine, string(installed), p.commands, nil)

	assert.Equal(t, []string{"/other/start.sh", "cd x && ./a.sh <in >out", "/other/audit.sh"}, commandsIn(uninstalled))
	for _, path := range append(untouched, "hooks.PreToolUse.1") {
		assert.Equal(t,
			compactJSON(t, gjson.Get(input, path).Raw),
			compactJSON(t, gjson.GetBytes(uninstalled, path).Raw),
			path)
	}
	assert.Equal(t, "opus", gjson.GetBytes(uninstalled, "model").String())
}

func TestReconcile_PreservesKeyOrder(t *testing.T) {
	p := newTestPlan(t)
	input := `{"zeta": 1, "alpha": {"y": 1, "b": 2}, "hooks": {"Notification": [], "SessionStart": []}, "mid": true}`

	out := reconcile(t, p.engine, input, nil, p.commands)

	var keys []string
	gjson.ParseBytes(out).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"zeta", "alpha", "hooks", "mid"}, keys)

	var nested []string
	gjson.GetBytes(out, "alpha").ForEach(func(k, _ gjson.Result) bool {
		nested = append(nested, k.String())
		return true
	})
	assert.Equal(t, []string{"y", "b"}, nested)

	var categories []string
	gjson.GetBytes(out, "hooks").ForEach(func(k, _ gjson.Result) bool {
		categories = append(categories, k.String())
		return true
	})
	assert.Equal(t, []string{"Notification", "SessionStart", "UserPromptSubmit", "PreToolUse"}, categories)
}

func TestReconcile_RemovesStaleRegistrations(t *testing.T) {
	p := newTestPlan(t)
	stale := filepath.FromSlash("/project/.claude/hooks/graphiti-claude-integration/pre-tool-use/retired-guard.py")

	input := `{"hooks": {"PreToolUse": [
		{"matcher": "Retired", "hooks": [{"type": "command", "command": ` + quote(stale) + `}]}
	]}}`

	old := append([]string{stale}, p.commands...)
	out := reconcile(t, p.engine, input, old, p.commands)

	assert.NotContains(t, commandsIn(out), stale)
	assert.False(t, gjson.GetBytes(out, `hooks.PreToolUse.#(matcher=="Retired")`).Exists(), "emptied entry is pruned")
	assert.Equal(t, int64(3), gjson.GetBytes(out, "hooks.PreToolUse.#").Int())
}

func TestReconcile_UnownedCommandsSurviveRemoval(t *testing.T) {
	p := newTestPlan(t)
	input := `{"hooks": {"SessionStart": [
		{"hooks": [{"type": "command", "command": "/mine/a.py"}, {"type": "command", "command": "/theirs/b.py"}]}
	]}}`

	out := reconcile(t, p.engine, input, []string{"/mine/a.py"}, nil)

	assert.JSONEq(t,
		`[{"hooks": [{"type": "command", "command": "/theirs/b.py"}]}]`,
		gjson.GetBytes(out, "hooks.SessionStart").Raw)
}

func TestReconcile_DropsEntriesWithoutHooks(t *testing.T) {
	p := newTestPlan(t)
	input := `{"hooks": {"UserPromptSubmit": [
		{"matcher": "x"},
		{"hooks": null},
		{"hooks": "not-a-list"},
		"not-an-object",
		{"hooks": []},
		{"hooks": [{"type": "command", "command": "/keep.sh"}]}
	]}}`

	out := reconcile(t, p.engine, input, nil, nil)

	assert.JSONEq(t,
		`[{"hooks": [{"type": "command", "command": "/keep.sh"}]}]`,
		gjson.GetBytes(out, "hooks.UserPromptSubmit").Raw)
}

func TestReconcile_UninstallDoesNotCreateCategories(t *testing.T) {
	p := newTestPlan(t)

	tests := []struct {
		name  string
		input string
	}{
		{"no hooks key", `{"theme": "dark"}`},
		{"empty hooks", `{"theme": "dark", "hooks": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := reconcile(t, p.engine, tt.input, p.commands, nil)
			for _, cat := range manifest.Categories() {
				assert.False(t, gjson.GetBytes(out, "hooks."+cat.SettingsKey()).Exists())
			}
			assert.Equal(t, "dark", gjson.GetBytes(out, "theme").String())
		})
	}
}

func TestReconcile_RegistersOnlyNewCommands(t *testing.T) {
	p := newTestPlan(t)
	loader := p.byFile["graphiti-context-loader.py"]
	guard := p.byFile["graphiti-guard.py"]

	out := reconcile(t, p.engine, "", nil, []string{loader, guard})

	assert.ElementsMatch(t, []string{loader, guard, guard}, commandsIn(out))
	assert.Empty(t, gjson.GetBytes(out, "hooks.UserPromptSubmit").Array())
	assert.Equal(t, int64(2), gjson.GetBytes(out, "hooks.PreToolUse.#").Int())
}

func TestReconcile_Counts(t *testing.T) {
	p := newTestPlan(t)

	doc := New()
	result, err := p.engine.Reconcile(doc, nil, p.commands)
	require.NoError(t, err)
	assert.Equal(t, Result{Removed: 0, Added: 6}, result)

	result, err = p.engine.Reconcile(doc, p.commands, p.commands)
	require.NoError(t, err)
	assert.Equal(t, Result{Removed: 6, Added: 6}, result)

	result, err = p.engine.Reconcile(doc, p.commands, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Removed: 6, Added: 0}, result)
}

func TestReconcile_MalformedCategory(t *testing.T) {
	p := newTestPlan(t)
	doc, err := Parse([]byte(`{"hooks": {"PreToolUse": {"matcher": "x"}}}`))
	require.NoError(t, err)

	_, err = p.engine.Reconcile(doc, p.commands, p.commands)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
