package state

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statePath = "/project/.claude/graphiti-claude-integration-state.json"

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(fsutil.New(mem), statePath, logger).
		WithClock(func() time.Time { return time.Date(2025, 10, 16, 14, 30, 45, 123000000, time.UTC) })
	return store, mem
}

func TestRead_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "invalid json", content: strPtr("{not json")},
		{name: "wrong shape", content: strPtr(`{"hook_commands": "nope"}`)},
		{name: "empty file", content: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mem := newTestStore(t)
			if tt.content != nil {
				require.NoError(t, afero.WriteFile(mem, statePath, []byte(*tt.content), 0644))
			}

			rec := store.Read()
			assert.False(t, rec.Installed)
			assert.NotNil(t, rec.HookCommands)
			assert.Empty(t, rec.HookCommands)
		})
	}
}

func TestRead_NullCommands(t *testing.T) {
	store, mem := newTestStore(t)
	require.NoError(t, afero.WriteFile(mem, statePath, []byte(`{"installed": true}`), 0644))

	rec := store.Read()
	assert.True(t, rec.Installed)
	assert.NotNil(t, rec.HookCommands)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	store, mem := newTestStore(t)

	commands := []string{"/a/session-start/x.py", "/a/pre-tool-use/y.py"}
	require.NoError(t, store.Write(Record{Installed: true, HookCommands: commands}))

	ok, err := afero.DirExists(mem, "/project/.claude")
	require.NoError(t, err)
	assert.True(t, ok, "containing directory should be created")

	rec := store.Read()
	assert.True(t, rec.Installed)
	assert.Equal(t, commands, rec.HookCommands)
	assert.Equal(t, "2025-10-16T14:30:45.123Z", rec.InstalledAt)

	raw, err := afero.ReadFile(mem, statePath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "installed")
	assert.Contains(t, doc, "hook_commands")
	assert.Contains(t, doc, "installed_at")
}

func TestWrite_NilCommandsPersistAsEmptyArray(t *testing.T) {
	store, mem := newTestStore(t)
	require.NoError(t, store.Write(Record{Installed: false}))

	raw, err := afero.ReadFile(mem, statePath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"hook_commands": []`)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)

	removed, err := store.Delete()
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, store.Write(Record{Installed: true}))
	assert.True(t, store.Exists())

	removed, err = store.Delete()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, store.Exists())
}

func strPtr(s string) *string {
	return &s
}
