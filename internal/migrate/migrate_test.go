package migrate

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/leefowlercu/graphiti-claude-integration/internal/fsutil"
	"github.com/leefowlercu/graphiti-claude-integration/internal/layout"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Migrator, afero.Fs, layout.InstallContext) {
	t.Helper()
	mem := afero.NewMemMapFs()
	ictx := layout.New(filepath.FromSlash("/project"), filepath.FromSlash("/pkg"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fsutil.New(mem), ictx, logger), mem, ictx
}

func write(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestMigrate_NothingToMove(t *testing.T) {
	m, _, _ := setup(t)

	result := m.Migrate()
	assert.Zero(t, result.Moved)
	assert.Empty(t, result.Outcomes)
}

func TestMigrate_MovesEveryLegacyFile(t *testing.T) {
	m, mem, ictx := setup(t)

	var legacy, target []string
	for _, h := range manifest.Hooks() {
		legacy = append(legacy, ictx.LegacyHookPath(h))
		target = append(target, ictx.HookPath(h))
	}
	for _, r := range manifest.Rules() {
		legacy = append(legacy, ictx.LegacyRulePath(r))
		target = append(target, ictx.RulePath(r))
	}
	for _, l := range manifest.SharedLibrary() {
		legacy = append(legacy, ictx.LegacyLibPath(l))
		target = append(target, ictx.LibPath(l))
	}

	for i, p := range legacy {
		write(t, mem, p, "content-"+target[i])
	}

	result := m.Migrate()
	assert.Equal(t, len(legacy), result.Moved)
	require.Len(t, result.Outcomes, len(legacy))

	for i := range legacy {
		exists, err := afero.Exists(mem, legacy[i])
		require.NoError(t, err)
		assert.False(t, exists, "legacy path %s should be gone", legacy[i])

		data, err := afero.ReadFile(mem, target[i])
		require.NoError(t, err)
		assert.Equal(t, "content-"+target[i], string(data))
	}

	for _, o := range result.Outcomes {
		assert.True(t, o.Success)
		assert.True(t, o.Legacy)
		assert.Contains(t, o.Message, "Migrated: ")
	}
}

func TestMigrate_IgnoresUnrelatedLegacyFiles(t *testing.T) {
	m, mem, ictx := setup(t)
	other := filepath.Join(ictx.LegacyHooksDir, "session-start", "someone-elses.py")
	write(t, mem, other, "x")

	result := m.Migrate()
	assert.Zero(t, result.Moved)

	exists, err := afero.Exists(mem, other)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMigrate_SecondRunIsNoop(t *testing.T) {
	m, mem, ictx := setup(t)
	write(t, mem, ictx.LegacyRulePath("graphiti.md"), "# rules")

	first := m.Migrate()
	assert.Equal(t, 1, first.Moved)

	second := m.Migrate()
	assert.Zero(t, second.Moved)
}
