package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathManager_SessionLogPath(t *testing.T) {
	pm := NewPathManager("/var/canvas/logs")

	assert.Equal(t, "/var/canvas/logs", pm.BaseDir())
	assert.Equal(t, "/var/canvas/logs/happy-panda.log", pm.SessionLogPath("happy-panda"))
}

func TestPathManager_EnsureSessionLog(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "logs")
	pm := NewPathManager(base)

	path, err := pm.EnsureSessionLog("s1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "s1.log"), path)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.False(t, pm.LogExists("s1"), "only the directory is created")
}

func TestPathManager_RemoveSessionLog(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	path, err := pm.EnsureSessionLog("s1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))
	require.True(t, pm.LogExists("s1"))

	require.NoError(t, pm.RemoveSessionLog("s1"))
	assert.False(t, pm.LogExists("s1"))

	// Removing again is not an error
	assert.NoError(t, pm.RemoveSessionLog("s1"))
}

func TestPathManager_ListSessionLogs(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		pm := NewPathManager(filepath.Join(t.TempDir(), "absent"))
		got, err := pm.ListSessionLogs()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("lists only log files", func(t *testing.T) {
		dir := t.TempDir()
		pm := NewPathManager(dir)
		for _, name := range []string{"b.log", "a.log", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "c.log"), 0o755))

		got, err := pm.ListSessionLogs()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	})
}
