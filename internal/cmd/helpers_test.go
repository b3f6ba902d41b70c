package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/jmgilman/canvas/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Button.jsx", "jsx"},
		{"src/App.TSX", "tsx"},
		{"analysis.py", "py"},
		{"Makefile", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, languageFromPath(tt.path))
		})
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "App.tsx")
	require.NoError(t, os.WriteFile(path, []byte("export default 1"), 0o600))

	t.Run("infers language", func(t *testing.T) {
		art, err := readSource(path, "", "")
		require.NoError(t, err)
		assert.Equal(t, "export default 1", art.Main().Content)
		assert.Equal(t, "App.tsx", art.Main().Path)
		assert.Equal(t, "tsx", art.Language)
		assert.Equal(t, path, art.Title)
	})

	t.Run("explicit language and title win", func(t *testing.T) {
		art, err := readSource(path, "JSX", "Counter")
		require.NoError(t, err)
		assert.Equal(t, "jsx", art.Language)
		assert.Equal(t, "Counter", art.Title)
	})

	t.Run("no extension and no language", func(t *testing.T) {
		bare := filepath.Join(dir, "snippet")
		require.NoError(t, os.WriteFile(bare, []byte("1"), 0o600))

		_, err := readSource(bare, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--language")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readSource(filepath.Join(dir, "nope.py"), "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read source")
	})
}

func TestPreviewConfig(t *testing.T) {
	cfg := &config.Config{Preview: config.PreviewConfig{
		Timeout:        90 * time.Second,
		RefreshDelay:   250 * time.Millisecond,
		InstallCommand: "pnpm install  --frozen-lockfile",
		DevCommand:     "pnpm dev",
	}}

	got := previewConfig(cfg)

	assert.Equal(t, []string{"pnpm", "install", "--frozen-lockfile"}, got.InstallCommand)
	assert.Equal(t, []string{"pnpm", "dev"}, got.DevCommand)
	assert.Equal(t, 90*time.Second, got.Timeout)
	assert.Equal(t, 250*time.Millisecond, got.RefreshDelay)
}

func TestFormatTimeAgo(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 10 * time.Second, "just now"},
		{"minutes", 5 * time.Minute, "5m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"days", 2 * 24 * time.Hour, "2d ago"},
		{"weeks", 14 * 24 * time.Hour, "2w ago"},
		{"months", 65 * 24 * time.Hour, "2mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimeAgo(time.Now().Add(-tt.ago)))
		})
	}
}

func TestFormatConsoleLog(t *testing.T) {
	got := formatConsoleLog(artifact.ConsoleLog{Type: artifact.LogTypeWarn, Message: "deprecated prop"})
	assert.Equal(t, "[warn] deprecated prop", got)
}

func TestDash(t *testing.T) {
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "http://localhost:5173/", dash("http://localhost:5173/"))
}
