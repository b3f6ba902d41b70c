package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTree_WriteTo(t *testing.T) {
	t.Run("writes nested files", func(t *testing.T) {
		dir := t.TempDir()
		tree := Build("export default function App(){ return null; }", "jsx")

		require.NoError(t, tree.WriteTo(dir))

		for p, contents := range tree.Files() {
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
			require.NoError(t, err, p)
			assert.Equal(t, contents, string(data), p)
		}
	})

	t.Run("overwrites and keeps unrelated entries", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("old"), 0o644))

		require.NoError(t, FileTree{"index.html": NewFile("new")}.WriteTo(dir))

		data, err := os.ReadFile(filepath.Join(dir, "index.html"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
		assert.DirExists(t, filepath.Join(dir, "node_modules"))
	})

	t.Run("rejects escaping names", func(t *testing.T) {
		for _, name := range []string{"..", "a/b", `a\b`, ""} {
			err := FileTree{name: NewFile("x")}.WriteTo(t.TempDir())
			require.ErrorIs(t, err, ErrInvalidPath, name)
		}
	})
}

func TestFileTree_Files(t *testing.T) {
	tree := FileTree{
		"b": NewFile("bee"),
		"a": NewDirectory(FileTree{"c.txt": NewFile("sea")}),
		"d": NewDirectory(nil),
	}
	assert.Equal(t, map[string]string{"a/c.txt": "sea", "b": "bee"}, tree.Files())
	assert.True(t, tree["a"].IsDir())
	assert.False(t, tree["b"].IsDir())
}
