package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWatch runs watchFile on path in the background and returns the
// contents it reports and its final error.
func startWatch(t *testing.T, path, last string, onChange func(string) error) (<-chan string, <-chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, last, func(contents string) error {
			changes <- contents
			if onChange != nil {
				return onChange(contents)
			}
			return nil
		})
	}()
	return changes, done, cancel
}

// saveUntil rewrites path with save until contents reach changes. The
// interval outlasts the debounce so each save can settle.
func saveUntil(t *testing.T, changes <-chan string, want string, save func() error) {
	t.Helper()
	require.Eventually(t, func() bool {
		assert.NoError(t, save())
		select {
		case got := <-changes:
			return got == want
		default:
			return false
		}
	}, 5*time.Second, 3*watchDebounce)
}

func TestWatchFile(t *testing.T) {
	t.Run("reports changed contents", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "App.jsx")
		require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

		changes, done, cancel := startWatch(t, path, "v1", nil)
		saveUntil(t, changes, "v2", func() error {
			return os.WriteFile(path, []byte("v2"), 0o600)
		})

		// Same contents and sibling files are not reported.
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.jsx"), []byte("x"), 0o600))
		assert.Never(t, func() bool { return len(changes) > 0 }, 4*watchDebounce, watchDebounce/4)

		cancel()
		require.NoError(t, <-done)
	})

	t.Run("follows saves that rename over the file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "App.jsx")
		require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

		changes, done, cancel := startWatch(t, path, "v1", nil)
		saveUntil(t, changes, "v2", func() error {
			tmp := filepath.Join(dir, ".App.jsx.swp")
			if err := os.WriteFile(tmp, []byte("v2"), 0o600); err != nil {
				return err
			}
			return os.Rename(tmp, path)
		})

		cancel()
		require.NoError(t, <-done)
	})

	t.Run("callback error stops watching", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "App.jsx")
		require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

		errStop := errors.New("session closed")
		changes, done, _ := startWatch(t, path, "v1", func(string) error { return errStop })
		saveUntil(t, changes, "v2", func() error {
			return os.WriteFile(path, []byte("v2"), 0o600)
		})

		require.ErrorIs(t, <-done, errStop)
	})

	t.Run("missing directory", func(t *testing.T) {
		err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "App.jsx"), "", func(string) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "watch")
	})
}
