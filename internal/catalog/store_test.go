package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", "catalog.json"))
}

func TestStore_Runtime(t *testing.T) {
	ctx := context.Background()

	t.Run("get on empty catalog", func(t *testing.T) {
		_, err := newTestStore(t).GetRuntime(ctx, "canvas-runtime")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put creates then replaces", func(t *testing.T) {
		store := newTestStore(t)

		rt := Runtime{Name: "canvas-runtime", Engine: "docker", Status: StatusBooting, Port: 5173}
		require.NoError(t, store.PutRuntime(ctx, rt))

		rt.ContainerID = "abc123"
		rt.Status = StatusRunning
		require.NoError(t, store.PutRuntime(ctx, rt))

		got, err := store.GetRuntime(ctx, "canvas-runtime")
		require.NoError(t, err)
		assert.Equal(t, "abc123", got.ContainerID)
		assert.Equal(t, StatusRunning, got.Status)
		assert.Equal(t, 5173, got.Port)
	})

	t.Run("remove", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.PutRuntime(ctx, Runtime{Name: "canvas-runtime"}))

		require.NoError(t, store.RemoveRuntime(ctx, "canvas-runtime"))
		assert.ErrorIs(t, store.RemoveRuntime(ctx, "canvas-runtime"), ErrNotFound)
	})
}

func TestStore_Sessions(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("add and get by id or name", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.AddSession(ctx, Session{ID: "s1", Name: "happy-panda", Phase: "booting", CreatedAt: now}))

		byID, err := store.GetSession(ctx, "s1")
		require.NoError(t, err)
		byName, err := store.GetSession(ctx, "happy-panda")
		require.NoError(t, err)
		assert.Equal(t, byID, byName)
		assert.True(t, now.Equal(byID.CreatedAt))
	})

	t.Run("rejects duplicate id or name", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.AddSession(ctx, Session{ID: "s1", Name: "a"}))

		assert.ErrorIs(t, store.AddSession(ctx, Session{ID: "s1", Name: "b"}), ErrAlreadyExists)
		assert.ErrorIs(t, store.AddSession(ctx, Session{ID: "s2", Name: "a"}), ErrAlreadyExists)
	})

	t.Run("update applies mutation and keeps id", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.AddSession(ctx, Session{ID: "s1", Phase: "booting"}))

		err := store.UpdateSession(ctx, "s1", func(s *Session) {
			s.ID = "ignored"
			s.Phase = "ready"
			s.URL = "http://localhost:5173"
		})
		require.NoError(t, err)

		got, err := store.GetSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "ready", got.Phase)
		assert.Equal(t, "http://localhost:5173", got.URL)
	})

	t.Run("update missing session", func(t *testing.T) {
		err := newTestStore(t).UpdateSession(ctx, "nope", func(*Session) {})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list filters by phase", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.AddSession(ctx, Session{ID: "s1", Phase: "ready"}))
		require.NoError(t, store.AddSession(ctx, Session{ID: "s2", Phase: "error"}))
		require.NoError(t, store.AddSession(ctx, Session{ID: "s3", Phase: "ready"}))

		all, err := store.ListSessions(ctx, SessionFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		ready, err := store.ListSessions(ctx, SessionFilter{Phase: "ready"})
		require.NoError(t, err)
		require.Len(t, ready, 2)
		assert.Equal(t, "s1", ready[0].ID)
		assert.Equal(t, "s3", ready[1].ID)
	})

	t.Run("list on empty catalog is empty not nil", func(t *testing.T) {
		got, err := newTestStore(t).ListSessions(ctx, SessionFilter{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("remove", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.AddSession(ctx, Session{ID: "s1"}))

		require.NoError(t, store.RemoveSession(ctx, "s1"))
		assert.ErrorIs(t, store.RemoveSession(ctx, "s1"), ErrNotFound)
	})
}

func TestStore_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.json")

	require.NoError(t, NewStore(path).PutRuntime(ctx, Runtime{Name: "canvas-runtime", ContainerID: "abc"}))

	// A second store on the same file, as a second CLI process would open it
	got, err := NewStore(path).GetRuntime(ctx, "canvas-runtime")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ContainerID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 1`)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).GetRuntime(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog file")
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.json")

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Separate stores exercise the file lock, not just the mutex
			store := NewStore(path)
			assert.NoError(t, store.AddSession(ctx, Session{ID: fmt.Sprintf("s%d", i)}))
		}()
	}
	wg.Wait()

	got, err := NewStore(path).ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
