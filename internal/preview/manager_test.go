package preview

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmgilman/canvas/internal/catalog"
	"github.com/jmgilman/canvas/internal/exec"
	execmocks "github.com/jmgilman/canvas/internal/exec/mocks"
	"github.com/jmgilman/canvas/internal/isolate"
	"github.com/jmgilman/canvas/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, h *harness) (*Manager, catalog.Store, *logging.PathManager) {
	t.Helper()
	dir := t.TempDir()
	store := catalog.NewStore(filepath.Join(dir, "catalog.json"))
	logs := logging.NewPathManager(filepath.Join(dir, "logs"))
	return NewManager(h, store, logs, testConfig()), store, logs
}

func recordPhase(t *testing.T, store catalog.Store, id string) string {
	t.Helper()
	rec, err := store.GetSession(context.Background(), id)
	require.NoError(t, err)
	return rec.Phase
}

func TestManager_Create(t *testing.T) {
	ctx := context.Background()
	mgr, store, logs := newTestManager(t, newHarness())

	s, err := mgr.Create(ctx, "Counter", "tsx")
	require.NoError(t, err)

	rec, err := store.GetSession(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.Name(), rec.Name)
	assert.Equal(t, "Counter", rec.Title)
	assert.Equal(t, "tsx", rec.Language)
	assert.Equal(t, string(PhaseIdle), rec.Phase)
	assert.True(t, logs.LogExists(s.ID()))

	byName, err := mgr.Get(s.Name())
	require.NoError(t, err)
	assert.Same(t, s, byName)

	byID, err := mgr.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, byID)

	require.NoError(t, mgr.Close(ctx))
}

func TestManager_RecordsPhases(t *testing.T) {
	ctx := context.Background()

	t.Run("ready then closed", func(t *testing.T) {
		mgr, store, logs := newTestManager(t, newHarness())
		s, err := mgr.Create(ctx, "", "jsx")
		require.NoError(t, err)

		require.NoError(t, s.Start(ctx, appCode, "jsx", ""))
		assert.Eventually(t, func() bool {
			return recordPhase(t, store, s.ID()) == string(PhaseReady)
		}, time.Second, 5*time.Millisecond)

		rec, err := store.GetSession(ctx, s.ID())
		require.NoError(t, err)
		assert.Equal(t, readyURL, rec.URL)

		require.NoError(t, mgr.Close(ctx))

		rec, err = store.GetSession(ctx, s.ID())
		require.NoError(t, err)
		assert.Equal(t, RecordClosed, rec.Phase)
		assert.Empty(t, rec.URL)

		data, err := os.ReadFile(logs.SessionLogPath(s.ID()))
		require.NoError(t, err)
		assert.Contains(t, string(data), "[stdout] added 3 packages in 2s")
		assert.Contains(t, string(data), "[canvas] Dev server ready at "+readyURL)
	})

	t.Run("error message", func(t *testing.T) {
		h := newHarness()
		h.installCode = 2
		mgr, store, _ := newTestManager(t, h)
		s, err := mgr.Create(ctx, "", "jsx")
		require.NoError(t, err)

		require.Error(t, s.Start(ctx, appCode, "jsx", ""))
		assert.Eventually(t, func() bool {
			return recordPhase(t, store, s.ID()) == string(PhaseError)
		}, time.Second, 5*time.Millisecond)

		rec, err := store.GetSession(ctx, s.ID())
		require.NoError(t, err)
		assert.Equal(t, "Installation failed with exit code 2", rec.Error)

		require.NoError(t, mgr.Close(ctx))
	})
}

func TestManager_Remove(t *testing.T) {
	ctx := context.Background()
	mgr, store, _ := newTestManager(t, newHarness())

	s, err := mgr.Create(ctx, "", "jsx")
	require.NoError(t, err)
	require.NoError(t, mgr.Remove(ctx, s.ID()))

	_, err = mgr.Get(s.ID())
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, mgr.Remove(ctx, s.ID()), ErrNotFound)
	require.ErrorIs(t, s.Start(ctx, appCode, "jsx", ""), ErrClosed)

	assert.Eventually(t, func() bool {
		return recordPhase(t, store, s.ID()) == RecordClosed
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, mgr.Close(ctx))
}

func TestManager_SharedRuntime(t *testing.T) {
	ctx := context.Background()

	t.Run("newer session replaces the owner", func(t *testing.T) {
		h := newHarness()
		var mu sync.Mutex
		var procs []*execmocks.ProcessMock
		h.dev = func(h *harness, cfg isolate.SpawnConfig) exec.Process {
			proc, _ := running()
			mu.Lock()
			procs = append(procs, proc)
			mu.Unlock()
			h.signalReady(readyURL)
			return proc
		}
		mgr, store, _ := newTestManager(t, h)

		first, err := mgr.Create(ctx, "First", "jsx")
		require.NoError(t, err)
		second, err := mgr.Create(ctx, "Second", "jsx")
		require.NoError(t, err)

		require.NoError(t, first.Start(ctx, appCode, "jsx", ""))
		require.NoError(t, second.Start(ctx, appCode, "jsx", ""))

		assert.Equal(t, PhaseReady, second.Phase())
		assert.Equal(t, PhaseError, first.Phase())
		assert.Equal(t, "Preview replaced by "+second.Name(), first.Err())
		assert.Empty(t, first.URL())

		mu.Lock()
		require.Len(t, procs, 2)
		assert.Len(t, procs[0].KillCalls(), 1)
		assert.Empty(t, procs[1].KillCalls())
		mu.Unlock()

		active, ok := mgr.Active()
		require.True(t, ok)
		assert.Same(t, second, active)
		assert.Eventually(t, func() bool {
			return recordPhase(t, store, first.ID()) == string(PhaseError)
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, first.Retry(ctx))
		assert.Equal(t, PhaseReady, first.Phase())
		assert.Equal(t, PhaseError, second.Phase())

		require.NoError(t, mgr.Close(ctx))
		_, ok = mgr.Active()
		assert.False(t, ok)
	})

	t.Run("owner replaced while starting", func(t *testing.T) {
		h := newHarness()
		spawned := make(chan struct{})
		var calls atomic.Int32
		h.dev = func(h *harness, cfg isolate.SpawnConfig) exec.Process {
			proc, _ := running()
			if calls.Add(1) == 1 {
				close(spawned)
				return proc
			}
			h.signalReady(readyURL)
			return proc
		}
		mgr, _, _ := newTestManager(t, h)

		first, err := mgr.Create(ctx, "", "jsx")
		require.NoError(t, err)
		second, err := mgr.Create(ctx, "", "jsx")
		require.NoError(t, err)

		errc := make(chan error, 1)
		go func() { errc <- first.Start(ctx, appCode, "jsx", "") }()
		<-spawned

		require.NoError(t, second.Start(ctx, appCode, "jsx", ""))
		require.ErrorIs(t, <-errc, ErrReplaced)
		assert.Equal(t, PhaseError, first.Phase())
		assert.Equal(t, PhaseReady, second.Phase())
		assert.Equal(t, readyURL, second.URL())

		require.NoError(t, mgr.Close(ctx))
	})

	t.Run("removing the owner frees the runtime", func(t *testing.T) {
		mgr, _, _ := newTestManager(t, newHarness())
		s, err := mgr.Create(ctx, "", "jsx")
		require.NoError(t, err)
		require.NoError(t, s.Start(ctx, appCode, "jsx", ""))

		require.NoError(t, mgr.Remove(ctx, s.ID()))
		_, ok := mgr.Active()
		assert.False(t, ok)
		require.NoError(t, mgr.Close(ctx))
	})

	t.Run("lock held by another manager", func(t *testing.T) {
		dir := t.TempDir()
		lock := filepath.Join(dir, "runtime.lock")
		newLocked := func() *Manager {
			store := catalog.NewStore(filepath.Join(dir, "catalog.json"))
			logs := logging.NewPathManager(filepath.Join(dir, "logs"))
			return NewManager(newHarness(), store, logs, testConfig(), WithRuntimeLock(lock))
		}
		owner, other := newLocked(), newLocked()

		s1, err := owner.Create(ctx, "", "jsx")
		require.NoError(t, err)
		require.NoError(t, s1.Start(ctx, appCode, "jsx", ""))

		s2, err := other.Create(ctx, "", "jsx")
		require.NoError(t, err)
		require.ErrorIs(t, s2.Start(ctx, appCode, "jsx", ""), ErrRuntimeBusy)
		assert.Equal(t, PhaseError, s2.Phase())

		require.NoError(t, owner.Close(ctx))
		require.NoError(t, s2.Retry(ctx))
		assert.Equal(t, PhaseReady, s2.Phase())
		require.NoError(t, other.Close(ctx))
	})
}
