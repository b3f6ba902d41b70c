package isolate_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmgilman/canvas/internal/isolate"
	"github.com/jmgilman/canvas/internal/isolate/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstance(id string) *mocks.InstanceMock {
	return &mocks.InstanceMock{
		IDFunc:       func() string { return id },
		TeardownFunc: func(ctx context.Context) error { return nil },
	}
}

// attachingBooter boots nothing and attaches to inst when set.
type attachingBooter struct {
	mocks.BooterMock
	inst isolate.Instance
}

func (b *attachingBooter) Attach(ctx context.Context) (isolate.Instance, error) {
	if b.inst == nil {
		return nil, isolate.ErrNotBooted
	}
	return b.inst, nil
}

// gatedBooter blocks every boot until release is closed.
type gatedBooter struct {
	boots   atomic.Int32
	started chan struct{}
	release chan struct{}
	inst    isolate.Instance
	err     error
}

func newGatedBooter(inst isolate.Instance, err error) *gatedBooter {
	return &gatedBooter{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
		inst:    inst,
		err:     err,
	}
}

func (b *gatedBooter) Boot(ctx context.Context) (isolate.Instance, error) {
	b.boots.Add(1)
	b.started <- struct{}{}
	<-b.release
	if b.err != nil {
		return nil, b.err
	}
	return b.inst, nil
}

// acquireAll calls Acquire from n goroutines and runs release once all of
// them are about to block.
func acquireAll(t *testing.T, mgr *isolate.Manager, n int, release func()) ([]isolate.Instance, []error) {
	t.Helper()

	insts := make([]isolate.Instance, n)
	errs := make([]error, n)
	var ready, wg sync.WaitGroup
	ready.Add(n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ready.Done()
			insts[i], errs[i] = mgr.Acquire(context.Background())
		}()
	}

	ready.Wait()
	time.Sleep(20 * time.Millisecond)
	release()
	wg.Wait()
	return insts, errs
}

func TestManager_Acquire(t *testing.T) {
	t.Run("concurrent callers share one boot", func(t *testing.T) {
		inst := newInstance("rt-1")
		booter := newGatedBooter(inst, nil)
		mgr := isolate.NewManager(booter)

		insts, errs := acquireAll(t, mgr, 50, func() { close(booter.release) })

		assert.Equal(t, int32(1), booter.boots.Load())
		for i := range insts {
			require.NoError(t, errs[i])
			assert.Same(t, inst, insts[i])
		}
	})

	t.Run("returns existing instance without booting", func(t *testing.T) {
		var boots atomic.Int32
		inst := newInstance("rt-1")
		mgr := isolate.NewManager(&mocks.BooterMock{BootFunc: func(ctx context.Context) (isolate.Instance, error) {
			boots.Add(1)
			return inst, nil
		}})

		first, err := mgr.Acquire(context.Background())
		require.NoError(t, err)
		second, err := mgr.Acquire(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), boots.Load())

		current, err := mgr.Current(context.Background())
		require.NoError(t, err)
		assert.Same(t, inst, current)
	})

	t.Run("failure reaches every waiter and is not retried", func(t *testing.T) {
		bootErr := errors.New("image pull failed")
		booter := newGatedBooter(nil, bootErr)
		mgr := isolate.NewManager(booter)

		_, errs := acquireAll(t, mgr, 10, func() { close(booter.release) })

		assert.Equal(t, int32(1), booter.boots.Load())
		var first *isolate.BootError
		require.ErrorAs(t, errs[0], &first)
		for _, err := range errs {
			require.ErrorIs(t, err, bootErr)
			var be *isolate.BootError
			require.ErrorAs(t, err, &be)
			assert.Same(t, first, be)
		}

		_, err := mgr.Current(context.Background())
		require.ErrorIs(t, err, isolate.ErrNotBooted)
	})

	t.Run("explicit retry after failure boots again", func(t *testing.T) {
		var boots atomic.Int32
		inst := newInstance("rt-2")
		mgr := isolate.NewManager(&mocks.BooterMock{BootFunc: func(ctx context.Context) (isolate.Instance, error) {
			if boots.Add(1) == 1 {
				return nil, errors.New("transient")
			}
			return inst, nil
		}})

		_, err := mgr.Acquire(context.Background())
		require.Error(t, err)

		got, err := mgr.Acquire(context.Background())
		require.NoError(t, err)
		assert.Same(t, inst, got)
		assert.Equal(t, int32(2), boots.Load())
	})

	t.Run("cancelled waiter does not cancel the boot", func(t *testing.T) {
		inst := newInstance("rt-3")
		booter := newGatedBooter(inst, nil)
		mgr := isolate.NewManager(booter)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			_, err := mgr.Acquire(ctx)
			errCh <- err
		}()

		<-booter.started
		cancel()
		require.ErrorIs(t, <-errCh, context.Canceled)

		close(booter.release)
		got, err := mgr.Acquire(context.Background())
		require.NoError(t, err)
		assert.Same(t, inst, got)
		assert.Equal(t, int32(1), booter.boots.Load())
	})
}

func TestManager_Shutdown(t *testing.T) {
	t.Run("tears down and resets", func(t *testing.T) {
		var boots atomic.Int32
		insts := []*mocks.InstanceMock{newInstance("rt-a"), newInstance("rt-b")}
		mgr := isolate.NewManager(&mocks.BooterMock{BootFunc: func(ctx context.Context) (isolate.Instance, error) {
			return insts[boots.Add(1)-1], nil
		}})

		first, err := mgr.Acquire(context.Background())
		require.NoError(t, err)

		require.NoError(t, mgr.Shutdown(context.Background()))
		assert.Len(t, insts[0].TeardownCalls(), 1)

		second, err := mgr.Acquire(context.Background())
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.Equal(t, "rt-b", second.ID())
	})

	t.Run("no-op when nothing booted", func(t *testing.T) {
		mgr := isolate.NewManager(&mocks.BooterMock{})
		require.NoError(t, mgr.Shutdown(context.Background()))
	})

	t.Run("waits for in-flight boot", func(t *testing.T) {
		inst := newInstance("rt-c")
		booter := newGatedBooter(inst, nil)
		mgr := isolate.NewManager(booter)

		go func() {
			_, _ = mgr.Acquire(context.Background())
		}()
		<-booter.started

		done := make(chan error, 1)
		go func() { done <- mgr.Shutdown(context.Background()) }()

		select {
		case <-done:
			t.Fatal("shutdown returned before boot finished")
		case <-time.After(20 * time.Millisecond):
		}

		close(booter.release)
		require.NoError(t, <-done)
		assert.Len(t, inst.TeardownCalls(), 1)
	})

	t.Run("returns teardown error", func(t *testing.T) {
		inst := newInstance("rt-d")
		inst.TeardownFunc = func(ctx context.Context) error { return errors.New("busy") }
		mgr := isolate.NewManager(&mocks.BooterMock{BootFunc: func(ctx context.Context) (isolate.Instance, error) {
			return inst, nil
		}})

		_, err := mgr.Acquire(context.Background())
		require.NoError(t, err)
		require.Error(t, mgr.Shutdown(context.Background()))
	})
}

func TestManager_Current(t *testing.T) {
	t.Run("adopts an attached runtime", func(t *testing.T) {
		inst := newInstance("rt-left-over")
		booter := &attachingBooter{inst: inst}
		mgr := isolate.NewManager(booter)

		current, err := mgr.Current(context.Background())
		require.NoError(t, err)
		assert.Same(t, inst, current)

		acquired, err := mgr.Acquire(context.Background())
		require.NoError(t, err)
		assert.Same(t, inst, acquired)
		assert.Empty(t, booter.BootCalls())

		require.NoError(t, mgr.Shutdown(context.Background()))
		assert.Len(t, inst.TeardownCalls(), 1)
	})

	t.Run("nothing to attach", func(t *testing.T) {
		mgr := isolate.NewManager(&attachingBooter{})
		_, err := mgr.Current(context.Background())
		require.ErrorIs(t, err, isolate.ErrNotBooted)
	})

	t.Run("booter without attach", func(t *testing.T) {
		mgr := isolate.NewManager(&mocks.BooterMock{})
		_, err := mgr.Current(context.Background())
		require.ErrorIs(t, err, isolate.ErrNotBooted)
	})
}
