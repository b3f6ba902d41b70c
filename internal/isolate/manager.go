package isolate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jmgilman/canvas/internal/slogger"
)

// Manager hands out the process-wide runtime instance.
//
// The first Acquire boots the runtime; callers arriving while that boot is in
// flight wait for the same attempt instead of starting another. A successful
// boot is kept until Shutdown. A failed boot is reported to every waiter and
// then forgotten, so a later Acquire boots again. Manager never retries on
// its own.
type Manager struct {
	booter Booter

	mu       sync.Mutex
	inst     Instance
	inflight *bootCall
}

// bootCall is one boot attempt. inst and err are written before done closes.
type bootCall struct {
	done chan struct{}
	inst Instance
	err  error
}

// NewManager creates a Manager that boots runtimes with b.
func NewManager(b Booter) *Manager {
	return &Manager{booter: b}
}

// Acquire returns the live runtime, booting it if needed.
//
// The boot is detached from ctx: a caller that gives up receives ctx.Err()
// while the boot carries on for everyone else.
func (m *Manager) Acquire(ctx context.Context) (Instance, error) {
	m.mu.Lock()
	if m.inst != nil {
		inst := m.inst
		m.mu.Unlock()
		return inst, nil
	}

	call := m.inflight
	if call == nil {
		call = &bootCall{done: make(chan struct{})}
		m.inflight = call
		go m.boot(context.WithoutCancel(ctx), call)
	}
	m.mu.Unlock()

	select {
	case <-call.done:
		return call.inst, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) boot(ctx context.Context, call *bootCall) {
	log := slogger.L(ctx)
	log.Debug("booting runtime")

	inst, err := m.booter.Boot(ctx)
	if err != nil {
		err = &BootError{Err: err}
		inst = nil
		log.Error("runtime boot failed", slog.Any("error", err))
	} else {
		log.Info("runtime booted", slog.String("id", inst.ID()))
	}

	m.mu.Lock()
	if m.inflight == call {
		m.inflight = nil
		m.inst = inst
	}
	m.mu.Unlock()

	call.inst, call.err = inst, err
	close(call.done)
}

// Current returns the live runtime without booting one. When this process
// has not acquired it yet and the Booter is also an Attacher, the runtime
// left by an earlier process is adopted. Returns ErrNotBooted if there is
// none.
func (m *Manager) Current(ctx context.Context) (Instance, error) {
	m.mu.Lock()
	inst := m.inst
	m.mu.Unlock()
	if inst != nil {
		return inst, nil
	}

	attacher, ok := m.booter.(Attacher)
	if !ok {
		return nil, ErrNotBooted
	}
	inst, err := attacher.Attach(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inst == nil {
		m.inst = inst
	}
	return m.inst, nil
}

// Shutdown waits for an in-flight boot, tears the runtime down and resets
// the manager. It is a no-op when nothing is booted.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	call := m.inflight
	m.mu.Unlock()

	if call != nil {
		select {
		case <-call.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	inst := m.inst
	m.inst = nil
	m.mu.Unlock()

	if inst == nil {
		return nil
	}
	return inst.Teardown(ctx)
}
