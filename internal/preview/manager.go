package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/canvas/internal/catalog"
	"github.com/jmgilman/canvas/internal/isolate"
	"github.com/jmgilman/canvas/internal/logging"
	"github.com/jmgilman/canvas/internal/names"
	"github.com/jmgilman/canvas/internal/slogger"
)

// ErrNotFound is returned for unknown session IDs or names.
var ErrNotFound = errors.New("preview session not found")

// ErrRuntimeBusy is returned when another process holds the runtime lock.
var ErrRuntimeBusy = errors.New("runtime is in use by another canvas process")

// nameAttempts bounds random name generation.
const nameAttempts = 100

// RecordClosed is the catalog phase of a session that has been closed.
const RecordClosed = "closed"

// sessionStore is the subset of catalog.Store used here.
type sessionStore interface {
	AddSession(ctx context.Context, s catalog.Session) error
	GetSession(ctx context.Context, idOrName string) (*catalog.Session, error)
	UpdateSession(ctx context.Context, id string, fn func(*catalog.Session)) error
}

// Manager creates and tracks the sessions of this process. Each session is
// recorded in the catalog, which follows its phase, and its log is written
// to a per-session file.
//
// The runtime has one workspace and one dev server port, so only one
// session owns it at a time. A session takes ownership when its run
// acquires the runtime; the previous owner fails with a "replaced" error
// and may take it back with Retry.
type Manager struct {
	runtime Acquirer
	store   sessionStore
	logs    *logging.PathManager
	cfg     Config
	now     func() time.Time
	lock    *runtimeLock

	mu       sync.Mutex
	sessions map[string]*Session
	active   *Session
	wg       sync.WaitGroup
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRuntimeLock makes ownership exclusive across processes through an
// advisory lock on path. A session whose run finds the lock held by another
// process fails with ErrRuntimeBusy.
func WithRuntimeLock(path string) ManagerOption {
	return func(m *Manager) {
		m.lock = &runtimeLock{path: path}
	}
}

// NewManager creates a Manager.
func NewManager(rt Acquirer, store sessionStore, logs *logging.PathManager, cfg Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		runtime:  rt,
		store:    store,
		logs:     logs,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Active returns the session that owns the runtime, if any.
func (m *Manager) Active() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != nil
}

// Create registers a new idle session. Call Session.Start to run it.
func (m *Manager) Create(ctx context.Context, title, language string) (*Session, error) {
	id := uuid.NewString()
	name, err := names.GenerateUnique(func(n string) bool {
		_, getErr := m.store.GetSession(ctx, n)
		return getErr == nil
	}, nameAttempts)
	if err != nil {
		return nil, fmt.Errorf("generate session name: %w", err)
	}

	logPath, err := m.logs.EnsureSessionLog(id)
	if err != nil {
		return nil, fmt.Errorf("ensure session log: %w", err)
	}
	tee, err := logging.NewTeeWriter(nil, logPath)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	now := m.now()
	if err := m.store.AddSession(ctx, catalog.Session{
		ID:        id,
		Name:      name,
		Title:     title,
		Language:  language,
		Phase:     string(PhaseIdle),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		_ = tee.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("add session record: %w", err)
	}

	owner := &ownedRuntime{m: m}
	s := NewSession(owner, m.cfg, Options{ID: id, Name: name, Log: tee})
	owner.s = s
	events, _ := s.Subscribe()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.record(context.WithoutCancel(ctx), s, events)
		if err := tee.Close(); err != nil {
			slogger.L(ctx).Warn("failed to close session log", slog.String("session", id), slog.Any("error", err))
		}
	}()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	slogger.L(ctx).Debug("created preview session", slog.String("id", id), slog.String("name", name))
	return s, nil
}

// Get returns a session of this process by ID or name.
func (m *Manager) Get(idOrName string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[idOrName]; ok {
		return s, nil
	}
	for _, s := range m.sessions {
		if s.Name() == idOrName {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

// Remove closes a session and forgets it. Its catalog record and log stay.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	if ok && m.active == s {
		m.releaseLocked()
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return s.Close(ctx)
}

// Close closes every session and waits for their records to settle.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.releaseLocked()
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close session %s: %w", s.ID(), err))
		}
	}
	m.wg.Wait()
	return errors.Join(errs...)
}

// claim makes s the owner of the runtime, preempting the previous owner.
func (m *Manager) claim(ctx context.Context, s *Session) error {
	m.mu.Lock()
	prev := m.active
	if prev == s {
		m.mu.Unlock()
		return nil
	}
	if _, ok := m.sessions[s.ID()]; !ok {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.lock != nil {
		if err := m.lock.acquire(); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	m.active = s
	m.mu.Unlock()

	if prev != nil {
		slogger.L(ctx).Info("preview replaced on the runtime",
			slog.String("session", prev.Name()), slog.String("by", s.Name()))
		prev.preempt(ctx, s.Name())
	}
	return nil
}

func (m *Manager) releaseLocked() {
	m.active = nil
	if m.lock != nil {
		m.lock.release()
	}
}

// ownedRuntime is the Acquirer handed to managed sessions: every
// acquisition first claims the runtime for its session.
type ownedRuntime struct {
	m *Manager
	s *Session
}

func (o *ownedRuntime) Acquire(ctx context.Context) (isolate.Instance, error) {
	if err := o.m.claim(ctx, o.s); err != nil {
		return nil, err
	}
	return o.m.runtime.Acquire(ctx)
}

// runtimeLock is an advisory flock held while this process owns the
// runtime. Callers serialize through Manager.mu.
type runtimeLock struct {
	path string
	file *os.File
}

func (l *runtimeLock) acquire() error {
	if l.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open runtime lock: %w", err)
	}
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close() //nolint:errcheck // lock was not taken
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrRuntimeBusy
		}
		return fmt.Errorf("lock runtime: %w", err)
	}
	l.file = file
	return nil
}

func (l *runtimeLock) release() {
	if l.file == nil {
		return
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN) //nolint:errcheck // closing releases it too
	_ = l.file.Close()                                   //nolint:errcheck // nothing was written
	l.file = nil
}

// record mirrors phase changes into the catalog until the session closes.
// It stores the session's current state rather than the event, so an event
// dropped under load is repaired by the next one.
func (m *Manager) record(ctx context.Context, s *Session, events <-chan Event) {
	for ev := range events {
		if ev.Type != EventPhase {
			continue
		}
		m.sync(ctx, s, false)
	}
	m.sync(ctx, s, true)
}

func (m *Manager) sync(ctx context.Context, s *Session, closed bool) {
	snap := s.Snapshot()
	err := m.store.UpdateSession(ctx, snap.ID, func(rec *catalog.Session) {
		rec.Phase = string(snap.Phase)
		rec.URL = snap.URL
		rec.Error = snap.Error
		if closed {
			rec.Phase = RecordClosed
			rec.URL = ""
		}
		rec.UpdatedAt = m.now()
	})
	if err != nil {
		slogger.L(ctx).Warn("failed to record session phase", slog.String("session", snap.ID), slog.Any("error", err))
	}
}
