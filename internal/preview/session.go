package preview

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/canvas/internal/exec"
	"github.com/jmgilman/canvas/internal/isolate"
	"github.com/jmgilman/canvas/internal/logclean"
	"github.com/jmgilman/canvas/internal/project"
	"github.com/jmgilman/canvas/internal/slogger"
)

// subscriberBuffer is the per-subscriber event backlog. Events beyond it are
// dropped for that subscriber; Snapshot always has the full state.
const subscriberBuffer = 256

// Acquirer hands out the shared runtime instance.
type Acquirer interface {
	Acquire(ctx context.Context) (isolate.Instance, error)
}

// LineWriter receives every log line, e.g. a logging.TeeWriter.
type LineWriter interface {
	WriteLine(stream, line string) error
}

// Options identifies a session.
type Options struct {
	ID   string     // Generated when empty
	Name string     // Human-readable name
	Log  LineWriter // Optional copy of the log
}

// Session is one artifact's preview lifecycle. It is safe for concurrent use.
//
// Every lifecycle run is tagged with a generation. Retry and Close start a
// new generation, after which the old run can no longer change the session.
type Session struct {
	id      string
	name    string
	runtime Acquirer
	cfg     Config
	out     LineWriter

	mu       sync.Mutex
	phase    Phase
	url      string
	errMsg   string
	logs     []string
	code     string
	language string
	title    string
	running  bool
	replaced bool
	closed   bool
	gen      int
	proc     exec.Process
	subs     map[int]chan Event
	nextSub  int
}

// NewSession creates an idle session.
func NewSession(rt Acquirer, cfg Config, opts Options) *Session {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RefreshDelay < 0 {
		cfg.RefreshDelay = 0
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}

	return &Session{
		id:      opts.ID,
		name:    opts.Name,
		runtime: rt,
		cfg:     cfg,
		out:     opts.Log,
		phase:   PhaseIdle,
		logs:    []string{},
		subs:    make(map[int]chan Event),
	}
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Name returns the session name.
func (s *Session) Name() string { return s.name }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// URL returns the dev server URL once ready.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Err returns the error message of the error phase.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Logs returns a copy of the log so far.
func (s *Session) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.logs)
}

// Snapshot returns the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:       s.id,
		Name:     s.name,
		Title:    s.title,
		Language: s.language,
		Phase:    s.phase,
		URL:      s.url,
		Error:    s.errMsg,
		Logs:     slices.Clone(s.logs),
	}
}

// Subscribe returns a channel of events from now on and a func that ends the
// subscription. The channel is closed by the cancel func or by Close.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Start runs the lifecycle for code and blocks until the session is ready
// or failed. It only acts on an idle session; while a run is in progress or
// after one has finished it returns nil without doing anything.
func (s *Session) Start(ctx context.Context, code, language, title string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.running || s.phase != PhaseIdle {
		s.mu.Unlock()
		return nil
	}
	s.code, s.language, s.title = code, language, title
	gen := s.beginLocked()
	s.mu.Unlock()

	return s.run(ctx, gen)
}

// Retry restarts the lifecycle from booting with the latest source.
// It is only allowed from PhaseReady or PhaseError.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if s.phase != PhaseReady && s.phase != PhaseError {
		s.mu.Unlock()
		return ErrRetryNotAllowed
	}
	proc := s.proc
	s.proc = nil
	gen := s.beginLocked()
	s.mu.Unlock()

	_ = s.kill(ctx, proc) //nolint:errcheck // logged by kill
	return s.run(ctx, gen)
}

// Update replaces the source. While ready, the project is re-mounted in
// place and, after the refresh delay, an EventRefresh carrying the known URL
// is published. In any other phase the new source is used by the next run.
func (s *Session) Update(ctx context.Context, code string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.code = code
	phase, language, gen := s.phase, s.language, s.gen
	s.mu.Unlock()

	if phase != PhaseReady {
		return nil
	}

	inst, err := s.runtime.Acquire(ctx)
	if err == nil {
		err = s.mount(ctx, inst, code, language)
	}
	if err != nil {
		s.fail(gen, err)
		return err
	}
	s.note(gen, "Source changed, project re-mounted")

	timer := time.NewTimer(s.cfg.RefreshDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.phase == PhaseReady {
		s.emitLocked(Event{Type: EventRefresh, URL: s.url})
	}
	return nil
}

// Close ends the session: the running process is killed, subscriptions are
// closed and later calls fail with ErrClosed.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.gen++
	s.running = false
	s.phase = PhaseIdle
	s.url = ""
	proc := s.proc
	s.proc = nil
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	return s.kill(ctx, proc)
}

// preempt fails the session because another session took over the shared
// runtime. Its process is killed and the in-flight run goes stale; Retry
// claims the runtime back.
func (s *Session) preempt(ctx context.Context, by string) {
	s.mu.Lock()
	if s.closed || (!s.running && s.phase == PhaseIdle) {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.running = false
	s.replaced = true
	s.phase = PhaseError
	s.url = ""
	s.errMsg = "Preview replaced by " + by
	s.appendLocked(StreamCanvas, "Error: "+s.errMsg)
	s.emitLocked(Event{Type: EventPhase, Phase: PhaseError, Error: s.errMsg})
	proc := s.proc
	s.proc = nil
	s.mu.Unlock()

	_ = s.kill(ctx, proc) //nolint:errcheck // logged by kill
}

// staleErr explains why a run lost its generation.
func (s *Session) staleErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaced && !s.closed {
		return ErrReplaced
	}
	return ErrClosed
}

func (s *Session) beginLocked() int {
	s.gen++
	s.running = true
	s.replaced = false
	s.url = ""
	s.errMsg = ""
	return s.gen
}

func (s *Session) run(ctx context.Context, gen int) error {
	err := s.lifecycle(ctx, gen)
	if err != nil && !s.fail(gen, err) {
		return s.staleErr()
	}
	return err
}

func (s *Session) lifecycle(ctx context.Context, gen int) error {
	if !s.setPhase(gen, PhaseBooting) {
		return s.staleErr()
	}
	s.note(gen, "Booting runtime")

	inst, err := s.runtime.Acquire(ctx)
	if err != nil {
		return err
	}

	code, language := s.source()
	if err := s.mount(ctx, inst, code, language); err != nil {
		return err
	}

	if !s.setPhase(gen, PhaseInstalling) {
		return s.staleErr()
	}
	s.note(gen, "Installing dependencies")
	if err := s.install(ctx, gen, inst); err != nil {
		return err
	}

	if !s.setPhase(gen, PhaseStarting) {
		return s.staleErr()
	}
	s.note(gen, "Starting dev server")
	return s.startDevServer(ctx, gen, inst)
}

func (s *Session) mount(ctx context.Context, inst isolate.Instance, code, language string) error {
	if err := inst.Mount(ctx, project.Build(code, language)); err != nil {
		return fmt.Errorf("mount project: %w", err)
	}
	return nil
}

func (s *Session) install(ctx context.Context, gen int, inst isolate.Instance) error {
	proc, err := inst.Spawn(ctx, isolate.SpawnConfig{
		Command: s.cfg.InstallCommand,
		OnLine:  s.output(gen),
	})
	if err != nil {
		return fmt.Errorf("start install: %w", err)
	}
	if !s.track(ctx, gen, proc) {
		return s.staleErr()
	}

	code, err := proc.Wait()
	s.untrack(proc)
	if code != 0 {
		return &ExitError{Step: StepInstall, Code: code}
	}
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}
	return nil
}

type waitResult struct {
	code int
	err  error
}

// startDevServer spawns the dev server and settles on whichever comes first:
// the readiness signal, a non-zero exit, or the timeout. The readiness
// listener is registered before the process is spawned.
func (s *Session) startDevServer(ctx context.Context, gen int, inst isolate.Instance) error {
	ready := make(chan string, 1)
	unsubscribe := inst.OnServerReady(func(url string) {
		select {
		case ready <- url:
		default:
		}
	})
	defer unsubscribe()

	proc, err := inst.Spawn(ctx, isolate.SpawnConfig{
		Command: s.cfg.DevCommand,
		OnLine:  s.output(gen),
	})
	if err != nil {
		return fmt.Errorf("start dev server: %w", err)
	}
	if !s.track(ctx, gen, proc) {
		return s.staleErr()
	}

	exited := make(chan waitResult, 1)
	go func() {
		code, err := proc.Wait()
		exited <- waitResult{code: code, err: err}
	}()

	timer := time.NewTimer(s.cfg.Timeout)
	defer timer.Stop()

	// A start command that exits 0 may have handed off to a background
	// server; only readiness or the timeout settles the race then.
	waiting := exited
	for {
		select {
		case url := <-ready:
			timer.Stop()
			if !s.markReady(gen, url) {
				return s.staleErr()
			}
			s.note(gen, "Dev server ready at "+url)
			if waiting != nil {
				go s.watch(gen, proc, exited)
			} else {
				s.untrack(proc)
			}
			return nil

		case res := <-waiting:
			if res.code == 0 {
				waiting = nil
				continue
			}
			s.untrack(proc)
			return &ExitError{Step: StepStart, Code: res.code}

		case <-timer.C:
			s.untrack(proc)
			_ = s.kill(ctx, proc) //nolint:errcheck // logged by kill
			return &TimeoutError{After: s.cfg.Timeout}

		case <-ctx.Done():
			s.untrack(proc)
			_ = s.kill(context.WithoutCancel(ctx), proc) //nolint:errcheck // logged by kill
			return ctx.Err()
		}
	}
}

// watch fails the session if the dev server exits after it was ready.
func (s *Session) watch(gen int, proc exec.Process, exited <-chan waitResult) {
	res := <-exited

	s.mu.Lock()
	current := s.gen == gen && s.proc == proc && s.phase == PhaseReady
	if current {
		s.proc = nil
	}
	s.mu.Unlock()

	if current {
		s.fail(gen, &ExitError{Step: StepServe, Code: res.code})
	}
}

// track records proc as the session's running process. A stale generation
// gets proc killed instead.
func (s *Session) track(ctx context.Context, gen int, proc exec.Process) bool {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		_ = s.kill(ctx, proc) //nolint:errcheck // logged by kill
		return false
	}
	s.proc = proc
	s.mu.Unlock()
	return true
}

func (s *Session) untrack(proc exec.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == proc {
		s.proc = nil
	}
}

func (s *Session) kill(ctx context.Context, proc exec.Process) error {
	if proc == nil {
		return nil
	}
	if err := proc.Kill(); err != nil {
		slogger.L(ctx).Warn("failed to stop preview process", slog.String("session", s.id), slog.Any("error", err))
		return fmt.Errorf("kill process: %w", err)
	}
	return nil
}

func (s *Session) source() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code, s.language
}

func (s *Session) setPhase(gen int, phase Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.phase = phase
	s.emitLocked(Event{Type: EventPhase, Phase: phase})
	return true
}

func (s *Session) markReady(gen int, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.phase = PhaseReady
	s.url = url
	s.running = false
	s.emitLocked(Event{Type: EventPhase, Phase: PhaseReady, URL: url})
	return true
}

// fail records err unless gen is stale, reporting whether it did.
func (s *Session) fail(gen int, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.phase = PhaseError
	s.errMsg = err.Error()
	s.running = false
	s.appendLocked(StreamCanvas, "Error: "+s.errMsg)
	s.emitLocked(Event{Type: EventPhase, Phase: PhaseError, Error: s.errMsg})
	return true
}

// output returns the SpawnConfig.OnLine callback for generation gen.
func (s *Session) output(gen int) func(stream, line string) {
	return func(stream, line string) {
		clean := logclean.Lines(line)
		if len(clean) == 0 {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		for _, l := range clean {
			s.appendLocked(stream, l)
		}
	}
}

func (s *Session) note(gen int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.appendLocked(StreamCanvas, msg)
	}
}

func (s *Session) appendLocked(stream, line string) {
	s.logs = append(s.logs, line)
	if s.out != nil {
		_ = s.out.WriteLine(stream, line) //nolint:errcheck // the in-memory log is authoritative
	}
	s.emitLocked(Event{Type: EventLog, Line: line})
}

func (s *Session) emitLocked(ev Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
