// Package preview drives a live preview of a generated component: it boots
// the isolated runtime, mounts the synthesized project, installs
// dependencies and starts the dev server, exposing the phase, an
// append-only log and the resulting URL.
package preview

import (
	"errors"
	"fmt"
	"time"
)

// Phase is a step of the preview lifecycle.
type Phase string

// Lifecycle phases. PhaseError is reachable from every phase but idle;
// Retry is allowed from PhaseReady and PhaseError only.
const (
	PhaseIdle       Phase = "idle"
	PhaseBooting    Phase = "booting"
	PhaseInstalling Phase = "installing"
	PhaseStarting   Phase = "starting"
	PhaseReady      Phase = "ready"
	PhaseError      Phase = "error"
)

// StreamCanvas labels lifecycle milestones in the log, next to the process
// streams "stdout" and "stderr".
const StreamCanvas = "canvas"

// Default lifecycle timings.
const (
	DefaultTimeout      = 60 * time.Second
	DefaultRefreshDelay = 500 * time.Millisecond
)

// Sentinel errors for session operations.
var (
	ErrClosed          = errors.New("preview session closed")
	ErrReplaced        = errors.New("preview replaced by another session")
	ErrRetryNotAllowed = errors.New("retry is only allowed once the preview is ready or failed")
)

// Steps reported by ExitError.
const (
	StepInstall = "install"
	StepStart   = "start"
	StepServe   = "serve"
)

// ExitError reports a lifecycle process that exited unexpectedly.
type ExitError struct {
	Step string
	Code int
}

func (e *ExitError) Error() string {
	switch e.Step {
	case StepInstall:
		return fmt.Sprintf("Installation failed with exit code %d", e.Code)
	case StepServe:
		return fmt.Sprintf("Dev server stopped (exit code %d)", e.Code)
	default:
		return fmt.Sprintf("Dev server exited with code %d before it was ready", e.Code)
	}
}

// TimeoutError reports a dev server that never announced readiness.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	after := e.After.String()
	if e.After >= time.Second && e.After%time.Second == 0 {
		after = fmt.Sprintf("%ds", e.After/time.Second)
	}
	return "Dev server did not become ready within " + after
}

// EventType identifies an Event.
type EventType string

// Event types.
const (
	EventPhase   EventType = "phase"
	EventLog     EventType = "log"
	EventRefresh EventType = "refresh"
)

// Event is delivered to subscribers in the order it happened.
type Event struct {
	Type  EventType `json:"type"`
	Phase Phase     `json:"phase,omitempty"` // EventPhase
	Line  string    `json:"line,omitempty"`  // EventLog
	URL   string    `json:"url,omitempty"`   // EventRefresh, and EventPhase once ready
	Error string    `json:"error,omitempty"` // EventPhase on error
}

// Config configures preview sessions.
type Config struct {
	InstallCommand []string
	DevCommand     []string

	// Timeout bounds the wait for the dev server to become ready.
	Timeout time.Duration

	// RefreshDelay is how long Update waits after re-mounting before it
	// asks viewers to refresh, giving hot reload time to settle.
	RefreshDelay time.Duration
}

// DefaultConfig returns the npm and Vite based lifecycle.
func DefaultConfig() Config {
	return Config{
		InstallCommand: []string{"npm", "install", "--no-audit", "--no-fund"},
		DevCommand:     []string{"npm", "run", "dev"},
		Timeout:        DefaultTimeout,
		RefreshDelay:   DefaultRefreshDelay,
	}
}

// Snapshot is a point-in-time copy of a session's observable state.
type Snapshot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Language string   `json:"language"`
	Phase    Phase    `json:"phase"`
	URL      string   `json:"url,omitempty"`
	Error    string   `json:"error,omitempty"`
	Logs     []string `json:"logs"`
}
