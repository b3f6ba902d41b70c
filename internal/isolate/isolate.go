// Package isolate owns the single isolated runtime that previews run in.
//
// The runtime can mount a project tree, spawn processes with streamed output
// and report when a dev server inside it is ready. Only one runtime may be
// live at a time; Manager collapses concurrent acquisitions into one boot.
package isolate

import (
	"context"
	"errors"

	"github.com/jmgilman/canvas/internal/exec"
	"github.com/jmgilman/canvas/internal/project"
)

// ErrNotBooted is returned when no runtime has been booted.
var ErrNotBooted = errors.New("runtime not booted")

// Output stream names passed to SpawnConfig.OnLine.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// SpawnConfig configures a process started inside the runtime.
type SpawnConfig struct {
	Command []string // Command and arguments (required)
	Env     []string // Additional environment variables (KEY=VALUE format)

	// OnLine receives each output line without its trailing newline. Lines of
	// one stream arrive in order; the two streams may interleave.
	OnLine func(stream, line string)
}

// Instance is a booted isolated runtime.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/instance.go . Instance
type Instance interface {
	// ID identifies the runtime, for example its container ID.
	ID() string

	// Mount replaces the project files in the runtime's workspace with tree.
	Mount(ctx context.Context, tree project.FileTree) error

	// Spawn starts a command in the workspace. Output is delivered line by
	// line to cfg.OnLine until the process exits.
	Spawn(ctx context.Context, cfg SpawnConfig) (exec.Process, error)

	// OnServerReady registers fn to be called with the host URL each time a
	// spawned process announces a listening dev server. The returned func
	// removes the registration.
	OnServerReady(fn func(url string)) (unsubscribe func())

	// Teardown destroys the runtime.
	Teardown(ctx context.Context) error
}

// Booter creates a runtime.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/booter.go . Booter
type Booter interface {
	Boot(ctx context.Context) (Instance, error)
}

// Attacher finds a runtime that is already running without creating one.
// It returns ErrNotBooted when there is none.
type Attacher interface {
	Attach(ctx context.Context) (Instance, error)
}

// BootError reports a failed boot attempt. Every caller waiting on the
// attempt receives the same *BootError.
type BootError struct {
	Err error
}

func (e *BootError) Error() string {
	return "boot runtime: " + e.Err.Error()
}

func (e *BootError) Unwrap() error {
	return e.Err
}
