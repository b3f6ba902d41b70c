// Package container provides an abstraction over container runtime operations.
package container

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jmgilman/canvas/internal/exec"
)

// Sentinel errors for container operations.
var (
	ErrNotFound      = errors.New("container not found")
	ErrNotRunning    = errors.New("container not running")
	ErrAlreadyExists = errors.New("container already exists")
)

// Status represents the container state.
type Status string

// Status constants represent possible container states.
const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
	StatusUnknown Status = "unknown"
)

// CLI status strings used by container runtimes.
const (
	cliStatusRunning = "running"
	cliStatusExited  = "exited"
	cliStatusStopped = "stopped"
	cliStatusCreated = "created"
)

// Container holds container metadata.
type Container struct {
	ID        string
	Name      string
	Image     string
	Status    Status
	CreatedAt time.Time
}

// Mount defines a host-to-container volume mount.
type Mount struct {
	Source   string // Host path
	Target   string // Container path
	ReadOnly bool
}

// Port publishes a container port on the host.
type Port struct {
	Host      int
	Container int
}

// RunConfig configures container creation.
type RunConfig struct {
	Name    string   // Container name (required)
	Image   string   // OCI image reference (required)
	Mounts  []Mount  // Volume mounts
	Ports   []Port   // Published ports
	Env     []string // Environment variables (KEY=VALUE format)
	Workdir string   // Default working directory
	Init    string   // Command run as PID 1 (default: "sleep infinity")
	Flags   []string // Extra runtime flags, already merged by the caller
}

// ExecConfig configures command execution in a container.
type ExecConfig struct {
	Command []string  // Command and arguments (required)
	Env     []string  // Additional environment variables
	Workdir string    // Working directory (empty = container default)
	Stdout  io.Writer // Receives stdout; nil discards it
	Stderr  io.Writer // Receives stderr; nil discards it
}

// Runtime provides container lifecycle operations.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/runtime.go . Runtime
type Runtime interface {
	// Run creates and starts a new container.
	// Returns ErrAlreadyExists if a container with the same name exists.
	Run(ctx context.Context, cfg *RunConfig) (*Container, error)

	// Exec runs a command in a running container and blocks until it exits.
	// A non-zero exit is reported as an error carrying the exit code (see exec.ExitCode).
	// Returns ErrNotFound if container doesn't exist.
	// Returns ErrNotRunning if container is stopped.
	Exec(ctx context.Context, id string, cfg *ExecConfig) error

	// Spawn starts a command in a running container without waiting for it.
	// Output streams to the configured writers until the process exits.
	Spawn(ctx context.Context, id string, cfg *ExecConfig) (exec.Process, error)

	// Stop stops a running container gracefully.
	// No-op if already stopped.
	// Returns ErrNotFound if container doesn't exist.
	Stop(ctx context.Context, id string) error

	// Start starts a stopped container.
	// No-op if already running.
	// Returns ErrNotFound if container doesn't exist.
	Start(ctx context.Context, id string) error

	// Remove force-deletes a container.
	// Returns ErrNotFound if container doesn't exist.
	Remove(ctx context.Context, id string) error

	// Get retrieves container information by ID or name.
	// Returns ErrNotFound if container doesn't exist.
	Get(ctx context.Context, id string) (*Container, error)
}
