// Package exec provides an abstraction over executing external commands.
package exec

import (
	"context"
	"errors"
	"io"
	osexec "os/exec"
)

// Result holds the output from a completed command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// RunOptions configures command execution.
type RunOptions struct {
	Name   string    // Command name or path (required)
	Args   []string  // Command arguments
	Dir    string    // Working directory (empty = current)
	Env    []string  // Additional environment variables (KEY=VALUE format)
	Stdin  io.Reader // Stdin source (nil = no input)
	Stdout io.Writer // If set, streams stdout here instead of capturing
	Stderr io.Writer // If set, streams stderr here instead of capturing
}

// Process is a command started in the background.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/process.go . Process
type Process interface {
	// Wait blocks until the process exits and returns its exit code.
	// Safe to call more than once; later calls return the first result.
	Wait() (int, error)

	// Kill terminates the process. No-op if it already exited.
	Kill() error
}

// Executor runs external commands.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/executor.go . Executor
type Executor interface {
	// Run executes a command and returns its output.
	// If Stdout/Stderr writers are set in opts, output streams there and
	// Result.Stdout/Stderr will be nil.
	// Returns os/exec.ExitError on non-zero exit (use ExitCode to extract).
	Run(ctx context.Context, opts *RunOptions) (*Result, error)

	// Start launches a command without waiting for it to finish.
	// Stdout/Stderr must be set for output to be observed.
	Start(ctx context.Context, opts *RunOptions) (Process, error)

	// LookPath searches for an executable in PATH.
	LookPath(name string) (string, error)
}

// ExitCode extracts the exit code carried by err.
// Returns false if err does not describe a process exit.
func ExitCode(err error) (int, bool) {
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
