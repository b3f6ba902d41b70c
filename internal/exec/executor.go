package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"sync"
)

type executor struct{}

// New returns a new Executor that uses os/exec.
func New() Executor {
	return &executor{}
}

func (e *executor) Run(ctx context.Context, opts *RunOptions) (*Result, error) {
	cmd := e.command(ctx, opts)

	var stdoutBuf, stderrBuf bytes.Buffer
	if opts.Stdout == nil {
		cmd.Stdout = &stdoutBuf
	}
	if opts.Stderr == nil {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	result := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if opts.Stdout == nil {
		result.Stdout = stdoutBuf.Bytes()
	}
	if opts.Stderr == nil {
		result.Stderr = stderrBuf.Bytes()
	}

	return result, err
}

func (e *executor) Start(ctx context.Context, opts *RunOptions) (Process, error) {
	cmd := e.command(ctx, opts)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Name, err)
	}
	return &process{cmd: cmd}, nil
}

func (e *executor) LookPath(name string) (string, error) {
	return osexec.LookPath(name)
}

// command builds an exec.Cmd with the shared option handling of Run and Start.
func (e *executor) command(ctx context.Context, opts *RunOptions) *osexec.Cmd {
	// The caller is responsible for validating the command and arguments.
	cmd := osexec.CommandContext(ctx, opts.Name, opts.Args...) //nolint:gosec // Intentional subprocess execution

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}
	return cmd
}

// process is a started os/exec command.
type process struct {
	cmd  *osexec.Cmd
	once sync.Once
	code int
	err  error
}

func (p *process) Wait() (int, error) {
	p.once.Do(func() {
		p.err = p.cmd.Wait()
		p.code = p.cmd.ProcessState.ExitCode()
	})
	return p.code, p.err
}

func (p *process) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill process: %w", err)
	}
	return nil
}
