package container

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jmgilman/canvas/internal/exec"
)

// inspectParser turns `<cli> inspect` output into a Container.
type inspectParser interface {
	parseInspect(data []byte) (*Container, error)
}

// cliRuntime implements Runtime on top of a docker-compatible CLI.
// Docker and Podman differ only in binary name, default run flags and inspect format.
type cliRuntime struct {
	exec       exec.Executor
	binaryName string
	runFlags   []string
	parser     inspectParser
}

// cliError formats an error from a container CLI, including stderr if available.
func cliError(operation string, result *exec.Result, err error) error {
	if result != nil {
		stderr := strings.TrimSpace(string(result.Stderr))
		if stderr != "" {
			return fmt.Errorf("%s: %s: %w", operation, stderr, err)
		}
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func stderrOf(result *exec.Result) string {
	if result == nil {
		return ""
	}
	return strings.ToLower(string(result.Stderr))
}

func (r *cliRuntime) Run(ctx context.Context, cfg *RunConfig) (*Container, error) {
	args := buildRunArgs(cfg, r.runFlags)

	result, err := r.exec.Run(ctx, &exec.RunOptions{
		Name: r.binaryName,
		Args: args,
	})
	if err != nil {
		if isAlreadyExistsError(stderrOf(result)) {
			return nil, ErrAlreadyExists
		}
		return nil, cliError("run container", result, err)
	}

	// Container ID is returned on stdout
	containerID := strings.TrimSpace(string(result.Stdout))

	return &Container{
		ID:        containerID,
		Name:      cfg.Name,
		Image:     cfg.Image,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
	}, nil
}

func (r *cliRuntime) Exec(ctx context.Context, id string, cfg *ExecConfig) error {
	if err := r.requireRunning(ctx, id); err != nil {
		return err
	}

	result, err := r.exec.Run(ctx, &exec.RunOptions{
		Name:   r.binaryName,
		Args:   buildExecArgs(id, cfg),
		Stdout: writerOrDiscard(cfg.Stdout),
		Stderr: writerOrDiscard(cfg.Stderr),
	})
	if err != nil {
		return cliError("exec in container", result, err)
	}

	return nil
}

func (r *cliRuntime) Spawn(ctx context.Context, id string, cfg *ExecConfig) (exec.Process, error) {
	if err := r.requireRunning(ctx, id); err != nil {
		return nil, err
	}

	proc, err := r.exec.Start(ctx, &exec.RunOptions{
		Name:   r.binaryName,
		Args:   buildExecArgs(id, cfg),
		Stdout: writerOrDiscard(cfg.Stdout),
		Stderr: writerOrDiscard(cfg.Stderr),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn in container: %w", err)
	}

	return proc, nil
}

func (r *cliRuntime) Stop(ctx context.Context, id string) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	// No-op if already stopped
	if c.Status == StatusStopped {
		return nil
	}

	result, err := r.exec.Run(ctx, &exec.RunOptions{
		Name: r.binaryName,
		Args: []string{"stop", id},
	})
	if err != nil {
		return cliError("stop container", result, err)
	}

	return nil
}

func (r *cliRuntime) Start(ctx context.Context, id string) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	// No-op if already running
	if c.Status == StatusRunning {
		return nil
	}

	result, err := r.exec.Run(ctx, &exec.RunOptions{
		Name: r.binaryName,
		Args: []string{"start", id},
	})
	if err != nil {
		return cliError("start container", result, err)
	}

	return nil
}

func (r *cliRuntime) Remove(ctx context.Context, id string) error {
	result, err := r.exec.Run(ctx, &exec.RunOptions{
		Name: r.binaryName,
		Args: []string{"rm", "--force", id},
	})
	if err != nil {
		if isNotFoundError(stderrOf(result)) {
			return ErrNotFound
		}
		return cliError("remove container", result, err)
	}

	return nil
}

func (r *cliRuntime) Get(ctx context.Context, id string) (*Container, error) {
	result, err := r.exec.Run(ctx, &exec.RunOptions{
		Name: r.binaryName,
		Args: []string{"inspect", "--type", "container", id},
	})
	if err != nil {
		if isNotFoundError(stderrOf(result)) {
			return nil, ErrNotFound
		}
		return nil, cliError("inspect container", result, err)
	}

	return r.parser.parseInspect(result.Stdout)
}

func (r *cliRuntime) requireRunning(ctx context.Context, id string) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != StatusRunning {
		return ErrNotRunning
	}
	return nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// buildRunArgs constructs the common container run arguments.
func buildRunArgs(cfg *RunConfig, runtimeFlags []string) []string {
	args := []string{"run", "--detach", "--name", cfg.Name}
	args = append(args, runtimeFlags...)

	// Merged flags (image labels + config) come after the runtime defaults
	args = append(args, cfg.Flags...)

	for _, m := range cfg.Mounts {
		mountSpec := fmt.Sprintf("%s:%s", m.Source, m.Target)
		if m.ReadOnly {
			mountSpec += ":ro"
		}
		args = append(args, "-v", mountSpec)
	}

	for _, p := range cfg.Ports {
		args = append(args, "-p", strconv.Itoa(p.Host)+":"+strconv.Itoa(p.Container))
	}

	for _, e := range cfg.Env {
		args = append(args, "-e", e)
	}

	if cfg.Workdir != "" {
		args = append(args, "-w", cfg.Workdir)
	}

	args = append(args, cfg.Image)

	initCmd := cfg.Init
	if initCmd == "" {
		initCmd = "sleep infinity"
	}
	args = append(args, strings.Fields(initCmd)...)

	return args
}

// buildExecArgs constructs the common container exec arguments.
func buildExecArgs(id string, cfg *ExecConfig) []string {
	args := []string{"exec"}

	if cfg.Workdir != "" {
		args = append(args, "-w", cfg.Workdir)
	}

	for _, e := range cfg.Env {
		args = append(args, "-e", e)
	}

	args = append(args, id)
	args = append(args, cfg.Command...)

	return args
}

// parseContainerStatus converts CLI status strings to Status constants.
func parseContainerStatus(cliStatus string) Status {
	switch strings.ToLower(cliStatus) {
	case cliStatusRunning:
		return StatusRunning
	case cliStatusStopped, cliStatusExited, cliStatusCreated:
		return StatusStopped
	default:
		return StatusUnknown
	}
}

// parseCreated accepts RFC3339Nano and falls back to RFC3339.
func parseCreated(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}

// isAlreadyExistsError checks if stderr indicates container already exists.
func isAlreadyExistsError(stderr string) bool {
	return strings.Contains(stderr, "already in use") || strings.Contains(stderr, "already exists")
}

// isNotFoundError checks if stderr indicates container not found.
func isNotFoundError(stderr string) bool {
	return strings.Contains(stderr, "no such") ||
		strings.Contains(stderr, "no container") ||
		strings.Contains(stderr, "not found")
}
