package isolate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/canvas/internal/catalog"
	"github.com/jmgilman/canvas/internal/container"
	"github.com/jmgilman/canvas/internal/exec"
	"github.com/jmgilman/canvas/internal/flags"
	"github.com/jmgilman/canvas/internal/project"
	"github.com/jmgilman/canvas/internal/registry"
	"github.com/jmgilman/canvas/internal/slogger"
)

// WorkspaceDir is where the host workspace is mounted in the container.
const WorkspaceDir = "/workspace"

// stopTimeout bounds stopping a spawned command inside the container.
const stopTimeout = 10 * time.Second

// preserved entries survive a re-mount so installs stay incremental.
var preserved = []string{"node_modules", "package-lock.json"}

// containerRuntime is the subset of container.Runtime used here.
type containerRuntime interface {
	Run(ctx context.Context, cfg *container.RunConfig) (*container.Container, error)
	Exec(ctx context.Context, id string, cfg *container.ExecConfig) error
	Spawn(ctx context.Context, id string, cfg *container.ExecConfig) (exec.Process, error)
	Start(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*container.Container, error)
}

// catalogStore is the subset of catalog.Store used here.
type catalogStore interface {
	GetRuntime(ctx context.Context, name string) (*catalog.Runtime, error)
	PutRuntime(ctx context.Context, rt catalog.Runtime) error
	RemoveRuntime(ctx context.Context, name string) error
}

// imageInspector reads image metadata from a registry.
type imageInspector interface {
	Inspect(ctx context.Context, ref string) (*registry.Image, error)
}

// ContainerConfig configures the runtime container.
type ContainerConfig struct {
	Engine    string      // docker or podman, recorded in the catalog
	Name      string      // Fixed container name (e.g., "canvas-runtime")
	Image     string      // Runtime image reference
	Port      int         // Host port the dev server is published on
	Workspace string      // Host directory mounted at WorkspaceDir
	Flags     flags.Flags // Run flags from configuration, override image labels
}

// ContainerBooter boots the runtime as a long-lived container.
//
// The container and its catalog record outlive the process, so a later
// invocation adopts the running container instead of creating a second one.
type ContainerBooter struct {
	runtime containerRuntime
	store   catalogStore
	images  imageInspector
	cfg     ContainerConfig
	now     func() time.Time
}

// NewContainerBooter creates a ContainerBooter. images may be nil to skip
// registry lookups.
func NewContainerBooter(rt containerRuntime, store catalogStore, images imageInspector, cfg ContainerConfig) *ContainerBooter {
	return &ContainerBooter{
		runtime: rt,
		store:   store,
		images:  images,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Boot adopts the recorded container if it still exists, starting it when
// stopped, and otherwise creates a new one.
func (b *ContainerBooter) Boot(ctx context.Context) (Instance, error) {
	if err := os.MkdirAll(b.cfg.Workspace, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	inst, err := b.Attach(ctx)
	if err == nil {
		return inst, nil
	}
	if !errors.Is(err, ErrNotBooted) {
		return nil, err
	}

	return b.create(ctx)
}

// Attach returns the recorded runtime container without creating one.
// A stopped container is started. Returns ErrNotBooted when there is no
// usable container.
func (b *ContainerBooter) Attach(ctx context.Context) (Instance, error) {
	rec, err := b.store.GetRuntime(ctx, b.cfg.Name)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrNotBooted
	}
	if err != nil {
		return nil, fmt.Errorf("get runtime record: %w", err)
	}
	if rec.ContainerID == "" {
		return nil, ErrNotBooted
	}

	c, err := b.runtime.Get(ctx, rec.ContainerID)
	if errors.Is(err, container.ErrNotFound) {
		slogger.L(ctx).Debug("recorded runtime container is gone", slog.String("id", rec.ContainerID))
		return nil, ErrNotBooted
	}
	if err != nil {
		return nil, fmt.Errorf("get container: %w", err)
	}

	return b.adopt(ctx, c, rec.Workspace, rec.Port)
}

func (b *ContainerBooter) adopt(ctx context.Context, c *container.Container, workspace string, port int) (Instance, error) {
	if c.Status != container.StatusRunning {
		if err := b.runtime.Start(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("start container: %w", err)
		}
	}

	if workspace == "" {
		workspace = b.cfg.Workspace
	}
	if port == 0 {
		port = b.cfg.Port
	}

	rec := b.record(c.ID, c.Image, "", workspace, port, catalog.StatusRunning)
	if prev, err := b.store.GetRuntime(ctx, b.cfg.Name); err == nil {
		rec.Digest = prev.Digest
		rec.CreatedAt = prev.CreatedAt
	}
	if err := b.store.PutRuntime(ctx, rec); err != nil {
		return nil, fmt.Errorf("update runtime record: %w", err)
	}

	slogger.L(ctx).Debug("adopted runtime container", slog.String("id", c.ID))
	return b.instance(c.ID, workspace, port), nil
}

func (b *ContainerBooter) create(ctx context.Context) (Instance, error) {
	log := slogger.L(ctx)

	image := b.cfg.Image
	digest := ""
	runFlags := b.cfg.Flags
	if b.images != nil {
		img, err := b.images.Inspect(ctx, b.cfg.Image)
		if err != nil {
			log.Warn("could not inspect runtime image, using it as configured",
				slog.String("image", b.cfg.Image), slog.Any("error", err))
		} else {
			image = img.Pinned
			digest = img.Digest
			runFlags = flags.Merge(img.Flags, b.cfg.Flags)
		}
	}

	if err := b.store.PutRuntime(ctx, b.record("", b.cfg.Image, digest, b.cfg.Workspace, b.cfg.Port, catalog.StatusBooting)); err != nil {
		return nil, fmt.Errorf("record runtime: %w", err)
	}

	c, err := b.runtime.Run(ctx, &container.RunConfig{
		Name:  b.cfg.Name,
		Image: image,
		Mounts: []container.Mount{
			{Source: b.cfg.Workspace, Target: WorkspaceDir},
		},
		Ports:   []container.Port{{Host: b.cfg.Port, Container: project.DevServerPort}},
		Env:     []string{"NPM_CONFIG_UPDATE_NOTIFIER=false", "NPM_CONFIG_FUND=false"},
		Workdir: WorkspaceDir,
		Flags:   runFlags.Args(),
	})
	if errors.Is(err, container.ErrAlreadyExists) {
		// Created outside the catalog, e.g. by a run that crashed before recording it.
		existing, getErr := b.runtime.Get(ctx, b.cfg.Name)
		if getErr != nil {
			return nil, b.fail(ctx, fmt.Errorf("get existing container: %w", getErr))
		}
		return b.adopt(ctx, existing, b.cfg.Workspace, b.cfg.Port)
	}
	if err != nil {
		return nil, b.fail(ctx, fmt.Errorf("create container: %w", err))
	}

	if err := b.store.PutRuntime(ctx, b.record(c.ID, b.cfg.Image, digest, b.cfg.Workspace, b.cfg.Port, catalog.StatusRunning)); err != nil {
		_ = b.runtime.Remove(ctx, c.ID) //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("record runtime: %w", err)
	}

	log.Info("created runtime container", slog.String("id", c.ID), slog.String("image", image))
	return b.instance(c.ID, b.cfg.Workspace, b.cfg.Port), nil
}

// fail marks the runtime record as errored and returns err.
func (b *ContainerBooter) fail(ctx context.Context, err error) error {
	rec := b.record("", b.cfg.Image, "", b.cfg.Workspace, b.cfg.Port, catalog.StatusError)
	_ = b.store.PutRuntime(ctx, rec) //nolint:errcheck // best-effort status update
	return err
}

func (b *ContainerBooter) record(id, image, digest, workspace string, port int, status catalog.Status) catalog.Runtime {
	return catalog.Runtime{
		Name:        b.cfg.Name,
		Engine:      b.cfg.Engine,
		ContainerID: id,
		Image:       image,
		Digest:      digest,
		Workspace:   workspace,
		Port:        port,
		Status:      status,
		CreatedAt:   b.now(),
	}
}

func (b *ContainerBooter) instance(id, workspace string, port int) *containerInstance {
	return &containerInstance{
		runtime:   b.runtime,
		store:     b.store,
		id:        id,
		name:      b.cfg.Name,
		workspace: workspace,
		hostPort:  port,
		listeners: make(map[int]func(string)),
	}
}

// containerInstance is a runtime container.
type containerInstance struct {
	runtime   containerRuntime
	store     catalogStore
	id        string
	name      string
	workspace string
	hostPort  int

	mu        sync.Mutex
	listeners map[int]func(string)
	nextID    int
}

func (i *containerInstance) ID() string {
	return i.id
}

// Mount clears the workspace, keeping installed packages, and writes tree.
func (i *containerInstance) Mount(ctx context.Context, tree project.FileTree) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(i.workspace)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read workspace: %w", err)
	}
	for _, e := range entries {
		if slices.Contains(preserved, e.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(i.workspace, e.Name())); err != nil {
			return fmt.Errorf("clear workspace: %w", err)
		}
	}

	if err := tree.WriteTo(i.workspace); err != nil {
		return fmt.Errorf("mount project: %w", err)
	}
	slogger.L(ctx).Debug("mounted project", slog.String("workspace", i.workspace), slog.Int("files", len(tree.Files())))
	return nil
}

func (i *containerInstance) Spawn(ctx context.Context, cfg SpawnConfig) (exec.Process, error) {
	var once sync.Once
	observe := func(stream string) func(string) {
		return func(line string) {
			if url, ok := readyURL(line, i.hostPort); ok {
				once.Do(func() { i.emitReady(url) })
			}
			if cfg.OnLine != nil {
				cfg.OnLine(stream, line)
			}
		}
	}

	stdout := newLineWriter(observe(StreamStdout))
	stderr := newLineWriter(observe(StreamStderr))

	// Killing the exec client leaves the command running in the container,
	// so the shell records its pid for stop.
	pidFile := "/tmp/canvas-" + uuid.NewString() + ".pid"
	command := append([]string{"sh", "-c", `echo $$ > "$0"; exec "$@"`, pidFile}, cfg.Command...)

	proc, err := i.runtime.Spawn(ctx, i.id, &container.ExecConfig{
		Command: command,
		Env:     cfg.Env,
		Workdir: WorkspaceDir,
		Stdout:  stdout,
		Stderr:  stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %v: %w", cfg.Command, err)
	}

	return &spawnedProcess{
		Process: proc,
		flush: func() {
			stdout.Flush()
			stderr.Flush()
		},
		stop: func() error {
			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
			defer cancel()
			err := i.runtime.Exec(stopCtx, i.id, &container.ExecConfig{
				Command: []string{"sh", "-c", `[ -f "$0" ] && kill -TERM "$(cat "$0")" 2>/dev/null; rm -f "$0"`, pidFile},
			})
			if err != nil && !errors.Is(err, container.ErrNotFound) && !errors.Is(err, container.ErrNotRunning) {
				return fmt.Errorf("stop %v: %w", cfg.Command, err)
			}
			return nil
		},
	}, nil
}

func (i *containerInstance) OnServerReady(fn func(url string)) func() {
	i.mu.Lock()
	defer i.mu.Unlock()

	id := i.nextID
	i.nextID++
	i.listeners[id] = fn

	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		delete(i.listeners, id)
	}
}

func (i *containerInstance) emitReady(url string) {
	i.mu.Lock()
	fns := make([]func(string), 0, len(i.listeners))
	for _, id := range slices.Sorted(maps.Keys(i.listeners)) {
		fns = append(fns, i.listeners[id])
	}
	i.mu.Unlock()

	for _, fn := range fns {
		fn(url)
	}
}

// Teardown removes the container and its catalog record.
func (i *containerInstance) Teardown(ctx context.Context) error {
	if err := i.runtime.Remove(ctx, i.id); err != nil && !errors.Is(err, container.ErrNotFound) {
		return fmt.Errorf("remove container: %w", err)
	}
	if err := i.store.RemoveRuntime(ctx, i.name); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("remove runtime record: %w", err)
	}
	return nil
}
