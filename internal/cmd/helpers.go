package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/jmgilman/canvas/internal/auth"
	"github.com/jmgilman/canvas/internal/catalog"
	"github.com/jmgilman/canvas/internal/config"
	"github.com/jmgilman/canvas/internal/container"
	"github.com/jmgilman/canvas/internal/exec"
	"github.com/jmgilman/canvas/internal/flags"
	"github.com/jmgilman/canvas/internal/isolate"
	"github.com/jmgilman/canvas/internal/keychain"
	"github.com/jmgilman/canvas/internal/logging"
	"github.com/jmgilman/canvas/internal/preview"
	"github.com/jmgilman/canvas/internal/registry"
	"github.com/jmgilman/canvas/internal/remote"
	"github.com/jmgilman/canvas/internal/slogger"
)

// runtimeNamePodman is the runtime name for Podman.
const runtimeNamePodman = "podman"

// services holds what the runtime-facing commands share.
type services struct {
	cfg     *config.Config
	store   catalog.Store
	logs    *logging.PathManager
	runtime *isolate.Manager
}

func requireConfig(ctx context.Context) (*config.Config, error) {
	cfg := ConfigFromContext(ctx)
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

// newServices wires the catalog, the container runtime and the isolated
// runtime manager from configuration.
func newServices(ctx context.Context) (*services, error) {
	cfg, err := requireConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkRuntime(cfg); err != nil {
		return nil, err
	}

	executor := exec.New()

	var rt container.Runtime
	switch cfg.Runtime.Name {
	case runtimeNamePodman:
		rt = container.NewPodmanRuntime(executor)
	default:
		rt = container.NewDockerRuntime(executor)
	}

	configFlags, err := flags.FromConfig(cfg.Runtime.Flags)
	if err != nil {
		return nil, fmt.Errorf("parse runtime flags: %w", err)
	}

	store := catalog.NewStore(cfg.Storage.Catalog)
	booter := isolate.NewContainerBooter(rt, store, registry.NewClient(registry.ClientConfig{}), isolate.ContainerConfig{
		Engine:    cfg.Runtime.Name,
		Name:      cfg.Runtime.Container,
		Image:     cfg.Runtime.Image,
		Port:      cfg.Runtime.Port,
		Workspace: cfg.Storage.Workspace,
		Flags:     configFlags,
	})

	slogger.L(ctx).Debug("runtime configured",
		"engine", cfg.Runtime.Name,
		"container", cfg.Runtime.Container,
		"image", cfg.Runtime.Image)

	return &services{
		cfg:     cfg,
		store:   store,
		logs:    logging.NewPathManager(cfg.Storage.Logs),
		runtime: isolate.NewManager(booter),
	}, nil
}

// previews creates a preview manager on the shared runtime.
func (s *services) previews() *preview.Manager {
	lock := filepath.Join(filepath.Dir(s.cfg.Storage.Catalog), "runtime.lock")
	return preview.NewManager(s.runtime, s.store, s.logs, previewConfig(s.cfg), preview.WithRuntimeLock(lock))
}

func previewConfig(cfg *config.Config) preview.Config {
	return preview.Config{
		InstallCommand: strings.Fields(cfg.Preview.InstallCommand),
		DevCommand:     strings.Fields(cfg.Preview.DevCommand),
		Timeout:        cfg.Preview.Timeout,
		RefreshDelay:   cfg.Preview.RefreshDelay,
	}
}

// openKeychain returns the keychain, or nil when none is available.
func openKeychain(ctx context.Context) keychain.Keychain {
	kc, err := keychain.New(keychain.Config{FileDir: filepath.Join(filepath.Dir(configPathOrDefault(ctx)), "keyring")})
	if err != nil {
		slogger.L(ctx).Debug("keychain unavailable", "error", err)
		return nil
	}
	return kc
}

func configPathOrDefault(ctx context.Context) string {
	if loader := LoaderFromContext(ctx); loader != nil {
		return loader.Path()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(config.DefaultConfigDir, config.DefaultConfigFile)
	}
	return filepath.Join(home, config.DefaultConfigDir, config.DefaultConfigFile)
}

func newResolver(ctx context.Context) *auth.Resolver {
	var configured string
	if cfg := ConfigFromContext(ctx); cfg != nil {
		configured = cfg.Remote.APIKey
	}
	return auth.NewResolver(configured, openKeychain(ctx))
}

// newExecutor wires the remote executor from configuration.
func newExecutor(ctx context.Context) (*remote.Executor, error) {
	cfg, err := requireConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Remote.URL == "" {
		return nil, errors.New("remote.url is not configured (run 'canvas config remote.url <url>')")
	}

	return remote.NewExecutor(newResolver(ctx), func(apiKey string) remote.Service {
		return remote.NewClient(cfg.Remote.URL, apiKey)
	}, remote.Config{
		Template: cfg.Remote.Template,
		Timeout:  cfg.Remote.Timeout,
	}), nil
}

// readSource reads a source file into a single-file artifact, inferring
// its language from the extension unless one is given. The title defaults
// to the path.
func readSource(path, language, title string) (*artifact.CodeArtifact, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided path is intended
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if language == "" {
		language = languageFromPath(path)
	}
	if language == "" {
		return nil, fmt.Errorf("cannot infer language of %s: use --language", path)
	}
	if title == "" {
		title = path
	}
	return artifact.New(title, language, artifact.File{
		Path:     filepath.Base(path),
		Content:  string(data),
		Language: language,
	})
}

func languageFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// formatTimeAgo formats a time as a human-readable relative time.
func formatTimeAgo(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	default:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/24/30))
	}
}
