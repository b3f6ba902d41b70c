// Package remote runs code snippets in single-use sandboxes provided by an
// external execution service.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/jmgilman/canvas/internal/auth"
	"github.com/jmgilman/canvas/internal/logclean"
	"github.com/jmgilman/canvas/internal/slogger"
)

// Supported languages.
const (
	Python     = "python"
	JavaScript = "javascript"
)

// Default timings.
const (
	DefaultTimeout  = 60 * time.Second
	teardownTimeout = 10 * time.Second
)

// DefaultTemplate is the sandbox template requested when none is configured.
const DefaultTemplate = "code-interpreter"

var aliases = map[string]string{
	"python":     Python,
	"py":         Python,
	"javascript": JavaScript,
	"js":         JavaScript,
}

// ErrNoAPIKey is reported when no execution service API key is configured.
var ErrNoAPIKey = errors.New("remote execution is not configured: set CANVAS_REMOTE_API_KEY or run 'canvas auth remote'")

// Language resolves a language name or alias, case-insensitively.
func Language(name string) (string, bool) {
	lang, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return lang, ok
}

// Service is the execution service API.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/service.go . Service
type Service interface {
	// Create provisions a sandbox under a client-chosen ID.
	Create(ctx context.Context, req CreateRequest) error

	// Execute runs code in the sandbox and returns what it produced.
	Execute(ctx context.Context, id string, req ExecuteRequest) (*Execution, error)

	// Delete destroys the sandbox. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// KeySource supplies the execution service API key, e.g. an auth.Resolver.
type KeySource interface {
	APIKey() (string, auth.Source, error)
}

// Connector returns a Service authenticated with apiKey.
type Connector func(apiKey string) Service

// Config configures an Executor.
type Config struct {
	Template string
	Timeout  time.Duration // Bounds provisioning and the run together
}

// Executor runs each snippet in its own sandbox and always destroys it
// afterwards. It is safe for concurrent use; executions share nothing.
type Executor struct {
	keys    KeySource
	connect Connector
	cfg     Config
	newID   func() string
	now     func() time.Time
}

// NewExecutor creates an Executor. The API key is resolved on every call.
func NewExecutor(keys KeySource, connect Connector, cfg Config) *Executor {
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Executor{
		keys:    keys,
		connect: connect,
		cfg:     cfg,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Execute runs code and reports the outcome. Every failure, including
// configuration problems and service errors, is reported in the result's
// Error field.
func (e *Executor) Execute(ctx context.Context, code, language string) artifact.ExecutionResult {
	lang, ok := Language(language)
	if !ok {
		return artifact.Failed(fmt.Sprintf("unsupported language for remote execution: %s (supported: %s, %s)", language, Python, JavaScript))
	}

	key, _, err := e.keys.APIKey()
	if err != nil {
		return artifact.Failed(err.Error())
	}
	if key == "" {
		return artifact.Failed(ErrNoAPIKey.Error())
	}

	out, err := e.run(ctx, e.connect(key), code, lang)
	if err != nil {
		slogger.L(ctx).Warn("remote execution failed", slog.String("language", lang), slog.Any("error", err))
		return artifact.Failed(err.Error())
	}
	return e.result(out)
}

func (e *Executor) run(ctx context.Context, svc Service, code, lang string) (*Execution, error) {
	id := e.newID()
	defer e.teardown(ctx, svc, id)

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	slogger.L(ctx).Debug("starting sandbox", slog.String("sandbox", id), slog.String("template", e.cfg.Template))
	if err := svc.Create(ctx, CreateRequest{ID: id, Template: e.cfg.Template}); err != nil {
		return nil, fmt.Errorf("start sandbox: %w", err)
	}

	out, err := svc.Execute(ctx, id, ExecuteRequest{Code: code, Language: lang})
	if err != nil {
		return nil, fmt.Errorf("run code: %w", err)
	}
	return out, nil
}

// teardown destroys the sandbox on a context of its own, so a cancelled
// caller still releases it. A failed Create may have left a sandbox
// behind, so teardown runs then as well.
func (e *Executor) teardown(ctx context.Context, svc Service, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()

	if err := svc.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		slogger.L(ctx).Warn("failed to destroy sandbox", slog.String("sandbox", id), slog.Any("error", err))
	}
}

func (e *Executor) result(out *Execution) artifact.ExecutionResult {
	stdout := trimLines(out.Stdout)
	stderr := trimLines(out.Stderr)

	res := artifact.ExecutionResult{
		Output: logclean.Sanitize(strings.Join(stdout, "\n")),
		Logs:   make([]artifact.ConsoleLog, 0, len(stdout)+len(stderr)),
	}

	switch {
	case len(stderr) > 0:
		res.Error = logclean.Sanitize(strings.Join(stderr, "\n"))
	case out.Error != nil:
		res.Error = logclean.Sanitize(out.Error.String())
	}

	now := e.now()
	for _, line := range stdout {
		res.Logs = append(res.Logs, artifact.ConsoleLog{Type: artifact.LogTypeLog, Message: logclean.Sanitize(line), Timestamp: now})
	}
	for _, line := range stderr {
		res.Logs = append(res.Logs, artifact.ConsoleLog{Type: artifact.LogTypeError, Message: logclean.Sanitize(line), Timestamp: now})
	}

	for _, r := range out.Results {
		if r.PNG != "" {
			res.Images = append(res.Images, r.PNG)
		}
		if r.JPEG != "" {
			res.Images = append(res.Images, r.JPEG)
		}
	}

	return res
}

// trimLines drops the newline each streamed chunk ends with.
func trimLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l, "\r\n")
	}
	return out
}
