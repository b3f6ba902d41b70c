// Package probe loads a running preview in a headless browser and captures
// what the page writes to its console.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/jmgilman/canvas/internal/slogger"
)

// DefaultSettle is how long the console is watched after the page loads.
const DefaultSettle = 2 * time.Second

// Config configures a Probe.
type Config struct {
	// ControlURL is the DevTools WebSocket URL of a running Chrome.
	// Empty launches a local headless Chrome.
	ControlURL string

	// Settle is how long to keep listening after the load event.
	Settle time.Duration
}

// Probe captures browser console output of a page.
type Probe struct {
	cfg Config
	now func() time.Time
}

// New creates a Probe.
func New(cfg Config) *Probe {
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	return &Probe{cfg: cfg, now: time.Now}
}

// Capture opens url and returns the console calls and uncaught exceptions
// seen until the page settles, in the order they happened.
func (p *Probe) Capture(ctx context.Context, url string) ([]artifact.ConsoleLog, error) {
	controlURL := p.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		defer l.Cleanup()
		controlURL = u
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			slogger.L(ctx).Debug("failed to close browser", slog.Any("error", err))
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	var (
		mu   sync.Mutex
		logs = []artifact.ConsoleLog{}
	)
	record := func(entry artifact.ConsoleLog) {
		mu.Lock()
		defer mu.Unlock()
		logs = append(logs, entry)
	}

	listenCtx, stop := context.WithCancel(ctx)
	defer stop()
	wait := page.Context(listenCtx).EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			record(consoleLog(string(e.Type), e.Args, p.now()))
		},
		func(e *proto.RuntimeExceptionThrown) {
			record(exceptionLog(e.ExceptionDetails, p.now()))
		},
	)
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	timer := time.NewTimer(p.cfg.Settle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	stop()
	<-done

	mu.Lock()
	defer mu.Unlock()
	return logs, nil
}

func consoleLog(kind string, args []*proto.RuntimeRemoteObject, at time.Time) artifact.ConsoleLog {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, formatArg(arg))
	}
	return artifact.ConsoleLog{
		Type:      artifact.ParseLogType(kind),
		Message:   strings.Join(parts, " "),
		Timestamp: at,
	}
}

func exceptionLog(details *proto.RuntimeExceptionDetails, at time.Time) artifact.ConsoleLog {
	msg := "Uncaught exception"
	if details != nil {
		msg = details.Text
		if details.Exception != nil && details.Exception.Description != "" {
			msg = details.Exception.Description
		}
	}
	return artifact.ConsoleLog{Type: artifact.LogTypeError, Message: msg, Timestamp: at}
}

// formatArg renders a console argument the way browser devtools print it.
func formatArg(obj *proto.RuntimeRemoteObject) string {
	switch {
	case obj == nil:
		return ""
	case obj.UnserializableValue != "":
		return string(obj.UnserializableValue)
	case obj.Type == proto.RuntimeRemoteObjectTypeUndefined:
		return "undefined"
	case obj.Type == proto.RuntimeRemoteObjectTypeObject || obj.Type == proto.RuntimeRemoteObjectTypeFunction:
		if obj.Subtype == proto.RuntimeRemoteObjectSubtypeNull {
			return "null"
		}
		if obj.Description != "" {
			return obj.Description
		}
	}
	if !obj.Value.Nil() {
		return obj.Value.Str()
	}
	return obj.Description
}
