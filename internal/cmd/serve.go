package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jmgilman/canvas/internal/api"
	"github.com/jmgilman/canvas/internal/slogger"
	"github.com/jmgilman/canvas/internal/version"
	"github.com/spf13/cobra"
)

// Server timeouts. WriteTimeout is left unset so event streams stay open.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the preview and execution API over HTTP",
	Long: `Serve an HTTP API for creating previews and running code.

Preview sessions are created with POST /api/previews and observed through
GET /api/previews/{id} or the server-sent event stream at
GET /api/previews/{id}/events. Code runs in a remote sandbox with
POST /api/execute.

The shared runtime container keeps running after the server stops; use
'canvas stop' to remove it.`,
	Example: `  canvas serve
  canvas serve --addr 0.0.0.0:8787`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := newServices(ctx)
	if err != nil {
		return err
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("get addr flag: %w", err)
	}
	if addr == "" {
		addr = svc.cfg.Serve.Addr
	}

	executor, err := newExecutor(ctx)
	if err != nil {
		slogger.L(ctx).Warn("remote execution disabled", "error", err)
	}

	previews := svc.previews()
	var server *api.Server
	if executor != nil {
		server = api.New(ctx, previews, executor)
	} else {
		server = api.New(ctx, previews, nil)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slogger.L(ctx).Info("serving", "addr", addr, "version", version.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown server: %w", err))
	}
	if err := previews.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("close previews: %w", err))
	}
	server.Wait()

	slogger.L(ctx).Info("server stopped")
	return errors.Join(errs...)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (defaults to serve.addr)")
}
