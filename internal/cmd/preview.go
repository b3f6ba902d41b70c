package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/jmgilman/canvas/internal/preview"
	"github.com/jmgilman/canvas/internal/probe"
	"github.com/jmgilman/canvas/internal/slogger"
	"github.com/jmgilman/canvas/internal/spinner"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Preview a generated component",
	Long: `Preview a generated React component in the shared runtime container.

The component's imports are scanned to build package.json, the project is
mounted into the runtime, dependencies are installed and the Vite dev server
is started. The preview URL is printed once the server is ready and the
command keeps the session alive until interrupted.

With --watch, changes to the file are mounted into the running preview and
picked up by hot reload.`,
	Example: `  # Preview a component
  canvas preview Button.jsx

  # Re-mount on every save
  canvas preview Button.tsx --watch

  # Capture browser console output once ready
  canvas preview Chart.jsx --probe`,
	Args: cobra.ExactArgs(1),
	RunE: runPreviewCmd,
}

func runPreviewCmd(cmd *cobra.Command, args []string) error {
	path := args[0]

	language, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("get language flag: %w", err)
	}
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return fmt.Errorf("get title flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("get watch flag: %w", err)
	}
	capture, err := cmd.Flags().GetBool("probe")
	if err != nil {
		return fmt.Errorf("get probe flag: %w", err)
	}

	art, err := readSource(path, language, title)
	if err != nil {
		return err
	}
	code := art.Main().Content

	ctx := cmd.Context()
	svc, err := newServices(ctx)
	if err != nil {
		return err
	}

	mgr := svc.previews()
	defer func() {
		if closeErr := mgr.Close(context.WithoutCancel(ctx)); closeErr != nil {
			slogger.L(ctx).Warn("failed to close preview", "error", closeErr)
		}
	}()

	session, err := mgr.Create(ctx, art.Title, art.Language)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}

	url, err := startWithSpinner(ctx, session, code, art.Language, art.Title)
	if err != nil {
		return err
	}

	fmt.Printf("Preview %s ready at %s\n", session.Name(), url)

	if capture {
		if err := printConsole(ctx, url); err != nil {
			slogger.L(ctx).Warn("console capture failed", "error", err)
		}
	}

	if watch {
		return watchSource(ctx, session, path, code)
	}

	<-ctx.Done()
	return nil
}

// startWithSpinner runs Start while mirroring phases and log lines onto a
// spinner on stderr.
func startWithSpinner(ctx context.Context, session *preview.Session, code, language, title string) (string, error) {
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	spin := spinner.New(os.Stderr)
	spinDone := make(chan struct{})
	go func() {
		defer close(spinDone)
		if err := spin.Run(); err != nil {
			slogger.L(ctx).Debug("spinner failed", "error", err)
		}
	}()

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		for ev := range events {
			switch ev.Type {
			case preview.EventPhase:
				spin.Phase(string(ev.Phase))
			case preview.EventLog:
				spin.Line(ev.Line)
			}
		}
	}()

	err := session.Start(ctx, code, language, title)
	unsubscribe()
	<-relayDone
	spin.Stop()
	<-spinDone

	if err != nil {
		return "", fmt.Errorf("start preview: %w", err)
	}
	return session.URL(), nil
}

func printConsole(ctx context.Context, url string) error {
	logs, err := probe.New(probe.Config{ControlURL: os.Getenv("CANVAS_CHROME_URL")}).Capture(ctx, url)
	if err != nil {
		return err
	}
	for _, l := range logs {
		fmt.Println(formatConsoleLog(l))
	}
	return nil
}

func formatConsoleLog(l artifact.ConsoleLog) string {
	return fmt.Sprintf("[%s] %s", l.Type, l.Message)
}

// watchSource pushes changed contents of path into the session until ctx
// is done or the session closes.
func watchSource(ctx context.Context, session *preview.Session, path, last string) error {
	err := watchFile(ctx, path, last, func(contents string) error {
		err := session.Update(ctx, contents)
		switch {
		case errors.Is(err, preview.ErrClosed):
			return err
		case err != nil:
			fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		default:
			fmt.Printf("Updated %s\n", path)
		}
		return nil
	})
	if errors.Is(err, preview.ErrClosed) {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("language", "l", "", "source language (inferred from the file extension when empty)")
	previewCmd.Flags().StringP("title", "t", "", "preview title (defaults to the file path)")
	previewCmd.Flags().BoolP("watch", "w", false, "mount changes to the file into the running preview")
	previewCmd.Flags().Bool("probe", false, "print browser console output once the preview is ready")
}
