// Package cmd implements the canvas CLI commands using Cobra.
// It provides commands for previewing generated components in the shared
// runtime container and for running snippets in remote sandboxes.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/jmgilman/canvas/internal/config"
	"github.com/jmgilman/canvas/internal/slogger"
	"github.com/spf13/cobra"
)

// verbosity is the count of -v flags.
var verbosity int

var rootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Preview and run generated code in isolation",
	Long: `Canvas previews generated React components and runs code snippets in
isolated environments.

Previews run in a single long-lived runtime container that hosts a Vite dev
server. One-shot executions run in single-use remote sandboxes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger := slogger.New(slogger.Config{Verbosity: verbosity})

		ctx := slogger.WithLogger(cmd.Context(), logger)
		if appConfig != nil {
			ctx = WithConfig(ctx, appConfig)
		}
		if configLoader != nil {
			ctx = WithLoader(ctx, configLoader)
		}
		cmd.SetContext(ctx)

		return nil
	},
}

// appConfig holds the loaded application configuration.
var appConfig *config.Config

// configLoader is kept for commands that modify configuration.
var configLoader *config.Loader

// ExecuteContext runs the root command. Commands observe ctx for
// cancellation, so interrupting stops previews and servers cleanly.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

func initConfig() {
	loader, err := config.NewLoader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
		return
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config validation failed: %v\n", err)
	}

	appConfig = cfg
	configLoader = loader
}

// checkRuntime verifies that the configured container CLI is available.
func checkRuntime(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.Runtime.Name); err != nil {
		return errors.New("missing required dependency: " + cfg.Runtime.Name)
	}
	return nil
}
