package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmgilman/canvas/internal/catalog"
	"github.com/jmgilman/canvas/internal/logging"
	"github.com/spf13/cobra"
)

// Default poll interval for following logs.
const defaultLogPollInterval = 100 * time.Millisecond

var logsCmd = &cobra.Command{
	Use:   "logs <session>",
	Short: "View output from a preview session",
	Long: `View the install and dev server output of a preview session.

Reads from the session's log file, which outlives the session itself, so the
output of a failed preview can be inspected after the fact.`,
	Example: `  # View recent output (last 100 lines)
  canvas logs happy-panda

  # Follow output in real-time
  canvas logs happy-panda -f

  # Show entire log
  canvas logs happy-panda --full`,
	Args: cobra.ExactArgs(1),
	RunE: runLogsCmd,
}

func runLogsCmd(cmd *cobra.Command, args []string) error {
	follow, err := cmd.Flags().GetBool("follow")
	if err != nil {
		return fmt.Errorf("get follow flag: %w", err)
	}

	lines, err := cmd.Flags().GetInt("lines")
	if err != nil {
		return fmt.Errorf("get lines flag: %w", err)
	}

	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("get full flag: %w", err)
	}

	cfg, err := requireConfig(cmd.Context())
	if err != nil {
		return err
	}

	session, err := catalog.NewStore(cfg.Storage.Catalog).GetSession(cmd.Context(), args[0])
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("preview session %q not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	pathMgr := logging.NewPathManager(cfg.Storage.Logs)
	if !pathMgr.LogExists(session.ID) {
		return fmt.Errorf("no log file found for session %s", session.Name)
	}

	return outputLogs(cmd.Context(), logging.NewReader(pathMgr), session.ID, follow, lines, full)
}

func outputLogs(ctx context.Context, reader *logging.Reader, sessionID string, follow bool, lines int, full bool) error {
	if follow {
		return reader.FollowWithHistory(ctx, sessionID, os.Stdout, lines, defaultLogPollInterval)
	}

	var logLines []string
	var err error

	if full {
		logLines, err = reader.ReadAll(sessionID)
	} else {
		logLines, err = reader.ReadLastN(sessionID, lines)
	}

	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	for _, line := range logLines {
		fmt.Println(line)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolP("follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntP("lines", "n", logging.DefaultTailLines, "number of lines to show")
	logsCmd.Flags().Bool("full", false, "show entire log")
}
