package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jmgilman/canvas/internal/catalog"
	"github.com/jmgilman/canvas/internal/slogger"
	"github.com/spf13/cobra"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List the runtime and preview sessions",
	Long: `List the shared runtime container and recorded preview sessions.

Sessions are listed with the last phase they reached. Use --phase to show only
sessions in a given phase.`,
	Example: `  # Show the runtime and every session
  canvas ps

  # Show failed previews
  canvas ps --phase error`,
	Args: cobra.NoArgs,
	RunE: runPsCmd,
}

func runPsCmd(cmd *cobra.Command, _ []string) error {
	phase, err := cmd.Flags().GetString("phase")
	if err != nil {
		return fmt.Errorf("get phase flag: %w", err)
	}

	cfg, err := requireConfig(cmd.Context())
	if err != nil {
		return err
	}
	store := catalog.NewStore(cfg.Storage.Catalog)

	rt, err := store.GetRuntime(cmd.Context(), cfg.Runtime.Container)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		fmt.Println("Runtime: not booted")
	case err != nil:
		return fmt.Errorf("get runtime: %w", err)
	default:
		fmt.Printf("Runtime: %s (%s, %s, port %d, %s)\n", rt.Name, rt.Status, rt.Engine, rt.Port, formatTimeAgo(rt.CreatedAt))
	}

	sessions, err := store.ListSessions(cmd.Context(), catalog.SessionFilter{Phase: phase})
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		slogger.L(cmd.Context()).Info("no preview sessions found")
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "SESSION\tTITLE\tLANGUAGE\tPHASE\tURL\tUPDATED"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range sessions {
		sess := &sessions[i]
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			sess.Name,
			sess.Title,
			sess.Language,
			sess.Phase,
			dash(sess.URL),
			formatTimeAgo(sess.UpdatedAt),
		); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(psCmd)

	psCmd.Flags().String("phase", "", "only list sessions in this phase")
}
