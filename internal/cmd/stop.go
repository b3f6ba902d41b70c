package cmd

import (
	"errors"
	"fmt"

	"github.com/jmgilman/canvas/internal/isolate"
	"github.com/jmgilman/canvas/internal/prompt"
	"github.com/jmgilman/canvas/internal/slogger"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Tear down the shared runtime container",
	Long: `Remove the shared runtime container and its catalog record.

Installed node_modules stay in the workspace directory, so the next preview
boots a fresh container without reinstalling everything from scratch.`,
	Example: `  canvas stop
  canvas stop --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return fmt.Errorf("get force flag: %w", err)
		}

		svc, err := newServices(cmd.Context())
		if err != nil {
			return err
		}

		inst, err := svc.runtime.Current(cmd.Context())
		if errors.Is(err, isolate.ErrNotBooted) {
			fmt.Println("Runtime is not running.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("attach runtime: %w", err)
		}

		if !force {
			ok, err := prompt.New().Confirm(
				fmt.Sprintf("Tear down %s?", svc.cfg.Runtime.Container),
				"Running previews served by this container will stop.",
			)
			if err != nil {
				if errors.Is(err, prompt.ErrCanceled) {
					return nil
				}
				return err
			}
			if !ok {
				return nil
			}
		}

		if err := svc.runtime.Shutdown(cmd.Context()); err != nil {
			return fmt.Errorf("tear down runtime: %w", err)
		}

		slogger.L(cmd.Context()).Info("stopped runtime", "container", svc.cfg.Runtime.Container, "id", inst.ID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)

	stopCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
}
