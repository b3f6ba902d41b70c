package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/spf13/cobra"
)

// errExecutionFailed signals a non-zero exit without printing a second message.
var errExecutionFailed = errors.New("execution failed")

var execCmd = &cobra.Command{
	Use:   "exec <file>",
	Short: "Run a snippet in a remote sandbox",
	Long: `Run a Python or JavaScript snippet in a single-use remote sandbox.

A fresh sandbox is created for every run and destroyed afterwards, even when
the code fails or times out. Standard output is printed; errors go to stderr
and make the command exit non-zero.`,
	Example: `  # Run a Python script
  canvas exec analysis.py

  # Force the language and print the full result as JSON
  canvas exec snippet.txt --language javascript --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExecCmd,
}

func runExecCmd(cmd *cobra.Command, args []string) error {
	language, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("get language flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("get json flag: %w", err)
	}

	art, err := readSource(args[0], language, "")
	if err != nil {
		return err
	}

	executor, err := newExecutor(cmd.Context())
	if err != nil {
		return err
	}

	result := executor.Execute(cmd.Context(), art.Main().Content, art.Language)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		printResult(result)
	}

	if result.Error != "" {
		if asJSON {
			cmd.SilenceErrors = true
			return errExecutionFailed
		}
		return errors.New(result.Error)
	}
	return nil
}

func printResult(result artifact.ExecutionResult) {
	if result.Output != "" {
		fmt.Println(result.Output)
	}
	if n := len(result.Images); n > 0 {
		fmt.Fprintf(os.Stderr, "(%d image(s) produced; use --json to retrieve them)\n", n)
	}
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().StringP("language", "l", "", "python or javascript (inferred from the file extension when empty)")
	execCmd.Flags().Bool("json", false, "print the full result as JSON")
}
