package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jmgilman/canvas/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View and modify configuration",
	Long: `View and modify canvas configuration.

With no arguments, displays all configuration.
With one argument, displays the value for the specified key.
With two arguments, sets the value for the specified key.

Values are validated before they are written. Any key can also be overridden
with an environment variable, e.g. CANVAS_PREVIEW_TIMEOUT=90s.`,
	Example: `  # Show all config
  canvas config

  # Show value for a specific key
  canvas config runtime.image

  # Set a value
  canvas config preview.timeout 90s

  # List valid keys
  canvas config --keys

  # Open config file in editor
  canvas config --edit`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		editFlag, _ := cmd.Flags().GetBool("edit") //nolint:errcheck // flag is registered below
		if editFlag {
			return runEdit()
		}
		keysFlag, _ := cmd.Flags().GetBool("keys") //nolint:errcheck // flag is registered below
		if keysFlag {
			fmt.Println(strings.Join(config.Keys(), "\n"))
			return nil
		}

		loader, err := config.NewLoader()
		if err != nil {
			return fmt.Errorf("init config loader: %w", err)
		}

		switch len(args) {
		case 0:
			return runShowAll(loader)
		case 1:
			return runShowKey(loader, args[0])
		case 2:
			return runSetKey(loader, args[0], args[1])
		}

		return nil
	},
}

func runEdit() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return config.ErrNoEditor
	}

	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("init config loader: %w", err)
	}

	// Load creates the file when missing
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	editorCmd := exec.Command(editor, loader.Path()) //nolint:gosec // G204: $EDITOR is user-controlled by design
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runShowAll(loader *config.Loader) error {
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Remote.APIKey != "" {
		cfg.Remote.APIKey = maskedValue
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	fmt.Print(string(out))
	return nil
}

// maskedValue replaces secrets in config output.
const maskedValue = "********"

func runShowKey(loader *config.Loader, key string) error {
	if err := config.ValidateKey(key); err != nil {
		return err
	}

	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	value, err := loader.Get(key)
	if err != nil {
		return err
	}

	if value == nil {
		fmt.Println("")
		return nil
	}

	if key == "remote.api_key" {
		if s, ok := value.(string); ok && s != "" {
			value = maskedValue
		}
	}

	switch v := value.(type) {
	case string:
		fmt.Println(v)
	case map[string]any, []any:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal value: %w", err)
		}
		fmt.Print(string(out))
	default:
		fmt.Println(value)
	}

	return nil
}

func runSetKey(loader *config.Loader, key, value string) error {
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := loader.Set(key, value); err != nil {
		return err
	}

	if key == "remote.api_key" {
		value = maskedValue
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("edit", false, "open config file in $EDITOR")
	configCmd.Flags().Bool("keys", false, "list valid configuration keys")
}
