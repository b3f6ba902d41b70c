package cmd

import (
	"fmt"

	"github.com/jmgilman/canvas/internal/auth"
	"github.com/jmgilman/canvas/internal/prompt"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Configure credentials",
	Long: `Configure credentials used by canvas.

Credentials are stored in the system keychain, falling back to an encrypted
file when no system keychain is available.`,
}

var authRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Configure the remote execution API key",
	Long: `Store the API key of the remote code execution service.

A key set in the config file or in CANVAS_REMOTE_API_KEY takes precedence
over the stored one.`,
	Example: `  # Store a key
  canvas auth remote

  # Show where the key comes from
  canvas auth remote --status

  # Remove the stored key
  canvas auth remote --forget`,
	Args: cobra.NoArgs,
	RunE: runAuthRemote,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authRemoteCmd)

	authRemoteCmd.Flags().Bool("status", false, "show current authentication status")
	authRemoteCmd.Flags().Bool("forget", false, "remove the stored API key")
}

func runAuthRemote(cmd *cobra.Command, _ []string) error {
	status, err := cmd.Flags().GetBool("status")
	if err != nil {
		return fmt.Errorf("get status flag: %w", err)
	}
	forget, err := cmd.Flags().GetBool("forget")
	if err != nil {
		return fmt.Errorf("get forget flag: %w", err)
	}

	resolver := newResolver(cmd.Context())

	switch {
	case status:
		return showAuthStatus(resolver)
	case forget:
		if err := resolver.Forget(); err != nil {
			return fmt.Errorf("remove API key: %w", err)
		}
		fmt.Println("Stored API key removed.")
		return nil
	default:
		return runAuthFlow(resolver, prompt.New())
	}
}

// showAuthStatus reports where the API key would be loaded from.
func showAuthStatus(resolver *auth.Resolver) error {
	key, source, err := resolver.APIKey()
	if err != nil {
		return err
	}

	switch source {
	case auth.SourceConfig:
		fmt.Printf("remote: configured (%s, %s or config file)\n", auth.Mask(key), auth.EnvVar)
	case auth.SourceKeychain:
		fmt.Printf("remote: keychain (%s)\n", auth.Mask(key))
	default:
		fmt.Println("remote: not configured")
	}
	return nil
}

// runAuthFlow prompts for a key and stores it.
func runAuthFlow(resolver *auth.Resolver, prompter prompt.Prompter) error {
	prompter.Print("Enter the API key of the remote execution service.")
	prompter.Print("")

	key, err := prompter.Secret("API key: ")
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}

	if err := resolver.Store(key); err != nil {
		return fmt.Errorf("store API key: %w", err)
	}

	prompter.Print("")
	prompter.Print("API key stored securely.")
	return nil
}
