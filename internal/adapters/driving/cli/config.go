package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the quizforge configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := ensureConfig()
		if err != nil {
			return err
		}
		val, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		cmd.Printf("%v\n", val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Useful keys:
  rewriter.provider   anthropic or openai
  rewriter.api_key    backend API key (stored with 0600 permissions)
  rewriter.model      backend model override
  paths.raw           raw corpus export
  paths.canonical     canonical corpus artifact
  paths.rewritten     rewritten corpus artifact
  paths.checkpoint    rewrite checkpoint
  assets.base_url     base URL for asset references`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := ensureConfig()
		if err != nil {
			return err
		}
		store.Set(args[0], args[1])
		if err := store.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		cmd.Printf("Set %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
