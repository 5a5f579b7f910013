package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tgagent",
	Short: "Telegram remote control for a single workspace",
	Long: "Runs allow-listed commands and file edits in a workspace on behalf of one\n" +
		"Telegram user. Every action is proposed first and runs only after approval.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
