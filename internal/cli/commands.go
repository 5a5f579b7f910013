package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tgagent/internal/config"
)

var (
	commandsConfig string
	commandsJSON   bool
)

func init() {
	rootCmd.AddCommand(commandsCmd)
	commandsCmd.Flags().StringVar(&commandsConfig, "config", "", "Path to config YAML (default $"+config.EnvConfig+")")
	commandsCmd.Flags().BoolVar(&commandsJSON, "json", false, "Output as JSON")
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the allow-listed commands",
	Long:  "Prints every command key accepted by /run and the argument vector it executes.",
	Args:  cobra.NoArgs,
	RunE:  runCommands,
}

type commandEntry struct {
	Key  string   `json:"key"`
	Argv []string `json:"argv"`
}

func runCommands(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath(commandsConfig))
	if err != nil {
		return err
	}
	table, err := cfg.CommandTable()
	if err != nil {
		return err
	}

	entries := make([]commandEntry, 0, table.Len())
	for _, key := range table.Keys() {
		argv, _ := table.Lookup(key)
		entries = append(entries, commandEntry{Key: key, Argv: argv})
	}

	out := cmd.OutOrStdout()
	if commandsJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal commands: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%-10s %s\n", e.Key, strings.Join(e.Argv, " "))
	}
	return nil
}

// configPath returns flag if set, else $TGAGENT_CONFIG.
func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	return strings.TrimSpace(os.Getenv(config.EnvConfig))
}
