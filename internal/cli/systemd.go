package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tgagent/internal/systemd"
)

var unitOpts systemd.UnitOptions

func init() {
	rootCmd.AddCommand(systemdCmd)
	systemdCmd.Flags().StringVar(&unitOpts.Binary, "binary", systemd.DefaultBinary, "Absolute path of the tgagent binary")
	systemdCmd.Flags().StringVar(&unitOpts.User, "user", "", "System user to run as")
	systemdCmd.Flags().StringVar(&unitOpts.Workspace, "workspace", "", "Absolute workspace directory (required)")
	systemdCmd.Flags().StringVar(&unitOpts.EnvFile, "env-file", "/etc/tgagent/env", "File holding the bot token and user id")
	systemdCmd.Flags().StringVar(&unitOpts.AuditLog, "audit-log", "", "Absolute path of the audit log")
}

var systemdCmd = &cobra.Command{
	Use:   "systemd",
	Short: "Print a systemd service unit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, err := systemd.Unit(unitOpts)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), unit)
		return nil
	},
}
