package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tgagent/internal/audit"
)

var (
	showChat int64
	showKind string
	showJSON bool
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditShowCmd)
	auditShowCmd.Flags().Int64Var(&showChat, "chat", 0, "Only show entries for this chat id")
	auditShowCmd.Flags().StringVar(&showKind, "kind", "", "Only show entries of this kind (command, file_edit)")
	auditShowCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained log of resolved plans.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of an audit log",
	Long:  "Walks the JSONL audit log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits non-zero if the chain is broken.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show resolved plans from an audit log",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditShow,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if !result.Valid {
		return fmt.Errorf("audit chain broken at line %d: %s", result.ErrorLine, result.Error)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d entries verified\n", result.Lines)
	return nil
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	entries, sum, err := audit.Read(args[0], audit.Filter{ChatID: showChat, Kind: showKind})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showJSON {
		data, err := json.MarshalIndent(map[string]any{
			"entries": entries,
			"summary": sum,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprint(out, audit.FormatTable(entries, sum))
	return nil
}
