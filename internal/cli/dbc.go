package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/dbc"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/spf13/cobra"
)

var dbcJSON bool

var dbcCmd = &cobra.Command{
	Use:   "dbc <file>",
	Short: "Import a DBC file and show its VSS mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading DBC file: %w", err)
		}

		result := dbc.Import(raw)
		if dbcJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if result.Warning != "" {
			cmd.PrintErrln(result.Warning)
			return nil
		}
		printSignals(cmd, result.Signals)
		return nil
	},
}

func printSignals(cmd *cobra.Command, signals []models.SignalRecord) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CAN SIGNAL\tCAN ID\tMESSAGE\tVSS PATH\tUNIT")
	for _, s := range signals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Signal, s.CANID, s.Message, s.VSSPath, s.Unit)
	}
	w.Flush()
	cmd.Printf("\n%d signal(s)\n", len(signals))
}

func init() {
	dbcCmd.Flags().BoolVar(&dbcJSON, "json", false, "print the import result as JSON")
}
