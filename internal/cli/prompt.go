package cli

import (
	"encoding/json"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/spf13/cobra"
)

var (
	promptSel  selection
	promptJSON bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt <stage>",
	Short: "Render the prompt a stage would send to an engine",
	Long: `Render the system and user prompt for one stage.

Stages: srs, franca, arxml, cpp, kotlin, rust, python, test, mock, misra.
Upstream outputs are not available offline, so stages that depend on the
requirements or the C++ source render with placeholders.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := prompts.ParseStage(args[0])
		if err != nil {
			return err
		}
		in, err := promptSel.input()
		if err != nil {
			return err
		}
		p, err := prompts.Build(stage, in)
		if err != nil {
			return err
		}

		if promptJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		cmd.Printf("=== system (%s, max %d tokens) ===\n%s\n\n=== user ===\n%s\n", p.Stage, p.MaxTokens, p.System, p.User)
		return nil
	},
}

func init() {
	promptSel.register(promptCmd)
	promptCmd.Flags().BoolVar(&promptJSON, "json", false, "print the prompt as JSON")
}
