package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/llm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List configured engines and whether a credential is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		adapter := llm.NewAdapter(cfg, nil)

		fallback := make(map[string]int, len(cfg.Fallbacks))
		for i, id := range cfg.Fallbacks {
			fallback[id] = i + 1
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tCREDENTIAL\tFALLBACK")
		for _, e := range cfg.Engines {
			status := "missing"
			if adapter.HasCredential(e, nil) {
				status = "configured"
			}
			order := "-"
			if n, ok := fallback[e.ID]; ok {
				order = fmt.Sprintf("%d", n)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\t%s\n", e.ID, e.Name, e.Provider, status, e.CredentialKey, order)
		}
		return w.Flush()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate and inspect studio configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		cmd.Println("Configuration is valid.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Auth.Secret != "" {
			cfg.Auth.Secret = "<redacted>"
		}
		if cfg.Storage.SecretKey != "" {
			cfg.Storage.SecretKey = "<redacted>"
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}
		cmd.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
