// Package cli implements studioctl, the offline companion to the studio API.
package cli

import (
	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var configFile string

var rootCmd = &cobra.Command{
	Use:   "studioctl",
	Short: "studioctl — generate and package automotive service artifacts",
	Long: `studioctl runs the SDV Studio pipeline without the API server.

It imports DBC signal databases, renders stage prompts, runs a full
generation pipeline against the configured engines and packages stage
outputs into a project archive. Provider credentials are read from the
environment (ANTHROPIC_API_KEY, GROQ_API_KEY, GOOGLE_API_KEY).`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the studioctl version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("studioctl %s\n", version)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to studio config file")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dbcCmd)
	rootCmd.AddCommand(enginesCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
}
