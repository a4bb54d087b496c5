package cli

import (
	"fmt"
	"os"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/dbc"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/spf13/cobra"
)

// selection holds the service flags shared by prompt, generate and package.
type selection struct {
	description string
	compliance  string
	languages   []string
	answers     map[string]string
	dbcFile     string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.description, "description", "d", "", "natural-language service description")
	cmd.Flags().StringVar(&s.compliance, "compliance", string(prompts.ComplianceMISRACpp2023), "compliance standard")
	cmd.Flags().StringSliceVarP(&s.languages, "lang", "l", []string{string(prompts.LanguageCpp)}, "target language (repeatable)")
	cmd.Flags().StringToStringVar(&s.answers, "answer", nil, "refinement answer as question_id=option")
	cmd.Flags().StringVar(&s.dbcFile, "dbc", "", "DBC file whose signals are added to the prompts")
}

// input builds validated prompt input from the flags.
func (s *selection) input() (prompts.Input, error) {
	langs := make([]prompts.Language, len(s.languages))
	for i, l := range s.languages {
		langs[i] = prompts.Language(l)
	}
	in := prompts.Input{
		Description: s.description,
		Compliance:  prompts.Compliance(s.compliance),
		Languages:   langs,
	}
	if err := in.Validate(); err != nil {
		return prompts.Input{}, err
	}

	refinements, err := prompts.ResolveRefinements(s.answers)
	if err != nil {
		return prompts.Input{}, err
	}
	in.Refinements = refinements

	signals, err := s.signals()
	if err != nil {
		return prompts.Input{}, err
	}
	in.Signals = signals
	return in, nil
}

func (s *selection) signals() ([]models.SignalRecord, error) {
	if s.dbcFile == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(s.dbcFile)
	if err != nil {
		return nil, fmt.Errorf("reading DBC file: %w", err)
	}
	return dbc.Import(raw).Signals, nil
}
