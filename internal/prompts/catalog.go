package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
)

// NoCodePlaceholder stands in for the C++ output when the compliance
// stage runs without it.
const NoCodePlaceholder = "No C++ code generated"

// contextSignalLimit caps how many imported signals are quoted in the
// requirements context.
const contextSignalLimit = 5

// Refinement is one answered clarification question.
type Refinement struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Input is everything a stage prompt may depend on.
type Input struct {
	Description string
	Compliance  Compliance
	Languages   []Language
	Refinements []Refinement
	Signals     []models.SignalRecord
	Upstream    map[Stage]string
}

// Prompt is a rendered instruction pair ready for a provider.
type Prompt struct {
	Stage     Stage  `json:"stage"`
	System    string `json:"system"`
	User      string `json:"user"`
	MaxTokens int    `json:"max_tokens"`
}

// Validate checks the fields every pipeline run needs.
func (in Input) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}
	if _, ok := Standard(in.Compliance); !ok {
		errs = append(errs, fmt.Errorf("unknown compliance standard %q", in.Compliance))
	}
	if len(in.Languages) == 0 {
		errs = append(errs, errors.New("at least one target language is required"))
	}
	for _, l := range in.Languages {
		if _, ok := LanguageStage(l); !ok {
			errs = append(errs, fmt.Errorf("unknown target language %q", l))
		}
	}
	return errors.Join(errs...)
}

// Build renders the prompt pair for a stage. It performs no I/O and
// returns the same Prompt for the same stage and Input.
func Build(stage Stage, in Input) (Prompt, error) {
	tmpl, ok := stageTemplates[stage]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown stage %q", stage)
	}
	std, ok := Standard(in.Compliance)
	if !ok {
		return Prompt{}, fmt.Errorf("unknown compliance standard %q", in.Compliance)
	}

	vars := Vars{
		"description": strings.TrimSpace(in.Description),
		"compliance":  string(std.Name),
		"rules":       std.RulesText(),
		"srs":         in.Upstream[StageSRS],
		"cpp":         in.Upstream[StageCPP],
	}
	if vars["cpp"] == "" {
		vars["cpp"] = NoCodePlaceholder
	}
	if stage == StageSRS {
		ctx, err := FullContext(in)
		if err != nil {
			return Prompt{}, err
		}
		vars["context"] = ctx
	}

	system, err := Render(tmpl.system, vars)
	if err != nil {
		return Prompt{}, fmt.Errorf("render %s system prompt: %w", stage, err)
	}
	user, err := Render(tmpl.user, vars)
	if err != nil {
		return Prompt{}, fmt.Errorf("render %s user prompt: %w", stage, err)
	}

	return Prompt{
		Stage:     stage,
		System:    system,
		User:      user,
		MaxTokens: tmpl.maxTokens,
	}, nil
}

// FullContext assembles the requirements context from the description,
// refinement answers, selections and up to five imported signals.
func FullContext(in Input) (string, error) {
	refinements := in.Refinements
	if len(refinements) == 0 {
		refinements = DefaultRefinements()
	}

	var answers strings.Builder
	for _, r := range refinements {
		fmt.Fprintf(&answers, "%s: %s\n", r.Question, r.Answer)
	}

	langs := make([]string, len(in.Languages))
	for i, l := range in.Languages {
		langs[i] = string(l)
	}

	var signals strings.Builder
	for i, s := range in.Signals {
		if i == contextSignalLimit {
			break
		}
		fmt.Fprintf(&signals, "- %s (%s) → VSS: %s\n", s.Signal, s.CANID, s.VSSPath)
	}

	return Render(contextTemplate, Vars{
		"description": strings.TrimSpace(in.Description),
		"refinements": answers.String(),
		"compliance":  string(in.Compliance),
		"languages":   strings.Join(langs, ", "),
		"signals":     signals.String(),
	})
}
