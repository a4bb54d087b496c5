package prompts

import "fmt"

// RefinementQuestion is a multiple-choice clarification offered before
// requirements are generated.
type RefinementQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Default  int      `json:"default"`
}

var refinementQuestions = []RefinementQuestion{
	{
		ID:       "vehicle_types",
		Question: "What vehicle types should this service support?",
		Options:  []string{"ICE Only", "Hybrid Only", "EV Only", "All Variants"},
		Default:  3,
	},
	{
		ID:       "asil",
		Question: "What is the Safety Integrity Level (ASIL)?",
		Options:  []string{"QM (No Safety)", "ASIL-A", "ASIL-B", "ASIL-C", "ASIL-D"},
		Default:  2,
	},
	{
		ID:       "protocol",
		Question: "Primary communication protocol?",
		Options:  []string{"SOME/IP (Automotive)", "REST/HTTP (IT)", "Both (Gateway)"},
		Default:  2,
	},
	{
		ID:       "legacy_data",
		Question: "Do you have legacy CAN/DBC data to import?",
		Options:  []string{"No, use COVESA VSS only", "Yes, I have a .dbc file"},
		Default:  1,
	},
}

// RefinementQuestions lists the clarification questions in display order.
func RefinementQuestions() []RefinementQuestion {
	return append([]RefinementQuestion(nil), refinementQuestions...)
}

// DefaultRefinements answers every question with its default option.
func DefaultRefinements() []Refinement {
	out := make([]Refinement, len(refinementQuestions))
	for i, q := range refinementQuestions {
		out[i] = Refinement{Question: q.Question, Answer: q.Options[q.Default]}
	}
	return out
}

// ResolveRefinements turns answers keyed by question id into the ordered
// refinement list. Unanswered questions take their default.
func ResolveRefinements(answers map[string]string) ([]Refinement, error) {
	out := make([]Refinement, len(refinementQuestions))
	for i, q := range refinementQuestions {
		answer := q.Options[q.Default]
		if a, ok := answers[q.ID]; ok {
			if !contains(q.Options, a) {
				return nil, fmt.Errorf("invalid answer %q for %s", a, q.ID)
			}
			answer = a
		}
		out[i] = Refinement{Question: q.Question, Answer: answer}
	}
	for id := range answers {
		if !knownQuestion(id) {
			return nil, fmt.Errorf("unknown refinement question %q", id)
		}
	}
	return out, nil
}

func knownQuestion(id string) bool {
	for _, q := range refinementQuestions {
		if q.ID == id {
			return true
		}
	}
	return false
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// ServiceTemplate is a ready-made service description.
type ServiceTemplate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var serviceTemplates = []ServiceTemplate{
	{
		ID:    "tire-pressure",
		Title: "Tire Pressure Monitoring Service",
		Description: "Create a Tire Pressure Monitoring Service that monitors all 4 wheels in real-time, " +
			"alerts on low pressure (ASIL-B safety), predicts tire failure using our pre-trained ML model, " +
			"and supports ICE, Hybrid, and EV vehicle variants. It should publish data via SOME/IP and " +
			"also expose a REST health endpoint for offboard monitoring.",
	},
	{
		ID:    "battery-soh",
		Title: "Battery SOH Analyzer Service",
		Description: "Create a Battery State-of-Health Analyzer Service that monitors traction battery voltage, " +
			"current, temperature, and charge cycles. Predict remaining battery capacity (SOH) " +
			"and estimate useful battery lifespan. Supports EV and Hybrid variants. Publishes diagnostics " +
			"via SOME/IP and provides REST API for fleet-level SOH analytics.",
	},
	{
		ID:    "motor-health",
		Title: "Motor Health Monitor Service",
		Description: "Create a Motor Health Monitoring Service that tracks motor temperature, vibration levels, " +
			"bearing wear indicators, and torque efficiency. Detect anomalies and predict motor " +
			"failure before it occurs. Supports EV and Hybrid powertrains. Alerts via SOME/IP broadcast.",
	},
	{
		ID:    "adaptive-cruise",
		Title: "Adaptive Cruise Control Service",
		Description: "Create an Adaptive Cruise Control Service that reads vehicle speed, radar distance, and " +
			"traffic data to maintain safe following distance. Supports ASIL-C safety with redundant " +
			"sensor validation. Publishes control commands via SOME/IP.",
	},
}

// ServiceTemplates lists the built-in service descriptions.
func ServiceTemplates() []ServiceTemplate {
	return append([]ServiceTemplate(nil), serviceTemplates...)
}
