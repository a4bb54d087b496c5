package helpers

import (
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/google/uuid"
)

// SampleDBC is a small signal database with one unmapped signal.
const SampleDBC = `VERSION ""

BU_: BMS GATEWAY

BO_ 389 BMS_Status: 8 BMS
 SG_ BatterySoC : 0|8@1+ (0.5,0) [0|100] "%" GATEWAY
 SG_ BatteryVoltage : 8|16@1+ (0.01,0) [0|500] "V" GATEWAY

BO_ 1024 Misc: 8 GATEWAY
 SG_ RandomXYZ : 0|8@1+ (1,0) [0|255] "" BMS
`

// TireDescription triggers simulation mode when no engine has a credential.
const TireDescription = "Create a Tire Pressure Service that monitors tire pressure on all four wheels"

// PipelineRequest is the JSON body of a pipeline run.
type PipelineRequest struct {
	Description string            `json:"description"`
	Compliance  string            `json:"compliance"`
	Languages   []string          `json:"target_langs"`
	EngineID    string            `json:"engine_id,omitempty"`
	Refinements map[string]string `json:"refinements,omitempty"`
}

// DefaultPipelineRequest generates the C++ service for TireDescription.
func DefaultPipelineRequest() PipelineRequest {
	return PipelineRequest{
		Description: TireDescription,
		Compliance:  "MISRA C++:2023",
		Languages:   []string{"C++14"},
	}
}

// CreateTestRun builds a completed run for sessionID.
func CreateTestRun(sessionID, name string, completedAt time.Time) models.GeneratedServiceContext {
	return models.GeneratedServiceContext{
		RunID:       uuid.NewString(),
		SessionID:   sessionID,
		Name:        name,
		Description: "Create a " + name,
		Compliance:  "MISRA C++:2023",
		Engine:      "Claude 3 Haiku",
		Languages:   []string{"C++14", "Rust"},
		TotalLines:  420,
		HasSRS:      true,
		HasCode:     true,
		Stages: map[string]bool{
			"srs": true, "franca": true, "arxml": true, "cpp": true,
			"rust": true, "test": true, "mock": true, "misra": true,
		},
		CompletedAt: completedAt.UTC().Truncate(time.Microsecond),
	}
}
