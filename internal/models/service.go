package models

import (
	"time"
)

// SignalRecord is one CAN signal imported from a DBC file and its VSS mapping
type SignalRecord struct {
	Signal    string `json:"can_signal"`
	CANID     string `json:"can_id"`
	MessageID int64  `json:"message_id"`
	Message   string `json:"message"`
	VSSPath   string `json:"vss_path"`
	Unit      string `json:"unit"`
}

// GeneratedServiceContext summarizes the last completed pipeline run of a session
type GeneratedServiceContext struct {
	RunID       string          `json:"run_id" db:"run_id"`
	SessionID   string          `json:"session_id" db:"session_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Compliance  string          `json:"compliance" db:"compliance"`
	Engine      string          `json:"llm_engine" db:"engine"`
	Languages   []string        `json:"target_langs" db:"languages"`
	TotalLines  int             `json:"total_loc" db:"total_lines"`
	HasSRS      bool            `json:"has_srs" db:"has_srs"`
	HasCode     bool            `json:"has_code" db:"has_code"`
	Stages      map[string]bool `json:"stages" db:"stages"`
	CompletedAt time.Time       `json:"completed_at" db:"completed_at"`
}
