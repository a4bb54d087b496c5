package models

import (
	"time"
)

// NoticeKind classifies a non-fatal notification raised while generating
type NoticeKind string

const (
	NoticeEngineSwitched NoticeKind = "engine_switched"
	NoticeSimulation     NoticeKind = "simulation"
	NoticeFailed         NoticeKind = "failed"
	NoticeWarning        NoticeKind = "warning"
)

// Notice is a user-visible notification attached to a session
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Stage   string     `json:"stage,omitempty"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// PipelineEventType names the events streamed while a pipeline runs
type PipelineEventType string

const (
	EventPipelineStarted   PipelineEventType = "pipeline_started"
	EventStageStarted      PipelineEventType = "stage_started"
	EventStageCompleted    PipelineEventType = "stage_completed"
	EventNotice            PipelineEventType = "notice"
	EventPipelineCompleted PipelineEventType = "pipeline_completed"
	EventPipelineFailed    PipelineEventType = "pipeline_failed"
)

// PipelineEvent is one progress message of a pipeline run
type PipelineEvent struct {
	Type    PipelineEventType `json:"type"`
	Stage   string            `json:"stage,omitempty"`
	Engine  string            `json:"engine,omitempty"`
	Outcome string            `json:"outcome,omitempty"`
	Cached  bool              `json:"cached,omitempty"`
	Notice  *Notice           `json:"notice,omitempty"`
	Content string            `json:"content,omitempty"`
	Error   string            `json:"error,omitempty"`
}
