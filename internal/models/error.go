package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeSessionNotFound  = "SESSION_NOT_FOUND"
	ErrCodeStageNotFound    = "STAGE_NOT_FOUND"
	ErrCodeEngineNotFound   = "ENGINE_NOT_FOUND"
	ErrCodeArtifactMissing  = "ARTIFACT_MISSING"
	ErrCodeStorageDisabled  = "STORAGE_DISABLED"
	ErrCodePipelineRunning  = "PIPELINE_RUNNING"
)
