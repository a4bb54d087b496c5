package gateway

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/dbc"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/orchestration"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CreateSessionResponse carries the token for a new session
type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse is the public view of a session. Credential values are
// never returned.
type SessionResponse struct {
	ID             string                          `json:"id"`
	CreatedAt      time.Time                       `json:"created_at"`
	Stages         []string                        `json:"stages"`
	SignalCount    int                             `json:"signal_count"`
	CredentialKeys []string                        `json:"credential_keys"`
	Notices        []models.Notice                 `json:"notices"`
	ServiceContext *models.GeneratedServiceContext `json:"service_context,omitempty"`
}

// UpdateCredentialsRequest sets or clears session credential overrides. An
// empty value removes the override.
type UpdateCredentialsRequest struct {
	Credentials map[string]string `json:"credentials" binding:"required"`
}

// PipelineResponse is the result of a synchronous pipeline run
type PipelineResponse struct {
	Service models.GeneratedServiceContext `json:"service"`
	Events  []models.PipelineEvent         `json:"events"`
}

// ArtifactSummary describes one cached stage output
type ArtifactSummary struct {
	Stage prompts.Stage `json:"stage"`
	Lines int           `json:"lines"`
	Bytes int           `json:"bytes"`
}

// ArtifactResponse is one cached stage output
type ArtifactResponse struct {
	Stage   prompts.Stage `json:"stage"`
	Content string        `json:"content"`
}

// CreateSession godoc
// @Summary Create session
// @Description Start a studio session and return a signed session token
// @Tags sessions
// @Produce json
// @Success 201 {object} CreateSessionResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.sessions.Create()
	ttl := h.cfg.Auth.TokenTTL
	token, err := h.tokens.Issue(c.Request.Context(), sess.ID, ttl)
	if err != nil {
		h.sessions.Delete(sess.ID)
		h.respondError(c, err)
		return
	}

	h.logger.Info("Session created", zap.String("session_id", sess.ID))
	c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: sess.CreatedAt.Add(ttl).UTC(),
	})
}

// GetSession godoc
// @Summary Get session
// @Tags sessions
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session [get]
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	keys := make([]string, 0)
	for k := range sess.Credentials() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stages := make([]string, 0)
	for _, k := range sess.Artifacts.Keys() {
		if stage, err := prompts.ParseStage(k); err == nil {
			stages = append(stages, string(stage))
		}
	}

	resp := SessionResponse{
		ID:             sess.ID,
		CreatedAt:      sess.CreatedAt,
		Stages:         stages,
		SignalCount:    len(sess.Signals()),
		CredentialKeys: keys,
		Notices:        sess.Notices(),
	}
	if svc, ok := sess.ServiceContext(); ok {
		resp.ServiceContext = &svc
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCredentials godoc
// @Summary Set credential overrides
// @Description Session credentials take precedence over server environment credentials
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body UpdateCredentialsRequest true "Credential values by key"
// @Success 200 {array} models.EngineInfo
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/credentials [put]
func (h *Handler) UpdateCredentials(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	var req UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}

	known := make(map[string]bool)
	for _, k := range h.cfg.CredentialKeys() {
		known[k] = true
	}
	for k := range req.Credentials {
		if !known[k] {
			badRequest(c, models.ErrCodeValidationFailed, fmt.Sprintf("unknown credential key %q", k))
			return
		}
	}
	for k, v := range req.Credentials {
		sess.SetCredential(k, strings.TrimSpace(v))
	}

	c.JSON(http.StatusOK, h.engineInfos(sess.Credentials()))
}

// RunStage godoc
// @Summary Generate one stage
// @Description Generate a stage output, or return it from the session cache
// @Tags generation
// @Accept json
// @Produce json
// @Param stage path string true "Stage (srs, franca, arxml, cpp, kotlin, rust, python, test, mock, misra)"
// @Param request body orchestration.Request true "Service selections"
// @Success 200 {object} orchestration.StageResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/stages/{stage} [post]
func (h *Handler) RunStage(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	stage, ok := parseStageParam(c)
	if !ok {
		return
	}

	var req orchestration.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}

	res, err := h.service.RunStage(c.Request.Context(), sess, req, stage)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RunPipeline godoc
// @Summary Run the full pipeline
// @Description Run every stage for the selected languages and return the generated service summary
// @Tags generation
// @Accept json
// @Produce json
// @Param request body orchestration.Request true "Service selections"
// @Success 200 {object} PipelineResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/pipeline [post]
func (h *Handler) RunPipeline(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	var req orchestration.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}

	events := make([]models.PipelineEvent, 0)
	svc, err := h.service.RunPipeline(c.Request.Context(), sess, req, func(e models.PipelineEvent) {
		events = append(events, e)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PipelineResponse{Service: *svc, Events: events})
}

// Restart godoc
// @Summary Restart the pipeline
// @Description Clear all generated stage outputs; imported signals and credentials are kept
// @Tags generation
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /session/restart [post]
func (h *Handler) Restart(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	removed := h.service.Restart(sess)
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ListArtifacts godoc
// @Summary List cached outputs
// @Tags artifacts
// @Produce json
// @Success 200 {array} ArtifactSummary
// @Security BearerAuth
// @Router /session/artifacts [get]
func (h *Handler) ListArtifacts(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	outputs := orchestration.Outputs(sess.Artifacts)
	summaries := make([]ArtifactSummary, 0, len(outputs))
	for _, stage := range prompts.AllStages() {
		content, ok := outputs[stage]
		if !ok {
			continue
		}
		summaries = append(summaries, ArtifactSummary{
			Stage: stage,
			Lines: len(strings.Split(content, "\n")),
			Bytes: len(content),
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetArtifact godoc
// @Summary Get a cached output
// @Tags artifacts
// @Produce json
// @Param stage path string true "Stage"
// @Success 200 {object} ArtifactResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/artifacts/{stage} [get]
func (h *Handler) GetArtifact(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	stage, ok := parseStageParam(c)
	if !ok {
		return
	}

	content, ok := sess.Artifacts.Get(stage.CacheKey())
	if !ok {
		notFound(c, models.ErrCodeArtifactMissing, fmt.Sprintf("no output for stage %s", stage))
		return
	}
	c.JSON(http.StatusOK, ArtifactResponse{Stage: stage, Content: content})
}

// ImportDBC godoc
// @Summary Import a DBC file
// @Description Parse CAN signals from a DBC file (multipart field "file" or raw body) and map them to VSS paths
// @Tags signals
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "DBC file"
// @Success 200 {object} dbc.Result
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/dbc [post]
func (h *Handler) ImportDBC(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "gateway.import_dbc")
	defer span.End()

	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	raw, err := h.readUpload(c)
	if err != nil {
		badRequest(c, models.ErrCodeInvalidRequest, err.Error())
		return
	}

	result := dbc.Import(raw)
	sess.SetSignals(result.Signals)
	if result.Warning != "" {
		sess.AddNotice(models.Notice{Kind: models.NoticeWarning, Message: result.Warning, At: time.Now()})
	}
	h.metrics.RecordSignalsImported(ctx, len(result.Signals))
	span.SetAttributes(attribute.Int("signals", len(result.Signals)))

	h.logger.Info("DBC imported",
		zap.String("session_id", sess.ID),
		zap.Int("signals", len(result.Signals)),
		zap.Int("bytes", len(raw)))
	c.JSON(http.StatusOK, result)
}

func (h *Handler) readUpload(c *gin.Context) ([]byte, error) {
	limit := h.cfg.Server.MaxUploadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var src io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing file field: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		src = f
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty upload")
	}
	return raw, nil
}

// GetSignals godoc
// @Summary List imported signals
// @Tags signals
// @Produce json
// @Success 200 {array} models.SignalRecord
// @Security BearerAuth
// @Router /session/signals [get]
func (h *Handler) GetSignals(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	signals := sess.Signals()
	if signals == nil {
		signals = []models.SignalRecord{}
	}
	c.JSON(http.StatusOK, signals)
}

// GetServiceContext godoc
// @Summary Get the generated service summary
// @Tags generation
// @Produce json
// @Success 200 {object} models.GeneratedServiceContext
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/context [get]
func (h *Handler) GetServiceContext(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	svc, ok := sess.ServiceContext()
	if !ok {
		notFound(c, models.ErrCodeNotFound, "No pipeline has completed in this session")
		return
	}
	c.JSON(http.StatusOK, svc)
}

// GetBuildFiles godoc
// @Summary Render build files
// @Description Render the Dockerfile, docker-compose.yml and CMakeLists.txt for the last generated service or the given name
// @Tags artifacts
// @Produce json
// @Param name query string false "Service name"
// @Param compliance query string false "Compliance standard"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /session/build-files [get]
func (h *Handler) GetBuildFiles(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	name := packager.DefaultServiceName
	compliance := string(prompts.ComplianceMISRACpp2023)
	if svc, ok := sess.ServiceContext(); ok {
		name, compliance = svc.Name, svc.Compliance
	}
	if v := strings.TrimSpace(c.Query("name")); v != "" {
		name = v
	}
	if v := strings.TrimSpace(c.Query("compliance")); v != "" {
		compliance = v
	}

	c.JSON(http.StatusOK, packager.BuildFiles(name, compliance))
}
