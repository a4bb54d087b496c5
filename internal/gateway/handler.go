package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/auth"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/history"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/metrics"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/orchestration"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Dependencies wires the handler to the rest of the service. History,
// Publisher, Metrics and Ready are optional.
type Dependencies struct {
	Config    *config.Config
	Sessions  *session.Manager
	Service   *orchestration.Service
	Backend   orchestration.Backend
	Tokens    *auth.TokenManager
	History   history.Recorder
	Publisher packager.Publisher
	Metrics   *metrics.PipelineMetrics
	Ready     func(ctx context.Context) error
	Logger    *zap.Logger
}

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	cfg       *config.Config
	sessions  *session.Manager
	service   *orchestration.Service
	backend   orchestration.Backend
	tokens    *auth.TokenManager
	history   history.Recorder
	publisher packager.Publisher
	metrics   *metrics.PipelineMetrics
	ready     func(ctx context.Context) error
	logger    *zap.Logger
	tracer    trace.Tracer
	upgrader  websocket.Upgrader
}

// NewHandler creates a new gateway handler
func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:       deps.Config,
		sessions:  deps.Sessions,
		service:   deps.Service,
		backend:   deps.Backend,
		tokens:    deps.Tokens,
		history:   deps.History,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		ready:     deps.Ready,
		logger:    logger,
		tracer:    otel.Tracer("gateway"),
		upgrader: websocket.Upgrader{
			CheckOrigin:      func(r *http.Request) bool { return true },
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ready godoc
// @Summary Readiness probe
// @Description Reports whether backing stores are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *Handler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			h.logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  "database connection failed",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// currentSession loads the session named by the caller's token and writes
// the error response itself when it cannot.
func (h *Handler) currentSession(c *gin.Context) (*session.Session, bool) {
	sess, err := h.sessions.Get(auth.SessionID(c))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, models.ErrCodeInternalError
	message := "Internal server error"

	switch {
	case errors.Is(err, orchestration.ErrInvalidRequest):
		status, code, message = http.StatusBadRequest, models.ErrCodeValidationFailed, err.Error()
	case errors.Is(err, orchestration.ErrUnknownEngine):
		status, code, message = http.StatusBadRequest, models.ErrCodeEngineNotFound, err.Error()
	case errors.Is(err, orchestration.ErrPipelineRunning):
		status, code, message = http.StatusConflict, models.ErrCodePipelineRunning, err.Error()
	case errors.Is(err, session.ErrNotFound):
		status, code, message = http.StatusNotFound, models.ErrCodeSessionNotFound, "Session not found or expired"
	case errors.Is(err, packager.ErrStorageDisabled):
		status, code, message = http.StatusServiceUnavailable, models.ErrCodeStorageDisabled, err.Error()
	default:
		_ = c.Error(err)
		h.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	c.JSON(status, models.ErrorResponse{Error: message, Code: code})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: message, Code: code})
}

func notFound(c *gin.Context, code, message string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{Error: message, Code: code})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseStageParam(c *gin.Context) (prompts.Stage, bool) {
	stage, err := prompts.ParseStage(c.Param("stage"))
	if err != nil {
		notFound(c, models.ErrCodeStageNotFound, err.Error())
		return "", false
	}
	return stage, true
}
