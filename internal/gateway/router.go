package gateway

import (
	"github.com/bizmatters/agent-builder/sdv-studio/internal/auth"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/logging"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// NewRouter registers every route of the studio API.
func NewRouter(h *Handler, tokens *auth.TokenManager, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(logger, auth.SessionIDKey))

	// Health checks stay at the root for the platform probes
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// Public routes
	api.GET("/health", h.Health)
	api.POST("/sessions", h.CreateSession)
	api.GET("/engines", h.ListEngines)
	api.GET("/compliance-standards", h.ListComplianceStandards)
	api.GET("/languages", h.ListLanguages)
	api.GET("/templates", h.ListTemplates)
	api.GET("/refinement-questions", h.ListRefinementQuestions)
	api.GET("/history", h.ListHistory)

	// Session routes
	protected := api.Group("/session")
	protected.Use(auth.RequireSession(tokens, logger))

	protected.GET("", h.GetSession)
	protected.PUT("/credentials", h.UpdateCredentials)
	protected.GET("/context", h.GetServiceContext)

	protected.POST("/dbc", h.ImportDBC)
	protected.GET("/signals", h.GetSignals)

	protected.POST("/stages/:stage", h.RunStage)
	protected.POST("/pipeline", h.RunPipeline)
	protected.POST("/restart", h.Restart)

	protected.GET("/artifacts", h.ListArtifacts)
	protected.GET("/artifacts/:stage", h.GetArtifact)
	protected.GET("/build-files", h.GetBuildFiles)
	protected.GET("/archive", h.DownloadArchive)
	protected.POST("/archive/publish", h.PublishArchive)

	protected.GET("/ws/pipeline", h.StreamPipeline)

	return router
}
