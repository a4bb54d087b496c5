package gateway

import (
	"net/http"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/history"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/gin-gonic/gin"
)

func (h *Handler) engineInfos(overrides map[string]string) []models.EngineInfo {
	out := make([]models.EngineInfo, len(h.cfg.Engines))
	for i, e := range h.cfg.Engines {
		out[i] = models.EngineInfo{
			EngineDescriptor: e,
			Configured:       h.backend.HasCredential(e, overrides),
		}
	}
	return out
}

// ListEngines godoc
// @Summary List engines
// @Description List the engine registry and whether a server-side credential is configured for each
// @Tags catalog
// @Produce json
// @Success 200 {array} models.EngineInfo
// @Router /engines [get]
func (h *Handler) ListEngines(c *gin.Context) {
	c.JSON(http.StatusOK, h.engineInfos(nil))
}

// ListComplianceStandards godoc
// @Summary List compliance standards
// @Tags catalog
// @Produce json
// @Success 200 {array} prompts.ComplianceStandard
// @Router /compliance-standards [get]
func (h *Handler) ListComplianceStandards(c *gin.Context) {
	c.JSON(http.StatusOK, prompts.Standards())
}

// ListLanguages godoc
// @Summary List target languages
// @Tags catalog
// @Produce json
// @Success 200 {array} prompts.LanguageInfo
// @Router /languages [get]
func (h *Handler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, prompts.Languages())
}

// ListTemplates godoc
// @Summary List service description templates
// @Tags catalog
// @Produce json
// @Success 200 {array} prompts.ServiceTemplate
// @Router /templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, prompts.ServiceTemplates())
}

// ListRefinementQuestions godoc
// @Summary List refinement questions
// @Tags catalog
// @Produce json
// @Success 200 {array} prompts.RefinementQuestion
// @Router /refinement-questions [get]
func (h *Handler) ListRefinementQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, prompts.RefinementQuestions())
}

// ListHistory godoc
// @Summary Recent runs
// @Description List recently generated services, newest first
// @Tags catalog
// @Produce json
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} models.GeneratedServiceContext
// @Failure 500 {object} models.ErrorResponse
// @Router /history [get]
func (h *Handler) ListHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, []models.GeneratedServiceContext{})
		return
	}
	runs, err := h.history.Recent(c.Request.Context(), queryInt(c, "limit", history.DefaultLimit))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if runs == nil {
		runs = []models.GeneratedServiceContext{}
	}
	c.JSON(http.StatusOK, runs)
}
