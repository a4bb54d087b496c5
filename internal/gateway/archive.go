package gateway

import (
	"fmt"
	"net/http"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/orchestration"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/session"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// PublishResponse reports where an archive was stored
type PublishResponse struct {
	Filename string            `json:"filename"`
	Location packager.Location `json:"location"`
}

// archiveInput snapshots the last completed run of a session. It returns
// false when no pipeline has completed yet.
func archiveInput(sess *session.Session) (packager.Input, models.GeneratedServiceContext, bool) {
	svc, ok := sess.ServiceContext()
	if !ok {
		return packager.Input{}, svc, false
	}
	return packager.Input{
		Name:        svc.Name,
		Description: svc.Description,
		Compliance:  svc.Compliance,
		Languages:   svc.Languages,
		Engine:      svc.Engine,
		Outputs:     orchestration.Outputs(sess.Artifacts),
	}, svc, true
}

// DownloadArchive godoc
// @Summary Download project archive
// @Description Package the cached stage outputs and build files of the last run into a zip archive
// @Tags artifacts
// @Produce application/zip
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/archive [get]
func (h *Handler) DownloadArchive(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "gateway.download_archive")
	defer span.End()

	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	in, _, ok := archiveInput(sess)
	if !ok {
		notFound(c, models.ErrCodeArtifactMissing, "Run the pipeline before downloading the project")
		return
	}

	data, filename, err := packager.Archive(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "archive failed")
		h.respondError(c, err)
		return
	}
	span.SetAttributes(
		attribute.String("filename", filename),
		attribute.Int("bytes", len(data)),
	)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/zip", data)
}

// PublishArchive godoc
// @Summary Publish project archive
// @Description Upload the project archive of the last run to object storage
// @Tags artifacts
// @Produce json
// @Success 200 {object} PublishResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/archive/publish [post]
func (h *Handler) PublishArchive(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "gateway.publish_archive")
	defer span.End()

	if h.publisher == nil {
		h.respondError(c, packager.ErrStorageDisabled)
		return
	}

	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	in, svc, ok := archiveInput(sess)
	if !ok {
		notFound(c, models.ErrCodeArtifactMissing, "Run the pipeline before publishing the project")
		return
	}

	data, filename, err := packager.Archive(in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	key := svc.RunID + "/" + filename
	loc, err := h.publisher.Publish(ctx, key, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		h.respondError(c, err)
		return
	}

	h.logger.Info("Archive published",
		zap.String("session_id", sess.ID),
		zap.String("bucket", loc.Bucket),
		zap.String("key", loc.Key))
	c.JSON(http.StatusOK, PublishResponse{Filename: filename, Location: loc})
}
