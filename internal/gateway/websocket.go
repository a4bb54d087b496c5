package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/orchestration"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	requestReadTimeout = 30 * time.Second
	writeTimeout       = 10 * time.Second
)

// eventWriter serializes pipeline events onto a single websocket connection
type eventWriter struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	terminal bool
	err      error
}

func (w *eventWriter) write(e models.PipelineEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e.Type == models.EventPipelineCompleted || e.Type == models.EventPipelineFailed {
		w.terminal = true
	}
	if w.err != nil {
		return
	}
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	w.err = w.conn.WriteJSON(e)
}

func (w *eventWriter) finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terminal
}

func (w *eventWriter) close(code int, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(writeTimeout))
}

// StreamPipeline godoc
// @Summary Stream a pipeline run
// @Description WebSocket endpoint. The first client message is the pipeline request; the server then streams pipeline events and closes the connection after the terminal event. Closing the connection cancels the run.
// @Tags generation
// @Param token query string false "Session token when the Authorization header cannot be set"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /session/ws/pipeline [get]
func (h *Handler) StreamPipeline(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, span := h.tracer.Start(context.WithoutCancel(c.Request.Context()), "gateway.stream_pipeline")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sess.ID))

	w := &eventWriter{conn: conn}

	var req orchestration.Request
	_ = conn.SetReadDeadline(time.Now().Add(requestReadTimeout))
	if err := conn.ReadJSON(&req); err != nil {
		h.logger.Warn("Invalid pipeline request", zap.String("session_id", sess.ID), zap.Error(err))
		w.write(models.PipelineEvent{Type: models.EventPipelineFailed, Error: "invalid pipeline request"})
		w.close(websocket.CloseUnsupportedData, "invalid request")
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The client sends nothing after the request; any read error means it went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Info("Pipeline stream started", zap.String("session_id", sess.ID))

	_, err = h.service.RunPipeline(ctx, sess, req, w.write)
	if err != nil && !w.finished() {
		w.write(models.PipelineEvent{Type: models.EventPipelineFailed, Error: err.Error()})
	}
	if err != nil {
		span.RecordError(err)
		h.logger.Warn("Pipeline stream ended with error",
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}

	w.close(websocket.CloseNormalClosure, "pipeline finished")
	conn.Close()
	<-done
}
