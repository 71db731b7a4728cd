package ingest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tally/internal/logger"
	"tally/pkg/errors"
	"tally/pkg/metrics"
)

type Handler struct {
	service *Service
	log     logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.log.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/messages", h.PostMessage)
	}
}

// PostMessage godoc
// @Summary      Ingest a chat message
// @Description  Accept one delivered chat event and queue it for recording
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request  body  MessageRequest  true  "Delivered chat event"
// @Success      202  {object}  MessageAccepted
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      503  {object}  errors.ErrorResponse
// @Router       /messages [post]
func (h *Handler) PostMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IngestMessagesTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	msg, err := h.service.Accept(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, MessageAccepted{
		ID:         msg.ID,
		Topic:      h.service.topic,
		AcceptedAt: time.Now(),
	})
}
