package archive

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tally/internal/constants"
	"tally/internal/logger"
	"tally/pkg/errors"
)

type Handler struct {
	service Service
	log     logger.Logger
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.log.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		rejections := v1.Group("/rejections")
		{
			rejections.GET("", h.ListRejections)
			rejections.GET("/stats", h.GetRejectionStats)
		}
	}
}

// ListRejections godoc
// @Summary      List rejected messages
// @Description  Get rejected messages, newest first, optionally filtered by reason kind or source
// @Tags         rejections
// @Accept       json
// @Produce      json
// @Param        reason_kind  query  string  false  "Reason kind (malformed or screened_out)"
// @Param        source       query  string  false  "Source system"
// @Param        limit        query  int     false  "Maximum rejections to return"
// @Param        offset       query  int     false  "Rejections to skip"
// @Success      200  {array}   Rejection
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rejections [get]
func (h *Handler) ListRejections(c *gin.Context) {
	filter := RejectionFilter{
		ReasonKind: c.Query("reason_kind"),
		Source:     c.Query("source"),
		Limit:      parseLimit(c.Query("limit")),
		Offset:     parseOffset(c.Query("offset")),
	}

	rejections, err := h.service.ListRejections(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rejections)
}

// GetRejectionStats godoc
// @Summary      Rejection counts
// @Description  Get rejection totals split by reason kind
// @Tags         rejections
// @Accept       json
// @Produce      json
// @Success      200  {object}  RejectionStats
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rejections/stats [get]
func (h *Handler) GetRejectionStats(c *gin.Context) {
	stats, err := h.service.RejectionStats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseLimit(limitStr string) int {
	if limitStr == "" {
		return constants.DefaultLimit
	}
	parsed, err := strconv.Atoi(limitStr)
	if err != nil || parsed <= 0 || parsed > constants.MaxLimit {
		return constants.DefaultLimit
	}
	return parsed
}

func parseOffset(offsetStr string) int {
	if offsetStr == "" {
		return 0
	}
	parsed, err := strconv.Atoi(offsetStr)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
