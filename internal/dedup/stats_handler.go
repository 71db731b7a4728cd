package dedup

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tally/internal/logger"
	"tally/pkg/errors"
)

type StatsHandler struct {
	service *Service
	log     logger.Logger
}

func NewStatsHandler(service *Service, log logger.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		log:     log,
	}
}

type StatsResponse struct {
	LiveClaims int `json:"live_claims"`
	TTLSeconds int `json:"ttl_seconds"`
}

func (h *StatsHandler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/dedup/stats", h.GetStats)
	}
}

// GetStats godoc
// @Summary      Deduplication stats
// @Description  Get the number of live dedup claims and the claim TTL
// @Tags         dedup
// @Accept       json
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /dedup/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	size, err := h.service.CacheSize(c.Request.Context())
	if err != nil {
		h.log.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
		c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		LiveClaims: size,
		TTLSeconds: h.service.TTLSeconds(),
	})
}
