package rules

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tally/internal/constants"
	"tally/internal/logger"
	"tally/pkg/errors"
)

type BaseHandler struct {
	Service Service
	Logger  logger.Logger
}

func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

type Handler struct {
	BaseHandler
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		rules := v1.Group("/rules/screening")
		{
			rules.GET("", h.ListRules)
			rules.POST("", h.CreateRule)
			rules.GET("/:id", h.GetRule)
			rules.PUT("/:id", h.UpdateRule)
			rules.DELETE("/:id", h.DeleteRule)
			rules.GET("/:id/versions", h.GetRuleVersions)
			rules.GET("/:id/audit", h.GetRuleAuditLogs)
		}

		audit := v1.Group("/audit")
		{
			audit.GET("/logs", h.GetAuditLogs)
		}
	}
}

// ListRules godoc
// @Summary      List all screening rules
// @Description  Get a list of all screening rules
// @Tags         screening-rules
// @Accept       json
// @Produce      json
// @Success      200  {array}    ScreeningRule
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules/screening [get]
func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.Service.ListScreeningRules(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// CreateRule godoc
// @Summary      Create a new screening rule
// @Description  Create a new screening rule with the provided data
// @Tags         screening-rules
// @Accept       json
// @Produce      json
// @Param        rule  body       CreateScreeningRuleRequest  true  "Screening rule data"
// @Success      201   {object}   ScreeningRule
// @Failure      400   {object}  errors.ErrorResponse
// @Failure      409   {object}  errors.ErrorResponse
// @Failure      500   {object}  errors.ErrorResponse
// @Router       /rules/screening [post]
func (h *Handler) CreateRule(c *gin.Context) {
	var req CreateScreeningRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	rule, err := h.Service.CreateScreeningRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// GetRule godoc
// @Summary      Get a screening rule by ID
// @Description  Get a specific screening rule by its ID
// @Tags         screening-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}   ScreeningRule
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules/screening/{id} [get]
func (h *Handler) GetRule(c *gin.Context) {
	id := c.Param("id")
	rule, err := h.Service.GetScreeningRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// UpdateRule godoc
// @Summary      Update a screening rule
// @Description  Update an existing screening rule by ID
// @Tags         screening-rules
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Rule ID"
// @Param        rule  body       UpdateScreeningRuleRequest  true  "Updated rule data"
// @Success      200   {object}   ScreeningRule
// @Failure      400   {object}  errors.ErrorResponse
// @Failure      404   {object}  errors.ErrorResponse
// @Failure      500   {object}  errors.ErrorResponse
// @Router       /rules/screening/{id} [put]
func (h *Handler) UpdateRule(c *gin.Context) {
	id := c.Param("id")
	var req UpdateScreeningRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	rule, err := h.Service.UpdateScreeningRule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// DeleteRule godoc
// @Summary      Delete a screening rule
// @Description  Delete a screening rule by ID
// @Tags         screening-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      204  "No Content"
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules/screening/{id} [delete]
func (h *Handler) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	err := h.Service.DeleteScreeningRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRuleVersions godoc
// @Summary      Get rule version history
// @Description  Get version history for a specific screening rule
// @Tags         screening-rules
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {array}   RuleVersion
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rules/screening/{id}/versions [get]
func (h *Handler) GetRuleVersions(c *gin.Context) {
	id := c.Param("id")
	versions, err := h.Service.GetRuleVersions(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// GetRuleAuditLogs godoc
// @Summary      Get audit logs for a rule
// @Description  Get audit logs for a specific screening rule
// @Tags         screening-rules
// @Accept       json
// @Produce      json
// @Param        id     path      string  true   "Rule ID"
// @Param        limit  query     int     false  "Maximum number of logs to return (1-1000)" default(100)
// @Success      200    {array}   AuditLog
// @Failure      404    {object}  errors.ErrorResponse
// @Failure      500    {object}  errors.ErrorResponse
// @Router       /rules/screening/{id}/audit [get]
func (h *Handler) GetRuleAuditLogs(c *gin.Context) {
	id := c.Param("id")
	limit := parseLimit(c.Query("limit"))

	logs, err := h.Service.GetAuditLogs(c.Request.Context(), &id, RuleTypeScreening, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetAuditLogs godoc
// @Summary      Get audit logs
// @Description  Get audit logs with optional filtering by rule ID and rule type
// @Tags         audit
// @Accept       json
// @Produce      json
// @Param        rule_id    query     string  false  "Rule ID"
// @Param        rule_type  query     string  false  "Rule type"
// @Param        limit      query     int     false  "Maximum number of logs to return (1-1000)" default(100)
// @Success      200  {array}   AuditLog
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /audit/logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	ruleID := c.Query("rule_id")
	ruleType := c.Query("rule_type")
	limit := parseLimit(c.Query("limit"))

	var ruleIDPtr *string
	if ruleID != "" {
		ruleIDPtr = &ruleID
	}

	logs, err := h.Service.GetAuditLogs(c.Request.Context(), ruleIDPtr, ruleType, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
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
