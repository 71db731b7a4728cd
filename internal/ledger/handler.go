package ledger

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tally/internal/constants"
	"tally/internal/logger"
	"tally/internal/rates"
	"tally/pkg/errors"
)

type Handler struct {
	service Service
	rates   rates.Provider
	log     logger.Logger
}

func NewHandler(service Service, ratesProvider rates.Provider, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		rates:   ratesProvider,
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
		ledger := v1.Group("/ledger")
		{
			ledger.GET("/rows", h.ListRows)
			ledger.GET("/rows/:source_message_id", h.GetRow)
			ledger.GET("/sheets", h.ListSheets)
			ledger.GET("/sheets/:sheet/summary", h.GetSheetSummary)
			ledger.POST("/weeks/close", h.CloseWeek)
		}

		v1.GET("/rates/:currency", h.GetRate)
	}
}

// ListRows godoc
// @Summary      List ledger rows
// @Description  Get ledger rows in append order, optionally filtered by sheet, account, currency or kind
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        sheet     query     string  false  "Sheet name"
// @Param        account   query     string  false  "Account name"
// @Param        currency  query     string  false  "Currency code"
// @Param        kind      query     string  false  "Row kind (bet or week_marker)"
// @Param        limit     query     int     false  "Maximum rows to return"
// @Param        offset    query     int     false  "Rows to skip"
// @Success      200  {array}   Row
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /ledger/rows [get]
func (h *Handler) ListRows(c *gin.Context) {
	filter := RowFilter{
		Sheet:    c.Query("sheet"),
		Account:  c.Query("account"),
		Currency: c.Query("currency"),
		Kind:     c.Query("kind"),
		Limit:    parseLimit(c.Query("limit")),
		Offset:   parseOffset(c.Query("offset")),
	}

	rows, err := h.service.ListRows(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetRow godoc
// @Summary      Get a ledger row
// @Description  Get the ledger row appended for a source message id
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        source_message_id  path  string  true  "Source message id"
// @Success      200  {object}  Row
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /ledger/rows/{source_message_id} [get]
func (h *Handler) GetRow(c *gin.Context) {
	row, err := h.service.GetRow(c.Request.Context(), c.Param("source_message_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// ListSheets godoc
// @Summary      List sheets
// @Description  Get the sheets that hold at least one row, oldest first
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Success      200  {array}   string
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /ledger/sheets [get]
func (h *Handler) ListSheets(c *gin.Context) {
	sheets, err := h.service.ListSheets(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sheets)
}

// GetSheetSummary godoc
// @Summary      Summarize a sheet
// @Description  Get per-currency stakes, the converted total and the commission for a sheet
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        sheet  path  string  true  "Sheet name"
// @Success      200  {object}  SheetSummary
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /ledger/sheets/{sheet}/summary [get]
func (h *Handler) GetSheetSummary(c *gin.Context) {
	summary, err := h.service.SheetSummary(c.Request.Context(), c.Param("sheet"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CloseWeek godoc
// @Summary      Close the current week
// @Description  Append an End of Week marker row, targeting the current month's sheet unless one is named
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request  body  CloseWeekRequest  false  "Target sheet"
// @Success      201  {object}  Row
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /ledger/weeks/close [post]
func (h *Handler) CloseWeek(c *gin.Context) {
	var req CloseWeekRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
			return
		}
	}

	marker, err := h.service.CloseWeek(c.Request.Context(), req.Sheet)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, marker)
}

// GetRate godoc
// @Summary      Get a conversion rate
// @Description  Get the quote-per-base rate used for summary conversion
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        currency  path  string  true  "Base currency code"
// @Success      200  {object}  RateResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /rates/{currency} [get]
func (h *Handler) GetRate(c *gin.Context) {
	base := strings.ToUpper(c.Param("currency"))

	rate, err := h.rates.Rate(c.Request.Context(), base)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, RateResponse{
		Base:  base,
		Quote: h.rates.Quote(),
		Rate:  rate,
	})
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
