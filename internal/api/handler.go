package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/domain/models"
	"github.com/mfreitas/tradejournal/internal/relay"
	"github.com/mfreitas/tradejournal/internal/service"
)

// Handler provides HTTP handlers for the trade journal endpoints.
//
// Responsibilities:
//   - Validate incoming JSON bodies and query parameters
//   - Interact with the service layer for data access
//   - Translate results into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc   service.TradeService
	relay *relay.Relay
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.TradeService): Service dependency for journal entries.
//   - priceRelay (*relay.Relay): Upstream pricing relay for the ticker stream.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.TradeService, priceRelay *relay.Relay) *Handler {
	return &Handler{svc: svc, relay: priceRelay}
}

// ListTrades handles GET /api/trades requests.
//
// ListTrades godoc
// @Summary      List journal entries
// @Description  Returns all trades sorted by the requested column
// @Tags         trades
// @Produce      json
// @Param        sortBy  query     string  false  "Sort column"    example(date)
// @Param        order   query     string  false  "asc or desc"    example(desc)
// @Success      200     {array}   models.Trade       "Success"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/trades [get]
func (h *Handler) ListTrades(c *gin.Context) {
	// Unknown sort columns fall back to the default inside the store; a typo
	// degrades the ordering, never the request.
	trades, err := h.svc.List(c.Request.Context(), c.Query("sortBy"), c.Query("order"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch trades", err))
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	c.JSON(http.StatusOK, trades)
}

// CreateTrade handles POST /api/trades requests.
//
// CreateTrade godoc
// @Summary      Create a journal entry
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        trade  body      dto.TradeRequest  true  "Trade fields"
// @Success      201    {object}  models.Trade       "Created"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/trades [post]
func (h *Handler) CreateTrade(c *gin.Context) {
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}
	trade, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), trade)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to create trade", err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateTrade handles PUT /api/trades/:id requests.
//
// UpdateTrade godoc
// @Summary      Update a journal entry
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        id     path      string            true  "Trade id"
// @Param        trade  body      dto.TradeRequest  true  "Trade fields"
// @Success      200    {object}  models.Trade       "Updated"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404    {object}  dto.ErrorResponse  "Not Found"
// @Failure      500    {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/trades/{id} [put]
func (h *Handler) UpdateTrade(c *gin.Context) {
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}
	trade, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), trade)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to update trade", err))
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("trade not found", nil))
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTrade handles DELETE /api/trades/:id requests.
//
// DeleteTrade godoc
// @Summary      Delete a journal entry
// @Tags         trades
// @Produce      json
// @Param        id   path      string  true  "Trade id"
// @Success      200  {object}  dto.MessageResponse  "Deleted"
// @Failure      404  {object}  dto.ErrorResponse    "Not Found"
// @Failure      500  {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/trades/{id} [delete]
func (h *Handler) DeleteTrade(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to delete trade", err))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("trade not found", nil))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Trade deleted"})
}
