package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/relay"
)

// StreamTickers handles GET /api/tickers requests.
//
// It opens a dedicated upstream pricing connection for this subscriber and
// forwards the raw stream as server-sent events. If the upstream cannot be
// reached the request fails with a JSON 500 before any event bytes are
// written; once streaming has begun an upstream failure simply closes the
// connection and reconnecting is the client's call.
//
// StreamTickers godoc
// @Summary      Live price stream
// @Description  Relays the vendor pricing stream for the configured instruments as server-sent events
// @Tags         tickers
// @Produce      text/event-stream
// @Success      200  {string}  string             "SSE stream"
// @Failure      500  {object}  dto.ErrorResponse  "Upstream unavailable"
// @Router       /api/tickers [get]
func (h *Handler) StreamTickers(c *gin.Context) {
	upstream, err := h.relay.Open(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("price stream unavailable", err))
		return
	}
	defer func() { _ = upstream.Close() }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	// Blocks until the vendor closes the stream or the client goes away;
	// the request context tears down the upstream connection either way.
	_ = relay.Pipe(c.Request.Context(), upstream, c.Writer)
}
