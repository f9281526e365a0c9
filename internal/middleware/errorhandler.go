package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/tradejournal/internal/domain/dto"
	"github.com/mfreitas/tradejournal/internal/logger"
)

// ErrorHandler is a Gin middleware that converts errors attached to the
// context into a standardized JSON error response.
//
// Behavior:
//   - Runs the handler chain first.
//   - If any handler called c.Error(...), logs the last error and, when no
//     response has been written yet, replies 500 with dto.ErrorResponse.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	err := c.Errors.Last().Err
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().
		Str("request_id", toString(rid)).
		Err(err).
		Msg("request failed")

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
	}
}

// AbortWithError records the error on the context and writes the standardized
// error body with the given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
