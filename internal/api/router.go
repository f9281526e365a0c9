package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/tradejournal/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS).
//   - Adds request timeout and rate limiting on the JSON trade routes only;
//     the ticker stream is long-lived and exempt from both.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures the journal routes (/api/trades, /api/tickers).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - corsOrigin (string): Allowed browser origin ("*" for any).
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, corsOrigin string) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.CORS(corsOrigin),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── Root ─────────────────────────────────────
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the Trading Journal Server!")
	})

	// ─── Journal API ──────────────────────────────
	apiGroup := router.Group("/api")

	trades := apiGroup.Group("/trades", middleware.RateLimiter(), requestTimeout(10*time.Second))
	{
		trades.GET("", handler.ListTrades)
		trades.POST("", handler.CreateTrade)
		trades.PUT("/:id", handler.UpdateTrade)
		trades.DELETE("/:id", handler.DeleteTrade)
	}

	apiGroup.GET("/tickers", handler.StreamTickers)

	return router
}

// requestTimeout bounds a request's context. Applied per-group so the
// streaming route stays unbounded.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
