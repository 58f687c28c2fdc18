package http

import (
	"os"

	"finance_ledger/internal/config"
	"finance_ledger/internal/http/handlers"
	"finance_ledger/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, version string, cfg *config.Config) {
	h := handlers.NewHandler(db, handlers.HandlerConfig{BcryptCost: cfg.BcryptCost})
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// Legacy /api routes (same handlers, kept for old clients)
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(api, h, cfg)

	// Frontend static files, only when a directory is configured
	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err == nil {
			r.StaticFS("/assets", gin.Dir(cfg.StaticDir, false))
			index := cfg.StaticDir + "/index.html"
			r.NoRoute(func(c *gin.Context) {
				c.File(index)
			})
		}
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	// Credential endpoints keep the in-memory limiter so they never fail
	// open when Redis is absent
	authRL := middleware.SimpleRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Auth
	api.POST("/signup", authRL, h.Signup)
	api.POST("/login", authRL, h.Login)

	// User profile
	api.GET("/me", middleware.JWT(), h.Me)

	// Ledger
	api.GET("/transactions", middleware.JWT(), h.ListTransactions)
	api.POST("/transactions", middleware.JWT(), h.CreateTransaction)
}
