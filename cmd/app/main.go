package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance_ledger/internal/config"
	"finance_ledger/internal/db"
	httpServer "finance_ledger/internal/http"
	"finance_ledger/internal/http/middleware"
	"finance_ledger/internal/logger"
	"finance_ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, dbPool, version, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	logger.Info("server exited")
}
