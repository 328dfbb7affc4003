package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/anupk/tutordesk/internal/config"
	"github.com/anupk/tutordesk/internal/handler"
	"github.com/anupk/tutordesk/internal/httpmiddleware"
	"github.com/anupk/tutordesk/internal/logging"
	"github.com/anupk/tutordesk/internal/metrics"
	"github.com/anupk/tutordesk/internal/store"
	"github.com/anupk/tutordesk/internal/tracker"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Database
	st, err := store.New(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer st.Close()

	tr := tracker.New(st, logger)
	tr.OnChange(func(collection string) {
		metrics.MutationsTotal.WithLabelValues(collection).Inc()
		logger.Debug("state changed", zap.String("collection", collection))
	})

	// Router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger))
	r.Use(httpmiddleware.Metrics())
	r.Use(httpmiddleware.SecurityHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		if err := st.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": true})
	})

	// Serve the frontend when a build directory is configured
	if cfg.StaticDir != "" {
		r.Static("/app", cfg.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/app/")
		})
	}

	// API routes
	api := r.Group("/api")
	api.Use(httpmiddleware.NewIPRateLimiter(cfg.RateBurst, cfg.RatePerMinute).Middleware())
	handler.New(tr).Register(api)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
