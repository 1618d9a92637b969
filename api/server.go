// Package api serves the stored standings over HTTP under /api/v1/player.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rally-metrics/services"
	"rally-metrics/storage"
	"rally-metrics/utils"
)

// PlayerStore is everything the handlers need from storage.
type PlayerStore interface {
	storage.StatisticReader
	storage.PlayerEditor
	services.StatisticUpserter
}

// Options configures a Server.
type Options struct {
	Store    PlayerStore
	Profiles *services.ProfileService
	Format   services.NumberFormat
	// CleanCSVPath is imported by POST /upload when no file is attached.
	CleanCSVPath string
	// AllowOrigins lists the CORS origins; empty or "*" allows any origin.
	AllowOrigins []string
}

// Server wraps the gin router and its dependencies.
type Server struct {
	router   *gin.Engine
	store    PlayerStore
	profiles *services.ProfileService
	format   services.NumberFormat
	cleanCSV string
	logger   *utils.Logger
}

// NewServer creates a Server with all routes registered.
func NewServer(opts Options, logger *utils.Logger) *Server {
	s := &Server{
		router:   gin.New(),
		store:    opts.Store,
		profiles: opts.Profiles,
		format:   opts.Format,
		cleanCSV: opts.CleanCSVPath,
		logger:   logger,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(logger))
	s.router.Use(corsMiddleware(opts.AllowOrigins))

	s.router.GET("/health", s.health)

	players := s.router.Group("/api/v1/player")
	players.GET("", s.listPlayers)
	players.GET("/search", s.searchPlayers)
	players.GET("/:name/summary", s.playerSummary)
	players.POST("", s.addPlayer)
	players.PUT("", s.updatePlayer)
	players.DELETE("/:name", s.deletePlayer)
	players.POST("/upload", s.uploadCSV)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("[api] Shutdown: %v", err)
		}
	}()

	s.logger.Info("[api] Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("[api] Server stopped")
	return nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func requestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("[api] %s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
