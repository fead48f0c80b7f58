// Package server exposes the record store, dashboard and advisor as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Gate is the unlock state the API is guarded by.
type Gate interface {
	Unlocked() bool
	Unlock(ctx context.Context, pin string) error
	Lock(ctx context.Context) error
}

// Server wires HTTP routes to the store.
type Server struct {
	store   *store.Store
	gate    Gate
	advisor advisor.Advisor
	logger  *slog.Logger
	router  *gin.Engine
}

// New builds the router. adv may be nil, in which case /advice answers 503.
func New(st *store.Store, gate Gate, adv advisor.Advisor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:   st,
		gate:    gate,
		advisor: adv,
		logger:  logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes(r)
	s.router = r

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.POST("/unlock", s.unlockHandler)

	api := r.Group("")
	api.Use(s.gateMiddleware())

	api.POST("/lock", s.lockHandler)
	api.GET("/dashboard", s.dashboardHandler)
	api.GET("/settings", s.getSettingsHandler)
	api.PUT("/settings", s.putSettingsHandler)
	api.POST("/advice", s.adviceHandler)

	registerResource(api, s, transactions)
	registerResource(api, s, debts)
	registerResource(api, s, taxPayments)
	registerResource(api, s, fixedCosts)
}

// gateMiddleware rejects every request while the gate is locked.
func (s *Server) gateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.gate != nil && !s.gate.Unlocked() {
			c.AbortWithStatusJSON(http.StatusLocked, gin.H{"error": "locked: POST /unlock with the PIN first"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
