// Package server exposes the rule auditor over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/eleven-am/fwaudit/internal/analyzer"
)

const (
	shutdownTimeout = 30 * time.Second
	maxBodyBytes    = 10 << 20
)

type Server struct {
	addr       string
	auditor    *analyzer.Auditor
	router     *gin.Engine
	httpServer *http.Server
}

func New(addr string, auditor *analyzer.Auditor) *Server {
	if log.GetLevel() >= log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		addr:    addr,
		auditor: auditor,
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery(), loggerMiddleware())
	s.setupRoutes()
	return s
}

// Router returns the gin engine, mainly so tests can drive it without a listener.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting API server on %s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("API server forced to shutdown: %v", err)
		return err
	}
	log.Info("API server stopped gracefully")
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/audit", s.handleAudit)
		v1.GET("/tables", s.handleTables)
	}
}

func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.WithFields(log.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Debug("API request")
	}
}
