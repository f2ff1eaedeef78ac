// Package http provides the HTTP adapter over the document service.
// This is a thin translation layer: all invariants live in the engine and the
// service, handlers only map requests to service calls and errors to statuses.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/travel-settlement/internal/service"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	documents  *service.DocumentService
	logger     *zap.Logger
}

// NewServer creates a new HTTP server over the document service
func NewServer(config ServerConfig, documents *service.DocumentService, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		config:    config,
		router:    router,
		documents: documents,
		logger:    logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.documents, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.GET("/applications", handlers.ListApplications)

		api.POST("/documents", handlers.CreateDocument)
		api.GET("/documents/:id", handlers.GetDocument)
		api.GET("/documents/:id/settlement", handlers.GetSettlement)
		api.POST("/documents/:id/import", handlers.ImportApplication)
		api.POST("/documents/:id/commands", handlers.ApplyCommand)

		api.POST("/documents/:id/travelers", handlers.AddTraveler)
		api.PUT("/documents/:id/travelers/:travelerId", handlers.UpdateTraveler)
		api.DELETE("/documents/:id/travelers/:travelerId", handlers.RemoveTraveler)

		api.POST("/documents/:id/segments", handlers.AddSegment)
		api.DELETE("/documents/:id/segments/:segmentId", handlers.RemoveSegment)

		api.POST("/documents/:id/expenses", handlers.AddExpense)
		api.DELETE("/documents/:id/expenses/:expenseId", handlers.RemoveExpense)

		api.POST("/documents/:id/loans", handlers.AddLoan)
		api.DELETE("/documents/:id/loans/:loanId", handlers.RemoveLoan)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
