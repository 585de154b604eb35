// Package ui serves the press dashboard's JSON API over gin.
package ui

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"presshealth/domain/health"
	"presshealth/domain/press"
	"presshealth/internal"
	"presshealth/internal/report"
	"presshealth/ports"
)

// PressAPI is what the handlers need from the server-side service
type PressAPI interface {
	ports.PressService
	Report(ctx context.Context, filename string) (*report.Document, error)
	Uploads(ctx context.Context, limit int) ([]*press.Upload, error)
	SessionHealth(ctx context.Context, filename string, sn int, sessionKey string) (health.Health, error)
}

// Server represents the dashboard API server
type Server struct {
	router        *gin.Engine
	service       PressAPI
	maxUploadSize int64
	logger        *internal.Logger

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates the API server and registers its routes
func NewServer(service PressAPI, maxUploadSize int64, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:        gin.New(),
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("Server"),
	}
	s.router.MaxMultipartMemory = maxUploadSize
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/get_press_data", s.handleGetPressData)
	s.router.POST("/process_data", s.handleProcessData)

	api := s.router.Group("/api")
	api.POST("/error_stats", s.handleErrorStats)
	api.POST("/session_health", s.handleSessionHealth)
	api.GET("/uploads", s.handleListUploads)
	api.GET("/report/:filename", s.handleReport)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("listening on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("shutting down")
	return srv.Shutdown(ctx)
}
