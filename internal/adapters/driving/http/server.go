package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
	"github.com/martinsumner/yokozuna/internal/runtime"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService     driving.AuthService
	searchService   driving.SearchService
	indexService    driving.IndexService
	entropyService  driving.EntropyService
	exchangeService driving.ExchangeService
	adminService    driving.AdminService

	// Infrastructure
	services *runtime.Services // capability flags (can be nil)
	solr     Pinger            // Solr health check
	db       Pinger            // PostgreSQL health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8093,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	searchService driving.SearchService,
	indexService driving.IndexService,
	entropyService driving.EntropyService,
	exchangeService driving.ExchangeService,
	adminService driving.AdminService,
	services *runtime.Services,
	solr Pinger,
	db Pinger, // can be nil
) *Server {
	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		authService:     authService,
		searchService:   searchService,
		indexService:    indexService,
		entropyService:  entropyService,
		exchangeService: exchangeService,
		adminService:    adminService,
		services:        services,
		solr:            solr,
		db:              db,
	}

	handler := NewRecoveryMiddleware().Handler(
		NewLoggingMiddleware().Handler(s.router))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.authService)
	requireWrite := authMiddleware.RequireWrite

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Query endpoints (any authenticated operator)
	s.router.Handle("POST /api/v1/indexes/{index}/search",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSearch)))
	s.router.Handle("GET /api/v1/indexes/{index}/status",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleIndexStatus)))
	s.router.Handle("GET /api/v1/indexes/{index}/stats",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleIndexStats)))
	s.router.Handle("GET /api/v1/indexes/{index}/plan",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetPlan)))

	// Write endpoints (admin or operator)
	s.router.Handle("POST /api/v1/indexes/{index}/objects",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleIndexObject))))
	s.router.Handle("POST /api/v1/indexes/{index}/docs",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleIndexDocs))))
	s.router.Handle("POST /api/v1/indexes/{index}/delete",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleDelete))))
	s.router.Handle("POST /api/v1/indexes/{index}/commit",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleCommit))))

	// Anti-entropy endpoints (admin or operator)
	s.router.Handle("GET /api/v1/indexes/{index}/entropy",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleEntropyPage))))
	s.router.Handle("POST /api/v1/indexes/{index}/exchanges",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleTriggerExchange))))
	s.router.Handle("GET /api/v1/exchanges",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleListExchanges))))
	s.router.Handle("GET /api/v1/exchanges/stats",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleExchangeStats))))
	s.router.Handle("GET /api/v1/exchanges/{id}",
		authMiddleware.Authenticate(
			requireWrite(http.HandlerFunc(s.handleGetExchange))))

	// Core admin endpoints (admin-only)
	s.router.Handle("POST /api/v1/indexes",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleCreateIndex))))
	s.router.Handle("DELETE /api/v1/indexes/{index}",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleRemoveIndex))))
	s.router.Handle("POST /api/v1/indexes/{index}/reload",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleReloadIndex))))
	s.router.Handle("PUT /api/v1/indexes/{index}/plan",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handlePutPlan))))

	// Transport pool endpoints (admin-only)
	s.router.Handle("GET /api/v1/admin/pool",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleGetPoolConfig))))
	s.router.Handle("PUT /api/v1/admin/pool",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSetPoolConfig))))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
