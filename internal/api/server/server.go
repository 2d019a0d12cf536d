package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openmint-xyz/openmint/internal/adapter"
	"github.com/openmint-xyz/openmint/internal/api/middleware"
	"github.com/openmint-xyz/openmint/internal/api/rest"
	"github.com/openmint-xyz/openmint/internal/api/shared/executor"
	"github.com/openmint-xyz/openmint/internal/auth"
	"github.com/openmint-xyz/openmint/internal/logger"
	"github.com/openmint-xyz/openmint/internal/providers/ethereum"
	"github.com/openmint-xyz/openmint/internal/providers/pinata"
	"github.com/openmint-xyz/openmint/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug           bool
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AllowedOrigins  []string
	ContractAddress string
	ChainID         int64
	MaxFileSize     int64
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	auth       *auth.Service
	ledger     ethereum.LedgerClient
	pinner     pinata.Client
	clock      adapter.Clock
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, st store.Store, authService *auth.Service, ledger ethereum.LedgerClient, pinner pinata.Client, clock adapter.Clock) *Server {
	return &Server{
		config: cfg,
		store:  st,
		auth:   authService,
		ledger: ledger,
		pinner: pinner,
		clock:  clock,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))

	// Create shared executor (contains the business logic behind the handlers)
	exec := executor.NewExecutor(
		s.store,
		s.auth,
		s.ledger,
		s.pinner,
		s.clock,
		s.config.ContractAddress,
		s.config.ChainID,
		s.config.MaxFileSize,
	)

	// Create REST handler and routes
	restHandler := rest.NewHandler(exec, s.config.MaxFileSize)
	rest.SetupRoutes(router, restHandler, s.auth, s.store)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
