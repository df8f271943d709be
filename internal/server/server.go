package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tuhmaz/edu/internal/bootstrap"
	"github.com/tuhmaz/edu/internal/config"
	"github.com/tuhmaz/edu/internal/db"
)

const (
	shutdownTimeout   = 15 * time.Second
	poolStatsInterval = 15 * time.Second
)

// Server holds the state for the HTTP server.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	registry *db.Registry
	deps     *bootstrap.Dependencies
	logger   zerolog.Logger
	http     *http.Server

	stopBackground context.CancelFunc
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	registry, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, registry, lgr)
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	// Stored files are served from the storage root
	router.Static("/uploads", deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	return &Server{
		config:   cfg,
		router:   router,
		registry: registry,
		deps:     deps,
		logger:   lgr,
	}, nil
}

// startBackground runs the websocket hub, the notification workers and the pool stats collector.
func (s *Server) startBackground() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel

	go s.deps.Hub.Run(ctx)

	if err := s.deps.Dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start notification dispatcher: %w", err)
	}

	s.deps.PoolStats.Start(poolStatsInterval)
	return nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")
	if err := s.startBackground(); err != nil {
		return errors.Join(err, s.Shutdown(context.Background()))
	}

	// WriteTimeout stays 0: websocket connections are long lived
	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return errors.Join(runErr, s.Shutdown(context.Background()))
}

// Shutdown stops accepting requests, drains queued notifications and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var shutdownErr error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Pending notifications still need the database and the hub
	if s.deps != nil {
		s.logger.Info().Msg("Draining notification queue...")
		if err := s.deps.Dispatcher.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Notification dispatcher shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		}
	}

	if s.stopBackground != nil {
		s.stopBackground()
		s.stopBackground = nil
		s.deps.PoolStats.Stop()
	}

	if s.registry != nil {
		s.logger.Info().Msg("Closing database connection pools...")
		s.registry.Close()
		s.logger.Info().Msg("Database connection pools closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", shutdownErr)
	}
	return nil
}
