// Package server exposes the recommender over HTTP.
//
// Endpoints:
//
//	POST /recommend — run the recommendation pipeline for a job description
//	GET  /health    — liveness probe
//	GET  /          — static home page when a static dir is configured
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/recommender"
)

const shutdownTimeout = 10 * time.Second

// Config holds the HTTP listener settings.
type Config struct {
	// Address is the listen address, e.g. ":8080".
	Address string
	// StaticDir optionally points at a directory with index.html for GET /.
	StaticDir string
}

// Server wires the recommender service into an echo router.
type Server struct {
	config   Config
	echo     *echo.Echo
	service  *recommender.Service
	validate *validator.Validate
	logger   *zap.Logger
}

type recommendRequest struct {
	Query       string   `json:"query" validate:"required"`
	TopK        *int     `json:"top_k" validate:"omitempty,gte=0"`
	MaxDuration *float64 `json:"max_duration" validate:"omitempty,gte=0"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(cfg Config, service *recommender.Service, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s := &Server{
		config:   cfg,
		echo:     e,
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}

	e.POST("/recommend", s.handleRecommend)
	e.GET("/health", s.handleHealth)
	e.GET("/", s.handleHome)

	return s
}

func (s *Server) handleRecommend(c echo.Context) error {
	var req recommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := s.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "query is required"})
	}

	resp, err := s.service.Recommend(c.Request().Context(), recommender.Request{
		Query:       req.Query,
		TopK:        req.TopK,
		MaxDuration: req.MaxDuration,
	})
	if err != nil {
		switch {
		case errors.Is(err, recommender.ErrEmptyQuery):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, recommender.ErrNoCatalog):
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		default:
			s.logger.Error("recommendation failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleHome(c echo.Context) error {
	if s.config.StaticDir != "" {
		return c.File(filepath.Join(s.config.StaticDir, "index.html"))
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "POST /recommend with a job description to get SHL assessment recommendations",
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.echo.Start(s.config.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	s.logger.Info("http server listening", zap.String("address", s.config.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}

		return http.ErrServerClosed
	}
}
