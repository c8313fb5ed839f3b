// Package server hosts the drawing workbench API, the landing page and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/hrygo/cadsense/ai/metrics"
	"github.com/hrygo/cadsense/internal/profile"
	apiv1 "github.com/hrygo/cadsense/server/router/api/v1"
	"github.com/hrygo/cadsense/server/router/frontend"
	"github.com/hrygo/cadsense/server/service/drawing"
	"github.com/hrygo/cadsense/store"
)

// apiRequestsPerSecond is the per-client rate limit on /api.
const apiRequestsPerSecond = 5

type Server struct {
	Profile  *profile.Profile
	Store    *store.Store
	Metrics  *metrics.PrometheusExporter
	Drawing  *drawing.Service
	echo     *echo.Echo
	listener net.Listener
}

// NewServer builds the echo instance. storeInstance may be nil when run history is disabled.
func NewServer(ctx context.Context, profile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	drawingService, err := drawing.NewServiceFromProfile(profile, storeInstance, exporter)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Profile: profile,
		Store:   storeInstance,
		Metrics: exporter,
		Drawing: drawingService,
	}

	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.Recover())
	s.echo = e

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	frontendService, err := frontend.NewFrontendService(profile)
	if err != nil {
		return nil, err
	}
	frontendService.Serve(ctx, e)

	api := e.Group("/api/v1")
	api.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(apiRequestsPerSecond))))
	apiv1.NewAPIV1Service(profile, drawingService, apiv1.DefaultMaxConcurrentRuns).RegisterRoutes(api)

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the profile address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	s.listener = listener
	s.echo.Listener = listener

	s.Drawing.Warmup()

	go func() {
		if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listener address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")

	if err := s.echo.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close database", slog.String("error", err.Error()))
		}
	}

	slog.Info("server stopped properly")
}
