// Package server exposes the HTTP API: image generation, age extrapolation,
// history listing and deletion, plus the static frontend.
package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/manash/babygen/internal/store"
	"github.com/manash/babygen/pkg/models"
)

// Generator is the outbound image synthesis dependency. *gemini.Client
// satisfies it; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, req *models.GenerateRequest) (*models.GenerationResult, error)
	Extrapolate(ctx context.Context, image string, newAge int, newAgeUnit models.AgeUnit) (string, error)
}

type Config struct {
	// StaticDir holds the single-page frontend. Empty disables static serving.
	StaticDir string
	// BodyLimit caps request bodies; base64 images are large. Defaults to 50M.
	BodyLimit string
}

type Server struct {
	Echo      *echo.Echo
	store     *store.Store
	generator Generator
	logger    *slog.Logger
}

func New(st *store.Store, gen Generator, cfg *Config) *Server {
	s := &Server{
		Echo:      echo.New(),
		store:     st,
		generator: gen,
		logger:    slog.Default().With("component", "server"),
	}
	s.Echo.HideBanner = true

	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "50M"
	}

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORS())
	s.Echo.Use(middleware.BodyLimit(bodyLimit))

	if cfg.StaticDir != "" {
		// HTML5 mode falls back to index.html for any unmatched path, so the
		// frontend handles its own routing.
		s.Echo.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  cfg.StaticDir,
			Index: "index.html",
			HTML5: true,
		}))
	}

	s.initRoutes()
	return s
}

func (s *Server) initRoutes() {
	api := s.Echo.Group("/api")
	api.GET("/health", s.Health)
	api.POST("/generate", s.Generate)
	api.POST("/extrapolate", s.Extrapolate)
	api.GET("/history", s.History)
	api.DELETE("/history/:id", s.Delete)
}

// Start begins serving on the given address and blocks until the server
// stops.
func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, errorResponse{Error: msg})
}
