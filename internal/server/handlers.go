package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/manash/babygen/internal/store"
	"github.com/manash/babygen/pkg/models"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type generateResponse struct {
	ID             string `json:"id"`
	GeneratedImage string `json:"generatedImage"`
	Prompt         string `json:"prompt"`
}

type extrapolateResponse struct {
	ID              string `json:"id"`
	ProgressedImage string `json:"progressedImage"`
}

type historyItem struct {
	ID             string            `json:"id"`
	GeneratedImage string            `json:"generatedImage"`
	Age            int               `json:"age"`
	AgeUnit        models.AgeUnit    `json:"ageUnit"`
	Gender         models.Gender     `json:"gender,omitempty"`
	Weight         models.Weight     `json:"weight,omitempty"`
	CreatedAt      int64             `json:"createdAt"`
	Progressions   []progressionItem `json:"progressions"`
}

type progressionItem struct {
	ID              string         `json:"id"`
	ProgressedImage string         `json:"progressedImage"`
	NewAge          int            `json:"newAge"`
	NewAgeUnit      models.AgeUnit `json:"newAgeUnit"`
	CreatedAt       int64          `json:"createdAt"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Generate synthesizes a child image and persists the result. The record is
// only inserted after the upstream call succeeds, so a failed generation
// leaves no state behind.
func (s *Server) Generate(c echo.Context) error {
	var req models.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return jsonError(c, http.StatusBadRequest, "Age and age unit are required")
	}

	// The upstream call runs on a fresh context: a dropped client connection
	// does not abort an in-flight generation.
	result, err := s.generator.Generate(context.Background(), &req)
	if err != nil {
		s.logger.Error("generation failed", "error", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to generate baby image")
	}

	gen := &store.Generation{
		ID:              uuid.NewString(),
		MotherImage:     req.MotherImage,
		FatherImage:     req.FatherImage,
		BabyImage:       req.BabyImage,
		UltrasoundImage: req.UltrasoundImage,
		Gender:          req.Gender,
		Age:             req.Age,
		AgeUnit:         req.AgeUnit,
		Weight:          req.Weight,
		GeneratedImage:  result.Image,
		Prompt:          result.Prompt,
		CreatedAt:       time.Now().UnixMilli(),
	}
	if err := s.store.CreateGeneration(c.Request().Context(), gen); err != nil {
		s.logger.Error("failed to persist generation", "error", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to generate baby image")
	}

	return c.JSON(http.StatusOK, generateResponse{
		ID:             gen.ID,
		GeneratedImage: models.DataURI(result.Image),
		Prompt:         result.Prompt,
	})
}

// Extrapolate re-ages a previously generated image and stores the result as
// an age progression of that generation.
func (s *Server) Extrapolate(c echo.Context) error {
	var req models.ExtrapolateRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return jsonError(c, http.StatusBadRequest, "Generation ID, new age, and age unit are required")
	}

	gen, err := s.store.GetGeneration(c.Request().Context(), req.GenerationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "Generation not found")
		}
		s.logger.Error("failed to load generation", "id", req.GenerationID, "error", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to extrapolate age")
	}

	progressed, err := s.generator.Extrapolate(context.Background(), gen.GeneratedImage, req.NewAge, req.NewAgeUnit)
	if err != nil {
		s.logger.Error("extrapolation failed", "id", req.GenerationID, "error", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to extrapolate age")
	}

	prog := &store.AgeProgression{
		ID:              uuid.NewString(),
		GenerationID:    req.GenerationID,
		NewAge:          req.NewAge,
		NewAgeUnit:      req.NewAgeUnit,
		ProgressedImage: progressed,
		CreatedAt:       time.Now().UnixMilli(),
	}
	if err := s.store.CreateProgression(c.Request().Context(), prog); err != nil {
		s.logger.Error("failed to persist progression", "error", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to extrapolate age")
	}

	return c.JSON(http.StatusOK, extrapolateResponse{
		ID:              prog.ID,
		ProgressedImage: models.DataURI(progressed),
	})
}

// History returns every generation in creation order, each with its
// progressions nested in creation order. No pagination.
func (s *Server) History(c echo.Context) error {
	ctx := c.Request().Context()

	generations, err := s.store.ListGenerations(ctx)
	if err != nil {
		s.logger.Error("failed to list generations", "error", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to get history")
	}

	history := make([]historyItem, 0, len(generations))
	for _, gen := range generations {
		progressions, err := s.store.ListProgressions(ctx, gen.ID)
		if err != nil {
			s.logger.Error("failed to list progressions", "id", gen.ID, "error", err)
			return jsonError(c, http.StatusInternalServerError, "Failed to get history")
		}

		items := make([]progressionItem, 0, len(progressions))
		for _, prog := range progressions {
			items = append(items, progressionItem{
				ID:              prog.ID,
				ProgressedImage: models.DataURI(prog.ProgressedImage),
				NewAge:          prog.NewAge,
				NewAgeUnit:      prog.NewAgeUnit,
				CreatedAt:       prog.CreatedAt,
			})
		}

		history = append(history, historyItem{
			ID:             gen.ID,
			GeneratedImage: models.DataURI(gen.GeneratedImage),
			Age:            gen.Age,
			AgeUnit:        gen.AgeUnit,
			Gender:         gen.Gender,
			Weight:         gen.Weight,
			CreatedAt:      gen.CreatedAt,
			Progressions:   items,
		})
	}

	return c.JSON(http.StatusOK, history)
}

// Delete removes a generation and its progressions. Unknown ids succeed
// silently, so the operation is idempotent.
func (s *Server) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := s.store.DeleteGeneration(c.Request().Context(), id); err != nil {
		s.logger.Error("failed to delete generation", "id", id, "error", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to delete generation")
	}

	return c.JSON(http.StatusOK, deleteResponse{Success: true})
}
