package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/model"
	"github.com/archlabs/design-arena/internal/repository"
)

// ScenarioHandler serves the scenario catalog: reads for every
// authenticated user, mutations for admins only (enforced by the
// router's role middleware).
type ScenarioHandler struct {
	Scenarios *repository.ScenarioRepo
}

func NewScenarioHandler(s *repository.ScenarioRepo) *ScenarioHandler {
	return &ScenarioHandler{Scenarios: s}
}

type scenarioReq struct {
	Title                     string `json:"title"`
	Description               string `json:"description"`
	Difficulty                string `json:"difficulty"`
	FunctionalRequirements    string `json:"functional_requirements"`
	NonFunctionalRequirements string `json:"non_functional_requirements"`
	CapacityEstimations       string `json:"capacity_estimations"`
}

// validate normalizes the request and returns a client-facing message
// when a field is unacceptable. The requirement blobs must be a JSON
// string array, string array, and string-to-string object respectively;
// empty blobs are allowed.
func (req *scenarioReq) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	req.Difficulty = strings.ToUpper(strings.TrimSpace(req.Difficulty))
	if req.Title == "" {
		return "title required"
	}
	if !model.ValidDifficulty(req.Difficulty) {
		return "difficulty must be EASY, MEDIUM or HARD"
	}
	if !model.ValidStringList(req.FunctionalRequirements) {
		return "functional_requirements must be a JSON array of strings"
	}
	if !model.ValidStringList(req.NonFunctionalRequirements) {
		return "non_functional_requirements must be a JSON array of strings"
	}
	if !model.ValidStringMap(req.CapacityEstimations) {
		return "capacity_estimations must be a JSON object of strings"
	}
	return ""
}

// List returns every scenario, newest first.
func (h *ScenarioHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	scenarios, err := h.Scenarios.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]scenarioResp, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, renderScenario(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"scenarios": out})
}

// Get returns a single scenario by id.
func (h *ScenarioHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scenario id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Scenarios.GetByID(ctx, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, renderScenario(s))
}

// Create inserts a new scenario (admin only).
func (h *ScenarioHandler) Create(c echo.Context) error {
	var req scenarioReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := &model.Scenario{
		Title:                     req.Title,
		Description:               req.Description,
		Difficulty:                req.Difficulty,
		FunctionalRequirements:    req.FunctionalRequirements,
		NonFunctionalRequirements: req.NonFunctionalRequirements,
		CapacityEstimations:       req.CapacityEstimations,
	}
	if err := h.Scenarios.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create scenario failed"})
	}
	return c.JSON(http.StatusCreated, renderScenario(s))
}

// Update overwrites all editable fields of a scenario (admin only).
func (h *ScenarioHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scenario id"})
	}
	var req scenarioReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := &model.Scenario{
		ID:                        id,
		Title:                     req.Title,
		Description:               req.Description,
		Difficulty:                req.Difficulty,
		FunctionalRequirements:    req.FunctionalRequirements,
		NonFunctionalRequirements: req.NonFunctionalRequirements,
		CapacityEstimations:       req.CapacityEstimations,
	}
	if err := h.Scenarios.Update(ctx, s); err != nil {
		return writeServiceError(c, err)
	}
	stored, err := h.Scenarios.GetByID(ctx, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, renderScenario(stored))
}

// Delete removes a scenario and cascades over its designs and their
// feedback (admin only).
func (h *ScenarioHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scenario id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Scenarios.DeleteCascade(ctx, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "scenario deleted"})
}
