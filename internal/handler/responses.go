package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/model"
	"github.com/archlabs/design-arena/internal/repository"
	"github.com/archlabs/design-arena/internal/service"
)

// Response DTOs shared by the design, scenario and feedback handlers.
// JSON blob columns are emitted as raw JSON (not re-quoted strings) so
// clients receive the structures they stored. Empty blobs become null.

type scenarioResp struct {
	ID                        uint64          `json:"id"`
	Title                     string          `json:"title"`
	Description               string          `json:"description"`
	Difficulty                string          `json:"difficulty"`
	FunctionalRequirements    json.RawMessage `json:"functional_requirements"`
	NonFunctionalRequirements json.RawMessage `json:"non_functional_requirements"`
	CapacityEstimations       json.RawMessage `json:"capacity_estimations"`
	CreatedAt                 time.Time       `json:"created_at"`
}

type designResp struct {
	ID              uint64          `json:"id"`
	UserID          uint64          `json:"user_id"`
	ScenarioID      uint64          `json:"scenario_id"`
	DiagramData     json.RawMessage `json:"diagram_data"`
	TextExplanation string          `json:"text_explanation"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	SubmittedAt     *time.Time      `json:"submitted_at"`
}

type designListItemResp struct {
	ID                 uint64     `json:"id"`
	UserID             uint64     `json:"user_id"`
	ScenarioID         uint64     `json:"scenario_id"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	SubmittedAt        *time.Time `json:"submitted_at"`
	ScenarioTitle      string     `json:"scenario_title"`
	ScenarioDifficulty string     `json:"scenario_difficulty"`
	Username           string     `json:"username"`
}

type designDetailResp struct {
	designResp
	Username                  string          `json:"username"`
	UserEmail                 string          `json:"user_email"`
	ScenarioTitle             string          `json:"scenario_title"`
	ScenarioDescription       string          `json:"scenario_description"`
	ScenarioDifficulty        string          `json:"scenario_difficulty"`
	FunctionalRequirements    json.RawMessage `json:"functional_requirements"`
	NonFunctionalRequirements json.RawMessage `json:"non_functional_requirements"`
	CapacityEstimations       json.RawMessage `json:"capacity_estimations"`
}

type feedbackResp struct {
	ID            uint64    `json:"id"`
	DesignID      uint64    `json:"design_id"`
	AdminID       uint64    `json:"admin_id"`
	AdminUsername string    `json:"admin_username"`
	Rating        int       `json:"rating"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
}

// rawOrNull passes a stored JSON blob through unchanged, mapping the
// empty string to JSON null.
func rawOrNull(s string) json.RawMessage {
	if s == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(s)
}

func renderScenario(s *model.Scenario) scenarioResp {
	return scenarioResp{
		ID:                        s.ID,
		Title:                     s.Title,
		Description:               s.Description,
		Difficulty:                s.Difficulty,
		FunctionalRequirements:    rawOrNull(s.FunctionalRequirements),
		NonFunctionalRequirements: rawOrNull(s.NonFunctionalRequirements),
		CapacityEstimations:       rawOrNull(s.CapacityEstimations),
		CreatedAt:                 s.CreatedAt,
	}
}

func renderDesign(d *model.Design) designResp {
	return designResp{
		ID:              d.ID,
		UserID:          d.UserID,
		ScenarioID:      d.ScenarioID,
		DiagramData:     rawOrNull(d.DiagramData),
		TextExplanation: d.TextExplanation,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		SubmittedAt:     d.SubmittedAt,
	}
}

func renderListItem(it *model.DesignListItem) designListItemResp {
	return designListItemResp{
		ID:                 it.ID,
		UserID:             it.UserID,
		ScenarioID:         it.ScenarioID,
		Status:             it.Status,
		CreatedAt:          it.CreatedAt,
		SubmittedAt:        it.SubmittedAt,
		ScenarioTitle:      it.ScenarioTitle,
		ScenarioDifficulty: it.ScenarioDifficulty,
		Username:           it.Username,
	}
}

func renderDetail(dd *model.DesignDetail) designDetailResp {
	return designDetailResp{
		designResp:                renderDesign(&dd.Design),
		Username:                  dd.Username,
		UserEmail:                 dd.UserEmail,
		ScenarioTitle:             dd.ScenarioTitle,
		ScenarioDescription:       dd.ScenarioDescription,
		ScenarioDifficulty:        dd.ScenarioDifficulty,
		FunctionalRequirements:    rawOrNull(dd.ScenarioFunctionalRequirements),
		NonFunctionalRequirements: rawOrNull(dd.ScenarioNonFunctionalRequirements),
		CapacityEstimations:       rawOrNull(dd.ScenarioCapacityEstimations),
	}
}

func renderFeedback(fd *model.FeedbackDetail) feedbackResp {
	return feedbackResp{
		ID:            fd.ID,
		DesignID:      fd.DesignID,
		AdminID:       fd.AdminID,
		AdminUsername: fd.AdminUsername,
		Rating:        fd.Rating,
		Comments:      fd.Comments,
		CreatedAt:     fd.CreatedAt,
	}
}

// writeServiceError maps lifecycle service and repository errors onto
// the status codes the API promises: 400 for validation failures, 404
// for missing records, 403 for foreign records, 409 for state
// conflicts, 500 otherwise.
func writeServiceError(c echo.Context, err error) error {
	switch err {
	case service.ErrInvalidDiagram, service.ErrInvalidRating, service.ErrInvalidStatusFilter:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case repository.ErrDesignNotFound, repository.ErrScenarioNotFound, repository.ErrFeedbackNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting design state"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
