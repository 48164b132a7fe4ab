package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/middleware"
	"github.com/archlabs/design-arena/internal/service"
)

// FeedbackHandler serves grading. Writing feedback is admin-only
// (router enforced); reading is limited to the design's author and
// admins (service enforced).
type FeedbackHandler struct {
	Designs *service.DesignService
}

func NewFeedbackHandler(svc *service.DesignService) *FeedbackHandler {
	return &FeedbackHandler{Designs: svc}
}

type feedbackReq struct {
	DesignID uint64 `json:"design_id"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

// Create records (or overwrites) feedback for a SUBMITTED or GRADED
// design and flips the design to GRADED. The response carries the new
// design status so grading UIs can update without a second request.
func (h *FeedbackHandler) Create(c echo.Context) error {
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DesignID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "design_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	fd, err := h.Designs.RecordFeedback(ctx, req.DesignID, middleware.CallerID(c), req.Rating, req.Comments)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"feedback":      renderFeedback(fd),
		"design_status": "GRADED",
	})
}

// Get returns the feedback for a design along with the design's current
// status and enough identifiers for the client to navigate back.
func (h *FeedbackHandler) Get(c echo.Context) error {
	designID, err := strconv.ParseUint(c.Param("designId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid design id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	fd, d, err := h.Designs.GetFeedback(ctx, designID, middleware.CallerID(c), middleware.CallerIsAdmin(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"feedback":       renderFeedback(fd),
		"design_status":  d.Status,
		"scenario_id":    d.ScenarioID,
		"design_user_id": d.UserID,
	})
}
