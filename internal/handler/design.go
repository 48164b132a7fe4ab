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

// DesignHandler exposes the design lifecycle over HTTP. All routes sit
// behind JWTAuth; ownership and status rules live in the service.
type DesignHandler struct {
	Designs *service.DesignService
}

func NewDesignHandler(svc *service.DesignService) *DesignHandler {
	return &DesignHandler{Designs: svc}
}

type draftReq struct {
	ScenarioID      uint64 `json:"scenario_id"`
	DiagramData     string `json:"diagram_data"`
	TextExplanation string `json:"text_explanation"`
}

type updateDraftReq struct {
	DiagramData     string `json:"diagram_data"`
	TextExplanation string `json:"text_explanation"`
}

// List returns the caller's designs; admins see everyone's. An optional
// ?status= query narrows by lifecycle state.
func (h *DesignHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := c.QueryParam("status")
	var err error
	var items []designListItemResp
	if middleware.CallerIsAdmin(c) {
		list, e := h.Designs.ListForAdmin(ctx, status)
		err = e
		for _, it := range list {
			items = append(items, renderListItem(it))
		}
	} else {
		list, e := h.Designs.ListForUser(ctx, middleware.CallerID(c), status)
		err = e
		for _, it := range list {
			items = append(items, renderListItem(it))
		}
	}
	if err != nil {
		return writeServiceError(c, err)
	}
	if items == nil {
		items = []designListItemResp{}
	}
	return c.JSON(http.StatusOK, echo.Map{"designs": items})
}

// Get returns the joined detail record. Users may only read their own
// designs; admins may read any.
func (h *DesignHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid design id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dd, err := h.Designs.GetDetail(ctx, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	if !middleware.CallerIsAdmin(c) && dd.UserID != middleware.CallerID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, renderDetail(dd))
}

// GetDraft returns the caller's current DRAFT for a scenario. A missing
// draft is not an error: the canvas simply starts empty, so the
// endpoint answers 200 with a null design.
func (h *DesignHandler) GetDraft(c echo.Context) error {
	scenarioID, err := strconv.ParseUint(c.Param("scenarioId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scenario id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Designs.GetDraft(ctx, middleware.CallerID(c), scenarioID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if d == nil {
		return c.JSON(http.StatusOK, echo.Map{"design": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"design": renderDesign(d)})
}

// UpsertDraft creates the caller's draft for a scenario or overwrites
// the existing one. 201 signals a fresh row, 200 an overwrite.
func (h *DesignHandler) UpsertDraft(c echo.Context) error {
	var req draftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ScenarioID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scenario_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, created, err := h.Designs.UpsertDraft(ctx, middleware.CallerID(c), req.ScenarioID, req.DiagramData, req.TextExplanation)
	if err != nil {
		return writeServiceError(c, err)
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, renderDesign(d))
}

// UpdateDraft overwrites diagram and explanation of an owned DRAFT.
func (h *DesignHandler) UpdateDraft(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid design id"})
	}
	var req updateDraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Designs.UpdateDraft(ctx, id, middleware.CallerID(c), req.DiagramData, req.TextExplanation)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, renderDesign(d))
}

// Submit moves an owned DRAFT to SUBMITTED.
func (h *DesignHandler) Submit(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid design id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Designs.SubmitDraft(ctx, id, middleware.CallerID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, renderDesign(d))
}
