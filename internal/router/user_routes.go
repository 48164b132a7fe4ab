package router

import (
	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/handler"
	"github.com/archlabs/design-arena/internal/middleware"
	"github.com/archlabs/design-arena/internal/model"
)

// RegisterUser registers the endpoints every authenticated account may
// call: browsing scenarios, working on designs and reading feedback.
// Admins pass too since the design list and detail handlers widen their
// scope based on the role claim. Scenario reads take the optional
// cacheMW (Redis response cache); pass nil to disable.
func RegisterUser(e *echo.Echo, d *handler.DesignHandler, f *handler.FeedbackHandler, s *handler.ScenarioHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)

	// Scenario catalog. Read-mostly, so these two routes are the only
	// ones behind the response cache.
	if cacheMW != nil {
		g.GET("/scenarios", s.List, cacheMW)
		g.GET("/scenarios/:id", s.Get, cacheMW)
	} else {
		g.GET("/scenarios", s.List)
		g.GET("/scenarios/:id", s.Get)
	}

	// Design lifecycle. The draft lookup lives under the designs
	// resource, and submit is a PATCH: it partially updates the design's
	// status rather than creating anything.
	g.GET("/designs", d.List)
	g.GET("/designs/:id", d.Get)
	g.GET("/designs/scenario/:scenarioId/draft", d.GetDraft)
	g.POST("/designs", d.UpsertDraft)
	g.PUT("/designs/:id", d.UpdateDraft)
	g.PATCH("/designs/:id/submit", d.Submit)

	// Feedback read. Ownership is enforced in the service.
	g.GET("/feedback/:designId", f.Get)
}
