package router

import (
	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/handler"
	"github.com/archlabs/design-arena/internal/middleware"
	"github.com/archlabs/design-arena/internal/model"
)

// RegisterAdmin registers the admin-only operations: scenario
// authoring and grading. They share the /v1 resource paths with the
// read endpoints; the ADMIN gate is middleware, not a path prefix, so
// the handlers never re-check the role.
func RegisterAdmin(e *echo.Echo, s *handler.ScenarioHandler, f *handler.FeedbackHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.POST("/scenarios", s.Create)
	g.PUT("/scenarios/:id", s.Update)
	g.DELETE("/scenarios/:id", s.Delete)

	g.POST("/feedback", f.Create)
}
