// Package router defines how HTTP routes are registered for the API.
// Routes are split by audience: auth endpoints, authenticated user
// endpoints and admin-only endpoints, each with its own registration
// function so main wires exactly what it needs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/handler"
	"github.com/archlabs/design-arena/internal/middleware"
	"github.com/archlabs/design-arena/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check for load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Unauthenticated
// operations live under /v1/auth, the protected profile endpoint under
// /v1. Logout deliberately stays outside the JWT middleware: a client
// holding only a refresh token must still be able to end its session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/me", a.Me)

	// Alias so both /v1/auth/logout and /v1/logout work.
	e.POST("/v1/logout", a.Logout)
}
