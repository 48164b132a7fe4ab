package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/archlabs/design-arena/internal/model"
)

// CallerID returns the authenticated user's id from the context, or 0
// when the request is unauthenticated.
func CallerID(c echo.Context) uint64 {
	if id, ok := c.Get(CtxUserID).(uint64); ok {
		return id
	}
	return 0
}

// CallerIsAdmin reports whether the authenticated caller holds the
// ADMIN role.
func CallerIsAdmin(c echo.Context) bool {
	role, _ := c.Get(CtxRole).(string)
	return role == model.RoleAdmin
}
