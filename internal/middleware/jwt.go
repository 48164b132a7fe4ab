// Package middleware provides reusable HTTP middleware: bearer token
// authentication, role enforcement, Redis response caching and a
// token-bucket rate limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth and read by handlers and downstream
// middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject and role claims into the
// request context. The provided secret must match the one used when
// issuing tokens. Handlers behind this middleware read the caller via
// c.Get(CtxUserID) (uint64) and c.Get(CtxRole) (string).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Accept HMAC only; reject tokens signed with any other method.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// The sub claim is numeric; jwt decodes JSON numbers as float64.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			role, _ := claims["role"].(string)

			c.Set(CtxUserID, uint64(sub))
			c.Set(CtxRole, role)
			return next(c)
		}
	}
}
