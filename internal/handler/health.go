package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness. It deliberately avoids touching the
// database so orchestrators can distinguish a dead process from a dead
// dependency.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
