package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope statuses. Every response is HTTP 200; the outcome is in status.
const (
	StatusOK              = 0
	StatusFailed          = 1
	StatusUnauthenticated = 401
)

type envelope struct {
	Status int    `json:"status"`
	Msg    string `json:"msg,omitempty"`
	Data   any    `json:"data,omitempty"`
	Total  *int   `json:"total,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Status: StatusOK, Data: data})
}

func fail(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, envelope{Status: StatusFailed, Msg: msg})
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{Status: StatusUnauthenticated, Msg: "login expired, please log in again"})
}
