package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/vc-scout/internal/logger"
)

// APIResponse is the envelope for directory and model endpoints. /enrich answers with the
// bare result or plain text instead.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		RequestID: logger.RequestID(c.Request().Context()),
	})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:    "error",
		Message:   message,
		RequestID: logger.RequestID(c.Request().Context()),
	})
}

// Text sends message as a text/plain body, the error format of POST /enrich.
func Text(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.String(status, message)
}
