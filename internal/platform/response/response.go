// Package response renders the JSON envelope every endpoint answers with and
// maps application errors onto HTTP statuses.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

// Envelope is the body shape of every API response. Absent fields are
// omitted rather than sent as null.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// OK writes a successful envelope with the given status.
func OK(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a successful envelope carrying a result count.
func List(c echo.Context, message string, data interface{}, count int) error {
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Count:   &count,
	})
}

// errorStatuses maps error classes to HTTP statuses. Unlisted classes are
// server-side failures.
var errorStatuses = []struct {
	class  error
	status int
}{
	{apperror.ErrInvalidTimeFormat, http.StatusBadRequest},
	{apperror.ErrInvalidRecurrence, http.StatusBadRequest},
	{apperror.ErrValidation, http.StatusBadRequest},
	{apperror.ErrSlotUnavailable, http.StatusConflict},
	{apperror.ErrDuplicateKey, http.StatusConflict},
	{apperror.ErrNotFound, http.StatusNotFound},
	{apperror.ErrPersistence, http.StatusInternalServerError},
}

// StatusFor maps a classified application error to its HTTP status.
func StatusFor(err error) int {
	for _, m := range errorStatuses {
		if errors.Is(err, m.class) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// StatusOf returns the status the error handler will answer err with.
func StatusOf(err error) int {
	status, _ := render(err)
	return status
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders errors in the
// envelope. Server-side failures are logged and their cause is not exposed.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, env := render(err)
		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, env)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}

func render(err error) (int, Envelope) {
	if appErr, ok := apperror.As(err); ok {
		status := StatusFor(appErr)
		msg := appErr.Message
		if msg == "" || status >= http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
		return status, Envelope{
			Message: msg,
			Error:   &ErrorBody{Kind: string(appErr.Kind), Field: appErr.Field},
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, Envelope{
			Message: msg,
			Error:   &ErrorBody{Kind: kindForStatus(he.Code)},
		}
	}

	return http.StatusInternalServerError, Envelope{
		Message: http.StatusText(http.StatusInternalServerError),
		Error:   &ErrorBody{Kind: string(apperror.KindUnknown)},
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(apperror.KindValidation)
	case http.StatusNotFound:
		return string(apperror.KindNotFound)
	case http.StatusConflict:
		return string(apperror.KindDuplicateKey)
	}
	return http.StatusText(status)
}
