package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	target error
	status int
	reason string
}

var errorTable = []errorMapping{
	{service.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{service.ErrPastDate, http.StatusBadRequest, "past_date"},
	{service.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
	{service.ErrDuplicateEmail, http.StatusBadRequest, "duplicate_email"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrConflict, http.StatusConflict, "conflict"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrInvalidToken, http.StatusForbidden, "invalid_token"},
}

// classify maps an error to its HTTP status and response body.  Storage and
// unknown failures never expose their cause.
func classify(err error) (int, errorBody) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, errorBody{Error: m.reason, Message: err.Error()}
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, errorBody{Error: reasonFor(he.Code), Message: msg}
	}
	if errors.Is(err, service.ErrTransientStorage) {
		return http.StatusInternalServerError, errorBody{Error: "storage_unavailable", Message: service.ErrTransientStorage.Error()}
	}
	return http.StatusInternalServerError, errorBody{Error: "server_error", Message: "internal server error"}
}

func reasonFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "missing_token"
	case http.StatusForbidden:
		return "invalid_token"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	}
	if status >= 500 {
		return "server_error"
	}
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}

// ErrorHandler renders handler and framework errors as errorBody.  5xx
// responses are logged with the underlying cause.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response failed", zap.Error(err))
		}
	}
}
