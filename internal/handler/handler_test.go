package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"past date", service.ErrPastDate, http.StatusBadRequest, "past_date"},
		{"wrapped range", fmt.Errorf("create: %w", service.ErrInvalidRange), http.StatusBadRequest, "invalid_range"},
		{"duplicate", service.ErrDuplicateEmail, http.StatusBadRequest, "duplicate_email"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", service.ErrConflict, http.StatusConflict, "conflict"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"token", service.ErrInvalidToken, http.StatusForbidden, "invalid_token"},
		{"echo 404", echo.ErrNotFound, http.StatusNotFound, "not_found"},
		{"echo 405", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
		{"storage", fmt.Errorf("%w: db closed", service.ErrTransientStorage), http.StatusInternalServerError, "storage_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.reason, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestClassifyHidesInternalCauses(t *testing.T) {
	_, body := classify(fmt.Errorf("%w: dial tcp 10.0.0.1:3306", service.ErrTransientStorage))
	assert.NotContains(t, body.Message, "10.0.0.1")

	_, body = classify(errors.New("secret detail"))
	assert.Equal(t, "internal server error", body.Message)
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.New(core))
	e.Match([]string{http.MethodGet, http.MethodHead}, "/conflict", func(echo.Context) error { return service.ErrConflict })
	e.GET("/boom", func(echo.Context) error { return errors.New("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"conflict","message":"room is not available for the selected dates"}`, rec.Body.String())
	assert.Zero(t, logs.Len())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestValidator(t *testing.T) {
	v := NewValidator()
	type req struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required,max=3"`
	}

	err := v.Validate(&req{})
	require.ErrorIs(t, err, service.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), "name is required")

	err = v.Validate(&req{Email: "nope", Name: "long"})
	require.ErrorIs(t, err, service.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "name must be at most 3 characters")

	assert.NoError(t, v.Validate(&req{Email: "a@b.io", Name: "Ana"}))
}

func TestJSONSerializerRejectsBadBodies(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	type body struct {
		RoomID uint64 `json:"room_id"`
	}

	for _, raw := range []string{`{"room_id":"x"}`, `{"room_id":`, `{`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())
		var b body
		err := c.Bind(&b)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, raw)
		assert.Equal(t, http.StatusBadRequest, he.Code, raw)
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"room_id":7}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	var b body
	require.NoError(t, e.NewContext(req, httptest.NewRecorder()).Bind(&b))
	assert.Equal(t, uint64(7), b.RoomID)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("check_in", " ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = parseOptionalDate("check_in", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d.String())

	_, err = parseOptionalDate("check_in", "06/01/2024")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "check_in")
}
