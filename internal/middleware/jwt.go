package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id" // uint64
	CtxEmail  = "email"   // string
)

// TokenVerifier resolves a raw access token to an identity.
// *service.AuthService satisfies it.
type TokenVerifier interface {
	Verify(token string) (service.Identity, error)
}

// JWTAuth validates the Bearer access token and stores the caller's id and
// email in the echo context.  A missing or malformed Authorization header is
// 401; a token that fails verification is 403.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "missing_token",
					"message": "missing bearer token",
				})
			}
			id, err := v.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":   "invalid_token",
					"message": "invalid or expired token",
				})
			}
			c.Set(CtxUserID, id.UserID)
			c.Set(CtxEmail, id.Email)
			return next(c)
		}
	}
}

// bearerToken extracts the token from "Bearer <token>".  The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
