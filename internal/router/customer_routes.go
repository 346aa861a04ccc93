package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterCustomer registers the caller's booking endpoints.  All routes
// require a valid bearer token; creation is also rate limited.
func RegisterCustomer(g *echo.Group, h *handler.BookingHandler, v middleware.TokenVerifier, limiter echo.MiddlewareFunc) {
	b := g.Group("/bookings", middleware.JWTAuth(v))
	b.POST("", h.Create, limiter)
	b.GET("", h.List)
	b.GET("/:id", h.Get)
	b.DELETE("/:id", h.Cancel)
}
