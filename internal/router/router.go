// Package router wires handlers, middleware and echo together.
package router

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// Deps is everything the HTTP layer needs.  Redis may be nil, in which
// case caching and rate limiting are disabled.
type Deps struct {
	Log          *zap.Logger
	Auth         *service.AuthService
	Catalog      *service.Catalog
	Availability *service.Availability
	Bookings     *service.BookingService
	Seeder       *service.Seeder // nil unless dev routes are enabled
	Redis        *redis.Client
	Cache        config.CacheConfig
	RateLimit    config.RateLimitConfig
	Ready        map[string]handler.PingFunc
	Prefix       string // e.g. /api; empty mounts at the root
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))

	RegisterRoutes(e, d.Ready)
	api := e.Group(d.Prefix)
	limiter := middleware.RateLimit(d.RateLimit, d.Redis, d.Log)
	RegisterAuth(api, handler.NewAuthHandler(d.Auth), limiter)
	RegisterPublic(api,
		handler.NewHotelHandler(d.Catalog),
		handler.NewRoomHandler(d.Catalog, d.Availability),
		middleware.ResponseCache(d.Cache, d.Redis, d.Log),
	)
	RegisterCustomer(api, handler.NewBookingHandler(d.Bookings), d.Auth, limiter)
	if d.Seeder != nil {
		seed := handler.NewSeedHandler(d.Seeder)
		seed.AfterSeed = func(ctx context.Context) {
			n, err := middleware.PurgeCache(ctx, d.Cache, d.Redis)
			if err != nil {
				d.Log.Warn("purge response cache after seed", zap.Error(err))
				return
			}
			d.Log.Info("response cache purged after seed", zap.Int("keys", n))
		}
		api.POST("/dev/seed", seed.Seed)
	}
	return e
}

// RegisterRoutes registers the unauthenticated probes at the root.
func RegisterRoutes(e *echo.Echo, ready map[string]handler.PingFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(ready))
}

// RegisterAuth registers the /auth routes.  Credential endpoints are rate
// limited; /auth/me and /auth/logout-all require a bearer token.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	auth := g.Group("/auth")
	auth.POST("/register", a.Register, limiter)
	auth.POST("/login", a.Login, limiter)
	auth.POST("/refresh", a.Refresh, limiter)
	auth.POST("/logout", a.Logout)

	jwt := middleware.JWTAuth(a.Auth)
	auth.GET("/me", a.Me, jwt)
	auth.POST("/logout-all", a.LogoutAll, jwt)
}

// RegisterPublic registers the guest browse endpoints.  Hotel and room
// detail responses go through the response cache; room listings carry
// availability and are never cached.
func RegisterPublic(g *echo.Group, hotels *handler.HotelHandler, rooms *handler.RoomHandler, cache echo.MiddlewareFunc) {
	g.GET("/hotels", hotels.List, cache)
	g.GET("/hotels/:id", hotels.Get, cache)
	g.GET("/rooms", rooms.List)
	g.GET("/rooms/:id", rooms.Get, cache)
}
