package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

// SeedHandler loads the demo catalogue.  Mounted only in the dev
// environment.
type SeedHandler struct {
	Seeder *service.Seeder
	// AfterSeed runs once the catalogue is written, e.g. to drop cached
	// hotel responses.  Optional.
	AfterSeed func(ctx context.Context)
}

func NewSeedHandler(seeder *service.Seeder) *SeedHandler {
	return &SeedHandler{Seeder: seeder}
}

// Seed: POST /dev/seed
func (h *SeedHandler) Seed(c echo.Context) error {
	// seeding issues a few hundred inserts; use the request context as is
	res, err := h.Seeder.Seed(c.Request().Context())
	if err != nil {
		return err
	}
	if h.AfterSeed != nil {
		h.AfterSeed(c.Request().Context())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Database seeded successfully",
		"hotels":       res.Hotels,
		"rooms":        res.TotalRooms,
		"hotels_added": res.HotelsAdded,
		"rooms_added":  res.RoomsAdded,
	})
}
