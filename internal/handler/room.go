package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

// RoomHandler lists rooms and their availability.
type RoomHandler struct {
	Catalog      *service.Catalog
	Availability *service.Availability
}

func NewRoomHandler(catalog *service.Catalog, availability *service.Availability) *RoomHandler {
	return &RoomHandler{Catalog: catalog, Availability: availability}
}

// List: GET /rooms?hotel_id=&check_in=&check_out=
// With both dates only rooms free for the whole stay are returned.
func (h *RoomHandler) List(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("hotel_id"))
	if raw == "" {
		return invalidf("hotel_id is required")
	}
	hotelID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || hotelID == 0 {
		return invalidf("hotel_id must be a positive integer")
	}
	checkIn, err := parseOptionalDate("check_in", c.QueryParam("check_in"))
	if err != nil {
		return err
	}
	checkOut, err := parseOptionalDate("check_out", c.QueryParam("check_out"))
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rooms, err := h.Availability.ListRooms(ctx, hotelID, checkIn, checkOut)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rooms)
}

// Get: GET /rooms/:id
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	room, err := h.Catalog.Room(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}
