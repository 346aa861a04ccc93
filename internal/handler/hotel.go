package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

// HotelHandler serves the public hotel catalogue.
type HotelHandler struct {
	Catalog *service.Catalog
}

func NewHotelHandler(catalog *service.Catalog) *HotelHandler {
	return &HotelHandler{Catalog: catalog}
}

// List: GET /hotels?city=&country=
func (h *HotelHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	hotels, err := h.Catalog.SearchHotels(ctx, c.QueryParam("city"), c.QueryParam("country"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hotels)
}

// Get: GET /hotels/:id
func (h *HotelHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	hotel, err := h.Catalog.Hotel(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hotel)
}
