package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// BookingHandler exposes the caller's bookings.  All routes require
// middleware.JWTAuth.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	RoomID   uint64 `json:"room_id" validate:"required"`
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
}

type cancelResp struct {
	Message string        `json:"message"`
	Booking model.Booking `json:"booking"`
}

// Create: POST /bookings
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	var req createBookingReq
	if err := bind(c, &req); err != nil {
		return err
	}
	checkIn, err := parseOptionalDate("check_in", req.CheckIn)
	if err != nil {
		return err
	}
	checkOut, err := parseOptionalDate("check_out", req.CheckOut)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Create(ctx, uid, service.CreateBookingInput{
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

// List: GET /bookings
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := h.Bookings.List(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Get: GET /bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel: DELETE /bookings/:id marks the booking cancelled.  Repeating the
// call returns the same cancelled booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Cancel(ctx, uid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cancelResp{Message: "Booking canceled successfully", Booking: b})
}
