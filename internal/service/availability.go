package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// Overlaps reports whether the half-open intervals [aIn, aOut) and
// [bIn, bOut) share at least one night.
func Overlaps(aIn, aOut, bIn, bOut model.Date) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Availability answers whether rooms are free over a date range.  Only
// confirmed bookings are counted.
type Availability struct {
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
	Log      *zap.Logger
}

func NewAvailability(rooms *repository.RoomRepo, bookings *repository.BookingRepo, log *zap.Logger) *Availability {
	if log == nil {
		log = zap.NewNop()
	}
	return &Availability{Rooms: rooms, Bookings: bookings, Log: log}
}

// IsAvailable reports whether no confirmed booking of the room overlaps
// [checkIn, checkOut).  A storage failure is returned as
// ErrTransientStorage, never as "available".
func (a *Availability) IsAvailable(ctx context.Context, roomID uint64, checkIn, checkOut model.Date) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, ErrInvalidRange
	}
	busy, err := a.Bookings.HasOverlap(ctx, roomID, checkIn, checkOut)
	if err != nil {
		a.Log.Error("availability check failed", zap.Uint64("room_id", roomID), zap.Error(err))
		return false, storageErr("check availability", err)
	}
	return !busy, nil
}

// IsAvailableTx is IsAvailable inside the caller's transaction, after the
// room row has been locked.
func (a *Availability) IsAvailableTx(ctx context.Context, tx *sqlx.Tx, roomID uint64, checkIn, checkOut model.Date) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, ErrInvalidRange
	}
	busy, err := a.Bookings.HasOverlapTx(ctx, tx, roomID, checkIn, checkOut)
	if err != nil {
		a.Log.Error("availability check failed", zap.Uint64("room_id", roomID), zap.Error(err))
		return false, storageErr("check availability", err)
	}
	return !busy, nil
}

// ListRooms returns the rooms of a hotel.  With both dates it keeps only
// rooms free over [checkIn, checkOut); otherwise every room is returned.
// An empty or inverted range is rejected.
func (a *Availability) ListRooms(ctx context.Context, hotelID uint64, checkIn, checkOut model.Date) ([]model.RoomListing, error) {
	if hotelID == 0 {
		return nil, invalid("hotel_id is required")
	}
	var (
		rooms []model.RoomListing
		err   error
	)
	if checkIn.IsZero() || checkOut.IsZero() {
		rooms, err = a.Rooms.ListByHotel(ctx, hotelID)
	} else {
		if !checkIn.Before(checkOut) {
			return nil, ErrInvalidRange
		}
		rooms, err = a.Rooms.ListAvailableByHotel(ctx, hotelID, checkIn, checkOut)
	}
	if err != nil {
		a.Log.Error("list rooms failed", zap.Uint64("hotel_id", hotelID), zap.Error(err))
		return nil, storageErr("list rooms", err)
	}
	return rooms, nil
}
