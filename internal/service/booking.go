package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// CreateBookingInput is a booking request after boundary parsing.  Zero
// values mean "missing".
type CreateBookingInput struct {
	RoomID   uint64
	CheckIn  model.Date
	CheckOut model.Date
}

// BookingService creates, cancels and lists bookings.  Creation is the
// only writer that can conflict; it runs under the room lock and inside a
// transaction that holds the room row.
type BookingService struct {
	DB           *sqlx.DB
	Rooms        *repository.RoomRepo
	Bookings     *repository.BookingRepo
	Availability *Availability
	Locker       RoomLocker
	Events       queue.Publisher
	Log          *zap.Logger
	Now          func() time.Time
}

func NewBookingService(db *sqlx.DB, rooms *repository.RoomRepo, bookings *repository.BookingRepo, locker RoomLocker, events queue.Publisher, log *zap.Logger) *BookingService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		DB:           db,
		Rooms:        rooms,
		Bookings:     bookings,
		Availability: NewAvailability(rooms, bookings, log),
		Locker:       locker,
		Events:       events,
		Log:          log,
		Now:          time.Now,
	}
}

// TotalPrice is the nightly price times the number of nights, rounded to
// cents.
func TotalPrice(pricePerNight float64, nights int) float64 {
	return math.Round(pricePerNight*float64(nights)*100) / 100
}

// Create validates the request in a fixed order (presence, past date,
// range, room existence, availability) and books the room.  Two concurrent
// calls for overlapping stays on one room never both succeed.
func (s *BookingService) Create(ctx context.Context, userID uint64, in CreateBookingInput) (model.Booking, error) {
	if in.RoomID == 0 || in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return model.Booking{}, invalid("room_id, check_in and check_out are required")
	}
	if in.CheckIn.Before(model.DateOf(s.Now())) {
		return model.Booking{}, ErrPastDate
	}
	if !in.CheckIn.Before(in.CheckOut) {
		return model.Booking{}, ErrInvalidRange
	}
	if _, err := s.Rooms.GetByID(ctx, in.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Booking{}, ErrNotFound
		}
		s.Log.Error("load room failed", zap.Uint64("room_id", in.RoomID), zap.Error(err))
		return model.Booking{}, storageErr("load room", err)
	}

	unlock, err := s.Locker.Lock(ctx, in.RoomID)
	if err != nil {
		s.Log.Warn("room lock not acquired", zap.Uint64("room_id", in.RoomID), zap.Error(err))
		return model.Booking{}, storageErr("lock room", err)
	}
	defer unlock()

	b, err := s.createLocked(ctx, userID, in)
	if err != nil {
		return model.Booking{}, err
	}
	s.Log.Info("booking created",
		zap.Uint64("booking_id", b.ID),
		zap.Uint64("user_id", userID),
		zap.Uint64("room_id", b.RoomID),
		zap.Stringer("check_in", b.CheckIn),
		zap.Stringer("check_out", b.CheckOut),
	)
	s.publish(ctx, queue.BookingCreated, b)
	return b, nil
}

func (s *BookingService) createLocked(ctx context.Context, userID uint64, in CreateBookingInput) (model.Booking, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return model.Booking{}, storageErr("begin booking", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, err := s.Rooms.LockTx(ctx, tx, in.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Booking{}, ErrNotFound
		}
		return model.Booking{}, storageErr("lock room row", err)
	}
	free, err := s.Availability.IsAvailableTx(ctx, tx, room.ID, in.CheckIn, in.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}
	if !free {
		return model.Booking{}, ErrConflict
	}

	b, err := s.Bookings.CreateTx(ctx, tx, model.Booking{
		UserID:     userID,
		RoomID:     room.ID,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		TotalPrice: TotalPrice(room.PricePerNight, in.CheckIn.DaysUntil(in.CheckOut)),
	})
	if err != nil {
		s.Log.Error("insert booking failed", zap.Uint64("room_id", room.ID), zap.Error(err))
		return model.Booking{}, storageErr("insert booking", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, storageErr("commit booking", err)
	}
	committed = true
	return b, nil
}

// Cancel soft-cancels a booking owned by userID.  Missing bookings and
// bookings of other users both yield ErrNotFound.  Cancelling twice is not
// an error.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) (model.Booking, error) {
	if bookingID == 0 {
		return model.Booking{}, ErrNotFound
	}
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return model.Booking{}, storageErr("begin cancel", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.Bookings.GetForUserTx(ctx, tx, userID, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Booking{}, ErrNotFound
		}
		return model.Booking{}, storageErr("load booking", err)
	}
	if b.Status == model.BookingCancelled {
		return b, nil
	}
	at := s.Now().UTC()
	if _, err := s.Bookings.CancelTx(ctx, tx, userID, bookingID, at); err != nil {
		s.Log.Error("cancel booking failed", zap.Uint64("booking_id", bookingID), zap.Error(err))
		return model.Booking{}, storageErr("cancel booking", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Booking{}, storageErr("commit cancel", err)
	}
	committed = true

	b.Status = model.BookingCancelled
	b.CancelledAt = &at
	s.Log.Info("booking cancelled", zap.Uint64("booking_id", b.ID), zap.Uint64("user_id", userID))
	s.publish(ctx, queue.BookingCancelled, b)
	return b, nil
}

// List returns the user's bookings with room and hotel fields, newest
// first.
func (s *BookingService) List(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
	out, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		s.Log.Error("list bookings failed", zap.Uint64("user_id", userID), zap.Error(err))
		return nil, storageErr("list bookings", err)
	}
	return out, nil
}

// Get returns one booking of the user.
func (s *BookingService) Get(ctx context.Context, userID, bookingID uint64) (model.BookingDetail, error) {
	d, err := s.Bookings.GetDetailForUser(ctx, userID, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.BookingDetail{}, ErrNotFound
		}
		return model.BookingDetail{}, storageErr("load booking", err)
	}
	return d, nil
}

// publish emits a booking event.  Delivery is best effort: the booking is
// already committed, so failures are only logged.
func (s *BookingService) publish(ctx context.Context, kind string, b model.Booking) {
	ev := queue.NewBookingEvent(kind, b, s.Now())
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.Events.Publish(pctx, ev); err != nil {
		s.Log.Warn("publish booking event failed",
			zap.String("type", kind), zap.Uint64("booking_id", b.ID), zap.Error(err))
	}
}
