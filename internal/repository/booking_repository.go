package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const bookingColumns = "b.id, b.user_id, b.room_id, b.check_in, b.check_out, b.total_price, b.status, b.created_at, b.cancelled_at"

const bookingDetailSelect = "SELECT " + bookingColumns + `,
       r.room_number, r.room_type, r.price_per_night,
       h.id AS hotel_id, h.name AS hotel_name, h.address, h.city, h.country
  FROM bookings b
  JOIN rooms r ON r.id = b.room_id
  JOIN hotels h ON h.id = r.hotel_id`

// BookingRepo manages persistence for bookings.  Methods suffixed with Tx
// run on a caller-owned transaction and never commit it.
type BookingRepo struct{ DB *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{DB: db} }

// HasOverlap reports whether a confirmed booking on the room intersects
// [checkIn, checkOut).  Intervals touching at an endpoint do not overlap.
func (r *BookingRepo) HasOverlap(ctx context.Context, roomID uint64, checkIn, checkOut model.Date) (bool, error) {
	return hasOverlap(ctx, r.DB, roomID, checkIn, checkOut)
}

// HasOverlapTx is HasOverlap inside a transaction.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sqlx.Tx, roomID uint64, checkIn, checkOut model.Date) (bool, error) {
	return hasOverlap(ctx, tx, roomID, checkIn, checkOut)
}

func hasOverlap(ctx context.Context, q sqlx.QueryerContext, roomID uint64, checkIn, checkOut model.Date) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM bookings
 WHERE room_id = ? AND status = ? AND check_in < ? AND check_out > ?`,
		roomID, model.BookingConfirmed, checkOut, checkIn)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a confirmed booking and reads it back through tx so the
// generated id, status and created_at are populated.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, b model.Booking) (model.Booking, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, room_id, check_in, check_out, total_price, status) VALUES (?,?,?,?,?,?)",
		b.UserID, b.RoomID, b.CheckIn, b.CheckOut, b.TotalPrice, model.BookingConfirmed)
	if err != nil {
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}
	var out model.Booking
	err = tx.GetContext(ctx, &out, "SELECT "+bookingColumns+" FROM bookings b WHERE b.id = ?", id)
	return out, err
}

// GetForUserTx loads a booking owned by userID, locking it on MySQL.
// Bookings of other users are reported as ErrNotFound.
func (r *BookingRepo) GetForUserTx(ctx context.Context, tx *sqlx.Tx, userID, bookingID uint64) (model.Booking, error) {
	var b model.Booking
	err := tx.GetContext(ctx, &b,
		"SELECT "+bookingColumns+" FROM bookings b WHERE b.id = ? AND b.user_id = ?"+forUpdate(r.DB),
		bookingID, userID)
	return b, notFound(err)
}

// CancelTx marks a confirmed booking as cancelled.  It returns the number of
// rows changed, which is zero when the booking was already cancelled.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sqlx.Tx, userID, bookingID uint64, at time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = ?, cancelled_at = ? WHERE id = ? AND user_id = ? AND status = ?",
		model.BookingCancelled, at.UTC(), bookingID, userID, model.BookingConfirmed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByUser returns the user's bookings joined with room and hotel fields,
// newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
	out := []model.BookingDetail{}
	err := r.DB.SelectContext(ctx, &out,
		bookingDetailSelect+" WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC", userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetailForUser returns one booking with its display fields if it
// belongs to userID.
func (r *BookingRepo) GetDetailForUser(ctx context.Context, userID, bookingID uint64) (model.BookingDetail, error) {
	var d model.BookingDetail
	err := r.DB.GetContext(ctx, &d,
		bookingDetailSelect+" WHERE b.id = ? AND b.user_id = ? LIMIT 1", bookingID, userID)
	return d, notFound(err)
}
