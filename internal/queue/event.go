// Package queue defines booking events and their transport over RabbitMQ.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Event types.
const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking is committed or cancelled.
// It contains enough information for downstream consumers to log, notify
// or run analytics without querying the primary database.
type BookingEvent struct {
	EventID    string  `json:"event_id"`
	Type       string  `json:"type"`
	BookingID  uint64  `json:"booking_id"`
	UserID     uint64  `json:"user_id"`
	RoomID     uint64  `json:"room_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
	OccurredAt string  `json:"occurred_at"`
}

// NewBookingEvent snapshots b as an event of the given type.
func NewBookingEvent(kind string, b model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       kind,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		CheckIn:    b.CheckIn.String(),
		CheckOut:   b.CheckOut.String(),
		Nights:     b.Nights(),
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
