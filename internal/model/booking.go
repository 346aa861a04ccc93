package model

import "time"

// Booking statuses.  Only confirmed bookings occupy a room.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking records a user's stay in a room over the half-open interval
// [CheckIn, CheckOut).  The night of CheckOut is not occupied.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking; the only one allowed to cancel.
//  RoomID      – booked room.
//  CheckIn     – first night of the stay.
//  CheckOut    – departure date, exclusive.
//  TotalPrice  – price_per_night × nights at booking time.
//  Status      – confirmed or cancelled.
//  CreatedAt   – creation timestamp.
//  CancelledAt – when the booking was cancelled (null while confirmed).
type Booking struct {
	ID          uint64     `db:"id" json:"id"`                     // bookings.id
	UserID      uint64     `db:"user_id" json:"user_id"`           // bookings.user_id
	RoomID      uint64     `db:"room_id" json:"room_id"`           // bookings.room_id
	CheckIn     Date       `db:"check_in" json:"check_in"`         // bookings.check_in
	CheckOut    Date       `db:"check_out" json:"check_out"`       // bookings.check_out
	TotalPrice  float64    `db:"total_price" json:"total_price"`   // bookings.total_price
	Status      string     `db:"status" json:"status"`             // bookings.status
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`     // bookings.created_at
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at"` // bookings.cancelled_at (nullable)
}

// Nights returns the number of occupied nights.
func (b Booking) Nights() int { return b.CheckIn.DaysUntil(b.CheckOut) }

// BookingDetail is a booking joined with the room and hotel fields shown
// in a user's booking history.
type BookingDetail struct {
	Booking
	RoomNumber    string  `db:"room_number" json:"room_number"`
	RoomType      string  `db:"room_type" json:"room_type"`
	PricePerNight float64 `db:"price_per_night" json:"price_per_night"`
	HotelID       uint64  `db:"hotel_id" json:"hotel_id"`
	HotelName     string  `db:"hotel_name" json:"hotel_name"`
	Address       string  `db:"address" json:"address"`
	City          string  `db:"city" json:"city"`
	Country       string  `db:"country" json:"country"`
}
