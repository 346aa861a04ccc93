package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const roomColumns = "r.id, r.hotel_id, r.room_number, r.room_type, r.price_per_night, r.max_occupancy, r.amenities, r.image_url"

const roomListingSelect = "SELECT " + roomColumns + `,
       h.name AS hotel_name, h.address AS hotel_address, h.city AS hotel_city, h.country AS hotel_country
  FROM rooms r
  JOIN hotels h ON h.id = r.hotel_id`

// RoomRepo manages persistence for rooms.
type RoomRepo struct{ DB *sqlx.DB }

func NewRoomRepo(db *sqlx.DB) *RoomRepo { return &RoomRepo{DB: db} }

// ListByHotel returns every room of a hotel joined with hotel display
// fields, ordered by room number.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.RoomListing, error) {
	rooms := []model.RoomListing{}
	err := r.DB.SelectContext(ctx, &rooms,
		roomListingSelect+" WHERE r.hotel_id = ? ORDER BY r.room_number, r.id", hotelID)
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListAvailableByHotel returns rooms of a hotel that have no confirmed
// booking overlapping [checkIn, checkOut).
func (r *RoomRepo) ListAvailableByHotel(ctx context.Context, hotelID uint64, checkIn, checkOut model.Date) ([]model.RoomListing, error) {
	rooms := []model.RoomListing{}
	err := r.DB.SelectContext(ctx, &rooms, roomListingSelect+`
 WHERE r.hotel_id = ?
   AND NOT EXISTS (
       SELECT 1 FROM bookings b
        WHERE b.room_id = r.id
          AND b.status = ?
          AND b.check_in < ?
          AND b.check_out > ?)
 ORDER BY r.room_number, r.id`,
		hotelID, model.BookingConfirmed, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetByID fetches a room without joins.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	var room model.Room
	err := r.DB.GetContext(ctx, &room, "SELECT "+roomColumns+" FROM rooms r WHERE r.id = ? LIMIT 1", id)
	return room, notFound(err)
}

// GetDetail fetches a room joined with its hotel, including the hotel
// description.
func (r *RoomRepo) GetDetail(ctx context.Context, id uint64) (model.RoomDetail, error) {
	var d model.RoomDetail
	err := r.DB.GetContext(ctx, &d, "SELECT "+roomColumns+`,
       h.name AS hotel_name, h.address AS hotel_address, h.city AS hotel_city, h.country AS hotel_country,
       h.description AS hotel_description
  FROM rooms r
  JOIN hotels h ON h.id = r.hotel_id
 WHERE r.id = ? LIMIT 1`, id)
	return d, notFound(err)
}

// LockTx reads the room inside tx and, on MySQL, holds its row lock until
// the transaction ends.  Booking writers for the same room queue here.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sqlx.Tx, id uint64) (model.Room, error) {
	var room model.Room
	err := tx.GetContext(ctx, &room,
		"SELECT "+roomColumns+" FROM rooms r WHERE r.id = ?"+forUpdate(r.DB), id)
	return room, notFound(err)
}

// CountByHotel returns how many rooms a hotel has.
func (r *RoomRepo) CountByHotel(ctx context.Context, hotelID uint64) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM rooms WHERE hotel_id = ?", hotelID)
	return n, err
}

// Create inserts a room and returns its ID.
func (r *RoomRepo) Create(ctx context.Context, room model.Room) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (hotel_id, room_number, room_type, price_per_night, max_occupancy, amenities, image_url) VALUES (?,?,?,?,?,?,?)",
		room.HotelID, room.RoomNumber, room.RoomType, room.PricePerNight, room.MaxOccupancy, room.Amenities, room.ImageURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
