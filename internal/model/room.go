package model

// Room belongs to exactly one hotel.  PricePerNight is a flat rate applied
// to every night of a stay.
//
// Fields:
//  ID            – primary key identifier.
//  HotelID       – owning hotel.
//  RoomNumber    – label unique within the hotel by convention only.
//  RoomType      – free-form type label (e.g. "Deluxe Suite").
//  PricePerNight – positive nightly price.
//  MaxOccupancy  – maximum number of guests.
//  Amenities     – comma separated free text.
//  ImageURL      – optional image reference.
type Room struct {
	ID            uint64  `db:"id" json:"id"`                           // rooms.id
	HotelID       uint64  `db:"hotel_id" json:"hotel_id"`               // rooms.hotel_id
	RoomNumber    string  `db:"room_number" json:"room_number"`         // rooms.room_number
	RoomType      string  `db:"room_type" json:"room_type"`             // rooms.room_type
	PricePerNight float64 `db:"price_per_night" json:"price_per_night"` // rooms.price_per_night
	MaxOccupancy  int     `db:"max_occupancy" json:"max_occupancy"`     // rooms.max_occupancy
	Amenities     string  `db:"amenities" json:"amenities"`             // rooms.amenities
	ImageURL      *string `db:"image_url" json:"image_url"`             // rooms.image_url (nullable)
}

// RoomListing is a room joined with the display fields of its hotel, as
// returned by the rooms listing.
type RoomListing struct {
	Room
	HotelName    string `db:"hotel_name" json:"hotel_name"`
	HotelAddress string `db:"hotel_address" json:"address"`
	HotelCity    string `db:"hotel_city" json:"city"`
	HotelCountry string `db:"hotel_country" json:"country"`
}

// RoomDetail extends RoomListing with the hotel description.
type RoomDetail struct {
	RoomListing
	HotelDescription *string `db:"hotel_description" json:"hotel_description"`
}
