package model

import "time"

// Hotel is a bookable property.  Hotels are created by the seeder and are
// read-only for the rest of the application.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the hotel.
//  Address     – street address.
//  City        – city, searchable by case-insensitive substring.
//  Country     – country, searchable by case-insensitive substring.
//  Description – optional marketing text.
//  Rating      – average rating in the range [0,5].
//  ImageURL    – optional image reference served by the client.
//  CreatedAt   – creation timestamp.
type Hotel struct {
	ID          uint64    `db:"id" json:"id"`                   // hotels.id
	Name        string    `db:"name" json:"name"`               // hotels.name
	Address     string    `db:"address" json:"address"`         // hotels.address
	City        string    `db:"city" json:"city"`               // hotels.city
	Country     string    `db:"country" json:"country"`         // hotels.country
	Description *string   `db:"description" json:"description"` // hotels.description (nullable)
	Rating      float64   `db:"rating" json:"rating"`           // hotels.rating
	ImageURL    *string   `db:"image_url" json:"image_url"`     // hotels.image_url (nullable)
	CreatedAt   time.Time `db:"created_at" json:"created_at"`   // hotels.created_at
}
