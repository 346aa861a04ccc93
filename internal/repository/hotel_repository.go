package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const hotelColumns = "id, name, address, city, country, description, rating, image_url, created_at"

// HotelRepo reads the hotel catalogue.
type HotelRepo struct{ DB *sqlx.DB }

func NewHotelRepo(db *sqlx.DB) *HotelRepo { return &HotelRepo{DB: db} }

// Search returns hotels whose city and country contain the given
// substrings, ignoring case.  Empty filters match everything.  Results are
// ordered by rating (best first) then name.
func (r *HotelRepo) Search(ctx context.Context, city, country string) ([]model.Hotel, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(city); s != "" {
		where = append(where, "LOWER(city) LIKE ? ESCAPE '!'")
		args = append(args, likePattern(s))
	}
	if s := strings.TrimSpace(country); s != "" {
		where = append(where, "LOWER(country) LIKE ? ESCAPE '!'")
		args = append(args, likePattern(s))
	}
	q := "SELECT " + hotelColumns + " FROM hotels"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY rating DESC, name ASC, id ASC"

	hotels := []model.Hotel{}
	if err := r.DB.SelectContext(ctx, &hotels, q, args...); err != nil {
		return nil, err
	}
	return hotels, nil
}

// GetByID fetches a single hotel.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	var h model.Hotel
	err := r.DB.GetContext(ctx, &h, "SELECT "+hotelColumns+" FROM hotels WHERE id=? LIMIT 1", id)
	return h, notFound(err)
}

// FindByLocation returns the hotel registered for an exact city/country
// pair, used by the seeder to stay idempotent.
func (r *HotelRepo) FindByLocation(ctx context.Context, city, country string) (model.Hotel, error) {
	var h model.Hotel
	err := r.DB.GetContext(ctx, &h,
		"SELECT "+hotelColumns+" FROM hotels WHERE city=? AND country=? ORDER BY id LIMIT 1", city, country)
	return h, notFound(err)
}

// Create inserts a hotel and returns its ID.
func (r *HotelRepo) Create(ctx context.Context, h model.Hotel) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hotels (name, address, city, country, description, rating, image_url) VALUES (?,?,?,?,?,?,?)",
		h.Name, h.Address, h.City, h.Country, h.Description, h.Rating, h.ImageURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateImage replaces the image reference of a hotel.
func (r *HotelRepo) UpdateImage(ctx context.Context, id uint64, imageURL string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE hotels SET image_url=? WHERE id=?", imageURL, id)
	return err
}

// likePattern builds a LIKE pattern for a case-insensitive substring match.
// '!' is the escape character on both dialects.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
	return "%" + s + "%"
}
