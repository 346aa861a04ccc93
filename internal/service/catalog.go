package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// Catalog serves read-only hotel and room lookups.
type Catalog struct {
	Hotels *repository.HotelRepo
	Rooms  *repository.RoomRepo
	Log    *zap.Logger
}

func NewCatalog(hotels *repository.HotelRepo, rooms *repository.RoomRepo, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{Hotels: hotels, Rooms: rooms, Log: log}
}

// SearchHotels matches city and country by case-insensitive substring.
func (c *Catalog) SearchHotels(ctx context.Context, city, country string) ([]model.Hotel, error) {
	hotels, err := c.Hotels.Search(ctx, city, country)
	if err != nil {
		c.Log.Error("search hotels failed", zap.Error(err))
		return nil, storageErr("search hotels", err)
	}
	return hotels, nil
}

func (c *Catalog) Hotel(ctx context.Context, id uint64) (model.Hotel, error) {
	h, err := c.Hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Hotel{}, ErrNotFound
		}
		c.Log.Error("load hotel failed", zap.Uint64("hotel_id", id), zap.Error(err))
		return model.Hotel{}, storageErr("load hotel", err)
	}
	return h, nil
}

func (c *Catalog) Room(ctx context.Context, id uint64) (model.RoomDetail, error) {
	r, err := c.Rooms.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.RoomDetail{}, ErrNotFound
		}
		c.Log.Error("load room failed", zap.Uint64("room_id", id), zap.Error(err))
		return model.RoomDetail{}, storageErr("load room", err)
	}
	return r, nil
}
