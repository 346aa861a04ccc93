package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// RoomsPerHotel is how many rooms the seeder gives every hotel.
const RoomsPerHotel = 6

type seedHotel struct {
	City, Country, Address, Name string
}

type seedRoomType struct {
	Type      string
	BasePrice float64
	Occupancy int
	Amenities string
}

var seedCapitals = []seedHotel{
	{"Amsterdam", "Netherlands", "Prinsengracht 1", "Grand Amsterdam Palace"},
	{"Athens", "Greece", "Syntagma Square 1", "Acropolis Grand Hotel"},
	{"Berlin", "Germany", "Unter den Linden 1", "Brandenburg Luxury Hotel"},
	{"Brussels", "Belgium", "Grand Place 1", "Royal Brussels Hotel"},
	{"Bucharest", "Romania", "Calea Victoriei 1", "Palace Bucharest"},
	{"Budapest", "Hungary", "Andrássy út 1", "Danube Grand Hotel"},
	{"Copenhagen", "Denmark", "Nyhavn 1", "Royal Copenhagen Hotel"},
	{"Dublin", "Ireland", "O'Connell Street 1", "Trinity Luxury Hotel"},
	{"Helsinki", "Finland", "Esplanadi 1", "Nordic Grand Hotel"},
	{"Lisbon", "Portugal", "Praça do Comércio 1", "Tagus Palace Hotel"},
	{"London", "United Kingdom", "Piccadilly Circus 1", "Royal London Hotel"},
	{"Madrid", "Spain", "Puerta del Sol 1", "Palacio Madrid"},
	{"Oslo", "Norway", "Karl Johans gate 1", "Fjord Grand Hotel"},
	{"Paris", "France", "Champs-Élysées 1", "Eiffel Grand Hotel"},
	{"Prague", "Czech Republic", "Old Town Square 1", "Charles Bridge Palace"},
	{"Rome", "Italy", "Via del Corso 1", "Colosseum Grand Hotel"},
	{"Stockholm", "Sweden", "Gamla Stan 1", "Royal Stockholm Hotel"},
	{"Vienna", "Austria", "Ringstraße 1", "Imperial Vienna Hotel"},
	{"Warsaw", "Poland", "Nowy Świat 1", "Royal Warsaw Palace"},
	{"Zagreb", "Croatia", "Ban Jelačić Square 1", "Grand Zagreb Hotel"},
	{"Belgrade", "Serbia", "Knez Mihailova 1", "Danube Palace Hotel"},
	{"Bratislava", "Slovakia", "Hlavné námestie 1", "Castle Grand Hotel"},
	{"Ljubljana", "Slovenia", "Prešernov trg 1", "Ljubljana Grand Hotel"},
	{"Luxembourg", "Luxembourg", "Place d'Armes 1", "Grand Duchy Hotel"},
	{"Reykjavik", "Iceland", "Laugavegur 1", "Aurora Grand Hotel"},
	{"Sofia", "Bulgaria", "Vitosha Boulevard 1", "Royal Sofia Hotel"},
	{"Tallinn", "Estonia", "Raekoja plats 1", "Medieval Grand Hotel"},
	{"Vilnius", "Lithuania", "Gedimino prospektas 1", "Grand Vilnius Hotel"},
	{"Riga", "Latvia", "Brīvības bulvāris 1", "Art Nouveau Grand Hotel"},
	{"Valletta", "Malta", "Republic Street 1", "Grandmaster Palace Hotel"},
	{"Nicosia", "Cyprus", "Ledra Street 1", "Mediterranean Grand Hotel"},
	{"Bern", "Switzerland", "Bundesplatz 1", "Alpine Grand Hotel"},
	{"Monaco", "Monaco", "Place du Casino 1", "Monte Carlo Grand Hotel"},
	{"Andorra la Vella", "Andorra", "Avinguda Meritxell 1", "Pyrenees Grand Hotel"},
	{"San Marino", "San Marino", "Piazza della Libertà 1", "Mount Titano Grand Hotel"},
	{"Vatican City", "Vatican City", "Via della Conciliazione 1", "Papal Grand Hotel"},
	{"Skopje", "North Macedonia", "Macedonia Square 1", "Grand Skopje Hotel"},
	{"Tirana", "Albania", "Skanderbeg Square 1", "Royal Tirana Hotel"},
	{"Podgorica", "Montenegro", "Trg Republike 1", "Adriatic Grand Hotel"},
	{"Sarajevo", "Bosnia and Herzegovina", "Baščaršija 1", "Ottoman Grand Hotel"},
	{"Chisinau", "Moldova", "Ștefan cel Mare Boulevard 1", "Grand Chisinau Hotel"},
	{"Kiev", "Ukraine", "Khreshchatyk Street 1", "Dnipro Grand Hotel"},
	{"Minsk", "Belarus", "Independence Avenue 1", "Grand Minsk Hotel"},
	{"Moscow", "Russia", "Red Square 1", "Kremlin Grand Hotel"},
}

var seedRoomTypes = []seedRoomType{
	{"Deluxe Suite", 250, 2, "WiFi, 4K TV, AC, Mini Bar, Room Service, City View"},
	{"Executive Suite", 350, 3, "WiFi, 4K TV, AC, Mini Bar, Jacuzzi, Room Service, Balcony"},
	{"Presidential Suite", 500, 4, "WiFi, 4K TV, AC, Premium Mini Bar, Jacuzzi, Butler Service, Panoramic View, Private Balcony"},
	{"Royal Suite", 750, 4, "WiFi, 4K TV, AC, Premium Mini Bar, Private Jacuzzi, 24/7 Butler, Panoramic View, Private Terrace, Dining Area"},
	{"Penthouse Suite", 1000, 6, "WiFi, 4K TV, AC, Premium Mini Bar, Private Pool, Personal Butler, 360° View, Private Terrace, Full Kitchen, Living Room"},
}

var seedImages = []string{
	"/images/hotels/0_0.jpeg", "/images/hotels/0_0 (4).jpeg", "/images/hotels/0_0 (5).jpeg",
	"/images/hotels/0_0 (6).jpeg", "/images/hotels/0_0 (7).jpeg", "/images/hotels/0_0 (8).jpeg",
	"/images/hotels/0_1.jpeg", "/images/hotels/0_1 (3).jpeg", "/images/hotels/0_1 (4).jpeg",
	"/images/hotels/0_1 (5).jpeg", "/images/hotels/0_1 (6).jpeg", "/images/hotels/0_1 (7).jpeg",
	"/images/hotels/0_2.jpeg", "/images/hotels/0_2 (3).jpeg", "/images/hotels/0_2 (4).jpeg",
	"/images/hotels/0_2 (5).jpeg", "/images/hotels/0_2 (6).jpeg", "/images/hotels/0_2 (7).jpeg",
	"/images/hotels/0_3 (1)2.jpeg", "/images/hotels/0_3 (1)3.jpeg", "/images/hotels/0_3 (1)4.jpeg",
	"/images/hotels/0_3 (1)7.jpeg", "/images/hotels/0_3 (1)8.jpeg",
}

// SeedResult summarizes a seeding run.
type SeedResult struct {
	Hotels      int `json:"hotels"`
	HotelsAdded int `json:"hotels_added"`
	RoomsAdded  int `json:"rooms_added"`
	TotalRooms  int `json:"total_rooms"`
}

// Seeder loads the European capitals catalogue.  Runs are idempotent:
// hotels are matched on city and country, and rooms are only added to
// hotels that have none, since existing rooms may carry bookings.
type Seeder struct {
	Hotels *repository.HotelRepo
	Rooms  *repository.RoomRepo
	Log    *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeeder builds a Seeder.  A nil rnd uses a time-seeded source.
func NewSeeder(hotels *repository.HotelRepo, rooms *repository.RoomRepo, rnd *rand.Rand, log *zap.Logger) *Seeder {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{Hotels: hotels, Rooms: rooms, Log: log, rnd: rnd}
}

// Seed inserts missing hotels and rooms.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SeedResult
	for i, c := range seedCapitals {
		image := seedImages[i%len(seedImages)]
		hotelID, added, err := s.ensureHotel(ctx, c, image)
		if err != nil {
			return res, err
		}
		if added {
			res.HotelsAdded++
		}
		n, err := s.Rooms.CountByHotel(ctx, hotelID)
		if err != nil {
			return res, storageErr("count rooms", err)
		}
		if n == 0 {
			for _, room := range s.rooms(hotelID) {
				if _, err := s.Rooms.Create(ctx, room); err != nil {
					return res, storageErr("insert room", err)
				}
				res.RoomsAdded++
			}
			n = RoomsPerHotel
		}
		res.Hotels++
		res.TotalRooms += n
	}
	s.Log.Info("catalogue seeded",
		zap.Int("hotels", res.Hotels),
		zap.Int("hotels_added", res.HotelsAdded),
		zap.Int("rooms_added", res.RoomsAdded))
	return res, nil
}

func (s *Seeder) ensureHotel(ctx context.Context, c seedHotel, image string) (uint64, bool, error) {
	h, err := s.Hotels.FindByLocation(ctx, c.City, c.Country)
	if err == nil {
		if h.ImageURL == nil || *h.ImageURL != image {
			if err := s.Hotels.UpdateImage(ctx, h.ID, image); err != nil {
				return 0, false, storageErr("update hotel image", err)
			}
		}
		return h.ID, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, false, storageErr("find hotel", err)
	}
	desc := fmt.Sprintf("Luxurious 5-star hotel in the heart of %s, offering world-class amenities and exceptional service. Experience the finest in European hospitality.", c.City)
	id, err := s.Hotels.Create(ctx, model.Hotel{
		Name:        c.Name,
		Address:     c.Address,
		City:        c.City,
		Country:     c.Country,
		Description: &desc,
		Rating:      math.Round((4.0+s.rnd.Float64())*10) / 10,
		ImageURL:    &image,
	})
	if err != nil {
		return 0, false, storageErr("insert hotel", err)
	}
	return id, true, nil
}

// rooms generates the six rooms of a hotel, numbered 101-106 and cycling
// through the suite types with a ±15% price variation.
func (s *Seeder) rooms(hotelID uint64) []model.Room {
	out := make([]model.Room, 0, RoomsPerHotel)
	for i := 1; i <= RoomsPerHotel; i++ {
		t := seedRoomTypes[(i-1)%len(seedRoomTypes)]
		variation := s.rnd.Float64()*0.3 - 0.15
		out = append(out, model.Room{
			HotelID:       hotelID,
			RoomNumber:    fmt.Sprintf("%d", 100+i),
			RoomType:      t.Type,
			PricePerNight: math.Round(t.BasePrice * (1 + variation)),
			MaxOccupancy:  t.Occupancy,
			Amenities:     t.Amenities,
		})
	}
	return out
}
