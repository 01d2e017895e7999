package domain

import "time"

type Genre string

const (
	GenreRock       Genre = "Rock"
	GenreSalsa      Genre = "Salsa"
	GenreUrbano     Genre = "Urbano"
	GenreElectronic Genre = "Electronic"
	GenrePop        Genre = "Pop"
	GenreJazz       Genre = "Jazz"
	GenreIndie      Genre = "Indie"
	GenreVallenato  Genre = "Vallenato"
	GenreUnknown    Genre = "Unknown"
)

// Artist is a performer in the catalog.
type Artist struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	IsOnTour bool   `json:"is_on_tour"`
	Genre    Genre  `json:"genre"`
}

// Album belongs to an Artist. Artist is only populated when the "Artist"
// relation is included in a query.
type Album struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Year     int     `json:"year"`
	Genre    Genre   `json:"genre"`
	Cost     float64 `json:"cost"`
	ArtistID int64   `json:"artist_id"`
	Artist   *Artist `json:"artist,omitempty"`
}

// Song belongs to an Album.
type Song struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LengthSeconds int    `json:"length_seconds"`
	AlbumID       int64  `json:"album_id"`
	Album         *Album `json:"album,omitempty"`
}

// Tour is a dated show by an Artist.
type Tour struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	TourDate  time.Time `json:"tour_date"`
	IsSoldOut bool      `json:"is_sold_out"`
	ArtistID  int64     `json:"artist_id"`
	Artist    *Artist   `json:"artist,omitempty"`
}
