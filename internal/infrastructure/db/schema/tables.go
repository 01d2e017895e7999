package schema

import (
	"context"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
)

// Users maps domain.User onto the users table.
var Users = &Table[domain.User]{
	Name:  "users",
	Key:   Column[domain.User]{Name: "id", Value: func(u *domain.User) any { return u.ID }, Ref: func(u *domain.User) any { return &u.ID }},
	ID:    func(u *domain.User) int64 { return u.ID },
	SetID: func(u *domain.User, id int64) { u.ID = id },
	Columns: []Column[domain.User]{
		{Name: "username", Value: func(u *domain.User) any { return u.Username }, Ref: func(u *domain.User) any { return &u.Username }},
		{Name: "email", Value: func(u *domain.User) any { return u.Email }, Ref: func(u *domain.User) any { return &u.Email }},
		{Name: "password_hash", Value: func(u *domain.User) any { return u.PasswordHash }, Ref: func(u *domain.User) any { return &u.PasswordHash }},
		{Name: "refresh_token", Value: func(u *domain.User) any { return nullable(u.RefreshToken) }, Ref: func(u *domain.User) any { return &u.RefreshToken }},
		{Name: "refresh_token_expiry", Value: func(u *domain.User) any { return nullable(u.RefreshTokenExpiry) }, Ref: func(u *domain.User) any { return &u.RefreshTokenExpiry }},
		{Name: "created_at", Value: func(u *domain.User) any { return u.CreatedAt }, Ref: func(u *domain.User) any { return &u.CreatedAt }},
		{Name: "last_login_at", Value: func(u *domain.User) any { return nullable(u.LastLoginAt) }, Ref: func(u *domain.User) any { return &u.LastLoginAt }},
		{Name: "role", Value: func(u *domain.User) any { return string(u.Role) }, Ref: func(u *domain.User) any { return &u.Role }},
	},
	Unique: [][]string{{"username"}},
	Clone: func(u *domain.User) *domain.User {
		c := *u
		c.RefreshToken = clonePtr(u.RefreshToken)
		c.RefreshTokenExpiry = clonePtr(u.RefreshTokenExpiry)
		c.LastLoginAt = clonePtr(u.LastLoginAt)
		return &c
	},
	Includes: map[string]Include[domain.User]{},
}

// Artists maps domain.Artist onto the artists table.
var Artists = &Table[domain.Artist]{
	Name:  "artists",
	Key:   Column[domain.Artist]{Name: "id", Value: func(a *domain.Artist) any { return a.ID }, Ref: func(a *domain.Artist) any { return &a.ID }},
	ID:    func(a *domain.Artist) int64 { return a.ID },
	SetID: func(a *domain.Artist, id int64) { a.ID = id },
	Columns: []Column[domain.Artist]{
		{Name: "name", Value: func(a *domain.Artist) any { return a.Name }, Ref: func(a *domain.Artist) any { return &a.Name }},
		{Name: "label", Value: func(a *domain.Artist) any { return a.Label }, Ref: func(a *domain.Artist) any { return &a.Label }},
		{Name: "is_on_tour", Value: func(a *domain.Artist) any { return a.IsOnTour }, Ref: func(a *domain.Artist) any { return &a.IsOnTour }},
		{Name: "genre", Value: func(a *domain.Artist) any { return string(a.Genre) }, Ref: func(a *domain.Artist) any { return &a.Genre }},
	},
	Clone: func(a *domain.Artist) *domain.Artist {
		c := *a
		return &c
	},
	Includes: map[string]Include[domain.Artist]{},
}

// Albums maps domain.Album onto the albums table.
var Albums = &Table[domain.Album]{
	Name:  "albums",
	Key:   Column[domain.Album]{Name: "id", Value: func(a *domain.Album) any { return a.ID }, Ref: func(a *domain.Album) any { return &a.ID }},
	ID:    func(a *domain.Album) int64 { return a.ID },
	SetID: func(a *domain.Album, id int64) { a.ID = id },
	Columns: []Column[domain.Album]{
		{Name: "name", Value: func(a *domain.Album) any { return a.Name }, Ref: func(a *domain.Album) any { return &a.Name }},
		{Name: "year", Value: func(a *domain.Album) any { return int64(a.Year) }, Ref: func(a *domain.Album) any { return &a.Year }},
		{Name: "genre", Value: func(a *domain.Album) any { return string(a.Genre) }, Ref: func(a *domain.Album) any { return &a.Genre }},
		{Name: "cost", Value: func(a *domain.Album) any { return a.Cost }, Ref: func(a *domain.Album) any { return &a.Cost }},
		{Name: "artist_id", Value: func(a *domain.Album) any { return a.ArtistID }, Ref: func(a *domain.Album) any { return &a.ArtistID }},
	},
	Clone: func(a *domain.Album) *domain.Album {
		c := *a
		c.Artist = nil
		return &c
	},
	Includes: map[string]Include[domain.Album]{
		"Artist": func(ctx context.Context, uow ports.UnitOfWork, a *domain.Album) error {
			artist, _, err := uow.Artists().Find(ctx, a.ArtistID)
			a.Artist = artist
			return err
		},
	},
}

// Songs maps domain.Song onto the songs table.
var Songs = &Table[domain.Song]{
	Name:  "songs",
	Key:   Column[domain.Song]{Name: "id", Value: func(s *domain.Song) any { return s.ID }, Ref: func(s *domain.Song) any { return &s.ID }},
	ID:    func(s *domain.Song) int64 { return s.ID },
	SetID: func(s *domain.Song, id int64) { s.ID = id },
	Columns: []Column[domain.Song]{
		{Name: "name", Value: func(s *domain.Song) any { return s.Name }, Ref: func(s *domain.Song) any { return &s.Name }},
		{Name: "length_seconds", Value: func(s *domain.Song) any { return int64(s.LengthSeconds) }, Ref: func(s *domain.Song) any { return &s.LengthSeconds }},
		{Name: "album_id", Value: func(s *domain.Song) any { return s.AlbumID }, Ref: func(s *domain.Song) any { return &s.AlbumID }},
	},
	Clone: func(s *domain.Song) *domain.Song {
		c := *s
		c.Album = nil
		return &c
	},
	Includes: map[string]Include[domain.Song]{
		"Album": loadSongAlbum,
		"Album.Artist": func(ctx context.Context, uow ports.UnitOfWork, s *domain.Song) error {
			if err := loadSongAlbum(ctx, uow, s); err != nil || s.Album == nil {
				return err
			}
			return Albums.Includes["Artist"](ctx, uow, s.Album)
		},
	},
}

func loadSongAlbum(ctx context.Context, uow ports.UnitOfWork, s *domain.Song) error {
	album, _, err := uow.Albums().Find(ctx, s.AlbumID)
	s.Album = album
	return err
}

// Tours maps domain.Tour onto the tours table.
var Tours = &Table[domain.Tour]{
	Name:  "tours",
	Key:   Column[domain.Tour]{Name: "id", Value: func(t *domain.Tour) any { return t.ID }, Ref: func(t *domain.Tour) any { return &t.ID }},
	ID:    func(t *domain.Tour) int64 { return t.ID },
	SetID: func(t *domain.Tour, id int64) { t.ID = id },
	Columns: []Column[domain.Tour]{
		{Name: "name", Value: func(t *domain.Tour) any { return t.Name }, Ref: func(t *domain.Tour) any { return &t.Name }},
		{Name: "city", Value: func(t *domain.Tour) any { return t.City }, Ref: func(t *domain.Tour) any { return &t.City }},
		{Name: "tour_date", Value: func(t *domain.Tour) any { return t.TourDate }, Ref: func(t *domain.Tour) any { return &t.TourDate }},
		{Name: "is_sold_out", Value: func(t *domain.Tour) any { return t.IsSoldOut }, Ref: func(t *domain.Tour) any { return &t.IsSoldOut }},
		{Name: "artist_id", Value: func(t *domain.Tour) any { return t.ArtistID }, Ref: func(t *domain.Tour) any { return &t.ArtistID }},
	},
	Clone: func(t *domain.Tour) *domain.Tour {
		c := *t
		c.Artist = nil
		return &c
	},
	Includes: map[string]Include[domain.Tour]{
		"Artist": func(ctx context.Context, uow ports.UnitOfWork, t *domain.Tour) error {
			artist, _, err := uow.Artists().Find(ctx, t.ArtistID)
			t.Artist = artist
			return err
		},
	},
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
