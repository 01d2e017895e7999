package ports

import (
	"context"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

type (
	UserRepository   = Repository[int64, domain.User]
	ArtistRepository = Repository[int64, domain.Artist]
	AlbumRepository  = Repository[int64, domain.Album]
	SongRepository   = Repository[int64, domain.Song]
	TourRepository   = Repository[int64, domain.Tour]
)

// UnitOfWork groups one repository per entity type over a single
// transaction. It belongs to one logical operation and must be closed when
// that operation returns.
type UnitOfWork interface {
	Users() UserRepository
	Artists() ArtistRepository
	Albums() AlbumRepository
	Songs() SongRepository
	Tours() TourRepository

	// Save commits every pending write atomically. On failure nothing is
	// visible outside the unit of work.
	Save(ctx context.Context) error
	// Close discards unsaved writes and releases the connection.
	Close(ctx context.Context) error
}

// UnitOfWorkFactory opens a fresh UnitOfWork per operation.
type UnitOfWorkFactory interface {
	NewUnitOfWork() UnitOfWork
}
