package memory

import (
	"context"
	"errors"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
)

var errClosed = errors.New("memory: unit of work is closed")

// stager is the table-independent view of a Repository used by Save.
type stager interface {
	// prepare validates staged changes against committed rows and returns a
	// function that applies them. It is called with the store lock held.
	prepare() (apply func(), err error)
	discard()
}

// UnitOfWork stages writes until Save. Reads see committed rows overlaid with
// the writes staged so far.
//
// A UnitOfWork is not safe for concurrent use.
type UnitOfWork struct {
	store  *Store
	closed bool

	users   *Repository[domain.User]
	artists *Repository[domain.Artist]
	albums  *Repository[domain.Album]
	songs   *Repository[domain.Song]
	tours   *Repository[domain.Tour]
}

func newUnitOfWork(s *Store) *UnitOfWork {
	u := &UnitOfWork{store: s}
	u.users = newRepository(u, s.users)
	u.artists = newRepository(u, s.artists)
	u.albums = newRepository(u, s.albums)
	u.songs = newRepository(u, s.songs)
	u.tours = newRepository(u, s.tours)
	return u
}

func (u *UnitOfWork) Users() ports.UserRepository     { return u.users }
func (u *UnitOfWork) Artists() ports.ArtistRepository { return u.artists }
func (u *UnitOfWork) Albums() ports.AlbumRepository   { return u.albums }
func (u *UnitOfWork) Songs() ports.SongRepository     { return u.songs }
func (u *UnitOfWork) Tours() ports.TourRepository     { return u.tours }

func (u *UnitOfWork) stagers() []stager {
	return []stager{u.users, u.artists, u.albums, u.songs, u.tours}
}

func (u *UnitOfWork) check(ctx context.Context) error {
	if u.closed {
		return errClosed
	}
	return ctx.Err()
}

// Save applies every staged change or none of them.
func (u *UnitOfWork) Save(ctx context.Context) error {
	if err := u.check(ctx); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	stagers := u.stagers()
	applies := make([]func(), 0, len(stagers))
	for _, s := range stagers {
		apply, err := s.prepare()
		if err != nil {
			return err
		}
		applies = append(applies, apply)
	}
	for _, apply := range applies {
		apply()
	}
	return nil
}

// Close discards anything not saved. Calling Close twice is harmless.
func (u *UnitOfWork) Close(_ context.Context) error {
	if u.closed {
		return nil
	}
	u.closed = true
	for _, s := range u.stagers() {
		s.discard()
	}
	return nil
}
