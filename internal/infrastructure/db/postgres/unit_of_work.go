package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
	"github.com/discoteque/discoteque-api/internal/infrastructure/db/schema"
)

// TxBeginner is satisfied by *pgxpool.Pool and by pgxmock pools.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UnitOfWorkFactory opens units of work against one pool.
type UnitOfWorkFactory struct {
	db TxBeginner
}

func NewUnitOfWorkFactory(db TxBeginner) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

func (f *UnitOfWorkFactory) NewUnitOfWork() ports.UnitOfWork {
	return NewUnitOfWork(f.db)
}

// UnitOfWork runs every repository call of one operation inside a single
// transaction. The transaction begins on first use, Save commits it and Close
// rolls back whatever was not saved. After Save the next call opens a new
// transaction.
//
// A UnitOfWork is not safe for concurrent use.
type UnitOfWork struct {
	db     TxBeginner
	tx     pgx.Tx
	closed bool

	users   *Repository[domain.User]
	artists *Repository[domain.Artist]
	albums  *Repository[domain.Album]
	songs   *Repository[domain.Song]
	tours   *Repository[domain.Tour]
}

func NewUnitOfWork(db TxBeginner) *UnitOfWork {
	u := &UnitOfWork{db: db}
	u.users = newRepository(u, schema.Users)
	u.artists = newRepository(u, schema.Artists)
	u.albums = newRepository(u, schema.Albums)
	u.songs = newRepository(u, schema.Songs)
	u.tours = newRepository(u, schema.Tours)
	return u
}

func (u *UnitOfWork) Users() ports.UserRepository     { return u.users }
func (u *UnitOfWork) Artists() ports.ArtistRepository { return u.artists }
func (u *UnitOfWork) Albums() ports.AlbumRepository   { return u.albums }
func (u *UnitOfWork) Songs() ports.SongRepository     { return u.songs }
func (u *UnitOfWork) Tours() ports.TourRepository     { return u.tours }

// transaction returns the open transaction, beginning one if needed.
func (u *UnitOfWork) transaction(ctx context.Context) (pgx.Tx, error) {
	if u.closed {
		return nil, errClosed
	}
	if u.tx != nil {
		return u.tx, nil
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	u.tx = tx
	return tx, nil
}

// Save commits the open transaction. Saving with nothing pending is a no-op.
func (u *UnitOfWork) Save(ctx context.Context) error {
	if u.closed {
		return errClosed
	}
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(ctx); err != nil {
		// pgx rolls back on a failed commit.
		return mapError("", fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Close rolls back anything not saved. Calling Close twice is harmless.
func (u *UnitOfWork) Close(ctx context.Context) error {
	if u.closed {
		return nil
	}
	u.closed = true
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
