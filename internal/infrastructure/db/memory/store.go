// Package memory is an in-process storage backend. It keeps the same unit of
// work contract as the postgres backend: writes are staged per unit of work
// and applied to the shared Store all at once on Save.
package memory

import (
	"sync"
	"sync/atomic"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
	"github.com/discoteque/discoteque-api/internal/infrastructure/db/schema"
)

// Store holds committed rows for every table.
type Store struct {
	mu sync.RWMutex

	users   *table[domain.User]
	artists *table[domain.Artist]
	albums  *table[domain.Album]
	songs   *table[domain.Song]
	tours   *table[domain.Tour]
}

func NewStore() *Store {
	return &Store{
		users:   newTable(schema.Users),
		artists: newTable(schema.Artists),
		albums:  newTable(schema.Albums),
		songs:   newTable(schema.Songs),
		tours:   newTable(schema.Tours),
	}
}

// NewUnitOfWork makes Store a ports.UnitOfWorkFactory.
func (s *Store) NewUnitOfWork() ports.UnitOfWork {
	return newUnitOfWork(s)
}

type table[E any] struct {
	schema *schema.Table[E]
	rows   map[int64]*E
	nextID atomic.Int64
}

func newTable[E any](s *schema.Table[E]) *table[E] {
	return &table[E]{schema: s, rows: make(map[int64]*E)}
}
