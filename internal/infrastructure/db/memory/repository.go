package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
)

// change is a staged write. A nil entity marks a delete.
type change[E any] struct {
	entity   *E
	inserted bool
}

// Repository implements ports.Repository for one table inside a UnitOfWork.
type Repository[E any] struct {
	uow     *UnitOfWork
	table   *table[E]
	pending map[int64]*change[E]
}

func newRepository[E any](uow *UnitOfWork, t *table[E]) *Repository[E] {
	return &Repository[E]{uow: uow, table: t, pending: make(map[int64]*change[E])}
}

// current returns the row with id as this unit of work sees it.
func (r *Repository[E]) current(id int64) (*E, bool) {
	if ch, ok := r.pending[id]; ok {
		return ch.entity, ch.entity != nil
	}
	r.uow.store.mu.RLock()
	defer r.uow.store.mu.RUnlock()
	e, ok := r.table.rows[id]
	return e, ok
}

// view merges committed rows with staged changes.
func (r *Repository[E]) view() map[int64]*E {
	r.uow.store.mu.RLock()
	rows := maps.Clone(r.table.rows)
	r.uow.store.mu.RUnlock()

	for id, ch := range r.pending {
		if ch.entity == nil {
			delete(rows, id)
			continue
		}
		rows[id] = ch.entity
	}
	return rows
}

func (r *Repository[E]) Find(ctx context.Context, id int64) (*E, bool, error) {
	if err := r.uow.check(ctx); err != nil {
		return nil, false, err
	}
	e, ok := r.current(id)
	if !ok {
		return nil, false, nil
	}
	return r.table.schema.Clone(e), true, nil
}

func (r *Repository[E]) GetAll(ctx context.Context, q ports.Query) ([]*E, error) {
	if err := r.table.schema.CheckQuery(q); err != nil {
		return nil, err
	}
	if err := r.uow.check(ctx); err != nil {
		return nil, err
	}

	s := r.table.schema
	var result []*E
	for _, e := range r.view() {
		if r.matches(e, q.Filter) {
			result = append(result, s.Clone(e))
		}
	}

	slices.SortFunc(result, func(a, b *E) int { return cmp.Compare(s.ID(a), s.ID(b)) })
	if len(q.OrderBy) > 0 {
		slices.SortStableFunc(result, func(a, b *E) int {
			for _, o := range q.OrderBy {
				va, _ := s.Value(a, o.Field)
				vb, _ := s.Value(b, o.Field)
				c := compare(va, vb)
				if o.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	if err := s.Load(ctx, r.uow, result, q.Include); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository[E]) matches(e *E, filter []ports.Condition) bool {
	for _, cond := range filter {
		v, err := r.table.schema.Value(e, cond.Field)
		if err != nil || !equal(v, cond.Value) {
			return false
		}
	}
	return true
}

// Add assigns the next id to entity and stages the insert.
func (r *Repository[E]) Add(ctx context.Context, entity *E) error {
	if err := r.uow.check(ctx); err != nil {
		return err
	}
	s := r.table.schema
	if err := checkUnique(s.Name, s.Unique, r.view(), entity, 0, s.Value); err != nil {
		return err
	}

	id := r.table.nextID.Add(1)
	s.SetID(entity, id)
	r.pending[id] = &change[E]{entity: s.Clone(entity), inserted: true}
	return nil
}

// Update fails with a ConcurrencyError when the row no longer exists.
func (r *Repository[E]) Update(ctx context.Context, entity *E) error {
	if err := r.uow.check(ctx); err != nil {
		return err
	}
	s := r.table.schema
	id := s.ID(entity)
	if _, ok := r.current(id); !ok {
		return &domain.ConcurrencyError{Table: s.Name, ID: id}
	}
	if err := checkUnique(s.Name, s.Unique, r.view(), entity, id, s.Value); err != nil {
		return err
	}

	inserted := false
	if ch, ok := r.pending[id]; ok {
		inserted = ch.inserted
	}
	r.pending[id] = &change[E]{entity: s.Clone(entity), inserted: inserted}
	return nil
}

// Delete fails with a ConcurrencyError when the row no longer exists.
func (r *Repository[E]) Delete(ctx context.Context, entity *E) error {
	if err := r.uow.check(ctx); err != nil {
		return err
	}
	id := r.table.schema.ID(entity)
	if _, ok := r.current(id); !ok {
		return &domain.ConcurrencyError{Table: r.table.schema.Name, ID: id}
	}
	r.stageDelete(id)
	return nil
}

func (r *Repository[E]) DeleteByID(ctx context.Context, id int64) error {
	if err := r.uow.check(ctx); err != nil {
		return err
	}
	if _, ok := r.current(id); ok {
		r.stageDelete(id)
	}
	return nil
}

func (r *Repository[E]) stageDelete(id int64) {
	if ch, ok := r.pending[id]; ok && ch.inserted {
		delete(r.pending, id)
		return
	}
	r.pending[id] = &change[E]{}
}

func (r *Repository[E]) prepare() (func(), error) {
	if len(r.pending) == 0 {
		return func() {}, nil
	}

	s := r.table.schema
	next := maps.Clone(r.table.rows)
	ids := slices.Sorted(maps.Keys(r.pending))
	for _, id := range ids {
		ch := r.pending[id]
		_, exists := next[id]
		switch {
		case ch.entity == nil:
			if !exists {
				return nil, &domain.ConcurrencyError{Table: s.Name, ID: id}
			}
			delete(next, id)
		case ch.inserted:
			next[id] = ch.entity
		default:
			if !exists {
				return nil, &domain.ConcurrencyError{Table: s.Name, ID: id}
			}
			next[id] = ch.entity
		}
	}

	for _, id := range ids {
		e := r.pending[id].entity
		if e == nil {
			continue
		}
		if err := checkUnique(s.Name, s.Unique, next, e, id, s.Value); err != nil {
			return nil, err
		}
	}

	return func() {
		r.table.rows = next
		clear(r.pending)
	}, nil
}

func (r *Repository[E]) discard() {
	clear(r.pending)
}

// checkUnique reports a PersistenceError when entity collides with another
// row in rows on any unique constraint. self is the id entity already holds,
// or 0 for a new row. NULLs never collide.
func checkUnique[E any](
	table string,
	constraints [][]string,
	rows map[int64]*E,
	entity *E,
	self int64,
	value func(*E, string) (any, error),
) error {
	for _, cols := range constraints {
		want := make([]any, len(cols))
		skip := false
		for i, c := range cols {
			v, err := value(entity, c)
			if err != nil {
				return err
			}
			if normalize(v) == nil {
				skip = true
				break
			}
			want[i] = v
		}
		if skip {
			continue
		}

		for id, other := range rows {
			if id == self {
				continue
			}
			if sameValues(other, cols, want, value) {
				return &domain.PersistenceError{
					Table:      table,
					Constraint: fmt.Sprintf("%s_%s_key", table, strings.Join(cols, "_")),
					Err:        fmt.Errorf("duplicate key value for (%s)", strings.Join(cols, ", ")),
				}
			}
		}
	}
	return nil
}

func sameValues[E any](e *E, cols []string, want []any, value func(*E, string) (any, error)) bool {
	for i, c := range cols {
		v, err := value(e, c)
		if err != nil || !equal(v, want[i]) {
			return false
		}
	}
	return true
}
