// Package schema maps domain entities onto storage tables. Each Table lists
// its columns once; the postgres and memory backends both read from it.
package schema

import (
	"context"
	"fmt"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
)

// Column binds a storage column to an entity field.
type Column[E any] struct {
	Name string
	// Value returns the field as written to storage. Nullable fields return
	// a nil interface when unset.
	Value func(*E) any
	// Ref returns a pointer to the field for scanning.
	Ref func(*E) any
}

// Include loads a named relation onto e through uow.
type Include[E any] func(ctx context.Context, uow ports.UnitOfWork, e *E) error

// Table describes how one entity type is stored.
type Table[E any] struct {
	Name string
	// Key is the generated int64 primary key. It is not part of Columns.
	Key   Column[E]
	ID    func(*E) int64
	SetID func(*E, int64)

	Columns []Column[E]
	// Unique lists single or composite unique constraints by column name.
	Unique [][]string
	// Clone copies e without any loaded relations.
	Clone    func(*E) *E
	Includes map[string]Include[E]
}

// ColumnNames returns the key followed by every column, in order.
func (t *Table[E]) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns)+1)
	names = append(names, t.Key.Name)
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Refs returns scan targets matching ColumnNames.
func (t *Table[E]) Refs(e *E) []any {
	refs := make([]any, 0, len(t.Columns)+1)
	refs = append(refs, t.Key.Ref(e))
	for _, c := range t.Columns {
		refs = append(refs, c.Ref(e))
	}
	return refs
}

// Values returns the non-key column values in Columns order.
func (t *Table[E]) Values(e *E) []any {
	values := make([]any, 0, len(t.Columns))
	for _, c := range t.Columns {
		values = append(values, c.Value(e))
	}
	return values
}

// Value returns the value of column name, including the key.
func (t *Table[E]) Value(e *E, name string) (any, error) {
	if name == t.Key.Name {
		return t.ID(e), nil
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Value(e), nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no column %q", domain.ErrInvalidQuery, t.Name, name)
}

// HasColumn reports whether name is the key or a column of t.
func (t *Table[E]) HasColumn(name string) bool {
	if name == t.Key.Name {
		return true
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CheckQuery rejects filters, orderings and includes t does not know.
func (t *Table[E]) CheckQuery(q ports.Query) error {
	for _, cond := range q.Filter {
		if !t.HasColumn(cond.Field) {
			return fmt.Errorf("%w: %s has no column %q", domain.ErrInvalidQuery, t.Name, cond.Field)
		}
	}
	for _, o := range q.OrderBy {
		if !t.HasColumn(o.Field) {
			return fmt.Errorf("%w: %s has no column %q", domain.ErrInvalidQuery, t.Name, o.Field)
		}
	}
	for _, name := range q.Include {
		if _, ok := t.Includes[name]; !ok {
			return fmt.Errorf("%w: %s has no relation %q", domain.ErrUnknownInclude, t.Name, name)
		}
	}
	return nil
}

// Load runs the named includes on every entity.
func (t *Table[E]) Load(ctx context.Context, uow ports.UnitOfWork, entities []*E, names []string) error {
	for _, name := range names {
		include, ok := t.Includes[name]
		if !ok {
			return fmt.Errorf("%w: %s has no relation %q", domain.ErrUnknownInclude, t.Name, name)
		}
		for _, e := range entities {
			if err := include(ctx, uow, e); err != nil {
				return fmt.Errorf("include %s.%s: %w", t.Name, name, err)
			}
		}
	}
	return nil
}
