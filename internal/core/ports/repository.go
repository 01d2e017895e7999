package ports

import "context"

// Condition is a field-equality predicate. A nil Value matches NULL.
type Condition struct {
	Field string
	Value any
}

// Order sorts results by Field, ascending unless Desc is set.
type Order struct {
	Field string
	Desc  bool
}

// Query narrows GetAll. The zero value returns every row in storage order.
type Query struct {
	Filter  []Condition // combined with AND
	OrderBy []Order
	Include []string // related entities to load, e.g. "Artist"
}

// Eq builds a Condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Value: value}
}

func Asc(field string) Order  { return Order{Field: field} }
func Desc(field string) Order { return Order{Field: field, Desc: true} }

// Where returns a Query filtering on all conditions.
func Where(conds ...Condition) Query {
	return Query{Filter: conds}
}

// Repository is keyed CRUD over one entity type.
//
// Writes are applied to the owning unit of work immediately, so constraint
// violations and generated identifiers surface at the call; they only become
// durable once the unit of work is saved.
type Repository[ID comparable, E any] interface {
	// Find returns found=false, with a nil error, when no row has id.
	Find(ctx context.Context, id ID) (entity *E, found bool, err error)
	GetAll(ctx context.Context, q Query) ([]*E, error)
	// Add inserts entity and writes the assigned identifier back into it.
	Add(ctx context.Context, entity *E) error
	// Update overwrites the whole stored record with entity.
	Update(ctx context.Context, entity *E) error
	Delete(ctx context.Context, entity *E) error
	// DeleteByID is a no-op when no row has id.
	DeleteByID(ctx context.Context, id ID) error
}
