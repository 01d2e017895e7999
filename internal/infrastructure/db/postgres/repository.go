package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/discoteque/discoteque-api/internal/core/domain"
	"github.com/discoteque/discoteque-api/internal/core/ports"
	"github.com/discoteque/discoteque-api/internal/infrastructure/db/schema"
)

// Repository implements ports.Repository for one table inside a UnitOfWork.
type Repository[E any] struct {
	uow   *UnitOfWork
	table *schema.Table[E]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

func newRepository[E any](uow *UnitOfWork, table *schema.Table[E]) *Repository[E] {
	columns := table.Columns
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	assignments := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		assignments[i] = fmt.Sprintf("%s = $%d", c.Name, i+1)
	}

	return &Repository[E]{
		uow:       uow,
		table:     table,
		selectSQL: fmt.Sprintf("SELECT %s FROM %s", strings.Join(table.ColumnNames(), ", "), table.Name),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			table.Name, strings.Join(names, ", "), strings.Join(placeholders, ", "), table.Key.Name),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			table.Name, strings.Join(assignments, ", "), table.Key.Name, len(columns)+1),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table.Name, table.Key.Name),
	}
}

func (r *Repository[E]) Find(ctx context.Context, id int64) (*E, bool, error) {
	tx, err := r.uow.transaction(ctx)
	if err != nil {
		return nil, false, err
	}

	e := new(E)
	err = tx.QueryRow(ctx, r.selectSQL+fmt.Sprintf(" WHERE %s = $1", r.table.Key.Name), id).Scan(r.table.Refs(e)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find %s %d: %w", r.table.Name, id, err)
	}
	return e, true, nil
}

func (r *Repository[E]) GetAll(ctx context.Context, q ports.Query) ([]*E, error) {
	if err := r.table.CheckQuery(q); err != nil {
		return nil, err
	}
	tx, err := r.uow.transaction(ctx)
	if err != nil {
		return nil, err
	}

	sql, args := r.buildSelect(q)
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table.Name, err)
	}
	defer rows.Close()

	var result []*E
	for rows.Next() {
		e := new(E)
		if err := rows.Scan(r.table.Refs(e)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table.Name, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.table.Name, err)
	}
	rows.Close()

	if err := r.table.Load(ctx, r.uow, result, q.Include); err != nil {
		return nil, err
	}
	return result, nil
}

// buildSelect renders q against the whitelisted column names.
func (r *Repository[E]) buildSelect(q ports.Query) (string, []any) {
	var sb strings.Builder
	sb.WriteString(r.selectSQL)

	var args []any
	for i, cond := range q.Filter {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		if cond.Value == nil {
			sb.WriteString(cond.Field + " IS NULL")
			continue
		}
		args = append(args, cond.Value)
		fmt.Fprintf(&sb, "%s = $%d", cond.Field, len(args))
	}

	for i, o := range q.OrderBy {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(o.Field)
		if o.Desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}
	return sb.String(), args
}

func (r *Repository[E]) Add(ctx context.Context, entity *E) error {
	tx, err := r.uow.transaction(ctx)
	if err != nil {
		return err
	}

	var id int64
	if err := tx.QueryRow(ctx, r.insertSQL, r.table.Values(entity)...).Scan(&id); err != nil {
		return mapError(r.table.Name, fmt.Errorf("insert %s: %w", r.table.Name, err))
	}
	r.table.SetID(entity, id)
	return nil
}

// Update fails with a ConcurrencyError when the row no longer exists.
func (r *Repository[E]) Update(ctx context.Context, entity *E) error {
	tx, err := r.uow.transaction(ctx)
	if err != nil {
		return err
	}

	id := r.table.ID(entity)
	args := append(r.table.Values(entity), id)
	tag, err := tx.Exec(ctx, r.updateSQL, args...)
	if err != nil {
		return mapError(r.table.Name, fmt.Errorf("update %s %d: %w", r.table.Name, id, err))
	}
	if tag.RowsAffected() == 0 {
		return &domain.ConcurrencyError{Table: r.table.Name, ID: id}
	}
	return nil
}

// Delete fails with a ConcurrencyError when the row no longer exists.
func (r *Repository[E]) Delete(ctx context.Context, entity *E) error {
	id := r.table.ID(entity)
	affected, err := r.delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.ConcurrencyError{Table: r.table.Name, ID: id}
	}
	return nil
}

func (r *Repository[E]) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.delete(ctx, id)
	return err
}

func (r *Repository[E]) delete(ctx context.Context, id int64) (int64, error) {
	tx, err := r.uow.transaction(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, r.deleteSQL, id)
	if err != nil {
		return 0, mapError(r.table.Name, fmt.Errorf("delete %s %d: %w", r.table.Name, id, err))
	}
	return tag.RowsAffected(), nil
}
