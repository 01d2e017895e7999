package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/discoteque/discoteque-api/internal/core/ports"
)

// closeUnitOfWork releases uow even when ctx was cancelled mid-operation.
func closeUnitOfWork(ctx context.Context, uow ports.UnitOfWork, logger zerolog.Logger) {
	if err := uow.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Warn().Err(err).Msg("close unit of work")
	}
}

// findOne returns the first entity matching q, or nil when none does.
func findOne[ID comparable, E any](ctx context.Context, repo ports.Repository[ID, E], q ports.Query) (*E, error) {
	rows, err := repo.GetAll(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
