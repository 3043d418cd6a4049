package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/jackc/pgx/v5"
)

type CurrencyRepository struct {
	server *server.Server
}

func NewCurrencyRepository(s *server.Server) *CurrencyRepository {
	return &CurrencyRepository{server: s}
}

func (r *CurrencyRepository) List(ctx context.Context) ([]model.Currency, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `
		SELECT id, TRIM(code) AS code, symbol, name
		FROM currencies
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list currencies query: %w", err)
	}

	currencies, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Currency])
	if err != nil {
		return nil, fmt.Errorf("failed to collect currencies: %w", err)
	}
	return currencies, nil
}
