package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/model"
)

type CurrencyStore interface {
	List(ctx context.Context) ([]model.Currency, error)
}

type CurrencyService struct {
	store CurrencyStore
}

func NewCurrencyService(store CurrencyStore) *CurrencyService {
	return &CurrencyService{store: store}
}

func (s *CurrencyService) List(ctx context.Context) ([]model.Currency, error) {
	currencies, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("currency list: %w", err)
	}
	return currencies, nil
}
