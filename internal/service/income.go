package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/logger"
	"github.com/deppfellow/income-api/internal/model"
)

// IncomeStore is the persistence the income service needs. Every read is
// scoped to the owning user.
type IncomeStore interface {
	GetByID(ctx context.Context, userID, id int64) (*model.Income, error)
	List(ctx context.Context, filter model.IncomeFilter) ([]model.Income, error)
	Create(ctx context.Context, userID int64, payload *model.IncomeFormPayload) (int64, error)
}

type IncomeService struct {
	store IncomeStore
}

func NewIncomeService(store IncomeStore) *IncomeService {
	return &IncomeService{store: store}
}

func (s *IncomeService) Details(ctx context.Context, userID, id int64) (*model.Income, error) {
	income, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("income details: %w", err)
	}
	return income, nil
}

func (s *IncomeService) List(ctx context.Context, filter model.IncomeFilter) ([]model.Income, error) {
	incomes, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("income list: %w", err)
	}
	return incomes, nil
}

func (s *IncomeService) Create(ctx context.Context, userID int64, payload *model.IncomeFormPayload) (int64, error) {
	id, err := s.store.Create(ctx, userID, payload)
	if err != nil {
		return 0, fmt.Errorf("income create: %w", err)
	}

	logger.FromContext(ctx).Info().
		Int64("user_id", userID).
		Int64("income_id", id).
		Str("amount", payload.Amount.String()).
		Msg("income recorded")

	return id, nil
}
