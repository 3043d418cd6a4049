package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
)

// IncomeCategoryStore is the persistence the category service needs.
type IncomeCategoryStore interface {
	GetByID(ctx context.Context, id int64, lang string) (*model.IncomeCategory, error)
	List(ctx context.Context, filter model.IncomeCategoryFilter) ([]model.IncomeCategory, error)
	Create(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error)
	Update(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type IncomeCategoryService struct {
	store           IncomeCategoryStore
	defaultLanguage string
}

func NewIncomeCategoryService(s *server.Server, store IncomeCategoryStore) *IncomeCategoryService {
	return &IncomeCategoryService{
		store:           store,
		defaultLanguage: s.Config.Localization.DefaultLanguage,
	}
}

func (s *IncomeCategoryService) Details(ctx context.Context, id int64, lang string) (*model.IncomeCategory, error) {
	category, err := s.store.GetByID(ctx, id, s.language(lang))
	if err != nil {
		return nil, fmt.Errorf("income category details: %w", err)
	}
	return category, nil
}

func (s *IncomeCategoryService) List(ctx context.Context, filter model.IncomeCategoryFilter) ([]model.IncomeCategory, error) {
	filter.Language = s.language(filter.Language)

	categories, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("income category list: %w", err)
	}
	return categories, nil
}

func (s *IncomeCategoryService) Create(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	payload.Lang = s.language(payload.Lang)

	id, err := s.store.Create(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("income category create: %w", err)
	}
	return id, nil
}

func (s *IncomeCategoryService) Update(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	payload.Lang = s.language(payload.Lang)

	id, err := s.store.Update(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("income category update: %w", err)
	}
	return id, nil
}

func (s *IncomeCategoryService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("income category delete: %w", err)
	}
	return deleted, nil
}

func (s *IncomeCategoryService) language(lang string) string {
	if lang == "" {
		return s.defaultLanguage
	}
	return lang
}
