package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/income-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeCategoryServiceDefaultsLanguage(t *testing.T) {
	store := &mockIncomeCategoryStore{}
	svc := NewIncomeCategoryService(newTestServer(), store)
	ctx := context.Background()

	store.On("List", ctx, model.IncomeCategoryFilter{Symbol: "SAL", Language: "en"}).
		Return([]model.IncomeCategory{{ID: 1, Symbol: "SALARY"}}, nil)

	categories, err := svc.List(ctx, model.IncomeCategoryFilter{Symbol: "SAL"})
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	payload := &model.IncomeCategoryFormPayload{Symbol: "SAL", Name: "Salary"}
	store.On("Create", ctx, payload).Return(int64(3), nil)

	id, err := svc.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, "en", payload.Lang)
}

func TestIncomeCategoryServiceWrapsErrors(t *testing.T) {
	store := &mockIncomeCategoryStore{}
	svc := NewIncomeCategoryService(newTestServer(), store)
	ctx := context.Background()
	boom := errors.New("boom")

	store.On("GetByID", ctx, int64(5), "ro").Return(nil, boom)
	_, err := svc.Details(ctx, 5, "ro")
	assert.ErrorIs(t, err, boom)

	store.On("Delete", ctx, int64(5)).Return(false, boom)
	deleted, err := svc.Delete(ctx, 5)
	assert.False(t, deleted)
	assert.ErrorIs(t, err, boom)
}
