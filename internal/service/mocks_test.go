package service

import (
	"context"
	"time"

	"github.com/deppfellow/income-api/internal/config"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Auth: config.AuthConfig{
				SecretKey:            "0123456789abcdef0123456789abcdef",
				Issuer:               "income-api",
				AccessTokenTTL:       15 * time.Minute,
				VerificationTokenTTL: 48 * time.Hour,
				ResetTokenTTL:        time.Hour,
			},
			Localization: config.LocalizationConfig{DefaultLanguage: "en"},
		},
		Logger: &logger,
	}
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	args := m.Called(ctx, name, email, passwordHash)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserStore) MarkEmailVerified(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

type mockRevocationStore struct{ mock.Mock }

func (m *mockRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *mockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRevocationStore) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, tokenID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockRevocationStore) Release(ctx context.Context, tokenID string) error {
	return m.Called(ctx, tokenID).Error(0)
}

type mockEmailEnqueuer struct{ mock.Mock }

func (m *mockEmailEnqueuer) EnqueueVerificationEmail(ctx context.Context, to, userName, token string) error {
	return m.Called(ctx, to, userName, token).Error(0)
}

func (m *mockEmailEnqueuer) EnqueuePasswordResetEmail(ctx context.Context, to, userName, token string) error {
	return m.Called(ctx, to, userName, token).Error(0)
}

type mockIncomeCategoryStore struct{ mock.Mock }

func (m *mockIncomeCategoryStore) GetByID(ctx context.Context, id int64, lang string) (*model.IncomeCategory, error) {
	args := m.Called(ctx, id, lang)
	category, _ := args.Get(0).(*model.IncomeCategory)
	return category, args.Error(1)
}

func (m *mockIncomeCategoryStore) List(ctx context.Context, filter model.IncomeCategoryFilter) ([]model.IncomeCategory, error) {
	args := m.Called(ctx, filter)
	categories, _ := args.Get(0).([]model.IncomeCategory)
	return categories, args.Error(1)
}

func (m *mockIncomeCategoryStore) Create(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockIncomeCategoryStore) Update(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockIncomeCategoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
