package handler

import (
	"context"

	"github.com/deppfellow/income-api/internal/lib/token"
	"github.com/deppfellow/income-api/internal/model"
)

// The handlers depend on these capability contracts rather than on the
// concrete services, so each handler can be exercised with a fake.

type IncomeCategoryService interface {
	Details(ctx context.Context, id int64, lang string) (*model.IncomeCategory, error)
	List(ctx context.Context, filter model.IncomeCategoryFilter) ([]model.IncomeCategory, error)
	Create(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error)
	Update(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type IncomeService interface {
	Details(ctx context.Context, userID, id int64) (*model.Income, error)
	List(ctx context.Context, filter model.IncomeFilter) ([]model.Income, error)
	Create(ctx context.Context, userID int64, payload *model.IncomeFormPayload) (int64, error)
}

type CurrencyService interface {
	List(ctx context.Context) ([]model.Currency, error)
}

type AuthService interface {
	Register(ctx context.Context, payload *model.RegisterPayload) (*model.User, error)
	Login(ctx context.Context, payload *model.LoginPayload) (*model.LoginResult, error)
	Logout(ctx context.Context, claims *token.Claims) error
	VerifyEmail(ctx context.Context, tokenString string) error
	ResendEmail(ctx context.Context, userID int64) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, payload *model.ResetPasswordPayload) error
}
