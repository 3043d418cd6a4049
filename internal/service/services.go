// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/income-api/internal/lib/job"
	"github.com/deppfellow/income-api/internal/repository"
	"github.com/deppfellow/income-api/internal/server"
)

type Services struct {
	Auth           *AuthService
	IncomeCategory *IncomeCategoryService
	Income         *IncomeService
	Currency       *CurrencyService
	Job            *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Job:            s.Job,
		Auth:           NewAuthService(s, repos.User, repos.Token, s.Job),
		IncomeCategory: NewIncomeCategoryService(s, repos.IncomeCategory),
		Income:         NewIncomeService(repos.Income),
		Currency:       NewCurrencyService(repos.Currency),
	}, nil
}
