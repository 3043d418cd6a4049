// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Token revocation state lives in Redis and is handled here as well.
package repository

import (
	"github.com/deppfellow/income-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	IncomeCategory *IncomeCategoryRepository
	Income         *IncomeRepository
	User           *UserRepository
	Currency       *CurrencyRepository
	Token          *TokenStore
}

// NewRepositories constructs the repository container from the shared
// database pool and redis client held by s.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		IncomeCategory: NewIncomeCategoryRepository(s),
		Income:         NewIncomeRepository(s),
		User:           NewUserRepository(s),
		Currency:       NewCurrencyRepository(s),
		Token:          NewTokenStore(s),
	}
}
