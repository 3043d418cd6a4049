// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the..
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core..
// business logic.
package handler

import (
	"github.com/deppfellow/income-api/internal/lib/locale"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/deppfellow/income-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers so router setup
// passes one object around instead of many.
type Handlers struct {
	Health         *HealthHandler  // Health serves the dependency health endpoint.
	OpenAPI        *OpenAPIHandler // OpenAPI serves API documentation.
	Auth           *AuthHandler
	IncomeCategory *IncomeCategoryHandler
	Income         *IncomeHandler
	Currency       *CurrencyHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	resolver := locale.NewResolver(&s.Config.Localization)

	return &Handlers{
		Health:         NewHealthHandler(s),
		OpenAPI:        NewOpenAPIHandler(s),
		Auth:           NewAuthHandler(s, services.Auth),
		IncomeCategory: NewIncomeCategoryHandler(s, services.IncomeCategory, resolver),
		Income:         NewIncomeHandler(s, services.Income),
		Currency:       NewCurrencyHandler(s, services.Currency),
	}
}
