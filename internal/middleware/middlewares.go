// Package middleware holds the global and route-level echo middleware:
// bearer token authentication, request ids, request-scoped logging,
// tracing, metrics, rate limiting, panic recovery and the global error
// handler.
package middleware

import (
	"github.com/deppfellow/income-api/internal/config"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups every middleware component so router setup builds
// them once and passes one value around.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Auth            *AuthMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	Metrics         *MetricsMiddleware
	RateLimit       *RateLimitMiddleware
}

// NewMiddlewares wires the components. Without a New Relic application the
// tracing middleware is a pass-through.
func NewMiddlewares(s *server.Server, authenticator Authenticator) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s, authenticator),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		Metrics:         NewMetricsMiddleware(config.MetricsNamespace),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
