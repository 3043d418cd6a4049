package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/income-api/internal/lib/health"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// HealthHandler exposes a system endpoint that load balancers and uptime
// monitors use to verify the service is alive and its dependencies are
// reachable.
type HealthHandler struct {
	Handler
	checker *health.Checker
}

// NewHealthHandler probes the database and redis, whichever exist.
func NewHealthHandler(s *server.Server) *HealthHandler {
	checker := health.NewChecker(5 * time.Second)
	if s.DB != nil {
		checker.Register(health.CheckDatabase, health.DatabasePinger(s.DB.Pool))
	}
	checker.Register(health.CheckRedis, health.RedisPinger(s.Redis))

	return &HealthHandler{
		Handler: NewHandler(s),
		checker: checker,
	}
}

// CheckHealth answers 200 when every dependency responds and 503
// otherwise. Redis is required: token revocation and jobs depend on it.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	report := h.checker.Run(context.Background())

	var nrApp *newrelic.Application
	if h.server.LoggerService != nil {
		nrApp = h.server.LoggerService.GetApplication()
	}

	for name, result := range report.Checks {
		if result.Healthy() {
			logger.Info().
				Dur("response_time", result.ResponseTime).
				Msgf("%s health check passed", name)
			continue
		}

		logger.Error().
			Err(result.Err).
			Dur("response_time", result.ResponseTime).
			Msgf("%s health check failed", name)
		health.RecordFailure(nrApp, name, "health_check", result)
	}

	body := map[string]interface{}{
		"status":      health.StatusHealthy,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      report.Checks,
	}

	status := http.StatusOK
	if !report.Healthy() {
		body["status"] = health.StatusUnhealthy
		status = http.StatusServiceUnavailable

		logger.Warn().
			Dur("total_duration", report.Duration).
			Msg("health check failed")
	} else {
		logger.Info().
			Dur("total_duration", report.Duration).
			Msg("health check passed")
	}

	if err := c.JSON(status, body); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
