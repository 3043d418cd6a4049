package health

import (
	"context"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Monitor runs the checker on a cron schedule and reports failures as
// New Relic custom events.
type Monitor struct {
	checker *Checker
	logger  *zerolog.Logger
	nrApp   *newrelic.Application
	cron    *cron.Cron
	spec    string
}

// NewMonitor schedules checker every interval; spec uses cron's
// "@every" syntax, e.g. "@every 30s". nrApp may be nil.
func NewMonitor(checker *Checker, spec string, logger *zerolog.Logger, nrApp *newrelic.Application) *Monitor {
	return &Monitor{
		checker: checker,
		logger:  logger,
		nrApp:   nrApp,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:    spec,
	}
}

// EverySpec formats a schedule for NewMonitor.
func EverySpec(interval time.Duration) string {
	return "@every " + interval.String()
}

func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.spec, m.RunOnce); err != nil {
		return fmt.Errorf("failed to schedule health monitor: %w", err)
	}

	m.cron.Start()
	m.logger.Info().
		Str("schedule", m.spec).
		Strs("checks", m.checker.Names()).
		Msg("health monitor started")
	return nil
}

// Stop waits for a running check to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
	m.logger.Info().Msg("health monitor stopped")
}

// RunOnce performs a single check run and records its outcome.
func (m *Monitor) RunOnce() {
	report := m.checker.Run(context.Background())

	for name, result := range report.Checks {
		if result.Healthy() {
			m.logger.Debug().
				Str("check", name).
				Dur("response_time", result.ResponseTime).
				Msg("dependency healthy")
			continue
		}

		m.logger.Error().
			Err(result.Err).
			Str("check", name).
			Dur("response_time", result.ResponseTime).
			Msg("dependency unhealthy")

		RecordFailure(m.nrApp, name, "monitor", result)
	}
}

// RecordFailure emits a HealthCheckError event. It is a no-op without an
// APM application.
func RecordFailure(app *newrelic.Application, check, operation string, result Result) {
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       check,
		"operation":        operation,
		"error_type":       check + "_unhealthy",
		"response_time_ms": result.ResponseTime.Milliseconds(),
		"error_message":    result.Error,
	})
}
