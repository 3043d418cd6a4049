// Package health probes the service's backing dependencies. The same
// checks answer the /status endpoint and feed the background monitor.
package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	CheckDatabase = "database"
	CheckRedis    = "redis"
)

// Pinger is a dependency that can answer a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Result is the outcome of one check.
type Result struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"-"`
	Latency      string        `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	Err          error         `json:"-"`
}

func (r Result) Healthy() bool {
	return r.Status == StatusHealthy
}

// Report groups the results of one run.
type Report struct {
	Checks   map[string]Result
	Duration time.Duration
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	for _, result := range r.Checks {
		if !result.Healthy() {
			return false
		}
	}
	return true
}

// Checker runs the configured probes with a shared timeout.
type Checker struct {
	pingers map[string]Pinger
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		pingers: make(map[string]Pinger),
		timeout: timeout,
	}
}

// Register adds a named probe. A nil pinger is ignored.
func (c *Checker) Register(name string, p Pinger) *Checker {
	if p != nil {
		c.pingers[name] = p
	}
	return c
}

// Only keeps the named probes, in any order. An empty list keeps all.
func (c *Checker) Only(names []string) *Checker {
	if len(names) == 0 {
		return c
	}

	keep := make(map[string]Pinger, len(names))
	for _, name := range names {
		if p, ok := c.pingers[name]; ok {
			keep[name] = p
		}
	}
	c.pingers = keep
	return c
}

// Names returns the registered check names.
func (c *Checker) Names() []string {
	names := make([]string, 0, len(c.pingers))
	for name := range c.pingers {
		names = append(names, name)
	}
	return names
}

// Run executes every probe sequentially.
func (c *Checker) Run(ctx context.Context) Report {
	start := time.Now()
	report := Report{Checks: make(map[string]Result, len(c.pingers))}

	for name, p := range c.pingers {
		report.Checks[name] = c.probe(ctx, p)
	}

	report.Duration = time.Since(start)
	return report
}

func (c *Checker) probe(ctx context.Context, p Pinger) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	elapsed := time.Since(start)

	result := Result{
		Status:       StatusHealthy,
		ResponseTime: elapsed,
		Latency:      elapsed.String(),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Err = err
	}
	return result
}

// DatabasePinger probes a pgx pool.
func DatabasePinger(pool *pgxpool.Pool) Pinger {
	if pool == nil {
		return nil
	}
	return PingFunc(pool.Ping)
}

// RedisPinger probes a redis client.
func RedisPinger(client *redis.Client) Pinger {
	if client == nil {
		return nil
	}
	return PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
