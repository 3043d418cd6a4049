// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/config"
	"github.com/deppfellow/income-api/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	// server runs worker processes that pull tasks from Redis and execute handlers.
	server *asynq.Server

	emailClient *email.Client
	cfg         *config.Config
	logger      *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give "critical" tasks (password resets) the larger share
// of the 10 workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client:      client,
		server:      server,
		emailClient: email.NewClient(cfg, logger),
		cfg:         cfg,
		logger:      logger,
	}
}

// Start registers task handlers and starts the worker server. asynq runs
// the workers in background goroutines, so Start returns once they are up.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskVerificationEmail, j.handleVerificationEmailTask)
	mux.HandleFunc(TaskPasswordResetEmail, j.handlePasswordResetEmailTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}

// EnqueueVerificationEmail queues the verification email for a user.
func (j *JobService) EnqueueVerificationEmail(ctx context.Context, to, userName, token string) error {
	task, err := NewVerificationEmailTask(to, userName, token)
	if err != nil {
		return fmt.Errorf("building verification email task: %w", err)
	}
	return j.enqueue(ctx, task)
}

// EnqueuePasswordResetEmail queues the password reset email for a user.
func (j *JobService) EnqueuePasswordResetEmail(ctx context.Context, to, userName, token string) error {
	task, err := NewPasswordResetEmailTask(to, userName, token)
	if err != nil {
		return fmt.Errorf("building password reset email task: %w", err)
	}
	return j.enqueue(ctx, task)
}

func (j *JobService) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing %s: %w", task.Type(), err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Msg("task enqueued")
	return nil
}
