package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// Task type names stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskVerificationEmail  = "email:verification"
	TaskPasswordResetEmail = "email:password_reset"
)

// EmailTokenPayload is the JSON payload shared by token-bearing emails.
//
// The link is built by the worker from the configured app URL so that
// tasks stay valid if the URL changes while they wait in the queue.
type EmailTokenPayload struct {
	To       string `json:"to"`
	UserName string `json:"user_name"`
	Token    string `json:"token"`
}

// NewVerificationEmailTask constructs the task sent after registration and
// on resend requests.
func NewVerificationEmailTask(to, userName, token string) (*asynq.Task, error) {
	return newEmailTokenTask(TaskVerificationEmail, "default", EmailTokenPayload{
		To:       to,
		UserName: userName,
		Token:    token,
	})
}

// NewPasswordResetEmailTask constructs the password reset task. It goes to
// the critical queue since the user is actively waiting for it.
func NewPasswordResetEmailTask(to, userName, token string) (*asynq.Task, error) {
	return newEmailTokenTask(TaskPasswordResetEmail, "critical", EmailTokenPayload{
		To:       to,
		UserName: userName,
		Token:    token,
	})
}

// newEmailTokenTask serializes payload and configures task options:
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue(queue): route into a weighted queue
//   - Timeout(30s): kill the task if handler runs longer than 30 seconds
func newEmailTokenTask(taskType, queue string, p EmailTokenPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(queue),
		asynq.Timeout(30*time.Second),
	), nil
}
