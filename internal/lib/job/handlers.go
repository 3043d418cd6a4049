package job

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/hibiken/asynq"
)

// handleVerificationEmailTask sends the email verification link.
func (j *JobService) handleVerificationEmailTask(ctx context.Context, t *asynq.Task) error {
	p, err := decodeEmailTokenPayload(t)
	if err != nil {
		return err
	}

	link := j.actionURL("/verify-email", p.Token)
	return j.runEmail(ctx, "verification", p, func() error {
		return j.emailClient.SendVerificationEmail(ctx, p.To, p.UserName, link, j.cfg.Auth.VerificationTokenTTL)
	})
}

// handlePasswordResetEmailTask sends the single-use password reset link.
func (j *JobService) handlePasswordResetEmailTask(ctx context.Context, t *asynq.Task) error {
	p, err := decodeEmailTokenPayload(t)
	if err != nil {
		return err
	}

	link := j.actionURL("/reset-password", p.Token)
	return j.runEmail(ctx, "password_reset", p, func() error {
		return j.emailClient.SendPasswordResetEmail(ctx, p.To, p.UserName, link, j.cfg.Auth.ResetTokenTTL)
	})
}

// runEmail logs around a send. Returning the error makes Asynq mark the
// task failed and schedule a retry.
func (j *JobService) runEmail(_ context.Context, kind string, p EmailTokenPayload, send func() error) error {
	j.logger.Info().
		Str("type", kind).
		Str("to", p.To).
		Msg("Processing email task")

	if err := send(); err != nil {
		j.logger.Error().
			Str("type", kind).
			Str("to", p.To).
			Err(err).
			Msg("Failed to send email")
		return err
	}

	j.logger.Info().
		Str("type", kind).
		Str("to", p.To).
		Msg("Successfully sent email")
	return nil
}

func decodeEmailTokenPayload(t *asynq.Task) (EmailTokenPayload, error) {
	var p EmailTokenPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload will never succeed; skip retries.
		return p, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return p, nil
}

// actionURL joins the frontend URL, a path and the token query parameter.
func (j *JobService) actionURL(path, token string) string {
	return strings.TrimRight(j.cfg.Auth.AppURL, "/") + path + "?token=" + url.QueryEscape(token)
}
