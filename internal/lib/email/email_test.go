package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	body, err := Render(TemplateVerifyEmail, map[string]any{
		"UserName":  "alice",
		"ActionURL": "https://app.example.com/verify?token=abc",
		"ExpiresIn": "48 hours",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Alice,")
	assert.Contains(t, body, `href="https://app.example.com/verify?token=abc"`)
	assert.Contains(t, body, "48 hours")
}

func TestRenderDefaultsName(t *testing.T) {
	body, err := Render(TemplatePasswordReset, map[string]any{"ActionURL": "https://x", "ExpiresIn": "1 hour"})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi There,")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestSendPasswordResetEmail(t *testing.T) {
	logger := zerolog.Nop()
	var sent *resend.SendEmailRequest
	client := &Client{
		from:   "Income API <noreply@example.com>",
		logger: &logger,
		send: func(_ context.Context, params *resend.SendEmailRequest) error {
			sent = params
			return nil
		},
	}

	err := client.SendPasswordResetEmail(context.Background(), "bob@example.com", "Bob", "https://x/reset", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, []string{"bob@example.com"}, sent.To)
	assert.Equal(t, "Reset your password", sent.Subject)
	assert.Equal(t, "Income API <noreply@example.com>", sent.From)
	assert.Contains(t, sent.Html, "1 hour and can be used once")
}

func TestSendEmailProviderFailure(t *testing.T) {
	logger := zerolog.Nop()
	client := &Client{
		logger: &logger,
		send: func(context.Context, *resend.SendEmailRequest) error {
			return errors.New("rate limited")
		},
	}

	err := client.SendVerificationEmail(context.Background(), "a@b.co", "A", "https://x", 48*time.Hour)
	assert.ErrorContains(t, err, "rate limited")
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "48 hours", humanDuration(48*time.Hour))
	assert.Equal(t, "1 hour", humanDuration(time.Hour))
	assert.Equal(t, "90 minutes", humanDuration(90*time.Minute))
	assert.Equal(t, "30 seconds", humanDuration(30*time.Second))
}
