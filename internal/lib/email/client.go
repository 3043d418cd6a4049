// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders
// HTML bodies from templates embedded in the binary.
package email

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Client wraps the Resend client and a logger.
type Client struct {
	// send delivers a prepared request; it is the Resend API in production.
	send func(ctx context.Context, params *resend.SendEmailRequest) error

	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client.
//
// It initializes a Resend client with the API key from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	client := resend.NewClient(cfg.Integration.ResendAPIKey)

	return &Client{
		send: func(ctx context.Context, params *resend.SendEmailRequest) error {
			_, err := client.Emails.SendWithContext(ctx, params)
			return err
		},
		from:   cfg.Integration.EmailFrom,
		logger: logger,
	}
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["Subject"] = subject

	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	if err := c.send(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("to", to).
		Msg("email sent")

	return nil
}
