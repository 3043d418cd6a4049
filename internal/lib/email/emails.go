package email

import (
	"context"
	"strconv"
	"time"
)

// SendVerificationEmail asks a newly registered user to confirm their address.
func (c *Client) SendVerificationEmail(ctx context.Context, to, userName, actionURL string, expiresIn time.Duration) error {
	return c.SendEmail(ctx, to, "Verify your email address", TemplateVerifyEmail, map[string]any{
		"UserName":  userName,
		"ActionURL": actionURL,
		"ExpiresIn": humanDuration(expiresIn),
	})
}

// SendPasswordResetEmail delivers a single-use password reset link.
func (c *Client) SendPasswordResetEmail(ctx context.Context, to, userName, actionURL string, expiresIn time.Duration) error {
	return c.SendEmail(ctx, to, "Reset your password", TemplatePasswordReset, map[string]any{
		"UserName":  userName,
		"ActionURL": actionURL,
		"ExpiresIn": humanDuration(expiresIn),
	})
}

// humanDuration renders whole hours or minutes, e.g. "48 hours", "15 minutes".
func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
