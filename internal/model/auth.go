package model

import (
	"strings"
	"time"

	"github.com/deppfellow/income-api/internal/validation"
)

// MaxPasswordBytes is bcrypt's input limit. The max=72 tag counts runes,
// so multi-byte passwords are checked separately.
const MaxPasswordBytes = 72

type RegisterPayload struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (p *RegisterPayload) Validate() error {
	p.Email = normalizeEmail(p.Email)
	p.Name = strings.TrimSpace(p.Name)
	if err := validate.Struct(p); err != nil {
		return err
	}
	return checkPasswordBytes(p.Password)
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (p *LoginPayload) Validate() error {
	p.Email = normalizeEmail(p.Email)
	return validate.Struct(p)
}

// LogoutPayload is empty; the token to revoke comes from the auth middleware.
type LogoutPayload struct{}

func (p *LogoutPayload) Validate() error {
	return nil
}

type VerifyEmailPayload struct {
	Token string `query:"token" validate:"required"`
}

func (p *VerifyEmailPayload) Validate() error {
	return validate.Struct(p)
}

// ResendEmailPayload is empty; the user comes from the auth middleware.
type ResendEmailPayload struct{}

func (p *ResendEmailPayload) Validate() error {
	return nil
}

type ForgotPasswordPayload struct {
	Email string `json:"email" validate:"required,email"`
}

func (p *ForgotPasswordPayload) Validate() error {
	p.Email = normalizeEmail(p.Email)
	return validate.Struct(p)
}

type ResetPasswordPayload struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (p *ResetPasswordPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	return checkPasswordBytes(p.Password)
}

func checkPasswordBytes(password string) error {
	if len(password) > MaxPasswordBytes {
		return validation.CustomValidationErrors{{Field: "password", Message: "must be at most 72 bytes"}}
	}
	return nil
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
