package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/income-api/internal/errs"
	"github.com/deppfellow/income-api/internal/lib/token"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/deppfellow/income-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the account persistence used by AuthService.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	MarkEmailVerified(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// RevocationStore remembers tokens that must no longer be accepted.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Claim atomically revokes tokenID unless it already is, reporting
	// whether the caller won.
	Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, tokenID string) error
}

// EmailEnqueuer schedules transactional emails on the job queue.
type EmailEnqueuer interface {
	EnqueueVerificationEmail(ctx context.Context, to, userName, token string) error
	EnqueuePasswordResetEmail(ctx context.Context, to, userName, token string) error
}

var (
	invalidTokenCode         = "INVALID_TOKEN"
	emailAlreadyVerifiedCode = "EMAIL_ALREADY_VERIFIED"
)

type AuthService struct {
	users   UserStore
	revoked RevocationStore
	emails  EmailEnqueuer
	tokens  *token.Manager
	logger  *zerolog.Logger
	now     func() time.Time
}

func NewAuthService(s *server.Server, users UserStore, revoked RevocationStore, emails EmailEnqueuer) *AuthService {
	return &AuthService{
		users:   users,
		revoked: revoked,
		emails:  emails,
		tokens:  token.NewManager(&s.Config.Auth),
		logger:  s.Logger,
		now:     time.Now,
	}
}

// Register creates the account and queues the verification email. A
// failure to queue is logged only; the user can ask for a resend.
func (s *AuthService) Register(ctx context.Context, payload *model.RegisterPayload) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errs.NewBadRequestError("Password must be at most 72 bytes", true, nil, nil, nil)
		}
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.Create(ctx, payload.Name, payload.Email, string(hash))
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to queue verification email")
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, payload *model.LoginPayload) (*model.LoginResult, error) {
	invalid := errs.NewUnauthorizedError("Invalid email or password", true)

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalid
		}
		return nil, fmt.Errorf("loading user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return nil, invalid
	}

	signed, claims, err := s.tokens.Issue(user.ID, token.PurposeAccess)
	if err != nil {
		return nil, err
	}

	return &model.LoginResult{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
	}, nil
}

// Authenticate verifies an access token and rejects revoked ones. A Redis
// failure rejects the token as well.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Parse(tokenString, token.PurposeAccess)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, token.ErrInvalidToken
	}

	return claims, nil
}

// Logout revokes the access token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	return s.revoked.Revoke(ctx, claims.ID, claims.Remaining(s.now()))
}

func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Parse(tokenString, token.PurposeEmailVerification)
	if err != nil {
		return errs.NewBadRequestError("Invalid or expired verification token", true, &invalidTokenCode, nil, nil)
	}

	if err := s.users.MarkEmailVerified(ctx, claims.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NewBadRequestError("Invalid or expired verification token", true, &invalidTokenCode, nil, nil)
		}
		return sqlerr.HandleError(err)
	}
	return nil
}

func (s *AuthService) ResendEmail(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NewUnauthorizedError("Unauthorized", false)
		}
		return sqlerr.HandleError(err)
	}

	if user.IsVerified() {
		return errs.NewBadRequestError("Email is already verified", true, &emailAlreadyVerifiedCode, nil, nil)
	}

	return s.sendVerification(ctx, user)
}

// RequestPasswordReset queues a reset email. Unknown addresses succeed
// silently so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("loading user for password reset: %w", err)
	}

	signed, _, err := s.tokens.Issue(user.ID, token.PurposePasswordReset)
	if err != nil {
		return err
	}

	return s.emails.EnqueuePasswordResetEmail(ctx, user.Email, user.Name, signed)
}

// ResetPassword sets a new password. Reset tokens are single use: the token
// is claimed before the password changes, so concurrent requests with the
// same token cannot both succeed. The claim is released if the update fails.
func (s *AuthService) ResetPassword(ctx context.Context, payload *model.ResetPasswordPayload) error {
	invalid := errs.NewBadRequestError("Invalid or expired reset token", true, &invalidTokenCode, nil, nil)

	claims, err := s.tokens.Parse(payload.Token, token.PurposePasswordReset)
	if err != nil {
		return invalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return errs.NewBadRequestError("Password must be at most 72 bytes", true, nil, nil, nil)
		}
		return fmt.Errorf("hashing password: %w", err)
	}

	claimed, err := s.revoked.Claim(ctx, claims.ID, claims.Remaining(s.now()))
	if err != nil {
		return fmt.Errorf("claiming reset token: %w", err)
	}
	if !claimed {
		return invalid
	}

	if err := s.users.UpdatePassword(ctx, claims.UserID, string(hash)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invalid
		}
		if releaseErr := s.revoked.Release(ctx, claims.ID); releaseErr != nil {
			s.logger.Error().Err(releaseErr).Msg("failed to release reset token")
		}
		return sqlerr.HandleError(err)
	}
	return nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *model.User) error {
	signed, _, err := s.tokens.Issue(user.ID, token.PurposeEmailVerification)
	if err != nil {
		return err
	}
	return s.emails.EnqueueVerificationEmail(ctx, user.Email, user.Name, signed)
}
