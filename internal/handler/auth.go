package handler

import (
	"net/http"

	"github.com/deppfellow/income-api/internal/errs"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/response"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
)

// AuthHandler exposes account endpoints. Failures are *errs.HTTPError
// values returned to the global error handler; successes use the envelope.
type AuthHandler struct {
	Handler
	service AuthService
}

func NewAuthHandler(s *server.Server, service AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

func (h *AuthHandler) Register(c echo.Context, payload *model.RegisterPayload) (*response.Envelope, error) {
	user, err := h.service.Register(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}

	env := response.New().Succeed("Registration successful. Please check your email to verify your account.", user)
	env.Status = http.StatusCreated
	return env, nil
}

func (h *AuthHandler) Login(c echo.Context, payload *model.LoginPayload) (*response.Envelope, error) {
	result, err := h.service.Login(c.Request().Context(), payload)
	if err != nil {
		return nil, err
	}
	return response.New().Succeed("Logged in successfully.", result), nil
}

func (h *AuthHandler) Logout(c echo.Context, _ *model.LogoutPayload) (*response.Envelope, error) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	if err := h.service.Logout(c.Request().Context(), claims); err != nil {
		return nil, err
	}
	return response.New().Succeed("Logged out successfully.", nil), nil
}

func (h *AuthHandler) VerifyEmail(c echo.Context, payload *model.VerifyEmailPayload) (*response.Envelope, error) {
	if err := h.service.VerifyEmail(c.Request().Context(), payload.Token); err != nil {
		return nil, err
	}
	return response.New().Succeed("Email verified successfully.", nil), nil
}

func (h *AuthHandler) ResendEmail(c echo.Context, _ *model.ResendEmailPayload) (*response.Envelope, error) {
	userID := middleware.GetAuthUserID(c)
	if userID == 0 {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	if err := h.service.ResendEmail(c.Request().Context(), userID); err != nil {
		return nil, err
	}
	return response.New().Succeed("Verification email sent.", nil), nil
}

// ForgotPassword answers the same way whether or not the address exists.
func (h *AuthHandler) ForgotPassword(c echo.Context, payload *model.ForgotPasswordPayload) (*response.Envelope, error) {
	if err := h.service.RequestPasswordReset(c.Request().Context(), payload.Email); err != nil {
		return nil, err
	}
	return response.New().Succeed("If an account exists for this email, a password reset link has been sent.", nil), nil
}

func (h *AuthHandler) ResetPassword(c echo.Context, payload *model.ResetPasswordPayload) (*response.Envelope, error) {
	if err := h.service.ResetPassword(c.Request().Context(), payload); err != nil {
		return nil, err
	}
	return response.New().Succeed("Password reset successfully.", nil), nil
}
