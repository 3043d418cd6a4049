package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/income-api/internal/config"
	"github.com/deppfellow/income-api/internal/lib/locale"
	"github.com/deppfellow/income-api/internal/lib/token"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 9

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Localization: config.LocalizationConfig{
				DefaultLanguage:    "en",
				SupportedLanguages: []string{"en", "fr"},
			},
		},
		Logger: &logger,
	}
}

func newTestResolver(s *server.Server) *locale.Resolver {
	return locale.NewResolver(&s.Config.Localization)
}

// newTestEcho returns an echo instance with the production error handler.
func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

// authenticated stands in for RequireAuth.
func authenticated(userID int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ClaimsKey, &token.Claims{UserID: userID, Purpose: token.PurposeAccess})
			return next(c)
		}
	}
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelopeBody struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()

	var body envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type mockIncomeCategoryService struct{ mock.Mock }

func (m *mockIncomeCategoryService) Details(ctx context.Context, id int64, lang string) (*model.IncomeCategory, error) {
	args := m.Called(ctx, id, lang)
	category, _ := args.Get(0).(*model.IncomeCategory)
	return category, args.Error(1)
}

func (m *mockIncomeCategoryService) List(ctx context.Context, filter model.IncomeCategoryFilter) ([]model.IncomeCategory, error) {
	args := m.Called(ctx, filter)
	categories, _ := args.Get(0).([]model.IncomeCategory)
	return categories, args.Error(1)
}

func (m *mockIncomeCategoryService) Create(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockIncomeCategoryService) Update(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockIncomeCategoryService) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockIncomeService struct{ mock.Mock }

func (m *mockIncomeService) Details(ctx context.Context, userID, id int64) (*model.Income, error) {
	args := m.Called(ctx, userID, id)
	income, _ := args.Get(0).(*model.Income)
	return income, args.Error(1)
}

func (m *mockIncomeService) List(ctx context.Context, filter model.IncomeFilter) ([]model.Income, error) {
	args := m.Called(ctx, filter)
	incomes, _ := args.Get(0).([]model.Income)
	return incomes, args.Error(1)
}

func (m *mockIncomeService) Create(ctx context.Context, userID int64, payload *model.IncomeFormPayload) (int64, error) {
	args := m.Called(ctx, userID, payload)
	return args.Get(0).(int64), args.Error(1)
}

type mockCurrencyService struct{ mock.Mock }

func (m *mockCurrencyService) List(ctx context.Context) ([]model.Currency, error) {
	args := m.Called(ctx)
	currencies, _ := args.Get(0).([]model.Currency)
	return currencies, args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, payload *model.RegisterPayload) (*model.User, error) {
	args := m.Called(ctx, payload)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, payload *model.LoginPayload) (*model.LoginResult, error) {
	args := m.Called(ctx, payload)
	result, _ := args.Get(0).(*model.LoginResult)
	return result, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, claims *token.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, tokenString string) error {
	return m.Called(ctx, tokenString).Error(0)
}

func (m *mockAuthService) ResendEmail(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, payload *model.ResetPasswordPayload) error {
	return m.Called(ctx, payload).Error(0)
}
