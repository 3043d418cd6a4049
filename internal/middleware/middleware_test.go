package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/income-api/internal/config"
	"github.com/deppfellow/income-api/internal/errs"
	"github.com/deppfellow/income-api/internal/lib/token"
	"github.com/deppfellow/income-api/internal/logger"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	claims *token.Claims
	err    error
	got    string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, tokenString string) (*token.Claims, error) {
	f.got = tokenString
	return f.claims, f.err
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Logger: &logger,
		Config: &config.Config{
			RateLimit: config.RateLimitConfig{
				RequestsPerSecond: 1,
				Burst:             1,
				ExpiresIn:         time.Minute,
			},
		},
	}
}

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func ok(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc.def", "abc.def", true},
		{"Bearer   ", "", false},
		{"Basic dXNlcg==", "", false},
		{"abc.def", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, got)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		auth := &fakeAuthenticator{}
		c, _ := newContext(httptest.NewRequest(http.MethodGet, "/incomes", nil))

		err := NewAuthMiddleware(newTestServer(), auth).RequireAuth(ok)(c)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
		assert.Empty(t, auth.got)
	})

	t.Run("rejected token", func(t *testing.T) {
		auth := &fakeAuthenticator{err: token.ErrInvalidToken}
		req := httptest.NewRequest(http.MethodGet, "/incomes", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer bad")
		c, _ := newContext(req)

		err := NewAuthMiddleware(newTestServer(), auth).RequireAuth(ok)(c)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
		assert.Equal(t, "bad", auth.got)
	})

	t.Run("valid token", func(t *testing.T) {
		claims := &token.Claims{UserID: 7, Purpose: token.PurposeAccess}
		auth := &fakeAuthenticator{claims: claims}
		req := httptest.NewRequest(http.MethodGet, "/incomes", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		c, rec := newContext(req)

		require.NoError(t, NewAuthMiddleware(newTestServer(), auth).RequireAuth(ok)(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "7", GetUserID(c))
		assert.Equal(t, int64(7), GetAuthUserID(c))
		assert.Same(t, claims, GetClaims(c))
		assert.Same(t, GetLogger(c), logger.FromContext(c.Request().Context()))
	})
}

func TestGetAuthUserID_Unauthenticated(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, GetClaims(c))
	assert.Zero(t, GetAuthUserID(c))
	assert.NotNil(t, GetLogger(c))
}

func TestRequestID(t *testing.T) {
	t.Run("generated", func(t *testing.T) {
		c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

		require.NoError(t, RequestID()(ok)(c))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, GetRequestID(c))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		c, rec := newContext(req)

		require.NoError(t, RequestID()(ok)(c))

		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", GetRequestID(c))
	})
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error", errs.NewBadRequestError("Invalid request payload", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown route", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrong method", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"echo rate limit", echo.ErrTooManyRequests, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	global := NewGlobalMiddlewares(newTestServer())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.code, body.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body.Message, "boom")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer()
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(srv).GlobalErrorHandler
	e.POST("/auth/login", ok, NewRateLimitMiddleware(srv).Limit())

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call().Code)

	rec := call()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Code)
}

func TestMetrics(t *testing.T) {
	m := NewMetricsMiddleware(config.MetricsNamespace)

	failing := func(c echo.Context) error {
		return errs.NewBadRequestError("bad", false, nil, nil, nil)
	}

	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/incomes", nil))
	c.SetPath("/incomes")
	require.Error(t, m.Collect()(failing)(c))

	c, _ = newContext(httptest.NewRequest(http.MethodGet, "/incomes", nil))
	c.SetPath("/incomes")
	require.NoError(t, m.Collect()(ok)(c))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/incomes", http.MethodGet, "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/incomes", http.MethodGet, "200")))

	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, m.Handler()(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "income_api_http_requests_total")
}
