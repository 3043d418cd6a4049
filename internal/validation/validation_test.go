package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/income-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"min=18"`
}

func (p *signupPayload) Validate() error {
	return validator.New().Struct(p)
}

type customPayload struct {
	fail bool
}

func (p *customPayload) Validate() error {
	if p.fail {
		return CustomValidationErrors{{Field: "date_to", Message: "must not be before date_from"}}
	}
	return nil
}

func newContext(method, body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateSuccess(t *testing.T) {
	payload := &signupPayload{}
	err := BindAndValidate(newContext(http.MethodPost, `{"email":"a@b.co","age":20}`), payload)

	require.NoError(t, err)
	assert.Equal(t, "a@b.co", payload.Email)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodPost, `{"email":`), &signupPayload{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.False(t, httpErr.Override)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodPost, `{"email":"nope","age":3}`), &signupPayload{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "email", Error: "must be a valid email address"},
		{Field: "age", Error: "must be at least 18"},
	}, httpErr.Errors)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodPost, `{}`), &customPayload{fail: true})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, []errs.FieldError{{Field: "date_to", Error: "must not be before date_from"}}, httpErr.Errors)
}

func TestExtractValidationErrorPlainError(t *testing.T) {
	msg, fieldErrors := extractValidationError(errors.New("bad payload"))

	assert.Equal(t, "bad payload", msg)
	assert.NotNil(t, fieldErrors)
	assert.Empty(t, fieldErrors)
}
