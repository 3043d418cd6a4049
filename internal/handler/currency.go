package handler

import (
	"net/http"

	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/response"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
)

type CurrencyHandler struct {
	Handler
	service CurrencyService
}

func NewCurrencyHandler(s *server.Server, service CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

// ListCurrenciesPayload takes no input.
type ListCurrenciesPayload struct{}

func (p *ListCurrenciesPayload) Validate() error {
	return nil
}

func (h *CurrencyHandler) List(c echo.Context, _ *ListCurrenciesPayload) (*response.Envelope, error) {
	env := response.New()

	currencies, err := h.service.List(c.Request().Context())
	if err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to list currencies")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to load the currency list."), nil
	}
	if currencies == nil {
		currencies = []model.Currency{}
	}

	return env.Succeed("Currency list loaded successfully.", map[string]any{
		"count": len(currencies),
		"items": currencies,
	}), nil
}
