package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/deppfellow/income-api/internal/errs"
	"github.com/deppfellow/income-api/internal/lib/utils"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/response"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
)

type IncomeHandler struct {
	Handler
	service IncomeService
}

func NewIncomeHandler(s *server.Server, service IncomeService) *IncomeHandler {
	return &IncomeHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

// Index returns one income of the current user when an id is given and the
// filtered list otherwise.
func (h *IncomeHandler) Index(c echo.Context, payload *model.GetIncomesPayload) (*response.Envelope, error) {
	userID := middleware.GetAuthUserID(c)
	if userID == 0 {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	if payload.HasID() {
		return h.details(c, userID, payload.ID), nil
	}
	return h.list(c, payload.Filter(userID)), nil
}

func (h *IncomeHandler) list(c echo.Context, filter model.IncomeFilter) *response.Envelope {
	env := response.New()

	incomes, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to list incomes")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to load the income list.")
	}
	// An empty result is a failed load, like a service error.
	if len(incomes) == 0 {
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to load the income list.")
	}

	return env.Succeed("Income list loaded successfully.", map[string]any{
		"count": len(incomes),
		"items": incomes,
	})
}

func (h *IncomeHandler) details(c echo.Context, userID int64, rawID string) *response.Envelope {
	env := response.New()

	id, ok := utils.ParseID(rawID)
	if !ok {
		return env.Fail(http.StatusBadRequest, "Invalid arguments. A numeric income id must be provided.")
	}

	income, err := h.service.Details(c.Request().Context(), userID, id)
	if err != nil || income == nil {
		middleware.GetLogger(c).Error().Err(err).Int64("income_id", id).Msg("failed to load income")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to load the income details.")
	}

	return env.Succeed("Income details loaded successfully.", map[string]any{
		"username":        income.User.Name,
		"currencySymbol":  income.Currency.Symbol,
		"amount":          json.Number(income.Amount.String()),
		"date_received":   income.DateReceived.Format(model.DateLayout),
		"description":     income.Description,
		"date_creation":   income.CreatedAt,
		"categorySymbols": slices.AppendSeq([]string{}, income.CategorySymbols()),
	})
}

// Form records a new income. Updating an existing income is not offered,
// so a payload carrying an id is answered with 501.
func (h *IncomeHandler) Form(c echo.Context, payload *model.IncomeFormPayload) (*response.Envelope, error) {
	userID := middleware.GetAuthUserID(c)
	if userID == 0 {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	if payload.HasID() {
		return response.New().Fail(http.StatusNotImplemented, "Updating an income is not supported."), nil
	}
	return h.create(c, userID, payload), nil
}

func (h *IncomeHandler) create(c echo.Context, userID int64, payload *model.IncomeFormPayload) *response.Envelope {
	env := response.New()

	if payload.IsEmpty() {
		return env.Fail(http.StatusBadRequest, "Invalid arguments. Params must be provided.")
	}

	id, err := h.service.Create(c.Request().Context(), userID, payload)
	if err != nil || id == 0 {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to create income")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to create an income entry.")
	}

	return env.Succeed("Income created successfully.", map[string]any{"id": id})
}

// Export renders the current user's filtered incomes as CSV.
func (h *IncomeHandler) Export(c echo.Context, payload *model.ExportIncomesPayload) ([]byte, error) {
	userID := middleware.GetAuthUserID(c)
	if userID == 0 {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	incomes, err := h.service.List(c.Request().Context(), payload.Filter(userID))
	if err != nil {
		return nil, err
	}

	return incomesCSV(incomes)
}

func incomesCSV(incomes []model.Income) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"id", "date_received", "amount", "currency", "description", "categories"})
	for _, income := range incomes {
		_ = w.Write([]string{
			strconv.FormatInt(income.ID, 10),
			income.DateReceived.Format(model.DateLayout),
			income.Amount.StringFixed(2),
			income.Currency.Code,
			income.Description,
			strings.Join(slices.Collect(income.CategorySymbols()), ";"),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
