package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/income-api/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupIncomeRoutes(userID int64) (*echo.Echo, *mockIncomeService) {
	s := newTestServer()
	svc := new(mockIncomeService)
	h := NewIncomeHandler(s, svc)

	e := newTestEcho(s)
	g := e.Group("/incomes", authenticated(userID))
	g.GET("", Handle(h.Handler, h.Index, Payload[model.GetIncomesPayload]))
	g.POST("", Handle(h.Handler, h.Form, Payload[model.IncomeFormPayload]))
	g.GET("/export", HandleFile(h.Handler, h.Export, http.StatusOK, Payload[model.ExportIncomesPayload], "incomes.csv", "text/csv"))

	return e, svc
}

func aliceSalary() *model.Income {
	received := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Income{
		ID:           12,
		User:         model.IncomeOwner{ID: testUserID, Name: "Alice"},
		Currency:     model.Currency{ID: 1, Code: "USD", Symbol: "$", Name: "US Dollar"},
		Amount:       decimal.NewFromInt(100),
		DateReceived: received,
		Description:  "March salary",
		CreatedAt:    received.Add(2 * time.Hour),
		Categories:   []model.IncomeCategory{{ID: 1, Symbol: "SAL"}},
	}
}

func TestIncomeIndex_Details(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)
	svc.On("Details", mock.Anything, testUserID, int64(12)).Return(aliceSalary(), nil)

	rec := serve(e, http.MethodGet, "/incomes?id=12", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":100`)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Alice", body.Data["username"])
	assert.Equal(t, "$", body.Data["currencySymbol"])
	assert.Equal(t, float64(100), body.Data["amount"])
	assert.Equal(t, "2024-03-01", body.Data["date_received"])
	assert.Equal(t, "March salary", body.Data["description"])
	assert.Equal(t, "2024-03-01T02:00:00Z", body.Data["date_creation"])
	assert.Equal(t, []any{"SAL"}, body.Data["categorySymbols"])
}

func TestIncomeIndex_DetailsWithoutCategories(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)
	income := aliceSalary()
	income.Categories = nil
	svc.On("Details", mock.Anything, testUserID, int64(12)).Return(income, nil)

	rec := serve(e, http.MethodGet, "/incomes?id=12", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decodeEnvelope(t, rec).Data["categorySymbols"])
}

func TestIncomeIndex_DetailsFailure(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		e, svc := setupIncomeRoutes(testUserID)

		rec := serve(e, http.MethodGet, "/incomes?id=abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Details", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		e, svc := setupIncomeRoutes(testUserID)
		svc.On("Details", mock.Anything, testUserID, int64(99)).Return(nil, nil)

		rec := serve(e, http.MethodGet, "/incomes?id=99", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestIncomeIndex_List(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)
	svc.On("List", mock.Anything, mock.MatchedBy(func(f model.IncomeFilter) bool {
		return f.UserID == testUserID &&
			f.Currency == "USD" &&
			f.Category == "SAL" &&
			f.DateFrom != nil && f.DateFrom.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.MinAmount != nil && f.MinAmount.Equal(decimal.NewFromInt(50)) &&
			f.DateTo == nil && f.MaxAmount == nil
	})).Return([]model.Income{*aliceSalary()}, nil)

	rec := serve(e, http.MethodGet, "/incomes?currency=usd&category=sal&date_from=2024-01-01&min_amount=50", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), body.Data["count"])
	svc.AssertExpectations(t)
}

func TestIncomeIndex_ListEmptyAndFailure(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		e, svc := setupIncomeRoutes(testUserID)
		svc.On("List", mock.Anything, mock.Anything).Return([]model.Income{}, nil)

		rec := serve(e, http.MethodGet, "/incomes", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Nil(t, body.Data)
		assert.Equal(t, "An error occurred while trying to load the income list.", body.Message)
	})

	t.Run("failure", func(t *testing.T) {
		e, svc := setupIncomeRoutes(testUserID)
		svc.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		rec := serve(e, http.MethodGet, "/incomes", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestIncomeIndex_Unauthenticated(t *testing.T) {
	e, svc := setupIncomeRoutes(0)

	rec := serve(e, http.MethodGet, "/incomes?id=12", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Details", mock.Anything, mock.Anything, mock.Anything)
}

func TestIncomeForm_Create(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)
	svc.On("Create", mock.Anything, testUserID, mock.MatchedBy(func(p *model.IncomeFormPayload) bool {
		return p.CurrencyID == 1 &&
			p.Amount.Equal(decimal.RequireFromString("1250.50")) &&
			assert.ObjectsAreEqual([]string{"SAL", "BONUS"}, p.CategorySymbols)
	})).Return(int64(21), nil)

	rec := serve(e, http.MethodPost, "/incomes",
		`{"currency_id":1,"amount":"1250.50","date_received":"2024-03-01","category_symbols":["sal","bonus"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"id": float64(21)}, decodeEnvelope(t, rec).Data)
}

func TestIncomeForm_CreateFailure(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)
	svc.On("Create", mock.Anything, testUserID, mock.Anything).Return(int64(0), errors.New("unknown category"))

	rec := serve(e, http.MethodPost, "/incomes", `{"currency_id":1,"amount":10,"date_received":"2024-03-01"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIncomeForm_UpdateNotImplemented(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)

	rec := serve(e, http.MethodPost, "/incomes", `{"id":12}`)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "Updating an income is not supported.", decodeEnvelope(t, rec).Message)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestIncomeForm_InvalidAmount(t *testing.T) {
	for _, amount := range []string{`0`, `-5`, `"10.123"`} {
		t.Run(amount, func(t *testing.T) {
			e, svc := setupIncomeRoutes(testUserID)

			rec := serve(e, http.MethodPost, "/incomes",
				`{"currency_id":1,"amount":`+amount+`,"date_received":"2024-03-01"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestIncomeExport(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)
	svc.On("List", mock.Anything, mock.Anything).Return([]model.Income{*aliceSalary()}, nil)

	rec := serve(e, http.MethodGet, "/incomes/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "attachment; filename=incomes.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"id,date_received,amount,currency,description,categories\n"+
			"12,2024-03-01,100.00,USD,March salary,SAL\n",
		rec.Body.String())
}

func TestIncomeExport_ValidatesFiltersDespiteID(t *testing.T) {
	e, svc := setupIncomeRoutes(testUserID)

	rec := serve(e, http.MethodGet, "/incomes/export?id=1&min_amount=abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
