package model

import (
	"iter"
	"strings"
	"time"

	"github.com/deppfellow/income-api/internal/validation"
	"github.com/shopspring/decimal"
)

// IncomeOwner is the subset of User exposed on an income.
type IncomeOwner struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Income struct {
	ID           int64            `json:"id"`
	User         IncomeOwner      `json:"user"`
	Currency     Currency         `json:"currency"`
	Amount       decimal.Decimal  `json:"amount"`
	DateReceived time.Time        `json:"date_received"`
	Description  string           `json:"description"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Categories   []IncomeCategory `json:"categories"`
}

// CategorySymbols yields the symbol of every attached category.
func (i *Income) CategorySymbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, category := range i.Categories {
			if !yield(category.Symbol) {
				return
			}
		}
	}
}

// IncomeFilter narrows an income listing. Nil bounds are open.
type IncomeFilter struct {
	UserID    int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Currency  string
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// GetIncomesPayload serves both the details and the list operation.
type GetIncomesPayload struct {
	ID        string `query:"id"`
	DateFrom  string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo    string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Currency  string `query:"currency" validate:"omitempty,len=3,alpha"`
	Category  string `query:"category" validate:"omitempty,max=16"`
	MinAmount string `query:"min_amount" validate:"omitempty,numeric"`
	MaxAmount string `query:"max_amount" validate:"omitempty,numeric"`
}

func (p *GetIncomesPayload) HasID() bool {
	return strings.TrimSpace(p.ID) != ""
}

func (p *GetIncomesPayload) Validate() error {
	if p.HasID() {
		return nil
	}
	return p.validateFilters()
}

func (p *GetIncomesPayload) validateFilters() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	filter := p.Filter(0)
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		problems = append(problems, validation.CustomValidationError{
			Field:   "date_to",
			Message: "must not be before date_from",
		})
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		problems = append(problems, validation.CustomValidationError{
			Field:   "max_amount",
			Message: "must not be less than min_amount",
		})
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

// Filter converts validated query values for the given owner.
func (p *GetIncomesPayload) Filter(userID int64) IncomeFilter {
	filter := IncomeFilter{
		UserID:   userID,
		Currency: strings.ToUpper(p.Currency),
		Category: strings.ToUpper(strings.TrimSpace(p.Category)),
	}
	if t, err := time.Parse(DateLayout, p.DateFrom); err == nil {
		filter.DateFrom = &t
	}
	if t, err := time.Parse(DateLayout, p.DateTo); err == nil {
		filter.DateTo = &t
	}
	if d, err := decimal.NewFromString(p.MinAmount); err == nil {
		filter.MinAmount = &d
	}
	if d, err := decimal.NewFromString(p.MaxAmount); err == nil {
		filter.MaxAmount = &d
	}
	return filter
}

// ExportIncomesPayload takes the list filters only; there is no id to
// short-circuit validation.
type ExportIncomesPayload struct {
	DateFrom  string `query:"date_from"`
	DateTo    string `query:"date_to"`
	Currency  string `query:"currency"`
	Category  string `query:"category"`
	MinAmount string `query:"min_amount"`
	MaxAmount string `query:"max_amount"`
}

func (p *ExportIncomesPayload) asList() *GetIncomesPayload {
	return &GetIncomesPayload{
		DateFrom:  p.DateFrom,
		DateTo:    p.DateTo,
		Currency:  p.Currency,
		Category:  p.Category,
		MinAmount: p.MinAmount,
		MaxAmount: p.MaxAmount,
	}
}

func (p *ExportIncomesPayload) Validate() error {
	return p.asList().validateFilters()
}

func (p *ExportIncomesPayload) Filter(userID int64) IncomeFilter {
	return p.asList().Filter(userID)
}

// IncomeFormPayload records an income for the authenticated user.
type IncomeFormPayload struct {
	ID              int64           `json:"id" validate:"omitempty,gt=0"`
	CurrencyID      int64           `json:"currency_id" validate:"required,gt=0"`
	Amount          decimal.Decimal `json:"amount"`
	DateReceived    string          `json:"date_received" validate:"required,datetime=2006-01-02"`
	Description     string          `json:"description" validate:"max=500"`
	CategorySymbols []string        `json:"category_symbols" validate:"omitempty,unique,dive,required,max=16"`
}

// Validate skips the field rules when an id is present; updates are
// refused further up regardless of the body.
func (p *IncomeFormPayload) Validate() error {
	if p.ID > 0 {
		return nil
	}

	for i, symbol := range p.CategorySymbols {
		p.CategorySymbols[i] = strings.ToUpper(strings.TrimSpace(symbol))
	}

	if err := validate.Struct(p); err != nil {
		return err
	}

	if !p.Amount.IsPositive() {
		return validation.CustomValidationErrors{{Field: "amount", Message: "must be greater than 0"}}
	}
	if p.Amount.Exponent() < -2 && !p.Amount.Equal(p.Amount.Round(2)) {
		return validation.CustomValidationErrors{{Field: "amount", Message: "must have at most 2 decimal places"}}
	}
	return nil
}

func (p *IncomeFormPayload) HasID() bool {
	return p.ID != 0
}

// IsEmpty reports whether no field was supplied at all.
func (p *IncomeFormPayload) IsEmpty() bool {
	return p == nil || (p.ID == 0 &&
		p.CurrencyID == 0 &&
		p.Amount.IsZero() &&
		p.DateReceived == "" &&
		p.Description == "" &&
		len(p.CategorySymbols) == 0)
}

// ReceivedOn returns the parsed date_received; the payload must be validated.
func (p *IncomeFormPayload) ReceivedOn() time.Time {
	t, _ := time.Parse(DateLayout, p.DateReceived)
	return t
}
