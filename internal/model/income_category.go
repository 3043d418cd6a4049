package model

import (
	"strings"
	"time"
)

// IncomeCategoryTranslation is the localized text of a category.
type IncomeCategoryTranslation struct {
	Language    string `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type IncomeCategory struct {
	ID          int64                     `json:"id"`
	Symbol      string                    `json:"symbol"`
	Translation IncomeCategoryTranslation `json:"translation"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// IncomeCategoryFilter narrows a category listing.
type IncomeCategoryFilter struct {
	// Symbol is matched as a prefix.
	Symbol   string
	Language string
}

// GetIncomeCategoriesPayload serves both the details and the list
// operation: a non-empty ID selects details and the filters are ignored.
type GetIncomeCategoriesPayload struct {
	ID     string `query:"id"`
	Symbol string `query:"symbol" validate:"omitempty,max=16"`
	Lang   string `query:"lang" validate:"omitempty,bcp47_language_tag"`
}

func (p *GetIncomeCategoriesPayload) HasID() bool {
	return strings.TrimSpace(p.ID) != ""
}

func (p *GetIncomeCategoriesPayload) Validate() error {
	if p.HasID() {
		return nil
	}
	return validate.Struct(p)
}

func (p *GetIncomeCategoriesPayload) Filter() IncomeCategoryFilter {
	return IncomeCategoryFilter{
		Symbol:   strings.ToUpper(strings.TrimSpace(p.Symbol)),
		Language: p.Lang,
	}
}

// IncomeCategoryFormPayload creates a category (POST without id) or
// updates one (PUT with id).
type IncomeCategoryFormPayload struct {
	ID          int64  `json:"id" query:"id" validate:"omitempty,gt=0"`
	Symbol      string `json:"symbol" query:"symbol" validate:"required,max=16,symbol"`
	Name        string `json:"name" query:"name" validate:"required,max=100"`
	Description string `json:"description" query:"description" validate:"max=500"`
	Lang        string `json:"lang" query:"lang" validate:"omitempty,bcp47_language_tag"`
}

func (p *IncomeCategoryFormPayload) Validate() error {
	p.Symbol = strings.TrimSpace(p.Symbol)
	p.Name = strings.TrimSpace(p.Name)
	return validate.Struct(p)
}

func (p *IncomeCategoryFormPayload) HasID() bool {
	return p.ID != 0
}

// IsEmpty reports whether no field was supplied at all.
func (p *IncomeCategoryFormPayload) IsEmpty() bool {
	return p == nil || *p == IncomeCategoryFormPayload{}
}

// DeleteIncomeCategoryPayload accepts the id from the query string or body.
type DeleteIncomeCategoryPayload struct {
	ID string `json:"id" query:"id" validate:"required,numeric"`
}

func (p *DeleteIncomeCategoryPayload) Validate() error {
	return validate.Struct(p)
}
