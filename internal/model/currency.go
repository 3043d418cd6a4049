package model

// Currency is a reference row seeded by migrations.
type Currency struct {
	ID     int64  `json:"id" db:"id"`
	Code   string `json:"code" db:"code"`
	Symbol string `json:"symbol" db:"symbol"`
	Name   string `json:"name" db:"name"`
}
