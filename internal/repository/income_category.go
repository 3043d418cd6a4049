package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/jackc/pgx/v5"
)

type IncomeCategoryRepository struct {
	server *server.Server
}

func NewIncomeCategoryRepository(s *server.Server) *IncomeCategoryRepository {
	return &IncomeCategoryRepository{server: s}
}

// A category without a translation in the requested language still
// comes back, with an empty translation.
const incomeCategorySelect = `
	SELECT
		c.id,
		c.symbol,
		COALESCE(t.language_code, ''),
		COALESCE(t.name, ''),
		COALESCE(t.description, ''),
		c.created_at,
		c.updated_at
	FROM income_categories c
	LEFT JOIN income_category_translations t
		ON t.income_category_id = c.id AND t.language_code = @lang
`

func scanIncomeCategory(row pgx.CollectableRow) (model.IncomeCategory, error) {
	var c model.IncomeCategory
	err := row.Scan(
		&c.ID,
		&c.Symbol,
		&c.Translation.Language,
		&c.Translation.Name,
		&c.Translation.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *IncomeCategoryRepository) GetByID(ctx context.Context, id int64, lang string) (*model.IncomeCategory, error) {
	stmt := incomeCategorySelect + `WHERE c.id = @id`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":   id,
		"lang": lang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get income category query for id=%d: %w", id, err)
	}

	category, err := pgx.CollectExactlyOneRow(rows, scanIncomeCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to collect income category id=%d: %w", id, err)
	}

	return &category, nil
}

func (r *IncomeCategoryRepository) List(ctx context.Context, filter model.IncomeCategoryFilter) ([]model.IncomeCategory, error) {
	stmt := incomeCategorySelect + `
	WHERE @symbol = '' OR starts_with(c.symbol, @symbol)
	ORDER BY c.symbol`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"symbol": filter.Symbol,
		"lang":   filter.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list income categories query: %w", err)
	}

	categories, err := pgx.CollectRows(rows, scanIncomeCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to collect income categories: %w", err)
	}

	return categories, nil
}

// Create inserts the category and its translation in one transaction.
func (r *IncomeCategoryRepository) Create(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	var id int64

	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO income_categories (symbol)
			VALUES (@symbol)
			RETURNING id
		`, pgx.NamedArgs{"symbol": payload.Symbol}).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert income category %s: %w", payload.Symbol, err)
		}

		return upsertTranslation(ctx, tx, id, payload)
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Update renames the category and upserts the translation for payload.Lang.
func (r *IncomeCategoryRepository) Update(ctx context.Context, payload *model.IncomeCategoryFormPayload) (int64, error) {
	var id int64

	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE income_categories
			SET symbol = @symbol, updated_at = NOW()
			WHERE id = @id
			RETURNING id
		`, pgx.NamedArgs{
			"id":     payload.ID,
			"symbol": payload.Symbol,
		}).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to update income category id=%d: %w", payload.ID, err)
		}

		return upsertTranslation(ctx, tx, id, payload)
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func upsertTranslation(ctx context.Context, tx pgx.Tx, categoryID int64, payload *model.IncomeCategoryFormPayload) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO income_category_translations (income_category_id, language_code, name, description)
		VALUES (@category_id, @lang, @name, @description)
		ON CONFLICT (income_category_id, language_code)
		DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
	`, pgx.NamedArgs{
		"category_id": categoryID,
		"lang":        payload.Lang,
		"name":        payload.Name,
		"description": payload.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to save income category translation id=%d lang=%s: %w", categoryID, payload.Lang, err)
	}
	return nil
}

// Delete reports whether a row was removed. Translations and income links
// cascade.
func (r *IncomeCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.server.DB.Pool.Exec(ctx, `DELETE FROM income_categories WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete income category id=%d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
