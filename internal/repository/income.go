package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrUnknownCategory is returned when an income references a category
// symbol that does not exist.
var ErrUnknownCategory = errors.New("unknown income category")

type IncomeRepository struct {
	server *server.Server
}

func NewIncomeRepository(s *server.Server) *IncomeRepository {
	return &IncomeRepository{server: s}
}

// Amounts travel as text so numeric precision survives the round trip.
const incomeSelect = `
	SELECT
		i.id,
		u.id,
		u.name,
		cur.id,
		TRIM(cur.code),
		cur.symbol,
		cur.name,
		i.amount::text,
		i.date_received,
		i.description,
		i.created_at,
		i.updated_at
	FROM incomes i
	JOIN users u ON u.id = i.user_id
	JOIN currencies cur ON cur.id = i.currency_id
`

func scanIncome(row pgx.CollectableRow) (model.Income, error) {
	var (
		income model.Income
		amount string
	)
	err := row.Scan(
		&income.ID,
		&income.User.ID,
		&income.User.Name,
		&income.Currency.ID,
		&income.Currency.Code,
		&income.Currency.Symbol,
		&income.Currency.Name,
		&amount,
		&income.DateReceived,
		&income.Description,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		return income, err
	}

	income.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return income, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	income.Categories = []model.IncomeCategory{}
	return income, nil
}

// GetByID returns an income owned by userID.
func (r *IncomeRepository) GetByID(ctx context.Context, userID, id int64) (*model.Income, error) {
	stmt := incomeSelect + `WHERE i.id = @id AND i.user_id = @user_id`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":      id,
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get income query for id=%d: %w", id, err)
	}

	income, err := pgx.CollectExactlyOneRow(rows, scanIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to collect income id=%d: %w", id, err)
	}

	incomes := []model.Income{income}
	if err := r.attachCategories(ctx, incomes); err != nil {
		return nil, err
	}

	return &incomes[0], nil
}

// List returns the user's incomes matching filter, newest first.
// Nil bounds in filter are passed as NULL and disable the condition.
func (r *IncomeRepository) List(ctx context.Context, filter model.IncomeFilter) ([]model.Income, error) {
	stmt := incomeSelect + `
	WHERE i.user_id = @user_id
		AND (@date_from::date IS NULL OR i.date_received >= @date_from::date)
		AND (@date_to::date IS NULL OR i.date_received <= @date_to::date)
		AND (@currency = '' OR cur.code = @currency)
		AND (@min_amount::numeric IS NULL OR i.amount >= @min_amount::numeric)
		AND (@max_amount::numeric IS NULL OR i.amount <= @max_amount::numeric)
		AND (@category = '' OR EXISTS (
			SELECT 1
			FROM income_income_category iic
			JOIN income_categories c ON c.id = iic.income_category_id
			WHERE iic.income_id = i.id AND c.symbol = @category
		))
	ORDER BY i.date_received DESC, i.id DESC`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"user_id":    filter.UserID,
		"date_from":  dateArg(filter.DateFrom),
		"date_to":    dateArg(filter.DateTo),
		"currency":   filter.Currency,
		"category":   filter.Category,
		"min_amount": decimalArg(filter.MinAmount),
		"max_amount": decimalArg(filter.MaxAmount),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list incomes query: %w", err)
	}

	incomes, err := pgx.CollectRows(rows, scanIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to collect incomes: %w", err)
	}

	if err := r.attachCategories(ctx, incomes); err != nil {
		return nil, err
	}

	return incomes, nil
}

// attachCategories loads the categories of every income in one query.
func (r *IncomeRepository) attachCategories(ctx context.Context, incomes []model.Income) error {
	if len(incomes) == 0 {
		return nil
	}

	ids := make([]int64, len(incomes))
	byID := make(map[int64]*model.Income, len(incomes))
	for i := range incomes {
		ids[i] = incomes[i].ID
		byID[incomes[i].ID] = &incomes[i]
	}

	rows, err := r.server.DB.Pool.Query(ctx, `
		SELECT iic.income_id, c.id, c.symbol, c.created_at, c.updated_at
		FROM income_income_category iic
		JOIN income_categories c ON c.id = iic.income_category_id
		WHERE iic.income_id = ANY(@ids)
		ORDER BY c.symbol
	`, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("failed to execute income categories query: %w", err)
	}

	var incomeID int64
	var category model.IncomeCategory
	_, err = pgx.ForEachRow(rows, []any{&incomeID, &category.ID, &category.Symbol, &category.CreatedAt, &category.UpdatedAt}, func() error {
		if income, ok := byID[incomeID]; ok {
			income.Categories = append(income.Categories, category)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to collect income categories: %w", err)
	}

	return nil
}

// Create inserts the income and its category links in one transaction.
func (r *IncomeRepository) Create(ctx context.Context, userID int64, payload *model.IncomeFormPayload) (int64, error) {
	var id int64

	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO incomes (user_id, currency_id, amount, date_received, description)
			VALUES (@user_id, @currency_id, @amount::numeric, @date_received, @description)
			RETURNING id
		`, pgx.NamedArgs{
			"user_id":       userID,
			"currency_id":   payload.CurrencyID,
			"amount":        payload.Amount.String(),
			"date_received": payload.ReceivedOn(),
			"description":   payload.Description,
		}).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert income: %w", err)
		}

		if len(payload.CategorySymbols) == 0 {
			return nil
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO income_income_category (income_id, income_category_id)
			SELECT @income_id, c.id
			FROM income_categories c
			WHERE c.symbol = ANY(@symbols)
		`, pgx.NamedArgs{
			"income_id": id,
			"symbols":   payload.CategorySymbols,
		})
		if err != nil {
			return fmt.Errorf("failed to link income id=%d to categories: %w", id, err)
		}
		if tag.RowsAffected() != int64(len(payload.CategorySymbols)) {
			return fmt.Errorf("income id=%d with categories %v: %w", id, payload.CategorySymbols, ErrUnknownCategory)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// dateArg keeps only the calendar date of t.
func dateArg(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
