package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/income-api/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of an already converted *Error, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	var raw *pgconn.PgError
	if errors.As(err, &raw) {
		return MapCode(raw.Code)
	}
	return Other
}

// ConvertPgError converts a raw pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// violation describes how one constraint failure is shown to clients.
type violation struct {
	suffix   string
	override bool
	message  func(e *Error) string
}

var violations = map[Code]violation{
	ForeignKeyViolation: {
		suffix: "NOT_FOUND",
		message: func(e *Error) string {
			return fmt.Sprintf("The referenced %s does not exist", entityName(e.TableName, e.ColumnName))
		},
	},
	UniqueViolation: {
		suffix:   "ALREADY_EXISTS",
		override: true,
		message: func(e *Error) string {
			what := "identifier"
			if column := uniqueColumn(e.ConstraintName); column != "" {
				what = strings.ToLower(humanize(column))
			}
			return fmt.Sprintf("A %s with this %s already exists", entityName(e.TableName, e.ColumnName), what)
		},
	},
	NotNullViolation: {
		suffix:   "REQUIRED",
		override: true,
		message: func(e *Error) string {
			return fmt.Sprintf("The %s is required", orDefault(humanize(e.ColumnName), "field"))
		},
	},
	CheckViolation: {
		suffix:   "INVALID",
		override: true,
		message: func(e *Error) string {
			if field := humanize(e.ColumnName); field != "" {
				return fmt.Sprintf("The %s value does not meet required conditions", field)
			}
			return "One or more values do not meet required conditions"
		},
	},
}

// errorCode builds "<DOMAIN>_<SUFFIX>" codes such as USER_ALREADY_EXISTS.
func errorCode(table, suffix string) string {
	return orDefault(strings.ToUpper(singular(table)), "RECORD") + "_" + suffix
}

// singular handles the table names of this schema: incomes -> income,
// income_categories -> income_category, users -> user.
func singular(name string) string {
	switch {
	case len(name) > 3 && strings.HasSuffix(name, "ies"):
		return strings.TrimSuffix(name, "ies") + "y"
	case len(name) > 1 && strings.HasSuffix(name, "s"):
		return strings.TrimSuffix(name, "s")
	}
	return name
}

// entityName prefers a foreign key column ("user_id" -> "User"), then the
// table, then "record".
func entityName(table, column string) string {
	column = strings.ToLower(column)
	if strings.HasSuffix(column, "_id") {
		return humanize(strings.TrimSuffix(column, "_id"))
	}
	if table != "" {
		return humanize(singular(table))
	}
	return "record"
}

func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

var keyConstraint = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// uniqueColumn infers the column from "unique_<table>_<column>" or
// "<table>_<column>_key" constraint names.
func uniqueColumn(constraint string) string {
	if strings.HasPrefix(constraint, "unique_") {
		if parts := strings.Split(constraint, "_"); len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}
	if m := keyConstraint.FindStringSubmatch(constraint); len(m) > 1 {
		return m[1]
	}
	return ""
}

// HandleError converts a low-level database error into an *errs.HTTPError.
// HTTP errors pass through; constraint violations become 400s; ErrNoRows
// becomes a 404 naming the table when the message carries "table:<name>:".
// Everything else is a 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		v, ok := violations[sqlErr.Code]
		if !ok {
			return errs.NewInternalServerError()
		}

		code := errorCode(sqlErr.TableName, v.suffix)
		var fields []errs.FieldError
		if sqlErr.Code == NotNullViolation {
			fields = []errs.FieldError{{Field: strings.ToLower(sqlErr.ColumnName), Error: "is required"}}
		}
		return errs.NewBadRequestError(v.message(sqlErr), v.override, &code, fields, nil)
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		const prefix = "table:"
		msg := err.Error()
		if _, rest, found := strings.Cut(msg, prefix); found {
			table, _, _ := strings.Cut(rest, ":")
			return errs.NewNotFoundError(entityName(table, "")+" not found", true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
