package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func fieldName(err validator.FieldError) string {
	return strings.ToLower(err.Field())
}

// fieldMessage converts a validator tag failure into a user-friendly message.
func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		// strings: minimum length, numbers: minimum value
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())

	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "email":
		return "must be a valid email address"

	case "numeric":
		return "must be numeric"

	case "alpha":
		return "must contain only letters"

	case "datetime":
		return fmt.Sprintf("must be a date in the format %s", err.Param())

	case "bcp47_language_tag":
		return "must be a valid language tag"

	case "symbol":
		return "must contain only uppercase letters, digits and underscores"

	case "unique":
		return "must not contain duplicates"

	case "url":
		return "must be a valid URL"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", fieldName(err), err.Tag(), err.Param())
		}
		return fmt.Sprintf("%s: %s", fieldName(err), err.Tag())
	}
}
