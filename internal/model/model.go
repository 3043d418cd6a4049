// Package model contains the domain entities and the request payloads
// bound and validated by the HTTP layer.
package model

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var symbolRegex = regexp.MustCompile(`^[A-Z0-9_]+$`)

// validate is shared by every payload; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by the name clients send them under.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	_ = v.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		return symbolRegex.MatchString(fl.Field().String())
	})

	return v
}
