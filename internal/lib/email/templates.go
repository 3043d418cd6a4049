package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateVerifyEmail corresponds to templates/verify_email.html
	TemplateVerifyEmail Template = "verify_email"

	// TemplatePasswordReset corresponds to templates/password_reset.html
	TemplatePasswordReset Template = "password_reset"
)

// Templates are compiled into the binary so the worker does not depend on
// its working directory.
//
//go:embed templates/*.html
var templateFS embed.FS

// templates is parsed once; every template shares the layout and the sprig
// function map (default, upper, date, ...).
var templates = template.Must(
	template.New("").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/*.html"),
)

// Render executes the named template with data.
func Render(name Template, data map[string]any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
