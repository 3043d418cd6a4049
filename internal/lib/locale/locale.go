// Package locale resolves the language used for translated content.
package locale

import (
	"github.com/deppfellow/income-api/internal/config"
	"golang.org/x/text/language"
)

// Resolver matches client preferences against the supported languages.
type Resolver struct {
	matcher language.Matcher
}

// NewResolver builds a matcher whose first tag is the default language, so
// unmatched requests fall back to it.
func NewResolver(cfg *config.LocalizationConfig) *Resolver {
	tags := []language.Tag{language.Make(cfg.DefaultLanguage)}
	for _, code := range cfg.SupportedLanguages {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	return &Resolver{matcher: language.NewMatcher(tags)}
}

// Resolve returns the base language code ("en", "ro") for an explicit
// choice and/or an Accept-Language header. The explicit value wins.
func (r *Resolver) Resolve(explicit, acceptLanguage string) string {
	tag, _ := language.MatchStrings(r.matcher, explicit, acceptLanguage)
	base, _ := tag.Base()
	return base.String()
}
