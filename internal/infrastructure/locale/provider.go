// Package locale supplies the active and fallback locales to the overlay.
// The active locale is pinned per request on a context.Context.
//
// Codes are compared and stored verbatim ("pt-br" and "pt-BR" are distinct
// keys); this package only rejects codes that cannot be stored or parsed.
package locale

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"translatable/internal/domain/entities"
	"translatable/internal/ports/output"
)

type contextKey string

func (c contextKey) String() string {
	return "translatable/locale/" + string(c)
}

const ctxKeyLocale = contextKey("active")

// ToContext pins code as the active locale of ctx.
func ToContext(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, strings.TrimSpace(code))
}

// FromContext returns the locale pinned on ctx. Missing or invalid values
// report false.
func FromContext(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(ctxKeyLocale).(string)
	if !ok || !Valid(code) {
		return "", false
	}
	return code, true
}

// Valid reports whether code fits a locale_code column and parses as a
// BCP 47 tag.
func Valid(code string) bool {
	if !entities.ValidLocale(code) {
		return false
	}
	_, err := language.Parse(strings.TrimSpace(code))
	return err == nil
}

var _ output.LocaleProvider = (*Provider)(nil)

// Provider reads the active locale from the context and falls back to a
// configured default when none is pinned.
type Provider struct {
	fallback string
	current  string
}

// NewProvider builds a Provider. An invalid fallback becomes "en" and an
// invalid default current locale becomes the fallback.
func NewProvider(fallback, defaultCurrent string) *Provider {
	fb := strings.TrimSpace(fallback)
	if !Valid(fb) {
		fb = language.English.String()
	}
	cur := strings.TrimSpace(defaultCurrent)
	if !Valid(cur) {
		cur = fb
	}
	return &Provider{fallback: fb, current: cur}
}

func (p *Provider) CurrentLocale(ctx context.Context) string {
	if code, ok := FromContext(ctx); ok {
		return code
	}
	return p.current
}

func (p *Provider) FallbackLocale() string {
	return p.fallback
}
