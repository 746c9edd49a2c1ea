package output

import "context"

// LocaleProvider supplies the active and fallback locales. The overlay only
// reads from it.
type LocaleProvider interface {
	CurrentLocale(ctx context.Context) string
	FallbackLocale() string
}
