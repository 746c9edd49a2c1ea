package domain

import (
	"errors"
	"strings"
)

// Domain errors.
var (
	ErrStoreUnavailable = errors.New("translation store unavailable")
	ErrConcurrentWrite  = errors.New("concurrent write on translation key")
	ErrInvalidLocale    = errors.New("invalid locale code")
	ErrNilEntity        = errors.New("entity is required")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrConcurrentWrite, "concurrent_write"},
	{ErrStoreUnavailable, "store_unavailable"},
	{ErrInvalidLocale, "invalid_locale"},
	{ErrNilEntity, "nil_entity"},
}

// Code returns the stable code of the first domain error wrapped by err, or ""
// when err carries none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// Detail returns the message of err without the text of the domain error it
// wraps, keeping the operation context and causes added around it.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, c := range codes {
		if !errors.Is(err, c.err) {
			continue
		}
		text := c.err.Error()
		for _, pattern := range []string{": " + text, text + ": ", text} {
			if strings.Contains(msg, pattern) {
				msg = strings.Replace(msg, pattern, "", 1)
				break
			}
		}
		break
	}
	return strings.TrimSpace(msg)
}
