package entities

import (
	"strings"
	"time"
)

// MaxLocaleLength bounds locale codes (locale_code is VARCHAR(5)).
const MaxLocaleLength = 5

// TranslationKey is the unique key of a TranslationRecord.
type TranslationKey struct {
	Owner     Ref
	Attribute string
	Locale    string
}

// TranslationRecord is a locale-specific override of one entity attribute.
type TranslationRecord struct {
	ID        int64
	Key       TranslationKey
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidLocale reports whether code can be stored as a locale_code.
func ValidLocale(code string) bool {
	code = strings.TrimSpace(code)
	return code != "" && len(code) <= MaxLocaleLength
}
