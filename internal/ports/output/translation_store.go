package output

import (
	"context"

	"translatable/internal/domain/entities"
)

// TranslationStore persists TranslationRecords keyed by
// (owner type, owner id, attribute, locale). Implementations must keep at most
// one record per key and make Upsert atomic for that key.
type TranslationStore interface {
	// Find returns the stored value and true, or "" and false when no record exists.
	Find(ctx context.Context, key entities.TranslationKey) (string, bool, error)
	Upsert(ctx context.Context, key entities.TranslationKey, value string) error
	Delete(ctx context.Context, key entities.TranslationKey) error
	DeleteByLocale(ctx context.Context, owner entities.Ref, locale string) error
	ListLocales(ctx context.Context, owner entities.Ref) ([]string, error)
	ListForLocale(ctx context.Context, owner entities.Ref, locale string) (map[string]string, error)
	Count(ctx context.Context, key entities.TranslationKey) (int, error)
}
