package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"translatable/internal/domain"
	"translatable/internal/domain/entities"
	"translatable/internal/ports/output"
)

var _ output.TranslationStore = (*TranslationRepository)(nil)

const uniqueViolation = "23505"

// TranslationRepository implements output.TranslationStore on PostgreSQL.
// Upserts rely on the (owner_type, owner_id, attribute_key, locale_code)
// unique constraint.
type TranslationRepository struct {
	q *Queries
}

func NewTranslationRepository(q *Queries) *TranslationRepository {
	return &TranslationRepository{q: q}
}

func keyParams(key entities.TranslationKey) TranslationKeyParams {
	return TranslationKeyParams{
		OwnerType:    key.Owner.Type,
		OwnerID:      key.Owner.ID,
		AttributeKey: key.Attribute,
		LocaleCode:   key.Locale,
	}
}

func (r *TranslationRepository) Find(ctx context.Context, key entities.TranslationKey) (string, bool, error) {
	value, err := r.q.FindTranslation(ctx, keyParams(key))
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeError("find translation", err)
	}
	return value, true, nil
}

func (r *TranslationRepository) Upsert(ctx context.Context, key entities.TranslationKey, value string) error {
	if err := r.q.UpsertTranslation(ctx, keyParams(key), value); err != nil {
		return storeError("upsert translation", err)
	}
	return nil
}

func (r *TranslationRepository) Delete(ctx context.Context, key entities.TranslationKey) error {
	if err := r.q.DeleteTranslation(ctx, keyParams(key)); err != nil {
		return storeError("delete translation", err)
	}
	return nil
}

func (r *TranslationRepository) DeleteByLocale(ctx context.Context, owner entities.Ref, locale string) error {
	err := r.q.DeleteTranslationsByLocale(ctx, OwnerLocaleParams{
		OwnerID:    owner.ID,
		OwnerType:  owner.Type,
		LocaleCode: locale,
	})
	if err != nil {
		return storeError("delete translations by locale", err)
	}
	return nil
}

func (r *TranslationRepository) ListLocales(ctx context.Context, owner entities.Ref) ([]string, error) {
	locales, err := r.q.ListTranslationLocales(ctx, owner.ID, owner.Type)
	if err != nil {
		return nil, storeError("list locales", err)
	}
	return locales, nil
}

func (r *TranslationRepository) ListForLocale(ctx context.Context, owner entities.Ref, locale string) (map[string]string, error) {
	rows, err := r.q.ListTranslationsForLocale(ctx, OwnerLocaleParams{
		OwnerID:    owner.ID,
		OwnerType:  owner.Type,
		LocaleCode: locale,
	})
	if err != nil {
		return nil, storeError("list translations", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.AttributeKey] = row.TranslationValue
	}
	return out, nil
}

func (r *TranslationRepository) Count(ctx context.Context, key entities.TranslationKey) (int, error) {
	n, err := r.q.CountTranslations(ctx, keyParams(key))
	if err != nil {
		return 0, storeError("count translations", err)
	}
	return int(n), nil
}

func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrentWrite, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
