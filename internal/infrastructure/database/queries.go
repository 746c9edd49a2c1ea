package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const findTranslation = `
SELECT translation_value FROM translatable_translations
WHERE owner_type = $1 AND owner_id = $2 AND attribute_key = $3 AND locale_code = $4`

const upsertTranslation = `
INSERT INTO translatable_translations (owner_type, owner_id, attribute_key, translation_value, locale_code)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT ON CONSTRAINT translatable_translations_key_unique
DO UPDATE SET translation_value = EXCLUDED.translation_value, updated_at = now()`

const deleteTranslation = `
DELETE FROM translatable_translations
WHERE owner_type = $1 AND owner_id = $2 AND attribute_key = $3 AND locale_code = $4`

const deleteTranslationsByLocale = `
DELETE FROM translatable_translations
WHERE owner_id = $1 AND owner_type = $2 AND locale_code = $3`

const listTranslationLocales = `
SELECT DISTINCT locale_code FROM translatable_translations
WHERE owner_id = $1 AND owner_type = $2`

const listTranslationsForLocale = `
SELECT attribute_key, translation_value FROM translatable_translations
WHERE owner_id = $1 AND owner_type = $2 AND locale_code = $3`

const countTranslations = `
SELECT COUNT(*) FROM translatable_translations
WHERE owner_type = $1 AND owner_id = $2 AND attribute_key = $3 AND locale_code = $4`

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type TranslationKeyParams struct {
	OwnerType    string
	OwnerID      string
	AttributeKey string
	LocaleCode   string
}

type OwnerLocaleParams struct {
	OwnerID    string
	OwnerType  string
	LocaleCode string
}

type AttributeValue struct {
	AttributeKey     string
	TranslationValue string
}

func (q *Queries) FindTranslation(ctx context.Context, arg TranslationKeyParams) (string, error) {
	row := q.db.QueryRow(ctx, findTranslation, arg.OwnerType, arg.OwnerID, arg.AttributeKey, arg.LocaleCode)
	var value string
	err := row.Scan(&value)
	return value, err
}

func (q *Queries) UpsertTranslation(ctx context.Context, arg TranslationKeyParams, value string) error {
	_, err := q.db.Exec(ctx, upsertTranslation, arg.OwnerType, arg.OwnerID, arg.AttributeKey, value, arg.LocaleCode)
	return err
}

func (q *Queries) DeleteTranslation(ctx context.Context, arg TranslationKeyParams) error {
	_, err := q.db.Exec(ctx, deleteTranslation, arg.OwnerType, arg.OwnerID, arg.AttributeKey, arg.LocaleCode)
	return err
}

func (q *Queries) DeleteTranslationsByLocale(ctx context.Context, arg OwnerLocaleParams) error {
	_, err := q.db.Exec(ctx, deleteTranslationsByLocale, arg.OwnerID, arg.OwnerType, arg.LocaleCode)
	return err
}

func (q *Queries) ListTranslationLocales(ctx context.Context, ownerID, ownerType string) ([]string, error) {
	rows, err := q.db.Query(ctx, listTranslationLocales, ownerID, ownerType)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (q *Queries) ListTranslationsForLocale(ctx context.Context, arg OwnerLocaleParams) ([]AttributeValue, error) {
	rows, err := q.db.Query(ctx, listTranslationsForLocale, arg.OwnerID, arg.OwnerType, arg.LocaleCode)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (AttributeValue, error) {
		var v AttributeValue
		err := row.Scan(&v.AttributeKey, &v.TranslationValue)
		return v, err
	})
}

func (q *Queries) CountTranslations(ctx context.Context, arg TranslationKeyParams) (int64, error) {
	row := q.db.QueryRow(ctx, countTranslations, arg.OwnerType, arg.OwnerID, arg.AttributeKey, arg.LocaleCode)
	var count int64
	err := row.Scan(&count)
	return count, err
}
