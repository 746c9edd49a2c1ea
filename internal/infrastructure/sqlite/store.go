// Package sqlite provides a SQLite-backed TranslationStore.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"translatable/internal/domain"
	"translatable/internal/domain/entities"
	"translatable/internal/infrastructure/sqlite/migrations"
	"translatable/internal/ports/output"
)

var _ output.TranslationStore = (*Store)(nil)

// Store persists translations in SQLite.
type Store struct {
	sqlDB   *sql.DB
	now     func() time.Time
	version uint
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open applies the embedded migrations to the database at path and opens a
// translation store on it.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	version, err := runMigrations(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	// A single connection serializes writers instead of surfacing SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	return &Store{sqlDB: sqlDB, now: time.Now, version: version}, nil
}

// runMigrations brings the schema at path up to date and returns its version.
func runMigrations(path string) (uint, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return 0, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return 0, fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("migration version %d is dirty", version)
	}
	return version, nil
}

// SchemaVersion reports the migration version applied when the store opened.
func (s *Store) SchemaVersion() uint {
	return s.version
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Find(ctx context.Context, key entities.TranslationKey) (string, bool, error) {
	var value string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT translation_value FROM translatable_translations
		 WHERE owner_type = ? AND owner_id = ? AND attribute_key = ? AND locale_code = ?`,
		key.Owner.Type, key.Owner.ID, key.Attribute, key.Locale,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeError("find translation", err)
	}
	return value, true, nil
}

func (s *Store) Upsert(ctx context.Context, key entities.TranslationKey, value string) error {
	now := toMillis(s.now())
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO translatable_translations (
		   owner_type, owner_id, attribute_key, translation_value, locale_code, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (owner_type, owner_id, attribute_key, locale_code)
		 DO UPDATE SET translation_value = excluded.translation_value, updated_at = excluded.updated_at`,
		key.Owner.Type, key.Owner.ID, key.Attribute, value, key.Locale, now, now,
	)
	if err != nil {
		return storeError("upsert translation", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key entities.TranslationKey) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM translatable_translations
		 WHERE owner_type = ? AND owner_id = ? AND attribute_key = ? AND locale_code = ?`,
		key.Owner.Type, key.Owner.ID, key.Attribute, key.Locale,
	)
	if err != nil {
		return storeError("delete translation", err)
	}
	return nil
}

func (s *Store) DeleteByLocale(ctx context.Context, owner entities.Ref, locale string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM translatable_translations
		 WHERE owner_id = ? AND owner_type = ? AND locale_code = ?`,
		owner.ID, owner.Type, locale,
	)
	if err != nil {
		return storeError("delete translations by locale", err)
	}
	return nil
}

func (s *Store) ListLocales(ctx context.Context, owner entities.Ref) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT DISTINCT locale_code FROM translatable_translations
		 WHERE owner_id = ? AND owner_type = ?`,
		owner.ID, owner.Type,
	)
	if err != nil {
		return nil, storeError("list locales", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var locale string
		if err := rows.Scan(&locale); err != nil {
			return nil, storeError("scan locale", err)
		}
		out = append(out, locale)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate locales", err)
	}
	return out, nil
}

func (s *Store) ListForLocale(ctx context.Context, owner entities.Ref, locale string) (map[string]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT attribute_key, translation_value FROM translatable_translations
		 WHERE owner_id = ? AND owner_type = ? AND locale_code = ?`,
		owner.ID, owner.Type, locale,
	)
	if err != nil {
		return nil, storeError("list translations", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var attribute, value string
		if err := rows.Scan(&attribute, &value); err != nil {
			return nil, storeError("scan translation", err)
		}
		out[attribute] = value
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate translations", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, key entities.TranslationKey) (int, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM translatable_translations
		 WHERE owner_type = ? AND owner_id = ? AND attribute_key = ? AND locale_code = ?`,
		key.Owner.Type, key.Owner.ID, key.Attribute, key.Locale,
	).Scan(&n)
	if err != nil {
		return 0, storeError("count translations", err)
	}
	return n, nil
}

func storeError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrentWrite, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
