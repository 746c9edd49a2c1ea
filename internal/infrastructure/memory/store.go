// Package memory provides an in-memory TranslationStore for tests and
// ephemeral use.
package memory

import (
	"context"
	"sync"
	"time"

	"translatable/internal/domain/entities"
	"translatable/internal/ports/output"
)

var _ output.TranslationStore = (*Store)(nil)

// Store keeps one record per TranslationKey. Every operation runs under a
// single lock, so Upsert is atomic per key.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	records map[entities.TranslationKey]entities.TranslationRecord
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		records: make(map[entities.TranslationKey]entities.TranslationRecord),
		now:     time.Now,
	}
}

func (s *Store) Find(ctx context.Context, key entities.TranslationKey) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec.Value, ok, nil
}

func (s *Store) Upsert(ctx context.Context, key entities.TranslationKey, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	rec, ok := s.records[key]
	if !ok {
		s.nextID++
		rec = entities.TranslationRecord{ID: s.nextID, Key: key, CreatedAt: now}
	}
	rec.Value = value
	rec.UpdatedAt = now
	s.records[key] = rec
	return nil
}

func (s *Store) Delete(ctx context.Context, key entities.TranslationKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *Store) DeleteByLocale(ctx context.Context, owner entities.Ref, locale string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.records {
		if key.Owner == owner && key.Locale == locale {
			delete(s.records, key)
		}
	}
	return nil
}

func (s *Store) ListLocales(ctx context.Context, owner entities.Ref) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for key := range s.records {
		if key.Owner != owner {
			continue
		}
		if _, dup := seen[key.Locale]; dup {
			continue
		}
		seen[key.Locale] = struct{}{}
		out = append(out, key.Locale)
	}
	return out, nil
}

func (s *Store) ListForLocale(ctx context.Context, owner entities.Ref, locale string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for key, rec := range s.records {
		if key.Owner == owner && key.Locale == locale {
			out[key.Attribute] = rec.Value
		}
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, key entities.TranslationKey) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.records[key]; ok {
		return 1, nil
	}
	return 0, nil
}

// Records returns a snapshot of every stored record.
func (s *Store) Records() []entities.TranslationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.TranslationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}
