package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translatable/internal/domain/entities"
)

var owner = entities.Ref{Type: "post", ID: "1"}

func key(attribute, locale string) entities.TranslationKey {
	return entities.TranslationKey{Owner: owner, Attribute: attribute, Locale: locale}
}

func TestUpsertKeepsIdentityAndCreatedAt(t *testing.T) {
	store := NewStore()
	created := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return created }
	require.NoError(t, store.Upsert(t.Context(), key("title", "de"), "Titel"))

	store.now = func() time.Time { return created.Add(time.Hour) }
	require.NoError(t, store.Upsert(t.Context(), key("title", "de"), "Neuer Titel"))

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, "Neuer Titel", records[0].Value)
	assert.Equal(t, created, records[0].CreatedAt)
	assert.Equal(t, created.Add(time.Hour), records[0].UpdatedAt)
}

func TestFindAndCount(t *testing.T) {
	store := NewStore()
	_, ok, err := store.Find(t.Context(), key("title", "de"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Upsert(t.Context(), key("title", "de"), "Titel"))
	value, ok, err := store.Find(t.Context(), key("title", "de"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Titel", value)

	n, err := store.Count(t.Context(), key("title", "de"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListAndDeleteByLocale(t *testing.T) {
	store := NewStore()
	ctx := t.Context()
	require.NoError(t, store.Upsert(ctx, key("title", "de"), "Titel"))
	require.NoError(t, store.Upsert(ctx, key("body", "de"), "Text"))
	require.NoError(t, store.Upsert(ctx, key("title", "fr"), "Titre"))
	other := entities.TranslationKey{Owner: entities.Ref{Type: "post", ID: "2"}, Attribute: "title", Locale: "it"}
	require.NoError(t, store.Upsert(ctx, other, "Titolo"))

	locales, err := store.ListLocales(ctx, owner)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"de", "fr"}, locales)

	values, err := store.ListForLocale(ctx, owner, "de")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Titel", "body": "Text"}, values)

	require.NoError(t, store.DeleteByLocale(ctx, owner, "de"))
	locales, err = store.ListLocales(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr"}, locales)
	assert.Len(t, store.Records(), 2)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Upsert(t.Context(), key("title", "de"), "Titel"))
	require.NoError(t, store.Delete(t.Context(), key("title", "de")))
	require.NoError(t, store.Delete(t.Context(), key("title", "de")))
	assert.Empty(t, store.Records())
}

func TestCanceledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	assert.ErrorIs(t, store.Upsert(ctx, key("title", "de"), "Titel"), context.Canceled)
	_, _, err := store.Find(ctx, key("title", "de"))
	assert.ErrorIs(t, err, context.Canceled)
}
