package application_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translatable/internal/application"
	"translatable/internal/domain"
	"translatable/internal/domain/entities"
	"translatable/internal/infrastructure/locale"
	"translatable/internal/infrastructure/memory"
)

// scriptedStore wraps a memory store and fails selected calls.
type scriptedStore struct {
	*memory.Store
	upsertCalls int
	upsertErrs  []error
	failAttr    string
	findErr     error
}

func (s *scriptedStore) Upsert(ctx context.Context, key entities.TranslationKey, value string) error {
	s.upsertCalls++
	if key.Attribute == s.failAttr {
		return fmt.Errorf("upsert: %w", domain.ErrStoreUnavailable)
	}
	if len(s.upsertErrs) > 0 {
		err := s.upsertErrs[0]
		s.upsertErrs = s.upsertErrs[1:]
		if err != nil {
			return err
		}
	}
	return s.Store.Upsert(ctx, key, value)
}

func (s *scriptedStore) Find(ctx context.Context, key entities.TranslationKey) (string, bool, error) {
	if s.findErr != nil {
		return "", false, s.findErr
	}
	return s.Store.Find(ctx, key)
}

func newScripted() (*scriptedStore, *application.Overlay, testModel) {
	model := newTestModel("7", map[string]string{"name": "testName", "place": "testPlace"})
	store := &scriptedStore{Store: memory.NewStore()}
	overlay := application.NewOverlay(store, locale.NewProvider("en", "en"), application.SchemaFor(model))
	return store, overlay, model
}

func TestSetRetriesOnceAfterConflict(t *testing.T) {
	store, overlay, model := newScripted()
	store.upsertErrs = []error{fmt.Errorf("insert: %w", domain.ErrConcurrentWrite)}

	require.NoError(t, overlay.SetAttributeTranslation(t.Context(), model, "de", "name", "testName_de"))
	assert.Equal(t, 2, store.upsertCalls)

	value, err := overlay.Resolve(t.Context(), model, "name", "de")
	require.NoError(t, err)
	assert.Equal(t, "testName_de", value)
}

func TestSetSurfacesSecondConflict(t *testing.T) {
	store, overlay, model := newScripted()
	conflict := fmt.Errorf("insert: %w", domain.ErrConcurrentWrite)
	store.upsertErrs = []error{conflict, conflict, nil}

	err := overlay.SetAttributeTranslation(t.Context(), model, "de", "name", "testName_de")
	require.ErrorIs(t, err, domain.ErrConcurrentWrite)
	assert.Equal(t, 2, store.upsertCalls)
	assert.Equal(t, "concurrent_write", domain.Code(err))
}

func TestSetDoesNotRetryOtherFailures(t *testing.T) {
	store, overlay, model := newScripted()
	store.upsertErrs = []error{fmt.Errorf("dial: %w", domain.ErrStoreUnavailable)}

	err := overlay.SetAttributeTranslation(t.Context(), model, "de", "name", "testName_de")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, 1, store.upsertCalls)
}

func TestSetTranslationsAppliesRemainingEntries(t *testing.T) {
	store, overlay, model := newScripted()
	store.failAttr = "name"

	err := overlay.SetTranslations(t.Context(), model, "de", map[string]string{
		"name":  "testName_de",
		"place": "testPlace_de",
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	place, err := overlay.Resolve(t.Context(), model, "place", "de")
	require.NoError(t, err)
	assert.Equal(t, "testPlace_de", place)

	name, err := overlay.Resolve(t.Context(), model, "name", "de")
	require.NoError(t, err)
	assert.Equal(t, "testName", name)
}

func TestOverlayLogsRetryAndPartialFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	model := newTestModel("7", map[string]string{"name": "testName", "place": "testPlace"})
	store := &scriptedStore{
		Store:      memory.NewStore(),
		upsertErrs: []error{fmt.Errorf("insert: %w", domain.ErrConcurrentWrite)},
		failAttr:   "place",
	}
	overlay := application.NewOverlay(store, locale.NewProvider("en", "en"), application.SchemaFor(model),
		application.WithLogger(logger))

	err := overlay.SetTranslations(t.Context(), model, "de", map[string]string{
		"name":  "testName_de",
		"place": "testPlace_de",
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	out := buf.String()
	assert.Contains(t, out, `level=WARN msg="translation upsert conflicted, retrying"`)
	assert.Contains(t, out, "owner=test_model#7 attribute=name locale=de")
	assert.Contains(t, out, `level=DEBUG msg="translations partially applied"`)
	assert.Contains(t, out, "failed=1 total=2")
}

func TestOverlayStaysQuietOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	model := newTestModel("7", map[string]string{"name": "testName"})
	overlay := application.NewOverlay(memory.NewStore(), locale.NewProvider("en", "en"), application.SchemaFor(model),
		application.WithLogger(logger))

	require.NoError(t, overlay.SetTranslations(t.Context(), model, "de", map[string]string{"name": "testName_de"}))
	assert.Empty(t, buf.String())
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	store, overlay, model := newScripted()
	store.findErr = fmt.Errorf("query: %w", domain.ErrStoreUnavailable)

	_, err := overlay.Resolve(t.Context(), model, "name", "de")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// Paths that never reach the store are unaffected.
	value, err := overlay.Resolve(t.Context(), model, "name", "en")
	require.NoError(t, err)
	assert.Equal(t, "testName", value)
}

func TestNilEntity(t *testing.T) {
	_, overlay, _ := newScripted()
	ctx := t.Context()

	_, err := overlay.Resolve(ctx, nil, "name", "de")
	assert.ErrorIs(t, err, domain.ErrNilEntity)
	_, err = overlay.Project(ctx, nil, "de")
	assert.ErrorIs(t, err, domain.ErrNilEntity)
	_, err = overlay.AllTranslations(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNilEntity)
	assert.ErrorIs(t, overlay.SetTranslations(ctx, nil, "de", nil), domain.ErrNilEntity)
	assert.ErrorIs(t, overlay.RemoveLocale(ctx, nil, "de"), domain.ErrNilEntity)
}

func TestAllTranslationsStopsOnStoreFailure(t *testing.T) {
	model := newTestModel("9", map[string]string{"name": "testName"})
	store := &failingListStore{Store: memory.NewStore()}
	overlay := application.NewOverlay(store, locale.NewProvider("en", "en"), application.SchemaFor(model),
		application.WithLocaleWorkers(2))
	for _, loc := range []string{"de", "fr", "es"} {
		require.NoError(t, overlay.SetAttributeTranslation(t.Context(), model, loc, "name", "n_"+loc))
	}

	_, err := overlay.AllTranslations(t.Context(), model)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

type failingListStore struct {
	*memory.Store
}

func (s *failingListStore) ListForLocale(context.Context, entities.Ref, string) (map[string]string, error) {
	return nil, errors.Join(domain.ErrStoreUnavailable, errors.New("connection reset"))
}

func TestOverlayExposesSchema(t *testing.T) {
	_, overlay, _ := newScripted()

	assert.Equal(t, []string{"name", "place", "title"}, overlay.TranslatableAttributes(testModelType))
	assert.True(t, overlay.IsTranslatable(testModelType, "title"))
	assert.False(t, overlay.IsTranslatable(testModelType, "slug"))
	assert.Empty(t, overlay.TranslatableAttributes("unknown"))
	assert.False(t, overlay.IsTranslatable("unknown", "name"))
}
