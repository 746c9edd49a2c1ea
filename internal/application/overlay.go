package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"translatable/internal/domain"
	"translatable/internal/domain/entities"
	"translatable/internal/ports/input"
	"translatable/internal/ports/output"
)

var _ input.OverlayUseCase = (*Overlay)(nil)

const defaultLocaleWorkers = 4

// Overlay resolves attribute values of translatable entities against the
// overrides held in a TranslationStore, falling back to base values.
//
// Writes rely on the store's atomic upsert; a write rejected as a concurrent
// duplicate is retried once before the error is returned.
type Overlay struct {
	store   output.TranslationStore
	locales output.LocaleProvider
	schema  *Schema
	logger  *slog.Logger
	workers int
}

type Option func(*Overlay)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Overlay) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLocaleWorkers bounds how many locales AllTranslations loads at once.
func WithLocaleWorkers(n int) Option {
	return func(o *Overlay) {
		if n > 0 {
			o.workers = n
		}
	}
}

func NewOverlay(
	store output.TranslationStore,
	locales output.LocaleProvider,
	schema *Schema,
	opts ...Option,
) *Overlay {
	o := &Overlay{
		store:   store,
		locales: locales,
		schema:  schema,
		logger:  slog.Default(),
		workers: defaultLocaleWorkers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Overlay) TranslatableAttributes(entityType string) []string {
	return o.schema.Attributes(entityType)
}

func (o *Overlay) IsTranslatable(entityType, attribute string) bool {
	return o.schema.Has(entityType, attribute)
}

// Resolve returns the value of attribute in locale. Untranslatable attributes,
// the fallback locale and missing overrides all yield the base value.
func (o *Overlay) Resolve(ctx context.Context, entity entities.Entity, attribute, locale string) (string, error) {
	if entity == nil {
		return "", domain.ErrNilEntity
	}
	ref := entity.Ref()
	base := entity.Attributes()[attribute]
	if !o.schema.Has(ref.Type, attribute) || locale == o.locales.FallbackLocale() {
		return base, nil
	}
	value, ok, err := o.store.Find(ctx, entities.TranslationKey{Owner: ref, Attribute: attribute, Locale: locale})
	if err != nil {
		return "", fmt.Errorf("resolve %s.%s in %q: %w", ref, attribute, locale, err)
	}
	if !ok {
		return base, nil
	}
	return value, nil
}

// ResolveCurrent resolves attribute in the locale active for ctx.
func (o *Overlay) ResolveCurrent(ctx context.Context, entity entities.Entity, attribute string) (string, error) {
	return o.Resolve(ctx, entity, attribute, o.locales.CurrentLocale(ctx))
}

func (o *Overlay) HasTranslation(ctx context.Context, entity entities.Entity, attribute, locale string) (bool, error) {
	if entity == nil {
		return false, domain.ErrNilEntity
	}
	ref := entity.Ref()
	if !o.schema.Has(ref.Type, attribute) {
		return false, nil
	}
	_, ok, err := o.store.Find(ctx, entities.TranslationKey{Owner: ref, Attribute: attribute, Locale: locale})
	if err != nil {
		return false, fmt.Errorf("has translation %s.%s in %q: %w", ref, attribute, locale, err)
	}
	return ok, nil
}

// Project returns a detached copy of entity with the overrides stored for
// locale merged over its translatable attributes. Nothing is persisted.
func (o *Overlay) Project(ctx context.Context, entity entities.Entity, locale string) (entities.View, error) {
	if entity == nil {
		return entities.View{}, domain.ErrNilEntity
	}
	ref := entity.Ref()
	overrides, err := o.store.ListForLocale(ctx, ref, locale)
	if err != nil {
		return entities.View{}, fmt.Errorf("project %s in %q: %w", ref, locale, err)
	}
	return o.merge(ref, entity.Attributes(), locale, overrides), nil
}

// AllTranslations returns one projection per locale that has at least one
// override for entity. Callers must not rely on any locale order.
func (o *Overlay) AllTranslations(ctx context.Context, entity entities.Entity) (map[string]entities.View, error) {
	if entity == nil {
		return nil, domain.ErrNilEntity
	}
	ref := entity.Ref()
	locales, err := o.store.ListLocales(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("list locales of %s: %w", ref, err)
	}

	base := entity.Attributes()
	overrides := make([]map[string]string, len(locales))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, locale := range locales {
		g.Go(func() error {
			values, err := o.store.ListForLocale(gctx, ref, locale)
			if err != nil {
				return fmt.Errorf("load %s in %q: %w", ref, locale, err)
			}
			overrides[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]entities.View, len(locales))
	for i, locale := range locales {
		out[locale] = o.merge(ref, base, locale, overrides[i])
	}
	return out, nil
}

func (o *Overlay) merge(ref entities.Ref, base map[string]string, locale string, overrides map[string]string) entities.View {
	view := entities.NewView(ref, locale, len(base))
	for name, value := range base {
		if translated, ok := overrides[name]; ok && o.schema.Has(ref.Type, name) {
			value = translated
		}
		view.Set(name, value)
	}
	return view
}

// SetAttributeTranslation stores value as the override of attribute in
// locale. Untranslatable attributes are ignored.
func (o *Overlay) SetAttributeTranslation(ctx context.Context, entity entities.Entity, locale, attribute, value string) error {
	if entity == nil {
		return domain.ErrNilEntity
	}
	ref := entity.Ref()
	if !o.schema.Has(ref.Type, attribute) {
		return nil
	}
	if !entities.ValidLocale(locale) {
		return fmt.Errorf("set %s.%s: %w %q", ref, attribute, domain.ErrInvalidLocale, locale)
	}

	key := entities.TranslationKey{Owner: ref, Attribute: attribute, Locale: locale}
	err := o.store.Upsert(ctx, key, value)
	if errors.Is(err, domain.ErrConcurrentWrite) {
		o.logger.WarnContext(ctx, "translation upsert conflicted, retrying",
			slog.String("owner", ref.String()),
			slog.String("attribute", attribute),
			slog.String("locale", locale),
		)
		err = o.store.Upsert(ctx, key, value)
	}
	if err != nil {
		return fmt.Errorf("set %s.%s in %q: %w", ref, attribute, locale, err)
	}
	return nil
}

// SetTranslations applies SetAttributeTranslation for every entry of values.
// Entries are independent: a failure does not undo or stop the others, and all
// failures are returned joined.
func (o *Overlay) SetTranslations(ctx context.Context, entity entities.Entity, locale string, values map[string]string) error {
	if entity == nil {
		return domain.ErrNilEntity
	}
	var errs []error
	for _, attribute := range slices.Sorted(maps.Keys(values)) {
		if err := o.SetAttributeTranslation(ctx, entity, locale, attribute, values[attribute]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		o.logger.DebugContext(ctx, "translations partially applied",
			slog.String("owner", entity.Ref().String()),
			slog.String("locale", locale),
			slog.Int("failed", len(errs)),
			slog.Int("total", len(values)),
		)
	}
	return errors.Join(errs...)
}

// RemoveLocale deletes every override of entity in locale.
func (o *Overlay) RemoveLocale(ctx context.Context, entity entities.Entity, locale string) error {
	if entity == nil {
		return domain.ErrNilEntity
	}
	ref := entity.Ref()
	if err := o.store.DeleteByLocale(ctx, ref, locale); err != nil {
		return fmt.Errorf("remove %s in %q: %w", ref, locale, err)
	}
	return nil
}

func (o *Overlay) RemoveAttributeTranslation(ctx context.Context, entity entities.Entity, locale, attribute string) error {
	if entity == nil {
		return domain.ErrNilEntity
	}
	ref := entity.Ref()
	key := entities.TranslationKey{Owner: ref, Attribute: attribute, Locale: locale}
	if err := o.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s.%s in %q: %w", ref, attribute, locale, err)
	}
	return nil
}
