package input

import (
	"context"

	"translatable/internal/domain/entities"
)

type OverlayUseCase interface {
	TranslatableAttributes(entityType string) []string
	IsTranslatable(entityType, attribute string) bool
	Resolve(ctx context.Context, entity entities.Entity, attribute, locale string) (string, error)
	ResolveCurrent(ctx context.Context, entity entities.Entity, attribute string) (string, error)
	HasTranslation(ctx context.Context, entity entities.Entity, attribute, locale string) (bool, error)
	Project(ctx context.Context, entity entities.Entity, locale string) (entities.View, error)
	AllTranslations(ctx context.Context, entity entities.Entity) (map[string]entities.View, error)
	SetAttributeTranslation(ctx context.Context, entity entities.Entity, locale, attribute, value string) error
	SetTranslations(ctx context.Context, entity entities.Entity, locale string, values map[string]string) error
	RemoveLocale(ctx context.Context, entity entities.Entity, locale string) error
	RemoveAttributeTranslation(ctx context.Context, entity entities.Entity, locale, attribute string) error
}
