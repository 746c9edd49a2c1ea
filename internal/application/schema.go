package application

import (
	"slices"

	"translatable/internal/domain/entities"
)

// Schema holds the translatable attribute set of each entity type. It is
// immutable once built and safe for concurrent use.
type Schema struct {
	sets map[string][]string
}

// NewSchema builds a Schema from entity type -> translatable attribute names.
// Duplicate names are collapsed.
func NewSchema(decls map[string][]string) *Schema {
	s := &Schema{sets: make(map[string][]string, len(decls))}
	for entityType, attrs := range decls {
		s.add(entityType, attrs)
	}
	return s
}

// SchemaFor builds a Schema from sample values of each translatable type.
func SchemaFor(models ...entities.Translatable) *Schema {
	s := &Schema{sets: make(map[string][]string, len(models))}
	for _, m := range models {
		s.add(m.Ref().Type, m.TranslatableAttributes())
	}
	return s
}

func (s *Schema) add(entityType string, attrs []string) {
	set := append(slices.Clone(s.sets[entityType]), attrs...)
	slices.Sort(set)
	s.sets[entityType] = slices.Compact(set)
}

// Attributes returns the translatable attributes of entityType, or an empty
// slice when the type declares none.
func (s *Schema) Attributes(entityType string) []string {
	if s == nil {
		return []string{}
	}
	set := s.sets[entityType]
	if len(set) == 0 {
		return []string{}
	}
	return slices.Clone(set)
}

func (s *Schema) Has(entityType, attribute string) bool {
	if s == nil {
		return false
	}
	_, found := slices.BinarySearch(s.sets[entityType], attribute)
	return found
}
