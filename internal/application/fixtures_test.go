package application_test

import (
	"maps"

	"translatable/internal/domain/entities"
)

const testModelType = "test_model"

// testModel mirrors an application entity with three translatable attributes
// and one stored-only attribute (slug).
type testModel struct {
	id    string
	attrs map[string]string
}

func newTestModel(id string, attrs map[string]string) testModel {
	return testModel{id: id, attrs: maps.Clone(attrs)}
}

func (m testModel) Ref() entities.Ref {
	return entities.Ref{Type: testModelType, ID: m.id}
}

func (m testModel) Attributes() map[string]string {
	return maps.Clone(m.attrs)
}

func (m testModel) TranslatableAttributes() []string {
	return []string{"name", "place", "title"}
}
