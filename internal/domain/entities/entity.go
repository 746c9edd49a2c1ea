package entities

// Ref identifies an entity by its type tag and id.
type Ref struct {
	Type string
	ID   string
}

func (r Ref) String() string {
	return r.Type + "#" + r.ID
}

// Entity is any record owned by the embedding application. Attributes returns
// the base values as a copy.
type Entity interface {
	Ref() Ref
	Attributes() map[string]string
}

// Translatable is an Entity that declares which of its attributes may carry
// locale overrides. The declaration is static per entity type.
type Translatable interface {
	Entity
	TranslatableAttributes() []string
}
