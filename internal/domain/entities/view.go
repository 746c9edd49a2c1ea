package entities

import "maps"

// View is a detached copy of an entity with overrides for one locale merged
// in. Writes through Set stay local to the view.
type View struct {
	Owner      Ref
	Locale     string
	attributes map[string]string
}

// NewView returns an empty view for owner in locale.
func NewView(owner Ref, locale string, size int) View {
	return View{
		Owner:      owner,
		Locale:     locale,
		attributes: make(map[string]string, size),
	}
}

func (v View) Get(name string) (string, bool) {
	value, ok := v.attributes[name]
	return value, ok
}

func (v View) Set(name, value string) {
	v.attributes[name] = value
}

// Attributes returns a copy of the merged attributes.
func (v View) Attributes() map[string]string {
	return maps.Clone(v.attributes)
}

func (v View) Len() int {
	return len(v.attributes)
}
