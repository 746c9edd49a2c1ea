package output

// Messages renders the operator-facing text of the migration command and of
// domain errors. A locale without a catalog falls back to the default one.
type Messages interface {
	// Message renders the message id for locale; data fills template
	// placeholders and may be nil.
	Message(locale, id string, data map[string]any) string
}
