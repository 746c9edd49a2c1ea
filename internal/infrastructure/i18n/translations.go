package i18n

import (
	"embed"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"translatable/internal/domain"
	"translatable/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var catalogs = []string{"active.en.toml", "active.fr.toml", "active.de.toml"}

var _ output.Messages = (*Translator)(nil)

// Translator renders operator messages from the embedded go-i18n catalogs.
// Localizers are built once per requested locale and reused.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag

	mu         sync.RWMutex
	localizers map[string]*i18n.Localizer
}

// NewTranslator loads the catalogs with defaultLocale as the last fallback.
// An unparsable defaultLocale means English.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range catalogs {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			slog.Warn("i18n: failed to load message file", slog.String("file", file), slog.Any("error", err))
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		localizers:      make(map[string]*i18n.Localizer),
	}
}

// Languages lists the locales that have a catalog.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	t.mu.RLock()
	l, ok := t.localizers[locale]
	t.mu.RUnlock()
	if ok {
		return l
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.localizers[locale]; ok {
		return l
	}
	l = i18n.NewLocalizer(t.bundle, locale, t.defaultLanguage.String())
	t.localizers[locale] = l
	return l
}

// Message renders id in locale, then in the default locale. An unknown id is
// returned as is.
func (t *Translator) Message(locale, id string, data map[string]any) string {
	if id == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug("i18n: localize failed", slog.String("id", id), slog.String("locale", locale), slog.Any("error", err))
		return id
	}
	return msg
}

// ErrorMessage renders err for operators. Domain errors use their
// "error.<code>" message with the wrapping context as detail; anything else
// uses "error.unknown".
func ErrorMessage(m output.Messages, locale string, err error) string {
	if err == nil {
		return ""
	}
	code := domain.Code(err)
	if code == "" {
		return m.Message(locale, "error.unknown", map[string]any{"Detail": err.Error()})
	}
	return m.Message(locale, "error."+code, map[string]any{"Detail": domain.Detail(err)})
}
