package i18n_translation_bundle

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"ngc-template/packages/compiler/src/i18n"
)

// MissingTranslationStrategy decides what Get does for a unit without a
// translation.
type MissingTranslationStrategy int

const (
	MissingTranslationError MissingTranslationStrategy = iota
	MissingTranslationWarning
	MissingTranslationIgnore
)

// ParseMissingTranslationStrategy accepts "error", "warning" and "ignore".
func ParseMissingTranslationStrategy(name string) (MissingTranslationStrategy, error) {
	switch strings.ToLower(name) {
	case "error":
		return MissingTranslationError, nil
	case "warning":
		return MissingTranslationWarning, nil
	case "ignore":
		return MissingTranslationIgnore, nil
	}
	return 0, fmt.Errorf("unknown missing translation strategy %q", name)
}

// TranslationSource supplies the stored translations of a locale, keyed by
// unit id. *catalog.Catalog is one.
type TranslationSource interface {
	Translations(ctx context.Context, locale string) (map[string]string, error)
}

var placeholderRe = regexp.MustCompile(`\{\$([A-Za-z0-9_]+)\}`)

// TranslationBundle holds the translations of one locale.
type TranslationBundle struct {
	locale       string
	translations map[string]string
	missing      MissingTranslationStrategy
}

// NewTranslationBundle creates a bundle over translations keyed by unit id.
func NewTranslationBundle(locale string, translations map[string]string, missing MissingTranslationStrategy) *TranslationBundle {
	return &TranslationBundle{locale: locale, translations: translations, missing: missing}
}

// LoadTranslationBundle reads the translations of locale from source.
func LoadTranslationBundle(ctx context.Context, source TranslationSource, locale string, missing MissingTranslationStrategy) (*TranslationBundle, error) {
	translations, err := source.Translations(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("loading %s translations: %w", locale, err)
	}
	return NewTranslationBundle(locale, translations, missing), nil
}

// Locale returns the locale of the bundle.
func (tb *TranslationBundle) Locale() string {
	return tb.locale
}

// Has reports whether unit has a translation.
func (tb *TranslationBundle) Has(unit *i18n.TranslationUnit) bool {
	_, ok := tb.translations[unit.ID]
	return ok
}

// Get returns the translated text of unit, in the `{$NAME}` placeholder form
// of TranslationUnit.Text. A translation may only use placeholders of the
// source message. A missing translation is an error, or falls back to the
// source text, depending on the strategy.
func (tb *TranslationBundle) Get(unit *i18n.TranslationUnit) (string, error) {
	text, ok := tb.translations[unit.ID]
	if !ok {
		switch tb.missing {
		case MissingTranslationError:
			return "", fmt.Errorf("missing translation for message %q", unit.ID)
		case MissingTranslationWarning:
			slog.Warn("missing translation", "id", unit.ID, "locale", tb.locale)
		}
		return unit.Text(), nil
	}

	known := map[string]bool{}
	collectPlaceholders(unit.Segments, known)
	for _, match := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if !known[match[1]] {
			return "", fmt.Errorf("unknown placeholder %q in the %s translation of message %q", match[1], tb.locale, unit.ID)
		}
	}
	return text, nil
}

func collectPlaceholders(segments []i18n.Segment, into map[string]bool) {
	for _, s := range segments {
		switch s.Kind {
		case i18n.SegmentPlaceholder:
			into[s.Placeholder] = true
		case i18n.SegmentIcu:
			for _, c := range s.Icu.Cases {
				collectPlaceholders(c.Segments, into)
			}
		}
	}
}
