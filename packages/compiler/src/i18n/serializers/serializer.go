package serializers

import (
	"ngc-template/packages/compiler/src/i18n"
)

// Serializer is the base interface for all serializers
type Serializer interface {
	// Write serializes translation units to a catalog file
	Write(units []*i18n.TranslationUnit) ([]byte, error)

	// Load reads the translation units of a catalog file
	Load(content []byte, url string) ([]*i18n.TranslationUnit, error)

	// Digest computes the message digest
	Digest(message *i18n.Message) string
}

// ByFormat returns the serializer registered for a catalog format name.
func ByFormat(format string) (Serializer, bool) {
	switch format {
	case FormatYAML:
		return NewYAMLCatalog(), true
	}
	return nil, false
}
