package serializers

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"ngc-template/packages/compiler/src/i18n"
)

// FormatYAML is the format name of YAMLCatalog
const FormatYAML = "yaml"

const yamlCatalogVersion = 1

// YAMLCatalog writes translation units as a YAML document:
//
//	version: 1
//	units:
//	  - id: "4286451273117902052"
//	    segments:
//	      - kind: text
//	        text: 'Hello '
//	      - kind: placeholder
//	        name: INTERPOLATION
//	        type: interpolation
//	        example: '{{ name }}'
type YAMLCatalog struct{}

// NewYAMLCatalog creates a new YAMLCatalog
func NewYAMLCatalog() *YAMLCatalog {
	return &YAMLCatalog{}
}

type yamlCatalogFile struct {
	Version int                     `yaml:"version"`
	Units   []*i18n.TranslationUnit `yaml:"units"`
}

// Write serializes units to YAML
func (c *YAMLCatalog) Write(units []*i18n.TranslationUnit) ([]byte, error) {
	if units == nil {
		units = []*i18n.TranslationUnit{}
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(yamlCatalogFile{Version: yamlCatalogVersion, Units: units}); err != nil {
		return nil, fmt.Errorf("encoding yaml catalog: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads units from a YAML catalog
func (c *YAMLCatalog) Load(content []byte, url string) ([]*i18n.TranslationUnit, error) {
	var file yamlCatalogFile
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding yaml catalog %s: %w", url, err)
	}
	if file.Version != yamlCatalogVersion {
		return nil, fmt.Errorf("%s: unsupported catalog version %d", url, file.Version)
	}
	for i, unit := range file.Units {
		if unit == nil || unit.ID == "" {
			return nil, fmt.Errorf("%s: unit %d has no id", url, i)
		}
	}
	return file.Units, nil
}

// Digest computes the decimal message digest; custom ids are applied by the bundle
func (c *YAMLCatalog) Digest(message *i18n.Message) string {
	return i18n.ComputeDecimalDigest(message)
}
