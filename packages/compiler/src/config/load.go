package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"ngc-template/packages/compiler/src/ml_parser"
)

const (
	KeyPreserveWhitespaces    = "compiler.preserveWhitespaces"
	KeyInterpolation          = "compiler.interpolation"
	KeyTokenizeExpansionForms = "compiler.tokenizeExpansionForms"
	KeyLegacyMessageIdFormat  = "i18n.legacyMessageIdFormat"
	KeyUseExternalIds         = "i18n.useExternalIds"
	KeyI18nFormat             = "i18n.format"
	KeyI18nCatalog            = "i18n.catalog"
	KeyMetadataFiles          = "metadata.files"
	KeyConcurrency            = "compile.concurrency"

	// EnvPrefix prefixes environment overrides, e.g. NGC_COMPILER_PRESERVEWHITESPACES.
	EnvPrefix = "NGC"
)

// I18nFormatYAML is the only catalog format the extractor writes.
const I18nFormatYAML = "yaml"

// Settings is everything the CLI reads from configuration.
type Settings struct {
	Compiler      *CompilerConfig
	I18nFormat    string
	I18nCatalog   string
	MetadataFiles []string
	Concurrency   int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPreserveWhitespaces, false)
	v.SetDefault(KeyInterpolation, []string{"{{", "}}"})
	v.SetDefault(KeyTokenizeExpansionForms, true)
	v.SetDefault(KeyLegacyMessageIdFormat, true)
	v.SetDefault(KeyUseExternalIds, true)
	v.SetDefault(KeyI18nFormat, I18nFormatYAML)
	v.SetDefault(KeyI18nCatalog, "")
	v.SetDefault(KeyMetadataFiles, []string{})
	v.SetDefault(KeyConcurrency, 8)
}

// BindEnv makes v read NGC_-prefixed environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads Settings from v. Defaults apply to keys v does not set.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	interpolationConfig, err := ml_parser.NewInterpolationConfig(v.GetStringSlice(KeyInterpolation))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyInterpolation, err)
	}

	format := strings.ToLower(v.GetString(KeyI18nFormat))
	if format != I18nFormatYAML {
		return nil, fmt.Errorf("unsupported %s %q", KeyI18nFormat, format)
	}

	concurrency := v.GetInt(KeyConcurrency)
	if concurrency < 1 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeyConcurrency, concurrency)
	}

	return &Settings{
		Compiler: NewCompilerConfig(
			WithPreserveWhitespaces(v.GetBool(KeyPreserveWhitespaces)),
			WithInterpolationConfig(interpolationConfig),
			WithTokenizeExpansionForms(v.GetBool(KeyTokenizeExpansionForms)),
			WithI18nLegacyMessageIdFormat(v.GetBool(KeyLegacyMessageIdFormat)),
			WithI18nUseExternalIds(v.GetBool(KeyUseExternalIds)),
		),
		I18nFormat:    format,
		I18nCatalog:   v.GetString(KeyI18nCatalog),
		MetadataFiles: v.GetStringSlice(KeyMetadataFiles),
		Concurrency:   concurrency,
	}, nil
}
