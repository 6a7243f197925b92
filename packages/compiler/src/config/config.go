package config

import (
	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/render3/view"
)

// CompilerConfig represents the compiler configuration
type CompilerConfig struct {
	PreserveWhitespaces             bool
	InterpolationConfig             *ml_parser.InterpolationConfig
	TokenizeExpansionForms          bool
	EnableI18nLegacyMessageIdFormat bool
	I18nUseExternalIds              bool
}

// NewCompilerConfig creates a new CompilerConfig with optional parameters
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{
		PreserveWhitespaces:             PreserveWhitespacesDefault(nil, false),
		InterpolationConfig:             ml_parser.DefaultInterpolationConfig,
		TokenizeExpansionForms:          true,
		EnableI18nLegacyMessageIdFormat: true,
		I18nUseExternalIds:              true,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithPreserveWhitespaces sets whether to preserve whitespaces
func WithPreserveWhitespaces(preserve bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.PreserveWhitespaces = preserve
	}
}

// WithInterpolationConfig sets the interpolation markers. A nil config
// restores the default `{{`/`}}` markers.
func WithInterpolationConfig(interpolationConfig *ml_parser.InterpolationConfig) CompilerConfigOption {
	return func(c *CompilerConfig) {
		if interpolationConfig == nil {
			interpolationConfig = ml_parser.DefaultInterpolationConfig
		}
		c.InterpolationConfig = interpolationConfig
	}
}

// WithTokenizeExpansionForms sets whether ICU expansions are tokenized
func WithTokenizeExpansionForms(tokenize bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.TokenizeExpansionForms = tokenize
	}
}

// WithI18nLegacyMessageIdFormat sets whether legacy message ids are computed
func WithI18nLegacyMessageIdFormat(enable bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.EnableI18nLegacyMessageIdFormat = enable
	}
}

// WithI18nUseExternalIds sets whether custom ids are used for extracted messages
func WithI18nUseExternalIds(use bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.I18nUseExternalIds = use
	}
}

// With returns a copy of c with opts applied
func (c *CompilerConfig) With(opts ...CompilerConfigOption) *CompilerConfig {
	clone := *c
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// TemplateOptions returns the options ParseTemplate needs for this configuration
func (c *CompilerConfig) TemplateOptions() *view.ParseTemplateOptions {
	tokenizeExpansionForms := c.TokenizeExpansionForms
	return &view.ParseTemplateOptions{
		PreserveWhitespaces:    c.PreserveWhitespaces,
		InterpolationConfig:    c.InterpolationConfig,
		TokenizeExpansionForms: &tokenizeExpansionForms,
	}
}

// PreserveWhitespacesDefault returns the default value for preserveWhitespaces
func PreserveWhitespacesDefault(preserveWhitespacesOption *bool, defaultSetting bool) bool {
	if preserveWhitespacesOption == nil {
		return defaultSetting
	}
	return *preserveWhitespacesOption
}
