package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TsConfig is the subset of a tsconfig.json the compiler reads
type TsConfig struct {
	AngularCompilerOptions AngularCompilerOptions `json:"angularCompilerOptions"`
	Files                  []string               `json:"files"`
	Include                []string               `json:"include"`
	Exclude                []string               `json:"exclude"`
}

// AngularCompilerOptions are the template options of `angularCompilerOptions`.
// Unset options keep the value already configured.
type AngularCompilerOptions struct {
	PreserveWhitespaces             *bool `json:"preserveWhitespaces"`
	EnableI18nLegacyMessageIdFormat *bool `json:"enableI18nLegacyMessageIdFormat"`
	I18nUseExternalIds              *bool `json:"i18nUseExternalIds"`
}

// ParseTsConfig reads and parses a tsconfig.json file
func ParseTsConfig(path string) (*TsConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tsconfig: %w", err)
	}

	var config TsConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse tsconfig: %w", err)
	}

	return &config, nil
}

// Options returns the compiler options set in angularCompilerOptions
func (c *TsConfig) Options() []CompilerConfigOption {
	var opts []CompilerConfigOption
	o := c.AngularCompilerOptions
	if o.PreserveWhitespaces != nil {
		opts = append(opts, WithPreserveWhitespaces(*o.PreserveWhitespaces))
	}
	if o.EnableI18nLegacyMessageIdFormat != nil {
		opts = append(opts, WithI18nLegacyMessageIdFormat(*o.EnableI18nLegacyMessageIdFormat))
	}
	if o.I18nUseExternalIds != nil {
		opts = append(opts, WithI18nUseExternalIds(*o.I18nUseExternalIds))
	}
	return opts
}

// Excludes reports whether path, relative to the project root, matches an
// exclude pattern.
func (c *TsConfig) Excludes(relPath string) bool {
	for _, pattern := range c.Exclude {
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(relPath)); matched {
			return true
		}
	}
	return false
}

// GetProjectRoot returns the directory containing the tsconfig
func (c *TsConfig) GetProjectRoot(tsconfigPath string) string {
	return filepath.Dir(tsconfigPath)
}
