package ml_parser

import (
	"fmt"
	"regexp"
)

// InterpolationConfig holds the start and end markers of an interpolation.
type InterpolationConfig struct {
	Start string
	End   string
}

// DefaultInterpolationConfig is `{{` / `}}`.
var DefaultInterpolationConfig = &InterpolationConfig{Start: "{{", End: "}}"}

var unusableInterpolationRegexps = []*regexp.Regexp{
	regexp.MustCompile(`@`),
	regexp.MustCompile(`^\s*$`),
	regexp.MustCompile(`[<>]`),
	regexp.MustCompile(`^[{}]$`),
	regexp.MustCompile(`(?i)&(#|[a-z])`),
	regexp.MustCompile(`^//`),
}

// NewInterpolationConfig builds a config from a [start, end] pair. A nil or
// empty slice yields the default markers.
func NewInterpolationConfig(markers []string) (*InterpolationConfig, error) {
	if len(markers) == 0 {
		return DefaultInterpolationConfig, nil
	}
	if len(markers) != 2 {
		return nil, fmt.Errorf("expected 'interpolation' to be an array, [start, end]")
	}
	for _, re := range unusableInterpolationRegexps {
		if re.MatchString(markers[0]) || re.MatchString(markers[1]) {
			return nil, fmt.Errorf("['%s', '%s'] contains unusable interpolation symbol", markers[0], markers[1])
		}
	}
	return &InterpolationConfig{Start: markers[0], End: markers[1]}, nil
}
