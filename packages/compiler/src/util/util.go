package util

import (
	"regexp"
	"strings"
)

var dashCaseRegexp = regexp.MustCompile(`-+([a-z0-9])`)

// DashCaseToCamelCase converts "some-prop" to "someProp".
func DashCaseToCamelCase(input string) string {
	return dashCaseRegexp.ReplaceAllStringFunc(input, func(match string) string {
		return strings.ToUpper(match[len(match)-1:])
	})
}

// SplitAtColon splits "a:b" into trimmed halves, or returns defaults when
// there is no colon.
func SplitAtColon(input string, defaults []string) []string {
	return splitAt(input, ':', defaults)
}

// SplitAtPeriod splits "a.b" into trimmed halves, or returns defaults when
// there is no period.
func SplitAtPeriod(input string, defaults []string) []string {
	return splitAt(input, '.', defaults)
}

func splitAt(input string, ch byte, defaults []string) []string {
	idx := strings.IndexByte(input, ch)
	if idx == -1 {
		return defaults
	}
	return []string{strings.TrimSpace(input[:idx]), strings.TrimSpace(input[idx+1:])}
}

// UpperFirst upper-cases the first byte of s.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LowerFirst lower-cases the first byte of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
