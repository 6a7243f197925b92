package util

import (
	"fmt"
	"strings"
)

// ParseSourceFile is a template (or component file) being parsed.
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{Content: content, URL: url}
}

// ParseLocation is a byte offset into a ParseSourceFile together with its
// zero-based line and column.
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{File: file, Offset: offset, Line: line, Col: col}
}

// String returns "<url>@<line>:<col>"
func (p *ParseLocation) String() string {
	if p.Offset < 0 {
		return p.File.URL
	}
	return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
}

// MoveBy returns a new location delta bytes away, keeping line and column in
// sync with the file content. The result is clamped to the file bounds.
func (p *ParseLocation) MoveBy(delta int) *ParseLocation {
	src := p.File.Content
	offset, line, col := p.Offset, p.Line, p.Col
	for offset > 0 && delta < 0 {
		offset--
		delta++
		if src[offset] == '\n' {
			line--
			prior := strings.LastIndexByte(src[:offset], '\n')
			col = offset - prior - 1
		} else {
			col--
		}
	}
	for offset < len(src) && delta > 0 {
		ch := src[offset]
		offset++
		delta--
		if ch == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return NewParseLocation(p.File, offset, line, col)
}

// SourceContext is the text surrounding a location.
type SourceContext struct {
	Before string
	After  string
}

// GetContext returns up to maxChars characters (and maxLines lines) of
// source around the location.
func (p *ParseLocation) GetContext(maxChars, maxLines int) *SourceContext {
	content := p.File.Content
	if p.Offset < 0 || len(content) == 0 {
		return nil
	}
	start := p.Offset
	if start > len(content)-1 {
		start = len(content) - 1
	}
	end := start

	chars, lines := 0, 0
	for chars < maxChars && start > 0 {
		start--
		chars++
		if content[start] == '\n' {
			lines++
			if lines == maxLines {
				break
			}
		}
	}

	chars, lines = 0, 0
	for chars < maxChars && end < len(content)-1 {
		end++
		chars++
		if content[end] == '\n' {
			lines++
			if lines == maxLines {
				break
			}
		}
	}

	at := p.Offset
	if at > len(content) {
		at = len(content)
	}
	return &SourceContext{
		Before: content[start:at],
		After:  content[at:min(end+1, len(content))],
	}
}

// ParseSourceSpan is a region of a source file. FullStart points before any
// leading trivia that Start skips over.
type ParseSourceSpan struct {
	Start     *ParseLocation
	End       *ParseLocation
	FullStart *ParseLocation
	Details   string
}

// NewParseSourceSpan creates a new ParseSourceSpan. A nil fullStart defaults to start.
func NewParseSourceSpan(start, end, fullStart *ParseLocation, details string) *ParseSourceSpan {
	if fullStart == nil {
		fullStart = start
	}
	return &ParseSourceSpan{Start: start, End: end, FullStart: fullStart, Details: details}
}

// String returns the source text covered by the span.
func (s *ParseSourceSpan) String() string {
	return s.Start.File.Content[s.Start.Offset:s.End.Offset]
}

// Contains reports whether offset lies within [Start, End].
func (s *ParseSourceSpan) Contains(offset int) bool {
	return s != nil && s.Start.Offset <= offset && offset <= s.End.Offset
}

// ParseErrorLevel distinguishes warnings from errors.
type ParseErrorLevel int

const (
	ParseErrorLevelWarning ParseErrorLevel = iota
	ParseErrorLevelError
)

func (l ParseErrorLevel) String() string {
	if l == ParseErrorLevelWarning {
		return "WARNING"
	}
	return "ERROR"
}

// ParseError is a problem found in template source. Parse errors are
// collected alongside partial results instead of aborting a parse.
type ParseError struct {
	Span  *ParseSourceSpan
	Msg   string
	Level ParseErrorLevel
}

// NewParseError creates a new error-level ParseError
func NewParseError(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{Span: span, Msg: msg, Level: ParseErrorLevelError}
}

// NewParseWarning creates a new warning-level ParseError
func NewParseWarning(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{Span: span, Msg: msg, Level: ParseErrorLevelWarning}
}

func (e *ParseError) Error() string {
	return e.String()
}

// ContextualMessage returns the message followed by an excerpt of the source
// with a marker at the error location.
func (e *ParseError) ContextualMessage() string {
	if e.Span == nil || e.Span.Start == nil {
		return e.Msg
	}
	ctx := e.Span.Start.GetContext(100, 3)
	if ctx == nil {
		return e.Msg
	}
	return fmt.Sprintf(`%s ("%s[%s ->]%s")`, e.Msg, ctx.Before, e.Level, ctx.After)
}

func (e *ParseError) String() string {
	if e.Span == nil || e.Span.Start == nil {
		return e.Msg
	}
	details := ""
	if e.Span.Details != "" {
		details = ", " + e.Span.Details
	}
	return fmt.Sprintf("%s: %s%s", e.ContextualMessage(), e.Span.Start, details)
}

// HasErrors reports whether any error-level entry is present.
func HasErrors(errs []*ParseError) bool {
	for _, e := range errs {
		if e.Level == ParseErrorLevelError {
			return true
		}
	}
	return false
}
