package i18n

import (
	"fmt"

	"ngc-template/packages/compiler/src/util"
)

// SerializeError is reported when a well-formed message cannot be rendered
// into a translation unit. It is distinct from util.ParseError, which marks
// malformed input.
type SerializeError struct {
	Span *util.ParseSourceSpan
	Msg  string
}

// NewSerializeError creates a SerializeError anchored at span
func NewSerializeError(span *util.ParseSourceSpan, msg string) *SerializeError {
	return &SerializeError{Span: span, Msg: msg}
}

func (e *SerializeError) Error() string {
	if e.Span == nil || e.Span.Start == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, e.Span.Start)
}
