package ml_parser

import (
	"regexp"
	"strings"
)

// PreserveWsAttrName marks a subtree whose whitespace is kept as written.
const PreserveWsAttrName = "ngPreserveWhitespaces"

// NgspUnicode is the character the `&ngsp;` pseudo-entity decodes to. It
// survives whitespace removal and becomes a single space afterwards.
const NgspUnicode = "\uE500"

var skipWsTrimTags = map[string]bool{
	"pre":      true,
	"template": true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

// Equivalent to \s with \u00a0 (non-breaking space) excluded
const wsChars = " \f\n\r\t\v\u1680\u180e\u2000-\u200a\u2028\u2029\u202f\u205f\u3000\ufeff"

var (
	noWsRegexp      = regexp.MustCompile(`[^` + wsChars + `]`)
	wsReplaceRegexp = regexp.MustCompile(`[` + wsChars + `]{2,}`)
)

// ReplaceNgsp replaces the &ngsp; pseudo-entity with a space
func ReplaceNgsp(value string) string {
	return strings.ReplaceAll(value, NgspUnicode, " ")
}

// HasPreserveWhitespacesAttr checks if attributes contain the preserve whitespaces attribute
func HasPreserveWhitespacesAttr(attrs []*Attribute) bool {
	for _, attr := range attrs {
		if attr.Name == PreserveWsAttrName {
			return true
		}
	}
	return false
}

// RemoveWhitespaces drops blank text nodes and collapses runs of whitespace
// in the remaining text. `<pre>`-like elements and subtrees carrying
// ngPreserveWhitespaces are left alone; the marker attribute itself is
// removed.
func RemoveWhitespaces(result *ParseTreeResult) *ParseTreeResult {
	visitor := &whitespaceVisitor{}
	return NewParseTreeResult(visitAllWithSiblings(visitor, result.RootNodes), result.Errors)
}

// siblingContext is the context whitespaceVisitor receives for each node.
type siblingContext struct {
	prev Node
	next Node
}

type whitespaceVisitor struct{}

func (w *whitespaceVisitor) VisitElement(element *Element, context interface{}) interface{} {
	if skipWsTrimTags[element.Name] || HasPreserveWhitespacesAttr(element.Attrs) {
		attrs := make([]*Attribute, 0, len(element.Attrs))
		for _, attr := range element.Attrs {
			if attr.Visit(w, nil) != nil {
				attrs = append(attrs, attr)
			}
		}
		clone := *element
		clone.Attrs = attrs
		return &clone
	}
	clone := *element
	clone.Children = visitAllWithSiblings(w, element.Children)
	return &clone
}

func (w *whitespaceVisitor) VisitAttribute(attribute *Attribute, context interface{}) interface{} {
	if attribute.Name == PreserveWsAttrName {
		return nil
	}
	return attribute
}

func (w *whitespaceVisitor) VisitText(text *Text, context interface{}) interface{} {
	isNotBlank := noWsRegexp.MatchString(text.Value)
	hasExpansionSibling := false
	if ctx, ok := context.(*siblingContext); ok {
		_, prevIsExpansion := ctx.prev.(*Expansion)
		_, nextIsExpansion := ctx.next.(*Expansion)
		hasExpansionSibling = prevIsExpansion || nextIsExpansion
	}
	if !isNotBlank && !hasExpansionSibling {
		return nil
	}

	tokens := make([]*Token, len(text.Tokens))
	for i, token := range text.Tokens {
		if token.Type == TokenTypeTEXT {
			tokens[i] = NewToken(token.Type, []string{processWhitespace(token.Parts[0])}, token.SourceSpan)
		} else {
			tokens[i] = token
		}
	}
	return NewText(processWhitespace(text.Value), text.SourceSpan(), tokens)
}

func (w *whitespaceVisitor) VisitComment(comment *Comment, context interface{}) interface{} {
	return comment
}

func (w *whitespaceVisitor) VisitExpansion(expansion *Expansion, context interface{}) interface{} {
	return expansion
}

func (w *whitespaceVisitor) VisitExpansionCase(expansionCase *ExpansionCase, context interface{}) interface{} {
	return expansionCase
}

func processWhitespace(text string) string {
	return wsReplaceRegexp.ReplaceAllString(ReplaceNgsp(text), " ")
}

func visitAllWithSiblings(visitor Visitor, nodes []Node) []Node {
	result := []Node{}
	for i, node := range nodes {
		ctx := &siblingContext{}
		if i > 0 {
			ctx.prev = nodes[i-1]
		}
		if i+1 < len(nodes) {
			ctx.next = nodes[i+1]
		}
		if r := node.Visit(visitor, ctx); r != nil {
			result = append(result, r.(Node))
		}
	}
	return result
}
