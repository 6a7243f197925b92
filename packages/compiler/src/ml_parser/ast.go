package ml_parser

import (
	"ngc-template/packages/compiler/src/util"
)

// Node represents a node in the HTML AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
}

// Text represents a text node. Tokens are the TEXT, INTERPOLATION and
// ENCODED_ENTITY tokens the value was built from.
type Text struct {
	Value      string
	Tokens     []*Token
	sourceSpan *util.ParseSourceSpan
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan, tokens []*Token) *Text {
	return &Text{Value: value, Tokens: tokens, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (t *Text) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

// Visit visits the node with a visitor
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Expansion represents an ICU expansion form `{switchValue, type, cases}`.
type Expansion struct {
	SwitchValue           string
	Type                  string
	Cases                 []*ExpansionCase
	SwitchValueSourceSpan *util.ParseSourceSpan
	sourceSpan            *util.ParseSourceSpan
}

// NewExpansion creates a new Expansion
func NewExpansion(switchValue, typ string, cases []*ExpansionCase, sourceSpan, switchValueSourceSpan *util.ParseSourceSpan) *Expansion {
	return &Expansion{
		SwitchValue:           switchValue,
		Type:                  typ,
		Cases:                 cases,
		SwitchValueSourceSpan: switchValueSourceSpan,
		sourceSpan:            sourceSpan,
	}
}

// SourceSpan returns the source span
func (e *Expansion) SourceSpan() *util.ParseSourceSpan {
	return e.sourceSpan
}

// Visit visits the node with a visitor
func (e *Expansion) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitExpansion(e, context)
}

// ExpansionCase is one `value {content}` case of an Expansion.
type ExpansionCase struct {
	Value           string
	Expression      []Node
	ValueSourceSpan *util.ParseSourceSpan
	ExpSourceSpan   *util.ParseSourceSpan
	sourceSpan      *util.ParseSourceSpan
}

// NewExpansionCase creates a new ExpansionCase
func NewExpansionCase(value string, expression []Node, sourceSpan, valueSourceSpan, expSourceSpan *util.ParseSourceSpan) *ExpansionCase {
	return &ExpansionCase{
		Value:           value,
		Expression:      expression,
		ValueSourceSpan: valueSourceSpan,
		ExpSourceSpan:   expSourceSpan,
		sourceSpan:      sourceSpan,
	}
}

// SourceSpan returns the source span
func (ec *ExpansionCase) SourceSpan() *util.ParseSourceSpan {
	return ec.sourceSpan
}

// Visit visits the node with a visitor
func (ec *ExpansionCase) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitExpansionCase(ec, context)
}

// Attribute represents an element attribute. ValueSpan is nil for valueless
// attributes; ValueTokens are the ATTR_VALUE_TEXT, ATTR_VALUE_INTERPOLATION
// and ENCODED_ENTITY tokens of the value.
type Attribute struct {
	Name        string
	Value       string
	KeySpan     *util.ParseSourceSpan
	ValueSpan   *util.ParseSourceSpan
	ValueTokens []*Token
	sourceSpan  *util.ParseSourceSpan
}

// NewAttribute creates a new Attribute
func NewAttribute(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan, valueTokens []*Token) *Attribute {
	return &Attribute{
		Name:        name,
		Value:       value,
		KeySpan:     keySpan,
		ValueSpan:   valueSpan,
		ValueTokens: valueTokens,
		sourceSpan:  sourceSpan,
	}
}

// SourceSpan returns the source span
func (a *Attribute) SourceSpan() *util.ParseSourceSpan {
	return a.sourceSpan
}

// Visit visits the node with a visitor
func (a *Attribute) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttribute(a, context)
}

// Element represents an element. Namespaced names are `:ns:name`.
// EndSourceSpan is nil for void and unclosed elements; a self-closed element
// uses its whole tag.
type Element struct {
	Name            string
	Attrs           []*Attribute
	Children        []Node
	IsSelfClosing   bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
	IsVoid          bool
	sourceSpan      *util.ParseSourceSpan
}

// NewElement creates a new Element
func NewElement(name string, attrs []*Attribute, children []Node, isSelfClosing bool, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan, isVoid bool) *Element {
	return &Element{
		Name:            name,
		Attrs:           attrs,
		Children:        children,
		IsSelfClosing:   isSelfClosing,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
		IsVoid:          isVoid,
		sourceSpan:      sourceSpan,
	}
}

// SourceSpan returns the source span
func (e *Element) SourceSpan() *util.ParseSourceSpan {
	return e.sourceSpan
}

// Visit visits the node with a visitor
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Comment represents an HTML comment
type Comment struct {
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewComment creates a new Comment
func NewComment(value string, sourceSpan *util.ParseSourceSpan) *Comment {
	return &Comment{Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (c *Comment) SourceSpan() *util.ParseSourceSpan {
	return c.sourceSpan
}

// Visit visits the node with a visitor
func (c *Comment) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// Visitor visits HTML AST nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitAttribute(attribute *Attribute, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitComment(comment *Comment, context interface{}) interface{}
	VisitExpansion(expansion *Expansion, context interface{}) interface{}
	VisitExpansionCase(expansionCase *ExpansionCase, context interface{}) interface{}
}

// VisitAll visits every node and collects the non-nil results.
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	result := []interface{}{}
	for _, node := range nodes {
		if r := node.Visit(visitor, context); r != nil {
			result = append(result, r)
		}
	}
	return result
}
