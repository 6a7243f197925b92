package render3

import (
	"sort"

	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/i18n"
	"ngc-template/packages/compiler/src/util"
)

// Node represents a node in the R3 AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor) interface{}
}

// Text represents a text node
type Text struct {
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{
		Value:      value,
		sourceSpan: sourceSpan,
	}
}

// SourceSpan returns the source span
func (t *Text) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

// Visit visits the node with a visitor
func (t *Text) Visit(visitor Visitor) interface{} {
	return visitor.VisitText(t)
}

// BoundText is text containing interpolations. Value is an
// *expression_parser.ASTWithSource wrapping an Interpolation.
type BoundText struct {
	Value      expression_parser.AST
	sourceSpan *util.ParseSourceSpan
	I18n       *i18n.Meta
}

// NewBoundText creates a new BoundText node
func NewBoundText(value expression_parser.AST, sourceSpan *util.ParseSourceSpan, i18nMeta *i18n.Meta) *BoundText {
	return &BoundText{
		Value:      value,
		sourceSpan: sourceSpan,
		I18n:       i18nMeta,
	}
}

// SourceSpan returns the source span
func (bt *BoundText) SourceSpan() *util.ParseSourceSpan {
	return bt.sourceSpan
}

// Visit visits the node with a visitor
func (bt *BoundText) Visit(visitor Visitor) interface{} {
	return visitor.VisitBoundText(bt)
}

// TextAttribute is a static attribute. ValueSpan is nil for an attribute
// without a value.
type TextAttribute struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
	I18n       *i18n.Meta
}

// NewTextAttribute creates a new TextAttribute
func NewTextAttribute(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan, i18nMeta *i18n.Meta) *TextAttribute {
	return &TextAttribute{
		Name:       name,
		Value:      value,
		sourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
		I18n:       i18nMeta,
	}
}

// SourceSpan returns the source span
func (ta *TextAttribute) SourceSpan() *util.ParseSourceSpan {
	return ta.sourceSpan
}

// Visit visits the node with a visitor
func (ta *TextAttribute) Visit(visitor Visitor) interface{} {
	return visitor.VisitTextAttribute(ta)
}

// BoundAttribute represents a bound attribute
type BoundAttribute struct {
	Name       string
	Type       expression_parser.BindingType
	Value      expression_parser.AST
	Unit       string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
	I18n       *i18n.Meta
}

// NewBoundAttribute creates a new BoundAttribute
func NewBoundAttribute(
	name string,
	bindingType expression_parser.BindingType,
	value expression_parser.AST,
	unit string,
	sourceSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	i18nMeta *i18n.Meta,
) *BoundAttribute {
	return &BoundAttribute{
		Name:       name,
		Type:       bindingType,
		Value:      value,
		Unit:       unit,
		sourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
		I18n:       i18nMeta,
	}
}

// FromBoundElementProperty creates a BoundAttribute from a BoundElementProperty
func FromBoundElementProperty(prop *expression_parser.BoundElementProperty, i18nMeta *i18n.Meta) *BoundAttribute {
	if prop.KeySpan == nil {
		panic("Unexpected state: keySpan must be defined for bound attributes")
	}
	return NewBoundAttribute(
		prop.Name,
		prop.Type,
		prop.Value,
		prop.Unit,
		prop.SourceSpan,
		prop.KeySpan,
		prop.ValueSpan,
		i18nMeta,
	)
}

// SourceSpan returns the source span
func (ba *BoundAttribute) SourceSpan() *util.ParseSourceSpan {
	return ba.sourceSpan
}

// Visit visits the node with a visitor
func (ba *BoundAttribute) Visit(visitor Visitor) interface{} {
	return visitor.VisitBoundAttribute(ba)
}

// BoundEvent is an event listener. Target is set for `(window:click)`-style
// listeners, Phase for animation events.
type BoundEvent struct {
	Name        string
	Type        expression_parser.ParsedEventType
	Handler     expression_parser.AST
	Target      string
	Phase       string
	sourceSpan  *util.ParseSourceSpan
	HandlerSpan *util.ParseSourceSpan
	KeySpan     *util.ParseSourceSpan
}

// NewBoundEvent creates a new BoundEvent
func NewBoundEvent(
	name string,
	eventType expression_parser.ParsedEventType,
	handler expression_parser.AST,
	target string,
	phase string,
	sourceSpan *util.ParseSourceSpan,
	handlerSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
) *BoundEvent {
	return &BoundEvent{
		Name:        name,
		Type:        eventType,
		Handler:     handler,
		Target:      target,
		Phase:       phase,
		sourceSpan:  sourceSpan,
		HandlerSpan: handlerSpan,
		KeySpan:     keySpan,
	}
}

// FromParsedEvent creates a BoundEvent from a ParsedEvent
func FromParsedEvent(event *expression_parser.ParsedEvent) *BoundEvent {
	var target, phase string
	switch event.Type {
	case expression_parser.ParsedEventTypeRegular:
		target = event.TargetOrPhase
	case expression_parser.ParsedEventTypeAnimation:
		phase = event.TargetOrPhase
	}

	if event.KeySpan == nil {
		panic("Unexpected state: keySpan must be defined for bound event")
	}

	return NewBoundEvent(
		event.Name,
		event.Type,
		event.Handler,
		target,
		phase,
		event.SourceSpan,
		event.HandlerSpan,
		event.KeySpan,
	)
}

// SourceSpan returns the source span
func (be *BoundEvent) SourceSpan() *util.ParseSourceSpan {
	return be.sourceSpan
}

// Visit visits the node with a visitor
func (be *BoundEvent) Visit(visitor Visitor) interface{} {
	return visitor.VisitBoundEvent(be)
}

// Element represents an element node
type Element struct {
	Name            string
	Attributes      []*TextAttribute
	Inputs          []*BoundAttribute
	Outputs         []*BoundEvent
	Children        []Node
	References      []*Reference
	IsSelfClosing   bool
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
	IsVoid          bool
	I18n            *i18n.Meta
}

// NewElement creates a new Element node
func NewElement(
	name string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	children []Node,
	references []*Reference,
	isSelfClosing bool,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
	isVoid bool,
	i18nMeta *i18n.Meta,
) *Element {
	return &Element{
		Name:            name,
		Attributes:      attributes,
		Inputs:          inputs,
		Outputs:         outputs,
		Children:        children,
		References:      references,
		IsSelfClosing:   isSelfClosing,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
		IsVoid:          isVoid,
		I18n:            i18nMeta,
	}
}

// SourceSpan returns the source span
func (e *Element) SourceSpan() *util.ParseSourceSpan {
	return e.sourceSpan
}

// Visit visits the node with a visitor
func (e *Element) Visit(visitor Visitor) interface{} {
	return visitor.VisitElement(e)
}

// Template is an `<ng-template>` or the implicit template created by a
// `*directive` attribute. For an implicit template TagName is the name of the
// host element, which is the template's only child, and the host's attributes
// are repeated on the template; it is empty when the host is itself an
// `<ng-template>`. TemplateAttrs holds the bindings produced by the
// microsyntax (*BoundAttribute or *TextAttribute).
type Template struct {
	TagName         string
	Attributes      []*TextAttribute
	Inputs          []*BoundAttribute
	Outputs         []*BoundEvent
	TemplateAttrs   []Node
	Children        []Node
	References      []*Reference
	Variables       []*Variable
	IsSelfClosing   bool
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
	I18n            *i18n.Meta
}

// NewTemplate creates a new Template node
func NewTemplate(
	tagName string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	templateAttrs []Node,
	children []Node,
	references []*Reference,
	variables []*Variable,
	isSelfClosing bool,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
	i18nMeta *i18n.Meta,
) *Template {
	return &Template{
		TagName:         tagName,
		Attributes:      attributes,
		Inputs:          inputs,
		Outputs:         outputs,
		TemplateAttrs:   templateAttrs,
		Children:        children,
		References:      references,
		Variables:       variables,
		IsSelfClosing:   isSelfClosing,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
		I18n:            i18nMeta,
	}
}

// SourceSpan returns the source span
func (t *Template) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

// Visit visits the node with a visitor
func (t *Template) Visit(visitor Visitor) interface{} {
	return visitor.VisitTemplate(t)
}

// Content is an `<ng-content>` projection slot.
type Content struct {
	Selector        string
	Attributes      []*TextAttribute
	Children        []Node
	IsSelfClosing   bool
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
	I18n            *i18n.Meta
}

// NewContent creates a new Content node
func NewContent(
	selector string,
	attributes []*TextAttribute,
	children []Node,
	isSelfClosing bool,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
	i18nMeta *i18n.Meta,
) *Content {
	return &Content{
		Selector:        selector,
		Attributes:      attributes,
		Children:        children,
		IsSelfClosing:   isSelfClosing,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
		I18n:            i18nMeta,
	}
}

// SourceSpan returns the source span
func (c *Content) SourceSpan() *util.ParseSourceSpan {
	return c.sourceSpan
}

// Visit visits the node with a visitor
func (c *Content) Visit(visitor Visitor) interface{} {
	return visitor.VisitContent(c)
}

// Variable is a template-local variable bound to a context export.
type Variable struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewVariable creates a new Variable node
func NewVariable(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Variable {
	return &Variable{
		Name:       name,
		Value:      value,
		sourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
	}
}

// SourceSpan returns the source span
func (v *Variable) SourceSpan() *util.ParseSourceSpan {
	return v.sourceSpan
}

// Visit visits the node with a visitor
func (v *Variable) Visit(visitor Visitor) interface{} {
	return visitor.VisitVariable(v)
}

// Reference is `#name` or `#name="exportAs"`.
type Reference struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewReference creates a new Reference node
func NewReference(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Reference {
	return &Reference{
		Name:       name,
		Value:      value,
		sourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
	}
}

// SourceSpan returns the source span
func (r *Reference) SourceSpan() *util.ParseSourceSpan {
	return r.sourceSpan
}

// Visit visits the node with a visitor
func (r *Reference) Visit(visitor Visitor) interface{} {
	return visitor.VisitReference(r)
}

// Icu is an ICU message. Vars maps the switch value of the message and of
// every nested message (VAR_PLURAL, VAR_SELECT_1, ...) to its expression;
// Placeholders maps the interpolations found in the cases (INTERPOLATION,
// INTERPOLATION_1, ...).
type Icu struct {
	Vars         map[string]*BoundText
	Placeholders map[string]Node
	sourceSpan   *util.ParseSourceSpan
	I18n         *i18n.Meta
}

// NewIcu creates a new Icu node
func NewIcu(
	vars map[string]*BoundText,
	placeholders map[string]Node,
	sourceSpan *util.ParseSourceSpan,
	i18nMeta *i18n.Meta,
) *Icu {
	return &Icu{
		Vars:         vars,
		Placeholders: placeholders,
		sourceSpan:   sourceSpan,
		I18n:         i18nMeta,
	}
}

// SourceSpan returns the source span
func (i *Icu) SourceSpan() *util.ParseSourceSpan {
	return i.sourceSpan
}

// Visit visits the node with a visitor
func (i *Icu) Visit(visitor Visitor) interface{} {
	return visitor.VisitIcu(i)
}

// Visitor has one method per node kind.
type Visitor interface {
	VisitElement(element *Element) interface{}
	VisitTemplate(template *Template) interface{}
	VisitContent(content *Content) interface{}
	VisitVariable(variable *Variable) interface{}
	VisitReference(reference *Reference) interface{}
	VisitTextAttribute(attribute *TextAttribute) interface{}
	VisitBoundAttribute(attribute *BoundAttribute) interface{}
	VisitBoundEvent(event *BoundEvent) interface{}
	VisitText(text *Text) interface{}
	VisitBoundText(text *BoundText) interface{}
	VisitIcu(icu *Icu) interface{}
}

// VisitAll visits nodes in order and collects the non-nil results.
func VisitAll(visitor Visitor, nodes []Node) []interface{} {
	result := []interface{}{}
	for _, node := range nodes {
		if newNode := node.Visit(visitor); newNode != nil {
			result = append(result, newNode)
		}
	}
	return result
}

// Children returns the direct sub-nodes of node: the attributes, inputs,
// outputs, references and variables of an element or template, then its
// children.
func Children(node Node) []Node {
	var result []Node
	switch n := node.(type) {
	case *Element:
		result = appendAll(result, n.Attributes)
		result = appendAll(result, n.Inputs)
		result = appendAll(result, n.Outputs)
		result = appendAll(result, n.References)
		result = append(result, n.Children...)
	case *Template:
		result = appendAll(result, n.Attributes)
		result = appendAll(result, n.Inputs)
		result = appendAll(result, n.Outputs)
		result = append(result, n.TemplateAttrs...)
		result = appendAll(result, n.References)
		result = appendAll(result, n.Variables)
		result = append(result, n.Children...)
	case *Content:
		result = appendAll(result, n.Attributes)
		result = append(result, n.Children...)
	case *Icu:
		for _, v := range n.Vars {
			result = append(result, v)
		}
		for _, p := range n.Placeholders {
			result = append(result, p)
		}
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].SourceSpan().Start.Offset < result[j].SourceSpan().Start.Offset
		})
	}
	return result
}

func appendAll[T Node](result []Node, nodes []T) []Node {
	for _, node := range nodes {
		result = append(result, node)
	}
	return result
}
