package i18n

import (
	"strings"

	"ngc-template/packages/compiler/src/util"
)

// MessagePlaceholder describes the text contents of a placeholder as it appears in the template
type MessagePlaceholder struct {
	// Text is the text contents of the placeholder
	Text string

	// SourceSpan is the source span of the placeholder
	SourceSpan *util.ParseSourceSpan
}

// MessageSpan represents a span in the source file
// line and columns indexes are 1 based
type MessageSpan struct {
	FilePath  string `yaml:"file"`
	StartLine int    `yaml:"startLine"`
	StartCol  int    `yaml:"startCol"`
	EndLine   int    `yaml:"endLine"`
	EndCol    int    `yaml:"endCol"`
}

// Message represents an i18n message
type Message struct {
	Sources   []MessageSpan
	ID        string
	LegacyIDs []string
	// MessageString is the message in `$localize` form, placeholders written as `{$NAME}`.
	MessageString string
	Nodes         []Node
	// Placeholders maps placeholder names to the template text they stand for.
	Placeholders map[string]MessagePlaceholder
	// PlaceholderToMessage maps ICU placeholder names to the message of the ICU.
	PlaceholderToMessage map[string]*Message
	Meaning              string
	Description          string
	CustomID             string
}

// NewMessage creates a new Message
func NewMessage(
	nodes []Node,
	placeholders map[string]MessagePlaceholder,
	placeholderToMessage map[string]*Message,
	meaning string,
	description string,
	customID string,
) *Message {
	msg := &Message{
		Nodes:                nodes,
		Placeholders:         placeholders,
		PlaceholderToMessage: placeholderToMessage,
		Meaning:              meaning,
		Description:          description,
		CustomID:             customID,
		LegacyIDs:            []string{},
	}

	msg.ID = msg.CustomID
	msg.MessageString = SerializeMessage(msg.Nodes)

	if len(nodes) > 0 {
		firstSpan := nodes[0].SourceSpan()
		lastSpan := nodes[len(nodes)-1].SourceSpan()
		msg.Sources = []MessageSpan{
			{
				FilePath:  firstSpan.Start.File.URL,
				StartLine: firstSpan.Start.Line + 1,
				StartCol:  firstSpan.Start.Col + 1,
				EndLine:   lastSpan.End.Line + 1,
				EndCol:    lastSpan.End.Col + 1,
			},
		}
	} else {
		msg.Sources = []MessageSpan{}
	}

	return msg
}

// Node is the base interface for all i18n AST nodes
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
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
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Container groups the nodes of a text with interpolations or of an ICU case
type Container struct {
	Children   []Node
	sourceSpan *util.ParseSourceSpan
}

// NewContainer creates a new Container node
func NewContainer(children []Node, sourceSpan *util.ParseSourceSpan) *Container {
	return &Container{
		Children:   children,
		sourceSpan: sourceSpan,
	}
}

// SourceSpan returns the source span
func (c *Container) SourceSpan() *util.ParseSourceSpan {
	return c.sourceSpan
}

// Visit visits the node with a visitor
func (c *Container) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitContainer(c, context)
}

// IcuCase is one `value {...}` case of an ICU message
type IcuCase struct {
	Value string
	Node  Node
}

// Icu represents an ICU message node. Cases keep their template order.
type Icu struct {
	Expression            string
	Type                  string
	Cases                 []IcuCase
	sourceSpan            *util.ParseSourceSpan
	ExpressionPlaceholder string
}

// NewIcu creates a new Icu node
func NewIcu(expression string, icuType string, cases []IcuCase, sourceSpan *util.ParseSourceSpan, expressionPlaceholder string) *Icu {
	return &Icu{
		Expression:            expression,
		Type:                  icuType,
		Cases:                 cases,
		sourceSpan:            sourceSpan,
		ExpressionPlaceholder: expressionPlaceholder,
	}
}

// SourceSpan returns the source span
func (i *Icu) SourceSpan() *util.ParseSourceSpan {
	return i.sourceSpan
}

// Visit visits the node with a visitor
func (i *Icu) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitIcu(i, context)
}

// TagPlaceholder stands for an element inside a message. Void elements have
// no CloseName and no children.
type TagPlaceholder struct {
	Tag             string
	Attrs           map[string]string
	StartName       string
	CloseName       string
	Children        []Node
	IsVoid          bool
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewTagPlaceholder creates a new TagPlaceholder node
func NewTagPlaceholder(
	tag string,
	attrs map[string]string,
	startName string,
	closeName string,
	children []Node,
	isVoid bool,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
) *TagPlaceholder {
	return &TagPlaceholder{
		Tag:             tag,
		Attrs:           attrs,
		StartName:       startName,
		CloseName:       closeName,
		Children:        children,
		IsVoid:          isVoid,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// SourceSpan returns the source span
func (t *TagPlaceholder) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

// Visit visits the node with a visitor
func (t *TagPlaceholder) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitTagPlaceholder(t, context)
}

// Placeholder stands for an interpolation; Value is the normalized expression
type Placeholder struct {
	Value      string
	Name       string
	sourceSpan *util.ParseSourceSpan
}

// NewPlaceholder creates a new Placeholder node
func NewPlaceholder(value string, name string, sourceSpan *util.ParseSourceSpan) *Placeholder {
	return &Placeholder{
		Value:      value,
		Name:       name,
		sourceSpan: sourceSpan,
	}
}

// SourceSpan returns the source span
func (p *Placeholder) SourceSpan() *util.ParseSourceSpan {
	return p.sourceSpan
}

// Visit visits the node with a visitor
func (p *Placeholder) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitPlaceholder(p, context)
}

// IcuPlaceholder stands for an ICU message nested in a larger message
type IcuPlaceholder struct {
	Value      *Icu
	Name       string
	sourceSpan *util.ParseSourceSpan
}

// NewIcuPlaceholder creates a new IcuPlaceholder node
func NewIcuPlaceholder(value *Icu, name string, sourceSpan *util.ParseSourceSpan) *IcuPlaceholder {
	return &IcuPlaceholder{
		Value:      value,
		Name:       name,
		sourceSpan: sourceSpan,
	}
}

// SourceSpan returns the source span
func (i *IcuPlaceholder) SourceSpan() *util.ParseSourceSpan {
	return i.sourceSpan
}

// Visit visits the node with a visitor
func (i *IcuPlaceholder) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitIcuPlaceholder(i, context)
}

// Visitor is the interface for visiting i18n AST nodes
type Visitor interface {
	VisitText(text *Text, context interface{}) interface{}
	VisitContainer(container *Container, context interface{}) interface{}
	VisitIcu(icu *Icu, context interface{}) interface{}
	VisitTagPlaceholder(ph *TagPlaceholder, context interface{}) interface{}
	VisitPlaceholder(ph *Placeholder, context interface{}) interface{}
	VisitIcuPlaceholder(ph *IcuPlaceholder, context interface{}) interface{}
}

// SerializeMessage serializes the message to the `$localize` message string format
func SerializeMessage(messageNodes []Node) string {
	visitor := &localizeMessageStringVisitor{}
	var sb strings.Builder
	for _, n := range messageNodes {
		sb.WriteString(n.Visit(visitor, nil).(string))
	}
	return sb.String()
}

type localizeMessageStringVisitor struct{}

func (v *localizeMessageStringVisitor) visitAll(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Visit(v, nil).(string))
	}
	return sb.String()
}

func (v *localizeMessageStringVisitor) VisitText(text *Text, context interface{}) interface{} {
	return text.Value
}

func (v *localizeMessageStringVisitor) VisitContainer(container *Container, context interface{}) interface{} {
	return v.visitAll(container.Children)
}

func (v *localizeMessageStringVisitor) VisitIcu(icu *Icu, context interface{}) interface{} {
	strCases := make([]string, 0, len(icu.Cases))
	for _, c := range icu.Cases {
		strCases = append(strCases, c.Value+" {"+c.Node.Visit(v, nil).(string)+"}")
	}
	return "{" + icu.ExpressionPlaceholder + ", " + icu.Type + ", " + strings.Join(strCases, " ") + "}"
}

func (v *localizeMessageStringVisitor) VisitTagPlaceholder(ph *TagPlaceholder, context interface{}) interface{} {
	if ph.IsVoid {
		return "{$" + ph.StartName + "}"
	}
	return "{$" + ph.StartName + "}" + v.visitAll(ph.Children) + "{$" + ph.CloseName + "}"
}

func (v *localizeMessageStringVisitor) VisitPlaceholder(ph *Placeholder, context interface{}) interface{} {
	return "{$" + ph.Name + "}"
}

func (v *localizeMessageStringVisitor) VisitIcuPlaceholder(ph *IcuPlaceholder, context interface{}) interface{} {
	return "{$" + ph.Name + "}"
}
