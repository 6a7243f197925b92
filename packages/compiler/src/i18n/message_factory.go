package i18n

import (
	"fmt"
	"regexp"
	"strings"

	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/util"
)

// VisitNodeFn is called with every HTML node and the i18n node built for it.
// It returns the i18n node to keep.
type VisitNodeFn func(html ml_parser.Node, i18n Node) Node

// I18nMessageFactory converts HTML nodes to an i18n Message
type I18nMessageFactory func(
	nodes []ml_parser.Node,
	meaning string,
	description string,
	customID string,
	visitNodeFn VisitNodeFn,
) *Message

// CreateI18nMessageFactory returns a function converting HTML nodes to an i18n Message.
// Interpolated expressions are normalized by parsing and re-serializing them
// unless preserveExpressionWhitespace is set.
func CreateI18nMessageFactory(
	interpolationConfig *ml_parser.InterpolationConfig,
	preserveExpressionWhitespace bool,
) I18nMessageFactory {
	if interpolationConfig == nil {
		interpolationConfig = ml_parser.DefaultInterpolationConfig
	}
	visitor := &i18nVisitor{
		expressionParser:             expression_parser.NewParser(expression_parser.NewLexer()),
		interpolationConfig:          interpolationConfig,
		preserveExpressionWhitespace: preserveExpressionWhitespace,
	}
	return visitor.toI18nMessage
}

// i18nMessageVisitorContext is the state of one message conversion
type i18nMessageVisitorContext struct {
	isIcu                bool
	icuDepth             int
	placeholderRegistry  *PlaceholderRegistry
	placeholderToContent map[string]MessagePlaceholder
	placeholderToMessage map[string]*Message
	visitNodeFn          VisitNodeFn
}

func noopVisitNodeFn(html ml_parser.Node, i18n Node) Node {
	return i18n
}

// i18nVisitor implements ml_parser.Visitor to convert HTML nodes to i18n nodes
type i18nVisitor struct {
	expressionParser             *expression_parser.Parser
	interpolationConfig          *ml_parser.InterpolationConfig
	preserveExpressionWhitespace bool
}

func (v *i18nVisitor) toI18nMessage(
	nodes []ml_parser.Node,
	meaning string,
	description string,
	customID string,
	visitNodeFn VisitNodeFn,
) *Message {
	_, isIcu := singleNode(nodes).(*ml_parser.Expansion)
	context := &i18nMessageVisitorContext{
		isIcu:                isIcu,
		placeholderRegistry:  NewPlaceholderRegistry(),
		placeholderToContent: make(map[string]MessagePlaceholder),
		placeholderToMessage: make(map[string]*Message),
		visitNodeFn:          visitNodeFn,
	}
	if visitNodeFn == nil {
		context.visitNodeFn = noopVisitNodeFn
	}

	i18nodes := v.visitAll(nodes, context)

	return NewMessage(
		i18nodes,
		context.placeholderToContent,
		context.placeholderToMessage,
		meaning,
		description,
		customID,
	)
}

func singleNode(nodes []ml_parser.Node) ml_parser.Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return nil
}

func (v *i18nVisitor) visitAll(nodes []ml_parser.Node, context *i18nMessageVisitorContext) []Node {
	result := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		if i18nNode, ok := node.Visit(v, context).(Node); ok && i18nNode != nil {
			result = append(result, i18nNode)
		}
	}
	return result
}

func (v *i18nVisitor) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	ctx := context.(*i18nMessageVisitorContext)

	children := v.visitAll(element.Children, ctx)
	attrs := make(map[string]string, len(element.Attrs))
	for _, attr := range element.Attrs {
		attrs[attr.Name] = attr.Value
	}

	isVoid := element.IsVoid || ml_parser.GetHtmlTagDefinition(element.Name).IsVoid
	startPhName := ctx.placeholderRegistry.GetStartTagPlaceholderName(element.Name, attrs, isVoid)
	ctx.placeholderToContent[startPhName] = MessagePlaceholder{
		Text:       element.StartSourceSpan.String(),
		SourceSpan: element.StartSourceSpan,
	}

	closePhName := ""
	if !isVoid {
		closePhName = ctx.placeholderRegistry.GetCloseTagPlaceholderName(element.Name)
		endSpan := element.EndSourceSpan
		if endSpan == nil {
			endSpan = element.SourceSpan()
		}
		ctx.placeholderToContent[closePhName] = MessagePlaceholder{
			Text:       fmt.Sprintf("</%s>", element.Name),
			SourceSpan: endSpan,
		}
	}

	node := NewTagPlaceholder(
		element.Name,
		attrs,
		startPhName,
		closePhName,
		children,
		isVoid,
		element.SourceSpan(),
		element.StartSourceSpan,
		element.EndSourceSpan,
	)
	return ctx.visitNodeFn(element, node)
}

func (v *i18nVisitor) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	ctx := context.(*i18nMessageVisitorContext)

	valueSpan := attribute.ValueSpan
	if valueSpan == nil {
		valueSpan = attribute.SourceSpan()
	}
	var node Node
	if len(attribute.ValueTokens) <= 1 {
		node = NewText(attribute.Value, valueSpan)
	} else {
		node = v.visitTextWithInterpolation(attribute.ValueTokens, valueSpan, ctx)
	}
	return ctx.visitNodeFn(attribute, node)
}

func (v *i18nVisitor) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	ctx := context.(*i18nMessageVisitorContext)

	var node Node
	if len(text.Tokens) <= 1 {
		node = NewText(text.Value, text.SourceSpan())
	} else {
		node = v.visitTextWithInterpolation(text.Tokens, text.SourceSpan(), ctx)
	}
	return ctx.visitNodeFn(text, node)
}

func (v *i18nVisitor) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	return nil
}

func (v *i18nVisitor) VisitExpansion(icu *ml_parser.Expansion, context interface{}) interface{} {
	ctx := context.(*i18nMessageVisitorContext)

	ctx.icuDepth++
	cases := make([]IcuCase, 0, len(icu.Cases))
	for _, c := range icu.Cases {
		cases = append(cases, IcuCase{
			Value: c.Value,
			Node:  NewContainer(v.visitAll(c.Expression, ctx), c.ExpSourceSpan),
		})
	}
	i18nIcu := NewIcu(icu.SwitchValue, icu.Type, cases, icu.SourceSpan(), "")
	ctx.icuDepth--

	if ctx.isIcu || ctx.icuDepth > 0 {
		// The whole message is an ICU, or this ICU is nested in another one.
		expPh := ctx.placeholderRegistry.GetUniquePlaceholder("VAR_" + icu.Type)
		i18nIcu.ExpressionPlaceholder = expPh
		ctx.placeholderToContent[expPh] = MessagePlaceholder{
			Text:       icu.SwitchValue,
			SourceSpan: icu.SwitchValueSourceSpan,
		}
		return ctx.visitNodeFn(icu, i18nIcu)
	}

	// ICU placeholders are replaced with the translation of the ICU, not its original content.
	phName := ctx.placeholderRegistry.GetPlaceholderName("ICU", icu.SourceSpan().String())
	ctx.placeholderToMessage[phName] = v.toI18nMessage([]ml_parser.Node{icu}, "", "", "", nil)
	node := NewIcuPlaceholder(i18nIcu, phName, icu.SourceSpan())
	return ctx.visitNodeFn(icu, node)
}

func (v *i18nVisitor) VisitExpansionCase(expansionCase *ml_parser.ExpansionCase, context interface{}) interface{} {
	// Cases are converted by VisitExpansion.
	return nil
}

// visitTextWithInterpolation converts text and interpolated tokens into text and placeholder pieces
func (v *i18nVisitor) visitTextWithInterpolation(
	tokens []*ml_parser.Token,
	sourceSpan *util.ParseSourceSpan,
	context *i18nMessageVisitorContext,
) Node {
	nodes := make([]Node, 0, len(tokens))
	hasInterpolation := false

	for _, token := range tokens {
		if token.IsInterpolation() {
			hasInterpolation = true
			expression := ""
			if len(token.Parts) > 1 {
				expression = token.Parts[1]
			}
			baseName := extractPlaceholderName(expression)
			if baseName == "" {
				baseName = "INTERPOLATION"
			}
			phName := context.placeholderRegistry.GetPlaceholderName(baseName, expression)

			if v.preserveExpressionWhitespace {
				context.placeholderToContent[phName] = MessagePlaceholder{
					Text:       strings.Join(token.Parts, ""),
					SourceSpan: token.SourceSpan,
				}
				nodes = append(nodes, NewPlaceholder(expression, phName, token.SourceSpan))
				continue
			}
			normalized := v.normalizeExpression(expression, token.SourceSpan)
			context.placeholderToContent[phName] = MessagePlaceholder{
				Text:       v.interpolationConfig.Start + normalized + v.interpolationConfig.End,
				SourceSpan: token.SourceSpan,
			}
			nodes = append(nodes, NewPlaceholder(normalized, phName, token.SourceSpan))
			continue
		}

		// TEXT, ATTR_VALUE_TEXT and ENCODED_ENTITY keep their (decoded) value in the first part.
		if len(token.Parts) == 0 || token.Parts[0] == "" {
			continue
		}
		textValue := token.Parts[0]
		if len(nodes) > 0 {
			if previous, ok := nodes[len(nodes)-1].(*Text); ok {
				span := previous.SourceSpan()
				nodes[len(nodes)-1] = NewText(
					previous.Value+textValue,
					util.NewParseSourceSpan(span.Start, token.SourceSpan.End, span.FullStart, span.Details),
				)
				continue
			}
		}
		nodes = append(nodes, NewText(textValue, token.SourceSpan))
	}

	if hasInterpolation {
		return NewContainer(nodes, sourceSpan)
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return NewText("", sourceSpan)
}

// normalizeExpression normalizes expression whitespace by parsing and re-serializing it
func (v *i18nVisitor) normalizeExpression(expression string, sourceSpan *util.ParseSourceSpan) string {
	parsed := v.expressionParser.ParseBinding(expression, sourceSpan, sourceSpan.Start.Offset, v.interpolationConfig)
	if len(parsed.Errors) > 0 {
		return strings.TrimSpace(expression)
	}
	return expression_parser.Serialize(parsed.AST)
}

var customPhExp = regexp.MustCompile(`//[\s\S]*i18n[\s\S]*\([\s\S]*ph[\s\S]*=[\s\S]*("|')([\s\S]*?)("|')[\s\S]*\)`)

// extractPlaceholderName reads the name from a `// i18n(ph="name")` comment
func extractPlaceholderName(input string) string {
	matches := customPhExp.FindStringSubmatch(input)
	if len(matches) > 3 && matches[1] == matches[3] {
		return matches[2]
	}
	return ""
}
