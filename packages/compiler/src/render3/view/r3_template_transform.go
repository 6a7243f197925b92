package view

import (
	"fmt"
	"regexp"
	"strings"

	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/i18n"
	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/render3"
	"ngc-template/packages/compiler/src/template_parser"
	"ngc-template/packages/compiler/src/util"
)

var BIND_NAME_REGEXP = regexp.MustCompile(`^(?:(bind-)|(let-)|(ref-|#)|(on-)|(bindon-)|(@))(.*)$`)

// Group indices for BIND_NAME_REGEXP
const (
	KW_BIND_IDX   = 1
	KW_LET_IDX    = 2
	KW_REF_IDX    = 3
	KW_ON_IDX     = 4
	KW_BINDON_IDX = 5
	KW_AT_IDX     = 6
	IDENT_KW_IDX  = 7
)

type bindingDelims struct {
	start string
	end   string
}

var (
	bananaBoxDelims = bindingDelims{start: "[(", end: ")]"}
	propertyDelims  = bindingDelims{start: "[", end: "]"}
	eventDelims     = bindingDelims{start: "(", end: ")"}
)

const TEMPLATE_ATTR_PREFIX = "*"

// I18N_ICU_VAR_PREFIX prefixes the name of an ICU switch variable.
const I18N_ICU_VAR_PREFIX = "VAR_"

// I18N_ICU_INTERPOLATION names the interpolation placeholders of an ICU.
const I18N_ICU_INTERPOLATION = "INTERPOLATION"

// Render3ParseResult is the result of converting an HTML AST to a Render3 AST
type Render3ParseResult struct {
	Nodes              []render3.Node
	Errors             []*util.ParseError
	Styles             []string
	StyleUrls          []string
	NgContentSelectors []string
}

// HtmlAstToRender3Ast converts an HTML AST to a Render3 AST. Binding errors
// are collected together with the structural errors of the conversion.
func HtmlAstToRender3Ast(
	htmlNodes []ml_parser.Node,
	bindingParser *template_parser.BindingParser,
) *Render3ParseResult {
	transformer := NewHtmlAstToIvyAst(bindingParser)
	ivyNodes := visitAllToR3(transformer, htmlNodes)

	allErrors := append([]*util.ParseError{}, bindingParser.GetErrors()...)
	allErrors = append(allErrors, transformer.Errors...)

	return &Render3ParseResult{
		Nodes:              ivyNodes,
		Errors:             allErrors,
		Styles:             transformer.Styles,
		StyleUrls:          transformer.StyleUrls,
		NgContentSelectors: transformer.NgContentSelectors,
	}
}

// HtmlAstToIvyAst visits an HTML AST and produces Render3 nodes.
type HtmlAstToIvyAst struct {
	bindingParser      *template_parser.BindingParser
	Errors             []*util.ParseError
	Styles             []string
	StyleUrls          []string
	NgContentSelectors []string
}

// NewHtmlAstToIvyAst creates a new HtmlAstToIvyAst
func NewHtmlAstToIvyAst(bindingParser *template_parser.BindingParser) *HtmlAstToIvyAst {
	return &HtmlAstToIvyAst{
		bindingParser:      bindingParser,
		Styles:             []string{},
		StyleUrls:          []string{},
		NgContentSelectors: []string{},
	}
}

// VisitElement converts an element. `<script>`, `<style>` and resolvable
// stylesheet links are consumed and produce no node.
func (h *HtmlAstToIvyAst) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	preparsed := template_parser.PreparseElement(element)
	switch preparsed.Type {
	case template_parser.PreparsedElementTypeScript:
		return nil
	case template_parser.PreparsedElementTypeStyle:
		if contents, ok := textContents(element); ok {
			h.Styles = append(h.Styles, contents)
		}
		return nil
	case template_parser.PreparsedElementTypeStylesheet:
		if template_parser.IsStyleUrlResolvable(preparsed.HrefAttr) {
			h.StyleUrls = append(h.StyleUrls, preparsed.HrefAttr)
			return nil
		}
	}

	isTemplateElement := ml_parser.IsNgTemplate(element.Name)

	var parsedProperties []*expression_parser.ParsedProperty
	var boundEvents []*render3.BoundEvent
	var variables []*render3.Variable
	var references []*render3.Reference
	var attributes []*render3.TextAttribute

	var templateParsedProperties []*expression_parser.ParsedProperty
	var templateVariables []*render3.Variable

	elementHasInlineTemplate := false
	elementI18n, i18nAttrsMeta, attrs := extractI18nMeta(element.Attrs)

	for _, attribute := range attrs {
		hasBinding := false
		isTemplateBinding := false
		normalizedName := normalizeAttributeName(attribute.Name)

		if normalizedName == TEMPLATE_ATTR_PREFIX {
			h.reportError("Template binding is missing its key. Use *key=\"expression\"", attribute.SourceSpan())
			isTemplateBinding = true
		} else if strings.HasPrefix(normalizedName, TEMPLATE_ATTR_PREFIX) {
			if elementHasInlineTemplate {
				h.reportError(
					"Can't have multiple template bindings on one element. Use only one attribute prefixed with *",
					attribute.SourceSpan(),
				)
			}
			isTemplateBinding = true
			elementHasInlineTemplate = true
			templateKey := normalizedName[len(TEMPLATE_ATTR_PREFIX):]

			absoluteValueOffset := attribute.SourceSpan().Start.Offset + len(attribute.Name)
			if attribute.ValueSpan != nil {
				absoluteValueOffset = attribute.ValueSpan.Start.Offset
			}

			var parsedVariables []*expression_parser.ParsedVariable
			h.bindingParser.ParseInlineTemplateBinding(
				templateKey,
				attribute.Value,
				attribute.SourceSpan(),
				absoluteValueOffset,
				&templateParsedProperties,
				&parsedVariables,
			)
			for _, v := range parsedVariables {
				templateVariables = append(templateVariables,
					render3.NewVariable(v.Name, v.Value, v.SourceSpan, v.KeySpan, v.ValueSpan))
			}
		} else {
			hasBinding = h.parseAttribute(isTemplateElement, attribute, &parsedProperties, &boundEvents, &variables, &references)
		}

		if !hasBinding && !isTemplateBinding {
			attributes = append(attributes, h.textAttribute(attribute, i18nAttrsMeta))
		}
	}

	var children []render3.Node
	if preparsed.NonBindable {
		children = visitAllToR3(nonBindableVisitor{}, element.Children)
	} else {
		children = visitAllToR3(h, element.Children)
	}

	var parsedElement render3.Node
	switch {
	case preparsed.Type == template_parser.PreparsedElementTypeNgContent:
		selector := preparsed.SelectAttr
		contentAttrs := make([]*render3.TextAttribute, 0, len(attrs))
		for _, attr := range attrs {
			contentAttrs = append(contentAttrs, h.textAttribute(attr, i18nAttrsMeta))
		}
		parsedElement = render3.NewContent(
			selector,
			contentAttrs,
			children,
			element.IsSelfClosing,
			element.SourceSpan(),
			element.StartSourceSpan,
			element.EndSourceSpan,
			elementI18n,
		)
		h.NgContentSelectors = append(h.NgContentSelectors, selector)
	case isTemplateElement:
		literal, bound := h.extractAttributes(parsedProperties, i18nAttrsMeta)
		parsedElement = render3.NewTemplate(
			element.Name,
			append(attributes, literal...),
			bound,
			boundEvents,
			nil,
			children,
			references,
			variables,
			element.IsSelfClosing,
			element.SourceSpan(),
			element.StartSourceSpan,
			element.EndSourceSpan,
			elementI18n,
		)
	default:
		literal, bound := h.extractAttributes(parsedProperties, i18nAttrsMeta)
		parsedElement = render3.NewElement(
			element.Name,
			append(attributes, literal...),
			bound,
			boundEvents,
			children,
			references,
			element.IsSelfClosing,
			element.SourceSpan(),
			element.StartSourceSpan,
			element.EndSourceSpan,
			element.IsVoid,
			elementI18n,
		)
	}

	if elementHasInlineTemplate {
		return h.wrapInTemplate(element, parsedElement, templateParsedProperties, templateVariables, i18nAttrsMeta, elementI18n)
	}
	return parsedElement
}

// wrapInTemplate builds the implicit template of a `*directive` element. The
// host's plain attributes and bindings are repeated on the template so that
// directives on the template can match them.
func (h *HtmlAstToIvyAst) wrapInTemplate(
	element *ml_parser.Element,
	parsedElement render3.Node,
	templateParsedProperties []*expression_parser.ParsedProperty,
	templateVariables []*render3.Variable,
	i18nAttrsMeta map[string]*i18n.Meta,
	elementI18n *i18n.Meta,
) *render3.Template {
	literal, bound := h.extractAttributes(templateParsedProperties, i18nAttrsMeta)
	templateAttrs := make([]render3.Node, 0, len(literal)+len(bound))
	for _, attr := range literal {
		templateAttrs = append(templateAttrs, attr)
	}
	for _, attr := range bound {
		templateAttrs = append(templateAttrs, attr)
	}

	var (
		hoistedAttrs   []*render3.TextAttribute
		hoistedInputs  []*render3.BoundAttribute
		hoistedOutputs []*render3.BoundEvent
		tagName        string
	)
	switch el := parsedElement.(type) {
	case *render3.Element:
		hoistedAttrs, hoistedInputs, hoistedOutputs = el.Attributes, el.Inputs, el.Outputs
		tagName = el.Name
	case *render3.Content:
		tagName = element.Name
	case *render3.Template:
		// An `<ng-template *dir>` keeps its own i18n marker.
		elementI18n = nil
	}

	return render3.NewTemplate(
		tagName,
		hoistedAttrs,
		hoistedInputs,
		hoistedOutputs,
		templateAttrs,
		[]render3.Node{parsedElement},
		nil,
		templateVariables,
		element.IsSelfClosing,
		element.SourceSpan(),
		element.StartSourceSpan,
		element.EndSourceSpan,
		elementI18n,
	)
}

// VisitAttribute converts a plain attribute.
func (h *HtmlAstToIvyAst) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	return h.textAttribute(attribute, nil)
}

func (h *HtmlAstToIvyAst) textAttribute(attribute *ml_parser.Attribute, i18nAttrsMeta map[string]*i18n.Meta) *render3.TextAttribute {
	return render3.NewTextAttribute(
		attribute.Name,
		attribute.Value,
		attribute.SourceSpan(),
		attribute.KeySpan,
		attribute.ValueSpan,
		i18nAttrsMeta[attribute.Name],
	)
}

// VisitText converts a text node: a BoundText when it holds interpolations,
// a Text otherwise.
func (h *HtmlAstToIvyAst) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	return h.visitTextWithInterpolation(text.Value, text.SourceSpan(), text.Tokens, nil)
}

func (h *HtmlAstToIvyAst) visitTextWithInterpolation(
	value string,
	sourceSpan *util.ParseSourceSpan,
	tokens []*ml_parser.Token,
	i18nMeta *i18n.Meta,
) render3.Node {
	valueNoNgsp := ml_parser.ReplaceNgsp(value)
	expr := h.bindingParser.ParseInterpolation(valueNoNgsp, sourceSpan, tokens)
	if expr == nil {
		return render3.NewText(valueNoNgsp, sourceSpan)
	}
	if interpolation, ok := expr.AST.(*expression_parser.Interpolation); ok {
		for i, s := range interpolation.Strings {
			interpolation.Strings[i] = ml_parser.ReplaceNgsp(s)
		}
	}
	return render3.NewBoundText(expr, sourceSpan, i18nMeta)
}

// VisitComment drops comments.
func (h *HtmlAstToIvyAst) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	return nil
}

// VisitExpansion converts an ICU message. The switch value of the message
// and of every nested message becomes a var; every interpolated text inside
// the cases becomes a placeholder.
func (h *HtmlAstToIvyAst) VisitExpansion(expansion *ml_parser.Expansion, context interface{}) interface{} {
	vars := map[string]*render3.BoundText{}
	placeholders := map[string]render3.Node{}
	h.collectIcuParts(expansion, vars, placeholders)
	return render3.NewIcu(vars, placeholders, expansion.SourceSpan(), nil)
}

// VisitExpansionCase is unreachable: cases are read by VisitExpansion.
func (h *HtmlAstToIvyAst) VisitExpansionCase(expansionCase *ml_parser.ExpansionCase, context interface{}) interface{} {
	return nil
}

func (h *HtmlAstToIvyAst) collectIcuParts(
	expansion *ml_parser.Expansion,
	vars map[string]*render3.BoundText,
	placeholders map[string]render3.Node,
) {
	name := uniqueName(vars, I18N_ICU_VAR_PREFIX+strings.ToUpper(expansion.Type))
	ast := h.bindingParser.ParseInterpolationExpression(expansion.SwitchValue, expansion.SwitchValueSourceSpan)
	vars[name] = render3.NewBoundText(ast, expansion.SwitchValueSourceSpan, nil)
	for _, expansionCase := range expansion.Cases {
		h.collectIcuCaseParts(expansionCase.Expression, vars, placeholders)
	}
}

func (h *HtmlAstToIvyAst) collectIcuCaseParts(
	nodes []ml_parser.Node,
	vars map[string]*render3.BoundText,
	placeholders map[string]render3.Node,
) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *ml_parser.Text:
			if expr := h.bindingParser.ParseInterpolation(n.Value, n.SourceSpan(), n.Tokens); expr != nil {
				placeholders[uniqueName(placeholders, I18N_ICU_INTERPOLATION)] = render3.NewBoundText(expr, n.SourceSpan(), nil)
			}
		case *ml_parser.Element:
			h.collectIcuCaseParts(n.Children, vars, placeholders)
		case *ml_parser.Expansion:
			h.collectIcuParts(n, vars, placeholders)
		}
	}
}

// extractAttributes splits parsed properties into literal attributes and
// bound attributes.
func (h *HtmlAstToIvyAst) extractAttributes(
	properties []*expression_parser.ParsedProperty,
	i18nPropsMeta map[string]*i18n.Meta,
) ([]*render3.TextAttribute, []*render3.BoundAttribute) {
	var literal []*render3.TextAttribute
	var bound []*render3.BoundAttribute

	for _, prop := range properties {
		i18nMeta := i18nPropsMeta[prop.Name]
		if prop.IsLiteral() {
			value := ""
			if prop.Expression != nil {
				value = prop.Expression.Source
			}
			literal = append(literal, render3.NewTextAttribute(
				prop.Name,
				value,
				prop.SourceSpan,
				prop.KeySpan,
				prop.ValueSpan,
				i18nMeta,
			))
			continue
		}
		bep := h.bindingParser.CreateBoundElementProperty(prop)
		if bep.KeySpan == nil {
			// Properties from `@trigger` attributes without a value carry no key span.
			bep.KeySpan = bep.SourceSpan
		}
		bound = append(bound, render3.FromBoundElementProperty(bep, i18nMeta))
	}
	return literal, bound
}

// parseAttribute parses the binding syntax of one attribute. It reports
// whether the attribute was consumed as a binding, variable or reference.
func (h *HtmlAstToIvyAst) parseAttribute(
	isTemplateElement bool,
	attribute *ml_parser.Attribute,
	parsedProperties *[]*expression_parser.ParsedProperty,
	boundEvents *[]*render3.BoundEvent,
	variables *[]*render3.Variable,
	references *[]*render3.Reference,
) bool {
	name := normalizeAttributeName(attribute.Name)
	value := attribute.Value
	srcSpan := attribute.SourceSpan()
	absoluteOffset := srcSpan.Start.Offset
	if attribute.ValueSpan != nil {
		absoluteOffset = attribute.ValueSpan.Start.Offset
	}
	handlerSpan := attribute.ValueSpan
	if handlerSpan == nil {
		handlerSpan = srcSpan
	}

	normalizationAdjustment := len(attribute.Name) - len(name)
	createKeySpan := func(prefix, identifier string) *util.ParseSourceSpan {
		keySpanStart := srcSpan.Start.MoveBy(len(prefix) + normalizationAdjustment)
		keySpanEnd := keySpanStart.MoveBy(len(identifier))
		return util.NewParseSourceSpan(keySpanStart, keySpanEnd, keySpanStart, identifier)
	}

	if bindParts := BIND_NAME_REGEXP.FindStringSubmatch(name); bindParts != nil {
		identifier := bindParts[IDENT_KW_IDX]
		switch {
		case bindParts[KW_BIND_IDX] != "":
			keySpan := createKeySpan(bindParts[KW_BIND_IDX], identifier)
			h.bindingParser.ParsePropertyBinding(identifier, value, false, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)

		case bindParts[KW_LET_IDX] != "":
			if isTemplateElement {
				keySpan := createKeySpan(bindParts[KW_LET_IDX], identifier)
				h.parseVariable(identifier, value, srcSpan, keySpan, attribute.ValueSpan, variables)
			} else {
				h.reportError(`"let-" is only supported on ng-template elements.`, srcSpan)
			}

		case bindParts[KW_REF_IDX] != "":
			keySpan := createKeySpan(bindParts[KW_REF_IDX], identifier)
			h.parseReference(identifier, value, srcSpan, keySpan, attribute.ValueSpan, references)

		case bindParts[KW_ON_IDX] != "":
			keySpan := createKeySpan(bindParts[KW_ON_IDX], identifier)
			h.parseEvent(identifier, value, false, srcSpan, handlerSpan, boundEvents, keySpan)

		case bindParts[KW_BINDON_IDX] != "":
			keySpan := createKeySpan(bindParts[KW_BINDON_IDX], identifier)
			h.bindingParser.ParsePropertyBinding(identifier, value, true, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
			h.parseEvent(identifier+"Change", value, true, srcSpan, handlerSpan, boundEvents, keySpan)

		case bindParts[KW_AT_IDX] != "":
			keySpan := createKeySpan("", name)
			h.bindingParser.ParseLiteralAttr(name, value, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
		}
		return true
	}

	var delims *bindingDelims
	switch {
	case strings.HasPrefix(name, bananaBoxDelims.start):
		delims = &bananaBoxDelims
	case strings.HasPrefix(name, propertyDelims.start):
		delims = &propertyDelims
	case strings.HasPrefix(name, eventDelims.start):
		delims = &eventDelims
	}

	if delims != nil && strings.HasSuffix(name, delims.end) && len(name) > len(delims.start)+len(delims.end) {
		identifier := name[len(delims.start) : len(name)-len(delims.end)]
		keySpan := createKeySpan(delims.start, identifier)
		switch *delims {
		case bananaBoxDelims:
			h.bindingParser.ParsePropertyBinding(identifier, value, true, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
			h.parseEvent(identifier+"Change", value, true, srcSpan, handlerSpan, boundEvents, keySpan)
		case propertyDelims:
			h.bindingParser.ParsePropertyBinding(identifier, value, false, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
		default:
			h.parseEvent(identifier, value, false, srcSpan, handlerSpan, boundEvents, keySpan)
		}
		return true
	}

	keySpan := createKeySpan("", name)
	return h.bindingParser.ParsePropertyInterpolation(
		name,
		value,
		srcSpan,
		attribute.ValueSpan,
		parsedProperties,
		keySpan,
		attribute.ValueTokens,
	)
}

func (h *HtmlAstToIvyAst) parseEvent(
	name string,
	expression string,
	isAssignmentEvent bool,
	sourceSpan *util.ParseSourceSpan,
	handlerSpan *util.ParseSourceSpan,
	boundEvents *[]*render3.BoundEvent,
	keySpan *util.ParseSourceSpan,
) {
	var events []*expression_parser.ParsedEvent
	h.bindingParser.ParseEvent(name, expression, isAssignmentEvent, sourceSpan, handlerSpan, &events, keySpan)
	for _, event := range events {
		*boundEvents = append(*boundEvents, render3.FromParsedEvent(event))
	}
}

func (h *HtmlAstToIvyAst) parseVariable(
	identifier string,
	value string,
	sourceSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	variables *[]*render3.Variable,
) {
	if strings.Contains(identifier, "-") {
		h.reportError(`"-" is not allowed in variable names`, sourceSpan)
	} else if identifier == "" {
		h.reportError("Variable does not have a name", sourceSpan)
	}
	if value == "" {
		value = "$implicit"
	}
	*variables = append(*variables, render3.NewVariable(identifier, value, sourceSpan, keySpan, valueSpan))
}

func (h *HtmlAstToIvyAst) parseReference(
	identifier string,
	value string,
	sourceSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	references *[]*render3.Reference,
) {
	if strings.Contains(identifier, "-") {
		h.reportError(`"-" is not allowed in reference names`, sourceSpan)
	} else if identifier == "" {
		h.reportError("Reference does not have a name", sourceSpan)
	} else {
		for _, ref := range *references {
			if ref.Name == identifier {
				h.reportError(fmt.Sprintf(`Reference "#%s" is defined more than once`, identifier), sourceSpan)
				break
			}
		}
	}
	*references = append(*references, render3.NewReference(identifier, value, sourceSpan, keySpan, valueSpan))
}

func (h *HtmlAstToIvyAst) reportError(message string, sourceSpan *util.ParseSourceSpan) {
	h.Errors = append(h.Errors, util.NewParseError(sourceSpan, message))
}

// nonBindableVisitor converts the content of an `ngNonBindable` element:
// attributes stay literal and text is never interpolated.
type nonBindableVisitor struct{}

func (v nonBindableVisitor) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	preparsed := template_parser.PreparseElement(element)
	switch preparsed.Type {
	case template_parser.PreparsedElementTypeScript,
		template_parser.PreparsedElementTypeStyle,
		template_parser.PreparsedElementTypeStylesheet:
		// Skipping <script> for security reasons; <style> and stylesheet
		// links are not processed inside ngNonBindable.
		return nil
	}

	attributes := make([]*render3.TextAttribute, 0, len(element.Attrs))
	for _, attr := range element.Attrs {
		attributes = append(attributes, v.VisitAttribute(attr, nil).(*render3.TextAttribute))
	}
	return render3.NewElement(
		element.Name,
		attributes,
		nil,
		nil,
		visitAllToR3(v, element.Children),
		nil,
		element.IsSelfClosing,
		element.SourceSpan(),
		element.StartSourceSpan,
		element.EndSourceSpan,
		element.IsVoid,
		nil,
	)
}

func (v nonBindableVisitor) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	return render3.NewTextAttribute(attribute.Name, attribute.Value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan, nil)
}

func (v nonBindableVisitor) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	return render3.NewText(text.Value, text.SourceSpan())
}

func (v nonBindableVisitor) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	return nil
}

func (v nonBindableVisitor) VisitExpansion(expansion *ml_parser.Expansion, context interface{}) interface{} {
	return nil
}

func (v nonBindableVisitor) VisitExpansionCase(expansionCase *ml_parser.ExpansionCase, context interface{}) interface{} {
	return nil
}

// visitAllToR3 visits HTML nodes and keeps the Render3 nodes produced.
func visitAllToR3(visitor ml_parser.Visitor, nodes []ml_parser.Node) []render3.Node {
	result := []render3.Node{}
	for _, node := range nodes {
		if r3Node, ok := node.Visit(visitor, nil).(render3.Node); ok && r3Node != nil {
			result = append(result, r3Node)
		}
	}
	return result
}

// extractI18nMeta strips the `i18n` and `i18n-*` markers from attrs.
func extractI18nMeta(attrs []*ml_parser.Attribute) (*i18n.Meta, map[string]*i18n.Meta, []*ml_parser.Attribute) {
	var elementMeta *i18n.Meta
	attrsMeta := map[string]*i18n.Meta{}
	rest := make([]*ml_parser.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		switch {
		case attr.Name == i18n.I18N_ATTR:
			elementMeta = i18n.ParseI18nMeta(attr.Value)
		case strings.HasPrefix(attr.Name, i18n.I18N_ATTR_PREFIX):
			attrsMeta[attr.Name[len(i18n.I18N_ATTR_PREFIX):]] = i18n.ParseI18nMeta(attr.Value)
		default:
			rest = append(rest, attr)
		}
	}
	return elementMeta, attrsMeta, rest
}

func normalizeAttributeName(attrName string) string {
	if strings.HasPrefix(strings.ToLower(attrName), "data-") {
		return attrName[5:]
	}
	return attrName
}

// textContents returns the text of an element whose only child is a text node.
func textContents(element *ml_parser.Element) (string, bool) {
	if len(element.Children) != 1 {
		return "", false
	}
	text, ok := element.Children[0].(*ml_parser.Text)
	if !ok {
		return "", false
	}
	return text.Value, true
}

func uniqueName[V any](taken map[string]V, base string) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", base, i)
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}
