package i18n

import (
	"regexp"
	"strings"

	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/util"
)

var i18nCommentPrefixRegexp = regexp.MustCompile(`^i18n:?`)

// ExtractionResult holds the messages found in an HTML AST and the errors
// that prevented some nodes from being extracted.
type ExtractionResult struct {
	Messages []*Message
	Errors   []*util.ParseError
}

// ExtractMessages extracts translatable messages from an HTML AST.
//
// Translatable sections are elements carrying an `i18n` attribute, elements
// whose tag is one of implicitTags, and `<!-- i18n -->` ... `<!-- /i18n -->`
// comment blocks. Attributes are extracted when an `i18n-<name>` attribute
// marks them or implicitAttrs lists them for the element. A section may not
// contain another section: the nested marker is reported and the nested
// content only contributes to the enclosing message.
func ExtractMessages(
	nodes []ml_parser.Node,
	interpolationConfig *ml_parser.InterpolationConfig,
	implicitTags []string,
	implicitAttrs map[string][]string,
	preserveSignificantWhitespace bool,
) *ExtractionResult {
	visitor := newExtractVisitor(implicitTags, implicitAttrs)
	visitor.createI18nMessage = CreateI18nMessageFactory(interpolationConfig, preserveSignificantWhitespace)
	return visitor.extract(nodes)
}

// extractVisitor walks an HTML AST keeping track of translatable sections
type extractVisitor struct {
	implicitTags  []string
	implicitAttrs map[string][]string

	depth               int
	inI18nNode          bool
	inImplicitNode      bool
	inI18nBlock         bool
	blockMeaningAndDesc string
	blockChildren       []ml_parser.Node
	blockStartDepth     int
	inIcu               bool
	// msgCountAtSectionStart is the message count when the current
	// translatable section started, or -1 outside of any section.
	msgCountAtSectionStart int

	messages          []*Message
	errors            []*util.ParseError
	createI18nMessage I18nMessageFactory
}

func newExtractVisitor(implicitTags []string, implicitAttrs map[string][]string) *extractVisitor {
	return &extractVisitor{
		implicitTags:           implicitTags,
		implicitAttrs:          implicitAttrs,
		msgCountAtSectionStart: -1,
		messages:               []*Message{},
		errors:                 []*util.ParseError{},
	}
}

func (v *extractVisitor) extract(nodes []ml_parser.Node) *ExtractionResult {
	for _, node := range nodes {
		node.Visit(v, nil)
	}
	if v.inI18nBlock && len(nodes) > 0 {
		v.reportError(nodes[len(nodes)-1], "Unclosed block")
	}
	return &ExtractionResult{Messages: v.messages, Errors: v.errors}
}

func (v *extractVisitor) visitAll(nodes []ml_parser.Node) {
	for _, node := range nodes {
		node.Visit(v, nil)
	}
}

func (v *extractVisitor) VisitExpansionCase(icuCase *ml_parser.ExpansionCase, context interface{}) interface{} {
	v.visitAll(icuCase.Expression)
	return nil
}

func (v *extractVisitor) VisitExpansion(icu *ml_parser.Expansion, context interface{}) interface{} {
	v.mayBeAddBlockChildren(icu)

	wasInIcu := v.inIcu
	if !v.inIcu {
		// Nested ICU messages are not extracted on their own; the outermost ICU is.
		if v.isInTranslatableSection() {
			v.addMessage([]ml_parser.Node{icu}, "")
		}
		v.inIcu = true
	}
	for _, c := range icu.Cases {
		c.Visit(v, context)
	}
	v.inIcu = wasInIcu
	return nil
}

func (v *extractVisitor) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	isOpening := isOpeningComment(comment)
	if isOpening && v.isInTranslatableSection() {
		v.reportError(comment, "Could not start a block inside a translatable section")
		return nil
	}

	isClosing := isClosingComment(comment)
	if isClosing && !v.inI18nBlock {
		v.reportError(comment, "Trying to close an unopened block")
		return nil
	}

	if v.inI18nNode || v.inIcu {
		return nil
	}
	if !v.inI18nBlock {
		if isOpening {
			v.inI18nBlock = true
			v.blockStartDepth = v.depth
			v.blockChildren = []ml_parser.Node{}
			v.blockMeaningAndDesc = strings.TrimSpace(i18nCommentPrefixRegexp.ReplaceAllString(comment.Value, ""))
			v.openTranslatableSection(comment)
		}
		return nil
	}
	if isClosing {
		if v.depth != v.blockStartDepth {
			v.reportError(comment, "I18N blocks should not cross element boundaries")
			return nil
		}
		v.closeTranslatableSection(comment, v.blockChildren)
		v.inI18nBlock = false
		v.addMessage(v.blockChildren, v.blockMeaningAndDesc)
	}
	return nil
}

func (v *extractVisitor) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	if v.isInTranslatableSection() {
		v.mayBeAddBlockChildren(text)
	}
	return nil
}

func (v *extractVisitor) VisitElement(el *ml_parser.Element, context interface{}) interface{} {
	v.mayBeAddBlockChildren(el)
	v.depth++
	wasInI18nNode := v.inI18nNode
	wasInImplicitNode := v.inImplicitNode

	i18nAttr := getI18nAttr(el)
	i18nMeta := ""
	if i18nAttr != nil {
		i18nMeta = i18nAttr.Value
	}
	isImplicit := v.isImplicitTag(el.Name) && !v.inIcu && !v.isInTranslatableSection()
	isTopLevelImplicit := !wasInImplicitNode && isImplicit
	v.inImplicitNode = wasInImplicitNode || isImplicit
	isTranslatable := i18nAttr != nil || isTopLevelImplicit

	if !v.isInTranslatableSection() && !v.inIcu {
		if isTranslatable {
			v.inI18nNode = true
			v.addMessage(el.Children, i18nMeta)
			v.openTranslatableSection(el)
		}
		v.visitAll(el.Children)
		if isTranslatable {
			v.closeTranslatableSection(el, el.Children)
		}
	} else {
		if isTranslatable {
			v.reportError(el, "Could not mark an element as translatable inside a translatable section")
		}
		v.visitAll(el.Children)
	}

	v.visitAttributesOf(el)

	v.depth--
	v.inI18nNode = wasInI18nNode
	v.inImplicitNode = wasInImplicitNode
	return nil
}

func (v *extractVisitor) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	// Attributes are extracted by visitAttributesOf.
	return nil
}

func (v *extractVisitor) isImplicitTag(name string) bool {
	for _, tag := range v.implicitTags {
		if tag == name {
			return true
		}
	}
	return false
}

func (v *extractVisitor) visitAttributesOf(el *ml_parser.Element) {
	explicitAttrNameToValue := map[string]string{}
	for _, attr := range el.Attrs {
		if strings.HasPrefix(attr.Name, I18N_ATTR_PREFIX) {
			explicitAttrNameToValue[attr.Name[len(I18N_ATTR_PREFIX):]] = attr.Value
		}
	}
	implicitAttrNames := v.implicitAttrs[el.Name]

	for _, attr := range el.Attrs {
		if meta, ok := explicitAttrNameToValue[attr.Name]; ok {
			v.addMessage([]ml_parser.Node{attr}, meta)
			continue
		}
		for _, name := range implicitAttrNames {
			if attr.Name == name {
				v.addMessage([]ml_parser.Node{attr}, "")
				break
			}
		}
	}
}

// addMessage creates a message for ast unless it would be empty or a lone placeholder
func (v *extractVisitor) addMessage(ast []ml_parser.Node, msgMeta string) *Message {
	if len(ast) == 0 ||
		isEmptyAttributeValue(ast) ||
		isPlaceholderOnlyAttributeValue(ast) ||
		isPlaceholderOnlyMessage(ast) {
		return nil
	}
	meta := ParseI18nMeta(msgMeta)
	message := v.createI18nMessage(ast, meta.Meaning, meta.Description, meta.CustomID, nil)
	v.messages = append(v.messages, message)
	return message
}

// isEmptyAttributeValue checks for cases like `<div i18n-title title="">`.
func isEmptyAttributeValue(ast []ml_parser.Node) bool {
	attr, ok := singleNode(ast).(*ml_parser.Attribute)
	return ok && strings.TrimSpace(attr.Value) == ""
}

// isPlaceholderOnlyAttributeValue checks for cases like `<div i18n-title title="{{ name }}">`.
func isPlaceholderOnlyAttributeValue(ast []ml_parser.Node) bool {
	attr, ok := singleNode(ast).(*ml_parser.Attribute)
	return ok && isPlaceholderOnly(attr.ValueTokens, ml_parser.TokenTypeATTR_VALUE_INTERPOLATION, ml_parser.TokenTypeATTR_VALUE_TEXT)
}

// isPlaceholderOnlyMessage checks for cases like `<div i18n>{{ name }}</div>`.
func isPlaceholderOnlyMessage(ast []ml_parser.Node) bool {
	text, ok := singleNode(ast).(*ml_parser.Text)
	return ok && isPlaceholderOnly(text.Tokens, ml_parser.TokenTypeINTERPOLATION, ml_parser.TokenTypeTEXT)
}

func isPlaceholderOnly(tokens []*ml_parser.Token, interpolationType, textType ml_parser.TokenType) bool {
	interpolations := 0
	var plainText strings.Builder
	for _, token := range tokens {
		switch token.Type {
		case interpolationType:
			interpolations++
		case textType:
			if len(token.Parts) > 0 {
				plainText.WriteString(strings.TrimSpace(token.Parts[0]))
			}
		}
	}
	return interpolations == 1 && plainText.Len() == 0
}

// mayBeAddBlockChildren adds a node to the block being built when it is a direct child of the block.
func (v *extractVisitor) mayBeAddBlockChildren(node ml_parser.Node) {
	if v.inI18nBlock && !v.inIcu && v.depth == v.blockStartDepth {
		v.blockChildren = append(v.blockChildren, node)
	}
}

func (v *extractVisitor) isInTranslatableSection() bool {
	return v.msgCountAtSectionStart >= 0
}

func (v *extractVisitor) openTranslatableSection(node ml_parser.Node) {
	if v.isInTranslatableSection() {
		v.reportError(node, "Unexpected section start")
		return
	}
	v.msgCountAtSectionStart = len(v.messages)
}

// closeTranslatableSection ends the current section. A section with a single
// significant child that is an ICU yields both a message for the section and
// one for the ICU; the ICU message is dropped.
func (v *extractVisitor) closeTranslatableSection(node ml_parser.Node, directChildren []ml_parser.Node) {
	if !v.isInTranslatableSection() {
		v.reportError(node, "Unexpected section end")
		return
	}

	startIndex := v.msgCountAtSectionStart
	significantChildren := 0
	for _, child := range directChildren {
		if _, isComment := child.(*ml_parser.Comment); !isComment {
			significantChildren++
		}
	}

	if significantChildren == 1 {
		for i := len(v.messages) - 1; i >= startIndex; i-- {
			ast := v.messages[i].Nodes
			if _, isText := singleI18nNode(ast).(*Text); !isText {
				v.messages = append(v.messages[:i], v.messages[i+1:]...)
				break
			}
		}
	}

	v.msgCountAtSectionStart = -1
}

func singleI18nNode(nodes []Node) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return nil
}

func (v *extractVisitor) reportError(node ml_parser.Node, msg string) {
	v.errors = append(v.errors, util.NewParseError(node.SourceSpan(), msg))
}

func isOpeningComment(comment *ml_parser.Comment) bool {
	return strings.HasPrefix(comment.Value, I18N_ATTR)
}

func isClosingComment(comment *ml_parser.Comment) bool {
	return comment.Value == "/i18n"
}

func getI18nAttr(el *ml_parser.Element) *ml_parser.Attribute {
	for _, attr := range el.Attrs {
		if attr.Name == I18N_ATTR {
			return attr
		}
	}
	return nil
}
