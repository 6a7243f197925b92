package ml_parser

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"ngc-template/packages/compiler/src/util"
)

// ParseTreeResult represents the result of parsing a tree
type ParseTreeResult struct {
	RootNodes []Node
	Errors    []*util.ParseError
}

// NewParseTreeResult creates a new ParseTreeResult
func NewParseTreeResult(rootNodes []Node, errors []*util.ParseError) *ParseTreeResult {
	return &ParseTreeResult{RootNodes: rootNodes, Errors: errors}
}

// Parser parses markup into an HTML AST
type Parser struct {
	getTagDefinition func(tagName string) *TagDefinition
}

// NewParser creates a new Parser
func NewParser(getTagDefinition func(tagName string) *TagDefinition) *Parser {
	return &Parser{getTagDefinition: getTagDefinition}
}

// NewHtmlParser creates a Parser using the HTML tag definitions
func NewHtmlParser() *Parser {
	return NewParser(GetHtmlTagDefinition)
}

// Parse tokenizes and builds the tree. Lexer and tree errors are both
// reported in the result.
func (p *Parser) Parse(source, url string, options *TokenizeOptions) *ParseTreeResult {
	tokenizeResult := Tokenize(source, url, p.getTagDefinition, options)
	builder := NewTreeBuilder(tokenizeResult.Tokens, p.getTagDefinition)
	builder.Build()

	errors := make([]*util.ParseError, 0, len(tokenizeResult.Errors)+len(builder.errors))
	errors = append(errors, tokenizeResult.Errors...)
	errors = append(errors, builder.errors...)
	return NewParseTreeResult(builder.rootNodes, errors)
}

// TreeBuilder builds the HTML AST from a token stream
type TreeBuilder struct {
	index            int
	peek             *Token
	tokens           []*Token
	getTagDefinition func(tagName string) *TagDefinition
	elementStack     []*Element
	rootNodes        []Node
	errors           []*util.ParseError
}

// NewTreeBuilder creates a new TreeBuilder. tokens must end with an EOF token.
func NewTreeBuilder(tokens []*Token, getTagDefinition func(tagName string) *TagDefinition) *TreeBuilder {
	tb := &TreeBuilder{
		index:            -1,
		tokens:           tokens,
		getTagDefinition: getTagDefinition,
		rootNodes:        []Node{},
	}
	tb._advance()
	return tb
}

// RootNodes returns the top-level nodes built so far
func (tb *TreeBuilder) RootNodes() []Node {
	return tb.rootNodes
}

// Errors returns the tree errors
func (tb *TreeBuilder) Errors() []*util.ParseError {
	return tb.errors
}

// Build consumes every token
func (tb *TreeBuilder) Build() {
	for tb.peek.Type != TokenTypeEOF {
		switch tb.peek.Type {
		case TokenTypeTAG_OPEN_START, TokenTypeINCOMPLETE_TAG_OPEN:
			tb._consumeStartTag(tb._advance())
		case TokenTypeTAG_CLOSE:
			tb._consumeEndTag(tb._advance())
		case TokenTypeCDATA_START:
			tb._consumeCdata(tb._advance())
		case TokenTypeCOMMENT_START:
			tb._consumeComment(tb._advance())
		case TokenTypeTEXT, TokenTypeRAW_TEXT, TokenTypeESCAPABLE_RAW_TEXT:
			tb._consumeText(tb._advance())
		case TokenTypeEXPANSION_FORM_START:
			tb._consumeExpansion(tb._advance())
		default:
			// doctype and stray tokens are skipped
			tb._advance()
		}
	}
}

func (tb *TreeBuilder) _advance() *Token {
	prev := tb.peek
	if tb.index < len(tb.tokens)-1 {
		tb.index++
	}
	tb.peek = tb.tokens[tb.index]
	return prev
}

func (tb *TreeBuilder) _advanceIf(tokenType TokenType) *Token {
	if tb.peek.Type == tokenType {
		return tb._advance()
	}
	return nil
}

func (tb *TreeBuilder) _error(span *util.ParseSourceSpan, msg string) {
	tb.errors = append(tb.errors, util.NewParseError(span, msg))
}

func (tb *TreeBuilder) _consumeCdata(startToken *Token) {
	if text := tb._advanceIf(TokenTypeRAW_TEXT); text != nil {
		tb._consumeText(text)
	}
	tb._advanceIf(TokenTypeCDATA_END)
}

func (tb *TreeBuilder) _consumeComment(token *Token) {
	text := tb._advanceIf(TokenTypeRAW_TEXT)
	endToken := tb._advanceIf(TokenTypeCOMMENT_END)
	value := ""
	if text != nil {
		value = strings.TrimSpace(text.Parts[0])
	}
	sourceSpan := token.SourceSpan
	if endToken != nil {
		sourceSpan = util.NewParseSourceSpan(token.SourceSpan.Start, endToken.SourceSpan.End, token.SourceSpan.FullStart, "")
	}
	tb._addToParent(NewComment(value, sourceSpan))
}

func (tb *TreeBuilder) _consumeExpansion(token *Token) {
	switchValue := tb._advance()
	typ := tb._advance()
	cases := []*ExpansionCase{}

	for tb.peek.Type == TokenTypeEXPANSION_CASE_VALUE {
		expCase := tb._parseExpansionCase()
		if expCase == nil {
			return
		}
		cases = append(cases, expCase)
	}

	if tb.peek.Type != TokenTypeEXPANSION_FORM_END {
		tb._error(tb.peek.SourceSpan, "Invalid ICU message. Missing '}'.")
		return
	}
	sourceSpan := util.NewParseSourceSpan(token.SourceSpan.Start, tb.peek.SourceSpan.End, token.SourceSpan.FullStart, "")
	tb._addToParent(NewExpansion(switchValue.Parts[0], typ.Parts[0], cases, sourceSpan, switchValue.SourceSpan))
	tb._advance()
}

func (tb *TreeBuilder) _parseExpansionCase() *ExpansionCase {
	value := tb._advance()

	if tb.peek.Type != TokenTypeEXPANSION_CASE_EXP_START {
		tb._error(tb.peek.SourceSpan, "Invalid ICU message. Missing '{'.")
		return nil
	}
	start := tb._advance()

	exp := tb._collectExpansionExpTokens(start)
	if exp == nil {
		return nil
	}
	end := tb._advance()
	exp = append(exp, NewToken(TokenTypeEOF, []string{}, end.SourceSpan))

	caseParser := NewTreeBuilder(exp, tb.getTagDefinition)
	caseParser.Build()
	if len(caseParser.errors) > 0 {
		tb.errors = append(tb.errors, caseParser.errors...)
		return nil
	}

	sourceSpan := util.NewParseSourceSpan(value.SourceSpan.Start, end.SourceSpan.End, value.SourceSpan.FullStart, "")
	expSourceSpan := util.NewParseSourceSpan(start.SourceSpan.Start, end.SourceSpan.End, start.SourceSpan.FullStart, "")
	return NewExpansionCase(value.Parts[0], caseParser.rootNodes, sourceSpan, value.SourceSpan, expSourceSpan)
}

// _collectExpansionExpTokens returns the tokens of one case body, leaving the
// closing EXPANSION_CASE_EXP_END as the next token.
func (tb *TreeBuilder) _collectExpansionExpTokens(start *Token) []*Token {
	exp := []*Token{}
	expansionFormStack := []TokenType{TokenTypeEXPANSION_CASE_EXP_START}

	for {
		switch tb.peek.Type {
		case TokenTypeEXPANSION_FORM_START, TokenTypeEXPANSION_CASE_EXP_START:
			expansionFormStack = append(expansionFormStack, tb.peek.Type)
		case TokenTypeEXPANSION_CASE_EXP_END:
			if !lastOnStack(expansionFormStack, TokenTypeEXPANSION_CASE_EXP_START) {
				tb._error(start.SourceSpan, "Invalid ICU message. Missing '}'.")
				return nil
			}
			expansionFormStack = expansionFormStack[:len(expansionFormStack)-1]
			if len(expansionFormStack) == 0 {
				return exp
			}
		case TokenTypeEXPANSION_FORM_END:
			if !lastOnStack(expansionFormStack, TokenTypeEXPANSION_FORM_START) {
				tb._error(start.SourceSpan, "Invalid ICU message. Missing '}'.")
				return nil
			}
			expansionFormStack = expansionFormStack[:len(expansionFormStack)-1]
		case TokenTypeEOF:
			tb._error(start.SourceSpan, "Invalid ICU message. Missing '}'.")
			return nil
		}
		exp = append(exp, tb._advance())
	}
}

func lastOnStack(stack []TokenType, element TokenType) bool {
	return len(stack) > 0 && stack[len(stack)-1] == element
}

var interpolationEntityRe = regexp.MustCompile(`&([^;]+);`)

func decodeEntities(s string) string {
	return interpolationEntityRe.ReplaceAllStringFunc(s, html.UnescapeString)
}

func (tb *TreeBuilder) _consumeText(token *Token) {
	tokens := []*Token{token}
	startSpan := token.SourceSpan
	text := token.Parts[0]
	if len(text) > 0 && text[0] == '\n' {
		parent := tb._getParentElement()
		if parent != nil && len(parent.Children) == 0 && tb.getTagDefinition(parent.Name).IgnoreFirstLf {
			text = text[1:]
			tokens[0] = NewToken(token.Type, []string{text}, token.SourceSpan)
		}
	}

	continues := func(t TokenType) bool {
		switch t {
		case TokenTypeINTERPOLATION, TokenTypeTEXT, TokenTypeENCODED_ENTITY:
			return true
		case TokenTypeESCAPABLE_RAW_TEXT:
			return token.Type == TokenTypeESCAPABLE_RAW_TEXT
		}
		return false
	}
	last := token
	for continues(tb.peek.Type) {
		last = tb._advance()
		tokens = append(tokens, last)
		switch last.Type {
		case TokenTypeINTERPOLATION:
			text += decodeEntities(strings.Join(last.Parts, ""))
		case TokenTypeENCODED_ENTITY:
			text += last.Parts[0]
		default:
			text += strings.Join(last.Parts, "")
		}
	}

	if len(text) > 0 {
		endSpan := last.SourceSpan
		tb._addToParent(NewText(text,
			util.NewParseSourceSpan(startSpan.Start, endSpan.End, startSpan.FullStart, startSpan.Details),
			tokens))
	}
}

func (tb *TreeBuilder) _consumeStartTag(startTagToken *Token) {
	prefix, name := startTagToken.Parts[0], startTagToken.Parts[1]
	attrs := []*Attribute{}
	for tb.peek.Type == TokenTypeATTR_NAME {
		attrs = append(attrs, tb._consumeAttr(tb._advance()))
	}
	fullName := tb._getElementFullName(prefix, name, tb._getParentElement())
	tagDef := tb.getTagDefinition(fullName)

	selfClosing := false
	if tb.peek.Type == TokenTypeTAG_OPEN_END_VOID {
		tb._advance()
		selfClosing = true
		if !(tagDef.CanSelfClose || GetNsPrefix(fullName) != "" || tagDef.IsVoid) {
			tb._error(startTagToken.SourceSpan,
				fmt.Sprintf("Only void, custom and foreign elements can be self closed \"%s\"", name))
		}
	} else if tb.peek.Type == TokenTypeTAG_OPEN_END {
		tb._advance()
	}

	end := tb.peek.SourceSpan.FullStart
	span := util.NewParseSourceSpan(startTagToken.SourceSpan.Start, end, startTagToken.SourceSpan.FullStart, "")
	startSpan := util.NewParseSourceSpan(startTagToken.SourceSpan.Start, end, startTagToken.SourceSpan.FullStart, "")
	el := NewElement(fullName, attrs, []Node{}, selfClosing, span, startSpan, nil, tagDef.IsVoid)
	tb._addToParent(el)

	switch {
	case selfClosing:
		el.EndSourceSpan = span
	case startTagToken.Type == TokenTypeINCOMPLETE_TAG_OPEN:
		tb._error(span, fmt.Sprintf("Opening tag \"%s\" not terminated.", fullName))
	case tagDef.IsVoid:
	default:
		tb.elementStack = append(tb.elementStack, el)
	}
}

func (tb *TreeBuilder) _consumeAttr(attrName *Token) *Attribute {
	fullName := MergeNsAndName(attrName.Parts[0], attrName.Parts[1])
	attrEnd := attrName.SourceSpan.End

	if tb.peek.Type == TokenTypeATTR_QUOTE {
		tb._advance()
	}

	var value strings.Builder
	var valueTokens []*Token
	var valueStartSpan *util.ParseSourceSpan
	var valueEnd *util.ParseLocation
	if tb.peek.Type == TokenTypeATTR_VALUE_TEXT {
		valueStartSpan = tb.peek.SourceSpan
		valueEnd = tb.peek.SourceSpan.End
		for tb.peek.Type == TokenTypeATTR_VALUE_TEXT ||
			tb.peek.Type == TokenTypeATTR_VALUE_INTERPOLATION ||
			tb.peek.Type == TokenTypeENCODED_ENTITY {
			valueToken := tb._advance()
			valueTokens = append(valueTokens, valueToken)
			switch valueToken.Type {
			case TokenTypeATTR_VALUE_INTERPOLATION:
				value.WriteString(decodeEntities(strings.Join(valueToken.Parts, "")))
			case TokenTypeENCODED_ENTITY:
				value.WriteString(valueToken.Parts[0])
			default:
				value.WriteString(strings.Join(valueToken.Parts, ""))
			}
			valueEnd = valueToken.SourceSpan.End
			attrEnd = valueEnd
		}
	}

	if tb.peek.Type == TokenTypeATTR_QUOTE {
		quoteToken := tb._advance()
		attrEnd = quoteToken.SourceSpan.End
	}

	var valueSpan *util.ParseSourceSpan
	if valueStartSpan != nil {
		valueSpan = util.NewParseSourceSpan(valueStartSpan.Start, valueEnd, valueStartSpan.FullStart, "")
	}
	return NewAttribute(fullName, value.String(),
		util.NewParseSourceSpan(attrName.SourceSpan.Start, attrEnd, attrName.SourceSpan.FullStart, ""),
		attrName.SourceSpan, valueSpan, valueTokens)
}

func (tb *TreeBuilder) _consumeEndTag(endTagToken *Token) {
	fullName := tb._getElementFullName(endTagToken.Parts[0], endTagToken.Parts[1], tb._getParentElement())

	if tb.getTagDefinition(fullName).IsVoid {
		tb._error(endTagToken.SourceSpan, fmt.Sprintf("Void elements do not have end tags \"%s\"", endTagToken.Parts[1]))
	} else if !tb._popElement(fullName, endTagToken.SourceSpan) {
		tb._error(endTagToken.SourceSpan, fmt.Sprintf(
			"Unexpected closing tag \"%s\". It may happen when the tag has already been closed by another tag. "+
				"For more info see https://www.w3.org/TR/html5/syntax.html#closing-elements-that-have-implied-end-tags",
			fullName))
	}
}

// _popElement closes the innermost open element named expectedName together
// with everything opened after it. It returns false when no such element is
// open, or when an element that needs an explicit end tag was implicitly
// closed on the way.
func (tb *TreeBuilder) _popElement(expectedName string, endSourceSpan *util.ParseSourceSpan) bool {
	unexpectedCloseTagDetected := false
	for stackIndex := len(tb.elementStack) - 1; stackIndex >= 0; stackIndex-- {
		el := tb.elementStack[stackIndex]
		if el.Name == expectedName {
			el.EndSourceSpan = endSourceSpan
			el.sourceSpan = util.NewParseSourceSpan(el.sourceSpan.Start, endSourceSpan.End, el.sourceSpan.FullStart, el.sourceSpan.Details)
			tb.elementStack = tb.elementStack[:stackIndex]
			return !unexpectedCloseTagDetected
		}
		if !tb.getTagDefinition(el.Name).ClosedByParent {
			unexpectedCloseTagDetected = true
		}
	}
	return false
}

func (tb *TreeBuilder) _getParentElement() *Element {
	if len(tb.elementStack) == 0 {
		return nil
	}
	return tb.elementStack[len(tb.elementStack)-1]
}

func (tb *TreeBuilder) _addToParent(node Node) {
	if parent := tb._getParentElement(); parent != nil {
		parent.Children = append(parent.Children, node)
	} else {
		tb.rootNodes = append(tb.rootNodes, node)
	}
}

func (tb *TreeBuilder) _getElementFullName(prefix, localName string, parentElement *Element) string {
	if prefix == "" {
		prefix = tb.getTagDefinition(localName).ImplicitNamespacePrefix
		if prefix == "" && parentElement != nil {
			_, parentTagName := SplitNsName(parentElement.Name)
			if !tb.getTagDefinition(parentTagName).PreventNamespaceInheritance {
				prefix = GetNsPrefix(parentElement.Name)
			}
		}
	}
	return MergeNsAndName(prefix, localName)
}
