package expression_parser

import (
	"fmt"
	"strings"

	"ngc-template/packages/compiler/src/core"
	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/util"
)

// ParseFlags changes what the expression grammar accepts.
type ParseFlags int

const (
	ParseFlagsNone ParseFlags = 0
	// ParseFlagsAction allows chains and assignments, and rejects pipes.
	ParseFlagsAction ParseFlags = 1 << 0
)

// InterpolationPiece is a string or expression slice of an interpolated input.
type InterpolationPiece struct {
	Text  string
	Start int
	End   int
}

// SplitInterpolation is the result of splitting text on interpolation markers.
// Offsets holds the start of each expression's source inside the input.
type SplitInterpolation struct {
	Strings     []InterpolationPiece
	Expressions []InterpolationPiece
	Offsets     []int
}

// TemplateBindingParseResult is the outcome of parsing structural directive
// microsyntax.
type TemplateBindingParseResult struct {
	TemplateBindings []TemplateBinding
	Errors           []*util.ParseError
}

// Parser turns expression source into an AST. It holds no per-parse state
// and may be shared between goroutines.
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new Parser
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseAction parses an event handler: chains and assignments are allowed.
func (p *Parser) ParseAction(input string, location *util.ParseSourceSpan, absoluteOffset int, interpolation *ml_parser.InterpolationConfig) *ASTWithSource {
	var errors []*util.ParseError
	p.checkNoInterpolation(&errors, input, location, interpolation)
	tokens := p.lexer.Tokenize(stripComments(input))
	ast := newParseAST(input, location, absoluteOffset, tokens, ParseFlagsAction, &errors, 0).parseChain()
	return NewASTWithSource(ast, input, location, absoluteOffset, errors)
}

// ParseBinding parses a property binding: pipes are allowed, chains are not.
func (p *Parser) ParseBinding(input string, location *util.ParseSourceSpan, absoluteOffset int, interpolation *ml_parser.InterpolationConfig) *ASTWithSource {
	var errors []*util.ParseError
	p.checkNoInterpolation(&errors, input, location, interpolation)
	tokens := p.lexer.Tokenize(stripComments(input))
	ast := newParseAST(input, location, absoluteOffset, tokens, ParseFlagsNone, &errors, 0).parseChain()
	return NewASTWithSource(ast, input, location, absoluteOffset, errors)
}

// ParseInterpolation parses text containing interpolations. It returns nil
// when the input has no interpolation.
func (p *Parser) ParseInterpolation(input string, location *util.ParseSourceSpan, absoluteOffset int, interpolation *ml_parser.InterpolationConfig) *ASTWithSource {
	var errors []*util.ParseError
	split := p.SplitInterpolation(input, location, interpolation, &errors)
	if len(split.Expressions) == 0 {
		return nil
	}

	expressions := make([]AST, 0, len(split.Expressions))
	for i, piece := range split.Expressions {
		text := stripComments(piece.Text)
		parser := newParseAST(input, location, absoluteOffset, p.lexer.Tokenize(text), ParseFlagsNone, &errors, split.Offsets[i])
		parser.inputLength = len(text)
		expressions = append(expressions, parser.parseChain())
	}
	strs := make([]string, len(split.Strings))
	for i, s := range split.Strings {
		strs[i] = s.Text
	}
	span := NewParseSpan(0, len(input))
	return NewASTWithSource(NewInterpolation(span, span.ToAbsolute(absoluteOffset), strs, expressions), input, location, absoluteOffset, errors)
}

// ParseInterpolationTokens parses the interpolations of a text node or
// attribute value from the HTML tokens it was built from. Expression spans
// come straight from the token positions, so they stay exact even when the
// surrounding text contained entities. It returns nil when no token holds a
// complete interpolation.
func (p *Parser) ParseInterpolationTokens(tokens []*ml_parser.Token, location *util.ParseSourceSpan) *ASTWithSource {
	if len(tokens) == 0 {
		return nil
	}
	first := tokens[0].SourceSpan.FullStart
	last := tokens[len(tokens)-1].SourceSpan.End
	absoluteOffset := first.Offset
	input := first.File.Content[first.Offset:last.Offset]

	var errors []*util.ParseError
	var strs []string
	var expressions []AST
	var current strings.Builder
	for _, token := range tokens {
		if !token.IsInterpolation() || len(token.Parts) < 3 {
			// an unterminated interpolation is plain text
			current.WriteString(strings.Join(token.Parts[:textPartCount(token)], ""))
			continue
		}
		start, expr := token.Parts[0], token.Parts[1]
		offset := token.SourceSpan.FullStart.Offset + len(start) - absoluteOffset
		if strings.TrimSpace(expr) == "" {
			errors = append(errors, newParserError("Blank expressions are not allowed in interpolated strings",
				input, fmt.Sprintf("at column %d in", offset-len(start)), location))
		}
		text := stripComments(expr)
		parser := newParseAST(input, location, absoluteOffset, p.lexer.Tokenize(text), ParseFlagsNone, &errors, offset)
		parser.inputLength = len(text)
		strs = append(strs, current.String())
		current.Reset()
		expressions = append(expressions, parser.parseChain())
	}
	if len(expressions) == 0 {
		return nil
	}
	strs = append(strs, current.String())
	span := NewParseSpan(0, len(input))
	return NewASTWithSource(NewInterpolation(span, span.ToAbsolute(absoluteOffset), strs, expressions), input, location, absoluteOffset, errors)
}

// textPartCount is the number of leading parts that make up a token's
// decoded text. Encoded entities carry their source form as a second part.
func textPartCount(token *ml_parser.Token) int {
	if token.Type == ml_parser.TokenTypeENCODED_ENTITY {
		return 1
	}
	return len(token.Parts)
}

// ParseInterpolationExpression parses the body of a single interpolation
// (for example an ICU switch value) as if it were wrapped in markers.
func (p *Parser) ParseInterpolationExpression(expression string, location *util.ParseSourceSpan, absoluteOffset int) *ASTWithSource {
	var errors []*util.ParseError
	tokens := p.lexer.Tokenize(expression)
	ast := newParseAST(expression, location, absoluteOffset, tokens, ParseFlagsNone, &errors, 0).parseChain()
	span := NewParseSpan(0, len(expression))
	interp := NewInterpolation(span, span.ToAbsolute(absoluteOffset), []string{"", ""}, []AST{ast})
	return NewASTWithSource(interp, expression, location, absoluteOffset, errors)
}

// WrapLiteralPrimitive wraps a plain attribute value as a string literal
// expression so literal attributes and bindings share one representation.
func (p *Parser) WrapLiteralPrimitive(input string, location *util.ParseSourceSpan, absoluteOffset int) *ASTWithSource {
	span := NewParseSpan(0, len(input))
	return NewASTWithSource(NewLiteralPrimitive(span, span.ToAbsolute(absoluteOffset), input), input, location, absoluteOffset, nil)
}

// SplitInterpolation splits input into literal strings and interpolation
// expressions. Markers inside quoted strings within an expression are not
// treated as the end of the interpolation.
func (p *Parser) SplitInterpolation(input string, location *util.ParseSourceSpan, interpolation *ml_parser.InterpolationConfig, errors *[]*util.ParseError) *SplitInterpolation {
	if interpolation == nil {
		interpolation = ml_parser.DefaultInterpolationConfig
	}
	result := &SplitInterpolation{}
	i := 0
	atInterpolation := false
	extendLastString := false
	for i < len(input) {
		if !atInterpolation {
			start := i
			if idx := strings.Index(input[i:], interpolation.Start); idx == -1 {
				i = len(input)
			} else {
				i += idx
			}
			result.Strings = append(result.Strings, InterpolationPiece{Text: input[start:i], Start: start, End: i})
			atInterpolation = true
			continue
		}

		fullStart := i
		exprStart := fullStart + len(interpolation.Start)
		exprEnd := interpolationEndIndex(input, interpolation.End, exprStart)
		if exprEnd == -1 {
			// unterminated interpolation is kept as literal text
			atInterpolation = false
			extendLastString = true
			break
		}
		fullEnd := exprEnd + len(interpolation.End)
		text := input[exprStart:exprEnd]
		if strings.TrimSpace(text) == "" {
			*errors = append(*errors, newParserError("Blank expressions are not allowed in interpolated strings",
				input, fmt.Sprintf("at column %d in", i), location))
		}
		result.Expressions = append(result.Expressions, InterpolationPiece{Text: text, Start: fullStart, End: fullEnd})
		result.Offsets = append(result.Offsets, exprStart)
		i = fullEnd
		atInterpolation = false
	}
	if !atInterpolation {
		if extendLastString {
			last := &result.Strings[len(result.Strings)-1]
			last.Text += input[i:]
			last.End = len(input)
		} else {
			result.Strings = append(result.Strings, InterpolationPiece{Text: input[i:], Start: i, End: len(input)})
		}
	}
	return result
}

// ParseTemplateBindings parses the value of a `*templateKey="templateValue"`
// attribute. absoluteKeyOffset and absoluteValueOffset locate the key (without
// the `*`) and the value in the template file.
func (p *Parser) ParseTemplateBindings(templateKey, templateValue string, location *util.ParseSourceSpan, absoluteKeyOffset, absoluteValueOffset int) *TemplateBindingParseResult {
	var errors []*util.ParseError
	tokens := p.lexer.Tokenize(templateValue)
	parser := newParseAST(templateValue, location, absoluteValueOffset, tokens, ParseFlagsNone, &errors, 0)
	bindings := parser.parseTemplateBindings(&TemplateBindingIdentifier{
		Source: templateKey,
		Span:   NewAbsoluteSourceSpan(absoluteKeyOffset, absoluteKeyOffset+len(templateKey)),
	})
	return &TemplateBindingParseResult{TemplateBindings: bindings, Errors: errors}
}

func (p *Parser) checkNoInterpolation(errors *[]*util.ParseError, input string, location *util.ParseSourceSpan, interpolation *ml_parser.InterpolationConfig) {
	if interpolation == nil {
		interpolation = ml_parser.DefaultInterpolationConfig
	}
	start := indexOutsideQuotes(input, interpolation.Start, 0)
	if start == -1 {
		return
	}
	if interpolationEndIndex(input, interpolation.End, start+len(interpolation.Start)) == -1 {
		return
	}
	*errors = append(*errors, newParserError(
		fmt.Sprintf("Got interpolation (%s%s) where expression was expected", interpolation.Start, interpolation.End),
		input, fmt.Sprintf("at column %d in", start), location))
}

// interpolationEndIndex finds the end marker at or after start, skipping
// over quoted strings.
func interpolationEndIndex(input, end string, start int) int {
	return indexOutsideQuotes(input, end, start)
}

func indexOutsideQuotes(input, marker string, start int) int {
	var quote byte
	escaped := false
	for i := start; i < len(input); i++ {
		ch := input[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		if strings.HasPrefix(input[i:], marker) {
			return i
		}
		if core.IsQuote(int(ch)) {
			quote = ch
		}
	}
	return -1
}

// stripComments drops a trailing `// comment` that is not inside a string.
func stripComments(input string) string {
	if idx := indexOutsideQuotes(input, "//", 0); idx != -1 {
		return input[:idx]
	}
	return input
}

func newParserError(message, input, errLocation string, location *util.ParseSourceSpan) *util.ParseError {
	ctx := ""
	if location != nil {
		ctx = location.Start.String()
	}
	return util.NewParseError(location, fmt.Sprintf("Parser Error: %s %s [%s] in %s", message, errLocation, input, ctx))
}

// parseAST is a recursive descent parser over one token stream.
type parseAST struct {
	input          string
	location       *util.ParseSourceSpan
	absoluteOffset int
	tokens         []*Token
	flags          ParseFlags
	errors         *[]*util.ParseError
	// offset and length of the token stream's source within input
	offset      int
	inputLength int

	index             int
	rparensExpected   int
	rbracketsExpected int
	rbracesExpected   int
	writable          bool
}

func newParseAST(input string, location *util.ParseSourceSpan, absoluteOffset int, tokens []*Token, flags ParseFlags, errors *[]*util.ParseError, offset int) *parseAST {
	return &parseAST{
		input:          input,
		location:       location,
		absoluteOffset: absoluteOffset,
		tokens:         tokens,
		flags:          flags,
		errors:         errors,
		offset:         offset,
		inputLength:    len(input) - offset,
	}
}

func (p *parseAST) peek(offset int) *Token {
	i := p.index + offset
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return EOF
}

func (p *parseAST) next() *Token { return p.peek(0) }

func (p *parseAST) atEOF() bool { return p.index >= len(p.tokens) }

// inputIndex is the index of the next token's start, relative to input.
func (p *parseAST) inputIndex() int {
	if p.atEOF() {
		return p.currentEndIndex()
	}
	return p.next().Index + p.offset
}

// currentEndIndex is the end of the last consumed token, relative to input.
func (p *parseAST) currentEndIndex() int {
	if p.index > 0 {
		return p.peek(-1).End + p.offset
	}
	if len(p.tokens) == 0 {
		return p.inputLength + p.offset
	}
	return p.next().Index + p.offset
}

func (p *parseAST) currentAbsoluteOffset() int {
	return p.absoluteOffset + p.inputIndex()
}

func (p *parseAST) span(start int, artificialEnd ...int) *ParseSpan {
	end := p.currentEndIndex()
	if len(artificialEnd) > 0 && artificialEnd[0] > end {
		end = artificialEnd[0]
	}
	// error recovery can leave the cursor behind start
	if start > end {
		start, end = end, start
	}
	return NewParseSpan(start, end)
}

func (p *parseAST) sourceSpan(start int, artificialEnd ...int) *AbsoluteSourceSpan {
	return p.span(start, artificialEnd...).ToAbsolute(p.absoluteOffset)
}

func (p *parseAST) advance() { p.index++ }

func (p *parseAST) consumeOptionalCharacter(code int) bool {
	if p.next().IsCharacter(code) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) consumeOptionalOperator(op string) bool {
	if p.next().IsOperator(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) expectCharacter(code int) {
	if p.consumeOptionalCharacter(code) {
		return
	}
	p.error(fmt.Sprintf("Missing expected %c", rune(code)))
}

func (p *parseAST) peekKeywordLet() bool { return p.next().IsKeywordLet() }
func (p *parseAST) peekKeywordAs() bool  { return p.next().IsKeywordAs() }

func prettyPrintToken(tok *Token) string {
	if tok == EOF {
		return "end of input"
	}
	return "token " + tok.String()
}

func (p *parseAST) expectIdentifierOrKeyword() (string, bool) {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() {
		if n.IsPrivateIdentifier() {
			p.reportErrorForPrivateIdentifier(n, "expected identifier or keyword")
		} else {
			p.error(fmt.Sprintf("Unexpected %s, expected identifier or keyword", prettyPrintToken(n)))
		}
		return "", false
	}
	p.advance()
	return n.String(), true
}

func (p *parseAST) expectIdentifierOrKeywordOrString() string {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() && !n.IsString() {
		if n.IsPrivateIdentifier() {
			p.reportErrorForPrivateIdentifier(n, "expected identifier, keyword or string")
		} else {
			p.error(fmt.Sprintf("Unexpected %s, expected identifier, keyword, or string", prettyPrintToken(n)))
		}
		return ""
	}
	p.advance()
	return n.String()
}

func (p *parseAST) parseChain() AST {
	var exprs []AST
	start := p.inputIndex()
	for p.index < len(p.tokens) {
		expr := p.parsePipe()
		exprs = append(exprs, expr)

		if p.consumeOptionalCharacter(core.CharSEMICOLON) {
			if p.flags&ParseFlagsAction == 0 {
				p.error("Binding expression cannot contain chained expression")
			}
			for p.consumeOptionalCharacter(core.CharSEMICOLON) {
			}
		} else if p.index < len(p.tokens) {
			errorIndex := p.index
			p.error(fmt.Sprintf("Unexpected token '%s'", p.next()))
			if p.index == errorIndex {
				break
			}
		}
	}
	switch len(exprs) {
	case 0:
		artificialStart := p.offset
		artificialEnd := p.offset + p.inputLength
		return NewEmptyExpr(p.span(artificialStart, artificialEnd), p.sourceSpan(artificialStart, artificialEnd))
	case 1:
		return exprs[0]
	}
	return NewChain(p.span(start), p.sourceSpan(start), exprs)
}

func (p *parseAST) parsePipe() AST {
	start := p.inputIndex()
	result := p.parseExpression()
	if p.consumeOptionalOperator("|") {
		if p.flags&ParseFlagsAction != 0 {
			p.error("Cannot have a pipe in an action expression")
		}
		for {
			nameStart := p.inputIndex()
			name, ok := p.expectIdentifierOrKeyword()
			var nameSpan *AbsoluteSourceSpan
			fullSpanEnd := -1
			if ok {
				nameSpan = p.sourceSpan(nameStart)
			} else {
				// keep the pipe so tooling can still complete its name
				if p.next() != EOF {
					fullSpanEnd = p.next().Index + p.offset
				} else {
					fullSpanEnd = p.inputLength + p.offset
				}
				nameSpan = NewParseSpan(fullSpanEnd, fullSpanEnd).ToAbsolute(p.absoluteOffset)
			}
			var args []AST
			for p.consumeOptionalCharacter(core.CharCOLON) {
				args = append(args, p.parseExpression())
			}
			if fullSpanEnd >= 0 {
				result = NewBindingPipe(p.span(start), p.sourceSpan(start, fullSpanEnd), result, name, args, nameSpan)
			} else {
				result = NewBindingPipe(p.span(start), p.sourceSpan(start), result, name, args, nameSpan)
			}
			if !p.consumeOptionalOperator("|") {
				break
			}
		}
	}
	return result
}

func (p *parseAST) parseExpression() AST {
	return p.parseConditional()
}

func (p *parseAST) parseConditional() AST {
	start := p.inputIndex()
	result := p.parseLogicalOr()
	if !p.consumeOptionalOperator("?") {
		return result
	}
	yes := p.parsePipe()
	var no AST
	if !p.consumeOptionalCharacter(core.CharCOLON) {
		end := p.inputIndex()
		expression := p.input[start:end]
		p.error(fmt.Sprintf("Conditional expression %s requires all 3 expressions", expression))
		no = NewEmptyExpr(p.span(start), p.sourceSpan(start))
	} else {
		no = p.parsePipe()
	}
	return NewConditional(p.span(start), p.sourceSpan(start), result, yes, no)
}

// parseBinaryLevel parses a left-associative chain of operators at one
// precedence level.
func (p *parseAST) parseBinaryLevel(operand func() AST, ops ...string) AST {
	start := p.inputIndex()
	result := operand()
	for p.next().Type == TokenTypeOperator {
		op := p.next().StrValue
		matched := false
		for _, candidate := range ops {
			if op == candidate {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		p.advance()
		right := operand()
		result = NewBinary(p.span(start), p.sourceSpan(start), op, result, right)
	}
	return result
}

func (p *parseAST) parseLogicalOr() AST {
	return p.parseBinaryLevel(p.parseLogicalAnd, "||")
}

func (p *parseAST) parseLogicalAnd() AST {
	return p.parseBinaryLevel(p.parseNullishCoalescing, "&&")
}

func (p *parseAST) parseNullishCoalescing() AST {
	return p.parseBinaryLevel(p.parseEquality, "??")
}

func (p *parseAST) parseEquality() AST {
	return p.parseBinaryLevel(p.parseRelational, "==", "===", "!=", "!==")
}

func (p *parseAST) parseRelational() AST {
	return p.parseBinaryLevel(p.parseAdditive, "<", ">", "<=", ">=")
}

func (p *parseAST) parseAdditive() AST {
	return p.parseBinaryLevel(p.parseMultiplicative, "+", "-")
}

func (p *parseAST) parseMultiplicative() AST {
	return p.parseBinaryLevel(p.parseExponentiation, "*", "%", "/")
}

func (p *parseAST) parseExponentiation() AST {
	start := p.inputIndex()
	result := p.parsePrefix()
	if p.next().Type == TokenTypeOperator && p.next().StrValue == "**" {
		switch result.(type) {
		case *Unary, *PrefixNot, *TypeofExpression, *VoidExpression:
			p.error("Unary operator used immediately before exponentiation expression. Parenthesis must be used to disambiguate operator precedence")
		}
		p.advance()
		right := p.parseExponentiation()
		result = NewBinary(p.span(start), p.sourceSpan(start), "**", result, right)
	}
	return result
}

func (p *parseAST) parsePrefix() AST {
	n := p.next()
	start := p.inputIndex()
	switch {
	case n.Type == TokenTypeOperator && (n.StrValue == "+" || n.StrValue == "-"):
		p.advance()
		result := p.parsePrefix()
		return NewUnary(p.span(start), p.sourceSpan(start), n.StrValue, result)
	case n.IsOperator("!"):
		p.advance()
		result := p.parsePrefix()
		return NewPrefixNot(p.span(start), p.sourceSpan(start), result)
	case n.IsKeywordTypeof():
		p.advance()
		result := p.parsePrefix()
		return NewTypeofExpression(p.span(start), p.sourceSpan(start), result)
	case n.IsKeywordVoid():
		p.advance()
		result := p.parsePrefix()
		return NewVoidExpression(p.span(start), p.sourceSpan(start), result)
	}
	return p.parseCallChain()
}

func (p *parseAST) parseCallChain() AST {
	start := p.inputIndex()
	result := p.parsePrimary()
	for {
		switch {
		case p.consumeOptionalCharacter(core.CharPERIOD):
			result = p.parseAccessMember(result, start, false)
		case p.consumeOptionalOperator("?."):
			switch {
			case p.consumeOptionalCharacter(core.CharLPAREN):
				result = p.parseCall(result, start, true)
			case p.consumeOptionalCharacter(core.CharLBRACKET):
				result = p.parseKeyedRead(result, start, true)
			default:
				result = p.parseAccessMember(result, start, true)
			}
		case p.consumeOptionalCharacter(core.CharLBRACKET):
			result = p.parseKeyedRead(result, start, false)
		case p.consumeOptionalCharacter(core.CharLPAREN):
			result = p.parseCall(result, start, false)
		case p.consumeOptionalOperator("!"):
			result = NewNonNullAssert(p.span(start), p.sourceSpan(start), result)
		default:
			return result
		}
	}
}

func (p *parseAST) parsePrimary() AST {
	start := p.inputIndex()
	n := p.next()
	switch {
	case p.consumeOptionalCharacter(core.CharLPAREN):
		p.rparensExpected++
		result := p.parsePipe()
		if !p.consumeOptionalCharacter(core.CharRPAREN) {
			p.error("Missing closing parentheses")
			p.consumeOptionalCharacter(core.CharRPAREN)
		}
		p.rparensExpected--
		return NewParenthesizedExpression(p.span(start), p.sourceSpan(start), result)
	case n.IsKeywordNull():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), nil)
	case n.IsKeywordUndefined():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), Undefined)
	case n.IsKeywordTrue():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), true)
	case n.IsKeywordFalse():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), false)
	case n.IsKeywordThis():
		p.advance()
		return NewThisReceiver(p.span(start), p.sourceSpan(start))
	case p.consumeOptionalCharacter(core.CharLBRACKET):
		p.rbracketsExpected++
		elements := p.parseExpressionList(core.CharRBRACKET)
		p.rbracketsExpected--
		p.expectCharacter(core.CharRBRACKET)
		return NewLiteralArray(p.span(start), p.sourceSpan(start), elements)
	case n.IsCharacter(core.CharLBRACE):
		return p.parseLiteralMap()
	case n.IsIdentifier():
		return p.parseAccessMember(NewImplicitReceiver(p.span(start), p.sourceSpan(start)), start, false)
	case n.IsNumber():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), n.ToNumber())
	case n.IsString():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), n.String())
	case n.IsPrivateIdentifier():
		p.reportErrorForPrivateIdentifier(n, "")
		return NewEmptyExpr(p.span(start), p.sourceSpan(start))
	case p.index >= len(p.tokens):
		p.error(fmt.Sprintf("Unexpected end of expression: %s", p.input))
		return NewEmptyExpr(p.span(start), p.sourceSpan(start))
	}
	p.error(fmt.Sprintf("Unexpected token %s", n))
	return NewEmptyExpr(p.span(start), p.sourceSpan(start))
}

func (p *parseAST) parseExpressionList(terminator int) []AST {
	var result []AST
	for {
		if p.next().IsCharacter(terminator) {
			break
		}
		result = append(result, p.parsePipe())
		if !p.consumeOptionalCharacter(core.CharCOMMA) {
			break
		}
	}
	return result
}

func (p *parseAST) parseLiteralMap() AST {
	var keys []LiteralMapKey
	var values []AST
	start := p.inputIndex()
	p.expectCharacter(core.CharLBRACE)
	if !p.consumeOptionalCharacter(core.CharRBRACE) {
		p.rbracesExpected++
		for {
			keyStart := p.inputIndex()
			quoted := p.next().IsString()
			key := p.expectIdentifierOrKeywordOrString()
			mapKey := LiteralMapKey{Key: key, Quoted: quoted}
			switch {
			case quoted:
				p.expectCharacter(core.CharCOLON)
				values = append(values, p.parsePipe())
			case p.consumeOptionalCharacter(core.CharCOLON):
				values = append(values, p.parsePipe())
			default:
				mapKey.IsShorthandInitialized = true
				span := p.span(keyStart)
				sourceSpan := p.sourceSpan(keyStart)
				values = append(values, NewPropertyRead(span, sourceSpan, sourceSpan, NewImplicitReceiver(span, sourceSpan), key))
			}
			keys = append(keys, mapKey)
			if !p.consumeOptionalCharacter(core.CharCOMMA) || p.next().IsCharacter(core.CharRBRACE) {
				break
			}
		}
		p.rbracesExpected--
		p.expectCharacter(core.CharRBRACE)
	}
	return NewLiteralMap(p.span(start), p.sourceSpan(start), keys, values)
}

func (p *parseAST) parseAccessMember(readReceiver AST, start int, isSafe bool) AST {
	nameStart := p.inputIndex()
	p.writable = true
	id, ok := p.expectIdentifierOrKeyword()
	if !ok || id == "" {
		p.error("Expected identifier for property access")
	}
	p.writable = false
	nameSpan := p.sourceSpan(nameStart)

	if isSafe {
		if p.consumeOptionalOperator("=") {
			p.error("The '?.' operator cannot be used in the assignment")
			return NewEmptyExpr(p.span(start), p.sourceSpan(start))
		}
		return NewSafePropertyRead(p.span(start), p.sourceSpan(start), nameSpan, readReceiver, id)
	}

	read := NewPropertyRead(p.span(start), p.sourceSpan(start), nameSpan, readReceiver, id)
	if p.consumeOptionalOperator("=") {
		if p.flags&ParseFlagsAction == 0 {
			p.error("Bindings cannot contain assignments")
			return NewEmptyExpr(p.span(start), p.sourceSpan(start))
		}
		value := p.parseConditional()
		return NewBinary(p.span(start), p.sourceSpan(start), "=", read, value)
	}
	return read
}

func (p *parseAST) parseCall(receiver AST, start int, isSafe bool) AST {
	argumentStart := p.inputIndex()
	p.rparensExpected++
	var args []AST
	if !p.next().IsCharacter(core.CharRPAREN) {
		for {
			args = append(args, p.parsePipe())
			if !p.consumeOptionalCharacter(core.CharCOMMA) {
				break
			}
		}
	}
	argumentSpan := p.span(argumentStart, p.inputIndex()).ToAbsolute(p.absoluteOffset)
	p.expectCharacter(core.CharRPAREN)
	p.rparensExpected--
	if isSafe {
		return NewSafeCall(p.span(start), p.sourceSpan(start), receiver, args, argumentSpan)
	}
	return NewCall(p.span(start), p.sourceSpan(start), receiver, args, argumentSpan)
}

func (p *parseAST) parseKeyedRead(receiver AST, start int, isSafe bool) AST {
	p.writable = true
	defer func() { p.writable = false }()

	p.rbracketsExpected++
	key := p.parsePipe()
	if _, empty := key.(*EmptyExpr); empty {
		p.error("Key access cannot be empty")
	}
	p.rbracketsExpected--
	p.expectCharacter(core.CharRBRACKET)

	if p.consumeOptionalOperator("=") {
		if isSafe {
			p.error("The '?.' operator cannot be used in the assignment")
			return NewEmptyExpr(p.span(start), p.sourceSpan(start))
		}
		if p.flags&ParseFlagsAction == 0 {
			p.error("Bindings cannot contain assignments")
			return NewEmptyExpr(p.span(start), p.sourceSpan(start))
		}
		read := NewKeyedRead(p.span(start), p.sourceSpan(start), receiver, key)
		value := p.parseConditional()
		return NewBinary(p.span(start), p.sourceSpan(start), "=", read, value)
	}
	if isSafe {
		return NewSafeKeyedRead(p.span(start), p.sourceSpan(start), receiver, key)
	}
	return NewKeyedRead(p.span(start), p.sourceSpan(start), receiver, key)
}

// parseTemplateBindings parses microsyntax:
//
//	*ngFor="let item of items; index as i; trackBy: func"
//
// templateKey is the directive name the keys are prefixed with.
func (p *parseAST) parseTemplateBindings(templateKey *TemplateBindingIdentifier) []TemplateBinding {
	var bindings []TemplateBinding

	// The first binding is for the template key itself, e.g. `ngFor` in
	// `*ngFor="let item of items"`.
	bindings = append(bindings, p.parseDirectiveKeywordBindings(templateKey)...)

	for p.index < len(p.tokens) {
		if letBinding := p.parseLetBinding(); letBinding != nil {
			bindings = append(bindings, letBinding)
		} else {
			// `of items` or `index as i`: a key that is either an input or a
			// context export aliased with `as`.
			key := p.expectTemplateBindingKey()
			if asBinding := p.parseAsBinding(key); asBinding != nil {
				bindings = append(bindings, asBinding)
			} else {
				key.Source = templateKey.Source + util.UpperFirst(key.Source)
				bindings = append(bindings, p.parseDirectiveKeywordBindings(key)...)
			}
		}
		p.consumeStatementTerminator()
	}
	return bindings
}

func (p *parseAST) expectTemplateBindingKey() *TemplateBindingIdentifier {
	var result strings.Builder
	start := p.currentAbsoluteOffset()
	for {
		result.WriteString(p.expectIdentifierOrKeywordOrString())
		if !p.consumeOptionalOperator("-") {
			break
		}
		result.WriteString("-")
	}
	source := result.String()
	return &TemplateBindingIdentifier{Source: source, Span: NewAbsoluteSourceSpan(start, start+len(source))}
}

// parseDirectiveKeywordBindings parses `key: expression (as alias)?`. The
// key has already been read.
func (p *parseAST) parseDirectiveKeywordBindings(key *TemplateBindingIdentifier) []TemplateBinding {
	var bindings []TemplateBinding
	p.consumeOptionalCharacter(core.CharCOLON)
	value := p.getDirectiveBoundTarget()
	spanEnd := p.currentAbsoluteOffset()
	asBinding := p.parseAsBinding(key)
	if asBinding == nil {
		p.consumeStatementTerminator()
		spanEnd = p.currentAbsoluteOffset()
	}
	sourceSpan := NewAbsoluteSourceSpan(key.Span.Start, spanEnd)
	bindings = append(bindings, NewExpressionBinding(sourceSpan, key, value))
	if asBinding != nil {
		bindings = append(bindings, asBinding)
	}
	return bindings
}

// getDirectiveBoundTarget returns the expression bound to a directive key,
// or nil when the key has no expression.
func (p *parseAST) getDirectiveBoundTarget() *ASTWithSource {
	if p.next() == EOF || p.peekKeywordAs() || p.peekKeywordLet() {
		return nil
	}
	ast := p.parsePipe()
	span := ast.Span()
	value := p.input[span.Start:span.End]
	return NewASTWithSource(ast, value, p.location, p.absoluteOffset+span.Start, nil)
}

// parseAsBinding parses `as alias` following value.
func (p *parseAST) parseAsBinding(value *TemplateBindingIdentifier) TemplateBinding {
	if !p.peekKeywordAs() {
		return nil
	}
	p.advance()
	key := p.expectTemplateBindingKey()
	p.consumeStatementTerminator()
	sourceSpan := NewAbsoluteSourceSpan(value.Span.Start, p.currentAbsoluteOffset())
	return NewVariableBinding(sourceSpan, key, value)
}

// parseLetBinding parses `let local (= export)?`.
func (p *parseAST) parseLetBinding() TemplateBinding {
	if !p.peekKeywordLet() {
		return nil
	}
	spanStart := p.currentAbsoluteOffset()
	p.advance()
	key := p.expectTemplateBindingKey()
	var value *TemplateBindingIdentifier
	if p.consumeOptionalOperator("=") {
		value = p.expectTemplateBindingKey()
	}
	p.consumeStatementTerminator()
	sourceSpan := NewAbsoluteSourceSpan(spanStart, p.currentAbsoluteOffset())
	return NewVariableBinding(sourceSpan, key, value)
}

func (p *parseAST) consumeStatementTerminator() {
	if !p.consumeOptionalCharacter(core.CharSEMICOLON) {
		p.consumeOptionalCharacter(core.CharCOMMA)
	}
}

func (p *parseAST) reportErrorForPrivateIdentifier(token *Token, extra string) {
	msg := fmt.Sprintf("Private identifiers are not supported. Unexpected private identifier: %s", token)
	if extra != "" {
		msg += ", " + extra
	}
	p.error(msg)
}

func (p *parseAST) error(message string) {
	*p.errors = append(*p.errors, newParserError(message, p.input, p.locationText(), p.location))
	p.skip()
}

func (p *parseAST) locationText() string {
	if p.index < len(p.tokens) {
		return fmt.Sprintf("at column %d in", p.tokens[p.index].Index+1)
	}
	return "at the end of the expression"
}

// skip advances to a point where parsing can resume: a `;`, a `|`, a closing
// bracket the parser is waiting for, or an `=` in an assignable position.
func (p *parseAST) skip() {
	n := p.next()
	for p.index < len(p.tokens) &&
		!n.IsCharacter(core.CharSEMICOLON) &&
		!n.IsOperator("|") &&
		(p.rparensExpected <= 0 || !n.IsCharacter(core.CharRPAREN)) &&
		(p.rbracesExpected <= 0 || !n.IsCharacter(core.CharRBRACE)) &&
		(p.rbracketsExpected <= 0 || !n.IsCharacter(core.CharRBRACKET)) &&
		(!p.writable || !n.IsOperator("=")) {
		if n.IsError() {
			*p.errors = append(*p.errors, newParserError(n.StrValue, p.input, p.locationText(), p.location))
		}
		p.advance()
		n = p.next()
	}
}
