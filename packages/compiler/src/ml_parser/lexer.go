package ml_parser

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"ngc-template/packages/compiler/src/core"
	"ngc-template/packages/compiler/src/util"
)

// TokenizeOptions controls the tokenizer.
type TokenizeOptions struct {
	// TokenizeExpansionForms enables ICU `{value, type, cases}` tokens.
	TokenizeExpansionForms bool
	InterpolationConfig    *InterpolationConfig
	// LeadingTriviaChars are skipped at the start of a token's span; the
	// skipped characters stay covered by the span's FullStart.
	LeadingTriviaChars []string
	// PreserveLineEndings keeps `\r\n` in text token values instead of
	// normalizing them to `\n`.
	PreserveLineEndings bool
}

// TokenizeResult represents the result of tokenization
type TokenizeResult struct {
	Tokens []*Token
	Errors []*util.ParseError
}

// Tokenize tokenizes source code
func Tokenize(source, url string, getTagDefinition func(tagName string) *TagDefinition, options *TokenizeOptions) *TokenizeResult {
	file := util.NewParseSourceFile(source, url)
	tokenizer := NewTokenizer(file, getTagDefinition, options)
	tokenizer.Tokenize()
	return &TokenizeResult{Tokens: tokenizer.tokens, Errors: tokenizer.errors}
}

// CursorError is raised when the cursor cannot move, e.g. past the end of input.
type CursorError struct {
	Msg    string
	Cursor *CharacterCursor
}

// Error implements the error interface
func (c *CursorError) Error() string {
	return c.Msg
}

// controlFlowError aborts the token being read; the tokenizer records it and
// resumes from the current cursor position.
type controlFlowError struct {
	err *util.ParseError
}

// CharacterCursor walks the template source byte by byte, keeping line and
// column in sync.
type CharacterCursor struct {
	file   *util.ParseSourceFile
	input  string
	end    int
	peek   int
	offset int
	line   int
	column int
}

// NewCharacterCursor creates a cursor positioned at the start of file.
func NewCharacterCursor(file *util.ParseSourceFile) *CharacterCursor {
	c := &CharacterCursor{file: file, input: file.Content, end: len(file.Content)}
	c.updatePeek()
	return c
}

// Clone creates a copy of the cursor
func (c *CharacterCursor) Clone() *CharacterCursor {
	cp := *c
	return &cp
}

// Peek returns the current character, or core.CharEOF at the end.
func (c *CharacterCursor) Peek() int {
	return c.peek
}

// Advance moves to the next character. Advancing past the end raises a
// CursorError.
func (c *CharacterCursor) Advance() {
	if c.offset >= c.end {
		panic(&CursorError{Msg: `Unexpected character "EOF"`, Cursor: c.Clone()})
	}
	ch := int(c.input[c.offset])
	if ch == core.CharLF {
		c.line++
		c.column = 0
	} else if !core.IsNewLine(ch) {
		c.column++
	}
	c.offset++
	c.updatePeek()
}

func (c *CharacterCursor) updatePeek() {
	if c.offset >= c.end {
		c.peek = core.CharEOF
	} else {
		c.peek = int(c.input[c.offset])
	}
}

func (c *CharacterCursor) location() *util.ParseLocation {
	return util.NewParseLocation(c.file, c.offset, c.line, c.column)
}

// GetSpan returns the span from start to the cursor. Characters in
// leadingTriviaCodePoints at the start are excluded from Start but kept in
// FullStart.
func (c *CharacterCursor) GetSpan(start *CharacterCursor, leadingTriviaCodePoints []int) *util.ParseSourceSpan {
	if start == nil {
		start = c
	}
	fullStart := start
	if leadingTriviaCodePoints != nil {
		for c.Diff(start) > 0 && containsCode(leadingTriviaCodePoints, start.Peek()) {
			if fullStart == start {
				start = start.Clone()
			}
			start.Advance()
		}
	}
	return util.NewParseSourceSpan(start.location(), c.location(), fullStart.location(), "")
}

// GetChars returns the source between start and the cursor.
func (c *CharacterCursor) GetChars(start *CharacterCursor) string {
	return c.input[start.offset:c.offset]
}

// Diff returns the distance in bytes from other to this cursor.
func (c *CharacterCursor) Diff(other *CharacterCursor) int {
	return c.offset - other.offset
}

func containsCode(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// Tokenizer tokenizes HTML source
type Tokenizer struct {
	cursor                  *CharacterCursor
	getTagDefinition        func(tagName string) *TagDefinition
	tokenizeIcu             bool
	interpolationConfig     *InterpolationConfig
	leadingTriviaCodePoints []int
	preserveLineEndings     bool
	currentTokenStart       *CharacterCursor
	currentTokenType        TokenType
	expansionCaseStack      []TokenType
	tokens                  []*Token
	errors                  []*util.ParseError
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(file *util.ParseSourceFile, getTagDefinition func(tagName string) *TagDefinition, options *TokenizeOptions) *Tokenizer {
	if options == nil {
		options = &TokenizeOptions{}
	}
	if getTagDefinition == nil {
		getTagDefinition = GetHtmlTagDefinition
	}
	interpolationConfig := options.InterpolationConfig
	if interpolationConfig == nil {
		interpolationConfig = DefaultInterpolationConfig
	}
	var leadingTriviaCodePoints []int
	for _, c := range options.LeadingTriviaChars {
		if len(c) > 0 {
			leadingTriviaCodePoints = append(leadingTriviaCodePoints, int(c[0]))
		}
	}
	return &Tokenizer{
		cursor:                  NewCharacterCursor(file),
		getTagDefinition:        getTagDefinition,
		tokenizeIcu:             options.TokenizeExpansionForms,
		interpolationConfig:     interpolationConfig,
		leadingTriviaCodePoints: leadingTriviaCodePoints,
		preserveLineEndings:     options.PreserveLineEndings,
	}
}

// Tokenize tokenizes the source
func (t *Tokenizer) Tokenize() {
	for t.cursor.Peek() != core.CharEOF {
		t.tokenizeNext()
	}
	t._beginToken(TokenTypeEOF, nil)
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) tokenizeNext() {
	defer func() {
		if r := recover(); r != nil {
			t.handleError(r)
		}
	}()
	start := t.cursor.Clone()
	if t._attemptCharCode(core.CharLT) {
		if t._attemptCharCode(core.CharBANG) {
			if t._attemptCharCode(core.CharLBRACKET) {
				t._consumeCdata(start)
			} else if t._attemptCharCode(core.CharMINUS) {
				t._consumeComment(start)
			} else {
				t._consumeDocType(start)
			}
		} else if t._attemptCharCode(core.CharSLASH) {
			t._consumeTagClose(start)
		} else {
			t._consumeTagOpen(start)
		}
	} else if !(t.tokenizeIcu && t._tokenizeExpansionForm()) {
		t._consumeWithInterpolation(TokenTypeTEXT, TokenTypeINTERPOLATION, t._isTextEnd, t._isTagStart)
	}
}

func (t *Tokenizer) handleError(e interface{}) {
	switch err := e.(type) {
	case *CursorError:
		t.errors = append(t.errors, t._createError(err.Msg, t.cursor.GetSpan(err.Cursor, nil)).err)
	case *controlFlowError:
		t.errors = append(t.errors, err.err)
	default:
		panic(e)
	}
}

func (t *Tokenizer) _createError(msg string, span *util.ParseSourceSpan) *controlFlowError {
	if t._isInExpansionForm() {
		msg += ` (Do you have an unescaped "{" in your template? Use "{{ '{' }}") to escape it.)`
	}
	t.currentTokenStart = nil
	return &controlFlowError{err: util.NewParseError(span, msg)}
}

func (t *Tokenizer) _beginToken(tokenType TokenType, start *CharacterCursor) {
	if start == nil {
		start = t.cursor.Clone()
	}
	t.currentTokenStart = start
	t.currentTokenType = tokenType
}

func (t *Tokenizer) _endToken(parts []string, end *CharacterCursor) *Token {
	if t.currentTokenStart == nil {
		panic(t._createError("Programming error - attempted to end a token when there was no start to the token", t.cursor.GetSpan(nil, nil)))
	}
	if end == nil {
		end = t.cursor
	}
	token := NewToken(t.currentTokenType, parts, end.GetSpan(t.currentTokenStart, t.leadingTriviaCodePoints))
	t.tokens = append(t.tokens, token)
	t.currentTokenStart = nil
	return token
}

func (t *Tokenizer) _processCarriageReturns(content string) string {
	if t.preserveLineEndings {
		return content
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

func (t *Tokenizer) _attemptCharCode(charCode int) bool {
	if t.cursor.Peek() == charCode {
		t.cursor.Advance()
		return true
	}
	return false
}

func (t *Tokenizer) _attemptCharCodeCaseInsensitive(charCode int) bool {
	if toLowerCaseCharCode(t.cursor.Peek()) == toLowerCaseCharCode(charCode) {
		t.cursor.Advance()
		return true
	}
	return false
}

func (t *Tokenizer) _requireCharCode(charCode int) {
	location := t.cursor.Clone()
	if !t._attemptCharCode(charCode) {
		panic(t._createError(_unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(location, nil)))
	}
}

func (t *Tokenizer) _attemptStr(chars string) bool {
	if len(chars) > t.cursor.end-t.cursor.offset {
		return false
	}
	initialPosition := t.cursor.Clone()
	for i := 0; i < len(chars); i++ {
		if !t._attemptCharCode(int(chars[i])) {
			t.cursor = initialPosition
			return false
		}
	}
	return true
}

func (t *Tokenizer) _attemptStrCaseInsensitive(chars string) bool {
	initialPosition := t.cursor.Clone()
	for i := 0; i < len(chars); i++ {
		if !t._attemptCharCodeCaseInsensitive(int(chars[i])) {
			t.cursor = initialPosition
			return false
		}
	}
	return true
}

func (t *Tokenizer) _requireStr(chars string) {
	location := t.cursor.Clone()
	if !t._attemptStr(chars) {
		panic(t._createError(_unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(location, nil)))
	}
}

func (t *Tokenizer) _attemptCharCodeUntilFn(predicate func(code int) bool) {
	for !predicate(t.cursor.Peek()) {
		t.cursor.Advance()
	}
}

func (t *Tokenizer) _requireCharCodeUntilFn(predicate func(code int) bool, length int) {
	start := t.cursor.Clone()
	t._attemptCharCodeUntilFn(predicate)
	if t.cursor.Diff(start) < length {
		panic(t._createError(_unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(start, nil)))
	}
}

func (t *Tokenizer) _attemptUntilChar(char int) {
	for t.cursor.Peek() != char {
		t.cursor.Advance()
	}
}

func (t *Tokenizer) _readUntil(char int) string {
	start := t.cursor.Clone()
	t._attemptUntilChar(char)
	return t.cursor.GetChars(start)
}

func (t *Tokenizer) _readChar() string {
	start := t.cursor.Clone()
	t.cursor.Advance()
	return t.cursor.GetChars(start)
}

func (t *Tokenizer) _consumeCdata(start *CharacterCursor) {
	t._beginToken(TokenTypeCDATA_START, start)
	t._requireStr("CDATA[")
	t._endToken([]string{}, nil)
	t._consumeRawText(false, func() bool { return t._attemptStr("]]>") })
	t._beginToken(TokenTypeCDATA_END, nil)
	t._requireStr("]]>")
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) _consumeComment(start *CharacterCursor) {
	t._beginToken(TokenTypeCOMMENT_START, start)
	t._requireCharCode(core.CharMINUS)
	t._endToken([]string{}, nil)
	t._consumeRawText(false, func() bool { return t._attemptStr("-->") })
	t._beginToken(TokenTypeCOMMENT_END, nil)
	t._requireStr("-->")
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) _consumeDocType(start *CharacterCursor) {
	t._beginToken(TokenTypeDOC_TYPE, start)
	contentStart := t.cursor.Clone()
	t._attemptUntilChar(core.CharGT)
	content := t.cursor.GetChars(contentStart)
	t.cursor.Advance()
	t._endToken([]string{content}, nil)
}

func (t *Tokenizer) _consumePrefixAndName() []string {
	nameOrPrefixStart := t.cursor.Clone()
	prefix := ""
	for t.cursor.Peek() != core.CharCOLON && !isPrefixEnd(t.cursor.Peek()) {
		t.cursor.Advance()
	}
	var nameStart *CharacterCursor
	if t.cursor.Peek() == core.CharCOLON {
		prefix = t.cursor.GetChars(nameOrPrefixStart)
		t.cursor.Advance()
		nameStart = t.cursor.Clone()
	} else {
		nameStart = nameOrPrefixStart
	}
	minLength := 0
	if prefix != "" {
		minLength = 1
	}
	t._requireCharCodeUntilFn(isNameEnd, minLength)
	return []string{prefix, t.cursor.GetChars(nameStart)}
}

func (t *Tokenizer) _consumeTagOpen(start *CharacterCursor) {
	var openTagToken *Token
	var prefix, tagName string
	ok := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				if _, isControlFlow := r.(*controlFlowError); !isControlFlow {
					panic(r)
				}
				if openTagToken != nil {
					openTagToken.Type = TokenTypeINCOMPLETE_TAG_OPEN
				} else {
					// an invalid start tag is text
					t._beginToken(TokenTypeTEXT, start)
					t._endToken([]string{"<"}, nil)
				}
				ok = false
			}
		}()
		if !core.IsAsciiLetter(t.cursor.Peek()) {
			panic(t._createError(_unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(start, nil)))
		}
		t._beginToken(TokenTypeTAG_OPEN_START, start)
		parts := t._consumePrefixAndName()
		openTagToken = t._endToken(parts, nil)
		prefix, tagName = parts[0], parts[1]
		t._attemptCharCodeUntilFn(isNotWhitespace)
		for p := t.cursor.Peek(); p != core.CharSLASH && p != core.CharGT && p != core.CharLT && p != core.CharEOF; p = t.cursor.Peek() {
			t._consumeAttributeName()
			t._attemptCharCodeUntilFn(isNotWhitespace)
			if t._attemptCharCode(core.CharEQ) {
				t._attemptCharCodeUntilFn(isNotWhitespace)
				t._consumeAttributeValue()
			}
			t._attemptCharCodeUntilFn(isNotWhitespace)
		}
		t._consumeTagOpenEnd()
		return true
	}()
	if !ok {
		return
	}
	if t.tokens[len(t.tokens)-1].Type == TokenTypeTAG_OPEN_END_VOID {
		return
	}

	switch t.getTagDefinition(tagName).GetContentType(prefix) {
	case TagContentTypeRAW_TEXT:
		t._consumeRawTextWithTagClose(prefix, tagName, false)
	case TagContentTypeESCAPABLE_RAW_TEXT:
		t._consumeRawTextWithTagClose(prefix, tagName, true)
	}
}

func (t *Tokenizer) _consumeRawTextWithTagClose(prefix, tagName string, consumeEntities bool) {
	t._consumeRawText(consumeEntities, func() bool {
		if !t._attemptCharCode(core.CharLT) {
			return false
		}
		if !t._attemptCharCode(core.CharSLASH) {
			return false
		}
		t._attemptCharCodeUntilFn(isNotWhitespace)
		closeName := tagName
		if prefix != "" {
			closeName = prefix + ":" + tagName
		}
		if !t._attemptStrCaseInsensitive(closeName) {
			return false
		}
		t._attemptCharCodeUntilFn(isNotWhitespace)
		return t._attemptCharCode(core.CharGT)
	})
	t._beginToken(TokenTypeTAG_CLOSE, nil)
	t._requireCharCodeUntilFn(func(code int) bool { return code == core.CharGT }, 3)
	t.cursor.Advance()
	t._endToken([]string{prefix, tagName}, nil)
}

func (t *Tokenizer) _consumeAttributeName() {
	attrNameStart := t.cursor.Peek()
	if attrNameStart == core.CharSQ || attrNameStart == core.CharDQ {
		panic(t._createError(_unexpectedCharacterErrorMsg(attrNameStart), t.cursor.GetSpan(nil, nil)))
	}
	t._beginToken(TokenTypeATTR_NAME, nil)
	parts := t._consumePrefixAndName()
	t._endToken(parts, nil)
}

func (t *Tokenizer) _consumeAttributeValue() {
	if p := t.cursor.Peek(); p == core.CharSQ || p == core.CharDQ {
		quoteChar := p
		t._consumeQuote(quoteChar)
		endPredicate := func() bool { return t.cursor.Peek() == quoteChar }
		t._consumeWithInterpolation(TokenTypeATTR_VALUE_TEXT, TokenTypeATTR_VALUE_INTERPOLATION, endPredicate, endPredicate)
		t._consumeQuote(quoteChar)
	} else {
		endPredicate := func() bool { return isNameEnd(t.cursor.Peek()) }
		t._consumeWithInterpolation(TokenTypeATTR_VALUE_TEXT, TokenTypeATTR_VALUE_INTERPOLATION, endPredicate, endPredicate)
	}
}

func (t *Tokenizer) _consumeQuote(quoteChar int) {
	t._beginToken(TokenTypeATTR_QUOTE, nil)
	t._requireCharCode(quoteChar)
	t._endToken([]string{string(rune(quoteChar))}, nil)
}

func (t *Tokenizer) _consumeTagOpenEnd() {
	tokenType := TokenTypeTAG_OPEN_END
	if t._attemptCharCode(core.CharSLASH) {
		tokenType = TokenTypeTAG_OPEN_END_VOID
	}
	t._beginToken(tokenType, nil)
	t._requireCharCode(core.CharGT)
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) _consumeTagClose(start *CharacterCursor) {
	t._beginToken(TokenTypeTAG_CLOSE, start)
	t._attemptCharCodeUntilFn(isNotWhitespace)
	prefixAndName := t._consumePrefixAndName()
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t._requireCharCode(core.CharGT)
	t._endToken(prefixAndName, nil)
}

func (t *Tokenizer) _consumeRawText(consumeEntities bool, endMarkerPredicate func() bool) {
	tokenType := TokenTypeRAW_TEXT
	if consumeEntities {
		tokenType = TokenTypeESCAPABLE_RAW_TEXT
	}
	t._beginToken(tokenType, nil)
	var parts strings.Builder
	for {
		tagCloseStart := t.cursor.Clone()
		foundEndMarker := endMarkerPredicate()
		t.cursor = tagCloseStart
		if foundEndMarker {
			break
		}
		if consumeEntities && t.cursor.Peek() == core.CharAMPERSAND {
			t._endToken([]string{t._processCarriageReturns(parts.String())}, nil)
			parts.Reset()
			t._consumeEntity(TokenTypeESCAPABLE_RAW_TEXT)
			t._beginToken(TokenTypeESCAPABLE_RAW_TEXT, nil)
		} else {
			parts.WriteString(t._readChar())
		}
	}
	t._endToken([]string{t._processCarriageReturns(parts.String())}, nil)
}

// _consumeWithInterpolation reads text up to endPredicate, splitting out
// interpolation and entity tokens.
func (t *Tokenizer) _consumeWithInterpolation(textTokenType, interpolationTokenType TokenType, endPredicate, endInterpolation func() bool) {
	t._beginToken(textTokenType, nil)
	var parts strings.Builder
	for !endPredicate() {
		current := t.cursor.Clone()
		if t._attemptStr(t.interpolationConfig.Start) {
			t._endToken([]string{t._processCarriageReturns(parts.String())}, current)
			parts.Reset()
			t._consumeInterpolation(interpolationTokenType, current, endInterpolation)
			t._beginToken(textTokenType, nil)
		} else if t.cursor.Peek() == core.CharAMPERSAND {
			t._endToken([]string{t._processCarriageReturns(parts.String())}, nil)
			parts.Reset()
			t._consumeEntity(textTokenType)
			t._beginToken(textTokenType, nil)
		} else {
			parts.WriteString(t._readChar())
		}
	}
	t._endToken([]string{t._processCarriageReturns(parts.String())}, nil)
}

// _consumeInterpolation reads an interpolation whose start marker has been
// consumed. The interpolation ends at the end marker (outside quotes), at the
// start of a tag, or when prematureEndPredicate holds.
func (t *Tokenizer) _consumeInterpolation(interpolationTokenType TokenType, interpolationStart *CharacterCursor, prematureEndPredicate func() bool) {
	parts := []string{t.interpolationConfig.Start}
	t._beginToken(interpolationTokenType, interpolationStart)
	expressionStart := t.cursor.Clone()
	inQuote := -1
	inComment := false
	for t.cursor.Peek() != core.CharEOF && (prematureEndPredicate == nil || !prematureEndPredicate()) {
		current := t.cursor.Clone()
		if t._isTagStart() {
			t.cursor = current
			parts = append(parts, t._processCarriageReturns(t.cursor.GetChars(expressionStart)))
			t._endToken(parts, nil)
			return
		}
		if inQuote == -1 {
			if t._attemptStr(t.interpolationConfig.End) {
				parts = append(parts, t._processCarriageReturns(current.GetChars(expressionStart)), t.interpolationConfig.End)
				t._endToken(parts, nil)
				return
			} else if t._attemptStr("//") {
				inComment = true
				continue
			}
		}
		char := t.cursor.Peek()
		t.cursor.Advance()
		switch {
		case char == core.CharBACKSLASH:
			if t.cursor.Peek() != core.CharEOF {
				t.cursor.Advance()
			}
		case char == inQuote:
			inQuote = -1
		case !inComment && inQuote == -1 && core.IsQuote(char):
			inQuote = char
		}
	}
	parts = append(parts, t._processCarriageReturns(t.cursor.GetChars(expressionStart)))
	t._endToken(parts, nil)
}

func (t *Tokenizer) _consumeEntity(textTokenType TokenType) {
	t._beginToken(TokenTypeENCODED_ENTITY, nil)
	start := t.cursor.Clone()
	t.cursor.Advance()
	if t._attemptCharCode(core.CharHASH) {
		isHex := t._attemptCharCode(core.CharLowerX) || t._attemptCharCode(core.CharX)
		codeStart := t.cursor.Clone()
		t._attemptCharCodeUntilFn(isDigitEntityEnd)
		if t.cursor.Peek() != core.CharSEMICOLON {
			// include the offending character in the message
			t.cursor.Advance()
			entityType := "decimal"
			if isHex {
				entityType = "hexadecimal"
			}
			panic(t._createError(fmt.Sprintf(`Unable to parse entity "%s" - %s character reference entities must end with ";"`,
				t.cursor.GetChars(start), entityType), t.cursor.GetSpan(nil, nil)))
		}
		strNum := t.cursor.GetChars(codeStart)
		t.cursor.Advance()
		base := 10
		if isHex {
			base = 16
		}
		code, err := strconv.ParseInt(strNum, base, 32)
		if err != nil {
			panic(t._createError(_unknownEntityErrorMsg(t.cursor.GetChars(start)), t.cursor.GetSpan(nil, nil)))
		}
		t._endToken([]string{string(rune(code)), t.cursor.GetChars(start)}, nil)
		return
	}

	nameStart := t.cursor.Clone()
	t._attemptCharCodeUntilFn(isNamedEntityEnd)
	if t.cursor.Peek() != core.CharSEMICOLON {
		// not an entity: the `&` is plain text
		t._beginToken(textTokenType, start)
		t.cursor = nameStart
		t._endToken([]string{"&"}, nil)
		return
	}
	name := t.cursor.GetChars(nameStart)
	t.cursor.Advance()
	encoded := "&" + name + ";"
	decoded := html.UnescapeString(encoded)
	if name == "ngsp" {
		decoded = NgspUnicode
	}
	if decoded == encoded {
		panic(t._createError(_unknownEntityErrorMsg(name), t.cursor.GetSpan(start, nil)))
	}
	t._endToken([]string{decoded, encoded}, nil)
}

func (t *Tokenizer) _tokenizeExpansionForm() bool {
	if t._isExpansionFormStart() {
		t._consumeExpansionFormStart()
		return true
	}
	if t.cursor.Peek() != core.CharRBRACE && t._isInExpansionForm() {
		t._consumeExpansionCaseStart()
		return true
	}
	if t.cursor.Peek() == core.CharRBRACE {
		if t._isInExpansionCase() {
			t._consumeExpansionCaseEnd()
			return true
		}
		if t._isInExpansionForm() {
			t._consumeExpansionFormEnd()
			return true
		}
	}
	return false
}

func (t *Tokenizer) _isExpansionFormStart() bool {
	if t.cursor.Peek() != core.CharLBRACE {
		return false
	}
	start := t.cursor.Clone()
	isInterpolation := t._attemptStr(t.interpolationConfig.Start)
	t.cursor = start
	return !isInterpolation
}

func (t *Tokenizer) _consumeExpansionFormStart() {
	t._beginToken(TokenTypeEXPANSION_FORM_START, nil)
	t._requireCharCode(core.CharLBRACE)
	t._endToken([]string{}, nil)
	t.expansionCaseStack = append(t.expansionCaseStack, TokenTypeEXPANSION_FORM_START)

	t._beginToken(TokenTypeRAW_TEXT, nil)
	condition := t._readUntil(core.CharCOMMA)
	t._endToken([]string{t._processCarriageReturns(condition)}, nil)
	t._requireCharCode(core.CharCOMMA)
	t._attemptCharCodeUntilFn(isNotWhitespace)

	t._beginToken(TokenTypeRAW_TEXT, nil)
	typ := t._readUntil(core.CharCOMMA)
	t._endToken([]string{typ}, nil)
	t._requireCharCode(core.CharCOMMA)
	t._attemptCharCodeUntilFn(isNotWhitespace)
}

func (t *Tokenizer) _consumeExpansionCaseStart() {
	t._beginToken(TokenTypeEXPANSION_CASE_VALUE, nil)
	value := strings.TrimSpace(t._readUntil(core.CharLBRACE))
	t._endToken([]string{value}, nil)
	t._attemptCharCodeUntilFn(isNotWhitespace)

	t._beginToken(TokenTypeEXPANSION_CASE_EXP_START, nil)
	t._requireCharCode(core.CharLBRACE)
	t._endToken([]string{}, nil)
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t.expansionCaseStack = append(t.expansionCaseStack, TokenTypeEXPANSION_CASE_EXP_START)
}

func (t *Tokenizer) _consumeExpansionCaseEnd() {
	t._beginToken(TokenTypeEXPANSION_CASE_EXP_END, nil)
	t._requireCharCode(core.CharRBRACE)
	t._endToken([]string{}, nil)
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t.expansionCaseStack = t.expansionCaseStack[:len(t.expansionCaseStack)-1]
}

func (t *Tokenizer) _consumeExpansionFormEnd() {
	t._beginToken(TokenTypeEXPANSION_FORM_END, nil)
	t._requireCharCode(core.CharRBRACE)
	t._endToken([]string{}, nil)
	t.expansionCaseStack = t.expansionCaseStack[:len(t.expansionCaseStack)-1]
}

func (t *Tokenizer) _isTextEnd() bool {
	if t._isTagStart() || t.cursor.Peek() == core.CharEOF {
		return true
	}
	if t.tokenizeIcu {
		if t._isExpansionFormStart() {
			return true
		}
		if t.cursor.Peek() == core.CharRBRACE && t._isInExpansionCase() {
			return true
		}
	}
	return false
}

// _isTagStart reports whether the cursor is at `<` followed by a letter, `/` or `!`.
func (t *Tokenizer) _isTagStart() bool {
	if t.cursor.Peek() != core.CharLT {
		return false
	}
	tmp := t.cursor.Clone()
	tmp.Advance()
	code := tmp.Peek()
	return core.IsAsciiLetter(code) || code == core.CharSLASH || code == core.CharBANG
}

func (t *Tokenizer) _isInExpansionCase() bool {
	n := len(t.expansionCaseStack)
	return n > 0 && t.expansionCaseStack[n-1] == TokenTypeEXPANSION_CASE_EXP_START
}

func (t *Tokenizer) _isInExpansionForm() bool {
	n := len(t.expansionCaseStack)
	return n > 0 && t.expansionCaseStack[n-1] == TokenTypeEXPANSION_FORM_START
}

// isWhitespace only considers ASCII whitespace: the cursor reads bytes, and a
// non-breaking space byte may be part of a longer UTF-8 sequence.
func isWhitespace(code int) bool {
	return code >= core.CharTAB && code <= core.CharSPACE
}

func isNotWhitespace(code int) bool {
	return !isWhitespace(code) || code == core.CharEOF
}

func isNameEnd(code int) bool {
	return isWhitespace(code) || code == core.CharGT || code == core.CharLT ||
		code == core.CharSLASH || code == core.CharSQ || code == core.CharDQ ||
		code == core.CharEQ || code == core.CharEOF
}

func isPrefixEnd(code int) bool {
	return !core.IsAsciiLetter(code) && !core.IsDigit(code)
}

func isDigitEntityEnd(code int) bool {
	return code == core.CharSEMICOLON || code == core.CharEOF || !core.IsAsciiHexDigit(code)
}

func isNamedEntityEnd(code int) bool {
	return code == core.CharSEMICOLON || code == core.CharEOF || !(core.IsAsciiLetter(code) || core.IsDigit(code))
}

func toLowerCaseCharCode(code int) int {
	if code >= 'A' && code <= 'Z' {
		return code + ('a' - 'A')
	}
	return code
}

func _unexpectedCharacterErrorMsg(charCode int) string {
	if charCode == core.CharEOF {
		return `Unexpected character "EOF"`
	}
	return fmt.Sprintf(`Unexpected character "%c"`, rune(charCode))
}

func _unknownEntityErrorMsg(entity string) string {
	return fmt.Sprintf(`Unknown entity "%s" - use the "&#<decimal>;" or  "&#x<hex>;" syntax`, entity)
}
