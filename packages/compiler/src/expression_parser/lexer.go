package expression_parser

import (
	"fmt"
	"strconv"
	"strings"

	"ngc-template/packages/compiler/src/core"
)

// TokenType is the kind of an expression token.
type TokenType int

const (
	TokenTypeCharacter TokenType = iota
	TokenTypeIdentifier
	TokenTypePrivateIdentifier
	TokenTypeKeyword
	TokenTypeString
	TokenTypeOperator
	TokenTypeNumber
	TokenTypeError
)

var keywords = map[string]bool{
	"var":       true,
	"let":       true,
	"as":        true,
	"null":      true,
	"undefined": true,
	"true":      true,
	"false":     true,
	"if":        true,
	"else":      true,
	"this":      true,
	"typeof":    true,
	"void":      true,
	"in":        true,
}

// Token is one lexeme of an expression. Index and End are byte offsets into
// the expression source.
type Token struct {
	Index    int
	End      int
	Type     TokenType
	NumValue float64
	StrValue string
}

// NewToken creates a new Token
func NewToken(index, end int, typ TokenType, numValue float64, strValue string) *Token {
	return &Token{Index: index, End: end, Type: typ, NumValue: numValue, StrValue: strValue}
}

// EOF is returned by the parser when it reads past the last token.
var EOF = NewToken(-1, -1, TokenTypeCharacter, 0, "")

func (t *Token) IsCharacter(code int) bool {
	return t.Type == TokenTypeCharacter && int(t.NumValue) == code
}

func (t *Token) IsNumber() bool            { return t.Type == TokenTypeNumber }
func (t *Token) IsString() bool            { return t.Type == TokenTypeString }
func (t *Token) IsIdentifier() bool        { return t.Type == TokenTypeIdentifier }
func (t *Token) IsPrivateIdentifier() bool { return t.Type == TokenTypePrivateIdentifier }
func (t *Token) IsKeyword() bool           { return t.Type == TokenTypeKeyword }
func (t *Token) IsError() bool             { return t.Type == TokenTypeError }

func (t *Token) IsOperator(operator string) bool {
	return t.Type == TokenTypeOperator && t.StrValue == operator
}

func (t *Token) isKeyword(kw string) bool {
	return t.Type == TokenTypeKeyword && t.StrValue == kw
}

func (t *Token) IsKeywordLet() bool       { return t.isKeyword("let") }
func (t *Token) IsKeywordAs() bool        { return t.isKeyword("as") }
func (t *Token) IsKeywordNull() bool      { return t.isKeyword("null") }
func (t *Token) IsKeywordUndefined() bool { return t.isKeyword("undefined") }
func (t *Token) IsKeywordTrue() bool      { return t.isKeyword("true") }
func (t *Token) IsKeywordFalse() bool     { return t.isKeyword("false") }
func (t *Token) IsKeywordThis() bool      { return t.isKeyword("this") }
func (t *Token) IsKeywordTypeof() bool    { return t.isKeyword("typeof") }
func (t *Token) IsKeywordVoid() bool      { return t.isKeyword("void") }

// ToNumber returns the numeric value of a number token, or -1.
func (t *Token) ToNumber() float64 {
	if t.Type == TokenTypeNumber {
		return t.NumValue
	}
	return -1
}

func (t *Token) String() string {
	switch t.Type {
	case TokenTypeNumber:
		return strconv.FormatFloat(t.NumValue, 'f', -1, 64)
	case TokenTypeCharacter:
		if t == EOF {
			return ""
		}
	}
	return t.StrValue
}

// Lexer splits expression source into tokens. It is stateless and safe for
// concurrent use.
type Lexer struct{}

// NewLexer creates a new Lexer
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize scans text into tokens. Lexical problems are reported as
// TokenTypeError tokens rather than aborting the scan.
func (l *Lexer) Tokenize(text string) []*Token {
	s := &scanner{input: text, length: len(text), index: -1}
	s.advance()
	var tokens []*Token
	for tok := s.scanToken(); tok != nil; tok = s.scanToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}

type scanner struct {
	input  string
	length int
	peek   int
	index  int
}

func (s *scanner) advance() {
	s.index++
	if s.index >= s.length {
		s.peek = core.CharEOF
	} else {
		s.peek = int(s.input[s.index])
	}
}

func (s *scanner) scanToken() *Token {
	for s.index < s.length && (s.peek <= core.CharSPACE || s.peek == core.CharNBSP) {
		s.advance()
	}
	if s.index >= s.length {
		return nil
	}

	peek, start := s.peek, s.index
	if isIdentifierStart(peek) {
		return s.scanIdentifier()
	}
	if core.IsDigit(peek) {
		return s.scanNumber(start)
	}

	switch peek {
	case core.CharPERIOD:
		s.advance()
		if core.IsDigit(s.peek) {
			return s.scanNumber(start)
		}
		return newCharacterToken(start, s.index, core.CharPERIOD)
	case core.CharLPAREN, core.CharRPAREN, core.CharLBRACE, core.CharRBRACE,
		core.CharLBRACKET, core.CharRBRACKET, core.CharCOMMA, core.CharCOLON, core.CharSEMICOLON:
		s.advance()
		return newCharacterToken(start, s.index, peek)
	case core.CharSQ, core.CharDQ:
		return s.scanString()
	case core.CharHASH:
		return s.scanPrivateIdentifier()
	case core.CharPLUS, core.CharMINUS, core.CharSLASH, core.CharPERCENT, core.CharCARET:
		s.advance()
		return newOperatorToken(start, s.index, string(rune(peek)))
	case core.CharSTAR:
		return s.scanComplexOperator(start, "*", core.CharSTAR, "*")
	case core.CharQUESTION:
		return s.scanQuestion(start)
	case core.CharLT, core.CharGT:
		return s.scanComplexOperator(start, string(rune(peek)), core.CharEQ, "=")
	case core.CharBANG, core.CharEQ:
		return s.scanComplexOperator(start, string(rune(peek)), core.CharEQ, "=", core.CharEQ)
	case core.CharAMPERSAND:
		return s.scanComplexOperator(start, "&", core.CharAMPERSAND, "&")
	case core.CharBAR:
		return s.scanComplexOperator(start, "|", core.CharBAR, "|")
	}

	s.advance()
	return s.error(fmt.Sprintf("Unexpected character [%c]", rune(peek)), 0)
}

// scanComplexOperator scans `one`, optionally followed by `two` when the next
// char is twoCode, optionally followed by a third char threeCode.
func (s *scanner) scanComplexOperator(start int, one string, twoCode int, two string, threeCode ...int) *Token {
	s.advance()
	str := one
	if s.peek == twoCode {
		s.advance()
		str += two
		if len(threeCode) > 0 && s.peek == threeCode[0] {
			s.advance()
			str += string(rune(threeCode[0]))
		}
	}
	return newOperatorToken(start, s.index, str)
}

func (s *scanner) scanQuestion(start int) *Token {
	s.advance()
	op := "?"
	switch s.peek {
	case core.CharQUESTION:
		op = "??"
		s.advance()
	case core.CharPERIOD:
		op = "?."
		s.advance()
	}
	return newOperatorToken(start, s.index, op)
}

func (s *scanner) scanIdentifier() *Token {
	start := s.index
	s.advance()
	for isIdentifierPart(s.peek) {
		s.advance()
	}
	str := s.input[start:s.index]
	if keywords[str] {
		return NewToken(start, s.index, TokenTypeKeyword, 0, str)
	}
	return NewToken(start, s.index, TokenTypeIdentifier, 0, str)
}

func (s *scanner) scanPrivateIdentifier() *Token {
	start := s.index
	s.advance()
	if !isIdentifierStart(s.peek) {
		return s.error("Invalid character [#]", -1)
	}
	for isIdentifierPart(s.peek) {
		s.advance()
	}
	return NewToken(start, s.index, TokenTypePrivateIdentifier, 0, s.input[start:s.index])
}

func (s *scanner) scanNumber(start int) *Token {
	simple := s.index == start
	hasSeparators := false
	s.advance()
	for {
		switch {
		case core.IsDigit(s.peek):
		case s.peek == core.CharUnderscore:
			// separators must sit between two digits
			if !core.IsDigit(int(s.input[s.index-1])) || s.index+1 >= s.length || !core.IsDigit(int(s.input[s.index+1])) {
				return s.error("Invalid numeric separator", 0)
			}
			hasSeparators = true
		case s.peek == core.CharPERIOD:
			simple = false
		case s.peek == core.CharE || s.peek == core.CharLowerE:
			s.advance()
			if s.peek == core.CharMINUS || s.peek == core.CharPLUS {
				s.advance()
			}
			if !core.IsDigit(s.peek) {
				return s.error("Invalid exponent", -1)
			}
			simple = false
		default:
			str := s.input[start:s.index]
			if hasSeparators {
				str = strings.ReplaceAll(str, "_", "")
			}
			var value float64
			if simple {
				n, _ := strconv.ParseInt(str, 10, 64)
				value = float64(n)
			} else {
				value, _ = strconv.ParseFloat(str, 64)
			}
			return NewToken(start, s.index, TokenTypeNumber, value, "")
		}
		s.advance()
	}
}

func (s *scanner) scanString() *Token {
	start := s.index
	quote := s.peek
	s.advance()

	var buf strings.Builder
	marker := s.index
	for s.peek != quote {
		switch s.peek {
		case core.CharBACKSLASH:
			buf.WriteString(s.input[marker:s.index])
			s.advance()
			if s.peek == core.CharLowerU {
				hex := ""
				if s.index+5 <= s.length {
					hex = s.input[s.index+1 : s.index+5]
				}
				code, err := strconv.ParseUint(hex, 16, 32)
				if len(hex) != 4 || err != nil {
					return s.error(fmt.Sprintf("Invalid unicode escape [\\u%s]", hex), 0)
				}
				buf.WriteRune(rune(code))
				for i := 0; i < 5; i++ {
					s.advance()
				}
			} else {
				buf.WriteByte(unescape(byte(s.peek)))
				s.advance()
			}
			marker = s.index
		case core.CharEOF:
			return s.error("Unterminated quote", 0)
		default:
			s.advance()
		}
	}
	buf.WriteString(s.input[marker:s.index])
	s.advance()
	return NewToken(start, s.index, TokenTypeString, 0, buf.String())
}

func (s *scanner) error(message string, offset int) *Token {
	position := s.index + offset
	return NewToken(position, s.index, TokenTypeError, 0,
		fmt.Sprintf("Lexer Error: %s at column %d in expression [%s]", message, position, s.input))
}

func isIdentifierStart(code int) bool {
	return core.IsAsciiLetter(code) || code == core.CharUnderscore || code == core.CharDollar
}

func isIdentifierPart(code int) bool {
	return isIdentifierStart(code) || core.IsDigit(code)
}

func unescape(code byte) byte {
	switch code {
	case 'n':
		return '\n'
	case 'f':
		return '\f'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	}
	return code
}

func newCharacterToken(index, end int, code int) *Token {
	return NewToken(index, end, TokenTypeCharacter, float64(code), string(rune(code)))
}

func newOperatorToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeOperator, 0, text)
}
