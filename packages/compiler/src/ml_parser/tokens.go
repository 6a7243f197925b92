package ml_parser

import "ngc-template/packages/compiler/src/util"

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTAG_OPEN_START TokenType = iota
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	TokenTypeTAG_CLOSE
	TokenTypeINCOMPLETE_TAG_OPEN
	TokenTypeTEXT
	TokenTypeESCAPABLE_RAW_TEXT
	TokenTypeRAW_TEXT
	TokenTypeINTERPOLATION
	TokenTypeENCODED_ENTITY
	TokenTypeCOMMENT_START
	TokenTypeCOMMENT_END
	TokenTypeCDATA_START
	TokenTypeCDATA_END
	TokenTypeATTR_NAME
	TokenTypeATTR_QUOTE
	TokenTypeATTR_VALUE_TEXT
	TokenTypeATTR_VALUE_INTERPOLATION
	TokenTypeDOC_TYPE
	TokenTypeEXPANSION_FORM_START
	TokenTypeEXPANSION_CASE_VALUE
	TokenTypeEXPANSION_CASE_EXP_START
	TokenTypeEXPANSION_CASE_EXP_END
	TokenTypeEXPANSION_FORM_END
	TokenTypeEOF
)

var tokenTypeNames = [...]string{
	"TAG_OPEN_START", "TAG_OPEN_END", "TAG_OPEN_END_VOID", "TAG_CLOSE", "INCOMPLETE_TAG_OPEN",
	"TEXT", "ESCAPABLE_RAW_TEXT", "RAW_TEXT", "INTERPOLATION", "ENCODED_ENTITY",
	"COMMENT_START", "COMMENT_END", "CDATA_START", "CDATA_END",
	"ATTR_NAME", "ATTR_QUOTE", "ATTR_VALUE_TEXT", "ATTR_VALUE_INTERPOLATION", "DOC_TYPE",
	"EXPANSION_FORM_START", "EXPANSION_CASE_VALUE", "EXPANSION_CASE_EXP_START",
	"EXPANSION_CASE_EXP_END", "EXPANSION_FORM_END", "EOF",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token is one lexeme of the template source. The meaning of Parts depends on
// Type:
//
//	TAG_OPEN_START, TAG_CLOSE, ATTR_NAME: [prefix, name]
//	TEXT, ATTR_VALUE_TEXT, RAW_TEXT:      [text]
//	ENCODED_ENTITY:                       [decoded, encoded]
//	INTERPOLATION:                        [startMarker, expression, endMarker]
//
// An INTERPOLATION token that reached the end of its text without an end
// marker has only two parts.
type Token struct {
	Type       TokenType
	Parts      []string
	SourceSpan *util.ParseSourceSpan
}

// NewToken creates a new Token
func NewToken(typ TokenType, parts []string, sourceSpan *util.ParseSourceSpan) *Token {
	return &Token{Type: typ, Parts: parts, SourceSpan: sourceSpan}
}

// IsInterpolation reports whether the token is a text or attribute
// interpolation.
func (t *Token) IsInterpolation() bool {
	return t.Type == TokenTypeINTERPOLATION || t.Type == TokenTypeATTR_VALUE_INTERPOLATION
}
