// Package core holds the byte-level vocabulary shared by the template lexers.
package core

// Byte values the lexers switch on, named after the character they stand for.
const (
	CharEOF       = 0
	CharTAB       = 9
	CharLF        = 10
	CharVTAB      = 11
	CharFF        = 12
	CharCR        = 13
	CharSPACE     = 32
	CharBANG      = 33
	CharDQ        = 34
	CharHASH      = 35
	CharDollar    = 36
	CharPERCENT   = 37
	CharAMPERSAND = 38
	CharSQ        = 39
	CharLPAREN    = 40
	CharRPAREN    = 41
	CharSTAR      = 42
	CharPLUS      = 43
	CharCOMMA     = 44
	CharMINUS     = 45
	CharPERIOD    = 46
	CharSLASH     = 47
	CharCOLON     = 58
	CharSEMICOLON = 59
	CharLT        = 60
	CharEQ        = 61
	CharGT        = 62
	CharQUESTION  = 63
	CharAT        = 64

	Char0 = 48
	Char7 = 55
	Char9 = 57

	CharA = 65
	CharE = 69
	CharF = 70
	CharX = 88
	CharZ = 90

	CharLBRACKET   = 91
	CharBACKSLASH  = 92
	CharRBRACKET   = 93
	CharCARET      = 94
	CharUnderscore = 95
	CharBT         = 96

	CharLowerA = 97
	CharLowerB = 98
	CharLowerE = 101
	CharLowerF = 102
	CharLowerN = 110
	CharLowerR = 114
	CharLowerT = 116
	CharLowerU = 117
	CharLowerV = 118
	CharLowerX = 120
	CharLowerZ = 122

	CharLBRACE = 123
	CharBAR    = 124
	CharRBRACE = 125
	CharTILDA  = 126
	CharNBSP   = 160
)

type charClass uint8

const (
	classSpace charClass = 1 << iota
	classDigit
	classLetter
	classHex
	classNewLine
	classQuote
)

// classes maps every byte value to the set of lexical classes it belongs to.
var classes = func() (table [256]charClass) {
	for c := CharTAB; c <= CharSPACE; c++ {
		table[c] |= classSpace
	}
	table[CharNBSP] |= classSpace
	for c := Char0; c <= Char9; c++ {
		table[c] |= classDigit | classHex
	}
	for c := CharA; c <= CharZ; c++ {
		table[c] |= classLetter
		table[c+CharLowerA-CharA] |= classLetter
	}
	for c := CharA; c <= CharF; c++ {
		table[c] |= classHex
		table[c+CharLowerA-CharA] |= classHex
	}
	table[CharLF] |= classNewLine
	table[CharCR] |= classNewLine
	table[CharSQ] |= classQuote
	table[CharDQ] |= classQuote
	table[CharBT] |= classQuote
	return table
}()

func is(code int, class charClass) bool {
	return code >= 0 && code < len(classes) && classes[code]&class != 0
}

// IsWhitespace covers TAB through SPACE, control codes included, plus NBSP.
func IsWhitespace(code int) bool { return is(code, classSpace) }

func IsDigit(code int) bool { return is(code, classDigit) }

func IsAsciiLetter(code int) bool { return is(code, classLetter) }

func IsAsciiHexDigit(code int) bool { return is(code, classHex) }

func IsNewLine(code int) bool { return is(code, classNewLine) }

// IsQuote matches the three quote characters a template string may open with.
func IsQuote(code int) bool { return is(code, classQuote) }
