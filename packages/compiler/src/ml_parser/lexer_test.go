package ml_parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-template/packages/compiler/src/ml_parser"
)

func tokenizeAndHumanizeParts(input string, options *ml_parser.TokenizeOptions) []interface{} {
	result := ml_parser.Tokenize(input, "someUrl", nil, options)
	humanized := []interface{}{}
	for _, token := range result.Tokens {
		parts := []interface{}{token.Type}
		for _, part := range token.Parts {
			parts = append(parts, part)
		}
		humanized = append(humanized, parts)
	}
	return humanized
}

func tokenizeAndHumanizeSourceSpans(input string, options *ml_parser.TokenizeOptions) []interface{} {
	result := ml_parser.Tokenize(input, "someUrl", nil, options)
	humanized := []interface{}{}
	for _, token := range result.Tokens {
		humanized = append(humanized, []interface{}{token.Type, token.SourceSpan.String()})
	}
	return humanized
}

func tokenizeAndHumanizeLineColumn(input string, options *ml_parser.TokenizeOptions) []interface{} {
	result := ml_parser.Tokenize(input, "someUrl", nil, options)
	humanized := []interface{}{}
	for _, token := range result.Tokens {
		humanized = append(humanized, []interface{}{token.Type, humanizeLineColumn(token.SourceSpan.Start)})
	}
	return humanized
}

func tokenizeAndHumanizeFullStart(input string, options *ml_parser.TokenizeOptions) []interface{} {
	result := ml_parser.Tokenize(input, "someUrl", nil, options)
	humanized := []interface{}{}
	for _, token := range result.Tokens {
		humanized = append(humanized, []interface{}{
			token.Type,
			humanizeLineColumn(token.SourceSpan.Start),
			humanizeLineColumn(token.SourceSpan.FullStart),
		})
	}
	return humanized
}

func tokenizeAndHumanizeErrors(input string, options *ml_parser.TokenizeOptions) []interface{} {
	result := ml_parser.Tokenize(input, "someUrl", nil, options)
	humanized := []interface{}{}
	for _, err := range result.Errors {
		humanized = append(humanized, []interface{}{err.Msg, humanizeLineColumn(err.Span.Start)})
	}
	return humanized
}

func expectTokens(t *testing.T, expected, result []interface{}) {
	t.Helper()
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestHtmlLexer_LineColumnNumbers(t *testing.T) {
	t.Run("should work without newlines", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "0:0"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END, "0:2"},
			[]interface{}{ml_parser.TokenTypeTEXT, "0:3"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "0:4"},
			[]interface{}{ml_parser.TokenTypeEOF, "0:8"},
		}, tokenizeAndHumanizeLineColumn("<t>a</t>", nil))
	})

	t.Run("should work with CR and LF", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "0:0"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END, "1:0"},
			[]interface{}{ml_parser.TokenTypeTEXT, "1:1"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "2:1"},
			[]interface{}{ml_parser.TokenTypeEOF, "2:5"},
		}, tokenizeAndHumanizeLineColumn("<t\n>\r\na\r</t>", nil))
	})

	t.Run("should skip over leading trivia for source-span start", func(t *testing.T) {
		options := &ml_parser.TokenizeOptions{LeadingTriviaChars: []string{"\n", " ", "\t"}}
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "0:0", "0:0"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END, "0:2", "0:2"},
			[]interface{}{ml_parser.TokenTypeTEXT, "1:3", "0:3"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "1:4", "1:4"},
			[]interface{}{ml_parser.TokenTypeEOF, "1:8", "1:8"},
		}, tokenizeAndHumanizeFullStart("<t>\n \t a</t>", options))
	})
}

func TestHtmlLexer_Comments(t *testing.T) {
	t.Run("should parse comments", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeCOMMENT_START},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "t\ne\ns\nt"},
			[]interface{}{ml_parser.TokenTypeCOMMENT_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<!--t\ne\rs\r\nt-->", nil))
	})

	t.Run("should store the locations", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeCOMMENT_START, "<!--"},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "t\ne\rs\r\nt"},
			[]interface{}{ml_parser.TokenTypeCOMMENT_END, "-->"},
			[]interface{}{ml_parser.TokenTypeEOF, ""},
		}, tokenizeAndHumanizeSourceSpans("<!--t\ne\rs\r\nt-->", nil))
	})

	t.Run("should report <!- without -", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{`Unexpected character "a"`, "0:3"},
		}, tokenizeAndHumanizeErrors("<!-a", nil))
	})

	t.Run("should report missing end comment", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{`Unexpected character "EOF"`, "0:4"},
		}, tokenizeAndHumanizeErrors("<!--", nil))
	})
}

func TestHtmlLexer_DoctypeAndCDATA(t *testing.T) {
	t.Run("should parse doctypes", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeDOC_TYPE, "DOCTYPE html"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<!DOCTYPE html>", nil))
	})

	t.Run("should parse CDATA", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeCDATA_START},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "t\ne\ns\nt"},
			[]interface{}{ml_parser.TokenTypeCDATA_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<![CDATA[t\ne\rs\r\nt]]>", nil))
	})
}

func TestHtmlLexer_OpenTags(t *testing.T) {
	t.Run("should parse open tags without prefix", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "test"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<test>", nil))
	})

	t.Run("should parse namespace prefix", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "ns1", "test"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<ns1:test>", nil))
	})

	t.Run("should parse void tags", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "test"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END_VOID},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<test/>", nil))
	})

	t.Run("should store the locations", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "<test"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END, ">"},
			[]interface{}{ml_parser.TokenTypeEOF, ""},
		}, tokenizeAndHumanizeSourceSpans("<test  >", nil))
	})

	t.Run("should mark a tag terminated by EOF as incomplete", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeINCOMPLETE_TAG_OPEN, "", "div"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<div", nil))
		expectTokens(t, []interface{}{}, tokenizeAndHumanizeErrors("<div", nil))
	})

	t.Run("should mark a tag interrupted by another tag as incomplete", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeINCOMPLETE_TAG_OPEN, "", "div"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "class"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "'"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE_TEXT, "hi"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "'"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "span"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<div class='hi' <span>", nil))
	})

	t.Run("should treat a lone < as text", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a < b"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("a < b", nil))
	})
}

func TestHtmlLexer_Attributes(t *testing.T) {
	t.Run("should parse attributes without prefix", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "t"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "a"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<t a>", nil))
	})

	t.Run("should parse attributes with prefix", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "t"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "ns1", "a"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<t ns1:a>", nil))
	})

	t.Run("should parse binding attribute names", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "t"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "[(ngModel)]"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "(window:click)"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "*ngIf"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "#ref"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<t [(ngModel)] (window:click) *ngIf #ref>", nil))
	})

	t.Run("should parse quoted and unquoted values", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "t"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "a"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, `"`},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE_TEXT, "b"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, `"`},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "c"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE_TEXT, "d"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts(`<t a="b" c=d>`, nil))
	})

	t.Run("should parse attributes with interpolation", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "t"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "a"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, `"`},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE_TEXT, "x"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE_INTERPOLATION, "{{", "v", "}}"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE_TEXT, ""},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, `"`},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts(`<t a="x{{v}}">`, nil))
	})

	t.Run("should report an attribute name starting with a quote", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeINCOMPLETE_TAG_OPEN, "", "t"},
			[]interface{}{ml_parser.TokenTypeTEXT, `"a">`},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts(`<t "a">`, nil))
	})
}

func TestHtmlLexer_Entities(t *testing.T) {
	t.Run("should parse named entities", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a"},
			[]interface{}{ml_parser.TokenTypeENCODED_ENTITY, "&", "&amp;"},
			[]interface{}{ml_parser.TokenTypeTEXT, "b"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("a&amp;b", nil))
	})

	t.Run("should parse hexadecimal and decimal entities", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeENCODED_ENTITY, "A", "&#x41;"},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeENCODED_ENTITY, "A", "&#65;"},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("&#x41;&#65;", nil))
	})

	t.Run("should decode the ngsp pseudo-entity", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeENCODED_ENTITY, ml_parser.NgspUnicode, "&ngsp;"},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("&ngsp;", nil))
	})

	t.Run("should report malformed or unknown entities", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{`Unknown entity "tbo" - use the "&#<decimal>;" or  "&#x<hex>;" syntax`, "0:0"},
		}, tokenizeAndHumanizeErrors("&tbo;", nil))
		expectTokens(t, []interface{}{
			[]interface{}{`Unable to parse entity "&#as" - decimal character reference entities must end with ";"`, "0:4"},
		}, tokenizeAndHumanizeErrors("&#asdf;", nil))
		expectTokens(t, []interface{}{
			[]interface{}{`Unable to parse entity "&#xas" - hexadecimal character reference entities must end with ";"`, "0:5"},
		}, tokenizeAndHumanizeErrors("&#xasdf;", nil))
		expectTokens(t, []interface{}{
			[]interface{}{`Unexpected character "EOF"`, "0:6"},
		}, tokenizeAndHumanizeErrors("&#xABC", nil))
	})
}

func TestHtmlLexer_RegularText(t *testing.T) {
	t.Run("should parse interpolation", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeINTERPOLATION, "{{", " a ", "}}"},
			[]interface{}{ml_parser.TokenTypeTEXT, "b"},
			[]interface{}{ml_parser.TokenTypeINTERPOLATION, "{{", " c // comment ", "}}"},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("{{ a }}b{{ c // comment }}", nil))
	})

	t.Run("should store the interpolation locations", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a "},
			[]interface{}{ml_parser.TokenTypeINTERPOLATION, "{{ b }}"},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeEOF, ""},
		}, tokenizeAndHumanizeSourceSpans("a {{ b }}", nil))
	})

	t.Run("should not end an interpolation inside quotes", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeINTERPOLATION, "{{", " '}}' ", "}}"},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("{{ '}}' }}", nil))
	})

	t.Run("should end an unterminated interpolation at a tag", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeINTERPOLATION, "{{", " a "},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "b"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("{{ a <b>", nil))
	})

	t.Run("should use custom interpolation markers", func(t *testing.T) {
		options := &ml_parser.TokenizeOptions{
			InterpolationConfig: &ml_parser.InterpolationConfig{Start: "[[", End: "]]"},
		}
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "{{ a }}"},
			[]interface{}{ml_parser.TokenTypeINTERPOLATION, "[[", " b ", "]]"},
			[]interface{}{ml_parser.TokenTypeTEXT, ""},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("{{ a }}[[ b ]]", options))
	})
}

func TestHtmlLexer_RawText(t *testing.T) {
	t.Run("should parse script content as raw text", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "script"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "a</b>&amp;"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "", "script"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<script>a</b>&amp;</script>", nil))
	})

	t.Run("should decode entities in escapable raw text", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "title"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeESCAPABLE_RAW_TEXT, ""},
			[]interface{}{ml_parser.TokenTypeENCODED_ENTITY, "&", "&amp;"},
			[]interface{}{ml_parser.TokenTypeESCAPABLE_RAW_TEXT, "<b>"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "", "title"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("<title>&amp;<b></TITLE>", nil))
	})
}

func TestHtmlLexer_ExpansionForms(t *testing.T) {
	options := &ml_parser.TokenizeOptions{TokenizeExpansionForms: true}

	t.Run("should parse an expansion form", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeEXPANSION_FORM_START},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "one.two"},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "three"},
			[]interface{}{ml_parser.TokenTypeEXPANSION_CASE_VALUE, "=4"},
			[]interface{}{ml_parser.TokenTypeEXPANSION_CASE_EXP_START},
			[]interface{}{ml_parser.TokenTypeTEXT, "four"},
			[]interface{}{ml_parser.TokenTypeEXPANSION_CASE_EXP_END},
			[]interface{}{ml_parser.TokenTypeEXPANSION_CASE_VALUE, "other"},
			[]interface{}{ml_parser.TokenTypeEXPANSION_CASE_EXP_START},
			[]interface{}{ml_parser.TokenTypeTEXT, "bar"},
			[]interface{}{ml_parser.TokenTypeEXPANSION_CASE_EXP_END},
			[]interface{}{ml_parser.TokenTypeEXPANSION_FORM_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("{one.two, three, =4 {four} other {bar} }", options))
	})

	t.Run("should leave braces as text when disabled", func(t *testing.T) {
		expectTokens(t, []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "{a, b, c {d}}"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}, tokenizeAndHumanizeParts("{a, b, c {d}}", nil))
	})
}
