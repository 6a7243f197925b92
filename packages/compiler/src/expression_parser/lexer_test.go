package expression_parser_test

import (
	"testing"

	"ngc-template/packages/compiler/src/expression_parser"
)

func lex(text string) []*expression_parser.Token {
	return expression_parser.NewLexer().Tokenize(text)
}

func expectToken(t *testing.T, token *expression_parser.Token, index, end int) {
	t.Helper()
	if token.Index != index {
		t.Errorf("Expected index %d, got %d", index, token.Index)
	}
	if token.End != end {
		t.Errorf("Expected end %d, got %d", end, token.End)
	}
}

func expectTokenOfType(t *testing.T, token *expression_parser.Token, typ expression_parser.TokenType, index, end int, str string) {
	t.Helper()
	expectToken(t, token, index, end)
	if token.Type != typ {
		t.Errorf("Expected token type %v, got %v", typ, token.Type)
	}
	if token.String() != str {
		t.Errorf("Expected %q, got %q", str, token.String())
	}
}

func TestLexer(t *testing.T) {
	t.Run("should tokenize a simple identifier", func(t *testing.T) {
		tokens := lex("j")
		if len(tokens) != 1 {
			t.Fatalf("Expected 1 token, got %d", len(tokens))
		}
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypeIdentifier, 0, 1, "j")
	})

	t.Run("should tokenize keywords", func(t *testing.T) {
		tokens := lex("let as this")
		if len(tokens) != 3 {
			t.Fatalf("Expected 3 tokens, got %d", len(tokens))
		}
		if !tokens[0].IsKeywordLet() || !tokens[1].IsKeywordAs() || !tokens[2].IsKeywordThis() {
			t.Errorf("Expected let, as and this keywords, got %v", tokens)
		}
	})

	t.Run("should tokenize a dotted identifier", func(t *testing.T) {
		tokens := lex("j.k")
		if len(tokens) != 3 {
			t.Fatalf("Expected 3 tokens, got %d", len(tokens))
		}
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypeIdentifier, 0, 1, "j")
		expectTokenOfType(t, tokens[1], expression_parser.TokenTypeCharacter, 1, 2, ".")
		expectTokenOfType(t, tokens[2], expression_parser.TokenTypeIdentifier, 2, 3, "k")
	})

	t.Run("should tokenize a private identifier", func(t *testing.T) {
		tokens := lex("#a")
		if len(tokens) != 1 {
			t.Fatalf("Expected 1 token, got %d", len(tokens))
		}
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypePrivateIdentifier, 0, 2, "#a")
	})

	t.Run("should report a lone hash", func(t *testing.T) {
		tokens := lex("#")
		if len(tokens) != 1 {
			t.Fatalf("Expected 1 token, got %d", len(tokens))
		}
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypeError, 0, 1,
			"Lexer Error: Invalid character [#] at column 0 in expression [#]")
	})

	t.Run("should tokenize operators", func(t *testing.T) {
		cases := []struct {
			input string
			op    string
			index int
			end   int
		}{
			{"j-k", "-", 1, 2},
			{"a ?? b", "??", 2, 4},
			{"a?.b", "?.", 1, 3},
			{"a === b", "===", 2, 5},
			{"a !== b", "!==", 2, 5},
			{"a ** b", "**", 2, 4},
			{"a <= b", "<=", 2, 4},
			{"a && b", "&&", 2, 4},
			{"a | b", "|", 2, 3},
		}
		for _, c := range cases {
			tokens := lex(c.input)
			if len(tokens) != 3 {
				t.Fatalf("%s: expected 3 tokens, got %d", c.input, len(tokens))
			}
			expectTokenOfType(t, tokens[1], expression_parser.TokenTypeOperator, c.index, c.end, c.op)
		}
	})

	t.Run("should tokenize numbers", func(t *testing.T) {
		cases := []struct {
			input string
			value float64
		}{
			{"88", 88},
			{"0.5", 0.5},
			{".5", 0.5},
			{"1_000", 1000},
			{"1e5", 100000},
			{"2.5E-1", 0.25},
		}
		for _, c := range cases {
			tokens := lex(c.input)
			if len(tokens) != 1 {
				t.Fatalf("%s: expected 1 token, got %d", c.input, len(tokens))
			}
			if !tokens[0].IsNumber() || tokens[0].ToNumber() != c.value {
				t.Errorf("%s: expected number %v, got %v", c.input, c.value, tokens[0])
			}
		}
	})

	t.Run("should report an invalid exponent", func(t *testing.T) {
		tokens := lex("1e")
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypeError, 1, 2,
			"Lexer Error: Invalid exponent at column 1 in expression [1e]")
	})

	t.Run("should tokenize strings with escapes", func(t *testing.T) {
		tokens := lex(`'it\'s'`)
		if len(tokens) != 1 {
			t.Fatalf("Expected 1 token, got %d", len(tokens))
		}
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypeString, 0, 7, "it's")

		tokens = lex(`"\u0041\n"`)
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypeString, 0, 10, "A\n")
	})

	t.Run("should report an unterminated string", func(t *testing.T) {
		tokens := lex("'abc")
		expectTokenOfType(t, tokens[0], expression_parser.TokenTypeError, 4, 4,
			"Lexer Error: Unterminated quote at column 4 in expression ['abc]")
	})

	t.Run("should skip whitespace", func(t *testing.T) {
		tokens := lex("  a\n\tb ")
		if len(tokens) != 2 {
			t.Fatalf("Expected 2 tokens, got %d", len(tokens))
		}
		expectToken(t, tokens[0], 2, 3)
		expectToken(t, tokens[1], 5, 6)
	})
}
