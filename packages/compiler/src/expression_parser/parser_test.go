package expression_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/util"
)

func newParser() *expression_parser.Parser {
	return expression_parser.NewParser(expression_parser.NewLexer())
}

func parseAction(text string) *expression_parser.ASTWithSource {
	return newParser().ParseAction(text, nil, 0, nil)
}

func parseBinding(text string) *expression_parser.ASTWithSource {
	return newParser().ParseBinding(text, nil, 0, nil)
}

func checkAction(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := parseAction(exp)
		expectedStr := exp
		if len(expected) > 0 {
			expectedStr = expected[0]
		}
		if len(ast.Errors) > 0 {
			t.Fatalf("Unexpected errors for %q: %v", exp, ast.Errors)
		}
		if result := expression_parser.Serialize(ast); result != expectedStr {
			t.Errorf("Expected %q, got %q", expectedStr, result)
		}
	}
}

func checkBinding(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := parseBinding(exp)
		expectedStr := exp
		if len(expected) > 0 {
			expectedStr = expected[0]
		}
		if len(ast.Errors) > 0 {
			t.Fatalf("Unexpected errors for %q: %v", exp, ast.Errors)
		}
		if result := expression_parser.Serialize(ast); result != expectedStr {
			t.Errorf("Expected %q, got %q", expectedStr, result)
		}
	}
}

func expectError(errors []*util.ParseError, message string) func(*testing.T) {
	return func(t *testing.T) {
		t.Helper()
		var msgs []string
		for _, err := range errors {
			if strings.Contains(err.Msg, message) {
				return
			}
			msgs = append(msgs, err.Msg)
		}
		t.Errorf("Expected an error containing %q, but got:\n%s", message, strings.Join(msgs, "\n"))
	}
}

func TestParser(t *testing.T) {
	t.Run("parseAction", func(t *testing.T) {
		t.Run("should parse numbers", checkAction("1"))
		t.Run("should parse strings", checkAction("'1'"))
		t.Run("should parse null", checkAction("null"))
		t.Run("should parse undefined", checkAction("undefined"))

		t.Run("should parse unary expressions", func(t *testing.T) {
			checkAction("-1")(t)
			checkAction("+a")(t)
			checkAction("!true")(t)
			checkAction("!!true")(t)
			checkAction("typeof a")(t)
			checkAction("void 0")(t)
		})

		t.Run("should parse postfix ! expression", func(t *testing.T) {
			checkAction("a!")(t)
			checkAction("a!.b")(t)
			checkAction("a!()")(t)
		})

		t.Run("should parse binary expressions", func(t *testing.T) {
			checkAction("3*4/2%5", "3 * 4 / 2 % 5")(t)
			checkAction("1 + 2 * 3")(t)
			checkAction("2 <= 3")(t)
			checkAction("2 !== 3")(t)
			checkAction("a && b || c")(t)
			checkAction("null ?? undefined ?? 0")(t)
			checkAction("2 ** 3")(t)
		})

		t.Run("should parse grouped expressions", checkAction("(1 + 2) * 3"))
		t.Run("should parse conditionals", checkAction("a ? b : c"))

		t.Run("should parse property and keyed access", func(t *testing.T) {
			checkAction("a.b.c")(t)
			checkAction("a?.b")(t)
			checkAction("a[0]")(t)
			checkAction("a?.[0]")(t)
		})

		t.Run("should parse calls", func(t *testing.T) {
			checkAction("fn(1, 2)")(t)
			checkAction("a.b()")(t)
			checkAction("a?.(1)")(t)
		})

		t.Run("should parse literals", func(t *testing.T) {
			checkAction("[1, 2]")(t)
			checkAction("{a: 1, 'b': 2, c}")(t)
			checkAction("1.5")(t)
		})

		t.Run("should parse assignments and chains", func(t *testing.T) {
			checkAction("a = 1; b()")(t)
			checkAction("a[0] = b")(t)
			checkAction("a;;b", "a; b")(t)
		})

		t.Run("should ignore comments", checkAction("a //comment", "a"))
		t.Run("should retain // in string literals", checkAction("'http://www.google.com'"))
		t.Run("should parse an empty string", checkAction(""))

		t.Run("should report a pipe", func(t *testing.T) {
			expectError(parseAction("a | b").Errors, "Cannot have a pipe in an action expression")(t)
		})

		t.Run("should report a safe assignment", func(t *testing.T) {
			expectError(parseAction("a?.b = 1").Errors, "The '?.' operator cannot be used in the assignment")(t)
		})
	})

	t.Run("parseBinding", func(t *testing.T) {
		t.Run("should parse pipes", func(t *testing.T) {
			checkBinding("a | b")(t)
			checkBinding("x | pipe:1:2")(t)
			checkBinding("a | b | c")(t)
		})

		t.Run("should report chains", func(t *testing.T) {
			expectError(parseBinding("a; b").Errors, "Binding expression cannot contain chained expression")(t)
		})

		t.Run("should report assignments", func(t *testing.T) {
			expectError(parseBinding("a = 1").Errors, "Bindings cannot contain assignments")(t)
		})

		t.Run("should report interpolation", func(t *testing.T) {
			expectError(parseBinding("{{a}}").Errors, "Got interpolation ({{}}) where expression was expected")(t)
		})

		t.Run("should report incomplete conditionals", func(t *testing.T) {
			expectError(parseBinding("a ? b").Errors, "Conditional expression a ? b requires all 3 expressions")(t)
		})

		t.Run("should report empty key access", func(t *testing.T) {
			expectError(parseBinding("a[]").Errors, "Key access cannot be empty")(t)
		})

		t.Run("should report private identifiers", func(t *testing.T) {
			expectError(parseBinding("#priv").Errors, "Private identifiers are not supported")(t)
		})

		t.Run("should report missing parentheses", func(t *testing.T) {
			expectError(parseBinding("(a").Errors, "Missing closing parentheses")(t)
		})

		t.Run("should include the location in error messages", func(t *testing.T) {
			file := util.NewParseSourceFile("a b", "test.html")
			start := util.NewParseLocation(file, 0, 0, 0)
			location := util.NewParseSourceSpan(start, start.MoveBy(3), nil, "")
			ast := newParser().ParseBinding("a b", location, 0, nil)
			if len(ast.Errors) != 1 {
				t.Fatalf("Expected 1 error, got %d", len(ast.Errors))
			}
			want := "Parser Error: Unexpected token 'b' at column 3 in [a b] in test.html@0:0"
			if ast.Errors[0].Msg != want {
				t.Errorf("Expected %q, got %q", want, ast.Errors[0].Msg)
			}
		})

		t.Run("should record spans", func(t *testing.T) {
			ast := newParser().ParseBinding("foo.bar", nil, 10, nil)
			read, ok := ast.AST.(*expression_parser.PropertyRead)
			if !ok {
				t.Fatalf("Expected a PropertyRead, got %T", ast.AST)
			}
			if diff := cmp.Diff(&expression_parser.ParseSpan{Start: 0, End: 7}, read.Span()); diff != "" {
				t.Errorf("span mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(&expression_parser.AbsoluteSourceSpan{Start: 10, End: 17}, read.SourceSpan()); diff != "" {
				t.Errorf("source span mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(&expression_parser.AbsoluteSourceSpan{Start: 14, End: 17}, read.NameSpan); diff != "" {
				t.Errorf("name span mismatch (-want +got):\n%s", diff)
			}
			receiver := read.Receiver.(*expression_parser.PropertyRead)
			if diff := cmp.Diff(&expression_parser.AbsoluteSourceSpan{Start: 10, End: 13}, receiver.SourceSpan()); diff != "" {
				t.Errorf("receiver span mismatch (-want +got):\n%s", diff)
			}
		})
	})

	t.Run("parseInterpolation", func(t *testing.T) {
		t.Run("should return nil without interpolation", func(t *testing.T) {
			if ast := newParser().ParseInterpolation("abc", nil, 0, nil); ast != nil {
				t.Errorf("Expected nil, got %v", ast)
			}
		})

		t.Run("should parse interpolated text", func(t *testing.T) {
			ast := newParser().ParseInterpolation("a {{ b }} c", nil, 100, nil)
			interp := ast.AST.(*expression_parser.Interpolation)
			if diff := cmp.Diff([]string{"a ", " c"}, interp.Strings); diff != "" {
				t.Errorf("strings mismatch (-want +got):\n%s", diff)
			}
			if len(interp.Expressions) != 1 {
				t.Fatalf("Expected 1 expression, got %d", len(interp.Expressions))
			}
			b := interp.Expressions[0]
			if diff := cmp.Diff(&expression_parser.ParseSpan{Start: 5, End: 6}, b.Span()); diff != "" {
				t.Errorf("span mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(&expression_parser.AbsoluteSourceSpan{Start: 105, End: 106}, b.SourceSpan()); diff != "" {
				t.Errorf("source span mismatch (-want +got):\n%s", diff)
			}
			if got := expression_parser.Serialize(ast); got != "a {{ b }} c" {
				t.Errorf("Expected %q, got %q", "a {{ b }} c", got)
			}
		})

		t.Run("should skip end markers inside quotes", func(t *testing.T) {
			ast := newParser().ParseInterpolation("{{ '}}' }}", nil, 0, nil)
			if len(ast.Errors) > 0 {
				t.Fatalf("Unexpected errors: %v", ast.Errors)
			}
			interp := ast.AST.(*expression_parser.Interpolation)
			if got := expression_parser.Serialize(interp.Expressions[0]); got != "'}}'" {
				t.Errorf("Expected %q, got %q", "'}}'", got)
			}
		})

		t.Run("should report blank expressions", func(t *testing.T) {
			ast := newParser().ParseInterpolation("{{ }}", nil, 0, nil)
			expectError(ast.Errors, "Blank expressions are not allowed in interpolated strings")(t)
		})

		t.Run("should keep an unterminated interpolation as text", func(t *testing.T) {
			var errors []*util.ParseError
			split := newParser().SplitInterpolation("a {{ b", nil, nil, &errors)
			if len(split.Expressions) != 0 {
				t.Errorf("Expected no expressions, got %v", split.Expressions)
			}
			if len(split.Strings) != 1 || split.Strings[0].Text != "a {{ b" {
				t.Errorf("Expected a single string, got %v", split.Strings)
			}
		})
	})
}

type binding struct {
	Kind  string
	Key   string
	Value string
}

func humanizeBindings(bindings []expression_parser.TemplateBinding) []binding {
	result := make([]binding, 0, len(bindings))
	for _, b := range bindings {
		switch b := b.(type) {
		case *expression_parser.VariableBinding:
			value := ""
			if b.Value != nil {
				value = b.Value.Source
			}
			result = append(result, binding{"let", b.Key.Source, value})
		case *expression_parser.ExpressionBinding:
			value := ""
			if b.Value != nil {
				value = b.Value.Source
			}
			result = append(result, binding{"expr", b.Key.Source, value})
		}
	}
	return result
}

func parseTemplateBindings(key, value string) *expression_parser.TemplateBindingParseResult {
	// mimic `*key="value"` at the start of a template
	return newParser().ParseTemplateBindings(key, value, nil, 1, len(key)+3)
}

func TestParseTemplateBindings(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
		want  []binding
	}{
		{
			name:  "should bind the key without a value",
			key:   "ngIf",
			value: "",
			want:  []binding{{"expr", "ngIf", ""}},
		},
		{
			name:  "should bind an expression to the key",
			key:   "ngIf",
			value: "cond",
			want:  []binding{{"expr", "ngIf", "cond"}},
		},
		{
			name:  "should alias the key with as",
			key:   "ngIf",
			value: "exp as value",
			want:  []binding{{"expr", "ngIf", "exp"}, {"let", "value", "ngIf"}},
		},
		{
			name:  "should prefix secondary keys",
			key:   "ngIf",
			value: "cond; else elseBlock",
			want:  []binding{{"expr", "ngIf", "cond"}, {"expr", "ngIfElse", "elseBlock"}},
		},
		{
			name:  "should parse let with an iterable",
			key:   "ngFor",
			value: "let item of [1,2,3]",
			want: []binding{
				{"expr", "ngFor", ""},
				{"let", "item", ""},
				{"expr", "ngForOf", "[1,2,3]"},
			},
		},
		{
			name:  "should parse all clause forms",
			key:   "ngFor",
			value: "let item of items; index as i; trackBy: fn",
			want: []binding{
				{"expr", "ngFor", ""},
				{"let", "item", ""},
				{"expr", "ngForOf", "items"},
				{"let", "i", "index"},
				{"expr", "ngForTrackBy", "fn"},
			},
		},
		{
			name:  "should parse let with an explicit export",
			key:   "ngFor",
			value: "let i = index, let odd = odd",
			want: []binding{
				{"expr", "ngFor", ""},
				{"let", "i", "index"},
				{"let", "odd", "odd"},
			},
		},
		{
			name:  "should join dashed keys",
			key:   "dir",
			value: "let x; a-b: 1",
			want:  []binding{{"expr", "dir", ""}, {"let", "x", ""}, {"expr", "dirA-b", "1"}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := parseTemplateBindings(c.key, c.value)
			if len(result.Errors) > 0 {
				t.Fatalf("Unexpected errors: %v", result.Errors)
			}
			if diff := cmp.Diff(c.want, humanizeBindings(result.TemplateBindings)); diff != "" {
				t.Errorf("bindings mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("should record absolute spans", func(t *testing.T) {
		// `*ngFor="let item of items"`
		result := newParser().ParseTemplateBindings("ngFor", "let item of items", nil, 1, 8)
		type spans struct {
			Key    expression_parser.AbsoluteSourceSpan
			Source expression_parser.AbsoluteSourceSpan
		}
		var got []spans
		for _, b := range result.TemplateBindings {
			got = append(got, spans{*b.BindingKey().Span, *b.SourceSpan()})
		}
		want := []spans{
			{Key: expression_parser.AbsoluteSourceSpan{Start: 1, End: 6}, Source: expression_parser.AbsoluteSourceSpan{Start: 1, End: 8}},
			{Key: expression_parser.AbsoluteSourceSpan{Start: 12, End: 16}, Source: expression_parser.AbsoluteSourceSpan{Start: 8, End: 17}},
			{Key: expression_parser.AbsoluteSourceSpan{Start: 17, End: 19}, Source: expression_parser.AbsoluteSourceSpan{Start: 17, End: 25}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("spans mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should round-trip through serialization", func(t *testing.T) {
		inputs := []struct{ key, value string }{
			{"ngIf", "cond"},
			{"ngIf", "exp as value"},
			{"ngIf", "cond; else elseBlock"},
			{"ngFor", "let item of items; index as i; trackBy: fn"},
			{"ngFor", "let i = index, let odd = odd"},
		}
		for _, in := range inputs {
			first := parseTemplateBindings(in.key, in.value)
			serialized := expression_parser.SerializeTemplateBindings(in.key, first.TemplateBindings)
			second := parseTemplateBindings(in.key, serialized)
			if len(second.Errors) > 0 {
				t.Fatalf("%q: unexpected errors: %v", serialized, second.Errors)
			}
			if diff := cmp.Diff(humanizeBindings(first.TemplateBindings), humanizeBindings(second.TemplateBindings)); diff != "" {
				t.Errorf("%q -> %q mismatch (-first +second):\n%s", in.value, serialized, diff)
			}
		}
	})
}
