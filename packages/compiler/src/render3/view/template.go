package view

import (
	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/render3"
	"ngc-template/packages/compiler/src/template_parser"
	"ngc-template/packages/compiler/src/util"
)

// LEADING_TRIVIA_CHARS are characters that should be considered as leading trivia
var LEADING_TRIVIA_CHARS = []string{" ", "\n", "\r", "\t"}

// ParseTemplateOptions are options that can be used to modify how a template is parsed by `ParseTemplate()`.
type ParseTemplateOptions struct {
	// PreserveWhitespaces includes whitespace nodes in the parsed output.
	PreserveWhitespaces bool

	// PreserveLineEndings preserves original line endings instead of normalizing '\r\n' endings to '\n'.
	PreserveLineEndings bool

	// InterpolationConfig overrides the `{{`/`}}` interpolation markers.
	InterpolationConfig *ml_parser.InterpolationConfig

	// LeadingTriviaChars is an array of characters that should be considered as leading trivia.
	// Leading trivia are characters that are not important to the developer, and so should not be
	// included in source-map segments. A common example is whitespace.
	LeadingTriviaChars []string

	// TokenizeExpansionForms enables ICU expressions. Defaults to true.
	TokenizeExpansionForms *bool

	// SkipR3ConversionOnHtmlErrors returns no nodes when the HTML has errors.
	// By default the HTML AST is converted anyway so that tooling gets as much
	// of the template as could be parsed; the HTML errors are reported either way.
	SkipR3ConversionOnHtmlErrors bool
}

// ParsedTemplate contains information about the template which was extracted during parsing.
type ParsedTemplate struct {
	// PreserveWhitespaces includes whitespace nodes in the parsed output.
	PreserveWhitespaces bool

	// Errors are any errors from parsing the template.
	//
	// `nil` if there are no errors. Otherwise, the slice of errors is guaranteed to be non-empty.
	Errors []*util.ParseError

	// Nodes are the template AST, parsed from the template.
	Nodes []render3.Node

	// StyleUrls are any stylesheet links found in the template.
	StyleUrls []string

	// Styles are any inline styles found in the template.
	Styles []string

	// NgContentSelectors are any ng-content selectors extracted from the template.
	NgContentSelectors []string
}

// ParseTemplate parses a template into render3 `Node`s and additional metadata, with no other dependencies.
//
// template: text of the template to parse
// templateUrl: URL to use for source mapping of the parsed template
// options: options to modify how the template is parsed
func ParseTemplate(
	template string,
	templateUrl string,
	options *ParseTemplateOptions,
) *ParsedTemplate {
	if options == nil {
		options = &ParseTemplateOptions{}
	}

	interpolationConfig := options.InterpolationConfig
	if interpolationConfig == nil {
		interpolationConfig = ml_parser.DefaultInterpolationConfig
	}
	tokenizeExpansionForms := true
	if options.TokenizeExpansionForms != nil {
		tokenizeExpansionForms = *options.TokenizeExpansionForms
	}

	tokenizeOptions := &ml_parser.TokenizeOptions{
		TokenizeExpansionForms: tokenizeExpansionForms,
		InterpolationConfig:    interpolationConfig,
		LeadingTriviaChars:     LEADING_TRIVIA_CHARS,
		PreserveLineEndings:    options.PreserveLineEndings,
	}
	if options.LeadingTriviaChars != nil {
		tokenizeOptions.LeadingTriviaChars = options.LeadingTriviaChars
	}

	parseResult := ml_parser.NewHtmlParser().Parse(template, templateUrl, tokenizeOptions)

	if options.SkipR3ConversionOnHtmlErrors && len(parseResult.Errors) > 0 {
		return &ParsedTemplate{
			PreserveWhitespaces: options.PreserveWhitespaces,
			Errors:              parseResult.Errors,
			Nodes:               []render3.Node{},
			StyleUrls:           []string{},
			Styles:              []string{},
			NgContentSelectors:  []string{},
		}
	}

	if !options.PreserveWhitespaces {
		parseResult = ml_parser.RemoveWhitespaces(parseResult)
	}

	r3Result := HtmlAstToRender3Ast(parseResult.RootNodes, MakeBindingParser(interpolationConfig))

	var errors []*util.ParseError
	errors = append(errors, parseResult.Errors...)
	errors = append(errors, r3Result.Errors...)
	if len(errors) == 0 {
		errors = nil
	}

	return &ParsedTemplate{
		PreserveWhitespaces: options.PreserveWhitespaces,
		Errors:              errors,
		Nodes:               r3Result.Nodes,
		StyleUrls:           r3Result.StyleUrls,
		Styles:              r3Result.Styles,
		NgContentSelectors:  r3Result.NgContentSelectors,
	}
}

// MakeBindingParser constructs a `BindingParser` with a default configuration.
func MakeBindingParser(interpolationConfig *ml_parser.InterpolationConfig) *template_parser.BindingParser {
	parser := expression_parser.NewParser(expression_parser.NewLexer())
	return template_parser.NewBindingParser(parser, interpolationConfig)
}
