package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/util"
)

var bindingsCmd = &cobra.Command{
	Use:     "bindings <directive> <microsyntax>",
	Short:   "Parse the microsyntax of a structural directive",
	Example: `  ngc bindings ngFor "let item of items; index as i"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunBindings(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(bindingsCmd)
}

// RunBindings parses value as if written `*key="value"` and prints the
// bindings followed by their canonical microsyntax.
func RunBindings(w io.Writer, key, value string) error {
	source := fmt.Sprintf("*%s=%q", key, value)
	file := util.NewParseSourceFile(source, "<microsyntax>")
	start := util.NewParseLocation(file, 0, 0, 0)
	end := util.NewParseLocation(file, len(source), 0, len(source))
	location := util.NewParseSourceSpan(start, end, start, "")

	parser := expression_parser.NewParser(expression_parser.NewLexer())
	result := parser.ParseTemplateBindings(key, value, location, 1, len(key)+3)

	for _, binding := range result.TemplateBindings {
		span := binding.SourceSpan()
		TreeLine(w, 0, fmt.Sprintf("%s  %s", describeBinding(binding), faintStyle.Render(fmt.Sprintf("[%d, %d)", span.Start, span.End))))
	}
	FaintLine(w, expression_parser.SerializeTemplateBindings(key, result.TemplateBindings))
	return reportErrors(w, result.Errors)
}

func describeBinding(binding expression_parser.TemplateBinding) string {
	switch b := binding.(type) {
	case *expression_parser.VariableBinding:
		value := "$implicit"
		if b.Value != nil {
			value = b.Value.Source
		}
		return fmt.Sprintf("let %s = %s", b.Key.Source, value)
	case *expression_parser.ExpressionBinding:
		if b.Value == nil {
			return b.Key.Source
		}
		return fmt.Sprintf("%s = %s", b.Key.Source, serialize(b.Value))
	}
	return typeName(binding)
}
