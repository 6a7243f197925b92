package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ngc-template/packages/compiler/src/config"
	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/render3"
	"ngc-template/packages/compiler/src/render3/view"
	"ngc-template/packages/compiler/src/util"
)

var parseCmd = &cobra.Command{
	Use:   "parse <template.html>",
	Short: "Print the template AST of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return RunParse(cmd.OutOrStdout(), args[0], settings)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// RunParse prints the template tree of path, one node per line.
func RunParse(w io.Writer, path string, settings *config.Settings) error {
	parsed, err := parseFile(path, settings)
	if err != nil {
		return err
	}
	printTree(w, parsed.Nodes, 0)
	return reportErrors(w, parsed.Errors)
}

func parseFile(path string, settings *config.Settings) (*view.ParsedTemplate, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return view.ParseTemplate(string(source), path, settings.Compiler.TemplateOptions()), nil
}

func printTree(w io.Writer, nodes []render3.Node, depth int) {
	for _, node := range nodes {
		TreeLine(w, depth, describe(node))
		printTree(w, render3.Children(node), depth+1)
	}
}

func reportErrors(w io.Writer, errs []*util.ParseError) error {
	for _, e := range errs {
		DiagnosticLine(w, e)
	}
	if util.HasErrors(errs) {
		return fmt.Errorf("%d template errors", len(errs))
	}
	return nil
}

// describe renders a template node or expression on one line.
func describe(node interface{}) string {
	switch n := node.(type) {
	case *render3.Element:
		return fmt.Sprintf("Element <%s>", n.Name)
	case *render3.Template:
		return fmt.Sprintf("Template <%s>", n.TagName)
	case *render3.Content:
		return fmt.Sprintf("Content select=%q", n.Selector)
	case *render3.Text:
		return fmt.Sprintf("Text %q", n.Value)
	case *render3.BoundText:
		return "BoundText " + serialize(n.Value)
	case *render3.TextAttribute:
		return fmt.Sprintf("TextAttribute %s=%q", n.Name, n.Value)
	case *render3.BoundAttribute:
		return fmt.Sprintf("BoundAttribute %s [%s]=%q", n.Type, n.Name, serialize(n.Value))
	case *render3.BoundEvent:
		return fmt.Sprintf("BoundEvent %s (%s)=%q", n.Type, n.Name, serialize(n.Handler))
	case *render3.Variable:
		return fmt.Sprintf("Variable %s=%q", n.Name, n.Value)
	case *render3.Reference:
		return fmt.Sprintf("Reference #%s=%q", n.Name, n.Value)
	case *render3.Icu:
		return fmt.Sprintf("Icu vars=%d placeholders=%d", len(n.Vars), len(n.Placeholders))
	case expression_parser.AST:
		return typeName(n) + " " + serialize(n)
	}
	return typeName(node)
}

func serialize(ast expression_parser.AST) string {
	if ast == nil {
		return ""
	}
	return expression_parser.Serialize(ast)
}

func typeName(v interface{}) string {
	name := fmt.Sprintf("%T", v)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
