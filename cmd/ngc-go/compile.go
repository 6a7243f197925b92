package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	compiler "ngc-template/packages/compiler/src"
	"ngc-template/packages/compiler/src/config"
)

var compileCmd = &cobra.Command{
	Use:   "compile [root]",
	Short: "Parse every template of a project and report diagnostics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return RunCompile(cmd.Context(), cmd.OutOrStdout(), rootArg(args), settings)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// RunCompile parses the templates under root and prints one line per
// template plus its diagnostics. It fails when any template has errors.
func RunCompile(ctx context.Context, w io.Writer, root string, settings *config.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := compiler.NewCompiler(root, settings)
	if err != nil {
		return err
	}
	result, err := c.CompileProject(ctx)
	if err != nil {
		return err
	}
	if total := printReport(w, result); result.HasErrors() {
		return fmt.Errorf("%d template errors", total)
	}
	return nil
}

// printReport prints one line per template followed by its diagnostics and
// returns the number of diagnostics.
func printReport(w io.Writer, result *compiler.Result) int {
	total := 0
	for _, t := range result.Templates {
		if len(t.Parsed.Errors) == 0 {
			OkLine(w, t.Template.URL())
			continue
		}
		FailLine(w, t.Template.URL(), len(t.Parsed.Errors))
		for _, e := range t.Parsed.Errors {
			DiagnosticLine(w, e)
		}
		total += len(t.Parsed.Errors)
	}
	SummaryLine(w, len(result.Templates), total)
	return total
}
