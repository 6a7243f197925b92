package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"ngc-template/packages/compiler/src/config"
	"ngc-template/packages/language_service"
)

var locateCmd = &cobra.Command{
	Use:   "locate <template.html> <offset>",
	Short: "Print the nodes enclosing a character offset of a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := strconv.Atoi(args[1])
		if err != nil || offset < 0 {
			return fmt.Errorf("invalid offset %q", args[1])
		}
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return RunLocate(cmd.OutOrStdout(), args[0], offset, settings)
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

// RunLocate prints the path from the outermost node enclosing offset down
// to the innermost one. Template errors are printed first and do not stop
// the lookup, which runs on whatever part of the template could be parsed.
func RunLocate(w io.Writer, path string, offset int, settings *config.Settings) error {
	parsed, err := parseFile(path, settings)
	if err != nil {
		return err
	}
	for _, e := range parsed.Errors {
		DiagnosticLine(w, e)
	}

	target := language_service.FindNodeAtPositionWithPath(parsed.Nodes, offset)
	if target == nil {
		FaintLine(w, fmt.Sprintf("no node at offset %d", offset))
		return nil
	}
	last := len(target.Path) - 1
	for depth, node := range target.Path[:last] {
		TreeLine(w, depth, describe(node))
	}
	MatchLine(w, last, describe(target.Node))
	return nil
}
