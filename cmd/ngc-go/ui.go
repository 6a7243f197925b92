package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"ngc-template/packages/compiler/src/util"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

// DiagnosticLine prints one parse error or warning.
func DiagnosticLine(w io.Writer, err *util.ParseError) {
	badge := errorStyle.Render("error")
	if err.Level == util.ParseErrorLevelWarning {
		badge = warnStyle.Render("warning")
	}
	fmt.Fprintln(w, badge+"  "+err.String())
}

// OkLine marks a template that parsed cleanly.
func OkLine(w io.Writer, url string) {
	fmt.Fprintln(w, okStyle.Render("ok")+"     "+url)
}

// FailLine marks a template with errors.
func FailLine(w io.Writer, url string, count int) {
	fmt.Fprintln(w, errorStyle.Render("fail")+"   "+url+faintStyle.Render(fmt.Sprintf(" (%d)", count)))
}

// SummaryLine prints the totals of a run.
func SummaryLine(w io.Writer, templates, errors int) {
	style := okStyle
	if errors > 0 {
		style = errorStyle
	}
	fmt.Fprintln(w, style.Render(fmt.Sprintf("%d templates, %d errors", templates, errors)))
}

// TreeLine prints a node description at depth.
func TreeLine(w io.Writer, depth int, text string) {
	fmt.Fprintf(w, "%*s%s\n", depth*2, "", text)
}

// MatchLine prints the innermost node of a position lookup.
func MatchLine(w io.Writer, depth int, text string) {
	fmt.Fprintf(w, "%*s%s\n", depth*2, "", matchStyle.Render(text))
}

// FaintLine prints secondary information.
func FaintLine(w io.Writer, text string) {
	fmt.Fprintln(w, faintStyle.Render(text))
}
