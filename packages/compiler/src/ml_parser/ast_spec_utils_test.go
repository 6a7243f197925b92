package ml_parser_test

import (
	"fmt"
	"testing"

	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/util"
)

func parseHtml(input string, options *ml_parser.TokenizeOptions) *ml_parser.ParseTreeResult {
	return ml_parser.NewHtmlParser().Parse(input, "TestComp", options)
}

// humanizeDom flattens the tree into one entry per node. The result must not
// carry errors.
func humanizeDom(t *testing.T, parseResult *ml_parser.ParseTreeResult, addSourceSpan bool) []interface{} {
	t.Helper()
	if len(parseResult.Errors) > 0 {
		errorString := ""
		for _, err := range parseResult.Errors {
			errorString += err.String() + "\n"
		}
		t.Fatalf("Unexpected parse errors:\n%s", errorString)
	}
	return humanizeNodes(parseResult.RootNodes, addSourceSpan)
}

func humanizeNodes(nodes []ml_parser.Node, addSourceSpan bool) []interface{} {
	humanizer := &humanizer{result: []interface{}{}, includeSourceSpan: addSourceSpan}
	ml_parser.VisitAll(humanizer, nodes, nil)
	return humanizer.result
}

func humanizeErrors(errors []*util.ParseError) []interface{} {
	humanized := []interface{}{}
	for _, err := range errors {
		humanized = append(humanized, []interface{}{err.Msg, err.Span.String()})
	}
	return humanized
}

func humanizeLineColumn(location *util.ParseLocation) string {
	return fmt.Sprintf("%d:%d", location.Line, location.Col)
}

type humanizer struct {
	result            []interface{}
	elDepth           int
	includeSourceSpan bool
}

func (h *humanizer) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	res := h.appendContext(element, []interface{}{"Element", element.Name, h.elDepth})
	if element.IsSelfClosing {
		res = append(res, "#selfClosing")
	}
	if h.includeSourceSpan {
		res = append(res, element.StartSourceSpan.String())
		if element.EndSourceSpan != nil {
			res = append(res, element.EndSourceSpan.String())
		} else {
			res = append(res, nil)
		}
	}
	h.result = append(h.result, res)
	h.elDepth++
	for _, attr := range element.Attrs {
		attr.Visit(h, nil)
	}
	ml_parser.VisitAll(h, element.Children, nil)
	h.elDepth--
	return nil
}

func (h *humanizer) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	res := h.appendContext(attribute, []interface{}{"Attribute", attribute.Name, attribute.Value})
	if h.includeSourceSpan {
		res = append(res, attribute.KeySpan.String())
		if attribute.ValueSpan != nil {
			res = append(res, attribute.ValueSpan.String())
		} else {
			res = append(res, nil)
		}
	}
	h.result = append(h.result, res)
	return nil
}

func (h *humanizer) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	h.result = append(h.result, h.appendContext(text, []interface{}{"Text", text.Value, h.elDepth}))
	return nil
}

func (h *humanizer) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	h.result = append(h.result, h.appendContext(comment, []interface{}{"Comment", comment.Value, h.elDepth}))
	return nil
}

func (h *humanizer) VisitExpansion(expansion *ml_parser.Expansion, context interface{}) interface{} {
	h.result = append(h.result, h.appendContext(expansion, []interface{}{"Expansion", expansion.SwitchValue, expansion.Type, h.elDepth}))
	h.elDepth++
	for _, c := range expansion.Cases {
		c.Visit(h, nil)
	}
	h.elDepth--
	return nil
}

func (h *humanizer) VisitExpansionCase(expansionCase *ml_parser.ExpansionCase, context interface{}) interface{} {
	h.result = append(h.result, h.appendContext(expansionCase, []interface{}{"ExpansionCase", expansionCase.Value, h.elDepth}))
	return nil
}

func (h *humanizer) appendContext(ast ml_parser.Node, input []interface{}) []interface{} {
	if !h.includeSourceSpan {
		return input
	}
	return append(input, ast.SourceSpan().String())
}
