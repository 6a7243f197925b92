package language_service

import (
	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/render3"
	"ngc-template/packages/compiler/src/util"
)

// TemplateTarget is the result of a position lookup. Path holds every node
// enclosing the position, outermost first; each entry is either a
// render3.Node or an expression_parser.AST. Node is the last entry of Path.
type TemplateTarget struct {
	Node interface{}
	Path []interface{}
}

// TemplateNode returns the innermost template node of the path. For a match
// inside an expression this is the attribute, event or text that holds it.
func (t *TemplateTarget) TemplateNode() render3.Node {
	for i := len(t.Path) - 1; i >= 0; i-- {
		if node, ok := t.Path[i].(render3.Node); ok {
			return node
		}
	}
	return nil
}

// FindNodeAtPosition returns the most specific template or expression node
// whose span contains position, or nil.
func FindNodeAtPosition(nodes []render3.Node, position int) interface{} {
	target := FindNodeAtPositionWithPath(nodes, position)
	if target == nil {
		return nil
	}
	return target.Node
}

// FindNodeAtPositionWithPath is FindNodeAtPosition returning the whole path
// to the match. It returns nil when there is no match.
func FindNodeAtPositionWithPath(nodes []render3.Node, position int) *TemplateTarget {
	visitor := &templateTargetVisitor{position: position}
	visitor.visitAll(nodes)
	if visitor.suppressed || len(visitor.path) == 0 {
		return nil
	}
	return &TemplateTarget{
		Node: visitor.path[len(visitor.path)-1],
		Path: visitor.path,
	}
}

// templateTargetVisitor walks template nodes and the expressions they hold,
// pushing every node that contains the position. Among siblings the first
// one containing the position wins; later siblings are never entered.
type templateTargetVisitor struct {
	position   int
	path       []interface{}
	suppressed bool
}

func (v *templateTargetVisitor) visitAll(nodes []render3.Node) {
	depth := len(v.path)
	for _, node := range nodes {
		if v.suppressed || len(v.path) > depth {
			return
		}
		v.visit(node)
	}
}

func (v *templateTargetVisitor) visit(node render3.Node) {
	start, end := spanIncludingEndTag(node)
	if !isWithin(v.position, start, end) {
		return
	}
	keySpan, valueSpan, hasKeyValue := keyValueSpans(node)
	if hasKeyValue && !isWithinSpan(v.position, keySpan) && !isWithinSpan(v.position, valueSpan) {
		// Between the key and the value, e.g. on the `=` or a quote.
		v.suppressed = true
		return
	}
	v.path = append(v.path, node)

	switch n := node.(type) {
	case *render3.BoundAttribute:
		if isWithinSpan(v.position, n.ValueSpan) {
			v.visitExpression(n.Value)
		}
	case *render3.BoundEvent:
		if isWithinSpan(v.position, n.HandlerSpan) && !isWithinSpan(v.position, n.KeySpan) {
			v.visitExpression(n.Handler)
		}
	case *render3.BoundText:
		v.visitExpression(n.Value)
	default:
		v.visitAll(render3.Children(node))
	}
}

func (v *templateTargetVisitor) visitExpression(ast expression_parser.AST) {
	if withSource, ok := ast.(*expression_parser.ASTWithSource); ok {
		ast = withSource.AST
	}
	switch ast.(type) {
	case nil, *expression_parser.ImplicitReceiver, *expression_parser.ThisReceiver:
		return
	}
	span := ast.SourceSpan()
	if !isWithin(v.position, span.Start, span.End) {
		return
	}
	// The literal parts of an interpolation belong to the text or attribute
	// holding it; only the embedded expressions are targets.
	if _, ok := ast.(*expression_parser.Interpolation); !ok {
		v.path = append(v.path, ast)
	}

	depth := len(v.path)
	for _, child := range expression_parser.Children(ast) {
		if len(v.path) > depth {
			return
		}
		v.visitExpression(child)
	}
}

// spanIncludingEndTag extends the span of elements and templates over their
// closing tag.
func spanIncludingEndTag(node render3.Node) (int, int) {
	span := node.SourceSpan()
	start, end := span.Start.Offset, span.End.Offset
	var endSourceSpan *util.ParseSourceSpan
	switch n := node.(type) {
	case *render3.Element:
		endSourceSpan = n.EndSourceSpan
	case *render3.Template:
		endSourceSpan = n.EndSourceSpan
	case *render3.Content:
		endSourceSpan = n.EndSourceSpan
	}
	if endSourceSpan != nil && endSourceSpan.End.Offset > end {
		end = endSourceSpan.End.Offset
	}
	return start, end
}

// keyValueSpans returns the key and value spans of nodes shaped like
// `key="value"`. A bound event's handler span stands in for a missing value
// span.
func keyValueSpans(node render3.Node) (*util.ParseSourceSpan, *util.ParseSourceSpan, bool) {
	var keySpan, valueSpan *util.ParseSourceSpan
	switch n := node.(type) {
	case *render3.BoundAttribute:
		keySpan, valueSpan = n.KeySpan, n.ValueSpan
	case *render3.BoundEvent:
		keySpan, valueSpan = n.KeySpan, n.HandlerSpan
	case *render3.TextAttribute:
		keySpan, valueSpan = n.KeySpan, n.ValueSpan
	case *render3.Variable:
		keySpan, valueSpan = n.KeySpan, n.ValueSpan
	case *render3.Reference:
		keySpan, valueSpan = n.KeySpan, n.ValueSpan
	default:
		return nil, nil, false
	}
	return keySpan, valueSpan, keySpan != nil
}

// isWithin reports whether position lies in [start, end]. Both ends are
// inclusive so that a cursor right after an identifier still selects it.
func isWithin(position, start, end int) bool {
	return start <= position && position <= end
}

func isWithinSpan(position int, span *util.ParseSourceSpan) bool {
	return span != nil && isWithin(position, span.Start.Offset, span.End.Offset)
}
