package expression_parser

import (
	"fmt"
	"strconv"
	"strings"

	"ngc-template/packages/compiler/src/util"
)

// Serialize serializes the given AST into a normalized string format
func Serialize(expression AST) string {
	return expression.Visit(NewSerializeExpressionVisitor(), nil).(string)
}

// SerializeTemplateBindings renders microsyntax bindings back into a
// microsyntax string that parses to the same bindings. templateKey is the
// directive name the binding keys are prefixed with.
func SerializeTemplateBindings(templateKey string, bindings []TemplateBinding) string {
	var parts []string
	for i, binding := range bindings {
		switch b := binding.(type) {
		case *VariableBinding:
			if b.Value == nil {
				parts = append(parts, "let "+b.Key.Source)
			} else if i > 0 && isBindingForKey(bindings[i-1], b.Value.Source) {
				// `exp as alias` directly after the expression it aliases
				parts[len(parts)-1] += " as " + b.Key.Source
			} else {
				parts = append(parts, fmt.Sprintf("let %s = %s", b.Key.Source, b.Value.Source))
			}
		case *ExpressionBinding:
			if b.Key.Source == templateKey {
				if b.Value != nil {
					parts = append(parts, b.Value.Source)
				}
				continue
			}
			key := util.LowerFirst(strings.TrimPrefix(b.Key.Source, templateKey))
			if b.Value == nil {
				parts = append(parts, key)
			} else {
				parts = append(parts, fmt.Sprintf("%s: %s", key, b.Value.Source))
			}
		}
	}
	return strings.Join(parts, "; ")
}

func isBindingForKey(binding TemplateBinding, key string) bool {
	e, ok := binding.(*ExpressionBinding)
	return ok && e.Value != nil && e.Key.Source == key
}

// SerializeExpressionVisitor is a visitor that serializes AST to string
type SerializeExpressionVisitor struct{}

// NewSerializeExpressionVisitor creates a new SerializeExpressionVisitor
func NewSerializeExpressionVisitor() *SerializeExpressionVisitor {
	return &SerializeExpressionVisitor{}
}

func (s *SerializeExpressionVisitor) visit(ast AST, context interface{}) string {
	return ast.Visit(s, context).(string)
}

func (s *SerializeExpressionVisitor) visitAll(asts []AST, context interface{}) []string {
	parts := make([]string, len(asts))
	for i, expr := range asts {
		parts[i] = s.visit(expr, context)
	}
	return parts
}

func (s *SerializeExpressionVisitor) VisitEmptyExpr(ast *EmptyExpr, context interface{}) interface{} {
	return ""
}

// VisitUnary visits a unary expression
func (s *SerializeExpressionVisitor) VisitUnary(ast *Unary, context interface{}) interface{} {
	return ast.Operator + s.visit(ast.Expr, context)
}

// VisitBinary visits a binary expression
func (s *SerializeExpressionVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	return fmt.Sprintf("%s %s %s", s.visit(ast.Left, context), ast.Operation, s.visit(ast.Right, context))
}

// VisitChain visits a chain expression
func (s *SerializeExpressionVisitor) VisitChain(ast *Chain, context interface{}) interface{} {
	return strings.Join(s.visitAll(ast.Expressions, context), "; ")
}

// VisitConditional visits a conditional expression
func (s *SerializeExpressionVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	return fmt.Sprintf("%s ? %s : %s",
		s.visit(ast.Condition, context),
		s.visit(ast.TrueExp, context),
		s.visit(ast.FalseExp, context))
}

func (s *SerializeExpressionVisitor) VisitThisReceiver(ast *ThisReceiver, context interface{}) interface{} {
	return "this"
}

func (s *SerializeExpressionVisitor) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return ""
}

// VisitInterpolation visits an interpolation
func (s *SerializeExpressionVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	var b strings.Builder
	for i, str := range ast.Strings {
		b.WriteString(str)
		if i < len(ast.Expressions) {
			b.WriteString("{{ ")
			b.WriteString(s.visit(ast.Expressions[i], context))
			b.WriteString(" }}")
		}
	}
	return b.String()
}

func (s *SerializeExpressionVisitor) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s]", s.visit(ast.Receiver, context), s.visit(ast.Key, context))
}

func (s *SerializeExpressionVisitor) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	return fmt.Sprintf("[%s]", strings.Join(s.visitAll(ast.Expressions, context), ", "))
}

// VisitLiteralMap visits a literal map
func (s *SerializeExpressionVisitor) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	pairs := make([]string, len(ast.Keys))
	for i, key := range ast.Keys {
		name := key.Key
		if key.Quoted {
			name = fmt.Sprintf("'%s'", key.Key)
		}
		if key.IsShorthandInitialized {
			pairs[i] = name
			continue
		}
		pairs[i] = fmt.Sprintf("%s: %s", name, s.visit(ast.Values[i], context))
	}
	return fmt.Sprintf("{%s}", strings.Join(pairs, ", "))
}

// VisitLiteralPrimitive visits a literal primitive
func (s *SerializeExpressionVisitor) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	switch v := ast.Value.(type) {
	case nil:
		return "null"
	case UndefinedValue:
		return "undefined"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "\\'"))
	}
	panic(fmt.Sprintf("Unsupported primitive type: %T", ast.Value))
}

// VisitPipe visits a pipe expression
func (s *SerializeExpressionVisitor) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	var b strings.Builder
	b.WriteString(s.visit(ast.Exp, context))
	b.WriteString(" | ")
	b.WriteString(ast.Name)
	for _, arg := range ast.Args {
		b.WriteString(":")
		b.WriteString(s.visit(arg, context))
	}
	return b.String()
}

func (s *SerializeExpressionVisitor) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	return "!" + s.visit(ast.Expression, context)
}

func (s *SerializeExpressionVisitor) VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{} {
	return s.visit(ast.Expression, context) + "!"
}

// VisitPropertyRead visits a property read
func (s *SerializeExpressionVisitor) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	if _, ok := ast.Receiver.(*ImplicitReceiver); ok {
		return ast.Name
	}
	return fmt.Sprintf("%s.%s", s.visit(ast.Receiver, context), ast.Name)
}

func (s *SerializeExpressionVisitor) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	return fmt.Sprintf("%s?.%s", s.visit(ast.Receiver, context), ast.Name)
}

func (s *SerializeExpressionVisitor) VisitSafeKeyedRead(ast *SafeKeyedRead, context interface{}) interface{} {
	return fmt.Sprintf("%s?.[%s]", s.visit(ast.Receiver, context), s.visit(ast.Key, context))
}

func (s *SerializeExpressionVisitor) VisitCall(ast *Call, context interface{}) interface{} {
	return fmt.Sprintf("%s(%s)", s.visit(ast.Receiver, context), strings.Join(s.visitAll(ast.Args, context), ", "))
}

func (s *SerializeExpressionVisitor) VisitSafeCall(ast *SafeCall, context interface{}) interface{} {
	return fmt.Sprintf("%s?.(%s)", s.visit(ast.Receiver, context), strings.Join(s.visitAll(ast.Args, context), ", "))
}

func (s *SerializeExpressionVisitor) VisitTypeofExpression(ast *TypeofExpression, context interface{}) interface{} {
	return "typeof " + s.visit(ast.Expression, context)
}

func (s *SerializeExpressionVisitor) VisitVoidExpression(ast *VoidExpression, context interface{}) interface{} {
	return "void " + s.visit(ast.Expression, context)
}

func (s *SerializeExpressionVisitor) VisitParenthesizedExpression(ast *ParenthesizedExpression, context interface{}) interface{} {
	return fmt.Sprintf("(%s)", s.visit(ast.Expression, context))
}
