package expression_parser

import (
	"ngc-template/packages/compiler/src/util"
)

// ParseSpan is a span relative to the start of the expression source.
type ParseSpan struct {
	Start int
	End   int
}

// NewParseSpan creates a new ParseSpan
func NewParseSpan(start, end int) *ParseSpan {
	return &ParseSpan{Start: start, End: end}
}

// ToAbsolute converts the span to an AbsoluteSourceSpan given the absolute
// offset of the expression in the template.
func (s *ParseSpan) ToAbsolute(absoluteOffset int) *AbsoluteSourceSpan {
	return NewAbsoluteSourceSpan(absoluteOffset+s.Start, absoluteOffset+s.End)
}

// AbsoluteSourceSpan is a span measured from the start of the template file.
type AbsoluteSourceSpan struct {
	Start int
	End   int
}

// NewAbsoluteSourceSpan creates a new AbsoluteSourceSpan
func NewAbsoluteSourceSpan(start, end int) *AbsoluteSourceSpan {
	return &AbsoluteSourceSpan{Start: start, End: end}
}

// AST is an expression node.
type AST interface {
	Span() *ParseSpan
	SourceSpan() *AbsoluteSourceSpan
	Visit(visitor AstVisitor, context interface{}) interface{}
}

type astSpans struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
}

func (a *astSpans) Span() *ParseSpan                 { return a.span }
func (a *astSpans) SourceSpan() *AbsoluteSourceSpan { return a.sourceSpan }

// EmptyExpr stands in for a missing expression, either because the source
// was blank or because error recovery skipped over it.
type EmptyExpr struct{ astSpans }

// NewEmptyExpr creates a new EmptyExpr
func NewEmptyExpr(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *EmptyExpr {
	return &EmptyExpr{astSpans{span, sourceSpan}}
}

func (e *EmptyExpr) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitEmptyExpr(e, context)
}

// ImplicitReceiver is the component context a bare identifier is read from.
type ImplicitReceiver struct{ astSpans }

// NewImplicitReceiver creates a new ImplicitReceiver
func NewImplicitReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ImplicitReceiver {
	return &ImplicitReceiver{astSpans{span, sourceSpan}}
}

func (i *ImplicitReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitImplicitReceiver(i, context)
}

// ThisReceiver is an explicit `this`.
type ThisReceiver struct{ astSpans }

// NewThisReceiver creates a new ThisReceiver
func NewThisReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ThisReceiver {
	return &ThisReceiver{astSpans{span, sourceSpan}}
}

func (t *ThisReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitThisReceiver(t, context)
}

// Chain is a list of expressions separated by semicolons (actions only).
type Chain struct {
	astSpans
	Expressions []AST
}

// NewChain creates a new Chain
func NewChain(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *Chain {
	return &Chain{astSpans{span, sourceSpan}, expressions}
}

func (c *Chain) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitChain(c, context)
}

// Conditional is `cond ? trueExp : falseExp`.
type Conditional struct {
	astSpans
	Condition AST
	TrueExp   AST
	FalseExp  AST
}

// NewConditional creates a new Conditional
func NewConditional(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, condition, trueExp, falseExp AST) *Conditional {
	return &Conditional{astSpans{span, sourceSpan}, condition, trueExp, falseExp}
}

func (c *Conditional) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitConditional(c, context)
}

// PropertyRead is `receiver.name`, or a bare `name` on the ImplicitReceiver.
type PropertyRead struct {
	astSpans
	NameSpan *AbsoluteSourceSpan
	Receiver AST
	Name     string
}

// NewPropertyRead creates a new PropertyRead
func NewPropertyRead(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string) *PropertyRead {
	return &PropertyRead{astSpans{span, sourceSpan}, nameSpan, receiver, name}
}

func (p *PropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyRead(p, context)
}

// SafePropertyRead is `receiver?.name`.
type SafePropertyRead struct {
	astSpans
	NameSpan *AbsoluteSourceSpan
	Receiver AST
	Name     string
}

// NewSafePropertyRead creates a new SafePropertyRead
func NewSafePropertyRead(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string) *SafePropertyRead {
	return &SafePropertyRead{astSpans{span, sourceSpan}, nameSpan, receiver, name}
}

func (s *SafePropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafePropertyRead(s, context)
}

// KeyedRead is `receiver[key]`.
type KeyedRead struct {
	astSpans
	Receiver AST
	Key      AST
}

// NewKeyedRead creates a new KeyedRead
func NewKeyedRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key AST) *KeyedRead {
	return &KeyedRead{astSpans{span, sourceSpan}, receiver, key}
}

func (k *KeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedRead(k, context)
}

// SafeKeyedRead is `receiver?.[key]`.
type SafeKeyedRead struct {
	astSpans
	Receiver AST
	Key      AST
}

// NewSafeKeyedRead creates a new SafeKeyedRead
func NewSafeKeyedRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key AST) *SafeKeyedRead {
	return &SafeKeyedRead{astSpans{span, sourceSpan}, receiver, key}
}

func (s *SafeKeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafeKeyedRead(s, context)
}

// BindingPipe is `exp | name:arg1:arg2`.
type BindingPipe struct {
	astSpans
	Exp      AST
	Name     string
	Args     []AST
	NameSpan *AbsoluteSourceSpan
}

// NewBindingPipe creates a new BindingPipe
func NewBindingPipe(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, exp AST, name string, args []AST, nameSpan *AbsoluteSourceSpan) *BindingPipe {
	return &BindingPipe{astSpans{span, sourceSpan}, exp, name, args, nameSpan}
}

func (b *BindingPipe) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPipe(b, context)
}

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// Undefined is the value of a LiteralPrimitive for the `undefined` keyword.
// A nil Value means `null`.
var Undefined = UndefinedValue{}

// LiteralPrimitive holds nil (null), Undefined, a bool, a float64 or a string.
type LiteralPrimitive struct {
	astSpans
	Value interface{}
}

// NewLiteralPrimitive creates a new LiteralPrimitive
func NewLiteralPrimitive(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, value interface{}) *LiteralPrimitive {
	return &LiteralPrimitive{astSpans{span, sourceSpan}, value}
}

func (l *LiteralPrimitive) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralPrimitive(l, context)
}

// LiteralArray is `[a, b]`.
type LiteralArray struct {
	astSpans
	Expressions []AST
}

// NewLiteralArray creates a new LiteralArray
func NewLiteralArray(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *LiteralArray {
	return &LiteralArray{astSpans{span, sourceSpan}, expressions}
}

func (l *LiteralArray) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArray(l, context)
}

// LiteralMapKey is one key of a literal map.
type LiteralMapKey struct {
	Key                    string
	Quoted                 bool
	IsShorthandInitialized bool
}

// LiteralMap is `{a: 1, 'b': 2, c}`. Keys and Values are parallel.
type LiteralMap struct {
	astSpans
	Keys   []LiteralMapKey
	Values []AST
}

// NewLiteralMap creates a new LiteralMap
func NewLiteralMap(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, keys []LiteralMapKey, values []AST) *LiteralMap {
	return &LiteralMap{astSpans{span, sourceSpan}, keys, values}
}

func (l *LiteralMap) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMap(l, context)
}

// Interpolation is text with embedded expressions. Strings always has one
// more element than Expressions.
type Interpolation struct {
	astSpans
	Strings     []string
	Expressions []AST
}

// NewInterpolation creates a new Interpolation
func NewInterpolation(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, strings []string, expressions []AST) *Interpolation {
	return &Interpolation{astSpans{span, sourceSpan}, strings, expressions}
}

func (i *Interpolation) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitInterpolation(i, context)
}

// Binary is a binary operation. Assignment in actions is a Binary with
// operation "=".
type Binary struct {
	astSpans
	Operation string
	Left      AST
	Right     AST
}

// NewBinary creates a new Binary
func NewBinary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operation string, left, right AST) *Binary {
	return &Binary{astSpans{span, sourceSpan}, operation, left, right}
}

func (b *Binary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitBinary(b, context)
}

// Unary is a prefix `+` or `-`.
type Unary struct {
	astSpans
	Operator string
	Expr     AST
}

// NewUnary creates a new Unary
func NewUnary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operator string, expr AST) *Unary {
	return &Unary{astSpans{span, sourceSpan}, operator, expr}
}

func (u *Unary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitUnary(u, context)
}

// PrefixNot is `!expr`.
type PrefixNot struct {
	astSpans
	Expression AST
}

// NewPrefixNot creates a new PrefixNot
func NewPrefixNot(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *PrefixNot {
	return &PrefixNot{astSpans{span, sourceSpan}, expression}
}

func (p *PrefixNot) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPrefixNot(p, context)
}

// TypeofExpression is `typeof expr`.
type TypeofExpression struct {
	astSpans
	Expression AST
}

// NewTypeofExpression creates a new TypeofExpression
func NewTypeofExpression(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *TypeofExpression {
	return &TypeofExpression{astSpans{span, sourceSpan}, expression}
}

func (t *TypeofExpression) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitTypeofExpression(t, context)
}

// VoidExpression is `void expr`.
type VoidExpression struct {
	astSpans
	Expression AST
}

// NewVoidExpression creates a new VoidExpression
func NewVoidExpression(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *VoidExpression {
	return &VoidExpression{astSpans{span, sourceSpan}, expression}
}

func (v *VoidExpression) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitVoidExpression(v, context)
}

// NonNullAssert is the postfix `expr!`.
type NonNullAssert struct {
	astSpans
	Expression AST
}

// NewNonNullAssert creates a new NonNullAssert
func NewNonNullAssert(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *NonNullAssert {
	return &NonNullAssert{astSpans{span, sourceSpan}, expression}
}

func (n *NonNullAssert) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitNonNullAssert(n, context)
}

// Call is `receiver(args)`.
type Call struct {
	astSpans
	Receiver     AST
	Args         []AST
	ArgumentSpan *AbsoluteSourceSpan
}

// NewCall creates a new Call
func NewCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, args []AST, argumentSpan *AbsoluteSourceSpan) *Call {
	return &Call{astSpans{span, sourceSpan}, receiver, args, argumentSpan}
}

func (c *Call) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitCall(c, context)
}

// SafeCall is `receiver?.(args)`.
type SafeCall struct {
	astSpans
	Receiver     AST
	Args         []AST
	ArgumentSpan *AbsoluteSourceSpan
}

// NewSafeCall creates a new SafeCall
func NewSafeCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, args []AST, argumentSpan *AbsoluteSourceSpan) *SafeCall {
	return &SafeCall{astSpans{span, sourceSpan}, receiver, args, argumentSpan}
}

func (s *SafeCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafeCall(s, context)
}

// ParenthesizedExpression is `(expr)`.
type ParenthesizedExpression struct {
	astSpans
	Expression AST
}

// NewParenthesizedExpression creates a new ParenthesizedExpression
func NewParenthesizedExpression(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *ParenthesizedExpression {
	return &ParenthesizedExpression{astSpans{span, sourceSpan}, expression}
}

func (p *ParenthesizedExpression) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitParenthesizedExpression(p, context)
}

// ASTWithSource is the root of a parsed expression. It keeps the original
// source text and the errors found while parsing it.
type ASTWithSource struct {
	AST            AST
	Source         string
	Location       *util.ParseSourceSpan
	AbsoluteOffset int
	Errors         []*util.ParseError
}

// NewASTWithSource creates a new ASTWithSource
func NewASTWithSource(ast AST, source string, location *util.ParseSourceSpan, absoluteOffset int, errors []*util.ParseError) *ASTWithSource {
	return &ASTWithSource{AST: ast, Source: source, Location: location, AbsoluteOffset: absoluteOffset, Errors: errors}
}

func (a *ASTWithSource) Span() *ParseSpan                 { return a.AST.Span() }
func (a *ASTWithSource) SourceSpan() *AbsoluteSourceSpan { return a.AST.SourceSpan() }

func (a *ASTWithSource) Visit(visitor AstVisitor, context interface{}) interface{} {
	return a.AST.Visit(visitor, context)
}

// TemplateBindingIdentifier is a key or local name inside microsyntax.
type TemplateBindingIdentifier struct {
	Source string
	Span   *AbsoluteSourceSpan
}

// TemplateBinding is one binding produced from a structural directive's
// microsyntax. It is either a *VariableBinding or an *ExpressionBinding.
type TemplateBinding interface {
	SourceSpan() *AbsoluteSourceSpan
	BindingKey() *TemplateBindingIdentifier
}

// VariableBinding declares a template local. Value is the context export it
// reads; nil means the implicit export.
type VariableBinding struct {
	sourceSpan *AbsoluteSourceSpan
	Key        *TemplateBindingIdentifier
	Value      *TemplateBindingIdentifier
}

// NewVariableBinding creates a new VariableBinding
func NewVariableBinding(sourceSpan *AbsoluteSourceSpan, key, value *TemplateBindingIdentifier) *VariableBinding {
	return &VariableBinding{sourceSpan: sourceSpan, Key: key, Value: value}
}

func (v *VariableBinding) SourceSpan() *AbsoluteSourceSpan        { return v.sourceSpan }
func (v *VariableBinding) BindingKey() *TemplateBindingIdentifier { return v.Key }

// ExpressionBinding binds an expression to a directive input. Value is nil
// when the key has no expression (`*ngIf` alone, or `let` right after the key).
type ExpressionBinding struct {
	sourceSpan *AbsoluteSourceSpan
	Key        *TemplateBindingIdentifier
	Value      *ASTWithSource
}

// NewExpressionBinding creates a new ExpressionBinding
func NewExpressionBinding(sourceSpan *AbsoluteSourceSpan, key *TemplateBindingIdentifier, value *ASTWithSource) *ExpressionBinding {
	return &ExpressionBinding{sourceSpan: sourceSpan, Key: key, Value: value}
}

func (e *ExpressionBinding) SourceSpan() *AbsoluteSourceSpan        { return e.sourceSpan }
func (e *ExpressionBinding) BindingKey() *TemplateBindingIdentifier { return e.Key }

// AstVisitor has one method per expression node kind, so an implementation
// is checked for exhaustiveness at compile time.
type AstVisitor interface {
	VisitEmptyExpr(ast *EmptyExpr, context interface{}) interface{}
	VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{}
	VisitThisReceiver(ast *ThisReceiver, context interface{}) interface{}
	VisitChain(ast *Chain, context interface{}) interface{}
	VisitConditional(ast *Conditional, context interface{}) interface{}
	VisitPropertyRead(ast *PropertyRead, context interface{}) interface{}
	VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{}
	VisitKeyedRead(ast *KeyedRead, context interface{}) interface{}
	VisitSafeKeyedRead(ast *SafeKeyedRead, context interface{}) interface{}
	VisitPipe(ast *BindingPipe, context interface{}) interface{}
	VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{}
	VisitLiteralArray(ast *LiteralArray, context interface{}) interface{}
	VisitLiteralMap(ast *LiteralMap, context interface{}) interface{}
	VisitInterpolation(ast *Interpolation, context interface{}) interface{}
	VisitBinary(ast *Binary, context interface{}) interface{}
	VisitUnary(ast *Unary, context interface{}) interface{}
	VisitPrefixNot(ast *PrefixNot, context interface{}) interface{}
	VisitTypeofExpression(ast *TypeofExpression, context interface{}) interface{}
	VisitVoidExpression(ast *VoidExpression, context interface{}) interface{}
	VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{}
	VisitCall(ast *Call, context interface{}) interface{}
	VisitSafeCall(ast *SafeCall, context interface{}) interface{}
	VisitParenthesizedExpression(ast *ParenthesizedExpression, context interface{}) interface{}
}

// Children returns the direct sub-expressions of ast in source order.
func Children(ast AST) []AST {
	switch n := ast.(type) {
	case *ASTWithSource:
		return []AST{n.AST}
	case *Chain:
		return n.Expressions
	case *Conditional:
		return []AST{n.Condition, n.TrueExp, n.FalseExp}
	case *PropertyRead:
		return []AST{n.Receiver}
	case *SafePropertyRead:
		return []AST{n.Receiver}
	case *KeyedRead:
		return []AST{n.Receiver, n.Key}
	case *SafeKeyedRead:
		return []AST{n.Receiver, n.Key}
	case *BindingPipe:
		return append([]AST{n.Exp}, n.Args...)
	case *LiteralArray:
		return n.Expressions
	case *LiteralMap:
		return n.Values
	case *Interpolation:
		return n.Expressions
	case *Binary:
		return []AST{n.Left, n.Right}
	case *Unary:
		return []AST{n.Expr}
	case *PrefixNot:
		return []AST{n.Expression}
	case *TypeofExpression:
		return []AST{n.Expression}
	case *VoidExpression:
		return []AST{n.Expression}
	case *NonNullAssert:
		return []AST{n.Expression}
	case *Call:
		return append([]AST{n.Receiver}, n.Args...)
	case *SafeCall:
		return append([]AST{n.Receiver}, n.Args...)
	case *ParenthesizedExpression:
		return []AST{n.Expression}
	}
	return nil
}

// ParsedPropertyType classifies a ParsedProperty.
type ParsedPropertyType int

const (
	ParsedPropertyTypeDefault ParsedPropertyType = iota
	ParsedPropertyTypeLiteralAttr
	ParsedPropertyTypeTwoWay
	ParsedPropertyTypeAnimation
)

// ParsedProperty is a property binding before it is assigned a BindingType.
type ParsedProperty struct {
	Name       string
	Expression *ASTWithSource
	Type       ParsedPropertyType
	SourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewParsedProperty creates a new ParsedProperty
func NewParsedProperty(name string, expression *ASTWithSource, typ ParsedPropertyType, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *ParsedProperty {
	return &ParsedProperty{Name: name, Expression: expression, Type: typ, SourceSpan: sourceSpan, KeySpan: keySpan, ValueSpan: valueSpan}
}

func (p *ParsedProperty) IsLiteral() bool   { return p.Type == ParsedPropertyTypeLiteralAttr }
func (p *ParsedProperty) IsAnimation() bool { return p.Type == ParsedPropertyTypeAnimation }

// ParsedEventType classifies a ParsedEvent.
type ParsedEventType int

const (
	ParsedEventTypeRegular ParsedEventType = iota
	ParsedEventTypeAnimation
	ParsedEventTypeTwoWay
)

// ParsedEvent is an event binding. TargetOrPhase holds the `window`/`document`
// target of a regular event or the phase of an animation event.
type ParsedEvent struct {
	Name          string
	TargetOrPhase string
	Type          ParsedEventType
	Handler       *ASTWithSource
	SourceSpan    *util.ParseSourceSpan
	HandlerSpan   *util.ParseSourceSpan
	KeySpan       *util.ParseSourceSpan
}

// NewParsedEvent creates a new ParsedEvent
func NewParsedEvent(name, targetOrPhase string, typ ParsedEventType, handler *ASTWithSource, sourceSpan, handlerSpan, keySpan *util.ParseSourceSpan) *ParsedEvent {
	return &ParsedEvent{
		Name:          name,
		TargetOrPhase: targetOrPhase,
		Type:          typ,
		Handler:       handler,
		SourceSpan:    sourceSpan,
		HandlerSpan:   handlerSpan,
		KeySpan:       keySpan,
	}
}

// ParsedVariable is a template local declared with microsyntax or `let-`.
type ParsedVariable struct {
	Name       string
	Value      string
	SourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewParsedVariable creates a new ParsedVariable
func NewParsedVariable(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *ParsedVariable {
	return &ParsedVariable{Name: name, Value: value, SourceSpan: sourceSpan, KeySpan: keySpan, ValueSpan: valueSpan}
}

// BoundElementProperty is a ParsedProperty resolved to its target: the
// `attr.`, `class.` and `style.` prefixes are split off into Type, and a
// style unit (`[style.width.px]`) into Unit.
type BoundElementProperty struct {
	Name       string
	Type       BindingType
	Value      *ASTWithSource
	Unit       string
	SourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewBoundElementProperty creates a new BoundElementProperty
func NewBoundElementProperty(name string, typ BindingType, value *ASTWithSource, unit string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *BoundElementProperty {
	return &BoundElementProperty{
		Name:       name,
		Type:       typ,
		Value:      value,
		Unit:       unit,
		SourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
	}
}

// BindingType is the kind of a bound attribute.
type BindingType int

const (
	// BindingTypeProperty is `[prop]`.
	BindingTypeProperty BindingType = iota
	// BindingTypeAttribute is `[attr.name]`.
	BindingTypeAttribute
	// BindingTypeClass is `[class.name]`.
	BindingTypeClass
	// BindingTypeStyle is `[style.name]`.
	BindingTypeStyle
	// BindingTypeAnimation is `[@trigger]`.
	BindingTypeAnimation
	// BindingTypeTwoWay is `[(prop)]`.
	BindingTypeTwoWay
)

func (t BindingType) String() string {
	switch t {
	case BindingTypeAttribute:
		return "Attribute"
	case BindingTypeClass:
		return "Class"
	case BindingTypeStyle:
		return "Style"
	case BindingTypeAnimation:
		return "Animation"
	case BindingTypeTwoWay:
		return "TwoWay"
	}
	return "Property"
}

func (t ParsedEventType) String() string {
	switch t {
	case ParsedEventTypeAnimation:
		return "Animation"
	case ParsedEventTypeTwoWay:
		return "TwoWay"
	}
	return "Regular"
}
