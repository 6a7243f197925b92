package template_parser

import (
	"fmt"
	"strings"

	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/ml_parser"
	"ngc-template/packages/compiler/src/util"
)

const PROPERTY_PARTS_SEPARATOR = "."
const ATTRIBUTE_PREFIX = "attr"
const CLASS_PREFIX = "class"
const STYLE_PREFIX = "style"
const TEMPLATE_ATTR_PREFIX = "*"
const ANIMATE_PROP_PREFIX = "animate-"

// BindingParser converts attribute names and values of one template into
// parsed properties, events and variables. Errors from every parse are
// collected in Errors.
type BindingParser struct {
	exprParser          *expression_parser.Parser
	interpolationConfig *ml_parser.InterpolationConfig
	Errors              []*util.ParseError
}

// NewBindingParser creates a new BindingParser
func NewBindingParser(
	exprParser *expression_parser.Parser,
	interpolationConfig *ml_parser.InterpolationConfig,
) *BindingParser {
	if interpolationConfig == nil {
		interpolationConfig = ml_parser.DefaultInterpolationConfig
	}
	return &BindingParser{
		exprParser:          exprParser,
		interpolationConfig: interpolationConfig,
	}
}

// GetErrors returns the errors
func (bp *BindingParser) GetErrors() []*util.ParseError {
	return bp.Errors
}

// ParseInterpolation parses the interpolations in a text node or attribute
// value. When the HTML tokens of the value are available they are used to
// place each expression; otherwise value is split on the interpolation
// markers. It returns nil when there is no interpolation.
func (bp *BindingParser) ParseInterpolation(
	value string,
	sourceSpan *util.ParseSourceSpan,
	interpolatedTokens []*ml_parser.Token,
) *expression_parser.ASTWithSource {
	var ast *expression_parser.ASTWithSource
	if len(interpolatedTokens) > 0 {
		ast = bp.exprParser.ParseInterpolationTokens(interpolatedTokens, sourceSpan)
	} else {
		ast = bp.exprParser.ParseInterpolation(value, sourceSpan, sourceSpan.FullStart.Offset, bp.interpolationConfig)
	}
	if ast != nil {
		bp.Errors = append(bp.Errors, ast.Errors...)
	}
	return ast
}

// ParseInterpolationExpression parses a single interpolation expression (for ICU switch expressions)
func (bp *BindingParser) ParseInterpolationExpression(
	expression string,
	sourceSpan *util.ParseSourceSpan,
) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseInterpolationExpression(expression, sourceSpan, sourceSpan.Start.Offset)
	bp.Errors = append(bp.Errors, ast.Errors...)
	return ast
}

// ParseInlineTemplateBinding parses the microsyntax of a `*tplKey="tplValue"`
// attribute. sourceSpan covers the whole attribute, starting at the `*`.
// Expression bindings are appended to targetProps and template variables to
// targetVars, in source order.
func (bp *BindingParser) ParseInlineTemplateBinding(
	tplKey string,
	tplValue string,
	sourceSpan *util.ParseSourceSpan,
	absoluteValueOffset int,
	targetProps *[]*expression_parser.ParsedProperty,
	targetVars *[]*expression_parser.ParsedVariable,
) {
	absoluteKeyOffset := sourceSpan.Start.Offset + len(TEMPLATE_ATTR_PREFIX)
	bindings := bp.parseTemplateBindings(tplKey, tplValue, sourceSpan, absoluteKeyOffset, absoluteValueOffset)

	declared := map[string]bool{}
	for _, binding := range bindings {
		// sourceSpan is for the entire HTML attribute. bindingSpan is for a particular
		// binding within the microsyntax expression so it's more narrow than sourceSpan.
		bindingSpan := moveParseSourceSpan(sourceSpan, binding.SourceSpan())

		switch b := binding.(type) {
		case *expression_parser.VariableBinding:
			key := b.Key.Source
			keySpan := moveParseSourceSpan(sourceSpan, b.Key.Span)
			if declared[key] {
				bp.reportError(fmt.Sprintf(`Duplicate template variable "%s"`, key), keySpan, util.ParseErrorLevelError)
			}
			declared[key] = true
			value := "$implicit"
			var valueSpan *util.ParseSourceSpan
			if b.Value != nil {
				value = b.Value.Source
				valueSpan = moveParseSourceSpan(sourceSpan, b.Value.Span)
			}
			*targetVars = append(*targetVars, expression_parser.NewParsedVariable(key, value, bindingSpan, keySpan, valueSpan))
		case *expression_parser.ExpressionBinding:
			key := b.Key.Source
			keySpan := moveParseSourceSpan(sourceSpan, b.Key.Span)
			if b.Value != nil {
				valueSpan := moveParseSourceSpan(sourceSpan, b.Value.SourceSpan())
				bp.parsePropertyAst(key, b.Value, false, bindingSpan, keySpan, valueSpan, targetProps)
			} else {
				// Literal attribute with no RHS
				bp.ParseLiteralAttr(key, "", keySpan, keySpan.End.Offset, nil, targetProps, keySpan)
			}
		}
	}
}

func (bp *BindingParser) parseTemplateBindings(
	tplKey string,
	tplValue string,
	sourceSpan *util.ParseSourceSpan,
	absoluteKeyOffset int,
	absoluteValueOffset int,
) []expression_parser.TemplateBinding {
	result := bp.exprParser.ParseTemplateBindings(tplKey, tplValue, sourceSpan, absoluteKeyOffset, absoluteValueOffset)
	bp.Errors = append(bp.Errors, result.Errors...)
	return result.TemplateBindings
}

// ParseLiteralAttr records a plain `name="value"` attribute as a literal
// property. `@trigger` attributes become animation bindings instead.
func (bp *BindingParser) ParseLiteralAttr(
	name string,
	value string,
	sourceSpan *util.ParseSourceSpan,
	absoluteOffset int,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*expression_parser.ParsedProperty,
	keySpan *util.ParseSourceSpan,
) {
	if isAnimationLabel(name) {
		name = name[1:]
		if keySpan != nil {
			keySpan = moveParseSourceSpan(keySpan,
				expression_parser.NewAbsoluteSourceSpan(keySpan.Start.Offset+1, keySpan.End.Offset))
		}
		if value != "" {
			bp.reportError(
				"Assigning animation triggers via @prop=\"exp\" attributes with an expression is invalid. Use property bindings (e.g. [@prop]=\"exp\") or use an attribute without a value (e.g. @prop) instead.",
				sourceSpan,
				util.ParseErrorLevelError,
			)
		}
		bp.parseAnimation(name, value, sourceSpan, absoluteOffset, keySpan, valueSpan, targetProps)
		return
	}
	*targetProps = append(*targetProps, expression_parser.NewParsedProperty(
		name,
		bp.exprParser.WrapLiteralPrimitive(value, sourceSpan, absoluteOffset),
		expression_parser.ParsedPropertyTypeLiteralAttr,
		sourceSpan,
		keySpan,
		valueSpan,
	))
}

// ParsePropertyBinding parses `[name]="expression"` (and its `bind-` form).
// isPartOfAssignmentBinding is set for the property half of `[(name)]`.
func (bp *BindingParser) ParsePropertyBinding(
	name string,
	expression string,
	isPartOfAssignmentBinding bool,
	sourceSpan *util.ParseSourceSpan,
	absoluteOffset int,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*expression_parser.ParsedProperty,
	keySpan *util.ParseSourceSpan,
) {
	if len(name) == 0 {
		bp.reportError("Property name is missing in binding", sourceSpan, util.ParseErrorLevelError)
	}

	isAnimationProp := false
	if strings.HasPrefix(name, ANIMATE_PROP_PREFIX) {
		isAnimationProp = true
		name = name[len(ANIMATE_PROP_PREFIX):]
		if keySpan != nil {
			keySpan = moveParseSourceSpan(keySpan,
				expression_parser.NewAbsoluteSourceSpan(keySpan.Start.Offset+len(ANIMATE_PROP_PREFIX), keySpan.End.Offset))
		}
	} else if isAnimationLabel(name) {
		isAnimationProp = true
		name = name[1:]
		if keySpan != nil {
			keySpan = moveParseSourceSpan(keySpan,
				expression_parser.NewAbsoluteSourceSpan(keySpan.Start.Offset+1, keySpan.End.Offset))
		}
	}

	if isAnimationProp {
		bp.parseAnimation(name, expression, sourceSpan, absoluteOffset, keySpan, valueSpan, targetProps)
		return
	}
	actualValueSpan := valueSpan
	if actualValueSpan == nil {
		actualValueSpan = sourceSpan
	}
	bp.parsePropertyAst(
		name,
		bp.ParseBinding(expression, actualValueSpan, absoluteOffset),
		isPartOfAssignmentBinding,
		sourceSpan,
		keySpan,
		valueSpan,
		targetProps,
	)
}

// ParsePropertyInterpolation records `name="a {{b}}"` as a property bound to
// an interpolation. It reports false when value has no interpolation.
func (bp *BindingParser) ParsePropertyInterpolation(
	name string,
	value string,
	sourceSpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*expression_parser.ParsedProperty,
	keySpan *util.ParseSourceSpan,
	interpolatedTokens []*ml_parser.Token,
) bool {
	actualValueSpan := valueSpan
	if actualValueSpan == nil {
		actualValueSpan = sourceSpan
	}
	expr := bp.ParseInterpolation(value, actualValueSpan, interpolatedTokens)
	if expr == nil {
		return false
	}
	bp.parsePropertyAst(name, expr, false, sourceSpan, keySpan, valueSpan, targetProps)
	return true
}

func (bp *BindingParser) parsePropertyAst(
	name string,
	ast *expression_parser.ASTWithSource,
	isPartOfAssignmentBinding bool,
	sourceSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*expression_parser.ParsedProperty,
) {
	propType := expression_parser.ParsedPropertyTypeDefault
	if isPartOfAssignmentBinding {
		propType = expression_parser.ParsedPropertyTypeTwoWay
	}
	*targetProps = append(*targetProps, expression_parser.NewParsedProperty(name, ast, propType, sourceSpan, keySpan, valueSpan))
}

func (bp *BindingParser) parseAnimation(
	name string,
	expression string,
	sourceSpan *util.ParseSourceSpan,
	absoluteOffset int,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*expression_parser.ParsedProperty,
) {
	if len(name) == 0 {
		bp.reportError("Animation trigger is missing", sourceSpan, util.ParseErrorLevelError)
	}

	// This will occur when a @trigger is not paired with an expression.
	// For animations it is valid to not have an expression since */void
	// states will be applied by angular when the element is attached/detached
	actualValueSpan := valueSpan
	if actualValueSpan == nil {
		actualValueSpan = sourceSpan
	}
	if expression == "" {
		expression = "null"
	}
	ast := bp.ParseBinding(expression, actualValueSpan, absoluteOffset)
	*targetProps = append(*targetProps, expression_parser.NewParsedProperty(
		name, ast, expression_parser.ParsedPropertyTypeAnimation, sourceSpan, keySpan, valueSpan))
}

// ParseBinding parses a binding expression
func (bp *BindingParser) ParseBinding(
	value string,
	sourceSpan *util.ParseSourceSpan,
	absoluteOffset int,
) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseBinding(value, sourceSpan, absoluteOffset, bp.interpolationConfig)
	bp.Errors = append(bp.Errors, ast.Errors...)
	return ast
}

// CreateBoundElementProperty resolves a parsed property to its binding type.
func (bp *BindingParser) CreateBoundElementProperty(
	boundProp *expression_parser.ParsedProperty,
) *expression_parser.BoundElementProperty {
	if boundProp.IsAnimation() {
		return expression_parser.NewBoundElementProperty(
			boundProp.Name,
			expression_parser.BindingTypeAnimation,
			boundProp.Expression,
			"",
			boundProp.SourceSpan,
			boundProp.KeySpan,
			boundProp.ValueSpan,
		)
	}

	unit := ""
	var bindingType expression_parser.BindingType
	boundPropertyName := ""
	parts := strings.Split(boundProp.Name, PROPERTY_PARTS_SEPARATOR)

	// Check for special cases (prefix style, attr, class)
	if len(parts) > 1 {
		switch parts[0] {
		case ATTRIBUTE_PREFIX:
			boundPropertyName = strings.Join(parts[1:], PROPERTY_PARTS_SEPARATOR)
			bp.validatePropertyOrAttributeName(boundPropertyName, boundProp.SourceSpan, true)
			if ns, name, found := strings.Cut(boundPropertyName, ":"); found {
				boundPropertyName = ml_parser.MergeNsAndName(ns, name)
			}
			bindingType = expression_parser.BindingTypeAttribute
		case CLASS_PREFIX:
			boundPropertyName = parts[1]
			bindingType = expression_parser.BindingTypeClass
		case STYLE_PREFIX:
			if len(parts) > 2 {
				unit = parts[2]
			}
			boundPropertyName = parts[1]
			bindingType = expression_parser.BindingTypeStyle
		}
	}

	// If not a special case, use the full property name
	if boundPropertyName == "" {
		boundPropertyName = boundProp.Name
		if boundProp.Type == expression_parser.ParsedPropertyTypeTwoWay {
			bindingType = expression_parser.BindingTypeTwoWay
		} else {
			bindingType = expression_parser.BindingTypeProperty
		}
		bp.validatePropertyOrAttributeName(boundPropertyName, boundProp.SourceSpan, false)
	}

	return expression_parser.NewBoundElementProperty(
		boundPropertyName,
		bindingType,
		boundProp.Expression,
		unit,
		boundProp.SourceSpan,
		boundProp.KeySpan,
		boundProp.ValueSpan,
	)
}

// ParseEvent parses `(name)="expression"` (and its `on-` form). A name
// starting with `@` is an animation event; isAssignmentEvent is set for the
// event half of `[(name)]`.
func (bp *BindingParser) ParseEvent(
	name string,
	expression string,
	isAssignmentEvent bool,
	sourceSpan *util.ParseSourceSpan,
	handlerSpan *util.ParseSourceSpan,
	targetEvents *[]*expression_parser.ParsedEvent,
	keySpan *util.ParseSourceSpan,
) {
	if len(name) == 0 {
		bp.reportError("Event name is missing in binding", sourceSpan, util.ParseErrorLevelError)
	}

	if isAnimationLabel(name) {
		name = name[1:]
		if keySpan != nil {
			keySpan = moveParseSourceSpan(keySpan,
				expression_parser.NewAbsoluteSourceSpan(keySpan.Start.Offset+1, keySpan.End.Offset))
		}
		bp.parseAnimationEvent(name, expression, sourceSpan, handlerSpan, targetEvents, keySpan)
	} else {
		bp.parseRegularEvent(name, expression, isAssignmentEvent, sourceSpan, handlerSpan, targetEvents, keySpan)
	}
}

// ParseEventListenerName splits `target:event` into the event name and its
// target; target is empty for a plain event name.
func (bp *BindingParser) ParseEventListenerName(rawName string) (eventName string, target string) {
	parts := util.SplitAtColon(rawName, []string{"", rawName})
	return parts[1], parts[0]
}

// ParseAnimationEventName splits `trigger.phase` into the trigger name and
// its lower-cased phase.
func (bp *BindingParser) ParseAnimationEventName(rawName string) (eventName string, phase string) {
	matches := util.SplitAtPeriod(rawName, []string{rawName, ""})
	return matches[0], strings.ToLower(matches[1])
}

func (bp *BindingParser) parseAnimationEvent(
	name string,
	expression string,
	sourceSpan *util.ParseSourceSpan,
	handlerSpan *util.ParseSourceSpan,
	targetEvents *[]*expression_parser.ParsedEvent,
	keySpan *util.ParseSourceSpan,
) {
	eventName, phase := bp.ParseAnimationEventName(name)
	ast := bp.parseAction(expression, handlerSpan)
	*targetEvents = append(*targetEvents, expression_parser.NewParsedEvent(
		eventName,
		phase,
		expression_parser.ParsedEventTypeAnimation,
		ast,
		sourceSpan,
		handlerSpan,
		keySpan,
	))

	if len(eventName) == 0 {
		bp.reportError("Animation event name is missing in binding", sourceSpan, util.ParseErrorLevelError)
	}
	if phase != "" {
		if phase != "start" && phase != "done" {
			bp.reportError(
				fmt.Sprintf("The provided animation output phase value \"%s\" for \"@%s\" is not supported (use start or done)", phase, eventName),
				sourceSpan,
				util.ParseErrorLevelError,
			)
		}
	} else {
		bp.reportError(
			fmt.Sprintf("The animation trigger output event (@%s) is missing its phase value name (start or done are currently supported)", eventName),
			sourceSpan,
			util.ParseErrorLevelError,
		)
	}
}

func (bp *BindingParser) parseRegularEvent(
	name string,
	expression string,
	isAssignmentEvent bool,
	sourceSpan *util.ParseSourceSpan,
	handlerSpan *util.ParseSourceSpan,
	targetEvents *[]*expression_parser.ParsedEvent,
	keySpan *util.ParseSourceSpan,
) {
	// long format: 'target: eventName'
	eventName, target := bp.ParseEventListenerName(name)
	prevErrorCount := len(bp.Errors)
	ast := bp.parseAction(expression, handlerSpan)
	isValid := len(bp.Errors) == prevErrorCount

	// Don't try to validate assignment events if there were other
	// parsing errors to avoid adding more noise to the error logs.
	if isAssignmentEvent && isValid && !isAllowedAssignmentEvent(ast.AST) {
		bp.reportError("Unsupported expression in a two-way binding", sourceSpan, util.ParseErrorLevelError)
	}

	eventType := expression_parser.ParsedEventTypeRegular
	if isAssignmentEvent {
		eventType = expression_parser.ParsedEventTypeTwoWay
	}
	*targetEvents = append(*targetEvents, expression_parser.NewParsedEvent(
		eventName,
		target,
		eventType,
		ast,
		sourceSpan,
		handlerSpan,
		keySpan,
	))
}

func (bp *BindingParser) parseAction(value string, sourceSpan *util.ParseSourceSpan) *expression_parser.ASTWithSource {
	absoluteOffset := sourceSpan.Start.Offset
	ast := bp.exprParser.ParseAction(value, sourceSpan, absoluteOffset, bp.interpolationConfig)
	bp.Errors = append(bp.Errors, ast.Errors...)
	if isEmptyExpr(ast.AST) {
		bp.reportError("Empty expressions are not allowed", sourceSpan, util.ParseErrorLevelError)
		return bp.exprParser.WrapLiteralPrimitive("ERROR", sourceSpan, absoluteOffset)
	}
	return ast
}

func (bp *BindingParser) reportError(
	message string,
	sourceSpan *util.ParseSourceSpan,
	level util.ParseErrorLevel,
) {
	err := util.NewParseError(sourceSpan, message)
	err.Level = level
	bp.Errors = append(bp.Errors, err)
}

// validatePropertyOrAttributeName rejects bindings to event handler
// properties and attributes such as `[onclick]`.
func (bp *BindingParser) validatePropertyOrAttributeName(
	propName string,
	sourceSpan *util.ParseSourceSpan,
	isAttr bool,
) {
	if !strings.HasPrefix(strings.ToLower(propName), "on") {
		return
	}
	var msg string
	if isAttr {
		msg = fmt.Sprintf("Binding to event attribute '%s' is disallowed for security reasons, "+
			"please use (%s)=...", propName, propName[2:])
	} else {
		msg = fmt.Sprintf("Binding to event property '%s' is disallowed for security reasons, "+
			"please use (%s)=...\nIf '%s' is a directive input, make sure the directive is imported by the current module.",
			propName, propName[2:], propName)
	}
	bp.reportError(msg, sourceSpan, util.ParseErrorLevelError)
}

// isAllowedAssignmentEvent checks if an AST is allowed to be used within the event side of a two-way binding
func isAllowedAssignmentEvent(ast expression_parser.AST) bool {
	switch n := ast.(type) {
	case *expression_parser.NonNullAssert:
		return isAllowedAssignmentEvent(n.Expression)
	case *expression_parser.Call:
		if len(n.Args) == 1 {
			if propRead, ok := n.Receiver.(*expression_parser.PropertyRead); ok && propRead.Name == "$any" {
				if _, ok := propRead.Receiver.(*expression_parser.ImplicitReceiver); ok {
					return isAllowedAssignmentEvent(n.Args[0])
				}
			}
		}
	case *expression_parser.PropertyRead, *expression_parser.KeyedRead:
		return !hasRecursiveSafeReceiver(n)
	}
	return false
}

func hasRecursiveSafeReceiver(ast expression_parser.AST) bool {
	switch n := ast.(type) {
	case *expression_parser.SafePropertyRead, *expression_parser.SafeKeyedRead:
		return true
	case *expression_parser.ParenthesizedExpression:
		return hasRecursiveSafeReceiver(n.Expression)
	case *expression_parser.PropertyRead:
		return hasRecursiveSafeReceiver(n.Receiver)
	case *expression_parser.KeyedRead:
		return hasRecursiveSafeReceiver(n.Receiver)
	case *expression_parser.Call:
		return hasRecursiveSafeReceiver(n.Receiver)
	}
	return false
}

func isAnimationLabel(name string) bool {
	return len(name) > 0 && name[0] == '@'
}

func isEmptyExpr(ast expression_parser.AST) bool {
	_, ok := ast.(*expression_parser.EmptyExpr)
	return ok
}

// moveParseSourceSpan narrows sourceSpan to absoluteSpan, keeping line and
// column information in sync.
func moveParseSourceSpan(
	sourceSpan *util.ParseSourceSpan,
	absoluteSpan *expression_parser.AbsoluteSourceSpan,
) *util.ParseSourceSpan {
	// The difference of two absolute offsets provide the relative offset
	startDiff := absoluteSpan.Start - sourceSpan.Start.Offset
	endDiff := absoluteSpan.End - sourceSpan.End.Offset
	return util.NewParseSourceSpan(
		sourceSpan.Start.MoveBy(startDiff),
		sourceSpan.End.MoveBy(endDiff),
		sourceSpan.FullStart.MoveBy(startDiff),
		sourceSpan.Details,
	)
}
