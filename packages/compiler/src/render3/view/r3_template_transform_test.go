package view_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-template/packages/compiler/src/expression_parser"
	"ngc-template/packages/compiler/src/render3"
	"ngc-template/packages/compiler/src/render3/view"
	"ngc-template/packages/compiler/src/util"
)

// r3AstHumanizer transforms an R3 AST to a flat list of nodes to ease testing
type r3AstHumanizer struct {
	result []interface{}
}

func (r *r3AstHumanizer) VisitElement(element *render3.Element) interface{} {
	res := []interface{}{"Element", element.Name}
	if element.IsSelfClosing {
		res = append(res, "#selfClosing")
	}
	r.result = append(r.result, res)
	r.visitAll(element.Attributes, element.Inputs, element.Outputs, element.References, element.Children)
	return nil
}

func (r *r3AstHumanizer) VisitTemplate(template *render3.Template) interface{} {
	r.result = append(r.result, []interface{}{"Template", template.TagName})
	r.visitAll(
		template.Attributes,
		template.Inputs,
		template.Outputs,
		template.TemplateAttrs,
		template.References,
		template.Variables,
		template.Children,
	)
	return nil
}

func (r *r3AstHumanizer) VisitContent(content *render3.Content) interface{} {
	r.result = append(r.result, []interface{}{"Content", content.Selector})
	r.visitAll(content.Attributes, content.Children)
	return nil
}

func (r *r3AstHumanizer) VisitVariable(variable *render3.Variable) interface{} {
	r.result = append(r.result, []interface{}{"Variable", variable.Name, variable.Value})
	return nil
}

func (r *r3AstHumanizer) VisitReference(reference *render3.Reference) interface{} {
	r.result = append(r.result, []interface{}{"Reference", reference.Name, reference.Value})
	return nil
}

func (r *r3AstHumanizer) VisitTextAttribute(attribute *render3.TextAttribute) interface{} {
	r.result = append(r.result, []interface{}{"TextAttribute", attribute.Name, attribute.Value})
	return nil
}

func (r *r3AstHumanizer) VisitBoundAttribute(attribute *render3.BoundAttribute) interface{} {
	r.result = append(r.result, []interface{}{
		"BoundAttribute", attribute.Type.String(), attribute.Name, expression_parser.Serialize(attribute.Value),
	})
	return nil
}

func (r *r3AstHumanizer) VisitBoundEvent(event *render3.BoundEvent) interface{} {
	r.result = append(r.result, []interface{}{
		"BoundEvent", event.Type.String(), event.Name, event.Target, expression_parser.Serialize(event.Handler),
	})
	return nil
}

func (r *r3AstHumanizer) VisitText(text *render3.Text) interface{} {
	r.result = append(r.result, []interface{}{"Text", text.Value})
	return nil
}

func (r *r3AstHumanizer) VisitBoundText(text *render3.BoundText) interface{} {
	r.result = append(r.result, []interface{}{"BoundText", expression_parser.Serialize(text.Value)})
	return nil
}

func (r *r3AstHumanizer) VisitIcu(icu *render3.Icu) interface{} {
	r.result = append(r.result, []interface{}{"Icu"})
	return nil
}

func (r *r3AstHumanizer) visitAll(lists ...interface{}) {
	for _, list := range lists {
		switch nodes := list.(type) {
		case []render3.Node:
			render3.VisitAll(r, nodes)
		case []*render3.TextAttribute:
			for _, n := range nodes {
				n.Visit(r)
			}
		case []*render3.BoundAttribute:
			for _, n := range nodes {
				n.Visit(r)
			}
		case []*render3.BoundEvent:
			for _, n := range nodes {
				n.Visit(r)
			}
		case []*render3.Reference:
			for _, n := range nodes {
				n.Visit(r)
			}
		case []*render3.Variable:
			for _, n := range nodes {
				n.Visit(r)
			}
		}
	}
}

func parse(html string) *view.ParsedTemplate {
	return view.ParseTemplate(html, "path:://to/template", nil)
}

func humanize(nodes []render3.Node) []interface{} {
	humanizer := &r3AstHumanizer{result: []interface{}{}}
	render3.VisitAll(humanizer, nodes)
	return humanizer.result
}

func humanizeErrors(errors []*util.ParseError) []interface{} {
	result := []interface{}{}
	for _, err := range errors {
		result = append(result, err.Msg)
	}
	return result
}

func expectFromHtml(t *testing.T, html string, expected []interface{}) {
	t.Helper()
	res := parse(html)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors for %q: %v", html, humanizeErrors(res.Errors))
	}
	if diff := cmp.Diff(expected, humanize(res.Nodes)); diff != "" {
		t.Errorf("humanize(%q) mismatch (-want +got):\n%s", html, diff)
	}
}

func expectErrorsFromHtml(t *testing.T, html string, expected []interface{}) {
	t.Helper()
	if diff := cmp.Diff(expected, humanizeErrors(parse(html).Errors)); diff != "" {
		t.Errorf("errors for %q mismatch (-want +got):\n%s", html, diff)
	}
}

func TestR3TemplateTransform(t *testing.T) {
	t.Run("Nodes without binding", func(t *testing.T) {
		t.Run("should parse text nodes", func(t *testing.T) {
			expectFromHtml(t, "a", []interface{}{
				[]interface{}{"Text", "a"},
			})
		})

		t.Run("should parse elements with attributes", func(t *testing.T) {
			expectFromHtml(t, `<div a=b></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"TextAttribute", "a", "b"},
			})
		})

		t.Run("should parse ngContent", func(t *testing.T) {
			res := parse(`<ng-content select="a"></ng-content>`)
			if diff := cmp.Diff([]interface{}{
				[]interface{}{"Content", "a"},
				[]interface{}{"TextAttribute", "select", "a"},
			}, humanize(res.Nodes)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"a"}, res.NgContentSelectors); diff != "" {
				t.Errorf("NgContentSelectors mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should default the ngContent selector to *", func(t *testing.T) {
			res := parse(`<ng-content></ng-content>`)
			if diff := cmp.Diff([]string{"*"}, res.NgContentSelectors); diff != "" {
				t.Errorf("NgContentSelectors mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should parse ng-container as a plain element", func(t *testing.T) {
			expectFromHtml(t, `<ng-container><b>x</b></ng-container>`, []interface{}{
				[]interface{}{"Element", "ng-container"},
				[]interface{}{"Element", "b"},
				[]interface{}{"Text", "x"},
			})
		})
	})

	t.Run("Bound text nodes", func(t *testing.T) {
		t.Run("should parse bound text nodes", func(t *testing.T) {
			expectFromHtml(t, "{{a}}", []interface{}{
				[]interface{}{"BoundText", "{{ a }}"},
			})
		})

		t.Run("should place interpolated expressions at their offset in the template", func(t *testing.T) {
			res := parse("<div>{{ a }}</div>")
			text := res.Nodes[0].(*render3.Element).Children[0].(*render3.BoundText)
			interpolation := text.Value.(*expression_parser.ASTWithSource).AST.(*expression_parser.Interpolation)
			span := interpolation.Expressions[0].SourceSpan()
			if span.Start != 8 || span.End != 9 {
				t.Errorf("Expected expression span [8, 9), got [%d, %d)", span.Start, span.End)
			}
		})

		t.Run("should keep expression offsets exact after character references", func(t *testing.T) {
			res := parse("<div>&amp;{{b}}</div>")
			text := res.Nodes[0].(*render3.Element).Children[0].(*render3.BoundText)
			interpolation := text.Value.(*expression_parser.ASTWithSource).AST.(*expression_parser.Interpolation)
			if interpolation.Strings[0] != "&" {
				t.Errorf("Expected decoded leading string, got %q", interpolation.Strings[0])
			}
			span := interpolation.Expressions[0].SourceSpan()
			if span.Start != 12 || span.End != 13 {
				t.Errorf("Expected expression span [12, 13), got [%d, %d)", span.Start, span.End)
			}
		})
	})

	t.Run("Bound attributes", func(t *testing.T) {
		t.Run("should parse mixed case bound properties", func(t *testing.T) {
			expectFromHtml(t, `<div [someProp]="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "Property", "someProp", "v"},
			})
		})

		t.Run("should parse bound properties via bind- ", func(t *testing.T) {
			expectFromHtml(t, `<div bind-prop="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "Property", "prop", "v"},
			})
		})

		t.Run("should parse bound properties via {{...}}", func(t *testing.T) {
			expectFromHtml(t, `<div prop="{{v}}"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "Property", "prop", "{{ v }}"},
			})
		})

		t.Run("should parse dash case bound classes", func(t *testing.T) {
			expectFromHtml(t, `<div [class.some-class]="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "Class", "some-class", "v"},
			})
		})

		t.Run("should parse mixed case bound styles", func(t *testing.T) {
			expectFromHtml(t, `<div [style.someStyle]="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "Style", "someStyle", "v"},
			})
		})

		t.Run("should parse bound attributes", func(t *testing.T) {
			expectFromHtml(t, `<div [attr.aria-label]="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "Attribute", "aria-label", "v"},
			})
		})

		t.Run("should parse animation bindings", func(t *testing.T) {
			expectFromHtml(t, `<div [@fade]="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "Animation", "fade", "v"},
			})
		})

		t.Run("should strip the data- prefix", func(t *testing.T) {
			expectFromHtml(t, `<div data-bind-prop="v" data-title="t"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"TextAttribute", "data-title", "t"},
				[]interface{}{"BoundAttribute", "Property", "prop", "v"},
			})
		})

		t.Run("should report missing property names", func(t *testing.T) {
			expectErrorsFromHtml(t, `<div bind-="v"></div>`, []interface{}{
				"Property name is missing in binding",
			})
		})

		t.Run("should report security errors for on* properties", func(t *testing.T) {
			res := parse(`<div [onclick]="v"></div>`)
			if len(res.Errors) != 1 {
				t.Fatalf("Expected 1 error, got %v", humanizeErrors(res.Errors))
			}
		})
	})

	t.Run("Templates", func(t *testing.T) {
		t.Run("should support explicit <ng-template>", func(t *testing.T) {
			expectFromHtml(t, `<ng-template>x</ng-template>`, []interface{}{
				[]interface{}{"Template", "ng-template"},
				[]interface{}{"Text", "x"},
			})
		})

		t.Run("should support variables on <ng-template>", func(t *testing.T) {
			expectFromHtml(t, `<ng-template let-a="b" let-c></ng-template>`, []interface{}{
				[]interface{}{"Template", "ng-template"},
				[]interface{}{"Variable", "a", "b"},
				[]interface{}{"Variable", "c", "$implicit"},
			})
		})

		t.Run("should support references on <ng-template>", func(t *testing.T) {
			expectFromHtml(t, `<ng-template #a></ng-template>`, []interface{}{
				[]interface{}{"Template", "ng-template"},
				[]interface{}{"Reference", "a", ""},
			})
		})

		t.Run("should report let- outside of <ng-template>", func(t *testing.T) {
			expectErrorsFromHtml(t, `<div let-a></div>`, []interface{}{
				`"let-" is only supported on ng-template elements.`,
			})
		})
	})

	t.Run("Inline templates", func(t *testing.T) {
		t.Run("should desugar *ngFor into a template", func(t *testing.T) {
			expectFromHtml(t, `<div *ngFor="let item of [1,2,3]"></div>`, []interface{}{
				[]interface{}{"Template", "div"},
				[]interface{}{"TextAttribute", "ngFor", ""},
				[]interface{}{"BoundAttribute", "Property", "ngForOf", "[1, 2, 3]"},
				[]interface{}{"Variable", "item", "$implicit"},
				[]interface{}{"Element", "div"},
			})
		})

		t.Run("should desugar *ngIf with an as binding", func(t *testing.T) {
			expectFromHtml(t, `<div *ngIf="exp as value"></div>`, []interface{}{
				[]interface{}{"Template", "div"},
				[]interface{}{"BoundAttribute", "Property", "ngIf", "exp"},
				[]interface{}{"Variable", "value", "ngIf"},
				[]interface{}{"Element", "div"},
			})
		})

		t.Run("should hoist the host attributes onto the template", func(t *testing.T) {
			expectFromHtml(t, `<div *ngIf="a" class="c" [b]="d" (e)="f()"></div>`, []interface{}{
				[]interface{}{"Template", "div"},
				[]interface{}{"TextAttribute", "class", "c"},
				[]interface{}{"BoundAttribute", "Property", "b", "d"},
				[]interface{}{"BoundEvent", "Regular", "e", "", "f()"},
				[]interface{}{"BoundAttribute", "Property", "ngIf", "a"},
				[]interface{}{"Element", "div"},
				[]interface{}{"TextAttribute", "class", "c"},
				[]interface{}{"BoundAttribute", "Property", "b", "d"},
				[]interface{}{"BoundEvent", "Regular", "e", "", "f()"},
			})
		})

		t.Run("should wrap an <ng-template> without repeating its attributes", func(t *testing.T) {
			expectFromHtml(t, `<ng-template *ngIf="a" let-b></ng-template>`, []interface{}{
				[]interface{}{"Template", ""},
				[]interface{}{"BoundAttribute", "Property", "ngIf", "a"},
				[]interface{}{"Template", "ng-template"},
				[]interface{}{"Variable", "b", "$implicit"},
			})
		})

		t.Run("should report more than one template binding on an element", func(t *testing.T) {
			for _, html := range []string{
				`<div *ngIf="a" *ngFor="let b of c"></div>`,
				`<div *a *b></div>`,
			} {
				expectErrorsFromHtml(t, html, []interface{}{
					"Can't have multiple template bindings on one element. Use only one attribute prefixed with *",
				})
			}
		})

		t.Run("should report duplicate template variables", func(t *testing.T) {
			expectErrorsFromHtml(t, `<div *ngFor="let a of b; let a = index"></div>`, []interface{}{
				`Duplicate template variable "a"`,
			})
		})
	})

	t.Run("Events", func(t *testing.T) {
		t.Run("should parse bound events with a target", func(t *testing.T) {
			expectFromHtml(t, `<div (window:event)="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundEvent", "Regular", "event", "window", "v"},
			})
		})

		t.Run("should parse bound events via on-", func(t *testing.T) {
			expectFromHtml(t, `<div on-event="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundEvent", "Regular", "event", "", "v"},
			})
		})

		t.Run("should parse two-way bindings", func(t *testing.T) {
			expectFromHtml(t, `<div [(prop)]="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "TwoWay", "prop", "v"},
				[]interface{}{"BoundEvent", "TwoWay", "propChange", "", "v"},
			})
		})

		t.Run("should parse two-way bindings via bindon-", func(t *testing.T) {
			expectFromHtml(t, `<div bindon-prop="v"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundAttribute", "TwoWay", "prop", "v"},
				[]interface{}{"BoundEvent", "TwoWay", "propChange", "", "v"},
			})
		})

		t.Run("should share the key span between a two-way binding and its event", func(t *testing.T) {
			res := parse(`<div [(prop)]="v"></div>`)
			el := res.Nodes[0].(*render3.Element)
			attrKey, eventKey := el.Inputs[0].KeySpan, el.Outputs[0].KeySpan
			if attrKey.Start.Offset != 7 || attrKey.End.Offset != 11 {
				t.Errorf("Expected key span [7, 11), got %s", attrKey)
			}
			if eventKey.Start.Offset != attrKey.Start.Offset || eventKey.End.Offset != attrKey.End.Offset {
				t.Errorf("Expected the event to share the key span %s, got %s", attrKey, eventKey)
			}
		})

		t.Run("should report an unsupported two-way binding expression", func(t *testing.T) {
			expectErrorsFromHtml(t, `<div [(prop)]="v()"></div>`, []interface{}{
				"Unsupported expression in a two-way binding",
			})
		})

		t.Run("should report empty event handlers", func(t *testing.T) {
			expectErrorsFromHtml(t, `<div (event)=""></div>`, []interface{}{
				"Empty expressions are not allowed",
			})
		})
	})

	t.Run("References", func(t *testing.T) {
		t.Run("should parse references", func(t *testing.T) {
			expectFromHtml(t, `<div #a ref-b="c"></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"Reference", "a", ""},
				[]interface{}{"Reference", "b", "c"},
			})
		})

		t.Run("should report invalid reference names", func(t *testing.T) {
			expectErrorsFromHtml(t, `<div #a-b></div>`, []interface{}{
				`"-" is not allowed in reference names`,
			})
		})

		t.Run("should report duplicate references", func(t *testing.T) {
			expectErrorsFromHtml(t, `<div #a></div><div #a #a></div>`, []interface{}{
				`Reference "#a" is defined more than once`,
			})
		})
	})

	t.Run("Special elements", func(t *testing.T) {
		t.Run("should drop <script>", func(t *testing.T) {
			expectFromHtml(t, `<script>alert(1)</script>`, []interface{}{})
		})

		t.Run("should collect <style> contents", func(t *testing.T) {
			res := parse(`<style>a { color: red }</style>`)
			if len(res.Nodes) != 0 {
				t.Errorf("Expected no nodes, got %v", humanize(res.Nodes))
			}
			if diff := cmp.Diff([]string{"a { color: red }"}, res.Styles); diff != "" {
				t.Errorf("Styles mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should collect resolvable stylesheet links", func(t *testing.T) {
			res := parse(`<link rel="stylesheet" href="./a.css"><link rel="stylesheet" href="http://x/b.css">`)
			if diff := cmp.Diff([]string{"./a.css"}, res.StyleUrls); diff != "" {
				t.Errorf("StyleUrls mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]interface{}{
				[]interface{}{"Element", "link"},
				[]interface{}{"TextAttribute", "rel", "stylesheet"},
				[]interface{}{"TextAttribute", "href", "http://x/b.css"},
			}, humanize(res.Nodes)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should not parse bindings inside ngNonBindable", func(t *testing.T) {
			expectFromHtml(t, `<div ngNonBindable>{{a}}<span [b]="c"></span></div>`, []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"TextAttribute", "ngNonBindable", ""},
				[]interface{}{"Text", "{{a}}"},
				[]interface{}{"Element", "span"},
				[]interface{}{"TextAttribute", "[b]", "c"},
			})
		})
	})

	t.Run("i18n", func(t *testing.T) {
		t.Run("should move i18n markers onto the nodes", func(t *testing.T) {
			res := parse(`<div i18n="m|d@@id" title="t" i18n-title="tm|td"></div>`)
			if len(res.Errors) > 0 {
				t.Fatalf("unexpected errors: %v", humanizeErrors(res.Errors))
			}
			el := res.Nodes[0].(*render3.Element)
			if el.I18n == nil || el.I18n.Meaning != "m" || el.I18n.Description != "d" || el.I18n.CustomID != "id" {
				t.Errorf("Unexpected element i18n meta: %+v", el.I18n)
			}
			if len(el.Attributes) != 1 || el.Attributes[0].Name != "title" {
				t.Fatalf("Expected only the title attribute, got %v", humanize(res.Nodes))
			}
			if meta := el.Attributes[0].I18n; meta == nil || meta.Meaning != "tm" || meta.Description != "td" {
				t.Errorf("Unexpected attribute i18n meta: %+v", meta)
			}
		})

		t.Run("should convert ICU messages", func(t *testing.T) {
			res := parse(`<div>{count, plural, =0 {none} other {{{ count }} items}}</div>`)
			if len(res.Errors) > 0 {
				t.Fatalf("unexpected errors: %v", humanizeErrors(res.Errors))
			}
			icu, ok := res.Nodes[0].(*render3.Element).Children[0].(*render3.Icu)
			if !ok {
				t.Fatalf("Expected an Icu node, got %v", humanize(res.Nodes))
			}
			vars := map[string]string{}
			for name, v := range icu.Vars {
				vars[name] = expression_parser.Serialize(v.Value)
			}
			if diff := cmp.Diff(map[string]string{"VAR_PLURAL": "{{ count }}"}, vars); diff != "" {
				t.Errorf("vars mismatch (-want +got):\n%s", diff)
			}
			placeholders := map[string]string{}
			for name, p := range icu.Placeholders {
				placeholders[name] = expression_parser.Serialize(p.(*render3.BoundText).Value)
			}
			if diff := cmp.Diff(map[string]string{"INTERPOLATION": "{{ count }} items"}, placeholders); diff != "" {
				t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should name nested ICU vars uniquely", func(t *testing.T) {
			res := parse(`{a, select, x {{b, select, y {z}}} other {{c, select, y {z}}}}`)
			icu := res.Nodes[0].(*render3.Icu)
			names := map[string]bool{}
			for name := range icu.Vars {
				names[name] = true
			}
			if diff := cmp.Diff(map[string]bool{"VAR_SELECT": true, "VAR_SELECT_1": true, "VAR_SELECT_2": true}, names); diff != "" {
				t.Errorf("var names mismatch (-want +got):\n%s", diff)
			}
		})
	})

	t.Run("Whitespace", func(t *testing.T) {
		t.Run("should remove whitespace-only text by default", func(t *testing.T) {
			expectFromHtml(t, "<div>\n  <span></span>\n</div>", []interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"Element", "span"},
			})
		})

		t.Run("should keep whitespace when asked to", func(t *testing.T) {
			res := view.ParseTemplate("<div> </div>", "", &view.ParseTemplateOptions{PreserveWhitespaces: true})
			if diff := cmp.Diff([]interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"Text", " "},
			}, humanize(res.Nodes)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	})

	t.Run("Errors", func(t *testing.T) {
		t.Run("should convert malformed html by default", func(t *testing.T) {
			res := parse("<div>{{a}}</span>")
			if len(res.Errors) != 1 {
				t.Errorf("Expected the html error to be reported, got %v", humanizeErrors(res.Errors))
			}
			if diff := cmp.Diff([]interface{}{
				[]interface{}{"Element", "div"},
				[]interface{}{"BoundText", "{{ a }}"},
			}, humanize(res.Nodes)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should keep what parsed of an unclosed ICU message", func(t *testing.T) {
			res := parse("<p>x</p>{a, plural, =0 {x}")
			if len(res.Errors) == 0 {
				t.Errorf("Expected the ICU error to be reported")
			}
			if len(res.Nodes) == 0 {
				t.Errorf("Expected the paragraph to be converted")
			}
		})

		t.Run("should report a template binding without a key", func(t *testing.T) {
			res := parse(`<div *="x"></div>`)
			if diff := cmp.Diff([]interface{}{
				`Template binding is missing its key. Use *key="expression"`,
			}, humanizeErrors(res.Errors)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]interface{}{
				[]interface{}{"Element", "div"},
			}, humanize(res.Nodes)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should skip conversion of malformed html when asked to", func(t *testing.T) {
			res := view.ParseTemplate("<div [a]=\"b\"></span>", "", &view.ParseTemplateOptions{
				SkipR3ConversionOnHtmlErrors: true,
			})
			if len(res.Errors) == 0 || len(res.Nodes) != 0 {
				t.Errorf("Expected errors and no nodes, got %v / %v", humanizeErrors(res.Errors), humanize(res.Nodes))
			}
		})
	})
}
