package i18n_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-template/packages/compiler/src/i18n"
	"ngc-template/packages/compiler/src/util"
)

func firstMessage(t *testing.T, html string) *i18n.Message {
	t.Helper()
	result := extract(t, html, nil, nil)
	require.Empty(t, result.Errors)
	require.NotEmpty(t, result.Messages)
	return result.Messages[0]
}

func testSpan(content string) *util.ParseSourceSpan {
	file := util.NewParseSourceFile(content, "unit_spec.html")
	start := util.NewParseLocation(file, 0, 0, 0)
	end := util.NewParseLocation(file, len(content), 0, len(content))
	return util.NewParseSourceSpan(start, end, nil, "")
}

func TestToTranslationUnit(t *testing.T) {
	t.Run("should render text and tag placeholders in order", func(t *testing.T) {
		msg := firstMessage(t, `<div i18n="m|d">Click <b>here</b> now</div>`)
		unit, errs := i18n.ToTranslationUnit(msg, i18n.ComputeDecimalDigest)
		assert.Empty(t, errs)

		if diff := cmp.Diff([]i18n.Segment{
			{Kind: i18n.SegmentText, Text: "Click "},
			{Kind: i18n.SegmentPlaceholder, Placeholder: "START_BOLD_TEXT", Type: i18n.PlaceholderTagStart, Example: "<b>"},
			{Kind: i18n.SegmentText, Text: "here"},
			{Kind: i18n.SegmentPlaceholder, Placeholder: "CLOSE_BOLD_TEXT", Type: i18n.PlaceholderTagClose, Example: "</b>"},
			{Kind: i18n.SegmentText, Text: " now"},
		}, unit.Segments); diff != "" {
			t.Errorf("segments mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, i18n.ComputeDecimalDigest(msg), unit.ID)
		assert.Equal(t, "m", unit.Meaning)
		assert.Equal(t, "d", unit.Description)
		assert.Equal(t, msg.MessageString, unit.Text())
	})

	t.Run("should render interpolations with their normalized expression", func(t *testing.T) {
		msg := firstMessage(t, `<p i18n>Hi {{ user.name }}</p>`)
		unit, errs := i18n.ToTranslationUnit(msg, nil)
		assert.Empty(t, errs)
		require.Len(t, unit.Segments, 2)
		assert.Equal(t, i18n.Segment{
			Kind:        i18n.SegmentPlaceholder,
			Placeholder: "INTERPOLATION",
			Type:        i18n.PlaceholderInterpolation,
			Example:     "{{user.name}}",
		}, unit.Segments[1])
	})

	t.Run("should attach the unit of nested ICU messages to their placeholder", func(t *testing.T) {
		msg := firstMessage(t, `<div i18n>You have {count, plural, =1 {one} other {many}}</div>`)
		unit, errs := i18n.ToTranslationUnit(msg, i18n.ComputeDecimalDigest)
		assert.Empty(t, errs)
		require.Len(t, unit.Segments, 2)

		icuPh := unit.Segments[1]
		assert.Equal(t, i18n.PlaceholderIcu, icuPh.Type)
		assert.Equal(t, "ICU", icuPh.Placeholder)
		require.NotNil(t, icuPh.Unit)
		assert.Equal(t, i18n.ComputeDecimalDigest(msg.PlaceholderToMessage["ICU"]), icuPh.Unit.ID)

		require.Len(t, icuPh.Unit.Segments, 1)
		icu := icuPh.Unit.Segments[0]
		assert.Equal(t, i18n.SegmentIcu, icu.Kind)
		if diff := cmp.Diff(&i18n.IcuSegment{
			Expression: "VAR_PLURAL",
			Type:       "plural",
			Cases: []i18n.IcuCaseSegment{
				{Value: "=1", Segments: []i18n.Segment{{Kind: i18n.SegmentText, Text: "one"}}},
				{Value: "other", Segments: []i18n.Segment{{Kind: i18n.SegmentText, Text: "many"}}},
			},
		}, icu.Icu); diff != "" {
			t.Errorf("icu mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "{VAR_PLURAL, plural, =1 {one} other {many}}", icuPh.Unit.Text())
	})

	t.Run("should report unknown placeholders as serialize errors", func(t *testing.T) {
		span := testSpan("{{ a }}")
		msg := i18n.NewMessage(
			[]i18n.Node{i18n.NewText("a ", span), i18n.NewPlaceholder("a", "INTERPOLATION", span)},
			map[string]i18n.MessagePlaceholder{}, map[string]*i18n.Message{}, "", "", "")

		unit, errs := i18n.ToTranslationUnit(msg, nil)
		require.Len(t, errs, 1)
		assert.Equal(t, `Unknown placeholder "INTERPOLATION"`, errs[0].Msg)
		assert.Same(t, span, errs[0].Span)
		assert.Equal(t, []i18n.Segment{{Kind: i18n.SegmentText, Text: "a "}}, unit.Segments)
	})

	t.Run("should report ICU messages nested too deeply", func(t *testing.T) {
		span := testSpan("{x, select, other {...}}")
		var node i18n.Node = i18n.NewText("leaf", span)
		for i := 0; i <= i18n.MaxIcuDepth; i++ {
			node = i18n.NewIcu("x", "select", []i18n.IcuCase{{Value: "other", Node: node}}, span, "VAR_SELECT")
		}
		msg := i18n.NewMessage([]i18n.Node{node}, map[string]i18n.MessagePlaceholder{}, nil, "", "", "")

		_, errs := i18n.ToTranslationUnit(msg, nil)
		require.Len(t, errs, 1)
		var err error = errs[0]
		assert.Contains(t, err.Error(), "nested deeper than 4 levels")
	})
}
