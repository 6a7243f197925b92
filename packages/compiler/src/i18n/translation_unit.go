package i18n

import (
	"fmt"
)

// MaxIcuDepth is the deepest ICU nesting a translation unit can represent.
const MaxIcuDepth = 4

// SegmentKind tells which part of a message a Segment holds
type SegmentKind string

const (
	SegmentText        SegmentKind = "text"
	SegmentPlaceholder SegmentKind = "placeholder"
	SegmentIcu         SegmentKind = "icu"
)

// PlaceholderKind tells what a placeholder segment stands for
type PlaceholderKind string

const (
	PlaceholderInterpolation PlaceholderKind = "interpolation"
	PlaceholderTagStart      PlaceholderKind = "tag-start"
	PlaceholderTagClose      PlaceholderKind = "tag-close"
	PlaceholderIcu           PlaceholderKind = "icu"
)

// TranslationUnit is the language-neutral form of one message
type TranslationUnit struct {
	ID          string        `yaml:"id"`
	LegacyIDs   []string      `yaml:"legacyIds,omitempty"`
	Meaning     string        `yaml:"meaning,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Sources     []MessageSpan `yaml:"sources,omitempty"`
	Segments    []Segment     `yaml:"segments"`
}

// Segment is literal text, a placeholder or an ICU expression.
//
// Placeholder segments carry the template text they stand for in Example;
// an ICU placeholder also carries the unit of the ICU message it replaces.
type Segment struct {
	Kind        SegmentKind      `yaml:"kind"`
	Text        string           `yaml:"text,omitempty"`
	Placeholder string           `yaml:"name,omitempty"`
	Type        PlaceholderKind  `yaml:"type,omitempty"`
	Example     string           `yaml:"example,omitempty"`
	Icu         *IcuSegment      `yaml:"icu,omitempty"`
	Unit        *TranslationUnit `yaml:"unit,omitempty"`
}

// IcuSegment is an ICU expression. Expression names the placeholder for the switch value.
type IcuSegment struct {
	Expression string           `yaml:"expression"`
	Type       string           `yaml:"type"`
	Cases      []IcuCaseSegment `yaml:"cases"`
}

// IcuCaseSegment is one case of an ICU expression
type IcuCaseSegment struct {
	Value    string    `yaml:"value"`
	Segments []Segment `yaml:"segments"`
}

// Text returns the message text with placeholders written as `{$NAME}`.
func (u *TranslationUnit) Text() string {
	return segmentsText(u.Segments)
}

func segmentsText(segments []Segment) string {
	result := ""
	for _, s := range segments {
		switch s.Kind {
		case SegmentText:
			result += s.Text
		case SegmentPlaceholder:
			result += "{$" + s.Placeholder + "}"
		case SegmentIcu:
			result += "{" + s.Icu.Expression + ", " + s.Icu.Type + ","
			for _, c := range s.Icu.Cases {
				result += " " + c.Value + " {" + segmentsText(c.Segments) + "}"
			}
			result += "}"
		}
	}
	return result
}

// ToTranslationUnit renders msg as a TranslationUnit. digest computes the ID
// of msg and of the messages nested behind its ICU placeholders; when nil
// the message ID is used.
//
// Rendering does not stop at the first problem: the unit is complete except
// for the segments reported in the returned errors.
func ToTranslationUnit(msg *Message, digest func(*Message) string) (*TranslationUnit, []*SerializeError) {
	if digest == nil {
		digest = func(m *Message) string { return m.ID }
	}
	s := &unitSerializer{msg: msg, digest: digest}
	unit := &TranslationUnit{
		ID:          digest(msg),
		LegacyIDs:   msg.LegacyIDs,
		Meaning:     msg.Meaning,
		Description: msg.Description,
		Sources:     msg.Sources,
		Segments:    s.visitAll(msg.Nodes),
	}
	return unit, s.errors
}

// unitSerializer implements Visitor; each visit returns []Segment
type unitSerializer struct {
	msg      *Message
	digest   func(*Message) string
	icuDepth int
	errors   []*SerializeError
}

func (s *unitSerializer) visitAll(nodes []Node) []Segment {
	segments := []Segment{}
	for _, node := range nodes {
		for _, segment := range node.Visit(s, nil).([]Segment) {
			// Adjacent texts come from the same run of template text.
			if n := len(segments); n > 0 && segment.Kind == SegmentText && segments[n-1].Kind == SegmentText {
				segments[n-1].Text += segment.Text
				continue
			}
			segments = append(segments, segment)
		}
	}
	return segments
}

func (s *unitSerializer) placeholder(name string, kind PlaceholderKind, node Node) []Segment {
	content, ok := s.msg.Placeholders[name]
	if !ok {
		s.errors = append(s.errors, NewSerializeError(node.SourceSpan(), fmt.Sprintf("Unknown placeholder %q", name)))
		return nil
	}
	return []Segment{{Kind: SegmentPlaceholder, Placeholder: name, Type: kind, Example: content.Text}}
}

func (s *unitSerializer) VisitText(text *Text, context interface{}) interface{} {
	if text.Value == "" {
		return []Segment(nil)
	}
	return []Segment{{Kind: SegmentText, Text: text.Value}}
}

func (s *unitSerializer) VisitContainer(container *Container, context interface{}) interface{} {
	return s.visitAll(container.Children)
}

func (s *unitSerializer) VisitIcu(icu *Icu, context interface{}) interface{} {
	if s.icuDepth >= MaxIcuDepth {
		s.errors = append(s.errors, NewSerializeError(icu.SourceSpan(),
			fmt.Sprintf("ICU expressions nested deeper than %d levels are not supported", MaxIcuDepth)))
		return []Segment(nil)
	}
	s.icuDepth++
	defer func() { s.icuDepth-- }()

	segment := &IcuSegment{Expression: icu.ExpressionPlaceholder, Type: icu.Type}
	for _, c := range icu.Cases {
		segment.Cases = append(segment.Cases, IcuCaseSegment{
			Value:    c.Value,
			Segments: s.visitAll([]Node{c.Node}),
		})
	}
	return []Segment{{Kind: SegmentIcu, Icu: segment}}
}

func (s *unitSerializer) VisitTagPlaceholder(ph *TagPlaceholder, context interface{}) interface{} {
	segments := s.placeholder(ph.StartName, PlaceholderTagStart, ph)
	if ph.IsVoid {
		return segments
	}
	segments = append(segments, s.visitAll(ph.Children)...)
	return append(segments, s.placeholder(ph.CloseName, PlaceholderTagClose, ph)...)
}

func (s *unitSerializer) VisitPlaceholder(ph *Placeholder, context interface{}) interface{} {
	return s.placeholder(ph.Name, PlaceholderInterpolation, ph)
}

func (s *unitSerializer) VisitIcuPlaceholder(ph *IcuPlaceholder, context interface{}) interface{} {
	nested, ok := s.msg.PlaceholderToMessage[ph.Name]
	if !ok {
		s.errors = append(s.errors, NewSerializeError(ph.SourceSpan(), fmt.Sprintf("Unknown placeholder %q", ph.Name)))
		return []Segment(nil)
	}
	unit, errs := ToTranslationUnit(nested, s.digest)
	s.errors = append(s.errors, errs...)
	return []Segment{{
		Kind:        SegmentPlaceholder,
		Placeholder: ph.Name,
		Type:        PlaceholderIcu,
		Example:     ph.SourceSpan().String(),
		Unit:        unit,
	}}
}
