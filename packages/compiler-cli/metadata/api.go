package metadata

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reference identifies a directive class: its name and, when known, the
// file that declares it.
type Reference struct {
	Name string
	File string
}

// ParseReference parses `Name` or `file#Name`.
func ParseReference(s string) Reference {
	if file, name, found := strings.Cut(s, "#"); found {
		return Reference{Name: name, File: file}
	}
	return Reference{Name: s}
}

func (r Reference) String() string {
	if r.File == "" {
		return r.Name
	}
	return r.File + "#" + r.Name
}

type baseClassKind int

const (
	baseClassNone baseClassKind = iota
	baseClassRef
	baseClassDynamic
)

// BaseClass is the base class of a directive: none, a reference to another
// directive class, or dynamic when the base is an expression that cannot be
// resolved statically.
type BaseClass struct {
	kind baseClassKind
	ref  Reference
}

// NoBaseClass is the base class of a directive that extends nothing.
func NoBaseClass() BaseClass {
	return BaseClass{kind: baseClassNone}
}

// BaseClassRef is a statically known base class.
func BaseClassRef(ref Reference) BaseClass {
	return BaseClass{kind: baseClassRef, ref: ref}
}

// DynamicBaseClass marks an inheritance chain that is not fully known.
func DynamicBaseClass() BaseClass {
	return BaseClass{kind: baseClassDynamic}
}

func (b BaseClass) IsNone() bool    { return b.kind == baseClassNone }
func (b BaseClass) IsDynamic() bool { return b.kind == baseClassDynamic }

// Ref returns the referenced base class, if any.
func (b BaseClass) Ref() (Reference, bool) {
	return b.ref, b.kind == baseClassRef
}

func (b BaseClass) String() string {
	switch b.kind {
	case baseClassRef:
		return b.ref.String()
	case baseClassDynamic:
		return "dynamic"
	}
	return "null"
}

// UnmarshalYAML reads `null` (or an absent key), `dynamic`, or a reference.
func (b *BaseClass) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*b = NoBaseClass()
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid value for baseClass: %w", err)
	}
	switch s {
	case "", "null":
		*b = NoBaseClass()
	case "dynamic":
		*b = DynamicBaseClass()
	default:
		*b = BaseClassRef(ParseReference(s))
	}
	return nil
}

func (b BaseClass) MarshalYAML() (interface{}, error) {
	switch b.kind {
	case baseClassRef:
		return b.ref.String(), nil
	case baseClassDynamic:
		return "dynamic", nil
	}
	return nil, nil
}

// InputOrOutput names one side of a binding: the class property and the
// public name it is bound under in templates.
type InputOrOutput struct {
	ClassPropertyName   string `yaml:"classPropertyName"`
	BindingPropertyName string `yaml:"bindingPropertyName"`
	IsSignal            bool   `yaml:"isSignal,omitempty"`
}

func (io InputOrOutput) property() InputOrOutput { return io }

// InputMapping is an input with its declaration flags.
type InputMapping struct {
	InputOrOutput `yaml:",inline"`
	Required      bool   `yaml:"required,omitempty"`
	Transform     string `yaml:"transform,omitempty"`
}

// HostDirectiveMeta is a directive applied through `hostDirectives`.
type HostDirectiveMeta struct {
	Directive Reference
	Inputs    map[string]string
	Outputs   map[string]string
}

// DirectiveMeta is the metadata of one directive or component class.
// Records are never mutated once built; flattening produces new ones.
type DirectiveMeta struct {
	Ref          Reference
	Selector     string
	ExportAs     []string
	IsComponent  bool
	IsStructural bool

	Inputs  *ClassPropertyMapping[InputMapping]
	Outputs *ClassPropertyMapping[InputOrOutput]

	CoercedInputFields       FieldSet
	UndeclaredInputFields    FieldSet
	RestrictedInputFields    FieldSet
	StringLiteralInputFields FieldSet

	BaseClass      BaseClass
	HostDirectives []HostDirectiveMeta
}

// MetadataReader resolves class references to directive metadata.
// GetDirectiveMetadata returns nil for classes it knows nothing about.
type MetadataReader interface {
	GetDirectiveMetadata(ref Reference) *DirectiveMeta
}

// FieldSet is a set of class property names.
type FieldSet map[string]struct{}

// NewFieldSet creates a set holding names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set with the names of s and other.
func (s FieldSet) Union(other FieldSet) FieldSet {
	result := make(FieldSet, len(s)+len(other))
	for name := range s {
		result[name] = struct{}{}
	}
	for name := range other {
		result[name] = struct{}{}
	}
	return result
}
