package metadata_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-template/packages/compiler-cli/metadata"
)

func input(classPropertyName, bindingPropertyName string) metadata.InputMapping {
	return metadata.InputMapping{InputOrOutput: metadata.InputOrOutput{
		ClassPropertyName:   classPropertyName,
		BindingPropertyName: bindingPropertyName,
	}}
}

func output(classPropertyName, bindingPropertyName string) metadata.InputOrOutput {
	return metadata.InputOrOutput{ClassPropertyName: classPropertyName, BindingPropertyName: bindingPropertyName}
}

func directive(name string, base metadata.BaseClass, inputs ...metadata.InputMapping) *metadata.DirectiveMeta {
	return &metadata.DirectiveMeta{
		Ref:                      metadata.Reference{Name: name},
		Selector:                 "[" + name + "]",
		Inputs:                   metadata.NewClassPropertyMapping(inputs),
		Outputs:                  metadata.EmptyClassPropertyMapping[metadata.InputOrOutput](),
		CoercedInputFields:       metadata.NewFieldSet(),
		UndeclaredInputFields:    metadata.NewFieldSet(),
		RestrictedInputFields:    metadata.NewFieldSet(),
		StringLiteralInputFields: metadata.NewFieldSet(),
		BaseClass:                base,
	}
}

func ref(name string) metadata.Reference {
	return metadata.Reference{Name: name}
}

func registryOf(metas ...*metadata.DirectiveMeta) *metadata.Registry {
	registry := metadata.NewRegistry()
	for _, meta := range metas {
		registry.Register(meta)
	}
	return registry
}

func TestFlattenInheritedDirectiveMetadata(t *testing.T) {
	t.Run("should return nil for an unknown directive", func(t *testing.T) {
		assert.Nil(t, metadata.FlattenInheritedDirectiveMetadata(registryOf(), ref("Missing")))
	})

	t.Run("should return a directive without base class unchanged", func(t *testing.T) {
		dir := directive("Dir", metadata.NoBaseClass(), input("a", "a"))
		flattened := metadata.FlattenInheritedDirectiveMetadata(registryOf(dir), ref("Dir"))
		assert.Same(t, dir, flattened)
	})

	t.Run("should merge inputs and outputs across the chain with derived classes winning", func(t *testing.T) {
		root := directive("Root", metadata.NoBaseClass(), input("a", "rootA"), input("b", "b"))
		root.Outputs = metadata.NewClassPropertyMapping([]metadata.InputOrOutput{output("changed", "changed")})
		middle := directive("Middle", metadata.BaseClassRef(ref("Root")), input("c", "c"))
		leaf := directive("Leaf", metadata.BaseClassRef(ref("Middle")), input("a", "leafA"))

		flattened := metadata.FlattenInheritedDirectiveMetadata(registryOf(root, middle, leaf), ref("Leaf"))
		require.NotNil(t, flattened)

		if diff := cmp.Diff([]metadata.InputMapping{
			input("a", "leafA"),
			input("b", "b"),
			input("c", "c"),
		}, flattened.Inputs.Entries()); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []string{"changed"}, flattened.Outputs.PropertyNames())
		assert.True(t, flattened.BaseClass.IsNone())
		assert.Equal(t, "[Leaf]", flattened.Selector)
	})

	t.Run("should union the input field sets", func(t *testing.T) {
		root := directive("Root", metadata.NoBaseClass())
		root.CoercedInputFields = metadata.NewFieldSet("x")
		root.RestrictedInputFields = metadata.NewFieldSet("r")
		leaf := directive("Leaf", metadata.BaseClassRef(ref("Root")))
		leaf.CoercedInputFields = metadata.NewFieldSet("y")
		leaf.StringLiteralInputFields = metadata.NewFieldSet("s")
		leaf.UndeclaredInputFields = metadata.NewFieldSet("u")

		flattened := metadata.FlattenInheritedDirectiveMetadata(registryOf(root, leaf), ref("Leaf"))
		assert.Equal(t, metadata.NewFieldSet("x", "y"), flattened.CoercedInputFields)
		assert.Equal(t, metadata.NewFieldSet("r"), flattened.RestrictedInputFields)
		assert.Equal(t, metadata.NewFieldSet("s"), flattened.StringLiteralInputFields)
		assert.Equal(t, metadata.NewFieldSet("u"), flattened.UndeclaredInputFields)
	})

	t.Run("should carry structural flags and host directives from every level", func(t *testing.T) {
		root := directive("Root", metadata.NoBaseClass())
		root.IsStructural = true
		root.HostDirectives = []metadata.HostDirectiveMeta{{Directive: ref("Tooltip")}}
		leaf := directive("Leaf", metadata.BaseClassRef(ref("Root")))

		flattened := metadata.FlattenInheritedDirectiveMetadata(registryOf(root, leaf), ref("Leaf"))
		assert.True(t, flattened.IsStructural)
		require.Len(t, flattened.HostDirectives, 1)
		assert.Equal(t, "Tooltip", flattened.HostDirectives[0].Directive.Name)
	})

	t.Run("should mark the result dynamic when a middle class is unknown", func(t *testing.T) {
		root := directive("Root", metadata.NoBaseClass(), input("a", "a"))
		leaf := directive("Leaf", metadata.BaseClassRef(ref("Middle")), input("b", "b"))

		flattened := metadata.FlattenInheritedDirectiveMetadata(registryOf(root, leaf), ref("Leaf"))
		assert.True(t, flattened.BaseClass.IsDynamic())
		assert.Equal(t, []string{"b"}, flattened.Inputs.ClassPropertyNames())
	})

	t.Run("should mark the result dynamic when a base class is dynamic", func(t *testing.T) {
		root := directive("Root", metadata.DynamicBaseClass())
		leaf := directive("Leaf", metadata.BaseClassRef(ref("Root")))

		flattened := metadata.FlattenInheritedDirectiveMetadata(registryOf(root, leaf), ref("Leaf"))
		assert.Equal(t, "dynamic", flattened.BaseClass.String())
	})

	t.Run("should not modify the records of the reader", func(t *testing.T) {
		root := directive("Root", metadata.NoBaseClass(), input("a", "a"))
		root.CoercedInputFields = metadata.NewFieldSet("a")
		leaf := directive("Leaf", metadata.BaseClassRef(ref("Root")), input("b", "b"))

		metadata.FlattenInheritedDirectiveMetadata(registryOf(root, leaf), ref("Leaf"))

		assert.Equal(t, []string{"a"}, root.Inputs.ClassPropertyNames())
		assert.Equal(t, []string{"b"}, leaf.Inputs.ClassPropertyNames())
		assert.Equal(t, metadata.NewFieldSet("a"), root.CoercedInputFields)
		assert.Equal(t, metadata.NewFieldSet(), leaf.CoercedInputFields)
		ref, ok := leaf.BaseClass.Ref()
		assert.True(t, ok)
		assert.Equal(t, "Root", ref.Name)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		for _, missingMiddle := range []bool{false, true} {
			root := directive("Root", metadata.NoBaseClass(), input("a", "a"))
			middle := directive("Middle", metadata.BaseClassRef(ref("Root")), input("b", "b"))
			leaf := directive("Leaf", metadata.BaseClassRef(ref("Middle")), input("c", "c"))
			registry := registryOf(root, leaf)
			if !missingMiddle {
				registry.Register(middle)
			}

			once := metadata.FlattenInheritedDirectiveMetadata(registry, ref("Leaf"))
			twice := metadata.FlattenInheritedDirectiveMetadata(registryOf(once), ref("Leaf"))

			assert.Equal(t, once.BaseClass, twice.BaseClass)
			assert.Equal(t, once.Inputs.Entries(), twice.Inputs.Entries())
			assert.Equal(t, once.CoercedInputFields, twice.CoercedInputFields)
		}
	})
}

func TestClassPropertyMapping(t *testing.T) {
	t.Run("should look up entries in both directions", func(t *testing.T) {
		mapping := metadata.NewClassPropertyMapping([]metadata.InputMapping{
			input("value", "ngModel"),
			input("other", "ngModel"),
			input("disabled", "disabled"),
		})
		assert.True(t, mapping.HasBindingPropertyName("ngModel"))
		assert.Len(t, mapping.GetByBindingPropertyName("ngModel"), 2)
		entry, ok := mapping.GetByClassPropertyName("disabled")
		assert.True(t, ok)
		assert.Equal(t, "disabled", entry.BindingPropertyName)
		assert.Equal(t, []string{"ngModel", "disabled"}, mapping.PropertyNames())
		assert.Equal(t, map[string]string{"value": "ngModel", "other": "ngModel", "disabled": "disabled"},
			mapping.ToDirectMappedObject())
	})

	t.Run("should merge right-biased keeping the left order", func(t *testing.T) {
		a := metadata.NewClassPropertyMapping([]metadata.InputOrOutput{output("x", "x"), output("y", "y")})
		b := metadata.NewClassPropertyMapping([]metadata.InputOrOutput{output("z", "z"), output("x", "renamed")})
		merged := metadata.MergeClassPropertyMappings(a, b)

		assert.Equal(t, []string{"x", "y", "z"}, merged.ClassPropertyNames())
		assert.False(t, merged.HasBindingPropertyName("x"))
		assert.True(t, merged.HasBindingPropertyName("renamed"))
		assert.Equal(t, []string{"x", "y"}, a.ClassPropertyNames())
	})
}
