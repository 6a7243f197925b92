package metadata

// FlattenInheritedDirectiveMetadata returns the metadata of dir with the
// inputs, outputs and input field sets of its whole base-class chain merged
// in. Declarations closer to dir win. When a base class in the chain cannot
// be resolved by reader, or is dynamic itself, the result's BaseClass is
// dynamic; otherwise it is none.
//
// It returns nil when reader has no metadata for dir. The records returned by
// reader are never modified; a directive without a base class is returned
// as is.
func FlattenInheritedDirectiveMetadata(reader MetadataReader, dir Reference) *DirectiveMeta {
	topMeta := reader.GetDirectiveMetadata(dir)
	if topMeta == nil {
		return nil
	}
	if topMeta.BaseClass.IsNone() {
		return topMeta
	}

	coercedInputFields := FieldSet{}
	undeclaredInputFields := FieldSet{}
	restrictedInputFields := FieldSet{}
	stringLiteralInputFields := FieldSet{}
	var hostDirectives []HostDirectiveMeta
	isDynamic := false
	isStructural := false
	inputs := EmptyClassPropertyMapping[InputMapping]()
	outputs := EmptyClassPropertyMapping[InputOrOutput]()

	var addMetadata func(meta *DirectiveMeta)
	addMetadata = func(meta *DirectiveMeta) {
		if meta.BaseClass.IsDynamic() {
			isDynamic = true
		} else if ref, ok := meta.BaseClass.Ref(); ok {
			if baseMeta := reader.GetDirectiveMetadata(ref); baseMeta != nil {
				addMetadata(baseMeta)
			} else {
				// Missing metadata for the base class means the chain is not fully known.
				isDynamic = true
			}
		}

		isStructural = isStructural || meta.IsStructural
		if meta.Inputs != nil {
			inputs = MergeClassPropertyMappings(inputs, meta.Inputs)
		}
		if meta.Outputs != nil {
			outputs = MergeClassPropertyMappings(outputs, meta.Outputs)
		}
		coercedInputFields = coercedInputFields.Union(meta.CoercedInputFields)
		undeclaredInputFields = undeclaredInputFields.Union(meta.UndeclaredInputFields)
		restrictedInputFields = restrictedInputFields.Union(meta.RestrictedInputFields)
		stringLiteralInputFields = stringLiteralInputFields.Union(meta.StringLiteralInputFields)
		hostDirectives = append(hostDirectives, meta.HostDirectives...)
	}

	addMetadata(topMeta)

	baseClass := NoBaseClass()
	if isDynamic {
		baseClass = DynamicBaseClass()
	}

	flattened := *topMeta
	flattened.Inputs = inputs
	flattened.Outputs = outputs
	flattened.CoercedInputFields = coercedInputFields
	flattened.UndeclaredInputFields = undeclaredInputFields
	flattened.RestrictedInputFields = restrictedInputFields
	flattened.StringLiteralInputFields = stringLiteralInputFields
	flattened.BaseClass = baseClass
	flattened.IsStructural = isStructural
	flattened.HostDirectives = hostDirectives
	return &flattened
}
