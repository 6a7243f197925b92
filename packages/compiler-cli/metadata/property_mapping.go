package metadata

// bindingProperty is implemented by InputOrOutput and InputMapping.
type bindingProperty interface {
	property() InputOrOutput
}

// ClassPropertyMapping is an ordered mapping between class property names
// and the binding property names they are exposed under. Several class
// properties may share one binding name; a mapping is never modified after
// construction.
type ClassPropertyMapping[T bindingProperty] struct {
	order      []string
	forwardMap map[string]T
	reverseMap map[string][]string
}

// EmptyClassPropertyMapping returns a mapping with no entries.
func EmptyClassPropertyMapping[T bindingProperty]() *ClassPropertyMapping[T] {
	return NewClassPropertyMapping[T](nil)
}

// NewClassPropertyMapping builds a mapping from entries in declaration order.
// A later entry for the same class property replaces an earlier one in place.
func NewClassPropertyMapping[T bindingProperty](entries []T) *ClassPropertyMapping[T] {
	m := &ClassPropertyMapping[T]{
		forwardMap: map[string]T{},
		reverseMap: map[string][]string{},
	}
	for _, entry := range entries {
		name := entry.property().ClassPropertyName
		if _, exists := m.forwardMap[name]; !exists {
			m.order = append(m.order, name)
		}
		m.forwardMap[name] = entry
	}
	for _, name := range m.order {
		binding := m.forwardMap[name].property().BindingPropertyName
		m.reverseMap[binding] = append(m.reverseMap[binding], name)
	}
	return m
}

// MergeClassPropertyMappings merges two mappings. Entries of b win over
// entries of a for the same class property; a's order is kept for them.
func MergeClassPropertyMappings[T bindingProperty](a, b *ClassPropertyMapping[T]) *ClassPropertyMapping[T] {
	entries := make([]T, 0, a.Len()+b.Len())
	entries = append(entries, a.Entries()...)
	entries = append(entries, b.Entries()...)
	return NewClassPropertyMapping(entries)
}

// Len returns the number of class properties in the mapping.
func (m *ClassPropertyMapping[T]) Len() int {
	return len(m.order)
}

// HasBindingPropertyName reports whether any class property is bound under name.
func (m *ClassPropertyMapping[T]) HasBindingPropertyName(name string) bool {
	_, ok := m.reverseMap[name]
	return ok
}

// GetByBindingPropertyName returns the entries bound under name.
func (m *ClassPropertyMapping[T]) GetByBindingPropertyName(name string) []T {
	names, ok := m.reverseMap[name]
	if !ok {
		return nil
	}
	result := make([]T, 0, len(names))
	for _, classPropertyName := range names {
		result = append(result, m.forwardMap[classPropertyName])
	}
	return result
}

// GetByClassPropertyName returns the entry for a class property.
func (m *ClassPropertyMapping[T]) GetByClassPropertyName(name string) (T, bool) {
	entry, ok := m.forwardMap[name]
	return entry, ok
}

// ClassPropertyNames returns the class property names in order.
func (m *ClassPropertyMapping[T]) ClassPropertyNames() []string {
	return append([]string(nil), m.order...)
}

// PropertyNames returns the binding property names in order, without duplicates.
func (m *ClassPropertyMapping[T]) PropertyNames() []string {
	var result []string
	seen := map[string]bool{}
	for _, name := range m.order {
		binding := m.forwardMap[name].property().BindingPropertyName
		if !seen[binding] {
			seen[binding] = true
			result = append(result, binding)
		}
	}
	return result
}

// Entries returns the entries in order.
func (m *ClassPropertyMapping[T]) Entries() []T {
	result := make([]T, 0, len(m.order))
	for _, name := range m.order {
		result = append(result, m.forwardMap[name])
	}
	return result
}

// ToDirectMappedObject maps each class property to its binding name.
func (m *ClassPropertyMapping[T]) ToDirectMappedObject() map[string]string {
	result := make(map[string]string, len(m.order))
	for _, name := range m.order {
		result[name] = m.forwardMap[name].property().BindingPropertyName
	}
	return result
}
