package metadata

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry is a MetadataReader over directive records declared in YAML
// files. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	directives map[Reference]*DirectiveMeta
	byName     map[string][]Reference
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		directives: map[Reference]*DirectiveMeta{},
		byName:     map[string][]Reference{},
	}
}

// Register adds meta, replacing any record with the same reference.
func (r *Registry) Register(meta *DirectiveMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.directives[meta.Ref]; !exists {
		r.byName[meta.Ref.Name] = append(r.byName[meta.Ref.Name], meta.Ref)
	}
	r.directives[meta.Ref] = meta
}

// GetDirectiveMetadata looks ref up. A reference without a file matches a
// record by name alone when exactly one record has that name.
func (r *Registry) GetDirectiveMetadata(ref Reference) *DirectiveMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if meta, ok := r.directives[ref]; ok {
		return meta
	}
	if ref.File == "" {
		if refs := r.byName[ref.Name]; len(refs) == 1 {
			return r.directives[refs[0]]
		}
	}
	return nil
}

// Directives returns every record, sorted by reference.
func (r *Registry) Directives() []*DirectiveMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*DirectiveMeta, 0, len(r.directives))
	for _, meta := range r.directives {
		result = append(result, meta)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Ref.String() < result[j].Ref.String()
	})
	return result
}

// LoadRegistry reads the directive files at paths into a new Registry.
func LoadRegistry(paths ...string) (*Registry, error) {
	registry := NewRegistry()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening metadata file: %w", err)
		}
		count, err := registry.Load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		slog.Debug("loaded directive metadata", "path", path, "directives", count)
	}
	return registry, nil
}

// Load decodes a directive file and registers its records. It returns the
// number of records read.
func (r *Registry) Load(reader io.Reader) (int, error) {
	var file metadataFile
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("decoding directive metadata: %w", err)
	}
	for i, d := range file.Directives {
		if d.Name == "" {
			return 0, fmt.Errorf("directive %d has no name", i)
		}
		r.Register(d.toMeta())
	}
	return len(file.Directives), nil
}

// MarshalDirectiveMeta renders meta in the directive file format.
func MarshalDirectiveMeta(meta *DirectiveMeta) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fromMeta(meta)); err != nil {
		return nil, fmt.Errorf("encoding directive metadata: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type metadataFile struct {
	Directives []directiveYAML `yaml:"directives"`
}

type directiveYAML struct {
	Name                     string              `yaml:"name"`
	File                     string              `yaml:"file,omitempty"`
	Selector                 string              `yaml:"selector,omitempty"`
	ExportAs                 []string            `yaml:"exportAs,omitempty"`
	IsComponent              bool                `yaml:"isComponent,omitempty"`
	IsStructural             bool                `yaml:"isStructural,omitempty"`
	BaseClass                BaseClass           `yaml:"baseClass"`
	Inputs                   []InputMapping      `yaml:"inputs,omitempty"`
	Outputs                  []InputOrOutput     `yaml:"outputs,omitempty"`
	CoercedInputFields       []string            `yaml:"coercedInputFields,omitempty"`
	UndeclaredInputFields    []string            `yaml:"undeclaredInputFields,omitempty"`
	RestrictedInputFields    []string            `yaml:"restrictedInputFields,omitempty"`
	StringLiteralInputFields []string            `yaml:"stringLiteralInputFields,omitempty"`
	HostDirectives           []hostDirectiveYAML `yaml:"hostDirectives,omitempty"`
}

type hostDirectiveYAML struct {
	Directive string            `yaml:"directive"`
	Inputs    map[string]string `yaml:"inputs,omitempty"`
	Outputs   map[string]string `yaml:"outputs,omitempty"`
}

func (d directiveYAML) toMeta() *DirectiveMeta {
	inputs := make([]InputMapping, 0, len(d.Inputs))
	for _, input := range d.Inputs {
		if input.BindingPropertyName == "" {
			input.BindingPropertyName = input.ClassPropertyName
		}
		inputs = append(inputs, input)
	}
	outputs := make([]InputOrOutput, 0, len(d.Outputs))
	for _, output := range d.Outputs {
		if output.BindingPropertyName == "" {
			output.BindingPropertyName = output.ClassPropertyName
		}
		outputs = append(outputs, output)
	}
	var hostDirectives []HostDirectiveMeta
	for _, hd := range d.HostDirectives {
		hostDirectives = append(hostDirectives, HostDirectiveMeta{
			Directive: ParseReference(hd.Directive),
			Inputs:    hd.Inputs,
			Outputs:   hd.Outputs,
		})
	}
	return &DirectiveMeta{
		Ref:                      Reference{Name: d.Name, File: d.File},
		Selector:                 d.Selector,
		ExportAs:                 d.ExportAs,
		IsComponent:              d.IsComponent,
		IsStructural:             d.IsStructural,
		Inputs:                   NewClassPropertyMapping(inputs),
		Outputs:                  NewClassPropertyMapping(outputs),
		CoercedInputFields:       NewFieldSet(d.CoercedInputFields...),
		UndeclaredInputFields:    NewFieldSet(d.UndeclaredInputFields...),
		RestrictedInputFields:    NewFieldSet(d.RestrictedInputFields...),
		StringLiteralInputFields: NewFieldSet(d.StringLiteralInputFields...),
		BaseClass:                d.BaseClass,
		HostDirectives:           hostDirectives,
	}
}

func fromMeta(meta *DirectiveMeta) directiveYAML {
	d := directiveYAML{
		Name:                     meta.Ref.Name,
		File:                     meta.Ref.File,
		Selector:                 meta.Selector,
		ExportAs:                 meta.ExportAs,
		IsComponent:              meta.IsComponent,
		IsStructural:             meta.IsStructural,
		BaseClass:                meta.BaseClass,
		CoercedInputFields:       sortedFields(meta.CoercedInputFields),
		UndeclaredInputFields:    sortedFields(meta.UndeclaredInputFields),
		RestrictedInputFields:    sortedFields(meta.RestrictedInputFields),
		StringLiteralInputFields: sortedFields(meta.StringLiteralInputFields),
	}
	if meta.Inputs != nil {
		d.Inputs = meta.Inputs.Entries()
	}
	if meta.Outputs != nil {
		d.Outputs = meta.Outputs.Entries()
	}
	for _, hd := range meta.HostDirectives {
		d.HostDirectives = append(d.HostDirectives, hostDirectiveYAML{
			Directive: hd.Directive.String(),
			Inputs:    hd.Inputs,
			Outputs:   hd.Outputs,
		})
	}
	return d
}

func sortedFields(s FieldSet) []string {
	if len(s) == 0 {
		return nil
	}
	result := make([]string, 0, len(s))
	for name := range s {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
