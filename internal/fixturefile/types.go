package fixturefile

// Document is a parsed fixture document.
type Document struct {
	// Schema is DDL applied before seeding. Optional.
	Schema string `yaml:"schema,omitempty" json:"schema,omitempty"`

	// Entities are defined in document order.
	Entities []EntitySpec `yaml:"entities" json:"entities"`
}

// EntitySpec describes one entity.
type EntitySpec struct {
	// Name uniquely identifies the entity within the document.
	Name string `yaml:"name" json:"name"`

	// Table enables persisting into this table. Entities without a table can
	// be manifested and referenced but not persisted.
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Columns renames fields to columns. Unlisted fields keep their name.
	Columns map[string]string `yaml:"columns,omitempty" json:"columns,omitempty"`

	// Sequences maps sequence names to producer expressions over n.
	Sequences map[string]string `yaml:"sequences,omitempty" json:"sequences,omitempty"`

	// Fields describes how each field is manifested.
	Fields map[string]FieldSpec `yaml:"fields" json:"fields"`
}

// FieldSpec describes one field value. Exactly one kind must be set;
// Through is only valid alongside Ref.
type FieldSpec struct {
	// Value is a literal: string, number, bool, list or map.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Null yields a null value.
	Null bool `yaml:"null,omitempty" json:"null,omitempty"`

	// Unique yields a fresh unique string on each manifestation.
	Unique bool `yaml:"unique,omitempty" json:"unique,omitempty"`

	// Sequence names a sequence of the same entity.
	Sequence string `yaml:"sequence,omitempty" json:"sequence,omitempty"`

	// Ref names the referenced entity.
	Ref string `yaml:"ref,omitempty" json:"ref,omitempty"`

	// Through is an expression projecting the referenced object. Empty keeps
	// the whole object.
	Through string `yaml:"through,omitempty" json:"through,omitempty"`

	// Object nests fields.
	Object map[string]FieldSpec `yaml:"object,omitempty" json:"object,omitempty"`

	// Array lists element specs.
	Array []FieldSpec `yaml:"array,omitempty" json:"array,omitempty"`

	Some  *FieldSpec `yaml:"some,omitempty" json:"some,omitempty"`
	None  bool       `yaml:"none,omitempty" json:"none,omitempty"`
	Left  *FieldSpec `yaml:"left,omitempty" json:"left,omitempty"`
	Right *FieldSpec `yaml:"right,omitempty" json:"right,omitempty"`
}

// kinds returns the names of the kinds set on f.
func (f *FieldSpec) kinds() []string {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(f.Value != nil, "value")
	add(f.Null, "null")
	add(f.Unique, "unique")
	add(f.Sequence != "", "sequence")
	add(f.Ref != "", "ref")
	add(f.Object != nil, "object")
	add(f.Array != nil, "array")
	add(f.Some != nil, "some")
	add(f.None, "none")
	add(f.Left != nil, "left")
	add(f.Right != nil, "right")
	return kinds
}

// refs returns the entities referenced by f and everything nested in it.
func (f *FieldSpec) refs() []string {
	var refs []string
	if f.Ref != "" {
		refs = append(refs, f.Ref)
	}
	for _, key := range sortedKeys(f.Object) {
		child := f.Object[key]
		refs = append(refs, child.refs()...)
	}
	for i := range f.Array {
		refs = append(refs, f.Array[i].refs()...)
	}
	for _, child := range []*FieldSpec{f.Some, f.Left, f.Right} {
		if child != nil {
			refs = append(refs, child.refs()...)
		}
	}
	return refs
}

// Entity returns the entity declared as name.
func (d *Document) Entity(name string) (*EntitySpec, bool) {
	for i := range d.Entities {
		if d.Entities[i].Name == name {
			return &d.Entities[i], true
		}
	}
	return nil, false
}
