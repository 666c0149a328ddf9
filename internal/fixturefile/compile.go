package fixturefile

import (
	"database/sql"
	"fmt"

	"github.com/maxdeviant/thaumaturgy"
	"github.com/maxdeviant/thaumaturgy/sequence"
	"github.com/maxdeviant/thaumaturgy/sqlstore"
	"github.com/maxdeviant/thaumaturgy/value"
)

// builder produces one field value per manifestation.
type builder func(opts thaumaturgy.ManifestOptions) value.Value

// Define registers every entity of doc with realm, in document order.
func Define(realm *thaumaturgy.Realm[*sql.Tx], doc *Document) error {
	return define(realm, doc, nil)
}

// NewRealm returns a realm with doc defined.
func NewRealm(doc *Document, opts ...thaumaturgy.Option) (*thaumaturgy.Realm[*sql.Tx], error) {
	realm := thaumaturgy.New[*sql.Tx](opts...)
	if err := Define(realm, doc); err != nil {
		return nil, err
	}
	return realm, nil
}

// wrapPersister decorates each table persister before registration.
type wrapPersister func(e EntitySpec, p thaumaturgy.Persister[*sql.Tx]) thaumaturgy.Persister[*sql.Tx]

func define(realm *thaumaturgy.Realm[*sql.Tx], doc *Document, wrap wrapPersister) error {
	for _, e := range doc.Entities {
		def, err := compileEntity(e)
		if err != nil {
			return fmt.Errorf("define %s: %w", e.Name, err)
		}
		if def.Persist != nil && wrap != nil {
			def.Persist = wrap(e, def.Persist)
		}
		if err := realm.Define(thaumaturgy.NewEntity(e.Name), def); err != nil {
			return err
		}
	}
	return nil
}

func compileEntity(e EntitySpec) (thaumaturgy.Definition[*sql.Tx], error) {
	var def thaumaturgy.Definition[*sql.Tx]

	if len(e.Sequences) > 0 {
		def.Sequences = make(sequence.Set, len(e.Sequences))
		for _, name := range sortedKeys(e.Sequences) {
			produce, err := compileSequence(e.Sequences[name])
			if err != nil {
				return def, fmt.Errorf("sequence %s: %w", name, err)
			}
			def.Sequences[name] = sequence.New(produce)
		}
	}

	fields, err := compileFields(e.Fields)
	if err != nil {
		return def, err
	}
	def.Manifest = func(opts thaumaturgy.ManifestOptions) value.Object {
		return fields(opts)
	}

	if e.Table != "" {
		def.Persist = sqlstore.TablePersister(e.Table, e.Columns)
	}

	return def, nil
}

// compileFields returns a builder for an object. Fields are built in sorted
// order so unique and sequence values are assigned deterministically.
func compileFields(specs map[string]FieldSpec) (func(thaumaturgy.ManifestOptions) value.Object, error) {
	keys := sortedKeys(specs)
	builders := make([]builder, len(keys))
	for i, key := range keys {
		b, err := compileField(specs[key])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		builders[i] = b
	}

	return func(opts thaumaturgy.ManifestOptions) value.Object {
		obj := make(value.Object, len(keys))
		for i, key := range keys {
			obj[key] = builders[i](opts)
		}
		return obj
	}, nil
}

func compileField(f FieldSpec) (builder, error) {
	switch {
	case f.Value != nil:
		v, err := literal(f.Value)
		if err != nil {
			return nil, err
		}
		// Each manifestation gets its own copy of nested literals
		return func(thaumaturgy.ManifestOptions) value.Value { return value.DeepCopy(v) }, nil

	case f.Null:
		return func(thaumaturgy.ManifestOptions) value.Value { return value.Null{} }, nil

	case f.Unique:
		return func(opts thaumaturgy.ManifestOptions) value.Value {
			return value.String(opts.Unique())
		}, nil

	case f.Sequence != "":
		name := f.Sequence
		return func(opts thaumaturgy.ManifestOptions) value.Value {
			return sequence.Must[value.Value](opts.Sequences, name).Next()
		}, nil

	case f.Ref != "":
		var through func(value.Object) value.Value
		if f.Through != "" {
			fn, err := compileProjection(f.Through)
			if err != nil {
				return nil, fmt.Errorf("through: %w", err)
			}
			through = fn
		}
		ref := thaumaturgy.RefTo(thaumaturgy.NewEntity(f.Ref)).Through(through)
		return func(thaumaturgy.ManifestOptions) value.Value { return ref }, nil

	case f.Object != nil:
		fields, err := compileFields(f.Object)
		if err != nil {
			return nil, err
		}
		return func(opts thaumaturgy.ManifestOptions) value.Value { return fields(opts) }, nil

	case f.Array != nil:
		elems := make([]builder, len(f.Array))
		for i, spec := range f.Array {
			b, err := compileField(spec)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			elems[i] = b
		}
		return func(opts thaumaturgy.ManifestOptions) value.Value {
			arr := make(value.Array, len(elems))
			for i, b := range elems {
				arr[i] = b(opts)
			}
			return arr
		}, nil

	case f.Some != nil:
		inner, err := compileField(*f.Some)
		if err != nil {
			return nil, fmt.Errorf("some: %w", err)
		}
		return func(opts thaumaturgy.ManifestOptions) value.Value { return value.Some(inner(opts)) }, nil

	case f.None:
		return func(thaumaturgy.ManifestOptions) value.Value { return value.None() }, nil

	case f.Left != nil:
		inner, err := compileField(*f.Left)
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		return func(opts thaumaturgy.ManifestOptions) value.Value { return value.Left(inner(opts)) }, nil

	case f.Right != nil:
		inner, err := compileField(*f.Right)
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		return func(opts thaumaturgy.ManifestOptions) value.Value { return value.Right(inner(opts)) }, nil
	}

	return nil, fmt.Errorf("field has no kind")
}

// literal converts a decoded literal. YAML maps with non-string keys are
// rejected.
func literal(v any) (value.Value, error) {
	switch val := v.(type) {
	case map[any]any:
		obj := make(map[string]any, len(val))
		for k, elem := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("literal map key %v is not a string", k)
			}
			obj[key] = elem
		}
		return literal(obj)
	case map[string]any:
		obj := make(value.Object, len(val))
		for k, elem := range val {
			converted, err := literal(elem)
			if err != nil {
				return nil, err
			}
			obj[k] = converted
		}
		return obj, nil
	case []any:
		arr := make(value.Array, len(val))
		for i, elem := range val {
			converted, err := literal(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = converted
		}
		return arr, nil
	default:
		return value.FromGo(v)
	}
}
