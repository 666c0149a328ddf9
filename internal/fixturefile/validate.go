package fixturefile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/maxdeviant/thaumaturgy/internal/graph"
)

// Validate checks that a document is well formed: entity names present and
// unique, every field of exactly one kind, references naming declared
// entities, sequences naming declared sequences, and no reference cycles.
// Expressions are compiled as part of validation.
//
// All problems are reported together.
func Validate(doc *Document) error {
	if len(doc.Entities) == 0 {
		return errors.Join(errors.New("entities list is required and must be non-empty"))
	}

	var errs []error

	declared := make(map[string]bool, len(doc.Entities))
	for i, e := range doc.Entities {
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("entities[%d]: name is required", i))
			continue
		}
		if declared[e.Name] {
			errs = append(errs, fmt.Errorf("entities[%d]: duplicate entity %q", i, e.Name))
			continue
		}
		declared[e.Name] = true
	}

	for _, e := range doc.Entities {
		if e.Name == "" {
			continue
		}

		for _, name := range sortedKeys(e.Sequences) {
			if _, err := compileSequence(e.Sequences[name]); err != nil {
				errs = append(errs, fmt.Errorf("%s.sequences.%s: %w", e.Name, name, err))
			}
		}

		for col, renamed := range e.Columns {
			if renamed == "" {
				errs = append(errs, fmt.Errorf("%s.columns.%s: column name is required", e.Name, col))
			}
		}

		for _, name := range sortedKeys(e.Fields) {
			f := e.Fields[name]
			errs = append(errs, validateField(&f, e, declared, e.Name+".fields."+name)...)
		}
	}

	errs = append(errs, referenceCycles(doc, declared)...)

	return errors.Join(errs...)
}

// referenceCycles reports entities that reference themselves, directly or
// through other entities. Document references can never be overridden, so
// any cycle would recurse without end.
func referenceCycles(doc *Document, declared map[string]bool) []error {
	names := make([]string, 0, len(declared))
	refs := make(map[string][]string, len(declared))
	for _, e := range doc.Entities {
		if e.Name == "" || refs[e.Name] != nil {
			continue
		}
		names = append(names, e.Name)
		refs[e.Name] = []string{}
		for _, key := range sortedKeys(e.Fields) {
			f := e.Fields[key]
			refs[e.Name] = append(refs[e.Name], f.refs()...)
		}
	}

	g, err := graph.Build(names, func(name string) ([]string, error) {
		return refs[name], nil
	})
	if err != nil {
		return []error{err}
	}

	var errs []error
	for _, cycle := range g.Cycles() {
		errs = append(errs, fmt.Errorf("%s: reference cycle %s", cycle[0], strings.Join(cycle, " -> ")))
	}
	return errs
}

func validateField(f *FieldSpec, e EntitySpec, declared map[string]bool, path string) []error {
	kinds := f.kinds()
	switch len(kinds) {
	case 0:
		return []error{fmt.Errorf("%s: one of value, null, unique, sequence, ref, object, array, some, none, left or right is required", path)}
	case 1:
	default:
		return []error{fmt.Errorf("%s: conflicting kinds %s", path, strings.Join(kinds, ", "))}
	}

	if f.Through != "" && f.Ref == "" {
		return []error{fmt.Errorf("%s: through requires ref", path)}
	}

	var errs []error
	switch {
	case f.Sequence != "":
		if _, ok := e.Sequences[f.Sequence]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown sequence %q", path, f.Sequence))
		}
	case f.Ref != "":
		if !declared[f.Ref] {
			errs = append(errs, fmt.Errorf("%s: reference to undeclared entity %q", path, f.Ref))
		}
		if f.Through != "" {
			if _, err := compileProjection(f.Through); err != nil {
				errs = append(errs, fmt.Errorf("%s.through: %w", path, err))
			}
		}
	case f.Object != nil:
		for _, key := range sortedKeys(f.Object) {
			child := f.Object[key]
			errs = append(errs, validateField(&child, e, declared, path+"."+key)...)
		}
	case f.Array != nil:
		for i := range f.Array {
			errs = append(errs, validateField(&f.Array[i], e, declared, fmt.Sprintf("%s[%d]", path, i))...)
		}
	case f.Some != nil:
		errs = append(errs, validateField(f.Some, e, declared, path+".some")...)
	case f.Left != nil:
		errs = append(errs, validateField(f.Left, e, declared, path+".left")...)
	case f.Right != nil:
		errs = append(errs, validateField(f.Right, e, declared, path+".right")...)
	case f.Value != nil:
		if _, err := literal(f.Value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
