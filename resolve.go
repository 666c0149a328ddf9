package thaumaturgy

import (
	"github.com/maxdeviant/thaumaturgy/value"
)

// manifestWithReferences manifests e and resolves every reference outside the
// overridden fields.
//
// The returned references are in pre-order: a reference comes before the
// references discovered while manifesting its entity. Reversing the list
// therefore yields dependencies before dependents.
func (r *Realm[C]) manifestWithReferences(e Entity, overrides value.Object) (value.Object, []ResolvedReference, error) {
	return r.resolve(e, overrides, 0)
}

func (r *Realm[C]) resolve(e Entity, overrides value.Object, depth int) (value.Object, []ResolvedReference, error) {
	manifester, err := r.storage.findManifester(e.Name)
	if err != nil {
		return nil, nil, err
	}

	raw := manifester(ManifestOptions{
		Unique:    r.cfg.unique,
		Sequences: r.storage.findSequences(e.Name),
	})

	var refs []ResolvedReference

	var walk func(v value.Value) (value.Value, error)
	walk = func(v value.Value) (value.Value, error) {
		switch val := v.(type) {
		case value.Ref:
			resolved, children, err := r.resolveRef(val, depth)
			if err != nil {
				return nil, err
			}
			refs = append(refs, resolved)
			refs = append(refs, children...)
			return resolved.Projected, nil
		case value.Container:
			return val.MapContained(walk)
		default:
			return v, nil
		}
	}

	manifested := make(value.Object, len(raw)+len(overrides))
	for _, key := range raw.SortedKeys() {
		// Overridden fields are never walked, so their references are never manifested
		if _, ok := overrides[key]; ok {
			continue
		}
		v, err := walk(raw[key])
		if err != nil {
			return nil, nil, err
		}
		manifested[key] = v
	}

	for key, v := range overrides {
		manifested[key] = v
	}

	return manifested, refs, nil
}

// resolveRef manifests the entity ref points at and projects it. The
// returned children are the references resolved along the way.
func (r *Realm[C]) resolveRef(ref value.Ref, depth int) (ResolvedReference, []ResolvedReference, error) {
	target := NewEntity(ref.Entity)

	obj, children, err := r.resolve(target, nil, depth+1)
	if err != nil {
		return ResolvedReference{}, nil, err
	}

	var projected value.Value = obj
	if ref.Through != nil {
		projected = ref.Through(obj)
	}
	if projected == nil {
		projected = value.Null{}
	}

	return ResolvedReference{
		Entity:    target,
		Value:     obj,
		Projected: projected,
		Depth:     depth,
	}, children, nil
}
