package thaumaturgy

import "github.com/maxdeviant/thaumaturgy/value"

// RefBuilder is bound to the entity a reference points at.
type RefBuilder struct {
	entity Entity
}

// RefTo starts a reference to e. Complete it with Through:
//
//	thaumaturgy.RefTo(Author).Through(thaumaturgy.Field("id"))
func RefTo(e Entity) RefBuilder {
	return RefBuilder{entity: e}
}

// Through returns an unresolved reference. When resolved, the referenced
// entity is manifested and project is applied to its object; the result
// replaces the reference. A nil project yields the whole object.
func (b RefBuilder) Through(project func(value.Object) value.Value) value.Ref {
	return value.Ref{Entity: b.entity.Name, Through: project}
}

// Field returns a projection selecting one field. Missing fields project to
// value.Null.
func Field(name string) func(value.Object) value.Value {
	return func(obj value.Object) value.Value {
		if v, ok := obj[name]; ok {
			return v
		}
		return value.Null{}
	}
}

// ResolvedReference is a reference after its entity has been manifested.
type ResolvedReference struct {
	// Entity is the referenced entity.
	Entity Entity

	// Value is the referenced entity's fully resolved object.
	Value value.Object

	// Projected is the value that replaced the reference.
	Projected value.Value

	// Depth is 0 for references found in the entity being manifested, 1 for
	// references found in those referenced entities, and so on.
	Depth int
}
