// Package value provides the raw value representation manifesters produce.
//
// Value is a sealed interface. Only the types in this package implement it:
// Null, String, Int, Float, Bool, Array, Object, Option, Either and Ref.
//
// Ref is the unresolved-reference variant. It is embedded directly in a field
// of a manifested Object and replaced by the realm's resolver with the value
// projected from the referenced entity.
//
// Values that hold other values implement Container. The resolver finds
// references by mapping over containers, so any nesting of Object, Array,
// Option and Either is searched.
//
// Object keys are always visited in SortedKeys order, which makes resolution
// order and serialized output deterministic.
package value
