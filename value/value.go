package value

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface representing a manifested value.
type Value interface {
	value() // Sealed - only types in this package implement it
}

// Container is a Value that holds other values.
//
// MapContained applies fn to every directly contained value and returns a
// container of the same shape holding the results. The receiver is never
// modified.
type Container interface {
	Value
	MapContained(fn func(Value) (Value, error)) (Value, error)
}

// Null represents an absent value.
type Null struct{}

func (Null) value() {}

// String represents a string value.
type String string

func (String) value() {}

// Int represents an integer value.
type Int int64

func (Int) value() {}

// Float represents a floating point value.
type Float float64

func (Float) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Array represents an ordered list of values.
type Array []Value

func (Array) value() {}

// Object represents a record of named fields.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// Ref is an unresolved reference to another entity.
//
// Entity is the referenced entity's name. Through projects the referenced
// entity's manifested object onto the value stored in place of the Ref.
type Ref struct {
	Entity  string
	Through func(Object) Value
}

func (Ref) value() {}

// Option is a box holding zero or one value.
type Option struct {
	inner Value
	some  bool
}

func (Option) value() {}

// Some returns an Option holding v.
func Some(v Value) Option {
	return Option{inner: v, some: true}
}

// None returns an empty Option.
func None() Option {
	return Option{}
}

// Get returns the held value and whether the Option is non-empty.
func (o Option) Get() (Value, bool) {
	return o.inner, o.some
}

// IsSome reports whether the Option holds a value.
func (o Option) IsSome() bool { return o.some }

// Either is a box holding exactly one value on its left or right arm.
type Either struct {
	inner Value
	right bool
}

func (Either) value() {}

// Left returns an Either holding v on its left arm.
func Left(v Value) Either {
	return Either{inner: v}
}

// Right returns an Either holding v on its right arm.
func Right(v Value) Either {
	return Either{inner: v, right: true}
}

// Get returns the held value and whether it sits on the right arm.
func (e Either) Get() (v Value, isRight bool) {
	return e.inner, e.right
}

// IsRight reports whether the value sits on the right arm.
func (e Either) IsRight() bool { return e.right }

// MapContained implements Container.
func (obj Object) MapContained(fn func(Value) (Value, error)) (Value, error) {
	out := make(Object, len(obj))
	for _, k := range obj.SortedKeys() {
		v, err := fn(obj[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// MapContained implements Container.
func (arr Array) MapContained(fn func(Value) (Value, error)) (Value, error) {
	out := make(Array, len(arr))
	for i, elem := range arr {
		v, err := fn(elem)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// MapContained implements Container. None is returned unchanged.
func (o Option) MapContained(fn func(Value) (Value, error)) (Value, error) {
	if !o.some {
		return o, nil
	}
	v, err := fn(o.inner)
	if err != nil {
		return nil, err
	}
	return Some(v), nil
}

// MapContained implements Container. The arm is preserved.
func (e Either) MapContained(fn func(Value) (Value, error)) (Value, error) {
	v, err := fn(e.inner)
	if err != nil {
		return nil, err
	}
	return Either{inner: v, right: e.right}, nil
}

// Clone returns a shallow copy of obj.
func (obj Object) Clone() Object {
	out := make(Object, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	return out
}

// DeepCopy returns v with every container copied, so mutating the result
// never affects v. Scalars and Refs are returned as they are.
func DeepCopy(v Value) Value {
	c, ok := v.(Container)
	if !ok {
		return v
	}
	out, _ := c.MapContained(func(elem Value) (Value, error) {
		return DeepCopy(elem), nil
	})
	return out
}

// SortedKeys returns keys ordered by UTF-16 code units, the RFC 8785 order
// also used by MarshalCanonical.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering.
// Go's default string comparison uses UTF-8 which produces a different order
// for characters outside the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
