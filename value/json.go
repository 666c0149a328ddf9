package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON implements json.Marshaler for Object with sorted keys.
// This is NOT canonical marshaling. Use MarshalCanonical for stable snapshots.
func (obj Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := Marshal(obj[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Array.
func (arr Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := Marshal(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Option.
// Some encodes as its held value, None as null.
func (o Option) MarshalJSON() ([]byte, error) {
	if !o.some {
		return []byte("null"), nil
	}
	return Marshal(o.inner)
}

// MarshalJSON implements json.Marshaler for Either as {"left": v} or {"right": v}.
func (e Either) MarshalJSON() ([]byte, error) {
	arm := "left"
	if e.right {
		arm = "right"
	}
	return Object{arm: e.inner}.MarshalJSON()
}

// MarshalJSON rejects unresolved references; they only exist before resolution.
func (r Ref) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("unresolved reference to %q cannot be marshaled", r.Entity)
}

// Marshal marshals a Value to JSON bytes.
func Marshal(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil Value")
	case Null:
		return val.MarshalJSON()
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Float:
		return json.Marshal(float64(val))
	case Bool:
		return json.Marshal(bool(val))
	case Array:
		return val.MarshalJSON()
	case Object:
		return val.MarshalJSON()
	case Option:
		return val.MarshalJSON()
	case Either:
		return val.MarshalJSON()
	case Ref:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// Parse decodes JSON into a Value. Integral numbers become Int, other
// numbers Float, and null becomes Null.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	return FromGo(raw)
}

// MarshalIndent is like Marshal but applies indentation to the output.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode copies obj into dst through its JSON form.
// dst follows the encoding/json rules for field names and types.
func Decode(obj Object, dst any) error {
	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
