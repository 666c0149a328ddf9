package value

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_SortedKeys(t *testing.T) {
	obj := Object{"b": Int(2), "a": Int(1), "c": Int(3)}
	assert.Equal(t, []string{"a", "b", "c"}, obj.SortedKeys())
}

func TestObject_SortedKeys_UTF16Order(t *testing.T) {
	// U+1F600 encodes as a surrogate pair (0xD83D...) which sorts before U+FFFD in UTF-16
	obj := Object{"\uFFFD": Int(1), "\U0001F600": Int(2)}
	assert.Equal(t, []string{"\U0001F600", "\uFFFD"}, obj.SortedKeys())
}

func TestObject_MapContained(t *testing.T) {
	obj := Object{"a": Int(1), "b": Int(2)}

	var visited []Value
	out, err := obj.MapContained(func(v Value) (Value, error) {
		visited = append(visited, v)
		return v.(Int) * 10, nil
	})
	require.NoError(t, err)

	assert.Equal(t, Object{"a": Int(10), "b": Int(20)}, out)
	assert.Equal(t, []Value{Int(1), Int(2)}, visited, "keys visited in sorted order")
	assert.Equal(t, Object{"a": Int(1), "b": Int(2)}, obj, "receiver must not be modified")
}

func TestDeepCopy(t *testing.T) {
	orig := Object{
		"tags":  Array{String("go")},
		"meta":  Object{"n": Int(1)},
		"maybe": Some(Object{"k": String("v")}),
		"side":  Left(Array{Int(1)}),
		"name":  String("x"),
	}

	cp := DeepCopy(orig).(Object)
	require.Equal(t, orig, cp)

	cp["tags"].(Array)[0] = String("changed")
	cp["meta"].(Object)["n"] = Int(2)
	inner, _ := cp["maybe"].(Option).Get()
	inner.(Object)["k"] = String("changed")
	side, _ := cp["side"].(Either).Get()
	side.(Array)[0] = Int(2)

	assert.Equal(t, Array{String("go")}, orig["tags"])
	assert.Equal(t, Object{"n": Int(1)}, orig["meta"])
	assert.Equal(t, Some(Object{"k": String("v")}), orig["maybe"])
	assert.Equal(t, Left(Array{Int(1)}), orig["side"])
	assert.Equal(t, String("x"), DeepCopy(String("x")))
}

func TestArray_MapContained(t *testing.T) {
	arr := Array{String("x"), String("y")}
	out, err := arr.MapContained(func(v Value) (Value, error) {
		return String(string(v.(String)) + "!"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, Array{String("x!"), String("y!")}, out)
}

func TestOption_MapContained(t *testing.T) {
	double := func(v Value) (Value, error) { return v.(Int) * 2, nil }

	out, err := Some(Int(4)).MapContained(double)
	require.NoError(t, err)
	assert.Equal(t, Some(Int(8)), out)

	called := false
	out, err = None().MapContained(func(v Value) (Value, error) {
		called = true
		return v, nil
	})
	require.NoError(t, err)
	assert.Equal(t, None(), out)
	assert.False(t, called, "None has nothing to map over")
}

func TestEither_MapContained_PreservesArm(t *testing.T) {
	upper := func(v Value) (Value, error) { return String("Y"), nil }

	left, err := Left(String("y")).MapContained(upper)
	require.NoError(t, err)
	assert.Equal(t, Left(String("Y")), left)

	right, err := Right(String("y")).MapContained(upper)
	require.NoError(t, err)
	assert.Equal(t, Right(String("Y")), right)
}

func TestMapContained_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	fail := func(Value) (Value, error) { return nil, boom }

	containers := []Container{
		Object{"a": Int(1)},
		Array{Int(1)},
		Some(Int(1)),
		Left(Int(1)),
	}
	for _, c := range containers {
		_, err := c.MapContained(fail)
		assert.ErrorIs(t, err, boom)
	}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null{}, `null`},
		{"string", String("hi"), `"hi"`},
		{"int", Int(-3), `-3`},
		{"float", Float(1.5), `1.5`},
		{"bool", Bool(true), `true`},
		{"array", Array{Int(1), String("a")}, `[1,"a"]`},
		{"object sorted", Object{"z": Int(1), "a": Bool(false)}, `{"a":false,"z":1}`},
		{"some", Some(String("x")), `"x"`},
		{"none", None(), `null`},
		{"left", Left(Int(1)), `{"left":1}`},
		{"right", Right(Int(2)), `{"right":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshal_RejectsUnresolvedRef(t *testing.T) {
	_, err := Marshal(Object{"authorId": Ref{Entity: "Author"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unresolved reference to "Author"`)
}

func TestParse(t *testing.T) {
	got, err := Parse([]byte(`{"n":3,"f":2.5,"s":"x","b":true,"nil":null,"arr":[1]}`))
	require.NoError(t, err)

	assert.Equal(t, Object{
		"n":   Int(3),
		"f":   Float(2.5),
		"s":   String("x"),
		"b":   Bool(true),
		"nil": Null{},
		"arr": Array{Int(1)},
	}, got)
}

func TestParse_TrailingData(t *testing.T) {
	_, err := Parse([]byte(`123abc`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{} {}`))
	assert.Error(t, err)

	v, err := Parse([]byte(" 42 \n"))
	require.NoError(t, err)
	assert.Equal(t, Int(42), v)
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(Object{"b": Int(1), "a": Some(String("x"))}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"x\",\n  \"b\": 1\n}", string(data))
}

func TestFromGo_Unsupported(t *testing.T) {
	_, err := FromGo(struct{}{})
	assert.Error(t, err)
}

func TestToGo(t *testing.T) {
	in := Object{
		"name":  String("Ada"),
		"age":   Int(36),
		"tags":  Array{String("a")},
		"maybe": None(),
		"boxed": Some(Int(1)),
		"side":  Right(Bool(true)),
	}

	assert.Equal(t, map[string]any{
		"name":  "Ada",
		"age":   int64(36),
		"tags":  []any{"a"},
		"maybe": nil,
		"boxed": int64(1),
		"side":  true,
	}, ToGo(in))
}

func TestDecode(t *testing.T) {
	var post struct {
		ID       string `json:"id"`
		AuthorID string `json:"authorId"`
		Views    int    `json:"views"`
	}
	err := Decode(Object{"id": String("p1"), "authorId": String("a1"), "views": Int(7)}, &post)
	require.NoError(t, err)

	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "a1", post.AuthorID)
	assert.Equal(t, 7, post.Views)
}

func TestMarshalCanonical(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b":    "<&>",
		"a":    []any{1, true, nil},
		"opt":  None(),
		"some": Some(String("x")),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,true,null],"b":"<&>","opt":null,"some":"x"}`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" followed by a combining acute accent normalizes to U+00E9
	got, err := MarshalCanonical(String("e\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	got, err := MarshalCanonical(String("a\u2028b"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	got, err = MarshalCanonical(String(`a\u2028b`))
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestMarshalCanonical_RejectsFractionalFloat(t *testing.T) {
	_, err := MarshalCanonical(Float(0.5))
	assert.Error(t, err)

	got, err := MarshalCanonical(Float(2))
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
}
