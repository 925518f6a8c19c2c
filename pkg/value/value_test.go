package value

import (
	"math"
	"slices"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "null"},
		{KindBool, "boolean"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindArray, "array"},
		{KindObject, "object"},
		{Kind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() || v.Kind() != KindNull {
		t.Errorf("zero Value kind = %v, want null", v.Kind())
	}
	if v.String() != "null" {
		t.Errorf("zero Value encodes as %q", v.String())
	}
}

func TestObjectDuplicateKeys(t *testing.T) {
	v := Object(
		Member{Key: "a", Value: Number(1)},
		Member{Key: "b", Value: Number(2)},
		Member{Key: "a", Value: Number(3)},
	)
	if got := v.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", got)
	}
	if a, _ := v.Get("a"); a.AsNumber() != 3 {
		t.Errorf("Get(a) = %v, want 3", a)
	}
}

func TestAccessorsOnWrongKind(t *testing.T) {
	s := String("x")
	if s.Len() != 0 {
		t.Error("Len of a string should be 0")
	}
	if _, ok := s.Get("x"); ok {
		t.Error("Get on a string should fail")
	}
	if _, ok := s.Index(0); ok {
		t.Error("Index on a string should fail")
	}
	if s.AsNumber() != 0 || s.AsBool() {
		t.Error("AsNumber/AsBool on a string should return zero values")
	}
	if Number(1).AsString() != "" {
		t.Error("AsString on a number should return empty string")
	}
	for range s.Members() {
		t.Error("Members on a string should yield nothing")
	}
	for range s.Elements() {
		t.Error("Elements on a string should yield nothing")
	}
}

func TestIterators(t *testing.T) {
	v := MustParse(`{"z": 1, "a": [true, null], "m": "x"}`)

	var keys []string
	for k := range v.Members() {
		keys = append(keys, k)
	}
	if !slices.Equal(keys, []string{"z", "a", "m"}) {
		t.Errorf("Members order = %v, want [z a m]", keys)
	}

	a, _ := v.Get("a")
	var kinds []Kind
	for i, e := range a.Elements() {
		if i != len(kinds) {
			t.Errorf("Elements index = %d, want %d", i, len(kinds))
		}
		kinds = append(kinds, e.Kind())
	}
	if !slices.Equal(kinds, []Kind{KindBool, KindNull}) {
		t.Errorf("Elements kinds = %v", kinds)
	}
}

func TestSetIndex(t *testing.T) {
	orig := Array(Number(1), Number(2))

	set, ok := orig.SetIndex(1, String("b"))
	if !ok || set.String() != `[1,"b"]` {
		t.Errorf("SetIndex(1) = %s, %v", set, ok)
	}
	appended, ok := orig.SetIndex(2, Null())
	if !ok || appended.String() != `[1,2,null]` {
		t.Errorf("SetIndex(len) = %s, %v", appended, ok)
	}
	if _, ok := orig.SetIndex(3, Null()); ok {
		t.Error("SetIndex past the end should fail")
	}
	if _, ok := orig.SetIndex(-1, Null()); ok {
		t.Error("SetIndex(-1) should fail")
	}
	if orig.String() != `[1,2]` {
		t.Errorf("original changed: %s", orig)
	}
}

func TestSetKey(t *testing.T) {
	orig := MustParse(`{"a": 1, "b": 2}`)

	replaced, ok := orig.SetKey("a", Bool(true))
	if !ok || replaced.String() != `{"a":true,"b":2}` {
		t.Errorf("SetKey(a) = %s, %v", replaced, ok)
	}
	added, ok := orig.SetKey("c", Number(3))
	if !ok || added.String() != `{"a":1,"b":2,"c":3}` {
		t.Errorf("SetKey(c) = %s, %v", added, ok)
	}
	if orig.String() != `{"a":1,"b":2}` {
		t.Errorf("original changed: %s", orig)
	}
	if _, ok := Array().SetKey("a", Null()); ok {
		t.Error("SetKey on an array should fail")
	}
}

func TestCloneSharesNothing(t *testing.T) {
	v := MustParse(`{"a": {"b": [1]}}`)
	c := v.Clone()
	if !v.Equal(c) {
		t.Fatal("clone should be equal")
	}
	if v.Identical(c) {
		t.Error("clone should not share storage")
	}
	va, _ := v.Get("a")
	ca, _ := c.Get("a")
	if va.Identical(ca) {
		t.Error("nested clone should not share storage")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same scalar", `1`, `1.0`, true},
		{"different scalar", `1`, `2`, false},
		{"kind mismatch", `1`, `"1"`, false},
		{"object order ignored", `{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{"object extra key", `{"a":1}`, `{"a":1,"b":2}`, false},
		{"array order matters", `[1,2]`, `[2,1]`, false},
		{"nested", `{"a":[{"b":null}]}`, `{"a":[{"b":null}]}`, true},
		{"null", `null`, `null`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MustParse(tt.a).Equal(MustParse(tt.b)); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	if !Number(math.NaN()).Equal(Number(math.NaN())) {
		t.Error("NaN should equal NaN for change tracking")
	}
}

func TestIdentical(t *testing.T) {
	a := MustParse(`{"x": [1]}`)
	b := MustParse(`{"x": [1]}`)
	if !a.Identical(a) {
		t.Error("a value is identical to itself")
	}
	if a.Identical(b) {
		t.Error("separately parsed containers are not identical")
	}
	if !String("s").Identical(String("s")) {
		t.Error("equal primitives are identical")
	}
	changed, _ := a.SetKey("y", Null())
	ax, _ := a.Get("x")
	cx, _ := changed.Get("x")
	if !ax.Identical(cx) {
		t.Error("untouched children should be shared after SetKey")
	}
}
