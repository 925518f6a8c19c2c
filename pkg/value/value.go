package value

import (
	"iter"
	"math"
	"slices"
)

// Kind identifies the JSON type held by a [Value].
type Kind int

const (
	// KindNull is the zero Kind, so the zero Value is JSON null.
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

// String returns the JSON type name ("null", "boolean", "number", ...).
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsContainer reports whether values of this kind have children.
func (k Kind) IsContainer() bool { return k == KindArray || k == KindObject }

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// container is the shared backing storage of arrays and objects. It is never
// modified after construction, which is what makes Value safe to share.
type container struct {
	elems   []Value
	members []Member
	index   map[string]int
}

// Value is an immutable JSON value. Objects keep their members in insertion
// order. The zero Value is JSON null.
//
// Values are cheap to copy: arrays and objects share their backing storage,
// and every operation that changes a container returns a new Value.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	c    *container
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array holding elems in order.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, c: &container{elems: slices.Clone(elems)}}
}

// Object returns a JSON object holding members in order. When a key repeats,
// the later value replaces the earlier one but keeps the earlier position.
func Object(members ...Member) Value {
	c := &container{index: make(map[string]int, len(members))}
	for _, m := range members {
		c.set(m.Key, m.Value)
	}
	return Value{kind: KindObject, c: c}
}

func (c *container) set(key string, v Value) {
	if i, ok := c.index[key]; ok {
		c.members[i].Value = v
		return
	}
	c.index[key] = len(c.members)
	c.members = append(c.members, Member{Key: key, Value: v})
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v, or false for other kinds.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsNumber returns the number held by v, or 0 for other kinds.
func (v Value) AsNumber() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

// AsString returns the string held by v, or "" for other kinds.
func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Len returns the number of elements of an array or members of an object.
// It returns 0 for primitives.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.c.elems)
	case KindObject:
		return len(v.c.members)
	}
	return 0
}

// Index returns the i-th element of an array. The second result is false
// when v is not an array or i is out of range.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.c.elems) {
		return Value{}, false
	}
	return v.c.elems[i], true
}

// Get returns the member of an object stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	i, ok := v.c.index[key]
	if !ok {
		return Value{}, false
	}
	return v.c.members[i].Value, true
}

// Keys returns the member keys of an object in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.c.members))
	for i, m := range v.c.members {
		keys[i] = m.Key
	}
	return keys
}

// Elements iterates over the elements of an array.
func (v Value) Elements() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if v.kind != KindArray {
			return
		}
		for i, e := range v.c.elems {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Members iterates over the members of an object in insertion order.
func (v Value) Members() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if v.kind != KindObject {
			return
		}
		for _, m := range v.c.members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// SetIndex returns a copy of the array v with element i replaced by e.
// When i equals the length, e is appended. The second result is false when
// v is not an array or i is outside [0, Len()].
func (v Value) SetIndex(i int, e Value) (Value, bool) {
	if v.kind != KindArray || i < 0 || i > len(v.c.elems) {
		return v, false
	}
	elems := make([]Value, len(v.c.elems), len(v.c.elems)+1)
	copy(elems, v.c.elems)
	if i == len(elems) {
		elems = append(elems, e)
	} else {
		elems[i] = e
	}
	return Value{kind: KindArray, c: &container{elems: elems}}, true
}

// SetKey returns a copy of the object v with key bound to e. Existing keys
// keep their position; new keys are appended. The second result is false
// when v is not an object.
func (v Value) SetKey(key string, e Value) (Value, bool) {
	if v.kind != KindObject {
		return v, false
	}
	c := &container{
		members: make([]Member, len(v.c.members), len(v.c.members)+1),
		index:   make(map[string]int, len(v.c.members)+1),
	}
	copy(c.members, v.c.members)
	for k, i := range v.c.index {
		c.index[k] = i
	}
	c.set(key, e)
	return Value{kind: KindObject, c: c}, true
}

// Clone returns a deep copy of v that shares no storage with it.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		elems := make([]Value, len(v.c.elems))
		for i, e := range v.c.elems {
			elems[i] = e.Clone()
		}
		return Value{kind: KindArray, c: &container{elems: elems}}
	case KindObject:
		members := make([]Member, len(v.c.members))
		for i, m := range v.c.members {
			members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
		return Object(members...)
	}
	return v
}

// Identical reports whether v and other are the same value without looking
// inside containers: primitives compare by value, arrays and objects by
// backing storage. Identical implies Equal.
func (v Value) Identical(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind.IsContainer() {
		return v.c == other.c
	}
	return v.primitiveEqual(other)
}

// Equal reports whether v and other hold the same JSON value. Object member
// order is not significant.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindArray:
		if v.c == other.c {
			return true
		}
		if len(v.c.elems) != len(other.c.elems) {
			return false
		}
		for i := range v.c.elems {
			if !v.c.elems[i].Equal(other.c.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.c == other.c {
			return true
		}
		if len(v.c.members) != len(other.c.members) {
			return false
		}
		for _, m := range v.c.members {
			o, ok := other.Get(m.Key)
			if !ok || !m.Value.Equal(o) {
				return false
			}
		}
		return true
	}
	return v.primitiveEqual(other)
}

func (v Value) primitiveEqual(other Value) bool {
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindNumber:
		if math.IsNaN(v.n) && math.IsNaN(other.n) {
			return true
		}
		return v.n == other.n
	case KindString:
		return v.s == other.s
	}
	return true
}
