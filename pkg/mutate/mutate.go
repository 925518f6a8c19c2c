// Package mutate applies path-addressed edits to documents.
//
// Edits never modify their input. [Apply] rebuilds only the containers on
// the path to the edited location and shares everything else with the
// original document, so the caller's value stays intact and can still be
// diffed against the result.
package mutate

import (
	"github.com/matzehuels/jsonscope/pkg/value"
)

// Apply returns doc with the value at path replaced by raw.
//
// raw is parsed as JSON; when it does not parse, the text itself is stored
// as a string. A leading root segment is ignored, and a path holding only
// the root replaces the whole document.
//
// Array segments address elements by index, object segments by key. When an
// intermediate segment does not resolve, or the final container cannot take
// the value (a primitive, or an index beyond the end), Apply returns doc
// unchanged and false. Setting an index equal to the array length appends.
func Apply(doc value.Value, path value.Path, raw string) (value.Value, bool) {
	if len(path) == 0 {
		return doc, false
	}
	replacement := Literal(raw)
	segs := path
	if path.HasRoot() {
		segs = path.TrimRoot()
		if len(segs) == 0 {
			return replacement, true
		}
	}
	return set(doc, segs, replacement)
}

// Literal parses raw as JSON, falling back to the string raw itself.
func Literal(raw string) value.Value {
	v, err := value.Parse(raw)
	if err != nil {
		return value.String(raw)
	}
	return v
}

// Edit parses text, applies the edit and serializes the result with
// two-space indentation. When the edit does not apply, text is returned
// as is with false. A parse failure of text is returned as an error.
func Edit(text string, path value.Path, raw string) (string, bool, error) {
	doc, err := value.Parse(text)
	if err != nil {
		return text, false, err
	}
	next, ok := Apply(doc, path, raw)
	if !ok {
		return text, false, nil
	}
	return value.Pretty(next), true, nil
}

// Lookup returns the value at path, resolved the same way [Apply] resolves
// it. A leading root segment is ignored.
func Lookup(doc value.Value, path value.Path) (value.Value, bool) {
	cur := doc
	for _, seg := range path.TrimRoot() {
		next, ok := lookup(cur, seg)
		if !ok {
			return value.Value{}, false
		}
		cur = next
	}
	return cur, true
}

func set(cur value.Value, segs value.Path, v value.Value) (value.Value, bool) {
	seg := segs[0]
	if len(segs) == 1 {
		return assign(cur, seg, v)
	}
	child, ok := lookup(cur, seg)
	if !ok {
		return cur, false
	}
	updated, ok := set(child, segs[1:], v)
	if !ok {
		return cur, false
	}
	return assign(cur, seg, updated)
}

func lookup(cur value.Value, seg value.Segment) (value.Value, bool) {
	switch cur.Kind() {
	case value.KindArray:
		i, ok := seg.Int()
		if !ok {
			return value.Value{}, false
		}
		return cur.Index(i)
	case value.KindObject:
		return cur.Get(seg.String())
	}
	return value.Value{}, false
}

func assign(cur value.Value, seg value.Segment, v value.Value) (value.Value, bool) {
	switch cur.Kind() {
	case value.KindArray:
		i, ok := seg.Int()
		if !ok {
			return cur, false
		}
		return cur.SetIndex(i, v)
	case value.KindObject:
		return cur.SetKey(seg.String(), v)
	}
	return cur, false
}
