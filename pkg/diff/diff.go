// Package diff locates the first point at which two documents differ.
//
// It is not a full structural diff: [FirstDivergence] reports a single path,
// the one an explorer should focus after the document changed.
package diff

import "github.com/matzehuels/jsonscope/pkg/value"

// FirstDivergence returns the path of the first difference between prev and
// next, and false when both are deeply equal.
//
// A nil prev means there is no earlier document; the root path is returned.
// Otherwise the walk starts at the root:
//   - primitives, or containers of different kinds, diverge at the current
//     path unless they are equal
//   - arrays are compared index by index; the first index missing on one
//     side or differing recursively is reported
//   - objects are compared over the union of their keys, prev's keys in
//     insertion order followed by keys only next has; the first key
//     missing on one side or differing recursively is reported
//
// Containers shared between prev and next are skipped without traversal.
func FirstDivergence(prev *value.Value, next value.Value) (value.Path, bool) {
	root := value.RootPath()
	if prev == nil {
		return root, true
	}
	return divergence(*prev, next, root)
}

// Changed reports whether next differs from prev at all.
func Changed(prev *value.Value, next value.Value) bool {
	_, ok := FirstDivergence(prev, next)
	return ok
}

func divergence(a, b value.Value, path value.Path) (value.Path, bool) {
	if a.Identical(b) {
		return nil, false
	}
	if a.Kind() != b.Kind() || !a.Kind().IsContainer() {
		if a.Equal(b) {
			return nil, false
		}
		return path, true
	}

	if a.Kind() == value.KindArray {
		for i := range max(a.Len(), b.Len()) {
			child := path.Child(value.Index(i))
			x, okA := a.Index(i)
			y, okB := b.Index(i)
			if !okA || !okB {
				return child, true
			}
			if p, ok := divergence(x, y, child); ok {
				return p, true
			}
		}
		return nil, false
	}

	for key, x := range a.Members() {
		child := path.Child(value.Key(key))
		y, ok := b.Get(key)
		if !ok {
			return child, true
		}
		if p, ok := divergence(x, y, child); ok {
			return p, true
		}
	}
	for key := range b.Members() {
		if _, ok := a.Get(key); !ok {
			return path.Child(value.Key(key)), true
		}
	}
	return nil, false
}
