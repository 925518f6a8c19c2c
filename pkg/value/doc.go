// Package value provides the immutable, order-preserving JSON document model
// shared by every stage of the explorer.
//
// # Values
//
// A [Value] is a tagged union over the six JSON types. Objects remember the
// order in which their members appeared in the source text, so that graphs,
// diffs and re-serialized text all follow the author's layout:
//
//	doc, err := value.Parse(`{"name": "Ada", "langs": ["en", "fr"]}`)
//	if err != nil {
//	    return err
//	}
//	langs, _ := doc.Get("langs")
//	fmt.Println(langs.Len()) // 2
//
// Values never change after construction. [Value.SetKey] and
// [Value.SetIndex] return modified copies that share untouched children
// with the original.
//
// # Paths
//
// A [Path] addresses a location inside a document. Paths produced by the
// graph builder begin with the [RootKey] sentinel, and their dotted
// [Path.String] form doubles as a stable node identifier:
//
//	p := value.RootPath().Child(value.Key("users")).Child(value.Index(0))
//	p.String() // "root.users.0"
//
// # Encoding
//
// [Marshal] and [MarshalIndent] write members in insertion order and format
// numbers and strings the way browsers do, so text written back after an
// edit matches what the editor would have produced.
package value
