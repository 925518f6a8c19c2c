// Package classify maps JSON values to the display kind, label and color
// category used by every view of a document.
package classify

import (
	"strconv"

	"github.com/matzehuels/jsonscope/pkg/value"
)

// Kind is the display kind of a value. It mirrors [value.Kind] with the
// names shown to users.
type Kind string

const (
	KindNull    Kind = "null"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// IsContainer reports whether values of this kind have children.
func (k Kind) IsContainer() bool { return k == KindArray || k == KindObject }

// Colors assigned to each kind. Renderers may restyle them; they are
// category tags first.
const (
	ColorNull    = "#6b7280"
	ColorString  = "#10b981"
	ColorNumber  = "#06b6d4"
	ColorBoolean = "#a855f7"
	ColorArray   = "#f59e0b"
	ColorObject  = "#3b82f6"
)

// Info is the classification of a single value.
type Info struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Of classifies v. It is total: every value has exactly one kind.
//
// Labels are "null", the string wrapped in double quotes (unescaped), the
// number or boolean text, "Array[n]" and "Object{n}".
func Of(v value.Value) Info {
	switch v.Kind() {
	case value.KindString:
		return Info{Kind: KindString, Label: `"` + v.AsString() + `"`, Color: ColorString}
	case value.KindNumber:
		return Info{Kind: KindNumber, Label: value.NumberText(v.AsNumber()), Color: ColorNumber}
	case value.KindBool:
		return Info{Kind: KindBoolean, Label: strconv.FormatBool(v.AsBool()), Color: ColorBoolean}
	case value.KindArray:
		return Info{Kind: KindArray, Label: "Array[" + strconv.Itoa(v.Len()) + "]", Color: ColorArray}
	case value.KindObject:
		return Info{Kind: KindObject, Label: "Object{" + strconv.Itoa(v.Len()) + "}", Color: ColorObject}
	}
	return Info{Kind: KindNull, Label: "null", Color: ColorNull}
}

// ColorOf returns the color of a display kind, or the null color for
// unknown kinds.
func ColorOf(k Kind) string {
	switch k {
	case KindString:
		return ColorString
	case KindNumber:
		return ColorNumber
	case KindBoolean:
		return ColorBoolean
	case KindArray:
		return ColorArray
	case KindObject:
		return ColorObject
	}
	return ColorNull
}
