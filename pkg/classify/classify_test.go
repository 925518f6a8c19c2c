package classify

import (
	"testing"

	"github.com/matzehuels/jsonscope/pkg/value"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Info
	}{
		{"null", `null`, Info{KindNull, "null", ColorNull}},
		{"string", `"hello"`, Info{KindString, `"hello"`, ColorString}},
		{"string raw", `"a\"b"`, Info{KindString, `"a"b"`, ColorString}},
		{"empty string", `""`, Info{KindString, `""`, ColorString}},
		{"integer", `42`, Info{KindNumber, "42", ColorNumber}},
		{"float", `-1.25`, Info{KindNumber, "-1.25", ColorNumber}},
		{"big", `1e21`, Info{KindNumber, "1e+21", ColorNumber}},
		{"overflow", `1e400`, Info{KindNumber, "Infinity", ColorNumber}},
		{"negative overflow", `-1e400`, Info{KindNumber, "-Infinity", ColorNumber}},
		{"true", `true`, Info{KindBoolean, "true", ColorBoolean}},
		{"false", `false`, Info{KindBoolean, "false", ColorBoolean}},
		{"array", `[1, 2, 3]`, Info{KindArray, "Array[3]", ColorArray}},
		{"empty array", `[]`, Info{KindArray, "Array[0]", ColorArray}},
		{"object", `{"a": 1, "b": 2}`, Info{KindObject, "Object{2}", ColorObject}},
		{"empty object", `{}`, Info{KindObject, "Object{0}", ColorObject}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(value.MustParse(tt.input)); got != tt.want {
				t.Errorf("Of(%s) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNullIsNeverTreatedAsObject(t *testing.T) {
	if got := Of(value.Null()); got.Kind != KindNull || got.Kind.IsContainer() {
		t.Errorf("Of(null) = %+v", got)
	}
}

func TestColorOf(t *testing.T) {
	for _, k := range []Kind{KindNull, KindString, KindNumber, KindBoolean, KindArray, KindObject} {
		if ColorOf(k) == "" {
			t.Errorf("ColorOf(%s) is empty", k)
		}
	}
	if ColorOf("bogus") != ColorNull {
		t.Error("unknown kinds should use the null color")
	}
	if ColorOf(KindArray) != Of(value.Array()).Color {
		t.Error("ColorOf and Of disagree")
	}
}
