package value

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathString(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"root", RootPath(), "root"},
		{"nested", RootPath().Child(Key("users")).Child(Index(0)).Child(Key("id")), "root.users.0.id"},
		{"dot in key", RootPath().Child(Key("a.b")), `root.a\.b`},
		{"backslash in key", RootPath().Child(Key(`c\d`)), `root.c\\d`},
		{"empty key", RootPath().Child(Key("")), "root."},
		{"empty path", Path{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePathInvertsString(t *testing.T) {
	paths := []Path{
		RootPath(),
		RootPath().Child(Key("users")).Child(Key("0")).Child(Key("id")),
		RootPath().Child(Key("a.b")).Child(Key(`c\d`)),
		RootPath().Child(Key("")),
	}
	for _, p := range paths {
		got := ParsePath(p.String())
		if !got.Equal(p) {
			t.Errorf("ParsePath(%q) = %v, want %v", p.String(), got, p)
		}
	}
	if got := ParsePath(""); len(got) != 0 {
		t.Errorf("ParsePath(\"\") = %v, want empty", got)
	}
}

func TestChildDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 8)
	base[0] = Key(RootKey)
	a := base.Child(Key("a"))
	b := base.Child(Key("b"))
	if a.String() != "root.a" || b.String() != "root.b" {
		t.Errorf("siblings aliased: %s, %s", a, b)
	}
}

func TestPathEqual(t *testing.T) {
	idx := RootPath().Child(Index(3))
	key := RootPath().Child(Key("3"))
	if !idx.Equal(key) {
		t.Error("index and key segments with the same text should be equal")
	}
	if idx.Equal(RootPath()) {
		t.Error("paths of different length should differ")
	}
}

func TestTrimRoot(t *testing.T) {
	p := RootPath().Child(Key("a"))
	if got := p.TrimRoot(); got.String() != "a" {
		t.Errorf("TrimRoot() = %q", got)
	}
	q := Path{Key("a")}
	if got := q.TrimRoot(); got.String() != "a" {
		t.Errorf("TrimRoot() without root = %q", got)
	}
	if !RootPath().HasRoot() || (Path{Index(0)}).HasRoot() {
		t.Error("HasRoot mismatch")
	}
}

func TestSegmentInt(t *testing.T) {
	tests := []struct {
		seg  Segment
		want int
		ok   bool
	}{
		{Index(2), 2, true},
		{Key("2"), 2, true},
		{Key("10"), 10, true},
		{Key("02"), 0, false},
		{Key("-1"), 0, false},
		{Key("x"), 0, false},
		{Key(""), 0, false},
		{Index(-1), -1, false},
	}
	for _, tt := range tests {
		got, ok := tt.seg.Int()
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("%q.Int() = %d, %v; want %d, %v", tt.seg.String(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestPathJSON(t *testing.T) {
	p := RootPath().Child(Key("users")).Child(Index(0)).Child(Key("id"))
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["root","users",0,"id"]` {
		t.Errorf("Marshal = %s", data)
	}

	var back Path
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p.String(), back.String()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if !back[2].IsIndex() {
		t.Error("numeric segment should decode as an index")
	}

	if err := json.Unmarshal([]byte(`["root", true]`), &back); err == nil {
		t.Error("boolean segment should be rejected")
	}
}
