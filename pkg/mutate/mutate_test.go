package mutate

import (
	"testing"

	"github.com/matzehuels/jsonscope/pkg/value"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		raw  string
		want string
		ok   bool
	}{
		{"nested number", `{"a": {"b": 1}}`, "root.a.b", "2", `{"a":{"b":2}}`, true},
		{"literal fallback", `{"a": "old"}`, "root.a", "not json", `{"a":"not json"}`, true},
		{"quoted string", `{"a": 1}`, "root.a", `"x"`, `{"a":"x"}`, true},
		{"container value", `{"a": 1}`, "root.a", `[1, {"k": null}]`, `{"a":[1,{"k":null}]}`, true},
		{"empty raw", `{"a": 1}`, "root.a", "", `{"a":""}`, true},
		{"unresolved intermediate", `{"a": 1}`, "root.x.y", "2", `{"a":1}`, false},
		{"primitive intermediate", `{"a": 1}`, "root.a.b", "2", `{"a":1}`, false},
		{"array index", `{"users": [{"id": 1}]}`, "root.users.0.id", "2", `{"users":[{"id":2}]}`, true},
		{"array append", `[1, 2]`, "root.2", "3", `[1,2,3]`, true},
		{"array out of range", `[1, 2]`, "root.5", "3", `[1,2]`, false},
		{"array bad index", `[1, 2]`, "root.x", "3", `[1,2]`, false},
		{"new key", `{"a": 1}`, "root.b", "true", `{"a":1,"b":true}`, true},
		{"keeps key order", `{"a": 1, "b": 2, "c": 3}`, "root.b", "0", `{"a":1,"b":0,"c":3}`, true},
		{"without root", `{"a": {"b": 1}}`, "a.b", "5", `{"a":{"b":5}}`, true},
		{"root only", `{"a": 1}`, "root", "[true]", `[true]`, true},
		{"numeric object key", `{"0": "zero"}`, "root.0", "1", `{"0":1}`, true},
		{"primitive document", `7`, "root.a", "1", `7`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := value.MustParse(tt.doc)
			got, ok := Apply(doc, value.ParsePath(tt.path), tt.raw)
			if ok != tt.ok {
				t.Errorf("Apply() ok = %v, want %v", ok, tt.ok)
			}
			if got.String() != tt.want {
				t.Errorf("Apply() = %s, want %s", got, tt.want)
			}
			if doc.String() != value.MustParse(tt.doc).String() {
				t.Errorf("input was modified: %s", doc)
			}
		})
	}
}

func TestApplyEmptyPath(t *testing.T) {
	doc := value.MustParse(`{"a": 1}`)
	got, ok := Apply(doc, nil, "2")
	if ok || !got.Identical(doc) {
		t.Errorf("Apply(nil path) = %s, %v", got, ok)
	}
}

func TestApplyDoesNotAlias(t *testing.T) {
	doc := value.MustParse(`{"a": {"b": 1}, "c": {"d": 2}}`)
	got, ok := Apply(doc, value.Path{value.Key("root"), value.Key("a"), value.Key("b")}, "2")
	if !ok {
		t.Fatal("edit not applied")
	}

	before, _ := doc.Get("a")
	after, _ := got.Get("a")
	if before.Identical(after) {
		t.Error("edited container should be a new value")
	}
	if b, _ := before.Get("b"); b.AsNumber() != 1 {
		t.Errorf("original a.b = %s", b)
	}

	// Untouched siblings can be shared since values are immutable.
	c1, _ := doc.Get("c")
	c2, _ := got.Get("c")
	if !c1.Equal(c2) {
		t.Errorf("sibling changed: %s vs %s", c1, c2)
	}
}

func TestApplyIndexSegment(t *testing.T) {
	doc := value.MustParse(`{"list": ["a", "b"]}`)
	path := value.RootPath().Child(value.Key("list")).Child(value.Index(1))
	got, ok := Apply(doc, path, "beta")
	if !ok || got.String() != `{"list":["a","beta"]}` {
		t.Errorf("Apply() = %s, %v", got, ok)
	}
}

func TestEdit(t *testing.T) {
	text := `{"users":[{"id":1}]}`
	out, ok, err := Edit(text, value.ParsePath("root.users.0.id"), "2")
	if err != nil || !ok {
		t.Fatalf("Edit() = %v, %v", ok, err)
	}
	want := "{\n  \"users\": [\n    {\n      \"id\": 2\n    }\n  ]\n}"
	if out != want {
		t.Errorf("Edit() =\n%s\nwant\n%s", out, want)
	}
	if !value.MustParse(out).Equal(value.MustParse(`{"users":[{"id":2}]}`)) {
		t.Error("edited text does not reparse to the expected document")
	}

	same, ok, err := Edit(text, value.ParsePath("root.missing.x"), "2")
	if err != nil || ok || same != text {
		t.Errorf("no-op Edit() = %q, %v, %v", same, ok, err)
	}

	if _, _, err := Edit(`{"a":`, value.ParsePath("root.a"), "1"); err == nil {
		t.Error("Edit() on invalid text should fail")
	}
}

func TestLiteral(t *testing.T) {
	tests := map[string]string{
		`42`:       `42`,
		`"quoted"`: `"quoted"`,
		`hello`:    `"hello"`,
		`{"a":`:    `"{\"a\":"`,
		`  null `:  `null`,
		`   `:      `"   "`,
	}
	for raw, want := range tests {
		if got := Literal(raw).String(); got != want {
			t.Errorf("Literal(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestLookup(t *testing.T) {
	doc := value.MustParse(`{"users": [{"id": 1, "a.b": true}], "n": null}`)
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"root", doc.String(), true},
		{"", doc.String(), true},
		{"root.users.0.id", `1`, true},
		{`root.users.0.a\.b`, `true`, true},
		{"root.n", `null`, true},
		{"root.users.1", "", false},
		{"root.users.x", "", false},
		{"root.n.deeper", "", false},
	}
	for _, tt := range tests {
		got, ok := Lookup(doc, value.ParsePath(tt.path))
		if ok != tt.ok {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
