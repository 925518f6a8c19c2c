package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RootKey is the sentinel first segment of every path produced by the graph
// builder. It does not address anything inside the document.
const RootKey = "root"

// Segment is one step of a [Path]: an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing an object member.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a segment addressing an array element.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether s was built with [Index].
func (s Segment) IsIndex() bool { return s.isIndex }

// Int returns the array index of s. Key segments holding a canonical
// non-negative decimal integer ("0", "12") also convert; anything else
// returns false.
func (s Segment) Int() (int, bool) {
	if s.isIndex {
		return s.index, s.index >= 0
	}
	i, err := strconv.Atoi(s.key)
	if err != nil || i < 0 || strconv.Itoa(i) != s.key {
		return 0, false
	}
	return i, true
}

// String returns the key, or the decimal form of the index.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses a value inside a document, starting at [RootKey].
type Path []Segment

// RootPath returns the path of the document root.
func RootPath() Path { return Path{Key(RootKey)} }

// Child returns a new path extending p by s. p is never modified.
func (p Path) Child(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// HasRoot reports whether p starts with the root sentinel.
func (p Path) HasRoot() bool {
	return len(p) > 0 && !p[0].isIndex && p[0].key == RootKey
}

// TrimRoot returns p without its root sentinel, if present.
func (p Path) TrimRoot() Path {
	if p.HasRoot() {
		return p[1:]
	}
	return p
}

// Equal reports whether p and q address the same location. Key and index
// segments with the same text are considered equal.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i].String() != q[i].String() {
			return false
		}
	}
	return true
}

// String joins the segments with ".". Dots and backslashes inside keys are
// escaped with a backslash so that [ParsePath] can invert it.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		for _, r := range s.key {
			if r == '.' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePath splits a dotted path such as "root.users.0.name". Every segment
// is returned as a key; array access converts keys with [Segment.Int].
// The empty string yields an empty path.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	var (
		p   Path
		cur strings.Builder
		esc bool
	)
	for _, r := range s {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case r == '\\':
			esc = true
		case r == '.':
			p = append(p, Key(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if esc {
		cur.WriteByte('\\')
	}
	return append(p, Key(cur.String()))
}

// MarshalJSON encodes p as an array of strings (keys) and integers (indices).
func (p Path) MarshalJSON() ([]byte, error) {
	parts := make([]any, len(p))
	for i, s := range p {
		if s.isIndex {
			parts[i] = s.index
		} else {
			parts[i] = s.key
		}
	}
	return json.Marshal(parts)
}

// UnmarshalJSON decodes the array form written by MarshalJSON.
func (p *Path) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	out := make(Path, 0, len(parts))
	for _, raw := range parts {
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '"' {
			var k string
			if err := json.Unmarshal(raw, &k); err != nil {
				return err
			}
			out = append(out, Key(k))
			continue
		}
		var i int
		if err := json.Unmarshal(raw, &i); err != nil {
			return fmt.Errorf("path segment %s: must be a string or an integer", raw)
		}
		out = append(out, Index(i))
	}
	*p = out
	return nil
}
