package value

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Marshal returns the compact JSON encoding of v with object members in
// insertion order.
func Marshal(v Value) []byte {
	var buf bytes.Buffer
	encode(&buf, v, "", "")
	return buf.Bytes()
}

// MarshalIndent is like [Marshal] but places each element on its own line,
// indented with one copy of indent per nesting level. Empty arrays and
// objects stay on one line ("[]", "{}").
func MarshalIndent(v Value, indent string) []byte {
	var buf bytes.Buffer
	encode(&buf, v, indent, "")
	return buf.Bytes()
}

// Pretty returns the two-space indented form used when writing edited
// documents back to text.
func Pretty(v Value) string { return string(MarshalIndent(v, "  ")) }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) { return Marshal(v), nil }

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// String returns the compact JSON encoding of v.
func (v Value) String() string { return string(Marshal(v)) }

func encode(buf *bytes.Buffer, v Value, indent, prefix string) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(FormatNumber(v.n))
	case KindString:
		writeString(buf, v.s)
	case KindArray:
		if len(v.c.elems) == 0 {
			buf.WriteString("[]")
			return
		}
		inner := prefix + indent
		buf.WriteByte('[')
		for i, e := range v.c.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, inner)
			encode(buf, e, indent, inner)
		}
		newline(buf, indent, prefix)
		buf.WriteByte(']')
	case KindObject:
		if len(v.c.members) == 0 {
			buf.WriteString("{}")
			return
		}
		inner := prefix + indent
		buf.WriteByte('{')
		for i, m := range v.c.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, inner)
			writeString(buf, m.Key)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			encode(buf, m.Value, indent, inner)
		}
		newline(buf, indent, prefix)
		buf.WriteByte('}')
	}
}

func newline(buf *bytes.Buffer, indent, prefix string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}

// FormatNumber renders n the way JavaScript prints numbers: plain decimal
// for magnitudes in [1e-6, 1e21), exponent form outside it, and "null" for
// NaN and infinities, which JSON cannot represent.
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "null"
	}
	if n == 0 {
		return "0"
	}
	if abs := math.Abs(n); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	// Go pads the exponent to two digits ("1e-07"); JavaScript does not.
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}

// NumberText is the display form of n. It matches FormatNumber except that
// infinities and NaN print as Infinity, -Infinity and NaN instead of null.
func NumberText(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}
	return FormatNumber(n)
}

const hex = "0123456789abcdef"

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				buf.WriteString(`\"`)
			case '\\':
				buf.WriteString(`\\`)
			case '\b':
				buf.WriteString(`\b`)
			case '\f':
				buf.WriteString(`\f`)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			default:
				if c < 0x20 {
					buf.WriteString(`\u00`)
					buf.WriteByte(hex[c>>4])
					buf.WriteByte(hex[c&0xf])
				} else {
					buf.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteString("\ufffd")
		} else {
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
