package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
)

// ErrEmptyInput is returned by [Parse] when the text holds nothing but
// whitespace. Callers treat it as "no document", not as a failure.
var ErrEmptyInput = errs.New(errs.ErrCodeEmptyInput, "input is empty")

// Parse decodes JSON text into a Value, keeping object members in document
// order. Invalid text yields an error with code [errs.ErrCodeInvalidJSON]
// whose message names the offending position.
func Parse(text string) (Value, error) {
	return ParseBytes([]byte(text))
}

// ParseBytes is like [Parse] for a byte slice.
func ParseBytes(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyInput
	}
	if !json.Valid(data) {
		return Value{}, syntaxError(data)
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, errs.Wrap(errs.ErrCodeInvalidJSON, err, "invalid JSON")
	}
	v, err := decode(raw, typ)
	if err != nil {
		return Value{}, errs.Wrap(errs.ErrCodeInvalidJSON, err, "invalid JSON")
	}
	return v, nil
}

// MustParse is like [Parse] but panics on error. It is meant for tests and
// package-level fixtures.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func decode(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case jsonparser.Number:
		// Out-of-range literals still yield ±Inf, like JSON.parse.
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, err
		}
		return Number(n), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			// jsonparser rejects lone surrogate escapes; encoding/json
			// decodes them as U+FFFD.
			if err := json.Unmarshal(quote(raw), &s); err != nil {
				return Value{}, err
			}
		}
		return String(s), nil
	case jsonparser.Array:
		var (
			elems []Value
			first error
		)
		_, err := jsonparser.ArrayEach(raw, func(v []byte, t jsonparser.ValueType, _ int, err error) {
			if first != nil {
				return
			}
			if err != nil {
				first = err
				return
			}
			e, err := decode(v, t)
			if err != nil {
				first = err
				return
			}
			elems = append(elems, e)
		})
		if err == nil {
			err = first
		}
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindArray, c: &container{elems: elems}}, nil
	case jsonparser.Object:
		c := &container{index: map[string]int{}}
		err := jsonparser.ObjectEach(raw, func(k, v []byte, t jsonparser.ValueType, _ int) error {
			e, err := decode(v, t)
			if err != nil {
				return err
			}
			// k is already unescaped and points into a reused buffer.
			c.set(string(k), e)
			return nil
		})
		if errors.Is(err, jsonparser.MalformedStringEscapeError) {
			// a key jsonparser cannot unescape, such as a lone surrogate
			return decodeStream(json.NewDecoder(bytes.NewReader(raw)))
		}
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, c: c}, nil
	}
	return Value{}, fmt.Errorf("unexpected JSON value type %s", typ)
}

func quote(raw []byte) []byte {
	q := make([]byte, 0, len(raw)+2)
	q = append(q, '"')
	q = append(q, raw...)
	return append(q, '"')
}

// decodeStream reads one value from dec token by token. It is the slow path
// for input jsonparser cannot unescape and keeps member order the same way.
func decodeStream(dec *json.Decoder) (Value, error) {
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		n, err := strconv.ParseFloat(t.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, err
		}
		return Number(n), nil
	case json.Delim:
		if t == '[' {
			var elems []Value
			for dec.More() {
				e, err := decodeStream(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, c: &container{elems: elems}}, nil
		}
		c := &container{index: map[string]int{}}
		for dec.More() {
			k, err := dec.Token()
			if err != nil {
				return Value{}, err
			}
			e, err := decodeStream(dec)
			if err != nil {
				return Value{}, err
			}
			c.set(k.(string), e)
		}
		if _, err := dec.Token(); err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, c: c}, nil
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// syntaxError builds the user-facing parse error for data, which is known to
// be invalid.
func syntaxError(data []byte) error {
	var target json.RawMessage
	err := json.Unmarshal(data, &target)
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		if err == nil {
			return errs.New(errs.ErrCodeInvalidJSON, "invalid JSON")
		}
		return errs.New(errs.ErrCodeInvalidJSON, "%s", err.Error())
	}
	line, col := position(data, se.Offset)
	return errs.New(errs.ErrCodeInvalidJSON, "%s (line %d, column %d)", se.Error(), line, col)
}

// position converts a syntax error offset, which counts the offending byte,
// into the 1-based line and column of that byte.
func position(data []byte, offset int64) (line, col int) {
	if offset > 0 {
		offset--
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, c := range data[:offset] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
