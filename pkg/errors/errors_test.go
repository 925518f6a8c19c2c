package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeInvalidPath, "%q does not address a value", "root.x")
	if got, want := err.Error(), `INVALID_PATH: "root.x" does not address a value`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("unexpected end of input")
	wrapped := Wrap(ErrCodeInvalidJSON, cause, "invalid JSON")
	if got, want := wrapped.Error(), "INVALID_JSON: invalid JSON: unexpected end of input"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should see the cause")
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeFileNotFound, "data.json not found")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidQuery, "x"), ErrCodeInvalidQuery, true},
		{"other code", New(ErrCodeInvalidQuery, "x"), ErrCodeInvalidJSON, false},
		{"outer code of a chain", Wrap(ErrCodeInvalidInput, inner, "read"), ErrCodeInvalidInput, true},
		{"inner code of a chain", Wrap(ErrCodeInvalidInput, inner, "read"), ErrCodeFileNotFound, true},
		{"behind fmt.Errorf", fmt.Errorf("previous document: %w", inner), ErrCodeFileNotFound, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	chain := Wrap(ErrCodeInvalidJSON, New(ErrCodeTooLarge, "x"), "y")
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"error", New(ErrCodeInvalidPath, "x"), ErrCodeInvalidPath},
		{"outermost wins", chain, ErrCodeInvalidJSON},
		{"behind fmt.Errorf", fmt.Errorf("a.json: %w", chain), ErrCodeInvalidJSON},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	tests := map[Code]Category{
		ErrCodeInvalidJSON:     CategoryInvalid,
		ErrCodeEmptyInput:      CategoryInvalid,
		ErrCodeInvalidFormat:   CategoryInvalid,
		ErrCodeSessionNotFound: CategoryNotFound,
		ErrCodeFileNotFound:    CategoryNotFound,
		ErrCodeTooLarge:        CategoryLimit,
		ErrCodeUnsupported:     CategoryUnsupported,
		ErrCodeInternal:        CategoryInternal,
		Code("SOMETHING_ELSE"):  CategoryInternal,
	}
	for code, want := range tests {
		if got := code.Category(); got != want {
			t.Errorf("%s.Category() = %v, want %v", code, got, want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	parse := Wrap(ErrCodeInvalidJSON, errors.New("syntax"), "unexpected '}' (line 3, column 1)")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"error", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"cause is hidden", parse, "unexpected '}' (line 3, column 1)"},
		{"context is kept", fmt.Errorf("data.json: %w", parse), "data.json: unexpected '}' (line 3, column 1)"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
