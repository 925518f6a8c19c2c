package errors

import (
	"strings"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "alice", false},
		{"with spaces", "  new york ", false},
		{"with tab", "a\tb", false},
		{"unicode", "grüße", false},

		{"too long", strings.Repeat("a", MaxQueryLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"escape", "\x1b[31m", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidQuery) {
				t.Errorf("ValidateQuery(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidQuery)
			}
		})
	}
}

func TestValidateEditPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"root", "root", false},
		{"nested", "root.users.0.name", false},
		{"without root", "users.0", false},
		{"escaped dot", `root.a\.b`, false},

		{"empty", "", true},
		{"null byte", "root.\x00", true},
		{"too long", strings.Repeat("a.", MaxPathLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEditPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEditPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data.json", false},
		{"absolute", "/tmp/data.json", false},
		{"stdin", "-", false},

		{"empty", "", true},
		{"null byte", "data\x00.json", true},
		{"newline", "data\n.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentSize(t *testing.T) {
	if err := ValidateDocumentSize(MaxDocumentSize); err != nil {
		t.Errorf("limit should be accepted: %v", err)
	}
	err := ValidateDocumentSize(MaxDocumentSize + 1)
	if !Is(err, ErrCodeTooLarge) {
		t.Errorf("ValidateDocumentSize() = %v, want %v", err, ErrCodeTooLarge)
	}
}
