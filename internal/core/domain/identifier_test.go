package domain

import (
	"strings"
	"testing"
)

func TestValidateModelURNAcceptsURLSafeBase64(t *testing.T) {
	valid := []string{
		"a",
		"dXJuOmFkc2sub2JqZWN0czpvcy5vYmplY3Q",
		"ABC_def-123",
		strings.Repeat("A", 1000),
	}
	for _, urn := range valid {
		if err := ValidateModelURN(urn); err != nil {
			t.Fatalf("ValidateModelURN(%q) error = %v", urn, err)
		}
	}
}

func TestValidateModelURNRejectsUnsafeInput(t *testing.T) {
	invalid := []string{
		"",
		strings.Repeat("A", 1001),
		"abc/def",
		"abc.def",
		"abc#frag",
		"abc?query=1",
		"abc def",
		"abc%2Fdef",
		"https://evil.example/abc",
		"abc\ndef",
	}
	for _, urn := range invalid {
		err := ValidateModelURN(urn)
		if err == nil {
			t.Fatalf("ValidateModelURN(%q) expected error", urn)
		}
		if !IsKind(err, ErrInvalidIdentifier) {
			t.Fatalf("ValidateModelURN(%q) expected ErrInvalidIdentifier, got %v", urn, err)
		}
	}
}

func TestValidateViewableGUID(t *testing.T) {
	if err := ValidateViewableGUID("6fac95cb-af5d-3e4f-b943-8a7f55847ff1"); err != nil {
		t.Fatalf("canonical uuid rejected: %v", err)
	}
	if err := ValidateViewableGUID("6FAC95CB-AF5D-3E4F-B943-8A7F55847FF1"); err != nil {
		t.Fatalf("uppercase canonical uuid rejected: %v", err)
	}

	invalid := []string{
		"",
		"not-a-uuid",
		"urn:uuid:6fac95cb-af5d-3e4f-b943-8a7f55847ff1",
		"{6fac95cb-af5d-3e4f-b943-8a7f55847ff1}",
		"6fac95cbaf5d3e4fb9438a7f55847ff1",
		"../metadata",
	}
	for _, guid := range invalid {
		err := ValidateViewableGUID(guid)
		if err == nil {
			t.Fatalf("ValidateViewableGUID(%q) expected error", guid)
		}
		if !IsKind(err, ErrInvalidIdentifier) {
			t.Fatalf("ValidateViewableGUID(%q) expected ErrInvalidIdentifier, got %v", guid, err)
		}
	}
}
