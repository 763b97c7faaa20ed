package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Model URNs are interpolated into outbound Model Derivative request paths.
// Anything outside the URL-safe Base64 alphabet could redirect the request
// (path traversal, protocol or fragment injection), so the allow-list below
// is the SSRF boundary and must run before any URL is built.

const maxModelURNLength = 1000

func ValidateModelURN(urn string) error {
	if urn == "" {
		return WrapError(ErrInvalidIdentifier, "validate model_urn", errors.New("model urn is required"))
	}
	if len(urn) > maxModelURNLength {
		return WrapError(ErrInvalidIdentifier, "validate model_urn",
			fmt.Errorf("model urn exceeds maximum length of %d", maxModelURNLength))
	}
	for _, r := range urn {
		if !isURLSafeBase64Rune(r) {
			return WrapError(ErrInvalidIdentifier, "validate model_urn",
				fmt.Errorf("model urn contains disallowed character %q", r))
		}
	}
	if strings.Contains(urn, "..") || strings.Contains(urn, "//") || strings.Contains(urn, "#") {
		return WrapError(ErrInvalidIdentifier, "validate model_urn",
			errors.New("model urn contains path traversal pattern"))
	}
	return nil
}

// ValidateViewableGUID accepts only a canonical UUID, rejecting urn: prefixes,
// braces and every other form uuid.Parse would otherwise tolerate.
func ValidateViewableGUID(guid string) error {
	parsed, err := uuid.Parse(guid)
	if err != nil {
		return WrapError(ErrInvalidIdentifier, "validate viewable_guid", err)
	}
	if !strings.EqualFold(guid, parsed.String()) {
		return WrapError(ErrInvalidIdentifier, "validate viewable_guid",
			fmt.Errorf("viewable guid %q is not in canonical form", guid))
	}
	return nil
}

func isURLSafeBase64Rune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-', r == '_':
		return true
	default:
		return false
	}
}
