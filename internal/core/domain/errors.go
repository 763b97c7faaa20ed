package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAnalysisNotFound      = errors.New("analysis not found")
	ErrInvalidIdentifier     = errors.New("invalid identifier")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrManifestUnavailable   = errors.New("model manifest unavailable")
	ErrPropertiesUnavailable = errors.New("model properties unavailable")
	ErrNoViewableFound       = errors.New("no 3d viewable found in model")
	ErrTemporary             = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
