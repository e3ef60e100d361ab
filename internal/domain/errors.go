package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by model stores for unknown keys.
var ErrNotFound = errors.New("not found")

// SignatureError reports a docstring signature line that failed the grammar for a
// member whose owner is not exempt from validation. It aborts the build.
type SignatureError struct {
	QualifiedName string
	Line          string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid signature for %s: %s", e.QualifiedName, e.Line)
}
