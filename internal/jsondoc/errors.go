package jsondoc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a path resolution failure.
type ErrorKind int

const (
	// NotFound: an intermediate or final key does not exist and creation is
	// disallowed, or a named record is absent from a record list.
	NotFound ErrorKind = iota
	// TypeMismatch: a segment implies a mapping but the current value is a
	// sequence or scalar, or vice versa.
	TypeMismatch
	// IndexOutOfRange: a sequence index beyond the sequence length.
	IndexOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "path not found"
	case TypeMismatch:
		return "type mismatch"
	case IndexOutOfRange:
		return "index out of range"
	default:
		return "unknown"
	}
}

// PathError reports a failure to resolve a path expression, with the prefix
// that was consumed up to and including the failing segment.
type PathError struct {
	Kind   ErrorKind
	Expr   string
	At     string
	Detail string
}

func (e *PathError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at %q in path %q", e.Kind, e.At, e.Expr)
	}
	return fmt.Sprintf("%s at %q in path %q: %s", e.Kind, e.At, e.Expr, e.Detail)
}

// KindOf returns the ErrorKind of err if it is (or wraps) a PathError.
func KindOf(err error) (ErrorKind, bool) {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// IsNotFound reports whether err is a PathError of kind NotFound.
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == NotFound
}
