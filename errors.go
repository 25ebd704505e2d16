package tyck

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodePattern        = "pattern"
	CodeInvalidEnum    = "invalid_enum"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidFormat  = "invalid_format"
	CodeInvalidUnion   = "invalid_union"
	CodeNotMultiple    = "not_multiple"
	CodeNotFinite      = "not_finite"
	CodeNotUnique      = "not_unique"
	CodeParseError     = "parse_error"
	CodeOverflow       = "overflow"
	CodeFrozen         = "frozen_instance"
	// Custom validator hooks report under this code unless they raise Issues
	// of their own.
	CodeCustomRule = "custom_rule"
	// No engine was registered before a schema was instantiated.
	CodeEngineUnavailable = "engine_unavailable"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
	// Rule optionally records the validator hook name that produced this issue.
	Rule string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ---- build-time errors ----
//
// Malformed schema construction surfaces immediately at the call that caused
// it, never at instantiation time. These are distinct from Issues, which carry
// validation failures of instance data.

// TypeMismatchError reports a constraint applied to an incompatible kind,
// e.g. a string-only constraint on a number descriptor.
type TypeMismatchError struct {
	Constraint string
	Kind       Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("tyck: constraint %q is not applicable to kind %s", e.Constraint, e.Kind)
}

// SchemaDefinitionError reports malformed schema construction: duplicate
// field names, invalid identifiers, empty Merge input, and similar.
type SchemaDefinitionError struct {
	Reason string
}

func (e *SchemaDefinitionError) Error() string {
	return "tyck: " + e.Reason
}

func schemaDefErrf(format string, args ...any) *SchemaDefinitionError {
	return &SchemaDefinitionError{Reason: fmt.Sprintf(format, args...)}
}

// FieldNotFoundError reports an algebra operation referencing a field name
// absent from the source schema.
type FieldNotFoundError struct {
	Field  string
	Schema string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("tyck: field %q not found in schema %q", e.Field, e.Schema)
}
