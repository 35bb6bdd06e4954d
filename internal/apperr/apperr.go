// Package apperr defines the pipeline's error taxonomy.
//
// Every fatal failure in the ETL belongs to one of four kinds:
//
//   - KindConfig:     missing env var, missing data directory, absent table
//   - KindParse:      unreadable input (only fatal at the run level; a single
//     malformed snapshot file is recoverable and never reaches this package)
//   - KindValidation: declared/runtime type mismatch after transform
//   - KindLoad:       SQL failure during truncate or insert
//
// Errors carry the offending resource (file, table, variable) so operators
// can act on the message without reading code. Kinds map onto the structured
// "type" field used in log output.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error.
type Kind int

const (
	KindConfig Kind = iota
	KindParse
	KindValidation
	KindLoad
)

// String returns the log-facing label for the kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	case KindLoad:
		return "sql"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline error naming the resource it concerns.
type Error struct {
	Kind     Kind
	Resource string // file path, table name, or env var name
	Err      error
}

func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config wraps err as a configuration error for the named resource.
func Config(resource string, err error) *Error {
	return &Error{Kind: KindConfig, Resource: resource, Err: err}
}

// Configf builds a configuration error from a format string.
func Configf(resource, format string, a ...any) *Error {
	return &Error{Kind: KindConfig, Resource: resource, Err: fmt.Errorf(format, a...)}
}

// Parse wraps err as a parse error for the named resource.
func Parse(resource string, err error) *Error {
	return &Error{Kind: KindParse, Resource: resource, Err: err}
}

// Validation builds a validation error.
func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Err: err}
}

// Load wraps err as a load error for the named table.
func Load(table string, err error) *Error {
	return &Error{Kind: KindLoad, Resource: table, Err: err}
}

// KindOf extracts the Kind from err, or ok=false when err is not an
// apperr.Error anywhere in its chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
