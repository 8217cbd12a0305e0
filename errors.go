package tablescout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaMismatch matches a SchemaMismatchError.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrSourceUnavailable matches a SourceUnavailableError.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrInvalidCenter is returned for a search center outside the valid
	// coordinate ranges.
	ErrInvalidCenter = errors.New("invalid search center")
)

// SchemaMismatchError reports a table lacking the columns an operation needs.
// It is not retryable.
type SchemaMismatchError struct {
	Table    string
	Required []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("table %q does not have all of the columns: %s", e.Table, strings.Join(e.Required, ", "))
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// SourceUnavailableError wraps a failure of the underlying data source.
// Callers may retry.
type SourceUnavailableError struct {
	Op  string
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s: data source unavailable: %v", e.Op, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

func (e *SourceUnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }
