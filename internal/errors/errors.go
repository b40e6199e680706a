// Package errors defines the typed error values the index and CLI return,
// and aggregates batch/build failures with hashicorp/go-multierror instead
// of a hand-rolled accumulator.
package errors

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/standardbeagle/qfind/internal/types"
)

// ErrorType classifies a failure for logging and for callers that branch
// on error kind.
type ErrorType string

const (
	ErrorTypeBuild       ErrorType = "build"
	ErrorTypeQuery       ErrorType = "query"
	ErrorTypeAlloc       ErrorType = "alloc"
	ErrorTypePathTooLong ErrorType = "path_too_long"
	ErrorTypeStat        ErrorType = "stat"
	ErrorTypePermission  ErrorType = "permission"
	ErrorTypeCompression ErrorType = "compression"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeInternal    ErrorType = "internal"
)

// BuildError represents a failure during index build or commit-updates.
type BuildError struct {
	Type        ErrorType
	FileID      types.FileID
	FilePath    string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewBuildError creates a build error with the given operation context.
func NewBuildError(op string, err error) *BuildError {
	return &BuildError{
		Type:       ErrorTypeBuild,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithFile attaches file context to the error.
func (e *BuildError) WithFile(fileID types.FileID, path string) *BuildError {
	e.FileID = fileID
	e.FilePath = path
	return e
}

// WithRecoverable marks whether the failed operation can be retried.
func (e *BuildError) WithRecoverable(recoverable bool) *BuildError {
	e.Recoverable = recoverable
	return e
}

func (e *BuildError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

func (e *BuildError) Unwrap() error { return e.Underlying }

// IsRecoverable reports whether the build error can be retried.
func (e *BuildError) IsRecoverable() bool { return e.Recoverable }

// AllocError represents a failure to grow a posting list, trie arena, or
// slab-allocated buffer.
type AllocError struct {
	Operation  string
	Requested  int
	Underlying error
}

// NewAllocError creates an allocation-failure error.
func NewAllocError(op string, requested int, err error) *AllocError {
	return &AllocError{Operation: op, Requested: requested, Underlying: err}
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("alloc failed during %s (requested %d): %v", e.Operation, e.Requested, e.Underlying)
}

func (e *AllocError) Unwrap() error { return e.Underlying }

// PathTooLongError is returned when a path exceeds the trie's maximum
// depth or length during insertion.
type PathTooLongError struct {
	Path   string
	Limit  int
	Actual int
}

// NewPathTooLongError creates a path-too-long error.
func NewPathTooLongError(path string, limit, actual int) *PathTooLongError {
	return &PathTooLongError{Path: path, Limit: limit, Actual: actual}
}

func (e *PathTooLongError) Error() string {
	return fmt.Sprintf("path %q exceeds limit (%d > %d)", e.Path, e.Actual, e.Limit)
}

// QueryError represents a failure evaluating a search query.
type QueryError struct {
	Type       ErrorType
	Pattern    string
	Underlying error
	Timestamp  time.Time
}

// NewQueryError creates a query error for the given pattern.
func NewQueryError(pattern string, err error) *QueryError {
	return &QueryError{
		Type:       ErrorTypeQuery,
		Pattern:    pattern,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed for pattern %q: %v", e.Pattern, e.Underlying)
}

func (e *QueryError) Unwrap() error { return e.Underlying }

// FileError represents a stat/open failure for a single path encountered
// during a directory walk or watch event.
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a file error, classifying permission failures
// distinctly from other stat/open failures.
func NewFileError(op, path string, err error) *FileError {
	errType := ErrorTypeStat
	if isPermissionError(err) {
		errType = ErrorTypePermission
	}
	return &FileError{
		Type:       errType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

func (e *FileError) Unwrap() error { return e.Underlying }

// CompressionError wraps a failure from the posting-list compression
// context (s2 writer/reader reuse across a commit).
type CompressionError struct {
	Operation  string
	Underlying error
}

// NewCompressionError creates a compression-context error.
func NewCompressionError(op string, err error) *CompressionError {
	return &CompressionError{Operation: op, Underlying: err}
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compression %s failed: %v", e.Operation, e.Underlying)
}

func (e *CompressionError) Unwrap() error { return e.Underlying }

// ConfigError represents a malformed or invalid configuration field.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a config error for the given field.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// Append accumulates err into agg using hashicorp/go-multierror, returning
// the aggregated error (or agg unchanged if err is nil). Used by a batch
// commit or bulk build pass to collect per-entry failures without aborting
// the whole pass.
func Append(agg error, err error) error {
	if err == nil {
		return agg
	}
	return multierror.Append(agg, err)
}
