// Package validation carries consensus errors through the validation
// pipeline.
package validation

import (
	"github.com/hashicorp/go-multierror"

	"github.com/strataplatform/strata-go/svm/errors"
)

// Void is the data type of results that only carry errors.
type Void = struct{}

// Result accumulates consensus errors around an optional value. A result is
// valid iff its error list is empty; the error list is ordered and every node
// must produce it identically.
type Result[T any] struct {
	data    T
	hasData bool
	errs    []errors.ConsensusError
}

// NewResult returns an empty, valid result.
func NewResult[T any]() *Result[T] {
	return &Result[T]{}
}

// NewResultWithData returns a valid result carrying data.
func NewResultWithData[T any](data T) *Result[T] {
	return &Result[T]{data: data, hasData: true}
}

// NewResultWithError returns an invalid result.
func NewResultWithError[T any](err errors.ConsensusError) *Result[T] {
	return &Result[T]{errs: []errors.ConsensusError{err}}
}

// NewSimpleResult returns an empty data-less result.
func NewSimpleResult() *Result[Void] {
	return &Result[Void]{}
}

// NewSimpleResultWithError returns an invalid data-less result.
func NewSimpleResultWithError(err errors.ConsensusError) *Result[Void] {
	return &Result[Void]{errs: []errors.ConsensusError{err}}
}

// IsValid returns true iff no consensus errors were collected.
func (r *Result[T]) IsValid() bool {
	return len(r.errs) == 0
}

// AddError appends a consensus error, invalidating the result.
func (r *Result[T]) AddError(err errors.ConsensusError) {
	r.errs = append(r.errs, err)
}

// AddErrors appends consensus errors in order.
func (r *Result[T]) AddErrors(errs ...errors.ConsensusError) {
	r.errs = append(r.errs, errs...)
}

// Errors returns the ordered consensus error list.
func (r *Result[T]) Errors() []errors.ConsensusError {
	return r.errs
}

// FirstError returns the first collected error, or nil.
func (r *Result[T]) FirstError() errors.ConsensusError {
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[0]
}

// CombinedError flattens the error list into a single error, or nil when the
// result is valid. Intended for logging and test assertions; consensus code
// must inspect the ordered list instead.
func (r *Result[T]) CombinedError() error {
	var combined *multierror.Error
	for _, err := range r.errs {
		combined = multierror.Append(combined, err)
	}
	return combined.ErrorOrNil()
}

// SetData attaches data to the result.
func (r *Result[T]) SetData(data T) {
	r.data = data
	r.hasData = true
}

// Data returns the attached data. Callers must check IsValid or HasData
// first; the zero value is returned otherwise.
func (r *Result[T]) Data() T {
	return r.data
}

// HasData tells whether data was attached.
func (r *Result[T]) HasData() bool {
	return r.hasData
}

// MergeErrors appends the other result's errors, preserving order.
func (r *Result[T]) MergeErrors(other interface{ Errors() []errors.ConsensusError }) {
	r.errs = append(r.errs, other.Errors()...)
}

// WithErrorsFrom converts an invalid result of one data type into an invalid
// result of another, carrying the errors across. It must only be used on
// invalid results.
func WithErrorsFrom[T any](other interface{ Errors() []errors.ConsensusError }) *Result[T] {
	r := NewResult[T]()
	r.errs = append(r.errs, other.Errors()...)
	return r
}
