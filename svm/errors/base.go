// Package errors defines the two disjoint error families of the processing
// core.
//
// Consensus errors are deterministic outcomes of invalid user input. They are
// collected into validation results and every node must produce the same
// ones; they never abort processing.
//
// Failures are internal faults (storage, encoding, broken invariants). They
// abort the current block and are never converted into consensus errors,
// since an environment-specific fault surfaced as a rejection could make
// nodes diverge.
package errors

import (
	stderrors "errors"
)

// ConsensusError is a structured, deterministic validation failure.
type ConsensusError interface {
	error
	// Code returns the consensus error code of this error.
	Code() ErrorCode
}

// Failure is an internal fault that halts block processing.
type Failure interface {
	error
	// FailureCode returns the failure code of this failure.
	FailureCode() FailureCode
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// HasErrorCode tells whether err is a consensus error with the given code.
func HasErrorCode(err error, code ErrorCode) bool {
	var ce ConsensusError
	if !As(err, &ce) {
		return false
	}
	return ce.Code() == code
}

// SplitErrorTypes separates an error into its consensus and failure parts.
// Anything that is neither is captured as an unknown failure: an
// uncategorized error must never be allowed to look like a deterministic
// rejection.
func SplitErrorTypes(err error) (ConsensusError, Failure) {
	if err == nil {
		return nil, nil
	}
	var failure Failure
	if As(err, &failure) {
		return nil, failure
	}
	var consensus ConsensusError
	if As(err, &consensus) {
		return consensus, nil
	}
	return nil, NewUnknownFailure(err)
}
