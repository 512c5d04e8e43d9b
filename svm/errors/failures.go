package errors

import "fmt"

// UnknownFailure captures an uncategorized internal error.
type UnknownFailure struct {
	err error
}

func NewUnknownFailure(err error) *UnknownFailure {
	return &UnknownFailure{err: err}
}

func (e *UnknownFailure) Error() string {
	return fmt.Sprintf("%s unknown failure: %s", e.FailureCode(), e.err)
}

func (e *UnknownFailure) FailureCode() FailureCode {
	return FailureCodeUnknownFailure
}

func (e *UnknownFailure) Unwrap() error { return e.err }

// StorageFailure captures a fault reported by the storage collaborator.
type StorageFailure struct {
	err error
}

func NewStorageFailure(err error) *StorageFailure {
	return &StorageFailure{err: err}
}

func NewStorageFailuref(msg string, args ...interface{}) *StorageFailure {
	return &StorageFailure{err: fmt.Errorf(msg, args...)}
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("%s storage returned unsuccessful: %s", e.FailureCode(), e.err)
}

func (e *StorageFailure) FailureCode() FailureCode {
	return FailureCodeStorageFailure
}

func (e *StorageFailure) Unwrap() error { return e.err }

// EncodingFailure captures a fault while encoding or decoding trusted state.
// Decoding of user-supplied bytes is a consensus error, not this.
type EncodingFailure struct {
	err error
}

func NewEncodingFailuref(msg string, args ...interface{}) *EncodingFailure {
	return &EncodingFailure{err: fmt.Errorf(msg, args...)}
}

func (e *EncodingFailure) Error() string {
	return fmt.Sprintf("%s encoding failed: %s", e.FailureCode(), e.err)
}

func (e *EncodingFailure) FailureCode() FailureCode {
	return FailureCodeEncodingFailure
}

func (e *EncodingFailure) Unwrap() error { return e.err }

// CorruptedStateFailure captures a broken storage invariant, e.g. an entity
// marked present whose bytes are missing.
type CorruptedStateFailure struct {
	msg string
}

func NewCorruptedStateFailuref(msg string, args ...interface{}) *CorruptedStateFailure {
	return &CorruptedStateFailure{msg: fmt.Sprintf(msg, args...)}
}

func (e *CorruptedStateFailure) Error() string {
	return fmt.Sprintf("%s corrupted state: %s", e.FailureCode(), e.msg)
}

func (e *CorruptedStateFailure) FailureCode() FailureCode {
	return FailureCodeCorruptedStateFailure
}

// ExecutionFailure captures a programming invariant violation inside the
// execution engine.
type ExecutionFailure struct {
	msg string
}

func NewExecutionFailuref(msg string, args ...interface{}) *ExecutionFailure {
	return &ExecutionFailure{msg: fmt.Sprintf(msg, args...)}
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("%s execution failure: %s", e.FailureCode(), e.msg)
}

func (e *ExecutionFailure) FailureCode() FailureCode {
	return FailureCodeExecutionFailure
}
