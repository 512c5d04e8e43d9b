package errors

import (
	"fmt"

	"github.com/strataplatform/strata-go/model/strata"
)

// SerializedObjectParsingError indicates undecodable wire bytes.
type SerializedObjectParsingError struct {
	parsingError error
}

func NewSerializedObjectParsingError(parsingError error) *SerializedObjectParsingError {
	return &SerializedObjectParsingError{parsingError: parsingError}
}

func (e *SerializedObjectParsingError) Error() string {
	return fmt.Sprintf("%s parsing of serialized object failed: %s", e.Code(), e.parsingError)
}

func (e *SerializedObjectParsingError) Code() ErrorCode {
	return ErrCodeSerializedObjectParsingError
}

// ProtocolVersionParsingError indicates an unreadable or unsupported
// $format_version on a decoded object.
type ProtocolVersionParsingError struct {
	received uint16
}

func NewProtocolVersionParsingError(received uint16) *ProtocolVersionParsingError {
	return &ProtocolVersionParsingError{received: received}
}

func (e *ProtocolVersionParsingError) Error() string {
	return fmt.Sprintf("%s unsupported object format version %d", e.Code(), e.received)
}

func (e *ProtocolVersionParsingError) Code() ErrorCode {
	return ErrCodeProtocolVersionParsingError
}

// InvalidStateTransitionTypeError indicates an unknown transition
// discriminator.
type InvalidStateTransitionTypeError struct {
	received uint8
}

func NewInvalidStateTransitionTypeError(received uint8) *InvalidStateTransitionTypeError {
	return &InvalidStateTransitionTypeError{received: received}
}

func (e *InvalidStateTransitionTypeError) Error() string {
	return fmt.Sprintf("%s invalid state transition type %d", e.Code(), e.received)
}

func (e *InvalidStateTransitionTypeError) Code() ErrorCode {
	return ErrCodeInvalidStateTransitionTypeError
}

// MissingRequiredFieldError indicates a document is missing a field its type
// requires.
type MissingRequiredFieldError struct {
	Field string
}

func NewMissingRequiredFieldError(field string) *MissingRequiredFieldError {
	return &MissingRequiredFieldError{Field: field}
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s missing required field %q", e.Code(), e.Field)
}

func (e *MissingRequiredFieldError) Code() ErrorCode {
	return ErrCodeMissingRequiredFieldError
}

// InvalidFieldTypeError indicates a field value of the wrong shape.
type InvalidFieldTypeError struct {
	Field    string
	Expected string
}

func NewInvalidFieldTypeError(field, expected string) *InvalidFieldTypeError {
	return &InvalidFieldTypeError{Field: field, Expected: expected}
}

func (e *InvalidFieldTypeError) Error() string {
	return fmt.Sprintf("%s field %q is not of expected type %s", e.Code(), e.Field, e.Expected)
}

func (e *InvalidFieldTypeError) Code() ErrorCode {
	return ErrCodeInvalidFieldTypeError
}

// ValueOutOfRangeError indicates a field value outside its declared bounds.
type ValueOutOfRangeError struct {
	Field string
	Msg   string
}

func NewValueOutOfRangeErrorf(field, msg string, args ...interface{}) *ValueOutOfRangeError {
	return &ValueOutOfRangeError{Field: field, Msg: fmt.Sprintf(msg, args...)}
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("%s field %q out of range: %s", e.Code(), e.Field, e.Msg)
}

func (e *ValueOutOfRangeError) Code() ErrorCode {
	return ErrCodeValueOutOfRangeError
}

// InvalidDocumentTypeError indicates a document type the contract does not
// define.
type InvalidDocumentTypeError struct {
	DocumentType string
	ContractID   strata.Identifier
}

func NewInvalidDocumentTypeError(documentType string, contractID strata.Identifier) *InvalidDocumentTypeError {
	return &InvalidDocumentTypeError{DocumentType: documentType, ContractID: contractID}
}

func (e *InvalidDocumentTypeError) Error() string {
	return fmt.Sprintf("%s contract %s does not define document type %q", e.Code(), e.ContractID, e.DocumentType)
}

func (e *InvalidDocumentTypeError) Code() ErrorCode {
	return ErrCodeInvalidDocumentTypeError
}

// EmptyDocumentsBatchError indicates a batch with no sub-transitions.
type EmptyDocumentsBatchError struct{}

func NewEmptyDocumentsBatchError() *EmptyDocumentsBatchError {
	return &EmptyDocumentsBatchError{}
}

func (e *EmptyDocumentsBatchError) Error() string {
	return fmt.Sprintf("%s documents batch contains no transitions", e.Code())
}

func (e *EmptyDocumentsBatchError) Code() ErrorCode {
	return ErrCodeEmptyDocumentsBatchError
}

// DocumentNotMutableError indicates a replace on a type declared immutable.
type DocumentNotMutableError struct {
	DocumentType string
}

func NewDocumentNotMutableError(documentType string) *DocumentNotMutableError {
	return &DocumentNotMutableError{DocumentType: documentType}
}

func (e *DocumentNotMutableError) Error() string {
	return fmt.Sprintf("%s documents of type %q are not mutable", e.Code(), e.DocumentType)
}

func (e *DocumentNotMutableError) Code() ErrorCode {
	return ErrCodeDocumentNotMutableError
}

// InvalidContractVersionError indicates a contract update whose version does
// not increment the stored version by exactly one.
type InvalidContractVersionError struct {
	Expected uint32
	Received uint32
}

func NewInvalidContractVersionError(expected, received uint32) *InvalidContractVersionError {
	return &InvalidContractVersionError{Expected: expected, Received: received}
}

func (e *InvalidContractVersionError) Error() string {
	return fmt.Sprintf("%s contract version must be %d, got %d", e.Code(), e.Expected, e.Received)
}

func (e *InvalidContractVersionError) Code() ErrorCode {
	return ErrCodeInvalidContractVersionError
}

// UnknownVersionError indicates a request naming a feature version this build
// does not implement. The dispatch-level failure carries the same
// information; this is its consensus-error form for user-supplied versions.
type UnknownVersionError struct {
	Method   string
	Received uint16
}

func NewUnknownVersionError(method string, received uint16) *UnknownVersionError {
	return &UnknownVersionError{Method: method, Received: received}
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("%s unknown version %d for %s", e.Code(), e.Received, e.Method)
}

func (e *UnknownVersionError) Code() ErrorCode {
	return ErrCodeUnknownVersionError
}

// InvalidDocumentTransitionActionError indicates a document sub-transition
// with an action outside the known set.
type InvalidDocumentTransitionActionError struct {
	Received uint8
}

func NewInvalidDocumentTransitionActionError(received uint8) *InvalidDocumentTransitionActionError {
	return &InvalidDocumentTransitionActionError{Received: received}
}

func (e *InvalidDocumentTransitionActionError) Error() string {
	return fmt.Sprintf("%s invalid document transition action %d", e.Code(), e.Received)
}

func (e *InvalidDocumentTransitionActionError) Code() ErrorCode {
	return ErrCodeInvalidDocumentTransitionAction
}

// InvalidTokenTransitionActionError indicates a token sub-transition with an
// action outside the known set.
type InvalidTokenTransitionActionError struct {
	Received uint8
}

func NewInvalidTokenTransitionActionError(received uint8) *InvalidTokenTransitionActionError {
	return &InvalidTokenTransitionActionError{Received: received}
}

func (e *InvalidTokenTransitionActionError) Error() string {
	return fmt.Sprintf("%s invalid token transition action %d", e.Code(), e.Received)
}

func (e *InvalidTokenTransitionActionError) Code() ErrorCode {
	return ErrCodeInvalidTokenTransitionAction
}
