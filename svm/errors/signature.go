package errors

import (
	"fmt"

	"github.com/strataplatform/strata-go/model/strata"
)

// InvalidSignatureError indicates a signature that does not verify against
// the claimed key.
type InvalidSignatureError struct {
	reason error
}

func NewInvalidSignatureError(reason error) *InvalidSignatureError {
	return &InvalidSignatureError{reason: reason}
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("%s invalid state transition signature: %s", e.Code(), e.reason)
}

func (e *InvalidSignatureError) Code() ErrorCode {
	return ErrCodeInvalidSignatureError
}

// MissingPublicKeyError indicates the signer identity has no key with the
// claimed id.
type MissingPublicKeyError struct {
	IdentityID strata.Identifier
	KeyID      strata.KeyID
}

func NewMissingPublicKeyError(identityID strata.Identifier, keyID strata.KeyID) *MissingPublicKeyError {
	return &MissingPublicKeyError{IdentityID: identityID, KeyID: keyID}
}

func (e *MissingPublicKeyError) Error() string {
	return fmt.Sprintf("%s identity %s has no public key %d", e.Code(), e.IdentityID, e.KeyID)
}

func (e *MissingPublicKeyError) Code() ErrorCode {
	return ErrCodeMissingPublicKeyError
}

// PublicKeyIsDisabledError indicates the claimed key was disabled before the
// transition.
type PublicKeyIsDisabledError struct {
	KeyID      strata.KeyID
	DisabledAt strata.Timestamp
}

func NewPublicKeyIsDisabledError(keyID strata.KeyID, disabledAt strata.Timestamp) *PublicKeyIsDisabledError {
	return &PublicKeyIsDisabledError{KeyID: keyID, DisabledAt: disabledAt}
}

func (e *PublicKeyIsDisabledError) Error() string {
	return fmt.Sprintf("%s public key %d was disabled at %d", e.Code(), e.KeyID, e.DisabledAt)
}

func (e *PublicKeyIsDisabledError) Code() ErrorCode {
	return ErrCodePublicKeyIsDisabledError
}

// WrongPublicKeyPurposeError indicates the claimed key's purpose does not
// permit this transition kind.
type WrongPublicKeyPurposeError struct {
	KeyPurpose      strata.KeyPurpose
	AllowedPurposes []strata.KeyPurpose
}

func NewWrongPublicKeyPurposeError(purpose strata.KeyPurpose, allowed []strata.KeyPurpose) *WrongPublicKeyPurposeError {
	return &WrongPublicKeyPurposeError{KeyPurpose: purpose, AllowedPurposes: allowed}
}

func (e *WrongPublicKeyPurposeError) Error() string {
	return fmt.Sprintf("%s key purpose %s not allowed, expected one of %v", e.Code(), e.KeyPurpose, e.AllowedPurposes)
}

func (e *WrongPublicKeyPurposeError) Code() ErrorCode {
	return ErrCodeWrongPublicKeyPurposeError
}

// InvalidSignaturePublicKeySecurityLevelError indicates the claimed key's
// security level does not meet the transition kind's requirement.
type InvalidSignaturePublicKeySecurityLevelError struct {
	SecurityLevel  strata.SecurityLevel
	AllowedLevels  []strata.SecurityLevel
}

func NewInvalidSignaturePublicKeySecurityLevelError(level strata.SecurityLevel, allowed []strata.SecurityLevel) *InvalidSignaturePublicKeySecurityLevelError {
	return &InvalidSignaturePublicKeySecurityLevelError{SecurityLevel: level, AllowedLevels: allowed}
}

func (e *InvalidSignaturePublicKeySecurityLevelError) Error() string {
	return fmt.Sprintf("%s key security level %s not allowed, expected one of %v", e.Code(), e.SecurityLevel, e.AllowedLevels)
}

func (e *InvalidSignaturePublicKeySecurityLevelError) Code() ErrorCode {
	return ErrCodeInvalidSignaturePublicKeySecurityLevelError
}

// UnsupportedKeyTypeError indicates a key type the signature verifier cannot
// handle.
type UnsupportedKeyTypeError struct {
	KeyType strata.KeyType
}

func NewUnsupportedKeyTypeError(keyType strata.KeyType) *UnsupportedKeyTypeError {
	return &UnsupportedKeyTypeError{KeyType: keyType}
}

func (e *UnsupportedKeyTypeError) Error() string {
	return fmt.Sprintf("%s unsupported key type %s", e.Code(), e.KeyType)
}

func (e *UnsupportedKeyTypeError) Code() ErrorCode {
	return ErrCodeUnsupportedKeyTypeError
}
