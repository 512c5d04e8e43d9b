package errors

import "fmt"

// ErrorCode numbers consensus errors. Codes are part of consensus: every
// node must attach the same code to the same rejection, so codes are never
// reused or renumbered.
type ErrorCode uint16

func (ec ErrorCode) String() string {
	return fmt.Sprintf("[Consensus Error Code: %d]", uint16(ec))
}

// FailureCode numbers internal failures. Failures abort block processing and
// are never surfaced as consensus outcomes.
type FailureCode uint16

func (fc FailureCode) String() string {
	return fmt.Sprintf("[Failure Code: %d]", uint16(fc))
}

const (
	// basic errors 10000 - 10999: structural problems visible without state
	ErrCodeSerializedObjectParsingError     ErrorCode = 10000
	ErrCodeProtocolVersionParsingError      ErrorCode = 10001
	ErrCodeInvalidStateTransitionTypeError  ErrorCode = 10002
	ErrCodeMissingRequiredFieldError        ErrorCode = 10003
	ErrCodeInvalidFieldTypeError            ErrorCode = 10004
	ErrCodeValueOutOfRangeError             ErrorCode = 10005
	ErrCodeInvalidDocumentTypeError         ErrorCode = 10006
	ErrCodeUnknownVersionError              ErrorCode = 10007
	ErrCodeEmptyDocumentsBatchError         ErrorCode = 10008
	ErrCodeInvalidDocumentTransitionAction  ErrorCode = 10009
	ErrCodeInvalidTokenTransitionAction     ErrorCode = 10010
	ErrCodeDocumentNotMutableError          ErrorCode = 10011
	ErrCodeInvalidContractVersionError      ErrorCode = 10012

	// signature errors 20000 - 20999
	ErrCodeInvalidSignatureError                        ErrorCode = 20000
	ErrCodeMissingPublicKeyError                        ErrorCode = 20001
	ErrCodePublicKeyIsDisabledError                     ErrorCode = 20002
	ErrCodeWrongPublicKeyPurposeError                   ErrorCode = 20003
	ErrCodeInvalidSignaturePublicKeySecurityLevelError  ErrorCode = 20004
	ErrCodeUnsupportedKeyTypeError                      ErrorCode = 20005

	// fee errors 30000 - 30999
	ErrCodeBalanceIsNotEnoughError           ErrorCode = 30000
	ErrCodeIdentityInsufficientBalanceError  ErrorCode = 30001
	ErrCodeFeeOverflowError                  ErrorCode = 30002

	// state errors 40000 - 40999
	ErrCodeIdentityNotFoundError                        ErrorCode = 40000
	ErrCodeIdentityAlreadyExistsError                   ErrorCode = 40001
	ErrCodeDataContractNotPresentError                  ErrorCode = 40002
	ErrCodeDataContractAlreadyPresentError              ErrorCode = 40003
	ErrCodeDocumentAlreadyPresentError                  ErrorCode = 40004
	ErrCodeDocumentNotFoundError                        ErrorCode = 40005
	ErrCodeDocumentOwnerMismatchError                   ErrorCode = 40006
	ErrCodeInvalidDocumentRevisionError                 ErrorCode = 40007
	ErrCodeDocumentTimestampWindowViolationError        ErrorCode = 40008
	ErrCodeInvalidIdentityNonceError                    ErrorCode = 40009
	ErrCodeInvalidIdentityRevisionError                 ErrorCode = 40010
	ErrCodeAssetLockAlreadyUsedError                    ErrorCode = 40011
	ErrCodeDataTriggerConditionError                    ErrorCode = 40012
	ErrCodeDataTriggerAuthorizationError                ErrorCode = 40013
	ErrCodeIdentityDoesNotHaveEnoughTokenBalanceError   ErrorCode = 40014
	ErrCodeIdentityTokenAccountFrozenError              ErrorCode = 40015
	ErrCodeTokenIsPausedError                           ErrorCode = 40016
	ErrCodeTokenNotFoundError                           ErrorCode = 40017
	ErrCodeDocumentNotForSaleError                      ErrorCode = 40018
	ErrCodeInvalidDocumentPriceError                    ErrorCode = 40019
	ErrCodeDataContractOwnerMismatchError               ErrorCode = 40020
	ErrCodeTokenMintOverMaxSupplyError                  ErrorCode = 40021
)

const (
	FailureCodeUnknownFailure        FailureCode = 2000
	FailureCodeStorageFailure        FailureCode = 2001
	FailureCodeEncodingFailure       FailureCode = 2002
	FailureCodeCorruptedStateFailure FailureCode = 2003
	FailureCodeExecutionFailure      FailureCode = 2004
)
