package errors

import (
	"fmt"

	"github.com/strataplatform/strata-go/model/strata"
)

// IdentityNotFoundError indicates a referenced identity does not exist.
type IdentityNotFoundError struct {
	IdentityID strata.Identifier
}

func NewIdentityNotFoundError(identityID strata.Identifier) *IdentityNotFoundError {
	return &IdentityNotFoundError{IdentityID: identityID}
}

func (e *IdentityNotFoundError) Error() string {
	return fmt.Sprintf("%s identity %s not found", e.Code(), e.IdentityID)
}

func (e *IdentityNotFoundError) Code() ErrorCode {
	return ErrCodeIdentityNotFoundError
}

// IdentityAlreadyExistsError indicates a create for an existing identity.
type IdentityAlreadyExistsError struct {
	IdentityID strata.Identifier
}

func NewIdentityAlreadyExistsError(identityID strata.Identifier) *IdentityAlreadyExistsError {
	return &IdentityAlreadyExistsError{IdentityID: identityID}
}

func (e *IdentityAlreadyExistsError) Error() string {
	return fmt.Sprintf("%s identity %s already exists", e.Code(), e.IdentityID)
}

func (e *IdentityAlreadyExistsError) Code() ErrorCode {
	return ErrCodeIdentityAlreadyExistsError
}

// DataContractNotPresentError indicates a referenced contract does not exist.
type DataContractNotPresentError struct {
	ContractID strata.Identifier
}

func NewDataContractNotPresentError(contractID strata.Identifier) *DataContractNotPresentError {
	return &DataContractNotPresentError{ContractID: contractID}
}

func (e *DataContractNotPresentError) Error() string {
	return fmt.Sprintf("%s data contract %s is not present", e.Code(), e.ContractID)
}

func (e *DataContractNotPresentError) Code() ErrorCode {
	return ErrCodeDataContractNotPresentError
}

// DataContractAlreadyPresentError indicates a create for an existing
// contract.
type DataContractAlreadyPresentError struct {
	ContractID strata.Identifier
}

func NewDataContractAlreadyPresentError(contractID strata.Identifier) *DataContractAlreadyPresentError {
	return &DataContractAlreadyPresentError{ContractID: contractID}
}

func (e *DataContractAlreadyPresentError) Error() string {
	return fmt.Sprintf("%s data contract %s already present", e.Code(), e.ContractID)
}

func (e *DataContractAlreadyPresentError) Code() ErrorCode {
	return ErrCodeDataContractAlreadyPresentError
}

// DocumentAlreadyPresentError indicates a create for an existing document.
type DocumentAlreadyPresentError struct {
	DocumentID strata.Identifier
}

func NewDocumentAlreadyPresentError(documentID strata.Identifier) *DocumentAlreadyPresentError {
	return &DocumentAlreadyPresentError{DocumentID: documentID}
}

func (e *DocumentAlreadyPresentError) Error() string {
	return fmt.Sprintf("%s document %s already present", e.Code(), e.DocumentID)
}

func (e *DocumentAlreadyPresentError) Code() ErrorCode {
	return ErrCodeDocumentAlreadyPresentError
}

// DocumentNotFoundError indicates a referenced document does not exist.
type DocumentNotFoundError struct {
	DocumentID strata.Identifier
}

func NewDocumentNotFoundError(documentID strata.Identifier) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID}
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("%s document %s not found", e.Code(), e.DocumentID)
}

func (e *DocumentNotFoundError) Code() ErrorCode {
	return ErrCodeDocumentNotFoundError
}

// DocumentOwnerMismatchError indicates an operation by a non-owner.
type DocumentOwnerMismatchError struct {
	DocumentID strata.Identifier
	OwnerID    strata.Identifier
	SignerID   strata.Identifier
}

func NewDocumentOwnerMismatchError(documentID, ownerID, signerID strata.Identifier) *DocumentOwnerMismatchError {
	return &DocumentOwnerMismatchError{DocumentID: documentID, OwnerID: ownerID, SignerID: signerID}
}

func (e *DocumentOwnerMismatchError) Error() string {
	return fmt.Sprintf("%s document %s is owned by %s, not %s", e.Code(), e.DocumentID, e.OwnerID, e.SignerID)
}

func (e *DocumentOwnerMismatchError) Code() ErrorCode {
	return ErrCodeDocumentOwnerMismatchError
}

// InvalidDocumentRevisionError indicates a revision that is not exactly one
// above the stored one.
type InvalidDocumentRevisionError struct {
	DocumentID      strata.Identifier
	CurrentRevision strata.Revision
	Received        strata.Revision
}

func NewInvalidDocumentRevisionError(documentID strata.Identifier, current, received strata.Revision) *InvalidDocumentRevisionError {
	return &InvalidDocumentRevisionError{DocumentID: documentID, CurrentRevision: current, Received: received}
}

func (e *InvalidDocumentRevisionError) Error() string {
	return fmt.Sprintf("%s document %s revision %d does not follow current %d", e.Code(), e.DocumentID, e.Received, e.CurrentRevision)
}

func (e *InvalidDocumentRevisionError) Code() ErrorCode {
	return ErrCodeInvalidDocumentRevisionError
}

// DocumentTimestampWindowViolationError indicates a document timestamp
// outside the block-time validity window.
type DocumentTimestampWindowViolationError struct {
	TimestampName string
	DocumentID    strata.Identifier
	Timestamp     strata.Timestamp
	WindowStart   strata.Timestamp
	WindowEnd     strata.Timestamp
}

func NewDocumentTimestampWindowViolationError(
	timestampName string,
	documentID strata.Identifier,
	timestamp, windowStart, windowEnd strata.Timestamp,
) *DocumentTimestampWindowViolationError {
	return &DocumentTimestampWindowViolationError{
		TimestampName: timestampName,
		DocumentID:    documentID,
		Timestamp:     timestamp,
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
	}
}

func (e *DocumentTimestampWindowViolationError) Error() string {
	return fmt.Sprintf("%s document %s %s timestamp %d is out of block time window [%d, %d]",
		e.Code(), e.DocumentID, e.TimestampName, e.Timestamp, e.WindowStart, e.WindowEnd)
}

func (e *DocumentTimestampWindowViolationError) Code() ErrorCode {
	return ErrCodeDocumentTimestampWindowViolationError
}

// InvalidIdentityNonceError indicates a stale or reused identity nonce.
type InvalidIdentityNonceError struct {
	IdentityID   strata.Identifier
	CurrentNonce strata.IdentityNonce
	Received     strata.IdentityNonce
}

func NewInvalidIdentityNonceError(identityID strata.Identifier, current, received strata.IdentityNonce) *InvalidIdentityNonceError {
	return &InvalidIdentityNonceError{IdentityID: identityID, CurrentNonce: current, Received: received}
}

func (e *InvalidIdentityNonceError) Error() string {
	return fmt.Sprintf("%s identity %s nonce %d is not valid after %d", e.Code(), e.IdentityID, e.Received, e.CurrentNonce)
}

func (e *InvalidIdentityNonceError) Code() ErrorCode {
	return ErrCodeInvalidIdentityNonceError
}

// InvalidIdentityRevisionError indicates an identity update whose revision
// does not follow the stored one.
type InvalidIdentityRevisionError struct {
	IdentityID      strata.Identifier
	CurrentRevision strata.Revision
	Received        strata.Revision
}

func NewInvalidIdentityRevisionError(identityID strata.Identifier, current, received strata.Revision) *InvalidIdentityRevisionError {
	return &InvalidIdentityRevisionError{IdentityID: identityID, CurrentRevision: current, Received: received}
}

func (e *InvalidIdentityRevisionError) Error() string {
	return fmt.Sprintf("%s identity %s revision %d does not follow current %d", e.Code(), e.IdentityID, e.Received, e.CurrentRevision)
}

func (e *InvalidIdentityRevisionError) Code() ErrorCode {
	return ErrCodeInvalidIdentityRevisionError
}

// AssetLockAlreadyUsedError indicates a reused asset lock outpoint.
type AssetLockAlreadyUsedError struct {
	OutPoint [36]byte
}

func NewAssetLockAlreadyUsedError(outPoint [36]byte) *AssetLockAlreadyUsedError {
	return &AssetLockAlreadyUsedError{OutPoint: outPoint}
}

func (e *AssetLockAlreadyUsedError) Error() string {
	return fmt.Sprintf("%s asset lock outpoint %x was already used", e.Code(), e.OutPoint)
}

func (e *AssetLockAlreadyUsedError) Code() ErrorCode {
	return ErrCodeAssetLockAlreadyUsedError
}

// DataTriggerConditionError indicates a data trigger precondition failed.
type DataTriggerConditionError struct {
	ContractID strata.Identifier
	DocumentID strata.Identifier
	Msg        string
}

func NewDataTriggerConditionError(contractID, documentID strata.Identifier, msg string) *DataTriggerConditionError {
	return &DataTriggerConditionError{ContractID: contractID, DocumentID: documentID, Msg: msg}
}

func (e *DataTriggerConditionError) Error() string {
	return fmt.Sprintf("%s data trigger condition failed for document %s: %s", e.Code(), e.DocumentID, e.Msg)
}

func (e *DataTriggerConditionError) Code() ErrorCode {
	return ErrCodeDataTriggerConditionError
}

// DataTriggerAuthorizationError indicates a trigger's identity requirement
// was not met.
type DataTriggerAuthorizationError struct {
	ContractID strata.Identifier
	DocumentID strata.Identifier
	SignerID   strata.Identifier
}

func NewDataTriggerAuthorizationError(contractID, documentID, signerID strata.Identifier) *DataTriggerAuthorizationError {
	return &DataTriggerAuthorizationError{ContractID: contractID, DocumentID: documentID, SignerID: signerID}
}

func (e *DataTriggerAuthorizationError) Error() string {
	return fmt.Sprintf("%s identity %s is not authorized by data trigger for document %s", e.Code(), e.SignerID, e.DocumentID)
}

func (e *DataTriggerAuthorizationError) Code() ErrorCode {
	return ErrCodeDataTriggerAuthorizationError
}

// IdentityDoesNotHaveEnoughTokenBalanceError indicates a token operation
// exceeding the holder's balance.
type IdentityDoesNotHaveEnoughTokenBalanceError struct {
	TokenID    strata.Identifier
	IdentityID strata.Identifier
	Balance    strata.TokenAmount
	Required   strata.TokenAmount
}

func NewIdentityDoesNotHaveEnoughTokenBalanceError(tokenID, identityID strata.Identifier, balance, required strata.TokenAmount) *IdentityDoesNotHaveEnoughTokenBalanceError {
	return &IdentityDoesNotHaveEnoughTokenBalanceError{TokenID: tokenID, IdentityID: identityID, Balance: balance, Required: required}
}

func (e *IdentityDoesNotHaveEnoughTokenBalanceError) Error() string {
	return fmt.Sprintf("%s identity %s holds %d of token %s, required %d", e.Code(), e.IdentityID, e.Balance, e.TokenID, e.Required)
}

func (e *IdentityDoesNotHaveEnoughTokenBalanceError) Code() ErrorCode {
	return ErrCodeIdentityDoesNotHaveEnoughTokenBalanceError
}

// IdentityTokenAccountFrozenError indicates a token operation from a frozen
// account.
type IdentityTokenAccountFrozenError struct {
	TokenID    strata.Identifier
	IdentityID strata.Identifier
}

func NewIdentityTokenAccountFrozenError(tokenID, identityID strata.Identifier) *IdentityTokenAccountFrozenError {
	return &IdentityTokenAccountFrozenError{TokenID: tokenID, IdentityID: identityID}
}

func (e *IdentityTokenAccountFrozenError) Error() string {
	return fmt.Sprintf("%s token account of identity %s for token %s is frozen", e.Code(), e.IdentityID, e.TokenID)
}

func (e *IdentityTokenAccountFrozenError) Code() ErrorCode {
	return ErrCodeIdentityTokenAccountFrozenError
}

// TokenIsPausedError indicates any movement of a paused token.
type TokenIsPausedError struct {
	TokenID strata.Identifier
}

func NewTokenIsPausedError(tokenID strata.Identifier) *TokenIsPausedError {
	return &TokenIsPausedError{TokenID: tokenID}
}

func (e *TokenIsPausedError) Error() string {
	return fmt.Sprintf("%s token %s is paused", e.Code(), e.TokenID)
}

func (e *TokenIsPausedError) Code() ErrorCode {
	return ErrCodeTokenIsPausedError
}

// TokenNotFoundError indicates a referenced token does not exist.
type TokenNotFoundError struct {
	TokenID strata.Identifier
}

func NewTokenNotFoundError(tokenID strata.Identifier) *TokenNotFoundError {
	return &TokenNotFoundError{TokenID: tokenID}
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("%s token %s not found", e.Code(), e.TokenID)
}

func (e *TokenNotFoundError) Code() ErrorCode {
	return ErrCodeTokenNotFoundError
}

// DocumentNotForSaleError indicates a purchase of an unlisted document.
type DocumentNotForSaleError struct {
	DocumentID strata.Identifier
}

func NewDocumentNotForSaleError(documentID strata.Identifier) *DocumentNotForSaleError {
	return &DocumentNotForSaleError{DocumentID: documentID}
}

func (e *DocumentNotForSaleError) Error() string {
	return fmt.Sprintf("%s document %s is not for sale", e.Code(), e.DocumentID)
}

func (e *DocumentNotForSaleError) Code() ErrorCode {
	return ErrCodeDocumentNotForSaleError
}

// InvalidDocumentPriceError indicates a purchase at a price that does not
// match the listing.
type InvalidDocumentPriceError struct {
	DocumentID strata.Identifier
	Listed     strata.Credits
	Offered    strata.Credits
}

func NewInvalidDocumentPriceError(documentID strata.Identifier, listed, offered strata.Credits) *InvalidDocumentPriceError {
	return &InvalidDocumentPriceError{DocumentID: documentID, Listed: listed, Offered: offered}
}

func (e *InvalidDocumentPriceError) Error() string {
	return fmt.Sprintf("%s document %s is listed at %d, offered %d", e.Code(), e.DocumentID, e.Listed, e.Offered)
}

func (e *InvalidDocumentPriceError) Code() ErrorCode {
	return ErrCodeInvalidDocumentPriceError
}

// DataContractOwnerMismatchError indicates a contract update signed by an
// identity that does not own the contract.
type DataContractOwnerMismatchError struct {
	ContractID strata.Identifier
	OwnerID    strata.Identifier
	SignerID   strata.Identifier
}

func NewDataContractOwnerMismatchError(contractID, ownerID, signerID strata.Identifier) *DataContractOwnerMismatchError {
	return &DataContractOwnerMismatchError{ContractID: contractID, OwnerID: ownerID, SignerID: signerID}
}

func (e *DataContractOwnerMismatchError) Error() string {
	return fmt.Sprintf("%s contract %s is owned by %s, not by signer %s",
		e.Code(), e.ContractID, e.OwnerID, e.SignerID)
}

func (e *DataContractOwnerMismatchError) Code() ErrorCode {
	return ErrCodeDataContractOwnerMismatchError
}

// TokenMintOverMaxSupplyError indicates a mint that would push the token's
// supply past its configured cap.
type TokenMintOverMaxSupplyError struct {
	TokenID   strata.Identifier
	Supply    strata.TokenAmount
	Amount    strata.TokenAmount
	MaxSupply strata.TokenAmount
}

func NewTokenMintOverMaxSupplyError(tokenID strata.Identifier, supply, amount, maxSupply strata.TokenAmount) *TokenMintOverMaxSupplyError {
	return &TokenMintOverMaxSupplyError{TokenID: tokenID, Supply: supply, Amount: amount, MaxSupply: maxSupply}
}

func (e *TokenMintOverMaxSupplyError) Error() string {
	return fmt.Sprintf("%s minting %d of token %s at supply %d exceeds the max supply %d",
		e.Code(), e.Amount, e.TokenID, e.Supply, e.MaxSupply)
}

func (e *TokenMintOverMaxSupplyError) Code() ErrorCode {
	return ErrCodeTokenMintOverMaxSupplyError
}
