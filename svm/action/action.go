// Package action holds the validated, reference-resolved counterparts of
// state transitions. An action carries fetched entities instead of raw
// identifiers and lives only from validation to the end of its block.
package action

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/svm/fees"
)

// Action is the resolved form of one state transition, ready for pricing and
// execution.
type Action interface {
	isAction()
}

// ContractFetchInfo is a shared, cached contract fetch. Multiple actions in
// one block may reference the same fetch info; it lives as long as the
// longest-lived of them.
type ContractFetchInfo struct {
	Contract *strata.DataContract
	// FetchSize is the stored byte size of the contract, priced once per
	// block on first fetch.
	FetchSize uint32
}

// DataContractCreateAction registers a resolved new contract.
type DataContractCreateAction struct {
	Contract *strata.DataContract
	Nonce    strata.IdentityNonce
}

func (*DataContractCreateAction) isAction() {}

// DataContractUpdateAction replaces a contract. PreviousSize and Removed
// attribute the overwritten bytes for refunds.
type DataContractUpdateAction struct {
	Contract     *strata.DataContract
	PreviousSize uint32
	Removed      fees.RemovedBytes
	Nonce        strata.IdentityNonce
}

func (*DataContractUpdateAction) isAction() {}

// DocumentsBatchAction groups the resolved sub-actions of one batch.
type DocumentsBatchAction struct {
	OwnerID    strata.Identifier
	SubActions []SubAction
}

func (*DocumentsBatchAction) isAction() {}

// SubAction is one resolved document or token operation within a batch.
type SubAction interface {
	isSubAction()
}

// TokenCharge is a token cost attached to a document sub-action by its
// document type.
type TokenCharge struct {
	TokenID strata.Identifier
	Amount  strata.TokenAmount
}

// DocumentCreateAction stores a new document.
type DocumentCreateAction struct {
	Document *strata.Document
	Fetch    *ContractFetchInfo
	Type     *strata.DocumentType
	Charge   *TokenCharge
	Nonce    strata.IdentityNonce
}

func (*DocumentCreateAction) isSubAction() {}

// DocumentReplaceAction overwrites a document with its next revision.
type DocumentReplaceAction struct {
	Document *strata.Document
	// Previous is the stored revision being replaced, fetched to diff
	// against.
	Previous     *strata.Document
	PreviousSize uint32
	Removed      fees.RemovedBytes
	Fetch        *ContractFetchInfo
	Type         *strata.DocumentType
	Charge       *TokenCharge
	Nonce        strata.IdentityNonce
}

func (*DocumentReplaceAction) isSubAction() {}

// DocumentDeleteAction removes a document, refunding its bytes.
type DocumentDeleteAction struct {
	Document *strata.Document
	Removed  fees.RemovedBytes
	Fetch    *ContractFetchInfo
	Type     *strata.DocumentType
	Charge   *TokenCharge
	Nonce    strata.IdentityNonce
}

func (*DocumentDeleteAction) isSubAction() {}

// DocumentTransferAction moves a document to a new owner.
type DocumentTransferAction struct {
	Document     *strata.Document
	Recipient    strata.Identifier
	PreviousSize uint32
	Removed      fees.RemovedBytes
	Fetch        *ContractFetchInfo
	Type         *strata.DocumentType
	Charge       *TokenCharge
	Nonce        strata.IdentityNonce
}

func (*DocumentTransferAction) isSubAction() {}

// DocumentPurchaseAction transfers ownership against payment of the listed
// price.
type DocumentPurchaseAction struct {
	Document      *strata.Document
	Buyer         strata.Identifier
	PreviousOwner strata.Identifier
	Price         strata.Credits
	BuyerBalance  strata.Credits
	SellerBalance strata.Credits
	PreviousSize  uint32
	Removed       fees.RemovedBytes
	Fetch         *ContractFetchInfo
	Type          *strata.DocumentType
	Charge        *TokenCharge
	Nonce         strata.IdentityNonce
}

func (*DocumentPurchaseAction) isSubAction() {}

// TokenAction is a resolved token sub-transition. Sender and Recipient
// accounts are resolved (nil when an account does not exist yet).
type TokenAction struct {
	Kind   strata.TokenTransitionAction
	Config *strata.TokenConfiguration

	Sender           strata.Identifier
	SenderAccount    *strata.TokenAccount
	Recipient        strata.Identifier
	RecipientAccount *strata.TokenAccount

	Amount strata.TokenAmount
	Nonce  strata.IdentityNonce
}

func (*TokenAction) isSubAction() {}

// IdentityCreateAction registers a resolved new identity.
type IdentityCreateAction struct {
	Identity *strata.Identity
	Credits  strata.Credits
	OutPoint [36]byte
}

func (*IdentityCreateAction) isAction() {}

// IdentityTopUpAction adds asset-lock credits to an identity.
type IdentityTopUpAction struct {
	IdentityID strata.Identifier
	Balance    strata.Credits
	Credits    strata.Credits
	OutPoint   [36]byte
}

func (*IdentityTopUpAction) isAction() {}

// IdentityUpdateAction changes an identity's key set. Identity carries the
// updated identity; PreviousSize is the stored size before the update.
type IdentityUpdateAction struct {
	Identity     *strata.Identity
	Revision     strata.Revision
	AddKeys      []strata.IdentityPublicKey
	DisableKeys  []strata.KeyID
	DisabledAt   strata.Timestamp
	PreviousSize uint32
	Removed      fees.RemovedBytes
	Nonce        strata.IdentityNonce
}

func (*IdentityUpdateAction) isAction() {}

// IdentityCreditTransferAction moves credits between resolved identities.
type IdentityCreditTransferAction struct {
	Sender           strata.Identifier
	Recipient        strata.Identifier
	Amount           strata.Credits
	SenderBalance    strata.Credits
	RecipientBalance strata.Credits
	Nonce            strata.IdentityNonce
}

func (*IdentityCreditTransferAction) isAction() {}

// IdentityCreditWithdrawalAction burns credits toward a core-chain payout.
type IdentityCreditWithdrawalAction struct {
	IdentityID     strata.Identifier
	Amount         strata.Credits
	Balance        strata.Credits
	CoreFeePerByte uint32
	OutputScript   []byte
	Nonce          strata.IdentityNonce
}

func (*IdentityCreditWithdrawalAction) isAction() {}
