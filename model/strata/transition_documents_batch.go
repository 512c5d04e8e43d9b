package strata

import "fmt"

// DocumentTransitionAction is the operation a document sub-transition
// performs.
type DocumentTransitionAction uint8

const (
	DocumentTransitionCreate   DocumentTransitionAction = 0
	DocumentTransitionReplace  DocumentTransitionAction = 1
	DocumentTransitionDelete   DocumentTransitionAction = 2
	DocumentTransitionTransfer DocumentTransitionAction = 3
	DocumentTransitionPurchase DocumentTransitionAction = 4
)

func (a DocumentTransitionAction) String() string {
	switch a {
	case DocumentTransitionCreate:
		return "create"
	case DocumentTransitionReplace:
		return "replace"
	case DocumentTransitionDelete:
		return "delete"
	case DocumentTransitionTransfer:
		return "transfer"
	case DocumentTransitionPurchase:
		return "purchase"
	default:
		return fmt.Sprintf("unknownDocumentAction(%d)", uint8(a))
	}
}

// DocumentTransition is one document operation inside a documents batch.
// Which fields are meaningful depends on Action:
//   - Create: Data, CreatedAt/UpdatedAt (if the type requires them)
//   - Replace: Revision, Data, UpdatedAt
//   - Delete: only the identifying fields
//   - Transfer: Revision, Recipient
//   - Purchase: Revision, Price (the amount the buyer agrees to pay)
type DocumentTransition struct {
	Action DocumentTransitionAction

	ID         Identifier
	ContractID Identifier
	Type       string

	Revision  Revision
	Data      map[string]Value
	CreatedAt Timestamp
	UpdatedAt Timestamp

	Recipient Identifier
	Price     Credits

	// Nonce is the identity-contract nonce protecting this sub-transition
	// against replay within its contract.
	Nonce IdentityNonce
}

// TokenTransitionAction is the operation a token sub-transition performs.
type TokenTransitionAction uint8

const (
	TokenTransitionMint     TokenTransitionAction = 0
	TokenTransitionBurn     TokenTransitionAction = 1
	TokenTransitionTransfer TokenTransitionAction = 2
	TokenTransitionFreeze   TokenTransitionAction = 3
	TokenTransitionUnfreeze TokenTransitionAction = 4
)

func (a TokenTransitionAction) String() string {
	switch a {
	case TokenTransitionMint:
		return "mint"
	case TokenTransitionBurn:
		return "burn"
	case TokenTransitionTransfer:
		return "transfer"
	case TokenTransitionFreeze:
		return "freeze"
	case TokenTransitionUnfreeze:
		return "unfreeze"
	default:
		return fmt.Sprintf("unknownTokenAction(%d)", uint8(a))
	}
}

// TokenTransition is one token operation inside a documents batch.
type TokenTransition struct {
	Action TokenTransitionAction

	TokenID    Identifier
	ContractID Identifier

	Amount TokenAmount

	// Recipient is the receiving identity for transfers, or the account
	// being frozen/unfrozen.
	Recipient Identifier

	Nonce IdentityNonce
}

// BatchedTransition is a tagged union over one document or one token
// sub-transition. Exactly one of the two fields is set.
type BatchedTransition struct {
	Document *DocumentTransition `cbor:",omitempty"`
	Token    *TokenTransition    `cbor:",omitempty"`
}

// DocumentsBatchTransition groups document and token operations by one owner
// into a single signed unit.
type DocumentsBatchTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	Owner       Identifier
	Transitions []BatchedTransition

	KeyID     KeyID
	Signature []byte
}

func (st *DocumentsBatchTransition) TransitionType() StateTransitionType {
	return StateTransitionDocumentsBatch
}

func (st *DocumentsBatchTransition) OwnerID() Identifier { return st.Owner }

func (st *DocumentsBatchTransition) SignaturePublicKeyID() KeyID { return st.KeyID }

func (st *DocumentsBatchTransition) TransitionSignature() []byte { return st.Signature }

func (st *DocumentsBatchTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}
