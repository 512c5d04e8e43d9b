package strata

import "fmt"

// StateTransitionType is the wire discriminator of a state transition
// variant. The values are part of the wire format and must never be
// renumbered.
type StateTransitionType uint8

const (
	StateTransitionDataContractCreate       StateTransitionType = 0
	StateTransitionDataContractUpdate       StateTransitionType = 1
	StateTransitionDocumentsBatch           StateTransitionType = 2
	StateTransitionIdentityCreate           StateTransitionType = 3
	StateTransitionIdentityTopUp            StateTransitionType = 4
	StateTransitionIdentityUpdate           StateTransitionType = 5
	StateTransitionIdentityCreditWithdrawal StateTransitionType = 6
	StateTransitionIdentityCreditTransfer   StateTransitionType = 7
)

func (t StateTransitionType) String() string {
	switch t {
	case StateTransitionDataContractCreate:
		return "dataContractCreate"
	case StateTransitionDataContractUpdate:
		return "dataContractUpdate"
	case StateTransitionDocumentsBatch:
		return "documentsBatch"
	case StateTransitionIdentityCreate:
		return "identityCreate"
	case StateTransitionIdentityTopUp:
		return "identityTopUp"
	case StateTransitionIdentityUpdate:
		return "identityUpdate"
	case StateTransitionIdentityCreditWithdrawal:
		return "identityCreditWithdrawal"
	case StateTransitionIdentityCreditTransfer:
		return "identityCreditTransfer"
	default:
		return fmt.Sprintf("unknownStateTransitionType(%d)", uint8(t))
	}
}

// StateTransition is a signed, user-submitted request to change platform
// state. A transition is immutable once constructed; the processing pipeline
// never mutates it.
type StateTransition interface {
	// TransitionType returns the wire discriminator of this variant.
	TransitionType() StateTransitionType

	// OwnerID is the identity on whose behalf the transition acts. For
	// identity-create transitions this is the identity being created.
	OwnerID() Identifier

	// SignaturePublicKeyID is the id of the identity key claimed to have
	// produced the signature. Asset-lock funded transitions return 0 and are
	// verified against the asset lock's one-time key instead.
	SignaturePublicKeyID() KeyID

	// TransitionSignature is the raw signature bytes.
	TransitionSignature() []byte

	// SignableBytes is the canonical byte encoding the signature is computed
	// over: the wire encoding with the signature field zeroed.
	SignableBytes() ([]byte, error)
}

// AssetLockProof proves that core-chain funds were locked to fund an identity
// create or top up. The processing core treats it as an opaque funding claim:
// outpoint uniqueness and the credit value are checked, the core-chain lock
// itself is the consensus engine's concern.
type AssetLockProof struct {
	OutPoint [36]byte `cbor:"0,keyasint"`
	Credits  Credits  `cbor:"1,keyasint"`
	// OneTimePublicKey is the secp256k1 key the funding transaction committed
	// to; the transition signature is verified against it.
	OneTimePublicKey []byte `cbor:"2,keyasint"`
}

// AssetLockFunded is implemented by the transition kinds that pay for
// themselves with an asset lock instead of an existing identity balance.
type AssetLockFunded interface {
	AssetLockProof() *AssetLockProof
}

// NonceProtected is implemented by transition kinds that carry an identity
// nonce to reject replays.
type NonceProtected interface {
	IdentityNonce() IdentityNonce
}
