package strata

// IdentityCreateTransition registers a new identity funded by an asset lock.
// It is not signed by an identity key (the identity does not exist yet) but
// by the asset lock's one-time key.
type IdentityCreateTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	IdentityID Identifier
	PublicKeys []IdentityPublicKey
	AssetLock  AssetLockProof

	Signature []byte
}

func (st *IdentityCreateTransition) TransitionType() StateTransitionType {
	return StateTransitionIdentityCreate
}

func (st *IdentityCreateTransition) OwnerID() Identifier { return st.IdentityID }

func (st *IdentityCreateTransition) SignaturePublicKeyID() KeyID { return 0 }

func (st *IdentityCreateTransition) TransitionSignature() []byte { return st.Signature }

func (st *IdentityCreateTransition) AssetLockProof() *AssetLockProof { return &st.AssetLock }

func (st *IdentityCreateTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}

// IdentityTopUpTransition adds asset-lock funded credits to an existing
// identity. Like identity creation it is verified against the asset lock's
// one-time key, so anyone can top up any identity.
type IdentityTopUpTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	IdentityID Identifier
	AssetLock  AssetLockProof

	Signature []byte
}

func (st *IdentityTopUpTransition) TransitionType() StateTransitionType {
	return StateTransitionIdentityTopUp
}

func (st *IdentityTopUpTransition) OwnerID() Identifier { return st.IdentityID }

func (st *IdentityTopUpTransition) SignaturePublicKeyID() KeyID { return 0 }

func (st *IdentityTopUpTransition) TransitionSignature() []byte { return st.Signature }

func (st *IdentityTopUpTransition) AssetLockProof() *AssetLockProof { return &st.AssetLock }

func (st *IdentityTopUpTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}

// IdentityUpdateTransition adds and/or disables keys on an identity. It is
// revision-protected: Revision must be exactly one above the stored identity
// revision.
type IdentityUpdateTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	IdentityID        Identifier
	Revision          Revision
	AddPublicKeys     []IdentityPublicKey
	DisablePublicKeys []KeyID
	Nonce             IdentityNonce

	KeyID     KeyID
	Signature []byte
}

func (st *IdentityUpdateTransition) TransitionType() StateTransitionType {
	return StateTransitionIdentityUpdate
}

func (st *IdentityUpdateTransition) OwnerID() Identifier { return st.IdentityID }

func (st *IdentityUpdateTransition) SignaturePublicKeyID() KeyID { return st.KeyID }

func (st *IdentityUpdateTransition) TransitionSignature() []byte { return st.Signature }

func (st *IdentityUpdateTransition) IdentityNonce() IdentityNonce { return st.Nonce }

func (st *IdentityUpdateTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}

// IdentityCreditTransferTransition moves credits between identities.
type IdentityCreditTransferTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	IdentityID  Identifier
	RecipientID Identifier
	Amount      Credits
	Nonce       IdentityNonce

	KeyID     KeyID
	Signature []byte
}

func (st *IdentityCreditTransferTransition) TransitionType() StateTransitionType {
	return StateTransitionIdentityCreditTransfer
}

func (st *IdentityCreditTransferTransition) OwnerID() Identifier { return st.IdentityID }

func (st *IdentityCreditTransferTransition) SignaturePublicKeyID() KeyID { return st.KeyID }

func (st *IdentityCreditTransferTransition) TransitionSignature() []byte { return st.Signature }

func (st *IdentityCreditTransferTransition) IdentityNonce() IdentityNonce { return st.Nonce }

func (st *IdentityCreditTransferTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}

// IdentityCreditWithdrawalTransition burns credits and queues a core-chain
// payout to the given output script.
type IdentityCreditWithdrawalTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	IdentityID     Identifier
	Amount         Credits
	CoreFeePerByte uint32
	OutputScript   []byte
	Nonce          IdentityNonce

	KeyID     KeyID
	Signature []byte
}

func (st *IdentityCreditWithdrawalTransition) TransitionType() StateTransitionType {
	return StateTransitionIdentityCreditWithdrawal
}

func (st *IdentityCreditWithdrawalTransition) OwnerID() Identifier { return st.IdentityID }

func (st *IdentityCreditWithdrawalTransition) SignaturePublicKeyID() KeyID { return st.KeyID }

func (st *IdentityCreditWithdrawalTransition) TransitionSignature() []byte { return st.Signature }

func (st *IdentityCreditWithdrawalTransition) IdentityNonce() IdentityNonce { return st.Nonce }

func (st *IdentityCreditWithdrawalTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}
