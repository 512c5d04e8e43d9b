package strata

// DataContractCreateTransition registers a new data contract.
type DataContractCreateTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	DataContract *DataContract
	Nonce        IdentityNonce

	KeyID     KeyID
	Signature []byte
}

func (st *DataContractCreateTransition) TransitionType() StateTransitionType {
	return StateTransitionDataContractCreate
}

func (st *DataContractCreateTransition) OwnerID() Identifier {
	if st.DataContract == nil {
		return ZeroID
	}
	return st.DataContract.OwnerID
}

func (st *DataContractCreateTransition) SignaturePublicKeyID() KeyID { return st.KeyID }

func (st *DataContractCreateTransition) TransitionSignature() []byte { return st.Signature }

func (st *DataContractCreateTransition) IdentityNonce() IdentityNonce { return st.Nonce }

func (st *DataContractCreateTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}

// DataContractUpdateTransition replaces an existing contract with a new
// version. The carried contract must have a version exactly one above the
// stored one.
type DataContractUpdateTransition struct {
	FormatVersion uint16 `cbor:"$format_version"`

	DataContract *DataContract
	Nonce        IdentityNonce

	KeyID     KeyID
	Signature []byte
}

func (st *DataContractUpdateTransition) TransitionType() StateTransitionType {
	return StateTransitionDataContractUpdate
}

func (st *DataContractUpdateTransition) OwnerID() Identifier {
	if st.DataContract == nil {
		return ZeroID
	}
	return st.DataContract.OwnerID
}

func (st *DataContractUpdateTransition) SignaturePublicKeyID() KeyID { return st.KeyID }

func (st *DataContractUpdateTransition) TransitionSignature() []byte { return st.Signature }

func (st *DataContractUpdateTransition) IdentityNonce() IdentityNonce { return st.Nonce }

func (st *DataContractUpdateTransition) SignableBytes() ([]byte, error) {
	unsigned := *st
	unsigned.Signature = nil
	return EncodeStateTransition(&unsigned)
}
