package strata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStateTransitionWireFormat checks that every transition variant survives
// a wire round trip and keeps its one-byte discriminator stable.
func TestStateTransitionWireFormat(t *testing.T) {
	owner := Identifier{0x01}
	recipient := Identifier{0x02}
	contractID := Identifier{0x03}

	transitions := []StateTransition{
		&DataContractCreateTransition{
			FormatVersion: 0,
			DataContract: &DataContract{
				ID:      contractID,
				OwnerID: owner,
				Version: 1,
				DocumentTypes: map[string]*DocumentType{
					"note": {
						Name: "note",
						Fields: []FieldConstraint{
							{Name: "message", Type: FieldTypeString, MaxLength: 100},
						},
						Mutable: true,
					},
				},
			},
			Nonce:     1,
			KeyID:     1,
			Signature: []byte{0xAA},
		},
		&DataContractUpdateTransition{
			DataContract: &DataContract{ID: contractID, OwnerID: owner, Version: 2},
			Nonce:        2,
			KeyID:        1,
			Signature:    []byte{0xAB},
		},
		&DocumentsBatchTransition{
			Owner: owner,
			Transitions: []BatchedTransition{
				{Document: &DocumentTransition{
					Action:     DocumentTransitionCreate,
					ID:         Identifier{0x04},
					ContractID: contractID,
					Type:       "note",
					Data:       map[string]Value{"message": "hello"},
					Nonce:      3,
				}},
				{Token: &TokenTransition{
					Action:     TokenTransitionTransfer,
					TokenID:    Identifier{0x05},
					ContractID: contractID,
					Amount:     10,
					Recipient:  recipient,
					Nonce:      4,
				}},
			},
			KeyID:     1,
			Signature: []byte{0xAC},
		},
		&IdentityCreateTransition{
			IdentityID: owner,
			PublicKeys: []IdentityPublicKey{
				{ID: 0, Type: KeyTypeECDSASecp256k1, Data: make([]byte, 33)},
			},
			AssetLock: AssetLockProof{
				OutPoint:         [36]byte{0x06},
				Credits:          1000,
				OneTimePublicKey: make([]byte, 33),
			},
			Signature: []byte{0xAD},
		},
		&IdentityTopUpTransition{
			IdentityID: owner,
			AssetLock:  AssetLockProof{OutPoint: [36]byte{0x07}, Credits: 500},
			Signature:  []byte{0xAE},
		},
		&IdentityUpdateTransition{
			IdentityID:        owner,
			Revision:          2,
			DisablePublicKeys: []KeyID{1},
			Nonce:             5,
			KeyID:             0,
			Signature:         []byte{0xAF},
		},
		&IdentityCreditWithdrawalTransition{
			IdentityID:     owner,
			Amount:         200,
			CoreFeePerByte: 1,
			OutputScript:   []byte{0x76, 0xA9},
			Nonce:          6,
			KeyID:          1,
			Signature:      []byte{0xB0},
		},
		&IdentityCreditTransferTransition{
			IdentityID:  owner,
			RecipientID: recipient,
			Amount:      300,
			Nonce:       7,
			KeyID:       1,
			Signature:   []byte{0xB1},
		},
	}

	for _, st := range transitions {
		st := st
		t.Run(st.TransitionType().String(), func(t *testing.T) {
			encoded, err := EncodeStateTransition(st)
			require.NoError(t, err)
			require.NotEmpty(t, encoded)
			assert.Equal(t, byte(st.TransitionType()), encoded[0])

			decoded, err := DecodeStateTransition(encoded)
			require.NoError(t, err)
			assert.Equal(t, st, decoded)
		})
	}
}

func TestDecodeStateTransitionUnknownType(t *testing.T) {
	_, err := DecodeStateTransition([]byte{0xFF, 0xA0})
	require.Error(t, err)
	assert.IsType(t, UnknownTransitionTypeError{}, err)
}

func TestDecodeStateTransitionTooShort(t *testing.T) {
	_, err := DecodeStateTransition([]byte{0x00})
	require.Error(t, err)
}

func TestDecodeStateTransitionUnknownFormatVersion(t *testing.T) {
	encoded, err := EncodeStateTransition(&IdentityCreditTransferTransition{
		FormatVersion: 999,
		IdentityID:    Identifier{0x01},
		RecipientID:   Identifier{0x02},
		Amount:        100,
		Nonce:         1,
	})
	require.NoError(t, err)

	_, err = DecodeStateTransition(encoded)
	require.Error(t, err)
	assert.IsType(t, UnknownTransitionVersionError{}, err)
	assert.Equal(t, uint16(999), err.(UnknownTransitionVersionError).Received)
}

// TestSignableBytesExcludeSignature checks that the signable form is
// independent of the attached signature, so signing and verification agree.
func TestSignableBytesExcludeSignature(t *testing.T) {
	st := &IdentityCreditTransferTransition{
		IdentityID:  Identifier{0x01},
		RecipientID: Identifier{0x02},
		Amount:      100,
		Nonce:       1,
		KeyID:       1,
	}

	unsigned, err := st.SignableBytes()
	require.NoError(t, err)

	st.Signature = []byte("some signature")
	signed, err := st.SignableBytes()
	require.NoError(t, err)

	assert.Equal(t, unsigned, signed)
}

func TestEncodingIsDeterministic(t *testing.T) {
	st := &DocumentsBatchTransition{
		Owner: Identifier{0x09},
		Transitions: []BatchedTransition{
			{Document: &DocumentTransition{
				Action:     DocumentTransitionCreate,
				ID:         Identifier{0x0A},
				ContractID: Identifier{0x0B},
				Type:       "note",
				Data: map[string]Value{
					"b": "2",
					"a": "1",
					"c": "3",
				},
			}},
		},
	}

	first, err := EncodeStateTransition(st)
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		again, err := EncodeStateTransition(st)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
