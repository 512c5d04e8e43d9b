// Package unittest provides fixtures and helpers shared by the processing
// core's tests. Fixtures panic on infrastructure errors so test bodies stay
// free of error plumbing.
package unittest

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/strataplatform/strata-go/model/strata"
)

// IdentifierFixture returns a random identifier.
func IdentifierFixture() strata.Identifier {
	var id strata.Identifier
	readRandom(id[:])
	return id
}

// IdentifierListFixture returns n distinct random identifiers.
func IdentifierListFixture(n int) []strata.Identifier {
	ids := make([]strata.Identifier, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, IdentifierFixture())
	}
	return ids
}

// OutPointFixture returns a random asset lock outpoint.
func OutPointFixture() [36]byte {
	var outPoint [36]byte
	readRandom(outPoint[:])
	return outPoint
}

// SigningKey pairs an identity public key with the private key that can sign
// for it.
type SigningKey struct {
	Private *btcec.PrivateKey
	Public  strata.IdentityPublicKey
}

// ECDSAKeyFixture returns a fresh secp256k1 signing key with the given
// attributes. The public key data is the compressed encoding, as the
// signature phase expects.
func ECDSAKeyFixture(id strata.KeyID, purpose strata.KeyPurpose, level strata.SecurityLevel) SigningKey {
	private, err := btcec.NewPrivateKey()
	if err != nil {
		panic(err)
	}
	return SigningKey{
		Private: private,
		Public: strata.IdentityPublicKey{
			ID:            id,
			Type:          strata.KeyTypeECDSASecp256k1,
			Purpose:       purpose,
			SecurityLevel: level,
			Data:          private.PubKey().SerializeCompressed(),
		},
	}
}

// MasterKeyFixture returns an authentication key at master level, the key
// every new identity must register.
func MasterKeyFixture() SigningKey {
	return ECDSAKeyFixture(0, strata.KeyPurposeAuthentication, strata.SecurityLevelMaster)
}

// AuthKeyFixture returns an authentication key at critical level, the kind
// most transitions are signed with.
func AuthKeyFixture(id strata.KeyID) SigningKey {
	return ECDSAKeyFixture(id, strata.KeyPurposeAuthentication, strata.SecurityLevelCritical)
}

// TransferKeyFixture returns a transfer key at critical level, required for
// credit transfers and withdrawals.
func TransferKeyFixture(id strata.KeyID) SigningKey {
	return ECDSAKeyFixture(id, strata.KeyPurposeTransfer, strata.SecurityLevelCritical)
}

// IdentityFixture returns an identity at revision 1 holding the public halves
// of the given keys.
func IdentityFixture(id strata.Identifier, keys ...SigningKey) *strata.Identity {
	identity := &strata.Identity{
		ID:       id,
		Revision: 1,
	}
	for _, key := range keys {
		identity.PublicKeys = append(identity.PublicKeys, key.Public)
	}
	return identity
}

// Sign produces the 65-byte compact recoverable signature over the double
// SHA-256 of the message, the format the signature phase verifies.
func Sign(key SigningKey, message []byte) []byte {
	first := sha256.Sum256(message)
	second := sha256.Sum256(first[:])
	signature, err := btcecdsa.SignCompact(key.Private, second[:], true)
	if err != nil {
		panic(err)
	}
	return signature
}

// SignTransition signs a transition's signable bytes and stores the
// signature through the given setter.
func SignTransition(st strata.StateTransition, key SigningKey, set func(signature []byte)) {
	signable, err := st.SignableBytes()
	if err != nil {
		panic(err)
	}
	set(Sign(key, signable))
}

// BlockInfoFixture returns block info at a fixed, mid-epoch position.
func BlockInfoFixture() strata.BlockInfo {
	return strata.BlockInfo{
		Height:     100,
		CoreHeight: 50,
		Time:       1_700_000_000_000,
		Epoch:      3,
	}
}

// ContractFixture returns a contract with one mutable, purchasable document
// type named "note" carrying an optional string field "message".
func ContractFixture(id, owner strata.Identifier) *strata.DataContract {
	return &strata.DataContract{
		ID:      id,
		OwnerID: owner,
		Version: 1,
		DocumentTypes: map[string]*strata.DocumentType{
			"note": {
				Name: "note",
				Fields: []strata.FieldConstraint{
					{Name: "message", Type: strata.FieldTypeString, MaxLength: 256},
				},
				Mutable:   true,
				TradeMode: strata.TradeModeDirectPurchase,
			},
		},
	}
}

// DocumentFixture returns a stored document of the fixture contract's "note"
// type at revision 1.
func DocumentFixture(id, contractID, owner strata.Identifier) *strata.Document {
	return &strata.Document{
		ID:         id,
		ContractID: contractID,
		Type:       "note",
		OwnerID:    owner,
		CreatorID:  owner,
		Revision:   1,
		Data:       map[string]strata.Value{"message": "hello"},
	}
}

// TokenConfigFixture returns an unpaused token configuration without a supply
// cap.
func TokenConfigFixture(tokenID, contractID strata.Identifier) *strata.TokenConfiguration {
	return &strata.TokenConfiguration{
		TokenID:    tokenID,
		ContractID: contractID,
	}
}

func readRandom(out []byte) {
	_, err := rand.Read(out)
	if err != nil {
		panic(err)
	}
}
