package strata

import "crypto/sha256"

// IdentityNonce protects nonce-guarded state transitions against replay.
// The low bits carry the counter; see the nonce window checks in the state
// validation phase for how stale values are rejected.
type IdentityNonce uint64

// Revision counts updates to a revisioned entity (identity or document).
// The first stored revision is 1 and every update must carry exactly
// previous+1.
type Revision uint64

// Identity is an account-like entity holding public keys, a credit balance
// and a revision counter.
type Identity struct {
	ID         Identifier
	PublicKeys []IdentityPublicKey
	Balance    Credits
	Revision   Revision
}

// GetPublicKeyByID returns the key with the given id, or nil if the identity
// holds no such key.
func (i *Identity) GetPublicKeyByID(keyID KeyID) *IdentityPublicKey {
	for idx := range i.PublicKeys {
		if i.PublicKeys[idx].ID == keyID {
			return &i.PublicKeys[idx]
		}
	}
	return nil
}

// PartialIdentity is an identity loaded without its full key set, used by
// validation paths that only need the balance, the revision and the one key a
// transition claims to be signed with.
type PartialIdentity struct {
	ID         Identifier
	LoadedKeys map[KeyID]IdentityPublicKey
	Balance    Credits
	Revision   Revision
}

// IdentityIDFromOutPoint derives the id of a newly created identity from the
// asset lock outpoint that funded it. The binding makes identity ids
// unforgeable: only whoever can spend the lock can claim the id.
func IdentityIDFromOutPoint(outPoint [36]byte) Identifier {
	return Identifier(sha256.Sum256(outPoint[:]))
}
