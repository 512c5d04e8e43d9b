package strata

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// IdentifierLen is the byte length of all platform identifiers (identities,
// data contracts, documents, tokens).
const IdentifierLen = 32

// Identifier represents a 32-byte unique identifier of a platform entity.
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the identifier space, used as a sentinel for
// "no identifier".
var ZeroID = Identifier{}

// HexStringToIdentifier converts a hex string to an identifier.
func HexStringToIdentifier(s string) (Identifier, error) {
	var id Identifier
	bz, err := hex.DecodeString(s)
	if err != nil {
		return ZeroID, err
	}
	if len(bz) != IdentifierLen {
		return ZeroID, fmt.Errorf("malformed input, expected %d bytes (%d), got %d", IdentifierLen, IdentifierLen*2, len(bz))
	}
	copy(id[:], bz)
	return id, nil
}

// IdentifierFromBytes converts a byte slice to an identifier, erroring on
// length mismatch.
func IdentifierFromBytes(bz []byte) (Identifier, error) {
	var id Identifier
	if len(bz) != IdentifierLen {
		return ZeroID, fmt.Errorf("expected %d bytes, got %d", IdentifierLen, len(bz))
	}
	copy(id[:], bz)
	return id, nil
}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the identifier as a byte slice.
func (id Identifier) Bytes() []byte {
	return id[:]
}

// IsZero returns true if the identifier is the sentinel zero value.
func (id Identifier) IsZero() bool {
	return id == ZeroID
}

// CompareIdentifiers provides a strict ordering of identifiers, used wherever
// deterministic iteration over identifier-keyed maps is required.
func CompareIdentifiers(a, b Identifier) int {
	return bytes.Compare(a[:], b[:])
}
