// Package storage defines the contract between the processing core and the
// authenticated storage engine. The core only issues path/key operations and
// receives elements back; the engine's tree layout and proof machinery are
// its own business.
package storage

import (
	"errors"

	"github.com/strataplatform/strata-go/model/strata"
)

// ErrNotFound is returned by lookups that require presence. Fetch itself
// reports absence with a nil element instead, so callers can distinguish
// "absent by user error" from "absent by storage fault".
var ErrNotFound = errors.New("key not found")

// ErrAlreadyExists is returned by BatchInsert when the key is taken.
var ErrAlreadyExists = errors.New("key already exists")

// Path addresses a subtree, outermost segment first.
type Path [][]byte

// Flags attribute stored bytes to the identity and epoch that paid for them,
// so that deleting the bytes later refunds the right payer at the right
// epoch's rate.
type Flags struct {
	Epoch   strata.EpochIndex
	OwnerID strata.Identifier
}

// Element is a stored value plus its payment attribution. Flags is nil for
// system-owned elements, which earn no refunds.
type Element struct {
	Value []byte
	Flags *Flags
}

// Size returns the stored byte size of the element, the quantity storage
// fees and refunds are metered in.
func (e *Element) Size() uint32 {
	size := uint32(len(e.Value))
	if e.Flags != nil {
		// epoch index + owner id
		size += 2 + strata.IdentifierLen
	}
	return size
}

// Transaction is a storage-layer transaction. One transaction spans one
// block; nothing inside it is visible to other readers until Commit.
type Transaction interface {
	Commit() error
	Discard()
}

// Store is the storage collaborator consumed by the processing core.
//
// All methods are synchronous. Mutations issued through Batch* become
// visible atomically on Commit of the supplied transaction; Fetch with a
// transaction observes the transaction's own pending writes.
type Store interface {
	// Fetch returns the element at (path, key), or nil if absent.
	Fetch(path Path, key []byte, tx Transaction) (*Element, error)

	// BatchInsert stores a new element. It is an error if the key exists.
	BatchInsert(path Path, key []byte, element Element, tx Transaction) error

	// BatchReplace overwrites an existing element. It is an error if the key
	// does not exist.
	BatchReplace(path Path, key []byte, element Element, tx Transaction) error

	// BatchDelete removes an element, returning the removed element so the
	// caller can meter refunds. It is an error if the key does not exist.
	BatchDelete(path Path, key []byte, tx Transaction) (*Element, error)

	// BeginTransaction opens the block transaction.
	BeginTransaction() Transaction
}
