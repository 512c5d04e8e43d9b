package fees

import (
	"github.com/strataplatform/strata-go/model/strata"
)

// BytesPerEpoch maps an epoch index to a byte count.
type BytesPerEpoch map[strata.EpochIndex]uint32

// RemovedBytes attributes freed storage bytes to the identities and epochs
// that originally paid for them. The zero identifier marks system-paid bytes,
// which earn no refund.
type RemovedBytes map[strata.Identifier]BytesPerEpoch

// Operation is one low-level storage or computation step with a declared
// cost. Operations are produced by the action resolution layer and consumed
// only by fee calculation.
type Operation interface {
	isOperation()
}

// ReadOperation prices fetching an element: tree seeks plus loaded bytes.
type ReadOperation struct {
	SeekCount uint16
	ValueSize uint32
}

func (ReadOperation) isOperation() {}

// WriteOperation prices storing new bytes. Added bytes incur both a
// processing cost and the per-byte storage fee.
type WriteOperation struct {
	KeySize   uint32
	ValueSize uint32
}

func (WriteOperation) isOperation() {}

// AddedBytes is the number of bytes the write adds to storage.
func (op WriteOperation) AddedBytes() uint32 {
	return op.KeySize + op.ValueSize
}

// ReplaceOperation prices overwriting an element. Replaced bytes beyond the
// new size are freed and refunded like deletions.
type ReplaceOperation struct {
	KeySize      uint32
	NewValueSize uint32
	OldValueSize uint32
	// Removed attributes the freed bytes (if the new value is smaller) or is
	// empty.
	Removed RemovedBytes
}

func (ReplaceOperation) isOperation() {}

// DeleteOperation prices removing an element and ledgers the refunds for the
// freed bytes.
type DeleteOperation struct {
	KeySize uint32
	Removed RemovedBytes
}

func (DeleteOperation) isOperation() {}

// SignatureVerificationOperation prices one signature check by key type.
type SignatureVerificationOperation struct {
	KeyType strata.KeyType
}

func (SignatureVerificationOperation) isOperation() {}

// PreCalculatedOperation carries a fee result computed elsewhere, merged
// as-is.
type PreCalculatedOperation struct {
	Fee FeeResult
}

func (PreCalculatedOperation) isOperation() {}
