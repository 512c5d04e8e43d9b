package state

import (
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/fees"
)

// Operation is one executable storage step derived from a validated action.
// Every operation exposes its pricing view, so the same list drives both the
// dry-run estimate and the real apply; the two must never be computed from
// different inputs.
type Operation interface {
	// FeeOperations returns the pricing of this operation.
	FeeOperations() []fees.Operation

	// Apply performs the mutation inside the block transaction. Read-only
	// operations apply as a no-op.
	Apply(store storage.Store, tx storage.Transaction) error
}

// ReadOperation prices a fetch performed during action resolution. It does
// not mutate anything on apply.
type ReadOperation struct {
	SeekCount uint16
	ValueSize uint32
}

func (op ReadOperation) FeeOperations() []fees.Operation {
	return []fees.Operation{fees.ReadOperation(op)}
}

func (op ReadOperation) Apply(storage.Store, storage.Transaction) error {
	return nil
}

// SignatureVerificationOperation prices a signature check performed during
// validation.
type SignatureVerificationOperation struct {
	Op fees.SignatureVerificationOperation
}

func (op SignatureVerificationOperation) FeeOperations() []fees.Operation {
	return []fees.Operation{op.Op}
}

func (op SignatureVerificationOperation) Apply(storage.Store, storage.Transaction) error {
	return nil
}

// InsertOperation stores a new element.
type InsertOperation struct {
	Path    storage.Path
	Key     []byte
	Element storage.Element
}

func (op InsertOperation) FeeOperations() []fees.Operation {
	return []fees.Operation{fees.WriteOperation{
		KeySize:   uint32(len(op.Key)),
		ValueSize: op.Element.Size(),
	}}
}

func (op InsertOperation) Apply(store storage.Store, tx storage.Transaction) error {
	err := store.BatchInsert(op.Path, op.Key, op.Element, tx)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	return nil
}

// ReplaceOperation overwrites an existing element. OldSize and Removed come
// from the fetch the action resolution already performed.
type ReplaceOperation struct {
	Path    storage.Path
	Key     []byte
	Element storage.Element

	OldSize uint32
	Removed fees.RemovedBytes
}

func (op ReplaceOperation) FeeOperations() []fees.Operation {
	return []fees.Operation{fees.ReplaceOperation{
		KeySize:      uint32(len(op.Key)),
		NewValueSize: op.Element.Size(),
		OldValueSize: op.OldSize,
		Removed:      op.Removed,
	}}
}

func (op ReplaceOperation) Apply(store storage.Store, tx storage.Transaction) error {
	err := store.BatchReplace(op.Path, op.Key, op.Element, tx)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	return nil
}

// SetOperation stores an element whether or not the key already holds one.
// Existed and OldSize record what resolution observed; pricing must come
// from the resolved view, never from apply-time probing, so the fee is the
// same on every node.
type SetOperation struct {
	Path    storage.Path
	Key     []byte
	Element storage.Element

	Existed bool
	OldSize uint32
}

func (op SetOperation) FeeOperations() []fees.Operation {
	if op.Existed {
		return []fees.Operation{fees.ReplaceOperation{
			KeySize:      uint32(len(op.Key)),
			NewValueSize: op.Element.Size(),
			OldValueSize: op.OldSize,
		}}
	}
	return []fees.Operation{fees.WriteOperation{
		KeySize:   uint32(len(op.Key)),
		ValueSize: op.Element.Size(),
	}}
}

func (op SetOperation) Apply(store storage.Store, tx storage.Transaction) error {
	err := store.BatchReplace(op.Path, op.Key, op.Element, tx)
	if errors.Is(err, storage.ErrNotFound) {
		err = store.BatchInsert(op.Path, op.Key, op.Element, tx)
	}
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	return nil
}

// DeleteOperation removes an element, refunding its attributed bytes.
type DeleteOperation struct {
	Path storage.Path
	Key  []byte

	Removed fees.RemovedBytes
}

func (op DeleteOperation) FeeOperations() []fees.Operation {
	return []fees.Operation{fees.DeleteOperation{
		KeySize: uint32(len(op.Key)),
		Removed: op.Removed,
	}}
}

func (op DeleteOperation) Apply(store storage.Store, tx storage.Transaction) error {
	_, err := store.BatchDelete(op.Path, op.Key, tx)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	return nil
}

// PreCalculatedOperation carries a fee computed during resolution with no
// mutation of its own.
type PreCalculatedOperation struct {
	Fee fees.FeeResult
}

func (op PreCalculatedOperation) FeeOperations() []fees.Operation {
	return []fees.Operation{fees.PreCalculatedOperation{Fee: op.Fee}}
}

func (op PreCalculatedOperation) Apply(storage.Store, storage.Transaction) error {
	return nil
}

// FeeOperationsOf flattens the pricing view of an operation list.
func FeeOperationsOf(ops []Operation) []fees.Operation {
	out := make([]fees.Operation, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.FeeOperations()...)
	}
	return out
}
