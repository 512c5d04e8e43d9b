package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/svm/state"
)

// ExecutionEvent is the validated outcome of one state transition, ready to
// be applied by the block executor. Events carry the full list of state
// operations the transition resolved to; fees are derived from the same
// list.
type ExecutionEvent interface {
	isExecutionEvent()

	// StateOperations returns the operations to apply, in order.
	StateOperations() []state.Operation
}

// PaidEvent is an event whose fees are charged to an identity balance. If
// VerifyBalanceWithDryRun is set, the executor re-estimates the fee against
// the identity's balance inside the block and skips the event when the
// balance no longer covers it.
type PaidEvent struct {
	Identity                strata.PartialIdentity
	Operations              []state.Operation
	VerifyBalanceWithDryRun bool
}

func (PaidEvent) isExecutionEvent() {}

func (e PaidEvent) StateOperations() []state.Operation {
	return e.Operations
}

// FreeEvent is an event applied without charging a balance. Asset-lock
// funded transitions produce free events: their cost was burned on the core
// chain already.
type FreeEvent struct {
	Operations []state.Operation
}

func (FreeEvent) isExecutionEvent() {}

func (e FreeEvent) StateOperations() []state.Operation {
	return e.Operations
}
