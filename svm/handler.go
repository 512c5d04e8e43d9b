package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/svm/action"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/validation"
)

// CheckLevel selects how much of the pipeline runs for a transition.
type CheckLevel uint8

const (
	// CheckLevelCheckTx is mempool admission: structure, signature and key
	// checks plus a dry-run fee estimate, but no state validation.
	CheckLevelCheckTx CheckLevel = iota

	// CheckLevelRecheckTx is mempool retention after a block: only nonce
	// and balance are re-verified; the signature was checked on admission.
	CheckLevelRecheckTx

	// CheckLevelValidator is full block validation: every phase runs and
	// the transition resolves into an execution event.
	CheckLevelValidator
)

func (l CheckLevel) String() string {
	switch l {
	case CheckLevelCheckTx:
		return "check_tx"
	case CheckLevelRecheckTx:
		return "recheck_tx"
	case CheckLevelValidator:
		return "validator"
	default:
		return "unknown"
	}
}

// procedure is the mutable processing state of one transition run. It
// accumulates the state operations the transition resolves to; the same
// list later drives both fee calculation and application.
type procedure struct {
	transition strata.StateTransition
	handler    transitionHandler
	block      strata.BlockInfo
	level      CheckLevel
	view       *state.View

	// signer is resolved during the signature phase. It stays nil for
	// asset-lock funded transitions, which have no identity on record yet.
	signer *strata.PartialIdentity

	// contracts caches contract fetches within this run so sibling
	// sub-transitions share one read.
	contracts map[strata.Identifier]*action.ContractFetchInfo

	ops    []state.Operation
	action action.Action
}

func (proc *procedure) addOperations(ops ...state.Operation) {
	proc.ops = append(proc.ops, ops...)
}

// transitionHandler is the per-kind capability surface of the pipeline.
// Exactly one implementation exists per state transition type; handlerFor is
// the only place that inspects the concrete transition type.
type transitionHandler interface {
	// validateBasicStructure checks everything checkable without state
	// access: field presence, ranges, internal consistency.
	validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error)

	// validateNonces checks replay protection against recorded nonces.
	validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error)

	// validateState checks the transition against current state and, when
	// valid, resolves it into an action.
	validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error)

	// transformIntoAction resolves the transition into an action without
	// full state validation. With dryRun set, fetches that only serve
	// validation are skipped.
	transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error)
}

// handlerFor returns the handler for the transition's type.
func handlerFor(st strata.StateTransition) (transitionHandler, bool) {
	switch st.(type) {
	case *strata.DataContractCreateTransition:
		return dataContractCreateHandler{}, true
	case *strata.DataContractUpdateTransition:
		return dataContractUpdateHandler{}, true
	case *strata.DocumentsBatchTransition:
		return documentsBatchHandler{}, true
	case *strata.IdentityCreateTransition:
		return identityCreateHandler{}, true
	case *strata.IdentityTopUpTransition:
		return identityTopUpHandler{}, true
	case *strata.IdentityUpdateTransition:
		return identityUpdateHandler{}, true
	case *strata.IdentityCreditTransferTransition:
		return identityCreditTransferHandler{}, true
	case *strata.IdentityCreditWithdrawalTransition:
		return identityCreditWithdrawalHandler{}, true
	default:
		return nil, false
	}
}

// keyRequirements returns the key purposes and security levels allowed to
// sign the given transition type. Credit movement requires a transfer key at
// the critical level; identity updates require the master key; everything
// else takes an authentication key at high or critical.
func keyRequirements(t strata.StateTransitionType) (purposes []strata.KeyPurpose, levels []strata.SecurityLevel) {
	switch t {
	case strata.StateTransitionIdentityCreditTransfer, strata.StateTransitionIdentityCreditWithdrawal:
		return []strata.KeyPurpose{strata.KeyPurposeTransfer},
			[]strata.SecurityLevel{strata.SecurityLevelCritical}
	case strata.StateTransitionIdentityUpdate:
		return []strata.KeyPurpose{strata.KeyPurposeAuthentication},
			[]strata.SecurityLevel{strata.SecurityLevelMaster}
	default:
		return []strata.KeyPurpose{strata.KeyPurposeAuthentication},
			[]strata.SecurityLevel{strata.SecurityLevelCritical, strata.SecurityLevelHigh}
	}
}
