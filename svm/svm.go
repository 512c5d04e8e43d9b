// Package svm implements the state transition processing core: a pipeline
// that validates signed state transitions phase by phase, resolves them into
// execution events, and a block executor that applies those events and
// charges fees inside a single storage transaction per block.
package svm

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/fees"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/triggers"
	"github.com/strataplatform/strata-go/svm/validation"
)

// DefaultContractCacheSize bounds the node-level cache of contract fetches.
const DefaultContractCacheSize = 512

// Machine processes state transitions against a storage backend. A machine
// is safe for concurrent checks against committed state; block execution is
// expected to be driven by a single consensus goroutine.
type Machine struct {
	store storage.Store

	// contractCache holds contract fetch infos across blocks. It is
	// invalidated when a contract update commits.
	contractCache *lru.Cache

	mu         sync.Mutex
	registries map[uint32]*triggers.Registry
}

// NewMachine returns a machine over the given store.
func NewMachine(store storage.Store) (*Machine, error) {
	cache, err := lru.New(DefaultContractCacheSize)
	if err != nil {
		return nil, err
	}
	return &Machine{
		store:         store,
		contractCache: cache,
		registries:    make(map[uint32]*triggers.Registry),
	}, nil
}

// triggerRegistry returns the data trigger registry for the context's
// protocol version, building it on first use.
func (m *Machine) triggerRegistry(pv *protocol.PlatformVersion) (*triggers.Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if registry, ok := m.registries[pv.ProtocolVersion]; ok {
		return registry, nil
	}
	registry, err := triggers.NewRegistry(pv)
	if err != nil {
		return nil, err
	}
	m.registries[pv.ProtocolVersion] = registry
	return registry, nil
}

// CheckTransition runs the pipeline for one transition against committed
// state. The returned result is invalid when the transition must be
// rejected; the error return is reserved for internal failures.
func (m *Machine) CheckTransition(
	ctx Context,
	st strata.StateTransition,
	block strata.BlockInfo,
	level CheckLevel,
) (*validation.Result[ExecutionEvent], error) {
	view := state.NewView(m.store, nil)
	contracts := make(map[strata.Identifier]*action.ContractFetchInfo)
	return m.processTransition(ctx, view, st, block, level, contracts)
}

// processTransition runs the pipeline phases in order, stopping at the first
// invalid result, and resolves the transition into an execution event.
func (m *Machine) processTransition(
	ctx Context,
	view *state.View,
	st strata.StateTransition,
	block strata.BlockInfo,
	level CheckLevel,
	contracts map[strata.Identifier]*action.ContractFetchInfo,
) (*validation.Result[ExecutionEvent], error) {

	started := time.Now()

	handler, ok := handlerFor(st)
	if !ok {
		return validation.NewResultWithError[ExecutionEvent](
			sverrors.NewInvalidStateTransitionTypeError(uint8(st.TransitionType()))), nil
	}

	proc := &procedure{
		transition: st,
		handler:    handler,
		block:      block,
		level:      level,
		view:       view,
		contracts:  contracts,
	}

	log := ctx.Logger.With().
		Stringer("transition_type", st.TransitionType()).
		Stringer("owner", st.OwnerID()).
		Stringer("level", level).
		Logger()

	for _, phase := range pipelinePhases() {
		phaseResult, err := phase.Run(m, ctx, proc)
		if err != nil {
			return nil, err
		}
		if !phaseResult.IsValid() {
			log.Debug().
				Str("phase", phase.Name()).
				Err(phaseResult.FirstError()).
				Msg("state transition rejected")
			m.observeCheck(ctx, st, false, started)
			return validation.WithErrorsFrom[ExecutionEvent](phaseResult), nil
		}
	}

	event, feeErr, err := m.resolveEvent(ctx, proc)
	if err != nil {
		return nil, err
	}
	if feeErr != nil {
		log.Debug().Err(feeErr).Msg("state transition cannot pay its fee")
		m.observeCheck(ctx, st, false, started)
		return validation.NewResultWithError[ExecutionEvent](feeErr), nil
	}

	m.observeCheck(ctx, st, true, started)
	return validation.NewResultWithData(event), nil
}

// resolveEvent packages the accumulated operations into an execution event
// and, at mempool levels, verifies the signer can pay the estimated fee.
func (m *Machine) resolveEvent(ctx Context, proc *procedure) (ExecutionEvent, sverrors.ConsensusError, error) {
	if _, funded := proc.transition.(strata.AssetLockFunded); funded {
		return FreeEvent{Operations: proc.ops}, nil, nil
	}

	if proc.signer == nil {
		return nil, nil, sverrors.NewExecutionFailuref(
			"identity-signed transition resolved without a signer")
	}

	event := PaidEvent{
		Identity:                *proc.signer,
		Operations:              proc.ops,
		VerifyBalanceWithDryRun: true,
	}

	if proc.level != CheckLevelValidator {
		estimate, err := fees.CalculateFee(
			state.FeeOperationsOf(proc.ops), proc.block.Epoch, ctx.EpochsPerEra, ctx.Version)
		if err != nil {
			return nil, nil, err
		}
		required, err := estimate.RequiredBalance()
		if err != nil {
			return nil, nil, err
		}
		if proc.signer.Balance < required {
			return nil, sverrors.NewBalanceIsNotEnoughError(proc.signer.Balance, required), nil
		}
	}

	return event, nil, nil
}

func (m *Machine) observeCheck(ctx Context, st strata.StateTransition, valid bool, started time.Time) {
	if ctx.Metrics == nil {
		return
	}
	ctx.Metrics.TransitionChecked(st.TransitionType().String(), valid)
	ctx.Metrics.CheckDuration(time.Since(started).Seconds())
}

// fetchContract loads a contract's fetch info, going through the per-run
// cache, then the node-level cache, then storage. A read is priced once per
// run; cache hits across runs still price the fetch so fees stay independent
// of node-local cache state. A nil info with nil error means the contract
// does not exist.
func (m *Machine) fetchContract(proc *procedure, id strata.Identifier) (*action.ContractFetchInfo, error) {
	if info, ok := proc.contracts[id]; ok {
		return info, nil
	}

	if cached, ok := m.contractCache.Get(id); ok {
		info := cached.(*action.ContractFetchInfo)
		proc.contracts[id] = info
		proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: info.FetchSize})
		return info, nil
	}

	contract, err := proc.view.FetchDataContract(id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, nil
	}

	encoded, err := strata.MarshalEntity(contract)
	if err != nil {
		return nil, sverrors.NewEncodingFailuref("cannot size contract %s: %w", id, err)
	}

	info := &action.ContractFetchInfo{
		Contract:  contract,
		FetchSize: uint32(len(encoded)),
	}
	proc.contracts[id] = info
	m.contractCache.Add(id, info)
	proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: info.FetchSize})
	return info, nil
}
