package svm

import (
	"bytes"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/fees"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/validation"
)

// BlockResult is the outcome of processing one block proposal: the per
// transition validation results in proposal order, and the fees the block
// collected.
type BlockResult struct {
	TransitionResults []*validation.Result[ExecutionEvent]
	Fees              fees.FeeResult
	AppliedCount      int
	SkippedCount      int
}

// EstimatedFeeForEvent prices an event without touching state. The estimate
// works from the event's recorded operations, so it is the same on every
// node regardless of caches or timing.
func (m *Machine) EstimatedFeeForEvent(
	ctx Context,
	event ExecutionEvent,
	block strata.BlockInfo,
) (fees.FeeResult, error) {
	return protocol.Dispatch(
		"svm.EstimatedFeeForEvent",
		ctx.Version.Execution.EstimatedFeeForEvent,
		map[protocol.FeatureVersion]func() (fees.FeeResult, error){
			0: func() (fees.FeeResult, error) {
				return fees.CalculateFee(
					state.FeeOperationsOf(event.StateOperations()),
					block.Epoch, ctx.EpochsPerEra, ctx.Version)
			},
		})
}

// ExecuteBlock applies already-validated execution events inside a single
// storage transaction. Paid events that can no longer afford their fee are
// skipped silently; any internal failure discards the whole block. The
// returned fee result is the block's aggregate.
func (m *Machine) ExecuteBlock(
	ctx Context,
	block strata.BlockInfo,
	proposer strata.Identifier,
	events []ExecutionEvent,
) (fees.FeeResult, error) {
	return protocol.Dispatch(
		"svm.ExecuteBlock",
		ctx.Version.Execution.ExecuteBlock,
		map[protocol.FeatureVersion]func() (fees.FeeResult, error){
			0: func() (fees.FeeResult, error) {
				return m.executeBlockV0(ctx, block, proposer, events)
			},
		})
}

func (m *Machine) executeBlockV0(
	ctx Context,
	block strata.BlockInfo,
	proposer strata.Identifier,
	events []ExecutionEvent,
) (fees.FeeResult, error) {

	tx := m.store.BeginTransaction()
	view := state.NewView(m.store, tx)

	blockFees := fees.NewFeeResult()
	var replaced []strata.Identifier
	var applied, skipped int

	for _, event := range events {
		eventFee, ok, err := m.applyEvent(ctx, view, block, event)
		if err != nil {
			tx.Discard()
			return fees.FeeResult{}, err
		}
		if !ok {
			skipped++
			m.observeEvent(ctx, "skipped")
			continue
		}
		applied++
		m.observeEvent(ctx, "applied")

		err = blockFees.CheckedAdd(eventFee)
		if err != nil {
			tx.Discard()
			return fees.FeeResult{}, sverrors.NewFeeOverflowError(err)
		}
		replaced = append(replaced, replacedContracts(event.StateOperations())...)
	}

	err := tx.Commit()
	if err != nil {
		return fees.FeeResult{}, sverrors.NewStorageFailure(err)
	}
	m.finishBlock(ctx, block, proposer, blockFees, replaced, applied, skipped)

	return blockFees, nil
}

// ProcessBlockProposal validates and executes a block's transitions in
// proposal order against one storage transaction, so every transition
// observes the effects of the ones before it. Invalid transitions are
// recorded and skipped; the block still commits.
func (m *Machine) ProcessBlockProposal(
	ctx Context,
	block strata.BlockInfo,
	proposer strata.Identifier,
	transitions []strata.StateTransition,
) (*BlockResult, error) {

	tx := m.store.BeginTransaction()
	view := state.NewView(m.store, tx)
	contracts := make(map[strata.Identifier]*action.ContractFetchInfo)

	result := &BlockResult{Fees: fees.NewFeeResult()}
	var replaced []strata.Identifier

	for _, st := range transitions {
		checkResult, err := m.processTransition(ctx, view, st, block, CheckLevelValidator, contracts)
		if err != nil {
			tx.Discard()
			return nil, err
		}
		result.TransitionResults = append(result.TransitionResults, checkResult)
		if !checkResult.IsValid() {
			ctx.Logger.Debug().
				Stringer("transition_type", st.TransitionType()).
				Err(checkResult.CombinedError()).
				Msg("transition rejected in block proposal")
			continue
		}

		event := checkResult.Data()
		eventFee, ok, err := m.applyEvent(ctx, view, block, event)
		if err != nil {
			tx.Discard()
			return nil, err
		}
		if !ok {
			result.SkippedCount++
			m.observeEvent(ctx, "skipped")
			continue
		}
		result.AppliedCount++
		m.observeEvent(ctx, "applied")

		err = result.Fees.CheckedAdd(eventFee)
		if err != nil {
			tx.Discard()
			return nil, sverrors.NewFeeOverflowError(err)
		}

		// later transitions in the block must not resolve a contract this
		// one just replaced from the per-block cache
		for _, id := range replacedContracts(event.StateOperations()) {
			delete(contracts, id)
			replaced = append(replaced, id)
		}
	}

	err := tx.Commit()
	if err != nil {
		return nil, sverrors.NewStorageFailure(err)
	}
	m.finishBlock(ctx, block, proposer, result.Fees, replaced, result.AppliedCount, result.SkippedCount)

	return result, nil
}

// applyEvent applies one event's operations and settles its fees inside the
// block transaction. The boolean is false when a paid event was skipped
// because its payer can no longer afford the fee.
// appliedEvent packages an apply outcome so the versioned dispatch keeps its
// single-result shape.
type appliedEvent struct {
	fees    fees.FeeResult
	applied bool
}

func (m *Machine) applyEvent(
	ctx Context,
	view *state.View,
	block strata.BlockInfo,
	event ExecutionEvent,
) (fees.FeeResult, bool, error) {
	outcome, err := protocol.Dispatch(
		"svm.ApplyEvent",
		ctx.Version.Execution.ApplyEvent,
		map[protocol.FeatureVersion]func() (appliedEvent, error){
			0: func() (appliedEvent, error) {
				fee, applied, err := m.applyEventV0(ctx, view, block, event)
				return appliedEvent{fees: fee, applied: applied}, err
			},
		})
	return outcome.fees, outcome.applied, err
}

func (m *Machine) applyEventV0(
	ctx Context,
	view *state.View,
	block strata.BlockInfo,
	event ExecutionEvent,
) (fees.FeeResult, bool, error) {

	switch ev := event.(type) {
	case FreeEvent:
		err := m.applyOperations(view, ev.Operations)
		if err != nil {
			return fees.FeeResult{}, false, err
		}
		return fees.NewFeeResult(), true, nil

	case PaidEvent:
		fee, err := fees.CalculateFee(
			state.FeeOperationsOf(ev.Operations), block.Epoch, ctx.EpochsPerEra, ctx.Version)
		if err != nil {
			return fees.FeeResult{}, false, err
		}
		required, err := fee.RequiredBalance()
		if err != nil {
			return fees.FeeResult{}, false, err
		}

		balance, exists, err := view.FetchIdentityBalance(ev.Identity.ID)
		if err != nil {
			return fees.FeeResult{}, false, err
		}
		if !exists {
			return fees.FeeResult{}, false, sverrors.NewCorruptedStateFailuref(
				"paid event signer %s has no balance entry", ev.Identity.ID)
		}
		if balance < required {
			if ev.VerifyBalanceWithDryRun {
				return fees.FeeResult{}, false, nil
			}
			return fees.FeeResult{}, false, sverrors.NewExecutionFailuref(
				"event of %s is unaffordable and not marked for dry-run verification",
				ev.Identity.ID)
		}

		err = m.applyOperations(view, ev.Operations)
		if err != nil {
			return fees.FeeResult{}, false, err
		}

		// the event's own operations may have rewritten the payer's balance
		// (transfers, withdrawals); the fee comes off the post-apply value
		balance, exists, err = view.FetchIdentityBalance(ev.Identity.ID)
		if err != nil {
			return fees.FeeResult{}, false, err
		}
		if !exists || balance < required {
			return fees.FeeResult{}, false, sverrors.NewExecutionFailuref(
				"payer %s cannot cover the verified fee after apply", ev.Identity.ID)
		}
		err = m.writeBalance(view, ev.Identity.ID, balance-required)
		if err != nil {
			return fees.FeeResult{}, false, err
		}

		err = m.creditRefunds(view, fee.FeeRefunds)
		if err != nil {
			return fees.FeeResult{}, false, err
		}

		if ctx.Metrics != nil {
			ctx.Metrics.CreditsCharged(uint64(fee.ProcessingFee), uint64(fee.StorageFee))
		}
		return fee, true, nil

	default:
		return fees.FeeResult{}, false, sverrors.NewExecutionFailuref(
			"unknown execution event type %T", event)
	}
}

func (m *Machine) applyOperations(view *state.View, ops []state.Operation) error {
	for _, op := range ops {
		err := op.Apply(view.Store(), view.Transaction())
		if err != nil {
			return err
		}
	}
	return nil
}

// creditRefunds pays freed-storage refunds back to their identities, in
// deterministic identity order. Refunds owed to identities that no longer
// hold a balance entry are forfeited.
func (m *Machine) creditRefunds(view *state.View, refunds fees.FeeRefunds) error {
	for _, identityID := range refunds.Identities() {
		total, err := refunds.TotalFor(identityID)
		if err != nil {
			return sverrors.NewFeeOverflowError(err)
		}
		if total == 0 {
			continue
		}

		balance, exists, err := view.FetchIdentityBalance(identityID)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		credited, err := balance.CheckedAdd(total)
		if err != nil {
			return sverrors.NewFeeOverflowError(err)
		}
		err = m.writeBalance(view, identityID, credited)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) writeBalance(view *state.View, id strata.Identifier, balance strata.Credits) error {
	element := storage.Element{Value: state.EncodeBalance(balance)}
	err := view.Store().BatchReplace(storage.BalancesPath(), id.Bytes(), element, view.Transaction())
	if sverrors.Is(err, storage.ErrNotFound) {
		err = view.Store().BatchInsert(storage.BalancesPath(), id.Bytes(), element, view.Transaction())
	}
	if err != nil {
		return sverrors.NewStorageFailure(err)
	}
	return nil
}

func (m *Machine) finishBlock(
	ctx Context,
	block strata.BlockInfo,
	proposer strata.Identifier,
	blockFees fees.FeeResult,
	replaced []strata.Identifier,
	applied, skipped int,
) {
	for _, id := range replaced {
		m.contractCache.Remove(id)
	}

	if ctx.Metrics != nil {
		ctx.Metrics.BlockExecuted()
	}
	ctx.Logger.Info().
		Uint64("height", block.Height).
		Stringer("proposer", proposer).
		Int("applied", applied).
		Int("skipped", skipped).
		Uint64("processing_fee", uint64(blockFees.ProcessingFee)).
		Uint64("storage_fee", uint64(blockFees.StorageFee)).
		Msg("block executed")
}

// replacedContracts extracts the contract ids an event overwrites, so both
// the per-block and the node-level contract caches can drop them.
func replacedContracts(ops []state.Operation) []strata.Identifier {
	var ids []strata.Identifier
	for _, op := range ops {
		replace, ok := op.(state.ReplaceOperation)
		if !ok || !isContractsPath(replace.Path) {
			continue
		}
		id, err := strata.IdentifierFromBytes(replace.Key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func isContractsPath(path storage.Path) bool {
	contracts := storage.ContractsPath()
	if len(path) != len(contracts) {
		return false
	}
	for i := range path {
		if !bytes.Equal(path[i], contracts[i]) {
			return false
		}
	}
	return true
}

func (m *Machine) observeEvent(ctx Context, outcome string) {
	if ctx.Metrics != nil {
		ctx.Metrics.EventApplied(outcome)
	}
}
