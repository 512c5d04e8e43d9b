package svm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/storage"
	badgerstore "github.com/strataplatform/strata-go/storage/badger"
	"github.com/strataplatform/strata-go/svm"
	"github.com/strataplatform/strata-go/svm/fees"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/utils/unittest"
)

func TestProcessBlockProposalTransfersCredits(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		master := unittest.MasterKeyFixture()
		transfer := unittest.TransferKeyFixture(1)
		sender := unittest.IdentityFixture(unittest.IdentifierFixture(), master, transfer)
		recipient := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(sender, richBalance)
		seed.Identity(recipient, 0)

		amount := strata.Credits(100_000)
		st := transferFixture(sender.ID, transfer, recipient.ID, amount, 1)

		result, err := m.ProcessBlockProposal(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]strata.StateTransition{st})
		require.NoError(t, err)
		require.Len(t, result.TransitionResults, 1)
		require.True(t, result.TransitionResults[0].IsValid(),
			"unexpected errors: %v", result.TransitionResults[0].Errors())
		assert.Equal(t, 1, result.AppliedCount)
		assert.Equal(t, 0, result.SkippedCount)

		view := state.NewView(store, nil)

		got, _, err := view.FetchIdentityBalance(recipient.ID)
		require.NoError(t, err)
		assert.Equal(t, amount, got)

		senderBalance, _, err := view.FetchIdentityBalance(sender.ID)
		require.NoError(t, err)
		assert.Less(t, uint64(senderBalance), uint64(richBalance-amount),
			"the processing fee comes out of the sender's balance too")
		assert.Greater(t, uint64(senderBalance), uint64(0))

		nonce, exists, err := view.FetchIdentityNonce(sender.ID)
		require.NoError(t, err)
		require.True(t, exists)
		assert.Equal(t, strata.IdentityNonce(1), nonce)
	})
}

func TestProcessBlockProposalSkipsInvalidTransitions(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		master := unittest.MasterKeyFixture()
		transfer := unittest.TransferKeyFixture(1)
		sender := unittest.IdentityFixture(unittest.IdentifierFixture(), master, transfer)
		recipient := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(sender, richBalance)
		seed.Identity(recipient, 0)

		good := transferFixture(sender.ID, transfer, recipient.ID, 1_000, 1)
		replayed := transferFixture(sender.ID, transfer, recipient.ID, 1_000, 1)

		result, err := m.ProcessBlockProposal(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]strata.StateTransition{good, replayed})
		require.NoError(t, err)
		require.Len(t, result.TransitionResults, 2)
		assert.True(t, result.TransitionResults[0].IsValid())
		assert.False(t, result.TransitionResults[1].IsValid())
		assert.Equal(t, 1, result.AppliedCount)

		view := state.NewView(store, nil)
		got, _, err := view.FetchIdentityBalance(recipient.ID)
		require.NoError(t, err)
		assert.Equal(t, strata.Credits(1_000), got, "the replay must not apply twice")
	})
}

func TestExecuteBlockSkipsUnaffordablePaidEvent(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		payer := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(payer, 10)

		newcomer := unittest.IdentifierFixture()
		event := svm.PaidEvent{
			Identity: strata.PartialIdentity{ID: payer.ID, Balance: 10},
			Operations: []state.Operation{
				state.InsertOperation{
					Path:    storage.BalancesPath(),
					Key:     newcomer.Bytes(),
					Element: storage.Element{Value: state.EncodeBalance(1)},
				},
			},
			VerifyBalanceWithDryRun: true,
		}

		blockFees, err := m.ExecuteBlock(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]svm.ExecutionEvent{event})
		require.NoError(t, err)
		assert.Equal(t, strata.Credits(0), blockFees.StorageFee)
		assert.Equal(t, strata.Credits(0), blockFees.ProcessingFee)

		view := state.NewView(store, nil)
		_, exists, err := view.FetchIdentityBalance(newcomer)
		require.NoError(t, err)
		assert.False(t, exists, "a skipped event must leave no trace")

		payerBalance, _, err := view.FetchIdentityBalance(payer.ID)
		require.NoError(t, err)
		assert.Equal(t, strata.Credits(10), payerBalance)
	})
}

// TestExecuteBlockContinuesAfterSkip puts an unaffordable dry-run event
// ahead of a funded one and checks the skip is isolated: the rest of the
// block still applies and still pays fees.
func TestExecuteBlockContinuesAfterSkip(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		broke := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(broke, 10)
		funded := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(funded, richBalance)

		first := unittest.IdentifierFixture()
		second := unittest.IdentifierFixture()
		insert := func(id strata.Identifier) []state.Operation {
			return []state.Operation{state.InsertOperation{
				Path:    storage.BalancesPath(),
				Key:     id.Bytes(),
				Element: storage.Element{Value: state.EncodeBalance(1)},
			}}
		}
		events := []svm.ExecutionEvent{
			svm.PaidEvent{
				Identity:                strata.PartialIdentity{ID: broke.ID, Balance: 10},
				Operations:              insert(first),
				VerifyBalanceWithDryRun: true,
			},
			svm.PaidEvent{
				Identity:   strata.PartialIdentity{ID: funded.ID, Balance: richBalance},
				Operations: insert(second),
			},
		}

		blockFees, err := m.ExecuteBlock(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(), events)
		require.NoError(t, err)
		assert.NotEqual(t, strata.Credits(0), blockFees.StorageFee,
			"the block must keep charging after a skip")

		view := state.NewView(store, nil)
		_, exists, err := view.FetchIdentityBalance(first)
		require.NoError(t, err)
		assert.False(t, exists, "a skipped event must leave no trace")

		got, exists, err := view.FetchIdentityBalance(second)
		require.NoError(t, err)
		require.True(t, exists, "events after a skip must still apply")
		assert.Equal(t, strata.Credits(1), got)

		fundedBalance, _, err := view.FetchIdentityBalance(funded.ID)
		require.NoError(t, err)
		assert.Less(t, uint64(fundedBalance), uint64(richBalance))
	})
}

func TestExecuteBlockAppliesFreeEvents(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		newcomer := unittest.IdentifierFixture()
		event := svm.FreeEvent{
			Operations: []state.Operation{
				state.InsertOperation{
					Path:    storage.BalancesPath(),
					Key:     newcomer.Bytes(),
					Element: storage.Element{Value: state.EncodeBalance(1_000_000)},
				},
			},
		}

		_, err := m.ExecuteBlock(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]svm.ExecutionEvent{event})
		require.NoError(t, err)

		view := state.NewView(store, nil)
		got, exists, err := view.FetchIdentityBalance(newcomer)
		require.NoError(t, err)
		require.True(t, exists)
		assert.Equal(t, strata.Credits(1_000_000), got)
	})
}

// TestExecuteBlockCreditsStorageRefunds deletes previously paid-for bytes
// and checks that the freed storage is refunded to the identity that paid
// for it, while identities without a balance entry forfeit their share.
func TestExecuteBlockCreditsStorageRefunds(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		payer := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(payer, richBalance)

		refundee := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(refundee, 500)

		vanished := unittest.IdentifierFixture() // no balance entry

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), refundee.ID)
		doc := unittest.DocumentFixture(unittest.IdentifierFixture(), contract.ID, refundee.ID)
		seed.Document(doc, 0)

		event := svm.PaidEvent{
			Identity: strata.PartialIdentity{ID: payer.ID, Balance: richBalance},
			Operations: []state.Operation{
				state.DeleteOperation{
					Path: storage.DocumentsPath(doc.ContractID, doc.Type),
					Key:  doc.ID.Bytes(),
					Removed: fees.RemovedBytes{
						refundee.ID: {0: 100},
						vanished:    {0: 100},
					},
				},
			},
		}

		_, err := m.ExecuteBlock(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]svm.ExecutionEvent{event})
		require.NoError(t, err)

		view := state.NewView(store, nil)

		rate := strata.Credits(ctx.Version.Fees.Costs.StorageDiskUsageCreditPerByte)
		expected := strata.Credits(500) + strata.Credits(100)*rate

		got, _, err := view.FetchIdentityBalance(refundee.ID)
		require.NoError(t, err)
		assert.Equal(t, expected, got)

		_, exists, err := view.FetchIdentityBalance(vanished)
		require.NoError(t, err)
		assert.False(t, exists, "refunds owed to unknown identities are forfeited")
	})
}

func TestEstimatedFeeForEventMatchesOperations(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		event := svm.PaidEvent{
			Identity: strata.PartialIdentity{ID: unittest.IdentifierFixture()},
			Operations: []state.Operation{
				state.ReadOperation{SeekCount: 1, ValueSize: 100},
			},
		}

		estimate, err := m.EstimatedFeeForEvent(ctx, event, unittest.BlockInfoFixture())
		require.NoError(t, err)

		direct, err := fees.CalculateFee(
			state.FeeOperationsOf(event.StateOperations()),
			unittest.BlockInfoFixture().Epoch, ctx.EpochsPerEra, ctx.Version)
		require.NoError(t, err)
		assert.Equal(t, direct, estimate)
	})
}
