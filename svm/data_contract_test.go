package svm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataplatform/strata-go/model/strata"
	badgerstore "github.com/strataplatform/strata-go/storage/badger"
	"github.com/strataplatform/strata-go/svm"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/utils/unittest"
)

func contractCreateFixture(
	contract *strata.DataContract,
	key unittest.SigningKey,
	nonce strata.IdentityNonce,
) *strata.DataContractCreateTransition {
	st := &strata.DataContractCreateTransition{
		DataContract: contract,
		Nonce:        nonce,
		KeyID:        key.Public.ID,
	}
	unittest.SignTransition(st, key, func(sig []byte) { st.Signature = sig })
	return st
}

func contractUpdateFixture(
	contract *strata.DataContract,
	key unittest.SigningKey,
	nonce strata.IdentityNonce,
) *strata.DataContractUpdateTransition {
	st := &strata.DataContractUpdateTransition{
		DataContract: contract,
		Nonce:        nonce,
		KeyID:        key.Public.ID,
	}
	unittest.SignTransition(st, key, func(sig []byte) { st.Signature = sig })
	return st
}

func TestDataContractCreateAndUpdate(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		create := contractCreateFixture(contract, auth, 1)

		result, err := m.ProcessBlockProposal(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]strata.StateTransition{create})
		require.NoError(t, err)
		require.True(t, result.TransitionResults[0].IsValid(),
			"unexpected errors: %v", result.TransitionResults[0].Errors())

		view := state.NewView(store, nil)
		stored, err := view.FetchDataContract(contract.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint32(1), stored.Version)

		updated := *contract
		updated.Version = 2
		update := contractUpdateFixture(&updated, auth, 2)

		result, err = m.ProcessBlockProposal(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]strata.StateTransition{update})
		require.NoError(t, err)
		require.True(t, result.TransitionResults[0].IsValid(),
			"unexpected errors: %v", result.TransitionResults[0].Errors())

		stored, err = view.FetchDataContract(contract.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint32(2), stored.Version)
	})
}

func TestDataContractCreateRejectsDuplicate(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		seed.Contract(contract, 0)

		create := contractCreateFixture(contract, auth, 1)

		result, err := m.CheckTransition(ctx, create, unittest.BlockInfoFixture(), svm.CheckLevelValidator)
		require.NoError(t, err)
		require.False(t, result.IsValid())
		assert.True(t, sverrors.HasErrorCode(result.FirstError(),
			sverrors.ErrCodeDataContractAlreadyPresentError))
	})
}

func TestDataContractUpdateRules(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)

		strangerAuth := unittest.AuthKeyFixture(1)
		stranger := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(),
			strangerAuth)
		seed.Identity(stranger, richBalance)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		seed.Contract(contract, 0)

		block := unittest.BlockInfoFixture()

		t.Run("unknown contract", func(t *testing.T) {
			missing := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
			missing.Version = 2
			update := contractUpdateFixture(missing, auth, 1)

			result, err := m.CheckTransition(ctx, update, block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeDataContractNotPresentError))
		})

		t.Run("wrong owner", func(t *testing.T) {
			hijacked := *contract
			hijacked.OwnerID = stranger.ID
			hijacked.Version = 2
			// signed by the stranger, who does not own the stored contract
			update := contractUpdateFixture(&hijacked, strangerAuth, 1)

			result, err := m.CheckTransition(ctx, update, block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeDataContractOwnerMismatchError))
		})

		t.Run("version must increment", func(t *testing.T) {
			stale := *contract
			stale.Version = 3
			update := contractUpdateFixture(&stale, auth, 1)

			result, err := m.CheckTransition(ctx, update, block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeInvalidContractVersionError))
		})
	})
}
