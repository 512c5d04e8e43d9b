package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/storage"
	badgerstore "github.com/strataplatform/strata-go/storage/badger"
	"github.com/strataplatform/strata-go/svm/fees"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/utils/unittest"
)

func TestSetOperationPricing(t *testing.T) {
	element := storage.Element{Value: make([]byte, 8)}

	fresh := state.SetOperation{
		Path:    storage.BalancesPath(),
		Key:     make([]byte, 32),
		Element: element,
	}
	ops := fresh.FeeOperations()
	require.Len(t, ops, 1)
	write, ok := ops[0].(fees.WriteOperation)
	require.True(t, ok, "an upsert of an absent key prices as a write")
	assert.Equal(t, uint32(32), write.KeySize)
	assert.Equal(t, uint32(8), write.ValueSize)

	overwriting := state.SetOperation{
		Path:    storage.BalancesPath(),
		Key:     make([]byte, 32),
		Element: element,
		Existed: true,
		OldSize: 8,
	}
	ops = overwriting.FeeOperations()
	require.Len(t, ops, 1)
	replace, ok := ops[0].(fees.ReplaceOperation)
	require.True(t, ok, "an upsert of a present key prices as a replace")
	assert.Equal(t, uint32(8), replace.OldValueSize)
}

func TestSetOperationApplyInsertsAndReplaces(t *testing.T) {
	unittest.RunWithBadgerStore(t, func(store *badgerstore.Store) {
		id := unittest.IdentifierFixture()
		op := state.SetOperation{
			Path:    storage.BalancesPath(),
			Key:     id.Bytes(),
			Element: storage.Element{Value: state.EncodeBalance(100)},
		}

		tx := store.BeginTransaction()
		require.NoError(t, op.Apply(store, tx))
		require.NoError(t, tx.Commit())

		view := state.NewView(store, nil)
		balance, exists, err := view.FetchIdentityBalance(id)
		require.NoError(t, err)
		require.True(t, exists)
		assert.Equal(t, strata.Credits(100), balance)

		op.Element = storage.Element{Value: state.EncodeBalance(250)}
		op.Existed = true
		op.OldSize = 8

		tx = store.BeginTransaction()
		require.NoError(t, op.Apply(store, tx))
		require.NoError(t, tx.Commit())

		balance, exists, err = view.FetchIdentityBalance(id)
		require.NoError(t, err)
		require.True(t, exists)
		assert.Equal(t, strata.Credits(250), balance)
	})
}

func TestReadOperationsApplyAsNoOps(t *testing.T) {
	unittest.RunWithBadgerStore(t, func(store *badgerstore.Store) {
		ops := []state.Operation{
			state.ReadOperation{SeekCount: 1, ValueSize: 100},
			state.SignatureVerificationOperation{
				Op: fees.SignatureVerificationOperation{KeyType: strata.KeyTypeECDSASecp256k1},
			},
			state.PreCalculatedOperation{Fee: fees.NewFeeResult()},
		}
		for _, op := range ops {
			require.NoError(t, op.Apply(store, nil))
		}
	})
}

func TestViewFetchIdentityUsesBalanceSubtree(t *testing.T) {
	unittest.RunWithBadgerStore(t, func(store *badgerstore.Store) {
		key := unittest.MasterKeyFixture()
		identity := unittest.IdentityFixture(unittest.IdentifierFixture(), key)

		seeder := unittest.NewSeeder(t, store)
		seeder.Identity(identity, 12345)

		view := state.NewView(store, nil)
		fetched, err := view.FetchIdentity(identity.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, strata.Credits(12345), fetched.Balance)
		require.Len(t, fetched.PublicKeys, 1)
		assert.Equal(t, key.Public.Data, fetched.PublicKeys[0].Data)
	})
}
