package unittest

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/storage"
	badgerstore "github.com/strataplatform/strata-go/storage/badger"
	"github.com/strataplatform/strata-go/svm/state"
)

// RunWithBadgerStore runs f against a fresh in-memory badger-backed store.
func RunWithBadgerStore(t *testing.T, f func(*badgerstore.Store)) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	defer db.Close()

	f(badgerstore.NewStore(db, zerolog.Nop()))
}

// Seeder writes committed fixture state directly into a store, bypassing the
// processing pipeline.
type Seeder struct {
	t     *testing.T
	store storage.Store
}

func NewSeeder(t *testing.T, store storage.Store) *Seeder {
	return &Seeder{t: t, store: store}
}

func (s *Seeder) insert(path storage.Path, key []byte, element storage.Element) {
	tx := s.store.BeginTransaction()
	err := s.store.BatchInsert(path, key, element, tx)
	require.NoError(s.t, err)
	require.NoError(s.t, tx.Commit())
}

func (s *Seeder) upsert(path storage.Path, key []byte, element storage.Element) {
	tx := s.store.BeginTransaction()
	err := s.store.BatchReplace(path, key, element, tx)
	if errors.Is(err, storage.ErrNotFound) {
		err = s.store.BatchInsert(path, key, element, tx)
	}
	require.NoError(s.t, err)
	require.NoError(s.t, tx.Commit())
}

func (s *Seeder) encode(entity interface{}) []byte {
	encoded, err := strata.MarshalEntity(entity)
	require.NoError(s.t, err)
	return encoded
}

// Identity stores an identity record and its balance. The stored record
// carries a zero balance; the balance subtree is authoritative.
func (s *Seeder) Identity(identity *strata.Identity, balance strata.Credits) {
	record := *identity
	record.Balance = 0
	s.insert(storage.IdentitiesPath(), identity.ID.Bytes(), storage.Element{Value: s.encode(record)})
	s.Balance(identity.ID, balance)
}

// Balance sets an identity's credit balance.
func (s *Seeder) Balance(id strata.Identifier, balance strata.Credits) {
	s.upsert(storage.BalancesPath(), id.Bytes(), storage.Element{Value: state.EncodeBalance(balance)})
}

// Nonce sets an identity's last accepted nonce.
func (s *Seeder) Nonce(id strata.Identifier, nonce strata.IdentityNonce) {
	s.upsert(storage.IdentityNoncesPath(), id.Bytes(), storage.Element{Value: state.EncodeNonce(nonce)})
}

// ContractNonce sets an identity's last accepted nonce under a contract.
func (s *Seeder) ContractNonce(id, contractID strata.Identifier, nonce strata.IdentityNonce) {
	s.upsert(storage.IdentityContractNoncesPath(contractID), id.Bytes(),
		storage.Element{Value: state.EncodeNonce(nonce)})
}

// Contract stores a data contract, attributed to its owner at the given
// epoch.
func (s *Seeder) Contract(contract *strata.DataContract, epoch strata.EpochIndex) {
	s.insert(storage.ContractsPath(), contract.ID.Bytes(), storage.Element{
		Value: s.encode(contract),
		Flags: &storage.Flags{Epoch: epoch, OwnerID: contract.OwnerID},
	})
}

// Document stores a document, attributed to its owner at the given epoch.
func (s *Seeder) Document(document *strata.Document, epoch strata.EpochIndex) {
	s.insert(storage.DocumentsPath(document.ContractID, document.Type), document.ID.Bytes(),
		storage.Element{
			Value: s.encode(document),
			Flags: &storage.Flags{Epoch: epoch, OwnerID: document.OwnerID},
		})
}

// TokenConfig stores a token configuration.
func (s *Seeder) TokenConfig(config *strata.TokenConfiguration) {
	s.upsert(storage.TokenConfigPath(), config.TokenID.Bytes(),
		storage.Element{Value: s.encode(config)})
}

// TokenAccount stores one identity's holding of a token.
func (s *Seeder) TokenAccount(account *strata.TokenAccount) {
	s.upsert(storage.TokenAccountsPath(account.TokenID), account.IdentityID.Bytes(),
		storage.Element{Value: s.encode(account)})
}
