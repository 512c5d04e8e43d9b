// Package badger backs the storage collaborator interface with a badger
// key-value store. Paths are flattened into length-prefixed keys; elements
// are canonically encoded so that byte sizes, and therefore fees, are
// identical on every node.
package badger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/storage"
)

type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

var _ storage.Store = (*Store)(nil)

func NewStore(db *badger.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "storage").Logger(),
	}
}

type transaction struct {
	txn *badger.Txn
}

func (t *transaction) Commit() error {
	err := t.txn.Commit()
	if err != nil {
		return fmt.Errorf("could not commit storage transaction: %w", err)
	}
	return nil
}

func (t *transaction) Discard() {
	t.txn.Discard()
}

func (s *Store) BeginTransaction() storage.Transaction {
	return &transaction{txn: s.db.NewTransaction(true)}
}

// makeKey flattens a path and key into a single badger key. Each segment is
// length-prefixed so that distinct paths can never collide.
func makeKey(path storage.Path, key []byte) []byte {
	size := 0
	for _, segment := range path {
		size += binary.MaxVarintLen64 + len(segment)
	}
	out := make([]byte, 0, size+binary.MaxVarintLen64+len(key))
	for _, segment := range path {
		out = binary.AppendUvarint(out, uint64(len(segment)))
		out = append(out, segment...)
	}
	out = binary.AppendUvarint(out, uint64(len(key)))
	out = append(out, key...)
	return out
}

func (s *Store) txnOf(tx storage.Transaction) (*badger.Txn, error) {
	if tx == nil {
		return nil, nil
	}
	t, ok := tx.(*transaction)
	if !ok {
		return nil, fmt.Errorf("foreign transaction type %T", tx)
	}
	return t.txn, nil
}

func (s *Store) Fetch(path storage.Path, key []byte, tx storage.Transaction) (*storage.Element, error) {
	txn, err := s.txnOf(tx)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		txn = s.db.NewTransaction(false)
		defer txn.Discard()
	}

	item, err := txn.Get(makeKey(path, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not fetch element: %w", err)
	}

	var element storage.Element
	err = item.Value(func(val []byte) error {
		return strata.UnmarshalEntity(val, &element)
	})
	if err != nil {
		return nil, fmt.Errorf("could not decode element: %w", err)
	}
	return &element, nil
}

func (s *Store) BatchInsert(path storage.Path, key []byte, element storage.Element, tx storage.Transaction) error {
	txn, err := s.txnOf(tx)
	if err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("insert requires a transaction")
	}
	fullKey := makeKey(path, key)

	_, err = txn.Get(fullKey)
	if err == nil {
		return storage.ErrAlreadyExists
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("could not check key: %w", err)
	}

	return s.set(txn, fullKey, element)
}

func (s *Store) BatchReplace(path storage.Path, key []byte, element storage.Element, tx storage.Transaction) error {
	txn, err := s.txnOf(tx)
	if err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("replace requires a transaction")
	}
	fullKey := makeKey(path, key)

	_, err = txn.Get(fullKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("could not check key: %w", err)
	}

	return s.set(txn, fullKey, element)
}

func (s *Store) BatchDelete(path storage.Path, key []byte, tx storage.Transaction) (*storage.Element, error) {
	txn, err := s.txnOf(tx)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("delete requires a transaction")
	}
	fullKey := makeKey(path, key)

	item, err := txn.Get(fullKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not check key: %w", err)
	}

	var removed storage.Element
	err = item.Value(func(val []byte) error {
		return strata.UnmarshalEntity(val, &removed)
	})
	if err != nil {
		return nil, fmt.Errorf("could not decode removed element: %w", err)
	}

	err = txn.Delete(fullKey)
	if err != nil {
		return nil, fmt.Errorf("could not delete element: %w", err)
	}
	return &removed, nil
}

func (s *Store) set(txn *badger.Txn, fullKey []byte, element storage.Element) error {
	val, err := strata.MarshalEntity(element)
	if err != nil {
		return fmt.Errorf("could not encode element: %w", err)
	}
	err = txn.Set(fullKey, val)
	if err != nil {
		return fmt.Errorf("could not store element: %w", err)
	}
	return nil
}
