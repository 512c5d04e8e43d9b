// Package state gives the processing core typed access to platform entities
// over the raw path/key storage collaborator.
package state

import (
	"encoding/binary"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/errors"
)

// View reads platform entities through one storage transaction. A nil
// transaction reads last-committed state.
//
// All fetches return nil (or a found=false flag) for absence and reserve
// errors for storage faults and undecodable stored bytes, which are
// corruption, not user error.
type View struct {
	store storage.Store
	tx    storage.Transaction
}

func NewView(store storage.Store, tx storage.Transaction) *View {
	return &View{store: store, tx: tx}
}

// Store exposes the underlying storage collaborator.
func (v *View) Store() storage.Store {
	return v.store
}

// Transaction exposes the transaction this view reads through.
func (v *View) Transaction() storage.Transaction {
	return v.tx
}

// FetchIdentity returns the identity with the given id, or nil.
func (v *View) FetchIdentity(id strata.Identifier) (*strata.Identity, error) {
	element, err := v.store.Fetch(storage.IdentitiesPath(), id.Bytes(), v.tx)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	if element == nil {
		return nil, nil
	}
	var identity strata.Identity
	err = strata.UnmarshalEntity(element.Value, &identity)
	if err != nil {
		return nil, errors.NewCorruptedStateFailuref("identity %s is undecodable: %s", id, err)
	}
	// the balance subtree is authoritative, the stored record carries zero
	balance, _, err := v.FetchIdentityBalance(id)
	if err != nil {
		return nil, err
	}
	identity.Balance = balance
	return &identity, nil
}

// FetchIdentityBalance returns the identity's credit balance. Balances live
// in their own subtree so that balance updates do not rewrite the identity.
func (v *View) FetchIdentityBalance(id strata.Identifier) (strata.Credits, bool, error) {
	element, err := v.store.Fetch(storage.BalancesPath(), id.Bytes(), v.tx)
	if err != nil {
		return 0, false, errors.NewStorageFailure(err)
	}
	if element == nil {
		return 0, false, nil
	}
	if len(element.Value) != 8 {
		return 0, false, errors.NewCorruptedStateFailuref("balance of %s has %d bytes", id, len(element.Value))
	}
	return strata.Credits(binary.BigEndian.Uint64(element.Value)), true, nil
}

// FetchDataContract returns the contract with the given id, or nil.
func (v *View) FetchDataContract(id strata.Identifier) (*strata.DataContract, error) {
	element, err := v.store.Fetch(storage.ContractsPath(), id.Bytes(), v.tx)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	if element == nil {
		return nil, nil
	}
	var contract strata.DataContract
	err = strata.UnmarshalEntity(element.Value, &contract)
	if err != nil {
		return nil, errors.NewCorruptedStateFailuref("contract %s is undecodable: %s", id, err)
	}
	return &contract, nil
}

// FetchDocument returns a stored document together with its storage
// attribution flags, or nil.
func (v *View) FetchDocument(contractID strata.Identifier, documentType string, id strata.Identifier) (*strata.Document, *storage.Flags, error) {
	element, err := v.store.Fetch(storage.DocumentsPath(contractID, documentType), id.Bytes(), v.tx)
	if err != nil {
		return nil, nil, errors.NewStorageFailure(err)
	}
	if element == nil {
		return nil, nil, nil
	}
	var document strata.Document
	err = strata.UnmarshalEntity(element.Value, &document)
	if err != nil {
		return nil, nil, errors.NewCorruptedStateFailuref("document %s is undecodable: %s", id, err)
	}
	return &document, element.Flags, nil
}

// FetchIdentityNonce returns the identity's last accepted nonce.
func (v *View) FetchIdentityNonce(id strata.Identifier) (strata.IdentityNonce, bool, error) {
	return v.fetchNonce(storage.IdentityNoncesPath(), id)
}

// FetchIdentityContractNonce returns the identity's last accepted nonce
// under one contract.
func (v *View) FetchIdentityContractNonce(id, contractID strata.Identifier) (strata.IdentityNonce, bool, error) {
	return v.fetchNonce(storage.IdentityContractNoncesPath(contractID), id)
}

func (v *View) fetchNonce(path storage.Path, id strata.Identifier) (strata.IdentityNonce, bool, error) {
	element, err := v.store.Fetch(path, id.Bytes(), v.tx)
	if err != nil {
		return 0, false, errors.NewStorageFailure(err)
	}
	if element == nil {
		return 0, false, nil
	}
	if len(element.Value) != 8 {
		return 0, false, errors.NewCorruptedStateFailuref("nonce of %s has %d bytes", id, len(element.Value))
	}
	return strata.IdentityNonce(binary.BigEndian.Uint64(element.Value)), true, nil
}

// FetchTokenConfig returns the configuration of a token, or nil.
func (v *View) FetchTokenConfig(tokenID strata.Identifier) (*strata.TokenConfiguration, error) {
	element, err := v.store.Fetch(storage.TokenConfigPath(), tokenID.Bytes(), v.tx)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	if element == nil {
		return nil, nil
	}
	var config strata.TokenConfiguration
	err = strata.UnmarshalEntity(element.Value, &config)
	if err != nil {
		return nil, errors.NewCorruptedStateFailuref("token config %s is undecodable: %s", tokenID, err)
	}
	return &config, nil
}

// FetchTokenAccount returns one identity's holding of a token, or nil if the
// identity has never held it.
func (v *View) FetchTokenAccount(tokenID, identityID strata.Identifier) (*strata.TokenAccount, error) {
	element, err := v.store.Fetch(storage.TokenAccountsPath(tokenID), identityID.Bytes(), v.tx)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	if element == nil {
		return nil, nil
	}
	var account strata.TokenAccount
	err = strata.UnmarshalEntity(element.Value, &account)
	if err != nil {
		return nil, errors.NewCorruptedStateFailuref("token account %s/%s is undecodable: %s", tokenID, identityID, err)
	}
	return &account, nil
}

// HasAssetLock tells whether an asset lock outpoint was already spent.
func (v *View) HasAssetLock(outPoint [36]byte) (bool, error) {
	element, err := v.store.Fetch(storage.AssetLocksPath(), outPoint[:], v.tx)
	if err != nil {
		return false, errors.NewStorageFailure(err)
	}
	return element != nil, nil
}

// EncodeBalance encodes a credit balance for storage.
func EncodeBalance(balance strata.Credits) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(balance))
	return out
}

// EncodeNonce encodes an identity nonce for storage.
func EncodeNonce(nonce strata.IdentityNonce) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(nonce))
	return out
}
