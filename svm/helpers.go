package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/fees"
	"github.com/strataplatform/strata-go/svm/validation"
)

// validateIdentityNonce checks that the transition carries exactly the next
// identity nonce.
func validateIdentityNonce(proc *procedure, id strata.Identifier, received strata.IdentityNonce) (*validation.Result[validation.Void], error) {
	current, _, err := proc.view.FetchIdentityNonce(id)
	if err != nil {
		return nil, err
	}
	if received != current+1 {
		return validation.NewSimpleResultWithError(
			sverrors.NewInvalidIdentityNonceError(id, current, received)), nil
	}
	return validation.NewSimpleResult(), nil
}

// validateIdentityContractNonce checks the per-contract nonce the same way.
func validateIdentityContractNonce(proc *procedure, id, contractID strata.Identifier, received strata.IdentityNonce) (*validation.Result[validation.Void], error) {
	current, _, err := proc.view.FetchIdentityContractNonce(id, contractID)
	if err != nil {
		return nil, err
	}
	if received != current+1 {
		return validation.NewSimpleResultWithError(
			sverrors.NewInvalidIdentityNonceError(id, current, received)), nil
	}
	return validation.NewSimpleResult(), nil
}

// removedBytesOfElement attributes an element's stored bytes to the identity
// and epoch that paid for them. System elements attribute to the zero
// identifier and earn no refund.
func removedBytesOfElement(element *storage.Element) fees.RemovedBytes {
	if element == nil {
		return nil
	}
	owner := strata.ZeroID
	epoch := strata.EpochIndex(0)
	if element.Flags != nil {
		owner = element.Flags.OwnerID
		epoch = element.Flags.Epoch
	}
	return fees.RemovedBytes{
		owner: {epoch: element.Size()},
	}
}

// removedBytesOfContract looks up the stored contract element to attribute
// the bytes a contract update replaces.
func removedBytesOfContract(proc *procedure, info *action.ContractFetchInfo) fees.RemovedBytes {
	element, err := proc.view.Store().Fetch(
		storage.ContractsPath(), info.Contract.ID.Bytes(), proc.view.Transaction())
	if err != nil || element == nil {
		// the contract cache may outlive the stored element; refunds then
		// simply attribute nothing
		return nil
	}
	return removedBytesOfElement(element)
}
