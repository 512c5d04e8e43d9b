package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/validation"
)

type identityUpdateHandler struct{}

func (h identityUpdateHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityUpdate.validateBasicStructure",
		ctx.Version.StateTransitions.IdentityUpdate.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityUpdateTransition)
				result := validation.NewSimpleResult()

				if st.IdentityID.IsZero() {
					result.AddError(sverrors.NewMissingRequiredFieldError("identityId"))
				}
				if len(st.AddPublicKeys) == 0 && len(st.DisablePublicKeys) == 0 {
					result.AddError(sverrors.NewMissingRequiredFieldError(
						"addPublicKeys or disablePublicKeys"))
				}
				if len(st.AddPublicKeys) > 0 {
					validateNewPublicKeys(result, st.AddPublicKeys, false)
				}

				return result, nil
			},
		})
}

func (h identityUpdateHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityUpdate.validateNonces",
		ctx.Version.StateTransitions.IdentityUpdate.Nonce,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityUpdateTransition)
				return validateIdentityNonce(proc, st.IdentityID, st.Nonce)
			},
		})
}

func (h identityUpdateHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityUpdate.validateState",
		ctx.Version.StateTransitions.IdentityUpdate.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityUpdateTransition)

				identity, err := proc.view.FetchIdentity(st.IdentityID)
				if err != nil {
					return nil, err
				}
				if identity == nil {
					return validation.NewResultWithError[action.Action](
						sverrors.NewIdentityNotFoundError(st.IdentityID)), nil
				}

				if st.Revision != identity.Revision+1 {
					return validation.NewResultWithError[action.Action](
						sverrors.NewInvalidIdentityRevisionError(
							st.IdentityID, identity.Revision, st.Revision)), nil
				}

				result := validation.NewResult[action.Action]()
				for _, key := range st.AddPublicKeys {
					if identity.GetPublicKeyByID(key.ID) != nil {
						result.AddError(sverrors.NewValueOutOfRangeErrorf(
							"addPublicKeys", "key id %d is already taken", key.ID))
					}
				}
				for _, keyID := range st.DisablePublicKeys {
					key := identity.GetPublicKeyByID(keyID)
					if key == nil {
						result.AddError(sverrors.NewMissingPublicKeyError(st.IdentityID, keyID))
						continue
					}
					if !key.IsEnabled() {
						result.AddError(sverrors.NewPublicKeyIsDisabledError(keyID, key.DisabledAt))
					}
					if key.ReadOnly {
						result.AddError(sverrors.NewValueOutOfRangeErrorf(
							"disablePublicKeys", "key %d is read only", keyID))
					}
				}
				if !result.IsValid() {
					return result, nil
				}

				updated := applyKeyChanges(identity, st, proc.block.Time)
				if !hasEnabledMasterKey(updated) {
					return validation.NewResultWithError[action.Action](
						sverrors.NewValueOutOfRangeErrorf(
							"disablePublicKeys", "identity would lose its last master key")), nil
				}

				return h.transformIntoAction(m, ctx, proc, false)
			},
		})
}

func (h identityUpdateHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityUpdate.transformIntoAction",
		ctx.Version.StateTransitions.IdentityUpdate.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityUpdateTransition)

				identity, err := proc.view.FetchIdentity(st.IdentityID)
				if err != nil {
					return nil, err
				}
				if identity == nil {
					return validation.NewResultWithError[action.Action](
						sverrors.NewIdentityNotFoundError(st.IdentityID)), nil
				}

				var previousSize uint32
				element, err := proc.view.Store().Fetch(
					storage.IdentitiesPath(), st.IdentityID.Bytes(), proc.view.Transaction())
				if err != nil {
					return nil, sverrors.NewStorageFailure(err)
				}
				if element != nil {
					previousSize = element.Size()
				}

				return validation.NewResultWithData[action.Action](&action.IdentityUpdateAction{
					Identity:     applyKeyChanges(identity, st, proc.block.Time),
					Revision:     st.Revision,
					AddKeys:      st.AddPublicKeys,
					DisableKeys:  st.DisablePublicKeys,
					DisabledAt:   proc.block.Time,
					PreviousSize: previousSize,
					Removed:      removedBytesOfElement(element),
					Nonce:        st.Nonce,
				}), nil
			},
		})
}

// applyKeyChanges builds the updated identity: disabled keys get stamped
// with the block time, added keys are appended, and the revision advances.
func applyKeyChanges(identity *strata.Identity, st *strata.IdentityUpdateTransition, now strata.Timestamp) *strata.Identity {
	updated := &strata.Identity{
		ID:       identity.ID,
		Balance:  identity.Balance,
		Revision: st.Revision,
	}

	disable := make(map[strata.KeyID]bool, len(st.DisablePublicKeys))
	for _, keyID := range st.DisablePublicKeys {
		disable[keyID] = true
	}

	updated.PublicKeys = make([]strata.IdentityPublicKey, 0, len(identity.PublicKeys)+len(st.AddPublicKeys))
	for _, key := range identity.PublicKeys {
		if disable[key.ID] && key.DisabledAt == 0 {
			key.DisabledAt = now
		}
		updated.PublicKeys = append(updated.PublicKeys, key)
	}
	updated.PublicKeys = append(updated.PublicKeys, st.AddPublicKeys...)

	return updated
}

func hasEnabledMasterKey(identity *strata.Identity) bool {
	for _, key := range identity.PublicKeys {
		if key.Purpose == strata.KeyPurposeAuthentication &&
			key.SecurityLevel == strata.SecurityLevelMaster &&
			key.IsEnabled() {
			return true
		}
	}
	return false
}

type identityCreditTransferHandler struct{}

func (h identityCreditTransferHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityCreditTransfer.validateBasicStructure",
		ctx.Version.StateTransitions.IdentityCreditTransfer.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityCreditTransferTransition)
				result := validation.NewSimpleResult()

				if st.IdentityID.IsZero() {
					result.AddError(sverrors.NewMissingRequiredFieldError("identityId"))
				}
				if st.RecipientID.IsZero() {
					result.AddError(sverrors.NewMissingRequiredFieldError("recipientId"))
				}
				if st.RecipientID == st.IdentityID {
					result.AddError(sverrors.NewValueOutOfRangeErrorf(
						"recipientId", "cannot transfer to self"))
				}
				if st.Amount == 0 {
					result.AddError(sverrors.NewValueOutOfRangeErrorf("amount", "must be positive"))
				}

				return result, nil
			},
		})
}

func (h identityCreditTransferHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityCreditTransfer.validateNonces",
		ctx.Version.StateTransitions.IdentityCreditTransfer.Nonce,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityCreditTransferTransition)
				return validateIdentityNonce(proc, st.IdentityID, st.Nonce)
			},
		})
}

func (h identityCreditTransferHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityCreditTransfer.validateState",
		ctx.Version.StateTransitions.IdentityCreditTransfer.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityCreditTransferTransition)

				if proc.signer.Balance < st.Amount {
					return validation.NewResultWithError[action.Action](
						sverrors.NewIdentityInsufficientBalanceError(
							st.IdentityID, proc.signer.Balance, st.Amount)), nil
				}

				recipientBalance, exists, err := proc.view.FetchIdentityBalance(st.RecipientID)
				if err != nil {
					return nil, err
				}
				if !exists {
					return validation.NewResultWithError[action.Action](
						sverrors.NewIdentityNotFoundError(st.RecipientID)), nil
				}
				if _, err := recipientBalance.CheckedAdd(st.Amount); err != nil {
					return validation.NewResultWithError[action.Action](
						sverrors.NewFeeOverflowError(err)), nil
				}

				return h.transformIntoAction(m, ctx, proc, false)
			},
		})
}

func (h identityCreditTransferHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityCreditTransfer.transformIntoAction",
		ctx.Version.StateTransitions.IdentityCreditTransfer.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityCreditTransferTransition)

				recipientBalance, _, err := proc.view.FetchIdentityBalance(st.RecipientID)
				if err != nil {
					return nil, err
				}

				return validation.NewResultWithData[action.Action](&action.IdentityCreditTransferAction{
					Sender:           st.IdentityID,
					Recipient:        st.RecipientID,
					Amount:           st.Amount,
					SenderBalance:    proc.signer.Balance,
					RecipientBalance: recipientBalance,
					Nonce:            st.Nonce,
				}), nil
			},
		})
}

type identityCreditWithdrawalHandler struct{}

func (h identityCreditWithdrawalHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityCreditWithdrawal.validateBasicStructure",
		ctx.Version.StateTransitions.IdentityCreditWithdrawal.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityCreditWithdrawalTransition)
				result := validation.NewSimpleResult()

				if st.IdentityID.IsZero() {
					result.AddError(sverrors.NewMissingRequiredFieldError("identityId"))
				}
				if st.Amount == 0 {
					result.AddError(sverrors.NewValueOutOfRangeErrorf("amount", "must be positive"))
				}
				if st.CoreFeePerByte == 0 {
					result.AddError(sverrors.NewValueOutOfRangeErrorf(
						"coreFeePerByte", "must be positive"))
				}
				if len(st.OutputScript) == 0 || len(st.OutputScript) > maxOutputScriptLen {
					result.AddError(sverrors.NewInvalidFieldTypeError(
						"outputScript", "core chain script of 1 to 1024 bytes"))
				}

				return result, nil
			},
		})
}

func (h identityCreditWithdrawalHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityCreditWithdrawal.validateNonces",
		ctx.Version.StateTransitions.IdentityCreditWithdrawal.Nonce,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityCreditWithdrawalTransition)
				return validateIdentityNonce(proc, st.IdentityID, st.Nonce)
			},
		})
}

func (h identityCreditWithdrawalHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityCreditWithdrawal.validateState",
		ctx.Version.StateTransitions.IdentityCreditWithdrawal.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityCreditWithdrawalTransition)

				// the withdrawal must leave room for the minimum core-chain
				// fee on top of the withdrawn amount; the reported required
				// balance is the amount itself
				balance := proc.signer.Balance
				needed, err := st.Amount.CheckedAdd(ctx.MinWithdrawalFee)
				if err != nil || balance < needed {
					return validation.NewResultWithError[action.Action](
						sverrors.NewIdentityInsufficientBalanceError(
							st.IdentityID, balance, st.Amount)), nil
				}

				return h.transformIntoAction(m, ctx, proc, false)
			},
		})
}

func (h identityCreditWithdrawalHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityCreditWithdrawal.transformIntoAction",
		ctx.Version.StateTransitions.IdentityCreditWithdrawal.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityCreditWithdrawalTransition)
				return validation.NewResultWithData[action.Action](&action.IdentityCreditWithdrawalAction{
					IdentityID:     st.IdentityID,
					Amount:         st.Amount,
					Balance:        proc.signer.Balance,
					CoreFeePerByte: st.CoreFeePerByte,
					OutputScript:   st.OutputScript,
					Nonce:          st.Nonce,
				}), nil
			},
		})
}

const maxOutputScriptLen = 1024
