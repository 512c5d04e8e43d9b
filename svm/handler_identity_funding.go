package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/validation"
)

// Raw byte lengths of identity public key material per key type.
const (
	ecdsaSecp256k1KeyLen = 33
	bls12381KeyLen       = 48
	ecdsaHash160KeyLen   = 20
)

func keyDataLenValid(keyType strata.KeyType, data []byte) bool {
	switch keyType {
	case strata.KeyTypeECDSASecp256k1:
		return len(data) == ecdsaSecp256k1KeyLen
	case strata.KeyTypeBLS12381:
		return len(data) == bls12381KeyLen
	case strata.KeyTypeECDSAHash160:
		return len(data) == ecdsaHash160KeyLen
	default:
		return false
	}
}

// validateAssetLock checks the funding claim's internal shape.
func validateAssetLock(result *validation.Result[validation.Void], proof *strata.AssetLockProof) {
	if proof.Credits == 0 {
		result.AddError(sverrors.NewValueOutOfRangeErrorf("assetLock.credits", "must be positive"))
	}
	if len(proof.OneTimePublicKey) != ecdsaSecp256k1KeyLen {
		result.AddError(sverrors.NewInvalidFieldTypeError(
			"assetLock.oneTimePublicKey", "33-byte compressed secp256k1 key"))
	}
}

type identityCreateHandler struct{}

func (h identityCreateHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityCreate.validateBasicStructure",
		ctx.Version.StateTransitions.IdentityCreate.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityCreateTransition)
				result := validation.NewSimpleResult()

				if st.IdentityID != strata.IdentityIDFromOutPoint(st.AssetLock.OutPoint) {
					result.AddError(sverrors.NewInvalidFieldTypeError(
						"identityId", "hash of the asset lock outpoint"))
				}
				validateAssetLock(result, &st.AssetLock)
				validateNewPublicKeys(result, st.PublicKeys, true)

				return result, nil
			},
		})
}

func (h identityCreateHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	// replay protection comes from outpoint uniqueness, not a nonce
	return validation.NewSimpleResult(), nil
}

func (h identityCreateHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityCreate.validateState",
		ctx.Version.StateTransitions.IdentityCreate.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityCreateTransition)

				existing, err := proc.view.FetchIdentity(st.IdentityID)
				if err != nil {
					return nil, err
				}
				proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: identityReadSize})
				if existing != nil {
					return validation.NewResultWithError[action.Action](
						sverrors.NewIdentityAlreadyExistsError(st.IdentityID)), nil
				}

				spent, err := proc.view.HasAssetLock(st.AssetLock.OutPoint)
				if err != nil {
					return nil, err
				}
				proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: 1})
				if spent {
					return validation.NewResultWithError[action.Action](
						sverrors.NewAssetLockAlreadyUsedError(st.AssetLock.OutPoint)), nil
				}

				return h.transformIntoAction(m, ctx, proc, false)
			},
		})
}

func (h identityCreateHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityCreate.transformIntoAction",
		ctx.Version.StateTransitions.IdentityCreate.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityCreateTransition)
				return validation.NewResultWithData[action.Action](&action.IdentityCreateAction{
					Identity: &strata.Identity{
						ID:         st.IdentityID,
						PublicKeys: st.PublicKeys,
						Balance:    st.AssetLock.Credits,
						Revision:   1,
					},
					Credits:  st.AssetLock.Credits,
					OutPoint: st.AssetLock.OutPoint,
				}), nil
			},
		})
}

type identityTopUpHandler struct{}

func (h identityTopUpHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"identityTopUp.validateBasicStructure",
		ctx.Version.StateTransitions.IdentityTopUp.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.IdentityTopUpTransition)
				result := validation.NewSimpleResult()

				if st.IdentityID.IsZero() {
					result.AddError(sverrors.NewMissingRequiredFieldError("identityId"))
				}
				validateAssetLock(result, &st.AssetLock)

				return result, nil
			},
		})
}

func (h identityTopUpHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return validation.NewSimpleResult(), nil
}

func (h identityTopUpHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityTopUp.validateState",
		ctx.Version.StateTransitions.IdentityTopUp.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityTopUpTransition)

				balance, exists, err := proc.view.FetchIdentityBalance(st.IdentityID)
				if err != nil {
					return nil, err
				}
				proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: balanceReadSize})
				if !exists {
					return validation.NewResultWithError[action.Action](
						sverrors.NewIdentityNotFoundError(st.IdentityID)), nil
				}

				spent, err := proc.view.HasAssetLock(st.AssetLock.OutPoint)
				if err != nil {
					return nil, err
				}
				proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: 1})
				if spent {
					return validation.NewResultWithError[action.Action](
						sverrors.NewAssetLockAlreadyUsedError(st.AssetLock.OutPoint)), nil
				}

				if _, err := balance.CheckedAdd(st.AssetLock.Credits); err != nil {
					return validation.NewResultWithError[action.Action](
						sverrors.NewFeeOverflowError(err)), nil
				}

				return h.transformWithBalance(ctx, proc, balance)
			},
		})
}

func (h identityTopUpHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	st := proc.transition.(*strata.IdentityTopUpTransition)
	balance, _, err := proc.view.FetchIdentityBalance(st.IdentityID)
	if err != nil {
		return nil, err
	}
	return h.transformWithBalance(ctx, proc, balance)
}

func (h identityTopUpHandler) transformWithBalance(ctx Context, proc *procedure, balance strata.Credits) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"identityTopUp.transformIntoAction",
		ctx.Version.StateTransitions.IdentityTopUp.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.IdentityTopUpTransition)
				return validation.NewResultWithData[action.Action](&action.IdentityTopUpAction{
					IdentityID: st.IdentityID,
					Balance:    balance,
					Credits:    st.AssetLock.Credits,
					OutPoint:   st.AssetLock.OutPoint,
				}), nil
			},
		})
}

// validateNewPublicKeys checks a key set being added to an identity:
// distinct ids, well-formed key material, and (for a brand-new identity) at
// least one master authentication key to administer the identity with.
func validateNewPublicKeys(result *validation.Result[validation.Void], keys []strata.IdentityPublicKey, requireMaster bool) {
	if len(keys) == 0 {
		result.AddError(sverrors.NewMissingRequiredFieldError("publicKeys"))
		return
	}

	seen := make(map[strata.KeyID]bool, len(keys))
	hasMasterAuth := false
	for _, key := range keys {
		if seen[key.ID] {
			result.AddError(sverrors.NewValueOutOfRangeErrorf(
				"publicKeys", "duplicate key id %d", key.ID))
			continue
		}
		seen[key.ID] = true

		if !keyDataLenValid(key.Type, key.Data) {
			result.AddError(sverrors.NewInvalidFieldTypeError(
				"publicKeys.data", "key material of the declared type"))
		}
		if key.DisabledAt != 0 {
			result.AddError(sverrors.NewValueOutOfRangeErrorf(
				"publicKeys.disabledAt", "new keys must not be disabled"))
		}
		if key.Purpose == strata.KeyPurposeAuthentication &&
			key.SecurityLevel == strata.SecurityLevelMaster {
			hasMasterAuth = true
		}
	}

	if requireMaster && !hasMasterAuth {
		result.AddError(sverrors.NewMissingRequiredFieldError(
			"publicKeys.masterAuthenticationKey"))
	}
}
