package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/validation"
)

type dataContractCreateHandler struct{}

func (h dataContractCreateHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"dataContractCreate.validateBasicStructure",
		ctx.Version.StateTransitions.DataContractCreate.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.DataContractCreateTransition)
				result := validateContractStructure(st.DataContract)
				if !result.IsValid() {
					return result, nil
				}
				if st.DataContract.Version != 1 {
					result.AddError(sverrors.NewInvalidContractVersionError(1, st.DataContract.Version))
				}
				return result, nil
			},
		})
}

func (h dataContractCreateHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"dataContractCreate.validateNonces",
		ctx.Version.StateTransitions.DataContractCreate.Nonce,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.DataContractCreateTransition)
				return validateIdentityNonce(proc, st.OwnerID(), st.Nonce)
			},
		})
}

func (h dataContractCreateHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"dataContractCreate.validateState",
		ctx.Version.StateTransitions.DataContractCreate.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.DataContractCreateTransition)

				existing, err := m.fetchContract(proc, st.DataContract.ID)
				if err != nil {
					return nil, err
				}
				if existing != nil {
					return validation.NewResultWithError[action.Action](
						sverrors.NewDataContractAlreadyPresentError(st.DataContract.ID)), nil
				}
				return h.transformIntoAction(m, ctx, proc, false)
			},
		})
}

func (h dataContractCreateHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"dataContractCreate.transformIntoAction",
		ctx.Version.StateTransitions.DataContractCreate.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.DataContractCreateTransition)
				return validation.NewResultWithData[action.Action](&action.DataContractCreateAction{
					Contract: st.DataContract,
					Nonce:    st.Nonce,
				}), nil
			},
		})
}

type dataContractUpdateHandler struct{}

func (h dataContractUpdateHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"dataContractUpdate.validateBasicStructure",
		ctx.Version.StateTransitions.DataContractUpdate.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.DataContractUpdateTransition)
				result := validateContractStructure(st.DataContract)
				if !result.IsValid() {
					return result, nil
				}
				if st.DataContract.Version < 2 {
					result.AddError(sverrors.NewInvalidContractVersionError(2, st.DataContract.Version))
				}
				return result, nil
			},
		})
}

func (h dataContractUpdateHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"dataContractUpdate.validateNonces",
		ctx.Version.StateTransitions.DataContractUpdate.Nonce,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.DataContractUpdateTransition)
				return validateIdentityContractNonce(proc, st.OwnerID(), st.DataContract.ID, st.Nonce)
			},
		})
}

func (h dataContractUpdateHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"dataContractUpdate.validateState",
		ctx.Version.StateTransitions.DataContractUpdate.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.DataContractUpdateTransition)

				existing, err := m.fetchContract(proc, st.DataContract.ID)
				if err != nil {
					return nil, err
				}
				if existing == nil {
					return validation.NewResultWithError[action.Action](
						sverrors.NewDataContractNotPresentError(st.DataContract.ID)), nil
				}
				if existing.Contract.OwnerID != st.OwnerID() {
					return validation.NewResultWithError[action.Action](
						sverrors.NewDataContractOwnerMismatchError(
							st.DataContract.ID, existing.Contract.OwnerID, st.OwnerID())), nil
				}
				if st.DataContract.Version != existing.Contract.Version+1 {
					return validation.NewResultWithError[action.Action](
						sverrors.NewInvalidContractVersionError(
							existing.Contract.Version+1, st.DataContract.Version)), nil
				}
				return h.transformIntoAction(m, ctx, proc, false)
			},
		})
}

func (h dataContractUpdateHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"dataContractUpdate.transformIntoAction",
		ctx.Version.StateTransitions.DataContractUpdate.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				st := proc.transition.(*strata.DataContractUpdateTransition)

				update := &action.DataContractUpdateAction{
					Contract: st.DataContract,
					Nonce:    st.Nonce,
				}
				existing, err := m.fetchContract(proc, st.DataContract.ID)
				if err != nil {
					return nil, err
				}
				if existing != nil {
					update.PreviousSize = existing.FetchSize
					update.Removed = removedBytesOfContract(proc, existing)
				}
				return validation.NewResultWithData[action.Action](update), nil
			},
		})
}

// validateContractStructure checks the carried contract without touching
// state. It is shared by create and update, whose structural rules differ
// only in the version they demand.
func validateContractStructure(contract *strata.DataContract) *validation.Result[validation.Void] {
	result := validation.NewSimpleResult()

	if contract == nil {
		result.AddError(sverrors.NewMissingRequiredFieldError("dataContract"))
		return result
	}
	if contract.ID.IsZero() {
		result.AddError(sverrors.NewMissingRequiredFieldError("dataContract.id"))
	}
	if contract.OwnerID.IsZero() {
		result.AddError(sverrors.NewMissingRequiredFieldError("dataContract.ownerId"))
	}
	if len(contract.DocumentTypes) == 0 {
		result.AddError(sverrors.NewMissingRequiredFieldError("dataContract.documentTypes"))
	}

	for name, docType := range contract.DocumentTypes {
		if name == "" {
			result.AddError(sverrors.NewMissingRequiredFieldError("documentType.name"))
			continue
		}
		if docType == nil || docType.Name != name {
			result.AddError(sverrors.NewInvalidDocumentTypeError(name, contract.ID))
			continue
		}
		for _, field := range docType.Fields {
			if field.Name == "" {
				result.AddError(sverrors.NewMissingRequiredFieldError("field.name"))
			}
			if field.MaxLength > 0 && field.MinLength > field.MaxLength {
				result.AddError(sverrors.NewValueOutOfRangeErrorf(
					"field."+field.Name, "minLength %d exceeds maxLength %d",
					field.MinLength, field.MaxLength))
			}
			if field.Max != 0 && field.Min > field.Max {
				result.AddError(sverrors.NewValueOutOfRangeErrorf(
					"field."+field.Name, "min %d exceeds max %d", field.Min, field.Max))
			}
		}
		if len(docType.TokenCosts) > 0 && docType.TokenID.IsZero() {
			result.AddError(sverrors.NewMissingRequiredFieldError("documentType.tokenId"))
		}
	}

	return result
}
