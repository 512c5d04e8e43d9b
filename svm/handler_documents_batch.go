package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/triggers"
	"github.com/strataplatform/strata-go/svm/validation"
)

type documentsBatchHandler struct{}

func (h documentsBatchHandler) validateBasicStructure(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"documentsBatch.validateBasicStructure",
		ctx.Version.StateTransitions.DocumentsBatch.BasicStructure,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.DocumentsBatchTransition)
				result := validation.NewSimpleResult()

				if st.Owner.IsZero() {
					result.AddError(sverrors.NewMissingRequiredFieldError("owner"))
				}
				if len(st.Transitions) == 0 {
					result.AddError(sverrors.NewEmptyDocumentsBatchError())
					return result, nil
				}

				for _, batched := range st.Transitions {
					switch {
					case batched.Document != nil && batched.Token != nil:
						result.AddError(sverrors.NewInvalidFieldTypeError(
							"transition", "exactly one of document or token"))
					case batched.Document != nil:
						validateDocumentSubStructure(result, batched.Document)
					case batched.Token != nil:
						validateTokenSubStructure(result, batched.Token)
					default:
						result.AddError(sverrors.NewMissingRequiredFieldError("transition"))
					}
				}

				return result, nil
			},
		})
}

func (h documentsBatchHandler) validateNonces(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	return protocol.Dispatch(
		"documentsBatch.validateNonces",
		ctx.Version.StateTransitions.DocumentsBatch.Nonce,
		map[protocol.FeatureVersion]func() (*validation.Result[validation.Void], error){
			0: func() (*validation.Result[validation.Void], error) {
				st := proc.transition.(*strata.DocumentsBatchTransition)
				result := validation.NewSimpleResult()

				// sub-transitions against the same contract consume
				// consecutive nonces within the batch
				expected := make(map[strata.Identifier]strata.IdentityNonce)
				for _, batched := range st.Transitions {
					var contractID strata.Identifier
					var nonce strata.IdentityNonce
					switch {
					case batched.Document != nil:
						contractID, nonce = batched.Document.ContractID, batched.Document.Nonce
					case batched.Token != nil:
						contractID, nonce = batched.Token.ContractID, batched.Token.Nonce
					default:
						continue
					}

					want, seen := expected[contractID]
					if !seen {
						current, _, err := proc.view.FetchIdentityContractNonce(st.Owner, contractID)
						if err != nil {
							return nil, err
						}
						want = current + 1
					}
					if nonce != want {
						result.AddError(sverrors.NewInvalidIdentityNonceError(st.Owner, want-1, nonce))
					}
					expected[contractID] = want + 1
				}

				return result, nil
			},
		})
}

func (h documentsBatchHandler) validateState(m *Machine, ctx Context, proc *procedure) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"documentsBatch.validateState",
		ctx.Version.StateTransitions.DocumentsBatch.State,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				return h.resolve(m, ctx, proc, true)
			},
		})
}

func (h documentsBatchHandler) transformIntoAction(m *Machine, ctx Context, proc *procedure, dryRun bool) (*validation.Result[action.Action], error) {
	return protocol.Dispatch(
		"documentsBatch.transformIntoAction",
		ctx.Version.StateTransitions.DocumentsBatch.TransformIntoAction,
		map[protocol.FeatureVersion]func() (*validation.Result[action.Action], error){
			0: func() (*validation.Result[action.Action], error) {
				return h.resolve(m, ctx, proc, false)
			},
		})
}

// resolve turns every sub-transition into a sub-action and runs the data
// triggers. In strict mode every state-dependent rule is enforced; otherwise
// only what is needed to price the batch is resolved and triggers run in dry
// run. Errors are collected across all sub-transitions, never short-circuited.
func (h documentsBatchHandler) resolve(m *Machine, ctx Context, proc *procedure, strict bool) (*validation.Result[action.Action], error) {
	st := proc.transition.(*strata.DocumentsBatchTransition)

	registry, err := m.triggerRegistry(ctx.Version)
	if err != nil {
		return nil, err
	}
	trigCtx := &triggers.Context{
		View:      proc.view,
		BlockInfo: proc.block,
		OwnerID:   st.Owner,
		DryRun:    !strict,
	}

	result := validation.NewResult[action.Action]()
	batch := &action.DocumentsBatchAction{OwnerID: st.Owner}

	for _, batched := range st.Transitions {
		switch {
		case batched.Document != nil:
			sub, subResult, err := h.resolveDocument(m, ctx, proc, st.Owner, batched.Document, strict)
			if err != nil {
				return nil, err
			}
			result.MergeErrors(subResult)
			if sub == nil {
				continue
			}

			trigResult, err := registry.ExecuteFor(
				batched.Document.ContractID, batched.Document.Type, batched.Document.Action,
				batched.Document.ID, sub, trigCtx)
			if err != nil {
				return nil, err
			}
			result.MergeErrors(trigResult)

			batch.SubActions = append(batch.SubActions, sub)

		case batched.Token != nil:
			sub, subResult, err := h.resolveToken(m, ctx, proc, st.Owner, batched.Token, strict)
			if err != nil {
				return nil, err
			}
			result.MergeErrors(subResult)
			if sub != nil {
				batch.SubActions = append(batch.SubActions, sub)
			}
		}
	}

	if !result.IsValid() {
		return result, nil
	}
	result.SetData(batch)
	return result, nil
}

func (h documentsBatchHandler) resolveDocument(
	m *Machine,
	ctx Context,
	proc *procedure,
	owner strata.Identifier,
	sub *strata.DocumentTransition,
	strict bool,
) (action.SubAction, *validation.Result[validation.Void], error) {

	result := validation.NewSimpleResult()

	fetch, err := m.fetchContract(proc, sub.ContractID)
	if err != nil {
		return nil, nil, err
	}
	if fetch == nil {
		result.AddError(sverrors.NewDataContractNotPresentError(sub.ContractID))
		return nil, result, nil
	}
	docType := fetch.Contract.DocumentType(sub.Type)
	if docType == nil {
		result.AddError(sverrors.NewInvalidDocumentTypeError(sub.Type, sub.ContractID))
		return nil, result, nil
	}

	switch sub.Action {
	case strata.DocumentTransitionCreate:
		return h.resolveCreate(m, ctx, proc, owner, sub, fetch, docType, strict, result)
	case strata.DocumentTransitionReplace:
		return h.resolveReplace(m, ctx, proc, owner, sub, fetch, docType, strict, result)
	case strata.DocumentTransitionDelete:
		return h.resolveDelete(m, ctx, proc, owner, sub, fetch, docType, strict, result)
	case strata.DocumentTransitionTransfer:
		return h.resolveTransfer(m, ctx, proc, owner, sub, fetch, docType, strict, result)
	case strata.DocumentTransitionPurchase:
		return h.resolvePurchase(m, ctx, proc, owner, sub, fetch, docType, strict, result)
	default:
		result.AddError(sverrors.NewInvalidDocumentTransitionActionError(uint8(sub.Action)))
		return nil, result, nil
	}
}

func (h documentsBatchHandler) resolveCreate(
	m *Machine, ctx Context, proc *procedure,
	owner strata.Identifier, sub *strata.DocumentTransition,
	fetch *action.ContractFetchInfo, docType *strata.DocumentType,
	strict bool, result *validation.Result[validation.Void],
) (action.SubAction, *validation.Result[validation.Void], error) {

	validateDocumentData(result, docType, sub.Data)
	h.validateTimestamps(ctx, proc, sub, docType, result, true)

	if strict {
		existing, _, err := h.fetchDocumentElement(proc, sub.ContractID, sub.Type, sub.ID)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			result.AddError(sverrors.NewDocumentAlreadyPresentError(sub.ID))
		}
	}

	charge, err := h.tokenChargeFor(proc, owner, docType, strata.TokenActionCreate, strict, result)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid() {
		return nil, result, nil
	}

	return &action.DocumentCreateAction{
		Document: &strata.Document{
			ID:         sub.ID,
			ContractID: sub.ContractID,
			Type:       sub.Type,
			OwnerID:    owner,
			CreatorID:  owner,
			Revision:   1,
			CreatedAt:  sub.CreatedAt,
			UpdatedAt:  sub.UpdatedAt,
			Price:      sub.Price,
			Data:       sub.Data,
		},
		Fetch:  fetch,
		Type:   docType,
		Charge: charge,
		Nonce:  sub.Nonce,
	}, result, nil
}

func (h documentsBatchHandler) resolveReplace(
	m *Machine, ctx Context, proc *procedure,
	owner strata.Identifier, sub *strata.DocumentTransition,
	fetch *action.ContractFetchInfo, docType *strata.DocumentType,
	strict bool, result *validation.Result[validation.Void],
) (action.SubAction, *validation.Result[validation.Void], error) {

	if !docType.Mutable {
		result.AddError(sverrors.NewDocumentNotMutableError(sub.Type))
		return nil, result, nil
	}
	validateDocumentData(result, docType, sub.Data)
	h.validateTimestamps(ctx, proc, sub, docType, result, false)

	previous, element, err := h.fetchDocumentElement(proc, sub.ContractID, sub.Type, sub.ID)
	if err != nil {
		return nil, nil, err
	}
	if strict {
		if previous == nil {
			result.AddError(sverrors.NewDocumentNotFoundError(sub.ID))
			return nil, result, nil
		}
		if previous.OwnerID != owner {
			result.AddError(sverrors.NewDocumentOwnerMismatchError(sub.ID, previous.OwnerID, owner))
		}
		if sub.Revision != previous.Revision+1 {
			result.AddError(sverrors.NewInvalidDocumentRevisionError(sub.ID, previous.Revision, sub.Revision))
		}
	}

	charge, err := h.tokenChargeFor(proc, owner, docType, strata.TokenActionReplace, strict, result)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid() {
		return nil, result, nil
	}

	updated := &strata.Document{
		ID:         sub.ID,
		ContractID: sub.ContractID,
		Type:       sub.Type,
		OwnerID:    owner,
		CreatorID:  owner,
		Revision:   sub.Revision,
		UpdatedAt:  sub.UpdatedAt,
		Data:       sub.Data,
	}
	var previousSize uint32
	if previous != nil {
		// the replacement keeps what the holder cannot change
		updated.CreatorID = previous.CreatorID
		updated.CreatedAt = previous.CreatedAt
		updated.Price = previous.Price
		previousSize = element.Size()
	}

	return &action.DocumentReplaceAction{
		Document:     updated,
		Previous:     previous,
		PreviousSize: previousSize,
		Removed:      removedBytesOfElement(element),
		Fetch:        fetch,
		Type:         docType,
		Charge:       charge,
		Nonce:        sub.Nonce,
	}, result, nil
}

func (h documentsBatchHandler) resolveDelete(
	m *Machine, ctx Context, proc *procedure,
	owner strata.Identifier, sub *strata.DocumentTransition,
	fetch *action.ContractFetchInfo, docType *strata.DocumentType,
	strict bool, result *validation.Result[validation.Void],
) (action.SubAction, *validation.Result[validation.Void], error) {

	previous, element, err := h.fetchDocumentElement(proc, sub.ContractID, sub.Type, sub.ID)
	if err != nil {
		return nil, nil, err
	}
	if strict {
		if previous == nil {
			result.AddError(sverrors.NewDocumentNotFoundError(sub.ID))
			return nil, result, nil
		}
		if previous.OwnerID != owner {
			result.AddError(sverrors.NewDocumentOwnerMismatchError(sub.ID, previous.OwnerID, owner))
		}
	}
	if previous == nil {
		// nothing to delete on a lenient pass
		return nil, result, nil
	}

	charge, err := h.tokenChargeFor(proc, owner, docType, strata.TokenActionDelete, strict, result)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid() {
		return nil, result, nil
	}

	return &action.DocumentDeleteAction{
		Document: previous,
		Removed:  removedBytesOfElement(element),
		Fetch:    fetch,
		Type:     docType,
		Charge:   charge,
		Nonce:    sub.Nonce,
	}, result, nil
}

func (h documentsBatchHandler) resolveTransfer(
	m *Machine, ctx Context, proc *procedure,
	owner strata.Identifier, sub *strata.DocumentTransition,
	fetch *action.ContractFetchInfo, docType *strata.DocumentType,
	strict bool, result *validation.Result[validation.Void],
) (action.SubAction, *validation.Result[validation.Void], error) {

	previous, element, err := h.fetchDocumentElement(proc, sub.ContractID, sub.Type, sub.ID)
	if err != nil {
		return nil, nil, err
	}
	if strict {
		if previous == nil {
			result.AddError(sverrors.NewDocumentNotFoundError(sub.ID))
			return nil, result, nil
		}
		if previous.OwnerID != owner {
			result.AddError(sverrors.NewDocumentOwnerMismatchError(sub.ID, previous.OwnerID, owner))
		}
		if sub.Revision != previous.Revision+1 {
			result.AddError(sverrors.NewInvalidDocumentRevisionError(sub.ID, previous.Revision, sub.Revision))
		}
		_, exists, err := proc.view.FetchIdentityBalance(sub.Recipient)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			result.AddError(sverrors.NewIdentityNotFoundError(sub.Recipient))
		}
	}
	if previous == nil {
		return nil, result, nil
	}

	charge, err := h.tokenChargeFor(proc, owner, docType, strata.TokenActionTransfer, strict, result)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid() {
		return nil, result, nil
	}

	transferred := *previous
	transferred.OwnerID = sub.Recipient
	transferred.Revision = sub.Revision
	transferred.Price = 0

	return &action.DocumentTransferAction{
		Document:     &transferred,
		Recipient:    sub.Recipient,
		PreviousSize: element.Size(),
		Removed:      removedBytesOfElement(element),
		Fetch:        fetch,
		Type:         docType,
		Charge:       charge,
		Nonce:        sub.Nonce,
	}, result, nil
}

func (h documentsBatchHandler) resolvePurchase(
	m *Machine, ctx Context, proc *procedure,
	owner strata.Identifier, sub *strata.DocumentTransition,
	fetch *action.ContractFetchInfo, docType *strata.DocumentType,
	strict bool, result *validation.Result[validation.Void],
) (action.SubAction, *validation.Result[validation.Void], error) {

	if docType.TradeMode != strata.TradeModeDirectPurchase {
		result.AddError(sverrors.NewDocumentNotForSaleError(sub.ID))
		return nil, result, nil
	}

	previous, element, err := h.fetchDocumentElement(proc, sub.ContractID, sub.Type, sub.ID)
	if err != nil {
		return nil, nil, err
	}
	if previous == nil {
		if strict {
			result.AddError(sverrors.NewDocumentNotFoundError(sub.ID))
		}
		return nil, result, nil
	}

	var sellerBalance strata.Credits
	if strict {
		if previous.Price == 0 {
			result.AddError(sverrors.NewDocumentNotForSaleError(sub.ID))
		} else if sub.Price != previous.Price {
			result.AddError(sverrors.NewInvalidDocumentPriceError(sub.ID, previous.Price, sub.Price))
		}
		if previous.OwnerID == owner {
			result.AddError(sverrors.NewValueOutOfRangeErrorf("price", "cannot purchase an owned document"))
		}
		if proc.signer != nil && proc.signer.Balance < previous.Price {
			result.AddError(sverrors.NewIdentityInsufficientBalanceError(
				owner, proc.signer.Balance, previous.Price))
		}

		var exists bool
		sellerBalance, exists, err = proc.view.FetchIdentityBalance(previous.OwnerID)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			return nil, nil, sverrors.NewCorruptedStateFailuref(
				"document %s is owned by unknown identity %s", sub.ID, previous.OwnerID)
		}
	}

	charge, err := h.tokenChargeFor(proc, owner, docType, strata.TokenActionPurchase, strict, result)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid() {
		return nil, result, nil
	}

	purchased := *previous
	if purchased.CreatorID.IsZero() {
		// documents written before creator tracking carry no creator id;
		// record the selling owner before ownership moves
		purchased.CreatorID = previous.OwnerID
	}
	purchased.OwnerID = owner
	purchased.Revision = sub.Revision
	purchased.Price = 0

	var buyerBalance strata.Credits
	if proc.signer != nil {
		buyerBalance = proc.signer.Balance
	}

	return &action.DocumentPurchaseAction{
		Document:      &purchased,
		Buyer:         owner,
		PreviousOwner: previous.OwnerID,
		Price:         previous.Price,
		BuyerBalance:  buyerBalance,
		SellerBalance: sellerBalance,
		PreviousSize:  element.Size(),
		Removed:       removedBytesOfElement(element),
		Fetch:         fetch,
		Type:          docType,
		Charge:        charge,
		Nonce:         sub.Nonce,
	}, result, nil
}

func (h documentsBatchHandler) resolveToken(
	m *Machine,
	ctx Context,
	proc *procedure,
	owner strata.Identifier,
	sub *strata.TokenTransition,
	strict bool,
) (action.SubAction, *validation.Result[validation.Void], error) {

	result := validation.NewSimpleResult()

	config, err := proc.view.FetchTokenConfig(sub.TokenID)
	if err != nil {
		return nil, nil, err
	}
	proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: tokenConfigReadSize})
	if config == nil {
		result.AddError(sverrors.NewTokenNotFoundError(sub.TokenID))
		return nil, result, nil
	}
	if config.ContractID != sub.ContractID {
		result.AddError(sverrors.NewInvalidFieldTypeError(
			"contractId", "the contract the token belongs to"))
		return nil, result, nil
	}

	moving := sub.Action == strata.TokenTransitionMint ||
		sub.Action == strata.TokenTransitionBurn ||
		sub.Action == strata.TokenTransitionTransfer
	if strict && moving && config.Paused {
		result.AddError(sverrors.NewTokenIsPausedError(sub.TokenID))
		return nil, result, nil
	}

	// mint, freeze and unfreeze are reserved to the owner of the token's
	// contract
	if sub.Action == strata.TokenTransitionMint ||
		sub.Action == strata.TokenTransitionFreeze ||
		sub.Action == strata.TokenTransitionUnfreeze {
		contract, err := m.fetchContract(proc, config.ContractID)
		if err != nil {
			return nil, nil, err
		}
		if contract == nil {
			result.AddError(sverrors.NewDataContractNotPresentError(config.ContractID))
			return nil, result, nil
		}
		if strict && contract.Contract.OwnerID != owner {
			result.AddError(sverrors.NewDataContractOwnerMismatchError(
				config.ContractID, contract.Contract.OwnerID, owner))
			return nil, result, nil
		}
	}

	senderAccount, err := proc.view.FetchTokenAccount(sub.TokenID, owner)
	if err != nil {
		return nil, nil, err
	}
	proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: tokenAccountReadSize})

	var recipientAccount *strata.TokenAccount
	if !sub.Recipient.IsZero() {
		recipientAccount, err = proc.view.FetchTokenAccount(sub.TokenID, sub.Recipient)
		if err != nil {
			return nil, nil, err
		}
		proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: tokenAccountReadSize})
	}

	if strict {
		switch sub.Action {
		case strata.TokenTransitionMint:
			if config.MaxSupply > 0 && config.Supply+sub.Amount > config.MaxSupply {
				result.AddError(sverrors.NewTokenMintOverMaxSupplyError(
					sub.TokenID, config.Supply, sub.Amount, config.MaxSupply))
			}

		case strata.TokenTransitionBurn, strata.TokenTransitionTransfer:
			if senderAccount != nil && senderAccount.Frozen {
				result.AddError(sverrors.NewIdentityTokenAccountFrozenError(sub.TokenID, owner))
			}
			var balance strata.TokenAmount
			if senderAccount != nil {
				balance = senderAccount.Balance
			}
			if balance < sub.Amount {
				result.AddError(sverrors.NewIdentityDoesNotHaveEnoughTokenBalanceError(
					sub.TokenID, owner, balance, sub.Amount))
			}
			if sub.Action == strata.TokenTransitionTransfer {
				_, exists, err := proc.view.FetchIdentityBalance(sub.Recipient)
				if err != nil {
					return nil, nil, err
				}
				if !exists {
					result.AddError(sverrors.NewIdentityNotFoundError(sub.Recipient))
				}
			}
		}
	}

	if !result.IsValid() {
		return nil, result, nil
	}

	return &action.TokenAction{
		Kind:             sub.Action,
		Config:           config,
		Sender:           owner,
		SenderAccount:    senderAccount,
		Recipient:        sub.Recipient,
		RecipientAccount: recipientAccount,
		Amount:           sub.Amount,
		Nonce:            sub.Nonce,
	}, result, nil
}

// tokenChargeFor resolves the token cost a document type attaches to the
// given action, checking in strict mode that the acting identity can pay it.
func (h documentsBatchHandler) tokenChargeFor(
	proc *procedure,
	owner strata.Identifier,
	docType *strata.DocumentType,
	costKind strata.TokenAction,
	strict bool,
	result *validation.Result[validation.Void],
) (*action.TokenCharge, error) {

	amount, ok := docType.TokenCosts[costKind]
	if !ok || amount == 0 {
		return nil, nil
	}
	charge := &action.TokenCharge{TokenID: docType.TokenID, Amount: amount}
	if !strict {
		return charge, nil
	}

	config, err := proc.view.FetchTokenConfig(docType.TokenID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		result.AddError(sverrors.NewTokenNotFoundError(docType.TokenID))
		return charge, nil
	}
	if config.Paused {
		result.AddError(sverrors.NewTokenIsPausedError(docType.TokenID))
		return charge, nil
	}

	account, err := proc.view.FetchTokenAccount(docType.TokenID, owner)
	if err != nil {
		return nil, err
	}
	if account != nil && account.Frozen {
		result.AddError(sverrors.NewIdentityTokenAccountFrozenError(docType.TokenID, owner))
		return charge, nil
	}
	var balance strata.TokenAmount
	if account != nil {
		balance = account.Balance
	}
	if balance < amount {
		result.AddError(sverrors.NewIdentityDoesNotHaveEnoughTokenBalanceError(
			docType.TokenID, owner, balance, amount))
	}

	return charge, nil
}

// fetchDocumentElement loads a document together with its raw stored
// element, pricing the read. Both returns are nil when the document does not
// exist.
func (h documentsBatchHandler) fetchDocumentElement(
	proc *procedure,
	contractID strata.Identifier,
	documentType string,
	id strata.Identifier,
) (*strata.Document, *storage.Element, error) {

	element, err := proc.view.Store().Fetch(
		storage.DocumentsPath(contractID, documentType), id.Bytes(), proc.view.Transaction())
	if err != nil {
		return nil, nil, sverrors.NewStorageFailure(err)
	}
	if element == nil {
		proc.addOperations(state.ReadOperation{SeekCount: 1})
		return nil, nil, nil
	}

	var document strata.Document
	err = strata.UnmarshalEntity(element.Value, &document)
	if err != nil {
		return nil, nil, sverrors.NewCorruptedStateFailuref(
			"document %s of %s is undecodable: %s", id, contractID, err)
	}
	proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: element.Size()})
	return &document, element, nil
}

// validateTimestamps enforces the block time window on required document
// timestamps. Creation checks createdAt and updatedAt, replacement only
// updatedAt.
func (h documentsBatchHandler) validateTimestamps(
	ctx Context,
	proc *procedure,
	sub *strata.DocumentTransition,
	docType *strata.DocumentType,
	result *validation.Result[validation.Void],
	isCreate bool,
) {
	start, end := ctx.timestampWindow(proc.block.Time)

	if isCreate && docType.RequiredCreatedAt {
		if sub.CreatedAt < start || sub.CreatedAt > end {
			result.AddError(sverrors.NewDocumentTimestampWindowViolationError(
				"createdAt", sub.ID, sub.CreatedAt, start, end))
		}
	}
	if docType.RequiredUpdatedAt {
		if sub.UpdatedAt < start || sub.UpdatedAt > end {
			result.AddError(sverrors.NewDocumentTimestampWindowViolationError(
				"updatedAt", sub.ID, sub.UpdatedAt, start, end))
		}
	}
}

func validateDocumentSubStructure(result *validation.Result[validation.Void], sub *strata.DocumentTransition) {
	if sub.ID.IsZero() {
		result.AddError(sverrors.NewMissingRequiredFieldError("document.id"))
	}
	if sub.ContractID.IsZero() {
		result.AddError(sverrors.NewMissingRequiredFieldError("document.contractId"))
	}
	if sub.Type == "" {
		result.AddError(sverrors.NewMissingRequiredFieldError("document.type"))
	}

	switch sub.Action {
	case strata.DocumentTransitionCreate:
	case strata.DocumentTransitionReplace:
		if sub.Revision < 2 {
			result.AddError(sverrors.NewValueOutOfRangeErrorf(
				"document.revision", "replacement revision must be at least 2"))
		}
	case strata.DocumentTransitionDelete:
	case strata.DocumentTransitionTransfer:
		if sub.Recipient.IsZero() {
			result.AddError(sverrors.NewMissingRequiredFieldError("document.recipient"))
		}
	case strata.DocumentTransitionPurchase:
		if sub.Price == 0 {
			result.AddError(sverrors.NewValueOutOfRangeErrorf(
				"document.price", "must be positive"))
		}
	default:
		result.AddError(sverrors.NewInvalidDocumentTransitionActionError(uint8(sub.Action)))
	}
}

func validateTokenSubStructure(result *validation.Result[validation.Void], sub *strata.TokenTransition) {
	if sub.TokenID.IsZero() {
		result.AddError(sverrors.NewMissingRequiredFieldError("token.tokenId"))
	}
	if sub.ContractID.IsZero() {
		result.AddError(sverrors.NewMissingRequiredFieldError("token.contractId"))
	}

	switch sub.Action {
	case strata.TokenTransitionMint, strata.TokenTransitionBurn, strata.TokenTransitionTransfer:
		if sub.Amount == 0 {
			result.AddError(sverrors.NewValueOutOfRangeErrorf("token.amount", "must be positive"))
		}
		if sub.Action == strata.TokenTransitionTransfer && sub.Recipient.IsZero() {
			result.AddError(sverrors.NewMissingRequiredFieldError("token.recipient"))
		}
		if sub.Action == strata.TokenTransitionMint && sub.Recipient.IsZero() {
			result.AddError(sverrors.NewMissingRequiredFieldError("token.recipient"))
		}
	case strata.TokenTransitionFreeze, strata.TokenTransitionUnfreeze:
		if sub.Recipient.IsZero() {
			result.AddError(sverrors.NewMissingRequiredFieldError("token.recipient"))
		}
	default:
		result.AddError(sverrors.NewInvalidTokenTransitionActionError(uint8(sub.Action)))
	}
}

// validateDocumentData checks the document payload against the compiled
// field constraints of its type: required fields present, no undeclared
// fields, every value of the declared shape.
func validateDocumentData(result *validation.Result[validation.Void], docType *strata.DocumentType, data map[string]strata.Value) {
	for i := range docType.Fields {
		field := &docType.Fields[i]
		if _, present := data[field.Name]; field.Required && !present {
			result.AddError(sverrors.NewMissingRequiredFieldError(field.Name))
		}
	}

	for name, value := range data {
		field := docType.FieldByName(name)
		if field == nil {
			result.AddError(sverrors.NewInvalidFieldTypeError(name, "a field the document type declares"))
			continue
		}
		validateFieldValue(result, field, value)
	}
}

func validateFieldValue(result *validation.Result[validation.Void], field *strata.FieldConstraint, value strata.Value) {
	switch field.Type {
	case strata.FieldTypeString:
		s, ok := value.(string)
		if !ok {
			result.AddError(sverrors.NewInvalidFieldTypeError(field.Name, "string"))
			return
		}
		if len(s) < field.MinLength || (field.MaxLength > 0 && len(s) > field.MaxLength) {
			result.AddError(sverrors.NewValueOutOfRangeErrorf(
				field.Name, "length %d outside [%d, %d]", len(s), field.MinLength, field.MaxLength))
		}

	case strata.FieldTypeInteger:
		n, ok := value.(int64)
		if !ok {
			result.AddError(sverrors.NewInvalidFieldTypeError(field.Name, "integer"))
			return
		}
		if (field.Min != 0 || field.Max != 0) && (n < field.Min || n > field.Max) {
			result.AddError(sverrors.NewValueOutOfRangeErrorf(
				field.Name, "value %d outside [%d, %d]", n, field.Min, field.Max))
		}

	case strata.FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			result.AddError(sverrors.NewInvalidFieldTypeError(field.Name, "boolean"))
		}

	case strata.FieldTypeBytes:
		b, ok := value.([]byte)
		if !ok {
			result.AddError(sverrors.NewInvalidFieldTypeError(field.Name, "bytes"))
			return
		}
		if len(b) < field.MinLength || (field.MaxLength > 0 && len(b) > field.MaxLength) {
			result.AddError(sverrors.NewValueOutOfRangeErrorf(
				field.Name, "length %d outside [%d, %d]", len(b), field.MinLength, field.MaxLength))
		}

	case strata.FieldTypeIdentifier:
		b, ok := value.([]byte)
		if !ok || len(b) != strata.IdentifierLen {
			result.AddError(sverrors.NewInvalidFieldTypeError(field.Name, "32-byte identifier"))
		}

	default:
		result.AddError(sverrors.NewInvalidFieldTypeError(field.Name, "a known field type"))
	}
}
