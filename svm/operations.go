package svm

import (
	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/storage"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/state"
)

// Priced value sizes of small fixed-shape entities.
const (
	nonceReadSize        uint32 = 8
	balanceReadSize      uint32 = 8
	tokenAccountReadSize uint32 = 80
	tokenConfigReadSize  uint32 = 96
)

func ownedElement(value []byte, epoch strata.EpochIndex, owner strata.Identifier) storage.Element {
	return storage.Element{
		Value: value,
		Flags: &storage.Flags{Epoch: epoch, OwnerID: owner},
	}
}

func systemElement(value []byte) storage.Element {
	return storage.Element{Value: value}
}

// operationsForAction derives the ordered state operations of the resolved
// action. The list is final: fee estimation, fee charging and application
// all work from it and from nothing else.
func operationsForAction(proc *procedure) ([]state.Operation, error) {
	g := &opGenerator{proc: proc}

	switch a := proc.action.(type) {
	case *action.DataContractCreateAction:
		g.contractCreate(a)
	case *action.DataContractUpdateAction:
		g.contractUpdate(a)
	case *action.DocumentsBatchAction:
		g.documentsBatch(a)
	case *action.IdentityCreateAction:
		g.identityCreate(a)
	case *action.IdentityTopUpAction:
		g.identityTopUp(a)
	case *action.IdentityUpdateAction:
		g.identityUpdate(a)
	case *action.IdentityCreditTransferAction:
		g.creditTransfer(a)
	case *action.IdentityCreditWithdrawalAction:
		g.creditWithdrawal(a)
	default:
		return nil, sverrors.NewExecutionFailuref("no operations for action type %T", proc.action)
	}

	if g.err != nil {
		return nil, g.err
	}
	return g.ops, nil
}

// opGenerator accumulates operations and latches the first failure, so the
// per-action methods read as straight-line code.
type opGenerator struct {
	proc *procedure
	ops  []state.Operation
	err  error
}

func (g *opGenerator) add(ops ...state.Operation) {
	if g.err != nil {
		return
	}
	g.ops = append(g.ops, ops...)
}

func (g *opGenerator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

func (g *opGenerator) encode(entity interface{}) []byte {
	if g.err != nil {
		return nil
	}
	encoded, err := strata.MarshalEntity(entity)
	if err != nil {
		g.fail(sverrors.NewEncodingFailuref("cannot encode %T: %w", entity, err))
		return nil
	}
	return encoded
}

// setEntry prices a read of the existing entry and emits an upsert. It is
// used for the small bookkeeping entries (nonces, balances, token accounts)
// whose previous value resolution has already consumed.
func (g *opGenerator) setEntry(path storage.Path, key []byte, element storage.Element, oldSize uint32) {
	if g.err != nil {
		return
	}
	existing, err := g.proc.view.Store().Fetch(path, key, g.proc.view.Transaction())
	if err != nil {
		g.fail(sverrors.NewStorageFailure(err))
		return
	}
	g.add(
		state.ReadOperation{SeekCount: 1, ValueSize: oldSize},
		state.SetOperation{
			Path:    path,
			Key:     key,
			Element: element,
			Existed: existing != nil,
			OldSize: oldSize,
		},
	)
}

func (g *opGenerator) setNonce(path storage.Path, id strata.Identifier, nonce strata.IdentityNonce) {
	g.setEntry(path, id.Bytes(), systemElement(state.EncodeNonce(nonce)), nonceReadSize)
}

func (g *opGenerator) setBalance(id strata.Identifier, balance strata.Credits) {
	g.setEntry(storage.BalancesPath(), id.Bytes(), systemElement(state.EncodeBalance(balance)), balanceReadSize)
}

func (g *opGenerator) contractCreate(a *action.DataContractCreateAction) {
	encoded := g.encode(a.Contract)
	g.add(state.InsertOperation{
		Path:    storage.ContractsPath(),
		Key:     a.Contract.ID.Bytes(),
		Element: ownedElement(encoded, g.proc.block.Epoch, a.Contract.OwnerID),
	})
	g.setNonce(storage.IdentityNoncesPath(), a.Contract.OwnerID, a.Nonce)
}

func (g *opGenerator) contractUpdate(a *action.DataContractUpdateAction) {
	encoded := g.encode(a.Contract)
	g.add(state.ReplaceOperation{
		Path:    storage.ContractsPath(),
		Key:     a.Contract.ID.Bytes(),
		Element: ownedElement(encoded, g.proc.block.Epoch, a.Contract.OwnerID),
		OldSize: a.PreviousSize,
		Removed: a.Removed,
	})
	g.setNonce(storage.IdentityContractNoncesPath(a.Contract.ID), a.Contract.OwnerID, a.Nonce)
}

func (g *opGenerator) documentsBatch(a *action.DocumentsBatchAction) {
	for _, sub := range a.SubActions {
		g.subAction(a.OwnerID, sub)
	}
}

func (g *opGenerator) subAction(owner strata.Identifier, sub action.SubAction) {
	switch s := sub.(type) {
	case *action.DocumentCreateAction:
		encoded := g.encode(s.Document)
		g.add(state.InsertOperation{
			Path:    storage.DocumentsPath(s.Document.ContractID, s.Document.Type),
			Key:     s.Document.ID.Bytes(),
			Element: ownedElement(encoded, g.proc.block.Epoch, s.Document.OwnerID),
		})
		g.setNonce(storage.IdentityContractNoncesPath(s.Document.ContractID), owner, s.Nonce)
		g.tokenCharge(owner, s.Charge)

	case *action.DocumentReplaceAction:
		encoded := g.encode(s.Document)
		g.add(state.ReplaceOperation{
			Path:    storage.DocumentsPath(s.Document.ContractID, s.Document.Type),
			Key:     s.Document.ID.Bytes(),
			Element: ownedElement(encoded, g.proc.block.Epoch, s.Document.OwnerID),
			OldSize: s.PreviousSize,
			Removed: s.Removed,
		})
		g.setNonce(storage.IdentityContractNoncesPath(s.Document.ContractID), owner, s.Nonce)
		g.tokenCharge(owner, s.Charge)

	case *action.DocumentDeleteAction:
		g.add(state.DeleteOperation{
			Path:    storage.DocumentsPath(s.Document.ContractID, s.Document.Type),
			Key:     s.Document.ID.Bytes(),
			Removed: s.Removed,
		})
		g.setNonce(storage.IdentityContractNoncesPath(s.Document.ContractID), owner, s.Nonce)
		g.tokenCharge(owner, s.Charge)

	case *action.DocumentTransferAction:
		// the resolved document already carries the new owner; the stored
		// bytes are re-attributed to them at the current epoch
		encoded := g.encode(s.Document)
		g.add(state.ReplaceOperation{
			Path:    storage.DocumentsPath(s.Document.ContractID, s.Document.Type),
			Key:     s.Document.ID.Bytes(),
			Element: ownedElement(encoded, g.proc.block.Epoch, s.Recipient),
			OldSize: s.PreviousSize,
			Removed: s.Removed,
		})
		g.setNonce(storage.IdentityContractNoncesPath(s.Document.ContractID), owner, s.Nonce)
		g.tokenCharge(owner, s.Charge)

	case *action.DocumentPurchaseAction:
		encoded := g.encode(s.Document)
		g.add(state.ReplaceOperation{
			Path:    storage.DocumentsPath(s.Document.ContractID, s.Document.Type),
			Key:     s.Document.ID.Bytes(),
			Element: ownedElement(encoded, g.proc.block.Epoch, s.Buyer),
			OldSize: s.PreviousSize,
			Removed: s.Removed,
		})
		newBuyer, buyErr := s.BuyerBalance.CheckedSub(s.Price)
		newSeller, sellErr := s.SellerBalance.CheckedAdd(s.Price)
		switch {
		case buyErr == nil && sellErr == nil:
			g.setBalance(s.Buyer, newBuyer)
			g.setBalance(s.PreviousOwner, newSeller)
		case g.proc.level == CheckLevelValidator:
			// full validation already proved the balances work out
			g.fail(sverrors.NewExecutionFailuref(
				"purchase of %s resolved with inconsistent balances", s.Document.ID))
			return
		}
		g.setNonce(storage.IdentityContractNoncesPath(s.Document.ContractID), owner, s.Nonce)
		g.tokenCharge(owner, s.Charge)

	case *action.TokenAction:
		g.tokenAction(owner, s)

	default:
		g.fail(sverrors.NewExecutionFailuref("no operations for sub-action type %T", sub))
	}
}

// tokenCharge burns the document type's token cost from the acting
// identity's token account. On dry-run resolution the account may be
// missing or short; the charge is then omitted, full validation rejects
// such batches before operations are ever applied.
func (g *opGenerator) tokenCharge(owner strata.Identifier, charge *action.TokenCharge) {
	if charge == nil || g.err != nil {
		return
	}

	account, err := g.proc.view.FetchTokenAccount(charge.TokenID, owner)
	if err != nil {
		g.fail(err)
		return
	}
	g.add(state.ReadOperation{SeekCount: 1, ValueSize: tokenAccountReadSize})
	if account == nil || account.Balance < charge.Amount {
		return
	}

	updated := *account
	updated.Balance -= charge.Amount
	g.setEntry(
		storage.TokenAccountsPath(charge.TokenID), owner.Bytes(),
		systemElement(g.encode(&updated)), tokenAccountReadSize)

	config, err := g.proc.view.FetchTokenConfig(charge.TokenID)
	if err != nil {
		g.fail(err)
		return
	}
	g.add(state.ReadOperation{SeekCount: 1, ValueSize: tokenConfigReadSize})
	if config == nil || config.Supply < charge.Amount {
		return
	}
	updatedConfig := *config
	updatedConfig.Supply -= charge.Amount
	g.setEntry(
		storage.TokenConfigPath(), charge.TokenID.Bytes(),
		systemElement(g.encode(&updatedConfig)), tokenConfigReadSize)
}

func (g *opGenerator) tokenAction(owner strata.Identifier, s *action.TokenAction) {
	if g.err != nil {
		return
	}
	config := *s.Config

	switch s.Kind {
	case strata.TokenTransitionMint:
		config.Supply += s.Amount
		g.setTokenConfig(&config)
		g.creditTokenAccount(s.Config.TokenID, s.Recipient, s.RecipientAccount, s.Amount)

	case strata.TokenTransitionBurn:
		if config.Supply >= s.Amount {
			config.Supply -= s.Amount
		}
		g.setTokenConfig(&config)
		g.debitTokenAccount(s.Config.TokenID, s.Sender, s.SenderAccount, s.Amount)

	case strata.TokenTransitionTransfer:
		g.debitTokenAccount(s.Config.TokenID, s.Sender, s.SenderAccount, s.Amount)
		g.creditTokenAccount(s.Config.TokenID, s.Recipient, s.RecipientAccount, s.Amount)

	case strata.TokenTransitionFreeze:
		g.setFrozen(s.Config.TokenID, s.Recipient, s.RecipientAccount, true)

	case strata.TokenTransitionUnfreeze:
		g.setFrozen(s.Config.TokenID, s.Recipient, s.RecipientAccount, false)

	default:
		g.fail(sverrors.NewExecutionFailuref("no operations for token action %s", s.Kind))
		return
	}

	g.setNonce(storage.IdentityContractNoncesPath(s.Config.ContractID), owner, s.Nonce)
}

func (g *opGenerator) setTokenConfig(config *strata.TokenConfiguration) {
	g.setEntry(
		storage.TokenConfigPath(), config.TokenID.Bytes(),
		systemElement(g.encode(config)), tokenConfigReadSize)
}

func (g *opGenerator) creditTokenAccount(tokenID, identityID strata.Identifier, account *strata.TokenAccount, amount strata.TokenAmount) {
	updated := strata.TokenAccount{TokenID: tokenID, IdentityID: identityID}
	if account != nil {
		updated = *account
	}
	updated.Balance += amount
	g.setEntry(
		storage.TokenAccountsPath(tokenID), identityID.Bytes(),
		systemElement(g.encode(&updated)), tokenAccountReadSize)
}

func (g *opGenerator) debitTokenAccount(tokenID, identityID strata.Identifier, account *strata.TokenAccount, amount strata.TokenAmount) {
	if account == nil || account.Balance < amount {
		// rejected by full validation; omitted on dry-run
		return
	}
	updated := *account
	updated.Balance -= amount
	g.setEntry(
		storage.TokenAccountsPath(tokenID), identityID.Bytes(),
		systemElement(g.encode(&updated)), tokenAccountReadSize)
}

func (g *opGenerator) setFrozen(tokenID, identityID strata.Identifier, account *strata.TokenAccount, frozen bool) {
	updated := strata.TokenAccount{TokenID: tokenID, IdentityID: identityID}
	if account != nil {
		updated = *account
	}
	updated.Frozen = frozen
	g.setEntry(
		storage.TokenAccountsPath(tokenID), identityID.Bytes(),
		systemElement(g.encode(&updated)), tokenAccountReadSize)
}

func (g *opGenerator) identityCreate(a *action.IdentityCreateAction) {
	// balances live in their own subtree; the stored record carries zero
	record := *a.Identity
	record.Balance = 0
	encoded := g.encode(&record)
	g.add(state.InsertOperation{
		Path:    storage.IdentitiesPath(),
		Key:     a.Identity.ID.Bytes(),
		Element: ownedElement(encoded, g.proc.block.Epoch, a.Identity.ID),
	})
	g.setBalance(a.Identity.ID, a.Credits)
	g.add(state.InsertOperation{
		Path:    storage.AssetLocksPath(),
		Key:     a.OutPoint[:],
		Element: systemElement([]byte{1}),
	})
}

func (g *opGenerator) identityTopUp(a *action.IdentityTopUpAction) {
	newBalance, err := a.Balance.CheckedAdd(a.Credits)
	if err != nil {
		if g.proc.level == CheckLevelValidator {
			g.fail(sverrors.NewExecutionFailuref(
				"top up of %s resolved with overflowing balance", a.IdentityID))
		}
		return
	}
	g.setBalance(a.IdentityID, newBalance)
	g.add(state.InsertOperation{
		Path:    storage.AssetLocksPath(),
		Key:     a.OutPoint[:],
		Element: systemElement([]byte{1}),
	})
}

func (g *opGenerator) identityUpdate(a *action.IdentityUpdateAction) {
	record := *a.Identity
	record.Balance = 0
	encoded := g.encode(&record)
	g.add(state.ReplaceOperation{
		Path:    storage.IdentitiesPath(),
		Key:     a.Identity.ID.Bytes(),
		Element: ownedElement(encoded, g.proc.block.Epoch, a.Identity.ID),
		OldSize: a.PreviousSize,
		Removed: a.Removed,
	})
	g.setNonce(storage.IdentityNoncesPath(), a.Identity.ID, a.Nonce)
}

func (g *opGenerator) creditTransfer(a *action.IdentityCreditTransferAction) {
	newSender, subErr := a.SenderBalance.CheckedSub(a.Amount)
	newRecipient, addErr := a.RecipientBalance.CheckedAdd(a.Amount)
	switch {
	case subErr == nil && addErr == nil:
		g.setBalance(a.Sender, newSender)
		g.setBalance(a.Recipient, newRecipient)
	case g.proc.level == CheckLevelValidator:
		g.fail(sverrors.NewExecutionFailuref(
			"transfer from %s resolved with inconsistent balances", a.Sender))
		return
	}
	g.setNonce(storage.IdentityNoncesPath(), a.Sender, a.Nonce)
}

func (g *opGenerator) creditWithdrawal(a *action.IdentityCreditWithdrawalAction) {
	newBalance, err := a.Balance.CheckedSub(a.Amount)
	if err != nil {
		if g.proc.level == CheckLevelValidator {
			g.fail(sverrors.NewExecutionFailuref(
				"withdrawal from %s resolved with underfunded identity", a.IdentityID))
		}
		return
	}

	withdrawal := &strata.Withdrawal{
		ID:             strata.WithdrawalID(a.IdentityID, a.Nonce),
		IdentityID:     a.IdentityID,
		Amount:         a.Amount,
		CoreFeePerByte: a.CoreFeePerByte,
		OutputScript:   a.OutputScript,
		CreatedAt:      g.proc.block.Time,
	}
	encoded := g.encode(withdrawal)

	g.setBalance(a.IdentityID, newBalance)
	g.add(state.InsertOperation{
		Path:    storage.WithdrawalsPath(),
		Key:     withdrawal.ID.Bytes(),
		Element: ownedElement(encoded, g.proc.block.Epoch, a.IdentityID),
	})
	g.setNonce(storage.IdentityNoncesPath(), a.IdentityID, a.Nonce)
}
