package svm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataplatform/strata-go/model/strata"
	badgerstore "github.com/strataplatform/strata-go/storage/badger"
	"github.com/strataplatform/strata-go/svm"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/triggers"
	"github.com/strataplatform/strata-go/utils/unittest"
)

func batchFixture(
	owner strata.Identifier,
	key unittest.SigningKey,
	subs ...strata.BatchedTransition,
) *strata.DocumentsBatchTransition {
	st := &strata.DocumentsBatchTransition{
		Owner:       owner,
		Transitions: subs,
		KeyID:       key.Public.ID,
	}
	unittest.SignTransition(st, key, func(sig []byte) { st.Signature = sig })
	return st
}

func documentSub(sub strata.DocumentTransition) strata.BatchedTransition {
	return strata.BatchedTransition{Document: &sub}
}

func TestDocumentsBatchCreateAppliesDocument(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		seed.Contract(contract, 0)

		docID := unittest.IdentifierFixture()
		st := batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
			Action:     strata.DocumentTransitionCreate,
			ID:         docID,
			ContractID: contract.ID,
			Type:       "note",
			Data:       map[string]strata.Value{"message": "hello"},
			Nonce:      1,
		}))

		result, err := m.ProcessBlockProposal(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]strata.StateTransition{st})
		require.NoError(t, err)
		require.True(t, result.TransitionResults[0].IsValid(),
			"unexpected errors: %v", result.TransitionResults[0].Errors())
		require.Equal(t, 1, result.AppliedCount)

		view := state.NewView(store, nil)
		doc, _, err := view.FetchDocument(contract.ID, "note", docID)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, owner.ID, doc.OwnerID)
		assert.Equal(t, strata.Revision(1), doc.Revision)
		assert.Equal(t, "hello", doc.Data["message"])

		nonce, _, err := view.FetchIdentityContractNonce(owner.ID, contract.ID)
		require.NoError(t, err)
		assert.Equal(t, strata.IdentityNonce(1), nonce)
	})
}

func TestDocumentsBatchRejectsUndeclaredField(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)
		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		seed.Contract(contract, 0)

		st := batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
			Action:     strata.DocumentTransitionCreate,
			ID:         unittest.IdentifierFixture(),
			ContractID: contract.ID,
			Type:       "note",
			Data:       map[string]strata.Value{"smuggled": true},
			Nonce:      1,
		}))

		result, err := m.CheckTransition(ctx, st, unittest.BlockInfoFixture(), svm.CheckLevelCheckTx)
		require.NoError(t, err)
		require.False(t, result.IsValid())
		assert.True(t, sverrors.HasErrorCode(result.FirstError(), sverrors.ErrCodeInvalidFieldTypeError))
	})
}

func TestDocumentsBatchCreatedAtMustMatchBlockTime(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		contract.DocumentTypes["note"].RequiredCreatedAt = true
		seed.Contract(contract, 0)

		block := unittest.BlockInfoFixture()

		makeBatch := func(createdAt strata.Timestamp) *strata.DocumentsBatchTransition {
			return batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
				Action:     strata.DocumentTransitionCreate,
				ID:         unittest.IdentifierFixture(),
				ContractID: contract.ID,
				Type:       "note",
				Data:       map[string]strata.Value{"message": "hi"},
				CreatedAt:  createdAt,
				Nonce:      1,
			}))
		}

		t.Run("outside window", func(t *testing.T) {
			stale := block.Time - strata.Timestamp(ctx.BlockSpacingMs) - 1
			result, err := m.CheckTransition(ctx, makeBatch(stale), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeDocumentTimestampWindowViolationError))
		})

		t.Run("at block time", func(t *testing.T) {
			result, err := m.CheckTransition(ctx, makeBatch(block.Time), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors())
		})
	})
}

func TestDocumentsBatchReplaceUpdatedAtMustMatchBlockTime(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		contract.DocumentTypes["note"].RequiredUpdatedAt = true
		seed.Contract(contract, 0)

		doc := unittest.DocumentFixture(unittest.IdentifierFixture(), contract.ID, owner.ID)
		seed.Document(doc, 0)

		block := unittest.BlockInfoFixture()

		makeBatch := func(updatedAt strata.Timestamp) *strata.DocumentsBatchTransition {
			return batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
				Action:     strata.DocumentTransitionReplace,
				ID:         doc.ID,
				ContractID: contract.ID,
				Type:       "note",
				Revision:   2,
				Data:       map[string]strata.Value{"message": "edited"},
				UpdatedAt:  updatedAt,
				Nonce:      1,
			}))
		}

		t.Run("outside window", func(t *testing.T) {
			stale := block.Time - strata.Timestamp(ctx.BlockSpacingMs) - 1
			result, err := m.CheckTransition(ctx, makeBatch(stale), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeDocumentTimestampWindowViolationError))
		})

		t.Run("at block time", func(t *testing.T) {
			result, err := m.CheckTransition(ctx, makeBatch(block.Time), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors())
		})
	})
}

func TestDocumentsBatchDuplicateCreate(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)
		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		seed.Contract(contract, 0)

		existing := unittest.DocumentFixture(unittest.IdentifierFixture(), contract.ID, owner.ID)
		seed.Document(existing, 0)

		st := batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
			Action:     strata.DocumentTransitionCreate,
			ID:         existing.ID,
			ContractID: contract.ID,
			Type:       "note",
			Data:       map[string]strata.Value{"message": "again"},
			Nonce:      1,
		}))

		block := unittest.BlockInfoFixture()

		result, err := m.CheckTransition(ctx, st, block, svm.CheckLevelValidator)
		require.NoError(t, err)
		require.False(t, result.IsValid())
		assert.True(t, sverrors.HasErrorCode(result.FirstError(),
			sverrors.ErrCodeDocumentAlreadyPresentError))

		// admission resolves without touching existence, so the same batch
		// passes the mempool check
		result, err = m.CheckTransition(ctx, st, block, svm.CheckLevelCheckTx)
		require.NoError(t, err)
		assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors())
	})
}

// TestDocumentsBatchReplaceNeverPaysOut replays a document back over itself
// and checks the owner comes out strictly poorer: a replace that frees no
// storage must not generate refunds, only fees.
func TestDocumentsBatchReplaceNeverPaysOut(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		start := strata.Credits(10_000_000)
		seed.Identity(owner, start)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		seed.Contract(contract, 0)
		doc := unittest.DocumentFixture(unittest.IdentifierFixture(), contract.ID, owner.ID)
		seed.Document(doc, 0)

		st := batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
			Action:     strata.DocumentTransitionReplace,
			ID:         doc.ID,
			ContractID: contract.ID,
			Type:       "note",
			Revision:   2,
			Data:       map[string]strata.Value{"message": "hello"},
			Nonce:      1,
		}))

		result, err := m.ProcessBlockProposal(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]strata.StateTransition{st})
		require.NoError(t, err)
		require.True(t, result.TransitionResults[0].IsValid(),
			"unexpected errors: %v", result.TransitionResults[0].Errors())
		require.Equal(t, 1, result.AppliedCount)

		view := state.NewView(store, nil)
		final, _, err := view.FetchIdentityBalance(owner.ID)
		require.NoError(t, err)
		assert.Less(t, uint64(final), uint64(start))
	})
}

func TestDocumentsBatchTokenCosts(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)

		tokenID := unittest.IdentifierFixture()
		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		note := contract.DocumentTypes["note"]
		note.TokenCosts = map[strata.TokenAction]strata.TokenAmount{strata.TokenActionCreate: 5}
		note.TokenID = tokenID
		seed.Contract(contract, 0)

		createBatch := func() *strata.DocumentsBatchTransition {
			return batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
				Action:     strata.DocumentTransitionCreate,
				ID:         unittest.IdentifierFixture(),
				ContractID: contract.ID,
				Type:       "note",
				Data:       map[string]strata.Value{"message": "hi"},
				Nonce:      1,
			}))
		}
		block := unittest.BlockInfoFixture()

		t.Run("paused token", func(t *testing.T) {
			config := unittest.TokenConfigFixture(tokenID, contract.ID)
			config.Paused = true
			seed.TokenConfig(config)

			result, err := m.CheckTransition(ctx, createBatch(), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(), sverrors.ErrCodeTokenIsPausedError))
		})

		t.Run("frozen account", func(t *testing.T) {
			seed.TokenConfig(unittest.TokenConfigFixture(tokenID, contract.ID))
			seed.TokenAccount(&strata.TokenAccount{
				TokenID: tokenID, IdentityID: owner.ID, Balance: 100, Frozen: true,
			})

			result, err := m.CheckTransition(ctx, createBatch(), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeIdentityTokenAccountFrozenError))
		})

		t.Run("short balance", func(t *testing.T) {
			seed.TokenAccount(&strata.TokenAccount{
				TokenID: tokenID, IdentityID: owner.ID, Balance: 4,
			})

			result, err := m.CheckTransition(ctx, createBatch(), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeIdentityDoesNotHaveEnoughTokenBalanceError))
		})

		t.Run("sufficient balance", func(t *testing.T) {
			seed.TokenAccount(&strata.TokenAccount{
				TokenID: tokenID, IdentityID: owner.ID, Balance: 5,
			})

			result, err := m.CheckTransition(ctx, createBatch(), block, svm.CheckLevelValidator)
			require.NoError(t, err)
			assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors())
		})
	})
}

func tokenSub(sub strata.TokenTransition) strata.BatchedTransition {
	return strata.BatchedTransition{Token: &sub}
}

func TestDocumentsBatchTokenTransitions(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		issuerAuth := unittest.AuthKeyFixture(1)
		issuer := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), issuerAuth)
		holderAuth := unittest.AuthKeyFixture(1)
		holder := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), holderAuth)
		frozenAuth := unittest.AuthKeyFixture(1)
		frozenHolder := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), frozenAuth)
		seed.Identity(issuer, richBalance)
		seed.Identity(holder, richBalance)
		seed.Identity(frozenHolder, richBalance)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), issuer.ID)
		seed.Contract(contract, 0)

		tokenID := unittest.IdentifierFixture()
		config := unittest.TokenConfigFixture(tokenID, contract.ID)
		config.MaxSupply = 1_000
		config.Supply = 100
		seed.TokenConfig(config)
		seed.TokenAccount(&strata.TokenAccount{
			TokenID: tokenID, IdentityID: holder.ID, Balance: 40,
		})
		seed.TokenAccount(&strata.TokenAccount{
			TokenID: tokenID, IdentityID: frozenHolder.ID, Balance: 40, Frozen: true,
		})

		block := unittest.BlockInfoFixture()

		makeSub := func(
			action strata.TokenTransitionAction,
			amount strata.TokenAmount,
			recipient strata.Identifier,
			nonce strata.IdentityNonce,
		) strata.BatchedTransition {
			return tokenSub(strata.TokenTransition{
				Action:     action,
				TokenID:    tokenID,
				ContractID: contract.ID,
				Amount:     amount,
				Recipient:  recipient,
				Nonce:      nonce,
			})
		}

		apply := func(t *testing.T, st *strata.DocumentsBatchTransition) {
			result, err := m.ProcessBlockProposal(
				ctx, block, unittest.IdentifierFixture(),
				[]strata.StateTransition{st})
			require.NoError(t, err)
			require.True(t, result.TransitionResults[0].IsValid(),
				"unexpected errors: %v", result.TransitionResults[0].Errors())
		}

		t.Run("mint reserved to contract owner", func(t *testing.T) {
			st := batchFixture(holder.ID, holderAuth,
				makeSub(strata.TokenTransitionMint, 10, holder.ID, 1))
			result, err := m.CheckTransition(ctx, st, block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeDataContractOwnerMismatchError))
		})

		t.Run("mint over max supply", func(t *testing.T) {
			st := batchFixture(issuer.ID, issuerAuth,
				makeSub(strata.TokenTransitionMint, 950, holder.ID, 1))
			result, err := m.CheckTransition(ctx, st, block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeTokenMintOverMaxSupplyError))
		})

		t.Run("transfer to unknown identity", func(t *testing.T) {
			st := batchFixture(holder.ID, holderAuth,
				makeSub(strata.TokenTransitionTransfer, 5, unittest.IdentifierFixture(), 1))
			result, err := m.CheckTransition(ctx, st, block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeIdentityNotFoundError))
		})

		t.Run("frozen account cannot transfer", func(t *testing.T) {
			st := batchFixture(frozenHolder.ID, frozenAuth,
				makeSub(strata.TokenTransitionTransfer, 5, holder.ID, 1))
			result, err := m.CheckTransition(ctx, st, block, svm.CheckLevelValidator)
			require.NoError(t, err)
			require.False(t, result.IsValid())
			assert.True(t, sverrors.HasErrorCode(result.FirstError(),
				sverrors.ErrCodeIdentityTokenAccountFrozenError))
		})

		t.Run("mint applies", func(t *testing.T) {
			apply(t, batchFixture(issuer.ID, issuerAuth,
				makeSub(strata.TokenTransitionMint, 50, holder.ID, 1)))

			view := state.NewView(store, nil)
			account, err := view.FetchTokenAccount(tokenID, holder.ID)
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.Equal(t, strata.TokenAmount(90), account.Balance)
			cfg, err := view.FetchTokenConfig(tokenID)
			require.NoError(t, err)
			assert.Equal(t, strata.TokenAmount(150), cfg.Supply)
		})

		t.Run("transfer applies", func(t *testing.T) {
			apply(t, batchFixture(holder.ID, holderAuth,
				makeSub(strata.TokenTransitionTransfer, 30, issuer.ID, 1)))

			view := state.NewView(store, nil)
			sender, err := view.FetchTokenAccount(tokenID, holder.ID)
			require.NoError(t, err)
			assert.Equal(t, strata.TokenAmount(60), sender.Balance)
			recipient, err := view.FetchTokenAccount(tokenID, issuer.ID)
			require.NoError(t, err)
			require.NotNil(t, recipient)
			assert.Equal(t, strata.TokenAmount(30), recipient.Balance)
		})

		t.Run("burn applies", func(t *testing.T) {
			apply(t, batchFixture(holder.ID, holderAuth,
				makeSub(strata.TokenTransitionBurn, 10, strata.Identifier{}, 2)))

			view := state.NewView(store, nil)
			account, err := view.FetchTokenAccount(tokenID, holder.ID)
			require.NoError(t, err)
			assert.Equal(t, strata.TokenAmount(50), account.Balance)
			cfg, err := view.FetchTokenConfig(tokenID)
			require.NoError(t, err)
			assert.Equal(t, strata.TokenAmount(140), cfg.Supply)
		})

		t.Run("freeze and unfreeze", func(t *testing.T) {
			apply(t, batchFixture(issuer.ID, issuerAuth,
				makeSub(strata.TokenTransitionFreeze, 0, holder.ID, 2)))

			view := state.NewView(store, nil)
			account, err := view.FetchTokenAccount(tokenID, holder.ID)
			require.NoError(t, err)
			assert.True(t, account.Frozen)

			apply(t, batchFixture(issuer.ID, issuerAuth,
				makeSub(strata.TokenTransitionUnfreeze, 0, holder.ID, 3)))

			view = state.NewView(store, nil)
			account, err = view.FetchTokenAccount(tokenID, holder.ID)
			require.NoError(t, err)
			assert.False(t, account.Frozen)
		})
	})
}

// TestDocumentsBatchPurchaseBackfillsCreator buys a listed document that
// predates creator tracking and checks the selling owner is recorded as
// creator before ownership moves.
func TestDocumentsBatchPurchaseBackfillsCreator(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		buyerAuth := unittest.AuthKeyFixture(1)
		buyer := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), buyerAuth)
		seller := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture())
		seed.Identity(buyer, richBalance)
		seed.Identity(seller, 1_000)

		contract := unittest.ContractFixture(unittest.IdentifierFixture(), seller.ID)
		seed.Contract(contract, 0)

		listed := unittest.DocumentFixture(unittest.IdentifierFixture(), contract.ID, seller.ID)
		listed.CreatorID = strata.Identifier{}
		// a single-byte price keeps the stored size stable when it resets
		// to zero on purchase, so no storage refund muddies the balances
		listed.Price = 10
		seed.Document(listed, 0)

		st := batchFixture(buyer.ID, buyerAuth, documentSub(strata.DocumentTransition{
			Action:     strata.DocumentTransitionPurchase,
			ID:         listed.ID,
			ContractID: contract.ID,
			Type:       "note",
			Revision:   2,
			Price:      10,
			Nonce:      1,
		}))

		result, err := m.ProcessBlockProposal(
			ctx, unittest.BlockInfoFixture(), unittest.IdentifierFixture(),
			[]strata.StateTransition{st})
		require.NoError(t, err)
		require.True(t, result.TransitionResults[0].IsValid(),
			"unexpected errors: %v", result.TransitionResults[0].Errors())

		view := state.NewView(store, nil)
		doc, _, err := view.FetchDocument(contract.ID, "note", listed.ID)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, buyer.ID, doc.OwnerID)
		assert.Equal(t, seller.ID, doc.CreatorID)
		assert.Equal(t, strata.Credits(0), doc.Price)

		sellerBalance, _, err := view.FetchIdentityBalance(seller.ID)
		require.NoError(t, err)
		assert.Equal(t, strata.Credits(1_010), sellerBalance)
	})
}

func domainContract(owner strata.Identifier) *strata.DataContract {
	return &strata.DataContract{
		ID:      triggers.DomainsContractID,
		OwnerID: owner,
		Version: 1,
		DocumentTypes: map[string]*strata.DocumentType{
			"domain": {
				Name: "domain",
				Fields: []strata.FieldConstraint{
					{Name: "label", Type: strata.FieldTypeString, Required: true, MaxLength: 63},
					{Name: "normalizedLabel", Type: strata.FieldTypeString, Required: true, MaxLength: 63},
					{Name: "parentDomainName", Type: strata.FieldTypeString, MaxLength: 190},
				},
			},
		},
	}
}

func domainCreateSub(label, normalized, parent string, nonce strata.IdentityNonce) strata.BatchedTransition {
	return documentSub(strata.DocumentTransition{
		Action:     strata.DocumentTransitionCreate,
		ID:         unittest.IdentifierFixture(),
		ContractID: triggers.DomainsContractID,
		Type:       "domain",
		Data: map[string]strata.Value{
			"label":            label,
			"normalizedLabel":  normalized,
			"parentDomainName": parent,
		},
		Nonce: nonce,
	})
}

func TestDomainTriggerRequiresExistingParent(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)
		seed.Contract(domainContract(owner.ID), 0)

		st := batchFixture(owner.ID, auth, domainCreateSub("Alice", "alice", "strata", 1))
		block := unittest.BlockInfoFixture()

		result, err := m.CheckTransition(ctx, st, block, svm.CheckLevelValidator)
		require.NoError(t, err)
		require.False(t, result.IsValid())
		assert.True(t, sverrors.HasErrorCode(result.FirstError(),
			sverrors.ErrCodeDataTriggerConditionError))

		// admission runs the trigger in dry-run mode, which skips the parent
		// existence lookup
		result, err = m.CheckTransition(ctx, st, block, svm.CheckLevelCheckTx)
		require.NoError(t, err)
		assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors())
	})
}

func TestDomainTriggerChecksNormalization(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)
		seed.Contract(domainContract(owner.ID), 0)

		st := batchFixture(owner.ID, auth, domainCreateSub("Alice", "bob", "strata", 1))

		// normalization is a pure check, so even the dry-run pass catches it
		result, err := m.CheckTransition(ctx, st, unittest.BlockInfoFixture(), svm.CheckLevelCheckTx)
		require.NoError(t, err)
		require.False(t, result.IsValid())
		assert.True(t, sverrors.HasErrorCode(result.FirstError(),
			sverrors.ErrCodeDataTriggerConditionError))
	})
}

// TestDocumentsBatchCollectsErrorsAcrossSubs submits two bad sub-transitions
// and expects both rejections: unlike the pipeline's phases, sibling subs
// keep validating after one fails.
func TestDocumentsBatchCollectsErrorsAcrossSubs(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)
		seed.Contract(domainContract(owner.ID), 0)

		st := batchFixture(owner.ID, auth,
			domainCreateSub("Alice", "bob", "strata", 1),
			domainCreateSub("Carol", "dave", "strata", 2),
		)

		result, err := m.CheckTransition(ctx, st, unittest.BlockInfoFixture(), svm.CheckLevelCheckTx)
		require.NoError(t, err)
		require.False(t, result.IsValid())
		assert.Len(t, result.Errors(), 2)
	})
}

func TestDocumentsBatchReplayWithinContract(t *testing.T) {
	withMachine(t, func(m *svm.Machine, ctx svm.Context, store *badgerstore.Store, seed *unittest.Seeder) {
		auth := unittest.AuthKeyFixture(1)
		owner := unittest.IdentityFixture(unittest.IdentifierFixture(), unittest.MasterKeyFixture(), auth)
		seed.Identity(owner, richBalance)
		contract := unittest.ContractFixture(unittest.IdentifierFixture(), owner.ID)
		seed.Contract(contract, 0)
		seed.ContractNonce(owner.ID, contract.ID, 3)

		makeBatch := func(nonce strata.IdentityNonce) *strata.DocumentsBatchTransition {
			return batchFixture(owner.ID, auth, documentSub(strata.DocumentTransition{
				Action:     strata.DocumentTransitionCreate,
				ID:         unittest.IdentifierFixture(),
				ContractID: contract.ID,
				Type:       "note",
				Data:       map[string]strata.Value{"message": "hi"},
				Nonce:      nonce,
			}))
		}
		block := unittest.BlockInfoFixture()

		result, err := m.CheckTransition(ctx, makeBatch(3), block, svm.CheckLevelValidator)
		require.NoError(t, err)
		require.False(t, result.IsValid())
		assert.True(t, sverrors.HasErrorCode(result.FirstError(),
			sverrors.ErrCodeInvalidIdentityNonceError))

		result, err = m.CheckTransition(ctx, makeBatch(4), block, svm.CheckLevelValidator)
		require.NoError(t, err)
		assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors())
	})
}
