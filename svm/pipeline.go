package svm

import (
	"golang.org/x/exp/slices"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/svm/action"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
	"github.com/strataplatform/strata-go/svm/fees"
	"github.com/strataplatform/strata-go/svm/state"
	"github.com/strataplatform/strata-go/svm/validation"
)

// pipelinePhase is one stage of transition processing. Phases run in order
// and the pipeline stops at the first phase that returns an invalid result,
// so later phases can rely on everything earlier phases established.
type pipelinePhase interface {
	Name() string
	Run(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error)
}

func pipelinePhases() []pipelinePhase {
	return []pipelinePhase{
		typeCheckPhase{},
		signatureCheckPhase{},
		keyCheckPhase{},
		stateCheckPhase{},
	}
}

// typeCheckPhase validates everything checkable without touching state.
type typeCheckPhase struct{}

func (typeCheckPhase) Name() string { return "type_check" }

func (typeCheckPhase) Run(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	if proc.level == CheckLevelRecheckTx {
		// structure was checked on admission
		return validation.NewSimpleResult(), nil
	}
	return proc.handler.validateBasicStructure(m, ctx, proc)
}

// signatureCheckPhase resolves the signer and verifies the transition
// signature. Asset-lock funded transitions verify against the lock's
// one-time key; everything else against a key of the owning identity.
type signatureCheckPhase struct{}

func (signatureCheckPhase) Name() string { return "signature_check" }

func (signatureCheckPhase) Run(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	st := proc.transition

	if funded, ok := st.(strata.AssetLockFunded); ok {
		return verifyAssetLockSignature(proc, funded)
	}

	identity, err := proc.view.FetchIdentity(st.OwnerID())
	if err != nil {
		return nil, err
	}
	proc.addOperations(state.ReadOperation{SeekCount: 1, ValueSize: identityReadSize})
	if identity == nil {
		return validation.NewSimpleResultWithError(
			sverrors.NewIdentityNotFoundError(st.OwnerID())), nil
	}

	key := identity.GetPublicKeyByID(st.SignaturePublicKeyID())
	if key == nil {
		return validation.NewSimpleResultWithError(
			sverrors.NewMissingPublicKeyError(st.OwnerID(), st.SignaturePublicKeyID())), nil
	}
	if !key.IsEnabledAt(proc.block.Time) {
		return validation.NewSimpleResultWithError(
			sverrors.NewPublicKeyIsDisabledError(key.ID, key.DisabledAt)), nil
	}

	if proc.level != CheckLevelRecheckTx {
		signable, err := st.SignableBytes()
		if err != nil {
			return nil, sverrors.NewEncodingFailuref("cannot encode signable bytes: %w", err)
		}
		err = verifyTransitionSignature(*key, signable, st.TransitionSignature())
		if err != nil {
			consensusErr, failure := sverrors.SplitErrorTypes(err)
			if failure != nil {
				return nil, failure
			}
			return validation.NewSimpleResultWithError(consensusErr), nil
		}
		proc.addOperations(state.SignatureVerificationOperation{
			Op: fees.SignatureVerificationOperation{KeyType: key.Type},
		})
	}

	proc.signer = &strata.PartialIdentity{
		ID:         identity.ID,
		LoadedKeys: map[strata.KeyID]strata.IdentityPublicKey{key.ID: *key},
		Balance:    identity.Balance,
		Revision:   identity.Revision,
	}
	return validation.NewSimpleResult(), nil
}

func verifyAssetLockSignature(proc *procedure, funded strata.AssetLockFunded) (*validation.Result[validation.Void], error) {
	if proc.level == CheckLevelRecheckTx {
		return validation.NewSimpleResult(), nil
	}

	proof := funded.AssetLockProof()
	signable, err := proc.transition.SignableBytes()
	if err != nil {
		return nil, sverrors.NewEncodingFailuref("cannot encode signable bytes: %w", err)
	}
	err = verifyECDSASecp256k1(proof.OneTimePublicKey, signable, proc.transition.TransitionSignature())
	if err != nil {
		consensusErr, failure := sverrors.SplitErrorTypes(err)
		if failure != nil {
			return nil, failure
		}
		return validation.NewSimpleResultWithError(consensusErr), nil
	}

	proc.addOperations(state.SignatureVerificationOperation{
		Op: fees.SignatureVerificationOperation{KeyType: strata.KeyTypeECDSASecp256k1},
	})
	return validation.NewSimpleResult(), nil
}

// keyCheckPhase enforces the purpose and security level rules on the key
// that signed the transition.
type keyCheckPhase struct{}

func (keyCheckPhase) Name() string { return "key_check" }

func (keyCheckPhase) Run(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	if proc.signer == nil {
		// asset-lock funded, no key on record to constrain
		return validation.NewSimpleResult(), nil
	}
	if proc.level == CheckLevelRecheckTx {
		return validation.NewSimpleResult(), nil
	}

	key := proc.signer.LoadedKeys[proc.transition.SignaturePublicKeyID()]

	purposes, levels := keyRequirements(proc.transition.TransitionType())
	if !slices.Contains(purposes, key.Purpose) {
		return validation.NewSimpleResultWithError(
			sverrors.NewWrongPublicKeyPurposeError(key.Purpose, purposes)), nil
	}
	if !slices.Contains(levels, key.SecurityLevel) {
		return validation.NewSimpleResultWithError(
			sverrors.NewInvalidSignaturePublicKeySecurityLevelError(key.SecurityLevel, levels)), nil
	}
	return validation.NewSimpleResult(), nil
}

// stateCheckPhase runs replay protection and resolves the transition into an
// action, then derives its state operations. How deep it goes depends on the
// check level: mempool admission only dry-runs the resolution for a fee
// estimate, full validation checks everything against state.
type stateCheckPhase struct{}

func (stateCheckPhase) Name() string { return "state_check" }

func (stateCheckPhase) Run(m *Machine, ctx Context, proc *procedure) (*validation.Result[validation.Void], error) {
	var (
		actionResult *validation.Result[action.Action]
		err          error
	)

	switch proc.level {
	case CheckLevelCheckTx:
		actionResult, err = proc.handler.transformIntoAction(m, ctx, proc, true)

	case CheckLevelRecheckTx:
		nonceResult, nerr := proc.handler.validateNonces(m, ctx, proc)
		if nerr != nil {
			return nil, nerr
		}
		if !nonceResult.IsValid() {
			return nonceResult, nil
		}
		actionResult, err = proc.handler.transformIntoAction(m, ctx, proc, true)

	default:
		nonceResult, nerr := proc.handler.validateNonces(m, ctx, proc)
		if nerr != nil {
			return nil, nerr
		}
		if !nonceResult.IsValid() {
			return nonceResult, nil
		}
		actionResult, err = proc.handler.validateState(m, ctx, proc)
	}
	if err != nil {
		return nil, err
	}
	if !actionResult.IsValid() {
		return validation.WithErrorsFrom[validation.Void](actionResult), nil
	}

	proc.action = actionResult.Data()

	writeOps, err := operationsForAction(proc)
	if err != nil {
		return nil, err
	}
	proc.addOperations(writeOps...)

	return validation.NewSimpleResult(), nil
}

// identityReadSize is the priced value size of an identity fetch. Identities
// vary in size with their key count; pricing uses a fixed representative
// size so the fee does not depend on the on-disk encoding.
const identityReadSize uint32 = 256
