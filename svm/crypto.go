package svm

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/onflow/flow-go/crypto"
	"golang.org/x/crypto/ripemd160"

	"github.com/strataplatform/strata-go/model/strata"
	sverrors "github.com/strataplatform/strata-go/svm/errors"
)

// SignatureTag is the domain separation tag mixed into BLS signature
// verification.
const SignatureTag = "STRATA-V0.0-transition"

// verifyTransitionSignature checks the transition signature against one of
// the signer's public keys. The returned error is always a consensus error;
// malformed key material on record is reported as a corrupted state failure
// by the caller.
func verifyTransitionSignature(
	key strata.IdentityPublicKey,
	message []byte,
	signature []byte,
) error {
	switch key.Type {
	case strata.KeyTypeECDSASecp256k1:
		return verifyECDSASecp256k1(key.Data, message, signature)
	case strata.KeyTypeBLS12381:
		return verifyBLS12381(key.Data, message, signature)
	case strata.KeyTypeECDSAHash160:
		return verifyECDSAHash160(key.Data, message, signature)
	default:
		return sverrors.NewUnsupportedKeyTypeError(key.Type)
	}
}

// verifyECDSASecp256k1 verifies a 65-byte compact recoverable signature over
// the double-SHA256 of the message. The key data is the 33-byte compressed
// public key.
func verifyECDSASecp256k1(keyData, message, signature []byte) error {
	if len(keyData) != btcec.PubKeyBytesLenCompressed {
		return sverrors.NewInvalidSignatureError(
			fmt.Errorf("compressed secp256k1 public key must be %d bytes, got %d",
				btcec.PubKeyBytesLenCompressed, len(keyData)))
	}

	digest := doubleSHA256(message)
	recovered, _, err := btcecdsa.RecoverCompact(signature, digest)
	if err != nil {
		return sverrors.NewInvalidSignatureError(err)
	}

	if !bytes.Equal(recovered.SerializeCompressed(), keyData) {
		return sverrors.NewInvalidSignatureError(
			fmt.Errorf("recovered public key does not match the signing key"))
	}
	return nil
}

// verifyBLS12381 verifies a BLS signature on the message with the KMAC
// hasher under SignatureTag.
func verifyBLS12381(keyData, message, signature []byte) error {
	publicKey, err := crypto.DecodePublicKey(crypto.BLSBLS12381, keyData)
	if err != nil {
		return sverrors.NewInvalidSignatureError(
			fmt.Errorf("cannot decode BLS public key: %w", err))
	}

	hasher := crypto.NewExpandMsgXOFKMAC128(SignatureTag)
	valid, err := publicKey.Verify(signature, message, hasher)
	if err != nil {
		return sverrors.NewInvalidSignatureError(err)
	}
	if !valid {
		return sverrors.NewInvalidSignatureError(
			fmt.Errorf("BLS signature verification failed"))
	}
	return nil
}

// verifyECDSAHash160 verifies a recoverable secp256k1 signature where the
// key data is only HASH160 of the compressed public key. The full key is
// recovered from the signature and hashed for comparison.
func verifyECDSAHash160(keyData, message, signature []byte) error {
	if len(keyData) != ripemd160.Size {
		return sverrors.NewInvalidSignatureError(
			fmt.Errorf("HASH160 key data must be %d bytes, got %d",
				ripemd160.Size, len(keyData)))
	}

	digest := doubleSHA256(message)
	recovered, _, err := btcecdsa.RecoverCompact(signature, digest)
	if err != nil {
		return sverrors.NewInvalidSignatureError(err)
	}

	if !bytes.Equal(hash160(recovered.SerializeCompressed()), keyData) {
		return sverrors.NewInvalidSignatureError(
			fmt.Errorf("recovered public key does not hash to the signing key"))
	}
	return nil
}

func doubleSHA256(message []byte) []byte {
	first := sha256.Sum256(message)
	second := sha256.Sum256(first[:])
	return second[:]
}

func hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	h := ripemd160.New()
	_, _ = h.Write(sha[:])
	return h.Sum(nil)
}
