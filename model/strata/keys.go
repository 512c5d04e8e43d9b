package strata

import "fmt"

// KeyID identifies a public key within one identity. Key ids are assigned at
// key creation and never reused, even after a key is disabled.
type KeyID uint32

// KeyType is the signing algorithm of an identity public key.
type KeyType uint8

const (
	KeyTypeECDSASecp256k1 KeyType = 0
	KeyTypeBLS12381       KeyType = 1
	KeyTypeECDSAHash160   KeyType = 2
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeECDSASecp256k1:
		return "ECDSA_SECP256K1"
	case KeyTypeBLS12381:
		return "BLS12_381"
	case KeyTypeECDSAHash160:
		return "ECDSA_HASH160"
	default:
		return fmt.Sprintf("UNKNOWN_KEY_TYPE_%d", uint8(t))
	}
}

// KeyPurpose constrains what a key may be used for.
type KeyPurpose uint8

const (
	KeyPurposeAuthentication KeyPurpose = 0
	KeyPurposeEncryption     KeyPurpose = 1
	KeyPurposeDecryption     KeyPurpose = 2
	KeyPurposeTransfer       KeyPurpose = 3
)

func (p KeyPurpose) String() string {
	switch p {
	case KeyPurposeAuthentication:
		return "AUTHENTICATION"
	case KeyPurposeEncryption:
		return "ENCRYPTION"
	case KeyPurposeDecryption:
		return "DECRYPTION"
	case KeyPurposeTransfer:
		return "TRANSFER"
	default:
		return fmt.Sprintf("UNKNOWN_PURPOSE_%d", uint8(p))
	}
}

// SecurityLevel orders keys by how well they are expected to be protected.
// Lower values are more secure.
type SecurityLevel uint8

const (
	SecurityLevelMaster   SecurityLevel = 0
	SecurityLevelCritical SecurityLevel = 1
	SecurityLevelHigh     SecurityLevel = 2
	SecurityLevelMedium   SecurityLevel = 3
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityLevelMaster:
		return "MASTER"
	case SecurityLevelCritical:
		return "CRITICAL"
	case SecurityLevelHigh:
		return "HIGH"
	case SecurityLevelMedium:
		return "MEDIUM"
	default:
		return fmt.Sprintf("UNKNOWN_SECURITY_LEVEL_%d", uint8(l))
	}
}

// IdentityPublicKey is a public key registered to an identity.
//
// DisabledAt holds the block time (in milliseconds) at which the key was
// disabled; zero means the key is enabled. A disabled key can still verify
// signatures produced before DisabledAt, which matters for re-validation of
// historical transitions but never for admission of new ones.
type IdentityPublicKey struct {
	ID            KeyID
	Type          KeyType
	Purpose       KeyPurpose
	SecurityLevel SecurityLevel
	ReadOnly      bool
	Data          []byte
	DisabledAt    Timestamp
}

// IsEnabled returns true if the key has not been disabled.
func (k *IdentityPublicKey) IsEnabled() bool {
	return k.DisabledAt == 0
}

// IsEnabledAt returns true if the key was enabled at the given block time.
func (k *IdentityPublicKey) IsEnabledAt(t Timestamp) bool {
	return k.DisabledAt == 0 || k.DisabledAt > t
}
