package strata

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// State transitions travel as a one-byte type discriminator followed by a
// canonical CBOR body. Canonical encoding matters: signable bytes and any
// hashing over the wire form must be identical on every node.

var (
	stEncMode cbor.EncMode
	stDecMode cbor.DecMode
)

func init() {
	var err error
	stEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not create canonical cbor encoder: %s", err))
	}
	stDecMode, err = cbor.DecOptions{
		IntDec: cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("could not create cbor decoder: %s", err))
	}
}

// UnknownTransitionTypeError is returned when the leading discriminator byte
// does not name a known state transition variant.
type UnknownTransitionTypeError struct {
	Received uint8
}

func (e UnknownTransitionTypeError) Error() string {
	return fmt.Sprintf("unknown state transition type discriminator %d", e.Received)
}

// MaxTransitionFormatVersion is the highest wire format version this build
// decodes. Bodies declaring a later version fail decoding; they are never
// interpreted with the current layout.
const MaxTransitionFormatVersion = 0

// UnknownTransitionVersionError is returned when a state transition body
// declares a format version this build does not know.
type UnknownTransitionVersionError struct {
	Received uint16
}

func (e UnknownTransitionVersionError) Error() string {
	return fmt.Sprintf("unknown state transition format version %d (max supported %d)",
		e.Received, MaxTransitionFormatVersion)
}

// EncodeStateTransition serializes a state transition to its wire format.
func EncodeStateTransition(st StateTransition) ([]byte, error) {
	body, err := stEncMode.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s state transition: %w", st.TransitionType(), err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(st.TransitionType()))
	out = append(out, body...)
	return out, nil
}

// DecodeStateTransition deserializes a state transition from its wire format.
// An unknown discriminator fails decoding; it is never skipped.
func DecodeStateTransition(data []byte) (StateTransition, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("state transition payload too short (%d bytes)", len(data))
	}

	var st StateTransition
	switch StateTransitionType(data[0]) {
	case StateTransitionDataContractCreate:
		st = &DataContractCreateTransition{}
	case StateTransitionDataContractUpdate:
		st = &DataContractUpdateTransition{}
	case StateTransitionDocumentsBatch:
		st = &DocumentsBatchTransition{}
	case StateTransitionIdentityCreate:
		st = &IdentityCreateTransition{}
	case StateTransitionIdentityTopUp:
		st = &IdentityTopUpTransition{}
	case StateTransitionIdentityUpdate:
		st = &IdentityUpdateTransition{}
	case StateTransitionIdentityCreditWithdrawal:
		st = &IdentityCreditWithdrawalTransition{}
	case StateTransitionIdentityCreditTransfer:
		st = &IdentityCreditTransferTransition{}
	default:
		return nil, UnknownTransitionTypeError{Received: data[0]}
	}

	err := stDecMode.Unmarshal(data[1:], st)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s state transition: %w", StateTransitionType(data[0]), err)
	}
	if v := transitionFormatVersion(st); v > MaxTransitionFormatVersion {
		return nil, UnknownTransitionVersionError{Received: v}
	}
	return st, nil
}

func transitionFormatVersion(st StateTransition) uint16 {
	switch t := st.(type) {
	case *DataContractCreateTransition:
		return t.FormatVersion
	case *DataContractUpdateTransition:
		return t.FormatVersion
	case *DocumentsBatchTransition:
		return t.FormatVersion
	case *IdentityCreateTransition:
		return t.FormatVersion
	case *IdentityTopUpTransition:
		return t.FormatVersion
	case *IdentityUpdateTransition:
		return t.FormatVersion
	case *IdentityCreditWithdrawalTransition:
		return t.FormatVersion
	case *IdentityCreditTransferTransition:
		return t.FormatVersion
	default:
		return 0
	}
}

// MarshalEntity canonically encodes any storable entity (identities,
// contracts, documents) for persistence.
func MarshalEntity(v interface{}) ([]byte, error) {
	return stEncMode.Marshal(v)
}

// UnmarshalEntity decodes an entity previously encoded with MarshalEntity.
func UnmarshalEntity(data []byte, v interface{}) error {
	return stDecMode.Unmarshal(data, v)
}
