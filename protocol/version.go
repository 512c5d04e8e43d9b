// Package protocol holds the platform version table: the immutable mapping
// from a network-agreed protocol version to the numbered implementation of
// every versioned method in the system.
//
// The table is constructed once per process through Get and passed explicitly
// to every dispatch point. There is no mutable global version state; two
// calls with the same protocol version observe identical tables.
package protocol

import "fmt"

// FeatureVersion numbers the implementations of one versioned method.
// Versions start at 0 and only ever grow; an existing numbered implementation
// is never modified once released.
type FeatureVersion uint16

// StateTransitionMethodVersions selects the implementation of each validation
// phase method for one state transition kind.
type StateTransitionMethodVersions struct {
	BasicStructure      FeatureVersion
	Signature           FeatureVersion
	Key                 FeatureVersion
	Nonce               FeatureVersion
	State               FeatureVersion
	TransformIntoAction FeatureVersion
}

// StateTransitionVersions groups the method versions of every transition
// kind.
type StateTransitionVersions struct {
	DataContractCreate       StateTransitionMethodVersions
	DataContractUpdate       StateTransitionMethodVersions
	DocumentsBatch           StateTransitionMethodVersions
	IdentityCreate           StateTransitionMethodVersions
	IdentityTopUp            StateTransitionMethodVersions
	IdentityUpdate           StateTransitionMethodVersions
	IdentityCreditTransfer   StateTransitionMethodVersions
	IdentityCreditWithdrawal StateTransitionMethodVersions
}

// FeeCosts fixes the cost parameters of one fee version. The disk-usage rate
// is the credit price of one stored byte and is constant for the whole of any
// epoch in which this fee version is active.
type FeeCosts struct {
	StorageDiskUsageCreditPerByte  uint64
	StorageProcessingCreditPerByte uint64
	StorageLoadCreditPerByte       uint64
	NonStorageLoadCreditPerByte    uint64
	StorageSeekCost                uint64

	VerifySignatureECDSASecp256k1 uint64
	VerifySignatureBLS12381       uint64
	VerifySignatureECDSAHash160   uint64
}

// FeeVersions selects the fee calculation implementation and its cost table.
type FeeVersions struct {
	CalculateFee FeatureVersion
	Costs        FeeCosts
}

// ExecutionVersions selects the implementations of the block execution
// engine's methods.
type ExecutionVersions struct {
	ExecuteBlock         FeatureVersion
	ApplyEvent           FeatureVersion
	EstimatedFeeForEvent FeatureVersion
}

// DataTriggerVersions selects the data trigger binding set.
type DataTriggerVersions struct {
	Bindings FeatureVersion
}

// PlatformVersion is the complete version table for one protocol version.
// It is read-only after construction; consumers must never modify it.
type PlatformVersion struct {
	ProtocolVersion uint32

	StateTransitions StateTransitionVersions
	Fees             FeeVersions
	Execution        ExecutionVersions
	DataTriggers     DataTriggerVersions
}

// v1 is the genesis protocol version. Every method starts at implementation 0.
var v1 = PlatformVersion{
	ProtocolVersion: 1,
	Fees: FeeVersions{
		CalculateFee: 0,
		Costs: FeeCosts{
			StorageDiskUsageCreditPerByte:  27000,
			StorageProcessingCreditPerByte: 400,
			StorageLoadCreditPerByte:       400,
			NonStorageLoadCreditPerByte:    30,
			StorageSeekCost:                4000,
			VerifySignatureECDSASecp256k1:  40000,
			VerifySignatureBLS12381:        120000,
			VerifySignatureECDSAHash160:    45000,
		},
	},
}

// versions lists every released platform version, ordered by protocol
// version.
var versions = []*PlatformVersion{&v1}

// LatestVersion is the highest protocol version this build knows.
var LatestVersion = &v1

// Get returns the version table for the given protocol version. Unknown
// protocol versions are a hard error: running with a guessed table would fork
// the network.
func Get(protocolVersion uint32) (*PlatformVersion, error) {
	for _, v := range versions {
		if v.ProtocolVersion == protocolVersion {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unknown protocol version %d (latest known %d)",
		protocolVersion, LatestVersion.ProtocolVersion)
}
