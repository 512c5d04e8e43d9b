package storage

import "github.com/strataplatform/strata-go/model/strata"

// Root subtree prefixes. These mirror the storage engine's agreed top-level
// layout; the core treats them as opaque addresses.
var (
	rootIdentities  = []byte{0x01}
	rootBalances    = []byte{0x02}
	rootContracts   = []byte{0x03}
	rootDocuments   = []byte{0x04}
	rootNonces      = []byte{0x05}
	rootTokens      = []byte{0x06}
	rootAssetLocks  = []byte{0x07}
	rootWithdrawals = []byte{0x08}
)

// IdentitiesPath addresses the identity subtree, keyed by identity id.
func IdentitiesPath() Path {
	return Path{rootIdentities}
}

// BalancesPath addresses identity credit balances, keyed by identity id.
func BalancesPath() Path {
	return Path{rootBalances}
}

// ContractsPath addresses data contracts, keyed by contract id.
func ContractsPath() Path {
	return Path{rootContracts}
}

// DocumentsPath addresses documents of one type under one contract, keyed by
// document id.
func DocumentsPath(contractID strata.Identifier, documentType string) Path {
	return Path{rootDocuments, contractID.Bytes(), []byte(documentType)}
}

// IdentityNoncesPath addresses identity nonces, keyed by identity id.
func IdentityNoncesPath() Path {
	return Path{rootNonces}
}

// IdentityContractNoncesPath addresses per-contract identity nonces, keyed by
// identity id.
func IdentityContractNoncesPath(contractID strata.Identifier) Path {
	return Path{rootNonces, contractID.Bytes()}
}

// TokenConfigPath addresses token configurations, keyed by token id.
func TokenConfigPath() Path {
	return Path{rootTokens}
}

// TokenAccountsPath addresses holdings of one token, keyed by identity id.
func TokenAccountsPath(tokenID strata.Identifier) Path {
	return Path{rootTokens, tokenID.Bytes()}
}

// AssetLocksPath addresses spent asset lock outpoints, keyed by outpoint.
func AssetLocksPath() Path {
	return Path{rootAssetLocks}
}

// WithdrawalsPath addresses queued credit withdrawals, keyed by withdrawal id.
func WithdrawalsPath() Path {
	return Path{rootWithdrawals}
}
