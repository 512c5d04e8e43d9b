package strata

// TokenAmount counts units of a platform token.
type TokenAmount uint64

// TokenConfiguration is the per-token state shared by all holders.
type TokenConfiguration struct {
	TokenID    Identifier
	ContractID Identifier
	// Paused freezes all movement of the token for every holder.
	Paused bool
	// MaxSupply caps Supply; zero means uncapped.
	MaxSupply TokenAmount
	Supply    TokenAmount
}

// TokenAccount is the per-(token, identity) holding.
type TokenAccount struct {
	TokenID    Identifier
	IdentityID Identifier
	Balance    TokenAmount
	// Frozen blocks outgoing transfers and burns from this account only.
	Frozen bool
}
