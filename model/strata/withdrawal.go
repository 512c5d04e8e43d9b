package strata

import (
	"crypto/sha256"
	"encoding/binary"
)

// Withdrawal is a queued credit withdrawal awaiting core-chain settlement.
// The processing core only queues withdrawals; a separate process drains the
// queue into core-chain transactions.
type Withdrawal struct {
	ID             Identifier
	IdentityID     Identifier
	Amount         Credits
	CoreFeePerByte uint32
	OutputScript   []byte
	CreatedAt      Timestamp
}

// WithdrawalID derives the withdrawal's unique id from the withdrawing
// identity and the transition nonce. The pair is unique by replay
// protection, so the id is too.
func WithdrawalID(identityID Identifier, nonce IdentityNonce) Identifier {
	var buf [IdentifierLen + 8]byte
	copy(buf[:IdentifierLen], identityID.Bytes())
	binary.BigEndian.PutUint64(buf[IdentifierLen:], uint64(nonce))
	return Identifier(sha256.Sum256(buf[:]))
}
