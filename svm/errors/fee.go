package errors

import (
	"fmt"

	"github.com/strataplatform/strata-go/model/strata"
)

// BalanceIsNotEnoughError indicates the payer cannot cover a computed fee.
type BalanceIsNotEnoughError struct {
	Balance strata.Credits
	Fee     strata.Credits
}

func NewBalanceIsNotEnoughError(balance, fee strata.Credits) *BalanceIsNotEnoughError {
	return &BalanceIsNotEnoughError{Balance: balance, Fee: fee}
}

func (e *BalanceIsNotEnoughError) Error() string {
	return fmt.Sprintf("%s current credits balance %d is not enough to pay %d fee", e.Code(), e.Balance, e.Fee)
}

func (e *BalanceIsNotEnoughError) Code() ErrorCode {
	return ErrCodeBalanceIsNotEnoughError
}

// IdentityInsufficientBalanceError indicates an operation moving more credits
// than the identity holds.
type IdentityInsufficientBalanceError struct {
	IdentityID strata.Identifier
	Balance    strata.Credits
	Required   strata.Credits
}

func NewIdentityInsufficientBalanceError(identityID strata.Identifier, balance, required strata.Credits) *IdentityInsufficientBalanceError {
	return &IdentityInsufficientBalanceError{IdentityID: identityID, Balance: balance, Required: required}
}

func (e *IdentityInsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s identity %s has balance %d, required %d", e.Code(), e.IdentityID, e.Balance, e.Required)
}

func (e *IdentityInsufficientBalanceError) Code() ErrorCode {
	return ErrCodeIdentityInsufficientBalanceError
}

// FeeOverflowError indicates checked fee arithmetic overflowed. This is a
// consensus outcome, not a failure: all nodes hit the same overflow on the
// same input.
type FeeOverflowError struct {
	reason error
}

func NewFeeOverflowError(reason error) *FeeOverflowError {
	return &FeeOverflowError{reason: reason}
}

func (e *FeeOverflowError) Error() string {
	return fmt.Sprintf("%s fee calculation overflow: %s", e.Code(), e.reason)
}

func (e *FeeOverflowError) Code() ErrorCode {
	return ErrCodeFeeOverflowError
}
