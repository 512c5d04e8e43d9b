package fees

import (
	"github.com/strataplatform/strata-go/model/strata"
)

// FeeResult is the priced outcome of processing one or more operations.
//
// RemovedBytesFromSystem counts freed bytes that were paid for by the system
// itself; they earn no identity refunds but are still accounted for.
type FeeResult struct {
	StorageFee             strata.Credits
	ProcessingFee          strata.Credits
	FeeRefunds             FeeRefunds
	RemovedBytesFromSystem uint32
}

// NewFeeResult returns an empty fee result with an initialized refund ledger.
func NewFeeResult() FeeResult {
	return FeeResult{FeeRefunds: FeeRefunds{}}
}

// CheckedAdd folds other into f. Addition is checked: overflow is a loud
// error, never a silent wrap, because two nodes wrapping differently sized
// intermediate sums could diverge.
func (f *FeeResult) CheckedAdd(other FeeResult) error {
	storage, err := f.StorageFee.CheckedAdd(other.StorageFee)
	if err != nil {
		return err
	}
	processing, err := f.ProcessingFee.CheckedAdd(other.ProcessingFee)
	if err != nil {
		return err
	}
	if f.FeeRefunds == nil {
		f.FeeRefunds = FeeRefunds{}
	}
	err = f.FeeRefunds.Merge(other.FeeRefunds)
	if err != nil {
		return err
	}
	f.StorageFee = storage
	f.ProcessingFee = processing
	f.RemovedBytesFromSystem += other.RemovedBytesFromSystem
	return nil
}

// TotalBaseFee is the amount a payer is charged before refunds.
func (f *FeeResult) TotalBaseFee() (strata.Credits, error) {
	return f.StorageFee.CheckedAdd(f.ProcessingFee)
}

// RequiredBalance is the balance a payer must hold to afford this result.
// Refunds are not netted against the charge: they accrue to whoever paid for
// the freed storage, which is not necessarily the current payer.
func (f *FeeResult) RequiredBalance() (strata.Credits, error) {
	return f.TotalBaseFee()
}
