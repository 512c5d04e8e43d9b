package fees

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
	"github.com/strataplatform/strata-go/svm/errors"
)

// PerpetualStorageEras is how many eras of storage one storage fee pays for.
// Bytes older than the horizon have exhausted their prepaid storage and earn
// no refund when freed.
const PerpetualStorageEras = 50

// PerpetualStorageEpochs returns the refund horizon in epochs.
func PerpetualStorageEpochs(epochsPerEra uint16) uint32 {
	return uint32(epochsPerEra) * PerpetualStorageEras
}

// CalculateFee prices a list of low-level operations at a given epoch.
// Processing costs sum directly; storage costs convert to credits at the
// fee version's per-byte rate, which is fixed for the duration of an epoch.
func CalculateFee(
	ops []Operation,
	epoch strata.EpochIndex,
	epochsPerEra uint16,
	pv *protocol.PlatformVersion,
) (FeeResult, error) {
	return protocol.Dispatch(
		"fees.CalculateFee",
		pv.Fees.CalculateFee,
		map[protocol.FeatureVersion]func() (FeeResult, error){
			0: func() (FeeResult, error) {
				return calculateFeeV0(ops, epoch, epochsPerEra, &pv.Fees.Costs)
			},
		},
	)
}

func calculateFeeV0(
	ops []Operation,
	epoch strata.EpochIndex,
	epochsPerEra uint16,
	costs *protocol.FeeCosts,
) (FeeResult, error) {
	result := NewFeeResult()

	for _, op := range ops {
		var opFee FeeResult
		var err error
		switch op := op.(type) {
		case ReadOperation:
			opFee, err = readCostV0(op, costs)
		case WriteOperation:
			opFee, err = writeCostV0(op, costs)
		case ReplaceOperation:
			opFee, err = replaceCostV0(op, epoch, epochsPerEra, costs)
		case DeleteOperation:
			opFee, err = deleteCostV0(op, epoch, epochsPerEra, costs)
		case SignatureVerificationOperation:
			opFee, err = signatureCostV0(op, costs)
		case PreCalculatedOperation:
			opFee = op.Fee
		default:
			return FeeResult{}, errors.NewExecutionFailuref("unpriceable operation type %T", op)
		}
		if err != nil {
			return FeeResult{}, err
		}

		err = result.CheckedAdd(opFee)
		if err != nil {
			return FeeResult{}, errors.NewFeeOverflowError(err)
		}
	}

	return result, nil
}

func readCostV0(op ReadOperation, costs *protocol.FeeCosts) (FeeResult, error) {
	seeks, err := strata.Credits(op.SeekCount).CheckedMul(strata.Credits(costs.StorageSeekCost))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	load, err := strata.Credits(op.ValueSize).CheckedMul(strata.Credits(costs.NonStorageLoadCreditPerByte))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	processing, err := seeks.CheckedAdd(load)
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	return FeeResult{ProcessingFee: processing, FeeRefunds: FeeRefunds{}}, nil
}

func writeCostV0(op WriteOperation, costs *protocol.FeeCosts) (FeeResult, error) {
	added := strata.Credits(op.AddedBytes())

	storage, err := added.CheckedMul(strata.Credits(costs.StorageDiskUsageCreditPerByte))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	processing, err := added.CheckedMul(strata.Credits(costs.StorageProcessingCreditPerByte))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	processing, err = processing.CheckedAdd(strata.Credits(costs.StorageSeekCost))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	return FeeResult{StorageFee: storage, ProcessingFee: processing, FeeRefunds: FeeRefunds{}}, nil
}

func replaceCostV0(
	op ReplaceOperation,
	epoch strata.EpochIndex,
	epochsPerEra uint16,
	costs *protocol.FeeCosts,
) (FeeResult, error) {
	result := NewFeeResult()

	// The replaced value must be loaded before being overwritten.
	load, err := strata.Credits(op.OldValueSize).CheckedMul(strata.Credits(costs.StorageLoadCreditPerByte))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	written := strata.Credits(op.KeySize + op.NewValueSize)
	processing, err := written.CheckedMul(strata.Credits(costs.StorageProcessingCreditPerByte))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	processing, err = processing.CheckedAdd(load)
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	result.ProcessingFee, err = processing.CheckedAdd(strata.Credits(costs.StorageSeekCost))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}

	// Only growth is newly paid storage, and only shrinkage is freed
	// storage. Removed carries the whole previous element for attribution,
	// so the refundable byte count is capped at the actual size reduction;
	// a same-size replace frees nothing and refunds nothing.
	if op.NewValueSize > op.OldValueSize {
		grown := strata.Credits(op.NewValueSize - op.OldValueSize)
		result.StorageFee, err = grown.CheckedMul(strata.Credits(costs.StorageDiskUsageCreditPerByte))
		if err != nil {
			return FeeResult{}, errors.NewFeeOverflowError(err)
		}
	} else if op.NewValueSize < op.OldValueSize {
		freed := capRemovedBytesV0(op.Removed, op.OldValueSize-op.NewValueSize)
		err = addRemovalRefundsV0(&result, freed, epoch, epochsPerEra, costs)
		if err != nil {
			return FeeResult{}, err
		}
	}
	return result, nil
}

// capRemovedBytesV0 truncates a removed-bytes attribution to at most limit
// bytes, consuming entries in identifier then epoch order so every node caps
// the same way.
func capRemovedBytesV0(removed RemovedBytes, limit uint32) RemovedBytes {
	capped := RemovedBytes{}
	if limit == 0 {
		return capped
	}

	ids := maps.Keys(removed)
	slices.SortFunc(ids, func(a, b strata.Identifier) bool {
		return strata.CompareIdentifiers(a, b) < 0
	})

	remaining := limit
	for _, id := range ids {
		epochs := maps.Keys(removed[id])
		slices.Sort(epochs)
		for _, paidEpoch := range epochs {
			if remaining == 0 {
				return capped
			}
			bytes := removed[id][paidEpoch]
			if bytes > remaining {
				bytes = remaining
			}
			if capped[id] == nil {
				capped[id] = BytesPerEpoch{}
			}
			capped[id][paidEpoch] = bytes
			remaining -= bytes
		}
	}
	return capped
}

func deleteCostV0(
	op DeleteOperation,
	epoch strata.EpochIndex,
	epochsPerEra uint16,
	costs *protocol.FeeCosts,
) (FeeResult, error) {
	result := NewFeeResult()

	var err error
	result.ProcessingFee, err = strata.Credits(op.KeySize).
		CheckedMul(strata.Credits(costs.StorageProcessingCreditPerByte))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}
	result.ProcessingFee, err = result.ProcessingFee.CheckedAdd(strata.Credits(costs.StorageSeekCost))
	if err != nil {
		return FeeResult{}, errors.NewFeeOverflowError(err)
	}

	err = addRemovalRefundsV0(&result, op.Removed, epoch, epochsPerEra, costs)
	if err != nil {
		return FeeResult{}, err
	}
	return result, nil
}

// addRemovalRefundsV0 converts freed bytes into refund credits at the rate
// the bytes were paid at. Bytes paid at an epoch beyond the perpetual storage
// horizon, and system-paid bytes, earn nothing.
func addRemovalRefundsV0(
	result *FeeResult,
	removed RemovedBytes,
	epoch strata.EpochIndex,
	epochsPerEra uint16,
	costs *protocol.FeeCosts,
) error {
	horizon := PerpetualStorageEpochs(epochsPerEra)

	for identityID, perEpoch := range removed {
		for paidEpoch, bytes := range perEpoch {
			if identityID.IsZero() {
				result.RemovedBytesFromSystem += bytes
				continue
			}
			if paidEpoch > epoch || uint32(epoch-paidEpoch) >= horizon {
				continue
			}
			refund, err := strata.Credits(bytes).
				CheckedMul(strata.Credits(costs.StorageDiskUsageCreditPerByte))
			if err != nil {
				return errors.NewFeeOverflowError(err)
			}
			err = result.FeeRefunds.AddRefund(identityID, paidEpoch, refund)
			if err != nil {
				return errors.NewFeeOverflowError(err)
			}
		}
	}
	return nil
}

func signatureCostV0(op SignatureVerificationOperation, costs *protocol.FeeCosts) (FeeResult, error) {
	var cost uint64
	switch op.KeyType {
	case strata.KeyTypeECDSASecp256k1:
		cost = costs.VerifySignatureECDSASecp256k1
	case strata.KeyTypeBLS12381:
		cost = costs.VerifySignatureBLS12381
	case strata.KeyTypeECDSAHash160:
		cost = costs.VerifySignatureECDSAHash160
	default:
		return FeeResult{}, errors.NewExecutionFailuref("no signature cost for key type %s", op.KeyType)
	}
	return FeeResult{ProcessingFee: strata.Credits(cost), FeeRefunds: FeeRefunds{}}, nil
}
