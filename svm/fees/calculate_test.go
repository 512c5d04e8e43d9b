package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/protocol"
)

const testEpochsPerEra uint16 = 40

func calculate(t *testing.T, ops []Operation, epoch strata.EpochIndex) FeeResult {
	result, err := CalculateFee(ops, epoch, testEpochsPerEra, protocol.LatestVersion)
	require.NoError(t, err)
	return result
}

func TestCalculateFeeRead(t *testing.T) {
	costs := &protocol.LatestVersion.Fees.Costs

	result := calculate(t, []Operation{
		ReadOperation{SeekCount: 2, ValueSize: 100},
	}, 0)

	expected := 2*costs.StorageSeekCost + 100*costs.NonStorageLoadCreditPerByte
	assert.Equal(t, strata.Credits(expected), result.ProcessingFee)
	assert.Equal(t, strata.Credits(0), result.StorageFee)
	assert.Empty(t, result.FeeRefunds)
}

func TestCalculateFeeWrite(t *testing.T) {
	costs := &protocol.LatestVersion.Fees.Costs

	result := calculate(t, []Operation{
		WriteOperation{KeySize: 32, ValueSize: 68},
	}, 0)

	added := uint64(32 + 68)
	assert.Equal(t, strata.Credits(added*costs.StorageDiskUsageCreditPerByte), result.StorageFee)
	assert.Equal(t,
		strata.Credits(added*costs.StorageProcessingCreditPerByte+costs.StorageSeekCost),
		result.ProcessingFee)
}

func TestCalculateFeeReplaceChargesOnlyGrowth(t *testing.T) {
	costs := &protocol.LatestVersion.Fees.Costs

	grown := calculate(t, []Operation{
		ReplaceOperation{KeySize: 32, NewValueSize: 120, OldValueSize: 100},
	}, 0)
	assert.Equal(t, strata.Credits(20*costs.StorageDiskUsageCreditPerByte), grown.StorageFee)

	shrunk := calculate(t, []Operation{
		ReplaceOperation{KeySize: 32, NewValueSize: 80, OldValueSize: 100},
	}, 0)
	assert.Equal(t, strata.Credits(0), shrunk.StorageFee)
}

func TestCalculateFeeReplaceRefundsOnlyFreedBytes(t *testing.T) {
	costs := &protocol.LatestVersion.Fees.Costs
	owner := strata.Identifier{0x01}

	// Removed carries the whole previous element; only the size reduction
	// is actually freed, so only that much may come back as refunds.
	shrunk := calculate(t, []Operation{
		ReplaceOperation{
			KeySize: 32, NewValueSize: 80, OldValueSize: 100,
			Removed: RemovedBytes{owner: {0: 100}},
		},
	}, 3)
	refund, err := shrunk.FeeRefunds.TotalFor(owner)
	require.NoError(t, err)
	assert.Equal(t, strata.Credits(20*costs.StorageDiskUsageCreditPerByte), refund)

	sameSize := calculate(t, []Operation{
		ReplaceOperation{
			KeySize: 32, NewValueSize: 100, OldValueSize: 100,
			Removed: RemovedBytes{owner: {0: 100}},
		},
	}, 3)
	assert.Empty(t, sameSize.FeeRefunds)

	grown := calculate(t, []Operation{
		ReplaceOperation{
			KeySize: 32, NewValueSize: 120, OldValueSize: 100,
			Removed: RemovedBytes{owner: {0: 100}},
		},
	}, 3)
	assert.Empty(t, grown.FeeRefunds)
}

func TestCapRemovedBytesConsumesDeterministically(t *testing.T) {
	first := strata.Identifier{0x01}
	second := strata.Identifier{0x02}

	capped := capRemovedBytesV0(RemovedBytes{
		second: {4: 50},
		first:  {2: 30, 1: 10},
	}, 60)

	// identifier order, then epoch order: all of first's bytes, then the
	// remainder of second's
	assert.Equal(t, RemovedBytes{
		first:  {1: 10, 2: 30},
		second: {4: 20},
	}, capped)
}

func TestCalculateFeeDeleteRefundsOwner(t *testing.T) {
	costs := &protocol.LatestVersion.Fees.Costs
	owner := strata.Identifier{0x01}

	result := calculate(t, []Operation{
		DeleteOperation{
			KeySize: 32,
			Removed: RemovedBytes{owner: {2: 100}},
		},
	}, 5)

	refund, err := result.FeeRefunds.TotalFor(owner)
	require.NoError(t, err)
	assert.Equal(t, strata.Credits(100*costs.StorageDiskUsageCreditPerByte), refund)
}

func TestCalculateFeeRefundHorizon(t *testing.T) {
	owner := strata.Identifier{0x01}
	horizon := PerpetualStorageEpochs(testEpochsPerEra)

	// bytes paid exactly at the horizon's edge earn nothing further
	old := calculate(t, []Operation{
		DeleteOperation{KeySize: 32, Removed: RemovedBytes{owner: {0: 100}}},
	}, strata.EpochIndex(horizon))
	refund, err := old.FeeRefunds.TotalFor(owner)
	require.NoError(t, err)
	assert.Equal(t, strata.Credits(0), refund)

	recent := calculate(t, []Operation{
		DeleteOperation{KeySize: 32, Removed: RemovedBytes{owner: {1: 100}}},
	}, strata.EpochIndex(horizon))
	refund, err = recent.FeeRefunds.TotalFor(owner)
	require.NoError(t, err)
	assert.NotEqual(t, strata.Credits(0), refund)
}

func TestCalculateFeeSystemBytesEarnNoRefund(t *testing.T) {
	result := calculate(t, []Operation{
		DeleteOperation{
			KeySize: 32,
			Removed: RemovedBytes{strata.ZeroID: {0: 64}},
		},
	}, 3)

	assert.Empty(t, result.FeeRefunds)
	assert.Equal(t, uint32(64), result.RemovedBytesFromSystem)
}

func TestCalculateFeeSignatureVerification(t *testing.T) {
	costs := &protocol.LatestVersion.Fees.Costs

	for _, tc := range []struct {
		keyType strata.KeyType
		cost    uint64
	}{
		{strata.KeyTypeECDSASecp256k1, costs.VerifySignatureECDSASecp256k1},
		{strata.KeyTypeBLS12381, costs.VerifySignatureBLS12381},
		{strata.KeyTypeECDSAHash160, costs.VerifySignatureECDSAHash160},
	} {
		result := calculate(t, []Operation{
			SignatureVerificationOperation{KeyType: tc.keyType},
		}, 0)
		assert.Equal(t, strata.Credits(tc.cost), result.ProcessingFee)
	}
}

func TestCalculateFeeUnknownFeeVersionFails(t *testing.T) {
	pv := *protocol.LatestVersion
	pv.Fees.CalculateFee = 99

	_, err := CalculateFee([]Operation{ReadOperation{SeekCount: 1}}, 0, testEpochsPerEra, &pv)
	require.Error(t, err)
	assert.True(t, protocol.IsUnknownVersionMismatch(err))
}
