package fees

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataplatform/strata-go/model/strata"
)

func refundsFixture(entries ...[3]uint64) FeeRefunds {
	fr := FeeRefunds{}
	for _, entry := range entries {
		var id strata.Identifier
		id[0] = byte(entry[0])
		err := fr.AddRefund(id, strata.EpochIndex(entry[1]), strata.Credits(entry[2]))
		if err != nil {
			panic(err)
		}
	}
	return fr
}

func TestFeeRefundsMergeIsCommutative(t *testing.T) {
	a := refundsFixture([3]uint64{1, 0, 100}, [3]uint64{2, 3, 50})
	b := refundsFixture([3]uint64{1, 0, 25}, [3]uint64{3, 1, 10})

	left := a.Clone()
	require.NoError(t, left.Merge(b.Clone()))

	right := b.Clone()
	require.NoError(t, right.Merge(a.Clone()))

	assert.Equal(t, left, right)
}

func TestFeeRefundsMergeIsAssociative(t *testing.T) {
	a := refundsFixture([3]uint64{1, 0, 100})
	b := refundsFixture([3]uint64{1, 0, 50}, [3]uint64{2, 2, 5})
	c := refundsFixture([3]uint64{2, 2, 7}, [3]uint64{3, 1, 1})

	abFirst := a.Clone()
	require.NoError(t, abFirst.Merge(b.Clone()))
	require.NoError(t, abFirst.Merge(c.Clone()))

	bcFirst := b.Clone()
	require.NoError(t, bcFirst.Merge(c.Clone()))
	left := a.Clone()
	require.NoError(t, left.Merge(bcFirst))

	assert.Equal(t, abFirst, left)
}

func TestFeeRefundsMergeOverflows(t *testing.T) {
	a := refundsFixture([3]uint64{1, 0, math.MaxUint64})
	b := refundsFixture([3]uint64{1, 0, 1})

	err := a.Merge(b)
	require.Error(t, err)
}

func TestFeeRefundsTotalFor(t *testing.T) {
	fr := refundsFixture([3]uint64{1, 0, 100}, [3]uint64{1, 4, 50}, [3]uint64{2, 1, 9})

	var id strata.Identifier
	id[0] = 1
	total, err := fr.TotalFor(id)
	require.NoError(t, err)
	assert.Equal(t, strata.Credits(150), total)

	var absent strata.Identifier
	absent[0] = 9
	total, err = fr.TotalFor(absent)
	require.NoError(t, err)
	assert.Equal(t, strata.Credits(0), total)
}

func TestFeeRefundsIdentitiesAreOrdered(t *testing.T) {
	fr := refundsFixture([3]uint64{9, 0, 1}, [3]uint64{1, 0, 1}, [3]uint64{5, 0, 1})

	ids := fr.Identities()
	require.Len(t, ids, 3)
	assert.Equal(t, byte(1), ids[0][0])
	assert.Equal(t, byte(5), ids[1][0])
	assert.Equal(t, byte(9), ids[2][0])
}

func TestFeeResultCheckedAdd(t *testing.T) {
	a := FeeResult{
		StorageFee:    100,
		ProcessingFee: 10,
		FeeRefunds:    refundsFixture([3]uint64{1, 0, 5}),
	}
	b := FeeResult{
		StorageFee:             200,
		ProcessingFee:          20,
		FeeRefunds:             refundsFixture([3]uint64{1, 0, 5}),
		RemovedBytesFromSystem: 8,
	}

	require.NoError(t, a.CheckedAdd(b))
	assert.Equal(t, strata.Credits(300), a.StorageFee)
	assert.Equal(t, strata.Credits(30), a.ProcessingFee)
	assert.Equal(t, uint32(8), a.RemovedBytesFromSystem)

	var id strata.Identifier
	id[0] = 1
	total, err := a.FeeRefunds.TotalFor(id)
	require.NoError(t, err)
	assert.Equal(t, strata.Credits(10), total)
}

func TestFeeResultCheckedAddOverflows(t *testing.T) {
	a := FeeResult{StorageFee: math.MaxUint64, FeeRefunds: FeeRefunds{}}
	b := FeeResult{StorageFee: 1, FeeRefunds: FeeRefunds{}}

	err := a.CheckedAdd(b)
	require.Error(t, err)
	// the receiver is untouched on failure
	assert.Equal(t, strata.Credits(math.MaxUint64), a.StorageFee)
}

func TestRequiredBalanceIgnoresRefunds(t *testing.T) {
	result := FeeResult{
		StorageFee:    1000,
		ProcessingFee: 200,
		FeeRefunds:    refundsFixture([3]uint64{1, 0, 900}),
	}

	required, err := result.RequiredBalance()
	require.NoError(t, err)
	assert.Equal(t, strata.Credits(1200), required)
}
