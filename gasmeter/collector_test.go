package gasmeter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectorAppendsInOrder(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.RecordUint64(CategoryEOATransfer, "send", 21000, 21000))
	require.NoError(t, c.RecordUint64(CategoryDeployment, "ERC20Token", 500000, 480000))
	require.NoError(t, c.RecordUint64(CategoryContractCall, "transfer", 52000, 51832))

	records := c.AllRecords()
	require.Len(t, records, 3)
	require.Equal(t, CategoryEOATransfer, records[0].Category())
	require.Equal(t, CategoryDeployment, records[1].Category())
	require.Equal(t, CategoryContractCall, records[2].Category())
	require.Equal(t, "ERC20Token", records[1].Operation())
}

// Repeated identical measurements are tracked as separate records.
func TestCollectorNoDeduplication(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.RecordUint64(CategoryEOATransfer, "send", 21000, 21000))
	}
	require.Equal(t, 3, c.Len())
}

func TestCollectorRejectsInvalidRecord(t *testing.T) {
	c := NewCollector()
	err := c.Record(CategoryEOATransfer, "send", big.NewInt(-1), big.NewInt(21000))
	require.ErrorIs(t, err, ErrInvalidRecord)

	err = c.Record(Category("bogus"), "send", big.NewInt(21000), big.NewInt(21000))
	require.ErrorIs(t, err, ErrInvalidRecord)

	err = c.Record(CategoryEOATransfer, "send", nil, big.NewInt(21000))
	require.ErrorIs(t, err, ErrInvalidRecord)

	require.Zero(t, c.Len(), "rejected records must not be appended")
}

func TestRecordImmutable(t *testing.T) {
	estimated := big.NewInt(21000)
	rec, err := NewRecord(CategoryEOATransfer, "send", estimated, big.NewInt(21000))
	require.NoError(t, err)

	// Mutating the input after construction must not leak into the record.
	estimated.SetInt64(999)
	require.Equal(t, int64(21000), rec.EstimatedGas().Int64())

	// Mutating an accessor result must not either.
	rec.ActualGas().SetInt64(0)
	require.Equal(t, int64(21000), rec.ActualGas().Int64())
}

func TestParseCategory(t *testing.T) {
	require.Equal(t, CategoryDeployment, ParseCategory("deployment"))
	require.Equal(t, CategoryOther, ParseCategory("something_new"))
	require.True(t, CategoryOther.Valid())
	require.False(t, Category("something_new").Valid())
}

func TestAllRecordsReturnsCopy(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.RecordUint64(CategoryEOATransfer, "send", 21000, 21000))

	records := c.AllRecords()
	records[0] = Record{}
	require.Equal(t, CategoryEOATransfer, c.AllRecords()[0].Category())
}
