package gasmeter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyToleranceBand(t *testing.T) {
	testCases := []struct {
		name        string
		estimated   uint64
		actual      uint64
		expAccurate bool
		expOver     bool
	}{
		{"exact match", 21000, 21000, true, false},
		{"just inside 5% over", 22050, 21000, true, true},
		{"just outside 5% over", 22051, 21000, false, true},
		{"just inside 5% under", 19950, 21000, true, false},
		{"just outside 5% under", 19949, 21000, false, false},
		{"deployment within band", 500000, 480000, true, true},
		{"call far under", 100000, 130000, false, false},
		{"zero estimate nonzero actual", 0, 21000, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Classify(new(big.Int).SetUint64(tc.estimated), new(big.Int).SetUint64(tc.actual))
			require.NoError(t, err)
			require.Equal(t, tc.expAccurate, v.Accurate)
			require.Equal(t, tc.expOver, v.OverEstimated)
			require.Equal(t, !tc.expOver, v.UnderEstimated)
		})
	}
}

// The tolerance check must follow |e - a| * 100 <= a * 5 exactly for any
// non-negative pair with a > 0.
func TestClassifyMatchesIntegerScaledCheck(t *testing.T) {
	pairs := [][2]int64{
		{21000, 21000}, {22050, 21000}, {22051, 21000},
		{1, 20}, {2, 20}, {19, 20}, {21, 20}, {105, 100}, {106, 100},
		{0, 1}, {1, 1}, {95, 100}, {94, 100},
	}
	for _, p := range pairs {
		e, a := big.NewInt(p[0]), big.NewInt(p[1])
		v, err := Classify(e, a)
		require.NoError(t, err)

		diff := new(big.Int).Sub(e, a)
		diff.Abs(diff)
		lhs := new(big.Int).Mul(diff, big.NewInt(100))
		rhs := new(big.Int).Mul(a, big.NewInt(5))
		require.Equal(t, lhs.Cmp(rhs) <= 0, v.Accurate, "pair (%d, %d)", p[0], p[1])
	}
}

func TestClassifyZeroActual(t *testing.T) {
	v, err := Classify(big.NewInt(0), big.NewInt(0))
	require.NoError(t, err)
	require.True(t, v.Accurate)
	require.False(t, v.OverEstimated)
	require.True(t, v.UnderEstimated)
	require.Zero(t, v.DifferencePercent(big.NewInt(0)))

	v, err = Classify(big.NewInt(5000), big.NewInt(0))
	require.NoError(t, err)
	require.False(t, v.Accurate)
	require.True(t, v.OverEstimated)
}

// Equality is classified as not over-estimated, hence under-estimated.
func TestClassifyEqualityConvention(t *testing.T) {
	v, err := Classify(big.NewInt(21000), big.NewInt(21000))
	require.NoError(t, err)
	require.True(t, v.Accurate)
	require.False(t, v.OverEstimated)
	require.True(t, v.UnderEstimated)
	require.Zero(t, v.AbsoluteDifference.Sign())
}

// Gas values beyond 2^53 must classify exactly; a float64 comparison would
// round both sides to the same value here.
func TestClassifyLargeValues(t *testing.T) {
	actual, ok := new(big.Int).SetString("36028797018963968", 10) // 2^55
	require.True(t, ok)

	// 5% of 2^55, exactly on the band edge.
	allowed := new(big.Int).Div(new(big.Int).Mul(actual, big.NewInt(5)), big.NewInt(100))
	inside := new(big.Int).Add(actual, allowed)
	outside := new(big.Int).Add(inside, big.NewInt(1))

	v, err := Classify(inside, actual)
	require.NoError(t, err)
	require.True(t, v.Accurate)

	v, err = Classify(outside, actual)
	require.NoError(t, err)
	require.False(t, v.Accurate)
}

func TestClassifyRejectsInvalidInput(t *testing.T) {
	_, err := Classify(big.NewInt(-1), big.NewInt(21000))
	require.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Classify(big.NewInt(21000), big.NewInt(-1))
	require.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Classify(nil, big.NewInt(21000))
	require.ErrorIs(t, err, ErrInvalidRecord)

	_, err = ClassifyWithTolerance(big.NewInt(1), big.NewInt(1), -10)
	require.ErrorIs(t, err, ErrInvalidRecord)
}

func TestDifferencePercent(t *testing.T) {
	v, err := Classify(big.NewInt(500000), big.NewInt(480000))
	require.NoError(t, err)
	require.Equal(t, int64(20000), v.AbsoluteDifference.Int64())
	require.InDelta(t, 4.1667, v.DifferencePercent(big.NewInt(480000)), 0.001)

	v, err = Classify(big.NewInt(100000), big.NewInt(130000))
	require.NoError(t, err)
	require.Equal(t, int64(30000), v.AbsoluteDifference.Int64())
	require.InDelta(t, 23.08, v.DifferencePercent(big.NewInt(130000)), 0.01)
	require.False(t, v.Accurate)
	require.True(t, v.UnderEstimated)
}

func TestClassifyCustomTolerance(t *testing.T) {
	// 10% band accepts what the default 5% rejects.
	v, err := ClassifyWithTolerance(big.NewInt(109), big.NewInt(100), 1000)
	require.NoError(t, err)
	require.True(t, v.Accurate)

	v, err = Classify(big.NewInt(109), big.NewInt(100))
	require.NoError(t, err)
	require.False(t, v.Accurate)
}
