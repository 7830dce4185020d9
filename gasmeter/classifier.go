package gasmeter

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
)

// DefaultToleranceBps is the accuracy tolerance in basis points. An estimate
// within 5% of the actual gas used counts as accurate.
const DefaultToleranceBps = 500

const bpsDenominator = 10_000

// Verdict is the classification of a single (estimated, actual) pair.
//
// UnderEstimated is the strict negation of OverEstimated, so an exact match
// is reported as not over-estimated and therefore under-estimated. The
// asymmetry is deliberate: "over" requires estimated > actual.
type Verdict struct {
	Accurate           bool
	OverEstimated      bool
	UnderEstimated     bool
	AbsoluteDifference *big.Int
}

// Classify maps one record's gas pair to a Verdict using the default 5%
// tolerance.
func Classify(estimated, actual *big.Int) (Verdict, error) {
	return ClassifyWithTolerance(estimated, actual, DefaultToleranceBps)
}

// ClassifyWithTolerance works like Classify with an explicit tolerance in
// basis points. The tolerance check multiplies before comparing so it stays
// exact for gas values beyond the float64 integer range:
//
//	|estimated - actual| * 10000 <= actual * toleranceBps
//
// When actual is zero the estimate is accurate only if it is also zero; no
// division ever happens here.
func ClassifyWithTolerance(estimated, actual *big.Int, toleranceBps int64) (Verdict, error) {
	if estimated == nil || actual == nil {
		return Verdict{}, errorsmod.Wrap(ErrInvalidRecord, "estimated and actual gas must be set")
	}
	if estimated.Sign() < 0 || actual.Sign() < 0 {
		return Verdict{}, errorsmod.Wrapf(ErrInvalidRecord,
			"gas values must be non-negative, got estimated=%s actual=%s", estimated, actual)
	}
	if toleranceBps < 0 {
		return Verdict{}, errorsmod.Wrapf(ErrInvalidRecord, "negative tolerance %d bps", toleranceBps)
	}

	diff := new(big.Int).Sub(estimated, actual)
	diff.Abs(diff)

	var accurate bool
	if actual.Sign() == 0 {
		accurate = estimated.Sign() == 0
	} else {
		scaledDiff := new(big.Int).Mul(diff, big.NewInt(bpsDenominator))
		allowed := new(big.Int).Mul(actual, big.NewInt(toleranceBps))
		accurate = scaledDiff.Cmp(allowed) <= 0
	}

	over := estimated.Cmp(actual) > 0

	return Verdict{
		Accurate:           accurate,
		OverEstimated:      over,
		UnderEstimated:     !over,
		AbsoluteDifference: diff,
	}, nil
}

// ClassifyRecord classifies an already-validated record.
func ClassifyRecord(r Record, toleranceBps int64) (Verdict, error) {
	return ClassifyWithTolerance(r.estimated, r.actual, toleranceBps)
}

// DifferencePercent converts the verdict's absolute difference to a
// percentage of the actual gas used. Presentation only: callers must never
// branch on this value, the exact integer check in Classify already decided
// accuracy. Returns 0 when actual is zero.
func (v Verdict) DifferencePercent(actual *big.Int) float64 {
	if actual == nil || actual.Sign() == 0 {
		return 0
	}
	diff := new(big.Float).SetInt(v.AbsoluteDifference)
	act := new(big.Float).SetInt(actual)
	pct, _ := new(big.Float).Quo(diff, act).Float64()
	return pct * 100
}
