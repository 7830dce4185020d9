package gasmeter

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Bias labels the direction of aggregate estimation error.
type Bias string

const (
	BiasOver    Bias = "Over-estimated"
	BiasUnder   Bias = "Under-estimated"
	BiasPerfect Bias = "Perfect"
)

// CategoryStats are the per-category tallies, recomputed on demand from the
// full record log.
type CategoryStats struct {
	Total    int
	Accurate int
	Over     int
	Under    int
}

// AccuracyRate is the share of accurate estimates in percent. Zero records
// yield 0, not a division error.
func (s *CategoryStats) AccuracyRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Accurate) / float64(s.Total) * 100
}

// GlobalReport aggregates every record of a run. Gas totals are unbounded
// big integers; cumulative gas across a long run does not fit uint64 headroom
// comfortably and must never be rounded through float64.
type GlobalReport struct {
	TotalEstimations     int
	AccurateEstimations  int
	OverEstimations      int
	UnderEstimations     int
	TotalEstimatedGas    *big.Int
	TotalActualGas       *big.Int
	AverageEstimatedGas  *big.Int
	AverageActualGas     *big.Int
	EstimationEfficiency Bias
}

// AccuracyRate is the global accurate share in percent, exact until the
// presentation boundary.
func (r *GlobalReport) AccuracyRate() float64 {
	if r.TotalEstimations == 0 {
		return 0
	}
	return float64(r.AccurateEstimations) / float64(r.TotalEstimations) * 100
}

// AccuracyRateString renders the rate rounded to two decimals with a percent
// suffix, the format persisted in JSON reports.
func (r *GlobalReport) AccuracyRateString() string {
	return fmt.Sprintf("%.2f%%", r.AccuracyRate())
}

type globalReportJSON struct {
	TotalEstimations     int    `json:"totalEstimations"`
	AccurateEstimations  int    `json:"accurateEstimations"`
	OverEstimations      int    `json:"overEstimations"`
	UnderEstimations     int    `json:"underEstimations"`
	AccuracyRate         string `json:"accuracyRate"`
	TotalEstimatedGas    string `json:"totalEstimatedGas"`
	TotalActualGas       string `json:"totalActualGas"`
	AverageEstimatedGas  string `json:"averageEstimatedGas"`
	AverageActualGas     string `json:"averageActualGas"`
	EstimationEfficiency string `json:"estimationEfficiency"`
}

// MarshalJSON encodes gas totals as decimal strings so consumers keep full
// precision beyond 2^53.
func (r *GlobalReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(globalReportJSON{
		TotalEstimations:     r.TotalEstimations,
		AccurateEstimations:  r.AccurateEstimations,
		OverEstimations:      r.OverEstimations,
		UnderEstimations:     r.UnderEstimations,
		AccuracyRate:         r.AccuracyRateString(),
		TotalEstimatedGas:    r.TotalEstimatedGas.String(),
		TotalActualGas:       r.TotalActualGas.String(),
		AverageEstimatedGas:  r.AverageEstimatedGas.String(),
		AverageActualGas:     r.AverageActualGas.String(),
		EstimationEfficiency: string(r.EstimationEfficiency),
	})
}

// Summarize folds a record sequence into per-category stats and one global
// report. It is a pure function of its input: calling it twice on the same
// records yields identical results, and record order does not affect any
// field. Empty input is not an error; it produces zero counts and a Perfect
// bias by convention.
//
// Records are re-classified here even though the collector validated them at
// insertion, so feeding hand-built records with negative values still fails
// with ErrInvalidRecord instead of producing a misleading report.
func Summarize(records []Record, toleranceBps int64) (*GlobalReport, map[Category]*CategoryStats, error) {
	global := &GlobalReport{
		TotalEstimatedGas:   new(big.Int),
		TotalActualGas:      new(big.Int),
		AverageEstimatedGas: new(big.Int),
		AverageActualGas:    new(big.Int),
	}
	perCategory := make(map[Category]*CategoryStats)

	for _, rec := range records {
		verdict, err := ClassifyRecord(rec, toleranceBps)
		if err != nil {
			return nil, nil, err
		}

		stats := perCategory[rec.category]
		if stats == nil {
			stats = &CategoryStats{}
			perCategory[rec.category] = stats
		}

		stats.Total++
		global.TotalEstimations++
		if verdict.Accurate {
			stats.Accurate++
			global.AccurateEstimations++
		}
		if verdict.OverEstimated {
			stats.Over++
			global.OverEstimations++
		} else {
			stats.Under++
			global.UnderEstimations++
		}

		global.TotalEstimatedGas.Add(global.TotalEstimatedGas, rec.estimated)
		global.TotalActualGas.Add(global.TotalActualGas, rec.actual)
	}

	if global.TotalEstimations > 0 {
		n := big.NewInt(int64(global.TotalEstimations))
		// Floor division: fractional gas is not meaningful.
		global.AverageEstimatedGas.Quo(global.TotalEstimatedGas, n)
		global.AverageActualGas.Quo(global.TotalActualGas, n)
	}

	switch global.TotalEstimatedGas.Cmp(global.TotalActualGas) {
	case 1:
		global.EstimationEfficiency = BiasOver
	case -1:
		global.EstimationEfficiency = BiasUnder
	default:
		global.EstimationEfficiency = BiasPerfect
	}

	return global, perCategory, nil
}

// Summarize reports over the collector's current snapshot with its
// configured tolerance.
func (c *Collector) Summarize() (*GlobalReport, map[Category]*CategoryStats, error) {
	return Summarize(c.records, c.toleranceBps)
}
