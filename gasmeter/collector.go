package gasmeter

import (
	"math/big"
)

// Collector accumulates gas estimation records over one harness run. It is
// an explicit accumulator: construct one per run and hand it to every step
// that measures gas. The record log is append-only and owned by a single
// goroutine, matching the sequential execution of the suites.
type Collector struct {
	records      []Record
	toleranceBps int64
}

func NewCollector() *Collector {
	return &Collector{toleranceBps: DefaultToleranceBps}
}

// NewCollectorWithTolerance overrides the accuracy tolerance, in basis
// points. The default of 500 (5%) is what reports are calibrated against.
func NewCollectorWithTolerance(toleranceBps int64) *Collector {
	if toleranceBps <= 0 {
		toleranceBps = DefaultToleranceBps
	}
	return &Collector{toleranceBps: toleranceBps}
}

// Record appends one measurement. Repeated identical calls produce distinct
// records: the same operation is often exercised several times per run and
// every occurrence counts.
func (c *Collector) Record(category Category, operation string, estimated, actual *big.Int) error {
	rec, err := NewRecord(category, operation, estimated, actual)
	if err != nil {
		return err
	}
	c.records = append(c.records, rec)
	return nil
}

// RecordUint64 is a convenience for the common case where both values come
// straight from an EstimateGas result and a receipt's GasUsed.
func (c *Collector) RecordUint64(category Category, operation string, estimated, actual uint64) error {
	return c.Record(category, operation,
		new(big.Int).SetUint64(estimated), new(big.Int).SetUint64(actual))
}

// AllRecords returns the records in insertion order. The returned slice is a
// copy; the records themselves are immutable.
func (c *Collector) AllRecords() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Collector) Len() int { return len(c.records) }

// ToleranceBps reports the tolerance this collector classifies with.
func (c *Collector) ToleranceBps() int64 { return c.toleranceBps }
