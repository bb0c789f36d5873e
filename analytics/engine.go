package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Engine runs the analytics computations. It holds no state beyond its
// collaborators, so a single instance serves concurrent callers without
// coordination.
type Engine struct {
	ledger Ledger
	now    func() time.Time
}

// NewEngine creates a new analytics engine over the given ledger reader.
func NewEngine(l Ledger) *Engine {
	return &Engine{
		ledger: l,
		now:    time.Now,
	}
}

// round2 rounds to two decimal places for display values.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// money converts a decimal currency sum to its rounded display value.
// Sums are accumulated in decimal form and only leave that representation
// here, so large transaction counts cannot drift.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ratePct computes part/total*100 rounded to two decimals, or nil when the
// denominator is zero. Never NaN, never infinite.
func ratePct(part, total float64) *float64 {
	if total == 0 {
		return nil
	}
	v := round2(part / total * 100)
	return &v
}

// growthPct computes the period-over-period growth percentage. The previous
// value must be strictly positive: a prior period with zero or negative
// activity yields nil rather than a fictitious percentage.
func growthPct(curr, prev float64) *float64 {
	if prev <= 0 {
		return nil
	}
	v := round2((curr - prev) / prev * 100)
	return &v
}

// deltaVsPct computes (value-baseline)/baseline*100, nil-guarded on a zero
// baseline.
func deltaVsPct(value, baseline float64) *float64 {
	if baseline == 0 {
		return nil
	}
	v := round2((value - baseline) / baseline * 100)
	return &v
}

// medianOf computes the median of a sorted slice using linear interpolation
// between closest ranks (quantile type 7).
func medianOf(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	h := float64(n-1) * 0.5
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if frac == 0 || lo+1 >= n {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// meanOf computes the arithmetic mean, 0 for an empty slice.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev computes the sample standard deviation (n-1 denominator).
// A single observation has stddev 0, never an undefined value.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := meanOf(values)
	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	return math.Sqrt(varianceSum / float64(n-1))
}
