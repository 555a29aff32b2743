// Package stats turns repeated trial results into an empirical distribution.
//
// A Distribution is a histogram of integer samples: bin i holds the samples
// in [min+i*interval, min+(i+1)*interval). Samples below min are clamped into
// the first bin; samples above max land in a trailing overflow bin that
// counts toward the total but not toward any in-range query.
package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptySample is returned when a distribution is built from no samples.
var ErrEmptySample = errors.New("empty sample")

// Distribution is an immutable histogram of trial results.
type Distribution struct {
	min      int
	max      int
	interval int
	counts   []int // len = bins + 1; the last entry is the overflow bin
	total    int
}

// New builds a distribution whose range is detected from the samples.
func New(samples []int, interval int) (*Distribution, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySample
	}
	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return NewWithRange(samples, lo, hi, interval)
}

// NewWithRange builds a distribution over an explicit [min, max] range.
func NewWithRange(samples []int, min, max, interval int) (*Distribution, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySample
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", interval)
	}
	if max < min {
		return nil, fmt.Errorf("max %d below min %d", max, min)
	}
	d := &Distribution{min: min, max: max, interval: interval}
	bins := (max-min)/interval + 1
	d.counts = make([]int, bins+1)
	for _, v := range samples {
		d.counts[d.Position(v)]++
	}
	d.total = len(samples)
	return d, nil
}

// Position returns the bin index of a value. Values below min clamp to bin 0
// and values above max map to the overflow bin.
func (d *Distribution) Position(v int) int {
	if v < d.min {
		return 0
	}
	if v > d.max {
		return len(d.counts) - 1
	}
	return (v - d.min) / d.interval
}

// Probability returns the fraction of samples in [lo, hi). A reversed range
// is empty and yields 0.
func (d *Distribution) Probability(lo, hi int) float64 {
	favorable := 0
	for i := d.Position(lo); i < d.Position(hi); i++ {
		favorable += d.counts[i]
	}
	return float64(favorable) / float64(d.total)
}

// ProbabilityUpTo returns the fraction of samples in [min, hi).
func (d *Distribution) ProbabilityUpTo(hi int) float64 {
	return d.Probability(d.min, hi)
}

// ProbabilityFrom returns the fraction of samples in [lo, max).
func (d *Distribution) ProbabilityFrom(lo int) float64 {
	return d.Probability(lo, d.max)
}

// binValue is the value a bin stands for in the weighted sums.
func (d *Distribution) binValue(i int) int {
	return d.min + d.interval*i
}

// values and weights return the in-range bins as float slices.
func (d *Distribution) values() (x, w []float64) {
	bins := len(d.counts) - 1
	x = make([]float64, bins)
	w = make([]float64, bins)
	for i := 0; i < bins; i++ {
		x[i] = float64(d.binValue(i))
		w[i] = float64(d.counts[i])
	}
	return x, w
}

// Mean is Σ value·count / total over the in-range bins.
func (d *Distribution) Mean() float64 {
	x, w := d.values()
	return floats.Dot(x, w) / float64(d.total)
}

// meanSquare is Σ value²·count / total over the in-range bins.
func (d *Distribution) meanSquare() float64 {
	x, w := d.values()
	floats.Mul(x, x)
	return floats.Dot(x, w) / float64(d.total)
}

// Stdev is sqrt(E[x²] − E[x]²) from the binned values.
func (d *Distribution) Stdev() float64 {
	mean := d.Mean()
	return math.Sqrt(math.Max(0, d.meanSquare()-mean*mean))
}

// Percentile returns the empirical p-quantile (0 ≤ p ≤ 1) of the in-range bins.
func (d *Distribution) Percentile(p float64) float64 {
	if p < 0 || p > 1 {
		return math.NaN()
	}
	x, w := d.values()
	if floats.Sum(w) == 0 {
		return math.NaN()
	}
	return stat.Quantile(p, stat.Empirical, x, w)
}

// ErrorMargin is the half-width of the confidence band around a probability
// estimated from this distribution's sample size.
func (d *Distribution) ErrorMargin(p float64) float64 {
	return ErrorMargin(d.total, p)
}

// ErrorMargin returns 2.6·sqrt(p(1−p)/n), roughly a 99% band.
func ErrorMargin(n int, p float64) float64 {
	if n <= 0 {
		return math.NaN()
	}
	return 2.6 * math.Sqrt(p*(1-p)/float64(n))
}

func (d *Distribution) Min() int      { return d.min }
func (d *Distribution) Max() int      { return d.max }
func (d *Distribution) Interval() int { return d.interval }
func (d *Distribution) Total() int    { return d.total }

// Count returns the number of samples in the bin holding v.
func (d *Distribution) Count(v int) int {
	return d.counts[d.Position(v)]
}

// WriteCSV writes one "binValue,count" row per in-range bin, from min to max.
func (d *Distribution) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for i := 0; i < len(d.counts)-1; i++ {
		row := []string{strconv.Itoa(d.binValue(i)), strconv.Itoa(d.counts[i])}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing bin %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
