package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Summary holds describe()-style statistics over one numeric series: the
// count of non-NaN values and their location and spread.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes summary statistics over the non-NaN values. Empty or
// all-NaN input yields Count 0 and NaN statistics.
func Describe(values []float64) Summary {
	clean := dropNaN(values)
	s := Summary{
		Count:  len(clean),
		Mean:   nanMean(values),
		Std:    nanStd(values),
		Min:    math.NaN(),
		Q1:     math.NaN(),
		Median: math.NaN(),
		Q3:     math.NaN(),
		Max:    math.NaN(),
	}
	if len(clean) == 0 {
		return s
	}
	s.Min = floats.Min(clean)
	s.Max = floats.Max(clean)

	sorted := make([]float64, len(clean))
	copy(sorted, clean)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between order statistics, the convention
// behind the usual describe() quartiles.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// HistogramBin is one bucket of an equal-width histogram.
type HistogramBin struct {
	Lower float64
	Upper float64
	Count int
}

// HistogramBins buckets the non-NaN values into nbins equal-width bins over
// [min, max], with the maximum landing in the last bin. A degenerate range
// collapses to a single bin; empty input yields none.
func HistogramBins(values []float64, nbins int) []HistogramBin {
	clean := dropNaN(values)
	if len(clean) == 0 || nbins <= 0 {
		return nil
	}
	min, max := floats.Min(clean), floats.Max(clean)
	if min == max {
		return []HistogramBin{{Lower: min, Upper: max, Count: len(clean)}}
	}

	width := (max - min) / float64(nbins)
	bins := make([]HistogramBin, nbins)
	for i := range bins {
		bins[i].Lower = min + float64(i)*width
		bins[i].Upper = min + float64(i+1)*width
	}
	bins[nbins-1].Upper = max

	for _, v := range clean {
		idx := int((v - min) / width)
		if idx >= nbins {
			idx = nbins - 1
		}
		bins[idx].Count++
	}
	return bins
}
