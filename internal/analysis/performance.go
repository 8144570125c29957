package analysis

import (
	"math"
	"sort"

	"StockScope/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Summarize computes the per-symbol percent-change statistics for every
// symbol in the table. NaN values are skipped before aggregation, so a
// record with missing adjusted prices reduces the sample rather than
// poisoning it. An empty table yields an empty slice.
func Summarize(table model.Table) []model.PerformanceRow {
	symbols := table.Symbols()
	rows := make([]model.PerformanceRow, 0, len(symbols))
	for _, symbol := range symbols {
		records := table.BySymbol(symbol)
		changes := make([]float64, len(records))
		dividends := make([]float64, len(records))
		for i, r := range records {
			changes[i] = r.PercentChange()
			dividends[i] = r.Dividend
		}
		avg := nanMean(changes)
		vol := nanStd(changes)
		rows = append(rows, model.PerformanceRow{
			Symbol:           symbol,
			AvgPercentChange: avg,
			Volatility:       vol,
			LastClosingPrice: lastClose(records),
			AvgDividend:      nanMean(dividends),
			Score:            avg / vol,
		})
	}
	return rows
}

// RankTop returns the n highest-scoring rows in descending score order.
// Non-finite NaN scores sort last; ties keep their input order. The input
// slice is not mutated.
func RankTop(rows []model.PerformanceRow, n int) []model.PerformanceRow {
	ranked := make([]model.PerformanceRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreDescending(ranked[i].Score, ranked[j].Score)
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// scoreDescending orders two scores for a descending sort with NaN last.
func scoreDescending(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

func lastClose(records model.Table) float64 {
	for i := len(records) - 1; i >= 0; i-- {
		if !math.IsNaN(records[i].AdjClose) {
			return records[i].AdjClose
		}
	}
	return math.NaN()
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// nanMean is the mean of the non-NaN values, NaN when none remain.
func nanMean(values []float64) float64 {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	return stat.Mean(clean, nil)
}

// nanStd is the sample standard deviation of the non-NaN values, NaN when
// fewer than two remain.
func nanStd(values []float64) float64 {
	clean := dropNaN(values)
	if len(clean) < 2 {
		return math.NaN()
	}
	return stat.StdDev(clean, nil)
}
