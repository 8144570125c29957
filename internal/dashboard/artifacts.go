package dashboard

import (
	"fmt"
	"math"

	"StockScope/internal/analysis"
	"StockScope/internal/model"
)

// Artifacts is the chart-ready view of one symbol's price history. All float
// values are pointers so that missing observations serialize as JSON null
// instead of breaking the encoder with NaN.
type Artifacts struct {
	Symbol    string    `json:"symbol"`
	Line      Series    `json:"line"`
	Volume    Series    `json:"volume"`
	Histogram Histogram `json:"histogram"`
	Summary   Summary   `json:"summary"`
}

type Series struct {
	Title  string     `json:"title"`
	Dates  []string   `json:"dates"`
	Values []*float64 `json:"values"`
}

type Histogram struct {
	Title string `json:"title"`
	Bins  []Bin  `json:"bins"`
}

type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type Summary struct {
	Title string    `json:"title"`
	Rows  []StatRow `json:"rows"`
}

type StatRow struct {
	Statistic string   `json:"statistic"`
	Value     *float64 `json:"value"`
}

const histogramBins = 20

// BuildArtifacts assembles the dashboard artifacts for one symbol from the
// price table. It reports false when the table has no rows for the symbol.
func BuildArtifacts(table model.Table, symbol string) (*Artifacts, bool) {
	records := table.BySymbol(symbol)
	if len(records) == 0 {
		return nil, false
	}

	dates := make([]string, len(records))
	closes := make([]*float64, len(records))
	volumes := make([]*float64, len(records))
	raw := make([]float64, len(records))
	for i, r := range records {
		dates[i] = r.Date.Format("2006-01-02")
		closes[i] = floatPtr(r.AdjClose)
		volumes[i] = floatPtr(r.Volume)
		raw[i] = r.AdjClose
	}

	desc := analysis.Describe(raw)
	count := float64(desc.Count)

	return &Artifacts{
		Symbol: symbol,
		Line: Series{
			Title:  fmt.Sprintf("Adjusted Close Prices for %s", symbol),
			Dates:  dates,
			Values: closes,
		},
		Volume: Series{
			Title:  fmt.Sprintf("Trading Volume for %s", symbol),
			Dates:  dates,
			Values: volumes,
		},
		Histogram: Histogram{
			Title: fmt.Sprintf("Distribution of Adjusted Close Prices for %s", symbol),
			Bins:  toBins(analysis.HistogramBins(raw, histogramBins)),
		},
		Summary: Summary{
			Title: fmt.Sprintf("Descriptive Statistics for %s", symbol),
			Rows: []StatRow{
				{Statistic: "count", Value: &count},
				{Statistic: "mean", Value: floatPtr(desc.Mean)},
				{Statistic: "std", Value: floatPtr(desc.Std)},
				{Statistic: "min", Value: floatPtr(desc.Min)},
				{Statistic: "25%", Value: floatPtr(desc.Q1)},
				{Statistic: "50%", Value: floatPtr(desc.Median)},
				{Statistic: "75%", Value: floatPtr(desc.Q3)},
				{Statistic: "max", Value: floatPtr(desc.Max)},
			},
		},
	}, true
}

func toBins(bins []analysis.HistogramBin) []Bin {
	out := make([]Bin, len(bins))
	for i, b := range bins {
		out[i] = Bin{Lower: b.Lower, Upper: b.Upper, Count: b.Count}
	}
	return out
}

// floatPtr returns nil for values JSON cannot represent.
func floatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
