package model

// Variable names for the two coefficient rows of a per-symbol regression.
const (
	RegressionIntercept = "const"
	RegressionSlope     = "adj_open"
)

// PerformanceRow holds the per-symbol percent-change statistics. Score is
// AvgPercentChange/Volatility and may be non-finite (zero or undefined
// volatility); ranking must tolerate that.
type PerformanceRow struct {
	Symbol           string
	AvgPercentChange float64
	Volatility       float64
	LastClosingPrice float64
	AvgDividend      float64
	Score            float64
}

// RegressionRow holds one coefficient of a per-symbol OLS fit of adjusted
// close on adjusted open. Score carries the fit's adjusted R² and is repeated
// on both coefficient rows.
type RegressionRow struct {
	Symbol   string
	Variable string
	Coef     float64
	StdErr   float64
	TStat    float64
	PValue   float64
	CILower  float64
	CIUpper  float64
	Score    float64
}
