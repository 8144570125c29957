package analysis

import (
	"math"
	"sort"

	"StockScope/internal/model"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FitTable fits one OLS regression of adjusted close on adjusted open (with
// intercept) per symbol, after dropping records with any missing field.
// Symbols left with fewer than two clean records cannot be fitted; they are
// excluded from the output and reported in skipped instead of producing
// degenerate statistics.
func FitTable(table model.Table) (rows []model.RegressionRow, skipped []string) {
	clean := table.DropMissing()
	for _, symbol := range table.Symbols() {
		records := clean.BySymbol(symbol)
		if len(records) < 2 {
			skipped = append(skipped, symbol)
			continue
		}
		rows = append(rows, fitSymbol(symbol, records)...)
	}
	return rows, skipped
}

// fitSymbol returns the intercept and slope rows for one symbol. With exactly
// two records the residual degrees of freedom are zero and the p-values,
// confidence bounds, and adjusted R² come out NaN rather than being faked.
func fitSymbol(symbol string, records model.Table) []model.RegressionRow {
	x := make([]float64, len(records))
	y := make([]float64, len(records))
	for i, r := range records {
		x[i] = r.AdjOpen
		y[i] = r.AdjClose
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)

	n := float64(len(x))
	df := n - 2

	var ssr float64
	for i := range x {
		resid := y[i] - (alpha + beta*x[i])
		ssr += resid * resid
	}
	sigma2 := ssr / df

	meanX := stat.Mean(x, nil)
	var sxx float64
	for _, v := range x {
		d := v - meanX
		sxx += d * d
	}

	seAlpha := math.Sqrt(sigma2 * (1/n + meanX*meanX/sxx))
	seBeta := math.Sqrt(sigma2 / sxx)
	tAlpha := alpha / seAlpha
	tBeta := beta / seBeta
	quant := tQuantile975(df)
	adjR2 := 1 - (1-r2)*(n-1)/df

	return []model.RegressionRow{
		{
			Symbol:   symbol,
			Variable: model.RegressionIntercept,
			Coef:     alpha,
			StdErr:   seAlpha,
			TStat:    tAlpha,
			PValue:   tPValue(tAlpha, df),
			CILower:  alpha - quant*seAlpha,
			CIUpper:  alpha + quant*seAlpha,
			Score:    adjR2,
		},
		{
			Symbol:   symbol,
			Variable: model.RegressionSlope,
			Coef:     beta,
			StdErr:   seBeta,
			TStat:    tBeta,
			PValue:   tPValue(tBeta, df),
			CILower:  beta - quant*seBeta,
			CIUpper:  beta + quant*seBeta,
			Score:    adjR2,
		},
	}
}

// tPValue is the two-sided p-value of a t-statistic under Student's t with
// df degrees of freedom.
func tPValue(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

// tQuantile975 is the 97.5% quantile of Student's t, used for the bounds of
// the 95% confidence interval.
func tQuantile975(df float64) float64 {
	if df <= 0 {
		return math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return dist.Quantile(0.975)
}

// RankTopRegression keeps the intercept rows, sorts them by the fit's
// adjusted R² descending with NaN last, and returns the first n.
func RankTopRegression(rows []model.RegressionRow, n int) []model.RegressionRow {
	var intercepts []model.RegressionRow
	for _, r := range rows {
		if r.Variable == model.RegressionIntercept {
			intercepts = append(intercepts, r)
		}
	}
	sort.SliceStable(intercepts, func(i, j int) bool {
		return scoreDescending(intercepts[i].Score, intercepts[j].Score)
	})
	if n < len(intercepts) {
		intercepts = intercepts[:n]
	}
	return intercepts
}
