package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"StockScope/internal/model"
)

// Fixed output file names, overwritten on every run.
const (
	PricesFile         = "last_60_days_prices.csv"
	PerformanceFile    = "stock_performance.csv"
	TopPerformanceFile = "top_5_recommendations.csv"
	RegressionFile     = "stock_regression_metrics.csv"
	TopRegressionFile  = "top_5_stocks_regression.csv"
)

// WritePrices writes the raw combined price dataset.
func WritePrices(path string, table model.Table) error {
	rows := make([][]string, 0, len(table)+1)
	rows = append(rows, []string{"symbol", "date", "open", "close", "adj_open", "adj_close", "volume", "dividend"})
	for _, r := range table {
		rows = append(rows, []string{
			r.Symbol,
			r.Date.Format("2006-01-02"),
			formatFloat(r.Open),
			formatFloat(r.Close),
			formatFloat(r.AdjOpen),
			formatFloat(r.AdjClose),
			formatFloat(r.Volume),
			formatFloat(r.Dividend),
		})
	}
	return writeCSV(path, rows)
}

// WritePerformance writes a per-symbol performance table.
func WritePerformance(path string, perf []model.PerformanceRow) error {
	rows := make([][]string, 0, len(perf)+1)
	rows = append(rows, []string{"symbol", "avg_percent_change", "volatility", "last_closing_price", "avg_dividend", "score"})
	for _, r := range perf {
		rows = append(rows, []string{
			r.Symbol,
			formatFloat(r.AvgPercentChange),
			formatFloat(r.Volatility),
			formatFloat(r.LastClosingPrice),
			formatFloat(r.AvgDividend),
			formatFloat(r.Score),
		})
	}
	return writeCSV(path, rows)
}

// WriteRegression writes a regression metrics table.
func WriteRegression(path string, reg []model.RegressionRow) error {
	rows := make([][]string, 0, len(reg)+1)
	rows = append(rows, []string{"symbol", "variable", "coef", "std_err", "t_stat", "p_value", "ci_lower", "ci_upper", "score"})
	for _, r := range reg {
		rows = append(rows, []string{
			r.Symbol,
			r.Variable,
			formatFloat(r.Coef),
			formatFloat(r.StdErr),
			formatFloat(r.TStat),
			formatFloat(r.PValue),
			formatFloat(r.CILower),
			formatFloat(r.CIUpper),
			formatFloat(r.Score),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// formatFloat renders a float for CSV: NaN becomes an empty cell, everything
// else keeps full round-trip precision.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
