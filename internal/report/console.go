package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"StockScope/internal/model"

	"github.com/fatih/color"
)

// PrintTopPerformance renders the top-5 recommendations as an aligned table.
func PrintTopPerformance(w io.Writer, rows []model.PerformanceRow) {
	color.New(color.FgGreen, color.Bold).Fprintln(w, "\nTop 5 Recommendations")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tAVG CHANGE%\tVOLATILITY\tLAST CLOSE\tAVG DIVIDEND\tSCORE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.2f\t%.4f\t%.4f\n",
			r.Symbol, r.AvgPercentChange, r.Volatility, r.LastClosingPrice, r.AvgDividend, r.Score)
	}
	tw.Flush()
}

// PrintTopRegression renders the top-5 stocks by regression fit quality.
func PrintTopRegression(w io.Writer, rows []model.RegressionRow) {
	color.New(color.FgGreen, color.Bold).Fprintln(w, "\nTop 5 Stocks by Regression")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tVARIABLE\tCOEF\tSTD ERR\tT STAT\tP VALUE\tADJ R2")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.Symbol, r.Variable, r.Coef, r.StdErr, r.TStat, r.PValue, r.Score)
	}
	tw.Flush()
}
