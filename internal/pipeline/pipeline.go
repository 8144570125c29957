// Package pipeline runs the full collect, analyze, report cycle and holds
// the latest result for the dashboard.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StockScope/internal/analysis"
	"StockScope/internal/collector"
	"StockScope/internal/model"
	"StockScope/internal/recorder"
	"StockScope/internal/report"
)

// ErrNoData is returned when a run collects no price rows at all.
var ErrNoData = errors.New("no data collected")

// TopN is the number of symbols kept in the recommendation tables.
const TopN = 5

// Result is the output of one pipeline run. It is treated as immutable
// once published to a Store.
type Result struct {
	Table          model.Table
	Performance    []model.PerformanceRow
	TopPerformance []model.PerformanceRow
	Regression     []model.RegressionRow
	TopRegression  []model.RegressionRow
	Skipped        []string
	GeneratedAt    time.Time
}

// Runner wires the collector, the recorder, and the report directory into
// a repeatable run.
type Runner struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	OutputDir string
}

func NewRunner(c *collector.Collector, rec recorder.Recorder, outputDir string) *Runner {
	if outputDir == "" {
		outputDir = "."
	}
	return &Runner{Collector: c, Recorder: rec, OutputDir: outputDir}
}

// Run executes one full cycle: fetch prices, write the raw CSV, compute
// performance and regression tables, write the report CSVs, and record the
// run. A recorder failure is logged but does not fail the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	log.Printf("[INFO] pipeline run started: %d symbols, %d day window",
		len(r.Collector.Symbols), r.Collector.WindowDays)

	table, err := r.Collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	if table.Empty() {
		return nil, ErrNoData
	}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	// The raw CSV keeps the fetch order; analysis works on the sorted table.
	if err := report.WritePrices(filepath.Join(r.OutputDir, report.PricesFile), table); err != nil {
		return nil, err
	}
	table.SortBySymbolDate()

	perf := analysis.Summarize(table)
	topPerf := analysis.RankTop(perf, TopN)

	regRows, regSkipped := analysis.FitTable(table)
	topReg := analysis.RankTopRegression(regRows, TopN)

	skipped := skippedSymbols(r.Collector.Symbols, regSkipped, regRows)
	if len(skipped) > 0 {
		log.Printf("[WARN] no regression fit for %d symbols: %s",
			len(skipped), strings.Join(skipped, ", "))
	}

	if err := report.WritePerformance(filepath.Join(r.OutputDir, report.PerformanceFile), perf); err != nil {
		return nil, err
	}
	if err := report.WritePerformance(filepath.Join(r.OutputDir, report.TopPerformanceFile), topPerf); err != nil {
		return nil, err
	}
	if err := report.WriteRegression(filepath.Join(r.OutputDir, report.RegressionFile), regRows); err != nil {
		return nil, err
	}
	if err := report.WriteRegression(filepath.Join(r.OutputDir, report.TopRegressionFile), topReg); err != nil {
		return nil, err
	}

	finished := time.Now()
	snap := &recorder.RunSnapshot{
		StartedAt:   started,
		FinishedAt:  finished,
		Symbols:     r.Collector.Symbols,
		RowsFetched: len(table),
		Skipped:     skipped,
		Performance: perf,
		Regression:  regRows,
	}
	if err := r.Recorder.RecordRun(snap); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	log.Printf("[INFO] pipeline run finished in %s: %d rows, %d symbols analyzed",
		finished.Sub(started).Round(time.Millisecond), len(table), len(perf))

	return &Result{
		Table:          table,
		Performance:    perf,
		TopPerformance: topPerf,
		Regression:     regRows,
		TopRegression:  topReg,
		Skipped:        skipped,
		GeneratedAt:    finished,
	}, nil
}

// skippedSymbols merges the regression stage's skip list with requested
// symbols that produced no rows at all, preserving request order.
func skippedSymbols(requested, regSkipped []string, regRows []model.RegressionRow) []string {
	fitted := make(map[string]bool, len(regRows))
	for _, row := range regRows {
		fitted[row.Symbol] = true
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !fitted[s] && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range requested {
		add(s)
	}
	for _, s := range regSkipped {
		add(s)
	}
	return out
}
