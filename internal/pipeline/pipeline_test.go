package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockScope/internal/collector"
	"StockScope/internal/model"
	"StockScope/internal/recorder"
)

func prow(symbol string, day int, open, close float64) model.PriceRecord {
	return model.PriceRecord{
		Symbol:   symbol,
		Date:     time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		Open:     open,
		Close:    close,
		AdjOpen:  open,
		AdjClose: close,
		Volume:   1000,
		Dividend: 0,
	}
}

type captureRecorder struct {
	snap *recorder.RunSnapshot
}

func (c *captureRecorder) RecordRun(snap *recorder.RunSnapshot) error {
	c.snap = snap
	return nil
}

func (c *captureRecorder) Close() error { return nil }

type failRecorder struct{}

func (failRecorder) RecordRun(*recorder.RunSnapshot) error {
	return errors.New("disk full")
}

func (failRecorder) Close() error { return nil }

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestRun_EndToEnd(t *testing.T) {
	mock := &collector.MockFetcher{
		Data: map[string][]model.PriceRecord{
			// ZZZ arrives out of date order on purpose.
			"ZZZ": {prow("ZZZ", 2, 50, 50.5), prow("ZZZ", 1, 49, 49.4), prow("ZZZ", 3, 50.5, 51.2)},
			"AAA": {prow("AAA", 1, 100, 101), prow("AAA", 2, 101, 103), prow("AAA", 3, 103, 104)},
		},
	}
	dir := t.TempDir()
	rec := &captureRecorder{}
	runner := NewRunner(collector.NewCollector(mock, []string{"ZZZ", "AAA"}, 60, 0), rec, dir)

	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{
		"last_60_days_prices.csv",
		"stock_performance.csv",
		"top_5_recommendations.csv",
		"stock_regression_metrics.csv",
		"top_5_stocks_regression.csv",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected report %s: %v", name, err)
		}
	}

	if len(res.Performance) != 2 {
		t.Fatalf("performance rows = %d, want 2", len(res.Performance))
	}
	if len(res.Regression) != 4 {
		t.Errorf("regression rows = %d, want 4 (two per symbol)", len(res.Regression))
	}
	if len(res.TopPerformance) != 2 || len(res.TopRegression) != 2 {
		t.Errorf("top tables = %d/%d rows, want 2/2",
			len(res.TopPerformance), len(res.TopRegression))
	}
	if len(res.Skipped) != 0 {
		t.Errorf("skipped = %v, want none", res.Skipped)
	}
	if res.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	// Published table is in canonical (symbol, date) order.
	if res.Table[0].Symbol != "AAA" || !res.Table[0].Date.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("table[0] = %s %s, want AAA 2026-03-01", res.Table[0].Symbol, res.Table[0].Date)
	}

	if rec.snap == nil {
		t.Fatal("recorder was not called")
	}
	if rec.snap.RowsFetched != 6 {
		t.Errorf("snapshot rows = %d, want 6", rec.snap.RowsFetched)
	}
	if len(rec.snap.Performance) != 2 || len(rec.snap.Regression) != 4 {
		t.Errorf("snapshot tables = %d/%d rows, want 2/4",
			len(rec.snap.Performance), len(rec.snap.Regression))
	}
}

func TestRun_RawCSVKeepsFetchOrder(t *testing.T) {
	mock := &collector.MockFetcher{
		Data: map[string][]model.PriceRecord{
			"ZZZ": {prow("ZZZ", 2, 50, 50.5), prow("ZZZ", 1, 49, 49.4)},
			"AAA": {prow("AAA", 1, 100, 101), prow("AAA", 2, 101, 103)},
		},
	}
	dir := t.TempDir()
	runner := NewRunner(collector.NewCollector(mock, []string{"ZZZ", "AAA"}, 60, 0), recorder.NewNoopRecorder(), dir)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows := readCSVFile(t, filepath.Join(dir, "last_60_days_prices.csv"))
	if len(rows) != 5 {
		t.Fatalf("prices csv rows = %d, want header + 4", len(rows))
	}
	// ZZZ was requested first and its rows stay in fetch order.
	if rows[1][0] != "ZZZ" || rows[1][1] != "2026-03-02" {
		t.Errorf("first data row = %v, want ZZZ 2026-03-02", rows[1])
	}
	if rows[3][0] != "AAA" {
		t.Errorf("third data row symbol = %s, want AAA", rows[3][0])
	}
}

func TestRun_NoData(t *testing.T) {
	mock := &collector.MockFetcher{
		Errs: map[string]error{
			"AAA": collector.ErrEmptyPayload,
			"BBB": collector.ErrEmptyPayload,
		},
	}
	dir := t.TempDir()
	runner := NewRunner(collector.NewCollector(mock, []string{"AAA", "BBB"}, 60, 0), recorder.NewNoopRecorder(), dir)

	res, err := runner.Run(context.Background())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Run error = %v, want ErrNoData", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "last_60_days_prices.csv")); !os.IsNotExist(err) {
		t.Errorf("prices csv should not be written on an empty run")
	}
}

func TestRun_SkippedSymbols(t *testing.T) {
	mock := &collector.MockFetcher{
		Data: map[string][]model.PriceRecord{
			"AAA": {prow("AAA", 1, 100, 101), prow("AAA", 2, 101, 103), prow("AAA", 3, 103, 104)},
			"CCC": {prow("CCC", 1, 10, 10.1)},
		},
		Errs: map[string]error{
			"BBB": &collector.StatusError{Code: 404, Body: "not found"},
		},
	}
	dir := t.TempDir()
	rec := &captureRecorder{}
	runner := NewRunner(collector.NewCollector(mock, []string{"AAA", "BBB", "CCC"}, 60, 0), rec, dir)

	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"BBB", "CCC"}
	if len(res.Skipped) != len(want) {
		t.Fatalf("skipped = %v, want %v", res.Skipped, want)
	}
	for i, s := range want {
		if res.Skipped[i] != s {
			t.Errorf("skipped[%d] = %s, want %s", i, res.Skipped[i], s)
		}
	}

	// CCC still gets a performance row; only the regression drops it.
	if len(res.Performance) != 2 {
		t.Errorf("performance rows = %d, want 2", len(res.Performance))
	}
	if len(res.Regression) != 2 {
		t.Errorf("regression rows = %d, want 2 (AAA only)", len(res.Regression))
	}
	if rec.snap == nil || len(rec.snap.Skipped) != 2 {
		t.Errorf("snapshot skipped = %v, want 2 symbols", rec.snap.Skipped)
	}
}

func TestRun_RecorderErrorDoesNotFailRun(t *testing.T) {
	mock := &collector.MockFetcher{
		Data: map[string][]model.PriceRecord{
			"AAA": {prow("AAA", 1, 100, 101), prow("AAA", 2, 101, 103)},
		},
	}
	runner := NewRunner(collector.NewCollector(mock, []string{"AAA"}, 60, 0), failRecorder{}, t.TempDir())

	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res == nil {
		t.Fatal("result is nil")
	}
}

func TestStore_SetAndLatest(t *testing.T) {
	store := NewStore()
	if store.Latest() != nil {
		t.Fatal("fresh store should have no result")
	}
	res := &Result{GeneratedAt: time.Now()}
	store.Set(res)
	if store.Latest() != res {
		t.Error("Latest did not return the published result")
	}
}

func TestSkippedSymbols(t *testing.T) {
	regRows := []model.RegressionRow{
		{Symbol: "AAA", Variable: model.RegressionIntercept},
		{Symbol: "AAA", Variable: model.RegressionSlope},
	}
	got := skippedSymbols([]string{"AAA", "BBB", "CCC"}, []string{"CCC", "DDD"}, regRows)
	want := []string{"BBB", "CCC", "DDD"}
	if len(got) != len(want) {
		t.Fatalf("skippedSymbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skippedSymbols[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
