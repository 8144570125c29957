package dashboard

import (
	"math"
	"testing"
	"time"

	"StockScope/internal/model"
)

func record(symbol string, day int, adjClose, volume float64) model.PriceRecord {
	return model.PriceRecord{
		Symbol:   symbol,
		Date:     time.Date(2026, 4, day, 0, 0, 0, 0, time.UTC),
		Open:     adjClose - 1,
		Close:    adjClose,
		AdjOpen:  adjClose - 1,
		AdjClose: adjClose,
		Volume:   volume,
		Dividend: 0,
	}
}

func TestBuildArtifacts_Basic(t *testing.T) {
	table := model.Table{
		record("AAA", 1, 100, 5000),
		record("AAA", 2, 102, 6000),
		record("AAA", 3, 104, 5500),
		record("ZZZ", 1, 50, 100),
	}

	art, ok := BuildArtifacts(table, "AAA")
	if !ok {
		t.Fatal("BuildArtifacts reported no data for AAA")
	}

	if art.Symbol != "AAA" {
		t.Errorf("symbol = %s, want AAA", art.Symbol)
	}
	if art.Line.Title != "Adjusted Close Prices for AAA" {
		t.Errorf("line title = %q", art.Line.Title)
	}
	if art.Volume.Title != "Trading Volume for AAA" {
		t.Errorf("volume title = %q", art.Volume.Title)
	}
	if art.Histogram.Title != "Distribution of Adjusted Close Prices for AAA" {
		t.Errorf("histogram title = %q", art.Histogram.Title)
	}
	if art.Summary.Title != "Descriptive Statistics for AAA" {
		t.Errorf("summary title = %q", art.Summary.Title)
	}

	if len(art.Line.Dates) != 3 || art.Line.Dates[0] != "2026-04-01" {
		t.Errorf("line dates = %v", art.Line.Dates)
	}
	if art.Line.Values[2] == nil || *art.Line.Values[2] != 104 {
		t.Errorf("line values[2] = %v, want 104", art.Line.Values[2])
	}
	if art.Volume.Values[1] == nil || *art.Volume.Values[1] != 6000 {
		t.Errorf("volume values[1] = %v, want 6000", art.Volume.Values[1])
	}

	var total int
	for _, b := range art.Histogram.Bins {
		total += b.Count
	}
	if total != 3 {
		t.Errorf("histogram total count = %d, want 3", total)
	}

	if len(art.Summary.Rows) != 8 {
		t.Fatalf("summary rows = %d, want 8", len(art.Summary.Rows))
	}
	if art.Summary.Rows[0].Statistic != "count" || *art.Summary.Rows[0].Value != 3 {
		t.Errorf("count row = %+v", art.Summary.Rows[0])
	}
	if art.Summary.Rows[1].Statistic != "mean" || *art.Summary.Rows[1].Value != 102 {
		t.Errorf("mean row = %+v", art.Summary.Rows[1])
	}
	wantStats := []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	for i, s := range wantStats {
		if art.Summary.Rows[i].Statistic != s {
			t.Errorf("summary row %d = %s, want %s", i, art.Summary.Rows[i].Statistic, s)
		}
	}
}

func TestBuildArtifacts_MissingValueBecomesNull(t *testing.T) {
	missing := record("AAA", 2, 0, 6000)
	missing.AdjClose = math.NaN()
	table := model.Table{
		record("AAA", 1, 100, 5000),
		missing,
		record("AAA", 3, 104, 5500),
	}

	art, ok := BuildArtifacts(table, "AAA")
	if !ok {
		t.Fatal("BuildArtifacts reported no data")
	}
	if art.Line.Values[1] != nil {
		t.Errorf("line values[1] = %v, want nil", *art.Line.Values[1])
	}
	if art.Line.Values[0] == nil || *art.Line.Values[0] != 100 {
		t.Errorf("line values[0] = %v, want 100", art.Line.Values[0])
	}
	// describe stays on the observed values only
	if *art.Summary.Rows[0].Value != 2 {
		t.Errorf("count = %v, want 2", *art.Summary.Rows[0].Value)
	}
}

func TestBuildArtifacts_UnknownSymbol(t *testing.T) {
	table := model.Table{record("AAA", 1, 100, 5000)}
	if _, ok := BuildArtifacts(table, "XYZ"); ok {
		t.Error("expected no artifacts for unknown symbol")
	}
}

func TestFloatPtr(t *testing.T) {
	if p := floatPtr(1.25); p == nil || *p != 1.25 {
		t.Errorf("floatPtr(1.25) = %v", p)
	}
	if p := floatPtr(math.NaN()); p != nil {
		t.Errorf("floatPtr(NaN) = %v, want nil", *p)
	}
	if p := floatPtr(math.Inf(1)); p != nil {
		t.Errorf("floatPtr(+Inf) = %v, want nil", *p)
	}
}
