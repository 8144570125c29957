package model

import (
	"math"
	"sort"
	"time"
)

// PriceRecord is one end-of-day quote for one symbol. Numeric fields that the
// upstream API returned as null are NaN. Records are immutable once fetched.
type PriceRecord struct {
	Symbol   string
	Date     time.Time
	Open     float64
	Close    float64
	AdjOpen  float64
	AdjClose float64
	Volume   float64
	Dividend float64
}

// PercentChange returns the intraday change in percent based on adjusted prices.
func (r PriceRecord) PercentChange() float64 {
	return (r.AdjClose - r.AdjOpen) / r.AdjOpen * 100
}

// HasMissing reports whether any numeric field is NaN.
func (r PriceRecord) HasMissing() bool {
	for _, v := range []float64{r.Open, r.Close, r.AdjOpen, r.AdjClose, r.Volume, r.Dividend} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Table is the combined price dataset shared by all analysis stages and the
// dashboard. It is built once per run and must not be mutated after the last
// analysis stage completes.
type Table []PriceRecord

func (t Table) Empty() bool { return len(t) == 0 }

// Symbols returns the distinct symbols in first-appearance order.
func (t Table) Symbols() []string {
	var symbols []string
	seen := make(map[string]struct{})
	for _, r := range t {
		if _, ok := seen[r.Symbol]; ok {
			continue
		}
		seen[r.Symbol] = struct{}{}
		symbols = append(symbols, r.Symbol)
	}
	return symbols
}

// BySymbol returns the records for one symbol, preserving table order.
func (t Table) BySymbol(symbol string) Table {
	var out Table
	for _, r := range t {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	return out
}

// DropMissing returns a copy without records that have any missing field.
func (t Table) DropMissing() Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if !r.HasMissing() {
			out = append(out, r)
		}
	}
	return out
}

// SortBySymbolDate sorts the table in place by (symbol, date) ascending.
func (t Table) SortBySymbolDate() {
	sort.SliceStable(t, func(i, j int) bool {
		if t[i].Symbol != t[j].Symbol {
			return t[i].Symbol < t[j].Symbol
		}
		return t[i].Date.Before(t[j].Date)
	})
}
