package collector

import (
	"context"
	"errors"
	"log"
	"time"

	"StockScope/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Data map[string][]model.PriceRecord
	Errs map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, symbol string, from, to time.Time) ([]model.PriceRecord, error) {
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if records, ok := m.Data[symbol]; ok {
		return records, nil
	}
	return generateMockRecords(symbol, from, to), nil
}

func generateMockRecords(symbol string, from, to time.Time) []model.PriceRecord {
	var seed int
	for _, c := range symbol {
		seed += int(c)
	}
	base := 50 + float64(seed%200)

	var records []model.PriceRecord
	i := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := base * (1 + float64(i-20)*0.001)
		records = append(records, model.PriceRecord{
			Symbol:   symbol,
			Date:     d,
			Open:     p * 0.999,
			Close:    p,
			AdjOpen:  p * 0.999,
			AdjClose: p,
			Volume:   1000000,
			Dividend: 0,
		})
		i++
	}
	return records
}

// Collector fetches price records for a list of symbols over a trailing
// window, one request at a time with a fixed delay between requests.
type Collector struct {
	Fetcher    Fetcher
	Symbols    []string
	WindowDays int
	Delay      time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbols []string, windowDays int, delay time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Symbols: symbols, WindowDays: windowDays, Delay: delay}
}

// Collect fetches every symbol and concatenates the successful results in
// request order. Per-symbol failures are classified, logged, and skipped; the
// only returned error is context cancellation. An empty symbol list or a run
// where every symbol fails yields an empty table.
func (c *Collector) Collect(ctx context.Context) (model.Table, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -c.WindowDays)

	var table model.Table
	var fetched int
	for _, symbol := range c.Symbols {
		log.Printf("[INFO] fetching data for symbol: %s", symbol)
		records, err := c.Fetcher.FetchDaily(ctx, symbol, from, to)
		switch {
		case err == nil:
			table = append(table, records...)
			fetched++
		case errors.Is(err, ErrEmptyPayload):
			log.Printf("[INFO] no data found for symbol: %s", symbol)
		default:
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				log.Printf("[WARN] fetch %s: %v", symbol, statusErr)
			} else {
				log.Printf("[WARN] fetch %s: transport: %v", symbol, err)
			}
		}
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
	}
	log.Printf("[INFO] collected %d rows from %d/%d symbols", len(table), fetched, len(c.Symbols))
	return table, nil
}

func (c *Collector) wait(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.Delay):
		return nil
	}
}
