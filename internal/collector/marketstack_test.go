package collector

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const eodPayload = `{
  "pagination": {"limit": 100, "offset": 0, "count": 2, "total": 2},
  "data": [
    {"date": "2026-08-22T00:00:00+0000", "symbol": "AAPL", "open": 231.5, "close": 233.1, "adj_open": 231.5, "adj_close": 233.1, "volume": 51230000, "dividend": 0.25},
    {"date": "2026-08-21T00:00:00+0000", "symbol": "AAPL", "open": 229.9, "close": 231.2, "adj_open": 229.9, "adj_close": 231.2, "volume": 48310000, "dividend": null}
  ]
}`

func fetchWindow() (time.Time, time.Time) {
	to := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -60), to
}

func TestFetchDaily_ParsesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("access_key") != "testkey" {
			t.Errorf("access_key = %q, want testkey", q.Get("access_key"))
		}
		if q.Get("symbols") != "AAPL" {
			t.Errorf("symbols = %q, want AAPL", q.Get("symbols"))
		}
		if q.Get("limit") != "100" {
			t.Errorf("limit = %q, want 100", q.Get("limit"))
		}
		if len(q.Get("date_from")) != 10 || len(q.Get("date_to")) != 10 {
			t.Errorf("date range not in YYYY-MM-DD form: %q .. %q", q.Get("date_from"), q.Get("date_to"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(eodPayload))
	}))
	defer srv.Close()

	f := NewMarketStackFetcher(srv.URL, "testkey", 100)
	from, to := fetchWindow()
	records, err := f.FetchDaily(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Response is newest first; records must come back chronological.
	first := records[0]
	if !first.Date.Equal(time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first record date = %v, want 2026-08-21", first.Date)
	}
	if first.Symbol != "AAPL" || first.Open != 229.9 || first.Close != 231.2 ||
		first.AdjOpen != 229.9 || first.AdjClose != 231.2 || first.Volume != 48310000 {
		t.Errorf("first record fields not preserved: %+v", first)
	}
	if !math.IsNaN(first.Dividend) {
		t.Errorf("null dividend = %v, want NaN", first.Dividend)
	}
	if records[1].Dividend != 0.25 {
		t.Errorf("second record dividend = %v, want 0.25", records[1].Dividend)
	}
}

func TestFetchDaily_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": {"code": "invalid_access_key"}}`))
	}))
	defer srv.Close()

	f := NewMarketStackFetcher(srv.URL, "badkey", 100)
	from, to := fetchWindow()
	_, err := f.FetchDaily(context.Background(), "AAPL", from, to)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status code = %d, want %d", statusErr.Code, http.StatusUnprocessableEntity)
	}
}

func TestFetchDaily_EmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pagination": {"limit": 100, "offset": 0, "count": 0, "total": 0}, "data": []}`))
	}))
	defer srv.Close()

	f := NewMarketStackFetcher(srv.URL, "testkey", 100)
	from, to := fetchWindow()
	_, err := f.FetchDaily(context.Background(), "UNKNOWN", from, to)
	if !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}

func TestFetchDaily_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewMarketStackFetcher(srv.URL, "testkey", 100)
	from, to := fetchWindow()
	_, err := f.FetchDaily(context.Background(), "AAPL", from, to)
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) || errors.Is(err, ErrEmptyPayload) {
		t.Errorf("transport failure misclassified: %v", err)
	}
}
