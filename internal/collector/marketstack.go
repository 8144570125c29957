package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockScope/internal/model"
)

// eodDateLayout matches the timestamp format of MarketStack EOD responses,
// e.g. "2026-08-21T00:00:00+0000".
const eodDateLayout = "2006-01-02T15:04:05-0700"

// MarketStackFetcher implements Fetcher using the MarketStack EOD REST API.
type MarketStackFetcher struct {
	BaseURL string
	APIKey  string
	Limit   int
	Client  *http.Client
}

// NewMarketStackFetcher creates a fetcher for the given API base URL and key.
// Limit bounds the page size of each request (the API caps it at 100).
func NewMarketStackFetcher(baseURL, apiKey string, limit int) *MarketStackFetcher {
	return &MarketStackFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Limit:   limit,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *MarketStackFetcher) Name() string { return "marketstack" }

// eodResponse is the expected JSON shape of the /eod endpoint.
type eodResponse struct {
	Pagination struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Count  int `json:"count"`
		Total  int `json:"total"`
	} `json:"pagination"`
	Data []eodRecord `json:"data"`
}

// eodRecord uses pointers for the numeric fields so that JSON nulls survive
// decoding and can be mapped to NaN.
type eodRecord struct {
	Date     string   `json:"date"`
	Symbol   string   `json:"symbol"`
	Open     *float64 `json:"open"`
	Close    *float64 `json:"close"`
	AdjOpen  *float64 `json:"adj_open"`
	AdjClose *float64 `json:"adj_close"`
	Volume   *float64 `json:"volume"`
	Dividend *float64 `json:"dividend"`
}

func (e eodRecord) toRecord(symbol string) (model.PriceRecord, error) {
	date, err := time.Parse(eodDateLayout, e.Date)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("parse date %q: %w", e.Date, err)
	}
	if e.Symbol != "" {
		symbol = e.Symbol
	}
	return model.PriceRecord{
		Symbol:   symbol,
		Date:     date,
		Open:     deref(e.Open),
		Close:    deref(e.Close),
		AdjOpen:  deref(e.AdjOpen),
		AdjClose: deref(e.AdjClose),
		Volume:   deref(e.Volume),
		Dividend: deref(e.Dividend),
	}, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// FetchDaily issues one bounded request for the symbol's records inside
// [from, to] and returns them in chronological order.
func (f *MarketStackFetcher) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]model.PriceRecord, error) {
	q := url.Values{}
	q.Set("access_key", f.APIKey)
	q.Set("symbols", symbol)
	q.Set("date_from", from.Format("2006-01-02"))
	q.Set("date_to", to.Format("2006-01-02"))
	q.Set("limit", strconv.Itoa(f.Limit))
	endpoint := fmt.Sprintf("%s/eod?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch eod: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload eodResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode eod response: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, ErrEmptyPayload
	}

	records := make([]model.PriceRecord, 0, len(payload.Data))
	for _, e := range payload.Data {
		rec, err := e.toRecord(symbol)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	// The API returns newest first; ensure chronological order.
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}
