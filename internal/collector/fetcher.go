package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockScope/internal/model"
)

// ErrEmptyPayload signals a well-formed response whose data array was missing
// or empty. It means "no data for this symbol", not a failed request.
var ErrEmptyPayload = errors.New("empty payload")

// StatusError is a non-success HTTP response from the data API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("status %d", e.Code)
}

// Fetcher defines the interface for fetching daily price records.
// Implementations report failures as one of: a wrapped transport error,
// *StatusError, or ErrEmptyPayload, so callers can branch per condition.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]model.PriceRecord, error)
	Name() string
}
