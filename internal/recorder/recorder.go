package recorder

import (
	"time"

	"StockScope/internal/model"
)

// RunSnapshot holds everything worth archiving about one pipeline run.
type RunSnapshot struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Symbols     []string
	RowsFetched int
	Skipped     []string
	Performance []model.PerformanceRow
	Regression  []model.RegressionRow
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
