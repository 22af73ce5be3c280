package recorder

import (
	"time"

	"ChanSentinel/internal/model"
)

// BatchSummary describes one recorded analysis batch.
type BatchSummary struct {
	ID        int64
	Timestamp time.Time
	Analyzed  int
	Signals   int
}

// Recorder persists analysis history. Implementations keep a rolling window
// of recent batches and prune older ones; durability beyond that is not a
// goal.
type Recorder interface {
	RecordBatch(at time.Time, results []*model.AnalysisResult) error
	RecentBatches(n int) ([]BatchSummary, error)
	Close() error
}
