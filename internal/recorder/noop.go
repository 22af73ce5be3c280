package recorder

import (
	"time"

	"ChanSentinel/internal/model"
)

// NoopRecorder discards everything. Used when persistence is disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBatch(time.Time, []*model.AnalysisResult) error { return nil }

func (n *NoopRecorder) RecentBatches(int) ([]BatchSummary, error) { return nil, nil }

func (n *NoopRecorder) Close() error { return nil }
