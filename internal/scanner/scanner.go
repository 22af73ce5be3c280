package scanner

import (
	"context"
	"errors"
	"log"
	"sync"

	"ChanSentinel/internal/chanlun"
	"ChanSentinel/internal/collector"
	"ChanSentinel/internal/model"

	"golang.org/x/time/rate"
)

// Scanner runs the analysis pipeline over a batch of instruments with a
// bounded worker pool. Per-instrument calls are independent; a failing
// instrument is logged and skipped without aborting the batch.
type Scanner struct {
	Fetcher  collector.Fetcher
	Sectors  collector.SectorLookup
	Analyzer *chanlun.Analyzer
	Workers  int
	Days     int
	Limiter  *rate.Limiter // upstream provider rate limit; nil disables
}

// NewScanner creates a Scanner. ratePerSec <= 0 disables rate limiting.
func NewScanner(fetcher collector.Fetcher, sectors collector.SectorLookup, analyzer *chanlun.Analyzer, workers, days int, ratePerSec float64) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	if days <= 0 {
		days = 90
	}
	if sectors == nil {
		sectors = collector.NoopSectorLookup{}
	}
	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return &Scanner{
		Fetcher:  fetcher,
		Sectors:  sectors,
		Analyzer: analyzer,
		Workers:  workers,
		Days:     days,
		Limiter:  limiter,
	}
}

// Scan analyzes every instrument and returns the successful results in input
// order. Cancelling ctx stops issuing further per-instrument calls; results
// already produced are returned.
func (s *Scanner) Scan(ctx context.Context, instruments []model.Instrument) []*model.AnalysisResult {
	if len(instruments) == 0 {
		return nil
	}

	type job struct {
		pos  int
		inst model.Instrument
	}

	jobs := make(chan job)
	slots := make([]*model.AnalysisResult, len(instruments))

	var wg sync.WaitGroup
	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				slots[j.pos] = s.analyzeOne(ctx, j.inst)
			}
		}()
	}

feed:
	for i, inst := range instruments {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] scan cancelled after %d/%d instruments", i, len(instruments))
			break feed
		case jobs <- job{pos: i, inst: inst}:
		}
	}
	close(jobs)
	wg.Wait()

	results := make([]*model.AnalysisResult, 0, len(instruments))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}
	return results
}

// analyzeOne fetches and analyzes a single instrument. Returns nil when the
// instrument must be skipped.
func (s *Scanner) analyzeOne(ctx context.Context, inst model.Instrument) *model.AnalysisResult {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil
		}
	}

	bars, err := s.Fetcher.FetchDailyBars(inst.Code, s.Days)
	if err != nil {
		log.Printf("[WARN] fetch %s(%s): %v", inst.Name, inst.Code, err)
		return nil
	}
	if len(bars) == 0 {
		log.Printf("[INFO] no data for %s(%s), skipping", inst.Name, inst.Code)
		return nil
	}

	res, err := s.Analyzer.Analyze(inst.Code, inst.Name, bars)
	if err != nil {
		var shapeErr *chanlun.DataShapeError
		switch {
		case errors.Is(err, chanlun.ErrInsufficientData):
			log.Printf("[INFO] %s(%s): history too short, skipping", inst.Name, inst.Code)
		case errors.As(err, &shapeErr):
			log.Printf("[ERROR] %s(%s): provider contract violation: %v", inst.Name, inst.Code, shapeErr)
		default:
			log.Printf("[ERROR] analyze %s(%s): %v", inst.Name, inst.Code, err)
		}
		return nil
	}

	if info, err := s.Sectors.Lookup(inst.Code); err != nil {
		log.Printf("[WARN] sector lookup %s: %v", inst.Code, err)
	} else {
		res.Sector = info
	}
	return res
}
