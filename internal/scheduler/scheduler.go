package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ChanSentinel/internal/config"
	"ChanSentinel/internal/model"
	"ChanSentinel/internal/notifier"
	"ChanSentinel/internal/recorder"
	"ChanSentinel/internal/scanner"
	"ChanSentinel/internal/watchlist"

	"github.com/robfig/cron/v3"
)

// Scheduler wires the daily scan into cron and serves user commands.
type Scheduler struct {
	Cron      *cron.Cron
	Scanner   *scanner.Scanner
	Watchlist *watchlist.Manager
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Config    *config.Config
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, wl *watchlist.Manager, n notifier.Notifier, rec recorder.Recorder, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Scanner:   sc,
		Watchlist: wl,
		Notifier:  n,
		Recorder:  rec,
		Config:    cfg,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily scan task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyScan); err != nil {
		return fmt.Errorf("register daily scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.dailyScan()
}

// scanTargets merges the configured pools with the user watchlist.
func (s *Scheduler) scanTargets() []model.Instrument {
	targets := s.Config.Instruments()
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		seen[t.Code] = true
	}
	if s.Watchlist != nil {
		for _, e := range s.Watchlist.List() {
			if !seen[e.Code] {
				seen[e.Code] = true
				targets = append(targets, model.Instrument{Code: e.Code, Name: e.Name})
			}
		}
	}
	return targets
}

func (s *Scheduler) dailyScan() {
	log.Println("[INFO] running daily scan")
	targets := s.scanTargets()
	if len(targets) == 0 {
		log.Println("[WARN] no instruments to scan")
		return
	}

	started := time.Now()
	results := s.Scanner.Scan(s.Ctx, targets)
	analyzed := 0
	for _, r := range results {
		if r != nil {
			analyzed++
		}
	}
	log.Printf("[INFO] scan finished: %d/%d analyzed in %v", analyzed, len(targets), time.Since(started).Round(time.Second))

	if analyzed == 0 {
		s.trySend("❌ 今日扫描失败：无任何个股完成分析，请检查数据源。")
		return
	}

	ok := make([]*model.AnalysisResult, 0, analyzed)
	for _, r := range results {
		if r != nil {
			if r.Sector.Found {
				r.Sector.Theme, r.Sector.ThemeWeight = s.Config.ThemeOf(r.Sector.Main)
			}
			ok = append(ok, r)
		}
	}

	s.trySend(notifier.FormatScanReport(ok))
	s.exportCSV(ok)

	if err := s.Recorder.RecordBatch(started, ok); err != nil {
		log.Printf("[ERROR] record batch: %v", err)
	}
}

// exportCSV writes the full analysis table next to the database, one file
// per scan day. The Telegram report carries only the headline per result;
// the table keeps the complete detail.
func (s *Scheduler) exportCSV(results []*model.AnalysisResult) {
	dir := filepath.Dir(s.Config.Database.SQLitePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("[WARN] create export dir: %v", err)
		return
	}
	path := filepath.Join(dir, "scan_"+time.Now().Format("20060102")+".csv")
	f, err := os.Create(path)
	if err != nil {
		log.Printf("[WARN] create csv export: %v", err)
		return
	}
	defer f.Close()
	if err := notifier.WriteCSV(f, results); err != nil {
		log.Printf("[WARN] write csv export: %v", err)
		return
	}
	log.Printf("[INFO] csv export written to %s", path)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}

	switch fields[0] {
	case "/scan", "扫描":
		s.dailyScan()
		return ""
	case "/watchlist", "自选":
		entries := s.Watchlist.List()
		codes := make([]string, 0, len(entries))
		for _, e := range entries {
			codes = append(codes, fmt.Sprintf("%s %s", e.Code, e.Name))
		}
		return notifier.FormatWatchlist(codes)
	case "/add":
		if len(fields) < 2 {
			return "用法: /add 代码 [名称]"
		}
		code := fields[1]
		name := code
		if len(fields) > 2 {
			name = fields[2]
		}
		added, err := s.Watchlist.Add(code, name)
		if err != nil {
			return fmt.Sprintf("保存自选股失败: %v", err)
		}
		if added {
			return fmt.Sprintf("✅ 已添加 %s %s 到自选股", code, name)
		}
		return fmt.Sprintf("%s 已在自选股中", code)
	case "/remove":
		if len(fields) < 2 {
			return "用法: /remove 代码"
		}
		if err := s.Watchlist.Remove(fields[1]); err != nil {
			return fmt.Sprintf("保存自选股失败: %v", err)
		}
		return fmt.Sprintf("✅ 已移除 %s", fields[1])
	case "/history", "历史":
		batches, err := s.Recorder.RecentBatches(10)
		if err != nil {
			return fmt.Sprintf("查询历史失败: %v", err)
		}
		if len(batches) == 0 {
			return "暂无扫描历史。"
		}
		var b strings.Builder
		b.WriteString("📅 <b>扫描历史</b>\n")
		for _, batch := range batches {
			b.WriteString(fmt.Sprintf("%s 分析:%d 信号:%d\n",
				batch.Timestamp.Format("01-02 15:04"), batch.Analyzed, batch.Signals))
		}
		return b.String()
	default:
		return helpText
	}
}

const helpText = "可用命令:\n• /scan 立即扫描\n• /watchlist 查看自选股\n• /add 代码 名称 添加自选\n• /remove 代码 移除自选\n• /history 扫描历史"

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
