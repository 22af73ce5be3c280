package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"ChanSentinel/internal/chanlun"
	"ChanSentinel/internal/collector"
	"ChanSentinel/internal/config"
	"ChanSentinel/internal/notifier"
	"ChanSentinel/internal/recorder"
	"ChanSentinel/internal/scanner"
	"ChanSentinel/internal/watchlist"
)

func testScheduler(t *testing.T) *Scheduler {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	wl, err := watchlist.NewManager(filepath.Join(t.TempDir(), "watchlist.json"))
	if err != nil {
		t.Fatalf("watchlist: %v", err)
	}
	sc := scanner.NewScanner(&collector.MockFetcher{Price: 100}, nil, chanlun.NewAnalyzer(nil), 2, 60, 0)
	return NewScheduler(context.Background(), sc, wl, notifier.NewLogNotifier(), recorder.NewNoopRecorder(), cfg)
}

func TestHandleCommand_WatchlistLifecycle(t *testing.T) {
	s := testScheduler(t)

	reply := s.HandleCommand("/add 600519 贵州茅台")
	if !strings.Contains(reply, "已添加") {
		t.Errorf("unexpected add reply: %q", reply)
	}
	if reply := s.HandleCommand("/add 600519 贵州茅台"); !strings.Contains(reply, "已在") {
		t.Errorf("expected duplicate hint, got %q", reply)
	}

	reply = s.HandleCommand("/watchlist")
	if !strings.Contains(reply, "600519") {
		t.Errorf("watchlist reply missing entry: %q", reply)
	}

	if reply := s.HandleCommand("/remove 600519"); !strings.Contains(reply, "已移除") {
		t.Errorf("unexpected remove reply: %q", reply)
	}
	if reply := s.HandleCommand("/watchlist"); !strings.Contains(reply, "为空") {
		t.Errorf("expected empty watchlist, got %q", reply)
	}
}

func TestHandleCommand_UsageHints(t *testing.T) {
	s := testScheduler(t)
	if reply := s.HandleCommand("/add"); !strings.Contains(reply, "用法") {
		t.Errorf("expected usage hint, got %q", reply)
	}
	if reply := s.HandleCommand("/remove"); !strings.Contains(reply, "用法") {
		t.Errorf("expected usage hint, got %q", reply)
	}
}

func TestHandleCommand_UnknownShowsHelp(t *testing.T) {
	s := testScheduler(t)
	for _, cmd := range []string{"", "hello", "/unknown"} {
		if reply := s.HandleCommand(cmd); !strings.Contains(reply, "可用命令") {
			t.Errorf("command %q: expected help, got %q", cmd, reply)
		}
	}
}

func TestHandleCommand_EmptyHistory(t *testing.T) {
	s := testScheduler(t)
	if reply := s.HandleCommand("/history"); !strings.Contains(reply, "暂无") {
		t.Errorf("expected empty history hint, got %q", reply)
	}
}

func TestScanTargets_MergesWatchlist(t *testing.T) {
	s := testScheduler(t)
	s.HandleCommand("/add 999999 自选测试")

	targets := s.scanTargets()
	found := false
	for _, tgt := range targets {
		if tgt.Code == "999999" {
			found = true
		}
	}
	if !found {
		t.Error("watchlist entry missing from scan targets")
	}
	// Pool instruments come first and are deduplicated.
	if len(targets) != len(s.Config.Instruments())+1 {
		t.Errorf("unexpected target count %d", len(targets))
	}
}

func TestRegisterAll_InvalidCron(t *testing.T) {
	s := testScheduler(t)
	if err := s.RegisterAll("not a cron expr"); err == nil {
		t.Error("expected error for invalid cron spec")
	}
	if err := s.RegisterAll("0 30 15 * * 1-5"); err != nil {
		t.Errorf("valid cron rejected: %v", err)
	}
}
