package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ChanSentinel/internal/chanlun"
	"ChanSentinel/internal/collector"
	"ChanSentinel/internal/config"
	"ChanSentinel/internal/notifier"
	"ChanSentinel/internal/recorder"
	"ChanSentinel/internal/scanner"
	"ChanSentinel/internal/scheduler"
	"ChanSentinel/internal/watchlist"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ChanSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher: tushare needs a token, eastmoney works without one.
	var fetcher collector.Fetcher
	if cfg.DataSource.Token != "" {
		fetcher = collector.NewTushareFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Token, cfg.Proxy)
	} else {
		log.Println("[WARN] no tushare token configured, falling back to eastmoney")
		fetcher = collector.NewEastMoneyFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init sector lookup
	var sectors collector.SectorLookup
	if len(cfg.Sectors.Membership) > 0 {
		sectors = collector.NewStaticSectorLookup(cfg.Sectors.Membership, cfg.Sectors.Flows)
	} else {
		sectors = collector.NoopSectorLookup{}
	}

	// Init watchlist
	wl, err := watchlist.NewManager(cfg.Watchlist.File)
	if err != nil {
		log.Fatalf("[FATAL] init watchlist: %v", err)
	}

	// Init notifier
	var n notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[WARN] Telegram not configured, reports go to the log")
		n = notifier.NewLogNotifier()
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, cfg.Database.KeepBatches)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init analyzer and scanner
	analyzer := chanlun.NewAnalyzer(cfg.Score)
	sc := scanner.NewScanner(fetcher, sectors, analyzer,
		cfg.Scanner.Workers, cfg.DataSource.Days, cfg.DataSource.RatePerSec)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sc, wl, n, rec, cfg)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling when available
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if cfg.RunOnStart {
		log.Println("[INFO] run_on_start enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] ChanSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ChanSentinel stopped")
}
