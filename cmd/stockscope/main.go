package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"StockScope/internal/collector"
	"StockScope/internal/config"
	"StockScope/internal/dashboard"
	"StockScope/internal/pipeline"
	"StockScope/internal/recorder"
	"StockScope/internal/report"
	"StockScope/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockScope starting...")

	// .env is optional; deployments usually set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded environment from .env")
	}

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

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.APIKey != "" {
		fetcher = collector.NewMarketStackFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.DataSource.PageLimit)
	} else {
		log.Println("[WARN] no API key configured, using mock data source")
		fetcher = &collector.MockFetcher{}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	delay := time.Duration(cfg.DataSource.RequestDelaySeconds) * time.Second
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbols, cfg.DataSource.WindowDays, delay)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
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

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := pipeline.NewRunner(col, rec, cfg.Reports.OutputDir)

	// First run completes before anything is served.
	res, err := runner.Run(ctx)
	if errors.Is(err, pipeline.ErrNoData) {
		log.Fatal("[FATAL] no data collected, nothing to serve")
	}
	if err != nil {
		log.Fatalf("[FATAL] pipeline run: %v", err)
	}

	report.PrintTopPerformance(os.Stdout, res.TopPerformance)
	report.PrintTopRegression(os.Stdout, res.TopRegression)

	store := pipeline.NewStore()
	store.Set(res)

	// Optional scheduled refresh
	if cfg.Schedule.RefreshCron != "" {
		sched := scheduler.NewScheduler(ctx, runner, store)
		if err := sched.RegisterRefresh(cfg.Schedule.RefreshCron); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Dashboard
	srv := dashboard.NewServer(store)
	httpSrv := &http.Server{Addr: cfg.Dashboard.Addr, Handler: srv.Router()}
	go func() {
		log.Printf("[INFO] dashboard listening on %s", cfg.Dashboard.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] dashboard server: %v", err)
		}
	}()

	log.Println("[INFO] StockScope is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] dashboard shutdown: %v", err)
	}
	log.Println("[INFO] StockScope stopped")
}
