package scheduler

import (
	"context"
	"fmt"
	"log"

	"StockScope/internal/pipeline"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic refresh task.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *pipeline.Runner
	Store  *pipeline.Store
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *pipeline.Runner, store *pipeline.Store) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Store:  store,
		Ctx:    ctx,
	}
}

// RegisterRefresh schedules a full pipeline run on the given cron expression.
func (s *Scheduler) RegisterRefresh(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
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

func (s *Scheduler) refresh() {
	log.Println("[INFO] running scheduled refresh")
	res, err := s.Runner.Run(s.Ctx)
	if err != nil {
		// The previous result stays published.
		log.Printf("[ERROR] scheduled refresh: %v", err)
		return
	}
	s.Store.Set(res)
	log.Printf("[INFO] refresh published: %d rows across %d symbols",
		len(res.Table), len(res.Performance))
}
