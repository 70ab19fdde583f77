package background

import (
	"context"
	"log"
	"sync"
	"time"

	"kantin/internal/caching"
	"kantin/internal/jobs"
	"kantin/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages recurring background jobs.
type JobScheduler struct {
	scheduler       gocron.Scheduler
	stockAlertSvc   *jobs.StockAlertService
	cacheSvc        caching.CacheService
	transactionRepo repositories.TransactionRepository
	jobs            map[string]gocron.Job
	mu              sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(stockAlertSvc *jobs.StockAlertService, cacheSvc caching.CacheService,
	transactionRepo repositories.TransactionRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		stockAlertSvc:   stockAlertSvc,
		cacheSvc:        cacheSvc,
		transactionRepo: transactionRepo,
		jobs:            make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Sales summary refresh - every 5 minutes
	salesJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshSalesSummary, context.Background()),
		gocron.WithName("sales-summary-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create sales summary job: %v", err)
	} else {
		js.jobs["sales-summary"] = salesJob
	}

	// Low stock alerts - every 5 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.stockAlertSvc.ScheduledLowStockCheck, context.Background()),
		gocron.WithName("stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stock alerts job: %v", err)
	} else {
		js.jobs["stock-alerts"] = alertsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshSalesSummary recomputes today's order totals and caches them.
func (js *JobScheduler) refreshSalesSummary(ctx context.Context) error {
	log.Printf("Refreshing sales summary")

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, total, err := js.transactionRepo.SumOrdersSince(ctx, startOfDay)
	if err != nil {
		log.Printf("Failed to compute sales summary: %v", err)
		return err
	}

	summary := map[string]interface{}{
		"order_count":   count,
		"total_revenue": total,
		"since":         startOfDay.Format(time.RFC3339),
		"refreshed_at":  now.Format(time.RFC3339),
	}

	if err := js.cacheSvc.SetSalesSummary(ctx, summary, 10*time.Minute); err != nil {
		log.Printf("Failed to cache sales summary: %v", err)
		return err
	}

	log.Printf("Sales summary refreshed: %d orders, %.2f total", count, total)
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}

	return nil
}
