package worker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// StatsReporter периодически пишет в лог сводку по работе цикла опроса
type StatsReporter struct {
	source    StatsSource
	logger    Logger
	interval  time.Duration
	scheduler *gocron.Scheduler
	mu        sync.Mutex
	last      Stats
}

// NewStatsReporter создает новый экземпляр отчёта со статистикой
func NewStatsReporter(source StatsSource, logger Logger, interval time.Duration) *StatsReporter {
	return &StatsReporter{
		source:    source,
		logger:    logger,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start планирует периодический отчёт и запускает планировщик
func (r *StatsReporter) Start() error {
	if r.interval <= 0 {
		return errors.New("worker: stats interval must be positive")
	}

	if _, err := r.scheduler.Every(r.interval).WaitForSchedule().Do(r.report); err != nil {
		return fmt.Errorf("failed to schedule stats report: %w", err)
	}

	r.logger.Info("Starting stats reporter (interval: %s)", r.interval)
	r.scheduler.StartAsync()
	return nil
}

// Stop останавливает планировщик
func (r *StatsReporter) Stop() {
	r.scheduler.Stop()
	r.logger.Info("Stats reporter stopped")
}

// report пишет в лог текущие счётчики и прирост с прошлого отчёта
func (r *StatsReporter) report() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.source.Stats()
	prev := r.last
	r.last = cur

	r.logger.Info(
		"Relay stats: offset=%d fetched=%d (+%d) relayed=%d (+%d) skipped=%d (+%d) fetch_errors=%d (+%d) webhook_failures=%d (+%d) send_failures=%d (+%d)",
		cur.Offset,
		cur.Fetched, cur.Fetched-prev.Fetched,
		cur.Relayed, cur.Relayed-prev.Relayed,
		cur.Skipped, cur.Skipped-prev.Skipped,
		cur.FetchErrors, cur.FetchErrors-prev.FetchErrors,
		cur.WebhookFailures, cur.WebhookFailures-prev.WebhookFailures,
		cur.SendFailures, cur.SendFailures-prev.SendFailures,
	)
}
