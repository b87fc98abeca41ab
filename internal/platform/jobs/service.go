package jobs

import (
	"context"
	"log/slog"
	"time"

	"appraisal/internal/domain/appraisal"
	"appraisal/internal/platform/config"
)

const JobDueReminders = "appraisal_due_reminders"

// Service runs the engine's periodic work on a single background worker.
type Service struct {
	Engine *appraisal.Service
	Cfg    config.Config
	queue  chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(engine *appraisal.Service, cfg config.Config) *Service {
	return &Service{
		Engine: engine,
		Cfg:    cfg,
		queue:  make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.ReminderInterval > 0 {
		go s.scheduleReminders(ctx, s.Cfg.ReminderInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-s.queue:
			start := time.Now()
			result, err := next.Run(ctx)
			if err != nil {
				slog.Warn("job failed", "jobType", next.Type, "err", err)
				continue
			}
			slog.Info("job finished", "jobType", next.Type, "result", result, "durationMs", time.Since(start).Milliseconds())
		}
	}
}

func (s *Service) scheduleReminders(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobDueReminders, func(ctx context.Context) (any, error) {
				return s.Engine.SendDueReminders(ctx, s.Cfg.ReminderHorizon)
			})
		}
	}
}
