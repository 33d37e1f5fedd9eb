package service

import (
	"context"
	"fmt"
	"time"

	"taskhub/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	if loc == nil {
		loc = time.Local
	}
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

// ScheduleReminders runs r on the given cron spec (five fields or a
// descriptor such as @hourly). Runs overlapping a slow previous run are skipped.
func (s *SchedulerService) ScheduleReminders(spec string, r *ReminderService, timeout time.Duration) (cron.EntryID, error) {
	if r == nil {
		return 0, fmt.Errorf("reminder service is nil")
	}
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.ContextLogger.Debug("Reminder job started", zap.String("spec", spec), zap.Duration("timeout", timeout))
		if _, err := r.Run(ctx); err != nil {
			logger.ErrorLogger.Error("Reminder job failed", zap.Error(err))
		}
	}))
	id, err := s.cron.AddJob(spec, job)
	if err != nil {
		return 0, fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	return id, nil
}

// Next returns the next activation time of the entry.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
