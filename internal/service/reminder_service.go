package service

import (
	"context"
	"fmt"
	"time"

	"taskhub/internal/models"
	"taskhub/pkg/logger"
	"taskhub/pkg/mailer"

	"go.uber.org/zap"
)

const (
	reminderLead   = time.Hour
	reminderLayout = "2006-01-02 15:04:05-07:00"
)

// ReminderService emails owners of pending tasks that are due within the hour.
// Tasks already past due are included; nothing records that a reminder went out.
type ReminderService struct {
	tasks  TaskStore
	mailer mailer.Mailer
	from   string
	now    func() time.Time
	loc    *time.Location
}

func NewReminderService(tasks TaskStore, m mailer.Mailer, from string, now func() time.Time, loc *time.Location) *ReminderService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{tasks: tasks, mailer: m, from: from, now: now, loc: loc}
}

// Run sends one reminder per selected task and returns how many were sent.
// The first delivery failure aborts the remaining sends.
func (s *ReminderService) Run(ctx context.Context) (int, error) {
	cutoff := s.now().Add(reminderLead)
	tasks, err := s.tasks.ListPendingDueBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list reminder tasks: %w", err)
	}

	sent := 0
	for _, t := range tasks {
		if err := s.mailer.Send(ctx, s.message(t)); err != nil {
			logger.ErrorLogger.Error("Reminder email failed",
				zap.Int("task_id", t.ID), zap.Int("sent", sent), zap.Error(err))
			return sent, fmt.Errorf("send reminder for task %d: %w", t.ID, err)
		}
		sent++
	}
	logger.SystemLogger.Info("Reminder run finished", zap.Int("sent", sent), zap.Time("cutoff", cutoff))
	return sent, nil
}

func (s *ReminderService) message(t models.Task) mailer.Message {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.In(s.loc).Format(reminderLayout)
	}
	return mailer.Message{
		Subject: fmt.Sprintf("Reminder: Task '%s' is due soon", t.Title),
		Body:    fmt.Sprintf("Your task '%s' is due on %s. Please complete it on time.", t.Title, due),
		From:    s.from,
		To:      []string{t.OwnerEmail},
	}
}
