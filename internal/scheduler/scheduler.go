// Package scheduler runs the keep-alive ping and the daily reminder sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/config"
	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
	"github.com/mamadbah2/hannan/pkg/clients/whatsapp"
)

// Pinger hits the keep-alive URL.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RecordService is the subset of the records service the reminder sweep needs.
type RecordService interface {
	List(ctx context.Context, module string) ([]models.Record, error)
	Create(ctx context.Context, module string, fields models.Record) (models.Record, error)
	Update(ctx context.Context, module, id string, fields models.Record) (models.Record, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.Config
	pinger   Pinger
	records  RecordService
	notifier whatsapp.Notifier
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. pinger and notifier may be nil.
func NewScheduler(cfg config.Config, pinger Pinger, records RecordService, notifier whatsapp.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reminders.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Reminders.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		pinger:   pinger,
		records:  records,
		notifier: notifier,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.pinger != nil && s.cfg.KeepAlive.URL != "" {
		if _, err := s.cron.AddFunc(s.cfg.KeepAlive.Schedule, s.keepAlive); err != nil {
			return fmt.Errorf("schedule keep-alive: %w", err)
		}
		s.logger.Info("keep-alive scheduled", zap.String("schedule", s.cfg.KeepAlive.Schedule), zap.String("url", s.cfg.KeepAlive.URL))
	}

	if _, err := s.cron.AddFunc(s.cfg.Reminders.CronSchedule, s.reminderSweep); err != nil {
		return fmt.Errorf("schedule reminder sweep: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) keepAlive() {
	timeout := s.cfg.KeepAlive.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// failures are counted and logged by the pinger
	_ = s.pinger.Ping(ctx)
}

func (s *Scheduler) reminderSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	notified, err := s.SweepReminders(ctx)
	if err != nil {
		s.logger.Error("reminder sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("reminder sweep finished", zap.Int("notified", notified))
}

// SweepReminders turns every pending reminder due today or earlier into a
// notification and marks it Notified. It returns the number of reminders handled.
func (s *Scheduler) SweepReminders(ctx context.Context) (int, error) {
	reminders, err := s.records.List(ctx, modules.Reminders)
	if err != nil {
		return 0, fmt.Errorf("load reminders: %w", err)
	}

	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	notified := 0
	for _, rem := range reminders {
		if rem.String("status") != modules.ReminderPending {
			continue
		}
		due, ok := rem.Time("reminder_date")
		if !ok || due.After(today) {
			continue
		}

		id := rem.String("reminder_id")
		notice := whatsapp.Notice{
			Title:       rem.String("title"),
			Date:        due.Format(models.DateLayout),
			Description: rem.String("description"),
			Module:      rem.String("related_module"),
			RecordID:    rem.String("related_id"),
		}

		message := notice.Description
		if message == "" {
			message = "Due " + notice.Date
		}
		_, err := s.records.Create(ctx, modules.Notifications, models.Record{
			"title":          notice.Title,
			"message":        message,
			"type":           "reminder",
			"related_module": notice.Module,
			"related_id":     notice.RecordID,
			"created_at":     now.Format(models.DateTimeLayout),
		})
		if err != nil {
			s.logger.Error("failed to create reminder notification", zap.String("reminder_id", id), zap.Error(err))
			continue
		}

		if _, err := s.records.Update(ctx, modules.Reminders, id, models.Record{"status": modules.ReminderNotified}); err != nil {
			s.logger.Error("failed to mark reminder notified", zap.String("reminder_id", id), zap.Error(err))
			continue
		}
		notified++

		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, notice); err != nil {
				s.logger.Warn("whatsapp reminder notice failed", zap.String("reminder_id", id), zap.Error(err))
			}
		}
	}

	return notified, nil
}
