package service

import (
	"context"
	"skillswap/internal/config"
	"skillswap/internal/repository"
	"skillswap/pkg/logger"
	"skillswap/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// ReminderService notifies learners shortly before approved sessions start.
type ReminderService struct {
	SessionRepo *repository.SessionRepository
	Notifier    Notifier
	Lead        time.Duration
	Window      time.Duration
	Interval    time.Duration
	now         func() time.Time
}

func NewReminderService(sessionRepo *repository.SessionRepository, notifier Notifier, cfg config.ReminderConfig) *ReminderService {
	return &ReminderService{
		SessionRepo: sessionRepo,
		Notifier:    notifier,
		Lead:        cfg.Lead,
		Window:      cfg.Window,
		Interval:    cfg.Interval,
		now:         time.Now,
	}
}

// RunOnce sends reminders for approved sessions starting around Lead from
// now and marks them so each session is reminded at most once. The range
// reaches back one sweep interval so consecutive sweeps leave no gap.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	target := s.now().UTC().Add(s.Lead)
	back := s.Window
	if s.Interval > back {
		back = s.Interval
	}
	due, err := s.SessionRepo.DueForReminder(target.Add(-back), target.Add(s.Window))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		session := &due[i]
		if err := s.Notifier.SessionReminder(ctx, session); err != nil {
			logger.Log.Warn("Session reminder failed", zap.Uint("sessionId", session.ID), zap.Error(err))
			continue
		}
		if err := s.SessionRepo.MarkReminded(session.ID, s.now().UTC()); err != nil {
			return sent, err
		}
		monitoring.RemindersSent.Inc()
		sent++
	}
	return sent, nil
}

// Start runs RunOnce every interval until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.RunOnce(ctx)
			if err != nil {
				logger.Log.Error("Reminder sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Info("Session reminders sent", zap.Int("count", n))
			}
		}
	}
}
