package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderSentOncePerSession(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	due := f.book(t, now.Add(30*time.Minute))
	later := f.book(t, now.Add(3*time.Hour))
	pending := f.book(t, now.Add(31*time.Minute))
	for _, id := range []uint{due.ID, later.ID} {
		_, err := f.sessionSvc.Act(f.mentor.ID, id, workflow.Approve, ActionInput{})
		require.NoError(t, err)
	}

	svc := NewReminderService(f.sessions, f.notifier, config.ReminderConfig{Lead: 30 * time.Minute, Window: 2 * time.Minute})
	svc.now = func() time.Time { return now }

	n, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint{due.ID}, f.notifier.remindedIDs())
	assert.NotContains(t, f.notifier.remindedIDs(), pending.ID)

	n, err = svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "already reminded")

	s, err := f.sessions.FindByID(due.ID)
	require.NoError(t, err)
	assert.NotNil(t, s.ReminderSentAt)
}

func TestReminderRetriedAfterFailure(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := f.book(t, now.Add(30*time.Minute))
	_, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Approve, ActionInput{})
	require.NoError(t, err)

	svc := NewReminderService(f.sessions, f.notifier, config.ReminderConfig{Lead: 30 * time.Minute, Window: 2 * time.Minute})
	svc.now = func() time.Time { return now }

	f.notifier.mu.Lock()
	f.notifier.fail = errors.New("smtp down")
	f.notifier.mu.Unlock()

	n, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	f.notifier.mu.Lock()
	f.notifier.fail = nil
	f.notifier.mu.Unlock()

	n, err = svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConsecutiveSweepsLeaveNoGap(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// between now+Lead+Window and (now+5m)+Lead-Window
	s := f.book(t, now.Add(32*time.Minute+30*time.Second))
	_, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Approve, ActionInput{})
	require.NoError(t, err)

	svc := NewReminderService(f.sessions, f.notifier, config.ReminderConfig{
		Interval: 5 * time.Minute,
		Lead:     30 * time.Minute,
		Window:   2 * time.Minute,
	})

	total := 0
	for _, at := range []time.Time{now, now.Add(5 * time.Minute), now.Add(10 * time.Minute)} {
		at := at
		svc.now = func() time.Time { return at }
		n, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, []uint{s.ID}, f.notifier.remindedIDs())
}
