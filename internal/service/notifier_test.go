package service

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *model.LearningSession {
	return &model.LearningSession{
		BaseModel:         model.BaseModel{ID: 7},
		Skill:             model.Skill{Title: "Guitar Basics", DurationMinutes: 45},
		Learner:           model.User{Username: "leo", FirstName: "Leo", Email: "leo@example.com"},
		Mentor:            model.User{Username: "maria", FirstName: "Maria", LastName: "Lopez"},
		ScheduledDatetime: time.Date(2026, 5, 4, 17, 30, 0, 0, time.UTC),
	}
}

func TestApprovalMail(t *testing.T) {
	m := ApprovalMail(sampleSession())

	assert.Equal(t, "leo@example.com", m.To)
	assert.Equal(t, "Session Approved: Guitar Basics", m.Subject)
	assert.Contains(t, m.Body, "Hi Leo,")
	assert.Contains(t, m.Body, "- Mentor: Maria Lopez")
	assert.Contains(t, m.Body, "- Date & Time: May 04, 2026 at 05:30 PM")
	assert.Contains(t, m.Body, "- Duration: 45 minutes")
	assert.Contains(t, m.Body, "Looking forward to our session!")
}

func TestReminderMail(t *testing.T) {
	m := ReminderMail(sampleSession())

	assert.Equal(t, "Session Reminder: Guitar Basics in 30 minutes", m.Subject)
	assert.Contains(t, m.Body, "- Time: 05:30 PM")
}

func TestSMTPNotifierSendsPlainText(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Host: "mail.local", Port: 2525, From: "noreply@skillswap.com"})

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Nil(t, a, "no auth without a username")
		return nil
	}

	require.NoError(t, n.SessionApproved(context.Background(), sampleSession()))
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, []string{"leo@example.com"}, gotTo)
	assert.True(t, strings.HasPrefix(gotMsg, "From: noreply@skillswap.com\r\n"))
	assert.Contains(t, gotMsg, "Subject: Session Approved: Guitar Basics\r\n")
}

func TestSMTPNotifierErrors(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Host: "mail.local", Port: 25})
	n.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := n.SessionReminder(context.Background(), sampleSession())
	assert.ErrorContains(t, err, "refused")

	s := sampleSession()
	s.Learner.Email = ""
	assert.Error(t, n.SessionReminder(context.Background(), s))
}

func TestNewNotifierPicksTransport(t *testing.T) {
	_, ok := NewNotifier(&config.Config{}).(LogNotifier)
	assert.True(t, ok)

	_, ok = NewNotifier(&config.Config{Mail: config.MailConfig{Host: "smtp.example.com"}}).(*SMTPNotifier)
	assert.True(t, ok)
}
