package service

import (
	"context"
	"fmt"
	"net/smtp"
	"skillswap/internal/config"
	"skillswap/internal/model"
	"skillswap/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// Notifier delivers session notifications to the learner.
type Notifier interface {
	SessionApproved(ctx context.Context, s *model.LearningSession) error
	SessionReminder(ctx context.Context, s *model.LearningSession) error
}

// Mail is a rendered notification.
type Mail struct {
	To      string
	Subject string
	Body    string
}

func firstNameOr(u *model.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

func ApprovalMail(s *model.LearningSession) Mail {
	response := s.MentorResponse
	if response == "" {
		response = "Looking forward to our session!"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstNameOr(&s.Learner))
	b.WriteString("Great news! Your learning session has been approved.\n\n")
	b.WriteString("Session Details:\n")
	fmt.Fprintf(&b, "- Skill: %s\n", s.Skill.Title)
	fmt.Fprintf(&b, "- Mentor: %s\n", s.Mentor.DisplayName())
	fmt.Fprintf(&b, "- Date & Time: %s\n", s.ScheduledDatetime.Format("January 02, 2006 at 03:04 PM"))
	fmt.Fprintf(&b, "- Duration: %d minutes\n\n", s.Skill.DurationMinutes)
	fmt.Fprintf(&b, "Mentor's Response: %s\n\n", response)
	b.WriteString("Best regards,\nThe SkillSwap Team\n")
	return Mail{
		To:      s.Learner.Email,
		Subject: "Session Approved: " + s.Skill.Title,
		Body:    b.String(),
	}
}

func ReminderMail(s *model.LearningSession) Mail {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstNameOr(&s.Learner))
	b.WriteString("This is a friendly reminder that your learning session starts in 30 minutes.\n\n")
	b.WriteString("Session Details:\n")
	fmt.Fprintf(&b, "- Skill: %s\n", s.Skill.Title)
	fmt.Fprintf(&b, "- Mentor: %s\n", s.Mentor.DisplayName())
	fmt.Fprintf(&b, "- Time: %s\n", s.ScheduledDatetime.Format("03:04 PM"))
	fmt.Fprintf(&b, "- Duration: %d minutes\n\n", s.Skill.DurationMinutes)
	b.WriteString("Please be ready to start on time. If you need to reschedule or cancel, please contact your mentor as soon as possible.\n\n")
	b.WriteString("Best regards,\nThe SkillSwap Team\n")
	return Mail{
		To:      s.Learner.Email,
		Subject: "Session Reminder: " + s.Skill.Title + " in 30 minutes",
		Body:    b.String(),
	}
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func (LogNotifier) SessionApproved(ctx context.Context, s *model.LearningSession) error {
	return logMail(ApprovalMail(s), s.ID)
}

func (LogNotifier) SessionReminder(ctx context.Context, s *model.LearningSession) error {
	return logMail(ReminderMail(s), s.ID)
}

func logMail(m Mail, sessionID uint) error {
	logger.Log.Info("Notification",
		zap.Uint("sessionId", sessionID),
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
	)
	return nil
}

// SMTPNotifier sends notifications as plain text mail.
type SMTPNotifier struct {
	Cfg  config.MailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{Cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNotifier) SessionApproved(ctx context.Context, s *model.LearningSession) error {
	return n.deliver(ApprovalMail(s))
}

func (n *SMTPNotifier) SessionReminder(ctx context.Context, s *model.LearningSession) error {
	return n.deliver(ReminderMail(s))
}

func (n *SMTPNotifier) deliver(m Mail) error {
	if m.To == "" {
		return fmt.Errorf("recipient has no email address")
	}
	var auth smtp.Auth
	if n.Cfg.Username != "" {
		auth = smtp.PlainAuth("", n.Cfg.Username, n.Cfg.Password, n.Cfg.Host)
	}
	msg := "From: " + n.Cfg.From + "\r\n" +
		"To: " + m.To + "\r\n" +
		"Subject: " + m.Subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
		strings.ReplaceAll(m.Body, "\n", "\r\n")
	addr := fmt.Sprintf("%s:%d", n.Cfg.Host, n.Cfg.Port)
	if err := n.send(addr, auth, n.Cfg.From, []string{m.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}

// NewNotifier picks SMTP when a mail host is configured.
func NewNotifier(cfg *config.Config) Notifier {
	if cfg.Mail.Host != "" {
		return NewSMTPNotifier(cfg.Mail)
	}
	return LogNotifier{}
}
