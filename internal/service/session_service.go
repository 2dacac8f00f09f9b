package service

import (
	"context"
	"errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"
	"skillswap/internal/workflow"
	"skillswap/pkg/logger"
	"skillswap/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BookInput struct {
	SkillID           uint       `json:"skill_id" binding:"required"`
	ScheduledDatetime *time.Time `json:"scheduled_datetime"`
	LearnerMessage    string     `json:"learner_message"`
}

// ActionInput carries the optional payload of a session action.
type ActionInput struct {
	MentorResponse    string     `json:"mentor_response"`
	ScheduledDatetime *time.Time `json:"scheduled_datetime"`
}

// Session list scopes.
const (
	ScopeAll     = ""
	ScopeLearner = "learner"
	ScopeMentor  = "mentor"
)

type SessionService struct {
	SessionRepo *repository.SessionRepository
	SkillRepo   *repository.SkillRepository
	Notifier    Notifier
}

func NewSessionService(sessionRepo *repository.SessionRepository, skillRepo *repository.SkillRepository, notifier Notifier) *SessionService {
	return &SessionService{
		SessionRepo: sessionRepo,
		SkillRepo:   skillRepo,
		Notifier:    notifier,
	}
}

func (s *SessionService) List(userID uint, scope string) ([]model.LearningSession, error) {
	switch scope {
	case ScopeLearner:
		return s.SessionRepo.ListAsLearner(userID)
	case ScopeMentor:
		return s.SessionRepo.ListAsMentor(userID)
	}
	return s.SessionRepo.ListForUser(userID)
}

// Get loads a session visible to userID.
func (s *SessionService) Get(userID, id uint) (*model.LearningSession, error) {
	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsParticipant(userID) {
		return nil, workflow.ErrNotParticipant
	}
	return session, nil
}

// Book creates a pending session for learnerID; the mentor is the skill's owner.
func (s *SessionService) Book(learnerID uint, in BookInput) (*model.LearningSession, error) {
	if in.ScheduledDatetime == nil || in.ScheduledDatetime.IsZero() {
		return nil, util.ErrScheduleRequired
	}
	skill, err := s.SkillRepo.FindByID(in.SkillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}
	if skill.MentorID == learnerID {
		return nil, util.ErrOwnSkillBooking
	}

	session := &model.LearningSession{
		SkillID:           skill.ID,
		LearnerID:         learnerID,
		MentorID:          skill.MentorID,
		ScheduledDatetime: in.ScheduledDatetime.UTC(),
		Status:            model.SessionPending,
		LearnerMessage:    strings.TrimSpace(in.LearnerMessage),
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	monitoring.SessionTransitions.WithLabelValues("book", string(model.SessionPending)).Inc()
	return s.SessionRepo.FindByID(session.ID)
}

// Act applies a workflow action. The status change is a conditional update,
// so of two concurrent actions on the same status only one succeeds.
func (s *SessionService) Act(actorID, id uint, action workflow.Action, in ActionInput) (*model.LearningSession, error) {
	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsParticipant(actorID) {
		return nil, workflow.ErrNotParticipant
	}

	next, err := workflow.Apply(session, actorID, action, in.MentorResponse)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	switch action {
	case workflow.Approve, workflow.Reject:
		fields["mentor_response"] = strings.TrimSpace(in.MentorResponse)
	case workflow.EditTime:
		if in.ScheduledDatetime == nil || in.ScheduledDatetime.IsZero() {
			return nil, util.ErrScheduleRequired
		}
		fields["scheduled_datetime"] = in.ScheduledDatetime.UTC()
		fields["reminder_sent_at"] = nil
	}

	ok, err := s.SessionRepo.Transition(id, session.Status, next, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, workflow.ErrInvalidTransition
	}
	monitoring.SessionTransitions.WithLabelValues(string(action), string(next)).Inc()
	logger.Log.Info("Session transition",
		zap.Uint("sessionId", id),
		zap.String("action", string(action)),
		zap.String("from", string(session.Status)),
		zap.String("to", string(next)),
	)

	updated, err := s.SessionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if action == workflow.Approve && s.Notifier != nil {
		go func(sess *model.LearningSession) {
			if err := s.Notifier.SessionApproved(context.Background(), sess); err != nil {
				logger.Log.Warn("Booking confirmation failed", zap.Uint("sessionId", sess.ID), zap.Error(err))
			}
		}(copySession(updated))
	}
	return updated, nil
}

func copySession(s *model.LearningSession) *model.LearningSession {
	c := *s
	return &c
}
