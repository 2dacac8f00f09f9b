package repository

import (
	"skillswap/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) preloaded() *gorm.DB {
	return r.DB.
		Preload("Skill", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Skill.Mentor").
		Preload("Skill.Category").
		Preload("Learner").
		Preload("Mentor")
}

func fill(sessions []model.LearningSession) []model.LearningSession {
	for i := range sessions {
		sessions[i].FillDerived()
	}
	return sessions
}

// ListForUser returns sessions where the user is learner or mentor, newest first.
func (r *SessionRepository) ListForUser(userID uint) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.preloaded().
		Where("learner_id = ? OR mentor_id = ?", userID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&sessions).Error
	return fill(sessions), err
}

func (r *SessionRepository) ListAsLearner(userID uint) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.preloaded().
		Where("learner_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&sessions).Error
	return fill(sessions), err
}

func (r *SessionRepository) ListAsMentor(userID uint) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.preloaded().
		Where("mentor_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&sessions).Error
	return fill(sessions), err
}

func (r *SessionRepository) FindByID(id uint) (*model.LearningSession, error) {
	var session model.LearningSession
	if err := r.preloaded().First(&session, id).Error; err != nil {
		return nil, err
	}
	session.FillDerived()
	return &session, nil
}

func (r *SessionRepository) Create(session *model.LearningSession) error {
	return r.DB.Omit(clause.Associations).Create(session).Error
}

// Transition moves a session from one status to another only if it is still in
// from. It reports false when another writer changed the status first.
func (r *SessionRepository) Transition(id uint, from, to model.SessionStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.DB.Model(&model.LearningSession{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DueForReminder lists approved sessions starting in [from, to] that have not
// been reminded yet.
func (r *SessionRepository) DueForReminder(from, to time.Time) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.preloaded().
		Where("status = ? AND reminder_sent_at IS NULL", model.SessionApproved).
		Where("scheduled_datetime BETWEEN ? AND ?", from, to).
		Order("scheduled_datetime ASC").
		Find(&sessions).Error
	return fill(sessions), err
}

func (r *SessionRepository) MarkReminded(id uint, at time.Time) error {
	return r.DB.Model(&model.LearningSession{}).
		Where("id = ?", id).
		UpdateColumn("reminder_sent_at", at).Error
}
