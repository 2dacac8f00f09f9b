package model

import "time"

type SessionStatus string

const (
	SessionPending   SessionStatus = "PENDING"
	SessionApproved  SessionStatus = "APPROVED"
	SessionRejected  SessionStatus = "REJECTED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionApproved, SessionRejected, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// swagger:model LearningSession
type LearningSession struct {
	BaseModel
	SkillID           uint          `gorm:"index;not null" json:"skill_id"`
	Skill             Skill         `gorm:"foreignKey:SkillID" json:"skill"`
	SkillTitle        string        `gorm:"-" json:"skill_title"`
	LearnerID         uint          `gorm:"index;not null" json:"learner_id"`
	Learner           User          `gorm:"foreignKey:LearnerID" json:"learner"`
	MentorID          uint          `gorm:"index;not null" json:"mentor_id"`
	Mentor            User          `gorm:"foreignKey:MentorID" json:"mentor"`
	ScheduledDatetime time.Time     `gorm:"index;not null" json:"scheduled_datetime"`
	Status            SessionStatus `gorm:"type:varchar(10);index;default:'PENDING'" json:"status"`
	LearnerMessage    string        `gorm:"type:text" json:"learner_message"`
	MentorResponse    string        `gorm:"type:text" json:"mentor_response"`
	ReminderSentAt    *time.Time    `json:"-"`
}

func (LearningSession) TableName() string {
	return "learning_sessions"
}

// IsParticipant reports whether userID is the learner or the mentor.
func (s *LearningSession) IsParticipant(userID uint) bool {
	return userID != 0 && (s.LearnerID == userID || s.MentorID == userID)
}

// Counterpart returns the other participant's ID, or 0 for outsiders.
func (s *LearningSession) Counterpart(userID uint) uint {
	switch userID {
	case s.LearnerID:
		return s.MentorID
	case s.MentorID:
		return s.LearnerID
	}
	return 0
}

func (s *LearningSession) FillDerived() {
	s.SkillTitle = s.Skill.Title
	s.Skill.FillDerived()
}
