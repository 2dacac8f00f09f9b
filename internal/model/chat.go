package model

import (
	"time"
)

// SessionMessage is one chat line exchanged inside a learning session.
// swagger:model SessionMessage
type SessionMessage struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  uint      `gorm:"index:idx_session_created;not null" json:"session"`
	SenderID   uint      `gorm:"index;not null" json:"sender_id"`
	Sender     User      `gorm:"foreignKey:SenderID" json:"sender"`
	SenderName string    `gorm:"-" json:"sender_name"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"index:idx_session_created" json:"created_at"`
}

func (SessionMessage) TableName() string {
	return "session_messages"
}

func (m *SessionMessage) FillDerived() {
	m.SenderName = m.Sender.DisplayName()
}
